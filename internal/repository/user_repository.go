package repository

import (
	"context"
	"errors"

	"talentmatch/internal/database"
	"talentmatch/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, email, full_name, COALESCE(organization_name, ''), role, password_hash, created_at, updated_at`

func (r *PostgresUserRepository) CreateUser(ctx context.Context, u user.User) error {
	var org *string
	if u.Organization != "" {
		org = &u.Organization
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, full_name, organization_name, role, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.FullName, org, u.Role, u.PasswordHash,
	)
	return err
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	)
	return scanUser(row)
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Organization, &u.Role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return u, nil
}
