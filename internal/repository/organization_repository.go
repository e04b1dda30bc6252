package repository

import (
	"context"
	"errors"
	"strings"

	"talentmatch/internal/database"
	"talentmatch/internal/domain/organization"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrOrganizationNotFound = errors.New("organization not found")

type OrganizationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (organization.Record, error)
	EnsureByName(ctx context.Context, rec organization.Record) (uuid.UUID, error)
}

type PostgresOrganizationRepository struct {
	db database.DB
}

func NewPostgresOrganizationRepository(db database.DB) *PostgresOrganizationRepository {
	return &PostgresOrganizationRepository{db: db}
}

func (r *PostgresOrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (organization.Record, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, COALESCE(size_category, ''), COALESCE(sector, ''), COALESCE(city, ''), created_at
		 FROM organizations
		 WHERE id = $1`,
		id,
	)

	var rec organization.Record
	err := row.Scan(&rec.ID, &rec.Name, &rec.SizeCategory, &rec.Sector, &rec.City, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return organization.Record{}, ErrOrganizationNotFound
		}
		return organization.Record{}, err
	}
	return rec, nil
}

// EnsureByName returns the id of the named organization, creating it on first
// sight. Descriptive fields are only filled when still empty.
func (r *PostgresOrganizationRepository) EnsureByName(ctx context.Context, rec organization.Record) (uuid.UUID, error) {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		return uuid.Nil, errors.New("empty organization name")
	}

	_, _ = r.db.Exec(ctx,
		`INSERT INTO organizations (id, name, size_category, sector, city)
		 VALUES (gen_random_uuid(), $1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''))
		 ON CONFLICT (name) DO UPDATE SET
			size_category = COALESCE(organizations.size_category, EXCLUDED.size_category),
			sector = COALESCE(organizations.sector, EXCLUDED.sector),
			city = COALESCE(organizations.city, EXCLUDED.city)`,
		name, rec.SizeCategory, rec.Sector, rec.City,
	)

	row := r.db.QueryRow(ctx, `SELECT id FROM organizations WHERE name = $1 LIMIT 1`, name)
	var id uuid.UUID
	if err := row.Scan(&id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
