package repository

import (
	"context"
	"errors"

	"talentmatch/internal/database"
	"talentmatch/internal/domain/candidate"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrCandidateNotFound = errors.New("candidate not found")

type CandidateRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (candidate.Profile, error)
}

type PostgresCandidateRepository struct {
	db database.DB
}

func NewPostgresCandidateRepository(db database.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

func (r *PostgresCandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (candidate.Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, full_name, COALESCE(headline, ''), skills, experience_years,
		        COALESCE(city, ''), lat, lng, salary_min, salary_max,
		        motivations, preferred_company_sizes, preferred_work_modes,
		        preferred_sectors, preferred_contract_types,
		        available_from, notice_period_days, max_commute_minutes,
		        created_at, updated_at
		 FROM candidates
		 WHERE id = $1`,
		id,
	)

	var c candidate.Profile
	err := row.Scan(
		&c.ID, &c.FullName, &c.Headline, &c.Skills, &c.ExperienceYears,
		&c.City, &c.Lat, &c.Lng, &c.SalaryMin, &c.SalaryMax,
		&c.Motivations, &c.PreferredCompanySizes, &c.PreferredWorkModes,
		&c.PreferredSectors, &c.PreferredContractTypes,
		&c.AvailableFrom, &c.NoticePeriodDays, &c.MaxCommuteMinutes,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return candidate.Profile{}, ErrCandidateNotFound
		}
		return candidate.Profile{}, err
	}
	return c, nil
}
