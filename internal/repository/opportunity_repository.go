package repository

import (
	"context"
	"errors"

	"talentmatch/internal/database"
	"talentmatch/internal/domain/opportunity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrOpportunityNotFound = errors.New("opportunity not found")

type OpportunityRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (opportunity.Record, error)
	ListRecent(ctx context.Context, limit, offset int) ([]opportunity.Record, error)
	Upsert(ctx context.Context, rec opportunity.Record) (uuid.UUID, error)
}

type PostgresOpportunityRepository struct {
	db database.DB
}

func NewPostgresOpportunityRepository(db database.DB) *PostgresOpportunityRepository {
	return &PostgresOpportunityRepository{db: db}
}

const opportunityColumns = `id, organization_id, external_id, title, COALESCE(sector, ''), skills,
	experience_min, experience_max, salary_min, salary_max,
	COALESCE(work_mode, ''), COALESCE(city, ''), lat, lng,
	COALESCE(contract_type, ''), COALESCE(urgency, ''), start_date,
	applicant_count, COALESCE(process_stage, ''), source_url, posted_at, created_at`

func (r *PostgresOpportunityRepository) GetByID(ctx context.Context, id uuid.UUID) (opportunity.Record, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE id = $1`,
		id,
	)

	rec, err := scanOpportunity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return opportunity.Record{}, ErrOpportunityNotFound
		}
		return opportunity.Record{}, err
	}
	return rec, nil
}

func (r *PostgresOpportunityRepository) ListRecent(ctx context.Context, limit, offset int) ([]opportunity.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+opportunityColumns+`
		 FROM opportunities
		 ORDER BY posted_at DESC NULLS LAST, created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]opportunity.Record, 0)
	for rows.Next() {
		rec, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Upsert inserts or refreshes a posting keyed by its source URL. Postings
// without a source URL are always inserted fresh.
func (r *PostgresOpportunityRepository) Upsert(ctx context.Context, rec opportunity.Record) (uuid.UUID, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	if rec.SourceURL == nil || *rec.SourceURL == "" {
		_, err := r.db.Exec(ctx,
			`INSERT INTO opportunities (
				id, organization_id, external_id, title, sector, skills,
				experience_min, experience_max, salary_min, salary_max,
				work_mode, city, lat, lng, contract_type, urgency, start_date,
				applicant_count, process_stage, source_url, posted_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`,
			rec.ID, rec.OrganizationID, rec.ExternalID, rec.Title, rec.Sector, rec.Skills,
			rec.ExperienceMin, rec.ExperienceMax, rec.SalaryMin, rec.SalaryMax,
			rec.WorkMode, rec.City, rec.Lat, rec.Lng, rec.ContractType, rec.Urgency, rec.StartDate,
			rec.ApplicantCount, rec.ProcessStage, rec.SourceURL, rec.PostedAt,
		)
		return rec.ID, err
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO opportunities (
			id, organization_id, external_id, title, sector, skills,
			experience_min, experience_max, salary_min, salary_max,
			work_mode, city, lat, lng, contract_type, urgency, start_date,
			applicant_count, process_stage, source_url, posted_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		ON CONFLICT (source_url) DO UPDATE SET
			organization_id = COALESCE(EXCLUDED.organization_id, opportunities.organization_id),
			external_id = COALESCE(EXCLUDED.external_id, opportunities.external_id),
			title = EXCLUDED.title,
			sector = COALESCE(EXCLUDED.sector, opportunities.sector),
			skills = EXCLUDED.skills,
			experience_min = COALESCE(EXCLUDED.experience_min, opportunities.experience_min),
			experience_max = COALESCE(EXCLUDED.experience_max, opportunities.experience_max),
			salary_min = COALESCE(EXCLUDED.salary_min, opportunities.salary_min),
			salary_max = COALESCE(EXCLUDED.salary_max, opportunities.salary_max),
			work_mode = COALESCE(EXCLUDED.work_mode, opportunities.work_mode),
			city = COALESCE(EXCLUDED.city, opportunities.city),
			lat = COALESCE(EXCLUDED.lat, opportunities.lat),
			lng = COALESCE(EXCLUDED.lng, opportunities.lng),
			contract_type = COALESCE(EXCLUDED.contract_type, opportunities.contract_type),
			urgency = COALESCE(EXCLUDED.urgency, opportunities.urgency),
			start_date = COALESCE(EXCLUDED.start_date, opportunities.start_date),
			applicant_count = COALESCE(EXCLUDED.applicant_count, opportunities.applicant_count),
			process_stage = COALESCE(EXCLUDED.process_stage, opportunities.process_stage),
			posted_at = COALESCE(EXCLUDED.posted_at, opportunities.posted_at)
		RETURNING id`,
		rec.ID, rec.OrganizationID, rec.ExternalID, rec.Title, rec.Sector, rec.Skills,
		rec.ExperienceMin, rec.ExperienceMax, rec.SalaryMin, rec.SalaryMax,
		rec.WorkMode, rec.City, rec.Lat, rec.Lng, rec.ContractType, rec.Urgency, rec.StartDate,
		rec.ApplicantCount, rec.ProcessStage, rec.SourceURL, rec.PostedAt,
	)

	var id uuid.UUID
	if err := row.Scan(&id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func scanOpportunity(row database.Row) (opportunity.Record, error) {
	var rec opportunity.Record
	err := row.Scan(
		&rec.ID, &rec.OrganizationID, &rec.ExternalID, &rec.Title, &rec.Sector, &rec.Skills,
		&rec.ExperienceMin, &rec.ExperienceMax, &rec.SalaryMin, &rec.SalaryMax,
		&rec.WorkMode, &rec.City, &rec.Lat, &rec.Lng,
		&rec.ContractType, &rec.Urgency, &rec.StartDate,
		&rec.ApplicantCount, &rec.ProcessStage, &rec.SourceURL, &rec.PostedAt, &rec.CreatedAt,
	)
	return rec, err
}
