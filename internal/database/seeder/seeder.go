// Package seeder loads a small demo dataset so a fresh install has something
// to score against.
package seeder

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"talentmatch/internal/database"
	"talentmatch/internal/repository"
)

type Seeder struct {
	db     database.DB
	logger *zap.Logger
}

func New(db database.DB, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{db: db, logger: logger}
}

// Run is idempotent: it only writes when the candidates table is empty.
func (s *Seeder) Run(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("nil seeder/db")
	}

	var count int
	row := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM candidates`)
	if err := row.Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		s.logger.Info("seed skipped, candidates already present", zap.Int("count", count))
		return nil
	}

	orgs := repository.NewPostgresOrganizationRepository(s.db)
	opps := repository.NewPostgresOpportunityRepository(s.db)

	orgIDs := make(map[string]uuid.UUID, len(demoOrganizations))
	for _, org := range demoOrganizations {
		id, err := orgs.EnsureByName(ctx, org)
		if err != nil {
			return fmt.Errorf("seed organization %s: %w", org.Name, err)
		}
		orgIDs[org.Name] = id
	}

	for i, seed := range demoOpportunities {
		rec := seed.record
		if id, ok := orgIDs[seed.orgName]; ok {
			rec.OrganizationID = &id
		}
		if _, err := opps.Upsert(ctx, rec); err != nil {
			return fmt.Errorf("seed opportunity %d: %w", i, err)
		}
	}

	for i, cand := range demoCandidates {
		_, err := s.db.Exec(ctx,
			`INSERT INTO candidates (
				id, full_name, headline, skills, experience_years, city, lat, lng,
				salary_min, salary_max, motivations,
				preferred_company_sizes, preferred_work_modes, preferred_sectors, preferred_contract_types,
				notice_period_days, max_commute_minutes
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
			cand.ID, cand.FullName, cand.Headline, cand.Skills, cand.ExperienceYears,
			cand.City, cand.Lat, cand.Lng, cand.SalaryMin, cand.SalaryMax, cand.Motivations,
			cand.PreferredCompanySizes, cand.PreferredWorkModes, cand.PreferredSectors, cand.PreferredContractTypes,
			cand.NoticePeriodDays, cand.MaxCommuteMinutes,
		)
		if err != nil {
			return fmt.Errorf("seed candidate %d: %w", i, err)
		}
	}

	s.logger.Info("demo data seeded",
		zap.Int("organizations", len(demoOrganizations)),
		zap.Int("opportunities", len(demoOpportunities)),
		zap.Int("candidates", len(demoCandidates)),
	)
	return nil
}
