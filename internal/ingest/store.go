package ingest

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"talentmatch/internal/database"
	"talentmatch/internal/domain/opportunity"
	"talentmatch/internal/domain/organization"
	"talentmatch/internal/metrics"
	"talentmatch/internal/repository"
)

// Store persists scraped postings and tracks ingest runs.
type Store struct {
	db            database.DB
	opportunities repository.OpportunityRepository
	organizations repository.OrganizationRepository
	metrics       *metrics.Manager
	logger        *zap.Logger
}

func NewStore(
	db database.DB,
	opportunities repository.OpportunityRepository,
	organizations repository.OrganizationRepository,
	m *metrics.Manager,
	logger *zap.Logger,
) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		db:            db,
		opportunities: opportunities,
		organizations: organizations,
		metrics:       m,
		logger:        logger,
	}
}

func (s *Store) StartRun(ctx context.Context, source string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.Exec(ctx,
		`INSERT INTO ingest_runs (id, source, started_at, status) VALUES ($1, $2, $3, $4)`,
		id, strings.TrimSpace(source), time.Now().UTC(), "running",
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (s *Store) FinishRun(ctx context.Context, runID uuid.UUID, status string, inserted, failed int) error {
	if runID == uuid.Nil {
		return nil
	}
	_, err := s.db.Exec(ctx,
		`UPDATE ingest_runs SET finished_at = $2, status = $3, inserted = $4, failed = $5 WHERE id = $1`,
		runID, time.Now().UTC(), strings.TrimSpace(status), inserted, failed,
	)
	return err
}

// SavePosting resolves the hiring organization and upserts the posting.
func (s *Store) SavePosting(ctx context.Context, rec opportunity.Record, orgName string) error {
	orgName = strings.TrimSpace(orgName)
	if orgName != "" {
		orgID, err := s.organizations.EnsureByName(ctx, organization.Record{
			Name:   orgName,
			Sector: rec.Sector,
			City:   rec.City,
		})
		if err != nil {
			s.metrics.IngestFailed()
			return err
		}
		rec.OrganizationID = &orgID
	}

	if _, err := s.opportunities.Upsert(ctx, rec); err != nil {
		s.metrics.IngestFailed()
		return err
	}

	s.metrics.IngestUpserted()
	s.logger.Debug("posting upserted",
		zap.String("title", rec.Title),
		zap.String("organization", orgName),
	)
	return nil
}
