package opportunity

import (
	"time"

	"github.com/google/uuid"
)

type Record struct {
	ID             uuid.UUID
	OrganizationID *uuid.UUID
	ExternalID     *string
	Title          string
	Sector         string
	Skills         []string
	ExperienceMin  *int
	ExperienceMax  *int
	SalaryMin      *int
	SalaryMax      *int
	WorkMode       string
	City           string
	Lat            *float64
	Lng            *float64
	ContractType   string
	Urgency        string
	StartDate      *time.Time
	ApplicantCount *int
	ProcessStage   string
	SourceURL      *string
	PostedAt       *time.Time
	CreatedAt      time.Time
}
