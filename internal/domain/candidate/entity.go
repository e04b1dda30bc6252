package candidate

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID                     uuid.UUID
	FullName               string
	Headline               string
	Skills                 []string
	ExperienceYears        int
	City                   string
	Lat                    *float64
	Lng                    *float64
	SalaryMin              *int
	SalaryMax              *int
	Motivations            []string
	PreferredCompanySizes  []string
	PreferredWorkModes     []string
	PreferredSectors       []string
	PreferredContractTypes []string
	AvailableFrom          *time.Time
	NoticePeriodDays       *int
	MaxCommuteMinutes      *int
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
