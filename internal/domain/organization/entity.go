package organization

import (
	"time"

	"github.com/google/uuid"
)

type Record struct {
	ID           uuid.UUID
	Name         string
	SizeCategory string
	Sector       string
	City         string
	CreatedAt    time.Time
}
