package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type MatchComputedEvent struct {
	Type          string `json:"type"`
	CandidateID   string `json:"candidate_id"`
	OpportunityID string `json:"opportunity_id"`
	Percentage    int    `json:"percentage"`
	QualityLevel  string `json:"quality_level"`
	Timestamp     string `json:"timestamp"`
}

var defaultHub atomic.Pointer[Hub]

func SetDefaultHub(h *Hub) {
	defaultHub.Store(h)
}

// NotifyMatchComputed pushes a freshly computed score to connected clients.
// Safe to call before any hub is installed.
func NotifyMatchComputed(candidateID, opportunityID uuid.UUID, percentage int, qualityLevel string) {
	h := defaultHub.Load()
	if h == nil {
		return
	}

	evt := MatchComputedEvent{
		Type:          "match_computed",
		CandidateID:   candidateID.String(),
		OpportunityID: opportunityID.String(),
		Percentage:    percentage,
		QualityLevel:  qualityLevel,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}

	h.Broadcast(b)
}
