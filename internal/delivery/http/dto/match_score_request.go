package dto

// MatchScoreRequest is the body of POST /api/v1/matches/score.
type MatchScoreRequest struct {
	CandidateID      string `json:"candidate_id"`
	OpportunityID    string `json:"opportunity_id"`
	ForceRefresh     bool   `json:"force_refresh"`
	DynamicWeighting *bool  `json:"dynamic_weighting"`
}
