package handler

import (
	"errors"
	"strconv"
	"strings"

	"talentmatch/internal/delivery/http/dto"
	"talentmatch/internal/delivery/http/middleware"
	"talentmatch/internal/domain/matching"
	"talentmatch/internal/pkg/response"
	"talentmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchHandler struct {
	uc usecase.MatchUsecase
}

func NewMatchHandler(uc usecase.MatchUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/matches/score", h.Score)
	r.Get("/candidates/:candidateID/opportunities/:opportunityID/match", h.GetPair)
	r.Get("/candidates/:candidateID/matches", h.Rank)
	r.Delete("/candidates/:candidateID/opportunities/:opportunityID/match/cache", h.InvalidateCache)
}

func (h *MatchHandler) Score(c fiber.Ctx) error {
	var req dto.MatchScoreRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	candID, err := uuid.Parse(strings.TrimSpace(req.CandidateID))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid candidate_id", nil, err)
	}
	oppID, err := uuid.Parse(strings.TrimSpace(req.OpportunityID))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid opportunity_id", nil, err)
	}

	opts := matching.Options{
		ForceRefresh:     req.ForceRefresh,
		DynamicWeighting: req.DynamicWeighting,
	}

	result, err := h.uc.ScorePair(c.Context(), candID, oppID, opts)
	if err != nil {
		return mapMatchUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, result)
}

func (h *MatchHandler) GetPair(c fiber.Ctx) error {
	candID, oppID, err := pairIDsFromParams(c)
	if err != nil {
		return err
	}

	result, err := h.uc.ScorePair(c.Context(), candID, oppID, optionsFromQuery(c))
	if err != nil {
		return mapMatchUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, result)
}

func (h *MatchHandler) Rank(c fiber.Ctx) error {
	candID, err := uuid.Parse(c.Params("candidateID"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid candidate id", nil, err)
	}

	limit := 10
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	results, err := h.uc.RankOpportunities(c.Context(), candID, limit, optionsFromQuery(c))
	if err != nil {
		return mapMatchUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, results)
}

func (h *MatchHandler) InvalidateCache(c fiber.Ctx) error {
	candID, oppID, err := pairIDsFromParams(c)
	if err != nil {
		return err
	}

	if err := h.uc.Invalidate(c.Context(), candID, oppID); err != nil {
		return mapMatchUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func pairIDsFromParams(c fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	candID, err := uuid.Parse(c.Params("candidateID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid candidate id", nil, err)
	}
	oppID, err := uuid.Parse(c.Params("opportunityID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid opportunity id", nil, err)
	}
	return candID, oppID, nil
}

func optionsFromQuery(c fiber.Ctx) matching.Options {
	opts := matching.Options{}
	if strings.EqualFold(c.Query("force_refresh"), "true") {
		opts.ForceRefresh = true
	}
	if raw := strings.TrimSpace(c.Query("dynamic_weighting")); raw != "" {
		v := strings.EqualFold(raw, "true")
		opts.DynamicWeighting = &v
	}
	return opts
}

func mapMatchUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrCandidateNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Candidate not found", nil, err)
	case errors.Is(err, usecase.ErrOpportunityNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Opportunity not found", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
