package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-ranker/internal/logger"
	"alfredoptarigan/resume-ranker/internal/services"
)

type SearchHandler struct {
	index  services.CandidateIndex
	logger *zap.Logger
}

// NewSearchHandler accepts a nil index; searches then answer 404.
func NewSearchHandler(index services.CandidateIndex, log *zap.Logger) *SearchHandler {
	return &SearchHandler{
		index:  index,
		logger: logger.OrNop(log),
	}
}

// HandleSearch handles GET /candidates/search?q=&limit=
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	if h.index == nil {
		return fiber.NewError(fiber.StatusNotFound, services.ErrIndexDisabled.Error())
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return fiber.NewError(fiber.StatusBadRequest, "q is required")
	}

	limit := c.QueryInt("limit", 10)
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	matches, err := h.index.Search(c.UserContext(), query, limit)
	if err != nil {
		h.logger.Error("candidate search failed", zap.String("query", query), zap.Error(err))
		return fiber.NewError(fiber.StatusBadGateway, "Candidate search failed")
	}

	return c.JSON(fiber.Map{
		"query":   query,
		"matches": matches,
		"count":   len(matches),
	})
}
