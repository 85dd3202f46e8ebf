package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nestquery/nestquery"
	"github.com/nestquery/nestquery/pkg/server/dto"
	"github.com/nestquery/nestquery/pkg/types"
)

// SearchHandler handles search requests.
type SearchHandler struct {
	searcher nestquery.Searcher
	logger   *slog.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(searcher nestquery.Searcher, logger *slog.Logger) *SearchHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchHandler{searcher: searcher, logger: logger}
}

// Search handles POST /api/v1/search.
func (h *SearchHandler) Search(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	resp, err := h.searcher.Search(c.Request.Context(), req.ToQuery())
	if err != nil {
		h.writeSearchError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// writeSearchError maps engine errors onto HTTP statuses: invalid queries
// are the client's fault, provider outages are upstream failures, anything
// else is ours.
func (h *SearchHandler) writeSearchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, types.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid_query",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	case errors.Is(err, types.ErrProvider):
		h.logger.Error("search provider failure", "error", err)
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{
			Error:   "provider_unavailable",
			Message: err.Error(),
			Code:    http.StatusBadGateway,
		})
	default:
		h.logger.Error("search failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "search_failed",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}
}
