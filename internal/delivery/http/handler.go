package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/pricescout/backend/internal/domain"
	"github.com/pricescout/backend/internal/logging"
	"github.com/pricescout/backend/internal/usecase"
)

// SearchService is the slice of the usecase layer the handlers need.
type SearchService interface {
	Search(ctx context.Context, request *domain.SearchRequest) ([]domain.Offer, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	searchService SearchService
	logger        zerolog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(searchService SearchService) *Handler {
	return &Handler{
		searchService: searchService,
		logger:        logging.NewLogger("http"),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "OK",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// SearchOffers handles GET /search: validates the raw query parameters, runs
// the search pipeline and returns the merged offer list sorted ascending by
// price. Validation failures produce a 400 with itemized messages; anything
// else that crosses the pipeline boundary is a generic 500 with no internal
// detail.
func (h *Handler) SearchOffers(c *gin.Context) {
	request, err := usecase.ValidateSearchRequest(
		c.Query("item"),
		c.Query("lat"),
		c.Query("lon"),
		c.Query("zip"),
	)
	if err != nil {
		var validationErr *usecase.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"details": validationErr.Messages,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	offers, err := h.searchService.Search(c.Request.Context(), request)
	if err != nil {
		h.logger.Error().Err(err).Str("item", request.Item).Msg("search pipeline failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if offers == nil {
		offers = []domain.Offer{}
	}
	c.JSON(http.StatusOK, offers)
}

// NotFound handles unmatched routes
func (h *Handler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
}
