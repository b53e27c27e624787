package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platewise/nutrition-engine/internal/domain"
	"github.com/platewise/nutrition-engine/internal/platform/logger"
	"github.com/platewise/nutrition-engine/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	calculator *usecase.CalculationEngine
	discovery  *usecase.DiscoveryService
	runner     *usecase.EtlRunner
	batchSize  int
	log        *logger.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	calculator *usecase.CalculationEngine,
	discovery *usecase.DiscoveryService,
	runner *usecase.EtlRunner,
	batchSize int,
	log *logger.Logger,
) *Handler {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Handler{
		calculator: calculator,
		discovery:  discovery,
		runner:     runner,
		batchSize:  batchSize,
		log:        log.With("component", "http"),
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "nutrition-engine",
		"version": "1.0.0",
	})
}

type calculateRequest struct {
	IngredientID string  `json:"ingredientId" binding:"required"`
	Quantity     float64 `json:"quantity" binding:"required"`
	Unit         string  `json:"unit" binding:"required"`
	Context      string  `json:"context"`
	Preparation  string  `json:"preparation"`
}

// Calculate computes nutrition for a quantity of one ingredient
func (h *Handler) Calculate(c *gin.Context) {
	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	ingredientID, err := uuid.Parse(req.IngredientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredientId must be a UUID"})
		return
	}

	result, err := h.calculator.CalculateForQuantity(c.Request.Context(), usecase.CalcRequest{
		IngredientID: ingredientID,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Context:      req.Context,
		Preparation:  req.Preparation,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type queueRequest struct {
	Name     string `json:"name" binding:"required"`
	Source   string `json:"source"`
	Priority int    `json:"priority"`
}

// QueueDiscovery enqueues an unknown ingredient name for ingestion
func (h *Handler) QueueDiscovery(c *gin.Context) {
	var req queueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Source == "" {
		req.Source = "api"
	}

	queued, err := h.discovery.QueueForDiscovery(c.Request.Context(), req.Name, req.Source, req.Priority)
	if err != nil {
		h.writeError(c, err)
		return
	}

	status := http.StatusOK
	if queued {
		status = http.StatusAccepted
	}
	c.JSON(status, gin.H{"name": req.Name, "queued": queued})
}

type processRequest struct {
	BatchSize int `json:"batchSize"`
}

// ProcessQueue runs one synchronous discovery batch
func (h *Handler) ProcessQueue(c *gin.Context) {
	var req processRequest
	// body is optional; an empty one means "use the default batch size"
	_ = c.ShouldBindJSON(&req)
	if req.BatchSize <= 0 {
		req.BatchSize = h.batchSize
	}

	result, err := h.runner.ProcessDiscoveryQueue(c.Request.Context(), req.BatchSize)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type requeueRequest struct {
	Limit int `json:"limit"`
}

// RequeueFailed flips failed queue items back to pending
func (h *Handler) RequeueFailed(c *gin.Context) {
	var req requeueRequest
	_ = c.ShouldBindJSON(&req)

	n, err := h.discovery.RequeueFailed(c.Request.Context(), req.Limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requeued": n})
}

// writeError maps domain errors onto HTTP status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrIngredientNotFound), errors.Is(err, domain.ErrNutritionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConversionUnavailable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
