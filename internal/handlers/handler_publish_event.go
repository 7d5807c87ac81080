package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ringlabs/ring_token_engine/internal/apperrors"
	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	portssvc "github.com/ringlabs/ring_token_engine/internal/core/ports/services"
	"github.com/ringlabs/ring_token_engine/internal/dto"
	"github.com/ringlabs/ring_token_engine/internal/middleware"
	"github.com/ringlabs/ring_token_engine/pkg/config"
)

// publishEventHandler handles publish confirmations from the
// publish-confirmation collaborator.
type publishEventHandler struct {
	publishEventService portssvc.PublishEventSvcFacade
	cfg                 *config.Config
}

func newPublishEventHandler(ps portssvc.PublishEventSvcFacade, cfg *config.Config) *publishEventHandler {
	return &publishEventHandler{
		publishEventService: ps,
		cfg:                 cfg,
	}
}

// registerPublishEventRoutes registers the publish-event ingest route.
func registerPublishEventRoutes(rg *gin.RouterGroup, ps portssvc.PublishEventSvcFacade, cfg *config.Config) {
	h := newPublishEventHandler(ps, cfg)
	rg.POST("/publish-events", h.handlePublishEvent)
}

// handlePublishEvent decides the token outcome for one publish attempt.
// A rejected issuance is a 200 with a reason code, not an error; callers
// branch on the reason code.
func (h *publishEventHandler) handlePublishEvent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.HandlePublishEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for HandlePublishEvent", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	// Mode is read once here and threaded through the whole decision.
	mode := domain.Mode(h.cfg.RingMode)

	logger.Info("Received publish event",
		slog.String("event_id", req.EventID),
		slog.String("user_id", req.UserID),
		slog.String("mode", string(mode)),
	)

	result, err := h.publishEventService.Handle(c.Request.Context(), mode, req.ToPublishConfirmation())
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error handling publish event", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Unknown user on publish event", slog.String("user_id", req.UserID))
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Unresolved concurrent decision for publish event", slog.String("event_id", req.EventID))
			c.JSON(http.StatusConflict, gin.H{"error": "Concurrent decision in progress, retry"})
		default:
			logger.Error("Failed to handle publish event", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to handle publish event"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTokenResultResponse(result))
}
