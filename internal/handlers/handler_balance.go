package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ringlabs/ring_token_engine/internal/apperrors"
	"github.com/ringlabs/ring_token_engine/internal/core/domain"
	portssvc "github.com/ringlabs/ring_token_engine/internal/core/ports/services"
	"github.com/ringlabs/ring_token_engine/internal/dto"
	"github.com/ringlabs/ring_token_engine/internal/middleware"
	"github.com/ringlabs/ring_token_engine/pkg/config"
)

const recentActivityLimit = 10

// balanceHandler serves the read-only balance, ledger, and pending views.
type balanceHandler struct {
	balanceService portssvc.BalanceSvcFacade
	cfg            *config.Config
}

func newBalanceHandler(bs portssvc.BalanceSvcFacade, cfg *config.Config) *balanceHandler {
	return &balanceHandler{
		balanceService: bs,
		cfg:            cfg,
	}
}

// registerBalanceRoutes registers the per-user read routes.
func registerBalanceRoutes(rg *gin.RouterGroup, bs portssvc.BalanceSvcFacade, cfg *config.Config) {
	h := newBalanceHandler(bs, cfg)

	users := rg.Group("/users/:userID")
	{
		users.GET("/balance", h.getBalance)
		users.GET("/ledger", h.listLedgerEntries)
		users.GET("/pending", h.getPendingSummary)
		users.GET("/publish-events", h.listPublishEvents)
	}
}

// getBalance returns the blended balance summary with recent activity.
func (h *balanceHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")
	mode := domain.Mode(h.cfg.RingMode)

	summary, err := h.balanceService.Resolve(c.Request.Context(), mode, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		logger.Error("Failed to resolve balance", slog.String("user_id", userID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve balance"})
		return
	}

	entries, _, err := h.balanceService.LedgerEntries(c.Request.Context(), userID, recentActivityLimit, nil)
	if err != nil {
		logger.Error("Failed to list recent ledger entries", slog.String("user_id", userID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve balance"})
		return
	}
	events, err := h.balanceService.RecentPublishEvents(c.Request.Context(), userID, recentActivityLimit)
	if err != nil {
		logger.Error("Failed to list recent publish events", slog.String("user_id", userID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve balance"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBalanceSummaryResponse(summary, entries, events))
}

// listLedgerEntries returns a token-paginated page, most recent first.
func (h *balanceHandler) listLedgerEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}
	var nextToken *string
	if token := c.Query("nextToken"); token != "" {
		nextToken = &token
	}

	entries, newToken, err := h.balanceService.LedgerEntries(c.Request.Context(), userID, limit, nextToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination token"})
			return
		}
		logger.Error("Failed to list ledger entries", slog.String("user_id", userID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ledger entries"})
		return
	}

	c.JSON(http.StatusOK, dto.ListLedgerEntriesResponse{
		Entries:   dto.ToListLedgerEntryResponse(entries),
		NextToken: newToken,
	})
}

// getPendingSummary returns the queued pending total and count.
func (h *balanceHandler) getPendingSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	summary, err := h.balanceService.PendingSummary(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to summarize pending rewards", slog.String("user_id", userID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to summarize pending rewards"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPendingSummaryResponse(summary))
}

// listPublishEvents returns the user's most recent publish events.
func (h *balanceHandler) listPublishEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userID")

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	events, err := h.balanceService.RecentPublishEvents(c.Request.Context(), userID, limit)
	if err != nil {
		logger.Error("Failed to list publish events", slog.String("user_id", userID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list publish events"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListPublishEventResponse(events))
}
