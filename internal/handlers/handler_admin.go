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

// adminHandler exposes the operational entry points: reconciliation,
// backfill, external balance sync, and pending-reward expiry.
type adminHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
	backfillService       portssvc.BackfillSvcFacade
	syncService           portssvc.SyncSvcFacade
	balanceService        portssvc.BalanceSvcFacade
	cfg                   *config.Config
}

func newAdminHandler(services *portssvc.ServiceContainer, cfg *config.Config) *adminHandler {
	return &adminHandler{
		reconciliationService: services.Reconciliation,
		backfillService:       services.Backfill,
		syncService:           services.Sync,
		balanceService:        services.Balance,
		cfg:                   cfg,
	}
}

// registerAdminRoutes registers the operational routes.
func registerAdminRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, cfg *config.Config) {
	h := newAdminHandler(services, cfg)

	rg.POST("/reconciliation/run", h.runReconciliation)
	rg.POST("/backfill/run", h.runBackfill)
	rg.POST("/sync/run", h.runSync)
	rg.POST("/pending-rewards/:pendingID/expire", h.expirePending)
}

// runReconciliation triggers one full drift scan.
func (h *adminHandler) runReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	mode := domain.Mode(h.cfg.RingMode)

	report, err := h.reconciliationService.Run(c.Request.Context(), mode)
	if err != nil {
		logger.Error("Reconciliation run failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reconciliation run failed"})
		return
	}

	c.JSON(http.StatusOK, dto.ToReconciliationReportResponse(report))
}

// runBackfill triggers one running-total backfill pass. Dry-run unless the
// body explicitly opts out.
func (h *adminHandler) runBackfill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RunBackfillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RunBackfill", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	report, err := h.backfillService.Run(c.Request.Context(), req.StartingBalance, req.IsDryRun())
	if err != nil {
		logger.Error("Backfill run failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Backfill run failed"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBackfillReportResponse(report))
}

// runSync triggers one external balance sync batch.
func (h *adminHandler) runSync(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RunSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RunSync", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	callsPerMinute := req.CallsPerMinute
	if callsPerMinute <= 0 {
		callsPerMinute = h.cfg.SyncCallsPerMinute
	}

	report, err := h.syncService.Run(c.Request.Context(), portssvc.SyncParams{
		Mode:           domain.Mode(h.cfg.RingMode),
		UserID:         req.UserID,
		DryRun:         req.IsDryRun(),
		CallsPerMinute: callsPerMinute,
	})
	if err != nil {
		logger.Error("Balance sync run failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Balance sync run failed"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSyncReportResponse(report))
}

// expirePending transitions a queued pending reward to expired.
func (h *adminHandler) expirePending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	pendingID := c.Param("pendingID")

	if err := h.balanceService.ExpirePending(c.Request.Context(), pendingID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Pending reward not found"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Pending reward is not queued"})
		default:
			logger.Error("Failed to expire pending reward", slog.String("pending_id", pendingID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to expire pending reward"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
