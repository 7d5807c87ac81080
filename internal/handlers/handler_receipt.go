package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ringlabs/ring_token_engine/internal/apperrors"
	portssvc "github.com/ringlabs/ring_token_engine/internal/core/ports/services"
	"github.com/ringlabs/ring_token_engine/internal/dto"
	"github.com/ringlabs/ring_token_engine/internal/middleware"
)

// receiptHandler ingests enforcement receipts from the quality-gate
// collaborator.
type receiptHandler struct {
	receiptService portssvc.ReceiptSvcFacade
}

func newReceiptHandler(rs portssvc.ReceiptSvcFacade) *receiptHandler {
	return &receiptHandler{receiptService: rs}
}

// registerReceiptRoutes registers receipt ingest and read routes.
func registerReceiptRoutes(rg *gin.RouterGroup, rs portssvc.ReceiptSvcFacade) {
	h := newReceiptHandler(rs)

	receipts := rg.Group("/receipts")
	{
		receipts.POST("", h.storeReceipt)
		receipts.GET("/:receiptID", h.getReceipt)
	}
}

func (h *receiptHandler) storeReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.StoreReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for StoreReceipt", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	receipt := req.ToDomainReceipt(time.Now().UTC())
	if err := h.receiptService.StoreReceipt(c.Request.Context(), receipt); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "Receipt already exists"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to store receipt", slog.String("receipt_id", req.ReceiptID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store receipt"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToReceiptResponse(receipt))
}

func (h *receiptHandler) getReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	receiptID := c.Param("receiptID")

	receipt, err := h.receiptService.GetReceiptByID(c.Request.Context(), receiptID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Receipt not found"})
			return
		}
		logger.Error("Failed to get receipt", slog.String("receipt_id", receiptID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get receipt"})
		return
	}

	c.JSON(http.StatusOK, dto.ToReceiptResponse(*receipt))
}
