package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"receipt-processor/internal/common/receiptprotocol"
	"receipt-processor/internal/receiptprocessor/service"
	"receipt-processor/pkg/logging"
)

const (
	ReceiptIDParam = "id"
)

type PointsGettingHandler struct {
	service PointsGettingService
	logger  *logging.ZapLogger
}

type PointsGettingService interface {
	GetPoints(ctx context.Context, id string) (int64, error)
}

func NewPointsGettingHandler(service PointsGettingService, logger *logging.ZapLogger) *PointsGettingHandler {
	return &PointsGettingHandler{
		service: service,
		logger:  logger,
	}
}

func (h *PointsGettingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, ReceiptIDParam)

	points, err := h.service.GetPoints(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReceiptNotFound):
			h.logger.DebugCtx(r.Context(), "receipt not found", zap.String("id", id))
			writeError(r.Context(), w, http.StatusNotFound, receiptprotocol.ReceiptNotFoundMessage, h.logger)
			return
		default:
			h.logger.ErrorCtx(r.Context(), "Error getting receipt points", zap.Error(err), zap.String("id", id))
			WriteInternalError(r.Context(), w, h.logger)
			return
		}
	}

	writeResponse(r.Context(), w, http.StatusOK, receiptprotocol.PointsResponse{Points: points}, h.logger)
}
