package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"receipt-processor/internal/common/receiptprotocol"
	"receipt-processor/pkg/logging"
)

const (
	healthProbeTimeout = 2 * time.Second

	healthStatusOK       = "ok"
	healthStatusDegraded = "degraded"
)

type HealthHandler struct {
	service HealthService
	logger  *logging.ZapLogger
}

type HealthService interface {
	Ping(ctx context.Context) error
}

func NewHealthHandler(service HealthService, logger *logging.ZapLogger) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
	defer cancel()

	if err := h.service.Ping(ctx); err != nil {
		h.logger.ErrorCtx(r.Context(), "health probe failed", zap.Error(err))
		writeResponse(r.Context(), w, http.StatusServiceUnavailable, receiptprotocol.HealthResponse{
			Status: healthStatusDegraded,
			Error:  err.Error(),
		}, h.logger)
		return
	}

	writeResponse(r.Context(), w, http.StatusOK, receiptprotocol.HealthResponse{Status: healthStatusOK}, h.logger)
}
