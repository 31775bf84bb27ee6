package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"receipt-processor/internal/common/receiptprotocol"
	"receipt-processor/internal/receiptprocessor/data"
	"receipt-processor/pkg/logging"
)

const (
	minAmountExponent = -32
	maxAmountExponent = 32
)

var (
	errEmptyReceipt      = errors.New("receipt document is empty")
	errAmountOutOfBounds = errors.New("amount exponent out of range")
)

type ReceiptProcessingHandler struct {
	service ReceiptProcessingService
	logger  *logging.ZapLogger
}

type ReceiptProcessingService interface {
	Process(ctx context.Context, receipt data.Receipt) (string, error)
}

func NewReceiptProcessingHandler(service ReceiptProcessingService, logger *logging.ZapLogger) *ReceiptProcessingHandler {
	return &ReceiptProcessingHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ReceiptProcessingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer closeBody(r.Context(), r.Body, h.logger)

	input, err := decodeJSON[*receiptprotocol.Receipt](r.Body)
	if err == nil && input == nil {
		err = errEmptyReceipt
	}
	if err == nil {
		err = checkAmounts(input)
	}
	if err != nil {
		h.logger.DebugCtx(r.Context(), "input decoding error", zap.Error(err))
		writeError(r.Context(), w, http.StatusBadRequest, fmt.Sprintf("invalid receipt: %v", err), h.logger)
		return
	}

	id, err := h.service.Process(r.Context(), toDataReceipt(input))
	if err != nil {
		h.logger.ErrorCtx(r.Context(), "Error processing receipt", zap.Error(err))
		WriteInternalError(r.Context(), w, h.logger)
		return
	}

	h.logger.DebugCtx(r.Context(), "receipt processed", zap.String("id", id))
	writeResponse(r.Context(), w, http.StatusOK, receiptprotocol.ProcessResponse{ID: id}, h.logger)
}

// checkAmounts bounds the exponent of every amount so that decimal arithmetic
// in scoring stays proportional to the document size.
func checkAmounts(receipt *receiptprotocol.Receipt) error {
	if err := checkAmount(receipt.Total); err != nil {
		return fmt.Errorf("total: %w", err)
	}
	for i, item := range receipt.Items {
		if err := checkAmount(item.Price); err != nil {
			return fmt.Errorf("item %d price: %w", i, err)
		}
	}
	return nil
}

func checkAmount(amount decimal.Decimal) error {
	if exp := amount.Exponent(); exp < minAmountExponent || exp > maxAmountExponent {
		return fmt.Errorf("%w: %d", errAmountOutOfBounds, exp)
	}
	return nil
}

func toDataReceipt(receipt *receiptprotocol.Receipt) data.Receipt {
	items := make([]data.Item, len(receipt.Items))
	for i, item := range receipt.Items {
		items[i] = data.Item{
			ShortDescription: item.ShortDescription,
			Price:            item.Price,
		}
	}
	return data.Receipt{
		Retailer:     receipt.Retailer,
		Total:        receipt.Total,
		Items:        items,
		PurchaseDate: receipt.PurchaseDate,
		PurchaseTime: receipt.PurchaseTime,
	}
}
