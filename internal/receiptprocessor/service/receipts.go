package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"receipt-processor/internal/receiptprocessor/data"
	"receipt-processor/internal/receiptprocessor/scoring"
	"receipt-processor/pkg/logging"
)

var (
	ErrReceiptNotFound = errors.New("receipt not found")
)

type ReceiptRepository interface {
	InsertReceipt(ctx context.Context, receipt data.Receipt, points int64) (id string, err error)
	GetReceiptPoints(ctx context.Context, id string) (points int64, err error)
}

type Scorer interface {
	Score(receipt data.Receipt) scoring.Score
}

type Receipts struct {
	repository ReceiptRepository
	scorer     Scorer
	logger     *logging.ZapLogger
}

func NewReceipts(repository ReceiptRepository, scorer Scorer, logger *logging.ZapLogger) *Receipts {
	return &Receipts{
		repository: repository,
		scorer:     scorer,
		logger:     logger,
	}
}

// Process scores the receipt and stores it, returning the id it was stored
// under.
func (r *Receipts) Process(ctx context.Context, receipt data.Receipt) (string, error) {
	score := r.scorer.Score(receipt)
	r.logger.DebugCtx(
		ctx,
		"receipt scored",
		zap.String("retailer", receipt.Retailer),
		zap.Int64("points", score.Total),
		zap.Any("rules", score.Rules),
	)

	id, err := r.repository.InsertReceipt(ctx, receipt, score.Total)
	if err != nil {
		return "", fmt.Errorf("error inserting receipt: %w", err)
	}
	return id, nil
}

func (r *Receipts) GetPoints(ctx context.Context, id string) (int64, error) {
	points, err := r.repository.GetReceiptPoints(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrReceiptNotFound):
			return 0, ErrReceiptNotFound
		default:
			return 0, fmt.Errorf("error getting receipt points: %w", err)
		}
	}
	return points, nil
}
