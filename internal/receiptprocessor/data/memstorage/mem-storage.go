package memstorage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"receipt-processor/internal/receiptprocessor/data"
	"receipt-processor/pkg/threadsafe"
)

const (
	maxIDAttempts = 8
)

var (
	ErrIDSpaceExhausted = errors.New("failed to generate a unique receipt id")
)

// MemStorage keeps scored receipts for the lifetime of the process.
type MemStorage struct {
	receipts *threadsafe.Map[string, data.ScoredReceipt]
	newID    func() string
}

func New() *MemStorage {
	return &MemStorage{
		receipts: threadsafe.NewMap[string, data.ScoredReceipt](),
		newID:    uuid.NewString,
	}
}

func (s *MemStorage) InsertReceipt(_ context.Context, receipt data.Receipt, points int64) (string, error) {
	for range maxIDAttempts {
		scored := data.ScoredReceipt{
			ID:        s.newID(),
			Receipt:   receipt,
			Points:    points,
			CreatedAt: time.Now(),
		}
		if s.receipts.PutIfAbsent(scored.ID, scored) {
			return scored.ID, nil
		}
	}
	return "", ErrIDSpaceExhausted
}

func (s *MemStorage) GetReceiptPoints(_ context.Context, id string) (int64, error) {
	scored, ok := s.receipts.Get(id)
	if !ok {
		return 0, data.ErrReceiptNotFound
	}
	return scored.Points, nil
}

func (s *MemStorage) Ping(context.Context) error {
	return nil
}
