package dbrepository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"receipt-processor/internal/receiptprocessor/data"
	"receipt-processor/pkg/logging"
)

const (
	maxIDAttempts = 3

	// PostgreSQL caps a statement at 65535 bind parameters; each item binds 4.
	itemsBatchSize = 1000

	uniqueViolationCode = "23505"
)

type DBStorage interface {
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	QueryValue(ctx context.Context, query string, args []any, dest []any) error
	Ping(ctx context.Context) error
}

type TransactionManager interface {
	DoWithTransaction(ctx context.Context, f func(ctx context.Context) error) error
}

type DBRepository struct {
	storage            DBStorage
	transactionManager TransactionManager
	logger             *logging.ZapLogger
}

func New(storage DBStorage, transactionManager TransactionManager, logger *logging.ZapLogger) *DBRepository {
	return &DBRepository{
		storage:            storage,
		transactionManager: transactionManager,
		logger:             logger,
	}
}

// InsertReceipt stores the receipt with its items in one transaction under a
// fresh id. A colliding id is replaced and the insert retried.
func (db *DBRepository) InsertReceipt(ctx context.Context, receipt data.Receipt, points int64) (string, error) {
	for range maxIDAttempts {
		id := uuid.New()
		err := db.transactionManager.DoWithTransaction(ctx, func(ctx context.Context) error {
			return db.insertScoredReceipt(ctx, data.ScoredReceipt{
				ID:        id.String(),
				Receipt:   receipt,
				Points:    points,
				CreatedAt: time.Now(),
			})
		})
		if err == nil {
			return id.String(), nil
		}
		if !errors.Is(err, data.ErrUniqueConstraintViolation) {
			return "", fmt.Errorf("failed to insert receipt: %w", err)
		}
		db.logger.WarnCtx(ctx, "receipt id collision, retrying", zap.String("id", id.String()))
	}
	return "", fmt.Errorf("failed to insert receipt: %w", data.ErrUniqueConstraintViolation)
}

//go:embed sql/insert_receipt.sql
var insertReceiptQuery string

func (db *DBRepository) insertScoredReceipt(ctx context.Context, scored data.ScoredReceipt) error {
	_, err := db.storage.Exec(
		ctx,
		insertReceiptQuery,
		scored.ID,
		sanitizeText(scored.Receipt.Retailer),
		scored.Receipt.Total,
		sanitizeText(scored.Receipt.PurchaseDate),
		sanitizeText(scored.Receipt.PurchaseTime),
		scored.Points,
		scored.CreatedAt,
	)
	if err != nil {
		return handleSQLError(err)
	}

	items := scored.Receipt.Items
	for start := 0; start < len(items); start += itemsBatchSize {
		end := min(start+itemsBatchSize, len(items))
		if err := db.insertItems(ctx, scored.ID, start, items[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (db *DBRepository) insertItems(ctx context.Context, receiptID string, offset int, items []data.Item) error {
	builder := squirrel.Insert("receipt_items").
		Columns("receipt_id", "position", "short_description", "price").
		PlaceholderFormat(squirrel.Dollar)
	for i, item := range items {
		builder = builder.Values(receiptID, offset+i, sanitizeText(item.ShortDescription), item.Price)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build items query: %w", err)
	}
	if _, err := db.storage.Exec(ctx, query, args...); err != nil {
		return handleSQLError(err)
	}
	return nil
}

// sanitizeText drops NUL bytes, which PostgreSQL text columns cannot hold.
func sanitizeText(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}

//go:embed sql/select_receipt_points.sql
var selectReceiptPointsQuery string

func (db *DBRepository) GetReceiptPoints(ctx context.Context, id string) (points int64, err error) {
	receiptID, err := uuid.Parse(id)
	if err != nil {
		db.logger.DebugCtx(ctx, "malformed receipt id", zap.String("id", id), zap.Error(err))
		return 0, data.ErrReceiptNotFound
	}
	err = db.storage.QueryValue(ctx, selectReceiptPointsQuery, []any{receiptID.String()}, []any{&points})
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return 0, data.ErrReceiptNotFound
		default:
			return 0, fmt.Errorf("failed to select receipt points: %w", handleSQLError(err))
		}
	}
	return points, nil
}

func (db *DBRepository) Ping(ctx context.Context) error {
	return db.storage.Ping(ctx) //nolint:wrapcheck // unnecessary
}

func handleSQLError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolationCode {
			return data.ErrUniqueConstraintViolation
		}
	}
	return err
}
