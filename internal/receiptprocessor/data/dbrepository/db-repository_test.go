package dbrepository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"receipt-processor/internal/receiptprocessor/data"
	"receipt-processor/pkg/logging"
)

type execCall struct {
	query string
	args  []any
}

type stubStorage struct {
	execCalls  []execCall
	execErrs   []error
	queryCalls int
	queryErr   error
	points     int64
}

func (s *stubStorage) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.execCalls = append(s.execCalls, execCall{query: query, args: args})
	if len(s.execErrs) > 0 {
		err := s.execErrs[0]
		s.execErrs = s.execErrs[1:]
		return pgconn.CommandTag{}, err
	}
	return pgconn.CommandTag{}, nil
}

func (s *stubStorage) QueryValue(_ context.Context, _ string, _ []any, dest []any) error {
	s.queryCalls++
	if s.queryErr != nil {
		return s.queryErr
	}
	*(dest[0].(*int64)) = s.points
	return nil
}

func (s *stubStorage) Ping(context.Context) error {
	return nil
}

type stubTransactionManager struct {
	calls int
}

func (tm *stubTransactionManager) DoWithTransaction(ctx context.Context, f func(ctx context.Context) error) error {
	tm.calls++
	return f(ctx)
}

func TestDBRepository_InsertReceipt(t *testing.T) {
	storage := &stubStorage{}
	tm := &stubTransactionManager{}
	repository := New(storage, tm, logging.NewNopLogger())

	receipt := data.Receipt{
		Retailer: "Target",
		Total:    decimal.RequireFromString("4.89"),
		Items: []data.Item{
			{ShortDescription: "Pepsi - 12-oz", Price: decimal.RequireFromString("3.49")},
			{ShortDescription: "Dasani", Price: decimal.RequireFromString("1.40")},
		},
	}
	id, err := repository.InsertReceipt(context.Background(), receipt, 12)
	require.NoError(t, err)

	assert.Equal(t, 1, tm.calls)
	require.Len(t, storage.execCalls, 2)
	assert.Equal(t, insertReceiptQuery, storage.execCalls[0].query)
	assert.Equal(t, id, storage.execCalls[0].args[0])
	assert.Equal(t, int64(12), storage.execCalls[0].args[5])
	assert.True(t, strings.HasPrefix(storage.execCalls[1].query, "INSERT INTO receipt_items"))
	assert.Len(t, storage.execCalls[1].args, 8)
}

func TestDBRepository_InsertReceiptWithoutItems(t *testing.T) {
	storage := &stubStorage{}
	repository := New(storage, &stubTransactionManager{}, logging.NewNopLogger())

	_, err := repository.InsertReceipt(context.Background(), data.Receipt{}, 75)
	require.NoError(t, err)
	assert.Len(t, storage.execCalls, 1)
}

func TestDBRepository_InsertReceiptBatchesItems(t *testing.T) {
	tests := []struct {
		name          string
		items         int
		expectedBatch []int
	}{
		{name: "single batch", items: 3, expectedBatch: []int{3}},
		{name: "exact batch", items: itemsBatchSize, expectedBatch: []int{itemsBatchSize}},
		{name: "past parameter limit", items: 16384, expectedBatch: []int{
			1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000,
			1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 384,
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			storage := &stubStorage{}
			repository := New(storage, &stubTransactionManager{}, logging.NewNopLogger())

			items := make([]data.Item, test.items)
			for i := range items {
				items[i] = data.Item{ShortDescription: "abc", Price: decimal.RequireFromString("1.00")}
			}
			_, err := repository.InsertReceipt(context.Background(), data.Receipt{Items: items}, 0)
			require.NoError(t, err)

			require.Len(t, storage.execCalls, len(test.expectedBatch)+1)
			position := 0
			for i, size := range test.expectedBatch {
				call := storage.execCalls[i+1]
				require.Len(t, call.args, size*4)
				assert.LessOrEqual(t, len(call.args), 65535)
				assert.Equal(t, position, call.args[1])
				position += size
			}
			assert.Equal(t, test.items, position)
		})
	}
}

func TestDBRepository_InsertReceiptStripsNUL(t *testing.T) {
	storage := &stubStorage{}
	repository := New(storage, &stubTransactionManager{}, logging.NewNopLogger())

	receipt := data.Receipt{
		Retailer: "Tar\x00get",
		Items:    []data.Item{{ShortDescription: "\x00Pepsi\x00", Price: decimal.RequireFromString("3.49")}},
	}
	_, err := repository.InsertReceipt(context.Background(), receipt, 6)
	require.NoError(t, err)

	require.Len(t, storage.execCalls, 2)
	assert.Equal(t, "Target", storage.execCalls[0].args[1])
	assert.Equal(t, "Pepsi", storage.execCalls[1].args[2])
}

func TestDBRepository_InsertReceiptRetriesOnCollision(t *testing.T) {
	storage := &stubStorage{
		execErrs: []error{&pgconn.PgError{Code: uniqueViolationCode}},
	}
	tm := &stubTransactionManager{}
	repository := New(storage, tm, logging.NewNopLogger())

	id, err := repository.InsertReceipt(context.Background(), data.Receipt{}, 75)
	require.NoError(t, err)

	assert.Equal(t, 2, tm.calls)
	require.Len(t, storage.execCalls, 2)
	assert.NotEqual(t, storage.execCalls[0].args[0], storage.execCalls[1].args[0])
	assert.Equal(t, id, storage.execCalls[1].args[0])
}

func TestDBRepository_InsertReceiptFails(t *testing.T) {
	errBroken := errors.New("connection reset")
	storage := &stubStorage{execErrs: []error{errBroken}}
	repository := New(storage, &stubTransactionManager{}, logging.NewNopLogger())

	_, err := repository.InsertReceipt(context.Background(), data.Receipt{}, 75)
	assert.ErrorIs(t, err, errBroken)
}

func TestDBRepository_GetReceiptPoints(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		queryErr       error
		expectedPoints int64
		expectedErr    error
		expectedCalls  int
	}{
		{
			name:           "found",
			id:             "7fb1377b-b223-49d9-a31a-5a02701dd310",
			expectedPoints: 28,
			expectedCalls:  1,
		},
		{
			name:          "unknown id",
			id:            "7fb1377b-b223-49d9-a31a-5a02701dd310",
			queryErr:      pgx.ErrNoRows,
			expectedErr:   data.ErrReceiptNotFound,
			expectedCalls: 1,
		},
		{
			name:          "malformed id skips the query",
			id:            "not-a-uuid",
			expectedErr:   data.ErrReceiptNotFound,
			expectedCalls: 0,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			storage := &stubStorage{points: 28, queryErr: test.queryErr}
			repository := New(storage, &stubTransactionManager{}, logging.NewNopLogger())

			points, err := repository.GetReceiptPoints(context.Background(), test.id)
			assert.Equal(t, test.expectedCalls, storage.queryCalls)
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expectedPoints, points)
		})
	}
}
