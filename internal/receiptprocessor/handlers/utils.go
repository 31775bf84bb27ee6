package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"receipt-processor/internal/common/receiptprotocol"
	"receipt-processor/pkg/logging"
)

const (
	internalErrorMessage = "internal server error"
)

func closeBody(ctx context.Context, body io.ReadCloser, logger *logging.ZapLogger) {
	err := body.Close()
	if err != nil {
		logger.ErrorCtx(ctx, "failed to close body", zap.Error(err))
	}
}

var (
	errTrailingData = errors.New("unexpected data after JSON document")
)

// decodeJSON decodes exactly one JSON document; anything but whitespace after it is an error.
func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&out); err != nil {
		return out, err
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return out, errTrailingData
	}
	return out, nil
}

func tryWriteResponseJSON(w http.ResponseWriter, status int, responseItem any) error {
	res, err := json.Marshal(responseItem)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(res)
	if err != nil {
		return err
	}
	return nil
}

func writeResponse(ctx context.Context, w http.ResponseWriter, status int, responseItem any, logger *logging.ZapLogger) {
	if err := tryWriteResponseJSON(w, status, responseItem); err != nil {
		logger.ErrorCtx(ctx, "Error writing response", zap.Error(err))
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, message string, logger *logging.ZapLogger) {
	writeResponse(ctx, w, status, receiptprotocol.ErrorResponse{Error: message}, logger)
}

// WriteInternalError answers with the generic 500 payload.
func WriteInternalError(ctx context.Context, w http.ResponseWriter, logger *logging.ZapLogger) {
	writeError(ctx, w, http.StatusInternalServerError, internalErrorMessage, logger)
}
