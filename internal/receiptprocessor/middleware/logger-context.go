package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"receipt-processor/pkg/logging"
)

type LoggerContext struct {
	logger *logging.ZapLogger
}

func NewLoggerContext(logger *logging.ZapLogger) *LoggerContext {
	return &LoggerContext{
		logger: logger,
	}
}

// CreateHandler attaches request fields to the context logger and writes one
// access log entry per request. It expects chi's RequestID middleware to run
// first.
func (lc *LoggerContext) CreateHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		r = r.WithContext(
			logging.WithContextFields(
				r.Context(),
				zap.String("request-id", chimiddleware.GetReqID(r.Context())),
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method),
				zap.String("remote-addr", r.RemoteAddr),
			),
		)
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		lc.logger.InfoCtx(
			r.Context(),
			"request completed",
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
