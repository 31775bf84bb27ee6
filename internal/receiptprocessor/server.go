package receiptprocessor

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"receipt-processor/internal/receiptprocessor/handlers"
	"receipt-processor/internal/receiptprocessor/middleware"
	"receipt-processor/pkg/logging"
)

const (
	notFoundMessage         = "not found"
	methodNotAllowedMessage = "method not allowed"
)

type ReceiptsService interface {
	handlers.ReceiptProcessingService
	handlers.PointsGettingService
}

type Server struct {
	logger     *logging.ZapLogger
	httpServer *http.Server
	cfg        Config
}

func NewServer(
	cfg Config,
	receiptsService ReceiptsService,
	healthService handlers.HealthService,
	logger *logging.ZapLogger,
) *Server {
	srv := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: NewHandler(receiptsService, healthService, logger),
	}

	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: srv,
	}
}

func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server ListenAndServe failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// NewHandler builds the routed HTTP handler without binding a listener.
func NewHandler(
	receiptsService ReceiptsService,
	healthService handlers.HealthService,
	logger *logging.ZapLogger,
) http.Handler {
	return createMux(receiptsService, healthService, logger)
}

func createMux(
	receiptsService ReceiptsService,
	healthService handlers.HealthService,
	logger *logging.ZapLogger,
) *chi.Mux {
	processingHandler := handlers.NewReceiptProcessingHandler(receiptsService, logger)
	pointsHandler := handlers.NewPointsGettingHandler(receiptsService, logger)
	healthHandler := handlers.NewHealthHandler(healthService, logger)

	router := chi.NewRouter()

	router.Use(
		chimiddleware.RequestID,
		middleware.NewLoggerContext(logger).CreateHandler,
		middleware.NewPanicRecover(logger).CreateHandler,
	)

	router.NotFound(jsonError(http.StatusNotFound, notFoundMessage))
	router.MethodNotAllowed(jsonError(http.StatusMethodNotAllowed, methodNotAllowedMessage))

	router.Get("/healthz", healthHandler.ServeHTTP)

	router.Route("/receipts", func(router chi.Router) {
		router.Post("/process", processingHandler.ServeHTTP)
		router.Get("/{"+handlers.ReceiptIDParam+"}/points", pointsHandler.ServeHTTP)
	})

	return router
}

func jsonError(status int, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = fmt.Fprintf(w, `{"error":%q}`, message)
	}
}
