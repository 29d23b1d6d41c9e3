package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pitchbook/internal/config"
	"pitchbook/internal/export"
	"pitchbook/internal/service"

	"github.com/rs/zerolog"
)

// HTTPServer exposes the public booking API and the owner endpoints.
type HTTPServer struct {
	cfg      *config.Config
	bookings *service.BookingService
	expenses *service.ExpenseService
	sessions *service.SessionService
	exporter *export.Exporter
	limiter  *IPRateLimiter
	logger   *zerolog.Logger
	server   *http.Server
}

func NewHTTPServer(
	cfg *config.Config,
	bookings *service.BookingService,
	expenses *service.ExpenseService,
	sessions *service.SessionService,
	exporter *export.Exporter,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		bookings: bookings,
		expenses: expenses,
		sessions: sessions,
		exporter: exporter,
		limiter:  NewIPRateLimiter(cfg.RateLimit),
		logger:   logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.HandleFunc("/api/v1/availability", srv.handleAvailability)
	mux.HandleFunc("/api/v1/bookings", srv.handleCreateBooking)
	mux.HandleFunc("/api/v1/dates", srv.handleBookedDates)

	mux.HandleFunc("/api/v1/owner/login", srv.handleOwnerLogin)
	mux.HandleFunc("/api/v1/owner/logout", srv.requireSession(srv.handleOwnerLogout))
	mux.HandleFunc("/api/v1/owner/bookings", srv.requireSession(srv.handleOwnerBookings))
	mux.HandleFunc("/api/v1/owner/expenses", srv.requireSession(srv.handleOwnerExpenses))
	mux.HandleFunc("/api/v1/owner/export/bookings", srv.requireSession(srv.handleExportBookings))
	mux.HandleFunc("/api/v1/owner/export/expenses", srv.requireSession(srv.handleExportExpenses))

	handler := srv.limiter.Wrap(srv.loggingMiddleware(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

// Handler returns the full middleware chain, used by tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
