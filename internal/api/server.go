// Package api exposes the booking backend over HTTP: public fleet browsing,
// authenticated booking and payment flows, and the admin surface.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"carrental/internal/config"
	"carrental/internal/database"
	"carrental/internal/events"
	"carrental/internal/identity"
	"carrental/internal/payments"

	"github.com/rs/zerolog"
)

// PaymentProvider is the processor surface the handlers need.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, amount float64, metadata map[string]string) (*payments.Intent, error)
	GetIntent(ctx context.Context, id string) (*payments.Intent, error)
}

type Server struct {
	cfg      *config.Config
	db       *database.DB
	payments PaymentProvider
	auth     *Auth
	bus      *events.EventBus
	log      zerolog.Logger
	server   *http.Server

	// now is injectable for deterministic date validation in tests.
	now func() time.Time
}

func NewServer(
	cfg *config.Config,
	db *database.DB,
	verifier identity.Verifier,
	provider PaymentProvider,
	bus *events.EventBus,
	logger zerolog.Logger,
) *Server {
	s := &Server{
		cfg:      cfg,
		db:       db,
		payments: provider,
		auth:     NewAuth(verifier),
		bus:      bus,
		log:      logger.With().Str("component", "api").Logger(),
		now:      time.Now,
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler builds the route table wrapped in logging and rate limiting.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("GET /api/vehicles", s.handleListVehicles)
	mux.HandleFunc("GET /api/vehicles/{id}", s.handleGetVehicle)

	mux.HandleFunc("POST /api/bookings", s.auth.RequireUser(s.handleCreateBooking))
	mux.HandleFunc("GET /api/my-bookings", s.auth.RequireUser(s.handleMyBookings))
	mux.HandleFunc("PATCH /api/bookings/{id}/cancel", s.auth.RequireUser(s.handleCancelBooking))

	mux.HandleFunc("POST /api/payment_intent", s.auth.RequireUser(s.handleCreatePaymentIntent))
	mux.HandleFunc("POST /api/bookings/{id}/confirm_payment", s.auth.RequireUser(s.handleConfirmPayment))

	mux.HandleFunc("POST /api/admin/vehicles", s.auth.RequireAdmin(s.handleAdminCreateVehicle))
	mux.HandleFunc("PUT /api/admin/vehicles/{id}", s.auth.RequireAdmin(s.handleAdminUpdateVehicle))
	mux.HandleFunc("DELETE /api/admin/vehicles/{id}", s.auth.RequireAdmin(s.handleAdminDeleteVehicle))
	mux.HandleFunc("GET /api/admin/bookings", s.auth.RequireAdmin(s.handleAdminListBookings))
	mux.HandleFunc("GET /api/admin/bookings/export", s.auth.RequireAdmin(s.handleAdminExportBookings))

	var handler http.Handler = mux
	handler = newRateLimiter(s.cfg.RateLimit).Wrap(handler)
	handler = requestLogging(s.log)(handler)
	return handler
}

// Start serves HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("http server starting")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server shutting down")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Car Rental API is running!",
		"version": s.cfg.App.Version,
		"status":  "success",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": s.now().Format(time.RFC3339),
	})
}
