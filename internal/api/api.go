// Package api provides HTTP handlers and the main server logic for the diet coach.
//
// It exposes the inbound Twilio webhook plus health and admin endpoints,
// and wires together the store, completion client, conversation coach,
// and messaging service.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rakesh1308/whatsapp-diet-coach/internal/coach"
	"github.com/rakesh1308/whatsapp-diet-coach/internal/flow"
	"github.com/rakesh1308/whatsapp-diet-coach/internal/genai"
	"github.com/rakesh1308/whatsapp-diet-coach/internal/lockfile"
	"github.com/rakesh1308/whatsapp-diet-coach/internal/messaging"
	"github.com/rakesh1308/whatsapp-diet-coach/internal/scheduler"
	"github.com/rakesh1308/whatsapp-diet-coach/internal/store"
	"github.com/rakesh1308/whatsapp-diet-coach/internal/twiliowhatsapp"
	"github.com/rakesh1308/whatsapp-diet-coach/internal/whatsapp"
)

// Default configuration constants
const (
	// DefaultAddr is the default API listen address
	DefaultAddr = ":8080"
	// DefaultStateDir is the default directory for diet coach state data
	DefaultStateDir = "/var/lib/dietcoach"
	// DefaultShutdownTimeout bounds graceful HTTP shutdown
	DefaultShutdownTimeout = 10 * time.Second
	// ServiceVersion is reported by the health endpoint
	ServiceVersion = "Pro 1.0"
)

// Messaging backend names accepted by WithMessagingBackend.
const (
	BackendWhatsmeow = "whatsmeow"
	BackendTwilio    = "twilio"
)

// Opts holds configuration options for the API server.
type Opts struct {
	Addr             string
	StateDir         string
	Timezone         string
	MessagingBackend string
	ModelName        string
	ReminderCron     string
}

// Option defines a configuration option for the API server.
type Option func(*Opts)

// WithAddr sets the API listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// WithStateDir sets the state directory used for the instance lock.
func WithStateDir(dir string) Option {
	return func(o *Opts) { o.StateDir = dir }
}

// WithTimezone sets the IANA timezone used for civil dates in admin views.
func WithTimezone(tz string) Option {
	return func(o *Opts) { o.Timezone = tz }
}

// WithMessagingBackend selects the message transport ("whatsmeow" or "twilio").
func WithMessagingBackend(backend string) Option {
	return func(o *Opts) { o.MessagingBackend = backend }
}

// WithModelName sets the model name reported by the health endpoint.
func WithModelName(model string) Option {
	return func(o *Opts) { o.ModelName = model }
}

// WithReminderCron enables periodic hydration nudges on the given cron
// expression (5-field, coach timezone is not applied; use server time).
func WithReminderCron(expr string) Option {
	return func(o *Opts) { o.ReminderCron = expr }
}

// Server serves the webhook, health, and admin endpoints.
type Server struct {
	router   *chi.Mux
	st       store.Store
	location *time.Location
	model    string
	webhook  http.HandlerFunc
}

// NewServer creates an API server over the given store. The webhook
// handler is optional; when nil the webhook route returns 404.
func NewServer(st store.Store, webhook http.HandlerFunc, opts ...Option) *Server {
	cfg := Opts{ModelName: genai.DefaultModel}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Server{
		router:   chi.NewRouter(),
		st:       st,
		location: coach.LoadLocation(cfg.Timezone),
		model:    cfg.ModelName,
		webhook:  webhook,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", s.healthHandler)
	if s.webhook != nil {
		s.router.Post("/webhook/twilio", s.webhook)
	}
	s.router.Route("/admin", func(r chi.Router) {
		r.Get("/stats", s.adminStatsHandler)
		r.Get("/users", s.adminUsersHandler)
		r.Get("/chat/{phone}", s.adminChatHandler)
		r.Get("/weekly/{phone}", s.adminWeeklyHandler)
	})
}

// today returns the current civil date in the configured timezone.
func (s *Server) today() string {
	return time.Now().In(s.location).Format("2006-01-02")
}

// Run wires together all modules and serves until interrupted.
func Run(waOpts []whatsapp.Option, storeOpts []store.Option, genaiOpts []genai.Option, flowOpts []flow.Option, apiOpts []Option) error {
	cfg := Opts{
		Addr:             DefaultAddr,
		StateDir:         DefaultStateDir,
		MessagingBackend: BackendWhatsmeow,
	}
	for _, opt := range apiOpts {
		opt(&cfg)
	}

	// Only one instance may own the state directory.
	lock, err := lockfile.AcquireLock(cfg.StateDir)
	if err != nil {
		return fmt.Errorf("failed to acquire instance lock: %w", err)
	}
	defer func() {
		if relErr := lock.Release(); relErr != nil {
			slog.Warn("Run: failed to release instance lock", "error", relErr)
		}
	}()

	st, err := openStore(storeOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer st.Close()

	gaClient, err := genai.NewClient(genaiOpts...)
	if err != nil {
		return fmt.Errorf("failed to initialize completion client: %w", err)
	}

	dietCoach := flow.NewCoach(st, gaClient, flowOpts...)

	msgService, webhook, err := openMessagingService(cfg.MessagingBackend, waOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging service: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := msgService.Start(ctx); err != nil {
		return fmt.Errorf("failed to start messaging service: %w", err)
	}

	responder := messaging.NewResponder(msgService, dietCoach)
	responder.Start(ctx)
	go drainReceipts(msgService)

	if cfg.ReminderCron != "" {
		sched := scheduler.NewScheduler()
		defer sched.Stop()
		if err := sched.AddJob(cfg.ReminderCron, func() {
			sendHydrationReminders(ctx, st, msgService)
		}); err != nil {
			return fmt.Errorf("failed to schedule hydration reminders: %w", err)
		}
		slog.Info("Run: hydration reminders scheduled", "cron", cfg.ReminderCron)
	}

	server := NewServer(st, webhook, apiOpts...)
	httpServer := &http.Server{Addr: cfg.Addr, Handler: server}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Run: API server listening", "addr", cfg.Addr, "backend", cfg.MessagingBackend)
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			errCh <- serveErr
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Run: shutdown signal received")
	case serveErr := <-errCh:
		slog.Error("Run: HTTP server failed", "error", serveErr)
		return serveErr
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Run: HTTP shutdown error", "error", err)
	}
	if err := msgService.Stop(); err != nil {
		slog.Warn("Run: messaging service stop error", "error", err)
	}

	slog.Info("Run: shutdown complete")
	return nil
}

// openStore selects a backend by DSN: empty means in-memory, PostgreSQL
// connection strings get the Postgres store, everything else SQLite.
func openStore(storeOpts []store.Option) (store.Store, error) {
	var cfg store.Opts
	for _, opt := range storeOpts {
		opt(&cfg)
	}
	if cfg.DSN == "" {
		slog.Info("openStore: no DSN configured, using in-memory store")
		return store.NewInMemoryStore(), nil
	}
	if store.DetectDSNType(cfg.DSN) == "postgres" {
		return store.NewPostgresStore(storeOpts...)
	}
	return store.NewSQLiteStore(storeOpts...)
}

// openMessagingService builds the selected transport. For Twilio the
// returned handler serves the inbound webhook; whatsmeow delivers
// inbound messages over its own event stream, so the handler is nil.
func openMessagingService(backend string, waOpts []whatsapp.Option) (messaging.Service, http.HandlerFunc, error) {
	switch backend {
	case BackendTwilio:
		twClient, err := twiliowhatsapp.NewClient()
		if err != nil {
			return nil, nil, err
		}
		svc := messaging.NewTwilioService(twClient)
		return svc, svc.WebhookHandler, nil
	case BackendWhatsmeow, "":
		waClient, err := whatsapp.NewClient(waOpts...)
		if err != nil {
			return nil, nil, err
		}
		return messaging.NewWhatsAppService(waClient), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown messaging backend %q", backend)
	}
}

// sendHydrationReminders nudges every onboarded user to log water.
func sendHydrationReminders(ctx context.Context, st store.Store, svc messaging.Service) {
	users, err := st.GetAllUsers()
	if err != nil {
		slog.Error("sendHydrationReminders: failed to list users", "error", err)
		return
	}
	sent := 0
	for _, u := range users {
		if !u.OnboardingComplete {
			continue
		}
		if err := svc.SendMessage(ctx, u.ContactKey, flow.HydrationReminder); err != nil {
			slog.Error("sendHydrationReminders: send failed", "error", err, "to", u.ContactKey)
			continue
		}
		sent++
	}
	slog.Info("sendHydrationReminders: nudges sent", "count", sent)
}

// drainReceipts logs delivery receipts so the channel never backs up.
func drainReceipts(svc messaging.Service) {
	for receipt := range svc.Receipts() {
		slog.Debug("drainReceipts: receipt", "to", receipt.To, "status", receipt.Status, "time", receipt.Time)
	}
}
