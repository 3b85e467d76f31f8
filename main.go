package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forgetmenot/leafboard/internal/config"
	"github.com/forgetmenot/leafboard/internal/supabase"
	"github.com/forgetmenot/leafboard/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	// .env is a local-dev convenience; absence is not an error.
	_ = godotenv.Load()

	// Load config first so we can set log level
	cfg, err := config.LoadConfig()
	if err != nil {
		// Fallback logger before config is available
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}

	// Include source location in log entries at debug level only.
	addSrc := cfg.LogLevel == slog.LevelDebug

	// Set up slog to output as json with configured level
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     cfg.LogLevel,
		AddSource: addSrc,
	})))

	// Cancel ctx on SIGINT/SIGTERM; run() shuts down when ctx is done.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, nil); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

// run holds all server logic and returns error instead of calling os.Exit.
// Shuts down when ctx is cancelled (signal handling is the caller's concern).
// If ready is non-nil, the server's base URL is sent on it once the listener is bound.
func run(ctx context.Context, cfg *config.Config, ready chan<- string) error {
	sbCfg := supabase.Config{
		URL:             cfg.SupabaseURL,
		AnonKey:         cfg.SupabaseAnonKey,
		CookieDomain:    cfg.CookieDomain,
		InsecureCookies: !cfg.CookieSecure,
		HTTPClient:      &http.Client{Timeout: cfg.SupabaseTimeout},
	}

	h := &web.Handler{
		// One auth client per request: its session lives in that request's cookies.
		Auth: func(cs supabase.CookieStore) web.AuthService {
			return supabase.NewClient(sbCfg, cs)
		},
		Data:          supabase.NewDataClient(sbCfg),
		TouchEventURL: cfg.TouchEventURL,
	}

	// Bind listener; ":0" picks a free port (useful in tests).
	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	server := &http.Server{Handler: buildRouter(h)}

	// Start server in a goroutine; run() continues past this.
	errCh := make(chan error, 1)
	go func() {
		slog.Info("leafboard listening", "addr", ln.Addr().String())
		// Send error only if server stops for a reason other than explicit shutdown.
		if err := server.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Signal readiness to caller (used by tests; nil in production).
	if ready != nil {
		ready <- "http://" + ln.Addr().String()
	}

	// Wait for server error or shutdown signal from ctx.
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// buildRouter wires all routes and middleware.
// Called from run() and from smoke tests.
func buildRouter(h *web.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Pages
	r.Get("/", h.Dashboard)
	r.Get("/login", h.Login)

	// JSON auth endpoints
	r.Post("/api/auth/signin", h.SignIn)
	r.Post("/api/auth/signup", h.SignUp)

	// Client relay sync endpoint
	r.Post("/auth/session", h.SyncSession)

	// Dashboard form actions
	r.Post("/devices", h.AddDevice)
	r.Post("/devices/delete", h.DeleteDevice)
	r.Post("/pairs", h.CreatePair)
	r.Post("/pairs/delete", h.DeletePair)
	r.Post("/signout", h.SignOut)

	return r
}
