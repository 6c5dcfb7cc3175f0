package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"hrmconsole/internal/domain/auth"
	"hrmconsole/internal/domain/employees"
	"hrmconsole/internal/domain/notifications"
	"hrmconsole/internal/domain/permissions"
	"hrmconsole/internal/domain/roles"
	"hrmconsole/internal/domain/sessions"
	"hrmconsole/internal/domain/users"
	"hrmconsole/internal/domain/workspace"
	"hrmconsole/internal/platform/backend"
	"hrmconsole/internal/platform/config"
	"hrmconsole/internal/platform/crypto"
	"hrmconsole/internal/platform/db"
	"hrmconsole/internal/platform/jobs"
	"hrmconsole/internal/platform/metrics"
	authhandler "hrmconsole/internal/transport/http/handlers/auth"
	employeeshandler "hrmconsole/internal/transport/http/handlers/employees"
	notificationshandler "hrmconsole/internal/transport/http/handlers/notifications"
	permissionshandler "hrmconsole/internal/transport/http/handlers/permissions"
	roleshandler "hrmconsole/internal/transport/http/handlers/roles"
	sessionshandler "hrmconsole/internal/transport/http/handlers/sessions"
	usershandler "hrmconsole/internal/transport/http/handlers/users"
	"hrmconsole/internal/transport/http/middleware"
)

const shutdownTimeout = 15 * time.Second

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		applied, err := db.Migrate(ctx, pool, cfg.MigrationsDir)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		if len(applied) > 0 {
			slog.Info("migrations applied", "versions", applied)
		}
	}

	sealer, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		return fmt.Errorf("data encryption key: %w", err)
	}
	if !sealer.Configured() {
		slog.Warn("DATA_ENCRYPTION_KEY not set; backend tokens are stored unencrypted")
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret = ephemeralSecret()
		slog.Warn("JWT_SECRET not set; console tokens will not survive a restart")
	}

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	client := backend.New(cfg.BackendBaseURL, cfg.BackendTimeout, collector)
	authService := auth.NewService(auth.NewAccessor(client), auth.NewStore(pool), sealer, secret, cfg.SessionTTL)
	authService.RevalidateEvery = cfg.SessionRevalidate

	hub := notifications.NewHub(collector, nil)
	notifier := notifications.New(notifications.NewMemoryStore(), hub)

	permissionCatalog := permissions.NewAccessor(client)
	roleCatalog := roles.NewAccessor(client)
	registry := workspace.NewRegistry(workspace.Deps{
		Roles:         roleCatalog,
		Permissions:   permissionCatalog,
		Users:         users.NewAccessor(client),
		Employees:     employees.NewAccessor(client),
		Notifier:      notifier,
		RolesPageSize: cfg.RolesPageSize,
		UsersPageSize: cfg.UsersPageSize,
	})
	monitor := sessions.NewMonitor(sessions.NewAccessor(client), notifier, cfg.SessionsPageSize, cfg.ExportDir)
	janitor := sessionJanitor{workspaces: registry, notifications: notifier, sockets: hub}

	scheduler := jobs.New(collector)
	if cfg.SessionSweep > 0 {
		scheduler.Every(jobs.JobSessionSweep, cfg.SessionSweep, func(ctx context.Context) (any, error) {
			expired, err := authService.SweepExpired(ctx)
			if err != nil {
				return nil, err
			}
			for _, id := range expired {
				janitor.Close(id)
			}
			return map[string]int{"expired": len(expired)}, nil
		})
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(authService))
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if collector != nil {
		router.Handle("/metrics", collector.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authService, janitor).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)
			roleshandler.NewHandler(registry, roleCatalog).RegisterRoutes(r)
			permissionshandler.NewHandler(permissionCatalog).RegisterRoutes(r)
			usershandler.NewHandler(registry).RegisterRoutes(r)
			employeeshandler.NewHandler(registry).RegisterRoutes(r)
			sessionshandler.NewHandler(monitor).RegisterRoutes(r)
			notificationshandler.NewHandler(notifier, hub).RegisterRoutes(r)
		})
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	jobsCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()
	scheduler.Start(jobsCtx)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HRM console listening", "addr", cfg.Addr, "backend", cfg.BackendBaseURL)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	stopJobs()
	scheduler.Wait()
	return err
}

// sessionJanitor drops everything held in memory for a console session once it ends.
type sessionJanitor struct {
	workspaces    *workspace.Registry
	notifications *notifications.Service
	sockets       *notifications.Hub
}

func (j sessionJanitor) Close(sessionID string) {
	j.workspaces.Forget(sessionID)
	j.notifications.Forget(sessionID)
	j.sockets.Disconnect(sessionID)
}

func ephemeralSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
