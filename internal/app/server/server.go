package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"hrmportal/internal/domain/announcement"
	"hrmportal/internal/domain/auth"
	"hrmportal/internal/domain/bonus"
	"hrmportal/internal/domain/feedback"
	"hrmportal/internal/domain/hrm"
	"hrmportal/internal/domain/leave"
	"hrmportal/internal/domain/overtime"
	"hrmportal/internal/hrapi"
	"hrmportal/internal/mutation"
	"hrmportal/internal/platform/cache"
	"hrmportal/internal/platform/config"
	cryptoutil "hrmportal/internal/platform/crypto"
	"hrmportal/internal/platform/db"
	"hrmportal/internal/platform/jobs"
	"hrmportal/internal/platform/metrics"
	"hrmportal/internal/render"
	authhandler "hrmportal/internal/transport/http/handlers/auth"
	bonushandler "hrmportal/internal/transport/http/handlers/bonus"
	hrmhandler "hrmportal/internal/transport/http/handlers/hrm"
	leavehandler "hrmportal/internal/transport/http/handlers/leave"
	overtimehandler "hrmportal/internal/transport/http/handlers/overtime"
	updateshandler "hrmportal/internal/transport/http/handlers/updates"
	viewshandler "hrmportal/internal/transport/http/handlers/views"
	"hrmportal/internal/transport/http/middleware"
	"hrmportal/internal/transport/http/shared"
	"hrmportal/internal/viewstate"
)

const (
	jobSessionPurge = "session_purge"
	jobViewSweep    = "view_sweep"
)

type App struct {
	Config  config.Config
	Router  http.Handler
	Metrics *metrics.Collector
	Jobs    *jobs.Service
	Views   *viewstate.Container

	pool  *db.Pool
	redis *redis.Client
}

// New wires the portal for cfg. Connections to the session backend are opened
// here and released by Close.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Metrics: metrics.New()}

	secret := cfg.SessionSecret
	if secret == "" {
		generated, err := cryptoutil.RandomSecret()
		if err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		slog.Warn("SESSION_SECRET is empty, using a random secret; sessions will not survive a restart")
		secret = generated
	}
	crypto, err := cryptoutil.New(secret)
	if err != nil {
		return nil, fmt.Errorf("session crypto: %w", err)
	}

	api, err := hrapi.New(cfg.HRAPIBaseURL, hrapi.WithTimeout(cfg.HRAPITimeout), hrapi.WithObserver(app.Metrics))
	if err != nil {
		return nil, err
	}

	store, err := app.openStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	sessions := auth.NewService(api, store, crypto, cfg.SessionTTL)
	cookies, err := auth.NewCookieCodec(secret, cfg.IsProduction())
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("session cookies: %w", err)
	}

	gate, err := render.NewGate()
	if err != nil {
		app.Close()
		return nil, err
	}
	views := viewstate.NewContainer(gate)
	mutations := mutation.NewController(views, sessions, app.Metrics)
	renderer := render.New(gate, mutations)
	portal := shared.NewPortal(views, mutations, renderer, gate, sessions, cookies)
	app.Views = views

	app.Jobs = jobs.New(app.Metrics, app.housekeeping(cfg, store, views)...)

	authHandler := authhandler.NewHandler(sessions, cookies, portal, authhandler.Options{
		ShowDemoLogins: cfg.ShowDemoLogins,
		LoginLimit:     cfg.RateLimitPerMinute,
	})
	bonusHandler := bonushandler.NewHandler(bonus.NewService(api), portal)
	updatesHandler := updateshandler.NewHandler(announcement.NewService(api), feedback.NewService(api), portal)
	leaveHandler := leavehandler.NewHandler(leave.NewService(api), portal)
	overtimeHandler := overtimehandler.NewHandler(overtime.NewService(api), portal)
	hrmHandler := hrmhandler.NewHandler(hrm.NewService(api, cfg.TenantCode, cfg.HRMHandoffDelay), portal)
	viewsHandler := viewshandler.NewHandler(portal)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(app.Metrics))
	}
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Session(sessions, cookies))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := app.ping(ctx); err != nil {
			http.Error(w, "session store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Handle("/metrics", app.Metrics.Handler())
	}
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(render.Static()))))

	authHandler.RegisterRoutes(router)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(shared.LoginPath))
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute*5, time.Minute))

		authHandler.RegisterLandingRoutes(r)
		bonusHandler.RegisterRoutes(r)
		updatesHandler.RegisterRoutes(r)
		leaveHandler.RegisterRoutes(r)
		overtimeHandler.RegisterRoutes(r)
		hrmHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
			viewsHandler.RegisterRoutes(r)
		})
	})

	router.NotFound(portal.NotFound)

	app.Router = router
	return app, nil
}

func (a *App) openStore(ctx context.Context, cfg config.Config) (auth.SessionStore, error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, fmt.Errorf("redis connect: %w", err)
		}
		a.redis = client
		return auth.NewRedisStore(client), nil
	case config.SessionBackendPostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("db connect: %w", err)
		}
		a.pool = pool
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool); err != nil {
				return nil, fmt.Errorf("migrations: %w", err)
			}
		}
		return auth.NewPostgresStore(pool), nil
	default:
		return auth.NewMemoryStore(), nil
	}
}

// housekeeping returns the periodic jobs: expired sessions are purged from
// stores that keep them, and view-state of idle sessions is dropped.
func (a *App) housekeeping(cfg config.Config, store auth.SessionStore, views *viewstate.Container) []jobs.Task {
	var tasks []jobs.Task
	if sweeper, ok := store.(auth.Sweeper); ok {
		tasks = append(tasks, jobs.Task{Name: jobSessionPurge, Interval: cfg.SweepInterval, Run: sweeper.PurgeExpired})
	}
	tasks = append(tasks, jobs.Task{
		Name:     jobViewSweep,
		Interval: cfg.SweepInterval,
		Run: func(context.Context) (int64, error) {
			return int64(views.Sweep(cfg.SessionTTL)), nil
		},
	})
	return tasks
}

func (a *App) ping(ctx context.Context) error {
	switch {
	case a.pool != nil:
		return a.pool.Ping(ctx)
	case a.redis != nil:
		return a.redis.Ping(ctx).Err()
	default:
		return nil
	}
}

// Close releases the session backend connections.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Warn("redis close failed", "err", err)
		}
		a.redis = nil
	}
}

// Run serves the portal on cfg.Addr until ctx is cancelled, then drains
// in-flight requests.
func Run(ctx context.Context, cfg config.Config) error {
	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	jobsCtx, stopJobs := context.WithCancel(ctx)
	defer stopJobs()
	app.Jobs.Start(jobsCtx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("hrm portal listening", "addr", cfg.Addr, "sessionBackend", cfg.SessionBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	stopJobs()
	app.Jobs.Wait()
	return err
}
