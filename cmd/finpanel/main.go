// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/finpanel/internal/analytics"
	"github.com/olegiv/finpanel/internal/backend"
	"github.com/olegiv/finpanel/internal/cache"
	"github.com/olegiv/finpanel/internal/catalog"
	"github.com/olegiv/finpanel/internal/config"
	"github.com/olegiv/finpanel/internal/editor"
	"github.com/olegiv/finpanel/internal/handler"
	"github.com/olegiv/finpanel/internal/i18n"
	"github.com/olegiv/finpanel/internal/logging"
	"github.com/olegiv/finpanel/internal/media"
	"github.com/olegiv/finpanel/internal/middleware"
	"github.com/olegiv/finpanel/internal/model"
	"github.com/olegiv/finpanel/internal/preview"
	"github.com/olegiv/finpanel/internal/relation"
	"github.com/olegiv/finpanel/internal/render"
	"github.com/olegiv/finpanel/internal/revalidate"
	"github.com/olegiv/finpanel/internal/scheduler"
	"github.com/olegiv/finpanel/internal/session"
	"github.com/olegiv/finpanel/internal/version"
	"github.com/olegiv/finpanel/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

const (
	requestTimeout   = 60 * time.Second
	analyticsTTL     = 2 * time.Minute
	previewTTL       = 6 * time.Hour
	startupRefresh   = 15 * time.Second
	shutdownTimeout  = 30 * time.Second
	staticMaxAge     = 3600
	sweepSchedule    = "@every 10m"
	previewsSchedule = "@every 30m"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "finpanel - content admin panel for the public site\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FINPANEL_API_BASE_URL          Content backend base URL (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FINPANEL_SESSION_SECRET        Session and CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FINPANEL_MEDIA_UPLOAD_URL      Media upload endpoint (default: {API}/upload/)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FINPANEL_ANALYTICS_BASE_URL    Analytics API base URL (default: API base URL)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FINPANEL_FRONTEND_PREVIEW_URL  Public site URL for preview links\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FINPANEL_REVALIDATE_URL        Public site revalidation hook (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FINPANEL_SERVER_PORT           Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FINPANEL_ENV                   development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FINPANEL_REDIS_URL             Redis URL for shared caching (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}
	if *showVersion {
		_, _ = fmt.Println(versionInfo.String())
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(versionInfo version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, recent := logging.Setup(os.Stdout, cfg.LogLevel)
	logger.Info("starting finpanel", "version", versionInfo.Short(), "env", cfg.Env)

	if err := i18n.Init(cfg.DefaultLanguage, logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appCache := cache.New(ctx, cache.Options{
		RedisURL: cfg.RedisURL,
		Prefix:   cfg.CachePrefix,
		TTL:      cfg.CacheTTLDuration(),
		MaxItems: cfg.CacheMaxSize,
	}, logger)
	defer func() { _ = appCache.Close() }()

	api := backend.New(backend.Options{
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.APITimeout,
		RateLimit: cfg.APIRateLimit,
		Logger:    logger,
	})
	analyticsAPI := api
	if cfg.AnalyticsBaseURL != cfg.APIBaseURL {
		analyticsAPI = backend.New(backend.Options{
			BaseURL: cfg.AnalyticsBaseURL,
			Timeout: cfg.APITimeout,
			Logger:  logger,
		})
	}

	store := catalog.NewStore(api.Products(), api.Services(), logger)
	sources := make(map[model.TaxonomyKind]catalog.Lister[model.TaxonomyItem], len(model.TaxonomyKinds))
	for _, kind := range model.TaxonomyKinds {
		sources[kind] = api.Taxonomy(kind)
	}
	taxonomy := catalog.NewTaxonomy(sources, appCache, logger)

	refreshCtx, cancel := context.WithTimeout(ctx, startupRefresh)
	if err := store.Refresh(refreshCtx); err != nil {
		logger.Warn("initial catalog refresh failed, continuing with an empty catalog", "error", err)
	}
	cancel()

	previews := media.NewPreviews(cfg.MediaMaxBytes)
	uploader := media.NewUploader(api, cfg.MediaUploadURL, logger)
	relations := relation.NewPool()

	previewRenderer, err := preview.NewRenderer(cfg.FrontendPreviewURL)
	if err != nil {
		return fmt.Errorf("creating preview renderer: %w", err)
	}

	sessionManager := session.New(cfg.IsDevelopment())
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("opening templates: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		Version:        versionInfo.Short(),
	})
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	var sink revalidate.Sink = revalidate.Nop{}
	if cfg.RevalidateEnabled() {
		sink = revalidate.NewNotifier(cfg.RevalidateURL, cfg.RevalidateSecret, logger)
	}
	debouncer := revalidate.NewDebouncer(sink, revalidate.DefaultDebounceConfig(), logger)
	defer debouncer.Stop()

	sched := scheduler.New(logger)
	admin := handler.NewAdmin(&handler.Deps{
		Renderer:       renderer,
		Preview:        previewRenderer,
		Sessions:       sessionManager,
		Backend:        api,
		Catalog:        store,
		Taxonomy:       taxonomy,
		Previews:       previews,
		Uploader:       uploader,
		Relations:      relations,
		Analytics:      analytics.NewClient(analyticsAPI, appCache, analyticsTTL),
		Jobs:           sched.Registry(),
		Logs:           recent,
		Cache:          appCache,
		Notify:         debouncer.Changed,
		Charts:         analytics.ChartOptions{AssetsHost: middleware.EChartsAssetsHost + "/go-echarts-assets/assets/"},
		MaxUploadBytes: cfg.MediaMaxBytes,
		Logger:         logger,
	})

	if err := registerJobs(sched, cfg, store, taxonomy, previews, relations, admin.Sweepers()); err != nil {
		return fmt.Errorf("registering jobs: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.Timeout(requestTimeout, "/admin/analytics/charts"))

	health := handler.NewHealthHandler(api, appCache, versionInfo.Short())
	r.Get("/health", health.Health)
	r.Get("/health/live", health.Liveness)

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("loading static files: %w", err)
	}
	r.With(middleware.StaticCache(staticMaxAge)).
		Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	r.Group(func(r chi.Router) {
		r.Use(sessionManager.LoadAndSave)
		r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.ServerAddr(), cfg.IsDevelopment())))
		r.Use(middleware.AdminLanguage)
		r.Use(middleware.Workspace(sessionManager))
		admin.Routes(r)
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin", http.StatusFound)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       60 * time.Second, // Uploads of large videos
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	debouncer.Flush()

	logger.Info("server stopped")
	return nil
}

// registerJobs adds the background maintenance jobs.
func registerJobs(s *scheduler.Scheduler, cfg *config.Config, store *catalog.Store, taxonomy *catalog.Taxonomy,
	previews *media.Previews, relations *relation.Pool, sweepers []editor.Sweeper) error {
	jobs := []scheduler.Job{
		{
			Name:        "catalog-refresh",
			Description: "Reload products and services and drop cached taxonomies",
			Schedule:    cfg.CatalogRefresh,
			Run: func(ctx context.Context) error {
				if err := taxonomy.InvalidateAll(ctx); err != nil {
					slog.Warn("taxonomy invalidation failed", "error", err)
				}
				return store.Refresh(ctx)
			},
		},
		{
			Name:        "editor-sweep",
			Description: "Close editors left idle and forget settled relation selectors",
			Schedule:    sweepSchedule,
			Run: func(context.Context) error {
				now := time.Now()
				closed := 0
				for _, sw := range sweepers {
					closed += sw.Sweep(now, cfg.EditorIdleTimeout)
				}
				dropped := relations.Sweep()
				if closed > 0 || dropped > 0 {
					slog.Info("editors swept", "closed", closed, "selectors", dropped)
				}
				return nil
			},
		},
		{
			Name:        "preview-sweep",
			Description: "Release local media previews older than their lifetime",
			Schedule:    previewsSchedule,
			Run: func(context.Context) error {
				if n := previews.Sweep(previewTTL); n > 0 {
					slog.Info("media previews released", "count", n)
				}
				return nil
			},
		},
	}
	for _, job := range jobs {
		if err := s.Add(job); err != nil {
			return fmt.Errorf("adding job %s: %w", job.Name, err)
		}
	}
	return nil
}
