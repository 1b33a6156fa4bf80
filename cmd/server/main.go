package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"moodjournal/internal/ai"
	"moodjournal/internal/config"
	"moodjournal/internal/db"
	"moodjournal/internal/handlers"
	"moodjournal/internal/logger"
	"moodjournal/internal/metrics"
	mw "moodjournal/internal/middleware"
	"moodjournal/internal/repository"
	"moodjournal/internal/services"
	"moodjournal/internal/storage"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
	defer sentry.Flush(2 * time.Second)

	accessLog := logger.NewAccessLogger(cfg.IsDevelopment(), cfg.AccessLogFile)
	defer accessLog.Sync()

	dbConn, err := db.Open(cfg.DatabaseURL, cfg.MaxOpenConns)
	if err != nil {
		slog.Error("database unavailable", "err", err)
		os.Exit(1)
	}
	defer dbConn.Close()
	if cfg.AutoMigrate {
		if err := db.RunMigrations(dbConn.DB); err != nil {
			slog.Error("failed migrations", "err", err)
			os.Exit(1)
		}
	}
	metrics.Init()

	users := repository.NewUserRepository(dbConn)
	entries := repository.NewEntryRepository(dbConn)
	todos := repository.NewTodoRepository(dbConn)
	media := repository.NewMediaRepository(dbConn)
	badges := repository.NewBadgeRepository(dbConn)
	buddies := repository.NewBuddyRepository(dbConn)
	content := repository.NewContentRepository(dbConn)
	admin := repository.NewAdminRepository(dbConn)

	secrets, err := services.NewEncryptionService(cfg.EncryptionKey)
	if err != nil {
		slog.Error("invalid ENCRYPTION_KEY", "err", err)
		os.Exit(1)
	}
	if !secrets.Enabled() {
		slog.Warn("ENCRYPTION_KEY not set; two-factor setup is disabled")
	}
	mailer := services.NewEmailService(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppURL, cfg.IsDevelopment())
	authSvc := services.NewAuthService(users, secrets, []byte(cfg.JWTSecret), cfg.JWTExpiry)
	analyticsSvc := services.NewAnalyticsService(entries)
	badgeSvc := services.NewBadgeService(entries, badges, cfg.Location)
	buddySvc := services.NewBuddyService(users, buddies, mailer)
	exportSvc := services.NewExportService(entries, secrets)

	var gen ai.Generator
	if cfg.GeminiAPIKey != "" {
		gen = ai.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel)
	} else {
		slog.Warn("GEMINI_API_KEY not set; AI features will serve fallback content")
	}
	aiSvc := services.NewAIService(entries, ai.NewGateway(gen, cfg.AITimeout))

	blobs, err := storage.New(cfg)
	if err != nil {
		slog.Error("storage unavailable", "err", err)
		os.Exit(1)
	}

	var limiter mw.Limiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "err", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		limiter = mw.NewRedisLimiter(rdb)
		slog.Info("rate limiting backed by redis", "addr", opts.Addr)
	} else {
		limiter = mw.NewMemoryLimiter()
		slog.Info("rate limiting in memory")
	}

	today := handlers.Clock(cfg.Today)
	authHandler := handlers.NewAuthHandler(authSvc, mailer)
	userHandler := handlers.NewUserHandler(users)
	journalHandler := handlers.NewJournalHandler(entries, media, blobs, analyticsSvc, secrets)
	todoHandler := handlers.NewTodoHandler(todos, today)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsSvc, today)
	featuresHandler := handlers.NewFeaturesHandler(content, badgeSvc, today)
	buddyHandler := handlers.NewBuddyHandler(buddySvc, today)
	dataHandler := handlers.NewDataHandler(exportSvc, time.Now)
	aiHandler := handlers.NewAIHandler(aiSvc, today)
	mediaHandler := handlers.NewMediaHandler(media, entries, blobs, cfg.MaxUploadBytes)
	adminHandler := handlers.NewAdminHandler(admin, today)
	healthHandler := handlers.NewHealthHandler(dbConn)
	authMW := mw.NewAuthMiddleware([]byte(cfg.JWTSecret), users)

	authLimit := mw.RateLimit(limiter, "auth", cfg.AuthRateLimit, cfg.AuthRateWindow, mw.ByIP)
	aiLimit := mw.RateLimit(limiter, "ai", cfg.AIRateLimit, cfg.AIRateWindow, mw.ByUser)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger(accessLog))
	r.Use(middleware.Recoverer)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	if local, ok := blobs.(*storage.LocalStorage); ok {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(local.Dir()))))
	}

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", healthHandler.Health)

		api.Group(func(pub chi.Router) {
			pub.Use(authLimit)
			pub.Post("/auth/register", authHandler.Register)
			pub.Post("/auth/login", authHandler.Login)
		})

		api.Get("/features/templates", featuresHandler.Templates)
		api.Get("/features/templates/{id}", featuresHandler.Template)
		api.Get("/features/quote", featuresHandler.QuoteOfDay)
		api.Get("/features/quotes", featuresHandler.Quotes)
		api.Get("/features/badges/definitions", featuresHandler.BadgeDefinitions)

		api.Group(func(pr chi.Router) {
			pr.Use(authMW.RequireAuth)

			pr.Route("/auth", func(a chi.Router) {
				a.Get("/profile", userHandler.GetMe)
				a.Put("/profile", userHandler.UpdateMe)
				a.Put("/reminder", userHandler.UpdateReminder)
				a.Delete("/account", userHandler.DeleteAccount)
				a.Group(func(s chi.Router) {
					s.Use(authLimit)
					s.Put("/password", authHandler.ChangePassword)
					s.Post("/2fa/setup", authHandler.SetupTwoFactor)
					s.Post("/2fa/enable", authHandler.EnableTwoFactor)
					s.Post("/2fa/disable", authHandler.DisableTwoFactor)
				})
			})

			pr.Route("/journal", func(j chi.Router) {
				j.Post("/", journalHandler.Create)
				j.Get("/", journalHandler.List)
				j.Get("/dates", journalHandler.Dates)
				j.Get("/stats/mood", journalHandler.MoodStats)
				j.Get("/date/{date}", journalHandler.ByDate)
				j.Get("/{id}", journalHandler.Get)
				j.Put("/{id}", journalHandler.Update)
				j.Delete("/{id}", journalHandler.Delete)
			})

			pr.Route("/todos", func(t chi.Router) {
				t.Get("/", todoHandler.List)
				t.Post("/", todoHandler.Create)
				t.Get("/summary", todoHandler.Summary)
				t.Put("/{id}", todoHandler.Update)
				t.Delete("/{id}", todoHandler.Delete)
			})

			pr.Route("/analytics", func(a chi.Router) {
				a.Get("/streak", analyticsHandler.Streak)
				a.Get("/word-cloud", analyticsHandler.WordCloud)
				a.Get("/writing-frequency", analyticsHandler.WritingFrequency)
				a.Get("/mood-trends", analyticsHandler.MoodTrends)
				a.Get("/summary", analyticsHandler.Summary)
			})

			pr.Get("/features/badges", featuresHandler.Badges)
			pr.Post("/features/badges/check", featuresHandler.CheckBadges)

			pr.Route("/buddies", func(b chi.Router) {
				b.Get("/", buddyHandler.List)
				b.Get("/requests", buddyHandler.Requests)
				b.Post("/request", buddyHandler.Request)
				b.Post("/accept/{requestId}", buddyHandler.Accept)
				b.Post("/decline/{requestId}", buddyHandler.Decline)
				b.Delete("/{buddyId}", buddyHandler.Remove)
			})

			pr.Get("/export/{format}", dataHandler.Export)
			pr.Post("/import", dataHandler.MigrateData)

			pr.Route("/ai", func(a chi.Router) {
				a.Use(aiLimit)
				a.Post("/analyze-mood", aiHandler.AnalyzeMood)
				a.Get("/suggestions", aiHandler.Suggestions)
				a.Get("/weekly-summary", aiHandler.WeeklySummary)
				a.Get("/insights", aiHandler.Insights)
			})

			pr.Route("/media", func(m chi.Router) {
				m.Post("/upload", mediaHandler.Upload)
				m.Get("/entry/{entryId}", mediaHandler.ByEntry)
				m.Delete("/{id}", mediaHandler.Delete)
			})

			pr.With(authMW.RequireAdmin).Get("/admin/overview", adminHandler.Overview)
		})
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("server starting", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown initiated")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown failed", "err", err)
	}
	slog.Info("server stopped")
}
