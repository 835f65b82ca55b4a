package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tapri-app/tapri-api/internal/analytics"
	"github.com/tapri-app/tapri-api/internal/config"
	"github.com/tapri-app/tapri-api/internal/database"
	"github.com/tapri-app/tapri-api/internal/demo"
	"github.com/tapri-app/tapri-api/internal/handlers"
	"github.com/tapri-app/tapri-api/internal/listing"
	"github.com/tapri-app/tapri-api/internal/logging"
	"github.com/tapri-app/tapri-api/internal/models"
	"github.com/tapri-app/tapri-api/internal/notify"
	"github.com/tapri-app/tapri-api/internal/oauth"
	"github.com/tapri-app/tapri-api/internal/query"
	"github.com/tapri-app/tapri-api/internal/services"
	"github.com/tapri-app/tapri-api/internal/slug"
	"github.com/tapri-app/tapri-api/internal/sse"
	"github.com/tapri-app/tapri-api/internal/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("failed to load config")
	}
	logger := logging.New(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, demoMode, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	hub := sse.NewHub()
	go hub.Run()

	events := notify.NewDispatcher(notify.Multi{
		notify.NewEmail(cfg.SMTP),
		notify.NewRealtime(hub),
	}, logger)
	links := notify.Links{BaseURL: cfg.FrontendURL}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	profileService := services.NewProfileService(db)
	tokenService := services.NewTokenService(db)
	projectService := services.NewProjectService(db, slug.Default())
	moderationService := services.NewModerationService(db, events, links)
	applicationService := services.NewApplicationService(db, events, links)
	invitationService := services.NewInvitationService(db, events, links)
	conversationService := services.NewConversationService(db, events)

	assets, err := storage.NewS3(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure asset storage")
	}
	if !assets.Configured() {
		logger.Warn().Msg("S3_BUCKET not set, uploads are disabled")
	}

	var background sync.WaitGroup
	sizes := listing.WithPageSizes(cfg.Listing.PageSize, cfg.Listing.MaxPageSize)
	var (
		projectSource listing.Source[models.Project]  = projectService.Source(query.Public())
		talentSource  listing.Source[models.Profile]  = profileService
		lookup        handlers.ProjectLookup          = projectService
		views         handlers.ViewRecorder
	)
	if demoMode {
		provider := demo.NewProvider()
		projectSource, talentSource, lookup = provider.Projects(), provider.Talent(), provider
	} else {
		tracker := analytics.NewTracker(db.Pool, logger)
		background.Add(1)
		go func() {
			defer background.Done()
			tracker.Run(ctx, cfg.AnalyticsFlushInterval)
		}()
		views = tracker

		go cleanupTokens(ctx, tokenService, logger)
	}

	authHandler := handlers.NewAuthHandler(cfg, oauth.Configured(cfg), profileService, tokenService, jwtService)
	go authHandler.Sweep(ctx, time.Minute)

	app := newRouter(cfg, logger, jwtService, routeHandlers{
		auth: authHandler,
		profiles: handlers.NewProfileHandler(profileService,
			listing.NewPipeline[models.Profile](talentSource, listing.TalentMatcher, sizes, listing.WithDemo(demoMode))),
		projects: handlers.NewProjectHandler(projectService, lookup,
			listing.NewPipeline[models.Project](projectSource, listing.ProjectMatcher, sizes, listing.WithDemo(demoMode)),
			views, sizes),
		admin:         handlers.NewAdminHandler(projectService, moderationService, sizes),
		applications:  handlers.NewApplicationHandler(applicationService),
		invitations:   handlers.NewInvitationHandler(invitationService),
		conversations: handlers.NewConversationHandler(conversationService),
		events:        handlers.NewEventsHandler(hub),
		uploads:       handlers.NewUploadHandler(assets),
		health:        handlers.NewHealthHandler(db.Pool, demoMode),
	})

	srv := newServer(":"+cfg.Port, app, hub)

	go func() {
		logger.Info().Str("addr", srv.Addr).Bool("demo", demoMode).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	background.Wait()
	events.Wait()
}

// newServer builds the HTTP server. Shutdown stops the hub, which closes
// every open event stream so long-lived requests do not hold it open.
func newServer(addr string, handler http.Handler, hub *sse.Hub) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(hub.Stop)
	return srv
}

// openStore connects to PostgreSQL and runs migrations. DEMO_MODE=on, or
// auto with an unreachable database, returns a store that refuses every
// operation and reports demo mode instead.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*database.DB, bool, error) {
	if cfg.DemoMode == config.DemoOn {
		logger.Warn().Msg("DEMO_MODE=on, serving demonstration data")
		return database.Unavailable(errors.New("demo mode is on")), true, nil
	}

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err == nil {
		if err = db.Migrate(ctx); err == nil {
			return db, false, nil
		}
		db.Close()
	}

	if !cfg.DemoFallbackAllowed() {
		return nil, false, err
	}
	logger.Warn().Err(err).Msg("database unavailable, serving demonstration data")
	return database.Unavailable(err), true, nil
}

func cleanupTokens(ctx context.Context, tokens *services.TokenService, logger zerolog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := tokens.CleanupExpired(ctx)
			if err != nil {
				logger.Warn().Err(err).Msg("refresh token cleanup failed")
				continue
			}
			logger.Debug().Int64("removed", n).Msg("expired refresh tokens removed")
		}
	}
}
