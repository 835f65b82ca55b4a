package main

import (
	"net/http"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/rs/zerolog"

	"github.com/tapri-app/tapri-api/internal/config"
	"github.com/tapri-app/tapri-api/internal/handlers"
	"github.com/tapri-app/tapri-api/internal/logging"
	authmw "github.com/tapri-app/tapri-api/internal/middleware"
)

type routeHandlers struct {
	auth          *handlers.AuthHandler
	profiles      *handlers.ProfileHandler
	projects      *handlers.ProjectHandler
	admin         *handlers.AdminHandler
	applications  *handlers.ApplicationHandler
	invitations   *handlers.InvitationHandler
	conversations *handlers.ConversationHandler
	events        *handlers.EventsHandler
	uploads       *handlers.UploadHandler
	health        *handlers.HealthHandler
}

func newRouter(cfg *config.Config, logger zerolog.Logger, tokens authmw.TokenValidator, h routeHandlers) http.Handler {
	app := drift.New()
	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(logging.Requests(logger))
	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")
	api.Get("/health", h.health.Check)

	auth := api.Group("/auth")
	auth.Get("/:provider/consent", h.auth.GetConsentURL)
	auth.Get("/:provider/callback", h.auth.Callback)
	auth.Post("/exchange", h.auth.ExchangeCode)
	auth.Post("/refresh", h.auth.RefreshToken)
	auth.Post("/logout", h.auth.Logout)

	public := api.Group("")
	public.Use(authmw.OptionalAuth(tokens))
	public.Get("/projects", h.projects.List)
	public.Get("/projects/:id", h.projects.Get)
	public.Get("/talent", h.profiles.Talent)
	public.Get("/profiles/:id", h.profiles.Get)

	protected := api.Group("")
	protected.Use(authmw.Auth(tokens))

	protected.Post("/auth/logout-all", h.auth.LogoutAll)

	protected.Get("/users/me", h.profiles.GetMe)
	protected.Patch("/users/me", h.profiles.UpdateMe)
	protected.Get("/users/me/projects", h.projects.Mine)
	protected.Get("/users/me/applications", h.applications.Mine)
	protected.Get("/users/me/invitations", h.invitations.Mine)

	protected.Post("/projects", h.projects.Create)
	protected.Patch("/projects/:id", h.projects.Update)
	protected.Post("/projects/:id/applications", h.applications.Submit)
	protected.Get("/projects/:id/applications", h.applications.ListForProject)
	protected.Post("/projects/:id/invitations", h.invitations.Invite)
	protected.Get("/projects/:id/invitations", h.invitations.ListForProject)

	protected.Post("/applications/:id/accept", h.applications.Accept)
	protected.Post("/applications/:id/reject", h.applications.Reject)

	protected.Post("/invitations/:id/accept", h.invitations.Accept)
	protected.Post("/invitations/:id/decline", h.invitations.Decline)
	protected.Delete("/invitations/:id", h.invitations.Cancel)

	protected.Post("/conversations", h.conversations.Start)
	protected.Get("/conversations", h.conversations.List)
	protected.Get("/conversations/:id/messages", h.conversations.Messages)
	protected.Post("/conversations/:id/messages", h.conversations.Send)
	protected.Patch("/messages/:id", h.conversations.Edit)

	protected.Get("/events", h.events.Stream)
	protected.Post("/uploads/:kind", h.uploads.Upload)

	admin := api.Group("/admin")
	admin.Use(authmw.Auth(tokens))
	admin.Use(authmw.RequireAdmin())
	admin.Get("/projects", h.admin.Queue)
	admin.Post("/projects/:id/approve", h.admin.Approve)
	admin.Post("/projects/:id/reject", h.admin.Reject)

	return app
}
