package handlers

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"

	"github.com/tapri-app/tapri-api/internal/config"
	"github.com/tapri-app/tapri-api/internal/middleware"
	"github.com/tapri-app/tapri-api/internal/oauth"
	"github.com/tapri-app/tapri-api/internal/services"
	"github.com/tapri-app/tapri-api/pkg/dto"
)

const (
	stateTTL    = 10 * time.Minute
	authCodeTTL = 30 * time.Second
	exchangeTTL = 30 * time.Second
)

type AuthHandler struct {
	cfg          *config.Config
	providers    map[string]oauth.Provider
	profiles     ProfileServiceInterface
	tokenService TokenServiceInterface
	jwtService   JWTServiceInterface
	states       sync.Map
	authCodes    sync.Map
}

type stateData struct {
	expiresAt time.Time
}

type authCodeData struct {
	profileID uuid.UUID
	expiresAt time.Time
}

func NewAuthHandler(
	cfg *config.Config,
	providers map[string]oauth.Provider,
	profiles ProfileServiceInterface,
	tokenService TokenServiceInterface,
	jwtService JWTServiceInterface,
) *AuthHandler {
	if providers == nil {
		providers = make(map[string]oauth.Provider)
	}
	return &AuthHandler{
		cfg:          cfg,
		providers:    providers,
		profiles:     profiles,
		tokenService: tokenService,
		jwtService:   jwtService,
	}
}

// Sweep drops expired states and auth codes every interval until ctx ends.
func (h *AuthHandler) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			h.sweep(now)
		}
	}
}

func (h *AuthHandler) sweep(now time.Time) {
	h.states.Range(func(key, value any) bool {
		if sd, ok := value.(stateData); ok && now.After(sd.expiresAt) {
			h.states.Delete(key)
		}
		return true
	})
	h.authCodes.Range(func(key, value any) bool {
		if acd, ok := value.(authCodeData); ok && now.After(acd.expiresAt) {
			h.authCodes.Delete(key)
		}
		return true
	})
}

func (h *AuthHandler) GetConsentURL(c *drift.Context) {
	p, ok := h.providers[c.Param("provider")]
	if !ok {
		c.BadRequest("unsupported provider: " + c.Param("provider"))
		return
	}

	state, err := oauth.GenerateState()
	if err != nil {
		c.InternalServerError("failed to generate state")
		return
	}
	h.states.Store(state, stateData{expiresAt: time.Now().Add(stateTTL)})

	_ = c.JSON(http.StatusOK, dto.ConsentURLResponse{URL: p.GetConsentURL(state)})
}

func (h *AuthHandler) Callback(c *drift.Context) {
	p, ok := h.providers[c.Param("provider")]
	if !ok {
		h.renderFailure(c, "unsupported provider")
		return
	}

	state := c.QueryParam("state")
	if state == "" {
		h.renderFailure(c, "missing state parameter")
		return
	}
	sd, ok := h.states.LoadAndDelete(state)
	if !ok {
		h.renderFailure(c, "invalid or expired state")
		return
	}
	if data, ok := sd.(stateData); !ok || time.Now().After(data.expiresAt) {
		h.renderFailure(c, "state expired")
		return
	}

	if denied := c.QueryParam("error"); denied != "" {
		h.renderFailure(c, "sign-in was cancelled")
		return
	}
	code := c.QueryParam("code")
	if code == "" {
		h.renderFailure(c, "missing authorization code")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), exchangeTTL)
	defer cancel()

	info, err := p.ExchangeCode(ctx, code)
	if err != nil {
		h.renderFailure(c, "could not verify your account with "+p.Name())
		return
	}
	if strings.TrimSpace(info.Email) == "" {
		h.renderFailure(c, "your "+p.Name()+" account has no email address")
		return
	}

	profile, err := h.profiles.FindOrCreateFromOAuth(ctx, info)
	if err != nil {
		h.renderFailure(c, "failed to create profile")
		return
	}

	authCode, err := oauth.GenerateState()
	if err != nil {
		h.renderFailure(c, "failed to generate auth code")
		return
	}
	h.authCodes.Store(authCode, authCodeData{
		profileID: profile.ID,
		expiresAt: time.Now().Add(authCodeTTL),
	})

	redirect := fmt.Sprintf("%s?code=%s", h.cfg.FrontendCallbackURL, url.QueryEscape(authCode))
	h.renderCallback(c, http.StatusOK, callbackPage{
		Title:    "Signed in to Tapri",
		Heading:  "You're signed in!",
		Subtitle: "Taking you back to Tapri...",
		Redirect: redirect,
		Code:     authCode,
	})
}

func (h *AuthHandler) ExchangeCode(c *drift.Context) {
	var req dto.ExchangeCodeRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.Code == "" {
		c.BadRequest("code is required")
		return
	}

	acd, ok := h.authCodes.LoadAndDelete(req.Code)
	if !ok {
		c.Unauthorized("invalid or expired code")
		return
	}
	data, ok := acd.(authCodeData)
	if !ok || time.Now().After(data.expiresAt) {
		c.Unauthorized("code expired")
		return
	}

	h.issueTokens(c, data.profileID)
}

func (h *AuthHandler) RefreshToken(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.RefreshToken == "" {
		c.BadRequest("refresh_token is required")
		return
	}

	profileID, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.Unauthorized("invalid refresh token")
		return
	}

	ctx := c.Request.Context()
	tokenHash := services.HashToken(req.RefreshToken)
	stored, err := h.tokenService.ValidateRefreshToken(ctx, tokenHash)
	if err != nil || stored != profileID {
		c.Unauthorized("refresh token not found or expired")
		return
	}
	if err := h.tokenService.RevokeRefreshToken(ctx, tokenHash); err != nil {
		respondError(c, err)
		return
	}

	h.issueTokens(c, profileID)
}

// issueTokens reloads the profile so a changed admin flag is reflected in the
// new access token.
func (h *AuthHandler) issueTokens(c *drift.Context, profileID uuid.UUID) {
	ctx := c.Request.Context()

	profile, err := h.profiles.GetByID(ctx, profileID)
	if err != nil {
		c.Unauthorized("profile not found")
		return
	}

	pair, err := h.jwtService.GenerateTokenPair(profile.ID, profile.Email, profile.IsAdmin)
	if err != nil {
		c.InternalServerError("failed to generate tokens")
		return
	}

	expiresAt := time.Now().Add(h.jwtService.RefreshExpiry())
	if err := h.tokenService.StoreRefreshToken(ctx, profile.ID, services.HashToken(pair.RefreshToken), expiresAt); err != nil {
		respondError(c, err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}

func (h *AuthHandler) Logout(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if req.RefreshToken != "" {
		_ = h.tokenService.RevokeRefreshToken(c.Request.Context(), services.HashToken(req.RefreshToken))
	}
	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "logged out"})
}

func (h *AuthHandler) LogoutAll(c *drift.Context) {
	profileID := middleware.GetProfileID(c)
	if profileID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}
	if err := h.tokenService.RevokeAllProfileTokens(c.Request.Context(), profileID); err != nil {
		respondError(c, err)
		return
	}
	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "all sessions logged out"})
}

type callbackPage struct {
	Title    string
	Heading  string
	Subtitle string
	Redirect string
	Code     string
	Failed   bool
}

func (h *AuthHandler) renderFailure(c *drift.Context, reason string) {
	redirect := fmt.Sprintf("%s?error=%s", h.cfg.FrontendCallbackURL, url.QueryEscape(reason))
	h.renderCallback(c, http.StatusBadRequest, callbackPage{
		Title:    "Sign-in failed",
		Heading:  "Sign-in failed",
		Subtitle: reason,
		Redirect: redirect,
		Failed:   true,
	})
}

var callbackTemplate = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body { font-family: system-ui, -apple-system, sans-serif; background: #fdf8f3; color: #3b2f2f; margin: 0; padding: 40px 20px; }
        .card { max-width: 420px; margin: 0 auto; background: #fff; border: 1px solid #eadfd3; border-radius: 12px; padding: 36px 28px; text-align: center; }
        h1 { font-size: 20px; margin: 0 0 8px 0; color: {{if .Failed}}#9b1c1c{{else}}#7a3e00{{end}}; }
        p { color: #6b5b53; font-size: 14px; }
        code { display: block; background: #f6efe7; border-radius: 6px; padding: 10px; word-break: break-all; font-size: 13px; }
    </style>
</head>
<body>
    <div class="card">
        <h1>{{.Heading}}</h1>
        <p>{{.Subtitle}}</p>
        {{if .Code}}<p>If nothing happens, paste this code into Tapri:</p>
        <code>{{.Code}}</code>{{end}}
    </div>
    <script>window.location.href = {{.Redirect}};</script>
</body>
</html>`))

func (h *AuthHandler) renderCallback(c *drift.Context, status int, page callbackPage) {
	var b strings.Builder
	if err := callbackTemplate.Execute(&b, page); err != nil {
		c.InternalServerError("failed to render page")
		return
	}
	_ = c.HTML(status, b.String())
}
