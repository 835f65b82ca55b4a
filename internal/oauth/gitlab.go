package oauth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/oauth2"

	"github.com/tapri-app/tapri-api/internal/config"
)

const gitlabDefaultURL = "https://gitlab.com"

// GitLabProvider signs in against gitlab.com or a self-hosted instance.
type GitLabProvider struct {
	config  *oauth2.Config
	baseURL string
}

func NewGitLabProvider(cfg config.OAuthConfig, baseURL string) *GitLabProvider {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = gitlabDefaultURL
	}
	return &GitLabProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"read_user"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  baseURL + "/oauth/authorize",
				TokenURL: baseURL + "/oauth/token",
			},
		},
		baseURL: baseURL,
	}
}

func (p *GitLabProvider) Name() string { return "gitlab" }

func (p *GitLabProvider) GetConsentURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *GitLabProvider) ExchangeCode(ctx context.Context, code string) (*UserInfo, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	client := p.config.Client(ctx, token)

	var user struct {
		ID          int64  `json:"id"`
		Username    string `json:"username"`
		Name        string `json:"name"`
		Email       string `json:"email"`
		AvatarURL   string `json:"avatar_url"`
		ConfirmedAt string `json:"confirmed_at"`
	}
	if err := getJSON(client, p.baseURL+"/api/v4/user", "gitlab", &user); err != nil {
		return nil, err
	}

	if user.Email == "" || user.ConfirmedAt == "" {
		return nil, errors.New("gitlab account email is not confirmed")
	}
	name := user.Name
	if name == "" {
		name = user.Username
	}

	return &UserInfo{
		Email:     user.Email,
		Name:      name,
		AvatarURL: user.AvatarURL,
		ID:        strconv.FormatInt(user.ID, 10),
		Provider:  p.Name(),
	}, nil
}
