package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/tapri-app/tapri-api/internal/config"
)

const githubAPI = "https://api.github.com"

type GitHubProvider struct {
	config  *oauth2.Config
	apiBase string
}

func NewGitHubProvider(cfg config.OAuthConfig) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"user:email", "read:user"},
			Endpoint:     github.Endpoint,
		},
		apiBase: githubAPI,
	}
}

func (p *GitHubProvider) Name() string { return "github" }

func (p *GitHubProvider) GetConsentURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *GitHubProvider) ExchangeCode(ctx context.Context, code string) (*UserInfo, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	client := p.config.Client(ctx, token)

	var user struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(client, p.apiBase+"/user", "github", &user); err != nil {
		return nil, err
	}

	email := user.Email
	if email == "" {
		if email, err = p.verifiedEmail(client); err != nil {
			return nil, err
		}
	}
	name := user.Name
	if name == "" {
		name = user.Login
	}

	return &UserInfo{
		Email:     email,
		Name:      name,
		AvatarURL: user.AvatarURL,
		ID:        strconv.FormatInt(user.ID, 10),
		Provider:  p.Name(),
	}, nil
}

// verifiedEmail prefers the primary verified address, then any verified one.
func (p *GitHubProvider) verifiedEmail(client *http.Client) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := getJSON(client, p.apiBase+"/user/emails", "github", &emails); err != nil {
		return "", err
	}

	fallback := ""
	for _, e := range emails {
		if !e.Verified {
			continue
		}
		if e.Primary {
			return e.Email, nil
		}
		if fallback == "" {
			fallback = e.Email
		}
	}
	if fallback == "" {
		return "", errors.New("github account has no verified email")
	}
	return fallback, nil
}
