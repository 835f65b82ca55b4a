// Package oauth signs people in through third-party identity providers.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tapri-app/tapri-api/internal/config"
)

type UserInfo struct {
	Email     string
	Name      string
	AvatarURL string
	ID        string
	Provider  string
}

type Provider interface {
	GetConsentURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*UserInfo, error)
	Name() string
}

// Configured returns the providers that have client credentials, keyed by
// name.
func Configured(cfg *config.Config) map[string]Provider {
	providers := make(map[string]Provider)
	if cfg.GitHub.ClientID != "" && cfg.GitHub.ClientSecret != "" {
		providers["github"] = NewGitHubProvider(cfg.GitHub)
	}
	if cfg.Google.ClientID != "" && cfg.Google.ClientSecret != "" {
		providers["google"] = NewGoogleProvider(cfg.Google)
	}
	if cfg.GitLab.ClientID != "" && cfg.GitLab.ClientSecret != "" {
		providers["gitlab"] = NewGitLabProvider(cfg.GitLab, cfg.GitLabURL)
	}
	return providers
}

func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func getJSON(client *http.Client, url, provider string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", provider, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s api returned status %d", provider, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", provider, err)
	}
	return nil
}
