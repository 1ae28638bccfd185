package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/marqueapp/marque/internal/utils"
)

// Profile is the subset of the identity provider's userinfo response the
// application relies on.
type Profile struct {
	ID       string `json:"sub"`
	Email    string `json:"email"`
	FullName string `json:"name"`
}

// ProviderOptions configures the OAuth identity provider handoff.
type ProviderOptions struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	RedirectURL  string // ex: "https://marque.domain.ext/auth/callback"
}

// Provider performs the redirect-based sign-in handoff: it builds the
// authorization URL, exchanges the callback code and fetches the profile.
type Provider struct {
	cfg         *oauth2.Config
	userInfoURL string
}

// NewProvider creates a provider from explicit endpoint URLs so any
// OIDC-compatible identity provider can be plugged in.
func NewProvider(opts ProviderOptions) *Provider {
	return &Provider{
		cfg: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  opts.AuthURL,
				TokenURL: opts.TokenURL,
			},
		},
		userInfoURL: opts.UserInfoURL,
	}
}

// LoginURL returns the provider's authorization URL for the given state.
func (p *Provider) LoginURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

// Exchange trades the callback code for a token and fetches the profile.
func (p *Provider) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo request: %w", err)
	}

	resp, err := p.cfg.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request returned status %d", resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo: %w", err)
	}

	if profile.ID == "" {
		return nil, fmt.Errorf("userinfo response missing subject")
	}
	return &profile, nil
}
