package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/inventoryhub/backend/internal/config"
	"github.com/inventoryhub/backend/internal/token"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleProfile is the normalized identity extracted from either the
// authorization-code flow or an ID token.
type GoogleProfile struct {
	Sub           string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// GoogleOAuth handles both Google sign-in paths: the browser
// authorization-code flow and direct ID-token verification for
// native clients.
type GoogleOAuth struct {
	conf       *oauth2.Config
	jwks       *GoogleJWKSClient
	httpClient *http.Client
}

func NewGoogleOAuth(cfg *config.Config) *GoogleOAuth {
	return &GoogleOAuth{
		conf: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		jwks:       NewGoogleJWKSClient(cfg.GoogleClientID),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthURL builds the consent-screen URL. The state is random for
// provider compliance but is not persisted or validated on callback,
// matching the behavior this service replaces.
func (g *GoogleOAuth) AuthURL() (string, error) {
	state, err := token.NewSessionToken()
	if err != nil {
		return "", err
	}
	return g.conf.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// Exchange trades an authorization code for the user's profile.
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	tok, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var u struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("userinfo decode failed: %w", err)
	}
	if u.Email == "" {
		return nil, fmt.Errorf("google profile has no email")
	}

	return &GoogleProfile{
		Sub:           u.ID,
		Email:         u.Email,
		EmailVerified: u.VerifiedEmail,
		Name:          u.Name,
		Picture:       u.Picture,
	}, nil
}

// VerifyIDToken validates an ID token from a native client and returns
// the profile it asserts.
func (g *GoogleOAuth) VerifyIDToken(_ context.Context, idToken string) (*GoogleProfile, error) {
	claims, err := g.jwks.VerifyIDToken(idToken)
	if err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("id token has no email")
	}
	return &GoogleProfile{
		Sub:           claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}
