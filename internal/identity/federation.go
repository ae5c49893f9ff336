package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// FederatedProfile is what a federated provider tells us about the
// signed-in account.
type FederatedProfile struct {
	Subject string
	Email   string
	Name    string
	Picture string
	// EmailVerified is false when the provider has not confirmed that
	// the account owns Email.
	EmailVerified bool
}

// Federation performs the authorization code flow of one external
// provider.
type Federation interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (FederatedProfile, error)
}

type GoogleFederation struct {
	Config *oauth2.Config
}

func NewGoogleFederation(clientID, clientSecret, redirectURL string) *GoogleFederation {
	return &GoogleFederation{Config: &oauth2.Config{
		RedirectURL:  redirectURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}}
}

func (g *GoogleFederation) Name() string {
	return "google"
}

func (g *GoogleFederation) AuthCodeURL(state string) string {
	return g.Config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (g *GoogleFederation) Exchange(ctx context.Context, code string) (FederatedProfile, error) {
	token, err := g.Config.Exchange(ctx, code)
	if err != nil {
		return FederatedProfile{}, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return FederatedProfile{}, err
	}
	resp, err := g.Config.Client(ctx, token).Do(req)
	if err != nil {
		return FederatedProfile{}, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return FederatedProfile{}, fmt.Errorf("fetch user info: status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return FederatedProfile{}, fmt.Errorf("decode user info: %w", err)
	}
	if info.ID == "" || info.Email == "" {
		return FederatedProfile{}, fmt.Errorf("user info without id or email")
	}

	return FederatedProfile{
		Subject:       info.ID,
		Email:         info.Email,
		Name:          info.Name,
		Picture:       info.Picture,
		EmailVerified: info.VerifiedEmail,
	}, nil
}
