package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/generalux/achileads/internal/config"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/linkedin"
)

const defaultUserInfoURL = "https://api.linkedin.com/v2/userinfo"

var ErrStateMismatch = errors.New("oauth state mismatch")

// Profile is the subset of the OpenID userinfo the app keeps.
type Profile struct {
	ID    string
	Name  string
	Email string
	Image string
}

type userInfo struct {
	Sub        string `json:"sub"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email"`
	Picture    string `json:"picture"`
}

// LinkedInAuth runs the "Sign In with LinkedIn using OpenID Connect" flow.
type LinkedInAuth struct {
	Config      *oauth2.Config
	UserInfoURL string
}

func NewLinkedInAuth(cfg config.LinkedInConfig) *LinkedInAuth {
	return &LinkedInAuth{
		Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     linkedin.Endpoint,
		},
		UserInfoURL: defaultUserInfoURL,
	}
}

// Configured reports whether client credentials are present.
func (a *LinkedInAuth) Configured() bool {
	return a.Config.ClientID != "" && a.Config.ClientSecret != ""
}

// NewState returns a random value to round-trip through the provider.
func (a *LinkedInAuth) NewState() string {
	return uuid.NewString()
}

func (a *LinkedInAuth) AuthCodeURL(state string) string {
	return a.Config.AuthCodeURL(state)
}

// CheckState compares the state we issued with the one LinkedIn sent back.
func (a *LinkedInAuth) CheckState(issued, returned string) error {
	if issued == "" || subtle.ConstantTimeCompare([]byte(issued), []byte(returned)) != 1 {
		return ErrStateMismatch
	}
	return nil
}

// Exchange swaps the authorization code for a token and reads the profile.
func (a *LinkedInAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, *Profile, error) {
	tok, err := a.Config.Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("exchange code: %w", err)
	}
	profile, err := a.FetchProfile(ctx, tok)
	if err != nil {
		return nil, nil, err
	}
	return tok, profile, nil
}

func (a *LinkedInAuth) FetchProfile(ctx context.Context, tok *oauth2.Token) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.Config.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("userinfo returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Sub == "" {
		return nil, errors.New("userinfo has no subject")
	}
	return mapProfile(info), nil
}

func mapProfile(info userInfo) *Profile {
	name := info.Name
	if name == "" {
		name = strings.TrimSpace(info.GivenName + " " + info.FamilyName)
	}
	return &Profile{
		ID:    info.Sub,
		Name:  name,
		Email: info.Email,
		Image: info.Picture,
	}
}
