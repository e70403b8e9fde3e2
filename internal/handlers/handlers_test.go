package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/generalux/achileads/internal/auth"
	"github.com/generalux/achileads/internal/dtos"
	"github.com/generalux/achileads/internal/extractor"
	"github.com/generalux/achileads/internal/models"
	"github.com/generalux/achileads/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/oauth2"
)

type fakeProspects struct {
	userID *uint
	prompt string
	err    error
}

func (f *fakeProspects) Search(ctx context.Context, userID *uint, prompt string) (*services.SearchResult, error) {
	f.userID, f.prompt = userID, prompt
	if f.err != nil {
		return nil, f.err
	}
	return &services.SearchResult{SearchID: 4, Response: "1. Acme", Companies: extractor.Extract("1. Acme")}, nil
}

func (f *fakeProspects) Extract(text string) []extractor.Company { return extractor.Extract(text) }

func (f *fakeProspects) History(ctx context.Context, userID uint, limit int) ([]models.Search, error) {
	return []models.Search{{ID: 1, Prompt: "fintech"}}, nil
}

type fakeContacts struct {
	err error
}

func (f *fakeContacts) FindDecisionMakers(ctx context.Context, domain, company string) (*dtos.FindEmailsResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dtos.FindEmailsResponse{Success: true, Company: company, Domain: domain, DecisionMakers: []dtos.DecisionMaker{}}, nil
}

type fakeSessions struct {
	sessions map[string]*models.Session
	signedIn *auth.Profile
}

func (f *fakeSessions) SignIn(ctx context.Context, p *auth.Profile, token string) (*models.Session, error) {
	f.signedIn = p
	s := &models.Session{ID: "new-session", UserID: 9, AccessToken: token, User: models.User{ProviderID: p.ID}}
	f.sessions[s.ID] = s
	return s, nil
}

func (f *fakeSessions) Lookup(ctx context.Context, id string) (*models.Session, error) {
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return nil, services.ErrSessionNotFound
}

func (f *fakeSessions) SignOut(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

type fakeOAuth struct{}

func (fakeOAuth) Configured() bool { return true }
func (fakeOAuth) NewState() string { return "state-1" }
func (fakeOAuth) AuthCodeURL(state string) string { return "https://linkedin.example/auth?state=" + state }
func (fakeOAuth) CheckState(issued, returned string) error {
	if issued == "" || issued != returned {
		return auth.ErrStateMismatch
	}
	return nil
}
func (fakeOAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, *auth.Profile, error) {
	return &oauth2.Token{AccessToken: "li-token"}, &auth.Profile{ID: "sub-1", Name: "Ada"}, nil
}

type testEnv struct {
	router    *gin.Engine
	prospects *fakeProspects
	contacts  *fakeContacts
	sessions  *fakeSessions
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)
	env := &testEnv{
		prospects: &fakeProspects{},
		contacts:  &fakeContacts{},
		sessions: &fakeSessions{sessions: map[string]*models.Session{
			"live": {
				ID: "live", UserID: 3, AccessToken: "AQXdSP_W41_UPs5ioT_t8HESyODB4F",
				ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
				User:      models.User{ProviderID: "sub-3", Name: "Grace", Email: "grace@example.com"},
			},
		}},
	}
	env.router = NewRouter(RouterConfig{
		AllowedOrigins: []string{"*"},
		Prospects:      NewProspectHandler(env.prospects),
		Contacts:       NewContactHandler(env.contacts),
		Auth:           NewAuthHandler(fakeOAuth{}, env.sessions, time.Hour, false, "/dashboard"),
		Sessions:       env.sessions,
	})
	return env
}

func (env *testEnv) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	w := newTestEnv().do(http.MethodGet, "/api/v1/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("want 200 ok, got %d %s", w.Code, w.Body.String())
	}
}

func TestGenerate(t *testing.T) {
	env := newTestEnv()
	w := env.do(http.MethodPost, "/api/v1/generate", `{"prompt":"fintech in Austin"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d %s", w.Code, w.Body.String())
	}
	var got dtos.GenerateResponse
	decode(t, w, &got)
	want := dtos.GenerateResponse{Success: true, SearchID: 4, Response: "1. Acme", Companies: []extractor.Company{{Name: "Acme"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
	if env.prospects.userID != nil {
		t.Fatalf("anonymous request should not carry a user id")
	}
}

func TestGenerateWithSession(t *testing.T) {
	env := newTestEnv()
	w := env.do(http.MethodPost, "/api/v1/generate", `{"prompt":"fintech"}`, &http.Cookie{Name: SessionCookie, Value: "live"})
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if env.prospects.userID == nil || *env.prospects.userID != 3 {
		t.Fatalf("want user 3, got %v", env.prospects.userID)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		code int
	}{
		{"missing prompt", `{}`, nil, http.StatusBadRequest},
		{"bad json", `{`, nil, http.StatusBadRequest},
		{"provider failure", `{"prompt":"x"}`, errors.New("boom"), http.StatusInternalServerError},
		{"upstream", `{"prompt":"x"}`, &services.UpstreamError{Provider: "llm", StatusCode: 503}, http.StatusServiceUnavailable},
		{"upstream without status", `{"prompt":"x"}`, fmt.Errorf("generate: %w", services.ErrUpstream), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			env.prospects.err = tt.err
			w := env.do(http.MethodPost, "/api/v1/generate", tt.body)
			if w.Code != tt.code {
				t.Fatalf("want %d, got %d %s", tt.code, w.Code, w.Body.String())
			}
			var body map[string]any
			decode(t, w, &body)
			if body["error"] == "" || body["error"] == nil {
				t.Fatalf("want error message, got %v", body)
			}
		})
	}
}

func TestExtractCompanies(t *testing.T) {
	w := newTestEnv().do(http.MethodPost, "/api/v1/companies/extract", `{"text":"- Beta Inc - SME - beta.io"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	var got dtos.ExtractResponse
	decode(t, w, &got)
	want := []extractor.Company{{Name: "Beta Inc", Classification: "SME", Domain: "beta.io", Website: "https://beta.io"}}
	if diff := cmp.Diff(want, got.Companies); diff != "" {
		t.Fatalf("companies mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractCompaniesEmptyText(t *testing.T) {
	w := newTestEnv().do(http.MethodPost, "/api/v1/companies/extract", `{"text":""}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"companies":[]`) {
		t.Fatalf("want empty list, got %d %s", w.Code, w.Body.String())
	}
}

func TestFindEmails(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"ok", nil, http.StatusOK, ""},
		{"no key", services.ErrLookupKeyRequired, http.StatusBadRequest, "Either domain or company name is required"},
		{"unconfigured", services.ErrNotConfigured, http.StatusInternalServerError, "Hunter.io API key not configured"},
		{"upstream", &services.UpstreamError{Provider: "hunter.io", StatusCode: 401}, http.StatusUnauthorized, "Failed to fetch emails from Hunter.io"},
		{"upstream rate limit", fmt.Errorf("failed after 3 attempts: %w", &services.UpstreamError{Provider: "hunter.io", StatusCode: 429}), http.StatusTooManyRequests, "Failed to fetch emails from Hunter.io"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			env.contacts.err = tt.err
			w := env.do(http.MethodPost, "/api/v1/find-emails", `{"domain":"acme.com"}`)
			if w.Code != tt.code {
				t.Fatalf("want %d, got %d %s", tt.code, w.Code, w.Body.String())
			}
			if tt.msg != "" && !strings.Contains(w.Body.String(), tt.msg) {
				t.Fatalf("want %q in body, got %s", tt.msg, w.Body.String())
			}
		})
	}
}

func TestSearchesRequireSession(t *testing.T) {
	env := newTestEnv()
	if w := env.do(http.MethodGet, "/api/v1/searches", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
	w := env.do(http.MethodGet, "/api/v1/searches?limit=5", "", &http.Cookie{Name: SessionCookie, Value: "live"})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "fintech") {
		t.Fatalf("want 200 with searches, got %d %s", w.Code, w.Body.String())
	}
}

func TestSessionEndpoint(t *testing.T) {
	env := newTestEnv()
	if w := env.do(http.MethodGet, "/api/v1/session", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}

	w := env.do(http.MethodGet, "/api/v1/session", "", &http.Cookie{Name: SessionCookie, Value: "live"})
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	var got dtos.SessionResponse
	decode(t, w, &got)
	want := dtos.SessionResponse{
		User:        dtos.SessionUser{ID: "sub-3", Name: "Grace", Email: "grace@example.com"},
		AccessToken: "AQXdSP_W41_UPs5ioT_t...",
		ExpiresAt:   "2030-01-01T00:00:00Z",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("session mismatch (-want +got):\n%s", diff)
	}
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv()

	w := env.do(http.MethodGet, "/auth/linkedin/login", "")
	if w.Code != http.StatusFound {
		t.Fatalf("want redirect, got %d", w.Code)
	}
	loc, _ := url.Parse(w.Header().Get("Location"))
	if loc.Query().Get("state") != "state-1" {
		t.Fatalf("unexpected redirect %s", loc)
	}

	state := &http.Cookie{Name: stateCookie, Value: "state-1"}
	w = env.do(http.MethodGet, "/auth/linkedin/callback?code=abc&state=state-1", "", state)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/dashboard" {
		t.Fatalf("want redirect to /dashboard, got %d %s", w.Code, w.Header().Get("Location"))
	}
	if env.sessions.signedIn == nil || env.sessions.signedIn.ID != "sub-1" {
		t.Fatalf("profile not signed in: %+v", env.sessions.signedIn)
	}
	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			session = c
		}
	}
	if session == nil || session.Value != "new-session" || !session.HttpOnly {
		t.Fatalf("want http-only session cookie, got %+v", session)
	}

	w = env.do(http.MethodPost, "/auth/logout", "", session)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	if _, ok := env.sessions.sessions["new-session"]; ok {
		t.Fatal("session not removed on logout")
	}
}

func TestCallbackRejectsBadState(t *testing.T) {
	env := newTestEnv()
	w := env.do(http.MethodGet, "/auth/linkedin/callback?code=abc&state=forged", "", &http.Cookie{Name: stateCookie, Value: "state-1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", w.Code)
	}
	if env.sessions.signedIn != nil {
		t.Fatal("should not sign in with a forged state")
	}
}
