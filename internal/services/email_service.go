package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/generalux/achileads/internal/config"
	"github.com/generalux/achileads/internal/dtos"
	"golang.org/x/net/publicsuffix"
)

type hunterEmail struct {
	Value      string `json:"value"`
	Type       string `json:"type"`
	Confidence int    `json:"confidence"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Position   string `json:"position"`
	Seniority  string `json:"seniority"`
	Department string `json:"department"`
	LinkedIn   string `json:"linkedin"`
	Sources    []struct {
		Domain string `json:"domain"`
		URI    string `json:"uri"`
	} `json:"sources"`
}

type hunterResponse struct {
	Data struct {
		Domain       string        `json:"domain"`
		Organization string        `json:"organization"`
		Pattern      string        `json:"pattern"`
		Country      string        `json:"country"`
		Emails       []hunterEmail `json:"emails"`
	} `json:"data"`
}

// EmailService finds decision-maker contacts for a company via Hunter.io.
type EmailService struct {
	APIKey     string
	BaseURL    string
	Limit      int
	HTTPClient *http.Client
	Matcher    *MatcherService

	attempts int
	backoff  time.Duration
}

func NewEmailService(cfg config.HunterConfig, matcher *MatcherService) *EmailService {
	if matcher == nil {
		matcher = NewMatcherService()
	}
	return &EmailService{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Limit:      cfg.Limit,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Matcher:    matcher,
		attempts:   3,
		backoff:    time.Second,
	}
}

// FindDecisionMakers looks up people at a company by domain, or by name
// when no domain is known.
func (s *EmailService) FindDecisionMakers(ctx context.Context, domain, companyName string) (*dtos.FindEmailsResponse, error) {
	domain = NormalizeDomain(domain)
	companyName = strings.TrimSpace(companyName)
	if domain == "" && companyName == "" {
		return nil, ErrLookupKeyRequired
	}
	if s.APIKey == "" {
		return nil, fmt.Errorf("%w: Hunter.io API key not configured", ErrNotConfigured)
	}

	params := url.Values{}
	params.Set("api_key", s.APIKey)
	params.Set("limit", strconv.Itoa(s.Limit))
	params.Set("type", "personal")
	if domain != "" {
		params.Set("domain", domain)
	} else {
		params.Set("company", companyName)
	}
	endpoint := s.BaseURL + "/domain-search?" + params.Encode()

	var data hunterResponse
	err := retry(ctx, s.attempts, s.backoff, func() error {
		return s.getJSON(ctx, endpoint, &data)
	})
	if err != nil {
		return nil, err
	}

	decisionMakers := s.Matcher.FilterDecisionMakers(data.Data.Emails)
	log.Printf("🔎 Hunter: %d emails, %d decision makers for %s", len(data.Data.Emails), len(decisionMakers), firstNonEmpty(domain, companyName))

	return &dtos.FindEmailsResponse{
		Success:        true,
		Company:        firstNonEmpty(data.Data.Organization, companyName),
		Domain:         firstNonEmpty(data.Data.Domain, domain),
		TotalEmails:    len(data.Data.Emails),
		DecisionMakers: decisionMakers,
		Meta: dtos.ContactMeta{
			Pattern: data.Data.Pattern,
			Country: data.Data.Country,
			Results: len(decisionMakers),
		},
	}, nil
}

func (s *EmailService) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return permanent(ctx.Err())
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		upErr := &UpstreamError{Provider: "hunter.io", StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return upErr
		}
		return permanent(upErr)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return permanent(fmt.Errorf("decode hunter response: %w", err))
	}
	return nil
}

// NormalizeDomain reduces a URL or host to its registrable domain:
// "https://www.shop.example.co.uk/about" becomes "example.co.uk".
func NormalizeDomain(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}
	host := s
	if u, err := url.Parse(s); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}
	host = strings.TrimSuffix(host, ".")
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return etld1
	}
	return host
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// --- HELPERS ---

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// permanent marks err as not worth retrying.
func permanent(err error) error { return &permanentError{err: err} }

// retry executes f with exponential backoff until it succeeds, returns a
// permanent error, or attempts run out.
func retry(ctx context.Context, attempts int, sleep time.Duration, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		var p *permanentError
		if errors.As(err, &p) {
			return p.err
		}
		if i == attempts-1 {
			break
		}

		log.Printf("⚠️ API Error: %v. Retrying in %v...", err, sleep)
		select {
		case <-time.After(sleep):
		case <-ctx.Done():
			return ctx.Err()
		}
		sleep *= 2
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, err)
}
