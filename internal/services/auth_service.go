package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/generalux/achileads/internal/auth"
	"github.com/generalux/achileads/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStore interface {
	UpsertUser(ctx context.Context, user *models.User) error
}

type SessionStore interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// AuthService turns a LinkedIn profile into a local user and session.
type AuthService struct {
	Users    UserStore
	Sessions SessionStore
	TTL      time.Duration

	now func() time.Time
}

func NewAuthService(users UserStore, sessions SessionStore, ttl time.Duration) *AuthService {
	return &AuthService{Users: users, Sessions: sessions, TTL: ttl, now: time.Now}
}

// SignIn upserts the user behind profile and opens a session holding the
// provider access token.
func (s *AuthService) SignIn(ctx context.Context, profile *auth.Profile, accessToken string) (*models.Session, error) {
	user := &models.User{
		ProviderID: profile.ID,
		Name:       profile.Name,
		Email:      profile.Email,
		Image:      profile.Image,
	}
	if err := s.Users.UpsertUser(ctx, user); err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	session := &models.Session{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		User:        *user,
		AccessToken: accessToken,
		ExpiresAt:   s.now().Add(s.TTL),
	}
	if err := s.Sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	log.Printf("🔐 User %d signed in", user.ID)
	return session, nil
}

// Lookup returns a live session. Expired sessions are deleted on sight.
func (s *AuthService) Lookup(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}
	session, err := s.Sessions.GetSession(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !session.ExpiresAt.After(s.now()) {
		if err := s.Sessions.DeleteSession(ctx, id); err != nil {
			log.Printf("⚠️ Failed to drop expired session: %v", err)
		}
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *AuthService) SignOut(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.Sessions.DeleteSession(ctx, id)
}

// StartJanitor removes expired sessions every interval until ctx ends.
func (s *AuthService) StartJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.Sessions.DeleteExpiredSessions(ctx, s.now())
				if err != nil {
					log.Printf("❌ Session cleanup failed: %v", err)
				} else if n > 0 {
					log.Printf("🧹 Removed %d expired sessions", n)
				}
			}
		}
	}()
}

// MaskToken shows enough of a token to recognise it, never the whole thing.
func MaskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) > 20 {
		token = token[:20]
	}
	return token + "..."
}
