package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/generalux/achileads/internal/auth"
	"github.com/generalux/achileads/internal/models"
	"github.com/generalux/achileads/internal/services"
	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "achileads_session"
	sessionKey    = "session"
)

type SessionManager interface {
	SignIn(ctx context.Context, profile *auth.Profile, accessToken string) (*models.Session, error)
	Lookup(ctx context.Context, id string) (*models.Session, error)
	SignOut(ctx context.Context, id string) error
}

// LoadSession attaches the caller's session, if any, to the context.
// It never rejects a request; RequireSession does that.
func LoadSession(sessions SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		if err != nil || id == "" || sessions == nil {
			c.Next()
			return
		}
		s, err := sessions.Lookup(c.Request.Context(), id)
		switch {
		case err == nil:
			c.Set(sessionKey, s)
		case !errors.Is(err, services.ErrSessionNotFound):
			log.Printf("⚠️ Session lookup failed: %v", err)
		}
		c.Next()
	}
}

func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentSession(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not signed in"})
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) *models.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*models.Session)
	return s
}
