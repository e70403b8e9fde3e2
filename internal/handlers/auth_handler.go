package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/generalux/achileads/internal/auth"
	"github.com/generalux/achileads/internal/dtos"
	"github.com/generalux/achileads/internal/services"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

const stateCookie = "achileads_oauth_state"

type OAuthProvider interface {
	Configured() bool
	NewState() string
	AuthCodeURL(state string) string
	CheckState(issued, returned string) error
	Exchange(ctx context.Context, code string) (*oauth2.Token, *auth.Profile, error)
}

type AuthHandler struct {
	OAuth             OAuthProvider
	Sessions          SessionManager
	SessionTTL        time.Duration
	CookieSecure      bool
	PostLoginRedirect string
}

func NewAuthHandler(o OAuthProvider, s SessionManager, ttl time.Duration, secure bool, redirect string) *AuthHandler {
	return &AuthHandler{OAuth: o, Sessions: s, SessionTTL: ttl, CookieSecure: secure, PostLoginRedirect: redirect}
}

// Login is the GET /auth/linkedin/login endpoint
func (h *AuthHandler) Login(c *gin.Context) {
	if !h.OAuth.Configured() || h.Sessions == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "LinkedIn sign-in is not configured"})
		return
	}
	state := h.OAuth.NewState()
	h.setCookie(c, stateCookie, state, int((10 * time.Minute).Seconds()))
	c.Redirect(http.StatusFound, h.OAuth.AuthCodeURL(state))
}

// Callback is the GET /auth/linkedin/callback endpoint
func (h *AuthHandler) Callback(c *gin.Context) {
	if e := c.Query("error"); e != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "LinkedIn sign-in failed: " + c.DefaultQuery("error_description", e)})
		return
	}

	issued, _ := c.Cookie(stateCookie)
	h.setCookie(c, stateCookie, "", -1)
	if err := h.OAuth.CheckState(issued, c.Query("state")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sign-in state"})
		return
	}

	tok, profile, err := h.OAuth.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		log.Printf("❌ LinkedIn exchange failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "LinkedIn sign-in failed"})
		return
	}

	session, err := h.Sessions.SignIn(c.Request.Context(), profile, tok.AccessToken)
	if err != nil {
		abortWithError(c, err, "Failed to create session")
		return
	}
	h.setCookie(c, SessionCookie, session.ID, int(h.SessionTTL.Seconds()))
	c.Redirect(http.StatusFound, h.PostLoginRedirect)
}

// Logout is the POST /auth/logout endpoint
func (h *AuthHandler) Logout(c *gin.Context) {
	if id, err := c.Cookie(SessionCookie); err == nil && h.Sessions != nil {
		if err := h.Sessions.SignOut(c.Request.Context(), id); err != nil {
			log.Printf("⚠️ Sign out failed: %v", err)
		}
	}
	h.setCookie(c, SessionCookie, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Session is the GET /session endpoint
func (h *AuthHandler) Session(c *gin.Context) {
	s := currentSession(c)
	if s == nil {
		abortWithError(c, services.ErrSessionNotFound, "Not signed in")
		return
	}
	c.JSON(http.StatusOK, dtos.SessionResponse{
		User: dtos.SessionUser{
			ID:    s.User.ProviderID,
			Name:  s.User.Name,
			Email: s.User.Email,
			Image: s.User.Image,
		},
		AccessToken: services.MaskToken(s.AccessToken),
		ExpiresAt:   s.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.CookieSecure, true)
}
