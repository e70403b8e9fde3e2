package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/generalux/achileads/internal/services"
	"github.com/gin-gonic/gin"
)

// statusFor maps service errors onto HTTP codes. Upstream failures keep
// the provider's status so callers see the same code the provider sent.
func statusFor(err error) int {
	var upErr *services.UpstreamError
	switch {
	case errors.Is(err, services.ErrPromptRequired), errors.Is(err, services.ErrLookupKeyRequired):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrSessionNotFound):
		return http.StatusUnauthorized
	case errors.As(err, &upErr) && upErr.StatusCode >= 400 && upErr.StatusCode <= 599:
		return upErr.StatusCode
	case errors.Is(err, services.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError logs err and answers with msg, or with err itself for
// client errors where the message is safe to show.
func abortWithError(c *gin.Context, err error, msg string) {
	status := statusFor(err)
	if status == http.StatusBadRequest && !errors.Is(err, services.ErrUpstream) {
		msg = err.Error()
	}
	log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
