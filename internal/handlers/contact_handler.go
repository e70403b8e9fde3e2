package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/generalux/achileads/internal/dtos"
	"github.com/generalux/achileads/internal/services"
	"github.com/gin-gonic/gin"
)

type ContactFinder interface {
	FindDecisionMakers(ctx context.Context, domain, companyName string) (*dtos.FindEmailsResponse, error)
}

type ContactHandler struct {
	Contacts ContactFinder
}

func NewContactHandler(f ContactFinder) *ContactHandler {
	return &ContactHandler{Contacts: f}
}

// FindEmails is the POST /find-emails endpoint
func (h *ContactHandler) FindEmails(c *gin.Context) {
	var req dtos.FindEmailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}

	res, err := h.Contacts.FindDecisionMakers(c.Request.Context(), req.Domain, req.CompanyName)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, res)
	case errors.Is(err, services.ErrLookupKeyRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either domain or company name is required"})
	case errors.Is(err, services.ErrNotConfigured):
		abortWithError(c, err, "Hunter.io API key not configured")
	case errors.Is(err, services.ErrUpstream):
		abortWithError(c, err, "Failed to fetch emails from Hunter.io")
	default:
		abortWithError(c, err, "Internal server error")
	}
}
