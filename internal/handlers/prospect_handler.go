package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/generalux/achileads/internal/dtos"
	"github.com/generalux/achileads/internal/extractor"
	"github.com/generalux/achileads/internal/models"
	"github.com/generalux/achileads/internal/services"
	"github.com/gin-gonic/gin"
)

type ProspectFinder interface {
	Search(ctx context.Context, userID *uint, prompt string) (*services.SearchResult, error)
	Extract(text string) []extractor.Company
	History(ctx context.Context, userID uint, limit int) ([]models.Search, error)
}

type ProspectHandler struct {
	Prospects ProspectFinder
}

func NewProspectHandler(p ProspectFinder) *ProspectHandler {
	return &ProspectHandler{Prospects: p}
}

// Generate is the POST /generate endpoint
func (h *ProspectHandler) Generate(c *gin.Context) {
	var req dtos.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is required"})
		return
	}

	var userID *uint
	if s := currentSession(c); s != nil {
		userID = &s.UserID
	}

	res, err := h.Prospects.Search(c.Request.Context(), userID, req.Prompt)
	if err != nil {
		abortWithError(c, err, "Failed to generate response")
		return
	}
	c.JSON(http.StatusOK, dtos.GenerateResponse{
		Success:   true,
		SearchID:  res.SearchID,
		Response:  res.Response,
		Companies: res.Companies,
	})
}

// ExtractCompanies is the POST /companies/extract endpoint. It only parses
// text the caller already has.
func (h *ProspectHandler) ExtractCompanies(c *gin.Context) {
	var req dtos.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, dtos.ExtractResponse{
		Success:   true,
		Companies: h.Prospects.Extract(req.Text),
	})
}

// ListSearches is the GET /searches endpoint
func (h *ProspectHandler) ListSearches(c *gin.Context) {
	s := currentSession(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	searches, err := h.Prospects.History(c.Request.Context(), s.UserID, limit)
	if err != nil {
		abortWithError(c, err, "Failed to load searches")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "searches": searches})
}
