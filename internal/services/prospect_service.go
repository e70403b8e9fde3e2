package services

import (
	"context"
	"log"

	"github.com/generalux/achileads/internal/extractor"
	"github.com/generalux/achileads/internal/models"
)

// PromptRunner answers a prospecting prompt with free text.
type PromptRunner interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type SearchStore interface {
	CreateSearch(ctx context.Context, search *models.Search) error
	ListSearches(ctx context.Context, userID uint, limit int) ([]models.Search, error)
}

type SearchResult struct {
	SearchID  uint
	Response  string
	Companies []extractor.Company
}

type ProspectService struct {
	LLM       PromptRunner
	Extractor *extractor.Extractor
	// Store may be nil, in which case searches are not kept.
	Store SearchStore
}

func NewProspectService(llm PromptRunner, ex *extractor.Extractor, store SearchStore) *ProspectService {
	if ex == nil {
		ex = extractor.New(extractor.DefaultVocabulary())
	}
	return &ProspectService{LLM: llm, Extractor: ex, Store: store}
}

// Search asks the model for prospects and extracts the companies it lists.
// userID is nil for anonymous callers.
func (s *ProspectService) Search(ctx context.Context, userID *uint, prompt string) (*SearchResult, error) {
	resp, err := s.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	companies := s.Extractor.Extract(resp)
	if len(companies) == 0 {
		log.Printf("⚠️ No companies found in a %d char response", len(resp))
	} else {
		log.Printf("🏢 Extracted %d companies", len(companies))
	}

	result := &SearchResult{Response: resp, Companies: companies}
	if s.Store == nil {
		return result, nil
	}

	search := &models.Search{UserID: userID, Prompt: prompt, Response: resp}
	for i, c := range companies {
		search.Prospects = append(search.Prospects, models.Prospect{
			Position:       i + 1,
			Name:           c.Name,
			Description:    c.Description,
			Domain:         c.Domain,
			Website:        c.Website,
			Location:       c.Location,
			Classification: c.Classification,
			FoundingYear:   c.FoundingYear,
		})
	}
	// History is a convenience; losing it must not fail the search.
	if err := s.Store.CreateSearch(ctx, search); err != nil {
		log.Printf("❌ Failed to store search: %v", err)
		return result, nil
	}
	result.SearchID = search.ID
	return result, nil
}

// Extract runs the extractor alone, for text the caller already has.
func (s *ProspectService) Extract(text string) []extractor.Company {
	return s.Extractor.Extract(text)
}

// History returns a user's most recent searches with their prospects.
func (s *ProspectService) History(ctx context.Context, userID uint, limit int) ([]models.Search, error) {
	if s.Store == nil {
		return []models.Search{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Store.ListSearches(ctx, userID, limit)
}
