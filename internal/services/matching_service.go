package services

import (
	"sort"
	"strings"

	"github.com/generalux/achileads/internal/dtos"
)

// DecisionMakerTitles are position keywords that mark someone who can buy.
var DecisionMakerTitles = []string{
	"ceo", "chief executive officer", "founder", "co-founder",
	"cto", "chief technology officer", "chief technical officer",
	"cmo", "chief marketing officer", "vp", "vice president",
	"director", "head of", "president", "owner", "managing director",
	"general manager", "senior director", "executive director",
}

var seniorLevels = []string{"senior", "executive", "c-level"}

type MatcherService struct {
	Titles []string
}

func NewMatcherService() *MatcherService {
	return &MatcherService{Titles: DecisionMakerTitles}
}

// IsDecisionMaker reports whether a contact looks senior enough to pitch.
// A contact without a position never qualifies.
func (s *MatcherService) IsDecisionMaker(position, seniority string) bool {
	if position == "" {
		return false
	}
	lowerPosition := strings.ToLower(position)
	lowerSeniority := strings.ToLower(seniority)

	// --- RULE 1: title keyword ---
	for _, title := range s.Titles {
		if strings.Contains(lowerPosition, title) {
			return true
		}
	}

	// --- RULE 2: seniority level ---
	for _, level := range seniorLevels {
		if strings.Contains(lowerSeniority, level) {
			return true
		}
	}
	return false
}

// FilterDecisionMakers keeps the qualifying contacts, highest confidence first.
func (s *MatcherService) FilterDecisionMakers(emails []hunterEmail) []dtos.DecisionMaker {
	out := []dtos.DecisionMaker{}
	for _, e := range emails {
		if !s.IsDecisionMaker(e.Position, e.Seniority) {
			continue
		}
		out = append(out, dtos.DecisionMaker{
			Email:      e.Value,
			Name:       strings.TrimSpace(e.FirstName + " " + e.LastName),
			Title:      e.Position,
			Confidence: e.Confidence,
			Department: e.Department,
			Seniority:  e.Seniority,
			LinkedIn:   e.LinkedIn,
			Sources:    len(e.Sources),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out
}
