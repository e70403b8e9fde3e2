package extractor

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vocabulary is the synonym table the extractor matches labels against.
// It is plain data so that it can be versioned and shipped as a YAML file.
type Vocabulary struct {
	Version string `yaml:"version"`

	// Label synonyms, matched case-insensitively as "<label>: value".
	Name           []string `yaml:"name"`
	Description    []string `yaml:"description"`
	Domain         []string `yaml:"domain"`
	Location       []string `yaml:"location"`
	FoundingYear   []string `yaml:"founding_year"`
	Classification []string `yaml:"classification"`

	// Sizes is the classification vocabulary used for unlabelled keyword
	// matches. Single words match case-sensitively, longer entries in any
	// case; the stored spelling is returned.
	Sizes []string `yaml:"sizes"`

	// Prose cues that introduce a value without a separator,
	// e.g. "based in Austin" or "founded in 2015".
	LocationPhrases []string `yaml:"location_phrases"`
	FoundedPhrases  []string `yaml:"founded_phrases"`
}

// DefaultVocabulary returns the built-in English synonym table.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Version:         "1",
		Name:            []string{"company name", "company", "name"},
		Description:     []string{"description", "introduction", "intro", "overview", "about"},
		Domain:          []string{"domain name", "domain", "website"},
		Location:        []string{"location", "based out of"},
		FoundingYear:    []string{"founding year", "founded"},
		Classification:  []string{"classification", "type"},
		Sizes:           []string{"Large Enterprise", "Enterprise", "Medium", "Small", "SME"},
		LocationPhrases: []string{"based out of", "based in", "headquartered in"},
		FoundedPhrases:  []string{"founded", "established"},
	}
}

// LoadVocabulary reads a YAML vocabulary file. Lists missing from the file
// fall back to the defaults.
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("read vocabulary: %w", err)
	}
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Vocabulary{}, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}
	return v.withDefaults(), nil
}

func (v Vocabulary) withDefaults() Vocabulary {
	d := DefaultVocabulary()
	fill := func(dst *[]string, def []string) {
		if len(*dst) == 0 {
			*dst = def
		}
	}
	if v.Version == "" {
		v.Version = d.Version
	}
	fill(&v.Name, d.Name)
	fill(&v.Description, d.Description)
	fill(&v.Domain, d.Domain)
	fill(&v.Location, d.Location)
	fill(&v.FoundingYear, d.FoundingYear)
	fill(&v.Classification, d.Classification)
	fill(&v.Sizes, d.Sizes)
	fill(&v.LocationPhrases, d.LocationPhrases)
	fill(&v.FoundedPhrases, d.FoundedPhrases)
	return v
}

// alternation builds a regexp alternation, longest entry first so that
// "domain name" wins over "domain". Inner spaces match any whitespace run.
func alternation(words []string) string {
	var parts []string
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		q := regexp.QuoteMeta(w)
		parts = append(parts, strings.Join(strings.Fields(q), `\s+`))
	}
	sort.SliceStable(parts, func(i, j int) bool { return len(parts[i]) > len(parts[j]) })
	return strings.Join(parts, "|")
}

// sizeAlternation matches multi-word sizes ("Large Enterprise") in any
// case and single words only as spelled, so "small" in prose is ignored.
func sizeAlternation(sizes []string) string {
	var multi, single []string
	for _, s := range sizes {
		switch n := len(strings.Fields(s)); {
		case n > 1:
			multi = append(multi, s)
		case n == 1:
			single = append(single, s)
		}
	}
	var parts []string
	if len(multi) > 0 {
		parts = append(parts, `(?i:`+alternation(multi)+`)`)
	}
	if len(single) > 0 {
		parts = append(parts, alternation(single))
	}
	return strings.Join(parts, "|")
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
