// Package extractor turns loosely list-shaped model output into Company
// records. It is a best-effort heuristic: text that does not look like a
// list of companies yields fewer records or none, never an error.
package extractor

import (
	"regexp"
	"strings"
)

// Extractor holds a compiled vocabulary. It is immutable after New and safe
// for concurrent use.
type Extractor struct {
	vocab Vocabulary

	nameLabel    *regexp.Regexp
	descLabel    *regexp.Regexp
	continuation *regexp.Regexp
	labels       map[Field]*regexp.Regexp

	sizes     *regexp.Regexp
	sizeTail  *regexp.Regexp
	sizeIndex map[string]string

	locationCue *regexp.Regexp
	foundedCue  *regexp.Regexp
	yearSegment *regexp.Regexp

	rules []rule
}

var defaultExtractor = New(DefaultVocabulary())

// Extract runs the default extractor over text.
func Extract(text string) []Company {
	return defaultExtractor.Extract(text)
}

// New compiles v. Empty lists in v are taken from DefaultVocabulary.
func New(v Vocabulary) *Extractor {
	v = v.withDefaults()
	e := &Extractor{
		vocab:     v,
		labels:    make(map[Field]*regexp.Regexp),
		sizeIndex: make(map[string]string),
	}

	e.nameLabel = regexp.MustCompile(`(?i)^[*_]*(?:` + alternation(v.Name) + `)[*_]*\s*:[*_]*\s*`)
	e.descLabel = regexp.MustCompile(`(?i)^[*_]*(?:` + alternation(v.Description) + `)[*_]*` + labelSep + `[*_]*\s*`)

	fieldWords := map[Field][]string{
		FieldClassification: v.Classification,
		FieldLocation:       v.Location,
		FieldDomain:         v.Domain,
		FieldFoundingYear:   v.FoundingYear,
	}
	for f, words := range fieldWords {
		alt := alternation(words)
		e.labels[f] = regexp.MustCompile(`(?i)(?:^[*_]*(?:` + alt + `)[*_]*` + leadSep +
			`|[^\pL\pN][*_]*(?:` + alt + `)[*_]*` + labelSep + `)[*_]*\s*(.*)$`)
	}

	labelled := concat(v.Classification, v.Location, v.Domain, v.FoundingYear, v.Description)
	phrases := concat(v.LocationPhrases, v.FoundedPhrases)
	e.continuation = regexp.MustCompile(`(?i)^[*_]*(?:(?:` + alternation(labelled) + `)[*_]*` + leadSep +
		`|(?:` + alternation(phrases) + `)\s)`)

	sizes := sizeAlternation(v.Sizes)
	e.sizes = regexp.MustCompile(`\b(?:` + sizes + `)\b`)
	e.sizeTail = regexp.MustCompile(`[\s,|(\[–—-]\s*(` + sizes + `)\s*[)\]]?\s*$`)
	for _, s := range v.Sizes {
		e.sizeIndex[foldKey(s)] = strings.Join(strings.Fields(s), " ")
	}

	e.locationCue = regexp.MustCompile(`(?i)\b(?:` + alternation(v.LocationPhrases) + `)\s*:?\s+(\pL[^.;()\n|]*)`)
	founded := alternation(v.FoundedPhrases)
	e.foundedCue = regexp.MustCompile(`(?i)\b(?:` + founded + `)(?:\s+in)?\s*:?\s+(\d{4})\b`)
	e.yearSegment = regexp.MustCompile(`(?i)^(?:(?:` + founded + `)(?:\s+in)?\s*:?\s*)?(\d{4})$`)

	e.rules = e.buildRules()
	return e
}

// Vocabulary returns the synonym table e was built from.
func (e *Extractor) Vocabulary() Vocabulary {
	return e.vocab
}

// Extract returns one Company per list item in text, in input order.
// Items without a usable name are skipped.
func (e *Extractor) Extract(text string) (out []Company) {
	out = []Company{}
	defer func() {
		if r := recover(); r != nil {
			out = []Company{}
		}
	}()

	text = strings.ToValidUTF8(text, "\uFFFD")
	text = strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(text)

	for _, b := range e.segment(text) {
		if b.heading {
			continue
		}
		e.prepare(b)
		if b.name == "" {
			continue
		}
		out = append(out, e.record(b))
	}
	return out
}

func (e *Extractor) record(b *block) Company {
	var c Company
	for _, r := range e.rules {
		if c.get(r.field) != "" {
			continue
		}
		if v, ok := r.apply(b); ok && v != "" {
			c.set(r.field, v)
		}
	}
	c.Description = e.describe(b)
	c.Name = scrubName(b.strippedName(), &c)
	return c
}

// describe joins what is left of the block once labelled lines and typed
// header segments are taken out.
func (e *Extractor) describe(b *block) string {
	var parts []string
	for _, u := range b.units {
		if u.consumed || u.typed {
			continue
		}
		if u.header && e.segmentKind(u.text) {
			continue
		}
		if s := strings.TrimSpace(e.descLabel.ReplaceAllString(u.text, "")); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
