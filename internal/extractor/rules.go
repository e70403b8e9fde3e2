package extractor

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// rule fills one field of a record from a block. Rules run in slice order
// and a rule is skipped once its field is set, so the order of the slice is
// the precedence policy.
type rule struct {
	name  string
	field Field
	apply func(b *block) (string, bool)
}

// labelSep accepts "label: v", "label - v" and "label -v" but not "type-safe"
// inside a sentence. leadSep is for a label that starts its line, where
// "Founded-2015" is unambiguous.
const (
	labelSep = `(?:\s*:|\s*[-–—]\s|\s+[-–—])`
	leadSep  = `(?:\s*:|\s*[-–—])`
)

var (
	hostRe      = regexp.MustCompile(`(?i)(?:https?://)?((?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.)+[a-z]{2,63})\b`)
	hostExactRe = regexp.MustCompile(`(?i)^(?:https?://)?((?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.)+[a-z]{2,63})/?$`)
	parenRe     = regexp.MustCompile(`\(([^)]*)\)`)
	locStopRe   = regexp.MustCompile(`(?i)\s+(?:and|with|since|where|which|that|who|it|founded|established)\b.*$`)
)

// connectors may appear lower-case inside a place name.
var connectors = map[string]bool{
	"of": true, "de": true, "la": true, "del": true, "da": true, "do": true,
	"am": true, "upon": true, "the": true, "and": true, "en": true,
}

func (e *Extractor) buildRules() []rule {
	return []rule{
		// Explicit "label: value" spans.
		{"classification/label", FieldClassification, e.labelRule(FieldClassification)},
		{"location/label", FieldLocation, e.labelRule(FieldLocation)},
		{"domain/label", FieldDomain, e.labelRule(FieldDomain)},
		{"founding-year/label", FieldFoundingYear, e.labelRule(FieldFoundingYear)},

		// Unlabelled header segments: "Beta Inc - SME - Berlin, Germany - beta.io".
		{"classification/segment", FieldClassification, e.segmentRule(e.sizeExact)},
		{"location/segment", FieldLocation, e.segmentRule(locationExact)},
		{"domain/segment", FieldDomain, e.segmentRule(hostExact)},
		{"founding-year/segment", FieldFoundingYear, e.segmentRule(e.yearExact)},

		// Prose and keyword fallbacks.
		{"classification/keyword", FieldClassification, e.sizeKeyword},
		{"location/phrase", FieldLocation, e.locationPhrase},
		{"domain/bare-host", FieldDomain, bareHost},
		{"founding-year/phrase", FieldFoundingYear, e.foundedPhrase},
	}
}

func (e *Extractor) labelRule(f Field) func(*block) (string, bool) {
	re := e.labels[f]
	return func(b *block) (string, bool) {
		if re == nil {
			return "", false
		}
		for _, u := range b.units {
			if u.consumed || u.typed {
				continue
			}
			m := re.FindStringSubmatch(u.text)
			if m == nil {
				continue
			}
			v := cleanValue(m[1])
			if f == FieldDomain {
				v = findHost(v)
			}
			if v == "" {
				continue
			}
			u.consumed = true
			return v, true
		}
		return "", false
	}
}

func (e *Extractor) segmentRule(match func(string) (string, bool)) func(*block) (string, bool) {
	return func(b *block) (string, bool) {
		for _, u := range b.units {
			if !u.header || u.consumed || u.typed {
				continue
			}
			if v, ok := match(stripEmphasis(u.text)); ok {
				u.typed = true
				return v, true
			}
		}
		return "", false
	}
}

// segmentKind reports whether a header segment reads as any field value.
func (e *Extractor) segmentKind(s string) bool {
	s = stripEmphasis(s)
	for _, match := range []func(string) (string, bool){e.sizeExact, locationExact, hostExact, e.yearExact} {
		if _, ok := match(s); ok {
			return true
		}
	}
	return false
}

func (e *Extractor) sizeExact(s string) (string, bool) {
	v, ok := e.sizeIndex[foldKey(s)]
	return v, ok
}

func (e *Extractor) yearExact(s string) (string, bool) {
	m := e.yearSegment.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	return m[1], true
}

func hostExact(s string) (string, bool) {
	m := hostExactRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", false
	}
	return normalizeHost(m[1]), true
}

func locationExact(s string) (string, bool) {
	s = strings.Join(strings.Fields(s), " ")
	if !looksLikeLocation(s) {
		return "", false
	}
	return s, true
}

// looksLikeLocation accepts short comma-separated capitalised place names
// such as "Berlin, Germany" or "Rio de Janeiro, Brazil".
func looksLikeLocation(s string) bool {
	parts := strings.Split(s, ",")
	if len(parts) < 2 || len(strings.Fields(s)) > 6 {
		return false
	}
	for _, p := range parts {
		words := strings.Fields(p)
		if len(words) == 0 || len(words) > 3 {
			return false
		}
		for _, w := range words {
			if connectors[strings.ToLower(w)] {
				continue
			}
			r, _ := utf8.DecodeRuneInString(w)
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return true
}

func (e *Extractor) sizeKeyword(b *block) (string, bool) {
	if m := e.sizeTail.FindStringSubmatchIndex(b.name); m != nil {
		if v, ok := e.sizeExact(b.name[m[2]:m[3]]); ok {
			b.cutName(m[0], m[1])
			return v, true
		}
	}
	for _, u := range b.units {
		if u.consumed || u.typed {
			continue
		}
		if m := e.sizes.FindString(u.text); m != "" {
			if v, ok := e.sizeExact(m); ok {
				return v, true
			}
		}
	}
	for _, m := range parenRe.FindAllStringSubmatch(b.rawName, -1) {
		if v, ok := e.sizeExact(stripEmphasis(m[1])); ok {
			return v, true
		}
	}
	return "", false
}

func (e *Extractor) locationPhrase(b *block) (string, bool) {
	if m := e.locationCue.FindStringSubmatchIndex(b.name); m != nil {
		if v, n := trimLocation(b.name[m[2]:m[3]]); v != "" {
			b.cutName(m[0], m[2]+n)
			return v, true
		}
	}
	for _, u := range b.units {
		if u.consumed {
			continue
		}
		m := e.locationCue.FindStringSubmatch(stripEmphasis(u.text))
		if m == nil {
			continue
		}
		if v, _ := trimLocation(m[1]); v != "" {
			return v, true
		}
	}
	return "", false
}

// trimLocation cuts a captured place at the first clause word ("and",
// "founded", ...). It returns the place and how many bytes of s it used,
// or "" when the result does not start with a capital letter.
func trimLocation(s string) (string, int) {
	if loc := locStopRe.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	v := strings.Trim(strings.Join(strings.Fields(s), " "), " ,-–—")
	if r, _ := utf8.DecodeRuneInString(v); v == "" || !unicode.IsUpper(r) {
		return "", 0
	}
	return v, len(s)
}

func bareHost(b *block) (string, bool) {
	if h := findHost(b.rawName); h != "" {
		return h, true
	}
	for _, u := range b.units {
		if u.consumed || u.typed {
			continue
		}
		if h := findHost(u.text); h != "" {
			return h, true
		}
	}
	return "", false
}

func (e *Extractor) foundedPhrase(b *block) (string, bool) {
	if m := e.foundedCue.FindStringSubmatchIndex(b.name); m != nil {
		b.cutName(m[0], m[1])
		return b.name[m[2]:m[3]], true
	}
	for _, u := range b.units {
		if u.consumed {
			continue
		}
		if m := e.foundedCue.FindStringSubmatch(stripEmphasis(u.text)); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// findHost returns the first host-like token in s, skipping the local part
// of e-mail addresses.
func findHost(s string) string {
	for _, m := range hostRe.FindAllStringSubmatchIndex(s, -1) {
		if m[1] < len(s) && s[m[1]] == '@' {
			continue
		}
		return normalizeHost(s[m[2]:m[3]])
	}
	return ""
}

func normalizeHost(h string) string {
	h = strings.ToLower(strings.TrimSuffix(h, "."))
	return strings.TrimPrefix(h, "www.")
}

// cleanValue trims a captured label value: it stops at " | " or ";",
// drops emphasis markers and surrounding punctuation.
func cleanValue(v string) string {
	if i := strings.Index(v, " | "); i >= 0 {
		v = v[:i]
	}
	if i := strings.Index(v, ";"); i >= 0 {
		v = v[:i]
	}
	v = strings.NewReplacer("*", "", "`", "").Replace(v)
	v = strings.Join(strings.Fields(v), " ")
	return strings.Trim(v, " .,;:")
}

func foldKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// scrubName removes values already captured from the name, e.g. the
// "(SME)" in "Acme (SME)" or a trailing classification token. The name is
// left alone if nothing would remain.
func scrubName(name string, c *Company) string {
	orig := name
	for _, v := range []string{c.Classification, c.Domain, c.Location, c.FoundingYear} {
		if v == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)\s*[(\[]\s*(?:https?://)?(?:www\.)?` + regexp.QuoteMeta(v) + `/?\s*[)\]]`)
		name = re.ReplaceAllString(name, "")
	}
	for _, v := range []string{c.Classification, c.Domain} {
		if v == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)\s+[-–—|,]?\s*` + regexp.QuoteMeta(v) + `$`)
		name = re.ReplaceAllString(name, "")
	}
	name = strings.Trim(strings.Join(strings.Fields(name), " "), " :-–—|,;")
	if name == "" {
		return orig
	}
	return name
}
