package extractor

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// markerRe matches a list item: "1.", "2)", "3:" or "-", "*", "•",
	// followed by whitespace and at least one visible character. A numbered
	// marker may also run straight into a letter ("1.Acme") and may sit
	// behind a markdown heading or bold prefix ("### 1. Acme", "**1. Acme**").
	markerRe = regexp.MustCompile(`^[ \t]*(?:#{1,6}[ \t]*)?(?:\*\*|__)?(?:(\d+[.:)]|[-*•])[ \t]+(\S.*)|(\d+[.)])(\pL.*))$`)

	// separatorRe splits "Name - intro - more" style headers.
	separatorRe = regexp.MustCompile(`\s+[-–—:|]\s+`)
	colonRe     = regexp.MustCompile(`:\s+`)

	leadEmphasisRe = regexp.MustCompile(`^(\*\*|__)(.+?)(?:\*\*|__)(.*)$`)
	linkRe         = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	emptyBracketRe = regexp.MustCompile(`\(\s*\)|\[\s*\]`)

	emphasis = strings.NewReplacer("*", "", "_", "", "`", "", "~", "")
)

// unit is one independently matchable span of a block: a header segment
// after the name, or a body line. A label match consumes the whole unit.
type unit struct {
	text     string
	header   bool
	consumed bool
	typed    bool
}

// block is the header and body lines of a single list item.
type block struct {
	header  string
	heading bool
	body    []string

	rawName string
	name    string
	units   []*unit

	// cuts are byte spans of name that rules captured a value from.
	cuts [][2]int
}

// parseMarker returns the text after a list marker.
func parseMarker(line string) (string, bool) {
	m := markerRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	if m[2] == "" {
		return strings.TrimSpace(m[4]), true
	}
	return strings.TrimSpace(m[2]), true
}

// cutName marks name[start:end] as taken by a field value.
func (b *block) cutName(start, end int) {
	b.cuts = append(b.cuts, [2]int{start, end})
}

// strippedName is the name without the spans rules captured values from.
// The full name is kept if nothing would remain.
func (b *block) strippedName() string {
	if len(b.cuts) == 0 {
		return b.name
	}
	sort.Slice(b.cuts, func(i, j int) bool { return b.cuts[i][0] < b.cuts[j][0] })
	var sb strings.Builder
	last := 0
	for _, c := range b.cuts {
		if c[0] > last {
			sb.WriteString(b.name[last:c[0]])
		}
		if c[1] > last {
			last = c[1]
		}
	}
	sb.WriteString(b.name[last:])

	s := emptyBracketRe.ReplaceAllString(sb.String(), "")
	s = strings.Trim(strings.Join(strings.Fields(s), " "), " :-–—|,;")
	if s == "" {
		return b.name
	}
	return s
}

// segment splits text into list-item blocks. Lines before the first marker
// are dropped. Label-led items ("- Domain: x", "  - Based in Pune") stay in
// the current block; every other marker line opens a new one.
func (e *Extractor) segment(text string) []*block {
	lines := strings.Split(text, "\n")
	var (
		blocks []*block
		cur    *block
	)
	for i, line := range lines {
		content, ok := parseMarker(line)
		if !ok {
			if cur != nil {
				cur.body = append(cur.body, line)
			}
			continue
		}
		if cur != nil && !cur.heading && e.continuation.MatchString(content) {
			cur.body = append(cur.body, line)
			continue
		}
		cur = &block{header: content}
		cur.heading = e.isHeading(content, lines[i+1:])
		blocks = append(blocks, cur)
	}
	return blocks
}

// isHeading reports whether an item is a section title such as
// "2. Prospect Companies:" that directly introduces another list.
func (e *Extractor) isHeading(content string, rest []string) bool {
	if !strings.HasSuffix(strings.TrimSpace(stripEmphasis(content)), ":") {
		return false
	}
	for _, l := range rest {
		if strings.TrimSpace(l) == "" {
			continue
		}
		content, ok := parseMarker(l)
		return ok && !e.continuation.MatchString(content)
	}
	return false
}

// prepare derives the candidate name and the matchable units of b.
func (e *Extractor) prepare(b *block) {
	header := e.nameLabel.ReplaceAllString(b.header, "")
	name, lead, rest := e.splitHeader(header)
	b.rawName = name
	b.name = cleanName(name)

	if s := strings.TrimSpace(lead); s != "" {
		b.units = append(b.units, &unit{text: s, header: true})
	}
	for _, seg := range separatorRe.Split(rest, -1) {
		if s := trimSegment(seg); s != "" {
			b.units = append(b.units, &unit{text: s, header: true})
		}
	}
	for _, line := range b.body {
		if content, ok := parseMarker(line); ok {
			line = content
		}
		if s := strings.TrimSpace(line); s != "" {
			b.units = append(b.units, &unit{text: s})
		}
	}
}

// splitHeader separates the entity name from the rest of the header line.
// A bold span wins when a separator or the end of the line follows it.
// Otherwise the name ends at an inline label ("Acme Type: SME"), then at
// the first " - ", " | ", " : " style separator, then at the first ": ".
// lead is the inline "label: value" span, kept whole.
func (e *Extractor) splitHeader(h string) (name, lead, rest string) {
	h = strings.TrimSpace(h)
	if m := leadEmphasisRe.FindStringSubmatch(h); m != nil && strings.TrimSpace(m[2]) != "" && boldEndsName(m[2], m[3]) {
		return m[2], "", strings.TrimLeft(m[3], " \t:-–—|,")
	}
	sep := separatorRe.FindStringIndex(h)
	if at, val := e.inlineLabel(h); at > 0 && (sep == nil || at < sep[0]) {
		value := h[val:]
		if loc := separatorRe.FindStringIndex(value); loc != nil {
			value, rest = value[:loc[0]], value[loc[1]:]
		}
		return h[:at], h[at:val] + value, rest
	}
	if sep != nil && sep[0] > 0 {
		return h[:sep[0]], "", h[sep[1]:]
	}
	if loc := colonRe.FindStringIndex(h); loc != nil && loc[0] > 0 {
		return h[:loc[0]], "", h[loc[1]:]
	}
	return h, "", ""
}

func boldEndsName(inner, after string) bool {
	if strings.HasSuffix(strings.TrimSpace(inner), ":") {
		return true
	}
	after = strings.TrimLeft(after, " \t")
	return after == "" || strings.ContainsAny(after[:1], "-:|,(") || strings.HasPrefix(after, "–") || strings.HasPrefix(after, "—")
}

// inlineLabel finds the earliest field label inside h. at is where the
// label starts and val where its value starts; at is -1 when there is none.
func (e *Extractor) inlineLabel(h string) (at, val int) {
	at, val = -1, -1
	for _, f := range fieldOrder {
		re := e.labels[f]
		if re == nil {
			continue
		}
		m := re.FindStringSubmatchIndex(h)
		if m == nil {
			continue
		}
		start := m[0]
		if r, size := utf8.DecodeRuneInString(h[start:]); !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '*' && r != '_' {
			start += size
		}
		if start > 0 && (at < 0 || start < at) {
			at, val = start, m[2]
		}
	}
	return at, val
}

func cleanName(s string) string {
	s = linkRe.ReplaceAllString(s, "$1")
	s = stripEmphasis(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, " :-–—|,;")
}

func trimSegment(s string) string {
	s = strings.TrimSpace(s)
	for len(s) >= 2 && ((s[0] == '(' && s[len(s)-1] == ')') || (s[0] == '[' && s[len(s)-1] == ']')) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

func stripEmphasis(s string) string {
	return emphasis.Replace(s)
}
