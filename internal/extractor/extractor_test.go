package extractor

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractScenarios(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Company
	}{
		{
			name: "bold name with labelled body",
			in:   "1. **Acme Corp**\nDomain: acme.com\nLocation: Austin, USA",
			want: []Company{{Name: "Acme Corp", Domain: "acme.com", Website: "https://acme.com", Location: "Austin, USA"}},
		},
		{
			name: "separator delimited header",
			in:   "- Beta Inc - SME - Berlin, Germany - beta.io",
			want: []Company{{Name: "Beta Inc", Classification: "SME", Location: "Berlin, Germany", Domain: "beta.io", Website: "https://beta.io"}},
		},
		{
			name: "plain paragraph",
			in:   "We looked at the market and found several interesting companies. None are listed here.",
			want: []Company{},
		},
		{
			name: "founded and type labels",
			in:   "2) Gamma LLC\nFounded: 2015\nType: Large Enterprise",
			want: []Company{{Name: "Gamma LLC", FoundingYear: "2015", Classification: "Large Enterprise"}},
		},
		{
			name: "consecutive items stay independent",
			in:   "1. Alpha\nDomain: alpha.com\n2. Beta\nLocation: Paris, France",
			want: []Company{
				{Name: "Alpha", Domain: "alpha.com", Website: "https://alpha.com"},
				{Name: "Beta", Location: "Paris, France"},
			},
		},
		{
			name: "nested labelled bullets",
			in: "Market Analysis: payments keep growing.\n\nProspect Companies:\n" +
				"1. **Company Name:** Acme Pay\n" +
				"   - **Introduction:** Payments platform for small shops.\n" +
				"   - **Based out of:** Austin, USA\n" +
				"   - **Founding Year:** 2015\n" +
				"   - **Classification:** SME\n" +
				"   - **Domain:** www.acmepay.com\n",
			want: []Company{{
				Name:           "Acme Pay",
				Description:    "Payments platform for small shops.",
				Domain:         "acmepay.com",
				Website:        "https://acmepay.com",
				Location:       "Austin, USA",
				Classification: "SME",
				FoundingYear:   "2015",
			}},
		},
		{
			name: "prose fallbacks",
			in:   "1. Initech - A software consultancy founded in 1998 and based in Austin, Texas. Visit https://initech.io for more.",
			want: []Company{{
				Name:         "Initech",
				Description:  "A software consultancy founded in 1998 and based in Austin, Texas. Visit https://initech.io for more.",
				Domain:       "initech.io",
				Website:      "https://initech.io",
				Location:     "Austin, Texas",
				FoundingYear: "1998",
			}},
		},
		{
			name: "section heading is skipped",
			in:   "2. Prospect Companies:\n- Acme - acme.com\n- Beta - beta.io",
			want: []Company{
				{Name: "Acme", Domain: "acme.com", Website: "https://acme.com"},
				{Name: "Beta", Domain: "beta.io", Website: "https://beta.io"},
			},
		},
		{
			name: "parenthesised classification leaves the name",
			in:   "1. Acme Corp (SME)",
			want: []Company{{Name: "Acme Corp", Classification: "SME"}},
		},
		{
			name: "markdown link name",
			in:   "1. [Acme](https://acme.com) - Payments",
			want: []Company{{Name: "Acme", Description: "Payments", Domain: "acme.com", Website: "https://acme.com"}},
		},
		{
			name: "empty names are dropped",
			in:   "1. **\n2. Delta",
			want: []Company{{Name: "Delta"}},
		},
		{
			name: "trailing size keyword in the name",
			in:   "1. Acme Corp SME\n2. Beta Corp, Large Enterprise",
			want: []Company{
				{Name: "Acme Corp", Classification: "SME"},
				{Name: "Beta Corp", Classification: "Large Enterprise"},
			},
		},
		{
			name: "phrases inside the name",
			in:   "1. Acme Corp (founded 2015)\n2. Beta, based in Austin, USA",
			want: []Company{
				{Name: "Acme Corp", FoundingYear: "2015"},
				{Name: "Beta", Location: "Austin, USA"},
			},
		},
		{
			name: "inline label in the header",
			in:   "1. Acme Corp Type: SME\n2. Beta Inc Location - Berlin, Germany - beta.io",
			want: []Company{
				{Name: "Acme Corp", Classification: "SME"},
				{Name: "Beta Inc", Location: "Berlin, Germany", Domain: "beta.io", Website: "https://beta.io"},
			},
		},
		{
			name: "label joined to its value by a dash",
			in:   "1. Acme\nFounded-2015\nDomain-acme.com",
			want: []Company{{Name: "Acme", Domain: "acme.com", Website: "https://acme.com", FoundingYear: "2015"}},
		},
		{
			name: "nested company bullets open their own blocks",
			in:   "1. Fintech leaders\n  * Stripe - stripe.com\n  * Adyen - adyen.com",
			want: []Company{
				{Name: "Fintech leaders"},
				{Name: "Stripe", Domain: "stripe.com", Website: "https://stripe.com"},
				{Name: "Adyen", Domain: "adyen.com", Website: "https://adyen.com"},
			},
		},
		{
			name: "bold prefix is part of a longer name",
			in:   "1. **Acme** Corp - payments",
			want: []Company{{Name: "Acme Corp", Description: "payments"}},
		},
		{
			name: "lower-case multi-word size in prose",
			in:   "1. Acme - It is a Large enterprise based out of Pune, India.",
			want: []Company{{
				Name:           "Acme",
				Description:    "It is a Large enterprise based out of Pune, India.",
				Location:       "Pune, India",
				Classification: "Large Enterprise",
			}},
		},
		{
			name: "lower-case single-word size is prose",
			in:   "1. Acme - A small team building payroll tools",
			want: []Company{{Name: "Acme", Description: "A small team building payroll tools"}},
		},
		{
			name: "markdown-decorated markers",
			in:   "1.Acme - acme.com\n### 2. Beta - beta.io\n**3. Gamma** - gamma.io",
			want: []Company{
				{Name: "Acme", Domain: "acme.com", Website: "https://acme.com"},
				{Name: "Beta", Domain: "beta.io", Website: "https://beta.io"},
				{Name: "Gamma", Domain: "gamma.io", Website: "https://gamma.io"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Extract() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractLabelPrecedence(t *testing.T) {
	for _, in := range []string{
		"1. Delta Co\nLocation: Berlin | Type: SME",
		"1. Delta Co\nType: SME | Location: Berlin",
	} {
		got := Extract(in)
		want := []Company{{Name: "Delta Co", Classification: "SME"}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("Extract(%q) mismatch (-want +got):\n%s", in, diff)
		}
	}
}

func TestRuleOrder(t *testing.T) {
	e := New(DefaultVocabulary())
	order := fieldOrder
	if len(e.rules)%len(order) != 0 {
		t.Fatalf("want rules in tiers of %d, got %d rules", len(order), len(e.rules))
	}
	for i, r := range e.rules {
		if r.field != order[i%len(order)] {
			t.Fatalf("rule %d (%s): want field %s, got %s", i, r.name, order[i%len(order)], r.field)
		}
	}
	if e.rules[0].name != "classification/label" {
		t.Fatalf("want classification/label first, got %q", e.rules[0].name)
	}
}

func TestExtractNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t  \r\n",
		"\xff\xfe\x00\x01",
		"1.",
		"- ",
		"1. **",
		"1. ***",
		"- *\n- _\n- `",
		"1) [unclosed(",
		"1. :",
		"### ",
		"**1.**",
		"1. (founded 2015)",
		"1. SME",
		"1. Type: SME",
		"- based in Austin, USA",
		"• | | |",
		strings.Repeat("- *\n  - **x**:\n", 500),
		strings.Repeat("1. a.b.c.d.e.f.g.h.i.j.k ", 200),
	}
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		b := make([]byte, r.Intn(256))
		r.Read(b)
		inputs = append(inputs, string(b))
	}

	for _, in := range inputs {
		got := Extract(in)
		if got == nil {
			t.Fatalf("Extract(%q) returned nil", in)
		}
		for _, c := range got {
			if strings.TrimSpace(c.Name) == "" {
				t.Fatalf("Extract(%q): empty name in %+v", in, c)
			}
			if strings.ContainsAny(c.Name, "*_`~") {
				t.Fatalf("Extract(%q): markup left in name %q", in, c.Name)
			}
			if c.Domain == "" && c.Website != "" || c.Domain != "" && c.Website != "https://"+c.Domain {
				t.Fatalf("Extract(%q): domain %q, website %q", in, c.Domain, c.Website)
			}
		}
	}
}

func TestExtractPreservesOrder(t *testing.T) {
	names := []string{"Zulu", "Alpha", "Mike", "Bravo", "Yankee"}
	var sb strings.Builder
	for i, n := range names {
		sb.WriteString(string(rune('1'+i)) + ". " + n + "\nLocation: Oslo, Norway\n")
	}
	got := Extract(sb.String())
	if len(got) != len(names) {
		t.Fatalf("want %d records, got %d", len(names), len(got))
	}
	for i, c := range got {
		if c.Name != names[i] {
			t.Fatalf("record %d: want %q, got %q", i, names[i], c.Name)
		}
	}
}

func TestFindHost(t *testing.T) {
	tests := map[string]string{
		"see https://www.Example.COM/about": "example.com",
		"first.last@acme.com":               "acme.com",
		"no host here":                      "",
		"version 1.2 of node":               "",
	}
	for in, want := range tests {
		if got := findHost(in); got != want {
			t.Fatalf("findHost(%q): want %q, got %q", in, want, got)
		}
	}
}

func TestLoadVocabulary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocabulary.yaml")
	data := "version: \"2\"\ndomain: [site]\nsizes: [Startup]\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	v, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("LoadVocabulary: %v", err)
	}
	if v.Version != "2" {
		t.Fatalf("want version 2, got %q", v.Version)
	}
	if diff := cmp.Diff(DefaultVocabulary().Location, v.Location); diff != "" {
		t.Fatalf("location synonyms not defaulted (-want +got):\n%s", diff)
	}

	got := New(v).Extract("1. Zeta\nSite: zeta.dev\nA Startup in fintech")
	want := []Company{{Name: "Zeta", Description: "A Startup in fintech", Domain: "zeta.dev", Website: "https://zeta.dev", Classification: "Startup"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Extract() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadVocabularyMissingFile(t *testing.T) {
	if _, err := LoadVocabulary(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("want error for missing file, got nil")
	}
}

func TestExtractConcurrent(t *testing.T) {
	in := "1. **Acme Corp**\nDomain: acme.com\nLocation: Austin, USA\n2. Beta Inc - SME - Berlin, Germany - beta.io"
	want := Extract(in)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if diff := cmp.Diff(want, Extract(in)); diff != "" {
					t.Errorf("concurrent Extract() mismatch (-want +got):\n%s", diff)
					return
				}
			}
		}()
	}
	wg.Wait()
}
