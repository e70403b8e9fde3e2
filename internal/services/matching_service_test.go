package services

import "testing"

func TestIsDecisionMaker(t *testing.T) {
	m := NewMatcherService()
	tests := []struct {
		position, seniority string
		want                bool
	}{
		{"Co-Founder & CTO", "", true},
		{"Head of Growth", "", true},
		{"Managing Director", "", true},
		{"Account Executive", "junior", false},
		{"Engineer", "Senior", true},
		{"Analyst", "c-level", true},
		{"", "executive", false},
		{"Support Agent", "", false},
	}
	for _, tt := range tests {
		if got := m.IsDecisionMaker(tt.position, tt.seniority); got != tt.want {
			t.Fatalf("IsDecisionMaker(%q, %q): want %v, got %v", tt.position, tt.seniority, tt.want, got)
		}
	}
}

func TestFilterDecisionMakersStableOrder(t *testing.T) {
	m := NewMatcherService()
	got := m.FilterDecisionMakers([]hunterEmail{
		{Value: "a@x.com", Position: "CEO", Confidence: 90},
		{Value: "b@x.com", Position: "Director", Confidence: 90},
		{Value: "c@x.com", Position: "Owner", Confidence: 97},
	})
	want := []string{"c@x.com", "a@x.com", "b@x.com"}
	if len(got) != len(want) {
		t.Fatalf("want %d results, got %d", len(want), len(got))
	}
	for i, dm := range got {
		if dm.Email != want[i] {
			t.Fatalf("position %d: want %s, got %s", i, want[i], dm.Email)
		}
	}
}
