package search

import (
	"testing"

	"Aria_AI/internal/models"
)

func TestDecideAuto(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"what's the weather in Paris today", true},
		{"latest news about the election", true},
		{"when is the next UFC fight", true},
		{"what is the bitcoin price right now", true},
		{"who is the current president of France", true},
		{"search for good ramen places nearby", true},
		{"tell me about the Roman empire", true},

		{"explain how a B-tree works", false},
		{"write a python script that sorts a list", false},
		{"summarize my uploaded document", false},
		{"translate this sentence to French", false},
		{"hello, how are you?", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := Decide(tt.query, models.ToolModeAuto); got != tt.want {
			t.Errorf("Decide(%q, auto) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestDecideNoSearchWinsOnOverlap(t *testing.T) {
	// "summarize" suppresses search even though "latest" would match.
	if Decide("summarize the latest chapter of my pdf", models.ToolModeAuto) {
		t.Error("no-search pattern should win over a search pattern")
	}
}

func TestDecideForcedModes(t *testing.T) {
	if !Decide("hello", models.ToolModeSearch) {
		t.Error("forced search must always search")
	}
	if Decide("what's the weather in Paris today", models.ToolModeNone) {
		t.Error("forced none must never search")
	}
}

func TestDecideIsCaseInsensitive(t *testing.T) {
	if !Decide("LATEST NEWS PLEASE", models.ToolModeAuto) {
		t.Error("uppercase query should still match")
	}
}
