package utils

import "testing"

func TestCandidateFilterFirstOccurrenceWins(t *testing.T) {
	filter := NewCandidateFilter()

	if !filter.ShouldInclude("你好") {
		t.Error("first occurrence rejected")
	}
	if filter.ShouldInclude("你好") {
		t.Error("duplicate accepted")
	}
	if filter.ShouldInclude("") {
		t.Error("empty string accepted")
	}
	if !filter.ShouldInclude("您好") {
		t.Error("distinct word rejected")
	}
	if got := filter.Len(); got != 2 {
		t.Errorf("Len = %d, want 2", got)
	}
}
