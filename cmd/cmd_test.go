package cmd

import (
	"testing"

	"github.com/robinovitch61/vl/internal/current"
	"github.com/robinovitch61/vl/internal/section"
	"github.com/robinovitch61/vl/internal/viewport"
)

func TestParseModes(t *testing.T) {
	if m, err := parseRangeMode("Strict"); err != nil || m != current.StrictlyEnforceRange {
		t.Errorf("expected strict range, got %v %v", m, err)
	}
	if m, err := parseRangeMode(""); err != nil || m != current.NoRange {
		t.Errorf("expected no range by default, got %v %v", m, err)
	}
	if _, err := parseRangeMode("sometimes"); err == nil {
		t.Error("expected an error for an unknown range mode")
	}
	if m, err := parseSnapMode("item"); err != nil || m != viewport.SnapToItem {
		t.Errorf("expected snap to item, got %v %v", m, err)
	}
	if _, err := parseSnapMode("two"); err == nil {
		t.Error("expected an error for an unknown snap mode")
	}
	if c, err := parseSectionCriteria("first"); err != nil || c != section.FirstCharacter {
		t.Errorf("expected first character criteria, got %v %v", c, err)
	}
}

func TestParseSectionPositioning(t *testing.T) {
	tests := []struct {
		in       string
		expected section.Positioning
		err      bool
	}{
		{"", section.InlineLabels, false},
		{"inline", section.InlineLabels, false},
		{"inline, start", section.InlineLabels | section.CurrentLabelAtStart, false},
		{"start,end", section.CurrentLabelAtStart | section.NextLabelAtEnd, false},
		{"middle", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := parseSectionPositioning(tt.in)
			if (err != nil) != tt.err {
				t.Fatalf("unexpected error %v", err)
			}
			if p != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, p)
			}
		})
	}
}
