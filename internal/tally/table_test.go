package tally

import "testing"

func TestAlignRowsPadsColumns(t *testing.T) {
	lines := alignRows([][]string{
		{"Candidate", "Share", "Votes"},
		{"a", "97.5%", "12"},
		{"longer", "8.0%", "3"},
	}, 1, 2)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Candidate Share Votes" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a         97.5%    12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "longer     8.0%     3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestAlignRowsTrimsTrailingPadding(t *testing.T) {
	lines := alignRows([][]string{{"a", ""}, {"bb", "c"}})
	if lines[0] != "a" {
		t.Fatalf("expected trailing padding trimmed, got %q", lines[0])
	}
	if lines[1] != "bb c" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
}

func TestAlignRowsUsesDisplayWidth(t *testing.T) {
	lines := alignRows([][]string{{"ঢাকা", "1"}, {"ab", "2"}})
	w := displayWidth("ঢাকা")
	if got := displayWidth(lines[1]); got != w+2 {
		t.Fatalf("expected rows aligned to display width %d, got %q", w, lines[1])
	}
}

func TestAlignRowsEmpty(t *testing.T) {
	if lines := alignRows(nil); lines != nil {
		t.Fatalf("expected nil for no rows, got %v", lines)
	}
}
