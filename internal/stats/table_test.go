package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Rank", "Score", "Accuracy"}
	rows := [][]string{
		{"A+", "1983", "100.00%"},
		{"D", "12", "8.50%"},
	}

	lines := formatTable(headers, rows, rightAligned(1, 2))
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Rank Score Accuracy" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "A+    1983  100.00%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "D       12    8.50%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Text", "N"}, [][]string{{"日本", "1"}}, tableLayout{})
	if lines[0] != "Text N" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "日本 1" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
}

func TestFormatTableClipsLastColumn(t *testing.T) {
	rows := [][]string{{"1", "The quick brown fox jumps over the lazy dog."}}
	lines := formatTable([]string{"#", "Text"}, rows, rightAligned(0).clipped(20))
	if lines[1] != "1 The quick brown f…" {
		t.Fatalf("unexpected clipped line: %q", lines[1])
	}
	if w := displayWidth(lines[1]); w != 20 {
		t.Fatalf("expected width 20, got %d", w)
	}
	if lines[0] != "# Text" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
}

func TestFormatTableClipKeepsMinimumWidth(t *testing.T) {
	rows := [][]string{{"aaaaaaaaaa", "bbbbbbbbbbbbbbbb"}}
	lines := formatTable(nil, rows, tableLayout{maxWidth: 5})
	if got := displayWidth(lines[0]); got != 10+1+minLastColumn {
		t.Fatalf("expected last column kept at %d, got line width %d (%q)", minLastColumn, got, lines[0])
	}
}
