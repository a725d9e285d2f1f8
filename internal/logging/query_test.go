package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("failed to write log: %v", err)
	}
	return path
}

func TestReadEntries(t *testing.T) {
	path := writeLog(t,
		`{"time":"2026-01-01T10:00:02Z","level":"INFO","msg":"match resolved","run_id":"a","match_id":2,"round":1,"winner":3}`,
		`not json`,
		``,
		`{"time":"2026-01-01T10:00:01Z","level":"DEBUG","msg":"pair claimed","run_id":"a","match_id":1}`,
	)

	entries, err := ReadEntries(path)
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	// sorted by time
	if entries[0].Message != "pair claimed" {
		t.Errorf("entries[0].Message = %q", entries[0].Message)
	}
	second := entries[1]
	if second.MatchID != 2 || second.Round != 1 || second.RunID != "a" {
		t.Errorf("unexpected context: %+v", second)
	}
	if second.Attrs["winner"] != float64(3) {
		t.Errorf("winner attr = %v", second.Attrs["winner"])
	}
}

func TestReadEntries_Missing(t *testing.T) {
	if _, err := ReadEntries(filepath.Join(t.TempDir(), "nope.log")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFilter_Apply(t *testing.T) {
	entries := []Entry{
		{Level: "DEBUG", Message: "pair claimed", RunID: "a", MatchID: 1, Round: 1},
		{Level: "INFO", Message: "match resolved", RunID: "a", MatchID: 1, Round: 1},
		{Level: "INFO", Message: "match resolved", RunID: "b", MatchID: 2, Round: 2},
		{Level: "ERROR", Message: "invariant violated", RunID: "b"},
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"empty filter", Filter{}, 4},
		{"level", Filter{Level: "info"}, 3},
		{"run", Filter{RunID: "b"}, 2},
		{"match", Filter{MatchID: 1}, 2},
		{"round", Filter{Round: 2}, 1},
		{"message", Filter{MessageContains: "resolved"}, 2},
		{"combined", Filter{RunID: "a", Level: "INFO"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.filter.Apply(entries)); got != tt.want {
				t.Errorf("Apply() returned %d entries, want %d", got, tt.want)
			}
		})
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	err := WriteText(&buf, []Entry{
		{Level: "INFO", Message: "match resolved", RunID: "a", MatchID: 3, Round: 2, Attrs: map[string]any{"winner": 1}},
	})
	if err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"INFO - match resolved", "(run=a, match=3, round=2)", `{"winner":1}`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
