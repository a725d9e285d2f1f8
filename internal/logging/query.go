package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"
)

// Entry is one parsed line of a knockout log file.
type Entry struct {
	Timestamp time.Time      `json:"time"`
	Level     string         `json:"level"`
	Message   string         `json:"msg"`
	RunID     string         `json:"run_id,omitempty"`
	MatchID   int            `json:"match_id,omitempty"`
	Round     int            `json:"round,omitempty"`
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// Filter selects log entries. Zero-valued fields match everything and all
// set fields must match.
type Filter struct {
	// Level keeps entries at or above this level.
	Level           string
	RunID           string
	MatchID         int
	Round           int
	MessageContains string
}

var levelOrder = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ReadEntries parses every JSON line of the log file at path, skipping lines
// that are not valid JSON. Entries are sorted by timestamp.
func ReadEntries(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no log file at %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	const maxLine = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxLine)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entry, err := parseEntry(line)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading log file: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries, nil
}

func parseEntry(line string) (Entry, error) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, fmt.Errorf("invalid JSON: %w", err)
	}

	entry := Entry{Attrs: make(map[string]any)}
	for k, v := range raw {
		switch k {
		case "time":
			if s, ok := v.(string); ok {
				if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
					entry.Timestamp = ts
				}
			}
		case "level":
			entry.Level, _ = v.(string)
		case "msg":
			entry.Message, _ = v.(string)
		case "run_id":
			entry.RunID, _ = v.(string)
		case "match_id":
			if f, ok := v.(float64); ok {
				entry.MatchID = int(f)
			}
		case "round":
			if f, ok := v.(float64); ok {
				entry.Round = int(f)
			}
		default:
			entry.Attrs[k] = v
		}
	}
	return entry, nil
}

// Apply returns the entries matching f.
func (f Filter) Apply(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if f.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func (f Filter) matches(e Entry) bool {
	if f.Level != "" {
		want, okWant := levelOrder[strings.ToUpper(f.Level)]
		got, okGot := levelOrder[e.Level]
		if okWant && okGot && got < want {
			return false
		}
	}
	if f.RunID != "" && e.RunID != f.RunID {
		return false
	}
	if f.MatchID != 0 && e.MatchID != f.MatchID {
		return false
	}
	if f.Round != 0 && e.Round != f.Round {
		return false
	}
	if f.MessageContains != "" && !strings.Contains(e.Message, f.MessageContains) {
		return false
	}
	return true
}

// WriteText renders entries one per line:
//
//	[2006-01-02 15:04:05.000] INFO - match resolved (run=…, match=3, round=2) {"winner":1}
func WriteText(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		var b strings.Builder
		fmt.Fprintf(&b, "[%s] %s - %s", e.Timestamp.Format("2006-01-02 15:04:05.000"), e.Level, e.Message)

		var ctx []string
		if e.RunID != "" {
			ctx = append(ctx, "run="+e.RunID)
		}
		if e.MatchID != 0 {
			ctx = append(ctx, fmt.Sprintf("match=%d", e.MatchID))
		}
		if e.Round != 0 {
			ctx = append(ctx, fmt.Sprintf("round=%d", e.Round))
		}
		if len(ctx) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(ctx, ", "))
		}
		if len(e.Attrs) > 0 {
			if attrs, err := json.Marshal(e.Attrs); err == nil {
				b.WriteString(" ")
				b.Write(attrs)
			}
		}
		b.WriteString("\n")

		if _, err := io.WriteString(w, b.String()); err != nil {
			return fmt.Errorf("failed to write log entry: %w", err)
		}
	}
	return nil
}
