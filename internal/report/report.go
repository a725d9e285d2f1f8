// Package report persists the results of a finished tournament.
//
// The default text format writes one line per match in creation order:
//
//	Match 1 : Lens [2] : [1] Nice | Tour 1
//
// JSON, YAML and XLSX carry the same entries plus the run ID and champion.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/knockout/internal/bracket"
	"github.com/Iron-Ham/knockout/internal/errors"
)

// Format is an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported format.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatXLSX}
}

// ParseFormat converts a configuration string to a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if slices.Contains(Formats(), f) {
		return f, nil
	}
	return "", errors.NewValidationError("unknown report format").WithField("format").WithValue(s)
}

// Entry is one played match.
type Entry struct {
	Match     int    `json:"match" yaml:"match"`
	Round     int    `json:"round" yaml:"round"`
	Home      string `json:"home" yaml:"home"`
	Away      string `json:"away" yaml:"away"`
	HomeScore int    `json:"home_score" yaml:"home_score"`
	AwayScore int    `json:"away_score" yaml:"away_score"`
	Shootout  bool   `json:"shootout,omitempty" yaml:"shootout,omitempty"`
	Winner    string `json:"winner" yaml:"winner"`
}

// Report is the persisted form of a tournament.
type Report struct {
	RunID    string  `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Mode     string  `json:"mode" yaml:"mode"`
	Teams    int     `json:"teams" yaml:"teams"`
	Champion string  `json:"champion" yaml:"champion"`
	Matches  []Entry `json:"matches" yaml:"matches"`
}

// FromResult builds a report with matches in creation order.
func FromResult(res *bracket.Result) *Report {
	entries := make([]Entry, len(res.Matches))
	for i, m := range res.Matches {
		entries[i] = Entry{
			Match:     m.ID,
			Round:     m.Round,
			Home:      res.Name(m.Team1),
			Away:      res.Name(m.Team2),
			HomeScore: m.Score1,
			AwayScore: m.Score2,
			Shootout:  m.Shootout,
			Winner:    res.Name(m.Winner()),
		}
	}
	slices.SortFunc(entries, func(a, b Entry) int { return a.Match - b.Match })

	return &Report{
		RunID:    res.RunID,
		Mode:     string(res.Mode),
		Teams:    len(res.Teams),
		Champion: res.ChampionName(),
		Matches:  entries,
	}
}

// Encode writes r to w in the given format.
func (r *Report) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatText, "":
		return r.writeText(w)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatXLSX:
		return r.writeXLSX(w)
	default:
		return errors.NewValidationError("unknown report format").WithField("format").WithValue(string(format))
	}
}

func (r *Report) writeText(w io.Writer) error {
	for _, e := range r.Matches {
		if _, err := fmt.Fprintf(w, "Match %d : %s [%d] : [%d] %s | Tour %d\n",
			e.Match, e.Home, e.HomeScore, e.AwayScore, e.Away, e.Round); err != nil {
			return err
		}
	}
	return nil
}

// SheetName is the worksheet that holds the matches in XLSX reports.
const SheetName = "Matches"

var xlsxHeader = []any{"Match", "Round", "Home", "Home score", "Away score", "Away", "Shoot-out", "Winner"}

func (r *Report) writeXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &xlsxHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, e := range r.Matches {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{e.Match, e.Round, e.Home, e.HomeScore, e.AwayScore, e.Away, e.Shootout, e.Winner}
		if err := f.SetSheetRow(SheetName, axis, &row); err != nil {
			return fmt.Errorf("failed to write match %d: %w", e.Match, err)
		}
	}
	_, err := f.WriteTo(w)
	return err
}

// Save writes r to path, replacing any previous report only once the new
// one is complete.
func (r *Report) Save(fs afero.Fs, path string, format Format) error {
	var buf bytes.Buffer
	if err := r.Encode(&buf, format); err != nil {
		return errors.Wrapf(err, "encoding %s report", format)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
	}

	tmp := path + ".tmp"
	if err := afero.WriteFile(fs, tmp, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", tmp)
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return errors.Wrapf(err, "replacing %s", path)
	}
	return nil
}
