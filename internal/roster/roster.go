// Package roster reads, validates, shuffles and generates team rosters.
//
// A roster is a text file with one team name per line. The first non-blank
// line may instead hold the match duration in minutes; it is recognised by
// a leading integer, so "75" and "75 minutes" both set the duration.
package roster

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/Iron-Ham/knockout/internal/errors"
)

// DefaultMaxTeams is the largest bracket accepted unless configured
// otherwise.
const DefaultMaxTeams = 64

// DefaultDuration is the match length used when a roster has no duration
// line or a non-positive one.
const DefaultDuration = 90

// ParseOptions bound what a roster may contain.
type ParseOptions struct {
	MaxTeams        int
	DefaultDuration int
}

func (o ParseOptions) withDefaults() ParseOptions {
	if o.MaxTeams <= 0 {
		o.MaxTeams = DefaultMaxTeams
	}
	if o.DefaultDuration <= 0 {
		o.DefaultDuration = DefaultDuration
	}
	return o
}

// Roster is a validated list of teams in file order.
type Roster struct {
	// Duration is the match length in minutes.
	Duration int
	// DurationSet reports whether Duration came from the file.
	DurationSet bool
	Teams       []string
	Path        string
}

// Len returns the number of teams.
func (r *Roster) Len() int {
	return len(r.Teams)
}

// Shuffle permutes the teams in place with a Fisher-Yates shuffle.
func (r *Roster) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(r.Teams), func(i, j int) {
		r.Teams[i], r.Teams[j] = r.Teams[j], r.Teams[i]
	})
}

// Load reads and validates the roster at path.
func Load(fs afero.Fs, path string, opts ParseOptions) (*Roster, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.NewRosterError(fmt.Sprintf("cannot open roster: %v", err), errors.ErrRosterUnreadable).
			WithPath(path)
	}
	defer func() { _ = f.Close() }()

	r, err := Parse(f, opts)
	if err != nil {
		var rosterErr *errors.RosterError
		if errors.As(err, &rosterErr) {
			rosterErr.WithPath(path)
		}
		return nil, err
	}
	r.Path = path
	return r, nil
}

// Parse reads a roster from r and validates its size.
func Parse(r io.Reader, opts ParseOptions) (*Roster, error) {
	opts = opts.withDefaults()
	out := &Roster{Duration: opts.DefaultDuration}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	first := true
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if first {
			first = false
			if n, ok := leadingInt(line); ok {
				out.DurationSet = true
				if n > 0 {
					out.Duration = n
				}
				continue
			}
		}

		if len(out.Teams) == opts.MaxTeams {
			return nil, errors.NewRosterError(
				fmt.Sprintf("more than %d teams", opts.MaxTeams), errors.ErrTooManyTeams).WithLine(lineNo)
		}
		out.Teams = append(out.Teams, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewRosterError(fmt.Sprintf("cannot read roster: %v", err), errors.ErrRosterUnreadable).
			WithLine(lineNo)
	}

	if err := Validate(out.Teams, opts.MaxTeams); err != nil {
		return nil, err
	}
	return out, nil
}

// Validate checks that teams can form a bracket of at most maxTeams.
func Validate(teams []string, maxTeams int) error {
	n := len(teams)
	switch {
	case n > maxTeams:
		return errors.NewRosterError(fmt.Sprintf("%d teams exceed the limit of %d", n, maxTeams), errors.ErrTooManyTeams)
	case n < 2:
		return errors.NewRosterError(fmt.Sprintf("a bracket needs at least 2 teams, got %d", n), errors.ErrTeamCount)
	case n&(n-1) != 0:
		return errors.NewRosterError(fmt.Sprintf("number of teams must be a power of 2, got %d", n), errors.ErrTeamCount)
	}
	return nil
}

// leadingInt parses an optionally signed integer at the start of s after
// leading blanks, ignoring whatever follows it.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Write saves teams in roster format, with a duration line when duration
// is positive.
func Write(fs afero.Fs, path string, duration int, teams []string) error {
	var b strings.Builder
	if duration > 0 {
		fmt.Fprintf(&b, "%d\n", duration)
	}
	for _, t := range teams {
		b.WriteString(t)
		b.WriteByte('\n')
	}
	if err := afero.WriteFile(fs, path, []byte(b.String()), 0o644); err != nil {
		return errors.Wrapf(err, "writing roster %s", path)
	}
	return nil
}

// Exists reports whether path names a regular file.
func Exists(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
