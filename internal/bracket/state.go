package bracket

import (
	"fmt"
	"math/bits"
	"sync"

	"github.com/Iron-Ham/knockout/internal/errors"
)

// RoundState is the shared per-team status table. Every read and write
// happens under one mutex; a claim marks both teams Playing and bumps the
// match counter in the same critical section, and a resolve updates both
// teams together.
type RoundState struct {
	mu       sync.Mutex
	status   []Status
	created  int
	resolved int
	byRound  []int // resolved matches per round, index = round
	changed  chan struct{}
}

// NewRoundState puts n teams at Ready(1). n must be a power of two of at
// least 2.
func NewRoundState(n int) (*RoundState, error) {
	if n < 2 || n&(n-1) != 0 {
		return nil, errors.NewBracketError(fmt.Sprintf("cannot build a bracket for %d teams", n), errors.ErrTeamCount).
			WithSeverity(errors.SeverityError).
			WithUserFacing(true)
	}

	status := make([]Status, n)
	for i := range status {
		status[i] = Ready(1)
	}
	return &RoundState{
		status:  status,
		byRound: make([]int, bits.Len(uint(n))),
		changed: make(chan struct{}),
	}, nil
}

// Len returns the number of teams.
func (s *RoundState) Len() int {
	return len(s.status)
}

// Rounds returns log2 of the team count.
func (s *RoundState) Rounds() int {
	return bits.Len(uint(len(s.status))) - 1
}

// TotalMatches returns N-1, the number of matches a full bracket plays.
func (s *RoundState) TotalMatches() int {
	return len(s.status) - 1
}

// Status returns the status of one team, or Eliminated for an index
// outside the bracket.
func (s *RoundState) Status(team int) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if team < 0 || team >= len(s.status) {
		return Eliminated
	}
	return s.status[team]
}

// Snapshot returns a copy of every team's status.
func (s *RoundState) Snapshot() []Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Status, len(s.status))
	copy(out, s.status)
	return out
}

// Created returns the number of matches claimed so far.
func (s *RoundState) Created() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created
}

// Resolved returns the number of matches whose result has been merged.
func (s *RoundState) Resolved() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolved
}

// InFlight returns the number of claimed matches not yet resolved.
func (s *RoundState) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created - s.resolved
}

// Changed returns a channel that is closed at the next resolve. Take the
// channel before inspecting state so a resolve in between is not missed.
func (s *RoundState) Changed() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changed
}

// TryClaimPair finds the first team at Ready(round) and the first later
// team at Ready(round), marks both Playing and returns the new match.
func (s *RoundState) TryClaimPair(round int) (Match, bool) {
	if round < 1 {
		return Match{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, st := range s.status {
		if st == Ready(round) {
			return s.claimLocked(i, round)
		}
	}
	return Match{}, false
}

// claimFrom claims team i with its first later partner in the same round.
// maxRound > 0 skips teams waiting for a later round.
func (s *RoundState) claimFrom(i, maxRound int) (Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.status) {
		return Match{}, false
	}
	r, ok := s.status[i].Round()
	if !ok || (maxRound > 0 && r > maxRound) {
		return Match{}, false
	}
	return s.claimLocked(i, r)
}

// claimLocked pairs team i with the first later team at Ready(round). The
// match takes team i's round. Caller holds mu and has checked team i.
func (s *RoundState) claimLocked(i, round int) (Match, bool) {
	for j := i + 1; j < len(s.status); j++ {
		if s.status[j] != Ready(round) {
			continue
		}
		s.status[i] = Playing
		s.status[j] = Playing
		s.created++
		return Match{ID: s.created, Round: round, Team1: i, Team2: j}, true
	}
	return Match{}, false
}

// Resolve merges a finished match: the winner moves to Ready(m.Round+1)
// and the loser is Eliminated. Both teams must be Playing and the score
// must not be level; anything else is an invariant violation and leaves
// the state untouched.
func (s *RoundState) Resolve(m Match) (Resolution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	teams := []int{m.Team1, m.Team2}
	for _, team := range teams {
		if team < 0 || team >= len(s.status) {
			return Resolution{}, errors.NewBracketError("resolve references an unknown team", errors.ErrTeamNotFound).
				WithMatch(m.ID).WithTeam(team).WithRound(m.Round)
		}
	}
	for _, team := range teams {
		if s.status[team] != Playing {
			return Resolution{}, errors.NewBracketError(
				fmt.Sprintf("cannot resolve team in status %s", s.status[team]), errors.ErrInvalidTransition).
				WithMatch(m.ID).WithTeam(team).WithRound(m.Round)
		}
	}
	if m.Team1 == m.Team2 {
		return Resolution{}, errors.NewBracketError("a team cannot play itself", errors.ErrInvalidTransition).
			WithMatch(m.ID).WithTeam(m.Team1).WithRound(m.Round)
	}
	if m.IsDraw() {
		return Resolution{}, errors.NewBracketError("cannot resolve a level score", errors.ErrDrawnResult).
			WithMatch(m.ID).WithRound(m.Round)
	}
	if m.Round < 1 || m.Round >= len(s.byRound) {
		return Resolution{}, errors.NewBracketError("round outside the bracket", errors.ErrInvalidTransition).
			WithMatch(m.ID).WithRound(m.Round)
	}

	winner, loser := m.Winner(), m.Loser()
	s.status[winner] = Ready(m.Round + 1)
	s.status[loser] = Eliminated
	s.resolved++
	s.byRound[m.Round]++

	close(s.changed)
	s.changed = make(chan struct{})

	return Resolution{
		Winner:        winner,
		Loser:         loser,
		NextRound:     m.Round + 1,
		RoundComplete: s.byRound[m.Round] == len(s.status)>>m.Round,
		Survivors:     len(s.status) - s.resolved,
		Final:         s.resolved == len(s.status)-1,
	}, nil
}

// Champion returns the only team left once every match has resolved.
func (s *RoundState) Champion() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resolved != len(s.status)-1 {
		return -1, false
	}
	champion := -1
	for i, st := range s.status {
		if st == Eliminated {
			continue
		}
		if champion >= 0 || !st.IsReady() {
			return -1, false
		}
		champion = i
	}
	return champion, champion >= 0
}
