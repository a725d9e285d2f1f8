package bracket

// Scanner discovers pairings with one left-to-right pass over the teams.
type Scanner struct {
	state *RoundState
}

// NewScanner creates a Scanner over state.
func NewScanner(state *RoundState) *Scanner {
	return &Scanner{state: state}
}

// Sweep claims every pair it can in a single pass: for each team waiting
// for round r (r ≤ maxRound when maxRound > 0) it looks for a later team
// waiting for the same round. Each index is examined under its own lock
// acquisition, so runners may resolve concurrently with a sweep. A sweep
// that claims nothing leaves the state untouched.
func (sc *Scanner) Sweep(maxRound int) []Match {
	var out []Match
	for i := 0; i < sc.state.Len(); i++ {
		if m, ok := sc.state.claimFrom(i, maxRound); ok {
			out = append(out, m)
		}
	}
	return out
}
