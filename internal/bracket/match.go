package bracket

// Match is one pairing. It is created at claim time, written only by the
// runner that owns it, and immutable once resolved.
type Match struct {
	ID       int // 1-based claim order
	Round    int
	Team1    int
	Team2    int
	Score1   int
	Score2   int
	Shootout bool
}

// IsDraw reports whether the scores are level.
func (m Match) IsDraw() bool {
	return m.Score1 == m.Score2
}

// Winner returns the index of the team with the higher score.
func (m Match) Winner() int {
	if m.Score2 > m.Score1 {
		return m.Team2
	}
	return m.Team1
}

// Loser returns the index of the team with the lower score.
func (m Match) Loser() int {
	if m.Score2 > m.Score1 {
		return m.Team1
	}
	return m.Team2
}

// Resolution describes the bracket after a match result was merged.
type Resolution struct {
	Winner    int
	Loser     int
	NextRound int
	// RoundComplete is set on the last resolve of the match's round.
	RoundComplete bool
	// Survivors is the number of teams not yet eliminated.
	Survivors int
	// Final is set when the resolve produced the champion.
	Final bool
}
