package bracket

import "strconv"

// Status is a team's position in the bracket: eliminated, in an in-flight
// match, or waiting to be paired for a round.
type Status int

const (
	// Eliminated is terminal.
	Eliminated Status = -1
	// Playing means the team is claimed by exactly one in-flight match.
	Playing Status = 0
)

// Ready returns the status of a team waiting to be paired for round,
// which must be at least 1.
func Ready(round int) Status {
	return Status(round)
}

// Round returns the round a Ready team waits for.
func (s Status) Round() (int, bool) {
	if s >= 1 {
		return int(s), true
	}
	return 0, false
}

// IsReady reports whether the team can be paired.
func (s Status) IsReady() bool {
	return s >= 1
}

func (s Status) String() string {
	switch {
	case s == Eliminated:
		return "eliminated"
	case s == Playing:
		return "playing"
	case s >= 1:
		return "ready(" + strconv.Itoa(int(s)) + ")"
	default:
		return "invalid(" + strconv.Itoa(int(s)) + ")"
	}
}
