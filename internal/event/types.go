package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a "category.action" identifier, e.g. "match.finished".
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeTournamentStarted  = "tournament.started"
	TypeTournamentFinished = "tournament.finished"
	TypeMatchStarted       = "match.started"
	TypeGoalScored         = "match.goal"
	TypePenaltyKick        = "match.penalty"
	TypeMatchFinished      = "match.finished"
	TypeRoundCompleted     = "round.completed"
)

type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// Team identifies one side of a match.
type Team struct {
	Index int
	Name  string
}

// Side says which of the two listed teams an action belongs to.
type Side int

const (
	Home Side = iota
	Away
)

// String returns "home" or "away".
func (s Side) String() string {
	if s == Away {
		return "away"
	}
	return "home"
}

// -----------------------------------------------------------------------------
// Tournament Events
// -----------------------------------------------------------------------------

// TournamentStartedEvent is emitted once the roster is loaded and the
// bracket is initialized.
type TournamentStartedEvent struct {
	baseEvent
	RunID string
	Teams int
	Mode  string
}

// NewTournamentStartedEvent creates a TournamentStartedEvent.
func NewTournamentStartedEvent(runID string, teams int, mode string) TournamentStartedEvent {
	return TournamentStartedEvent{
		baseEvent: newBaseEvent(TypeTournamentStarted),
		RunID:     runID,
		Teams:     teams,
		Mode:      mode,
	}
}

// TournamentFinishedEvent is emitted after every runner has returned.
type TournamentFinishedEvent struct {
	baseEvent
	RunID    string
	Champion Team
	Matches  int
	Elapsed  time.Duration
}

// NewTournamentFinishedEvent creates a TournamentFinishedEvent.
func NewTournamentFinishedEvent(runID string, champion Team, matches int, elapsed time.Duration) TournamentFinishedEvent {
	return TournamentFinishedEvent{
		baseEvent: newBaseEvent(TypeTournamentFinished),
		RunID:     runID,
		Champion:  champion,
		Matches:   matches,
		Elapsed:   elapsed,
	}
}

// RoundCompletedEvent is emitted when the last match of a round resolves.
type RoundCompletedEvent struct {
	baseEvent
	Round     int
	Survivors int
}

// NewRoundCompletedEvent creates a RoundCompletedEvent.
func NewRoundCompletedEvent(round, survivors int) RoundCompletedEvent {
	return RoundCompletedEvent{
		baseEvent: newBaseEvent(TypeRoundCompleted),
		Round:     round,
		Survivors: survivors,
	}
}

// -----------------------------------------------------------------------------
// Match Events
// -----------------------------------------------------------------------------

// MatchStartedEvent is emitted when a runner begins a claimed match.
type MatchStartedEvent struct {
	baseEvent
	MatchID int
	Round   int
	Home    Team
	Away    Team
}

// NewMatchStartedEvent creates a MatchStartedEvent.
func NewMatchStartedEvent(matchID, round int, home, away Team) MatchStartedEvent {
	return MatchStartedEvent{
		baseEvent: newBaseEvent(TypeMatchStarted),
		MatchID:   matchID,
		Round:     round,
		Home:      home,
		Away:      away,
	}
}

// GoalScoredEvent is emitted for every regular-time goal. Forced marks a
// goal entered by the operator.
type GoalScoredEvent struct {
	baseEvent
	MatchID   int
	Minute    int
	Side      Side
	Home      Team
	Away      Team
	HomeScore int
	AwayScore int
	Forced    bool
}

// NewGoalScoredEvent creates a GoalScoredEvent.
func NewGoalScoredEvent(matchID, minute int, side Side, home, away Team, homeScore, awayScore int, forced bool) GoalScoredEvent {
	return GoalScoredEvent{
		baseEvent: newBaseEvent(TypeGoalScored),
		MatchID:   matchID,
		Minute:    minute,
		Side:      side,
		Home:      home,
		Away:      away,
		HomeScore: homeScore,
		AwayScore: awayScore,
		Forced:    forced,
	}
}

// PenaltyKickEvent is emitted for every shoot-out attempt.
type PenaltyKickEvent struct {
	baseEvent
	MatchID     int
	Kick        int // 1-based attempt number for the kicking side
	Side        Side
	Kicker      Team
	Scored      bool
	SuddenDeath bool
	HomeScore   int
	AwayScore   int
}

// NewPenaltyKickEvent creates a PenaltyKickEvent.
func NewPenaltyKickEvent(matchID, kick int, side Side, kicker Team, scored, suddenDeath bool, homeScore, awayScore int) PenaltyKickEvent {
	return PenaltyKickEvent{
		baseEvent:   newBaseEvent(TypePenaltyKick),
		MatchID:     matchID,
		Kick:        kick,
		Side:        side,
		Kicker:      kicker,
		Scored:      scored,
		SuddenDeath: suddenDeath,
		HomeScore:   homeScore,
		AwayScore:   awayScore,
	}
}

// MatchFinishedEvent is emitted after a match result has been merged into
// the bracket.
type MatchFinishedEvent struct {
	baseEvent
	MatchID   int
	Round     int
	Home      Team
	Away      Team
	HomeScore int
	AwayScore int
	Shootout  bool
	Elapsed   time.Duration
}

// NewMatchFinishedEvent creates a MatchFinishedEvent.
func NewMatchFinishedEvent(matchID, round int, home, away Team, homeScore, awayScore int, shootout bool, elapsed time.Duration) MatchFinishedEvent {
	return MatchFinishedEvent{
		baseEvent: newBaseEvent(TypeMatchFinished),
		MatchID:   matchID,
		Round:     round,
		Home:      home,
		Away:      away,
		HomeScore: homeScore,
		AwayScore: awayScore,
		Shootout:  shootout,
		Elapsed:   elapsed,
	}
}

// Winner returns the side with the higher score.
func (e MatchFinishedEvent) Winner() Team {
	if e.AwayScore > e.HomeScore {
		return e.Away
	}
	return e.Home
}
