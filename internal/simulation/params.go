package simulation

import (
	"time"

	"github.com/Iron-Ham/knockout/internal/errors"
	"github.com/Iron-Ham/knockout/internal/event"
)

// Params is the outcome model for one tournament.
type Params struct {
	// Duration is the number of simulated minutes of regular time.
	Duration int
	// GoalChance is the per-minute probability that a given side scores.
	GoalChance float64
	// ShootoutKicks is the number of attempts per side before sudden death.
	ShootoutKicks int
	// HomePenalty and AwayPenalty are the success probabilities of a kick
	// by the first- and second-listed team.
	HomePenalty float64
	AwayPenalty float64
	// Tick is the wall-clock delay per simulated minute; 0 runs unpaced.
	Tick time.Duration
}

// DefaultParams returns a 90-minute model with a 1% goal chance per side
// per minute and 80%/60% penalty conversion.
func DefaultParams() Params {
	return Params{
		Duration:      90,
		GoalChance:    0.01,
		ShootoutKicks: 5,
		HomePenalty:   0.8,
		AwayPenalty:   0.6,
	}
}

// Validate rejects parameters under which a match could fail to terminate
// or could not be modelled with one draw per minute.
func (p Params) Validate() error {
	switch {
	case p.Duration < 1:
		return errors.NewValidationError("duration must be at least one minute").
			WithField("duration").WithValue(p.Duration)
	case p.GoalChance < 0 || p.GoalChance > 0.5:
		return errors.NewValidationError("goal chance must be between 0 and 0.5").
			WithField("goal_chance").WithValue(p.GoalChance)
	case p.ShootoutKicks < 1:
		return errors.NewValidationError("shoot-out needs at least one kick per side").
			WithField("shootout_kicks").WithValue(p.ShootoutKicks)
	case p.HomePenalty <= 0 || p.HomePenalty >= 1:
		return errors.NewValidationError("penalty probability must be strictly between 0 and 1").
			WithField("home_penalty").WithValue(p.HomePenalty)
	case p.AwayPenalty <= 0 || p.AwayPenalty >= 1:
		return errors.NewValidationError("penalty probability must be strictly between 0 and 1").
			WithField("away_penalty").WithValue(p.AwayPenalty)
	case p.Tick < 0:
		return errors.NewValidationError("tick must be non-negative").
			WithField("tick").WithValue(p.Tick)
	}
	return nil
}

// Fixture is a claimed match as seen by an outcome generator.
type Fixture struct {
	MatchID int
	Round   int
	Home    event.Team
	Away    event.Team
}

// Outcome is the final score of a match. Penalty goals are included in
// Home and Away and also counted separately.
type Outcome struct {
	Home     int
	Away     int
	HomePens int
	AwayPens int
	Shootout bool
}

// IsDraw reports whether the scores are level.
func (o Outcome) IsDraw() bool {
	return o.Home == o.Away
}

// Winner returns the side with the higher score. Callers must check
// IsDraw first.
func (o Outcome) Winner() event.Side {
	if o.Away > o.Home {
		return event.Away
	}
	return event.Home
}

// Action is an operator override applied at a simulated minute.
type Action int

const (
	ActionNone Action = iota
	ActionAccelerate
	ActionHomeGoal
	ActionAwayGoal
)

// String returns a short name for logs.
func (a Action) String() string {
	switch a {
	case ActionAccelerate:
		return "accelerate"
	case ActionHomeGoal:
		return "home_goal"
	case ActionAwayGoal:
		return "away_goal"
	default:
		return "none"
	}
}
