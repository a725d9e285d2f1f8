// Package simulation generates match outcomes: a minute-by-minute scoring
// model followed, when the score is level, by a penalty shoot-out that
// always produces a winner.
package simulation

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/Iron-Ham/knockout/internal/errors"
	"github.com/Iron-Ham/knockout/internal/event"
)

// Controller is polled once per simulated minute and may override the
// simulation. Implementations may block, e.g. while the operator chooses.
type Controller interface {
	Poll(ctx context.Context, fx Fixture, minute int, score Outcome) (Action, error)
}

// Simulator plays matches under a fixed Params. It is safe for concurrent
// use: every match draws from its own generator seeded by the run seed and
// the match ID.
type Simulator struct {
	params Params
	seed   uint64
	bus    *event.Bus
}

// NewSimulator creates a Simulator. A zero seed picks a random one.
func NewSimulator(params Params, seed uint64, bus *event.Bus) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Simulator{params: params, seed: seed, bus: bus}, nil
}

// Params returns the model the simulator was built with.
func (s *Simulator) Params() Params {
	return s.params
}

// Seed returns the effective run seed.
func (s *Simulator) Seed() uint64 {
	return s.seed
}

// Play simulates a match without operator involvement.
func (s *Simulator) Play(ctx context.Context, fx Fixture) (Outcome, error) {
	return s.PlayControlled(ctx, fx, nil)
}

// PlayControlled simulates a match, polling ctrl (if non-nil) each minute
// before the minute is paced and drawn. The result is never a draw.
func (s *Simulator) PlayControlled(ctx context.Context, fx Fixture, ctrl Controller) (Outcome, error) {
	rng := rand.New(rand.NewPCG(s.seed, uint64(fx.MatchID)))
	tick := s.params.Tick
	var out Outcome

	for minute := 1; minute <= s.params.Duration; minute++ {
		if ctrl != nil {
			action, err := ctrl.Poll(ctx, fx, minute, out)
			if err != nil {
				return Outcome{}, err
			}
			switch action {
			case ActionAccelerate:
				tick = 0
			case ActionHomeGoal:
				s.goal(fx, &out, minute, event.Home, true)
			case ActionAwayGoal:
				s.goal(fx, &out, minute, event.Away, true)
			}
		}

		if err := pause(ctx, tick); err != nil {
			return Outcome{}, errors.Wrapf(errors.ErrCanceled, "match %d stopped at minute %d", fx.MatchID, minute)
		}

		roll := rng.Float64()
		switch {
		case roll < s.params.GoalChance:
			s.goal(fx, &out, minute, event.Home, false)
		case roll < 2*s.params.GoalChance:
			s.goal(fx, &out, minute, event.Away, false)
		}
	}

	if out.IsDraw() {
		if err := s.shootout(ctx, rng, fx, &out); err != nil {
			return Outcome{}, err
		}
	}
	return out, nil
}

func (s *Simulator) goal(fx Fixture, out *Outcome, minute int, side event.Side, forced bool) {
	if side == event.Home {
		out.Home++
	} else {
		out.Away++
	}
	s.bus.Publish(event.NewGoalScoredEvent(fx.MatchID, minute, side, fx.Home, fx.Away, out.Home, out.Away, forced))
}

// shootout alternates kicks, home first: a first round of ShootoutKicks
// per side, then single-kick rounds until the scores differ.
func (s *Simulator) shootout(ctx context.Context, rng *rand.Rand, fx Fixture, out *Outcome) error {
	out.Shootout = true
	perRound := s.params.ShootoutKicks
	taken := 0

	for suddenDeath := false; out.IsDraw(); suddenDeath = true {
		if ctx.Err() != nil {
			return errors.Wrapf(errors.ErrCanceled, "match %d stopped during shoot-out", fx.MatchID)
		}
		for range perRound {
			taken++
			s.kick(rng, fx, out, event.Home, taken, suddenDeath)
			s.kick(rng, fx, out, event.Away, taken, suddenDeath)
		}
		perRound = 1
	}
	return nil
}

func (s *Simulator) kick(rng *rand.Rand, fx Fixture, out *Outcome, side event.Side, n int, suddenDeath bool) {
	p, kicker := s.params.HomePenalty, fx.Home
	if side == event.Away {
		p, kicker = s.params.AwayPenalty, fx.Away
	}

	scored := rng.Float64() < p
	if scored {
		if side == event.Home {
			out.Home++
			out.HomePens++
		} else {
			out.Away++
			out.AwayPens++
		}
	}
	s.bus.Publish(event.NewPenaltyKickEvent(fx.MatchID, n, side, kicker, scored, suddenDeath, out.Home, out.Away))
}

// pause waits d or until ctx is done. A non-positive d only checks ctx.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
