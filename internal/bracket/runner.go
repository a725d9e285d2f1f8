package bracket

import (
	"context"
	"time"

	"github.com/Iron-Ham/knockout/internal/errors"
	"github.com/Iron-Ham/knockout/internal/event"
	"github.com/Iron-Ham/knockout/internal/logging"
	"github.com/Iron-Ham/knockout/internal/simulation"
)

// Player produces the final score of a claimed match. The outcome must not
// be a draw.
type Player interface {
	Play(ctx context.Context, fx simulation.Fixture) (simulation.Outcome, error)
}

// PlayerFunc adapts a function to the Player interface.
type PlayerFunc func(ctx context.Context, fx simulation.Fixture) (simulation.Outcome, error)

// Play calls f.
func (f PlayerFunc) Play(ctx context.Context, fx simulation.Fixture) (simulation.Outcome, error) {
	return f(ctx, fx)
}

// Runner plays one claimed match and merges its result into the bracket.
type Runner struct {
	state  *RoundState
	teams  []string
	player Player
	bus    *event.Bus
	logger *logging.Logger
}

// NewRunner creates a Runner. teams maps indices to display names.
func NewRunner(state *RoundState, teams []string, player Player, bus *event.Bus, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Runner{
		state:  state,
		teams:  teams,
		player: player,
		bus:    bus,
		logger: logger,
	}
}

func (r *Runner) team(i int) event.Team {
	name := ""
	if i >= 0 && i < len(r.teams) {
		name = r.teams[i]
	}
	return event.Team{Index: i, Name: name}
}

// Run plays m, writes the score into it and resolves it. m is owned by the
// caller's goroutine for the duration of the call.
func (r *Runner) Run(ctx context.Context, m *Match) error {
	log := r.logger.WithMatch(m.ID).WithRound(m.Round)
	home, away := r.team(m.Team1), r.team(m.Team2)
	start := time.Now()

	r.bus.Publish(event.NewMatchStartedEvent(m.ID, m.Round, home, away))
	log.Debug("match started", "home", home.Name, "away", away.Name)

	out, err := r.player.Play(ctx, simulation.Fixture{
		MatchID: m.ID,
		Round:   m.Round,
		Home:    home,
		Away:    away,
	})
	if err != nil {
		log.Warn("match aborted", "error", err)
		return errors.Wrapf(err, "match %d", m.ID)
	}
	if out.IsDraw() {
		log.Error("outcome generator returned a draw", "score", out.Home)
		return errors.NewBracketError("outcome generator returned a draw", errors.ErrDrawnResult).
			WithMatch(m.ID).WithRound(m.Round)
	}

	m.Score1, m.Score2, m.Shootout = out.Home, out.Away, out.Shootout

	res, err := r.state.Resolve(*m)
	if err != nil {
		log.Error("resolve rejected", "error", err)
		return err
	}

	elapsed := time.Since(start)
	log.Info("match resolved",
		"winner", r.team(res.Winner).Name,
		"score", []int{m.Score1, m.Score2},
		"shootout", m.Shootout,
		"elapsed_ms", elapsed.Milliseconds())

	r.bus.Publish(event.NewMatchFinishedEvent(m.ID, m.Round, home, away, m.Score1, m.Score2, m.Shootout, elapsed))
	if res.RoundComplete {
		log.Info("round completed", "survivors", res.Survivors)
		r.bus.Publish(event.NewRoundCompletedEvent(m.Round, res.Survivors))
	}
	return nil
}
