package bracket

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/time/rate"

	"github.com/Iron-Ham/knockout/internal/errors"
	"github.com/Iron-Ham/knockout/internal/event"
	"github.com/Iron-Ham/knockout/internal/logging"
)

// Mode selects how matches are executed.
type Mode string

const (
	// ModeAuto plays every pairing found by a sweep concurrently.
	ModeAuto Mode = "auto"
	// ModeManual plays one match at a time, round by round.
	ModeManual Mode = "manual"
)

// ParseMode converts a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAuto, ModeManual:
		return Mode(s), nil
	default:
		return "", errors.NewValidationError("mode must be auto or manual").
			WithField("mode").WithValue(s)
	}
}

// Options configures an Orchestrator.
type Options struct {
	Mode   Mode
	Player Player
	Bus    *event.Bus
	Logger *logging.Logger
	RunID  string
	// SweepInterval is the minimum delay between two empty sweeps in auto
	// mode. Zero re-sweeps as soon as a match resolves.
	SweepInterval time.Duration
}

// Result is a completed tournament.
type Result struct {
	RunID    string
	Mode     Mode
	Teams    []string
	Matches  []Match // ordered by ID
	Champion int
	Elapsed  time.Duration
}

// Name returns the display name of team i.
func (r *Result) Name(i int) string {
	if i < 0 || i >= len(r.Teams) {
		return fmt.Sprintf("team %d", i)
	}
	return r.Teams[i]
}

// ChampionName returns the winner's display name.
func (r *Result) ChampionName() string {
	return r.Name(r.Champion)
}

// Orchestrator drives a bracket from the first sweep to the champion.
type Orchestrator struct {
	teams   []string
	opts    Options
	state   *RoundState
	scanner *Scanner
	runner  *Runner
	logger  *logging.Logger
}

// New builds an Orchestrator for teams, in bracket order.
func New(teams []string, opts Options) (*Orchestrator, error) {
	if opts.Player == nil {
		return nil, errors.NewValidationError("a player is required").WithField("player")
	}
	if opts.Mode == "" {
		opts.Mode = ModeAuto
	}
	if _, err := ParseMode(string(opts.Mode)); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}

	state, err := NewRoundState(len(teams))
	if err != nil {
		return nil, err
	}

	names := slices.Clone(teams)
	logger := opts.Logger
	if opts.RunID != "" {
		logger = logger.WithRun(opts.RunID)
	}

	return &Orchestrator{
		teams:   names,
		opts:    opts,
		state:   state,
		scanner: NewScanner(state),
		runner:  NewRunner(state, names, opts.Player, opts.Bus, logger),
		logger:  logger,
	}, nil
}

// State exposes the status table for observers.
func (o *Orchestrator) State() *RoundState {
	return o.state
}

// Run plays the whole bracket. It returns once every runner has returned,
// with either the full result or the first failure.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	o.logger.Info("tournament started", "teams", len(o.teams), "mode", string(o.opts.Mode))
	o.opts.Bus.Publish(event.NewTournamentStartedEvent(o.opts.RunID, len(o.teams), string(o.opts.Mode)))

	var (
		matches []Match
		err     error
	)
	if o.opts.Mode == ModeManual {
		matches, err = o.runManual(ctx)
	} else {
		matches, err = o.runAuto(ctx)
	}
	if err != nil {
		o.logger.Error("tournament aborted", "error", err)
		return nil, err
	}

	champion, ok := o.state.Champion()
	if !ok || len(matches) != o.state.TotalMatches() {
		return nil, errors.NewBracketError(
			fmt.Sprintf("bracket ended with %d of %d matches and no single champion", len(matches), o.state.TotalMatches()),
			errors.ErrBracketStalled)
	}
	slices.SortFunc(matches, func(a, b Match) int { return a.ID - b.ID })

	res := &Result{
		RunID:    o.opts.RunID,
		Mode:     o.opts.Mode,
		Teams:    o.teams,
		Matches:  matches,
		Champion: champion,
		Elapsed:  time.Since(start),
	}
	o.logger.Info("tournament finished", "champion", res.ChampionName(), "elapsed_ms", res.Elapsed.Milliseconds())
	o.opts.Bus.Publish(event.NewTournamentFinishedEvent(o.opts.RunID,
		event.Team{Index: champion, Name: res.ChampionName()}, len(matches), res.Elapsed))
	return res, nil
}

// runAuto sweeps until N-1 matches are claimed, spawning one goroutine per
// claimed match, then waits for all of them. An empty sweep waits for the
// next resolve and the rate limiter instead of spinning.
func (o *Orchestrator) runAuto(parent context.Context) ([]Match, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	limit := rate.Inf
	if o.opts.SweepInterval > 0 {
		limit = rate.Every(o.opts.SweepInterval)
	}
	limiter := rate.NewLimiter(limit, 1)

	total := o.state.TotalMatches()
	claimed := make([]*Match, 0, total)
	p := pool.New().WithErrors()

	var stall error
	for o.state.Created() < total && ctx.Err() == nil {
		changed := o.state.Changed()
		batch := o.scanner.Sweep(0)

		for i := range batch {
			m := &batch[i]
			claimed = append(claimed, m)
			o.logger.Debug("pair claimed", "match_id", m.ID, "round", m.Round, "team1", m.Team1, "team2", m.Team2)
			p.Go(func() error {
				if err := o.runner.Run(ctx, m); err != nil {
					cancel()
					return err
				}
				return nil
			})
		}
		if len(batch) > 0 {
			continue
		}

		if o.state.InFlight() == 0 {
			select {
			case <-changed:
				continue
			default:
			}
			// Nothing running can ever make a pair available.
			stall = errors.NewBracketError("empty sweep with no match in flight", errors.ErrBracketStalled)
			break
		}
		o.logger.Debug("empty sweep, waiting for a result")
		select {
		case <-changed:
		case <-ctx.Done():
		}
		if err := limiter.Wait(ctx); err != nil {
			break
		}
	}

	err := p.Wait()
	if stall != nil {
		err = errors.Join(stall, err)
	}
	if err == nil && parent.Err() != nil {
		err = errors.Wrap(errors.ErrCanceled, "tournament interrupted")
	}
	if err != nil {
		return nil, err
	}

	out := make([]Match, len(claimed))
	for i, m := range claimed {
		out[i] = *m
	}
	return out, nil
}

// runManual plays one match at a time: claim a pair in the current round,
// play it to completion, and move to the next round once none is left.
func (o *Orchestrator) runManual(ctx context.Context) ([]Match, error) {
	total := o.state.TotalMatches()
	out := make([]Match, 0, total)

	for round := 1; o.state.Created() < total; {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCanceled, "tournament interrupted")
		}

		m, ok := o.state.TryClaimPair(round)
		if !ok {
			round++
			if round > o.state.Rounds() {
				return nil, errors.NewBracketError("no pair left to claim", errors.ErrBracketStalled).WithRound(round)
			}
			continue
		}

		o.logger.Debug("pair claimed", "match_id", m.ID, "round", m.Round, "team1", m.Team1, "team2", m.Team2)
		if err := o.runner.Run(ctx, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
