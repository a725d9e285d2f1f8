package operator

import (
	"context"

	"github.com/Iron-Ham/knockout/internal/logging"
	"github.com/Iron-Ham/knockout/internal/simulation"
)

// ManualPlayer decides each match with the operator: either a simulated
// match the operator can steer, or a score typed in directly.
type ManualPlayer struct {
	console *Console
	sim     *simulation.Simulator
	logger  *logging.Logger
}

// NewManualPlayer creates a ManualPlayer. sim should be paced with a tick
// long enough for the operator to react.
func NewManualPlayer(console *Console, sim *simulation.Simulator, logger *logging.Logger) *ManualPlayer {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &ManualPlayer{console: console, sim: sim, logger: logger}
}

// Play implements bracket.Player.
func (p *ManualPlayer) Play(ctx context.Context, fx simulation.Fixture) (simulation.Outcome, error) {
	p.console.Printf("Match %s VS %s [ROUND %d]\n", fx.Home.Name, fx.Away.Name, fx.Round)

	mode, err := p.console.ChooseMatchMode(ctx)
	if err != nil {
		return simulation.Outcome{}, err
	}

	log := p.logger.WithMatch(fx.MatchID)
	if mode == MatchSimulate {
		log.Debug("operator chose a steered simulation")
		return p.sim.PlayControlled(ctx, fx, p.console)
	}

	home, away, err := p.console.ReadScores(ctx, fx)
	if err != nil {
		return simulation.Outcome{}, err
	}
	log.Debug("operator entered a score", "home", home, "away", away)
	return simulation.Outcome{Home: home, Away: away}, nil
}
