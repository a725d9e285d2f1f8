package operator

import (
	"context"
	"strings"
	"testing"

	"github.com/Iron-Ham/knockout/internal/errors"
	"github.com/Iron-Ham/knockout/internal/simulation"
)

func newTestSimulator(t *testing.T) *simulation.Simulator {
	t.Helper()
	sim, err := simulation.NewSimulator(simulation.DefaultParams(), 11, nil)
	if err != nil {
		t.Fatalf("NewSimulator failed: %v", err)
	}
	return sim
}

func TestManualPlayer_DirectScore(t *testing.T) {
	c, out := newTestConsole(t, "2\n1\n4\n")
	p := NewManualPlayer(c, newTestSimulator(t), nil)

	got, err := p.Play(context.Background(), fixture)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if got.Home != 1 || got.Away != 4 || got.Shootout {
		t.Errorf("Play() = %+v, want 1-4 without shoot-out", got)
	}
	if !strings.Contains(out.String(), "Match Lille VS Brest [ROUND 1]") {
		t.Errorf("missing match header:\n%s", out.String())
	}
}

func TestManualPlayer_Simulate(t *testing.T) {
	c, _ := newTestConsole(t, "1\n")
	p := NewManualPlayer(c, newTestSimulator(t), nil)

	got, err := p.Play(context.Background(), fixture)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if got.IsDraw() {
		t.Errorf("simulated match ended level: %+v", got)
	}
}

func TestManualPlayer_InputEnds(t *testing.T) {
	c, _ := newTestConsole(t, "2\n3\n")
	p := NewManualPlayer(c, newTestSimulator(t), nil)

	_, err := p.Play(context.Background(), fixture)
	if !errors.Is(err, errors.ErrInputClosed) {
		t.Errorf("Play() error = %v, want ErrInputClosed", err)
	}
}

func TestManualPlayer_ImplementsController(t *testing.T) {
	var _ simulation.Controller = (*Console)(nil)
}
