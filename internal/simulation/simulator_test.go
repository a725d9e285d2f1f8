package simulation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Iron-Ham/knockout/internal/errors"
	"github.com/Iron-Ham/knockout/internal/event"
)

func fixture(id int) Fixture {
	return Fixture{
		MatchID: id,
		Round:   1,
		Home:    event.Team{Index: 0, Name: "Nantes"},
		Away:    event.Team{Index: 1, Name: "Rennes"},
	}
}

func newSim(t *testing.T, p Params, seed uint64, bus *event.Bus) *Simulator {
	t.Helper()
	s, err := NewSimulator(p, seed, bus)
	if err != nil {
		t.Fatalf("NewSimulator failed: %v", err)
	}
	return s
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		field  string
	}{
		{"zero duration", func(p *Params) { p.Duration = 0 }, "duration"},
		{"negative goal chance", func(p *Params) { p.GoalChance = -0.1 }, "goal_chance"},
		{"goal chance above half", func(p *Params) { p.GoalChance = 0.51 }, "goal_chance"},
		{"no kicks", func(p *Params) { p.ShootoutKicks = 0 }, "shootout_kicks"},
		{"home never scores", func(p *Params) { p.HomePenalty = 0 }, "home_penalty"},
		{"away always scores", func(p *Params) { p.AwayPenalty = 1 }, "away_penalty"},
		{"negative tick", func(p *Params) { p.Tick = -time.Second }, "tick"},
	}

	if err := DefaultParams().Validate(); err != nil {
		t.Fatalf("DefaultParams().Validate() = %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)

			err := p.Validate()
			var verr *errors.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
			if _, err := NewSimulator(p, 1, nil); err == nil {
				t.Error("NewSimulator should reject invalid params")
			}
		})
	}
}

func TestPlay_NeverDraws(t *testing.T) {
	for _, p := range []Params{
		DefaultParams(),
		{Duration: 1, GoalChance: 0, ShootoutKicks: 1, HomePenalty: 0.5, AwayPenalty: 0.5},
		{Duration: 30, GoalChance: 0.5, ShootoutKicks: 5, HomePenalty: 0.99, AwayPenalty: 0.99},
	} {
		for seed := uint64(1); seed <= 200; seed++ {
			s := newSim(t, p, seed, nil)
			out, err := s.Play(context.Background(), fixture(int(seed)))
			if err != nil {
				t.Fatalf("Play failed: %v", err)
			}
			if out.IsDraw() {
				t.Fatalf("seed %d params %+v: draw %d-%d", seed, p, out.Home, out.Away)
			}
		}
	}
}

func TestPlay_GoallessGoesToShootout(t *testing.T) {
	p := DefaultParams()
	p.GoalChance = 0

	bus := event.NewBus(nil)
	var kicks []event.PenaltyKickEvent
	bus.Subscribe(event.TypePenaltyKick, func(e event.Event) {
		kicks = append(kicks, e.(event.PenaltyKickEvent))
	})
	bus.Subscribe(event.TypeGoalScored, func(e event.Event) {
		t.Error("no regular-time goal expected")
	})

	out, err := newSim(t, p, 7, bus).Play(context.Background(), fixture(1))
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	if !out.Shootout {
		t.Error("Shootout = false, want true")
	}
	if out.Home != out.HomePens || out.Away != out.AwayPens {
		t.Errorf("all goals should be penalties: %+v", out)
	}
	if len(kicks) < 2*p.ShootoutKicks || len(kicks)%2 != 0 {
		t.Fatalf("got %d kicks, want an even number of at least %d", len(kicks), 2*p.ShootoutKicks)
	}
	for i, k := range kicks {
		wantSide := event.Home
		if i%2 == 1 {
			wantSide = event.Away
		}
		if k.Side != wantSide {
			t.Errorf("kick %d side = %v, want %v", i, k.Side, wantSide)
		}
		if wantSudden := i >= 2*p.ShootoutKicks; k.SuddenDeath != wantSudden {
			t.Errorf("kick %d SuddenDeath = %v, want %v", i, k.SuddenDeath, wantSudden)
		}
	}
	last := kicks[len(kicks)-1]
	if last.HomeScore != out.Home || last.AwayScore != out.Away {
		t.Errorf("last kick score %d-%d, outcome %d-%d", last.HomeScore, last.AwayScore, out.Home, out.Away)
	}
}

func TestPlay_Deterministic(t *testing.T) {
	p := DefaultParams()
	a, _ := newSim(t, p, 42, nil).Play(context.Background(), fixture(3))
	b, _ := newSim(t, p, 42, nil).Play(context.Background(), fixture(3))
	if a != b {
		t.Errorf("same seed and match produced %+v and %+v", a, b)
	}
}

func TestPlay_ConcurrentMatches(t *testing.T) {
	s := newSim(t, DefaultParams(), 9, nil)

	var wg sync.WaitGroup
	results := make([]Outcome, 32)
	for i := range results {
		wg.Go(func() {
			out, err := s.Play(context.Background(), fixture(i+1))
			if err != nil {
				t.Errorf("Play failed: %v", err)
			}
			results[i] = out
		})
	}
	wg.Wait()

	for i, out := range results {
		again, _ := s.Play(context.Background(), fixture(i+1))
		if out != again {
			t.Errorf("match %d not reproducible under concurrency: %+v vs %+v", i+1, out, again)
		}
	}
}

func TestPlay_Canceled(t *testing.T) {
	p := DefaultParams()
	p.Tick = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newSim(t, p, 1, nil).Play(ctx, fixture(1))
	if !errors.Is(err, errors.ErrCanceled) {
		t.Errorf("Play() error = %v, want ErrCanceled", err)
	}
}

// scriptedController returns a fixed action per minute.
type scriptedController struct {
	actions map[int]Action
	polled  int
}

func (c *scriptedController) Poll(_ context.Context, _ Fixture, minute int, _ Outcome) (Action, error) {
	c.polled++
	return c.actions[minute], nil
}

func TestPlayControlled_ForcedGoals(t *testing.T) {
	p := DefaultParams()
	p.GoalChance = 0

	bus := event.NewBus(nil)
	var forced int
	bus.Subscribe(event.TypeGoalScored, func(e event.Event) {
		if e.(event.GoalScoredEvent).Forced {
			forced++
		}
	})

	ctrl := &scriptedController{actions: map[int]Action{
		10: ActionHomeGoal,
		20: ActionHomeGoal,
		30: ActionAwayGoal,
	}}
	out, err := newSim(t, p, 1, bus).PlayControlled(context.Background(), fixture(1), ctrl)
	if err != nil {
		t.Fatalf("PlayControlled failed: %v", err)
	}

	if out.Home != 2 || out.Away != 1 || out.Shootout {
		t.Errorf("outcome = %+v, want 2-1 without shoot-out", out)
	}
	if forced != 3 {
		t.Errorf("forced goals = %d, want 3", forced)
	}
	if ctrl.polled != p.Duration {
		t.Errorf("controller polled %d times, want %d", ctrl.polled, p.Duration)
	}
}

func TestPlayControlled_Accelerate(t *testing.T) {
	p := DefaultParams()
	p.Tick = time.Hour

	ctrl := &scriptedController{actions: map[int]Action{1: ActionAccelerate}}

	done := make(chan error, 1)
	go func() {
		_, err := newSim(t, p, 1, nil).PlayControlled(context.Background(), fixture(1), ctrl)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("PlayControlled failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("accelerate did not drop pacing")
	}
}

type failingController struct{}

func (failingController) Poll(context.Context, Fixture, int, Outcome) (Action, error) {
	return ActionNone, errors.NewInputError("gone", errors.ErrInputClosed)
}

func TestPlayControlled_ControllerError(t *testing.T) {
	_, err := newSim(t, DefaultParams(), 1, nil).PlayControlled(context.Background(), fixture(1), failingController{})
	if !errors.Is(err, errors.ErrInputClosed) {
		t.Errorf("error = %v, want ErrInputClosed", err)
	}
}

func TestAction_String(t *testing.T) {
	tests := map[Action]string{
		ActionNone:       "none",
		ActionAccelerate: "accelerate",
		ActionHomeGoal:   "home_goal",
		ActionAwayGoal:   "away_goal",
	}
	for a, want := range tests {
		if a.String() != want {
			t.Errorf("%d.String() = %q, want %q", a, a.String(), want)
		}
	}
}
