package bracket

import (
	"context"
	"testing"

	"github.com/Iron-Ham/knockout/internal/errors"
	"github.com/Iron-Ham/knockout/internal/event"
	"github.com/Iron-Ham/knockout/internal/simulation"
)

func TestRunner_Run(t *testing.T) {
	s := mustState(t, 2)
	bus := event.NewBus(nil)

	var events []event.Event
	bus.SubscribeAll(func(e event.Event) { events = append(events, e) })

	var got simulation.Fixture
	player := PlayerFunc(func(_ context.Context, fx simulation.Fixture) (simulation.Outcome, error) {
		got = fx
		return simulation.Outcome{Home: 4, Away: 5, HomePens: 3, AwayPens: 4, Shootout: true}, nil
	})
	r := NewRunner(s, []string{"Lyon", "Nantes"}, player, bus, nil)

	m, _ := s.TryClaimPair(1)
	if err := r.Run(context.Background(), &m); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got.MatchID != 1 || got.Round != 1 || got.Home.Name != "Lyon" || got.Away.Name != "Nantes" {
		t.Errorf("fixture = %+v", got)
	}
	if m.Score1 != 4 || m.Score2 != 5 || !m.Shootout {
		t.Errorf("match = %+v", m)
	}
	if champ, ok := s.Champion(); !ok || champ != 1 {
		t.Errorf("Champion() = %d, %v", champ, ok)
	}

	wantTypes := []string{event.TypeMatchStarted, event.TypeMatchFinished, event.TypeRoundCompleted}
	if len(events) != len(wantTypes) {
		t.Fatalf("got %d events, want %d", len(events), len(wantTypes))
	}
	for i, typ := range wantTypes {
		if events[i].EventType() != typ {
			t.Errorf("event %d = %s, want %s", i, events[i].EventType(), typ)
		}
	}

	finished, ok := events[1].(event.MatchFinishedEvent)
	if !ok {
		t.Fatalf("event 1 is %T", events[1])
	}
	if finished.Winner().Name != "Nantes" || !finished.Shootout {
		t.Errorf("finished event = %+v", finished)
	}
	completed := events[2].(event.RoundCompletedEvent)
	if completed.Round != 1 || completed.Survivors != 1 {
		t.Errorf("round event = %+v", completed)
	}
}

func TestRunner_DrawLeavesStateUntouched(t *testing.T) {
	s := mustState(t, 2)
	player := PlayerFunc(func(context.Context, simulation.Fixture) (simulation.Outcome, error) {
		return simulation.Outcome{Home: 2, Away: 2}, nil
	})
	r := NewRunner(s, []string{"A", "B"}, player, nil, nil)

	m, _ := s.TryClaimPair(1)
	err := r.Run(context.Background(), &m)
	if !errors.Is(err, errors.ErrDrawnResult) {
		t.Fatalf("Run() error = %v, want ErrDrawnResult", err)
	}
	if s.Resolved() != 0 || s.Status(0) != Playing || s.Status(1) != Playing {
		t.Errorf("draw changed state: resolved=%d status=%v", s.Resolved(), s.Snapshot())
	}
}

func TestRunner_PlayerError(t *testing.T) {
	s := mustState(t, 2)
	boom := errors.New("controller failed")
	player := PlayerFunc(func(context.Context, simulation.Fixture) (simulation.Outcome, error) {
		return simulation.Outcome{}, boom
	})
	r := NewRunner(s, []string{"A", "B"}, player, nil, nil)

	m, _ := s.TryClaimPair(1)
	if err := r.Run(context.Background(), &m); !errors.Is(err, boom) {
		t.Errorf("Run() error = %v, want %v", err, boom)
	}
	if s.Resolved() != 0 {
		t.Error("failed match should not resolve")
	}
}

func TestRunner_WithSimulator(t *testing.T) {
	params := simulation.DefaultParams()
	sim, err := simulation.NewSimulator(params, 42, nil)
	if err != nil {
		t.Fatalf("NewSimulator failed: %v", err)
	}

	o, err := New(teamNames(8), Options{Mode: ModeAuto, Player: sim})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	checkResult(t, res, 8)
	for _, m := range res.Matches {
		if m.Shootout && m.Score1 == m.Score2 {
			t.Errorf("match %d shoot-out left a level score", m.ID)
		}
	}
}
