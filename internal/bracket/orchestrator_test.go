package bracket

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/Iron-Ham/knockout/internal/errors"
	"github.com/Iron-Ham/knockout/internal/event"
	"github.com/Iron-Ham/knockout/internal/simulation"
)

// trackingPlayer picks a random winner and records any team that is handed
// to two matches at once.
type trackingPlayer struct {
	mu         sync.Mutex
	rng        *rand.Rand
	inFlight   map[int]bool
	eliminated map[int]bool
	violations []string
	jitter     bool
}

func newTrackingPlayer(seed uint64, jitter bool) *trackingPlayer {
	return &trackingPlayer{
		rng:        rand.New(rand.NewPCG(seed, 7)),
		inFlight:   make(map[int]bool),
		eliminated: make(map[int]bool),
		jitter:     jitter,
	}
}

func (p *trackingPlayer) Play(ctx context.Context, fx simulation.Fixture) (simulation.Outcome, error) {
	p.mu.Lock()
	for _, team := range []int{fx.Home.Index, fx.Away.Index} {
		if p.inFlight[team] {
			p.violations = append(p.violations, fmt.Sprintf("team %d in two matches", team))
		}
		if p.eliminated[team] {
			p.violations = append(p.violations, fmt.Sprintf("eliminated team %d scheduled again", team))
		}
		p.inFlight[team] = true
	}
	homeWins := p.rng.IntN(2) == 0
	sleep := time.Duration(p.rng.IntN(200)) * time.Microsecond
	p.mu.Unlock()

	if p.jitter {
		if sleep%2 == 0 {
			runtime.Gosched()
		} else {
			time.Sleep(sleep)
		}
	}

	p.mu.Lock()
	delete(p.inFlight, fx.Home.Index)
	delete(p.inFlight, fx.Away.Index)
	if homeWins {
		p.eliminated[fx.Away.Index] = true
	} else {
		p.eliminated[fx.Home.Index] = true
	}
	p.mu.Unlock()

	if homeWins {
		return simulation.Outcome{Home: 2, Away: 1}, nil
	}
	return simulation.Outcome{Home: 0, Away: 1}, nil
}

func teamNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Team %02d", i)
	}
	return names
}

func checkResult(t *testing.T, res *Result, n int) {
	t.Helper()

	if len(res.Matches) != n-1 {
		t.Fatalf("got %d matches, want %d", len(res.Matches), n-1)
	}

	perRound := make(map[int]int)
	lost := make(map[int]bool)
	// A team's next claim can only follow its previous resolve, so in ID
	// order every team plays rounds 1, 2, 3, ... without gaps.
	lastRound := make(map[int]int)
	for i, m := range res.Matches {
		if m.ID != i+1 {
			t.Errorf("match at position %d has ID %d", i, m.ID)
		}
		if m.IsDraw() {
			t.Errorf("match %d is a draw", m.ID)
		}
		if lost[m.Team1] || lost[m.Team2] {
			t.Errorf("match %d involves an eliminated team", m.ID)
		}
		for _, team := range []int{m.Team1, m.Team2} {
			if m.Round != lastRound[team]+1 {
				t.Errorf("match %d puts team %d in round %d after round %d", m.ID, team, m.Round, lastRound[team])
			}
			lastRound[team] = m.Round
		}
		lost[m.Loser()] = true
		perRound[m.Round]++
	}

	if lost[res.Champion] {
		t.Errorf("champion %d lost a match", res.Champion)
	}
	if len(lost) != n-1 {
		t.Errorf("%d distinct losers, want %d", len(lost), n-1)
	}
	for r, size := 1, n/2; size >= 1; r, size = r+1, size/2 {
		if perRound[r] != size {
			t.Errorf("round %d played %d matches, want %d", r, perRound[r], size)
		}
	}
}

func TestOrchestrator_AllBracketSizes(t *testing.T) {
	for _, mode := range []Mode{ModeAuto, ModeManual} {
		for n := 2; n <= 64; n *= 2 {
			t.Run(fmt.Sprintf("%s/%d", mode, n), func(t *testing.T) {
				o, err := New(teamNames(n), Options{Mode: mode, Player: newTrackingPlayer(uint64(n), false)})
				if err != nil {
					t.Fatalf("New failed: %v", err)
				}
				res, err := o.Run(context.Background())
				if err != nil {
					t.Fatalf("Run failed: %v", err)
				}
				checkResult(t, res, n)
				if res.Mode != mode {
					t.Errorf("Mode = %s, want %s", res.Mode, mode)
				}
			})
		}
	}
}

func TestOrchestrator_ConcurrentStress(t *testing.T) {
	runs := 200
	if testing.Short() {
		runs = 20
	}
	for i := range runs {
		p := newTrackingPlayer(uint64(i), true)
		o, err := New(teamNames(64), Options{Mode: ModeAuto, Player: p})
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		res, err := o.Run(context.Background())
		if err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
		checkResult(t, res, 64)
		if len(p.violations) > 0 {
			t.Fatalf("run %d: %v", i, p.violations)
		}
	}
}

func TestOrchestrator_ManualOrder(t *testing.T) {
	// Team with the lower index always wins.
	player := PlayerFunc(func(_ context.Context, fx simulation.Fixture) (simulation.Outcome, error) {
		return simulation.Outcome{Home: 1}, nil
	})
	o, err := New(teamNames(8), Options{Mode: ModeManual, Player: player})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := [][2]int{{0, 1}, {2, 3}, {4, 5}, {6, 7}, {0, 2}, {4, 6}, {0, 4}}
	for i, m := range res.Matches {
		if got := [2]int{m.Team1, m.Team2}; got != want[i] {
			t.Errorf("match %d = %v, want %v", m.ID, got, want[i])
		}
	}
	if res.Champion != 0 || res.ChampionName() != "Team 00" {
		t.Errorf("champion = %d (%s)", res.Champion, res.ChampionName())
	}
}

func TestOrchestrator_PlayerErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	for _, mode := range []Mode{ModeAuto, ModeManual} {
		t.Run(string(mode), func(t *testing.T) {
			player := PlayerFunc(func(ctx context.Context, fx simulation.Fixture) (simulation.Outcome, error) {
				if fx.MatchID == 3 {
					return simulation.Outcome{}, boom
				}
				return simulation.Outcome{Away: 1}, nil
			})
			o, err := New(teamNames(16), Options{Mode: mode, Player: player})
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			res, err := o.Run(context.Background())
			if !errors.Is(err, boom) {
				t.Fatalf("Run() error = %v, want boom", err)
			}
			if res != nil {
				t.Error("a failed run should not return a result")
			}
		})
	}
}

func TestOrchestrator_DrawIsRejected(t *testing.T) {
	player := PlayerFunc(func(context.Context, simulation.Fixture) (simulation.Outcome, error) {
		return simulation.Outcome{Home: 1, Away: 1}, nil
	})
	o, err := New(teamNames(4), Options{Mode: ModeManual, Player: player})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := o.Run(context.Background()); !errors.Is(err, errors.ErrDrawnResult) {
		t.Errorf("Run() error = %v, want ErrDrawnResult", err)
	}
}

func TestOrchestrator_Cancel(t *testing.T) {
	for _, mode := range []Mode{ModeAuto, ModeManual} {
		t.Run(string(mode), func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			player := PlayerFunc(func(ctx context.Context, fx simulation.Fixture) (simulation.Outcome, error) {
				if fx.MatchID == 1 {
					return simulation.Outcome{Home: 1}, nil
				}
				cancel()
				<-ctx.Done()
				return simulation.Outcome{}, errors.Wrap(errors.ErrCanceled, "match interrupted")
			})
			o, err := New(teamNames(8), Options{Mode: mode, Player: player})
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if _, err := o.Run(ctx); !errors.Is(err, errors.ErrCanceled) {
				t.Errorf("Run() error = %v, want ErrCanceled", err)
			}
		})
	}
}

func TestOrchestrator_SweepInterval(t *testing.T) {
	o, err := New(teamNames(8), Options{
		Mode:          ModeAuto,
		Player:        newTrackingPlayer(3, false),
		SweepInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	checkResult(t, res, 8)
}

func TestOrchestrator_Events(t *testing.T) {
	bus := event.NewBus(nil)
	var (
		mu     sync.Mutex
		counts = make(map[string]int)
	)
	bus.SubscribeAll(func(e event.Event) {
		mu.Lock()
		counts[e.EventType()]++
		mu.Unlock()
	})

	o, err := New(teamNames(16), Options{Mode: ModeAuto, Player: newTrackingPlayer(1, false), Bus: bus, RunID: "run-1"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res, err := o.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.RunID != "run-1" {
		t.Errorf("RunID = %q", res.RunID)
	}

	want := map[string]int{
		event.TypeTournamentStarted:  1,
		event.TypeMatchStarted:       15,
		event.TypeMatchFinished:      15,
		event.TypeRoundCompleted:     4,
		event.TypeTournamentFinished: 1,
	}
	for typ, n := range want {
		if counts[typ] != n {
			t.Errorf("%s published %d times, want %d", typ, counts[typ], n)
		}
	}
}

func TestNew_Validation(t *testing.T) {
	player := newTrackingPlayer(1, false)

	if _, err := New(teamNames(6), Options{Player: player}); !errors.Is(err, errors.ErrTeamCount) {
		t.Errorf("6 teams: error = %v, want ErrTeamCount", err)
	}
	if _, err := New(teamNames(4), Options{}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("no player: error = %v, want ErrInvalidInput", err)
	}
	if _, err := New(teamNames(4), Options{Player: player, Mode: "batch"}); !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("bad mode: error = %v, want ErrInvalidInput", err)
	}

	o, err := New(teamNames(4), Options{Player: player})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if o.opts.Mode != ModeAuto {
		t.Errorf("default mode = %s, want auto", o.opts.Mode)
	}
	if o.State().Len() != 4 {
		t.Errorf("State().Len() = %d", o.State().Len())
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"auto", ModeAuto, false},
		{"manual", ModeManual, false},
		{"", "", true},
		{"AUTO", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
