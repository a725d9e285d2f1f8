// Package commentary prints a live, line-per-event account of a tournament
// from the event bus.
package commentary

import (
	"fmt"
	"io"
	"sync"

	"github.com/Iron-Ham/knockout/internal/event"
	"github.com/Iron-Ham/knockout/internal/tui/styles"
)

// Narrator writes commentary lines. Runners publish from many goroutines,
// so every line is written under one lock and never interleaves.
type Narrator struct {
	mu     sync.Mutex
	out    io.Writer
	styles *styles.Styles
	// Quiet drops goal and penalty lines, keeping kick-offs and results.
	Quiet bool
}

// New creates a Narrator. A nil style set prints plain text.
func New(out io.Writer, st *styles.Styles) *Narrator {
	if st == nil {
		st = styles.Plain()
	}
	return &Narrator{out: out, styles: st}
}

// Attach subscribes the narrator to bus and returns a function that
// detaches it.
func (n *Narrator) Attach(bus *event.Bus) func() {
	id := bus.SubscribeAll(n.Observe)
	return func() { bus.Unsubscribe(id) }
}

// Observe prints the line for one event, if it has one.
func (n *Narrator) Observe(e event.Event) {
	if line, ok := n.Line(e); ok {
		n.mu.Lock()
		defer n.mu.Unlock()
		_, _ = fmt.Fprintln(n.out, line)
	}
}

// Line renders the commentary for e.
func (n *Narrator) Line(e event.Event) (string, bool) {
	st := n.styles
	switch ev := e.(type) {
	case event.TournamentStartedEvent:
		return st.Title.Render(fmt.Sprintf("%d teams, %s mode", ev.Teams, ev.Mode)), true

	case event.MatchStartedEvent:
		return fmt.Sprintf("%s %s 0 - 0 %s %s",
			st.Muted.Render("START"), ev.Home.Name, ev.Away.Name,
			st.Round.Render(fmt.Sprintf("[ROUND %d]", ev.Round))), true

	case event.GoalScoredEvent:
		if n.Quiet {
			return "", false
		}
		score := fmt.Sprintf("%d - %d", ev.HomeScore, ev.AwayScore)
		line := fmt.Sprintf("%s %s %s %s",
			st.Muted.Render(fmt.Sprintf("(%d')", ev.Minute)), ev.Home.Name, st.Goal.Render(score), ev.Away.Name)
		if ev.Forced {
			line += " " + st.Forced.Render("(operator)")
		}
		return line, true

	case event.PenaltyKickEvent:
		if n.Quiet {
			return "", false
		}
		if !ev.Scored {
			return st.Missed.Render(fmt.Sprintf("%s misses", ev.Kicker.Name)), true
		}
		return st.Scored.Render(fmt.Sprintf("%s scores (%d) - (%d)", ev.Kicker.Name, ev.HomeScore, ev.AwayScore)), true

	case event.MatchFinishedEvent:
		home, away := ev.Home.Name, ev.Away.Name
		if ev.Winner() == ev.Home {
			home = st.Winner.Render(home + "*")
		} else {
			away = st.Winner.Render(away + "*")
		}
		line := fmt.Sprintf("%s %s %d - %d %s", st.Muted.Render("END"), home, ev.HomeScore, ev.AwayScore, away)
		if ev.Shootout {
			line += " " + st.Forced.Render("(pens)")
		}
		return line, true

	case event.RoundCompletedEvent:
		return st.Round.Render(fmt.Sprintf("Round %d complete, %d teams left", ev.Round, ev.Survivors)), true

	case event.TournamentFinishedEvent:
		return st.Champion.Render(fmt.Sprintf("CHAMPION: %s", ev.Champion.Name)), true
	}
	return "", false
}
