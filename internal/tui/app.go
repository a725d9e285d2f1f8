// Package tui is the live tournament dashboard shown with --tui.
package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/knockout/internal/bracket"
	"github.com/Iron-Ham/knockout/internal/event"
	"github.com/Iron-Ham/knockout/internal/tui/styles"
)

// PlayFunc runs the tournament the dashboard observes.
type PlayFunc func(ctx context.Context) (*bracket.Result, error)

// App wraps the Bubbletea program.
type App struct {
	bus    *event.Bus
	styles *styles.Styles
	opts   []tea.ProgramOption
}

// New creates a dashboard fed by bus.
func New(bus *event.Bus, st *styles.Styles) *App {
	return &App{bus: bus, styles: st, opts: []tea.ProgramOption{tea.WithAltScreen()}}
}

// WithIO replaces the terminal with in and out and drops the alternate
// screen.
func (a *App) WithIO(in io.Reader, out io.Writer) *App {
	a.opts = []tea.ProgramOption{tea.WithInput(in), tea.WithOutput(out)}
	return a
}

// Run shows the dashboard while play runs. Quitting before the tournament
// ends cancels it. The result is available once the operator quits.
func (a *App) Run(ctx context.Context, play PlayFunc) (*bracket.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(NewModel(a.styles, cancel), append(a.opts, tea.WithContext(ctx))...)

	subID := a.bus.SubscribeAll(func(e event.Event) {
		program.Send(eventMsg{event: e})
	})
	defer a.bus.Unsubscribe(subID)

	type outcome struct {
		result *bracket.Result
		err    error
	}
	finished := make(chan outcome, 1)
	go func() {
		res, err := play(ctx)
		finished <- outcome{res, err}
		program.Send(doneMsg{result: res, err: err})
	}()

	_, runErr := program.Run()
	cancel()
	out := <-finished

	if out.err != nil {
		return nil, out.err
	}
	if runErr != nil && out.result == nil {
		return nil, runErr
	}
	return out.result, nil
}
