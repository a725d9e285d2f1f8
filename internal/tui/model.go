package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/knockout/internal/bracket"
	"github.com/Iron-Ham/knockout/internal/event"
	"github.com/Iron-Ham/knockout/internal/tui/styles"
	"github.com/Iron-Ham/knockout/internal/util"
)

const (
	// maxLogLines bounds the scrolling event log under the match table.
	maxLogLines = 8
	// maxNameLen bounds team names in the match table.
	maxNameLen = 24
)

// eventMsg carries a bus event into the program.
type eventMsg struct {
	event event.Event
}

// doneMsg reports the end of the tournament.
type doneMsg struct {
	result *bracket.Result
	err    error
}

// matchRow is one line of the match table.
type matchRow struct {
	id        int
	round     int
	home      string
	away      string
	homeScore int
	awayScore int
	shootout  bool
	finished  bool
	homeWon   bool
	elapsed   time.Duration
}

// Model holds the dashboard state.
type Model struct {
	styles  *styles.Styles
	spinner spinner.Model

	runID string
	mode  string
	teams int

	rows      map[int]*matchRow
	order     []int
	survivors int
	round     int
	log       []string

	result *bracket.Result
	err    error

	width    int
	height   int
	done     bool
	quitting bool

	// cancel stops the tournament when the operator quits early.
	cancel func()
}

// NewModel creates the dashboard model.
func NewModel(st *styles.Styles, cancel func()) Model {
	if st == nil {
		st = styles.Default()
	}
	if cancel == nil {
		cancel = func() {}
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(st.StatusColor(styles.StatusPlaying))
	return Model{
		styles:  st,
		spinner: sp,
		rows:    make(map[int]*matchRow),
		round:   1,
		cancel:  cancel,
	}
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			if !m.done {
				m.cancel()
			}
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		m.apply(msg.event)
		return m, nil

	case doneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m *Model) apply(e event.Event) {
	switch ev := e.(type) {
	case event.TournamentStartedEvent:
		m.runID = ev.RunID
		m.mode = ev.Mode
		m.teams = ev.Teams
		m.survivors = ev.Teams

	case event.MatchStartedEvent:
		m.rows[ev.MatchID] = &matchRow{id: ev.MatchID, round: ev.Round, home: ev.Home.Name, away: ev.Away.Name}
		m.order = append(m.order, ev.MatchID)

	case event.GoalScoredEvent:
		if row, ok := m.rows[ev.MatchID]; ok {
			row.homeScore, row.awayScore = ev.HomeScore, ev.AwayScore
		}
		scorer := ev.Home.Name
		if ev.Side == event.Away {
			scorer = ev.Away.Name
		}
		m.addLog(fmt.Sprintf("(%d') goal for %s, %s %d - %d %s", ev.Minute, scorer, ev.Home.Name, ev.HomeScore, ev.AwayScore, ev.Away.Name))

	case event.PenaltyKickEvent:
		if row, ok := m.rows[ev.MatchID]; ok {
			row.homeScore, row.awayScore, row.shootout = ev.HomeScore, ev.AwayScore, true
		}

	case event.MatchFinishedEvent:
		row, ok := m.rows[ev.MatchID]
		if !ok {
			row = &matchRow{id: ev.MatchID, round: ev.Round, home: ev.Home.Name, away: ev.Away.Name}
			m.rows[ev.MatchID] = row
			m.order = append(m.order, ev.MatchID)
		}
		row.homeScore, row.awayScore = ev.HomeScore, ev.AwayScore
		row.shootout = ev.Shootout
		row.finished = true
		row.homeWon = ev.HomeScore > ev.AwayScore
		row.elapsed = ev.Elapsed
		m.survivors--
		m.addLog(fmt.Sprintf("%s beat %s %d - %d", ev.Winner().Name, loserName(ev), max(ev.HomeScore, ev.AwayScore), min(ev.HomeScore, ev.AwayScore)))

	case event.RoundCompletedEvent:
		m.round = ev.Round + 1
		m.addLog(fmt.Sprintf("round %d complete, %d teams left", ev.Round, ev.Survivors))
	}
}

func loserName(ev event.MatchFinishedEvent) string {
	if ev.Winner() == ev.Home {
		return ev.Away.Name
	}
	return ev.Home.Name
}

func (m *Model) addLog(line string) {
	m.log = append(m.log, line)
	if len(m.log) > maxLogLines {
		m.log = slices.Clone(m.log[len(m.log)-maxLogLines:])
	}
}

// InFlight returns the number of matches started but not finished.
func (m Model) InFlight() int {
	n := 0
	for _, row := range m.rows {
		if !row.finished {
			n++
		}
	}
	return n
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting && !m.done {
		return ""
	}
	st := m.styles
	var b strings.Builder

	title := "Knockout"
	if m.runID != "" {
		title += " " + st.Muted.Render(m.runID)
	}
	b.WriteString(st.Header.Render(title))
	b.WriteString("\n")

	status := fmt.Sprintf("%d teams | %s mode | round %d | %d in play | %d left",
		m.teams, m.mode, m.round, m.InFlight(), m.survivors)
	if !m.done {
		status = m.spinner.View() + " " + status
	}
	b.WriteString(st.Subtitle.Render(status))
	b.WriteString("\n\n")

	for _, id := range m.order {
		b.WriteString(util.FitWidth(m.renderRow(m.rows[id]), m.width))
		b.WriteString("\n")
	}

	if len(m.log) > 0 {
		b.WriteString("\n")
		for _, line := range m.log {
			b.WriteString(util.FitWidth(st.Muted.Render(line), m.width))
			b.WriteString("\n")
		}
	}

	switch {
	case m.err != nil:
		b.WriteString("\n")
		b.WriteString(st.ErrorMsg.Render("Tournament failed: " + m.err.Error()))
		b.WriteString("\n")
	case m.result != nil:
		b.WriteString("\n")
		b.WriteString(st.Champion.Render(styles.StatusIcon(styles.StatusChampion) + " " + m.result.ChampionName()))
		b.WriteString("\n")
	}

	help := "q: stop"
	if m.done {
		help = "q: quit"
	}
	b.WriteString(st.HelpBar.Render(help))
	return b.String()
}

func (m Model) renderRow(row *matchRow) string {
	st := m.styles
	status := styles.StatusPlaying
	if row.finished {
		status = styles.StatusFinished
	}
	dot := st.StatusDot.Foreground(st.StatusColor(status)).Render(styles.StatusIcon(status))

	home, away := util.ShortName(row.home, maxNameLen), util.ShortName(row.away, maxNameLen)
	if row.finished {
		if row.homeWon {
			home, away = st.Winner.Render(home), st.Loser.Render(away)
		} else {
			home, away = st.Loser.Render(home), st.Winner.Render(away)
		}
	}

	line := fmt.Sprintf("%s #%-2d R%d  %s %d - %d %s", dot, row.id, row.round, home, row.homeScore, row.awayScore, away)
	if row.shootout {
		line += " " + st.Forced.Render("(pens)")
	}
	return line
}
