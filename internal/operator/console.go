package operator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/Iron-Ham/knockout/internal/bracket"
	"github.com/Iron-Ham/knockout/internal/errors"
	"github.com/Iron-Ham/knockout/internal/simulation"
)

// lineBuffer bounds how many unread lines the reader goroutine may queue.
const lineBuffer = 64

// MatchMode is the operator's choice for one manual match.
type MatchMode int

const (
	// MatchSimulate plays the minute loop with live overrides.
	MatchSimulate MatchMode = iota + 1
	// MatchDirect takes the final score from the operator.
	MatchDirect
)

// Console is a line-oriented operator terminal. Input is read by a
// background goroutine so that a running simulation can check for a pending
// line without blocking.
type Console struct {
	outMu sync.Mutex
	out   io.Writer

	lines chan string
	stop  chan struct{}
	once  sync.Once
	err   error // read error, valid once lines is closed
}

// NewConsole starts reading lines from in. Call Close to release the
// reader once the console is no longer needed.
func NewConsole(in io.Reader, out io.Writer) *Console {
	c := &Console{
		out:   out,
		lines: make(chan string, lineBuffer),
		stop:  make(chan struct{}),
	}
	go c.readLoop(in)
	return c
}

func (c *Console) readLoop(in io.Reader) {
	defer close(c.lines)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case c.lines <- strings.TrimSpace(scanner.Text()):
		case <-c.stop:
			return
		}
	}
	c.err = scanner.Err()
}

// Close stops delivering lines. A reader blocked on in returns at its next
// line or at end of input.
func (c *Console) Close() {
	c.once.Do(func() { close(c.stop) })
}

// Printf writes to the operator's terminal.
func (c *Console) Printf(format string, args ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func (c *Console) closedError(prompt string) error {
	cause := errors.ErrInputClosed
	if c.err != nil {
		cause = errors.Join(errors.ErrInputClosed, c.err)
	}
	return errors.NewInputError("input ended while waiting for an answer", cause).WithPrompt(prompt)
}

// readLine blocks until a line arrives.
func (c *Console) readLine(ctx context.Context, prompt string) (string, error) {
	select {
	case line, ok := <-c.lines:
		if !ok {
			return "", c.closedError(prompt)
		}
		return line, nil
	case <-ctx.Done():
		return "", errors.Wrap(errors.ErrCanceled, "waiting for operator input")
	}
}

// pending returns a queued line without blocking.
func (c *Console) pending() (string, bool) {
	select {
	case line, ok := <-c.lines:
		return line, ok
	default:
		return "", false
	}
}

// choose prompts until the operator enters one of the listed numbers.
func (c *Console) choose(ctx context.Context, prompt string, valid ...int) (int, error) {
	for {
		c.Printf("%s\n", prompt)
		line, err := c.readLine(ctx, prompt)
		if err != nil {
			return 0, err
		}
		if n, err := strconv.Atoi(line); err == nil {
			for _, v := range valid {
				if n == v {
					return n, nil
				}
			}
		}
		c.Printf("Please answer %s\n", joinInts(valid))
	}
}

// ChooseRunMode asks whether the whole bracket is simulated concurrently
// or played by hand.
func (c *Console) ChooseRunMode(ctx context.Context) (bracket.Mode, error) {
	n, err := c.choose(ctx, "Choose the game mode: [1] concurrent simulation | [2] manual", 1, 2)
	if err != nil {
		return "", err
	}
	if n == 2 {
		return bracket.ModeManual, nil
	}
	return bracket.ModeAuto, nil
}

// ChooseMatchMode asks how one manual match is decided.
func (c *Console) ChooseMatchMode(ctx context.Context) (MatchMode, error) {
	n, err := c.choose(ctx, "Choose how to play: [1] simulate | [2] enter a score", 1, 2)
	if err != nil {
		return 0, err
	}
	return MatchMode(n), nil
}

// ReadScores asks for the final score of fx until the operator enters two
// distinct positive integers.
func (c *Console) ReadScores(ctx context.Context, fx simulation.Fixture) (int, int, error) {
	for {
		home, err := c.readScore(ctx, fx.Home.Name)
		if err != nil {
			return 0, 0, err
		}
		away, err := c.readScore(ctx, fx.Away.Name)
		if err != nil {
			return 0, 0, err
		}
		if home == away {
			c.Printf("A knockout match cannot end level, enter the score again\n")
			continue
		}
		return home, away, nil
	}
}

func (c *Console) readScore(ctx context.Context, team string) (int, error) {
	prompt := fmt.Sprintf("Score %s: ", team)
	for {
		c.Printf("%s", prompt)
		line, err := c.readLine(ctx, prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil && n > 0 {
			return n, nil
		}
		c.Printf("Please enter a positive whole number\n")
	}
}

// Poll implements simulation.Controller. It returns ActionNone unless the
// operator has typed a line since the last minute; any line interrupts the
// match, and a line that is already a valid action is applied directly.
func (c *Console) Poll(ctx context.Context, fx simulation.Fixture, minute int, score simulation.Outcome) (simulation.Action, error) {
	line, ok := c.pending()
	if !ok {
		return simulation.ActionNone, nil
	}

	const prompt = "What now? (0: accelerate the match, 1: home team scores, 2: away team scores)"
	for {
		if a, ok := parseAction(line); ok {
			return a, nil
		}
		if line != "" {
			c.Printf("Please choose 0, 1 or 2\n")
		}
		c.Printf("(%d') %s %d - %d %s\n%s\n", minute, fx.Home.Name, score.Home, score.Away, fx.Away.Name, prompt)

		var err error
		line, err = c.readLine(ctx, prompt)
		if err != nil {
			return simulation.ActionNone, err
		}
	}
}

func parseAction(line string) (simulation.Action, bool) {
	switch line {
	case "0":
		return simulation.ActionAccelerate, true
	case "1":
		return simulation.ActionHomeGoal, true
	case "2":
		return simulation.ActionAwayGoal, true
	default:
		return simulation.ActionNone, false
	}
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.Itoa(v)
	}
	if len(parts) < 2 {
		return strings.Join(parts, "")
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1]
}
