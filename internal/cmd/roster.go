package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/knockout/internal/config"
	"github.com/Iron-Ham/knockout/internal/roster"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Check or create roster files",
}

var rosterValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check that a roster can be played",
	Long: `Check that a roster file can be played: the team count must be a power
of two between 2 and tournament.max_teams.

With --watch, the file is checked again every time it changes until
interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRosterValidate,
}

var rosterGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a roster of made-up teams",
	Long: `Write a roster of made-up teams.

Examples:
  # Eight teams to stdout
  knockout roster generate --teams 8

  # Reproducible 32-team roster with 60-minute matches
  knockout roster generate --teams 32 --duration 60 --seed 7 -o equipe.txt`,
	RunE: runRosterGenerate,
}

var (
	rosterWatch    bool
	rosterTeams    int
	rosterDuration int
	rosterSeed     uint64
	rosterOutput   string
)

func init() {
	rootCmd.AddCommand(rosterCmd)
	rosterCmd.AddCommand(rosterValidateCmd)
	rosterCmd.AddCommand(rosterGenerateCmd)

	rosterValidateCmd.Flags().BoolVarP(&rosterWatch, "watch", "w", false, "Validate again whenever the file changes")

	rosterGenerateCmd.Flags().IntVarP(&rosterTeams, "teams", "n", 8, "Number of teams (power of two)")
	rosterGenerateCmd.Flags().IntVar(&rosterDuration, "duration", roster.DefaultDuration, "Match duration in minutes")
	rosterGenerateCmd.Flags().Uint64Var(&rosterSeed, "seed", 0, "Random seed (0 picks one)")
	rosterGenerateCmd.Flags().StringVarP(&rosterOutput, "output", "o", "", "Output file (default: stdout)")
}

func runRosterValidate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	path := rosterPath(cfg, args)
	opts := roster.ParseOptions{
		MaxTeams:        cfg.Tournament.MaxTeams,
		DefaultDuration: cfg.Simulation.DefaultDuration,
	}
	fs := afero.NewOsFs()
	out := cmd.OutOrStdout()

	if !rosterWatch {
		r, err := roster.Load(fs, path, opts)
		if err != nil {
			return err
		}
		printRosterSummary(out, r)
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchRoster(ctx, fs, path, opts, out)
}

// watchRoster reports the roster state once, then after every change,
// until ctx is done.
func watchRoster(ctx context.Context, fs afero.Fs, path string, opts roster.ParseOptions, out io.Writer) error {
	report := func(r *roster.Roster, err error) {
		stamp := time.Now().Format("15:04:05")
		if err != nil {
			_, _ = fmt.Fprintf(out, "[%s] invalid: %v\n", stamp, err)
			return
		}
		_, _ = fmt.Fprintf(out, "[%s] ", stamp)
		printRosterSummary(out, r)
	}

	report(roster.Load(fs, path, opts))
	_, _ = fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", path)

	return roster.Watch(ctx, fs, path, opts, report)
}

func printRosterSummary(out io.Writer, r *roster.Roster) {
	duration := fmt.Sprintf("%d minutes", r.Duration)
	if !r.DurationSet {
		duration += " (default)"
	}
	_, _ = fmt.Fprintf(out, "%s: %d teams, %d matches, %s\n", r.Path, r.Len(), r.Len()-1, duration)
}

func runRosterGenerate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if err := roster.Validate(make([]string, rosterTeams), cfg.Tournament.MaxTeams); err != nil {
		return err
	}
	if rosterDuration < 1 {
		return fmt.Errorf("--duration must be at least 1")
	}

	seed := rosterSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	teams := roster.Generate(rosterTeams, seed)

	if rosterOutput == "" {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, rosterDuration)
		for _, team := range teams {
			_, _ = fmt.Fprintln(out, team)
		}
		return nil
	}

	if err := roster.Write(afero.NewOsFs(), rosterOutput, rosterDuration, teams); err != nil {
		return fmt.Errorf("failed to write roster: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d teams to %s\n", len(teams), rosterOutput)
	return nil
}
