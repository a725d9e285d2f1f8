package cmd

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/Iron-Ham/knockout/internal/bracket"
	"github.com/Iron-Ham/knockout/internal/commentary"
	"github.com/Iron-Ham/knockout/internal/config"
	"github.com/Iron-Ham/knockout/internal/event"
	"github.com/Iron-Ham/knockout/internal/logging"
	"github.com/Iron-Ham/knockout/internal/metrics"
	"github.com/Iron-Ham/knockout/internal/operator"
	"github.com/Iron-Ham/knockout/internal/report"
	"github.com/Iron-Ham/knockout/internal/roster"
	"github.com/Iron-Ham/knockout/internal/simulation"
	"github.com/Iron-Ham/knockout/internal/tui"
	"github.com/Iron-Ham/knockout/internal/tui/styles"
)

var runCmd = &cobra.Command{
	Use:   "run [roster-file]",
	Short: "Play a tournament",
	Long: `Play a single-elimination tournament from a roster file.

The roster holds an optional match duration in minutes on its first line,
followed by one team per line. The number of teams must be a power of two.

Examples:
  # Concurrent simulation of equipe.txt
  knockout run --mode auto

  # Interactive tournament, asked for every match
  knockout run teams.txt --mode manual

  # Reproducible run with a JSON report and the live dashboard
  knockout run --mode auto --seed 42 --format json --report out.json --tui`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTournament,
}

var (
	runTUI       bool
	runNoShuffle bool
	runQuiet     bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("mode", "", "Execution mode: auto or manual (default: ask)")
	runCmd.Flags().Int64("seed", 0, "Random seed (0 picks one)")
	runCmd.Flags().String("report", "", "Report destination (default from config: matchs.txt)")
	runCmd.Flags().String("format", "", "Report format: text, json, yaml or xlsx")
	runCmd.Flags().String("metrics-addr", "", "Serve /metrics and /healthz on this address")
	runCmd.Flags().BoolVar(&runTUI, "tui", false, "Show the live dashboard (auto mode only)")
	runCmd.Flags().BoolVar(&runNoShuffle, "no-shuffle", false, "Keep the roster order for the draw")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "Only print kick-offs and results")

	_ = viper.BindPFlag("tournament.mode", runCmd.Flags().Lookup("mode"))
	_ = viper.BindPFlag("tournament.seed", runCmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("report.path", runCmd.Flags().Lookup("report"))
	_ = viper.BindPFlag("report.format", runCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("metrics.addr", runCmd.Flags().Lookup("metrics-addr"))
}

func runTournament(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return playTournament(ctx, cfg, tournamentIO{
		fs:     afero.NewOsFs(),
		in:     cmd.InOrStdin(),
		out:    cmd.OutOrStdout(),
		roster: rosterPath(cfg, args),
	})
}

// tournamentIO is everything a run reads from or writes to.
type tournamentIO struct {
	fs     afero.Fs
	in     io.Reader
	out    io.Writer
	roster string
}

func rosterPath(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Roster.File
}

func playTournament(ctx context.Context, cfg *config.Config, tio tournamentIO) error {
	runID := uuid.NewString()

	logger, err := newRunLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()
	logger = logger.WithRun(runID)

	r, err := roster.Load(tio.fs, tio.roster, roster.ParseOptions{
		MaxTeams:        cfg.Tournament.MaxTeams,
		DefaultDuration: cfg.Simulation.DefaultDuration,
	})
	if err != nil {
		return err
	}

	seed := uint64(cfg.Tournament.Seed)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if cfg.Roster.Shuffle && !runNoShuffle {
		r.Shuffle(rand.New(rand.NewPCG(seed, uint64(len(r.Teams)))))
	}
	logger.Info("roster loaded",
		"path", tio.roster,
		"teams", r.Len(),
		"duration", r.Duration,
		"seed", seed,
	)

	mode, console, err := resolveMode(ctx, cfg, tio)
	if err != nil {
		return err
	}
	if console != nil {
		defer console.Close()
	}

	bus := event.NewBus(logger)
	player, err := newPlayer(cfg, r, mode, seed, bus, console, logger)
	if err != nil {
		return err
	}

	if cfg.Metrics.Addr != "" {
		addr, stopMetrics, err := serveMetrics(ctx, cfg.Metrics.Addr, bus, logger)
		if err != nil {
			return err
		}
		defer stopMetrics()
		_, _ = fmt.Fprintf(tio.out, "Metrics on http://%s/metrics\n", addr)
	}

	orch, err := bracket.New(r.Teams, bracket.Options{
		Mode:          mode,
		Player:        player,
		Bus:           bus,
		Logger:        logger,
		RunID:         runID,
		SweepInterval: cfg.Tournament.SweepInterval(),
	})
	if err != nil {
		return err
	}

	var res *bracket.Result
	if runTUI {
		res, err = tui.New(bus, themeStyles(cfg, true)).Run(ctx, orch.Run)
	} else {
		narrator := commentary.New(tio.out, themeStyles(cfg, isTerminal(tio.out)))
		narrator.Quiet = runQuiet
		detach := narrator.Attach(bus)
		res, err = orch.Run(ctx)
		detach()
	}
	if err != nil {
		logger.Error("tournament failed", "error", err)
		return err
	}
	if runTUI {
		_, _ = fmt.Fprintf(tio.out, "Champion: %s\n", res.ChampionName())
	}

	return writeReport(cfg, tio, res, logger)
}

// resolveMode returns the configured mode, asking the operator when none is
// set. The console is returned when the run needs one.
func resolveMode(ctx context.Context, cfg *config.Config, tio tournamentIO) (bracket.Mode, *operator.Console, error) {
	if runTUI {
		if !isTerminal(tio.out) {
			return "", nil, fmt.Errorf("--tui requires a terminal")
		}
		if cfg.Tournament.Mode == string(bracket.ModeManual) {
			return "", nil, fmt.Errorf("--tui only supports auto mode")
		}
		return bracket.ModeAuto, nil, nil
	}

	if cfg.Tournament.Mode != "" {
		mode, err := bracket.ParseMode(cfg.Tournament.Mode)
		if err != nil {
			return "", nil, err
		}
		if mode == bracket.ModeAuto {
			return mode, nil, nil
		}
		return mode, operator.NewConsole(tio.in, tio.out), nil
	}

	console := operator.NewConsole(tio.in, tio.out)
	mode, err := console.ChooseRunMode(ctx)
	if err != nil {
		console.Close()
		return "", nil, err
	}
	if mode == bracket.ModeAuto {
		console.Close()
		return mode, nil, nil
	}
	return mode, console, nil
}

func newPlayer(cfg *config.Config, r *roster.Roster, mode bracket.Mode, seed uint64, bus *event.Bus, console *operator.Console, logger *logging.Logger) (bracket.Player, error) {
	params := simulation.Params{
		Duration:      r.Duration,
		GoalChance:    cfg.Simulation.GoalChance,
		ShootoutKicks: cfg.Simulation.ShootoutKicks,
		HomePenalty:   cfg.Simulation.HomePenalty,
		AwayPenalty:   cfg.Simulation.AwayPenalty,
		Tick:          cfg.Simulation.Tick(),
	}
	if mode == bracket.ModeManual {
		params.Tick = cfg.Simulation.ManualTick()
	}

	sim, err := simulation.NewSimulator(params, seed, bus)
	if err != nil {
		return nil, err
	}
	if mode == bracket.ModeManual {
		return operator.NewManualPlayer(console, sim, logger), nil
	}
	return sim, nil
}

func newRunLogger(cfg *config.Config) (*logging.Logger, error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), nil
	}
	logger, err := logging.NewLoggerWithRotation(cfg.Logging.Dir, cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// serveMetrics starts the metrics endpoint and returns its bound address
// and a function that stops it and waits for the listener to close.
func serveMetrics(ctx context.Context, addr string, bus *event.Bus, logger *logging.Logger) (string, func(), error) {
	rec := metrics.NewRecorder()
	srv, err := metrics.Listen(addr, rec, logger)
	if err != nil {
		return "", nil, err
	}
	detach := rec.Attach(bus)

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(ctx); err != nil {
			logger.Warn("metrics server stopped", "error", err)
		}
	}()

	return srv.Addr(), func() {
		detach()
		cancel()
		<-done
	}, nil
}

func writeReport(cfg *config.Config, tio tournamentIO, res *bracket.Result, logger *logging.Logger) error {
	if cfg.Report.Path == "" {
		return nil
	}
	format, err := report.ParseFormat(cfg.Report.Format)
	if err != nil {
		return err
	}
	if err := report.FromResult(res).Save(tio.fs, cfg.Report.Path, format); err != nil {
		logger.Error("failed to write report", "path", cfg.Report.Path, "error", err)
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Info("report written", "path", cfg.Report.Path, "format", string(format))
	_, _ = fmt.Fprintf(tio.out, "Report written to %s\n", cfg.Report.Path)
	return nil
}

func themeStyles(cfg *config.Config, color bool) *styles.Styles {
	if !color || !cfg.TUI.Color {
		return styles.Plain()
	}
	return styles.New(styles.GetPalette(styles.ThemeName(cfg.TUI.Theme)))
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
