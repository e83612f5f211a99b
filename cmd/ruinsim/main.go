// Package main provides the CLI entrypoint for ruinsim.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/ruinsim/internal/config"
	"github.com/verte-zerg/ruinsim/internal/logging"
	"github.com/verte-zerg/ruinsim/internal/model"
	"github.com/verte-zerg/ruinsim/internal/progressui"
	"github.com/verte-zerg/ruinsim/internal/rng"
	"github.com/verte-zerg/ruinsim/internal/sim"
	"github.com/verte-zerg/ruinsim/internal/stats"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

const plotHeight = 10

const defaultMinSurvival = 99.0

var (
	runSeed       uint64
	runWorkers    int
	runFormat     string
	runPlot       bool
	runNoProgress bool
	runLogLevel   string
	runMinSurvive float64
)

// runOptions are the effective execution settings after merging flags over the config file.
type runOptions struct {
	Seed        uint64
	Workers     int
	Format      string
	Plot        bool
	NoProgress  bool
	LogLevel    string
	MinSurvival float64 // percent
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ruinsim",
		Short:         "Monte Carlo ruin simulator for fixed-fraction betting",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.Uint64Var(&runSeed, "seed", 0, "random seed (0: time based)")
	flags.IntVar(&runWorkers, "workers", 0, "concurrent session workers (0: all CPUs)")
	flags.StringVar(&runFormat, "format", formatText, "output format: text or yaml")
	flags.BoolVar(&runPlot, "plot", false, "plot survival and profit curves (text format)")
	flags.BoolVar(&runNoProgress, "no-progress", false, "disable the progress bar")
	flags.StringVar(&runLogLevel, "log-level", logging.DefaultLevel, "log level: debug, info, warn, error")
	flags.Float64Var(&runMinSurvive, "min-survival", defaultMinSurvival, "survival target (%) for the recommended max bet")

	for _, name := range gameNames() {
		rootCmd.AddCommand(newGameCmd(name))
	}
	rootCmd.AddCommand(newGamesCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func newGameCmd(name string) *cobra.Command {
	game := defaultGames()[name]
	return &cobra.Command{
		Use:   name,
		Short: "Sweep bet sizes for the " + game.Short + " game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGameCmd(cmd, name)
		},
	}
}

func runGameCmd(cmd *cobra.Command, name string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	opts, err := resolveRunOptions(cmd, fileCfg.Run)
	if err != nil {
		return err
	}
	if err := validateRunOptions(opts); err != nil {
		return err
	}
	game, err := resolveGame(name, fileCfg)
	if err != nil {
		return err
	}
	if err := validateGameConfig(game); err != nil {
		return err
	}

	log, err := logging.New(opts.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		// Best-effort flush; syncing a terminal can fail harmlessly.
		_ = log.Sync()
	}()

	seed := rng.Seed(opts.Seed)
	runID := uuid.NewString()
	log = log.With(zap.String("run_id", runID), zap.String("game", game.Name))
	log.Info("sweep started",
		zap.Uint64("seed", seed),
		zap.Int("bet_sizes", game.Sweep.Count),
		zap.Int("simulations", game.Simulations),
		zap.Int("turns", game.Turns),
		zap.Int("workers", opts.Workers),
	)

	started := time.Now()
	results, err := runSweep(cmd.Context(), game, opts, seed, log)
	if err != nil {
		return fmt.Errorf("failed to run sweep: %w", err)
	}
	log.Info("sweep finished", zap.Duration("elapsed", time.Since(started)))

	report := stats.BuildReport(runID, game.Name, seed, game.parameters(), results, opts.MinSurvival)
	if rec := report.Recommendation; rec != nil {
		log.Info("max bet recommended",
			zap.Float64("bet_size_pct", rec.BetSizePct),
			zap.Int("max_bet_divisor", rec.Divisor),
			zap.Float64("min_survival_pct", opts.MinSurvival),
		)
	} else {
		log.Warn("no bet size meets the survival target", zap.Float64("min_survival_pct", opts.MinSurvival))
	}
	return writeReport(cmd.OutOrStdout(), report, opts)
}

func runSweep(ctx context.Context, game gameSettings, opts runOptions, seed uint64, log *zap.Logger) ([]model.SweepResult, error) {
	fractions := sim.Fractions(game.Sweep)
	sweepOpts := sim.SweepOptions{Workers: opts.Workers, Seed: seed, Logger: log}

	if opts.NoProgress || !isTerminal(os.Stderr) {
		return sim.RunSweep(ctx, fractions, game.template(), game.rule(), game.Simulations, sweepOpts)
	}

	// Log lines would tear the progress view.
	sweepOpts.Logger = nil
	var results []model.SweepResult
	title := fmt.Sprintf("%s: %d bet sizes x %d sessions", game.Name, len(fractions), game.Simulations)
	total := len(fractions) * game.Simulations
	err := progressui.Run(ctx, title, total, os.Stdin, os.Stderr, func(ctx context.Context, report func(done, total int)) error {
		sweepOpts.Progress = report
		var err error
		results, err = sim.RunSweep(ctx, fractions, game.template(), game.rule(), game.Simulations, sweepOpts)
		return err
	})
	return results, err
}

func writeReport(w io.Writer, report stats.Report, opts runOptions) error {
	switch opts.Format {
	case formatYAML:
		return stats.WriteYAML(w, report)
	default:
		if err := stats.RenderText(w, report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		if opts.Plot {
			if err := stats.RenderCurves(w, report, 0, plotHeight, false); err != nil {
				return fmt.Errorf("failed to write curves: %w", err)
			}
		}
		return nil
	}
}

func newGamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List games and their effective parameters",
		Args:  cobra.NoArgs,
		RunE:  runGamesCmd,
	}
}

func runGamesCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	for _, name := range gameNames() {
		game, err := resolveGame(name, fileCfg)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), describeGame(game)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func resolveRunOptions(cmd *cobra.Command, rc config.RunConfig) (runOptions, error) {
	opts := runOptions{
		Seed:        runSeed,
		Workers:     runWorkers,
		Format:      strings.ToLower(strings.TrimSpace(runFormat)),
		Plot:        runPlot,
		NoProgress:  runNoProgress,
		LogLevel:    runLogLevel,
		MinSurvival: runMinSurvive,
	}
	if rc.Seed != nil && !cmd.Flags().Changed("seed") {
		if *rc.Seed < 0 {
			return runOptions{}, fmt.Errorf("run.seed must be >= 0, got %d", *rc.Seed)
		}
		opts.Seed = uint64(*rc.Seed)
	}
	applyIntConfig(cmd, "workers", &opts.Workers, rc.Workers)
	applyStringConfig(cmd, "log-level", &opts.LogLevel, rc.LogLevel)
	if rc.MinSurvival != nil && !cmd.Flags().Changed("min-survival") {
		opts.MinSurvival = *rc.MinSurvival
	}
	return opts, nil
}

func validateRunOptions(opts runOptions) error {
	if opts.Workers < 0 {
		return fmt.Errorf("--workers must be >= 0")
	}
	if opts.Format != formatText && opts.Format != formatYAML {
		return fmt.Errorf("--format must be %q or %q", formatText, formatYAML)
	}
	if opts.Plot && opts.Format != formatText {
		return fmt.Errorf("--plot requires --format %s", formatText)
	}
	if opts.MinSurvival < 0 || opts.MinSurvival > 100 {
		return fmt.Errorf("--min-survival must be between 0 and 100")
	}
	if _, err := logging.ParseLevel(opts.LogLevel); err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func defaultConfigTemplate() string {
	coin, roul := defaultCoinToss(), defaultRoulette()
	return fmt.Sprintf(`# ruinsim configuration
# Uncomment a value to enable it. CLI flags override [run] values.

[run]
# workers = 0                 # Concurrent session workers (0: all CPUs)
# seed = 0                    # Random seed (0: time based)
# log-level = %q          # debug, info, warn, error
# min-survival = %.1f          # Survival target (%%) for the recommended max bet

[cointoss]
# starting-balance = %.1e
# fraction-start = %g          # Smallest bet size, as a fraction of balance
# fraction-stop = %g           # Largest bet size
# fraction-count = %d           # Number of bet sizes, linearly spaced
# bet-number = %d                # Outcome (0 or 1) that costs the bankroll
# turns = %d
# simulations = %d
# ruin-threshold = %g          # Fraction of starting balance
# house-edge = %g

[roulette]
# starting-balance = %.1e
# fraction-start = %g
# fraction-stop = %g
# fraction-count = %d
# bet-number = %d               # Number (0-36) that costs the bankroll
# turns = %d
# simulations = %d
# ruin-threshold = %g
`,
		logging.DefaultLevel, defaultMinSurvival,
		coin.StartingBalance, coin.Sweep.Start, coin.Sweep.Stop, coin.Sweep.Count,
		coin.BetNumber, coin.Turns, coin.Simulations, coin.RuinThreshold, coin.HouseEdge,
		roul.StartingBalance, roul.Sweep.Start, roul.Sweep.Stop, roul.Sweep.Count,
		roul.BetNumber, roul.Turns, roul.Simulations, roul.RuinThreshold,
	)
}
