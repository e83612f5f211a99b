package sim

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/ruinsim/internal/model"
	"github.com/verte-zerg/ruinsim/internal/rng"
	"github.com/verte-zerg/ruinsim/internal/stats"
)

// ErrInvalidConfiguration reports parameters a sweep cannot run with.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// chunksPerWorker controls how finely sessions are split for progress reporting.
const chunksPerWorker = 4

// SweepOptions tunes how a sweep is executed. None of them change the results for a given Seed.
type SweepOptions struct {
	// Workers bounds concurrent session chunks; zero or less uses every CPU.
	Workers int
	// Seed keys the per-session random streams.
	Seed uint64
	// Progress, when set, is called with completed and total session counts.
	// It may be called from several goroutines at once.
	Progress func(done, total int)
	Logger   *zap.Logger
}

// RunSweep simulates the given number of sessions for every fraction and returns one result
// per fraction, in input order. All sessions of a fraction finish before it is aggregated.
func RunSweep(ctx context.Context, fractions []float64, template model.SimulationConfig, rule Rule, simulations int, opts SweepOptions) ([]model.SweepResult, error) {
	if simulations < 1 {
		return nil, fmt.Errorf("%w: simulation count must be >= 1, got %d", ErrInvalidConfiguration, simulations)
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	total := len(fractions) * simulations
	chunk := chunkSize(simulations, workers)
	var done atomic.Int64

	results := make([]model.SweepResult, 0, len(fractions))
	for point, fraction := range fractions {
		cfg := template.WithFraction(fraction)
		balances := make([]float64, simulations)
		turns := make([]int, simulations)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for start := 0; start < simulations; start += chunk {
			end := min(start+chunk, simulations)
			g.Go(func() error {
				for s := start; s < end; s++ {
					if err := gctx.Err(); err != nil {
						return err
					}
					res := RunSession(cfg, rule, rng.NewStream(opts.Seed, point, s))
					balances[s] = res.Balance
					turns[s] = res.Turns
				}
				n := done.Add(int64(end - start))
				if opts.Progress != nil {
					opts.Progress(int(n), total)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		res := stats.Summarize(fraction, cfg, balances, turns)
		log.Debug("sweep point done",
			zap.String("game", rule.Name),
			zap.Float64("fraction", fraction),
			zap.Float64("survival_pct", res.SurvivalRate),
			zap.Float64("avg_profit_pct", res.AverageProfitPct),
		)
		results = append(results, res)
	}
	return results, nil
}

func chunkSize(simulations, workers int) int {
	parts := workers * chunksPerWorker
	if parts < 1 {
		parts = 1
	}
	size := (simulations + parts - 1) / parts
	if size < 1 {
		size = 1
	}
	return size
}
