package sim

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/verte-zerg/ruinsim/internal/model"
)

func smallCoinToss() model.SimulationConfig {
	return model.SimulationConfig{StartingBalance: 1_000_000_000, RuinFraction: 0.1, Turns: 200}
}

func TestRunSweepKeepsOrderAndLength(t *testing.T) {
	fractions := []float64{0.05, 0.01, 0.2}
	results, err := RunSweep(context.Background(), fractions, smallCoinToss(), CoinToss(0.025, 1), 40, SweepOptions{Seed: 3, Workers: 2})
	if err != nil {
		t.Fatalf("RunSweep failed: %v", err)
	}
	if len(results) != len(fractions) {
		t.Fatalf("expected %d results, got %d", len(fractions), len(results))
	}
	for i, res := range results {
		if res.Fraction != fractions[i] {
			t.Fatalf("result %d: expected fraction %v, got %v", i, fractions[i], res.Fraction)
		}
		if len(res.Balances) != 40 {
			t.Fatalf("result %d: expected 40 balances, got %d", i, len(res.Balances))
		}
		if res.SurvivalRate < 0 || res.SurvivalRate > 100 {
			t.Fatalf("result %d: survival rate %v out of range", i, res.SurvivalRate)
		}
	}
}

func TestRunSweepZeroSimulations(t *testing.T) {
	_, err := RunSweep(context.Background(), []float64{0.01}, smallCoinToss(), CoinToss(0.025, 1), 0, SweepOptions{})
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestRunSweepInvalidRule(t *testing.T) {
	_, err := RunSweep(context.Background(), []float64{0.01}, smallCoinToss(), Roulette(40), 10, SweepOptions{})
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestRunSweepEmptyFractions(t *testing.T) {
	results, err := RunSweep(context.Background(), nil, smallCoinToss(), CoinToss(0.025, 1), 10, SweepOptions{})
	if err != nil {
		t.Fatalf("RunSweep failed: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestRunSweepOutOfRangeFractions(t *testing.T) {
	fractions := []float64{0, -0.5, 1, 1.5, 5}
	cfg := model.SimulationConfig{StartingBalance: 1_000_000_000, RuinFraction: 0.05, Turns: 100}
	results, err := RunSweep(context.Background(), fractions, cfg, Roulette(10), 20, SweepOptions{Seed: 4})
	if err != nil {
		t.Fatalf("RunSweep failed: %v", err)
	}
	if len(results) != len(fractions) {
		t.Fatalf("expected %d results, got %d", len(fractions), len(results))
	}
	for i, res := range results {
		if res.Fraction != fractions[i] {
			t.Fatalf("result %d: expected fraction %v, got %v", i, fractions[i], res.Fraction)
		}
		if res.SurvivalRate < 0 || res.SurvivalRate > 100 {
			t.Fatalf("result %d: survival rate %v out of range", i, res.SurvivalRate)
		}
	}
	if results[0].SurvivalRate != 100 || results[0].AverageProfitPct != 0 {
		t.Fatalf("expected zero bets to keep the balance, got %+v", results[0])
	}
}

func TestRunSweepIndependentOfWorkers(t *testing.T) {
	fractions := Linspace(0.001, 0.01, 3)
	cfg := model.SimulationConfig{StartingBalance: 1_000_000_000, RuinFraction: 0.05, Turns: 300}
	serial, err := RunSweep(context.Background(), fractions, cfg, Roulette(10), 57, SweepOptions{Seed: 9, Workers: 1})
	if err != nil {
		t.Fatalf("serial sweep failed: %v", err)
	}
	parallel, err := RunSweep(context.Background(), fractions, cfg, Roulette(10), 57, SweepOptions{Seed: 9, Workers: 8})
	if err != nil {
		t.Fatalf("parallel sweep failed: %v", err)
	}
	for i := range serial {
		if serial[i].SurvivalRate != parallel[i].SurvivalRate || serial[i].AverageProfitPct != parallel[i].AverageProfitPct {
			t.Fatalf("point %d differs: %+v vs %+v", i, serial[i], parallel[i])
		}
		for s := range serial[i].Balances {
			if serial[i].Balances[s] != parallel[i].Balances[s] {
				t.Fatalf("point %d session %d differs", i, s)
			}
		}
	}
}

func TestRunSweepSeedReproducible(t *testing.T) {
	cfg := model.SimulationConfig{StartingBalance: 1_000_000_000, RuinFraction: 0.1, Turns: 10000}
	run := func() float64 {
		results, err := RunSweep(context.Background(), []float64{0.01}, cfg, CoinToss(0.025, 1), 1, SweepOptions{Seed: 424242})
		if err != nil {
			t.Fatalf("RunSweep failed: %v", err)
		}
		return results[0].Balances[0]
	}
	first, second := run(), run()
	if first != second {
		t.Fatalf("expected identical balances, got %v and %v", first, second)
	}
}

func TestRunSweepSessionsAreNotCorrelated(t *testing.T) {
	cfg := model.SimulationConfig{StartingBalance: 1000, RuinFraction: 0, Turns: 50}
	results, err := RunSweep(context.Background(), []float64{0.1}, cfg, CoinToss(0, 1), 20, SweepOptions{Seed: 1})
	if err != nil {
		t.Fatalf("RunSweep failed: %v", err)
	}
	distinct := map[float64]struct{}{}
	for _, b := range results[0].Balances {
		distinct[b] = struct{}{}
	}
	if len(distinct) < 2 {
		t.Fatalf("expected sessions to diverge, got %v", results[0].Balances)
	}
}

func TestRunSweepFairGameBreaksEven(t *testing.T) {
	cfg := model.SimulationConfig{StartingBalance: 1_000_000_000, RuinFraction: 0.1, Turns: 100}
	results, err := RunSweep(context.Background(), []float64{0.01}, cfg, CoinToss(0, 1), 5000, SweepOptions{Seed: 77})
	if err != nil {
		t.Fatalf("RunSweep failed: %v", err)
	}
	if got := results[0].AverageProfitPct; math.Abs(got) > 1 {
		t.Fatalf("expected average profit near 0%%, got %.4f%%", got)
	}
	if results[0].SurvivalRate != 100 {
		t.Fatalf("expected every session to survive, got %v", results[0].SurvivalRate)
	}
}

func TestRunSweepFavorableRuleProfits(t *testing.T) {
	cfg := model.SimulationConfig{StartingBalance: 1_000_000_000, RuinFraction: 0.1, Turns: 200}
	// Outcome 1 costs the bankroll only 0.5x the stake, so the bankroll side gains.
	results, err := RunSweep(context.Background(), []float64{0.05}, cfg, CoinToss(0.5, 1), 2000, SweepOptions{Seed: 5})
	if err != nil {
		t.Fatalf("RunSweep failed: %v", err)
	}
	if results[0].AverageProfitPct <= 0 {
		t.Fatalf("expected positive average profit, got %v", results[0].AverageProfitPct)
	}
}

func TestRunSweepReportsProgress(t *testing.T) {
	var mu sync.Mutex
	maxDone, calls := 0, 0
	opts := SweepOptions{
		Seed:    2,
		Workers: 3,
		Progress: func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			if total != 2*25 {
				t.Errorf("unexpected total %d", total)
			}
			if done > maxDone {
				maxDone = done
			}
		},
	}
	if _, err := RunSweep(context.Background(), []float64{0.01, 0.02}, smallCoinToss(), CoinToss(0.025, 1), 25, opts); err != nil {
		t.Fatalf("RunSweep failed: %v", err)
	}
	if calls == 0 || maxDone != 50 {
		t.Fatalf("expected progress to reach 50, got %d after %d calls", maxDone, calls)
	}
}

func TestRunSweepCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunSweep(ctx, []float64{0.01}, smallCoinToss(), CoinToss(0.025, 1), 100, SweepOptions{Workers: 2})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestChunkSize(t *testing.T) {
	if got := chunkSize(10000, 4); got != 625 {
		t.Fatalf("expected 625, got %d", got)
	}
	if got := chunkSize(3, 8); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}
