// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/verte-zerg/ruinsim/internal/model"
)

// Summarize aggregates the ending balances and turn counts of one sweep point.
// balances and turns are indexed by session; balances is kept on the result as-is.
func Summarize(fraction float64, cfg model.SimulationConfig, balances []float64, turns []int) model.SweepResult {
	res := model.SweepResult{Fraction: fraction, Balances: balances}
	if len(balances) == 0 {
		return res
	}
	threshold := cfg.RuinThreshold()
	survived := 0
	minBal, maxBal := balances[0], balances[0]
	for _, b := range balances {
		if b > threshold {
			survived++
		}
		if b < minBal {
			minBal = b
		}
		if b > maxBal {
			maxBal = b
		}
	}
	n := float64(len(balances))
	res.SurvivalRate = float64(survived) / n * 100
	res.Ruined = len(balances) - survived
	res.AverageProfitPct = ProfitPct(MeanBalance(balances), cfg.StartingBalance)
	res.MedianProfitPct = ProfitPct(Median(balances), cfg.StartingBalance)
	res.MinBalance = minBal
	res.MaxBalance = maxBal

	if len(turns) > 0 {
		var sum int64
		for _, t := range turns {
			sum += int64(t)
		}
		res.AverageTurns = float64(sum) / float64(len(turns))
	}
	return res
}

// ProfitPct expresses balance relative to start, where 0 is breakeven.
func ProfitPct(balance, start float64) float64 {
	return balance/start*100 - 100
}

// MeanBalance returns the arithmetic mean. Finite inputs are summed exactly so the
// result does not depend on summation order.
func MeanBalance(balances []float64) float64 {
	if len(balances) == 0 {
		return 0
	}
	if !allFinite(balances) {
		var sum float64
		for _, b := range balances {
			sum += b
		}
		return sum / float64(len(balances))
	}
	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(decimal.NewFromFloat(b))
	}
	mean, _ := sum.Div(decimal.NewFromInt(int64(len(balances)))).Float64()
	return mean
}

// Median returns the middle value, averaging the two central values for even lengths.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
