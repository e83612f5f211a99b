package stats

import "math"

// divisorSlack absorbs float noise when turning a bet size back into a divisor.
const divisorSlack = 1e-9

// Recommendation is the largest swept bet size whose survival met the target.
// Divisor caps a bet at balance/Divisor and is rounded up so the cap never exceeds
// the recommended bet size.
type Recommendation struct {
	BetSizePct  float64 `yaml:"bet_size_pct"`
	SurvivalPct float64 `yaml:"survival_pct"`
	Divisor     int     `yaml:"max_bet_divisor"`
}

// Recommend picks the largest positive bet size with survival at or above minSurvivalPct.
// It returns nil when no row qualifies.
func Recommend(rows []Row, minSurvivalPct float64) *Recommendation {
	var best *Row
	for i := range rows {
		r := &rows[i]
		if r.BetSizePct <= 0 || r.SurvivalPct < minSurvivalPct {
			continue
		}
		if best == nil || r.BetSizePct > best.BetSizePct {
			best = r
		}
	}
	if best == nil {
		return nil
	}
	return &Recommendation{
		BetSizePct:  best.BetSizePct,
		SurvivalPct: best.SurvivalPct,
		Divisor:     int(math.Ceil(100/best.BetSizePct - divisorSlack)),
	}
}
