// Package sim runs fixed-fraction betting sessions and fraction sweeps.
package sim

import (
	"github.com/verte-zerg/ruinsim/internal/model"
	"github.com/verte-zerg/ruinsim/internal/rng"
)

// RunSession plays up to cfg.Turns turns, staking cfg.BetFraction of the current balance on
// each one. It stops after the first turn that leaves the balance at or below the ruin
// threshold. The rule must have at least one outcome.
func RunSession(cfg model.SimulationConfig, rule Rule, src rng.Source) model.SessionResult {
	balance := cfg.StartingBalance
	threshold := cfg.RuinThreshold()
	turns := 0
	for turns < cfg.Turns {
		bet := balance * cfg.BetFraction
		balance = rule.Apply(balance, bet, src.IntN(rule.Outcomes))
		turns++
		if balance <= threshold {
			break
		}
	}
	return model.SessionResult{Balance: balance, Turns: turns}
}
