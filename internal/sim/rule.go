package sim

import "fmt"

const (
	// CoinTossOutcomes is the size of the coin toss outcome space.
	CoinTossOutcomes = 2
	// RouletteOutcomes is the size of a single-zero roulette wheel.
	RouletteOutcomes = 37
	// RoulettePayout is what the bankroll pays per unit staked on a hit straight-up number.
	RoulettePayout = 35
)

// Rule describes how one drawn outcome moves the balance.
// Exactly one outcome value, LossOutcome, takes the loss branch; all others take the win branch.
type Rule struct {
	Name           string
	Outcomes       int
	LossOutcome    int
	LossMultiplier float64
	WinMultiplier  float64
}

// CoinToss returns the even-money rule: a loss removes bet*(1-houseEdge), a win adds bet.
func CoinToss(houseEdge float64, betNumber int) Rule {
	return Rule{
		Name:           "cointoss",
		Outcomes:       CoinTossOutcomes,
		LossOutcome:    betNumber,
		LossMultiplier: 1 - houseEdge,
		WinMultiplier:  1,
	}
}

// Roulette returns the single-number rule: a hit on betNumber removes 35*bet, any other
// number adds bet.
func Roulette(betNumber int) Rule {
	return Rule{
		Name:           "roulette",
		Outcomes:       RouletteOutcomes,
		LossOutcome:    betNumber,
		LossMultiplier: RoulettePayout,
		WinMultiplier:  1,
	}
}

// Apply returns the balance after staking bet on a turn that drew outcome.
func (r Rule) Apply(balance, bet float64, outcome int) float64 {
	if outcome == r.LossOutcome {
		return balance - bet*r.LossMultiplier
	}
	return balance + bet*r.WinMultiplier
}

// Validate checks that outcomes can be drawn and that the loss outcome is reachable.
func (r Rule) Validate() error {
	if r.Outcomes < 1 {
		return fmt.Errorf("%w: %s rule needs at least one outcome, got %d", ErrInvalidConfiguration, r.Name, r.Outcomes)
	}
	if r.LossOutcome < 0 || r.LossOutcome >= r.Outcomes {
		return fmt.Errorf("%w: %s bet number %d outside [0, %d)", ErrInvalidConfiguration, r.Name, r.LossOutcome, r.Outcomes)
	}
	return nil
}
