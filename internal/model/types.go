// Package model defines shared data structures.
package model

// SimulationConfig defines the parameters of a single sweep point.
type SimulationConfig struct {
	StartingBalance float64
	BetFraction     float64
	RuinFraction    float64
	Turns           int
}

// RuinThreshold returns the balance at or below which a session is ruined.
func (c SimulationConfig) RuinThreshold() float64 {
	return c.StartingBalance * c.RuinFraction
}

// WithFraction returns a copy of the config using the given bet fraction.
func (c SimulationConfig) WithFraction(fraction float64) SimulationConfig {
	c.BetFraction = fraction
	return c
}

// SweepSpec describes a linearly spaced range of bet fractions.
type SweepSpec struct {
	Start float64
	Stop  float64
	Count int
}

// SessionResult captures the outcome of one simulated session.
type SessionResult struct {
	Balance float64
	Turns   int
}

// SweepResult summarizes all sessions run for a single bet fraction.
type SweepResult struct {
	Fraction         float64
	SurvivalRate     float64
	AverageProfitPct float64
	MedianProfitPct  float64
	MinBalance       float64
	MaxBalance       float64
	AverageTurns     float64
	Ruined           int

	// Balances holds the ending balance of every session, in session order.
	Balances []float64
}
