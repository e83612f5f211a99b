package main

import (
	"fmt"
	"sort"

	"github.com/verte-zerg/ruinsim/internal/config"
	"github.com/verte-zerg/ruinsim/internal/model"
	"github.com/verte-zerg/ruinsim/internal/sim"
	"github.com/verte-zerg/ruinsim/internal/stats"
)

const (
	gameCoinToss = "cointoss"
	gameRoulette = "roulette"
)

const defaultStartingBalance = 1_000_000_000

// gameSettings holds the effective parameters of one game's sweep.
type gameSettings struct {
	Name            string
	Short           string
	StartingBalance float64
	Sweep           model.SweepSpec
	BetNumber       int
	Turns           int
	Simulations     int
	RuinThreshold   float64
	HouseEdge       float64
}

func defaultCoinToss() gameSettings {
	return gameSettings{
		Name:            gameCoinToss,
		Short:           "Even-money bet with a house edge",
		StartingBalance: defaultStartingBalance,
		Sweep:           model.SweepSpec{Start: 0.01, Stop: 0.10, Count: 10},
		BetNumber:       1,
		Turns:           10000,
		Simulations:     10000,
		RuinThreshold:   0.1,
		HouseEdge:       0.025,
	}
}

func defaultRoulette() gameSettings {
	return gameSettings{
		Name:            gameRoulette,
		Short:           "Single-number roulette bet",
		StartingBalance: defaultStartingBalance,
		Sweep:           model.SweepSpec{Start: 0.001, Stop: 0.01, Count: 10},
		BetNumber:       10,
		Turns:           1000,
		Simulations:     10000,
		RuinThreshold:   0.05,
	}
}

func defaultGames() map[string]gameSettings {
	return map[string]gameSettings{
		gameCoinToss: defaultCoinToss(),
		gameRoulette: defaultRoulette(),
	}
}

func gameNames() []string {
	names := make([]string, 0, 2)
	for name := range defaultGames() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolveGame merges the named game's section of the config file over its defaults.
func resolveGame(name string, fileCfg config.FileConfig) (gameSettings, error) {
	game, ok := defaultGames()[name]
	if !ok {
		return gameSettings{}, fmt.Errorf("unknown game %q", name)
	}
	switch name {
	case gameCoinToss:
		applyGameConfig(&game, fileCfg.CoinToss)
	case gameRoulette:
		applyGameConfig(&game, fileCfg.Roulette)
	}
	return game, nil
}

func applyGameConfig(game *gameSettings, fc config.GameConfig) {
	applyFloat(&game.StartingBalance, fc.StartingBalance)
	applyFloat(&game.Sweep.Start, fc.FractionStart)
	applyFloat(&game.Sweep.Stop, fc.FractionStop)
	applyInt(&game.Sweep.Count, fc.FractionCount)
	applyInt(&game.BetNumber, fc.BetNumber)
	applyInt(&game.Turns, fc.Turns)
	applyInt(&game.Simulations, fc.Simulations)
	applyFloat(&game.RuinThreshold, fc.RuinThreshold)
	if game.Name == gameCoinToss {
		applyFloat(&game.HouseEdge, fc.HouseEdge)
	}
}

func applyFloat(target, value *float64) {
	if value != nil {
		*target = *value
	}
}

func applyInt(target, value *int) {
	if value != nil {
		*target = *value
	}
}

func (g gameSettings) rule() sim.Rule {
	if g.Name == gameRoulette {
		return sim.Roulette(g.BetNumber)
	}
	return sim.CoinToss(g.HouseEdge, g.BetNumber)
}

func (g gameSettings) template() model.SimulationConfig {
	return model.SimulationConfig{
		StartingBalance: g.StartingBalance,
		RuinFraction:    g.RuinThreshold,
		Turns:           g.Turns,
	}
}

func (g gameSettings) parameters() stats.Parameters {
	rule := g.rule()
	return stats.Parameters{
		StartingBalance: g.StartingBalance,
		RuinThreshold:   g.RuinThreshold,
		Turns:           g.Turns,
		Simulations:     g.Simulations,
		Outcomes:        rule.Outcomes,
		BetNumber:       rule.LossOutcome,
		LossMultiplier:  rule.LossMultiplier,
	}
}

// validateGameConfig rejects settings the sweep cannot run with. A zero simulation count is
// left to the sweep itself.
func validateGameConfig(g gameSettings) error {
	if g.StartingBalance <= 0 {
		return fmt.Errorf("%s.starting-balance must be > 0", g.Name)
	}
	if g.Sweep.Count <= 0 {
		return fmt.Errorf("%s.fraction-count must be > 0", g.Name)
	}
	if g.Sweep.Start <= 0 || g.Sweep.Start > 1 {
		return fmt.Errorf("%s.fraction-start must be in (0, 1]", g.Name)
	}
	if g.Sweep.Stop <= 0 || g.Sweep.Stop > 1 {
		return fmt.Errorf("%s.fraction-stop must be in (0, 1]", g.Name)
	}
	if g.Turns < 0 {
		return fmt.Errorf("%s.turns must be >= 0", g.Name)
	}
	if g.Simulations < 0 {
		return fmt.Errorf("%s.simulations must be >= 0", g.Name)
	}
	if g.RuinThreshold < 0 {
		return fmt.Errorf("%s.ruin-threshold must be >= 0", g.Name)
	}
	if g.HouseEdge < 0 || g.HouseEdge > 1 {
		return fmt.Errorf("%s.house-edge must be between 0 and 1", g.Name)
	}
	return g.rule().Validate()
}

func describeGame(g gameSettings) string {
	rule := g.rule()
	return fmt.Sprintf("%-9s %s\n          outcomes %d, bet-number %d, loss %.3gx stake, win %.3gx stake\n          bet sizes %.2f%%..%.2f%% (%d), turns %d, simulations %d, ruin at %.2f%% of %.0f",
		g.Name, g.Short,
		rule.Outcomes, rule.LossOutcome, rule.LossMultiplier, rule.WinMultiplier,
		g.Sweep.Start*100, g.Sweep.Stop*100, g.Sweep.Count,
		g.Turns, g.Simulations, g.RuinThreshold*100, g.StartingBalance,
	)
}
