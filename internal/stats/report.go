// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/ruinsim/internal/model"
)

// Parameters records the inputs a sweep was run with.
type Parameters struct {
	StartingBalance float64 `yaml:"starting_balance"`
	RuinThreshold   float64 `yaml:"ruin_threshold"`
	Turns           int     `yaml:"turns"`
	Simulations     int     `yaml:"simulations"`
	Outcomes        int     `yaml:"outcomes"`
	BetNumber       int     `yaml:"bet_number"`
	LossMultiplier  float64 `yaml:"loss_multiplier"`
}

// Row is the reported view of one sweep point, in percent.
type Row struct {
	BetSizePct       float64 `yaml:"bet_size_pct"`
	SurvivalPct      float64 `yaml:"survival_pct"`
	AverageProfitPct float64 `yaml:"average_profit_pct"`
	MedianProfitPct  float64 `yaml:"median_profit_pct"`
	AverageTurns     float64 `yaml:"average_turns"`
	Ruined           int     `yaml:"ruined"`
}

// Report contains precomputed data for sweep rendering.
type Report struct {
	RunID          string          `yaml:"run_id"`
	Game           string          `yaml:"game"`
	Seed           uint64          `yaml:"seed"`
	Parameters     Parameters      `yaml:"parameters"`
	Rows           []Row           `yaml:"results"`
	MinSurvivalPct float64         `yaml:"min_survival_pct"`
	Recommendation *Recommendation `yaml:"recommendation,omitempty"`
}

// BuildReport converts sweep results into report rows, keeping their order, and picks the
// max bet meeting minSurvivalPct.
func BuildReport(runID, game string, seed uint64, params Parameters, results []model.SweepResult, minSurvivalPct float64) Report {
	rows := make([]Row, len(results))
	for i, r := range results {
		rows[i] = Row{
			BetSizePct:       r.Fraction * 100,
			SurvivalPct:      r.SurvivalRate,
			AverageProfitPct: r.AverageProfitPct,
			MedianProfitPct:  r.MedianProfitPct,
			AverageTurns:     r.AverageTurns,
			Ruined:           r.Ruined,
		}
	}
	return Report{
		RunID:          runID,
		Game:           game,
		Seed:           seed,
		Parameters:     params,
		Rows:           rows,
		MinSurvivalPct: minSurvivalPct,
		Recommendation: Recommend(rows, minSurvivalPct),
	}
}

// RenderText prints a header and one table line per sweep point.
func RenderText(w io.Writer, report Report) error {
	p := report.Parameters
	header := []string{
		fmt.Sprintf("Game: %s (seed %d)", report.Game, report.Seed),
		fmt.Sprintf("Starting balance: %.0f  Ruin threshold: %.2f%%  Turns: %d  Simulations: %d",
			p.StartingBalance, p.RuinThreshold*100, p.Turns, p.Simulations),
		"",
	}
	for _, line := range header {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if len(report.Rows) == 0 {
		_, err := fmt.Fprintln(w, "No bet sizes swept.")
		return err
	}

	headers := []string{"Bet size (%)", "Survival (%)", "Avg profit (%)", "Median profit (%)", "Avg turns"}
	tableRows := make([][]string, 0, len(report.Rows))
	for _, r := range report.Rows {
		tableRows = append(tableRows, []string{
			fmt.Sprintf("%.2f", r.BetSizePct),
			fmt.Sprintf("%.2f", r.SurvivalPct),
			fmt.Sprintf("%.2f", r.AverageProfitPct),
			fmt.Sprintf("%.2f", r.MedianProfitPct),
			fmt.Sprintf("%.1f", r.AverageTurns),
		})
	}
	rightAlign := map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, recommendationLine(report))
	return err
}

func recommendationLine(report Report) string {
	rec := report.Recommendation
	if rec == nil {
		return fmt.Sprintf("No bet size reaches %.2f%% survival.", report.MinSurvivalPct)
	}
	return fmt.Sprintf("Max bet for >= %.2f%% survival: %.2f%% of balance (max bet divisor %d, survival %.2f%%)",
		report.MinSurvivalPct, rec.BetSizePct, rec.Divisor, rec.SurvivalPct)
}

// RenderCurves plots survival rate and average profit across the swept bet sizes.
func RenderCurves(w io.Writer, report Report, width, height int, forceColor bool) error {
	if len(report.Rows) == 0 {
		return nil
	}
	survival := make([]float64, len(report.Rows))
	profit := make([]float64, len(report.Rows))
	for i, r := range report.Rows {
		survival[i] = r.SurvivalPct
		profit[i] = r.AverageProfitPct
	}
	first, last := report.Rows[0], report.Rows[len(report.Rows)-1]
	axis := Axis{
		Name: "bet size (% of balance)",
		From: fmt.Sprintf("%.2f%%", first.BetSizePct),
		To:   fmt.Sprintf("%.2f%%", last.BetSizePct),
	}
	return PlotSeries(w, "Survival and profit by bet size", []Series{
		{Name: "Survival %", Values: survival},
		{Name: "Avg profit %", Values: profit},
	}, axis, width, height, forceColor)
}

// WriteYAML encodes the report as a YAML document.
func WriteYAML(w io.Writer, report Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return enc.Close()
}
