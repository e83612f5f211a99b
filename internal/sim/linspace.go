package sim

import "github.com/verte-zerg/ruinsim/internal/model"

// Linspace returns count evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, count int) []float64 {
	if count <= 0 {
		return []float64{}
	}
	out := make([]float64, count)
	if count == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(count-1)
	for i := 0; i < count-1; i++ {
		out[i] = start + float64(i)*step
	}
	out[count-1] = stop
	return out
}

// Fractions expands a sweep range into its bet fractions.
func Fractions(spec model.SweepSpec) []float64 {
	return Linspace(spec.Start, spec.Stop, spec.Count)
}
