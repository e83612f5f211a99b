package sim

import (
	"math"
	"testing"

	"github.com/verte-zerg/ruinsim/internal/model"
)

func TestLinspace(t *testing.T) {
	got := Linspace(0.01, 0.10, 10)
	if len(got) != 10 {
		t.Fatalf("expected 10 values, got %d", len(got))
	}
	if got[0] != 0.01 || got[9] != 0.10 {
		t.Fatalf("expected inclusive endpoints, got %v and %v", got[0], got[9])
	}
	for i := 1; i < len(got); i++ {
		if math.Abs(got[i]-got[i-1]-0.01) > 1e-12 {
			t.Fatalf("uneven step at %d: %v", i, got)
		}
	}
}

func TestLinspaceEdges(t *testing.T) {
	if got := Linspace(0.1, 0.2, 0); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
	if got := Linspace(0.1, 0.2, 1); len(got) != 1 || got[0] != 0.1 {
		t.Fatalf("expected [0.1], got %v", got)
	}
	if got := Fractions(model.SweepSpec{Start: 0.001, Stop: 0.01, Count: 2}); got[0] != 0.001 || got[1] != 0.01 {
		t.Fatalf("unexpected fractions %v", got)
	}
}
