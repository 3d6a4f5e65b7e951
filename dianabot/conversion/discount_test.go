package conversion

import (
	"testing"

	"github.com/dianabot/dianabot/dianabot/database/models"
)

func Test_ComputeDiscount(t *testing.T) {
	tests := []struct {
		name          string
		levelOrder    int
		streak        int
		firstPurchase bool
		archetype     string
		confidence    float64
		category      string
		wantPercent   float64
	}{
		{"nothing earned", 0, 0, false, models.ArchetypeUnknown, 0, "narrative", 0},
		{"level points", 4, 0, false, models.ArchetypeUnknown, 0, "narrative", 4},
		{"level capped", 30, 0, false, models.ArchetypeUnknown, 0, "narrative", 15},
		{"streak capped", 0, 25, false, models.ArchetypeUnknown, 0, "narrative", 10},
		{"first purchase", 0, 0, true, models.ArchetypeUnknown, 0, "narrative", 10},
		{"confident affinity match", 0, 0, false, models.ArchetypeExplorer, 0.8, "narrative", 5},
		{"affinity below confidence floor", 0, 0, false, models.ArchetypeExplorer, 0.4, "narrative", 0},
		{"affinity wrong category", 0, 0, false, models.ArchetypeExplorer, 0.8, "cosmetic", 0},
		{"everything stacks to the cap", 20, 20, true, models.ArchetypeRomantic, 0.9, "narrative", 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDiscount(tt.levelOrder, tt.streak, tt.firstPurchase, tt.archetype, tt.confidence, tt.category)
			if got.Percent != tt.wantPercent {
				t.Errorf("ComputeDiscount() = %f, want %f", got.Percent, tt.wantPercent)
			}
		})
	}
}

func Test_ComputeDiscount_components(t *testing.T) {
	quote := ComputeDiscount(3, 5, true, models.ArchetypePersistent, 0.7, "cosmetic")

	want := map[string]float64{
		"nivel":          3,
		"racha":          5,
		"primera compra": 10,
		"afinidad":       5,
	}
	if len(quote.Components) != len(want) {
		t.Fatalf("components = %v, want %d entries", quote.Components, len(want))
	}
	for _, c := range quote.Components {
		if want[c.Reason] != c.Percent {
			t.Errorf("component %q = %f, want %f", c.Reason, c.Percent, want[c.Reason])
		}
	}
	if quote.Percent != 23 {
		t.Errorf("Percent = %f, want 23", quote.Percent)
	}
}
