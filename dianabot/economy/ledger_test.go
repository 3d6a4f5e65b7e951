package economy

import (
	"testing"

	"github.com/dianabot/dianabot/dianabot/database/models"
)

func Test_CurrentLevel(t *testing.T) {
	levels := []*models.Level{
		{Name: "Curiosa", MinBesitos: 0, Order: 1},
		{Name: "Cercana", MinBesitos: 100, Order: 2},
		{Name: "Confidente", MinBesitos: 300, Order: 3},
	}

	tests := []struct {
		name  string
		total int64
		want  string
	}{
		{"zero lands on the first level", 0, "Curiosa"},
		{"just below a threshold", 99, "Curiosa"},
		{"exactly at a threshold", 100, "Cercana"},
		{"above the top threshold", 5000, "Confidente"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CurrentLevel(levels, tt.total)
			if got == nil || got.Name != tt.want {
				t.Errorf("CurrentLevel(%d) = %v, want %s", tt.total, got, tt.want)
			}
		})
	}

	if got := CurrentLevel(nil, 100); got != nil {
		t.Errorf("CurrentLevel with no levels = %v, want nil", got)
	}
}
