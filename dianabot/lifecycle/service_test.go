package lifecycle

import (
	"testing"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
)

func Test_StateFor(t *testing.T) {
	day := 24 * time.Hour

	tests := []struct {
		name       string
		inactive   time.Duration
		accountAge time.Duration
		want       string
	}{
		{"fresh account stays new", time.Hour, 2 * day, models.StateNew},
		{"settled account is active", time.Hour, 30 * day, models.StateActive},
		{"exactly three days is still active", 3 * day, 30 * day, models.StateActive},
		{"over three days is at risk", 3*day + time.Minute, 30 * day, models.StateAtRisk},
		{"over seven days is dormant", 8 * day, 30 * day, models.StateDormant},
		{"over thirty days is lost", 31 * day, 60 * day, models.StateLost},
		{"inactivity outranks account age", 10 * day, 2 * day, models.StateDormant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateFor(tt.inactive, tt.accountAge); got != tt.want {
				t.Errorf("StateFor(%v, %v) = %s, want %s", tt.inactive, tt.accountAge, got, tt.want)
			}
		})
	}
}

func Test_WelcomeBackBonus(t *testing.T) {
	tests := []struct {
		state string
		want  int64
	}{
		{models.StateAtRisk, 20},
		{models.StateDormant, 50},
		{models.StateLost, 100},
		{models.StateActive, 0},
		{models.StateNew, 0},
	}
	for _, tt := range tests {
		if got := WelcomeBackBonus(tt.state); got != tt.want {
			t.Errorf("WelcomeBackBonus(%s) = %d, want %d", tt.state, got, tt.want)
		}
	}
}
