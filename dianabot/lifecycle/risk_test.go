package lifecycle

import "testing"

func Test_RiskBreakdown_Total(t *testing.T) {
	tests := []struct {
		name string
		b    RiskBreakdown
		want int
	}{
		{"empty breakdown", RiskBreakdown{}, 0},
		{
			"components add up",
			RiskBreakdown{Inactivity: 25, BrokenStreak: 15, NoPurchases: 5},
			45,
		},
		{
			"fraction truncates",
			RiskBreakdown{Inactivity: 12.5, ActivityDecline: 7.9},
			20,
		},
		{
			"clamped at one hundred",
			RiskBreakdown{
				Inactivity:        25,
				BrokenStreak:      15,
				AbandonedMissions: 15,
				ActivityDecline:   15,
				VIPExpiring:       15,
				IncompleteOnboard: 10,
				NoPurchases:       10,
			},
			100,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.b.Total(); got != tt.want {
				t.Errorf("Total() = %d, want %d", got, tt.want)
			}
		})
	}
}

func Test_capAt(t *testing.T) {
	tests := []struct {
		v     float64
		limit float64
		want  float64
	}{
		{10, 25, 10},
		{30, 25, 25},
		{-4, 25, 0},
		{25, 25, 25},
	}
	for _, tt := range tests {
		if got := capAt(tt.v, tt.limit); got != tt.want {
			t.Errorf("capAt(%f, %f) = %f, want %f", tt.v, tt.limit, got, tt.want)
		}
	}
}
