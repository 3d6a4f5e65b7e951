package narrative

import (
	"testing"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
)

func Test_WindowAdmits(t *testing.T) {
	// 2025-06-01 is a Sunday.
	sundayNoon := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	valentines := time.Date(2025, 2, 14, 3, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		window *models.FragmentTimeWindow
		now    time.Time
		want   bool
	}{
		{"nil window admits everything", nil, sundayNoon, true},
		{
			"hour listed",
			&models.FragmentTimeWindow{AvailableHours: []int{11, 12, 13}},
			sundayNoon, true,
		},
		{
			"hour not listed",
			&models.FragmentTimeWindow{AvailableHours: []int{22, 23}},
			sundayNoon, false,
		},
		{
			"weekday listed",
			&models.FragmentTimeWindow{AvailableDays: []int{0, 6}},
			sundayNoon, true,
		},
		{
			"weekday not listed",
			&models.FragmentTimeWindow{AvailableDays: []int{1, 2, 3}},
			sundayNoon, false,
		},
		{
			"inclusive special date bypasses hour filter",
			&models.FragmentTimeWindow{
				SpecialDates:          []string{"02-14"},
				SpecialDatesInclusive: true,
				AvailableHours:        []int{20},
			},
			valentines, true,
		},
		{
			"inclusive special date not today still checks hours",
			&models.FragmentTimeWindow{
				SpecialDates:          []string{"12-24"},
				SpecialDatesInclusive: true,
				AvailableHours:        []int{12},
			},
			sundayNoon, true,
		},
		{
			"exclusive special date blocks the day",
			&models.FragmentTimeWindow{SpecialDates: []string{"02-14"}},
			valentines, false,
		},
		{
			"hours and days must both admit",
			&models.FragmentTimeWindow{AvailableHours: []int{12}, AvailableDays: []int{1}},
			sundayNoon, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WindowAdmits(tt.window, tt.now); got != tt.want {
				t.Errorf("WindowAdmits() = %v, want %v", got, tt.want)
			}
		})
	}
}
