package lifecycle

import (
	"testing"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
)

func Test_InQuietHours(t *testing.T) {
	at := func(hour int) time.Time {
		return time.Date(2025, 6, 1, hour, 30, 0, 0, time.UTC)
	}

	tests := []struct {
		name  string
		prefs *models.NotificationPreferences
		now   time.Time
		want  bool
	}{
		{
			"equal bounds disable quiet hours",
			&models.NotificationPreferences{QuietHoursStart: 0, QuietHoursEnd: 0, Timezone: "UTC"},
			at(3),
			false,
		},
		{
			"inside a simple range",
			&models.NotificationPreferences{QuietHoursStart: 9, QuietHoursEnd: 17, Timezone: "UTC"},
			at(12),
			true,
		},
		{
			"end hour is excluded",
			&models.NotificationPreferences{QuietHoursStart: 9, QuietHoursEnd: 17, Timezone: "UTC"},
			at(17),
			false,
		},
		{
			"late side of a midnight crossing",
			&models.NotificationPreferences{QuietHoursStart: 23, QuietHoursEnd: 9, Timezone: "UTC"},
			at(23),
			true,
		},
		{
			"early side of a midnight crossing",
			&models.NotificationPreferences{QuietHoursStart: 23, QuietHoursEnd: 9, Timezone: "UTC"},
			at(3),
			true,
		},
		{
			"daytime gap of a midnight crossing",
			&models.NotificationPreferences{QuietHoursStart: 23, QuietHoursEnd: 9, Timezone: "UTC"},
			at(12),
			false,
		},
		{
			"unknown timezone falls back to UTC",
			&models.NotificationPreferences{QuietHoursStart: 9, QuietHoursEnd: 17, Timezone: "Marte/Olympus"},
			at(12),
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InQuietHours(tt.prefs, tt.now); got != tt.want {
				t.Errorf("InQuietHours(%d-%d at %v) = %v, want %v",
					tt.prefs.QuietHoursStart, tt.prefs.QuietHoursEnd, tt.now, got, tt.want)
			}
		})
	}
}

func Test_messageTierFor(t *testing.T) {
	tests := []struct {
		state string
		want  string
	}{
		{models.StateAtRisk, MessageGentleReminder},
		{models.StateDormant, MessageContentTease},
		{models.StateLost, MessageComebackGift},
		{models.StateActive, ""},
		{models.StateNew, ""},
	}
	for _, tt := range tests {
		if got := messageTierFor(tt.state); got != tt.want {
			t.Errorf("messageTierFor(%s) = %q, want %q", tt.state, got, tt.want)
		}
	}
}
