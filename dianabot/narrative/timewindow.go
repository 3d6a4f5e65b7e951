package narrative

import (
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
)

// WindowAdmits reports whether the fragment's time window admits the instant.
// All filters present must admit it; absent filters admit everything. All
// evaluation is UTC.
func WindowAdmits(w *models.FragmentTimeWindow, now time.Time) bool {
	if w == nil {
		return true
	}
	now = now.UTC()

	monthDay := now.Format("01-02")
	if len(w.SpecialDates) > 0 {
		listed := false
		for _, d := range w.SpecialDates {
			if d == monthDay {
				listed = true
				break
			}
		}
		if w.SpecialDatesInclusive {
			// Inclusive special dates bypass the hour/day filters entirely.
			if listed {
				return true
			}
		} else if listed {
			return false
		}
	}

	if len(w.AvailableHours) > 0 {
		ok := false
		for _, h := range w.AvailableHours {
			if h == now.Hour() {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}

	if len(w.AvailableDays) > 0 {
		ok := false
		for _, d := range w.AvailableDays {
			if d == int(now.Weekday()) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}

	return true
}
