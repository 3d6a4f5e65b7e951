package lifecycle

import (
	"context"
	"log/slog"
	"time"

	"github.com/dianabot/dianabot/dianabot/config"
	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/dianabot/dianabot/dianabot/transport"
	"github.com/uptrace/bun"
)

// Re-engagement message tiers, one per lapsed state.
const (
	MessageGentleReminder = "gentle_reminder"
	MessageContentTease   = "content_tease"
	MessageComebackGift   = "comeback_gift"
)

var reengagementVoice = map[string]string{
	MessageGentleReminder: "Hace días que no sé de ti... Diana te está esperando. 🌹",
	MessageContentTease:   "Diana ha dejado algo nuevo en la historia. Solo tú puedes descubrirlo... 🖤",
	MessageComebackGift:   "Una última carta de Diana te espera, con un regalo dentro. No la dejes sin abrir. 💌",
}

func messageTierFor(state string) string {
	switch state {
	case models.StateAtRisk:
		return MessageGentleReminder
	case models.StateDormant:
		return MessageContentTease
	case models.StateLost:
		return MessageComebackGift
	default:
		return ""
	}
}

// ReengagementService sends the tiered comeback messages, bounded by the
// user's notification preferences and the anti-spam caps.
type ReengagementService struct {
	lifecycles repositories.LifecycleRepository
	prefs      repositories.PreferencesRepository
	gateway    transport.Gateway
}

func NewReengagementService(db bun.IDB, gateway transport.Gateway) *ReengagementService {
	return &ReengagementService{
		lifecycles: repositories.NewLifecycleRepository(db),
		prefs:      repositories.NewPreferencesRepository(db),
		gateway:    gateway,
	}
}

// InQuietHours reports whether the user's local hour falls inside the
// half-open [start, end) window, which may cross midnight. Equal bounds
// disable quiet hours. Unknown timezones fall back to UTC.
func InQuietHours(prefs *models.NotificationPreferences, now time.Time) bool {
	if prefs.QuietHoursStart == prefs.QuietHoursEnd {
		return false
	}
	loc, err := time.LoadLocation(prefs.Timezone)
	if err != nil {
		loc = time.UTC
	}
	hour := now.In(loc).Hour()
	if prefs.QuietHoursStart < prefs.QuietHoursEnd {
		return hour >= prefs.QuietHoursStart && hour < prefs.QuietHoursEnd
	}
	return hour >= prefs.QuietHoursStart || hour < prefs.QuietHoursEnd
}

// MaybeSend sends one re-engagement message to the user if every gate passes.
// Returns true when a message went out.
func (s *ReengagementService) MaybeSend(ctx context.Context, lc *models.UserLifecycle, now time.Time) (bool, error) {
	tier := messageTierFor(lc.CurrentState)
	if tier == "" || lc.DoNotDisturb {
		return false, nil
	}
	if lc.MessagesSentCount >= config.ReengagementMaxTrajectory {
		return false, nil
	}

	prefs, err := s.prefs.GetOrDefault(ctx, lc.UserID)
	if err != nil {
		return false, err
	}
	if !prefs.ReengagementEnabled || InQuietHours(prefs, now) {
		return false, nil
	}

	last, err := s.lifecycles.GetLastMessage(ctx, lc.UserID)
	if err != nil {
		return false, err
	}
	if last != nil && now.Sub(last.SentAt) < config.ReengagementMinGap {
		return false, nil
	}

	sentToday, err := s.lifecycles.CountMessagesSince(ctx, lc.UserID, localMidnight(prefs, now))
	if err != nil {
		return false, err
	}
	if sentToday >= prefs.MaxMessagesPerDay {
		return false, nil
	}

	if _, err := s.gateway.SendMessage(ctx, lc.UserID, reengagementVoice[tier], nil); err != nil {
		return false, err
	}
	if err := s.lifecycles.InsertReengagement(ctx, &models.ReengagementLog{
		UserID:      lc.UserID,
		MessageType: tier,
		SentAt:      now,
	}); err != nil {
		return false, err
	}

	lc.MessagesSentCount++
	sentAt := now
	lc.LastMessageSent = &sentAt
	if err := s.lifecycles.Update(ctx, lc); err != nil {
		return false, err
	}

	slog.Info("Re-engagement sent",
		slog.String("type", "sys"),
		slog.Int64("user_id", lc.UserID),
		slog.String("tier", tier),
	)
	return true, nil
}

// SweepDue walks every lapsed user and attempts one send each. Run every few
// hours; the per-user gates make repeats harmless.
func (s *ReengagementService) SweepDue(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.lifecycles.GetInactiveSince(ctx, now.Add(-config.ActiveMaxInactive))
	if err != nil {
		return 0, err
	}

	// Lost users were dropped from the inactivity sweep but still get the
	// final-tier message while under the trajectory cap.
	lost, err := s.lifecycles.GetByState(ctx, models.StateLost)
	if err != nil {
		return 0, err
	}
	candidates = append(candidates, lost...)

	sent := 0
	for _, lc := range candidates {
		ok, err := s.MaybeSend(ctx, lc, now)
		if err != nil {
			slog.Error("Re-engagement send failed",
				slog.String("type", "error"),
				slog.Int64("user_id", lc.UserID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if ok {
			sent++
		}
	}
	return sent, nil
}

func localMidnight(prefs *models.NotificationPreferences, now time.Time) time.Time {
	loc, err := time.LoadLocation(prefs.Timezone)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
