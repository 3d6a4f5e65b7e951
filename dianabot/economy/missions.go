package economy

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/dianabot/dianabot/dianabot/derrors"
	"github.com/uptrace/bun"
)

// MissionService advances mission progress from user events and settles
// claims through the ledger.
type MissionService struct {
	missions repositories.MissionRepository
	streaks  repositories.StreakRepository
	ledger   *LedgerService
}

func NewMissionService(db bun.IDB) *MissionService {
	return &MissionService{
		missions: repositories.NewMissionRepository(db),
		streaks:  repositories.NewStreakRepository(db),
		ledger:   NewLedgerService(db),
	}
}

// RecordEvent bumps progress on every active mission listening for the event
// type and returns the missions that just transitioned to COMPLETED.
func (s *MissionService) RecordEvent(ctx context.Context, userID int64, eventType string, now time.Time) ([]*models.UserMission, error) {
	missions, err := s.missions.GetActiveByEvent(ctx, eventType)
	if err != nil {
		return nil, err
	}

	var completed []*models.UserMission
	for _, m := range missions {
		um, err := s.advance(ctx, userID, m, now)
		if err != nil {
			return nil, err
		}
		if um != nil {
			completed = append(completed, um)
		}
	}
	return completed, nil
}

func (s *MissionService) advance(ctx context.Context, userID int64, m *models.Mission, now time.Time) (*models.UserMission, error) {
	if m.Type == models.MissionOneTime {
		done, err := s.missions.HasEverCompleted(ctx, userID, m.ID)
		if err != nil {
			return nil, err
		}
		if done {
			return nil, nil
		}
	}

	um, err := s.missions.LocateOrCreateWindow(ctx, userID, m.ID, WindowStart(m.Type, now))
	if err != nil {
		return nil, err
	}
	if um.Status != models.MissionInProgress {
		return nil, nil
	}

	target := m.Criteria.Count
	if m.Type == models.MissionStreak {
		target = m.Criteria.StreakDays
		streak, err := s.streaks.GetOrCreate(ctx, userID)
		if err != nil {
			return nil, err
		}
		um.Progress = streak.CurrentStreak
	} else {
		um.Progress++
	}
	if target <= 0 {
		target = 1
	}

	if um.Progress >= target {
		um.Status = models.MissionCompleted
		at := now
		um.CompletedAt = &at
		slog.Info("Mission completed",
			slog.String("type", "sys"),
			slog.Int64("user_id", userID),
			slog.String("mission", m.MissionKey),
		)
	}
	if err := s.missions.UpdateUserMission(ctx, um); err != nil {
		return nil, err
	}
	if um.Status != models.MissionCompleted {
		return nil, nil
	}
	um.Mission = m
	return um, nil
}

// Claim settles a COMPLETED mission: grants the reward through the ledger and
// marks the row CLAIMED.
func (s *MissionService) Claim(ctx context.Context, userID, missionID int64, windowStart time.Time) (*LedgerResult, error) {
	um, err := s.missions.GetUserMission(ctx, userID, missionID, windowStart)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, derrors.Wrap(derrors.ErrNotFound, "mission %d has no progress", missionID)
		}
		return nil, err
	}
	if um.Status != models.MissionCompleted {
		return nil, derrors.Wrap(derrors.ErrInvalidInput, "mission %d is %s, not claimable", missionID, um.Status)
	}

	mission := um.Mission
	if mission == nil {
		mission, err = s.missions.GetByID(ctx, missionID)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	um.Status = models.MissionClaimed
	um.ClaimedAt = &now
	if err := s.missions.UpdateUserMission(ctx, um); err != nil {
		return nil, err
	}

	if mission.BesitosReward <= 0 {
		return &LedgerResult{}, nil
	}
	return s.ledger.Grant(ctx, userID, mission.BesitosReward,
		models.TxnMissionReward,
		fmt.Sprintf("Misión completada: %s", mission.Name),
		fmt.Sprintf("mission:%d:%d", missionID, um.ID))
}

func (s *MissionService) Overview(ctx context.Context, userID int64) ([]*models.UserMission, error) {
	return s.missions.GetUserMissions(ctx, userID)
}

func (s *MissionService) Claimable(ctx context.Context, userID int64) ([]*models.UserMission, error) {
	return s.missions.GetCompletedUnclaimed(ctx, userID)
}

// WindowStart maps an instant to the mission's reset boundary: UTC midnight
// for DAILY, ISO-week Monday for WEEKLY, the zero time otherwise.
func WindowStart(missionType string, now time.Time) time.Time {
	now = now.UTC()
	switch missionType {
	case models.MissionDaily:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case models.MissionWeekly:
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		weekday := int(day.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		return day.AddDate(0, 0, -(weekday - 1))
	default:
		return time.Time{}
	}
}
