package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/uptrace/bun"
)

type MissionRepository interface {
	GetByID(ctx context.Context, missionID int64) (*models.Mission, error)
	GetActiveByEvent(ctx context.Context, eventType string) ([]*models.Mission, error)
	GetActive(ctx context.Context) ([]*models.Mission, error)

	// LocateOrCreateWindow resolves the single UserMission row for
	// (user, mission, window). Creation races resolve by insert-or-fetch
	// under the unique window key.
	LocateOrCreateWindow(ctx context.Context, userID, missionID int64, windowStart time.Time) (*models.UserMission, error)
	UpdateUserMission(ctx context.Context, um *models.UserMission) error
	GetUserMission(ctx context.Context, userID, missionID int64, windowStart time.Time) (*models.UserMission, error)
	GetUserMissions(ctx context.Context, userID int64) ([]*models.UserMission, error)
	GetCompletedUnclaimed(ctx context.Context, userID int64) ([]*models.UserMission, error)
	// HasEverCompleted supports the ONE_TIME no-repeat rule.
	HasEverCompleted(ctx context.Context, userID, missionID int64) (bool, error)
}

type missionRepository struct {
	db bun.IDB
}

func NewMissionRepository(db bun.IDB) MissionRepository {
	return &missionRepository{db: db}
}

func (r *missionRepository) GetByID(ctx context.Context, missionID int64) (*models.Mission, error) {
	mission := new(models.Mission)
	err := r.db.NewSelect().
		Model(mission).
		Where("id = ?", missionID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "mission", ID: missionID}
		}
		return nil, err
	}
	return mission, nil
}

func (r *missionRepository) GetActiveByEvent(ctx context.Context, eventType string) ([]*models.Mission, error) {
	var missions []*models.Mission
	err := r.db.NewSelect().
		Model(&missions).
		Where("active = ?", true).
		Where("criteria->>'event_type' = ?", eventType).
		Order("id ASC").
		Scan(ctx)
	return missions, err
}

func (r *missionRepository) GetActive(ctx context.Context) ([]*models.Mission, error) {
	var missions []*models.Mission
	err := r.db.NewSelect().
		Model(&missions).
		Where("active = ?", true).
		Order("type ASC", "id ASC").
		Scan(ctx)
	return missions, err
}

func (r *missionRepository) LocateOrCreateWindow(ctx context.Context, userID, missionID int64, windowStart time.Time) (*models.UserMission, error) {
	um, err := r.GetUserMission(ctx, userID, missionID, windowStart)
	if err == nil {
		return um, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	um = &models.UserMission{
		UserID:      userID,
		MissionID:   missionID,
		Status:      models.MissionInProgress,
		WindowStart: windowStart,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	_, err = r.db.NewInsert().
		Model(um).
		On("CONFLICT (user_id, mission_id, window_start) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	return r.GetUserMission(ctx, userID, missionID, windowStart)
}

func (r *missionRepository) GetUserMission(ctx context.Context, userID, missionID int64, windowStart time.Time) (*models.UserMission, error) {
	um := new(models.UserMission)
	err := r.db.NewSelect().
		Model(um).
		Relation("Mission").
		Where("um.user_id = ?", userID).
		Where("um.mission_id = ?", missionID).
		Where("um.window_start = ?", windowStart).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "user_mission", ID: missionID}
		}
		return nil, err
	}
	return um, nil
}

func (r *missionRepository) UpdateUserMission(ctx context.Context, um *models.UserMission) error {
	um.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(um).
		WherePK().
		Exec(ctx)
	return err
}

func (r *missionRepository) GetUserMissions(ctx context.Context, userID int64) ([]*models.UserMission, error) {
	var ums []*models.UserMission
	err := r.db.NewSelect().
		Model(&ums).
		Relation("Mission").
		Where("um.user_id = ?", userID).
		Order("um.window_start DESC", "um.mission_id ASC").
		Scan(ctx)
	return ums, err
}

func (r *missionRepository) GetCompletedUnclaimed(ctx context.Context, userID int64) ([]*models.UserMission, error) {
	var ums []*models.UserMission
	err := r.db.NewSelect().
		Model(&ums).
		Relation("Mission").
		Where("um.user_id = ?", userID).
		Where("um.status = ?", models.MissionCompleted).
		Order("um.completed_at ASC").
		Scan(ctx)
	return ums, err
}

func (r *missionRepository) HasEverCompleted(ctx context.Context, userID, missionID int64) (bool, error) {
	return r.db.NewSelect().
		Model((*models.UserMission)(nil)).
		Where("user_id = ?", userID).
		Where("mission_id = ?", missionID).
		Where("status IN (?)", bun.In([]string{models.MissionCompleted, models.MissionClaimed})).
		Exists(ctx)
}
