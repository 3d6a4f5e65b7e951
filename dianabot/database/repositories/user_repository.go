package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/uptrace/bun"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	// GetOrCreate loads the user or registers them on first interaction.
	GetOrCreate(ctx context.Context, telegramID int64, username, firstName, lastName string) (*models.User, bool, error)
	Update(ctx context.Context, user *models.User) error
	SetRole(ctx context.Context, telegramID int64, role string) error
	GetAll(ctx context.Context) ([]*models.User, error)
}

type userRepository struct {
	db bun.IDB
}

func NewUserRepository(db bun.IDB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(user).Exec(ctx)
	return err
}

func (r *userRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("telegram_id = ?", telegramID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: "user", ID: telegramID}
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetOrCreate(ctx context.Context, telegramID int64, username, firstName, lastName string) (*models.User, bool, error) {
	user, err := r.GetByTelegramID(ctx, telegramID)
	if err == nil {
		return user, false, nil
	}
	if !IsNotFound(err) {
		return nil, false, err
	}

	user = &models.User{
		TelegramID: telegramID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
		Role:       models.RoleFree,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	// Concurrent first interactions resolve by insert-or-fetch.
	_, err = r.db.NewInsert().
		Model(user).
		On("CONFLICT (telegram_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, false, err
	}
	created, err := r.GetByTelegramID(ctx, telegramID)
	return created, true, err
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(user).
		WherePK().
		Exec(ctx)
	return err
}

func (r *userRepository) SetRole(ctx context.Context, telegramID int64, role string) error {
	_, err := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("role = ?", role).
		Set("updated_at = ?", time.Now()).
		Where("telegram_id = ?", telegramID).
		Exec(ctx)
	return err
}

func (r *userRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.db.NewSelect().
		Model(&users).
		Order("telegram_id ASC").
		Scan(ctx)
	return users, err
}
