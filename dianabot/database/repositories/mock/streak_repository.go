package mock

import (
	context "context"
	reflect "reflect"
	time "time"

	models "github.com/dianabot/dianabot/dianabot/database/models"
	gomock "go.uber.org/mock/gomock"
)

// MockStreakRepository is a mock of StreakRepository interface.
type MockStreakRepository struct {
	ctrl     *gomock.Controller
	recorder *MockStreakRepositoryMockRecorder
	isgomock struct{}
}

// MockStreakRepositoryMockRecorder is the mock recorder for MockStreakRepository.
type MockStreakRepositoryMockRecorder struct {
	mock *MockStreakRepository
}

// NewMockStreakRepository creates a new mock instance.
func NewMockStreakRepository(ctrl *gomock.Controller) *MockStreakRepository {
	mock := &MockStreakRepository{ctrl: ctrl}
	mock.recorder = &MockStreakRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStreakRepository) EXPECT() *MockStreakRepositoryMockRecorder {
	return m.recorder
}

// GetBroken mocks base method.
func (m *MockStreakRepository) GetBroken(ctx context.Context, before time.Time) ([]*models.UserStreak, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetBroken", ctx, before)
	ret0, _ := ret[0].([]*models.UserStreak)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetBroken indicates an expected call of GetBroken.
func (mr *MockStreakRepositoryMockRecorder) GetBroken(ctx, before any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetBroken", reflect.TypeOf((*MockStreakRepository)(nil).GetBroken), ctx, before)
}

// GetOrCreate mocks base method.
func (m *MockStreakRepository) GetOrCreate(ctx context.Context, userID int64) (*models.UserStreak, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetOrCreate", ctx, userID)
	ret0, _ := ret[0].(*models.UserStreak)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetOrCreate indicates an expected call of GetOrCreate.
func (mr *MockStreakRepositoryMockRecorder) GetOrCreate(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetOrCreate", reflect.TypeOf((*MockStreakRepository)(nil).GetOrCreate), ctx, userID)
}

// Update mocks base method.
func (m *MockStreakRepository) Update(ctx context.Context, streak *models.UserStreak) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, streak)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update.
func (mr *MockStreakRepositoryMockRecorder) Update(ctx, streak any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockStreakRepository)(nil).Update), ctx, streak)
}
