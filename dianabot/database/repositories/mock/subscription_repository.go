package mock

import (
	context "context"
	reflect "reflect"
	time "time"

	models "github.com/dianabot/dianabot/dianabot/database/models"
	gomock "go.uber.org/mock/gomock"
)

// MockSubscriptionRepository is a mock of SubscriptionRepository interface.
type MockSubscriptionRepository struct {
	ctrl     *gomock.Controller
	recorder *MockSubscriptionRepositoryMockRecorder
	isgomock struct{}
}

// MockSubscriptionRepositoryMockRecorder is the mock recorder for MockSubscriptionRepository.
type MockSubscriptionRepositoryMockRecorder struct {
	mock *MockSubscriptionRepository
}

// NewMockSubscriptionRepository creates a new mock instance.
func NewMockSubscriptionRepository(ctrl *gomock.Controller) *MockSubscriptionRepository {
	mock := &MockSubscriptionRepository{ctrl: ctrl}
	mock.recorder = &MockSubscriptionRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockSubscriptionRepository) EXPECT() *MockSubscriptionRepositoryMockRecorder {
	return m.recorder
}

// CreatePlan mocks base method.
func (m *MockSubscriptionRepository) CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreatePlan", ctx, plan)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreatePlan indicates an expected call of CreatePlan.
func (mr *MockSubscriptionRepositoryMockRecorder) CreatePlan(ctx, plan any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreatePlan", reflect.TypeOf((*MockSubscriptionRepository)(nil).CreatePlan), ctx, plan)
}

// CreateToken mocks base method.
func (m *MockSubscriptionRepository) CreateToken(ctx context.Context, token *models.InvitationToken) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateToken", ctx, token)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateToken indicates an expected call of CreateToken.
func (mr *MockSubscriptionRepositoryMockRecorder) CreateToken(ctx, token any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateToken", reflect.TypeOf((*MockSubscriptionRepository)(nil).CreateToken), ctx, token)
}

// GetActivePlans mocks base method.
func (m *MockSubscriptionRepository) GetActivePlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetActivePlans", ctx)
	ret0, _ := ret[0].([]*models.SubscriptionPlan)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetActivePlans indicates an expected call of GetActivePlans.
func (mr *MockSubscriptionRepositoryMockRecorder) GetActivePlans(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetActivePlans", reflect.TypeOf((*MockSubscriptionRepository)(nil).GetActivePlans), ctx)
}

// GetExpiredActive mocks base method.
func (m *MockSubscriptionRepository) GetExpiredActive(ctx context.Context, now time.Time) ([]*models.VIPSubscriber, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetExpiredActive", ctx, now)
	ret0, _ := ret[0].([]*models.VIPSubscriber)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetExpiredActive indicates an expected call of GetExpiredActive.
func (mr *MockSubscriptionRepositoryMockRecorder) GetExpiredActive(ctx, now any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetExpiredActive", reflect.TypeOf((*MockSubscriptionRepository)(nil).GetExpiredActive), ctx, now)
}

// GetPlan mocks base method.
func (m *MockSubscriptionRepository) GetPlan(ctx context.Context, planID int64) (*models.SubscriptionPlan, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetPlan", ctx, planID)
	ret0, _ := ret[0].(*models.SubscriptionPlan)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetPlan indicates an expected call of GetPlan.
func (mr *MockSubscriptionRepositoryMockRecorder) GetPlan(ctx, planID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetPlan", reflect.TypeOf((*MockSubscriptionRepository)(nil).GetPlan), ctx, planID)
}

// GetSubscriber mocks base method.
func (m *MockSubscriptionRepository) GetSubscriber(ctx context.Context, userID int64) (*models.VIPSubscriber, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetSubscriber", ctx, userID)
	ret0, _ := ret[0].(*models.VIPSubscriber)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetSubscriber indicates an expected call of GetSubscriber.
func (mr *MockSubscriptionRepositoryMockRecorder) GetSubscriber(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetSubscriber", reflect.TypeOf((*MockSubscriptionRepository)(nil).GetSubscriber), ctx, userID)
}

// GetTokenForUpdate mocks base method.
func (m *MockSubscriptionRepository) GetTokenForUpdate(ctx context.Context, token string) (*models.InvitationToken, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetTokenForUpdate", ctx, token)
	ret0, _ := ret[0].(*models.InvitationToken)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetTokenForUpdate indicates an expected call of GetTokenForUpdate.
func (mr *MockSubscriptionRepositoryMockRecorder) GetTokenForUpdate(ctx, token any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetTokenForUpdate", reflect.TypeOf((*MockSubscriptionRepository)(nil).GetTokenForUpdate), ctx, token)
}

// MarkTokenUsed mocks base method.
func (m *MockSubscriptionRepository) MarkTokenUsed(ctx context.Context, tokenID, usedBy int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkTokenUsed", ctx, tokenID, usedBy)
	ret0, _ := ret[0].(error)
	return ret0
}

// MarkTokenUsed indicates an expected call of MarkTokenUsed.
func (mr *MockSubscriptionRepositoryMockRecorder) MarkTokenUsed(ctx, tokenID, usedBy any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkTokenUsed", reflect.TypeOf((*MockSubscriptionRepository)(nil).MarkTokenUsed), ctx, tokenID, usedBy)
}

// SetStatus mocks base method.
func (m *MockSubscriptionRepository) SetStatus(ctx context.Context, subscriberID int64, status string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetStatus", ctx, subscriberID, status)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetStatus indicates an expected call of SetStatus.
func (mr *MockSubscriptionRepositoryMockRecorder) SetStatus(ctx, subscriberID, status any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetStatus", reflect.TypeOf((*MockSubscriptionRepository)(nil).SetStatus), ctx, subscriberID, status)
}

// UpsertSubscriber mocks base method.
func (m *MockSubscriptionRepository) UpsertSubscriber(ctx context.Context, sub *models.VIPSubscriber) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpsertSubscriber", ctx, sub)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpsertSubscriber indicates an expected call of UpsertSubscriber.
func (mr *MockSubscriptionRepositoryMockRecorder) UpsertSubscriber(ctx, sub any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpsertSubscriber", reflect.TypeOf((*MockSubscriptionRepository)(nil).UpsertSubscriber), ctx, sub)
}
