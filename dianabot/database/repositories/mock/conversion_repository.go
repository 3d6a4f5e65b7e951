package mock

import (
	context "context"
	reflect "reflect"
	time "time"

	models "github.com/dianabot/dianabot/dianabot/database/models"
	gomock "go.uber.org/mock/gomock"
)

// MockConversionRepository is a mock of ConversionRepository interface.
type MockConversionRepository struct {
	ctrl     *gomock.Controller
	recorder *MockConversionRepositoryMockRecorder
	isgomock struct{}
}

// MockConversionRepositoryMockRecorder is the mock recorder for MockConversionRepository.
type MockConversionRepositoryMockRecorder struct {
	mock *MockConversionRepository
}

// NewMockConversionRepository creates a new mock instance.
func NewMockConversionRepository(ctrl *gomock.Controller) *MockConversionRepository {
	mock := &MockConversionRepository{ctrl: ctrl}
	mock.recorder = &MockConversionRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockConversionRepository) EXPECT() *MockConversionRepositoryMockRecorder {
	return m.recorder
}

// CountShownSince mocks base method.
func (m *MockConversionRepository) CountShownSince(ctx context.Context, userID int64, since time.Time) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountShownSince", ctx, userID, since)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountShownSince indicates an expected call of CountShownSince.
func (mr *MockConversionRepositoryMockRecorder) CountShownSince(ctx, userID, since any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountShownSince", reflect.TypeOf((*MockConversionRepository)(nil).CountShownSince), ctx, userID, since)
}

// GetEvents mocks base method.
func (m *MockConversionRepository) GetEvents(ctx context.Context, userID int64, limit int) ([]*models.ConversionEvent, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetEvents", ctx, userID, limit)
	ret0, _ := ret[0].([]*models.ConversionEvent)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetEvents indicates an expected call of GetEvents.
func (mr *MockConversionRepositoryMockRecorder) GetEvents(ctx, userID, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetEvents", reflect.TypeOf((*MockConversionRepository)(nil).GetEvents), ctx, userID, limit)
}

// GetLastEvent mocks base method.
func (m *MockConversionRepository) GetLastEvent(ctx context.Context, userID int64, eventType string) (*models.ConversionEvent, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetLastEvent", ctx, userID, eventType)
	ret0, _ := ret[0].(*models.ConversionEvent)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetLastEvent indicates an expected call of GetLastEvent.
func (mr *MockConversionRepositoryMockRecorder) GetLastEvent(ctx, userID, eventType any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetLastEvent", reflect.TypeOf((*MockConversionRepository)(nil).GetLastEvent), ctx, userID, eventType)
}

// GetLastOfferEvent mocks base method.
func (m *MockConversionRepository) GetLastOfferEvent(ctx context.Context, userID int64, offerType, eventType string) (*models.ConversionEvent, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetLastOfferEvent", ctx, userID, offerType, eventType)
	ret0, _ := ret[0].(*models.ConversionEvent)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetLastOfferEvent indicates an expected call of GetLastOfferEvent.
func (mr *MockConversionRepositoryMockRecorder) GetLastOfferEvent(ctx, userID, offerType, eventType any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetLastOfferEvent", reflect.TypeOf((*MockConversionRepository)(nil).GetLastOfferEvent), ctx, userID, offerType, eventType)
}

// Insert mocks base method.
func (m *MockConversionRepository) Insert(ctx context.Context, event *models.ConversionEvent) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Insert", ctx, event)
	ret0, _ := ret[0].(error)
	return ret0
}

// Insert indicates an expected call of Insert.
func (mr *MockConversionRepositoryMockRecorder) Insert(ctx, event any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Insert", reflect.TypeOf((*MockConversionRepository)(nil).Insert), ctx, event)
}
