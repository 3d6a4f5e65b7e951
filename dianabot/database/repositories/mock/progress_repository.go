package mock

import (
	context "context"
	reflect "reflect"
	time "time"

	models "github.com/dianabot/dianabot/dianabot/database/models"
	gomock "go.uber.org/mock/gomock"
)

// MockProgressRepository is a mock of ProgressRepository interface.
type MockProgressRepository struct {
	ctrl     *gomock.Controller
	recorder *MockProgressRepositoryMockRecorder
	isgomock struct{}
}

// MockProgressRepositoryMockRecorder is the mock recorder for MockProgressRepository.
type MockProgressRepositoryMockRecorder struct {
	mock *MockProgressRepository
}

// NewMockProgressRepository creates a new mock instance.
func NewMockProgressRepository(ctrl *gomock.Controller) *MockProgressRepository {
	mock := &MockProgressRepository{ctrl: ctrl}
	mock.recorder = &MockProgressRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockProgressRepository) EXPECT() *MockProgressRepositoryMockRecorder {
	return m.recorder
}

// AvgResponseTime mocks base method.
func (m *MockProgressRepository) AvgResponseTime(ctx context.Context, userID int64) (float64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AvgResponseTime", ctx, userID)
	ret0, _ := ret[0].(float64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// AvgResponseTime indicates an expected call of AvgResponseTime.
func (mr *MockProgressRepositoryMockRecorder) AvgResponseTime(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AvgResponseTime", reflect.TypeOf((*MockProgressRepository)(nil).AvgResponseTime), ctx, userID)
}

// CountDecisions mocks base method.
func (m *MockProgressRepository) CountDecisions(ctx context.Context, userID int64) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountDecisions", ctx, userID)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountDecisions indicates an expected call of CountDecisions.
func (mr *MockProgressRepositoryMockRecorder) CountDecisions(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountDecisions", reflect.TypeOf((*MockProgressRepository)(nil).CountDecisions), ctx, userID)
}

// CountDecisionsBetween mocks base method.
func (m *MockProgressRepository) CountDecisionsBetween(ctx context.Context, userID int64, from, to time.Time) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountDecisionsBetween", ctx, userID, from, to)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountDecisionsBetween indicates an expected call of CountDecisionsBetween.
func (mr *MockProgressRepositoryMockRecorder) CountDecisionsBetween(ctx, userID, from, to any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountDecisionsBetween", reflect.TypeOf((*MockProgressRepository)(nil).CountDecisionsBetween), ctx, userID, from, to)
}

// CountDecisionsInChapter mocks base method.
func (m *MockProgressRepository) CountDecisionsInChapter(ctx context.Context, userID, chapterID int64) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountDecisionsInChapter", ctx, userID, chapterID)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountDecisionsInChapter indicates an expected call of CountDecisionsInChapter.
func (mr *MockProgressRepositoryMockRecorder) CountDecisionsInChapter(ctx, userID, chapterID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountDecisionsInChapter", reflect.TypeOf((*MockProgressRepository)(nil).CountDecisionsInChapter), ctx, userID, chapterID)
}

// CountDistinctDecisions mocks base method.
func (m *MockProgressRepository) CountDistinctDecisions(ctx context.Context, userID int64) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountDistinctDecisions", ctx, userID)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountDistinctDecisions indicates an expected call of CountDistinctDecisions.
func (mr *MockProgressRepositoryMockRecorder) CountDistinctDecisions(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountDistinctDecisions", reflect.TypeOf((*MockProgressRepository)(nil).CountDistinctDecisions), ctx, userID)
}

// CountRapidDecisions mocks base method.
func (m *MockProgressRepository) CountRapidDecisions(ctx context.Context, userID int64, underSeconds float64) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountRapidDecisions", ctx, userID, underSeconds)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountRapidDecisions indicates an expected call of CountRapidDecisions.
func (mr *MockProgressRepositoryMockRecorder) CountRapidDecisions(ctx, userID, underSeconds any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountRapidDecisions", reflect.TypeOf((*MockProgressRepository)(nil).CountRapidDecisions), ctx, userID, underSeconds)
}

// GetChapterCompletions mocks base method.
func (m *MockProgressRepository) GetChapterCompletions(ctx context.Context, userID int64) ([]*models.ChapterCompletion, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetChapterCompletions", ctx, userID)
	ret0, _ := ret[0].([]*models.ChapterCompletion)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetChapterCompletions indicates an expected call of GetChapterCompletions.
func (mr *MockProgressRepositoryMockRecorder) GetChapterCompletions(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetChapterCompletions", reflect.TypeOf((*MockProgressRepository)(nil).GetChapterCompletions), ctx, userID)
}

// GetDecisions mocks base method.
func (m *MockProgressRepository) GetDecisions(ctx context.Context, userID int64, limit int) ([]*models.UserDecisionHistory, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetDecisions", ctx, userID, limit)
	ret0, _ := ret[0].([]*models.UserDecisionHistory)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetDecisions indicates an expected call of GetDecisions.
func (mr *MockProgressRepositoryMockRecorder) GetDecisions(ctx, userID, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetDecisions", reflect.TypeOf((*MockProgressRepository)(nil).GetDecisions), ctx, userID, limit)
}

// GetOrCreate mocks base method.
func (m *MockProgressRepository) GetOrCreate(ctx context.Context, userID int64) (*models.UserNarrativeProgress, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetOrCreate", ctx, userID)
	ret0, _ := ret[0].(*models.UserNarrativeProgress)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetOrCreate indicates an expected call of GetOrCreate.
func (mr *MockProgressRepositoryMockRecorder) GetOrCreate(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetOrCreate", reflect.TypeOf((*MockProgressRepository)(nil).GetOrCreate), ctx, userID)
}

// HasCompletedChapter mocks base method.
func (m *MockProgressRepository) HasCompletedChapter(ctx context.Context, userID int64, chapterSlug string) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "HasCompletedChapter", ctx, userID, chapterSlug)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// HasCompletedChapter indicates an expected call of HasCompletedChapter.
func (mr *MockProgressRepositoryMockRecorder) HasCompletedChapter(ctx, userID, chapterSlug any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "HasCompletedChapter", reflect.TypeOf((*MockProgressRepository)(nil).HasCompletedChapter), ctx, userID, chapterSlug)
}

// InsertChapterCompletion mocks base method.
func (m *MockProgressRepository) InsertChapterCompletion(ctx context.Context, completion *models.ChapterCompletion) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "InsertChapterCompletion", ctx, completion)
	ret0, _ := ret[0].(error)
	return ret0
}

// InsertChapterCompletion indicates an expected call of InsertChapterCompletion.
func (mr *MockProgressRepositoryMockRecorder) InsertChapterCompletion(ctx, completion any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InsertChapterCompletion", reflect.TypeOf((*MockProgressRepository)(nil).InsertChapterCompletion), ctx, completion)
}

// InsertDecision mocks base method.
func (m *MockProgressRepository) InsertDecision(ctx context.Context, entry *models.UserDecisionHistory) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "InsertDecision", ctx, entry)
	ret0, _ := ret[0].(error)
	return ret0
}

// InsertDecision indicates an expected call of InsertDecision.
func (mr *MockProgressRepositoryMockRecorder) InsertDecision(ctx, entry any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InsertDecision", reflect.TypeOf((*MockProgressRepository)(nil).InsertDecision), ctx, entry)
}

// Update mocks base method.
func (m *MockProgressRepository) Update(ctx context.Context, progress *models.UserNarrativeProgress) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Update", ctx, progress)
	ret0, _ := ret[0].(error)
	return ret0
}

// Update indicates an expected call of Update.
func (mr *MockProgressRepositoryMockRecorder) Update(ctx, progress any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Update", reflect.TypeOf((*MockProgressRepository)(nil).Update), ctx, progress)
}
