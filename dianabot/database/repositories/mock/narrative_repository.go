package mock

import (
	context "context"
	reflect "reflect"

	models "github.com/dianabot/dianabot/dianabot/database/models"
	gomock "go.uber.org/mock/gomock"
)

// MockNarrativeRepository is a mock of NarrativeRepository interface.
type MockNarrativeRepository struct {
	ctrl     *gomock.Controller
	recorder *MockNarrativeRepositoryMockRecorder
	isgomock struct{}
}

// MockNarrativeRepositoryMockRecorder is the mock recorder for MockNarrativeRepository.
type MockNarrativeRepositoryMockRecorder struct {
	mock *MockNarrativeRepository
}

// NewMockNarrativeRepository creates a new mock instance.
func NewMockNarrativeRepository(ctrl *gomock.Controller) *MockNarrativeRepository {
	mock := &MockNarrativeRepository{ctrl: ctrl}
	mock.recorder = &MockNarrativeRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockNarrativeRepository) EXPECT() *MockNarrativeRepositoryMockRecorder {
	return m.recorder
}

// CountActiveFragments mocks base method.
func (m *MockNarrativeRepository) CountActiveFragments(ctx context.Context) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountActiveFragments", ctx)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountActiveFragments indicates an expected call of CountActiveFragments.
func (mr *MockNarrativeRepositoryMockRecorder) CountActiveFragments(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountActiveFragments", reflect.TypeOf((*MockNarrativeRepository)(nil).CountActiveFragments), ctx)
}

// CountAttempts mocks base method.
func (m *MockNarrativeRepository) CountAttempts(ctx context.Context, userID, challengeID int64) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountAttempts", ctx, userID, challengeID)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountAttempts indicates an expected call of CountAttempts.
func (mr *MockNarrativeRepositoryMockRecorder) CountAttempts(ctx, userID, challengeID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountAttempts", reflect.TypeOf((*MockNarrativeRepository)(nil).CountAttempts), ctx, userID, challengeID)
}

// CountChapterFragments mocks base method.
func (m *MockNarrativeRepository) CountChapterFragments(ctx context.Context, chapterID int64) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountChapterFragments", ctx, chapterID)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountChapterFragments indicates an expected call of CountChapterFragments.
func (mr *MockNarrativeRepositoryMockRecorder) CountChapterFragments(ctx, chapterID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountChapterFragments", reflect.TypeOf((*MockNarrativeRepository)(nil).CountChapterFragments), ctx, chapterID)
}

// CountCorrectAttempts mocks base method.
func (m *MockNarrativeRepository) CountCorrectAttempts(ctx context.Context, userID int64) (int, int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountCorrectAttempts", ctx, userID)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(int)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// CountCorrectAttempts indicates an expected call of CountCorrectAttempts.
func (mr *MockNarrativeRepositoryMockRecorder) CountCorrectAttempts(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountCorrectAttempts", reflect.TypeOf((*MockNarrativeRepository)(nil).CountCorrectAttempts), ctx, userID)
}

// GetActiveVariants mocks base method.
func (m *MockNarrativeRepository) GetActiveVariants(ctx context.Context, fragmentKey string) ([]*models.FragmentVariant, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetActiveVariants", ctx, fragmentKey)
	ret0, _ := ret[0].([]*models.FragmentVariant)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetActiveVariants indicates an expected call of GetActiveVariants.
func (mr *MockNarrativeRepositoryMockRecorder) GetActiveVariants(ctx, fragmentKey any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetActiveVariants", reflect.TypeOf((*MockNarrativeRepository)(nil).GetActiveVariants), ctx, fragmentKey)
}

// GetChallenge mocks base method.
func (m *MockNarrativeRepository) GetChallenge(ctx context.Context, fragmentKey string) (*models.FragmentChallenge, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetChallenge", ctx, fragmentKey)
	ret0, _ := ret[0].(*models.FragmentChallenge)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetChallenge indicates an expected call of GetChallenge.
func (mr *MockNarrativeRepositoryMockRecorder) GetChallenge(ctx, fragmentKey any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetChallenge", reflect.TypeOf((*MockNarrativeRepository)(nil).GetChallenge), ctx, fragmentKey)
}

// GetChapter mocks base method.
func (m *MockNarrativeRepository) GetChapter(ctx context.Context, chapterID int64) (*models.NarrativeChapter, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetChapter", ctx, chapterID)
	ret0, _ := ret[0].(*models.NarrativeChapter)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetChapter indicates an expected call of GetChapter.
func (mr *MockNarrativeRepositoryMockRecorder) GetChapter(ctx, chapterID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetChapter", reflect.TypeOf((*MockNarrativeRepository)(nil).GetChapter), ctx, chapterID)
}

// GetChapterAfter mocks base method.
func (m *MockNarrativeRepository) GetChapterAfter(ctx context.Context, order int) (*models.NarrativeChapter, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetChapterAfter", ctx, order)
	ret0, _ := ret[0].(*models.NarrativeChapter)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetChapterAfter indicates an expected call of GetChapterAfter.
func (mr *MockNarrativeRepositoryMockRecorder) GetChapterAfter(ctx, order any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetChapterAfter", reflect.TypeOf((*MockNarrativeRepository)(nil).GetChapterAfter), ctx, order)
}

// GetChapterBySlug mocks base method.
func (m *MockNarrativeRepository) GetChapterBySlug(ctx context.Context, slug string) (*models.NarrativeChapter, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetChapterBySlug", ctx, slug)
	ret0, _ := ret[0].(*models.NarrativeChapter)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetChapterBySlug indicates an expected call of GetChapterBySlug.
func (mr *MockNarrativeRepositoryMockRecorder) GetChapterBySlug(ctx, slug any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetChapterBySlug", reflect.TypeOf((*MockNarrativeRepository)(nil).GetChapterBySlug), ctx, slug)
}

// GetDecision mocks base method.
func (m *MockNarrativeRepository) GetDecision(ctx context.Context, decisionID int64) (*models.FragmentDecision, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetDecision", ctx, decisionID)
	ret0, _ := ret[0].(*models.FragmentDecision)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetDecision indicates an expected call of GetDecision.
func (mr *MockNarrativeRepositoryMockRecorder) GetDecision(ctx, decisionID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetDecision", reflect.TypeOf((*MockNarrativeRepository)(nil).GetDecision), ctx, decisionID)
}

// GetEntryFragment mocks base method.
func (m *MockNarrativeRepository) GetEntryFragment(ctx context.Context, chapterID int64) (*models.NarrativeFragment, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetEntryFragment", ctx, chapterID)
	ret0, _ := ret[0].(*models.NarrativeFragment)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetEntryFragment indicates an expected call of GetEntryFragment.
func (mr *MockNarrativeRepositoryMockRecorder) GetEntryFragment(ctx, chapterID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetEntryFragment", reflect.TypeOf((*MockNarrativeRepository)(nil).GetEntryFragment), ctx, chapterID)
}

// GetFirstEntryFragment mocks base method.
func (m *MockNarrativeRepository) GetFirstEntryFragment(ctx context.Context) (*models.NarrativeFragment, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetFirstEntryFragment", ctx)
	ret0, _ := ret[0].(*models.NarrativeFragment)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetFirstEntryFragment indicates an expected call of GetFirstEntryFragment.
func (mr *MockNarrativeRepositoryMockRecorder) GetFirstEntryFragment(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetFirstEntryFragment", reflect.TypeOf((*MockNarrativeRepository)(nil).GetFirstEntryFragment), ctx)
}

// GetFragmentByID mocks base method.
func (m *MockNarrativeRepository) GetFragmentByID(ctx context.Context, fragmentID int64) (*models.NarrativeFragment, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetFragmentByID", ctx, fragmentID)
	ret0, _ := ret[0].(*models.NarrativeFragment)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetFragmentByID indicates an expected call of GetFragmentByID.
func (mr *MockNarrativeRepositoryMockRecorder) GetFragmentByID(ctx, fragmentID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetFragmentByID", reflect.TypeOf((*MockNarrativeRepository)(nil).GetFragmentByID), ctx, fragmentID)
}

// GetFragmentByKey mocks base method.
func (m *MockNarrativeRepository) GetFragmentByKey(ctx context.Context, fragmentKey string) (*models.NarrativeFragment, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetFragmentByKey", ctx, fragmentKey)
	ret0, _ := ret[0].(*models.NarrativeFragment)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetFragmentByKey indicates an expected call of GetFragmentByKey.
func (mr *MockNarrativeRepositoryMockRecorder) GetFragmentByKey(ctx, fragmentKey any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetFragmentByKey", reflect.TypeOf((*MockNarrativeRepository)(nil).GetFragmentByKey), ctx, fragmentKey)
}

// GetTimeWindow mocks base method.
func (m *MockNarrativeRepository) GetTimeWindow(ctx context.Context, fragmentKey string) (*models.FragmentTimeWindow, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetTimeWindow", ctx, fragmentKey)
	ret0, _ := ret[0].(*models.FragmentTimeWindow)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetTimeWindow indicates an expected call of GetTimeWindow.
func (mr *MockNarrativeRepositoryMockRecorder) GetTimeWindow(ctx, fragmentKey any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetTimeWindow", reflect.TypeOf((*MockNarrativeRepository)(nil).GetTimeWindow), ctx, fragmentKey)
}

// InsertAttempt mocks base method.
func (m *MockNarrativeRepository) InsertAttempt(ctx context.Context, attempt *models.ChallengeAttempt) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "InsertAttempt", ctx, attempt)
	ret0, _ := ret[0].(error)
	return ret0
}

// InsertAttempt indicates an expected call of InsertAttempt.
func (mr *MockNarrativeRepositoryMockRecorder) InsertAttempt(ctx, attempt any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "InsertAttempt", reflect.TypeOf((*MockNarrativeRepository)(nil).InsertAttempt), ctx, attempt)
}
