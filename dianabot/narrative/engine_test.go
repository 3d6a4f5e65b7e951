package narrative

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/dianabot/dianabot/dianabot/database/repositories/mock"
	"github.com/dianabot/dianabot/dianabot/derrors"
)

func Test_Engine_TakeDecision_rejectsStaleDecision(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	ctrl := gomock.NewController(t)

	narr := mock.NewMockNarrativeRepository(ctrl)
	narr.EXPECT().GetDecision(gomock.Any(), int64(5)).
		Return(&models.FragmentDecision{ID: 5, FragmentID: 9}, nil)
	narr.EXPECT().GetFragmentByID(gomock.Any(), int64(9)).
		Return(&models.NarrativeFragment{ID: 9, FragmentKey: "cap1_beso"}, nil)

	progress := mock.NewMockProgressRepository(ctrl)
	progress.EXPECT().GetOrCreate(gomock.Any(), int64(7)).
		Return(&models.UserNarrativeProgress{UserID: 7, CurrentFragmentKey: "cap2_umbral"}, nil)

	e := &Engine{narrative: narr, progress: progress}
	_, err := e.TakeDecision(context.Background(), 7, 5, now)
	if !errors.Is(err, derrors.ErrInvalidInput) {
		t.Errorf("decision from an old message = %v, want %v", err, derrors.ErrInvalidInput)
	}
}

func Test_Engine_TakeDecision_unknownDecision(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	ctrl := gomock.NewController(t)

	narr := mock.NewMockNarrativeRepository(ctrl)
	narr.EXPECT().GetDecision(gomock.Any(), int64(404)).
		Return(nil, &repositories.NotFoundError{Entity: "decision", ID: 404})

	e := &Engine{narrative: narr}
	_, err := e.TakeDecision(context.Background(), 7, 404, now)
	if !errors.Is(err, derrors.ErrNotFound) {
		t.Errorf("unknown decision = %v, want %v", err, derrors.ErrNotFound)
	}
}
