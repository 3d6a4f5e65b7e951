package conversion

import (
	"context"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories/mock"
)

func Test_Engine_Suppressed(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	userID := int64(42)

	event := func(age time.Duration) *models.ConversionEvent {
		return &models.ConversionEvent{
			UserID:    userID,
			OfferType: models.OfferFreeToVIP,
			CreatedAt: now.Add(-age),
		}
	}

	tests := []struct {
		name     string
		accepted *models.ConversionEvent
		declined *models.ConversionEvent
		want     bool
	}{
		{"no history", nil, nil, false},
		{"fresh accept quiets the type", event(10 * 24 * time.Hour), nil, true},
		{"old accept has expired", event(31 * 24 * time.Hour), nil, false},
		{"fresh decline quiets the type", nil, event(2 * 24 * time.Hour), true},
		{"old decline has expired", nil, event(8 * 24 * time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := mock.NewMockConversionRepository(gomock.NewController(t))
			events.EXPECT().
				GetLastOfferEvent(gomock.Any(), userID, models.OfferFreeToVIP, models.OfferAccepted).
				Return(tt.accepted, nil)
			if tt.accepted == nil || now.Sub(tt.accepted.CreatedAt) >= 30*24*time.Hour {
				events.EXPECT().
					GetLastOfferEvent(gomock.Any(), userID, models.OfferFreeToVIP, models.OfferDeclined).
					Return(tt.declined, nil)
			}

			e := &Engine{events: events}
			got, err := e.Suppressed(context.Background(), userID, models.OfferFreeToVIP, now)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Suppressed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_Engine_RecordDeclined(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	events := mock.NewMockConversionRepository(gomock.NewController(t))
	events.EXPECT().
		Insert(gomock.Any(), gomock.Cond(func(x any) bool {
			ev, ok := x.(*models.ConversionEvent)
			return ok && ev.UserID == 42 &&
				ev.EventType == models.OfferDeclined &&
				ev.OfferType == models.OfferExclusiveBadge &&
				ev.CreatedAt.Equal(now)
		})).
		Return(nil)

	e := &Engine{events: events}
	if err := e.RecordDeclined(context.Background(), 42, models.OfferExclusiveBadge, now); err != nil {
		t.Fatal(err)
	}
}
