package subscription

import (
	"context"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories/mock"
)

func Test_Service_FlipExpired(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	ctrl := gomock.NewController(t)

	expired := []*models.VIPSubscriber{
		{ID: 1, UserID: 100, Status: models.SubscriptionActive},
		{ID: 2, UserID: 200, Status: models.SubscriptionActive},
	}

	subs := mock.NewMockSubscriptionRepository(ctrl)
	subs.EXPECT().GetExpiredActive(gomock.Any(), now).Return(expired, nil)
	subs.EXPECT().SetStatus(gomock.Any(), int64(1), models.SubscriptionExpired).Return(nil)
	subs.EXPECT().SetStatus(gomock.Any(), int64(2), models.SubscriptionExpired).Return(nil)

	// User 100 is an admin: status flips but the role stays. User 200 drops
	// back to FREE.
	users := mock.NewMockUserRepository(ctrl)
	users.EXPECT().GetByTelegramID(gomock.Any(), int64(100)).
		Return(&models.User{TelegramID: 100, Role: models.RoleAdmin}, nil)
	users.EXPECT().GetByTelegramID(gomock.Any(), int64(200)).
		Return(&models.User{TelegramID: 200, Role: models.RoleVIP}, nil)
	users.EXPECT().SetRole(gomock.Any(), int64(200), models.RoleFree).Return(nil)

	s := &Service{subs: subs, users: users}
	flipped, err := s.FlipExpired(context.Background(), now)
	if err != nil {
		t.Fatal(err)
	}
	if flipped != 2 {
		t.Errorf("FlipExpired() = %d, want 2", flipped)
	}
}
