package shop

import (
	"context"
	"log/slog"
	"time"

	"github.com/dianabot/dianabot/dianabot/config"
	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/dianabot/dianabot/dianabot/derrors"
	"github.com/dianabot/dianabot/dianabot/subscription"
	"github.com/dianabot/dianabot/dianabot/transport"
	"github.com/uptrace/bun"
)

// DeliveryService dispatches content sets through the transport, pacing sends
// to respect rate limits, and records every delivery.
type DeliveryService struct {
	sets    repositories.ContentSetRepository
	subs    *subscription.Service
	gateway transport.Gateway
	delay   time.Duration
}

func NewDeliveryService(db bun.IDB, gateway transport.Gateway) *DeliveryService {
	return &DeliveryService{
		sets:    repositories.NewContentSetRepository(db),
		subs:    subscription.NewService(db),
		gateway: gateway,
		delay:   config.ContentSendDelay,
	}
}

// SendContentSet validates the tier gate, dispatches the files one by one,
// and appends the access record.
func (s *DeliveryService) SendContentSet(ctx context.Context, userID, setID int64, accessContext string, now time.Time) error {
	set, err := s.sets.GetByID(ctx, setID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return derrors.Wrap(derrors.ErrNotFound, "content set %d", setID)
		}
		return err
	}
	if !set.IsActive {
		return derrors.Wrap(derrors.ErrNotFound, "content set %q is retired", set.Slug)
	}

	if set.RequiresVIP || set.Tier == models.TierVIP || set.Tier == models.TierPremium {
		vip, err := s.subs.IsVIPActive(ctx, userID, now)
		if err != nil {
			return err
		}
		if !vip {
			return derrors.Wrap(derrors.ErrPermissionDenied, "content %q is VIP only", set.Slug)
		}
	}

	for i, fileID := range set.FileIDs {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.delay):
			}
		}
		if err := s.sendOne(ctx, userID, set, fileID); err != nil {
			return err
		}
	}

	if err := s.sets.RecordAccess(ctx, &models.UserContentAccess{
		UserID:       userID,
		ContentSetID: setID,
		Context:      accessContext,
		DeliveredAt:  now,
	}); err != nil {
		return err
	}

	slog.Info("Content delivered",
		slog.String("type", "sys"),
		slog.Int64("user_id", userID),
		slog.String("set", set.Slug),
		slog.Int("files", len(set.FileIDs)),
	)
	return nil
}

func (s *DeliveryService) sendOne(ctx context.Context, chatID int64, set *models.ContentSet, fileID string) error {
	switch set.ContentType {
	case models.ContentVideo:
		return s.gateway.SendVideo(ctx, chatID, fileID, "")
	case models.ContentAudio:
		return s.gateway.SendAudio(ctx, chatID, fileID, "")
	case models.ContentPhotoSet, models.ContentMixed:
		return s.gateway.SendPhoto(ctx, chatID, fileID, "")
	default:
		return derrors.Wrap(derrors.ErrNotConfigured, "content set %q has unknown type %q", set.Slug, set.ContentType)
	}
}
