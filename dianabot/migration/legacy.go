package migration

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/database/repositories"
	"github.com/dianabot/dianabot/dianabot/economy"
	"github.com/dianabot/dianabot/dianabot/subscription"
	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// legacyUser mirrors the document shape of the previous bot's users
// collection. Unknown fields are dropped on purpose.
type legacyUser struct {
	TelegramID int64      `bson:"telegram_id"`
	Username   string     `bson:"username"`
	FirstName  string     `bson:"first_name"`
	Besitos    int64      `bson:"besitos"`
	VIPUntil   *time.Time `bson:"vip_until"`
	Streak     int        `bson:"streak"`
	JoinedAt   *time.Time `bson:"joined_at"`
}

// LegacyImporter copies users, balances and VIP lifetimes out of the old
// MongoDB deployment. Balances arrive as a single ledger grant so the
// transaction log stays the canonical history.
type LegacyImporter struct {
	source *mongo.Database
	users  repositories.UserRepository
	ledger *economy.LedgerService
	subs   *subscription.Service
}

func NewLegacyImporter(ctx context.Context, mongoURI, mongoDB string, db bun.IDB) (*LegacyImporter, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect to legacy mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping legacy mongo: %w", err)
	}

	return &LegacyImporter{
		source: client.Database(mongoDB),
		users:  repositories.NewUserRepository(db),
		ledger: economy.NewLedgerService(db),
		subs:   subscription.NewService(db),
	}, nil
}

func (m *LegacyImporter) Close(ctx context.Context) error {
	return m.source.Client().Disconnect(ctx)
}

// ImportStats summarizes one import run.
type ImportStats struct {
	Users    int
	Balances int
	VIPs     int
	Skipped  int
}

// ImportUsers walks the legacy users collection. Re-runs are safe: existing
// users are skipped entirely, so balances never double-import.
func (m *LegacyImporter) ImportUsers(ctx context.Context, now time.Time) (*ImportStats, error) {
	cursor, err := m.source.Collection("users").Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("query legacy users: %w", err)
	}
	defer cursor.Close(ctx)

	stats := &ImportStats{}
	for cursor.Next(ctx) {
		var legacy legacyUser
		if err := cursor.Decode(&legacy); err != nil {
			slog.Warn("Skipping undecodable legacy user",
				slog.String("type", "sys"),
				slog.String("error", err.Error()))
			stats.Skipped++
			continue
		}
		if legacy.TelegramID == 0 {
			stats.Skipped++
			continue
		}

		if _, err := m.users.GetByTelegramID(ctx, legacy.TelegramID); err == nil {
			stats.Skipped++
			continue
		} else if !repositories.IsNotFound(err) {
			return stats, err
		}

		if err := m.importOne(ctx, &legacy, now); err != nil {
			return stats, fmt.Errorf("import user %d: %w", legacy.TelegramID, err)
		}
		stats.Users++
		if legacy.Besitos > 0 {
			stats.Balances++
		}
		if legacy.VIPUntil != nil && legacy.VIPUntil.After(now) {
			stats.VIPs++
		}
	}
	if err := cursor.Err(); err != nil {
		return stats, fmt.Errorf("cursor: %w", err)
	}

	slog.Info("Legacy import finished",
		slog.String("type", "sys"),
		slog.Int("users", stats.Users),
		slog.Int("balances", stats.Balances),
		slog.Int("vips", stats.VIPs),
		slog.Int("skipped", stats.Skipped),
	)
	return stats, nil
}

func (m *LegacyImporter) importOne(ctx context.Context, legacy *legacyUser, now time.Time) error {
	user := &models.User{
		TelegramID: legacy.TelegramID,
		Username:   legacy.Username,
		FirstName:  legacy.FirstName,
		Role:       models.RoleFree,
	}
	if legacy.JoinedAt != nil {
		user.CreatedAt = *legacy.JoinedAt
	}
	if err := m.users.Create(ctx, user); err != nil {
		return err
	}

	if legacy.Besitos > 0 {
		ref := fmt.Sprintf("legacy:%d", legacy.TelegramID)
		if _, err := m.ledger.Grant(ctx, legacy.TelegramID, legacy.Besitos,
			models.TxnLegacyImport, "Saldo importado", ref); err != nil {
			return err
		}
	}

	if legacy.VIPUntil != nil && legacy.VIPUntil.After(now) {
		days := int(legacy.VIPUntil.Sub(now).Hours()/24) + 1
		if _, err := m.subs.ExtendDays(ctx, legacy.TelegramID, days, now); err != nil {
			return err
		}
	}
	return nil
}
