package dianabot

import (
	"context"
	"log/slog"

	"github.com/dianabot/dianabot/dianabot/database"
	"github.com/dianabot/dianabot/dianabot/narrative"
	"github.com/dianabot/dianabot/dianabot/scheduler"
	"github.com/dianabot/dianabot/dianabot/services"
	"github.com/dianabot/dianabot/dianabot/transport/telegram"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:      cfg,
		Version:  version,
		Commit:   commit,
		Sessions: narrative.NewSessionManager(),
		Cache:    narrative.NewFragmentCache(),
	}
}

// Bot is the long-lived wiring: process-wide state and the handles every
// update handler needs. Per-event services are built over the event's
// transaction, never stored here.
type Bot struct {
	Cfg     Config
	Version string
	Commit  string

	DB       *database.DB
	Gateway  *telegram.Gateway
	Sessions *narrative.SessionManager
	Cache    *narrative.FragmentCache
	Storage  *services.ContentStorageService

	Scheduler *scheduler.Scheduler
}

// SetupGateway authenticates against Telegram.
func (b *Bot) SetupGateway() error {
	gw, err := telegram.New(b.Cfg.Bot.Token)
	if err != nil {
		return err
	}
	b.Gateway = gw
	return nil
}

// StartScheduler wires and launches the background jobs under the process
// context.
func (b *Bot) StartScheduler(ctx context.Context) {
	b.Scheduler = scheduler.New(scheduler.Jobs(b.DB.BunDB(), b.Gateway)...)
	b.Scheduler.Start(ctx)
}

func (b *Bot) IsAdmin(telegramID int64) bool {
	for _, id := range b.Cfg.Bot.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

func (b *Bot) Shutdown(ctx context.Context) {
	if b.Scheduler != nil {
		b.Scheduler.Stop()
	}
	if b.Sessions != nil {
		b.Sessions.Stop()
	}
	if b.DB != nil {
		b.DB.Close()
	}
	slog.Info("Bot shut down",
		slog.String("type", "sys"),
		slog.String("version", b.Version))
}
