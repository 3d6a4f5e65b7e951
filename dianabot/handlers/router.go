package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/dianabot/dianabot/dianabot"
	"github.com/dianabot/dianabot/dianabot/database/models"
	"github.com/dianabot/dianabot/dianabot/derrors"
	"github.com/dianabot/dianabot/dianabot/narrative"
	"github.com/dianabot/dianabot/dianabot/transport"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/uptrace/bun"
)

// Router turns raw Telegram updates into domain calls. Each update runs in
// its own transaction; the error boundary translates domain errors into
// Diana's voice and rolls everything else back behind the generic line.
type Router struct {
	bot *dianabot.Bot
}

func NewRouter(b *dianabot.Bot) *Router {
	return &Router{bot: b}
}

func (r *Router) Handle(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		r.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		r.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

// inTx runs fn over a fresh service env bound to one transaction.
func (r *Router) inTx(ctx context.Context, fn func(ctx context.Context, e *env) error) error {
	return r.bot.DB.BunDB().RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, newEnv(tx, r.bot.Gateway, r.bot.Sessions, r.bot.Cache))
	})
}

func (r *Router) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.From.IsBot {
		return
	}
	now := time.Now()
	chatID := msg.Chat.ID
	userID := msg.From.ID

	// Lines queued here go out only after the transaction commits, so a
	// rolled-back welcome bonus never gets announced.
	var followups []string

	err := r.inTx(ctx, func(ctx context.Context, e *env) error {
		user, _, err := e.users.GetOrCreate(ctx, userID, msg.From.UserName, msg.From.FirstName, msg.From.LastName)
		if err != nil {
			return err
		}
		fu, err := touchLifecycle(ctx, e, userID, now)
		if err != nil {
			return err
		}
		followups = append(followups, fu...)

		if msg.IsCommand() {
			return r.dispatchCommand(ctx, e, user, msg, now)
		}
		return r.handleText(ctx, e, userID, chatID, msg.Text, now)
	})
	if err != nil {
		r.replyError(ctx, chatID, userID, err)
		return
	}
	for _, line := range followups {
		if _, err := r.bot.Gateway.SendMessage(ctx, chatID, line, nil); err != nil {
			slog.Warn("Failed to send followup",
				slog.String("type", "sys"),
				slog.Int64("user_id", userID),
				slog.Any("error", err))
		}
	}
}

func (r *Router) handleCallbackQuery(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.From == nil {
		return
	}
	r.bot.Gateway.AnswerCallback(cb.ID, "")

	payload, err := transport.ParseCallback(cb.Data)
	if err != nil {
		return
	}

	now := time.Now()
	userID := cb.From.ID
	chatID := userID
	var messageID int64
	if cb.Message != nil {
		chatID = cb.Message.Chat.ID
		messageID = int64(cb.Message.MessageID)
	}

	var followups []string
	err = r.inTx(ctx, func(ctx context.Context, e *env) error {
		if _, _, err := e.users.GetOrCreate(ctx, userID, cb.From.UserName, cb.From.FirstName, cb.From.LastName); err != nil {
			return err
		}
		fu, err := touchLifecycle(ctx, e, userID, now)
		if err != nil {
			return err
		}
		followups = append(followups, fu...)

		return r.dispatchCallback(ctx, e, payload, userID, chatID, messageID, now)
	})
	if err != nil {
		r.replyError(ctx, chatID, userID, err)
		return
	}
	for _, line := range followups {
		if _, err := r.bot.Gateway.SendMessage(ctx, chatID, line, nil); err != nil {
			slog.Warn("Failed to send followup",
				slog.String("type", "sys"),
				slog.Int64("user_id", userID),
				slog.Any("error", err))
		}
	}
}

// touchLifecycle marks the user active and queues the welcome-back and
// level-up announcements for delivery after commit.
func touchLifecycle(ctx context.Context, e *env, userID int64, now time.Time) ([]string, error) {
	act, err := e.lifecycle.RecordActivity(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	var out []string
	if act.WelcomeBonus > 0 {
		out = append(out, fmt.Sprintf(transport.VoiceWelcomeBack, act.WelcomeBonus))
	}
	if act.LeveledUp && act.NewLevel != nil {
		out = append(out, fmt.Sprintf(transport.VoiceLevelUp, act.NewLevel.Name))
	}
	return out, nil
}

// replyError is the error boundary: domain errors reach the user in Diana's
// voice, anything else is logged and hidden behind the generic line.
func (r *Router) replyError(ctx context.Context, chatID, userID int64, err error) {
	if derrors.Kind(err) == nil {
		slog.Error("Update handler failed",
			slog.String("type", "error"),
			slog.Int64("user_id", userID),
			slog.Any("error", err))
	}
	if _, sendErr := r.bot.Gateway.SendMessage(ctx, chatID, transport.TranslateError(err), nil); sendErr != nil {
		slog.Warn("Failed to deliver error message",
			slog.String("type", "sys"),
			slog.Int64("user_id", userID),
			slog.Any("error", sendErr))
	}
}

// handleText routes free text: an armed challenge consumes it, everything
// else gets a nudge back into the story.
func (r *Router) handleText(ctx context.Context, e *env, userID, chatID int64, text string, now time.Time) error {
	awaiting, err := e.challenges.Awaiting(ctx, userID)
	if err != nil {
		return err
	}
	if !awaiting {
		_, err := e.gateway.SendMessage(ctx, chatID,
			"Si quieres hablar conmigo, entra en la historia... /historia 💋",
			transport.Row(transport.Button{Text: "📖 Continuar la historia", Payload: transport.Encode("narr", "start")}))
		return err
	}

	outcome, err := e.challenges.ProcessAnswer(ctx, userID, text, now)
	if err != nil {
		return err
	}
	return r.sendChallengeOutcome(ctx, e, userID, chatID, outcome, now)
}

func (r *Router) sendChallengeOutcome(ctx context.Context, e *env, userID, chatID int64, outcome *narrative.ChallengeOutcome, now time.Time) error {
	text := outcome.Message
	if text == "" {
		if outcome.Correct {
			text = transport.VoiceChallengeRight
		} else {
			text = transport.VoiceChallengeWrong
		}
	}
	if outcome.BesitosGranted > 0 {
		text += fmt.Sprintf("\n\n_+%d besitos_", outcome.BesitosGranted)
	}
	if outcome.Hint != "" {
		text += fmt.Sprintf("\n\n💭 _%s_", outcome.Hint)
	}
	if !outcome.Correct && outcome.AttemptsLeft > 0 {
		text += fmt.Sprintf("\n\n_Te quedan %d intentos._", outcome.AttemptsLeft)
	}
	if _, err := e.gateway.SendMessage(ctx, chatID, text, nil); err != nil {
		return err
	}

	if outcome.RedirectKey != "" {
		rendered, err := e.engine.Render(ctx, userID, outcome.RedirectKey, now)
		if err != nil {
			return err
		}
		return r.sendFragment(ctx, e, userID, chatID, rendered, now)
	}
	return nil
}

// sendFragment delivers a rendered fragment and its attached media.
func (r *Router) sendFragment(ctx context.Context, e *env, userID, chatID int64, rendered *narrative.RenderedFragment, now time.Time) error {
	text, keyboard := fragmentView(rendered)
	if _, err := e.gateway.SendMessage(ctx, chatID, text, keyboard); err != nil {
		return err
	}
	if rendered.AutoSendContent && rendered.ContentSetID != nil {
		if err := e.delivery.SendContentSet(ctx, userID, *rendered.ContentSetID, models.AccessNarrative, now); err != nil {
			return err
		}
	}
	return nil
}
