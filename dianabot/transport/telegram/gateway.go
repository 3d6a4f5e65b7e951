package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"log/slog"

	"github.com/dianabot/dianabot/dianabot/transport"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Gateway is the Telegram binding of transport.Gateway.
type Gateway struct {
	api *tgbotapi.BotAPI
}

func New(token string) (*Gateway, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth failed: %w", err)
	}
	slog.Info("Telegram gateway authorized",
		slog.String("type", "sys"),
		slog.String("bot", api.Self.UserName),
	)
	return &Gateway{api: api}, nil
}

func (g *Gateway) API() *tgbotapi.BotAPI {
	return g.api
}

func markup(keyboard transport.Keyboard) *tgbotapi.InlineKeyboardMarkup {
	if len(keyboard) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Payload))
		}
		rows = append(rows, buttons)
	}
	m := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &m
}

func (g *Gateway) SendMessage(ctx context.Context, chatID int64, text string, keyboard transport.Keyboard) (int64, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if m := markup(keyboard); m != nil {
		msg.ReplyMarkup = *m
	}
	sent, err := g.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("send message: %w", err)
	}
	return int64(sent.MessageID), nil
}

func (g *Gateway) EditMessage(ctx context.Context, chatID, messageID int64, text string, keyboard transport.Keyboard) error {
	var err error
	if m := markup(keyboard); m != nil {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, int(messageID), text, *m)
		edit.ParseMode = tgbotapi.ModeMarkdown
		_, err = g.api.Send(edit)
	} else {
		edit := tgbotapi.NewEditMessageText(chatID, int(messageID), text)
		edit.ParseMode = tgbotapi.ModeMarkdown
		_, err = g.api.Send(edit)
	}
	if err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

func (g *Gateway) SendPhoto(ctx context.Context, chatID int64, fileID, caption string) error {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(fileID))
	photo.Caption = caption
	if _, err := g.api.Send(photo); err != nil {
		return fmt.Errorf("send photo: %w", err)
	}
	return nil
}

func (g *Gateway) SendVideo(ctx context.Context, chatID int64, fileID, caption string) error {
	video := tgbotapi.NewVideo(chatID, tgbotapi.FileID(fileID))
	video.Caption = caption
	if _, err := g.api.Send(video); err != nil {
		return fmt.Errorf("send video: %w", err)
	}
	return nil
}

func (g *Gateway) SendAudio(ctx context.Context, chatID int64, fileID, caption string) error {
	audio := tgbotapi.NewAudio(chatID, tgbotapi.FileID(fileID))
	audio.Caption = caption
	if _, err := g.api.Send(audio); err != nil {
		return fmt.Errorf("send audio: %w", err)
	}
	return nil
}

func (g *Gateway) CreateInviteLink(ctx context.Context, channelID int64, expiry time.Duration) (string, error) {
	cfg := tgbotapi.CreateChatInviteLinkConfig{
		ChatConfig:  tgbotapi.ChatConfig{ChatID: channelID},
		ExpireDate:  int(time.Now().Add(expiry).Unix()),
		MemberLimit: 1,
	}
	resp, err := g.api.Request(cfg)
	if err != nil {
		return "", fmt.Errorf("create invite link: %w", err)
	}
	var link tgbotapi.ChatInviteLink
	if err := json.Unmarshal(resp.Result, &link); err != nil {
		return "", fmt.Errorf("decode invite link: %w", err)
	}
	return link.InviteLink, nil
}

// AnswerCallback acknowledges a callback query so the client stops spinning.
func (g *Gateway) AnswerCallback(callbackID, text string) {
	cb := tgbotapi.NewCallback(callbackID, text)
	if _, err := g.api.Request(cb); err != nil {
		slog.Warn("Failed to answer callback",
			slog.String("type", "sys"),
			slog.String("error", err.Error()))
	}
}

// Poll runs long polling until the context ends, dispatching each update on
// its own goroutine. Chat events are independent tasks by design of the
// domain: every handler opens its own transaction.
func (g *Gateway) Poll(ctx context.Context, handle func(ctx context.Context, update tgbotapi.Update)) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := g.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			g.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go handle(ctx, update)
		}
	}
}
