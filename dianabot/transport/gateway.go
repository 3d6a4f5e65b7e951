package transport

import (
	"context"
	"time"
)

// Button is one cell of an inline action grid. Payload follows the callback
// grammar in callback.go.
type Button struct {
	Text    string
	Payload string
}

// Keyboard is a grid of buttons, one slice per row.
type Keyboard [][]Button

// Row is a convenience constructor for single-row keyboards.
func Row(buttons ...Button) Keyboard {
	return Keyboard{buttons}
}

// Gateway is the messenger-agnostic outbound contract. The engines only know
// this interface; the Telegram binding lives behind it.
type Gateway interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard Keyboard) (messageID int64, err error)
	EditMessage(ctx context.Context, chatID, messageID int64, text string, keyboard Keyboard) error
	SendPhoto(ctx context.Context, chatID int64, fileID, caption string) error
	SendVideo(ctx context.Context, chatID int64, fileID, caption string) error
	SendAudio(ctx context.Context, chatID int64, fileID, caption string) error
	// CreateInviteLink issues a time-limited invite to the protected channel.
	CreateInviteLink(ctx context.Context, channelID int64, expiry time.Duration) (string, error)
}
