package panel

import (
	"context"
	"errors"
)

// ErrNotModified is the transport's "content did not change" conflict. It is
// a benign race, not a failure: a concurrent interaction already applied the
// same content.
var ErrNotModified = errors.New("message is not modified")

// MessageRef addresses one displayed panel message.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Button is one inline action.
type Button struct {
	Label string
	Data  string
}

// Content is a rendered panel: HTML text plus the inline keyboard layout.
type Content struct {
	Text     string
	Keyboard [][]Button
}

func (c Content) Equal(other Content) bool {
	if c.Text != other.Text {
		return false
	}
	if len(c.Keyboard) != len(other.Keyboard) {
		return false
	}
	for i, row := range c.Keyboard {
		if len(row) != len(other.Keyboard[i]) {
			return false
		}
		for j, btn := range row {
			if btn != other.Keyboard[i][j] {
				return false
			}
		}
	}
	return true
}

// Transport is the chat-platform surface the dispatcher drives. The Telegram
// implementation lives in internal/telegram.
type Transport interface {
	// UpdateMessage edits the displayed panel in place. Returns
	// ErrNotModified when the platform reports the content did not change.
	UpdateMessage(ctx context.Context, ref MessageRef, content Content) error
	// Acknowledge answers the triggering interaction. With empty text it is
	// a silent completion signal; showAlert pops a dialog instead of a toast.
	Acknowledge(ctx context.Context, interactionID, text string, showAlert bool) error
}
