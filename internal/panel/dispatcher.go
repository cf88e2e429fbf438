package panel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lumipay/agent-console/internal/logger"
)

type Outcome int

const (
	OutcomeUnchanged Outcome = iota
	OutcomeUpdated
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeUpdated:
		return "updated"
	default:
		return "failed"
	}
}

// Interaction is the scoped acknowledgment token for one triggering action.
// Whichever of Ack or Alert runs first wins; later calls are no-ops, so
// every exit path of a handler can carry its own answer without ever
// double-answering the platform.
type Interaction struct {
	transport Transport
	id        string
	once      sync.Once
	log       *logger.Logger
}

func NewInteraction(t Transport, interactionID string, log *logger.Logger) *Interaction {
	return &Interaction{transport: t, id: interactionID, log: log}
}

// Ack silently completes the interaction.
func (ia *Interaction) Ack(ctx context.Context) {
	ia.answer(ctx, "", false)
}

// Alert completes the interaction with a pop-up message.
func (ia *Interaction) Alert(ctx context.Context, text string) {
	ia.answer(ctx, text, true)
}

func (ia *Interaction) answer(ctx context.Context, text string, alert bool) {
	ia.once.Do(func() {
		if err := ia.transport.Acknowledge(ctx, ia.id, text, alert); err != nil {
			ia.log.Error("acknowledge interaction", "interaction_id", ia.id, "error", err)
		}
	})
}

// Dispatcher applies the edit-if-changed discipline: it compares freshly
// rendered content against what is currently displayed and only then talks
// to the transport.
type Dispatcher struct {
	transport Transport
	logger    *logger.Logger
}

func NewDispatcher(t Transport, log *logger.Logger) *Dispatcher {
	return &Dispatcher{transport: t, logger: log}
}

// Update re-renders the panel at ref from prev to next.
//
// The interaction is acknowledged on every path out of this function,
// including error returns and panics. An equal prev/next skips the
// transport entirely. A "not modified" conflict from the transport means a
// concurrent interaction already applied identical content; it is absorbed
// as unchanged, never surfaced. Any other transport failure is returned to
// the caller unretried.
func (d *Dispatcher) Update(ctx context.Context, ref MessageRef, prev, next Content, ia *Interaction) (Outcome, error) {
	defer ia.Ack(ctx)

	if next.Equal(prev) {
		d.logger.Debug("panel content unchanged, skipping edit",
			"chat_id", ref.ChatID, "message_id", ref.MessageID)
		return OutcomeUnchanged, nil
	}

	if err := d.transport.UpdateMessage(ctx, ref, next); err != nil {
		if errors.Is(err, ErrNotModified) {
			d.logger.Debug("concurrent identical update absorbed",
				"chat_id", ref.ChatID, "message_id", ref.MessageID)
			return OutcomeUnchanged, nil
		}
		return OutcomeFailed, fmt.Errorf("update panel %d/%d: %w", ref.ChatID, ref.MessageID, err)
	}

	return OutcomeUpdated, nil
}
