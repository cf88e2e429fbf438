package panel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumipay/agent-console/internal/logger"
)

type fakeTransport struct {
	updateCalls int
	updateErr   error
	ackCalls    int
	ackTexts    []string
	ackAlerts   []bool
}

func (f *fakeTransport) UpdateMessage(ctx context.Context, ref MessageRef, content Content) error {
	f.updateCalls++
	return f.updateErr
}

func (f *fakeTransport) Acknowledge(ctx context.Context, interactionID, text string, showAlert bool) error {
	f.ackCalls++
	f.ackTexts = append(f.ackTexts, text)
	f.ackAlerts = append(f.ackAlerts, showAlert)
	return nil
}

func testContent(text string) Content {
	return Content{
		Text:     text,
		Keyboard: [][]Button{{{Label: "refresh", Data: "agent_stats_refresh_1"}}},
	}
}

func newHarness(updateErr error) (*Dispatcher, *fakeTransport, *Interaction) {
	tr := &fakeTransport{updateErr: updateErr}
	log := logger.New("error")
	return NewDispatcher(tr, log), tr, NewInteraction(tr, "cb-1", log)
}

func TestUpdate_EqualContentSkipsTransport(t *testing.T) {
	d, tr, ia := newHarness(nil)
	c := testContent("same")

	outcome, err := d.Update(context.Background(), MessageRef{1, 2}, c, c, ia)

	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, outcome)
	assert.Equal(t, 0, tr.updateCalls)
	assert.Equal(t, 1, tr.ackCalls)
}

func TestUpdate_ChangedContentEdits(t *testing.T) {
	d, tr, ia := newHarness(nil)

	outcome, err := d.Update(context.Background(), MessageRef{1, 2},
		testContent("old"), testContent("new"), ia)

	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)
	assert.Equal(t, 1, tr.updateCalls)
	assert.Equal(t, 1, tr.ackCalls)
}

func TestUpdate_NotModifiedConflictAbsorbed(t *testing.T) {
	d, tr, ia := newHarness(ErrNotModified)

	outcome, err := d.Update(context.Background(), MessageRef{1, 2},
		testContent("old"), testContent("new"), ia)

	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, outcome)
	assert.Equal(t, 1, tr.ackCalls)
}

func TestUpdate_TransportFailureSurfacesButStillAcks(t *testing.T) {
	cause := errors.New("message to edit not found")
	d, tr, ia := newHarness(cause)

	outcome, err := d.Update(context.Background(), MessageRef{1, 2},
		testContent("old"), testContent("new"), ia)

	assert.Equal(t, OutcomeFailed, outcome)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, tr.ackCalls)
}

func TestUpdate_ConsecutiveRefreshes(t *testing.T) {
	tr := &fakeTransport{}
	log := logger.New("error")
	d := NewDispatcher(tr, log)
	tracker := NewTracker()
	ref := MessageRef{ChatID: 1, MessageID: 2}
	next := testContent("rendered stats")

	prev, _ := tracker.Get(ref)
	outcome, err := d.Update(context.Background(), ref, prev, next, NewInteraction(tr, "cb-1", log))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)
	tracker.Set(ref, next)

	// Same underlying data renders identically; the second refresh is a no-op.
	prev, _ = tracker.Get(ref)
	outcome, err = d.Update(context.Background(), ref, prev, next, NewInteraction(tr, "cb-2", log))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, outcome)
	assert.Equal(t, 1, tr.updateCalls)
	assert.Equal(t, 2, tr.ackCalls)
}

func TestInteraction_AnswersExactlyOnce(t *testing.T) {
	tr := &fakeTransport{}
	ia := NewInteraction(tr, "cb-1", logger.New("error"))

	ia.Alert(context.Background(), "no such agent")
	ia.Ack(context.Background())
	ia.Ack(context.Background())

	require.Equal(t, 1, tr.ackCalls)
	assert.Equal(t, "no such agent", tr.ackTexts[0])
	assert.True(t, tr.ackAlerts[0])
}

func TestContentEqual(t *testing.T) {
	base := testContent("text")

	same := testContent("text")
	assert.True(t, base.Equal(same))

	differentText := testContent("other")
	assert.False(t, base.Equal(differentText))

	differentButton := testContent("text")
	differentButton.Keyboard[0][0].Data = "agent_home_1"
	assert.False(t, base.Equal(differentButton))

	extraRow := testContent("text")
	extraRow.Keyboard = append(extraRow.Keyboard, []Button{{Label: "back", Data: "agent_home_1"}})
	assert.False(t, base.Equal(extraRow))
}

func TestTracker(t *testing.T) {
	tr := NewTracker()
	ref := MessageRef{ChatID: 5, MessageID: 7}

	_, ok := tr.Get(ref)
	assert.False(t, ok)

	c := testContent("hello")
	tr.Set(ref, c)
	got, ok := tr.Get(ref)
	require.True(t, ok)
	assert.True(t, c.Equal(got))

	tr.Forget(ref)
	_, ok = tr.Get(ref)
	assert.False(t, ok)
}
