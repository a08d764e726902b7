package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/prefillgrid/internal/mapping"
	"github.com/specialistvlad/prefillgrid/internal/notify"
	"github.com/specialistvlad/prefillgrid/internal/prefill"
	"github.com/specialistvlad/prefillgrid/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(context.Context, mapping.Event) error {
	f.calls++
	return errors.New("endpoint unreachable")
}

func (f *failingPublisher) Close() error { return nil }

func sample() mapping.PrefillMapping {
	return mapping.PrefillMapping{
		Source:         prefill.FormField("customer", "Customer Info Form", "email"),
		TargetNodeID:   "final",
		TargetFieldKey: "summary",
	}
}

func TestForward_RecordsStoreEvents(t *testing.T) {
	ctx, _ := testutil.Context(t)
	store := mapping.New(mapping.WithHighlightTTL(0))
	rec := &notify.Recorder{}
	notify.Forward(ctx, store, rec)

	store.Add(sample())
	store.Remove("final", "summary")

	events := rec.Events()
	require.Len(t, events, 2)
	assert.Equal(t, mapping.EventAdded, events[0].Kind)
	assert.Equal(t, sample(), events[0].Mapping)
	assert.Equal(t, mapping.EventRemoved, events[1].Kind)
	assert.Equal(t, 1, events[1].Count)
}

func TestForward_PublishErrorsAreLogged(t *testing.T) {
	ctx, logs := testutil.Context(t)
	store := mapping.New(mapping.WithHighlightTTL(0))
	pub := &failingPublisher{}
	notify.Forward(ctx, store, pub)

	store.Add(sample())

	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, 1, store.Len())
	assert.Contains(t, logs.String(), "endpoint unreachable")
}

func TestNop(t *testing.T) {
	var p notify.Publisher = notify.Nop{}
	assert.NoError(t, p.Publish(context.Background(), mapping.Event{Kind: mapping.EventAdded}))
	assert.NoError(t, p.Close())
}

func TestEventName(t *testing.T) {
	assert.Equal(t, "mapping:added", notify.EventName(mapping.EventAdded))
	assert.Equal(t, "mapping:removed", notify.EventName(mapping.EventRemoved))
	assert.Equal(t, "mapping:highlight_cleared", notify.EventName(mapping.EventHighlightCleared))
}

func TestPayload(t *testing.T) {
	added := notify.Payload(mapping.Event{Kind: mapping.EventAdded, Mapping: sample()})
	assert.Equal(t, map[string]any{
		"targetNodeId":   "final",
		"targetFieldKey": "summary",
		"source": map[string]any{
			"type":     "form_field",
			"id":       "customer",
			"name":     "Customer Info Form",
			"fieldKey": "email",
		},
	}, added)

	removed := notify.Payload(mapping.Event{
		Kind:    mapping.EventRemoved,
		Mapping: mapping.PrefillMapping{TargetNodeID: "final", TargetFieldKey: "summary"},
		Count:   2,
	})
	assert.Equal(t, map[string]any{
		"targetNodeId":   "final",
		"targetFieldKey": "summary",
		"count":          2,
	}, removed)
}

func TestNewSocketIO_RejectsBadURL(t *testing.T) {
	ctx, _ := testutil.Context(t)

	_, err := notify.NewSocketIO(ctx, notify.SocketIOConfig{URL: "not a url"})
	assert.Error(t, err)

	_, err = notify.NewSocketIO(ctx, notify.SocketIOConfig{URL: "://bad"})
	assert.Error(t, err)
}
