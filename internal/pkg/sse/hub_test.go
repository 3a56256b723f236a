package sse

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishToTopic(t *testing.T) {
	hub := NewHub()
	notices, cleanup := hub.Subscribe(TopicNotices)
	defer cleanup()
	other, cleanupOther := hub.Subscribe("other")
	defer cleanupOther()

	delivered := hub.Publish(Event{Topic: TopicNotices, Name: "notice", Data: "hi"})

	assert.Equal(t, 1, delivered)
	select {
	case e := <-notices:
		assert.Equal(t, "notice", e.Name)
	default:
		t.Fatal("expected event on notices topic")
	}
	assert.Len(t, other, 0)
}

func TestHub_FullBufferDropsEvent(t *testing.T) {
	hub := NewHub()
	_, cleanup := hub.Subscribe(TopicNotices)
	defer cleanup()

	for i := 0; i < hub.buffer; i++ {
		require.Equal(t, 1, hub.Publish(Event{Topic: TopicNotices}))
	}
	assert.Equal(t, 0, hub.Publish(Event{Topic: TopicNotices}))
}

func TestHub_CleanupIsIdempotent(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe(TopicNotices)
	assert.Equal(t, 1, hub.SubscriberCount(TopicNotices))

	cleanup()
	cleanup()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.SubscriberCount(TopicNotices))
}

func TestWriteEvent(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteEvent(&buf, Event{Name: "notice", Data: map[string]string{"message": "ok"}}))

	assert.Equal(t, "event: notice\ndata: {\"message\":\"ok\"}\n\n", buf.String())
}
