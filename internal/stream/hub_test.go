package stream_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/loglens/loglens/internal/stream"
	"github.com/loglens/loglens/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(pkg, message string) *models.LogEntry {
	return &models.LogEntry{
		ID:          uuid.New(),
		PackageName: pkg,
		Level:       models.LevelInfo,
		Message:     message,
		CreatedAt:   time.Now().UTC(),
	}
}

func receive(t *testing.T, sub *stream.Subscription) []*models.LogEntry {
	t.Helper()
	select {
	case data, ok := <-sub.C:
		require.True(t, ok, "subscription closed unexpectedly")
		var entries []*models.LogEntry
		require.NoError(t, json.Unmarshal(data, &entries))
		return entries
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for published batch")
		return nil
	}
}

func TestHub_PublishReachesSubscriber(t *testing.T) {
	hub := stream.NewHub()
	sub := hub.Subscribe("com.acme.app")
	defer sub.Close()

	hub.Publish("com.acme.app", []*models.LogEntry{entry("com.acme.app", "boom")})

	entries := receive(t, sub)
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].Message)
	assert.Equal(t, "com.acme.app", entries[0].PackageName)
}

func TestHub_FiltersByPackage(t *testing.T) {
	hub := stream.NewHub()
	acme := hub.Subscribe("com.acme.app")
	defer acme.Close()
	other := hub.Subscribe("com.other.app")
	defer other.Close()

	hub.Publish("com.acme.app", []*models.LogEntry{entry("com.acme.app", "for acme")})

	entries := receive(t, acme)
	require.Len(t, entries, 1)

	select {
	case data := <-other.C:
		t.Fatalf("subscriber for another package received %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_PublishWithNoSubscribers(t *testing.T) {
	hub := stream.NewHub()
	// Must not panic or block.
	hub.Publish("com.acme.app", []*models.LogEntry{entry("com.acme.app", "dropped")})
}

func TestHub_EmptyBatchIgnored(t *testing.T) {
	hub := stream.NewHub()
	sub := hub.Subscribe("com.acme.app")
	defer sub.Close()

	hub.Publish("com.acme.app", nil)

	select {
	case data := <-sub.C:
		t.Fatalf("unexpected message for empty batch: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_CloseRemovesSubscription(t *testing.T) {
	hub := stream.NewHub()
	sub := hub.Subscribe("com.acme.app")
	require.Equal(t, 1, hub.SubscriberCount("com.acme.app"))

	sub.Close()
	assert.Equal(t, 0, hub.SubscriberCount("com.acme.app"))

	_, ok := <-sub.C
	assert.False(t, ok, "channel should be closed")

	// Closing twice is harmless.
	sub.Close()
}

func TestHub_SlowSubscriberDropped(t *testing.T) {
	hub := stream.NewHub()
	_ = hub.Subscribe("com.acme.app")

	// Fill the buffer and one more; the overflow publish disconnects the
	// subscriber instead of blocking.
	batch := []*models.LogEntry{entry("com.acme.app", "flood")}
	for i := 0; i < 257; i++ {
		hub.Publish("com.acme.app", batch)
	}

	assert.Equal(t, 0, hub.SubscriberCount("com.acme.app"))
}
