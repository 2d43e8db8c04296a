package eventbus

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "mapeditor.chunk.heightmap", Subject(TypeChunkHeightmap))
}

// Требует NATS с JetStream; адрес берётся из NATS_URL.
func TestJetStreamBus_PublishSubscribe(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		url = "nats://127.0.0.1:4222"
	}
	bus, err := NewJetStreamBus(url, "MAPEDITOR_TEST", time.Minute)
	if err != nil {
		t.Skipf("NATS недоступен: %v", err)
	}
	defer bus.Close()

	got := make(chan *Envelope, 4)
	sub, err := bus.Subscribe(context.Background(), Filter{Types: []string{TypeChunkObjects}}, func(_ context.Context, ev *Envelope) {
		got <- ev
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	ev := NewEnvelope("test", TypeChunkObjects, map[string]string{"added": "obj_1"})
	ev.ChunkKey = "001002"
	require.NoError(t, bus.Publish(context.Background(), ev))

	select {
	case received := <-got:
		assert.Equal(t, ev.ID, received.ID)
		assert.Equal(t, "001002", received.ChunkKey)
		assert.JSONEq(t, `{"added":"obj_1"}`, string(received.Payload))
	case <-time.After(5 * time.Second):
		t.Fatal("событие не доставлено")
	}
	assert.Equal(t, uint64(1), bus.Metrics().Published)
}
