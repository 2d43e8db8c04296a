package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBus_FilterAndOrder(t *testing.T) {
	bus := NewMemoryBus(16)
	defer bus.Close()

	var mu sync.Mutex
	var got []string
	done := make(chan struct{})

	_, err := bus.Subscribe(context.Background(), Filter{Types: []string{TypeChunkHeightmap}}, func(ctx context.Context, ev *Envelope) {
		mu.Lock()
		got = append(got, ev.ChunkKey)
		n := len(got)
		mu.Unlock()
		if n == 2 {
			close(done)
		}
	})
	require.NoError(t, err)

	ctx := context.Background()
	first := NewEnvelope("test", TypeChunkHeightmap, nil)
	first.ChunkKey = "000000"
	other := NewEnvelope("test", TypeSettings, nil)
	second := NewEnvelope("test", TypeChunkHeightmap, map[string]int{"size": 3})
	second.ChunkKey = "001000"

	require.NoError(t, bus.Publish(ctx, first))
	require.NoError(t, bus.Publish(ctx, other))
	require.NoError(t, bus.Publish(ctx, second))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("события не доставлены")
	}

	mu.Lock()
	assert.Equal(t, []string{"000000", "001000"}, got)
	mu.Unlock()
	assert.JSONEq(t, `{"size":3}`, string(second.Payload))
	assert.NotEmpty(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestMemoryBus_Unsubscribe(t *testing.T) {
	bus := NewMemoryBus(4)
	defer bus.Close()

	calls := make(chan struct{}, 4)
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		calls <- struct{}{}
	})
	require.NoError(t, err)
	sub.Unsubscribe()

	// Второй подписчик служит маркером того, что событие уже разослано.
	marker := make(chan struct{})
	_, err = bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		close(marker)
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), NewEnvelope("test", TypeSpawns, nil)))
	select {
	case <-marker:
	case <-time.After(2 * time.Second):
		t.Fatal("событие не доставлено")
	}
	assert.Len(t, calls, 0)
}

func TestMemoryBus_Closed(t *testing.T) {
	bus := NewMemoryBus(1)
	bus.Close()
	bus.Close()

	err := bus.Publish(context.Background(), NewEnvelope("test", TypeSettings, nil))
	assert.ErrorIs(t, err, ErrClosed)
	_, err = bus.Subscribe(context.Background(), Filter{}, func(context.Context, *Envelope) {})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryBus_DropsLowPriorityWhenFull(t *testing.T) {
	bus := NewMemoryBus(1)
	defer bus.Close()

	block := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	_, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		once.Do(func() { close(started) })
		<-block
	})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, NewEnvelope("test", TypeSettings, nil)))
	<-started
	// Первое событие в обработке, второе заполняет буфер, третье отбрасывается.
	require.NoError(t, bus.Publish(ctx, NewEnvelope("test", TypeSettings, nil)))
	require.NoError(t, bus.Publish(ctx, NewEnvelope("test", TypeSettings, nil)))

	stats := bus.Metrics()
	assert.Equal(t, uint64(2), stats.Published)
	assert.Equal(t, uint64(1), stats.Dropped)
	close(block)
}

func TestMetricsExporter_Collect(t *testing.T) {
	bus := NewMemoryBus(8)
	defer bus.Close()

	reg := prometheus.NewRegistry()
	exporter, err := NewMetricsExporter(bus, reg)
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), NewEnvelope("test", TypeSettings, nil)))
	require.NoError(t, bus.Publish(context.Background(), NewEnvelope("test", TypeSettings, nil)))
	exporter.Collect()
	exporter.Collect()

	assert.Equal(t, 2.0, testutil.ToFloat64(exporter.published))

	_, err = NewMetricsExporter(bus, reg)
	assert.Error(t, err, "повторная регистрация должна завершиться ошибкой")
}
