package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmitReachesAllHandlers(t *testing.T) {
	bus := NewEventBus()

	var wg sync.WaitGroup
	wg.Add(2)

	var mu sync.Mutex
	var got []interface{}

	handler := func(data interface{}) {
		mu.Lock()
		got = append(got, data)
		mu.Unlock()
		wg.Done()
	}

	bus.On("thing.created", handler)
	bus.On("thing.created", handler)
	bus.Emit("thing.created", "payload")

	wg.Wait()
	assert.Equal(t, []interface{}{"payload", "payload"}, got)
}

func TestEmitWithoutHandlersIsNoop(t *testing.T) {
	bus := NewEventBus()
	assert.NotPanics(t, func() {
		bus.Emit("nobody.listens", 42)
	})
}

func TestPanickingHandlerIsContained(t *testing.T) {
	bus := NewEventBus()

	done := make(chan struct{})
	bus.On("thing.created", func(interface{}) {
		panic("boom")
	})
	bus.On("thing.created", func(interface{}) {
		close(done)
	})

	assert.NotPanics(t, func() {
		bus.Emit("thing.created", nil)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second handler never ran")
	}
}
