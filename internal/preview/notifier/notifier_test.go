package notifier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_Subscribe_Unsubscribe(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	require.NotNil(t, ch)
	assert.Equal(t, 1, n.Len())

	n.Unsubscribe(ch)
	assert.Equal(t, 0, n.Len())

	_, open := <-ch
	assert.False(t, open, "channel should be closed after Unsubscribe")
}

func TestNotifier_Broadcast(t *testing.T) {
	n := New()

	ch1 := n.Subscribe()
	ch2 := n.Subscribe()
	defer n.Unsubscribe(ch1)
	defer n.Unsubscribe(ch2)

	n.Broadcast(Select)

	for i, ch := range []chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, Select, ev)
		case <-time.After(100 * time.Millisecond):
			t.Errorf("listener %d did not receive broadcast", i)
		}
	}
}

func TestNotifier_Broadcast_KeepsPendingEvent(t *testing.T) {
	n := New()

	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	n.Broadcast(Reload)

	done := make(chan struct{})
	go func() {
		n.Broadcast(Select)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Broadcast blocked on full channel")
	}
	assert.Equal(t, Reload, <-ch)
}

func TestNotifier_Concurrent(t *testing.T) {
	n := New()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := n.Subscribe()
			n.Broadcast(Reload)
			n.Unsubscribe(ch)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, n.Len())
}
