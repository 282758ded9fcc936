// Package notifier fans preview events out to the connected event streams.
package notifier

import "sync"

// Event names what changed. Clients re-fetch both visualizations on any
// event; the name only tells them why.
type Event string

const (
	// Reload means the input records changed.
	Reload Event = "reload"
	// Select means the highlighted treemap leaf changed.
	Select Event = "select"
	// Layout means a graph node was dragged and the graph was laid out
	// again.
	Layout Event = "layout"
)

// Notifier broadcasts events to all subscribed listeners.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan Event]struct{}
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan Event]struct{}),
	}
}

// Subscribe returns a channel that receives events.
// The caller must call Unsubscribe when done.
func (n *Notifier) Subscribe() chan Event {
	ch := make(chan Event, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan Event) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Broadcast sends ev to all listeners. A listener that has not consumed
// its previous event keeps that one and misses ev.
func (n *Notifier) Broadcast(ev Event) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Len returns the number of subscribed listeners.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
