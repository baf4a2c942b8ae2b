// Package notifier fans dashboard state changes out to open SSE streams.
package notifier

import "sync"

// Notifier pings every subscribed stream when the dashboard state changes.
// A ping carries no data; the stream re-derives its view from the store.
// Pings coalesce: a stream that has not consumed the previous ping gets one
// render for both.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]struct{}
}

// New creates a Notifier with no listeners.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan struct{}]struct{}),
	}
}

// Subscribe returns a channel that receives a ping after each change.
// The caller must call Unsubscribe when the stream ends.
func (n *Notifier) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes ch. Calling it again for the same channel is a no-op.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.listeners[ch]; !ok {
		return
	}
	delete(n.listeners, ch)
	close(ch)
}

// Broadcast pings all listeners without blocking. It has the shape of a
// dashboard.Store subscriber.
func (n *Notifier) Broadcast() {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- struct{}{}:
		default:
			// a ping is already pending
		}
	}
}

// Len reports the number of open streams.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}
