// Copyright (c) 2026 Taaga. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"sync"
)

// # Auth-State Broadcast

// Subscription is a cancellable registration on the auth-state stream.
//
// Unsubscribe is idempotent: calling it more than once, or after the
// broadcaster has shut down, is a no-op.
type Subscription interface {
	Unsubscribe()
}

// broadcaster fans auth-state changes out to registered observers.
//
// Delivery is synchronous and in registration order. Callbacks run under no
// lock, so an observer may call Unsubscribe from inside its own callback.
type broadcaster struct {
	mu      sync.RWMutex
	nextID  uint64
	targets map[uint64]func(session *Session)
}

func newBroadcaster() *broadcaster {
	return &broadcaster{
		targets: make(map[uint64]func(session *Session)),
	}
}

/*
Subscribe registers callback for every subsequent auth-state change and
returns a handle that detaches it.

A nil session in the callback means the signed-out state; a non-nil session
carries the full replacement token pair.
*/
func (b *broadcaster) Subscribe(callback func(session *Session)) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.targets[id] = callback

	return &subscription{broadcaster: b, id: id}
}

// Publish delivers session to every live observer.
func (b *broadcaster) Publish(session *Session) {
	// Snapshot under the read lock so callbacks can unsubscribe re-entrantly.
	b.mu.RLock()
	callbacks := make([]func(session *Session), 0, len(b.targets))
	for _, callback := range b.targets {
		callbacks = append(callbacks, callback)
	}
	b.mu.RUnlock()

	for _, callback := range callbacks {
		callback(session)
	}
}

type subscription struct {
	broadcaster *broadcaster
	id          uint64
	once        sync.Once
}

func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.broadcaster.mu.Lock()
		defer s.broadcaster.mu.Unlock()
		delete(s.broadcaster.targets, s.id)
	})
}
