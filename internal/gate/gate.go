// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package gate provides a single-slot broadcast wait/notify primitive. A Gate
// holds at most one pending epoch. Every call to [Gate.Wait] made before a call
// to [Gate.NotifyAll] receives a channel that NotifyAll closes. Calls to
// NotifyAll while nothing is waiting are not remembered.
//
// A wakeup carries no information about what changed, so waiters must recheck
// their condition after every wakeup:
//
//	mu.Lock()
//	for !cond() {
//		ch := g.Wait()
//		mu.Unlock()
//		<-ch
//		mu.Lock()
//	}
//
// Calling Wait while still holding the lock that guards the condition is what
// makes this free of lost wakeups, provided notifiers change the condition
// under the same lock.
package gate

import "sync"

// Gate is a level-triggered broadcast signal. The zero value is ready to use.
// A Gate must not be copied after first use.
type Gate struct {
	mu      sync.Mutex
	pending chan struct{}
}

// Wait returns a channel that will be closed by the next call to NotifyAll. If
// no epoch is pending, Wait installs a new one.
func (g *Gate) Wait() <-chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		g.pending = make(chan struct{})
	}
	return g.pending
}

// NotifyAll releases every waiter of the pending epoch, if any, and clears the
// slot so that the next Wait starts a new epoch.
func (g *Gate) NotifyAll() {
	g.mu.Lock()
	ch := g.pending
	g.pending = nil
	g.mu.Unlock()
	if ch != nil {
		close(ch)
	}
}

// Pending reports whether an epoch is currently waiting to be released.
func (g *Gate) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending != nil
}
