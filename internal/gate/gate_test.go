// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package gate_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/petenewcomb/pull-go/internal/gate"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestGateZeroValue(t *testing.T) {
	chk := require.New(t)
	var g gate.Gate

	chk.False(g.Pending())

	// Notifying with nothing pending must not panic and must not be remembered.
	g.NotifyAll()
	ch := g.Wait()
	chk.NotNil(ch)
	chk.False(isClosed(ch))
	chk.True(g.Pending())
}

func TestGateWaitSharesEpoch(t *testing.T) {
	chk := require.New(t)
	var g gate.Gate

	ch1 := g.Wait()
	ch2 := g.Wait()
	chk.Equal(ch1, ch2)

	g.NotifyAll()
	chk.True(isClosed(ch1))
	chk.True(isClosed(ch2))
	chk.False(g.Pending())

	// A subsequent wait starts a new epoch.
	ch3 := g.Wait()
	chk.NotEqual(ch1, ch3)
	chk.False(isClosed(ch3))
}

func TestGateNotifyIsNotBuffered(t *testing.T) {
	chk := require.New(t)
	var g gate.Gate

	g.NotifyAll()
	g.NotifyAll()
	ch := g.Wait()
	chk.False(isClosed(ch))
	g.NotifyAll()
	chk.True(isClosed(ch))
}

func TestGateConcurrentWaiters(t *testing.T) {
	chk := require.New(t)
	var g gate.Gate

	const numGoroutines = 10
	var released atomic.Int32
	var registered sync.WaitGroup
	var done sync.WaitGroup
	registered.Add(numGoroutines)
	done.Add(numGoroutines)
	for range numGoroutines {
		go func() {
			defer done.Done()
			ch := g.Wait()
			registered.Done()
			<-ch
			released.Add(1)
		}()
	}
	registered.Wait()
	chk.Equal(int32(0), released.Load())

	g.NotifyAll()

	finished := make(chan struct{})
	go func() {
		done.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		chk.Fail("waiters were not released")
	}
	chk.Equal(int32(numGoroutines), released.Load())
}

// TestGateWithRapid checks the gate against a simple model: every channel
// handed out before a NotifyAll is closed by it, and no channel handed out
// after the most recent NotifyAll is closed.
func TestGateWithRapid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var g gate.Gate
		var released []<-chan struct{}
		var waiting []<-chan struct{}

		t.Repeat(map[string]func(*rapid.T){
			"wait": func(t *rapid.T) {
				ch := g.Wait()
				if len(waiting) > 0 {
					require.Equal(t, waiting[0], ch, "Wait returned a different channel within one epoch")
				}
				waiting = append(waiting, ch)
			},
			"notifyAll": func(t *rapid.T) {
				g.NotifyAll()
				released = append(released, waiting...)
				waiting = nil
			},
			"": func(t *rapid.T) {
				for _, ch := range released {
					require.True(t, isClosed(ch), "released channel still open")
				}
				for _, ch := range waiting {
					require.False(t, isClosed(ch), "pending channel closed early")
				}
				require.Equal(t, len(waiting) > 0, g.Pending())
			},
		})
	})
}
