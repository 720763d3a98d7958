// Package actor provides serialized mutation of shared state through a
// single-consumer mailbox.
//
// All operations on an actor's state are funneled through one goroutine
// that processes messages in FIFO order, so no two mutations ever
// interleave and no external locking is needed. Two message shapes are
// supported: Tell (fire-and-forget) and Ask (request/response over a
// one-shot reply channel). A Count asked after N Tells observes every
// mutation enqueued before it; the happens-before edge is the channel
// itself, not wall-clock time.
package actor

import "sync"

// Actor owns a value of type S and applies enqueued mutations to it one
// at a time.
type Actor[S any] struct {
	mailbox chan func(*S)
	done    chan struct{}

	stopOnce sync.Once
}

// Start spawns the consumer goroutine around an initial state. The
// mailbox buffer bounds how far producers can run ahead of the consumer.
func Start[S any](initial S, buffer int) *Actor[S] {
	a := &Actor[S]{
		mailbox: make(chan func(*S), buffer),
		done:    make(chan struct{}),
	}
	go func() {
		defer close(a.done)
		state := initial
		for msg := range a.mailbox {
			msg(&state)
		}
	}()
	return a
}

// Tell enqueues a fire-and-forget mutation. It blocks only while the
// mailbox is full, never on the mutation itself.
func (a *Actor[S]) Tell(fn func(*S)) {
	a.mailbox <- fn
}

// Ask enqueues a request and waits for its reply. Messages enqueued
// before the Ask are applied before fn runs.
func Ask[S, R any](a *Actor[S], fn func(*S) R) R {
	reply := make(chan R, 1)
	a.mailbox <- func(s *S) {
		reply <- fn(s)
	}
	return <-reply
}

// Stop closes the mailbox and waits for the consumer to drain every
// pending message. No Tell or Ask may be issued after Stop.
func (a *Actor[S]) Stop() {
	a.stopOnce.Do(func() {
		close(a.mailbox)
	})
	<-a.done
}
