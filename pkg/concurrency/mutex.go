/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package concurrency

import "sync"

// Mutex serializes asynchronous units of work so that at most one runs at a
// time. Units of work are admitted strictly in the order they were submitted
// (FIFO); a failing unit of work releases the mutex like any other, and its
// error is observed only by the caller that submitted it.
//
// A debugger connection admits one request at a time, so callers reacting to
// unrelated editor events (a hover evaluation racing a step command) funnel
// their requests through a shared Mutex.
//
// Reentrant acquisition is not supported: a unit of work that acquires the
// Mutex it is already holding deadlocks. There is no cancellation either; a
// caller that never releases stalls the queue permanently.
type Mutex struct {
	lock    sync.Mutex
	held    bool
	waiters *turnQueue[chan struct{}]
}

func NewMutex() *Mutex {
	return &Mutex{
		waiters: newTurnQueue[chan struct{}](),
	}
}

// Acquire blocks until every earlier submission has released, then returns a
// function that ends this caller's turn. The release function is idempotent
// and must be called on every exit path; prefer Dispatch unless manual
// scoping is required.
func (m *Mutex) Acquire() (release func()) {
	m.lock.Lock()
	if !m.held {
		m.held = true
		m.lock.Unlock()
		return m.releaseFunc()
	}

	turn := make(chan struct{})
	m.waiters.Push(turn)
	m.lock.Unlock()

	<-turn
	return m.releaseFunc()
}

// Dispatch runs fn while holding the mutex and returns fn's error to this
// caller only. The mutex is released on all exit paths, including a panic
// inside fn, so a failing unit of work never blocks the queue.
func (m *Mutex) Dispatch(fn func() error) error {
	release := m.Acquire()
	defer release()
	return fn()
}

func (m *Mutex) releaseFunc() func() {
	var once sync.Once
	return func() {
		once.Do(m.release)
	}
}

func (m *Mutex) release() {
	m.lock.Lock()
	next, found := m.waiters.Pop()
	if !found {
		m.held = false
		m.lock.Unlock()
		return
	}
	m.lock.Unlock()

	// Ownership passes directly to the next waiter; held stays true.
	close(next)
}

// pending reports the number of queued waiters (excluding the holder).
func (m *Mutex) pending() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.waiters.Len()
}
