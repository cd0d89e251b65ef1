package concurrency

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const mutexTestWait = 10 * time.Second
const mutexTestTick = time.Millisecond

// Verifies that units of work begin executing in submission order and that
// no two bodies overlap, even when submitted from concurrent goroutines.
func TestMutexFIFOOrder(t *testing.T) {
	t.Parallel()

	mu := NewMutex()
	const numUnits = 20

	// Hold the mutex so every submission below queues up behind us.
	release := mu.Acquire()

	var orderLock sync.Mutex
	order := make([]int, 0, numUnits)

	var wg sync.WaitGroup
	for i := 0; i < numUnits; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			dispatchErr := mu.Dispatch(func() error {
				orderLock.Lock()
				order = append(order, i)
				orderLock.Unlock()
				return nil
			})
			require.NoError(t, dispatchErr)
		}()

		// Wait for this submission to join the queue before issuing the next,
		// pinning down the submission order.
		require.Eventually(t, func() bool {
			return mu.pending() == i+1
		}, mutexTestWait, mutexTestTick)
	}

	release()
	wg.Wait()

	require.Len(t, order, numUnits)
	for i := 0; i < numUnits; i++ {
		require.Equal(t, i, order[i], "unit of work ran out of submission order")
	}
}

// Verifies that at most one unit of work executes at any instant.
func TestMutexBodiesDoNotOverlap(t *testing.T) {
	t.Parallel()

	mu := NewMutex()
	const numUnits = 50

	var active atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numUnits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = mu.Dispatch(func() error {
				require.Equal(t, int32(1), active.Add(1), "two bodies overlapped")
				time.Sleep(time.Millisecond)
				active.Add(-1)
				return nil
			})
		}()
	}

	wg.Wait()
}

// Verifies that a failing unit of work does not block the next queued unit
// and that its error is observed only by the caller that submitted it.
func TestMutexFaultIsolation(t *testing.T) {
	t.Parallel()

	mu := NewMutex()
	errBoom := errors.New("boom")

	release := mu.Acquire()

	failErrCh := make(chan error, 1)
	okErrCh := make(chan error, 1)

	go func() {
		failErrCh <- mu.Dispatch(func() error { return errBoom })
	}()
	require.Eventually(t, func() bool { return mu.pending() == 1 }, mutexTestWait, mutexTestTick)

	go func() {
		okErrCh <- mu.Dispatch(func() error { return nil })
	}()
	require.Eventually(t, func() bool { return mu.pending() == 2 }, mutexTestWait, mutexTestTick)

	release()

	select {
	case err := <-failErrCh:
		require.ErrorIs(t, err, errBoom)
	case <-time.After(mutexTestWait):
		require.Fail(t, "failing unit of work never completed")
	}

	select {
	case err := <-okErrCh:
		require.NoError(t, err, "error from an earlier unit of work leaked to a later caller")
	case <-time.After(mutexTestWait):
		require.Fail(t, "unit of work queued behind a failure never ran")
	}
}

// Verifies that a panic inside a dispatched unit of work still releases the
// mutex, so later submissions proceed.
func TestMutexDispatchPanicReleases(t *testing.T) {
	t.Parallel()

	mu := NewMutex()

	func() {
		defer func() {
			require.NotNil(t, recover(), "expected the panic to propagate to the submitter")
		}()
		_ = mu.Dispatch(func() error { panic("sync failure in critical section") })
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = mu.Dispatch(func() error { return nil })
	}()

	select {
	case <-done:
	case <-time.After(mutexTestWait):
		require.Fail(t, "mutex was not released after a panicking unit of work")
	}
}

// Verifies that the release function returned by Acquire is idempotent.
func TestMutexReleaseIdempotent(t *testing.T) {
	t.Parallel()

	mu := NewMutex()

	release := mu.Acquire()
	release()
	release() // Second call must be a no-op.

	r2 := mu.Acquire()

	go func() {
		r3 := mu.Acquire()
		r3()
	}()
	require.Eventually(t, func() bool { return mu.pending() == 1 }, mutexTestWait, mutexTestTick)

	// The doubled release above must not have handed an extra turn out; the
	// queued waiter runs only once we release.
	require.Equal(t, 1, mu.pending())
	r2()

	require.Eventually(t, func() bool { return mu.pending() == 0 }, mutexTestWait, mutexTestTick)
}
