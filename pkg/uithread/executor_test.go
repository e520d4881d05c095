package uithread

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/ajramos/tuirobot/internal/goid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTestExecutor(t *testing.T) (*Executor, *Loop) {
	t.Helper()
	loop := NewLoop()
	t.Cleanup(loop.Close)
	return NewExecutor(loop), loop
}

func TestQuery_ReturnsValueFromUIThread(t *testing.T) {
	defer goleak.VerifyNone(t)
	exec, loop := newTestExecutor(t)

	var ranOn int64
	got, err := Query(exec, func() (int, error) {
		ranOn = goid.Current()
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, loop.Goroutine(), ranOn)
	assert.NotEqual(t, goid.Current(), ranOn)
	loop.Close()
}

func TestRun_FromUIThreadRunsInPlace(t *testing.T) {
	exec, _ := newTestExecutor(t)

	got, err := Query(exec, func() (string, error) {
		assert.True(t, exec.IsUIThread())
		// A nested call would deadlock if it were posted behind the running task.
		return Query(exec, func() (string, error) {
			return "nested", nil
		})
	})

	require.NoError(t, err)
	assert.Equal(t, "nested", got)
}

func TestRun_WrapsReturnedError(t *testing.T) {
	exec, _ := newTestExecutor(t)

	err := exec.Run(func() error { return io.ErrUnexpectedEOF })

	require.Error(t, err)
	var me *MarshalError
	require.ErrorAs(t, err, &me)
	assert.False(t, me.Panicked)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Contains(t, err.Error(), "ui thread")
}

func TestRun_RecoversPanic(t *testing.T) {
	tests := []struct {
		name  string
		value any
		cause error
	}{
		{"error_value", io.ErrClosedPipe, io.ErrClosedPipe},
		{"string_value", "boom", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec, _ := newTestExecutor(t)

			err := exec.Run(func() error { panic(tt.value) })

			var me *MarshalError
			require.ErrorAs(t, err, &me)
			assert.True(t, me.Panicked)
			assert.NotEmpty(t, me.Stack)
			if tt.cause != nil {
				assert.ErrorIs(t, err, tt.cause)
			} else {
				assert.Contains(t, err.Error(), "boom")
			}
		})
	}
}

func TestRun_LoopSurvivesPanic(t *testing.T) {
	exec, _ := newTestExecutor(t)

	_ = exec.Run(func() error { panic("first") })
	got, err := Query(exec, func() (int, error) { return 7, nil })

	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestRun_NestedErrorIsNotWrappedTwice(t *testing.T) {
	exec, _ := newTestExecutor(t)
	sentinel := errors.New("inner")

	err := exec.Run(func() error {
		return exec.Run(func() error { return sentinel })
	})

	var me *MarshalError
	require.ErrorAs(t, err, &me)
	assert.Same(t, sentinel, me.Cause)
}

func TestRun_StoppedDispatcher(t *testing.T) {
	loop := NewLoop()
	exec := NewExecutor(loop)
	loop.Close()

	err := exec.Run(func() error { return nil })

	assert.ErrorIs(t, err, ErrStopped)
	assert.True(t, IsMarshalError(err))
}

func TestRun_SerializesConcurrentCallers(t *testing.T) {
	defer goleak.VerifyNone(t)
	loop := NewLoop()
	exec := NewExecutor(loop)

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = exec.Run(func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()

	got := Must(exec, func() int { return counter })
	assert.Equal(t, 50, got)
	loop.Close()
}

func TestExecutor_LearnsGoroutineFromTasks(t *testing.T) {
	loop := NewLoop()
	defer loop.Close()
	// Hiding Goroutine() forces the executor to learn the UI goroutine.
	exec := NewExecutor(DispatcherFunc(loop.Post))

	assert.False(t, exec.IsUIThread())
	require.NoError(t, exec.Prime())

	var onUI bool
	require.NoError(t, exec.Run(func() error {
		onUI = exec.IsUIThread()
		return nil
	}))
	assert.True(t, onUI)
	assert.False(t, exec.IsUIThread())
}

func TestLoop_CloseDrainsQueuedWork(t *testing.T) {
	defer goleak.VerifyNone(t)
	loop := NewLoop()

	block := make(chan struct{})
	ran := make(chan int, 3)
	require.NoError(t, loop.Post(func() { <-block }))
	for i := 0; i < 3; i++ {
		i := i
		require.NoError(t, loop.Post(func() { ran <- i }))
	}

	closed := make(chan struct{})
	go func() {
		loop.Close()
		close(closed)
	}()
	time.Sleep(20 * time.Millisecond)
	close(block)
	<-closed

	assert.Len(t, ran, 3)
	assert.ErrorIs(t, loop.Post(func() {}), ErrStopped)
}
