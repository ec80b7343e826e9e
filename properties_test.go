package sched

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock gives property tests direct control over what Clock.Now reports,
// so timer-deadline math can be checked without depending on real wall-clock
// scheduling slop.
type fakeClock struct {
	now Duration
}

func (c *fakeClock) Now() Duration { return c.now }

// Property 2: a timer with interval d never fires earlier than d after its
// insertion time.
func TestProperty_TimerNeverFiresBeforeItsInterval(t *testing.T) {
	fc := &fakeClock{}
	s, err := New(WithClock(fc))
	require.NoError(t, err)

	const interval = Duration(100)
	insertedAt := s.time
	var fired bool

	s.timers.Add(newTimer(interval, insertedAt, false, func(tc *TaskContext, _ ...any) any {
		fired = true
		return nil
	}, 0))

	for now := Duration(0); now < interval; now += 10 {
		fc.now = now
		s.cycleForTest()
		assert.Falsef(t, fired, "timer fired at %d, before its %d interval elapsed", now, interval)
	}

	fc.now = interval
	s.cycleForTest()
	assert.True(t, fired)
}

// Property 3: for multiple subscriptions on the same descriptor, dispatch
// order equals insertion order.
func TestProperty_FIFOReadinessOnSameDescriptor(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	s, err := New()
	require.NoError(t, err)

	var order []int
	for id := 0; id < 3; id++ {
		id := id
		s.Spawn(func(tc *TaskContext, _ ...any) any {
			tc.StreamRead(int(r.Fd()))
			order = append(order, id)
			return nil
		})
	}

	_, err = w.Write([]byte{9})
	require.NoError(t, err)

	for i := 0; i < 1000 && len(order) < 3; i++ {
		if !s.cycleForTest() {
			break
		}
	}

	assert.Equal(t, []int{0, 1, 2}, order)
}

// Property 8: if run() is never called, pending work still completes before
// process exit. RunMain is the package's stand-in for that shutdown hook.
func TestProperty_RunMainDrainsPendingWorkWithoutExplicitRun(t *testing.T) {
	var ran bool
	RunMain(func() {
		Spawn(func(tc *TaskContext, _ ...any) any {
			tc.Delay(Duration(1) * Duration(1e6))
			ran = true
			return nil
		})
	})
	assert.True(t, ran)
}

// Regression: a task parked in Send on a full/rendezvous channel must be
// woken when the channel closes, observing ErrChannelClosed rather than
// hanging forever or reporting a phantom success.
func TestChannel_CloseWakesBlockedSenderWithFailure(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	ch := NewChannel[int](s, 0)

	var sendErr error
	sender := s.Spawn(func(tc *TaskContext, _ ...any) any {
		sendErr = ch.Send(tc, 7)
		return nil
	})
	s.Spawn(func(tc *TaskContext, _ ...any) any {
		require.NoError(t, ch.Close())
		return nil
	})

	s.Run()

	require.True(t, sender.IsTerminated())
	assert.ErrorIs(t, sendErr, ErrChannelClosed)
}
