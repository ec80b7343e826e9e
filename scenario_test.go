package sched

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S1: two one-shot timers fire in deadline order regardless of spawn order,
// and Dprintfn renders the spec's exact "[%04d]: <msg>" line format.
func TestScenario_S1_DeferOrder(t *testing.T) {
	var buf bytes.Buffer
	s, err := New(WithLogger(NewTextLogger(&buf)))
	require.NoError(t, err)

	s.timers.Add(newTimer(Duration(200)*Duration(1e6), s.time, false, func(tc *TaskContext, _ ...any) any {
		s.logger.Dprintfn(s.Elapsed(), "A")
		return nil
	}, 0))
	s.timers.Add(newTimer(Duration(100)*Duration(1e6), s.time, false, func(tc *TaskContext, _ ...any) any {
		s.logger.Dprintfn(s.Elapsed(), "B")
		return nil
	}, 0))

	// Drive the cycle directly rather than through the sleeping idle step,
	// so the test doesn't depend on wall-clock timing.
	for !s.timers.IsEmpty() {
		top, _ := s.timers.Top()
		s.time = top.deadline()
		due, _ := s.timers.Shift()
		s.fireTimer(due)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[0100]: B", lines[0])
	assert.Equal(t, "[0200]: A", lines[1])
}

// S2: a recurrent timer fires three times then stops once its callback
// returns Stop, and the loop quiesces with no timer left pending.
func TestScenario_S2_RecurrentStop(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	counter := 0
	var fireTimes []Duration

	s.timers.Add(newTimer(Duration(50)*Duration(1e6), s.time, true, func(tc *TaskContext, _ ...any) any {
		counter++
		fireTimes = append(fireTimes, s.Elapsed())
		if counter < 3 {
			return Continue
		}
		return Stop
	}, 0))

	for i := 0; i < 10 && !s.timers.IsEmpty(); i++ {
		top, _ := s.timers.Top()
		s.time = top.deadline()
		due, _ := s.timers.Shift()
		s.fireTimer(due)
	}

	require.Len(t, fireTimes, 3)
	for i, want := range []Duration{Duration(50) * Duration(1e6), Duration(100) * Duration(1e6), Duration(150) * Duration(1e6)} {
		assert.Equal(t, want, fireTimes[i])
	}

	assert.Equal(t, 3, counter)
	assert.True(t, s.timers.IsEmpty())
}

// S3: two producers send on an unbuffered channel in the order they reach
// send; one consumer receives both values in that same order.
func TestScenario_S3_ChannelFanIn(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	ch := NewChannel[string](s, 0)

	var received []string

	s.Spawn(func(tc *TaskContext, _ ...any) any {
		for i := 0; i < 2; i++ {
			v, ok := ch.Receive(tc)
			require.True(t, ok)
			received = append(received, v)
		}
		return nil
	})
	s.Spawn(func(tc *TaskContext, _ ...any) any {
		require.NoError(t, ch.Send(tc, "p1"))
		return nil
	})
	s.Spawn(func(tc *TaskContext, _ ...any) any {
		require.NoError(t, ch.Send(tc, "p2"))
		return nil
	})

	s.Run()

	assert.Equal(t, []string{"p1", "p2"}, received)
	assert.Len(t, received, 2)
}

// S4: five tasks each delay five times before finishing; every task enters,
// all twenty-five wakeups happen, and every task completes.
func TestScenario_S4_DelayFairness(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	const n = 5
	const rounds = 5

	// Counters are only ever touched from whichever task goroutine currently
	// holds the baton, so no mutex is needed: the scheduler's own exclusivity
	// guarantee is the synchronization.
	entered := 0
	wakeups := 0
	completed := 0

	for id := 0; id < n; id++ {
		id := id
		s.Spawn(func(tc *TaskContext, _ ...any) any {
			entered++
			for r := 0; r < rounds; r++ {
				tc.Delay(Duration(20) * Duration(1e6))
				wakeups++
			}
			completed++
			_ = id
			return nil
		})
	}

	s.Run()

	assert.Equal(t, n, entered)
	assert.Equal(t, n*rounds, wakeups)
	assert.Equal(t, n, completed)
}

// S5: a producer sends "x" then "y" then closes; the consumer loops while
// not closed, observing both values and then a clean, fault-free exit.
func TestScenario_S5_CloseSemantics(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	ch := NewChannel[string](s, 1)

	var received []string
	consumer := s.Spawn(func(tc *TaskContext, _ ...any) any {
		for {
			v, ok := ch.Receive(tc)
			if !ok {
				return nil
			}
			received = append(received, v)
		}
	})
	s.Spawn(func(tc *TaskContext, _ ...any) any {
		require.NoError(t, ch.Send(tc, "x"))
		require.NoError(t, ch.Send(tc, "y"))
		require.NoError(t, ch.Close())
		return nil
	})

	s.Run()

	require.True(t, consumer.IsTerminated())
	assert.Equal(t, []string{"x", "y"}, received)
	_, isFault := consumer.GetReturn().(*Fault)
	assert.False(t, isFault)
}

// S6: a reader subscribed via StreamRead resumes exactly once, with all
// bytes already available, and its subscription is removed once it
// terminates.
func TestScenario_S6_ReadableDispatch(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	s, err := New()
	require.NoError(t, err)

	resumeCount := 0
	var payload []byte

	reader := s.Spawn(func(tc *TaskContext, _ ...any) any {
		tc.StreamRead(int(r.Fd()))
		resumeCount++
		buf := make([]byte, 64)
		n, _ := r.Read(buf)
		payload = buf[:n]
		return nil
	})

	_, err = w.Write([]byte{1, 2, 3, 4})
	require.NoError(t, err)

	for i := 0; i < 1000 && !reader.IsTerminated(); i++ {
		if !s.cycleForTest() {
			break
		}
	}

	require.True(t, reader.IsTerminated())
	assert.Equal(t, 1, resumeCount)
	assert.Equal(t, []byte{1, 2, 3, 4}, payload)
	assert.True(t, s.readSubs.IsEmpty())
}

// cycleForTest exposes cycle for scenario tests that need to drive the loop
// one pass at a time instead of blocking on Run's idle sleep.
func (s *Scheduler) cycleForTest() bool { return s.cycle() }
