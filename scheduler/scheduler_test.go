package scheduler_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-session-client/scheduler"
)

func TestArmFiresAtMarginBeforeExpiry(t *testing.T) {
	s := scheduler.New(scheduler.WithMargin(40 * time.Millisecond))

	fired := make(chan time.Time, 1)
	armedAt := time.Now()
	s.Arm(armedAt.Add(60*time.Millisecond), func() { fired <- time.Now() })

	select {
	case firedAt := <-fired:
		// expiry-margin = 20ms after arming; never earlier.
		require.GreaterOrEqual(t, firedAt.Sub(armedAt), 20*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
	require.False(t, s.Armed())
}

func TestArmFiresImmediatelyWhenMarginAlreadyPassed(t *testing.T) {
	s := scheduler.New(scheduler.WithMargin(60 * time.Second))

	var fired atomic.Bool
	done := make(chan struct{})
	s.Arm(time.Now().Add(30*time.Second), func() {
		fired.Store(true)
		close(done)
	})

	// Delivery is asynchronous: never from inside Arm itself.
	require.False(t, fired.Load())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
}

func TestDisarmPreventsFire(t *testing.T) {
	s := scheduler.New(scheduler.WithMargin(time.Millisecond))

	var fires atomic.Int32
	s.Arm(time.Now().Add(30*time.Millisecond), func() { fires.Add(1) })
	s.Disarm()

	time.Sleep(80 * time.Millisecond)
	require.Equal(t, int32(0), fires.Load())
	require.False(t, s.Armed())

	// Disarming again, or after the window passed, is a no-op.
	s.Disarm()
}

func TestRearmReplacesPreviousTimer(t *testing.T) {
	s := scheduler.New(scheduler.WithMargin(time.Millisecond))

	var firstFires, secondFires atomic.Int32
	done := make(chan struct{})
	s.Arm(time.Now().Add(30*time.Millisecond), func() { firstFires.Add(1) })
	s.Arm(time.Now().Add(50*time.Millisecond), func() {
		secondFires.Add(1)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("replacement timer never fired")
	}
	time.Sleep(50 * time.Millisecond)

	require.Equal(t, int32(0), firstFires.Load())
	require.Equal(t, int32(1), secondFires.Load())
}

func TestArmFiresExactlyOnce(t *testing.T) {
	s := scheduler.New(scheduler.WithMargin(time.Millisecond))

	var fires atomic.Int32
	s.Arm(time.Now().Add(10*time.Millisecond), func() { fires.Add(1) })

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(1), fires.Load())
}
