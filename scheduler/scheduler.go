// Package scheduler arms the proactive-refresh timer: one shot, a fixed
// margin ahead of the access token's expiry.
package scheduler

import (
	"sync"
	"time"
)

// DefaultMargin is how far ahead of expiry the timer fires.
const DefaultMargin = 60 * time.Second

// Scheduler owns at most one armed timer. Arming replaces any previous
// timer, so repeated renewal cycles never accumulate handles. A fire
// instant already in the past is delivered asynchronously straight away,
// never synchronously from inside Arm.
type Scheduler struct {
	margin  time.Duration
	nowTime func() time.Time

	lock   sync.Mutex
	seq    uint64
	active *time.Timer
}

// Option modifies the Scheduler instance.
type Option func(*Scheduler)

// WithMargin sets how far before expiry the timer fires.
func WithMargin(margin time.Duration) Option {
	return func(s *Scheduler) {
		s.margin = margin
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Scheduler) {
		s.nowTime = nowFunc
	}
}

// New creates a Scheduler with the default margin unless overridden.
func New(options ...Option) *Scheduler {
	s := &Scheduler{margin: DefaultMargin, nowTime: time.Now}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Arm schedules onFire for expiresAt minus the margin, replacing any
// previously armed timer. onFire runs at most once per Arm call and never
// runs after Disarm.
func (s *Scheduler) Arm(expiresAt time.Time, onFire func()) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.stopLocked()
	s.seq++
	armed := s.seq

	delay := expiresAt.Add(-s.margin).Sub(s.nowTime())
	if delay < 0 {
		delay = 0
	}

	s.active = time.AfterFunc(delay, func() {
		s.lock.Lock()
		// A Disarm or re-arm that raced the timer firing wins.
		stale := armed != s.seq
		if !stale {
			s.active = nil
		}
		s.lock.Unlock()
		if stale {
			return
		}
		onFire()
	})
}

// Disarm cancels the armed timer, if any. Disarming after the timer has
// fired is a no-op.
func (s *Scheduler) Disarm() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.stopLocked()
	s.seq++
}

// Armed reports whether a timer is currently pending.
func (s *Scheduler) Armed() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.active != nil
}

func (s *Scheduler) stopLocked() {
	if s.active != nil {
		s.active.Stop()
		s.active = nil
	}
}
