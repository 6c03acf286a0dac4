// Package session owns the session record: the held credential pair, the
// cached profile and the lifecycle state.
package session

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-session-client/credentials"
	"github.com/jrsteele09/go-session-client/internal/observe"
	"github.com/jrsteele09/go-session-client/scheduler"
	"github.com/jrsteele09/go-session-client/users"
)

// ErrNotAuthenticated is returned by transitions that need a held session.
var ErrNotAuthenticated = errors.New("no authenticated session")

// Machine is the only writer of the session record. The facade and the
// refresh coordinator mutate it exclusively through the transition methods
// below; each transition applies its persistence, timer and publication
// side effects before anyone can observe the new state.
type Machine struct {
	store    *credentials.Store
	sched    *scheduler.Scheduler
	onExpiry func()
	log      zerolog.Logger

	lock    sync.Mutex
	state   State
	creds   credentials.Pair
	profile *users.Profile

	currentUser *observe.Value[*users.Profile]
}

// NewMachine creates a Machine in the Unauthenticated state.
func NewMachine(store *credentials.Store, sched *scheduler.Scheduler, log zerolog.Logger) *Machine {
	return &Machine{
		store:       store,
		sched:       sched,
		state:       Unauthenticated,
		log:         log,
		currentUser: observe.NewValue[*users.Profile](nil),
	}
}

// SetExpiryHandler installs the callback armed ahead of each access
// token's expiry. Must be set before the first Authenticate.
func (m *Machine) SetExpiryHandler(onExpiry func()) {
	m.onExpiry = onExpiry
}

// Authenticate installs a credential pair and profile, persists all three
// storage entries and arms the expiry timer. Valid from any state: a fresh
// login replaces whatever was held before.
func (m *Machine) Authenticate(pair credentials.Pair, profile *users.Profile, expiresAt time.Time) error {
	m.lock.Lock()
	if err := m.store.Save(pair, profile); err != nil {
		m.lock.Unlock()
		return errors.Wrap(err, "[Machine.Authenticate] persist")
	}
	m.state = Authenticated
	m.creds = pair
	m.profile = profile
	m.sched.Arm(expiresAt, m.onExpiry)
	m.log.Debug().Str("subject", profile.ID).Time("expires_at", expiresAt).Msg("session authenticated")
	m.lock.Unlock()

	m.currentUser.Set(profile)
	return nil
}

// BeginRefresh moves the session into Refreshing and hands back the
// renewal credential for the round-trip.
func (m *Machine) BeginRefresh() (string, error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if m.state != Authenticated && m.state != Refreshing {
		return "", ErrNotAuthenticated
	}
	if m.creds.RefreshToken == "" {
		return "", ErrNotAuthenticated
	}
	m.state = Refreshing
	return m.creds.RefreshToken, nil
}

// CompleteRefresh swaps in the renewed pair, persists it and re-arms the
// expiry timer. The swap is atomic: no reader ever sees a half-updated
// pair.
func (m *Machine) CompleteRefresh(pair credentials.Pair, expiresAt time.Time) error {
	m.lock.Lock()
	if m.state != Refreshing {
		m.lock.Unlock()
		return errors.Errorf("[Machine.CompleteRefresh] unexpected state %q", m.state)
	}
	if err := m.store.Save(pair, m.profile); err != nil {
		m.lock.Unlock()
		return errors.Wrap(err, "[Machine.CompleteRefresh] persist")
	}
	m.state = Authenticated
	m.creds = pair
	profile := m.profile
	m.sched.Arm(expiresAt, m.onExpiry)
	m.log.Debug().Time("expires_at", expiresAt).Msg("session renewed")
	m.lock.Unlock()

	m.currentUser.Set(profile)
	return nil
}

// FailRefresh ends the session after a failed renewal: Expired state,
// cleared storage, disarmed timer, absent user published. A logout that
// raced the renewal wins; the session is already gone and stays where the
// logout left it.
func (m *Machine) FailRefresh() {
	m.teardown(Expired, true)
}

// Logout clears the session unconditionally. Safe to call repeatedly or
// with no session held.
func (m *Machine) Logout() {
	m.teardown(Unauthenticated, false)
}

// ReplaceProfile swaps the cached profile after a profile edit. Storage's
// user entry is rewritten and the stream publishes the new value;
// credentials and the expiry timer are untouched.
func (m *Machine) ReplaceProfile(profile *users.Profile) error {
	m.lock.Lock()
	if m.state != Authenticated && m.state != Refreshing {
		m.lock.Unlock()
		return ErrNotAuthenticated
	}
	if err := m.store.Save(m.creds, profile); err != nil {
		m.lock.Unlock()
		return errors.Wrap(err, "[Machine.ReplaceProfile] persist")
	}
	m.profile = profile
	m.lock.Unlock()

	m.currentUser.Set(profile)
	return nil
}

// State returns the current lifecycle state.
func (m *Machine) State() State {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.state
}

// Credentials returns the held credential pair, or an empty pair when no
// session is active.
func (m *Machine) Credentials() credentials.Pair {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.creds
}

// Profile returns the cached profile, or nil when no session is active.
func (m *Machine) Profile() *users.Profile {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.profile
}

// SubscribeCurrentUser registers fn on the current-user stream. fn is
// invoked immediately with the present value (nil when unauthenticated)
// and again on every change.
func (m *Machine) SubscribeCurrentUser(fn func(*users.Profile)) (cancel func()) {
	return m.currentUser.Subscribe(fn)
}

func (m *Machine) teardown(next State, onlyActive bool) {
	m.lock.Lock()
	wasActive := m.state == Authenticated || m.state == Refreshing
	if onlyActive && !wasActive {
		m.lock.Unlock()
		return
	}
	m.state = next
	m.creds = credentials.Pair{}
	m.profile = nil
	m.sched.Disarm()
	if err := m.store.Clear(); err != nil {
		m.log.Warn().Err(err).Msg("clearing credential store")
	}
	m.log.Debug().Str("state", string(next)).Msg("session cleared")
	m.lock.Unlock()

	// Publish the absent user only when there was one, so repeated
	// logouts stay silent.
	if wasActive {
		m.currentUser.Set(nil)
	}
}
