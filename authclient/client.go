// Package authclient is the session facade: login, logout, proactive
// token renewal and the role/authentication queries the rest of the
// application consumes. It is the only package that knows the concrete
// network and storage collaborators.
package authclient

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-session-client/claims"
	"github.com/jrsteele09/go-session-client/credentials"
	"github.com/jrsteele09/go-session-client/refresh"
	"github.com/jrsteele09/go-session-client/scheduler"
	"github.com/jrsteele09/go-session-client/session"
	"github.com/jrsteele09/go-session-client/users"
)

// Client composes the credential store, inspector, expiry scheduler,
// refresh coordinator and state machine behind one public surface.
type Client struct {
	network     NetworkAuth
	store       *credentials.Store
	machine     *session.Machine
	coordinator *refresh.Coordinator
	nowTime     func() time.Time
	log         zerolog.Logger
}

type settings struct {
	margin  time.Duration
	nowTime func() time.Time
	log     zerolog.Logger
}

// Option modifies the Client configuration.
type Option func(*settings)

// WithRefreshMargin sets how far before expiry the proactive renewal runs.
func WithRefreshMargin(margin time.Duration) Option {
	return func(s *settings) {
		s.margin = margin
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *settings) {
		s.nowTime = nowFunc
	}
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(s *settings) {
		s.log = log
	}
}

// New wires the facade and rehydrates any stored session: a stored pair
// whose access token is still valid restores Authenticated without a
// network call; anything less is cleared.
func New(network NetworkAuth, storage credentials.Storage, options ...Option) (*Client, error) {
	if network == nil {
		return nil, errors.New("[authclient.New] network collaborator is required")
	}
	if storage == nil {
		return nil, errors.New("[authclient.New] storage collaborator is required")
	}

	s := settings{margin: scheduler.DefaultMargin, nowTime: time.Now, log: zerolog.Nop()}
	for _, opt := range options {
		opt(&s)
	}

	store := credentials.NewStore(storage)
	sched := scheduler.New(scheduler.WithMargin(s.margin), scheduler.WithNowTime(s.nowTime))
	machine := session.NewMachine(store, sched, s.log)

	c := &Client{
		network:     network,
		store:       store,
		machine:     machine,
		coordinator: refresh.NewCoordinator(machine, network, s.log),
		nowTime:     s.nowTime,
		log:         s.log,
	}
	machine.SetExpiryHandler(c.scheduledRefresh)
	c.rehydrate()
	return c, nil
}

// Login authenticates against the endpoint and installs the session. A
// rejected or failed login leaves any existing session untouched.
func (c *Client) Login(ctx context.Context, email, password string) (*users.Profile, error) {
	pair, profile, err := c.network.Login(ctx, email, password)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Login] network login")
	}

	decoded, err := claims.Decode(pair.AccessToken)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Login] issued token undecodable")
	}

	if err := c.machine.Authenticate(pair, profile, decoded.ExpiresAt); err != nil {
		return nil, errors.Wrap(err, "[Client.Login] install session")
	}

	c.log.Info().Str("email", email).Msg("logged in")
	return profile, nil
}

// Logout ends the session. The endpoint is notified best-effort; local
// state is cleared whatever the network says, and repeated calls are
// harmless.
func (c *Client) Logout(ctx context.Context) {
	if refreshToken := c.machine.Credentials().RefreshToken; refreshToken != "" {
		if err := c.network.Logout(ctx, refreshToken); err != nil {
			c.log.Warn().Err(err).Msg("remote logout failed, clearing local session anyway")
		}
	}
	c.machine.Logout()
}

// Register creates a new account. It never touches the current session;
// the caller logs in afterwards.
func (c *Client) Register(ctx context.Context, registration Registration) (*users.Profile, error) {
	profile, err := c.network.Register(ctx, registration)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.Register] network register")
	}
	return profile, nil
}

// Refresh forces a renewal, for callers reacting to a rejected request.
// Concurrent calls, including the scheduler's own, share one round-trip
// and observe the same outcome.
func (c *Client) Refresh(ctx context.Context) error {
	if _, err := c.coordinator.Refresh(ctx); err != nil {
		return errors.Wrap(err, "[Client.Refresh]")
	}
	return nil
}

// ChangePassword changes the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	accessToken := c.machine.Credentials().AccessToken
	if accessToken == "" {
		return ErrNoSession
	}
	if err := c.network.ChangePassword(ctx, accessToken, currentPassword, newPassword); err != nil {
		return errors.Wrap(err, "[Client.ChangePassword]")
	}
	return nil
}

// UpdateProfile pushes profile changes to the endpoint and replaces the
// cached profile on success; credentials and the expiry timer are
// untouched.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*users.Profile, error) {
	accessToken := c.machine.Credentials().AccessToken
	if accessToken == "" {
		return nil, ErrNoSession
	}

	profile, err := c.network.UpdateProfile(ctx, accessToken, update)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.UpdateProfile]")
	}
	if err := c.machine.ReplaceProfile(profile); err != nil {
		return nil, errors.Wrap(err, "[Client.UpdateProfile] cache profile")
	}
	return profile, nil
}

// IsAuthenticated reports whether a session is active and its access
// token has not yet expired, guarding against drift between the scheduled
// refresh and the moment of asking.
func (c *Client) IsAuthenticated() bool {
	state := c.machine.State()
	if state != session.Authenticated && state != session.Refreshing {
		return false
	}
	return claims.IsValid(c.machine.Credentials().AccessToken, c.nowTime())
}

// CurrentUser returns the profile of the authenticated user, or nil.
func (c *Client) CurrentUser() *users.Profile {
	return c.machine.Profile()
}

// HasRole reports whether the current user holds role. No session means
// no roles; it never fails.
func (c *Client) HasRole(role users.RoleType) bool {
	return c.machine.Profile().HasRole(role)
}

// HasAnyRole reports whether the current user holds at least one of roles.
func (c *Client) HasAnyRole(roles ...users.RoleType) bool {
	return c.machine.Profile().HasAnyRole(roles...)
}

// RequireAuth is the route-guard primitive: the caller redirects to the
// login surface when it returns false.
func (c *Client) RequireAuth() bool {
	return c.IsAuthenticated()
}

// AuthHeader returns the Authorization header value for outbound request
// decoration, or false when no valid session is held. It never triggers a
// renewal; a caller seeing a rejected request uses Refresh explicitly.
func (c *Client) AuthHeader() (string, bool) {
	if !c.IsAuthenticated() {
		return "", false
	}
	return "Bearer " + c.machine.Credentials().AccessToken, true
}

// State returns the lifecycle state of the session.
func (c *Client) State() session.State {
	return c.machine.State()
}

// Subscribe registers fn on the current-user stream: it is invoked with
// the present value immediately and again on every change. The returned
// cancel removes the subscription.
func (c *Client) Subscribe(fn func(*users.Profile)) (cancel func()) {
	return c.machine.SubscribeCurrentUser(fn)
}

// scheduledRefresh is the proactive trigger armed by the state machine's
// expiry timer. A failure has already torn the session down inside the
// coordinator; nothing to do here but log.
func (c *Client) scheduledRefresh() {
	if _, err := c.coordinator.Refresh(context.Background()); err != nil {
		c.log.Warn().Err(err).Msg("scheduled refresh failed")
	}
}

func (c *Client) rehydrate() {
	pair, profile, ok := c.store.Load()
	if !ok {
		return
	}

	decoded, err := claims.Decode(pair.AccessToken)
	if err != nil || !decoded.ExpiresAt.After(c.nowTime()) {
		c.log.Debug().Msg("stored session unusable, clearing")
		if err := c.store.Clear(); err != nil {
			c.log.Warn().Err(err).Msg("clearing stored session")
		}
		return
	}

	if err := c.machine.Authenticate(pair, profile, decoded.ExpiresAt); err != nil {
		c.log.Warn().Err(err).Msg("restoring stored session")
		return
	}
	c.log.Debug().Str("subject", profile.ID).Msg("session restored from storage")
}
