// Package refresh coordinates credential renewal so that any number of
// concurrent triggers (the proactive expiry timer, a caller reacting to a
// rejected request) share a single network round-trip.
package refresh

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/jrsteele09/go-session-client/claims"
	"github.com/jrsteele09/go-session-client/credentials"
	"github.com/jrsteele09/go-session-client/session"
)

// Renewer performs the renewal round-trip against the auth endpoint.
type Renewer interface {
	Refresh(ctx context.Context, refreshToken string) (credentials.Pair, error)
}

// Coordinator serializes renewals. The first caller to find no ticket in
// flight creates one and performs the round-trip; callers arriving while
// it is pending attach to the same ticket and observe the same outcome. A
// settled ticket is discarded immediately, so a later call starts fresh.
type Coordinator struct {
	machine *session.Machine
	renewer Renewer
	log     zerolog.Logger

	group singleflight.Group
}

// NewCoordinator creates a Coordinator bound to the given state machine
// and renewer.
func NewCoordinator(machine *session.Machine, renewer Renewer, log zerolog.Logger) *Coordinator {
	return &Coordinator{machine: machine, renewer: renewer, log: log}
}

// ticketKey collapses every caller onto the one in-flight ticket.
const ticketKey = "refresh"

// Refresh renews the credential pair. Concurrent calls issued before the
// in-flight attempt settles share its outcome; exactly one network call is
// made. On failure the session has already been torn down by the time this
// returns; the caller only needs to send the user back to authentication.
// There is no automatic retry and no mid-flight cancellation.
func (c *Coordinator) Refresh(ctx context.Context) (credentials.Pair, error) {
	result, err, _ := c.group.Do(ticketKey, func() (interface{}, error) {
		return c.renew(ctx)
	})
	if err != nil {
		return credentials.Pair{}, err
	}
	return result.(credentials.Pair), nil
}

func (c *Coordinator) renew(ctx context.Context) (interface{}, error) {
	refreshToken, err := c.machine.BeginRefresh()
	if err != nil {
		return nil, errors.Wrap(err, "[Coordinator.Refresh] no renewal credential")
	}

	log := c.log.With().Str("ticket_id", uuid.New().String()).Logger()
	log.Debug().Msg("renewal started")

	pair, err := c.renewer.Refresh(ctx, refreshToken)
	if err != nil {
		c.machine.FailRefresh()
		log.Warn().Err(err).Msg("renewal failed, session ended")
		return nil, errors.Wrap(err, "[Coordinator.Refresh] renew")
	}

	decoded, err := claims.Decode(pair.AccessToken)
	if err != nil {
		c.machine.FailRefresh()
		log.Warn().Err(err).Msg("renewed token undecodable, session ended")
		return nil, errors.Wrap(err, "[Coordinator.Refresh] decode renewed token")
	}

	if err := c.machine.CompleteRefresh(pair, decoded.ExpiresAt); err != nil {
		c.machine.FailRefresh()
		return nil, errors.Wrap(err, "[Coordinator.Refresh] apply renewed pair")
	}

	log.Debug().Time("expires_at", decoded.ExpiresAt).Msg("renewal complete")
	return pair, nil
}
