package authclient

import (
	"context"

	"github.com/jrsteele09/go-session-client/credentials"
	"github.com/jrsteele09/go-session-client/users"
)

// NetworkAuth is the network collaborator performing the auth endpoint
// round-trips. Implementations classify endpoint refusals as
// ErrCredentialsRejected and connectivity failures as ErrUnavailable;
// httpauth provides the REST implementation, authclientfakes a scripted
// one for tests.
type NetworkAuth interface {
	// Login exchanges credentials for a token pair and the user profile.
	Login(ctx context.Context, email, password string) (credentials.Pair, *users.Profile, error)

	// Refresh exchanges the renewal credential for a fresh pair.
	Refresh(ctx context.Context, refreshToken string) (credentials.Pair, error)

	// Logout invalidates the refresh token server-side.
	Logout(ctx context.Context, refreshToken string) error

	// Register creates a new account. No tokens are issued; the caller
	// logs in afterwards.
	Register(ctx context.Context, registration Registration) (*users.Profile, error)

	// ChangePassword changes the password of the authenticated user.
	ChangePassword(ctx context.Context, accessToken, currentPassword, newPassword string) error

	// UpdateProfile pushes profile changes and returns the updated record.
	UpdateProfile(ctx context.Context, accessToken string, update ProfileUpdate) (*users.Profile, error)
}

// Registration is the payload for creating a new account.
type Registration struct {
	Email     string         `json:"email"`
	Password  string         `json:"password"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Role      users.RoleType `json:"role"`
}

// ProfileUpdate carries the mutable profile fields; nil fields are left
// unchanged.
type ProfileUpdate struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}
