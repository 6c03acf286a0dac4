package authclient

import "github.com/pkg/errors"

var (
	// ErrCredentialsRejected means the auth endpoint explicitly refused
	// the supplied credentials (bad password, expired or revoked refresh
	// token). Raised during renewal it ends the session; raised during
	// login it leaves any existing session untouched.
	ErrCredentialsRejected = errors.New("credentials rejected")

	// ErrUnavailable is a network-level failure. It carries no judgement
	// about the credentials themselves.
	ErrUnavailable = errors.New("auth endpoint unavailable")

	// ErrNoSession is returned by operations that need an active session.
	ErrNoSession = errors.New("no active session")
)
