package session

// State is the lifecycle state of the session record.
type State string

const (
	// Unauthenticated is the initial state and the state after an
	// explicit logout or a rehydration miss. It accepts a new login at
	// any time.
	Unauthenticated State = "unauthenticated"

	// Authenticated holds a valid credential pair with an armed expiry
	// timer.
	Authenticated State = "authenticated"

	// Refreshing means a renewal ticket is in flight. The previous pair
	// is still held and served until the renewal settles.
	Refreshing State = "refreshing"

	// Expired is reached when a renewal fails: the session is gone and
	// the user must authenticate again. Like Unauthenticated it accepts
	// a new login.
	Expired State = "expired"
)
