package authclientfakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-session-client/authclient"
	"github.com/jrsteele09/go-session-client/credentials"
	"github.com/jrsteele09/go-session-client/users"
)

var _ authclient.NetworkAuth = (*FakeNetworkAuth)(nil)

// FakeNetworkAuth is a scripted NetworkAuth for tests: result fields are
// returned as-is and every call is counted. When RefreshBarrier is set,
// Refresh blocks until the channel is closed, letting a test hold a
// renewal in flight while more callers pile up.
type FakeNetworkAuth struct {
	lock sync.Mutex

	LoginPair    credentials.Pair
	LoginProfile *users.Profile
	LoginErr     error

	RefreshPair    credentials.Pair
	RefreshErr     error
	RefreshBarrier chan struct{}

	LogoutErr error

	RegisterProfile *users.Profile
	RegisterErr     error

	ChangePasswordErr error

	UpdatedProfile   *users.Profile
	UpdateProfileErr error

	loginCalls       int
	refreshCalls     int
	logoutCalls      int
	registerCalls    int
	lastLoginEmail   string
	lastRefreshToken string
	lastLogoutToken  string
}

// NewFakeNetworkAuth returns a fake whose every call succeeds with zero
// values until scripted otherwise.
func NewFakeNetworkAuth() *FakeNetworkAuth {
	return &FakeNetworkAuth{}
}

func (f *FakeNetworkAuth) Login(_ context.Context, email, _ string) (credentials.Pair, *users.Profile, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.loginCalls++
	f.lastLoginEmail = email
	return f.LoginPair, f.LoginProfile, f.LoginErr
}

func (f *FakeNetworkAuth) Refresh(_ context.Context, refreshToken string) (credentials.Pair, error) {
	f.lock.Lock()
	f.refreshCalls++
	f.lastRefreshToken = refreshToken
	pair, err := f.RefreshPair, f.RefreshErr
	barrier := f.RefreshBarrier
	f.lock.Unlock()

	if barrier != nil {
		<-barrier
	}
	return pair, err
}

func (f *FakeNetworkAuth) Logout(_ context.Context, refreshToken string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.logoutCalls++
	f.lastLogoutToken = refreshToken
	return f.LogoutErr
}

func (f *FakeNetworkAuth) Register(_ context.Context, _ authclient.Registration) (*users.Profile, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.registerCalls++
	return f.RegisterProfile, f.RegisterErr
}

func (f *FakeNetworkAuth) ChangePassword(_ context.Context, _, _, _ string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.ChangePasswordErr
}

func (f *FakeNetworkAuth) UpdateProfile(_ context.Context, _ string, _ authclient.ProfileUpdate) (*users.Profile, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.UpdatedProfile, f.UpdateProfileErr
}

func (f *FakeNetworkAuth) LoginCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.loginCalls
}

func (f *FakeNetworkAuth) RefreshCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.refreshCalls
}

func (f *FakeNetworkAuth) LogoutCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.logoutCalls
}

func (f *FakeNetworkAuth) RegisterCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.registerCalls
}

func (f *FakeNetworkAuth) LastRefreshToken() string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.lastRefreshToken
}

func (f *FakeNetworkAuth) LastLogoutToken() string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.lastLogoutToken
}
