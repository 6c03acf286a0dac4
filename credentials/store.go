package credentials

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-session-client/users"
)

// Keys used in the Storage collaborator. All three entries are written and
// cleared together; a partial set is treated as no session.
const (
	AccessTokenKey  = "access_token"
	RefreshTokenKey = "refresh_token"
	UserDataKey     = "user_data"
)

// Store persists the credential pair and the cached profile as one logical
// unit.
type Store struct {
	storage Storage
}

// NewStore wraps the given Storage collaborator.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Save writes all three entries. When a later write fails, the entries
// already written are removed so a subsequent Load never finds half a
// session.
func (s *Store) Save(pair Pair, profile *users.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return errors.Wrap(err, "[Store.Save] marshal profile")
	}
	if err := s.storage.Set(AccessTokenKey, pair.AccessToken); err != nil {
		return errors.Wrap(err, "[Store.Save] access token")
	}
	if err := s.storage.Set(RefreshTokenKey, pair.RefreshToken); err != nil {
		_ = s.Clear()
		return errors.Wrap(err, "[Store.Save] refresh token")
	}
	if err := s.storage.Set(UserDataKey, string(data)); err != nil {
		_ = s.Clear()
		return errors.Wrap(err, "[Store.Save] profile")
	}
	return nil
}

// Load returns the stored pair and profile. ok is false when any of the
// three entries is missing or unreadable; remnants are cleared in that
// case.
func (s *Store) Load() (Pair, *users.Profile, bool) {
	accessToken, okAccess := s.storage.Get(AccessTokenKey)
	refreshToken, okRefresh := s.storage.Get(RefreshTokenKey)
	userData, okUser := s.storage.Get(UserDataKey)

	if !okAccess || !okRefresh || !okUser {
		if okAccess || okRefresh || okUser {
			_ = s.Clear()
		}
		return Pair{}, nil, false
	}

	var profile users.Profile
	if err := json.Unmarshal([]byte(userData), &profile); err != nil {
		_ = s.Clear()
		return Pair{}, nil, false
	}

	return Pair{AccessToken: accessToken, RefreshToken: refreshToken}, &profile, true
}

// Clear removes all three entries. The first failure is reported but every
// removal is still attempted.
func (s *Store) Clear() error {
	var firstErr error
	for _, key := range []string{AccessTokenKey, RefreshTokenKey, UserDataKey} {
		if err := s.storage.Remove(key); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "[Store.Clear] %s", key)
		}
	}
	return firstErr
}
