// Package claims decodes the structured payload embedded in an access
// token. Decoding is pure and local: the API enforces signatures, the
// client only needs the expiry instant and the role claims.
package claims

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-session-client/users"
)

// ErrMalformedToken is returned when a token cannot be decoded. A token
// that fails to decode is unusable and is never retried.
var ErrMalformedToken = errors.New("malformed token")

// Claims holds the fields this client reads out of an access token.
type Claims struct {
	Subject   string         // Unique user ID ("sub")
	Email     string         // User email ("email")
	Role      users.RoleType // Application role ("role")
	ExpiresAt time.Time      // Expiry instant ("exp")
}

// Decode extracts claims from a raw access token without verifying the
// signature. Pure and synchronous, no I/O.
func Decode(rawToken string) (*Claims, error) {
	token, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(ErrMalformedToken, err.Error())
	}

	mapClaims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.Wrap(ErrMalformedToken, "claims are not a JSON object")
	}

	sub, _ := mapClaims["sub"].(string)
	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)

	exp, ok := mapClaims["exp"].(float64)
	if !ok {
		return nil, errors.Wrap(ErrMalformedToken, "missing exp claim")
	}

	return &Claims{
		Subject:   sub,
		Email:     email,
		Role:      users.RoleType(role),
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}

// IsValid reports whether the token decodes and has not expired at now.
// An expired or malformed token is a normal decision input, not an error.
func IsValid(rawToken string, now time.Time) bool {
	decoded, err := Decode(rawToken)
	if err != nil {
		return false
	}
	return decoded.ExpiresAt.After(now)
}
