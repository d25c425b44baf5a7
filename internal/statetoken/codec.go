package statetoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TTL is how long an issued state token remains verifiable.
const TTL = 10 * time.Minute

var (
	// ErrMalformed indicates a token that couldn't be parsed at all, or one
	// that's missing its expiry claim
	ErrMalformed = errors.New("malformed state token")

	// ErrInvalidSignature indicates a token whose signature doesn't recompute
	// with our secret, including tokens signed with any algorithm other than
	// HS256
	ErrInvalidSignature = errors.New("invalid state token signature")

	// ErrExpired indicates a correctly-signed token that's past its expiry
	ErrExpired = errors.New("expired state token")
)

// Codec issues and verifies state tokens signed with a shared secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{
		secret: []byte(secret),
		ttl:    TTL,
		now:    time.Now,
	}
}

// Issue mints a new token that will verify until TTL from now. The returned
// string is URL-safe as-is.
func (c *Codec) Issue() (string, error) {
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(c.now().Add(c.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks that a token was signed by our secret and hasn't expired.
// Expiry is compared with zero leeway: a token is rejected from the instant
// its expiry timestamp is reached.
func (c *Codec) Verify(token string) error {
	_, err := jwt.Parse(token,
		func(t *jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		// Signature mismatches and rejected signing methods both land here
		return ErrInvalidSignature
	}
}
