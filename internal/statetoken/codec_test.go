package statetoken

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(secret string, now time.Time) *Codec {
	c := NewCodec(secret)
	c.now = func() time.Time { return now }
	return c
}

func Test_Codec_roundTrip(t *testing.T) {
	c := NewCodec("my-client-secret")
	token, err := c.Issue()
	require.NoError(t, err)
	assert.NoError(t, c.Verify(token))
}

func Test_Codec_expiry(t *testing.T) {
	issuedAt := time.Unix(1700000000, 0)
	issuer := newTestCodec("my-client-secret", issuedAt)
	token, err := issuer.Issue()
	require.NoError(t, err)

	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"valid one second before expiry", issuedAt.Add(TTL - time.Second), nil},
		{"expired at the instant of expiry", issuedAt.Add(TTL), ErrExpired},
		{"expired one second after expiry", issuedAt.Add(TTL + time.Second), ErrExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := newTestCodec("my-client-secret", tt.now)
			err := verifier.Verify(token)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func Test_Codec_tamperedSignatureIsRejected(t *testing.T) {
	c := NewCodec("my-client-secret")
	token, err := c.Issue()
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// Flip the first character of the signature segment
	sig := parts[2]
	flipped := "A"
	if sig[0] == 'A' {
		flipped = "B"
	}
	parts[2] = flipped + sig[1:]

	err = c.Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func Test_Codec_wrongKeyIsRejected(t *testing.T) {
	issuer := NewCodec("secret-a")
	token, err := issuer.Issue()
	require.NoError(t, err)

	verifier := NewCodec("secret-b")
	assert.ErrorIs(t, verifier.Verify(token), ErrInvalidSignature)
}

func Test_Codec_rejectsOtherSigningMethods(t *testing.T) {
	// A token HMAC'd with a different algorithm must not verify, even when
	// it's signed with the correct secret
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(TTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("my-client-secret"))
	require.NoError(t, err)

	c := NewCodec("my-client-secret")
	assert.ErrorIs(t, c.Verify(token), ErrInvalidSignature)
}

func Test_Codec_rejectsTokenWithoutExpiry(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{}).SignedString([]byte("my-client-secret"))
	require.NoError(t, err)

	c := NewCodec("my-client-secret")
	assert.ErrorIs(t, c.Verify(token), ErrMalformed)
}

func Test_Codec_rejectsGarbage(t *testing.T) {
	c := NewCodec("my-client-secret")
	for _, token := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		assert.ErrorIs(t, c.Verify(token), ErrMalformed, "token %q", token)
	}
}
