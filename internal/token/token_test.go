package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/loglens/loglens/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestIssueVerify_RoundTrip(t *testing.T) {
	svc := token.NewService(testSecret, 0)

	signed, err := svc.Issue("com.acme.app")
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	name, err := svc.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "com.acme.app", name)
}

func TestVerify_WrongSecret(t *testing.T) {
	svc := token.NewService(testSecret, 0)
	other := token.NewService("a-different-secret", 0)

	signed, err := svc.Issue("com.acme.app")
	require.NoError(t, err)

	_, err = other.Verify(signed)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerify_TamperedToken(t *testing.T) {
	svc := token.NewService(testSecret, 0)

	signed, err := svc.Issue("com.acme.app")
	require.NoError(t, err)

	// Flip one byte in each segment; every variant must fail verification.
	parts := strings.Split(signed, ".")
	require.Len(t, parts, 3)
	for i := range parts {
		tampered := make([]string, 3)
		copy(tampered, parts)
		seg := []byte(tampered[i])
		if seg[0] == 'A' {
			seg[0] = 'B'
		} else {
			seg[0] = 'A'
		}
		tampered[i] = string(seg)

		_, err := svc.Verify(strings.Join(tampered, "."))
		assert.ErrorIs(t, err, token.ErrInvalidToken, "segment %d", i)
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	// Sign a structurally valid token whose expiry has already elapsed,
	// using the same secret the service verifies with.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"packageName": "com.acme.app",
		"iat":         time.Now().Add(-25 * time.Hour).Unix(),
		"exp":         time.Now().Add(-1 * time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	svc := token.NewService(testSecret, 0)
	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerify_MissingPackageName(t *testing.T) {
	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := anonymous.SignedString([]byte(testSecret))
	require.NoError(t, err)

	svc := token.NewService(testSecret, 0)
	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerify_RejectsUnsignedAlgorithm(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"packageName": "com.acme.app",
		"exp":         time.Now().Add(time.Hour).Unix(),
	})
	signed, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	svc := token.NewService(testSecret, 0)
	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestVerify_Garbage(t *testing.T) {
	svc := token.NewService(testSecret, 0)

	for _, input := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, err := svc.Verify(input)
		assert.ErrorIs(t, err, token.ErrInvalidToken, "input %q", input)
	}
}

func TestIssue_ExpiryIs24Hours(t *testing.T) {
	svc := token.NewService(testSecret, 0)

	signed, err := svc.Issue("com.acme.app")
	require.NoError(t, err)

	var c jwt.RegisteredClaims
	_, _, err = jwt.NewParser().ParseUnverified(signed, &c)
	require.NoError(t, err)
	require.NotNil(t, c.IssuedAt)
	require.NotNil(t, c.ExpiresAt)
	assert.Equal(t, 24*time.Hour, c.ExpiresAt.Sub(c.IssuedAt.Time))
}
