package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-dashboard/internal/domain"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("super-secret", time.Hour)
	identity := domain.Identity{ID: "user-123", Email: "a@x.com", Name: "A"}

	token, expiresAt, err := tm.Issue(identity)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	got, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, identity, *got)
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	tm := &TokenManager{secret: []byte("super-secret"), ttl: -time.Minute}
	token, _, err := tm.Issue(domain.Identity{ID: "u1"})
	require.NoError(t, err)

	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	token, _, err := NewTokenManager("right-secret", time.Hour).Issue(domain.Identity{ID: "u2"})
	require.NoError(t, err)

	_, err = NewTokenManager("wrong-secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()

	tm := NewTokenManager("k", time.Hour)
	for _, tokenStr := range []string{"", "not.a.jwt", "garbage"} {
		_, err := tm.Verify(tokenStr)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", tokenStr)
	}
}

func TestVerifyExpiredBeatsValidSignature(t *testing.T) {
	t.Parallel()

	// Same secret on both sides; only the expiry is stale.
	tm := &TokenManager{secret: []byte("shared"), ttl: -time.Hour}
	token, _, err := tm.Issue(domain.Identity{ID: "u3"})
	require.NoError(t, err)

	verifier := NewTokenManager("shared", time.Hour)
	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}
