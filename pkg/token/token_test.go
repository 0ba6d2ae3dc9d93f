package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("secret", 15*time.Minute)
	userId := uuid.New()

	raw, expiresAt, err := m.IssueAccess(userId, "vendor")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, 5*time.Second)

	gotId, claims, err := m.ParseAccess(raw)
	require.NoError(t, err)
	assert.Equal(t, userId, gotId)
	assert.Equal(t, "vendor", claims.Role)
}

func TestParseRejects(t *testing.T) {
	m := NewManager("secret", time.Minute)
	raw, _, err := m.IssueAccess(uuid.New(), "user")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, _, err := NewManager("other", time.Minute).ParseAccess(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, _, err := m.ParseAccess("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewManager("secret", time.Minute)
		later.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
		_, _, err := later.ParseAccess(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
