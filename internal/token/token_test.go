package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forexpro/backend/internal/model"
)

func TestIssueAndParse(t *testing.T) {
	m := NewManager("secret")

	raw, err := m.Issue(42, model.RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := m.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestParseDemo(t *testing.T) {
	m := NewManager("secret")

	raw, err := m.IssueDemo("demo_abc", time.Hour)
	require.NoError(t, err)

	claims, err := m.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, model.RoleDemo, claims.Role)
	assert.Equal(t, "demo_abc", claims.DemoID)
	assert.Zero(t, claims.UserID)
}

func TestParseExpired(t *testing.T) {
	m := NewManager("secret")
	start := time.Now()
	m.now = func() time.Time { return start }

	raw, err := m.Issue(1, model.RoleUser, time.Minute)
	require.NoError(t, err)

	m.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = m.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseWrongSecret(t *testing.T) {
	raw, err := NewManager("one").Issue(1, model.RoleUser, time.Hour)
	require.NoError(t, err)

	_, err = NewManager("two").Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseGarbage(t *testing.T) {
	_, err := NewManager("secret").Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
