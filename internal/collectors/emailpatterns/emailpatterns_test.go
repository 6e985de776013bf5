// internal/collectors/emailpatterns/emailpatterns_test.go
package emailpatterns

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opensight/internal/core/domain"
	"opensight/internal/platform/errors"
)

func TestPatterns(t *testing.T) {
	got, err := Patterns("mail.Example.co.uk", []string{"admin", "security"})
	require.NoError(t, err)

	assert.Equal(t, []string{"admin@example.co.uk", "security@example.co.uk"}, got)
}

func TestPatterns_InvalidTarget(t *testing.T) {
	_, err := Patterns("John Doe", DefaultRoles)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestNew_DefaultRoles(t *testing.T) {
	c := New(nil)

	got, err := c.Collect(context.Background(), domain.NewTarget("example.com", domain.ModeDomain), nil)
	require.NoError(t, err)

	addrs, ok := got.([]string)
	require.True(t, ok)
	assert.Len(t, addrs, len(DefaultRoles))
	assert.Equal(t, "admin@example.com", addrs[0])
	assert.Contains(t, addrs, "security@example.com")
}
