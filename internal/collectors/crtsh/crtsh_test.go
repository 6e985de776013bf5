// internal/collectors/crtsh/crtsh_test.go
package crtsh

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opensight/internal/core/domain"
	perrors "opensight/internal/platform/errors"
	"opensight/internal/platform/logx"
	"opensight/internal/testutil"
)

const sample = `[
  {"id": 1, "issuer_name": "C=US, O=Let's Encrypt, CN=R3", "common_name": "example.com",
   "name_value": "example.com\nwww.example.com\nWWW.example.com", "not_before": "2025-01-01T00:00:00",
   "not_after": "2025-04-01T00:00:00", "serial_number": "abc123"},
  {"id": 2, "issuer_name": "C=US, O=Let's Encrypt, CN=R3", "common_name": "example.com",
   "name_value": "example.com", "not_before": "2025-01-01T00:00:00",
   "not_after": "2025-04-01T00:00:00", "serial_number": "abc123"},
  {"id": 3, "issuer_name": "DigiCert", "common_name": "*.example.com",
   "name_value": "*.example.com", "not_before": "2024-06-01T00:00:00",
   "not_after": "2025-06-01T00:00:00", "serial_number": "def456"}
]`

const endpoint = "https://crt.sh/?q=%25.example.com&output=json"

func TestCRT_Collect(t *testing.T) {
	sess := testutil.NewFakeSession(errors.New("unexpected url"))
	sess.JSON[endpoint] = []byte(sample)

	got, err := New(Options{}, logx.NewNop()).Collect(context.Background(),
		domain.NewTarget("WWW.Example.com", domain.ModeDomain), sess)
	require.NoError(t, err)

	certs := got.([]Certificate)
	require.Len(t, certs, 2)
	assert.Equal(t, "abc123", certs[0].Serial)
	assert.Equal(t, []string{"example.com", "www.example.com"}, certs[0].Names)
	assert.Equal(t, "*.example.com", certs[1].CommonName)
	assert.Equal(t, "DigiCert", certs[1].Issuer)
}

func TestCRT_MaxResults(t *testing.T) {
	sess := testutil.NewFakeSession(nil)
	sess.JSON[endpoint] = []byte(sample)

	got, err := New(Options{MaxResults: 1}, logx.NewNop()).Collect(context.Background(),
		domain.NewTarget("example.com", domain.ModeDomain), sess)
	require.NoError(t, err)

	assert.Len(t, got.([]Certificate), 1)
}

func TestCRT_CustomBaseURL(t *testing.T) {
	sess := testutil.NewFakeSession(nil)
	sess.JSON["http://mirror.local/?q=%25.example.com&output=json"] = []byte(`[]`)

	got, err := New(Options{BaseURL: "http://mirror.local/"}, logx.NewNop()).Collect(context.Background(),
		domain.NewTarget("example.com", domain.ModeDomain), sess)
	require.NoError(t, err)
	assert.Empty(t, got.([]Certificate))
}

func TestCRT_Errors(t *testing.T) {
	c := New(Options{}, logx.NewNop())
	ctx := context.Background()

	t.Run("invalid target", func(t *testing.T) {
		_, err := c.Collect(ctx, domain.NewTarget("John Doe", domain.ModeDomain), testutil.NewFakeSession(nil))
		assert.True(t, perrors.IsInvalidInput(err))
	})

	t.Run("network failure", func(t *testing.T) {
		sess := testutil.NewFakeSession(perrors.ErrServiceUnavailable)
		_, err := c.Collect(ctx, domain.NewTarget("example.com", domain.ModeDomain), sess)
		assert.True(t, perrors.IsServiceUnavailable(err))
	})

	t.Run("html instead of json", func(t *testing.T) {
		sess := testutil.NewFakeSession(nil)
		sess.JSON[endpoint] = []byte("<html>busy</html>")
		_, err := c.Collect(ctx, domain.NewTarget("example.com", domain.ModeDomain), sess)
		assert.True(t, perrors.IsInvalidResponse(err))
	})
}

func TestSplitNames(t *testing.T) {
	assert.Equal(t, []string{"a.example.com", "b.example.com"}, splitNames(" a.example.com\n\nB.example.com\na.example.com "))
	assert.Empty(t, splitNames(""))
}
