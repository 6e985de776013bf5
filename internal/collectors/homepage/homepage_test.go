// internal/collectors/homepage/homepage_test.go
package homepage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opensight/internal/core/domain"
	"opensight/internal/core/ports"
	perrors "opensight/internal/platform/errors"
	"opensight/internal/platform/logx"
	"opensight/internal/platform/session"
	"opensight/internal/testutil"
)

type stubFingerprinter struct {
	seen map[string][]string
	out  map[string]struct{}
}

func (s *stubFingerprinter) Fingerprint(headers map[string][]string, _ []byte) map[string]struct{} {
	s.seen = headers
	return s.out
}

func TestHomepage_Collect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "nginx/1.25.3")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>
			Example   Domain
		</title></head><body><h1>hi</h1></body></html>`))
	}))
	defer srv.Close()

	sess, err := session.Open(session.Config{Timeout: 2 * time.Second}, logx.NewNop())
	require.NoError(t, err)
	defer sess.Close()

	fp := &stubFingerprinter{out: map[string]struct{}{"Nginx": {}, "Cloudflare": {}}}
	h := New(Options{}, logx.NewNop(), WithFingerprinter(fp))

	got, err := h.Collect(context.Background(), domain.NewTarget(srv.URL, domain.ModeDomain), sess)
	require.NoError(t, err)

	page := got.(*Page)
	assert.Equal(t, http.StatusOK, page.Status)
	assert.Equal(t, "Example Domain", page.Title)
	assert.Equal(t, "nginx/1.25.3", page.Server)
	assert.Equal(t, []string{"Cloudflare", "Nginx"}, page.Technologies)
	assert.Equal(t, []string{"nginx/1.25.3"}, fp.seen["Server"])
}

func TestHomepage_FallsBackToHTTP(t *testing.T) {
	sess := testutil.NewFakeSession(errors.New("tls handshake failed"))
	sess.Pages["http://example.com/"] = &ports.Page{
		URL:        "http://example.com/",
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       []byte("<title>Plain</title>"),
	}

	h := New(Options{}, logx.NewNop(), WithFingerprinter(&stubFingerprinter{}))
	got, err := h.Collect(context.Background(), domain.NewTarget("Example.com", domain.ModeDomain), sess)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com/", "http://example.com/"}, sess.Requests)
	page := got.(*Page)
	assert.Equal(t, "Plain", page.Title)
	assert.Empty(t, page.Technologies)
	assert.NotNil(t, page.Technologies)
}

func TestHomepage_NonSuccessStatusIsReported(t *testing.T) {
	sess := testutil.NewFakeSession(nil)
	sess.Pages["https://example.com/"] = &ports.Page{
		URL:        "https://example.com/",
		StatusCode: http.StatusForbidden,
		Header:     http.Header{"Server": []string{"cloudflare"}},
	}

	h := New(Options{}, logx.NewNop(), WithFingerprinter(&stubFingerprinter{}))
	got, err := h.Collect(context.Background(), domain.NewTarget("example.com", domain.ModeDomain), sess)
	require.NoError(t, err)

	page := got.(*Page)
	assert.Equal(t, http.StatusForbidden, page.Status)
	assert.Equal(t, "cloudflare", page.Server)
	assert.Empty(t, page.Title)
}

func TestHomepage_Errors(t *testing.T) {
	h := New(Options{}, logx.NewNop(), WithFingerprinter(&stubFingerprinter{}))
	ctx := context.Background()

	t.Run("person name is not a host", func(t *testing.T) {
		sess := testutil.NewFakeSession(nil)
		_, err := h.Collect(ctx, domain.NewTarget("John Doe", domain.ModePerson), sess)
		assert.True(t, perrors.IsInvalidInput(err))
		assert.Zero(t, sess.RequestCount())
	})

	t.Run("unreachable", func(t *testing.T) {
		sess := testutil.NewFakeSession(perrors.ErrConnectionFailed)
		_, err := h.Collect(ctx, domain.NewTarget("example.com", domain.ModeDomain), sess)
		assert.ErrorIs(t, err, perrors.ErrConnectionFailed)
		assert.Equal(t, 2, sess.RequestCount())
	})
}

func TestCandidateURLs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"example.com", []string{"https://example.com/", "http://example.com/"}},
		{"www.Example.com.", []string{"https://www.example.com/", "http://www.example.com/"}},
		{"http://127.0.0.1:8080/x", []string{"http://127.0.0.1:8080/x"}},
		{"10.0.0.1", []string{"https://10.0.0.1/", "http://10.0.0.1/"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := candidateURLs(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "A B", extractTitle([]byte("<html><title> A\n B </title></html>")))
	assert.Empty(t, extractTitle([]byte("<html><body>no title</body></html>")))
	assert.Empty(t, extractTitle(nil))
}
