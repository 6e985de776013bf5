// internal/collectors/homepage/homepage.go
package homepage

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"

	wappalyzer "github.com/projectdiscovery/wappalyzergo"
	"golang.org/x/net/html"

	"opensight/internal/core/domain"
	"opensight/internal/core/ports"
	"opensight/internal/platform/errors"
	"opensight/internal/platform/logx"
	"opensight/internal/platform/validator"
)

// Name es el nombre canónico del módulo; "homepage" es su alias.
const Name = "http"

// Key es la clave del resultado en el reporte.
const Key = "http_passive"

// Options configura el collector.
type Options struct {
	// MaxBodyBytes máximo de bytes leídos del body (default 1 MiB)
	MaxBodyBytes int64
}

// Page es el resultado del módulo.
type Page struct {
	URL          string   `json:"url" yaml:"url"`
	Status       int      `json:"status" yaml:"status"`
	Title        string   `json:"title" yaml:"title"`
	Server       string   `json:"server,omitempty" yaml:"server,omitempty"`
	Technologies []string `json:"technologies" yaml:"technologies"`
}

// Fingerprinter identifica tecnologías a partir de headers y body.
type Fingerprinter interface {
	Fingerprint(headers map[string][]string, data []byte) map[string]struct{}
}

// Option modifica el collector.
type Option func(*Homepage)

// WithFingerprinter reemplaza el motor de fingerprint.
func WithFingerprinter(fp Fingerprinter) Option {
	return func(h *Homepage) {
		h.fp = fp
		h.once.Do(func() {})
	}
}

// Homepage hace un único GET a la página principal del objetivo.
type Homepage struct {
	opts   Options
	logger logx.Logger

	once sync.Once
	fp   Fingerprinter
}

// New crea una nueva instancia del collector.
func New(opts Options, logger logx.Logger, options ...Option) *Homepage {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}

	h := &Homepage{
		opts:   opts,
		logger: logger.With("module", Name),
	}
	for _, opt := range options {
		opt(h)
	}
	return h
}

// Collect implementa ports.Collector.
func (h *Homepage) Collect(ctx context.Context, target domain.Target, sess ports.Session) (any, error) {
	candidates, err := candidateURLs(target.Value)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, u := range candidates {
		page, err := sess.FetchPage(ctx, u, h.opts.MaxBodyBytes)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			h.logger.Debug("homepage fetch failed", "url", u, "error", err.Error())
			lastErr = err
			continue
		}
		return h.describe(page), nil
	}
	return nil, errors.Wrap(lastErr, "homepage unreachable")
}

func (h *Homepage) describe(page *ports.Page) *Page {
	result := &Page{
		URL:          page.URL,
		Status:       page.StatusCode,
		Title:        extractTitle(page.Body),
		Server:       page.Header.Get("Server"),
		Technologies: []string{},
	}

	if fp := h.fingerprinter(); fp != nil {
		for name := range fp.Fingerprint(page.Header, page.Body) {
			result.Technologies = append(result.Technologies, name)
		}
		sort.Strings(result.Technologies)
	}
	return result
}

// fingerprinter carga las firmas de wappalyzer la primera vez que se usan.
// Un fallo de carga deja el módulo sin detección de tecnologías.
func (h *Homepage) fingerprinter() Fingerprinter {
	h.once.Do(func() {
		wc, err := wappalyzer.New()
		if err != nil {
			h.logger.Warn("wappalyzer init failed", "error", err.Error())
			return
		}
		h.fp = wc
	})
	return h.fp
}

// candidateURLs retorna las URLs a probar en orden: https y luego http.
// Si el objetivo ya es una URL se usa tal cual.
func candidateURLs(value string) ([]string, error) {
	value = strings.TrimSpace(value)
	if validator.IsURL(value) {
		return []string{value}, nil
	}

	host := strings.TrimSuffix(strings.ToLower(value), ".")
	if !validator.IsDomain(host) && !validator.IsIP(host) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "not a host: %q", value)
	}
	return []string{"https://" + host + "/", "http://" + host + "/"}, nil
}

func extractTitle(body []byte) string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var walk func(*html.Node) string
	walk = func(n *html.Node) string {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil {
				return strings.Join(strings.Fields(n.FirstChild.Data), " ")
			}
			return ""
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if t := walk(c); t != "" {
				return t
			}
		}
		return ""
	}
	return walk(doc)
}
