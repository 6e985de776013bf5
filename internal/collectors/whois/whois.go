// internal/collectors/whois/whois.go
package whois

import (
	"context"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	lwhois "github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"opensight/internal/core/domain"
	"opensight/internal/core/ports"
	"opensight/internal/platform/errors"
	"opensight/internal/platform/logx"
	"opensight/internal/platform/validator"
)

// Name es el nombre canónico del módulo.
const Name = "whois"

// Fuentes posibles del registro.
const (
	SourceWhois = "whois"
	SourceRDAP  = "rdap"
)

// Options configura el collector.
type Options struct {
	// Timeout para la consulta al puerto 43
	Timeout time.Duration

	// RDAPURL plantilla con un %s para el dominio (default https://rdap.org/domain/%s)
	RDAPURL string
}

// Record es el resultado del módulo.
type Record struct {
	Domain        string   `json:"domain" yaml:"domain"`
	Registrar     string   `json:"registrar,omitempty" yaml:"registrar,omitempty"`
	RegistrantOrg string   `json:"registrant_org,omitempty" yaml:"registrant_org,omitempty"`
	Created       string   `json:"created,omitempty" yaml:"created,omitempty"`
	Updated       string   `json:"updated,omitempty" yaml:"updated,omitempty"`
	Expires       string   `json:"expires,omitempty" yaml:"expires,omitempty"`
	NameServers   []string `json:"name_servers" yaml:"name_servers"`
	Status        []string `json:"status" yaml:"status"`
	DNSSEC        bool     `json:"dnssec" yaml:"dnssec"`
	Source        string   `json:"source" yaml:"source"`
}

// LookupFunc realiza la consulta WHOIS cruda de un dominio.
type LookupFunc func(domain string, timeout time.Duration) (string, error)

// Option modifica el collector.
type Option func(*Whois)

// WithLookup reemplaza la consulta al puerto 43.
func WithLookup(fn LookupFunc) Option {
	return func(w *Whois) { w.lookup = fn }
}

// Whois consulta el registro del dominio por WHOIS y, si falla, por RDAP.
type Whois struct {
	opts   Options
	lookup LookupFunc
	logger logx.Logger
}

// New crea una nueva instancia del collector.
func New(opts Options, logger logx.Logger, options ...Option) *Whois {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.RDAPURL == "" {
		opts.RDAPURL = "https://rdap.org/domain/%s"
	}

	w := &Whois{
		opts:   opts,
		lookup: portLookup,
		logger: logger.With("module", Name),
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

// Collect implementa ports.Collector.
func (w *Whois) Collect(ctx context.Context, target domain.Target, sess ports.Session) (any, error) {
	host := validator.NormalizeDomain(target.Value)
	if !validator.IsDomain(host) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "not a domain: %q", target.Value)
	}
	name := validator.RegistrableDomain(host)

	record, err := w.queryWhois(ctx, name)
	if err == nil {
		return record, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	w.logger.Debug("whois lookup failed, trying rdap", "domain", name, "error", err.Error())

	record, rdapErr := w.queryRDAP(ctx, name, sess)
	if rdapErr != nil {
		return nil, errors.Wrapf(rdapErr, "whois: %v; rdap", err)
	}
	return record, nil
}

// queryWhois consulta el puerto 43 en una goroutine para respetar ctx.
func (w *Whois) queryWhois(ctx context.Context, name string) (*Record, error) {
	type result struct {
		raw string
		err error
	}
	done := make(chan result, 1)
	go func() {
		raw, err := w.lookup(name, w.opts.Timeout)
		done <- result{raw: raw, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}
	if res.err != nil {
		return nil, errors.Wrap(errors.ErrConnectionFailed, res.err.Error())
	}

	info, err := whoisparser.Parse(res.raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "parse whois: %v", err)
	}
	return fromWhois(name, info), nil
}

func fromWhois(name string, info whoisparser.WhoisInfo) *Record {
	record := &Record{
		Domain:      name,
		NameServers: []string{},
		Status:      []string{},
		Source:      SourceWhois,
	}

	if d := info.Domain; d != nil {
		if d.Domain != "" {
			record.Domain = strings.ToLower(d.Domain)
		}
		record.Created = d.CreatedDate
		record.Updated = d.UpdatedDate
		record.Expires = d.ExpirationDate
		record.DNSSEC = d.DNSSec
		record.NameServers = lowerAll(d.NameServers)
		record.Status = append(record.Status, d.Status...)
	}
	if info.Registrar != nil {
		record.Registrar = info.Registrar.Name
	}
	if info.Registrant != nil {
		record.RegistrantOrg = info.Registrant.Organization
	}
	return record
}

// queryRDAP consulta el servicio RDAP usando la sesión compartida.
func (w *Whois) queryRDAP(ctx context.Context, name string, sess ports.Session) (*Record, error) {
	endpoint := fmt.Sprintf(w.opts.RDAPURL, name)
	body, err := sess.FetchJSON(ctx, endpoint, map[string]string{"Accept": "application/rdap+json"})
	if err != nil {
		return nil, err
	}

	var resp rdapResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "rdap: %v", err)
	}
	return fromRDAP(name, &resp), nil
}

func fromRDAP(name string, resp *rdapResponse) *Record {
	record := &Record{
		Domain:      name,
		NameServers: []string{},
		Status:      []string{},
		DNSSEC:      resp.SecureDNS.DelegationSigned,
		Source:      SourceRDAP,
	}
	if resp.LDHName != "" {
		record.Domain = strings.ToLower(resp.LDHName)
	}
	record.Status = append(record.Status, resp.Status...)

	for _, ns := range resp.Nameservers {
		if ns.LDHName != "" {
			record.NameServers = append(record.NameServers, strings.ToLower(ns.LDHName))
		}
	}

	for _, ev := range resp.Events {
		switch strings.ToLower(ev.EventAction) {
		case "registration":
			record.Created = ev.EventDate
		case "last changed":
			record.Updated = ev.EventDate
		case "expiration":
			record.Expires = ev.EventDate
		}
	}

	for _, entity := range resp.Entities {
		switch {
		case hasRole(entity.Roles, "registrar") && record.Registrar == "":
			record.Registrar = extractVCardField(entity.VCardArray, "fn")
		case hasRole(entity.Roles, "registrant") && record.RegistrantOrg == "":
			org := extractVCardField(entity.VCardArray, "org")
			if org == "" {
				org = extractVCardField(entity.VCardArray, "fn")
			}
			record.RegistrantOrg = org
		}
	}
	return record
}

// extractVCardField extrae un campo de texto de un jCard:
// ["vcard", [["version", {}, "text", "4.0"], ["fn", {}, "text", "ACME"], ...]]
func extractVCardField(vcardArray []any, field string) string {
	if len(vcardArray) < 2 {
		return ""
	}
	vcard, ok := vcardArray[1].([]any)
	if !ok {
		return ""
	}
	for _, item := range vcard {
		prop, ok := item.([]any)
		if !ok || len(prop) < 4 {
			continue
		}
		key, ok := prop[0].(string)
		if !ok || !strings.EqualFold(key, field) {
			continue
		}
		if value, ok := prop[3].(string); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func portLookup(name string, timeout time.Duration) (string, error) {
	return lwhois.NewClient().SetTimeout(timeout).Whois(name)
}

type rdapResponse struct {
	ObjectClassName string           `json:"objectClassName"`
	Handle          string           `json:"handle"`
	LDHName         string           `json:"ldhName"`
	Status          []string         `json:"status"`
	Entities        []rdapEntity     `json:"entities"`
	Nameservers     []rdapNameserver `json:"nameservers"`
	Events          []rdapEvent      `json:"events"`
	SecureDNS       struct {
		DelegationSigned bool `json:"delegationSigned"`
	} `json:"secureDNS"`
}

type rdapEntity struct {
	Roles      []string `json:"roles"`
	VCardArray []any    `json:"vcardArray"`
}

type rdapNameserver struct {
	LDHName string `json:"ldhName"`
}

type rdapEvent struct {
	EventAction string `json:"eventAction"`
	EventDate   string `json:"eventDate"`
}
