// internal/collectors/dns/dns.go
package dns

import (
	"context"
	"fmt"
	"strings"
	"time"

	mdns "github.com/miekg/dns"

	"opensight/internal/core/domain"
	"opensight/internal/core/ports"
	"opensight/internal/platform/errors"
	"opensight/internal/platform/logx"
	"opensight/internal/platform/validator"
)

// Name es el nombre canónico del módulo.
const Name = "dns"

// Options configura el collector.
type Options struct {
	// Resolver dirección host:port del servidor DNS recursivo
	Resolver string

	// Timeout por consulta
	Timeout time.Duration
}

// recordTypes tipos consultados, en el orden en que se reportan.
var recordTypes = []uint16{
	mdns.TypeA,
	mdns.TypeAAAA,
	mdns.TypeCNAME,
	mdns.TypeMX,
	mdns.TypeNS,
	mdns.TypeTXT,
	mdns.TypeSOA,
}

// Resolver consulta registros DNS públicos del dominio.
type Resolver struct {
	client *mdns.Client
	opts   Options
	logger logx.Logger
}

// New crea una nueva instancia del collector.
func New(opts Options, logger logx.Logger) *Resolver {
	if opts.Resolver == "" {
		opts.Resolver = "1.1.1.1:53"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}

	return &Resolver{
		client: &mdns.Client{Net: "udp", Timeout: opts.Timeout},
		opts:   opts,
		logger: logger.With("module", Name, "resolver", opts.Resolver),
	}
}

// Collect implementa ports.Collector. El resultado es map[tipo][]valor con
// solo los tipos que tienen respuestas, más SPF y DMARC si existen.
// Falla si ninguna consulta obtuvo respuesta del resolver.
func (r *Resolver) Collect(ctx context.Context, target domain.Target, _ ports.Session) (any, error) {
	name := validator.NormalizeDomain(target.Value)
	if !validator.IsDomain(name) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "not a domain: %q", target.Value)
	}

	records := make(map[string][]string)
	var (
		failures []error
		answered int
		nxdomain int
	)

	for _, qtype := range recordTypes {
		typeName := mdns.TypeToString[qtype]
		values, rcode, err := r.query(ctx, name, qtype)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.logger.Debug("query failed", "type", typeName, "error", err.Error())
			failures = append(failures, fmt.Errorf("%s: %w", typeName, err))
			continue
		}
		answered++
		if rcode == mdns.RcodeNameError {
			nxdomain++
		}
		if len(values) > 0 {
			records[typeName] = values
		}
	}

	if answered == 0 {
		return nil, errors.Wrap(errors.Join(failures...), "no DNS answers")
	}
	if nxdomain == answered {
		return nil, errors.Wrapf(errors.ErrNotFound, "NXDOMAIN for %s", name)
	}

	if spf := filterPrefix(records["TXT"], "v=spf1"); len(spf) > 0 {
		records["SPF"] = spf
	}

	dmarcTXT, _, err := r.query(ctx, "_dmarc."+name, mdns.TypeTXT)
	if err == nil {
		if dmarc := filterPrefix(dmarcTXT, "v=DMARC1"); len(dmarc) > 0 {
			records["DMARC"] = dmarc
		}
	}

	return records, nil
}

// query realiza una consulta y retorna los valores en texto de la sección answer.
func (r *Resolver) query(ctx context.Context, name string, qtype uint16) ([]string, int, error) {
	msg := new(mdns.Msg)
	msg.SetQuestion(mdns.Fqdn(name), qtype)
	msg.RecursionDesired = true

	in, _, err := r.client.ExchangeContext(ctx, msg, r.opts.Resolver)
	if err != nil {
		return nil, 0, errors.Wrap(errors.ErrConnectionFailed, err.Error())
	}
	if in.Rcode != mdns.RcodeSuccess && in.Rcode != mdns.RcodeNameError {
		return nil, in.Rcode, errors.Errorf("rcode %s", mdns.RcodeToString[in.Rcode])
	}

	values := make([]string, 0, len(in.Answer))
	for _, rr := range in.Answer {
		if rr.Header().Rrtype != qtype {
			// CNAMEs encadenados en respuestas A/AAAA
			continue
		}
		if v := rrValue(rr); v != "" {
			values = append(values, v)
		}
	}
	return values, in.Rcode, nil
}

// rrValue extrae el dato de un registro sin el header.
func rrValue(rr mdns.RR) string {
	switch v := rr.(type) {
	case *mdns.A:
		return v.A.String()
	case *mdns.AAAA:
		return v.AAAA.String()
	case *mdns.CNAME:
		return strings.TrimSuffix(v.Target, ".")
	case *mdns.MX:
		return fmt.Sprintf("%d %s", v.Preference, strings.TrimSuffix(v.Mx, "."))
	case *mdns.NS:
		return strings.TrimSuffix(v.Ns, ".")
	case *mdns.TXT:
		return strings.Join(v.Txt, "")
	case *mdns.SOA:
		return fmt.Sprintf("%s %s %d", strings.TrimSuffix(v.Ns, "."), strings.TrimSuffix(v.Mbox, "."), v.Serial)
	default:
		return ""
	}
}

func filterPrefix(values []string, prefix string) []string {
	var out []string
	for _, v := range values {
		if strings.HasPrefix(strings.ToLower(v), strings.ToLower(prefix)) {
			out = append(out, v)
		}
	}
	return out
}
