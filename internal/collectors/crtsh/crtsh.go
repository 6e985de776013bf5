// internal/collectors/crtsh/crtsh.go
package crtsh

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"

	"opensight/internal/core/domain"
	"opensight/internal/core/ports"
	"opensight/internal/platform/errors"
	"opensight/internal/platform/logx"
	"opensight/internal/platform/validator"
)

// Name es el nombre canónico del módulo.
const Name = "crtsh"

// Options configura el collector.
type Options struct {
	// BaseURL raíz del servicio (default https://crt.sh)
	BaseURL string

	// MaxResults máximo de certificados en el resultado; 0 = sin límite
	MaxResults int
}

// Certificate es un certificado visto en los logs de Certificate Transparency.
type Certificate struct {
	Issuer     string   `json:"issuer" yaml:"issuer"`
	CommonName string   `json:"common_name" yaml:"common_name"`
	Names      []string `json:"names" yaml:"names"`
	NotBefore  string   `json:"not_before" yaml:"not_before"`
	NotAfter   string   `json:"not_after" yaml:"not_after"`
	Serial     string   `json:"serial" yaml:"serial"`
}

// CRT consulta crt.sh para descubrir certificados y nombres asociados al dominio.
type CRT struct {
	opts   Options
	logger logx.Logger
}

// New crea una nueva instancia del collector.
func New(opts Options, logger logx.Logger) *CRT {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://crt.sh"
	}
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")

	return &CRT{
		opts:   opts,
		logger: logger.With("module", Name),
	}
}

// Collect implementa ports.Collector.
func (c *CRT) Collect(ctx context.Context, target domain.Target, sess ports.Session) (any, error) {
	host := validator.NormalizeDomain(target.Value)
	if !validator.IsDomain(host) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "not a domain: %q", target.Value)
	}

	// %25 es el comodín "%" ya codificado
	endpoint := fmt.Sprintf("%s/?q=%%25.%s&output=json", c.opts.BaseURL, url.QueryEscape(host))
	c.logger.Debug("querying crt.sh", "domain", host)

	body, err := sess.FetchJSON(ctx, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "crt.sh request failed")
	}

	var records []certRecord
	if err := json.Unmarshal(body, &records); err != nil {
		// crt.sh devuelve HTML cuando está sobrecargado
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "crt.sh: %v", err)
	}

	certs := c.processRecords(records)
	c.logger.Debug("crt.sh completed", "records", len(records), "certificates", len(certs))
	return certs, nil
}

// processRecords convierte los registros crudos en certificados únicos por serial.
func (c *CRT) processRecords(records []certRecord) []Certificate {
	certs := make([]Certificate, 0)
	seen := make(map[string]struct{}, len(records))

	for _, record := range records {
		key := record.SerialNumber
		if key == "" {
			key = fmt.Sprintf("id:%d", record.ID)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		certs = append(certs, Certificate{
			Issuer:     record.IssuerName,
			CommonName: strings.ToLower(strings.TrimSpace(record.CommonName)),
			Names:      splitNames(record.NameValue),
			NotBefore:  record.NotBefore,
			NotAfter:   record.NotAfter,
			Serial:     record.SerialNumber,
		})

		if c.opts.MaxResults > 0 && len(certs) >= c.opts.MaxResults {
			break
		}
	}

	return certs
}

// splitNames separa name_value (un nombre por línea), normaliza y quita duplicados.
func splitNames(nameValue string) []string {
	names := make([]string, 0)
	seen := make(map[string]struct{})
	for _, host := range strings.Split(nameValue, "\n") {
		host = strings.ToLower(strings.TrimSpace(host))
		if host == "" {
			continue
		}
		if _, dup := seen[host]; dup {
			continue
		}
		seen[host] = struct{}{}
		names = append(names, host)
	}
	return names
}

// certRecord representa un registro de certificado de crt.sh.
type certRecord struct {
	ID           int64  `json:"id"`
	IssuerName   string `json:"issuer_name"`
	CommonName   string `json:"common_name"`
	NameValue    string `json:"name_value"`
	NotAfter     string `json:"not_after"`
	NotBefore    string `json:"not_before"`
	SerialNumber string `json:"serial_number"`
}
