// internal/collectors/emailpatterns/emailpatterns.go
package emailpatterns

import (
	"fmt"

	"opensight/internal/core/domain"
	"opensight/internal/core/ports"
	"opensight/internal/platform/errors"
	"opensight/internal/platform/validator"
)

// Name es el nombre canónico del módulo.
const Name = "emailpatterns"

// Key es la clave del reporte.
const Key = "email_patterns"

// DefaultRoles buzones de rol que suelen existir en cualquier organización.
var DefaultRoles = []string{"admin", "security", "info", "contact", "support", "abuse", "postmaster", "webmaster"}

// New crea el collector. No usa la red.
func New(roles []string) ports.Collector {
	if len(roles) == 0 {
		roles = DefaultRoles
	}
	roles = append([]string(nil), roles...)

	return ports.ImmediateFunc(func(target domain.Target) (any, error) {
		return Patterns(target.Value, roles)
	})
}

// Patterns genera role@dominio-registrable para cada rol.
func Patterns(target string, roles []string) ([]string, error) {
	base := validator.RegistrableDomain(target)
	if !validator.IsDomain(base) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "not a domain: %q", target)
	}

	out := make([]string, 0, len(roles))
	for _, role := range roles {
		addr := fmt.Sprintf("%s@%s", role, base)
		if validator.IsEmail(addr) {
			out = append(out, addr)
		}
	}
	return out, nil
}
