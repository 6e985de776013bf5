// internal/core/domain/mode.go
package domain

import (
	"fmt"
	"strings"
)

// Mode define cómo se interpreta el target durante una ejecución.
type Mode string

const (
	// ModeDomain interpreta el target como un nombre de dominio
	ModeDomain Mode = "domain"

	// ModePerson interpreta el target como el nombre o handle de una persona
	ModePerson Mode = "person"
)

// IsValid verifica si el modo es válido.
func (m Mode) IsValid() bool {
	return m == ModeDomain || m == ModePerson
}

// String retorna la representación en string.
func (m Mode) String() string {
	return string(m)
}

// ParseMode convierte un string en Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
	return m, nil
}

// ModeFromFlag traduce el flag --person al modo correspondiente.
func ModeFromFlag(person bool) Mode {
	if person {
		return ModePerson
	}
	return ModeDomain
}
