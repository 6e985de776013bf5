// internal/core/domain/target.go
package domain

import (
	"fmt"
	"strings"
)

// Target representa el objetivo de una ejecución: un dominio o una persona.
// El valor se conserva tal cual lo escribió el usuario (sin espacios en los extremos).
type Target struct {
	// Value texto del target (ej: "example.com", "John Doe")
	Value string

	// Mode cómo deben interpretarlo los collectors
	Mode Mode
}

// NewTarget crea un target normalizando solo los espacios exteriores.
func NewTarget(value string, mode Mode) Target {
	return Target{
		Value: strings.TrimSpace(value),
		Mode:  mode,
	}
}

// Validate verifica que el target sea utilizable.
func (t Target) Validate() error {
	if t.Value == "" {
		return ErrEmptyTarget
	}
	if !t.Mode.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, t.Mode)
	}
	return nil
}

// IsPerson indica si el target es una persona.
func (t Target) IsPerson() bool {
	return t.Mode == ModePerson
}

// String retorna representación legible.
func (t Target) String() string {
	return fmt.Sprintf("%s (%s)", t.Value, t.Mode)
}
