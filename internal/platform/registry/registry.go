// internal/platform/registry/registry.go
package registry

import (
	"fmt"

	"opensight/internal/core/domain"
	"opensight/internal/core/ports"
)

// Entry describe un módulo registrado.
type Entry struct {
	// Name nombre canónico (ej: "http")
	Name string

	// Key clave del reporte; vacío usa Name
	Key string

	// PersonKey clave del reporte en modo persona; vacío usa Key
	PersonKey string

	// Collector implementación del módulo
	Collector ports.Collector

	// Domain / Person modos en los que el módulo aplica
	Domain bool
	Person bool

	// Description texto corto para la ayuda del CLI
	Description string
}

// Eligible indica si el módulo aplica al modo dado.
func (e Entry) Eligible(mode domain.Mode) bool {
	switch mode {
	case domain.ModeDomain:
		return e.Domain
	case domain.ModePerson:
		return e.Person
	default:
		return false
	}
}

// ReportKey retorna la clave bajo la que se guarda el resultado en el modo dado.
func (e Entry) ReportKey(mode domain.Mode) string {
	key := e.Key
	if key == "" {
		key = e.Name
	}
	if mode == domain.ModePerson && e.PersonKey != "" {
		return e.PersonKey
	}
	return key
}

// Registry mapea nombres (canónicos y alias) a entries.
// Se construye una vez con New y es de solo lectura después.
type Registry struct {
	entries map[string]Entry
	aliases map[string]string
	order   []string
}

// Option configura un Registry durante New.
type Option func(*Registry)

// WithAlias registra alias como nombre alternativo de canonical.
func WithAlias(alias, canonical string) Option {
	return func(r *Registry) {
		r.aliases[alias] = canonical
	}
}

// New construye un registry. Falla si hay nombres canónicos duplicados,
// entries sin collector o alias que apuntan a un módulo inexistente.
func New(entries []Entry, opts ...Option) (*Registry, error) {
	r := &Registry{
		entries: make(map[string]Entry, len(entries)),
		aliases: make(map[string]string),
		order:   make([]string, 0, len(entries)),
	}

	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("registry entry name cannot be empty")
		}
		if e.Collector == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrNilCollector, e.Name)
		}
		if _, exists := r.entries[e.Name]; exists {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateEntry, e.Name)
		}
		r.entries[e.Name] = e
		r.order = append(r.order, e.Name)
	}

	for _, opt := range opts {
		opt(r)
	}

	for alias, canonical := range r.aliases {
		if _, ok := r.entries[canonical]; !ok {
			return nil, fmt.Errorf("%w: %s -> %s", domain.ErrUnknownAlias, alias, canonical)
		}
		if _, clash := r.entries[alias]; clash {
			return nil, fmt.Errorf("%w: alias %s shadows a module", domain.ErrDuplicateEntry, alias)
		}
	}

	return r, nil
}

// Resolve busca un nombre canónico o alias. Distingue mayúsculas.
func (r *Registry) Resolve(name string) (Entry, bool) {
	if e, ok := r.entries[name]; ok {
		return e, true
	}
	if canonical, ok := r.aliases[name]; ok {
		e, ok := r.entries[canonical]
		return e, ok
	}
	return Entry{}, false
}

// Names retorna los nombres canónicos en orden de registro.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Aliases retorna los alias de un nombre canónico.
func (r *Registry) Aliases(canonical string) []string {
	var out []string
	for alias, target := range r.aliases {
		if target == canonical {
			out = append(out, alias)
		}
	}
	return out
}

// Len retorna el número de módulos canónicos.
func (r *Registry) Len() int {
	return len(r.entries)
}
