// internal/collectors/social/social.go
package social

import (
	"fmt"
	"strings"

	"opensight/internal/core/domain"
	"opensight/internal/core/ports"
	"opensight/internal/platform/errors"
	"opensight/internal/platform/validator"
)

// Name es el nombre canónico del módulo.
const Name = "social"

// Claves del reporte según el modo del target.
const (
	DomainKey = "social_guesses"
	PersonKey = "social"
)

// Platform es una red social con su patrón de URL de perfil.
type Platform struct {
	Name    string
	Pattern string // contiene un %s para el handle
}

// DefaultPlatforms plataformas consultadas por defecto.
var DefaultPlatforms = []Platform{
	{Name: "twitter", Pattern: "https://twitter.com/%s"},
	{Name: "github", Pattern: "https://github.com/%s"},
	{Name: "linkedin", Pattern: "https://www.linkedin.com/in/%s"},
	{Name: "instagram", Pattern: "https://www.instagram.com/%s"},
	{Name: "reddit", Pattern: "https://www.reddit.com/user/%s"},
	{Name: "facebook", Pattern: "https://www.facebook.com/%s"},
}

// Guesses es el resultado del módulo. Los perfiles son suposiciones sin verificar.
type Guesses struct {
	Handle     string            `json:"handle" yaml:"handle"`
	Candidates []string          `json:"candidates" yaml:"candidates"`
	Profiles   map[string]string `json:"profiles" yaml:"profiles"`
}

// New crea el collector. No usa la red.
func New(platforms ...Platform) ports.Collector {
	if len(platforms) == 0 {
		platforms = DefaultPlatforms
	}
	return ports.ImmediateFunc(func(target domain.Target) (any, error) {
		return Guess(target, platforms)
	})
}

// Guess deriva handles del target y arma URLs de perfil para el principal.
// En modo dominio el handle sale de la etiqueta del dominio registrable
// ("example" para shop.example.com); en modo persona, del nombre.
func Guess(target domain.Target, platforms []Platform) (Guesses, error) {
	candidates := candidatesFor(target)
	if len(candidates) == 0 {
		return Guesses{}, errors.Wrapf(errors.ErrInvalidInput, "no handle derivable from %q", target.Value)
	}

	handle := candidates[0]
	profiles := make(map[string]string, len(platforms))
	for _, p := range platforms {
		profiles[p.Name] = fmt.Sprintf(p.Pattern, handle)
	}

	return Guesses{
		Handle:     handle,
		Candidates: candidates,
		Profiles:   profiles,
	}, nil
}

func candidatesFor(target domain.Target) []string {
	if target.Mode == domain.ModePerson {
		return validator.Handles(target.Value)
	}

	base := validator.RegistrableDomain(target.Value)
	label, _, _ := strings.Cut(base, ".")
	return validator.Handles(label)
}
