// internal/core/domain/errors.go
package domain

import "errors"

// Errores de dominio comunes.
var (
	// Target errors
	ErrEmptyTarget = errors.New("target cannot be empty")
	ErrInvalidMode = errors.New("invalid target mode")

	// Session errors
	ErrSessionSetup = errors.New("network session setup failed")

	// Module errors
	ErrModuleTimeout = errors.New("module execution timeout")
	ErrModulePanic   = errors.New("module panicked")
	ErrNotApplicable = errors.New("module not applicable to target mode")

	// Registry errors
	ErrDuplicateEntry = errors.New("duplicate registry entry")
	ErrUnknownAlias   = errors.New("alias points to unknown module")
	ErrNilCollector   = errors.New("registry entry has no collector")
)
