// internal/platform/ui/symbols.go
package ui

import (
	"github.com/pterm/pterm"

	"opensight/internal/core/domain"
)

// Symbol retorna el símbolo Unicode para cada status de módulo.
func Symbol(s domain.Status) string {
	switch s {
	case domain.StatusSucceeded:
		return "✓"
	case domain.StatusFailed:
		return "✗"
	case domain.StatusSkipped:
		return "⊘"
	case domain.StatusUnknown:
		return "?"
	case domain.StatusDuplicate:
		return "≡"
	default:
		return "›"
	}
}

// StyleFor retorna el estilo pterm de cada status.
func StyleFor(s domain.Status) pterm.RGBStyle {
	switch s {
	case domain.StatusSucceeded:
		return StyleSuccess
	case domain.StatusFailed:
		return StyleError
	case domain.StatusUnknown:
		return StyleWarning
	case domain.StatusSkipped, domain.StatusDuplicate:
		return StyleSecondary
	default:
		return StyleActive
	}
}

// Prefijos de las líneas de cabecera y pie
var (
	IconInfo  = "[*]"
	IconSaved = "[+]"
	IconWarn  = "[!]"
)

// Separadores
var (
	SeparatorHeavy = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
	SeparatorLight = "────────────────────────────────────────────"
)
