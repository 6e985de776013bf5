// internal/platform/ui/banner.go
package ui

import (
	"strings"

	figure "github.com/common-nighthawk/go-figure"
)

// Tagline se imprime bajo el banner.
const Tagline = "passive OSINT recon orchestrator"

// Banner renderiza el nombre de la herramienta en ASCII art.
func Banner() string {
	lines := figure.NewFigure("OpenSight", "", true).Slicify()

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteByte('\n')
	}
	b.WriteString("    " + Tagline + "\n")
	return b.String()
}
