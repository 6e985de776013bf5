// internal/platform/ui/colors.go
package ui

import "github.com/pterm/pterm"

// Paleta de OpenSight
var (
	// SignalCyan - acentos y operaciones exitosas
	SignalCyan = pterm.NewRGB(0, 206, 209)

	// AlertRed - módulos fallidos
	AlertRed = pterm.NewRGB(215, 38, 56)

	// AmberLight - advertencias y módulos desconocidos
	AmberLight = pterm.NewRGB(255, 182, 39)

	// FogGray - texto secundario, módulos omitidos
	FogGray = pterm.NewRGB(128, 128, 128)

	// ScanBlue - módulos en ejecución
	ScanBlue = pterm.NewRGB(66, 135, 245)
)

// Estilos preconfigurados
var (
	StyleSuccess   = SignalCyan.ToRGBStyle()
	StyleError     = AlertRed.ToRGBStyle()
	StyleWarning   = AmberLight.ToRGBStyle()
	StyleSecondary = FogGray.ToRGBStyle()
	StyleActive    = ScanBlue.ToRGBStyle()
)
