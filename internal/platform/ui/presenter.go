// internal/platform/ui/presenter.go
package ui

import (
	"opensight/internal/core/domain"
	"opensight/internal/core/ports"
)

// Presenter muestra el progreso de una ejecución. Recibe los eventos del
// orchestrator como cualquier otro observer; Start y Finish enmarcan la
// ejecución con la cabecera y el resumen final.
type Presenter interface {
	ports.Observer

	// Start muestra la cabecera con el objetivo y los módulos solicitados
	Start(info RunInfo)

	// Finish muestra la tabla de resultados y dónde quedó el reporte
	Finish(summary Summary)
}

// RunInfo contiene información inicial de la ejecución
type RunInfo struct {
	Target  string
	Mode    domain.Mode
	Modules []string
}

// Summary contiene el resultado final de la ejecución
type Summary struct {
	Report      *domain.Report
	OutputPath  string
	MetricsPath string
}
