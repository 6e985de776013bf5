// internal/core/usecases/assembler.go
package usecases

import (
	"time"

	"github.com/google/uuid"

	"opensight/internal/core/domain"
)

// Assembler construye el reporte de una ejecución.
// No es seguro para uso concurrente; la orquestación es secuencial.
type Assembler struct {
	report *domain.Report
	now    func() time.Time
}

// StartReport crea el reporte con id, target, modo y timestamp de inicio.
func StartReport(target domain.Target) *Assembler {
	return startReportAt(target, time.Now)
}

func startReportAt(target domain.Target, now func() time.Time) *Assembler {
	return &Assembler{
		report: &domain.Report{
			ID:        uuid.NewString(),
			Target:    target.Value,
			Mode:      target.Mode,
			Collected: make(map[string]any),
			Timestamp: now().UTC(),
			Outcomes:  make([]domain.Outcome, 0),
		},
		now: now,
	}
}

// Record guarda el resultado de un módulo. Una segunda escritura sobre la
// misma clave reemplaza a la primera.
func (a *Assembler) Record(key string, value any) {
	a.report.Collected[key] = value
}

// Note agrega el outcome de un nombre solicitado.
func (a *Assembler) Note(outcome domain.Outcome) {
	a.report.Outcomes = append(a.report.Outcomes, outcome)
}

// Finalize sella el reporte y lo retorna.
func (a *Assembler) Finalize() *domain.Report {
	a.report.FinishedAt = a.now().UTC()
	return a.report
}
