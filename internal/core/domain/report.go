// internal/core/domain/report.go
package domain

import (
	"fmt"
	"sort"
	"time"
)

// Status describe qué ocurrió con un módulo solicitado.
type Status string

const (
	// StatusSucceeded el módulo terminó y su resultado está en el reporte
	StatusSucceeded Status = "succeeded"

	// StatusFailed el módulo devolvió un error, excedió su tiempo o entró en pánico
	StatusFailed Status = "failed"

	// StatusSkipped el módulo no aplica al modo del target
	StatusSkipped Status = "skipped"

	// StatusUnknown el nombre no corresponde a ningún módulo registrado
	StatusUnknown Status = "unknown"

	// StatusDuplicate el módulo canónico ya se ejecutó en esta corrida
	StatusDuplicate Status = "duplicate"
)

// Outcome registra el resultado de un nombre de módulo solicitado.
type Outcome struct {
	Module     string `json:"module" yaml:"module"`
	Canonical  string `json:"canonical,omitempty" yaml:"canonical,omitempty"`
	Key        string `json:"key,omitempty" yaml:"key,omitempty"`
	Status     Status `json:"status" yaml:"status"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
	DurationMS int64  `json:"duration_ms" yaml:"duration_ms"`
}

// Report es el documento final de una ejecución.
// Collected solo contiene entradas de módulos que terminaron con éxito.
type Report struct {
	ID         string         `json:"id" yaml:"id"`
	Target     string         `json:"target" yaml:"target"`
	Mode       Mode           `json:"mode" yaml:"mode"`
	Collected  map[string]any `json:"collected" yaml:"collected"`
	Timestamp  time.Time      `json:"timestamp" yaml:"timestamp"`
	FinishedAt time.Time      `json:"finished_at" yaml:"finished_at"`
	Outcomes   []Outcome      `json:"outcomes" yaml:"outcomes"`
}

// Keys retorna las claves de collected ordenadas.
func (r *Report) Keys() []string {
	keys := make([]string, 0, len(r.Collected))
	for k := range r.Collected {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has indica si el reporte contiene la clave dada.
func (r *Report) Has(key string) bool {
	_, ok := r.Collected[key]
	return ok
}

// Count cuenta los outcomes con el status dado.
func (r *Report) Count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Duration retorna el tiempo total de la ejecución.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.Timestamp)
}

// Summary retorna un resumen de una línea.
func (r *Report) Summary() string {
	return fmt.Sprintf("%s [%s]: %d collected, %d failed, %d skipped, %d unknown in %s",
		r.Target,
		r.Mode,
		r.Count(StatusSucceeded),
		r.Count(StatusFailed),
		r.Count(StatusSkipped),
		r.Count(StatusUnknown),
		r.Duration().Round(time.Millisecond),
	)
}
