// internal/core/ports/observer.go
package ports

import (
	"context"
	"time"

	"opensight/internal/core/domain"
)

// Observer recibe los eventos del ciclo de vida de una ejecución.
// Desacopla la orquestación de la presentación y las métricas.
type Observer interface {
	Notify(ctx context.Context, event Event) error
}

// ObserverFunc adapta una función a Observer.
type ObserverFunc func(ctx context.Context, event Event) error

// Notify implementa Observer.
func (f ObserverFunc) Notify(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// EventType define los tipos de eventos.
type EventType string

const (
	// Run events
	EventTypeRunStarted  EventType = "run.started"
	EventTypeRunFinished EventType = "run.finished"

	// Module events
	EventTypeModuleStarted   EventType = "module.started"
	EventTypeModuleSucceeded EventType = "module.succeeded"
	EventTypeModuleFailed    EventType = "module.failed"
	EventTypeModuleSkipped   EventType = "module.skipped"
	EventTypeModuleUnknown   EventType = "module.unknown"
	EventTypeModuleDuplicate EventType = "module.duplicate"
)

// Status traduce un evento terminal de módulo a su status.
// Retorna false para eventos que no cierran un módulo.
func (t EventType) Status() (domain.Status, bool) {
	switch t {
	case EventTypeModuleSucceeded:
		return domain.StatusSucceeded, true
	case EventTypeModuleFailed:
		return domain.StatusFailed, true
	case EventTypeModuleSkipped:
		return domain.StatusSkipped, true
	case EventTypeModuleUnknown:
		return domain.StatusUnknown, true
	case EventTypeModuleDuplicate:
		return domain.StatusDuplicate, true
	default:
		return "", false
	}
}

// Event representa un evento de la ejecución.
type Event struct {
	// Type tipo de evento
	Type EventType

	// Timestamp momento del evento
	Timestamp time.Time

	// Module nombre solicitado (vacío en eventos de run)
	Module string

	// Key clave del reporte bajo la que se guarda el resultado
	Key string

	// Target objetivo de la ejecución
	Target domain.Target

	// Err error del módulo (solo en module.failed)
	Err error

	// Duration duración del módulo o de la ejecución
	Duration time.Duration

	// Report reporte final (solo en run.finished)
	Report *domain.Report
}

// NewEvent crea un nuevo evento.
func NewEvent(eventType EventType, target domain.Target, module string) Event {
	return Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Module:    module,
		Target:    target,
	}
}
