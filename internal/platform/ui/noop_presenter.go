// internal/platform/ui/noop_presenter.go
package ui

import (
	"context"

	"opensight/internal/core/ports"
)

// NoopPresenter es una implementación vacía del Presenter
// que no produce ninguna salida. Útil para modo quiet.
type NoopPresenter struct{}

// NewNoopPresenter crea una instancia del presenter sin salida
func NewNoopPresenter() *NoopPresenter {
	return &NoopPresenter{}
}

// Notify no hace nada
func (n *NoopPresenter) Notify(context.Context, ports.Event) error { return nil }

// Start no hace nada
func (n *NoopPresenter) Start(RunInfo) {}

// Finish no hace nada
func (n *NoopPresenter) Finish(Summary) {}
