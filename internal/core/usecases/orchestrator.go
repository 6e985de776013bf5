// internal/core/usecases/orchestrator.go
package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"opensight/internal/core/domain"
	"opensight/internal/core/ports"
	"opensight/internal/platform/logx"
	"opensight/internal/platform/registry"
)

// DefaultModuleTimeout acota la ejecución de cada módulo.
const DefaultModuleTimeout = 30 * time.Second

// Resolver resuelve nombres de módulo (canónicos o alias) a entries.
type Resolver interface {
	Resolve(name string) (registry.Entry, bool)
}

// Orchestrator ejecuta los módulos solicitados en orden sobre una sesión compartida.
type Orchestrator struct {
	resolver      Resolver
	openSession   ports.SessionOpener
	observers     []ports.Observer
	logger        logx.Logger
	moduleTimeout time.Duration
}

// OrchestratorOptions configura el orchestrator.
type OrchestratorOptions struct {
	Registry    Resolver
	OpenSession ports.SessionOpener
	Observers   []ports.Observer
	Logger      logx.Logger

	// ModuleTimeout tiempo máximo por módulo; 0 deshabilita el límite
	ModuleTimeout time.Duration
}

// NewOrchestrator crea un nuevo orchestrator.
func NewOrchestrator(opts OrchestratorOptions) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = logx.NewNop()
	}

	return &Orchestrator{
		resolver:      opts.Registry,
		openSession:   opts.OpenSession,
		observers:     opts.Observers,
		logger:        logger.With("component", "orchestrator"),
		moduleTimeout: opts.ModuleTimeout,
	}
}

// Run ejecuta modules contra target y retorna el reporte.
// El único error posible es la falla al abrir la sesión; los errores de
// cada módulo quedan registrados en los outcomes del reporte.
func (o *Orchestrator) Run(ctx context.Context, target domain.Target, modules []string) (*domain.Report, error) {
	sess, err := o.openSession(ctx)
	if err != nil {
		o.logger.Err(err, "phase", "session")
		return nil, fmt.Errorf("%w: %w", domain.ErrSessionSetup, err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			o.logger.Warn("failed to close session", "error", cerr.Error())
		}
	}()

	o.logger.Info("run started",
		"target", target.Value,
		"mode", target.Mode.String(),
		"modules", len(modules),
	)

	asm := StartReport(target)
	o.notify(ctx, ports.NewEvent(ports.EventTypeRunStarted, target, ""))

	attempted := make(map[string]struct{}, len(modules))
	for _, name := range modules {
		o.runModule(ctx, asm, sess, target, name, attempted)
	}

	report := asm.Finalize()

	finished := ports.NewEvent(ports.EventTypeRunFinished, target, "")
	finished.Duration = report.Duration()
	finished.Report = report
	o.notify(ctx, finished)

	o.logger.Info("run finished",
		"target", target.Value,
		"collected", len(report.Collected),
		"failed", report.Count(domain.StatusFailed),
		"duration_ms", report.Duration().Milliseconds(),
	)

	return report, nil
}

// runModule resuelve, filtra y ejecuta un nombre solicitado.
func (o *Orchestrator) runModule(
	ctx context.Context,
	asm *Assembler,
	sess ports.Session,
	target domain.Target,
	name string,
	attempted map[string]struct{},
) {
	entry, ok := o.resolver.Resolve(name)
	if !ok {
		o.logger.Warn("unknown module ignored", "module", name)
		asm.Note(domain.Outcome{Module: name, Status: domain.StatusUnknown})
		o.notify(ctx, ports.NewEvent(ports.EventTypeModuleUnknown, target, name))
		return
	}

	key := entry.ReportKey(target.Mode)

	if _, seen := attempted[entry.Name]; seen {
		o.logger.Debug("module already attempted", "module", name, "canonical", entry.Name)
		asm.Note(domain.Outcome{Module: name, Canonical: entry.Name, Status: domain.StatusDuplicate})
		ev := ports.NewEvent(ports.EventTypeModuleDuplicate, target, name)
		ev.Key = key
		o.notify(ctx, ev)
		return
	}
	attempted[entry.Name] = struct{}{}

	if !entry.Eligible(target.Mode) {
		o.logger.Debug("module not applicable", "module", name, "mode", target.Mode.String())
		asm.Note(domain.Outcome{Module: name, Canonical: entry.Name, Status: domain.StatusSkipped})
		ev := ports.NewEvent(ports.EventTypeModuleSkipped, target, name)
		ev.Key = key
		o.notify(ctx, ev)
		return
	}

	started := ports.NewEvent(ports.EventTypeModuleStarted, target, name)
	started.Key = key
	o.notify(ctx, started)

	start := time.Now()
	result, err := o.invoke(ctx, entry, target, sess)
	elapsed := time.Since(start)

	outcome := domain.Outcome{
		Module:     name,
		Canonical:  entry.Name,
		Key:        key,
		DurationMS: elapsed.Milliseconds(),
	}

	if err != nil {
		o.logger.Warn("module failed",
			"module", name,
			"error", err.Error(),
			"duration_ms", elapsed.Milliseconds(),
		)
		outcome.Status = domain.StatusFailed
		outcome.Error = err.Error()
		asm.Note(outcome)

		ev := ports.NewEvent(ports.EventTypeModuleFailed, target, name)
		ev.Key = key
		ev.Err = err
		ev.Duration = elapsed
		o.notify(ctx, ev)
		return
	}

	asm.Record(key, result)
	outcome.Status = domain.StatusSucceeded
	asm.Note(outcome)

	o.logger.Debug("module completed", "module", name, "key", key, "duration_ms", elapsed.Milliseconds())

	ev := ports.NewEvent(ports.EventTypeModuleSucceeded, target, name)
	ev.Key = key
	ev.Duration = elapsed
	o.notify(ctx, ev)
}

type collectResult struct {
	value any
	err   error
}

// invoke ejecuta el collector con espera acotada y recuperación de pánicos.
// Si el límite vence, la goroutine del collector queda abandonada con su
// contexto cancelado.
func (o *Orchestrator) invoke(ctx context.Context, entry registry.Entry, target domain.Target, sess ports.Session) (any, error) {
	runCtx, cancel := ctx, context.CancelFunc(func() {})
	if o.moduleTimeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, o.moduleTimeout)
	}
	defer cancel()

	done := make(chan collectResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- collectResult{err: fmt.Errorf("%w: %v", domain.ErrModulePanic, r)}
			}
		}()
		value, err := entry.Collector.Collect(runCtx, target, sess)
		done <- collectResult{value: value, err: err}
	}()

	select {
	case res := <-done:
		return res.value, res.err
	case <-runCtx.Done():
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w after %s", domain.ErrModuleTimeout, o.moduleTimeout)
		}
		return nil, runCtx.Err()
	}
}

// notify entrega el evento a todos los observers; sus errores se registran y se ignoran.
func (o *Orchestrator) notify(ctx context.Context, event ports.Event) {
	for _, obs := range o.observers {
		if err := obs.Notify(ctx, event); err != nil {
			o.logger.Debug("observer error", "event", string(event.Type), "error", err.Error())
		}
	}
}
