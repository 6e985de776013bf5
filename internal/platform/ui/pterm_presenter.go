// internal/platform/ui/pterm_presenter.go
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pterm/pterm"

	"opensight/internal/core/domain"
	"opensight/internal/core/ports"
)

// PTermPresenter implementa Presenter usando pterm para colores,
// símbolos y la tabla final. Escribe una línea por evento de módulo.
type PTermPresenter struct {
	mu  sync.Mutex
	out io.Writer
}

// NewPTermPresenter crea un presenter que escribe en stdout
func NewPTermPresenter() *PTermPresenter {
	return NewPTermPresenterTo(os.Stdout)
}

// NewPTermPresenterTo crea un presenter que escribe en w
func NewPTermPresenterTo(w io.Writer) *PTermPresenter {
	return &PTermPresenter{out: w}
}

// Start muestra la cabecera de la ejecución
func (p *PTermPresenter) Start(info RunInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "%s Target: %s (%s)\n", IconInfo, pterm.Cyan(info.Target), info.Mode)
	fmt.Fprintf(p.out, "%s Modules: %s\n", IconInfo, strings.Join(info.Modules, ", "))
	fmt.Fprintln(p.out, StyleSecondary.Sprint(SeparatorLight))
}

// Notify implementa ports.Observer
func (p *PTermPresenter) Notify(_ context.Context, event ports.Event) error {
	line := describe(event)
	if line == "" {
		return nil
	}

	style := StyleActive
	if status, ok := event.Type.Status(); ok {
		style = StyleFor(status)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := fmt.Fprintln(p.out, "  "+style.Sprint(line))
	return err
}

// Finish muestra la tabla de outcomes, el resumen y la ruta del reporte
func (p *PTermPresenter) Finish(summary Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.out, StyleSecondary.Sprint(SeparatorLight))

	report := summary.Report
	if report == nil {
		return
	}

	if len(report.Outcomes) > 0 {
		table, err := pterm.DefaultTable.
			WithHasHeader().
			WithBoxed().
			WithData(outcomeTable(report)).
			Srender()
		if err == nil {
			fmt.Fprintln(p.out, table)
		}
	}

	fmt.Fprintf(p.out, "%s %s\n", IconInfo, report.Summary())
	if summary.OutputPath != "" {
		fmt.Fprintf(p.out, "%s Results saved to %s\n", IconSaved, pterm.Green(summary.OutputPath))
	}
	if summary.MetricsPath != "" {
		fmt.Fprintf(p.out, "%s Metrics written to %s\n", IconSaved, summary.MetricsPath)
	}
}

// describe construye la línea de texto de un evento; vacío si no se muestra
func describe(event ports.Event) string {
	name := event.Module

	switch event.Type {
	case ports.EventTypeModuleStarted:
		return fmt.Sprintf("%s %s running...", Symbol(""), name)
	case ports.EventTypeModuleSucceeded:
		return fmt.Sprintf("%s %s -> %s (%s)", Symbol(domain.StatusSucceeded), name, event.Key, formatDuration(event.Duration))
	case ports.EventTypeModuleFailed:
		msg := "error"
		if event.Err != nil {
			msg = event.Err.Error()
		}
		return fmt.Sprintf("%s %s failed: %s (%s)", Symbol(domain.StatusFailed), name, msg, formatDuration(event.Duration))
	case ports.EventTypeModuleSkipped:
		return fmt.Sprintf("%s %s skipped: not applicable to %s targets", Symbol(domain.StatusSkipped), name, event.Target.Mode)
	case ports.EventTypeModuleUnknown:
		return fmt.Sprintf("%s %s is not a known module, ignored", Symbol(domain.StatusUnknown), name)
	case ports.EventTypeModuleDuplicate:
		return fmt.Sprintf("%s %s already ran, ignored", Symbol(domain.StatusDuplicate), name)
	default:
		return ""
	}
}

// outcomeTable arma las filas de la tabla final
func outcomeTable(report *domain.Report) pterm.TableData {
	data := pterm.TableData{{"Module", "Status", "Key", "Duration", "Error"}}
	for _, o := range report.Outcomes {
		duration := "-"
		if o.Status == domain.StatusSucceeded || o.Status == domain.StatusFailed {
			duration = fmt.Sprintf("%dms", o.DurationMS)
		}
		key := o.Key
		if key == "" {
			key = "-"
		}
		data = append(data, []string{
			o.Module,
			Symbol(o.Status) + " " + string(o.Status),
			key,
			duration,
			o.Error,
		})
	}
	return data
}
