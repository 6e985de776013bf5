// cmd/opensight/root.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"opensight/internal/adapters/output"
	"opensight/internal/collectors"
	"opensight/internal/core/domain"
	"opensight/internal/core/ports"
	"opensight/internal/core/usecases"
	"opensight/internal/platform/config"
	"opensight/internal/platform/logx"
	"opensight/internal/platform/metrics"
	"opensight/internal/platform/session"
	"opensight/internal/platform/ui"
)

// Códigos de salida
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// run construye el comando raíz, lo ejecuta con args y retorna el código de salida.
func run(args []string, stdout, stderr io.Writer) int {
	code := exitOK
	cmd := newRootCommand(stdout, stderr, &code)
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		// errores de parseo de flags o argumentos
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintln(stderr, "Try: opensight -h for help")
		return exitConfig
	}
	return code
}

func newRootCommand(stdout, stderr io.Writer, code *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "opensight -t <target> [flags]",
		Short: "Passive OSINT recon orchestrator",
		Long: "OpenSight runs passive collectors (WHOIS, DNS, certificate transparency,\n" +
			"homepage, GitHub, social guesses, e-mail patterns) against a domain or a\n" +
			"person and writes one consolidated report.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			*code = execute(cmd.Context(), cmd.Flags(), stdout, stderr)
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	config.RegisterFlags(cmd.Flags())
	return cmd
}

// execute corre una ejecución completa a partir de los flags ya parseados.
func execute(parent context.Context, fs *pflag.FlagSet, stdout, stderr io.Writer) int {
	// 1. Configuración
	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(stderr, "Error: configuration load failed: %v\n", err)
		return exitConfig
	}

	if cfg.PrintVersion {
		fmt.Fprintf(stdout, "opensight %s (commit %s, built %s)\n", version, commit, date)
		return exitOK
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintln(stderr, "Usage: opensight -t <domain|name> [--person] [-m whois,dns,...]")
		return exitConfig
	}

	target := domain.NewTarget(cfg.Target, domain.ModeFromFlag(cfg.Person))
	if err := target.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitConfig
	}

	exporter, err := output.ForFormat(cfg.Format)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitConfig
	}

	// 2. Logger compartido
	logger, err := logx.NewWithOptions(logx.Options{
		Level:  logx.ParseLevel(cfg.Log.Level),
		Writer: stderr,
		Dir:    cfg.Log.Dir,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: logger setup failed: %v\n", err)
		return exitConfig
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("OpenSight starting",
		"version", version,
		"commit", commit,
		"target", target.Value,
		"mode", target.Mode.String(),
		"modules", len(cfg.Modules),
	)

	// 3. Registry de módulos
	reg, err := collectors.NewRegistry(cfg, logger)
	if err != nil {
		logger.Err(err, "phase", "registry")
		return exitConfig
	}

	// 4. Presentación y métricas
	var presenter ui.Presenter = ui.NewPTermPresenterTo(stdout)
	if cfg.UI.Quiet {
		presenter = ui.NewNoopPresenter()
	}
	if cfg.UI.Banner {
		fmt.Fprintln(stdout, ui.Banner())
	}
	recorder := metrics.NewRecorder()

	// 5. Contexto y señales para un cierre limpio
	ctx, cancel := rootContextWithSignals(parent)
	defer cancel()

	orch := usecases.NewOrchestrator(usecases.OrchestratorOptions{
		Registry:      reg,
		OpenSession:   session.Opener(session.FromConfig(cfg.Network), logger),
		Observers:     []ports.Observer{presenter, recorder},
		Logger:        logger,
		ModuleTimeout: cfg.ModuleTimeout,
	})

	// 6. Ejecución
	presenter.Start(ui.RunInfo{Target: target.Value, Mode: target.Mode, Modules: cfg.Modules})

	report, err := orch.Run(ctx, target, cfg.Modules)
	if err != nil {
		logger.Err(err, "phase", "run")
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitRuntime
	}

	// 7. Reporte
	path := cfg.Out
	if path == "" {
		path = output.DefaultPath(cfg.OutputDir, target.Value, exporter.Extension())
	}
	if err := output.WriteFile(path, report, exporter); err != nil {
		logger.Err(err, "phase", "output", "path", path)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitRuntime
	}

	summary := ui.Summary{Report: report, OutputPath: path}
	if cfg.Metrics.File != "" {
		if err := recorder.WriteTextfile(cfg.Metrics.File); err != nil {
			logger.Warn("failed to write metrics file", "path", cfg.Metrics.File, "error", err.Error())
		} else {
			summary.MetricsPath = cfg.Metrics.File
		}
	}

	presenter.Finish(summary)
	logger.Debug("report written", "path", path, "collected", len(report.Collected))
	return exitOK
}

// rootContextWithSignals deriva de parent un contexto que se cancela con SIGINT o SIGTERM.
// La función retornada libera el handler de señales y la goroutine.
func rootContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	base, baseCancel := context.WithCancel(parent)

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-ch:
			baseCancel()
		case <-base.Done():
		}
	}()

	cleanup := func() {
		signal.Stop(ch)
		baseCancel()
	}
	return base, cleanup
}
