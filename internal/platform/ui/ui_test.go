// internal/platform/ui/ui_test.go
package ui

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opensight/internal/core/domain"
	"opensight/internal/core/ports"
)

func TestMain(m *testing.M) {
	pterm.DisableColor()
	os.Exit(m.Run())
}

func event(t ports.EventType, module string) ports.Event {
	ev := ports.NewEvent(t, domain.NewTarget("jdoe", domain.ModePerson), module)
	ev.Key = module
	return ev
}

func TestDescribe(t *testing.T) {
	succeeded := event(ports.EventTypeModuleSucceeded, "social")
	succeeded.Duration = 1500 * time.Millisecond

	failed := event(ports.EventTypeModuleFailed, "github")
	failed.Err = errors.New("rate limit exceeded")
	failed.Duration = 20 * time.Millisecond

	tests := []struct {
		name string
		ev   ports.Event
		want string
	}{
		{"started", event(ports.EventTypeModuleStarted, "whois"), "› whois running..."},
		{"succeeded", succeeded, "✓ social -> social (1.5s)"},
		{"failed", failed, "✗ github failed: rate limit exceeded (20ms)"},
		{"skipped", event(ports.EventTypeModuleSkipped, "whois"), "⊘ whois skipped: not applicable to person targets"},
		{"unknown", event(ports.EventTypeModuleUnknown, "shodan"), "? shodan is not a known module, ignored"},
		{"duplicate", event(ports.EventTypeModuleDuplicate, "homepage"), "≡ homepage already ran, ignored"},
		{"run events are silent", event(ports.EventTypeRunStarted, ""), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describe(tt.ev))
		})
	}
}

func TestPTermPresenter_Lifecycle(t *testing.T) {
	var buf bytes.Buffer
	p := NewPTermPresenterTo(&buf)

	p.Start(RunInfo{Target: "example.com", Mode: domain.ModeDomain, Modules: []string{"whois", "dns"}})
	require.NoError(t, p.Notify(context.Background(), event(ports.EventTypeModuleStarted, "whois")))
	require.NoError(t, p.Notify(context.Background(), event(ports.EventTypeRunFinished, "")))

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	report := &domain.Report{
		Target:     "example.com",
		Mode:       domain.ModeDomain,
		Collected:  map[string]any{"whois": struct{}{}},
		Timestamp:  start,
		FinishedAt: start.Add(time.Second),
		Outcomes: []domain.Outcome{
			{Module: "whois", Canonical: "whois", Key: "whois", Status: domain.StatusSucceeded, DurationMS: 120},
			{Module: "dns", Canonical: "dns", Key: "dns", Status: domain.StatusFailed, Error: "timeout", DurationMS: 5000},
		},
	}
	p.Finish(Summary{Report: report, OutputPath: "results/example.com_osint.json"})

	out := buf.String()
	assert.Contains(t, out, "[*] Target: example.com (domain)")
	assert.Contains(t, out, "[*] Modules: whois, dns")
	assert.Contains(t, out, "whois running...")
	assert.Equal(t, 1, strings.Count(out, "running..."), "run events print nothing")
	assert.Contains(t, out, "Module")
	assert.Contains(t, out, "5000ms")
	assert.Contains(t, out, "timeout")
	assert.Contains(t, out, report.Summary())
	assert.Contains(t, out, "Results saved to results/example.com_osint.json")
}

func TestOutcomeTable(t *testing.T) {
	report := &domain.Report{Outcomes: []domain.Outcome{
		{Module: "shodan", Status: domain.StatusUnknown},
		{Module: "crtsh", Canonical: "crtsh", Key: "crtsh", Status: domain.StatusSucceeded, DurationMS: 7},
	}}

	data := outcomeTable(report)
	require.Len(t, data, 3)
	assert.Equal(t, []string{"shodan", "? unknown", "-", "-", ""}, data[1])
	assert.Equal(t, []string{"crtsh", "✓ succeeded", "crtsh", "7ms", ""}, data[2])
}

func TestNoopPresenter(t *testing.T) {
	var p Presenter = NewNoopPresenter()
	p.Start(RunInfo{})
	assert.NoError(t, p.Notify(context.Background(), event(ports.EventTypeModuleStarted, "dns")))
	p.Finish(Summary{})
}

func TestBanner(t *testing.T) {
	b := Banner()
	assert.Greater(t, strings.Count(b, "\n"), 3)
	assert.Contains(t, b, Tagline)
}
