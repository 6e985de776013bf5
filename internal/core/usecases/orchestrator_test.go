// internal/core/usecases/orchestrator_test.go
package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opensight/internal/core/domain"
	"opensight/internal/core/ports"
	"opensight/internal/platform/logx"
	"opensight/internal/platform/registry"
	"opensight/internal/testutil"
)

type fixture struct {
	session  *testutil.FakeSession
	observer *testutil.RecordingObserver
	stubs    map[string]*testutil.StubCollector
	orch     *Orchestrator
}

// newFixture registra whois/dns/crtsh (solo dominio), http (alias homepage)
// y social (ambos modos, clave distinta por modo).
func newFixture(t *testing.T, timeout time.Duration, override map[string]*testutil.StubCollector) *fixture {
	t.Helper()

	stubs := map[string]*testutil.StubCollector{
		"whois":  testutil.Returning(map[string]string{"registrar": "Example Registrar"}),
		"dns":    testutil.Returning(map[string][]string{"A": {"93.184.216.34"}}),
		"crtsh":  testutil.Returning([]string{"www.example.com"}),
		"http":   testutil.Returning(map[string]any{"status": 200}),
		"social": testutil.Returning(map[string]any{"handle": "jdoe"}),
	}
	for name, s := range override {
		stubs[name] = s
	}

	reg, err := registry.New([]registry.Entry{
		{Name: "whois", Collector: stubs["whois"], Domain: true},
		{Name: "dns", Collector: stubs["dns"], Domain: true},
		{Name: "crtsh", Collector: stubs["crtsh"], Domain: true},
		{Name: "http", Key: "http_passive", Collector: stubs["http"], Domain: true, Person: true},
		{Name: "social", Key: "social_guesses", PersonKey: "social", Collector: stubs["social"], Domain: true, Person: true},
	}, registry.WithAlias("homepage", "http"))
	require.NoError(t, err)

	sess := testutil.NewFakeSession(nil)
	obs := &testutil.RecordingObserver{}

	return &fixture{
		session:  sess,
		observer: obs,
		stubs:    stubs,
		orch: NewOrchestrator(OrchestratorOptions{
			Registry:      reg,
			OpenSession:   sess.Opener(),
			Observers:     []ports.Observer{obs},
			Logger:        logx.NewNop(),
			ModuleTimeout: timeout,
		}),
	}
}

func TestOrchestrator_DomainScenario(t *testing.T) {
	f := newFixture(t, time.Second, nil)

	report, err := f.orch.Run(context.Background(),
		domain.NewTarget("example.com", domain.ModeDomain),
		[]string{"whois", "dns", "crtsh"},
	)
	require.NoError(t, err)

	assert.Equal(t, "example.com", report.Target)
	assert.Equal(t, domain.ModeDomain, report.Mode)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, []string{"crtsh", "dns", "whois"}, report.Keys())
	assert.Equal(t, 3, report.Count(domain.StatusSucceeded))
	assert.False(t, report.FinishedAt.Before(report.Timestamp))
	assert.Equal(t, 1, f.session.CloseCount)
}

func TestOrchestrator_PersonScenario(t *testing.T) {
	f := newFixture(t, time.Second, nil)

	report, err := f.orch.Run(context.Background(),
		domain.NewTarget("jdoe", domain.ModePerson),
		[]string{"whois", "social"},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"social"}, report.Keys())
	assert.Equal(t, 0, f.stubs["whois"].Calls())
	assert.Equal(t, 1, report.Count(domain.StatusSkipped))
	assert.Equal(t, domain.StatusSkipped, report.Outcomes[0].Status)
	assert.Equal(t, "whois", report.Outcomes[0].Module)
}

func TestOrchestrator_SocialKeyDependsOnMode(t *testing.T) {
	f := newFixture(t, time.Second, nil)

	report, err := f.orch.Run(context.Background(),
		domain.NewTarget("example.com", domain.ModeDomain),
		[]string{"social"},
	)
	require.NoError(t, err)

	assert.True(t, report.Has("social_guesses"))
	assert.False(t, report.Has("social"))
}

func TestOrchestrator_FailureIsolation(t *testing.T) {
	f := newFixture(t, time.Second, map[string]*testutil.StubCollector{
		"dns": testutil.Failing(errors.New("resolver unreachable")),
	})

	report, err := f.orch.Run(context.Background(),
		domain.NewTarget("example.com", domain.ModeDomain),
		[]string{"whois", "dns", "crtsh"},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"crtsh", "whois"}, report.Keys())
	require.Len(t, report.Outcomes, 3)
	assert.Equal(t, domain.StatusFailed, report.Outcomes[1].Status)
	assert.Equal(t, "resolver unreachable", report.Outcomes[1].Error)
	assert.Equal(t, 1, f.stubs["crtsh"].Calls())
}

func TestOrchestrator_UnknownModuleIgnored(t *testing.T) {
	f := newFixture(t, time.Second, nil)

	report, err := f.orch.Run(context.Background(),
		domain.NewTarget("example.com", domain.ModeDomain),
		[]string{"nonexistent", "dns", "DNS"},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"dns"}, report.Keys())
	assert.Equal(t, 2, report.Count(domain.StatusUnknown))
}

func TestOrchestrator_DuplicateRequests(t *testing.T) {
	f := newFixture(t, time.Second, nil)

	report, err := f.orch.Run(context.Background(),
		domain.NewTarget("example.com", domain.ModeDomain),
		[]string{"http", "homepage", "dns", "dns"},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"dns", "http_passive"}, report.Keys())
	assert.Equal(t, 1, f.stubs["http"].Calls())
	assert.Equal(t, 1, f.stubs["dns"].Calls())
	assert.Equal(t, 2, report.Count(domain.StatusDuplicate))
	assert.Equal(t, "homepage", report.Outcomes[1].Module)
	assert.Equal(t, "http", report.Outcomes[1].Canonical)
}

func TestOrchestrator_EmptyModuleList(t *testing.T) {
	f := newFixture(t, time.Second, nil)

	report, err := f.orch.Run(context.Background(),
		domain.NewTarget("example.com", domain.ModeDomain), nil)
	require.NoError(t, err)

	assert.Empty(t, report.Collected)
	assert.Empty(t, report.Outcomes)
	assert.Equal(t, 1, f.session.CloseCount)
}

func TestOrchestrator_ModuleTimeout(t *testing.T) {
	f := newFixture(t, 50*time.Millisecond, map[string]*testutil.StubCollector{
		"whois": testutil.Blocking(),
	})

	start := time.Now()
	report, err := f.orch.Run(context.Background(),
		domain.NewTarget("example.com", domain.ModeDomain),
		[]string{"whois", "dns"},
	)
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, []string{"dns"}, report.Keys())
	assert.Equal(t, domain.StatusFailed, report.Outcomes[0].Status)
	assert.Contains(t, report.Outcomes[0].Error, domain.ErrModuleTimeout.Error())
}

func TestOrchestrator_PanicRecovered(t *testing.T) {
	f := newFixture(t, time.Second, map[string]*testutil.StubCollector{
		"crtsh": testutil.Panicking("nil map"),
	})

	report, err := f.orch.Run(context.Background(),
		domain.NewTarget("example.com", domain.ModeDomain),
		[]string{"crtsh", "whois"},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"whois"}, report.Keys())
	assert.Contains(t, report.Outcomes[0].Error, "nil map")
	assert.Contains(t, report.Outcomes[0].Error, domain.ErrModulePanic.Error())
}

func TestOrchestrator_SessionSetupFailure(t *testing.T) {
	whois := testutil.Returning("x")
	reg, err := registry.New([]registry.Entry{{Name: "whois", Collector: whois, Domain: true}})
	require.NoError(t, err)

	orch := NewOrchestrator(OrchestratorOptions{
		Registry:    reg,
		OpenSession: testutil.FailingOpener(errors.New("bad proxy")),
	})

	report, err := orch.Run(context.Background(),
		domain.NewTarget("example.com", domain.ModeDomain), []string{"whois"})

	assert.Nil(t, report)
	assert.ErrorIs(t, err, domain.ErrSessionSetup)
	assert.Equal(t, 0, whois.Calls())
}

func TestOrchestrator_SessionSharedAcrossModules(t *testing.T) {
	var seen []ports.Session
	capture := &testutil.StubCollector{Fn: func(_ context.Context, _ domain.Target, s ports.Session) (any, error) {
		seen = append(seen, s)
		return "ok", nil
	}}
	f := newFixture(t, time.Second, map[string]*testutil.StubCollector{
		"whois": capture,
		"dns":   capture,
	})

	_, err := f.orch.Run(context.Background(),
		domain.NewTarget("example.com", domain.ModeDomain), []string{"whois", "dns"})
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Same(t, seen[0], seen[1])
}

func TestOrchestrator_EventSequence(t *testing.T) {
	f := newFixture(t, time.Second, map[string]*testutil.StubCollector{
		"dns": testutil.Failing(errors.New("boom")),
	})
	f.observer.Err = errors.New("observers cannot break a run")

	_, err := f.orch.Run(context.Background(),
		domain.NewTarget("example.com", domain.ModeDomain),
		[]string{"whois", "dns", "ghost", "whois"},
	)
	require.NoError(t, err)

	assert.Equal(t, []ports.EventType{
		ports.EventTypeRunStarted,
		ports.EventTypeModuleStarted,
		ports.EventTypeModuleSucceeded,
		ports.EventTypeModuleStarted,
		ports.EventTypeModuleFailed,
		ports.EventTypeModuleUnknown,
		ports.EventTypeModuleDuplicate,
		ports.EventTypeRunFinished,
	}, f.observer.Types())

	last := f.observer.Events[len(f.observer.Events)-1]
	require.NotNil(t, last.Report)
	assert.Equal(t, 1, last.Report.Count(domain.StatusFailed))
}

func TestOrchestrator_CollectedSubsetOfReachableKeys(t *testing.T) {
	f := newFixture(t, time.Second, nil)
	reachable := map[string]bool{
		"whois": true, "dns": true, "crtsh": true,
		"http_passive": true, "social_guesses": true, "social": true,
	}

	requests := [][]string{
		{"whois", "homepage", "social", "bogus"},
		{"social", "social", "http", "crtsh"},
		{},
	}
	for _, mode := range []domain.Mode{domain.ModeDomain, domain.ModePerson} {
		for _, modules := range requests {
			report, err := f.orch.Run(context.Background(), domain.NewTarget("jdoe", mode), modules)
			require.NoError(t, err)
			for _, key := range report.Keys() {
				assert.True(t, reachable[key], "unexpected key %s", key)
			}
			assert.Len(t, report.Outcomes, len(modules))
		}
	}
}
