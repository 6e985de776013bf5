// internal/testutil/mocks.go
package testutil

import (
	"context"
	"net/http"
	"sync"

	"opensight/internal/core/domain"
	"opensight/internal/core/ports"
)

// FakeSession es una ports.Session en memoria que responde por URL.
type FakeSession struct {
	mu sync.Mutex

	// JSON respuestas de FetchJSON por URL exacta
	JSON map[string][]byte

	// Pages respuestas de FetchPage y Get por URL exacta
	Pages map[string]*ports.Page

	// Err error retornado por cualquier URL no configurada
	Err error

	Requests   []string
	CloseCount int
}

// NewFakeSession crea una sesión vacía; las URLs no configuradas fallan con err.
func NewFakeSession(err error) *FakeSession {
	return &FakeSession{
		JSON:  make(map[string][]byte),
		Pages: make(map[string]*ports.Page),
		Err:   err,
	}
}

// Get implementa ports.Session.
func (f *FakeSession) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	f.record(url)
	return nil, f.Err
}

// FetchJSON implementa ports.Session.
func (f *FakeSession) FetchJSON(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	f.record(url)
	f.mu.Lock()
	defer f.mu.Unlock()
	if body, ok := f.JSON[url]; ok {
		return body, nil
	}
	return nil, f.Err
}

// FetchPage implementa ports.Session.
func (f *FakeSession) FetchPage(ctx context.Context, url string, limit int64) (*ports.Page, error) {
	f.record(url)
	f.mu.Lock()
	defer f.mu.Unlock()
	if page, ok := f.Pages[url]; ok {
		return page, nil
	}
	return nil, f.Err
}

// UserAgent implementa ports.Session.
func (f *FakeSession) UserAgent() string { return "OpenSight/test" }

// Close implementa ports.Session.
func (f *FakeSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CloseCount++
	return nil
}

// RequestCount retorna cuántas requests se hicieron.
func (f *FakeSession) RequestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}

func (f *FakeSession) record(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests = append(f.Requests, url)
}

// Opener retorna un SessionOpener que entrega siempre esta sesión.
func (f *FakeSession) Opener() ports.SessionOpener {
	return func(context.Context) (ports.Session, error) { return f, nil }
}

// FailingOpener retorna un SessionOpener que siempre falla.
func FailingOpener(err error) ports.SessionOpener {
	return func(context.Context) (ports.Session, error) { return nil, err }
}

// StubCollector es un collector configurable que cuenta sus invocaciones.
type StubCollector struct {
	mu    sync.Mutex
	calls int

	Fn func(ctx context.Context, target domain.Target, sess ports.Session) (any, error)
}

// Collect implementa ports.Collector.
func (s *StubCollector) Collect(ctx context.Context, target domain.Target, sess ports.Session) (any, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.Fn(ctx, target, sess)
}

// Calls retorna cuántas veces se invocó.
func (s *StubCollector) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// Returning crea un collector que retorna value.
func Returning(value any) *StubCollector {
	return &StubCollector{Fn: func(context.Context, domain.Target, ports.Session) (any, error) {
		return value, nil
	}}
}

// Failing crea un collector que retorna err.
func Failing(err error) *StubCollector {
	return &StubCollector{Fn: func(context.Context, domain.Target, ports.Session) (any, error) {
		return nil, err
	}}
}

// Panicking crea un collector que entra en pánico.
func Panicking(msg string) *StubCollector {
	return &StubCollector{Fn: func(context.Context, domain.Target, ports.Session) (any, error) {
		panic(msg)
	}}
}

// Blocking crea un collector que espera a que su contexto termine.
func Blocking() *StubCollector {
	return &StubCollector{Fn: func(ctx context.Context, _ domain.Target, _ ports.Session) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
}

// RecordingObserver guarda todos los eventos recibidos.
type RecordingObserver struct {
	mu     sync.Mutex
	Events []ports.Event
	Err    error
}

// Notify implementa ports.Observer.
func (r *RecordingObserver) Notify(_ context.Context, event ports.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, event)
	return r.Err
}

// Types retorna la secuencia de tipos de evento.
func (r *RecordingObserver) Types() []ports.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.EventType, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Type
	}
	return out
}
