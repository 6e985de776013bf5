// internal/core/ports/collector.go
package ports

import (
	"context"
	"net/http"

	"opensight/internal/core/domain"
)

// Collector es el port que implementa cada módulo de recolección.
// Recibe el target y la sesión compartida de la ejecución y retorna
// un valor serializable o un error.
type Collector interface {
	Collect(ctx context.Context, target domain.Target, session Session) (any, error)
}

// ImmediateFunc adapta una función que solo necesita el target.
// Usado por módulos que derivan datos localmente sin tocar la red.
type ImmediateFunc func(target domain.Target) (any, error)

// Collect implementa Collector.
func (f ImmediateFunc) Collect(_ context.Context, target domain.Target, _ Session) (any, error) {
	return f(target)
}

// NetworkFunc adapta una función que usa la sesión compartida.
type NetworkFunc func(ctx context.Context, target domain.Target, session Session) (any, error)

// Collect implementa Collector.
func (f NetworkFunc) Collect(ctx context.Context, target domain.Target, session Session) (any, error) {
	return f(ctx, target, session)
}

// Session es la sesión HTTP compartida por todos los módulos de una ejecución.
// Se abre una vez antes del primer módulo y se cierra al terminar.
type Session interface {
	// Get realiza un GET con el User-Agent de la sesión y los headers dados
	Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error)

	// FetchJSON realiza un GET, valida status 2xx y retorna el body
	FetchJSON(ctx context.Context, url string, headers map[string]string) ([]byte, error)

	// FetchPage realiza un GET y retorna status, headers y hasta limit bytes del body
	FetchPage(ctx context.Context, url string, limit int64) (*Page, error)

	// UserAgent retorna el User-Agent que identifica a la herramienta
	UserAgent() string

	// Close libera la sesión; llamadas repetidas no fallan
	Close() error
}

// SessionOpener abre la sesión de una ejecución.
type SessionOpener func(ctx context.Context) (Session, error)

// Page es la respuesta de una página web leída por la sesión.
type Page struct {
	// URL final tras redirecciones
	URL string

	// StatusCode código HTTP
	StatusCode int

	// Header headers de la respuesta
	Header http.Header

	// Body contenido (posiblemente truncado)
	Body []byte
}
