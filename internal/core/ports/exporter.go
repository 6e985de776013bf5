// internal/core/ports/exporter.go
package ports

import (
	"io"

	"opensight/internal/core/domain"
)

// Exporter es el port para serializar el reporte en un formato concreto.
type Exporter interface {
	// Name retorna el nombre del formato (ej: "json", "yaml")
	Name() string

	// Extension retorna la extensión de archivo sin punto
	Extension() string

	// Export escribe el reporte en w
	Export(report *domain.Report, w io.Writer) error
}
