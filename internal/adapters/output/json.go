// internal/adapters/output/json.go
package output

import (
	"io"

	json "github.com/goccy/go-json"

	"opensight/internal/core/domain"
)

// JSONExporter escribe el reporte como JSON indentado.
type JSONExporter struct{}

// Name implementa ports.Exporter.
func (JSONExporter) Name() string { return FormatJSON }

// Extension implementa ports.Exporter.
func (JSONExporter) Extension() string { return "json" }

// Export implementa ports.Exporter.
func (JSONExporter) Export(report *domain.Report, w io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
