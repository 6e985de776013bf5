// internal/adapters/output/yaml.go
package output

import (
	"io"

	"gopkg.in/yaml.v3"

	"opensight/internal/core/domain"
)

// YAMLExporter escribe el reporte como YAML.
type YAMLExporter struct{}

// Name implementa ports.Exporter.
func (YAMLExporter) Name() string { return FormatYAML }

// Extension implementa ports.Exporter.
func (YAMLExporter) Extension() string { return "yaml" }

// Export implementa ports.Exporter.
func (YAMLExporter) Export(report *domain.Report, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}
