// internal/adapters/output/writer.go
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"opensight/internal/core/domain"
	"opensight/internal/core/ports"
	"opensight/internal/platform/errors"
	"opensight/internal/platform/validator"
)

// Formatos soportados.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ForFormat retorna el exporter de un formato.
func ForFormat(format string) (ports.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON, "":
		return JSONExporter{}, nil
	case FormatYAML, "yml":
		return YAMLExporter{}, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidInput, "unsupported output format %q", format)
	}
}

// DefaultPath construye <dir>/<target saneado>_osint.<ext>.
func DefaultPath(dir, target, ext string) string {
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, fmt.Sprintf("%s_osint.%s", validator.SafeFilename(target), ext))
}

// WriteFile serializa el reporte en path, creando los directorios que falten.
// Escribe en un temporal del mismo directorio y lo renombra al final.
func WriteFile(path string, report *domain.Report, exp ports.Exporter) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".opensight-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := exp.Export(report, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode %s: %w", exp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
