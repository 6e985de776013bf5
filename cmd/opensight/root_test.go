// cmd/opensight/root_test.go
package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMain(m *testing.M) {
	pterm.DisableColor()
	os.Exit(m.Run())
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func readReport(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal(data, &report))
	return report
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runCLI(t, "--version")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "opensight dev")
}

func TestRun_ConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing target", []string{"-q"}},
		{"unsupported format", []string{"-t", "example.com", "--format", "xml", "-q"}},
		{"unknown flag", []string{"--bogus"}},
		{"positional argument", []string{"example.com"}},
		{"missing config file", []string{"-t", "example.com", "-c", "/nonexistent/opensight.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, exitConfig, code)
			assert.Contains(t, stderr, "Error")
		})
	}
}

func TestRun_DomainReport(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "report.json")
	metricsFile := filepath.Join(dir, "opensight.prom")

	code, stdout, stderr := runCLI(t,
		"-t", "shop.example.com",
		"-m", "emailpatterns, social,shodan,social",
		"-o", out,
		"--metrics-file", metricsFile,
		"--no-banner",
		"--log-level", "error",
	)
	require.Equal(t, exitOK, code, stderr)

	report := readReport(t, out)
	assert.Equal(t, "shop.example.com", report["target"])
	assert.Equal(t, "domain", report["mode"])

	collected := report["collected"].(map[string]any)
	assert.Len(t, collected, 2)
	assert.Contains(t, collected, "email_patterns")
	assert.Contains(t, collected, "social_guesses")
	assert.Len(t, report["outcomes"], 4)

	assert.Contains(t, stdout, "[*] Target: shop.example.com")
	assert.Contains(t, stdout, "shodan is not a known module")
	assert.Contains(t, stdout, "Results saved to "+out)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `opensight_module_runs_total{module="shodan",status="unknown"} 1`)
}

func TestRun_PersonReportDefaultPath(t *testing.T) {
	dir := t.TempDir()

	code, stdout, stderr := runCLI(t,
		"-t", "John Doe",
		"--person",
		"-m", "emailpatterns,social",
		"--output-dir", dir,
		"-q",
	)
	require.Equal(t, exitOK, code, stderr)
	assert.Empty(t, stdout, "quiet mode prints nothing")

	report := readReport(t, filepath.Join(dir, "John_Doe_osint.json"))
	assert.Equal(t, "person", report["mode"])

	collected := report["collected"].(map[string]any)
	assert.Equal(t, []string{"social"}, keys(collected))
	social := collected["social"].(map[string]any)
	assert.Equal(t, "johndoe", social["handle"])
}

func TestRun_YAMLFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "opensight.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
format: yaml
output_dir: `+dir+`
modules: [emailpatterns]
email:
  roles: [security, abuse]
ui:
  quiet: true
`), 0o644))

	code, _, stderr := runCLI(t, "-t", "example.com", "-c", cfgPath)
	require.Equal(t, exitOK, code, stderr)

	data, err := os.ReadFile(filepath.Join(dir, "example.com_osint.yaml"))
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, yaml.Unmarshal(data, &report))
	collected := report["collected"].(map[string]any)
	assert.Equal(t, []any{"security@example.com", "abuse@example.com"}, collected["email_patterns"])
}

func TestRun_RuntimeErrors(t *testing.T) {
	t.Run("session setup failure", func(t *testing.T) {
		code, _, stderr := runCLI(t, "-t", "example.com", "-m", "social", "--proxy", "not a proxy",
			"--output-dir", t.TempDir(), "-q", "--log-level", "error")
		assert.Equal(t, exitRuntime, code)
		assert.Contains(t, stderr, "session")
	})

	t.Run("report write failure", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0o644))

		code, _, _ := runCLI(t, "-t", "example.com", "-m", "social", "-o", filepath.Join(blocker, "r.json"),
			"-q", "--log-level", "error")
		assert.Equal(t, exitRuntime, code)
	})
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
