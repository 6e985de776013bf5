// internal/platform/config/flags.go
package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flag names shared by the CLI and Load.
const (
	FlagConfig   = "config"
	FlagNoBanner = "no-banner"
)

// flagKeys maps each CLI flag to its configuration key.
var flagKeys = map[string]string{
	"target":             "target",
	"modules":            "modules",
	"person":             "person",
	"out":                "out",
	"format":             "format",
	"output-dir":         "output_dir",
	"module-timeout":     "module_timeout",
	"proxy":              "network.proxy_url",
	"timeout":            "network.timeout",
	"enforce-rate-limit": "network.enforce_rate_limit",
	"min-interval":       "network.min_request_interval",
	"resolver":           "dns.resolver",
	"github-token":       "github.token",
	"log-level":          "log.level",
	"log-dir":            "log.dir",
	"metrics-file":       "metrics.file",
	"quiet":              "ui.quiet",
	"version":            "version",
}

// RegisterFlags defines every CLI flag on fs with defaults from DefaultConfig.
func RegisterFlags(fs *pflag.FlagSet) {
	d := DefaultConfig()

	fs.StringP("target", "t", "", "Target domain or person name")
	fs.StringSliceP("modules", "m", d.Modules, "Comma-separated modules to run")
	fs.Bool("person", false, "Treat the target as a person instead of a domain")
	fs.StringP("out", "o", "", "Output file (default <output-dir>/<target>_osint.<format>)")
	fs.StringP(FlagConfig, "c", "", "YAML configuration file")
	fs.String("format", d.Format, "Report format: json or yaml")
	fs.String("output-dir", d.OutputDir, "Directory for the default output file")
	fs.Duration("module-timeout", d.ModuleTimeout, "Maximum time a single module may run (0 disables)")

	fs.String("proxy", "", "HTTP(S) proxy URL for the shared session")
	fs.Duration("timeout", d.Network.Timeout, "Per-request HTTP timeout")
	fs.Bool("enforce-rate-limit", d.Network.EnforceRateLimit, "Space outgoing HTTP requests by --min-interval")
	fs.Duration("min-interval", d.Network.MinRequestInterval, "Minimum interval between HTTP requests")
	fs.String("resolver", d.DNS.Resolver, "DNS resolver address (host:port)")
	fs.String("github-token", "", "GitHub API token (raises rate limits)")

	fs.String("log-level", d.Log.Level, "Log level: debug, info, warn, error")
	fs.String("log-dir", "", "Directory for rotated JSON log files")
	fs.String("metrics-file", "", "Write Prometheus text metrics to this file")
	fs.Bool(FlagNoBanner, false, "Do not print the startup banner")
	fs.BoolP("quiet", "q", false, "Suppress progress output")
	fs.BoolP("version", "v", false, "Print version and exit")
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}
