// internal/platform/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	json "github.com/goccy/go-json"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides (OPENSIGHT_NETWORK_TIMEOUT, ...).
const EnvPrefix = "OPENSIGHT"

// DefaultModules is the module list used when none is given.
var DefaultModules = []string{"whois", "dns", "crtsh", "homepage", "github", "emailpatterns"}

type Config struct {
	// App
	Target        string        `mapstructure:"target" validate:"required"`
	Modules       []string      `mapstructure:"modules" validate:"required,min=1,dive,required"`
	Person        bool          `mapstructure:"person"`
	ModuleTimeout time.Duration `mapstructure:"module_timeout" validate:"gte=0"`
	PrintVersion  bool          `mapstructure:"version"`

	// IO
	Out       string `mapstructure:"out"`
	Format    string `mapstructure:"format" validate:"oneof=json yaml"`
	OutputDir string `mapstructure:"output_dir" validate:"required"`

	Network Network `mapstructure:"network"`
	DNS     DNS     `mapstructure:"dns"`
	Whois   Whois   `mapstructure:"whois"`
	CrtSh   CrtSh   `mapstructure:"crtsh"`
	GitHub  GitHub  `mapstructure:"github"`
	HTTP    HTTP    `mapstructure:"http"`
	Email   Email   `mapstructure:"email"`
	Log     Log     `mapstructure:"log"`
	Metrics Metrics `mapstructure:"metrics"`
	UI      UI      `mapstructure:"ui"`
}

type Network struct {
	UserAgent          string        `mapstructure:"user_agent" validate:"required"`
	Timeout            time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxRetries         int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryBackoff       time.Duration `mapstructure:"retry_backoff" validate:"gte=0"`
	ProxyURL           string        `mapstructure:"proxy_url"`
	MinRequestInterval time.Duration `mapstructure:"min_request_interval" validate:"gte=0"`
	EnforceRateLimit   bool          `mapstructure:"enforce_rate_limit"`
}

type DNS struct {
	Resolver string        `mapstructure:"resolver" validate:"required,hostname_port"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type Whois struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RDAPURL string        `mapstructure:"rdap_url" validate:"required,contains=%s"`
}

type CrtSh struct {
	BaseURL    string `mapstructure:"base_url" validate:"required,url"`
	MaxResults int    `mapstructure:"max_results" validate:"gte=0"`
}

type GitHub struct {
	APIURL     string `mapstructure:"api_url" validate:"required,url"`
	Token      string `mapstructure:"token"`
	MaxResults int    `mapstructure:"max_results" validate:"gt=0,lte=100"`
}

type HTTP struct {
	MaxBodyBytes int64 `mapstructure:"max_body_bytes" validate:"gt=0"`
}

type Email struct {
	Roles []string `mapstructure:"roles" validate:"dive,required"`
}

type Log struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Dir   string `mapstructure:"dir"`
}

type Metrics struct {
	File string `mapstructure:"file"`
}

type UI struct {
	Banner bool `mapstructure:"banner"`
	Quiet  bool `mapstructure:"quiet"`
}

// DefaultConfig retorna una configuración por defecto.
func DefaultConfig() Config {
	return Config{
		Modules:       append([]string(nil), DefaultModules...),
		ModuleTimeout: 30 * time.Second,

		Format:    "json",
		OutputDir: "results",

		Network: Network{
			UserAgent:          "OpenSight/1.0 (+passive osint collector)",
			Timeout:            15 * time.Second,
			MaxRetries:         2,
			RetryBackoff:       500 * time.Millisecond,
			MinRequestInterval: time.Second,
			EnforceRateLimit:   false,
		},
		DNS: DNS{
			Resolver: "1.1.1.1:53",
			Timeout:  5 * time.Second,
		},
		Whois: Whois{
			Timeout: 10 * time.Second,
			RDAPURL: "https://rdap.org/domain/%s",
		},
		CrtSh: CrtSh{
			BaseURL:    "https://crt.sh",
			MaxResults: 500,
		},
		GitHub: GitHub{
			APIURL:     "https://api.github.com",
			MaxResults: 10,
		},
		HTTP: HTTP{
			MaxBodyBytes: 1 << 20,
		},
		Email: Email{
			Roles: []string{"admin", "security", "info", "contact", "support", "abuse", "postmaster", "webmaster"},
		},
		Log: Log{
			Level: "info",
		},
		UI: UI{
			Banner: true,
		},
	}
}

// Load resolves the configuration from defaults, the YAML file named by
// --config, OPENSIGHT_* environment variables and the parsed flags, in
// increasing order of precedence. fs may be nil.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if fs != nil {
		if path, _ := fs.GetString(FlagConfig); path != "" {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config file %s: %w", path, err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if fs != nil && fs.Changed(FlagNoBanner) {
		if off, _ := fs.GetBool(FlagNoBanner); off {
			cfg.UI.Banner = false
		}
	}

	normalize(&cfg)
	return cfg, nil
}

// Validate checks the struct tags. It is separate from Load so that
// --version works without a target.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("target", d.Target)
	v.SetDefault("modules", d.Modules)
	v.SetDefault("person", d.Person)
	v.SetDefault("module_timeout", d.ModuleTimeout)
	v.SetDefault("version", false)
	v.SetDefault("out", d.Out)
	v.SetDefault("format", d.Format)
	v.SetDefault("output_dir", d.OutputDir)

	v.SetDefault("network.user_agent", d.Network.UserAgent)
	v.SetDefault("network.timeout", d.Network.Timeout)
	v.SetDefault("network.max_retries", d.Network.MaxRetries)
	v.SetDefault("network.retry_backoff", d.Network.RetryBackoff)
	v.SetDefault("network.proxy_url", d.Network.ProxyURL)
	v.SetDefault("network.min_request_interval", d.Network.MinRequestInterval)
	v.SetDefault("network.enforce_rate_limit", d.Network.EnforceRateLimit)

	v.SetDefault("dns.resolver", d.DNS.Resolver)
	v.SetDefault("dns.timeout", d.DNS.Timeout)
	v.SetDefault("whois.timeout", d.Whois.Timeout)
	v.SetDefault("whois.rdap_url", d.Whois.RDAPURL)
	v.SetDefault("crtsh.base_url", d.CrtSh.BaseURL)
	v.SetDefault("crtsh.max_results", d.CrtSh.MaxResults)
	v.SetDefault("github.api_url", d.GitHub.APIURL)
	v.SetDefault("github.token", d.GitHub.Token)
	v.SetDefault("github.max_results", d.GitHub.MaxResults)
	v.SetDefault("http.max_body_bytes", d.HTTP.MaxBodyBytes)
	v.SetDefault("email.roles", d.Email.Roles)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.dir", d.Log.Dir)
	v.SetDefault("metrics.file", d.Metrics.File)
	v.SetDefault("ui.banner", d.UI.Banner)
	v.SetDefault("ui.quiet", d.UI.Quiet)
}

func normalize(c *Config) {
	c.Target = strings.TrimSpace(c.Target)
	c.Modules = ParseModules(c.Modules)
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Network.ProxyURL = strings.TrimSpace(c.Network.ProxyURL)
	c.Email.Roles = ParseModules(c.Email.Roles)
	if c.OutputDir == "" {
		c.OutputDir = "results"
	}
	if c.ModuleTimeout < 0 {
		c.ModuleTimeout = 0
	}
	if c.UI.Quiet {
		c.UI.Banner = false
	}
}

// ParseModules splits every element on commas, trims whitespace and drops
// empty names. Order and repeats are preserved.
func ParseModules(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		for _, name := range strings.Split(item, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

// ToJSON serializa la configuración con el token de GitHub enmascarado.
func (c Config) ToJSON() (string, error) {
	redacted := c
	if redacted.GitHub.Token != "" {
		redacted.GitHub.Token = "***"
	}
	b, err := json.MarshalIndent(redacted, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
