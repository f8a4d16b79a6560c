package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names the variable holding an explicit YAML config path.
const ConfigPathEnvVar = "CONFIG_PATH"

var defaultConfigPaths = []string{"config.yaml", "config.yml"}

// LoadEnvFiles loads .env and .env.local without overriding variables
// already present in the process environment.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load builds the configuration: defaults, then the YAML file if any, then
// environment variables.
func Load() (*Config, error) {
	LoadEnvFiles()

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range defaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma-separated env values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"app_env": "env",

	"app_addr":         "server.addr",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"idle_timeout":     "server.idle_timeout",
	"cors_origins":     "server.cors_origins",
	"enable_hsts":      "server.enable_hsts",
	"max_body_bytes":   "server.max_body_bytes",
	"rate_limit_rps":   "server.rate_limit_rps",
	"rate_limit_burst": "server.rate_limit_burst",

	"store_type":                "store.type",
	"db_dsn":                    "store.dsn",
	"badger_path":               "store.badger_path",
	"store_timeout":             "store.timeout",
	"breaker_enabled":           "store.breaker.enabled",
	"breaker_max_requests":      "store.breaker.max_requests",
	"breaker_interval":          "store.breaker.interval",
	"breaker_timeout":           "store.breaker.timeout",
	"breaker_failure_threshold": "store.breaker.failure_threshold",

	"jwt_secret":      "auth.jwt_secret",
	"token_ttl":       "auth.token_ttl",
	"session_cookie":  "auth.cookie_name",
	"cookie_secure":   "auth.cookie_secure",
	"resolve_timeout": "auth.resolve_timeout",
	"users_store":     "auth.users_store",
	"admin_email":     "auth.admin_email",
	"admin_password":  "auth.admin_password",
	"login_rps":       "auth.login_rps",
	"login_burst":     "auth.login_burst",

	"log_level":  "logging.level",
	"log_format": "logging.format",

	"site_name":    "site.name",
	"telegram_url": "site.telegram_url",
}

// envTransformFunc maps known variables to config paths. Unknown variables
// return "" and are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
