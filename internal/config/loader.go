package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/bcomnes/dbprocessor"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "DBPROCESSOR_"

// configFiles are looked for in the working directory when no file is given.
var configFiles = []string{"dbprocessor.yaml", "dbprocessor.yml"}

// findConfigFile finds the config file to use.
// Priority: explicit path > dbprocessor.yaml > dbprocessor.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads configuration from defaults, a YAML file, environment
// variables and flags.
// Precedence (highest to lowest): flags > DBPROCESSOR_ env vars >
// DATABASE_URL > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"dialect":            DefaultDialect,
		"host":               DefaultHost,
		"connection_timeout": DefaultConnectionTimeout.String(),
		"command_timeout":    "0s",
		"script_mode":        DefaultScriptMode,
		"verbose":            false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Load the config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Load environment variables. DATABASE_URL fills conn unless a
	// prefixed variable or flag overrides it.
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		if err := k.Set("conn", dsn); err != nil {
			return nil, fmt.Errorf("failed to load DATABASE_URL: %w", err)
		}
	}
	// Transform: DBPROCESSOR_CONNECTION_TIMEOUT -> connection_timeout
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used

	if d, err := dbprocessor.LookupDialect(cfg.Dialect); err == nil {
		cfg.Dialect = d.Name()
	}
	if cfg.Newline != "" {
		cfg.Newline = strings.ToUpper(cfg.Newline)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
