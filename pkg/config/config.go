// Package config loads this module's configuration from defaults, an
// optional TOML file, environment variables, and command-line flags,
// layered in that priority order exactly as the teacher's koanf/pflag
// stack does.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds every flag and layered setting this module recognizes,
// per spec.md §6's CLI table plus the ambient additions in SPEC_FULL.md.
type Config struct {
	Workspace    string        `koanf:"workspace"`
	BazelPath    string        `koanf:"bazel_path"`
	Unused       bool          `koanf:"unused"`
	Time         bool          `koanf:"time"`
	Output       string        `koanf:"output"`
	Format       string        `koanf:"format"`
	Verbose      int           `koanf:"verbose"`
	IncludeTests bool          `koanf:"include-tests"`
	Jobs         int           `koanf:"jobs"`
	BazelTimeout time.Duration `koanf:"bazel_timeout"`
	ConfigFile   string        `koanf:"config"`
	Watch        bool          `koanf:"watch"`
}

const defaultConfigFile = "bazeldeps.toml"
const envPrefix = "BAZELDEPS_"

// Load layers defaults, then configFile (or the default bazeldeps.toml
// if configFile is empty and the default exists), then BAZELDEPS_-
// prefixed environment variables, then flags. Priority: flags > env >
// file > defaults.
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"workspace":     ".",
		"bazel_path":    "bazel",
		"unused":        false,
		"time":          false,
		"output":        "",
		"format":        "console",
		"verbose":       0,
		"include-tests": false,
		"jobs":          0,
		"bazel_timeout": "30s",
		"config":        "",
		"watch":         false,
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("config: failed to load defaults: %w", err)
	}

	configFile := defaultConfigFile
	if f != nil {
		if override, _ := f.GetString("config"); override != "" {
			configFile = override
		}
	}
	_ = k.Load(file.Provider(configFile), toml.Parser())

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("config: failed to load env vars: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("config: failed to load flags: %w", err)
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %w", err)
	}
	return &cfg, nil
}

type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("config: ReadBytes not implemented for map provider")
}
