package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type RenderConfig struct {
	Private      bool `mapstructure:"private"`
	AutoImpls    bool `mapstructure:"auto_impls"`
	BlanketImpls bool `mapstructure:"blanket_impls"`
	NoHeader     bool `mapstructure:"no_header"`
}

type SearchConfig struct {
	// Domains holds the default search domains, either a comma-separated
	// string or a list in the config file.
	Domains       []string `mapstructure:"domains"`
	CaseSensitive bool     `mapstructure:"case_sensitive"`
}

type FetchConfig struct {
	Offline        bool `mapstructure:"offline"`
	TimeoutSeconds int  `mapstructure:"timeout_seconds"`
}

type Config struct {
	Render RenderConfig `mapstructure:"render"`
	Search SearchConfig `mapstructure:"search"`
	Fetch  FetchConfig  `mapstructure:"fetch"`
}

// cacheBase returns the base cache directory for crateskel.
// Checks XDG_CACHE_HOME, then ~/.cache, then /tmp/crateskel as fallback.
func cacheBase() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "crateskel")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "crateskel")
	}
	return filepath.Join(os.TempDir(), "crateskel")
}

// JSONCacheDir returns the path to the rustdoc JSON cache directory.
func JSONCacheDir() string {
	return filepath.Join(cacheBase(), "json")
}

// CacheDir returns the base cache directory, for `cache clear`.
func CacheDir() string {
	return cacheBase()
}

func InitializeViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.AddConfigPath(".")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		viper.AddConfigPath(filepath.Join(xdg, "crateskel"))
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "crateskel"))
	}

	viper.SetDefault("fetch.timeout_seconds", 60)

	viper.SetEnvPrefix("CRATESKEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// stringToSliceHookFunc lets `domains = "name,doc"` decode into a string
// slice, matching how the env override arrives.
func stringToSliceHookFunc() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf([]string{}) {
			return data, nil
		}
		if f.Kind() == reflect.String {
			s := strings.TrimSpace(data.(string))
			if s == "" {
				return []string{}, nil
			}
			parts := strings.Split(s, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return parts, nil
		}
		return data, nil
	}
}

func Load() (*Config, error) {
	if err := InitializeViper(); err != nil {
		return nil, err
	}

	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: stringToSliceHookFunc(),
		Result:     &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
