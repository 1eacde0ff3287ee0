// Package config loads sticky session configuration: lexicon and letter
// distribution defaults, data directory paths, and thread counts, layered
// from defaults, a YAML profile file, and environment variables via
// viper (ported from the teacher's config.Config, consulted by
// turnplayer.GameOptions.SetDefaults and analyzer.Config).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/crosswordlabs/wordcraft/movegen"
)

// Viper keys for every setting this package resolves.
const (
	ConfigDefaultLexicon           = "default-lexicon"
	ConfigDefaultLetterDistribution = "default-letter-distribution"
	ConfigDataPath                 = "data-path"
	ConfigLexiconPath              = "lexicon-path"
	ConfigDefaultThreads           = "default-threads"
	ConfigDefaultBoardLayout       = "default-board-layout"
	ConfigTTLCacheSize             = "ttl-cache-size"
)

// Config wraps a viper.Viper instance with typed accessors for the keys
// above. setoptions console commands mutate the live instance directly
// via Set.
type Config struct {
	v     *viper.Viper
	Debug bool
}

// Load builds a Config from built-in defaults, then (if present) a YAML
// profile named config.yaml in ~/.wordcraft or the working directory, then
// WORDCRAFT_-prefixed environment variables, in increasing priority.
// args is reserved for future CLI-flag binding; it is not consulted yet.
func (c *Config) Load(args []string) error {
	v := viper.New()
	v.SetEnvPrefix("wordcraft")
	v.AutomaticEnv()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	defaultDataPath := filepath.Join(home, ".wordcraft")

	v.SetDefault(ConfigDefaultLexicon, "NWL20")
	v.SetDefault(ConfigDefaultLetterDistribution, "english")
	v.SetDefault(ConfigDataPath, defaultDataPath)
	v.SetDefault(ConfigLexiconPath, filepath.Join(defaultDataPath, "lexica"))
	v.SetDefault(ConfigDefaultThreads, 4)
	v.SetDefault(ConfigDefaultBoardLayout, "CrosswordGame")
	v.SetDefault(ConfigTTLCacheSize, 100000)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(home, ".wordcraft"))
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("reading config file: %w", err)
		}
		log.Debug().Msg("no config profile found, using defaults and environment")
	}

	c.v = v
	return nil
}

// GetString returns the string value for key.
func (c *Config) GetString(key string) string { return c.v.GetString(key) }

// GetInt returns the int value for key.
func (c *Config) GetInt(key string) int { return c.v.GetInt(key) }

// Set overrides key for the remainder of the session, for setoptions
// console commands to mutate live.
func (c *Config) Set(key string, value interface{}) { c.v.Set(key, value) }

// AllSettings returns every resolved key/value pair, for an `info`
// console line that echoes the active configuration.
func (c *Config) AllSettings() map[string]interface{} { return c.v.AllSettings() }

// pegProfile is the on-disk shape of a pre-endgame adjustment profile: a
// named table of PegTableLen values, e.g. the "Quackle" preset.
type pegProfile struct {
	Values [movegen.PegTableLen]float64 `yaml:"values"`
}

// LoadPegProfile reads a pre-endgame adjustment table from a YAML file
// (spec §4.E: "a preset 'Quackle' profile available"), grounded on the
// teacher's own yaml.v3 use for solver config in
// preendgame/peg_generic.go. A missing or malformed file is the caller's
// to handle; this package doesn't silently fall back to
// movegen.ZeroAdjustmentValues.
func LoadPegProfile(path string) ([movegen.PegTableLen]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return movegen.ZeroAdjustmentValues, fmt.Errorf("reading peg profile %s: %w", path, err)
	}
	var p pegProfile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return movegen.ZeroAdjustmentValues, fmt.Errorf("parsing peg profile %s: %w", path, err)
	}
	return p.Values, nil
}

// FetchRemoteProfile obtains a config profile by calling fetch and writes
// it to dest, retrying a failing fetch up to 3 attempts in all. This is the one path in this
// module that has a real use for a generic retry helper: every other
// component either runs purely in memory or owns its own domain-specific
// retry policy.
func FetchRemoteProfile(fetch func() ([]byte, error), dest string) error {
	var body []byte
	err := retry.Do(
		func() error {
			b, err := fetch()
			if err != nil {
				return err
			}
			body = b
			return nil
		},
		retry.Attempts(3),
	)
	if err != nil {
		return fmt.Errorf("fetching remote config profile: %w", err)
	}
	return os.WriteFile(dest, body, 0o644)
}
