package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/domino14/banco/equity"
	"github.com/domino14/banco/shoe"
)

const (
	ConfigDebug       = "debug"
	ConfigDecks       = "decks"
	ConfigPayoutsPath = "payouts-path"
	ConfigLabels      = "labels"
	ConfigCacheSize   = "cache-size"
	ConfigThreads     = "threads"
	ConfigNatsURL     = "nats-url"
	ConfigNatsSubject = "nats-subject"
	ConfigHTTPAddress = "http-address"
)

const (
	envPrefix      = "BANCO"
	configFileName = "banco"
)

type Config struct {
	viper.Viper
	// positional arguments left after the flags
	args []string
}

func DefaultConfig() *Config {
	c := &Config{Viper: *viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigDecks, shoe.DefaultDecks)
	c.SetDefault(ConfigPayoutsPath, "")
	c.SetDefault(ConfigLabels, "en")
	c.SetDefault(ConfigCacheSize, 256)
	c.SetDefault(ConfigThreads, 0)
	c.SetDefault(ConfigNatsURL, "nats://localhost:4222")
	c.SetDefault(ConfigNatsSubject, "banco.compute")
	c.SetDefault(ConfigHTTPAddress, ":8080")
}

// Load reads settings from, in increasing precedence, the defaults, a
// banco.yaml file in the working directory or $HOME/.banco, BANCO_ env vars
// and command-line flags.
func (c *Config) Load(args []string) error {
	c.Viper = *viper.New()
	c.setDefaults()

	fs := pflag.NewFlagSet("banco", pflag.ContinueOnError)
	// flags end at the first argument, so "payout tie0 -5" stays intact
	fs.SetInterspersed(false)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigDecks, shoe.DefaultDecks, "number of decks in a new shoe")
	fs.String(ConfigPayoutsPath, "", "YAML file with the payout schedule")
	fs.String(ConfigLabels, "en", "wager label language: en or zh")
	fs.Int(ConfigCacheSize, 256, "number of results to cache; 0 disables the cache")
	fs.Int(ConfigThreads, 0, "worker goroutines for removal effects; 0 picks from the CPU count")
	fs.String(ConfigNatsURL, "nats://localhost:4222", "NATS server URL")
	fs.String(ConfigNatsSubject, "banco.compute", "NATS subject the compute service listens on")
	fs.String(ConfigHTTPAddress, ":8080", "HTTP API listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix(envPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	c.SetConfigName(configFileName)
	c.SetConfigType("yaml")
	c.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		c.AddConfigPath(filepath.Join(home, ".banco"))
	}
	if err := c.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		log.Debug().Msg("no config file found; using defaults")
	}
	return nil
}

// Args returns the arguments that followed the flags.
func (c *Config) Args() []string {
	return c.args
}

// Write persists the current settings. It writes to the file that was read,
// or to ./banco.yaml if there was none.
func (c *Config) Write() error {
	if c.ConfigFileUsed() != "" {
		return c.WriteConfig()
	}
	return c.WriteConfigAs(configFileName + ".yaml")
}

// SanitizedSettings is every setting, for logging at startup.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.AllSettings()
	if u, ok := settings[ConfigNatsURL].(string); ok && strings.Contains(u, "@") {
		settings[ConfigNatsURL] = "<redacted>"
	}
	return settings
}

// Schedule is the payout schedule named by payouts-path, or the default one.
func (c *Config) Schedule() (equity.Schedule, error) {
	path := c.GetString(ConfigPayoutsPath)
	if path == "" {
		return equity.DefaultSchedule(), nil
	}
	return equity.LoadSchedule(path)
}

func (c *Config) Labels() (equity.Labels, error) {
	return equity.LabelsFor(c.GetString(ConfigLabels))
}
