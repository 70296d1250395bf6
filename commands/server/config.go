package server

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/capcall/errors"
)

// configFile is read from the config directory of the home directory.
const configFile = "capcall.toml"

// Config holds the node settings. Values read from the configuration file
// can be overwritten with command line flags.
type Config struct {
	// Bind is the address the ABCI server listens on.
	Bind string `toml:"bind"`
	// Debug returns full error information in ABCI responses.
	Debug bool `toml:"debug"`
	// LogLevel is one of debug, info, error or none.
	LogLevel string `toml:"log_level"`
	// Metrics is the address of the prometheus endpoint. Empty disables
	// metrics.
	Metrics string `toml:"metrics"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Bind:     "tcp://localhost:26658",
		LogLevel: "info",
	}
}

// LoadConfig reads the configuration file at given path on top of the
// defaults. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrapf(errors.ErrInput, "config %s: %s", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.Wrapf(errors.ErrInput, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// WriteConfig stores given configuration as a TOML file.
func WriteConfig(path string, cfg Config) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}
