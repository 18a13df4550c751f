// Package config holds the settings of the orand command.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/orand-network/ecvrf/internal/storage"
)

// Keys read from viper. Each is also a command line flag and, upper-cased
// with an ORAND_ prefix, an environment variable.
const (
	KeyDriver  = "driver"
	KeyDSN     = "dsn"
	KeyNetwork = "network"
)

// Defaults.
const (
	DefaultDriver = storage.DriverSQLite
	DefaultDSN    = "orand.db"
)

// Config is the resolved configuration.
type Config struct {
	Driver  string
	DSN     string
	Network int64
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDriver, DefaultDriver)
	v.SetDefault(KeyDSN, DefaultDSN)
	v.SetDefault(KeyNetwork, 0)
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	c := &Config{
		Driver:  v.GetString(KeyDriver),
		DSN:     v.GetString(KeyDSN),
		Network: v.GetInt64(KeyNetwork),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that the configuration can be used to open a store.
func (c *Config) Validate() error {
	switch c.Driver {
	case storage.DriverSQLite, storage.DriverMySQL:
	default:
		return fmt.Errorf("config: unsupported driver %q", c.Driver)
	}
	if c.DSN == "" {
		return errors.New("config: empty dsn")
	}
	if c.Network < 0 {
		return fmt.Errorf("config: negative network %d", c.Network)
	}
	return nil
}
