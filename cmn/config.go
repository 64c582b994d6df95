// Package cmn holds configuration shared by the plasmasyncd server and its
// client tooling.
/*
 * Copyright (c) 2020-2026, plasmasync Authors.
 */
package cmn

import (
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config is the server's full runtime configuration: the CLI surface spec
// §6 describes (--port, --max-connections, --plasma-socket,
// --plasma-timeout), loadable from an optional JSON file and overridable
// by flags of the same name.
type Config struct {
	Port           int    `json:"port"`
	AdminPort      int    `json:"admin_port"`
	MaxConnections int64  `json:"max_connections"`
	PlasmaSocket   string `json:"plasma_socket"`
	PlasmaTimeout  int64  `json:"plasma_timeout_ms"`
	PlasmaRetries  int    `json:"plasma_connect_retries"`
}

// Default returns the configuration applied when no file and no flags
// override a field.
func Default() *Config {
	return &Config{
		Port:           9000,
		AdminPort:      9090,
		MaxConnections: 256,
		PlasmaSocket:   "/tmp/plasma",
		PlasmaTimeout:  5000,
		PlasmaRetries:  4,
	}
}

// LoadFile merges a JSON configuration file on top of c's current values.
// A missing file is not an error; the caller is expected to have already
// populated c with Default().
func (c *Config) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to read configuration file %q", path)
	}
	if err := json.Unmarshal(b, c); err != nil {
		return errors.Wrapf(err, "failed to parse configuration file %q", path)
	}
	return nil
}

// Validate checks the fields the rest of the server assumes are sane.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Errorf("invalid port %d", c.Port)
	}
	if c.MaxConnections <= 0 {
		return errors.Errorf("invalid max-connections %d", c.MaxConnections)
	}
	if c.PlasmaSocket == "" {
		return errors.New("plasma-socket must not be empty")
	}
	return nil
}
