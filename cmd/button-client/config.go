// =============================================================================
// config.go - Client Configuration
// =============================================================================
//
// Configuration comes from three layers, lowest precedence first:
//
//  1. Built-in defaults (loopback host, port 9992, info logging)
//  2. An optional YAML file named by --config or BUTTON_CLIENT_CONFIG
//  3. Command-line flags that were explicitly set
//
// There is no automatic discovery of config files.
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stesel/hardware-tcp/buttonprotocol"
	"github.com/stesel/hardware-tcp/internal/logging"
)

// configEnvVar names the environment variable holding a config file path.
const configEnvVar = "BUTTON_CLIENT_CONFIG"

// Color modes for rendered output.
const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

// clientConfig is the resolved configuration of the button client.
type clientConfig struct {
	// Host is the sensor endpoint host. Defaults to the loopback address.
	Host string `yaml:"host"`

	// Ports lists sensor endpoints to read. Each port gets its own session.
	Ports []int `yaml:"ports"`

	// LogLevel is the diagnostics level: debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// Raw prints every received line verbatim instead of decoded events.
	Raw bool `yaml:"raw"`

	// Color is auto, always or never.
	Color string `yaml:"color"`
}

func defaultClientConfig() clientConfig {
	return clientConfig{
		Host:     buttonprotocol.DefaultHost,
		Ports:    []int{buttonprotocol.DefaultPort},
		LogLevel: "info",
		Color:    colorAuto,
	}
}

// loadConfigFile overlays the YAML file at path onto cfg. Keys missing from
// the file keep their current values; unknown keys are an error.
func loadConfigFile(path string, cfg *clientConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// validate checks the resolved configuration.
func (c clientConfig) validate() error {
	if len(c.Ports) == 0 {
		return errors.New("no ports configured")
	}

	seen := make(map[int]bool, len(c.Ports))
	for _, sc := range c.sessionConfigs() {
		if err := sc.Validate(); err != nil {
			return fmt.Errorf("endpoint %s: %w", sc.Address(), err)
		}
		if seen[sc.Port] {
			return fmt.Errorf("port %d listed more than once", sc.Port)
		}
		seen[sc.Port] = true
	}

	if err := logging.ValidateLevel(c.LogLevel); err != nil {
		return err
	}

	switch c.Color {
	case colorAuto, colorAlways, colorNever:
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always or never)", c.Color)
	}
	return nil
}

// sessionConfigs returns one endpoint config per port.
func (c clientConfig) sessionConfigs() []buttonprotocol.Config {
	configs := make([]buttonprotocol.Config, 0, len(c.Ports))
	for _, port := range c.Ports {
		configs = append(configs, buttonprotocol.Config{Host: c.Host, Port: port})
	}
	return configs
}
