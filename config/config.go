// Package config merges the optional yaml config file with defaults.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ErrMissing is returned by Validate when a required option has no value.
var ErrMissing = errors.New("missing required option")

type Config struct {
	// Inverter name, prefix of every report line
	Name string `mapstructure:"name"`
	// Serial port the inverter is connected to
	Device string `mapstructure:"device"`
	// Inverter serial number, used to log in
	Serial  string `mapstructure:"serial"`
	Verbose bool   `mapstructure:"verbose"`

	SerialPort SerialPortConfig `mapstructure:"serial_port"`
	Session    SessionConfig    `mapstructure:"session"`
	Report     ReportConfig     `mapstructure:"report"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	PVOutput   PVOutputConfig   `mapstructure:"pvoutput"`
	MQTT       MQTTConfig       `mapstructure:"mqtt"`
	Log        LogConfig        `mapstructure:"log"`
}

type SerialPortConfig struct {
	Baud        int           `mapstructure:"baud"`
	Driver      string        `mapstructure:"driver"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
}

type SessionConfig struct {
	Settle time.Duration `mapstructure:"settle"`
}

type ReportConfig struct {
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	File string `mapstructure:"file"`
}

type PVOutputConfig struct {
	URL      string `mapstructure:"url"`
	APIKey   string `mapstructure:"api_key"`
	SystemID string `mapstructure:"system_id"`
}

type MQTTConfig struct {
	Broker   string `mapstructure:"broker"`
	Topic    string `mapstructure:"topic"`
	ClientID string `mapstructure:"client_id"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var defaults = map[string]interface{}{
	"serial_port.baud":         9600,
	"serial_port.driver":       "tarm",
	"serial_port.read_timeout": "500ms",
	"session.settle":           "100ms",
	"report.format":            "lines",
	"pvoutput.url":             "https://pvoutput.org/service/r2/addstatus.jsp",
	"mqtt.client_id":           "samilstatus",
	"log.level":                "info",
	"log.format":               "text",
}

// Load reads the yaml file at path on top of the defaults. An empty path
// loads only the defaults and the PVOutput environment variables
// (pvapikey, pvsystemid).
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	if err := v.BindEnv("pvoutput.api_key", "pvapikey"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("pvoutput.system_id", "pvsystemid"); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &c, nil
}

// MissingError names the option Validate found empty.
type MissingError struct {
	Option string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing %s option", e.Option)
}

func (e *MissingError) Unwrap() error {
	return ErrMissing
}

// Validate checks the required options in the order -n, -d, -s.
func (c *Config) Validate() error {
	switch {
	case c.Name == "":
		return &MissingError{Option: "-n"}
	case c.Device == "":
		return &MissingError{Option: "-d"}
	case c.Serial == "":
		return &MissingError{Option: "-s"}
	}
	return nil
}
