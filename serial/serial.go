/*
Package serial opens the serial line a Samil inverter is connected to.

The port is set to 8 data bits, no parity, 1 stop bit and no flow control.
Two drivers are available: "tarm" (github.com/tarm/serial, the default) and
"bugst" (go.bug.st/serial). Both return an io.ReadWriteCloser whose reads
give up after ReadTimeout instead of blocking forever.
*/
package serial

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DriverTarm  = "tarm"
	DriverBugst = "bugst"

	DefaultBaud        = 9600
	DefaultReadTimeout = 500 * time.Millisecond
)

var (
	// ErrOpen wraps any failure to open or configure the device.
	ErrOpen          = errors.New("unable to open serial port")
	ErrUnknownDriver = errors.New("unknown serial driver")
)

type Config struct {
	// Serial port device name
	Name string

	// Line speed, DefaultBaud when zero
	Baud int

	// Upper bound on a single read, DefaultReadTimeout when zero
	ReadTimeout time.Duration

	// DriverTarm or DriverBugst, DriverTarm when empty
	Driver string
}

type opener func(c *Config) (io.ReadWriteCloser, error)

var drivers = map[string]opener{
	DriverTarm:  openTarm,
	DriverBugst: openBugst,
}

// OpenPort opens and configures the device named in c. Zero values in c are
// replaced with defaults.
func OpenPort(c *Config, log *logrus.Logger) (io.ReadWriteCloser, error) {
	cfg := *c
	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaud
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverTarm
	}

	open, ok := drivers[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownDriver, cfg.Driver)
	}

	if log != nil {
		log.Debugf("Opening %s at %d baud (driver %s, read timeout %s)", cfg.Name, cfg.Baud, cfg.Driver, cfg.ReadTimeout)
	}

	s, err := open(&cfg)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrOpen, cfg.Name, err)
	}
	return s, nil
}
