package serial

import (
	"io"

	goserial "github.com/tarm/serial"
)

func openTarm(c *Config) (io.ReadWriteCloser, error) {
	c2 := &goserial.Config{
		Name:        c.Name,
		Baud:        c.Baud,
		ReadTimeout: c.ReadTimeout,
		Size:        8,
		Parity:      goserial.ParityNone,
		StopBits:    goserial.Stop1,
	}
	s, err := goserial.OpenPort(c2)
	if err != nil {
		return nil, err
	}
	return s, nil
}
