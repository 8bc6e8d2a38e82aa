package samil

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedLength means the QUERY reply was not ResponseLen bytes.
	// A session reports this as the inverter being offline.
	ErrUnexpectedLength = errors.New("unexpected response length")

	ErrSessionDone = errors.New("session already run")
)

// TransportError is a write or read failure on the serial port during one
// handshake step.
type TransportError struct {
	Step State
	Op   string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Step, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
