/*
Package samil talks to Samil Power solar inverters over a serial line.

A session is a fixed handshake: INIT, LOGIN with the inverter serial number,
then QUERY. Only the QUERY reply is kept. A reply of exactly 51 bytes is
decoded into telemetry values, anything else means the inverter is offline
(normally because it is dark and the inverter is asleep).
*/
package samil

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// State of a Session.
type State int

const (
	Idle State = iota
	Initialized
	LoggedIn
	Queried
	Online
	Offline
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Initialized:
		return "initialized"
	case LoggedIn:
		return "logged in"
	case Queried:
		return "queried"
	case Online:
		return "online"
	case Offline:
		return "offline"
	}
	return "unknown"
}

const (
	// DefaultSettle is the wait between a write and the read of its reply.
	DefaultSettle = 100 * time.Millisecond

	// maxRead is the largest reply read in one go.
	maxRead = 255
)

type Config struct {
	// Inverter serial number used to log in
	SerialNo string

	// Wait after each write before reading. Zero means DefaultSettle.
	Settle time.Duration
}

// Result of a finished session.
type Result struct {
	Online bool
	// Time the QUERY reply was read
	Time time.Time
	// LOGIN checksum that was sent
	Checksum uint16
	// QUERY reply as received
	Raw []byte
	// Decoded telemetry, nil when offline
	Values []Value
}

// Value returns the decoded value with the given label.
func (r *Result) Value(label string) (Value, bool) {
	for _, v := range r.Values {
		if v.Label == label {
			return v, true
		}
	}
	return Value{}, false
}

// Session runs the handshake once over an exclusively owned port.
type Session struct {
	port  io.ReadWriter
	cfg   Config
	log   *logrus.Logger
	state State
	now   func() time.Time
}

func NewSession(port io.ReadWriter, cfg Config, log *logrus.Logger) *Session {
	if cfg.Settle <= 0 {
		cfg.Settle = DefaultSettle
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Session{
		port: port,
		cfg:  cfg,
		log:  log,
		now:  time.Now,
	}
}

func (s *Session) State() State {
	return s.state
}

// Run performs INIT, LOGIN and QUERY and returns the outcome. An offline
// inverter is a normal Result with Online false; errors are reserved for
// transport failures and cancellation. A Session can only be run once.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	if s.state != Idle {
		return nil, ErrSessionDone
	}

	buf := make([]byte, maxRead)
	res := &Result{}

	// INIT, reply is flushed unread
	frame := InitFrame()
	s.log.Debugf("Initializing inverter: => %X", []byte(frame))
	if err := s.write(frame); err != nil {
		return nil, err
	}
	if _, err := s.readReply(ctx, buf, true); err != nil {
		return nil, err
	}
	s.state = Initialized

	// LOGIN, header then serial number then checksum
	login, sum := LoginFrame(s.cfg.SerialNo)
	res.Checksum = sum
	s.log.Debugf("Logging in: => %X", []byte(login))
	s.log.Debugf("Checksum value is %04X hex (%d) decimal, high byte %02X, low byte %02X",
		sum, sum, byte(sum>>8), byte(sum))
	header, serialNo, trailer := loginParts(login)
	for _, part := range [][]byte{header, serialNo, trailer} {
		if err := s.write(part); err != nil {
			return nil, err
		}
	}
	if _, err := s.readReply(ctx, buf, true); err != nil {
		return nil, err
	}
	s.state = LoggedIn

	// QUERY
	query := QueryFrame()
	s.log.Debugf("Requesting current readings: => %X", []byte(query))
	if err := s.write(query); err != nil {
		return nil, err
	}
	n, err := s.readReply(ctx, buf, false)
	if err != nil {
		return nil, err
	}
	s.state = Queried
	res.Time = s.now()
	res.Raw = append([]byte(nil), buf[:n]...)

	s.log.Debugf("%d bytes received from inverter:\n%s", n, hexRows(res.Raw, 0, 0))

	if n != ResponseLen {
		s.state = Offline
		s.log.Debugf("Inverter offline, expected %d bytes", ResponseLen)
		return res, nil
	}

	res.Values, err = Decode(res.Raw)
	if err != nil {
		return nil, err
	}
	if s.log.IsLevelEnabled(logrus.DebugLevel) {
		for i, f := range fields {
			s.log.Debugf("%s\n%s", res.Values[i], hexRows(res.Raw, f.Offset, f.Width))
		}
	}

	res.Online = true
	s.state = Online
	return res, nil
}

func (s *Session) write(b []byte) error {
	n, err := s.port.Write(b)
	if err != nil {
		return &TransportError{Step: s.state, Op: "write", Err: err}
	}
	if n != len(b) {
		return &TransportError{Step: s.state, Op: "write", Err: io.ErrShortWrite}
	}
	return nil
}

// readReply waits the settle interval and performs a single read into buf.
// No data, EOF and read timeouts all count as 0 bytes. Other read errors
// are logged and dropped when discard is set.
func (s *Session) readReply(ctx context.Context, buf []byte, discard bool) (int, error) {
	t := time.NewTimer(s.cfg.Settle)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-t.C:
	}

	n, err := s.port.Read(buf)
	if n < 0 {
		n = 0
	}
	if err == nil || errors.Is(err, io.EOF) || isTimeout(err) {
		if discard {
			s.log.Debugf("Read data: <= %X", buf[:n])
		}
		return n, nil
	}

	if discard {
		s.log.Warnf("%s: ignoring read error: %v", s.state, err)
		return 0, nil
	}
	return n, &TransportError{Step: s.state, Op: "read", Err: err}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
