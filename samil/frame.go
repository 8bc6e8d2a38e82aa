package samil

import (
	"encoding/binary"
)

// Frame is one complete byte sequence sent to the inverter.
type Frame []byte

var (
	initFrame   = []byte{0x55, 0xAA, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xFF}
	queryFrame  = []byte{0x55, 0xAA, 0x00, 0x00, 0x00, 0x33, 0x01, 0x02, 0x00, 0x01, 0x35}
	loginHeader = []byte{0x55, 0xAA, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x0A}
)

const checksumLen = 2

// InitFrame returns the INIT frame. Its reply only needs flushing.
func InitFrame() Frame {
	return append(Frame(nil), initFrame...)
}

// QueryFrame returns the frame requesting the 51 byte status response.
func QueryFrame() Frame {
	return append(Frame(nil), queryFrame...)
}

// LoginFrame returns the LOGIN header, the ASCII serial number and the
// big-endian checksum trailer as one frame, along with the checksum.
// The serial number is sent as is: no length prefix, no terminator.
func LoginFrame(serialNo string) (Frame, uint16) {
	sum := LoginChecksum(serialNo)

	f := make(Frame, 0, len(loginHeader)+len(serialNo)+checksumLen)
	f = append(f, loginHeader...)
	f = append(f, serialNo...)
	f = binary.BigEndian.AppendUint16(f, sum)

	return f, sum
}

// loginParts splits a LOGIN frame into header, serial number and trailer.
// The inverter expects them as three separate writes.
func loginParts(f Frame) (header, serialNo, trailer []byte) {
	n := len(loginHeader)
	return f[:n], f[n : len(f)-checksumLen], f[len(f)-checksumLen:]
}
