package samil

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestFixedFrames(t *testing.T) {
	if got, want := []byte(InitFrame()), mustHex(t, "55AA0000000000000000FF"); !bytes.Equal(got, want) {
		t.Fatalf("InitFrame = %X, want %X", got, want)
	}
	if got, want := []byte(QueryFrame()), mustHex(t, "55AA000000330102000135"); !bytes.Equal(got, want) {
		t.Fatalf("QueryFrame = %X, want %X", got, want)
	}
}

func TestFixedFramesAreCopies(t *testing.T) {
	f := InitFrame()
	f[0] = 0
	if InitFrame()[0] != 0x55 {
		t.Fatal("modifying a returned frame changed the next one")
	}
}

func TestLoginFrame(t *testing.T) {
	tests := []struct {
		serial string
		frame  string
		sum    uint16
	}{
		{"S33114L133", "55AA0000000000010A" + "5333333131344C313333" + "033C", 0x033C},
		{"", "55AA0000000000010A" + "010A", 0x010A},
		{"A", "55AA0000000000010A" + "41" + "014B", 0x014B},
	}

	for _, tt := range tests {
		t.Run(tt.serial, func(t *testing.T) {
			f, sum := LoginFrame(tt.serial)
			if sum != tt.sum {
				t.Fatalf("checksum = %#04x, want %#04x", sum, tt.sum)
			}
			if want := mustHex(t, tt.frame); !bytes.Equal(f, want) {
				t.Fatalf("frame = %X, want %X", []byte(f), want)
			}
		})
	}
}

func TestLoginFrameLongSerial(t *testing.T) {
	serial := string(bytes.Repeat([]byte("9"), 400))
	f, sum := LoginFrame(serial)
	if len(f) != len(loginHeader)+400+2 {
		t.Fatalf("frame length = %d", len(f))
	}
	if want := uint16(266 + 400*0x39); sum != want {
		t.Fatalf("checksum = %#04x, want %#04x", sum, want)
	}
}

func TestLoginParts(t *testing.T) {
	f, _ := LoginFrame("S33114L133")
	header, serial, trailer := loginParts(f)
	if !bytes.Equal(header, loginHeader) {
		t.Fatalf("header = %X", header)
	}
	if string(serial) != "S33114L133" {
		t.Fatalf("serial = %q", serial)
	}
	if !bytes.Equal(trailer, []byte{0x03, 0x3C}) {
		t.Fatalf("trailer = %X", trailer)
	}
}
