package samil

import (
	"bytes"
	"testing"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint16
	}{
		{"empty", nil, 0},
		{"sync bytes", []byte{0x55, 0xAA}, 0xFF},
		{"high bit unsigned", []byte{0x80}, 128},
		{"all ones", []byte{0xFF, 0xFF}, 0x01FE},
		{"wraps", bytes.Repeat([]byte{0xFF}, 258), 254},
		{"login header", loginHeader, 266},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Checksum(tt.data); got != tt.want {
				t.Fatalf("Checksum(%X) = %#04x, want %#04x", tt.data, got, tt.want)
			}
		})
	}
}

func TestChecksumOrderIndependent(t *testing.T) {
	pairs := [][2][]byte{
		{{0x01, 0x02}, {0xFE}},
		{loginHeader, []byte("S33114L133")},
		{bytes.Repeat([]byte{0xF0}, 300), {0x80, 0x7F}},
		{nil, {0x10}},
	}

	for _, p := range pairs {
		ab := append(append([]byte(nil), p[0]...), p[1]...)
		ba := append(append([]byte(nil), p[1]...), p[0]...)
		if Checksum(ab) != Checksum(ba) {
			t.Fatalf("checksum differs for %X and %X", ab, ba)
		}
	}
}

func TestLoginChecksum(t *testing.T) {
	// 266 over the header plus 562 over the serial number
	if got := LoginChecksum("S33114L133"); got != 0x033C {
		t.Fatalf("LoginChecksum = %#04x, want 0x033c", got)
	}
	if got := LoginChecksum(""); got != Checksum(loginHeader) {
		t.Fatalf("LoginChecksum(\"\") = %#04x, want header sum", got)
	}
}
