package samil

import (
	"fmt"
	"strings"
)

const hexRowLen = 16

// hexRows formats buf as rows of 16 bytes, each row prefixed with the offset
// of its first byte. Bytes in [hlStart, hlStart+hlCount) are bracketed.
func hexRows(buf []byte, hlStart, hlCount int) string {
	var b strings.Builder

	for row := 0; row < len(buf); row += hexRowLen {
		fmt.Fprintf(&b, "(%04d)", row)
		for i := row; i < row+hexRowLen && i < len(buf); i++ {
			if i >= hlStart && i < hlStart+hlCount {
				fmt.Fprintf(&b, " [%02X]", buf[i])
			} else {
				fmt.Fprintf(&b, " %02X", buf[i])
			}
		}
		b.WriteByte('\n')
	}

	return b.String()
}
