package samil

// Checksum returns the sum of all bytes in data as a 16 bit value.
// Bytes are unsigned and the sum wraps at 2^16.
func Checksum(data []byte) uint16 {
	var sum uint16 = 0

	for i := 0; i < len(data); i++ {
		sum += uint16(data[i])
	}

	return sum
}

// LoginChecksum is the trailer value of a LOGIN frame: the header and the
// serial number are summed separately and the two sums added.
func LoginChecksum(serialNo string) uint16 {
	return Checksum(loginHeader) + Checksum([]byte(serialNo))
}
