package regmap

// DecodeBeat decodes a little-endian bus beat of up to eight bytes.
func DecodeBeat(data []byte) uint64 {
	var v uint64
	for i, b := range data {
		v |= uint64(b) << (8 * uint(i))
	}
	return v
}

// EncodeBeat encodes a value as a little-endian bus beat of beatBytes bytes.
// Bits beyond the beat are discarded.
func EncodeBeat(v uint64, beatBytes uint64) []byte {
	data := make([]byte, beatBytes)
	for i := range data {
		data[i] = byte(v >> (8 * uint(i)))
	}
	return data
}
