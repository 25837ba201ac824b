package vector

import (
	"encoding/binary"
	"math"
)

// Encode serializes a vector as little-endian float32 bytes. Used for the
// embedding BLOB column so stored chunks can rebuild an index without
// re-embedding.
func Encode(v []float32) []byte {
	const size = 4
	out := make([]byte, len(v)*size)
	for i, x := range v {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(x))
	}
	return out
}

// Decode deserializes little-endian float32 bytes back into a vector.
func Decode(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}
