// Package testenc builds cache byte streams for tests: smart-encoded
// integers, NUL-terminated strings and js5 containers.
package testenc

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
)

// AppendUSmart appends v in the one-or-two byte smart encoding. v must be
// at most 0x7FFF.
func AppendUSmart(b []byte, v uint16) []byte {
	if v < 0x80 {
		return append(b, byte(v))
	}
	return append(b, 0x80|byte(v>>8), byte(v))
}

// AppendSmarts appends v as a run of unsigned smarts, each 0x7FFF chunk
// continuing the run.
func AppendSmarts(b []byte, v uint32) []byte {
	for v >= 0x7FFF {
		b = AppendUSmart(b, 0x7FFF)
		v -= 0x7FFF
	}
	return AppendUSmart(b, uint16(v))
}

// AppendCString appends s with a NUL terminator.
func AppendCString(b []byte, s string) []byte {
	b = append(b, s...)
	return append(b, 0)
}

// NoneContainer wraps payload in an uncompressed js5 container with a
// trailing version.
func NoneContainer(payload []byte) []byte {
	b := []byte{0}
	b = binary.BigEndian.AppendUint32(b, uint32(len(payload)))
	b = append(b, payload...)
	return append(b, 0, 1) // version trailer
}

// GzipContainer wraps payload in a gzip js5 container.
func GzipContainer(payload []byte) []byte {
	var compressed bytes.Buffer
	w := gzip.NewWriter(&compressed)
	w.Write(payload)
	w.Close()

	b := []byte{2}
	b = binary.BigEndian.AppendUint32(b, uint32(compressed.Len()))
	b = binary.BigEndian.AppendUint32(b, uint32(len(payload)))
	return append(b, compressed.Bytes()...)
}
