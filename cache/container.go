package cache

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/xtea"
)

// Container compression schemes. The first byte of a js5 container selects
// one of these; NXT-era archives use a "ZLB" magic instead.
const (
	compressionNone  = 0
	compressionBzip2 = 1
	compressionGzip  = 2
)

var zlbMagic = []byte("ZLB")

// ErrContainer reports a structurally invalid or unsupported container.
var ErrContainer = errors.New("cache: malformed container")

// DecodeContainer unpacks a js5 container: one compression byte, the
// big-endian compressed length, then the body. Compressed forms carry the
// decompressed length as the first four body bytes. A two-byte version
// trailer may follow the body; it is not part of the payload.
//
// When key is non-nil the body (including the decompressed-length field) is
// XTEA-decrypted before inflation, as used for map location archives. The
// input slice is never modified.
func DecodeContainer(data []byte, key *XTEAKey) ([]byte, error) {
	if bytes.HasPrefix(data, zlbMagic) {
		return decodeZLB(data)
	}
	if len(data) < 5 {
		return nil, fmt.Errorf("%w: %d byte file", ErrContainer, len(data))
	}
	compression := data[0]
	compressedLen := int(binary.BigEndian.Uint32(data[1:5]))

	bodyLen := compressedLen
	if compression != compressionNone {
		bodyLen += 4 // decompressed-length field
	}
	if compressedLen < 0 || bodyLen > len(data)-5 {
		return nil, fmt.Errorf("%w: body of %d bytes exceeds %d byte file", ErrContainer, bodyLen, len(data))
	}
	body := data[5 : 5+bodyLen]

	if key != nil {
		body = key.decrypt(body)
	}

	switch compression {
	case compressionNone:
		return bytes.Clone(body), nil

	case compressionBzip2:
		// the cache strips the stream magic; restore it
		stream := append([]byte("BZh1"), body[4:]...)
		return inflate(bzip2.NewReader(bytes.NewReader(stream)), binary.BigEndian.Uint32(body[:4]))

	case compressionGzip:
		r, err := gzip.NewReader(bytes.NewReader(body[4:]))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrContainer, err)
		}
		defer r.Close()
		return inflate(r, binary.BigEndian.Uint32(body[:4]))

	default:
		return nil, fmt.Errorf("%w: unknown compression %d", ErrContainer, compression)
	}
}

// decodeZLB unpacks an NXT-style container: "ZLB" magic, five header bytes,
// then a raw zlib stream.
func decodeZLB(data []byte) ([]byte, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: truncated ZLB header", ErrContainer)
	}
	r, err := zlib.NewReader(bytes.NewReader(data[8:]))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContainer, err)
	}
	defer r.Close()

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContainer, err)
	}
	return payload, nil
}

func inflate(r io.Reader, declaredLen uint32) ([]byte, error) {
	payload := make([]byte, 0, declaredLen)
	buffer := bytes.NewBuffer(payload)
	if _, err := io.Copy(buffer, r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContainer, err)
	}
	if uint32(buffer.Len()) != declaredLen {
		return nil, fmt.Errorf("%w: decompressed %d bytes, expected %d", ErrContainer, buffer.Len(), declaredLen)
	}
	return buffer.Bytes(), nil
}

// XTEAKey is a 128-bit map archive key in the conventional four-int form.
type XTEAKey [4]int32

// IsZero reports whether the key is the all-zero placeholder used for
// squares that were never encrypted.
func (k XTEAKey) IsZero() bool {
	return k == XTEAKey{}
}

func (k XTEAKey) cipher() *xtea.Cipher {
	raw := make([]byte, 16)
	for i, v := range k {
		binary.BigEndian.PutUint32(raw[i*4:], uint32(v))
	}
	c, _ := xtea.NewCipher(raw) // only errors on bad key length
	return c
}

// decrypt returns a decrypted copy of data. Whole 8-byte blocks are
// deciphered; a trailing partial block is stored in the clear.
func (k XTEAKey) decrypt(data []byte) []byte {
	out := bytes.Clone(data)
	c := k.cipher()
	for off := 0; off+8 <= len(out); off += 8 {
		c.Decrypt(out[off:off+8], out[off:off+8])
	}
	return out
}
