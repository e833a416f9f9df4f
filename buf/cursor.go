// Package buf provides a bounds-checked forward cursor over cache buffers.
package buf

import (
	"bytes"
	"errors"
	"math"
)

// ErrOutOfBounds is returned when a read runs past the end of the buffer.
// After a read fails the cursor position is unspecified and the cursor must
// be abandoned.
var ErrOutOfBounds = errors.New("buf: read out of bounds")

// ErrNotTerminated is returned by CString when no NUL terminator remains.
var ErrNotTerminated = errors.New("buf: string not terminated")

// Cursor reads fixed-width integers, strings and the cache's variable-width
// "smart" values from an in-memory buffer, advancing an offset with every
// read. It never mutates the underlying bytes. A Cursor is a transient value
// used by a single decode call on a single goroutine.
type Cursor struct {
	data []byte
	pos  int
}

func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// AtEnd reports whether the whole buffer has been consumed.
func (c *Cursor) AtEnd() bool {
	return c.pos >= len(c.data)
}

func (c *Cursor) Skip(n int) error {
	if n < 0 || c.Remaining() < n {
		return ErrOutOfBounds
	}
	c.pos += n
	return nil
}

// Bytes returns a view of the next n bytes. The returned slice aliases the
// cursor's buffer and must not be modified.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, ErrOutOfBounds
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *Cursor) Uint8() (uint8, error) {
	if c.Remaining() < 1 {
		return 0, ErrOutOfBounds
	}
	v := c.data[c.pos]
	c.pos++
	return v, nil
}

func (c *Cursor) Int8() (int8, error) {
	v, err := c.Uint8()
	return int8(v), err
}

func (c *Cursor) Uint16() (uint16, error) {
	if c.Remaining() < 2 {
		return 0, ErrOutOfBounds
	}
	v := uint16(c.data[c.pos])<<8 | uint16(c.data[c.pos+1])
	c.pos += 2
	return v, nil
}

func (c *Cursor) Int16() (int16, error) {
	v, err := c.Uint16()
	return int16(v), err
}

func (c *Cursor) Uint24() (uint32, error) {
	if c.Remaining() < 3 {
		return 0, ErrOutOfBounds
	}
	v := uint32(c.data[c.pos])<<16 | uint32(c.data[c.pos+1])<<8 | uint32(c.data[c.pos+2])
	c.pos += 3
	return v, nil
}

func (c *Cursor) Uint32() (uint32, error) {
	if c.Remaining() < 4 {
		return 0, ErrOutOfBounds
	}
	v := uint32(c.data[c.pos])<<24 | uint32(c.data[c.pos+1])<<16 | uint32(c.data[c.pos+2])<<8 | uint32(c.data[c.pos+3])
	c.pos += 4
	return v, nil
}

func (c *Cursor) Int32() (int32, error) {
	v, err := c.Uint32()
	return int32(v), err
}

// USmart reads a one or two byte unsigned value; the high bit of the first
// byte selects the two-byte form, giving a range of 0..0x7FFF.
func (c *Cursor) USmart() (uint16, error) {
	first, err := c.Uint8()
	if err != nil {
		return 0, err
	}
	if first < 0x80 {
		return uint16(first), nil
	}
	second, err := c.Uint8()
	if err != nil {
		return 0, err
	}
	return uint16(first&0x7F)<<8 | uint16(second), nil
}

// Smart32 reads a two or four byte unsigned value; the high bit of the first
// byte selects the four-byte form. The short form 0x7FFF means "absent" and
// decodes to -1.
func (c *Cursor) Smart32() (int32, error) {
	if c.AtEnd() {
		return 0, ErrOutOfBounds
	}
	if c.data[c.pos]&0x80 != 0 {
		v, err := c.Uint32()
		if err != nil {
			return 0, err
		}
		return int32(v & 0x7FFFFFFF), nil
	}
	v, err := c.Uint16()
	if err != nil {
		return 0, err
	}
	if v == 0x7FFF {
		return -1, nil
	}
	return int32(v), nil
}

// Smarts reads a run of unsigned smarts and sums them: every 0x7FFF chunk
// continues the run, the first smaller chunk ends it. This is the encoding
// behind the map format's delta-coded ids. A run summing past 32 bits is
// rejected rather than wrapped.
func (c *Cursor) Smarts() (uint32, error) {
	var value uint32
	for {
		chunk, err := c.USmart()
		if err != nil {
			return 0, err
		}
		if value > math.MaxUint32-uint32(chunk) {
			return 0, ErrOutOfBounds
		}
		value += uint32(chunk)
		if chunk != 0x7FFF {
			return value, nil
		}
	}
}

// CString reads a NUL-terminated string. The cache charset is not UTF-8;
// bytes map to runes one to one.
func (c *Cursor) CString() (string, error) {
	i := bytes.IndexByte(c.data[c.pos:], 0)
	if i < 0 {
		return "", ErrNotTerminated
	}
	runes := make([]rune, i)
	for k, b := range c.data[c.pos : c.pos+i] {
		runes[k] = rune(b)
	}
	c.pos += i + 1
	return string(runes), nil
}
