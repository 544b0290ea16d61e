// Package packet implements a bounds-checked read/write head over a single
// DNS datagram, including the domain-name compression codec.
package packet

import (
	"errors"
)

// Size is the conventional ceiling for a non-EDNS UDP DNS message.
const Size = 512

var (
	// ErrEndOfBuffer means a read or write would cross the buffer capacity.
	ErrEndOfBuffer = errors.New("packet: end of buffer")

	// ErrTooManyJumps means a name decode followed more compression
	// pointers than maxJumps allows.
	ErrTooManyJumps = errors.New("packet: too many compression jumps")

	// ErrLabelTooLong means a name label exceeds 63 bytes on encode.
	ErrLabelTooLong = errors.New("packet: label exceeds 63 bytes")
)

// Buffer is a fixed-capacity datagram buffer with a single position cursor
// for sequential reads and writes.  The zero value is not usable, construct
// with New or NewWithCapacity.
type Buffer struct {
	data     []byte
	position int
}

// New returns a Buffer with the default UDP message capacity.
func New() *Buffer {
	return NewWithCapacity(Size)
}

// NewWithCapacity returns a Buffer over capacity zeroed bytes.
func NewWithCapacity(capacity int) *Buffer {
	return &Buffer{data: make([]byte, capacity)}
}

// From returns a Buffer whose content is a copy of raw, padded or truncated
// to the default capacity, with the cursor at zero.
func From(raw []byte) *Buffer {
	b := New()
	copy(b.data, raw)
	return b
}

// Position returns the current cursor position.
func (b *Buffer) Position() int {
	return b.position
}

// Bytes returns the written prefix of the buffer, data up to the cursor.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.position]
}

// Seek moves the cursor to an absolute position.  Bounds are enforced
// lazily by the next read or write.
func (b *Buffer) Seek(position int) {
	b.position = position
}

// Step advances the cursor by n bytes without reading them.
func (b *Buffer) Step(n int) {
	b.position += n
}

// ReadU8 reads one byte at the cursor and advances past it.
func (b *Buffer) ReadU8() (uint8, error) {
	if b.position >= len(b.data) {
		return 0, ErrEndOfBuffer
	}
	v := b.data[b.position]
	b.position++
	return v, nil
}

// ReadU16 reads a big-endian uint16 at the cursor.
func (b *Buffer) ReadU16() (uint16, error) {
	hi, err := b.ReadU8()
	if err != nil {
		return 0, err
	}
	lo, err := b.ReadU8()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// ReadU32 reads a big-endian uint32 at the cursor.
func (b *Buffer) ReadU32() (uint32, error) {
	hi, err := b.ReadU16()
	if err != nil {
		return 0, err
	}
	lo, err := b.ReadU16()
	if err != nil {
		return 0, err
	}
	return uint32(hi)<<16 | uint32(lo), nil
}

// Get reads the byte at an absolute position without moving the cursor.
func (b *Buffer) Get(position int) (uint8, error) {
	if position >= len(b.data) {
		return 0, ErrEndOfBuffer
	}
	return b.data[position], nil
}

// GetRange reads length bytes starting at start without moving the cursor.
// The bound is exclusive of the final buffer byte (start+length must stay
// strictly below capacity), matching the historical behavior this codec
// round-trips against.
func (b *Buffer) GetRange(start, length int) ([]byte, error) {
	if start+length >= len(b.data) {
		return nil, ErrEndOfBuffer
	}
	return b.data[start : start+length], nil
}

// WriteU8 writes one byte at the cursor and advances past it.
func (b *Buffer) WriteU8(v uint8) error {
	if b.position >= len(b.data) {
		return ErrEndOfBuffer
	}
	b.data[b.position] = v
	b.position++
	return nil
}

// WriteU16 writes a big-endian uint16 at the cursor.
func (b *Buffer) WriteU16(v uint16) error {
	if err := b.WriteU8(uint8(v >> 8)); err != nil {
		return err
	}
	return b.WriteU8(uint8(v))
}

// WriteU32 writes a big-endian uint32 at the cursor.
func (b *Buffer) WriteU32(v uint32) error {
	if err := b.WriteU16(uint16(v >> 16)); err != nil {
		return err
	}
	return b.WriteU16(uint16(v))
}

// SetU16 patches a big-endian uint16 at an absolute position, used to
// backfill a length field once variable content has been written.  The
// caller guarantees the position is valid.
func (b *Buffer) SetU16(position int, v uint16) {
	b.data[position] = uint8(v >> 8)
	b.data[position+1] = uint8(v)
}
