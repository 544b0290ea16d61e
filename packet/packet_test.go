package packet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadWriteRoundTrip(t *testing.T) {
	b := New()

	require.NoError(t, b.WriteU8(0xAB))
	require.NoError(t, b.WriteU16(0x1234))
	require.NoError(t, b.WriteU32(0xDEADBEEF))
	require.Equal(t, 7, b.Position())

	b.Seek(0)

	u8, err := b.ReadU8()
	require.NoError(t, err)
	require.Equal(t, uint8(0xAB), u8)

	u16, err := b.ReadU16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x1234), u16)

	u32, err := b.ReadU32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), u32)
}

func TestReadOverrun(t *testing.T) {
	b := New()

	b.Seek(Size)
	_, err := b.ReadU8()
	require.ErrorIs(t, err, ErrEndOfBuffer)

	b.Seek(Size - 1)
	_, err = b.ReadU16()
	require.ErrorIs(t, err, ErrEndOfBuffer)

	b.Seek(Size - 3)
	_, err = b.ReadU32()
	require.ErrorIs(t, err, ErrEndOfBuffer)
}

func TestWriteOverrun(t *testing.T) {
	b := New()

	b.Seek(Size)
	require.ErrorIs(t, b.WriteU8(1), ErrEndOfBuffer)

	b.Seek(Size - 1)
	require.ErrorIs(t, b.WriteU16(1), ErrEndOfBuffer)
}

func TestGetRangeBoundary(t *testing.T) {
	b := New()

	// The bound is exclusive of the last buffer byte.
	_, err := b.GetRange(0, Size)
	require.ErrorIs(t, err, ErrEndOfBuffer)

	_, err = b.GetRange(0, Size-1)
	require.NoError(t, err)

	_, err = b.GetRange(Size-2, 1)
	require.NoError(t, err)

	_, err = b.GetRange(Size-1, 1)
	require.ErrorIs(t, err, ErrEndOfBuffer)
}

func TestNameRoundTrip(t *testing.T) {
	b := New()
	require.NoError(t, b.WriteName("www.google.com"))
	require.Equal(t, len("www.google.com")+2, b.Position())

	b.Seek(0)
	name, err := b.ReadName()
	require.NoError(t, err)
	require.Equal(t, "www.google.com", name)
	require.Equal(t, len("www.google.com")+2, b.Position())
}

func TestReadNameLowerCases(t *testing.T) {
	b := New()
	require.NoError(t, b.WriteName("WWW.Example.COM"))

	b.Seek(0)
	name, err := b.ReadName()
	require.NoError(t, err)
	require.Equal(t, "www.example.com", name)
}

func TestWriteNameLabelBound(t *testing.T) {
	long := strings.Repeat("a", 64)
	require.ErrorIs(t, New().WriteName(long+".com"), ErrLabelTooLong)

	ok := strings.Repeat("a", 63)
	require.NoError(t, New().WriteName(ok+".com"))
}

// pointerTo encodes a compression pointer to offset.
func pointerTo(offset int) []byte {
	return []byte{0xC0 | uint8(offset>>8), uint8(offset)}
}

func TestReadNamePointer(t *testing.T) {
	raw := make([]byte, 64)

	// full name at offset 2
	copy(raw[2:], []byte{6, 'g', 'o', 'o', 'g', 'l', 'e', 3, 'c', 'o', 'm', 0})

	// pointer at offset 30, trailing data follows it
	copy(raw[30:], pointerTo(2))

	b := From(raw)
	b.Seek(30)

	name, err := b.ReadName()
	require.NoError(t, err)
	require.Equal(t, "google.com", name)

	// only the 2-byte pointer was consumed
	require.Equal(t, 32, b.Position())
}

func TestReadNamePointerPartial(t *testing.T) {
	raw := make([]byte, 64)

	copy(raw[2:], []byte{6, 'g', 'o', 'o', 'g', 'l', 'e', 3, 'c', 'o', 'm', 0})

	// "www" label then a pointer to the full name
	copy(raw[20:], []byte{3, 'w', 'w', 'w'})
	copy(raw[24:], pointerTo(2))

	b := From(raw)
	b.Seek(20)

	name, err := b.ReadName()
	require.NoError(t, err)
	require.Equal(t, "www.google.com", name)
	require.Equal(t, 26, b.Position())
}

func TestReadNameJumpLimit(t *testing.T) {
	build := func(jumps int) *Buffer {
		raw := make([]byte, 128)

		copy(raw[100:], []byte{1, 'x', 0})

		// chain of pointers starting at 10, each hopping to the next,
		// the last one landing on the name
		for i := 0; i < jumps; i++ {
			target := 10 + (i+1)*2
			if i == jumps-1 {
				target = 100
			}
			copy(raw[10+i*2:], pointerTo(target))
		}

		b := From(raw)
		b.Seek(10)
		return b
	}

	name, err := build(5).ReadName()
	require.NoError(t, err)
	require.Equal(t, "x", name)

	_, err = build(6).ReadName()
	require.ErrorIs(t, err, ErrTooManyJumps)
}

func TestReadNameSelfPointer(t *testing.T) {
	raw := make([]byte, 32)
	copy(raw[12:], pointerTo(12))

	b := From(raw)
	b.Seek(12)

	_, err := b.ReadName()
	require.ErrorIs(t, err, ErrTooManyJumps)
}

func TestSetU16Backpatch(t *testing.T) {
	b := New()

	reserved := b.Position()
	require.NoError(t, b.WriteU16(0))
	require.NoError(t, b.WriteU32(0x01020304))

	b.SetU16(reserved, uint16(b.Position()-(reserved+2)))

	b.Seek(0)
	length, err := b.ReadU16()
	require.NoError(t, err)
	require.Equal(t, uint16(4), length)
}

func TestNewWithCapacity(t *testing.T) {
	b := NewWithCapacity(4)

	require.NoError(t, b.WriteU32(1))
	require.ErrorIs(t, b.WriteU8(1), ErrEndOfBuffer)

	b.Seek(0)
	_, err := b.GetRange(0, 4)
	require.ErrorIs(t, err, ErrEndOfBuffer)
}
