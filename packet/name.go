package packet

import (
	"strings"
)

const (
	// maxJumps bounds the compression pointers followed during one name
	// decode, so a cyclic or self-referential pointer chain cannot spin
	// the decoder forever.
	maxJumps = 5

	// maxLabel is the longest label the wire format can carry, the label
	// length octet keeps its two top bits for compression pointers.
	maxLabel = 63

	pointerMask = 0xC0
)

// ReadName decodes a domain name starting at the cursor.  Labels are
// lower-cased and joined with dots.  When the name ends with a compression
// pointer chain the cursor is left just past the first pointer; otherwise it
// is left past the terminating zero octet.
func (b *Buffer) ReadName() (string, error) {
	position := b.position

	jumped := false
	jumps := 0

	var name strings.Builder
	delimiter := ""

	for {
		if jumps > maxJumps {
			return "", ErrTooManyJumps
		}

		length, err := b.Get(position)
		if err != nil {
			return "", err
		}

		if length&pointerMask == pointerMask {
			// The first jump fixes where sequential reading resumes,
			// later jumps only move the scan offset.
			if !jumped {
				b.Seek(position + 2)
				jumped = true
			}

			low, err := b.Get(position + 1)
			if err != nil {
				return "", err
			}
			position = int(uint16(length^pointerMask)<<8 | uint16(low))
			jumps++
			continue
		}

		position++
		if length == 0 {
			break
		}

		label, err := b.GetRange(position, int(length))
		if err != nil {
			return "", err
		}

		name.WriteString(delimiter)
		name.WriteString(strings.ToLower(string(label)))
		delimiter = "."
		position += int(length)
	}

	if !jumped {
		b.Seek(position)
	}

	return name.String(), nil
}

// WriteName encodes a domain name at the cursor as length-prefixed labels
// with a zero terminator.  No compression pointers are ever emitted.
func (b *Buffer) WriteName(name string) error {
	for _, label := range strings.Split(name, ".") {
		if len(label) > maxLabel {
			return ErrLabelTooLong
		}

		if err := b.WriteU8(uint8(len(label))); err != nil {
			return err
		}

		for i := 0; i < len(label); i++ {
			if err := b.WriteU8(label[i]); err != nil {
				return err
			}
		}
	}

	return b.WriteU8(0)
}
