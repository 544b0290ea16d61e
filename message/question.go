package message

import (
	"godig/packet"
)

// classIN is the only class this codec produces.  Decoders read and discard
// the class field, encoders write classIN unconditionally.
const classIN uint16 = 1

// Question is one entry of the question section.
type Question struct {
	Name string
	Type Type
}

func (q *Question) read(b *packet.Buffer) error {
	name, err := b.ReadName()
	if err != nil {
		return err
	}
	q.Name = name

	code, err := b.ReadU16()
	if err != nil {
		return err
	}
	q.Type = Type(code)

	// class, always assumed IN
	_, err = b.ReadU16()
	return err
}

func (q *Question) write(b *packet.Buffer) error {
	if err := b.WriteName(q.Name); err != nil {
		return err
	}
	if err := b.WriteU16(uint16(q.Type)); err != nil {
		return err
	}
	return b.WriteU16(classIN)
}
