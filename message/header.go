package message

import (
	"godig/packet"
)

// Header is the fixed 12-byte DNS message header.  The four count fields
// are recomputed from the actual section lengths right before encoding,
// decoded counts only drive how many entries each section read consumes.
type Header struct {
	ID uint16

	RecursionDesired    bool
	Truncated           bool
	AuthoritativeAnswer bool
	Opcode              uint8
	Response            bool

	RCode              RCode
	CheckingDisabled   bool
	AuthenticatedData  bool
	Z                  bool
	RecursionAvailable bool

	Questions   uint16
	Answers     uint16
	Authorities uint16
	Additionals uint16
}

func (h *Header) read(b *packet.Buffer) error {
	var err error
	if h.ID, err = b.ReadU16(); err != nil {
		return err
	}

	flags, err := b.ReadU16()
	if err != nil {
		return err
	}
	a := uint8(flags >> 8)
	z := uint8(flags)

	h.RecursionDesired = a&(1<<0) > 0
	h.Truncated = a&(1<<1) > 0
	h.AuthoritativeAnswer = a&(1<<2) > 0
	h.Opcode = (a >> 3) & 0x0F
	h.Response = a&(1<<7) > 0

	h.RCode = RCodeFrom(z & 0x0F)
	h.CheckingDisabled = z&(1<<4) > 0
	h.AuthenticatedData = z&(1<<5) > 0
	h.Z = z&(1<<6) > 0
	h.RecursionAvailable = z&(1<<7) > 0

	if h.Questions, err = b.ReadU16(); err != nil {
		return err
	}
	if h.Answers, err = b.ReadU16(); err != nil {
		return err
	}
	if h.Authorities, err = b.ReadU16(); err != nil {
		return err
	}
	h.Additionals, err = b.ReadU16()
	return err
}

func (h *Header) write(b *packet.Buffer) error {
	if err := b.WriteU16(h.ID); err != nil {
		return err
	}

	if err := b.WriteU8(boolBit(h.RecursionDesired, 0) |
		boolBit(h.Truncated, 1) |
		boolBit(h.AuthoritativeAnswer, 2) |
		h.Opcode<<3 |
		boolBit(h.Response, 7)); err != nil {
		return err
	}

	if err := b.WriteU8(uint8(h.RCode) |
		boolBit(h.CheckingDisabled, 4) |
		boolBit(h.AuthenticatedData, 5) |
		boolBit(h.Z, 6) |
		boolBit(h.RecursionAvailable, 7)); err != nil {
		return err
	}

	if err := b.WriteU16(h.Questions); err != nil {
		return err
	}
	if err := b.WriteU16(h.Answers); err != nil {
		return err
	}
	if err := b.WriteU16(h.Authorities); err != nil {
		return err
	}
	return b.WriteU16(h.Additionals)
}

func boolBit(v bool, bit uint8) uint8 {
	if !v {
		return 0
	}
	return 1 << bit
}
