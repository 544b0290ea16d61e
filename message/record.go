package message

import (
	"net/netip"

	"godig/packet"
)

// Record is one resource record of the answer, authority or additional
// section.  The concrete variants are A, AAAA, NS, CNAME, MX and Unknown,
// callers dispatch with a type switch.
type Record interface {
	writeTo(b *packet.Buffer) error
}

// A carries an IPv4 address.
type A struct {
	Domain  string
	Address netip.Addr
	TTL     uint32
}

// AAAA carries an IPv6 address.
type AAAA struct {
	Domain  string
	Address netip.Addr
	TTL     uint32
}

// NS names the authoritative nameserver host for a zone.
type NS struct {
	Domain string
	Host   string
	TTL    uint32
}

// CNAME aliases a domain to a canonical host.
type CNAME struct {
	Domain string
	Host   string
	TTL    uint32
}

// MX names a mail exchanger host with a priority.
type MX struct {
	Domain   string
	Priority uint16
	Host     string
	TTL      uint32
}

// Unknown stands in for record types this codec does not model.  The
// payload bytes were skipped during decode and are not retained, so an
// Unknown record is never re-encoded.
type Unknown struct {
	Domain  string
	Code    uint16
	DataLen uint16
	TTL     uint32
}

// readRecord decodes one resource record at the cursor, dispatching on the
// wire type code.
func readRecord(b *packet.Buffer) (Record, error) {
	domain, err := b.ReadName()
	if err != nil {
		return nil, err
	}

	code, err := b.ReadU16()
	if err != nil {
		return nil, err
	}

	// class, always assumed IN
	if _, err = b.ReadU16(); err != nil {
		return nil, err
	}

	ttl, err := b.ReadU32()
	if err != nil {
		return nil, err
	}

	length, err := b.ReadU16()
	if err != nil {
		return nil, err
	}

	switch Type(code) {
	case TypeA:
		raw, err := b.ReadU32()
		if err != nil {
			return nil, err
		}
		address := netip.AddrFrom4([4]byte{
			uint8(raw >> 24), uint8(raw >> 16), uint8(raw >> 8), uint8(raw),
		})
		return &A{Domain: domain, Address: address, TTL: ttl}, nil

	case TypeAAAA:
		var raw [16]byte
		for i := 0; i < 16; i += 4 {
			word, err := b.ReadU32()
			if err != nil {
				return nil, err
			}
			raw[i] = uint8(word >> 24)
			raw[i+1] = uint8(word >> 16)
			raw[i+2] = uint8(word >> 8)
			raw[i+3] = uint8(word)
		}
		return &AAAA{Domain: domain, Address: netip.AddrFrom16(raw), TTL: ttl}, nil

	case TypeNS:
		host, err := b.ReadName()
		if err != nil {
			return nil, err
		}
		return &NS{Domain: domain, Host: host, TTL: ttl}, nil

	case TypeCNAME:
		host, err := b.ReadName()
		if err != nil {
			return nil, err
		}
		return &CNAME{Domain: domain, Host: host, TTL: ttl}, nil

	case TypeMX:
		priority, err := b.ReadU16()
		if err != nil {
			return nil, err
		}
		host, err := b.ReadName()
		if err != nil {
			return nil, err
		}
		return &MX{Domain: domain, Priority: priority, Host: host, TTL: ttl}, nil

	default:
		b.Step(int(length))
		return &Unknown{Domain: domain, Code: code, DataLen: length, TTL: ttl}, nil
	}
}

func (r *A) writeTo(b *packet.Buffer) error {
	if err := writeRecordHeader(b, r.Domain, TypeA, r.TTL); err != nil {
		return err
	}
	if err := b.WriteU16(4); err != nil {
		return err
	}

	octets := r.Address.As4()
	for _, octet := range octets {
		if err := b.WriteU8(octet); err != nil {
			return err
		}
	}
	return nil
}

func (r *AAAA) writeTo(b *packet.Buffer) error {
	if err := writeRecordHeader(b, r.Domain, TypeAAAA, r.TTL); err != nil {
		return err
	}
	if err := b.WriteU16(16); err != nil {
		return err
	}

	octets := r.Address.As16()
	for i := 0; i < 16; i += 2 {
		if err := b.WriteU16(uint16(octets[i])<<8 | uint16(octets[i+1])); err != nil {
			return err
		}
	}
	return nil
}

func (r *NS) writeTo(b *packet.Buffer) error {
	if err := writeRecordHeader(b, r.Domain, TypeNS, r.TTL); err != nil {
		return err
	}
	return writeHostData(b, func(b *packet.Buffer) error {
		return b.WriteName(r.Host)
	})
}

func (r *CNAME) writeTo(b *packet.Buffer) error {
	if err := writeRecordHeader(b, r.Domain, TypeCNAME, r.TTL); err != nil {
		return err
	}
	return writeHostData(b, func(b *packet.Buffer) error {
		return b.WriteName(r.Host)
	})
}

func (r *MX) writeTo(b *packet.Buffer) error {
	if err := writeRecordHeader(b, r.Domain, TypeMX, r.TTL); err != nil {
		return err
	}
	return writeHostData(b, func(b *packet.Buffer) error {
		if err := b.WriteU16(r.Priority); err != nil {
			return err
		}
		return b.WriteName(r.Host)
	})
}

func (r *Unknown) writeTo(b *packet.Buffer) error {
	// Payload bytes were never retained, nothing useful to emit.
	return nil
}

func writeRecordHeader(b *packet.Buffer, domain string, t Type, ttl uint32) error {
	if err := b.WriteName(domain); err != nil {
		return err
	}
	if err := b.WriteU16(uint16(t)); err != nil {
		return err
	}
	if err := b.WriteU16(classIN); err != nil {
		return err
	}
	return b.WriteU32(ttl)
}

// writeHostData writes a variable-length rdata section.  The length field
// is reserved as zero, backfilled once the payload size is known.
func writeHostData(b *packet.Buffer, payload func(b *packet.Buffer) error) error {
	reserved := b.Position()
	if err := b.WriteU16(0); err != nil {
		return err
	}

	if err := payload(b); err != nil {
		return err
	}

	b.SetU16(reserved, uint16(b.Position()-(reserved+2)))
	return nil
}
