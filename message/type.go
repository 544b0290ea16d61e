// Package message implements the DNS message structure and its wire codec
// over a packet.Buffer: header, question and the record variants the
// resolver understands.
package message

import (
	"fmt"
)

// Type is a DNS record type code.
type Type uint16

const (
	TypeA     Type = 1
	TypeNS    Type = 2
	TypeCNAME Type = 5
	TypeMX    Type = 15
	TypeAAAA  Type = 28
)

func (t Type) String() string {
	switch t {
	case TypeA:
		return "A"
	case TypeNS:
		return "NS"
	case TypeCNAME:
		return "CNAME"
	case TypeMX:
		return "MX"
	case TypeAAAA:
		return "AAAA"
	default:
		return fmt.Sprintf("TYPE%d", uint16(t))
	}
}

// RCode is a DNS response code.
type RCode uint8

const (
	RCodeNoError  RCode = 0
	RCodeFormErr  RCode = 1
	RCodeServFail RCode = 2
	RCodeNXDomain RCode = 3
	RCodeNotImp   RCode = 4
	RCodeRefused  RCode = 5
)

// RCodeFrom maps a wire value to an RCode.  Values outside the enumerated
// set decode as NoError.
func RCodeFrom(v uint8) RCode {
	switch RCode(v) {
	case RCodeFormErr, RCodeServFail, RCodeNXDomain, RCodeNotImp, RCodeRefused:
		return RCode(v)
	default:
		return RCodeNoError
	}
}

func (c RCode) String() string {
	switch c {
	case RCodeNoError:
		return "NOERROR"
	case RCodeFormErr:
		return "FORMERR"
	case RCodeServFail:
		return "SERVFAIL"
	case RCodeNXDomain:
		return "NXDOMAIN"
	case RCodeNotImp:
		return "NOTIMP"
	case RCodeRefused:
		return "REFUSED"
	default:
		return fmt.Sprintf("RCODE%d", uint8(c))
	}
}
