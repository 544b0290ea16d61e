package message

import (
	"net/netip"
	"strings"

	"godig/log"
	"godig/packet"
)

// Message is one DNS message: a header plus the four record sections in
// wire order.  The materialized sections are authoritative, the header
// counts are recomputed from them on encode.
type Message struct {
	Header      Header
	Questions   []Question
	Answers     []Record
	Authorities []Record
	Additionals []Record
}

// Decode reads a complete message starting at the buffer cursor.  Section
// boundaries are implicit, the header counts drive how many entries each
// section read consumes.
func Decode(b *packet.Buffer) (*Message, error) {
	var m Message
	if err := m.Header.read(b); err != nil {
		return nil, err
	}

	for i := uint16(0); i < m.Header.Questions; i++ {
		var q Question
		if err := q.read(b); err != nil {
			return nil, err
		}
		m.Questions = append(m.Questions, q)
	}

	var err error
	if m.Answers, err = readSection(b, m.Header.Answers); err != nil {
		return nil, err
	}
	if m.Authorities, err = readSection(b, m.Header.Authorities); err != nil {
		return nil, err
	}
	if m.Additionals, err = readSection(b, m.Header.Additionals); err != nil {
		return nil, err
	}

	return &m, nil
}

func readSection(b *packet.Buffer, count uint16) ([]Record, error) {
	var records []Record
	for i := uint16(0); i < count; i++ {
		record, err := readRecord(b)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// Write encodes the message at the buffer cursor.  The header counts are
// synced from the section lengths first.
func (m *Message) Write(b *packet.Buffer) error {
	m.Header.Questions = uint16(len(m.Questions))
	m.Header.Answers = uint16(len(m.Answers))
	m.Header.Authorities = uint16(len(m.Authorities))
	m.Header.Additionals = uint16(len(m.Additionals))

	if err := m.Header.write(b); err != nil {
		return err
	}

	for i := range m.Questions {
		if err := m.Questions[i].write(b); err != nil {
			return err
		}
	}

	for _, section := range [][]Record{m.Answers, m.Authorities, m.Additionals} {
		if err := writeSection(b, section); err != nil {
			return err
		}
	}

	return nil
}

func writeSection(b *packet.Buffer, records []Record) error {
	for _, record := range records {
		if u, ok := record.(*Unknown); ok {
			log.Sugar.Debugf("message skipping unknown record [%s] type=%d", u.Domain, u.Code)
			continue
		}
		if err := record.writeTo(b); err != nil {
			return err
		}
	}
	return nil
}

// FirstA returns the address of the first A record in the answer section.
func (m *Message) FirstA() (netip.Addr, bool) {
	for _, record := range m.Answers {
		if a, ok := record.(*A); ok {
			return a.Address, true
		}
	}
	return netip.Addr{}, false
}

// nsFor yields the (domain, host) pairs of authority NS records whose zone
// is a suffix of qname, the delegations applicable to the query.
func (m *Message) nsFor(qname string) []*NS {
	var servers []*NS
	for _, record := range m.Authorities {
		ns, ok := record.(*NS)
		if !ok || !strings.HasSuffix(qname, ns.Domain) {
			continue
		}
		servers = append(servers, ns)
	}
	return servers
}

// ResolvedNSFor returns the glue address of the first applicable delegation
// whose nameserver host has an A record in the additional section.
func (m *Message) ResolvedNSFor(qname string) (netip.Addr, bool) {
	for _, ns := range m.nsFor(qname) {
		if address, ok := m.glueFor(ns.Host); ok {
			return address, true
		}
	}
	return netip.Addr{}, false
}

// UnresolvedNSFor returns the host of the first applicable delegation that
// arrived without glue.
func (m *Message) UnresolvedNSFor(qname string) (string, bool) {
	for _, ns := range m.nsFor(qname) {
		if _, ok := m.glueFor(ns.Host); !ok {
			return ns.Host, true
		}
	}
	return "", false
}

func (m *Message) glueFor(host string) (netip.Addr, bool) {
	for _, record := range m.Additionals {
		if a, ok := record.(*A); ok && a.Domain == host {
			return a.Address, true
		}
	}
	return netip.Addr{}, false
}
