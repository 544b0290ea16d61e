package resolver

import (
	"fmt"
	"net"
	"net/netip"
	"time"

	"godig/packet"
)

const (
	// defaultLocalPort is the fixed origin port for outbound queries.  The
	// resolver handles one query at a time, so the port is free to rebind
	// per exchange.
	defaultLocalPort = 43210

	defaultTimeout = 5 * time.Second
)

// Transport moves one DNS datagram to a nameserver and returns the raw
// reply datagram.  Implementations block until the reply arrives or the
// exchange fails.
type Transport interface {
	RoundTrip(request []byte, server netip.AddrPort) ([]byte, error)
}

// UDPTransport exchanges datagrams over a UDP socket bound per round trip.
type UDPTransport struct {
	LocalPort int           // origin port, defaultLocalPort when zero
	Timeout   time.Duration // per-exchange deadline, defaultTimeout when zero
}

func (t *UDPTransport) RoundTrip(request []byte, server netip.AddrPort) ([]byte, error) {
	port := t.LocalPort
	if port == 0 {
		port = defaultLocalPort
	}

	timeout := t.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: port})
	if err != nil {
		return nil, fmt.Errorf("transport listen error=[%w]", err)
	}
	defer func() { _ = conn.Close() }()

	if err = conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("transport set deadline error=[%w]", err)
	}

	if _, err = conn.WriteToUDP(request, net.UDPAddrFromAddrPort(server)); err != nil {
		return nil, fmt.Errorf("transport write to %s error=[%w]", server, err)
	}

	reply := make([]byte, packet.Size)
	n, _, err := conn.ReadFromUDP(reply)
	if err != nil {
		return nil, fmt.Errorf("transport read from %s error=[%w]", server, err)
	}

	return reply[:n], nil
}
