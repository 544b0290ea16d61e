package resolver

import (
	"net"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// upstreamStub answers every datagram with reply, or stays silent when
// reply is nil.
func upstreamStub(t *testing.T, reply []byte) netip.AddrPort {
	t.Helper()

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	go func() {
		buffer := make([]byte, 512)
		for {
			_, remote, err := conn.ReadFromUDP(buffer)
			if err != nil {
				return
			}
			if reply == nil {
				continue
			}
			_, _ = conn.WriteToUDP(reply, remote)
		}
	}()

	return conn.LocalAddr().(*net.UDPAddr).AddrPort()
}

func TestUDPTransportRoundTrip(t *testing.T) {
	server := upstreamStub(t, []byte{0xAB, 0xCD})

	transport := &UDPTransport{LocalPort: 43211, Timeout: 2 * time.Second}
	reply, err := transport.RoundTrip([]byte{0x01, 0x02}, server)
	require.NoError(t, err)
	require.Equal(t, []byte{0xAB, 0xCD}, reply)
}

func TestUDPTransportTimeout(t *testing.T) {
	server := upstreamStub(t, nil)

	transport := &UDPTransport{LocalPort: 43212, Timeout: 100 * time.Millisecond}
	start := time.Now()
	_, err := transport.RoundTrip([]byte{0x01}, server)
	require.Error(t, err)
	require.Less(t, time.Since(start), time.Second)
}
