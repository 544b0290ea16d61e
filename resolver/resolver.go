// Package resolver walks the DNS delegation hierarchy from a root server
// until it holds an answer for the caller's question.
package resolver

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"

	"godig/log"
	"godig/message"
	"godig/packet"
)

const (
	dnsPort = 53

	// defaultMaxDepth bounds nested resolution of glueless nameserver
	// hosts, a crafted delegation chain must not recurse forever.
	defaultMaxDepth = 16

	// maxHops bounds the referrals followed within one resolution, a
	// delegation cycle with glue must not loop forever.
	maxHops = 32
)

// rootServer is the a.root-servers.net address every resolution starts from.
var rootServer = netip.AddrFrom4([4]byte{198, 41, 0, 4})

var (
	// ErrMaxDepth means nested nameserver resolution went past the depth bound.
	ErrMaxDepth = errors.New("resolver: max delegation depth exceeded")

	// ErrMaxHops means one resolution followed more referrals than maxHops.
	ErrMaxHops = errors.New("resolver: max referral hops exceeded")
)

// Resolver owns the iterative resolution state: the root hint and the
// transport the per-hop queries travel over.
type Resolver struct {
	transport Transport
	root      netip.Addr
	maxDepth  int
}

// New returns a Resolver starting every resolution at the well-known root
// server, exchanging datagrams over transport.
func New(transport Transport) *Resolver {
	return &Resolver{
		transport: transport,
		root:      rootServer,
		maxDepth:  defaultMaxDepth,
	}
}

// Resolve walks the delegation hierarchy for (name, qtype) and returns the
// terminal reply.  The name is IDNA-normalized first, so callers may pass
// unicode host names.
func (r *Resolver) Resolve(name string, qtype message.Type) (*message.Message, error) {
	if len(name) > 0 {
		ascii, err := idna.Lookup.ToASCII(name)
		if err != nil {
			return nil, fmt.Errorf("resolver invalid name [%s] error=[%w]", name, err)
		}
		name = ascii
	}

	return r.recursive(name, qtype, 0)
}

// lookup sends a single-question query to server and decodes the reply.
// Send, receive and decode failures all surface as resolution failures, no
// retry happens at this layer.
func (r *Resolver) lookup(name string, qtype message.Type, server netip.Addr) (*message.Message, error) {
	query := message.Message{
		Header: message.Header{
			ID:               dns.Id(),
			RecursionDesired: true,
		},
		Questions: []message.Question{{Name: name, Type: qtype}},
	}

	request := packet.New()
	if err := query.Write(request); err != nil {
		return nil, fmt.Errorf("resolver pack query error=[%w]", err)
	}

	reply, err := r.transport.RoundTrip(request.Bytes(), netip.AddrPortFrom(server, dnsPort))
	if err != nil {
		return nil, err
	}

	m, err := message.Decode(packet.From(reply))
	if err != nil {
		return nil, fmt.Errorf("resolver unpack reply from %s error=[%w]", server, err)
	}

	return m, nil
}

func (r *Resolver) recursive(name string, qtype message.Type, depth int) (*message.Message, error) {
	if depth > r.maxDepth {
		return nil, ErrMaxDepth
	}

	ns := r.root
	for hop := 0; ; hop++ {
		if hop >= maxHops {
			return nil, ErrMaxHops
		}

		log.Sugar.Debugf("resolver depth=%d hop=%d asking %s about [%s] %s", depth, hop, ns, name, qtype)

		reply, err := r.lookup(name, qtype, ns)
		if err != nil {
			return nil, err
		}

		// Answers under NOERROR and NXDOMAIN are both terminal.
		if len(reply.Answers) > 0 && reply.Header.RCode == message.RCodeNoError {
			return reply, nil
		}
		if reply.Header.RCode == message.RCodeNXDomain {
			return reply, nil
		}

		// A delegation with glue names the next server directly.
		if address, ok := reply.ResolvedNSFor(name); ok {
			ns = address
			continue
		}

		host, ok := reply.UnresolvedNSFor(name)
		if !ok {
			// No answer and nothing to descend into, best effort terminal.
			return reply, nil
		}

		// Glueless referral, resolve the nameserver host itself.
		nested, err := r.recursive(host, message.TypeA, depth+1)
		if err != nil {
			return nil, err
		}

		address, ok := nested.FirstA()
		if !ok {
			// Dead-end delegation, hand back what we have.
			return reply, nil
		}
		ns = address
	}
}
