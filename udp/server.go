// Package udp runs the serving loop: one inbound datagram at a time is
// decoded, resolved and answered over the same socket.
package udp

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"godig/log"
	"godig/message"
	"godig/packet"
)

// Resolver produces a terminal DNS reply for one question.
type Resolver interface {
	Resolve(name string, qtype message.Type) (*message.Message, error)
}

type Server struct {
	address  *net.UDPAddr
	conn     *net.UDPConn
	resolver Resolver
	status   atomic.Bool // running status

	serial atomic.Uint64
	wg     sync.WaitGroup
}

func New(ip net.IP, port int, resolver Resolver) (*Server, error) {

	if len(ip) == 0 {
		return nil, errors.New("invalid ip")
	}

	if port <= 0 {
		return nil, fmt.Errorf("invalid port=%d", port)
	}

	if resolver == nil {
		return nil, errors.New("nil resolver")
	}

	s := Server{
		address:  &net.UDPAddr{Port: port, IP: ip},
		resolver: resolver,
	}

	var err error
	if s.conn, err = net.ListenUDP("udp", s.address); err != nil {
		log.Sugar.Errorf("server udp [%s] listen error=[%+v]", s.address, err)
		return nil, err
	}

	return &s, nil
}

func (s *Server) Start() {
	s.status.Store(true)

	s.wg.Add(1)
	go func() {
		s.serve()
		s.wg.Done()
	}()

	log.Sugar.Infof("server running on %s ...", s.address)
}

func (s *Server) Stop() {
	log.Sugar.Info("server stopping")
	s.status.Store(false)

	if err := s.conn.Close(); err != nil {
		log.Sugar.Errorf("server udp connection close error=[%+v]", err)
	}

	s.wg.Wait()
	log.Sugar.Infof("server stopped, serial=%d", s.serial.Load())
}

// serve is the strictly sequential request loop.  A failing query never
// ends the loop, only a closed connection does.
func (s *Server) serve() {
	bytes := make([]byte, packet.Size)
	for {
		n, remote, err := s.conn.ReadFromUDP(bytes)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				log.Sugar.Warn("server read connection closed")
				break
			}
			log.Sugar.Error("server read error : ", err)
			continue
		}

		if n <= 0 {
			log.Sugar.Warn("server read 0 byte")
			continue
		}

		if !s.status.Load() {
			log.Sugar.Info("server read after stopped")
			break
		}

		reply := s.respond(bytes[:n], s.serial.Add(1))
		if reply == nil {
			continue
		}

		if _, err = s.conn.WriteToUDP(reply, remote); err != nil {
			log.Sugar.Errorf("server udp connection write error=[%+v]", err)
			continue
		}
	}
}
