package udp

import (
	"encoding/binary"

	"godig/log"
	"godig/message"
	"godig/packet"
)

// respond builds the reply datagram for one raw request.  A nil return
// means the request is dropped without an answer.
func (s *Server) respond(raw []byte, sn uint64) []byte {
	request, err := message.Decode(packet.From(raw))
	if err != nil {
		log.Sugar.Errorf("sn=%d server unpack error=[%+v]", sn, err)
		if len(raw) < 2 {
			return nil
		}
		// The id survived even though the rest of the message did not.
		return s.pack(&message.Message{Header: message.Header{
			ID:                 binary.BigEndian.Uint16(raw),
			Response:           true,
			RecursionAvailable: true,
			RCode:              message.RCodeServFail,
		}}, sn)
	}

	reply := message.Message{Header: message.Header{
		ID:                 request.Header.ID,
		RecursionDesired:   true,
		RecursionAvailable: true,
		Response:           true,
	}}

	switch {
	case len(request.Questions) == 0:
		log.Sugar.Warnf("sn=%d, id=%d no question", sn, request.Header.ID)
		reply.Header.RCode = message.RCodeFormErr

	default:
		question := request.Questions[0]
		log.Sugar.Infof("sn=%d, id=%d, query=[%s %s]", sn, request.Header.ID, question.Name, question.Type)

		result, err := s.resolver.Resolve(question.Name, question.Type)
		if err != nil {
			log.Sugar.Errorf("sn=%d, id=%d resolve error=[%+v]", sn, request.Header.ID, err)
			reply.Header.RCode = message.RCodeServFail
			break
		}

		reply.Questions = append(reply.Questions, question)
		reply.Header.RCode = result.Header.RCode
		reply.Answers = result.Answers
		reply.Authorities = result.Authorities
		reply.Additionals = result.Additionals

		log.Sugar.Infof("sn=%d, id=%d, %s answer %d", sn, request.Header.ID, reply.Header.RCode, len(reply.Answers))
	}

	return s.pack(&reply, sn)
}

func (s *Server) pack(reply *message.Message, sn uint64) []byte {
	buffer := packet.New()
	if err := reply.Write(buffer); err != nil {
		log.Sugar.Errorf("sn=%d, id=%d response pack error=[%+v]", sn, reply.Header.ID, err)
		return nil
	}
	return buffer.Bytes()
}
