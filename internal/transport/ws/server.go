// Package ws exposes the session to presentation clients over a
// websocket: STATE pushes out, schema-validated ACT messages in.
package ws

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"sprout.farm/internal/protocol"
	"sprout.farm/internal/sim/session"
)

type Server struct {
	sess    *session.Session
	log     *log.Logger
	welcome protocol.WelcomeMsg

	actSchema *jsonschema.Schema

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[chan []byte]struct{}
}

// NewServer compiles the ACT schema up front; a broken schema file is a
// startup error, not a per-message one.
func NewServer(sess *session.Session, welcome protocol.WelcomeMsg, schemaPath string, logger *log.Logger) (*Server, error) {
	actSchema, err := jsonschema.Compile(schemaPath)
	if err != nil {
		return nil, err
	}
	s := &Server{
		sess:      sess,
		log:       logger,
		welcome:   welcome,
		actSchema: actSchema,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		clients: map[chan []byte]struct{}{},
	}
	return s, nil
}

// Broadcast fans a serialized message out to every connected client.
// Slow clients drop frames rather than stall the sender.
func (s *Server) Broadcast(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for out := range s.clients {
		select {
		case out <- b:
		default:
		}
	}
}

func (s *Server) addClient(out chan []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[out] = struct{}{}
}

func (s *Server) removeClient(out chan []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, out)
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			s.log.Printf("ws upgrade: %v", err)
			return
		}
		defer conn.Close()

		out, ok := s.handshake(conn)
		if !ok {
			return
		}
		s.addClient(out)
		defer s.removeClient(out)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				return
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeAct {
				continue
			}

			ack, ok := s.applyAct(msg)
			if !ok {
				continue
			}
			if b, err := json.Marshal(ack); err == nil {
				select {
				case out <- b:
				default:
				}
			}
		}
	}
}

// applyAct validates the raw message against the compiled schema, then
// hands it to the session loop and waits for the ack.
func (s *Server) applyAct(msg []byte) (protocol.AckMsg, bool) {
	var generic any
	if err := json.NewDecoder(bytes.NewReader(msg)).Decode(&generic); err != nil {
		return protocol.AckMsg{}, false
	}
	var act protocol.ActMsg
	if err := json.Unmarshal(msg, &act); err != nil {
		return protocol.AckMsg{}, false
	}
	if act.ProtocolVersion != protocol.Version {
		return protocol.AckMsg{}, false
	}
	if err := s.actSchema.Validate(generic); err != nil {
		return protocol.AckMsg{
			Type:            protocol.TypeAck,
			ProtocolVersion: protocol.Version,
			AckFor:          act.ID,
			Code:            protocol.ErrProtoBadRequest,
		}, true
	}

	resp := make(chan protocol.AckMsg, 1)
	select {
	case s.sess.Inbox() <- session.ActionRequest{Act: act, Resp: resp}:
	case <-time.After(2 * time.Second):
		return protocol.AckMsg{}, false
	}
	select {
	case ack := <-resp:
		return ack, true
	case <-time.After(2 * time.Second):
		return protocol.AckMsg{}, false
	}
}

func (s *Server) handshake(conn *websocket.Conn) (chan []byte, bool) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil, false
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"),
			time.Now().Add(time.Second))
		return nil, false
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return nil, false
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "protocol version mismatch"),
			time.Now().Add(time.Second))
		return nil, false
	}

	b, err := json.Marshal(s.welcome)
	if err != nil {
		return nil, false
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		return nil, false
	}

	return make(chan []byte, 64), true
}
