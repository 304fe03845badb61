package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"

	"quiz-room-service/internal/app"
	"quiz-room-service/internal/domain"
)

// Connection roles. Teams may send answers and ready flags; screens and
// hosts only listen.
const (
	RoleTeam   = "team"
	RoleScreen = "screen"
	RoleHost   = "host"
)

type WSHandler struct {
	service  *app.RoomService
	limiter  *AnswerLimiter
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewWSHandler(service *app.RoomService, limiter *AnswerLimiter, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		limiter: limiter,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Value any `json:"value"`
}

type readyPayload struct {
	Ready bool `json:"ready"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades /rooms/:code/ws and streams the room's events. A team
// connection (role=team with teamId and/or name) joins the room first.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code, err := app.NormalizeCode(ps.ByName("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	role := q.Get("role")
	if role == "" {
		role = RoleTeam
	}

	var team domain.Team
	switch role {
	case RoleTeam:
		team, err = h.service.Join(r.Context(), code, q.Get("teamId"), q.Get("name"))
	case RoleScreen, RoleHost:
		_, err = h.service.Snapshot(r.Context(), code)
	default:
		err = fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Str("room", code).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	if role == RoleTeam {
		if err := conn.WriteJSON(outboundMessage[domain.Team]{Type: "joined", Payload: team}); err != nil {
			return
		}
	}

	events, cancel, err := h.service.Subscribe(r.Context(), code)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug().Err(err).Str("room", code).Msg("ws write error")
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					// room evicted: unblock the reader
					_ = conn.Close()
					return
				}
				select {
				case send <- outboundMessage[any]{Type: string(ev.Type), Payload: ev.Payload}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	reply := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if role != RoleTeam {
			reply(errorMessage(fmt.Errorf("%w: %s connections are read-only", domain.ErrInvalidInput, role)))
			continue
		}
		switch inbound.Type {
		case "answer":
			if err := h.service.CheckTeam(r.Context(), code, team.ID); err != nil {
				reply(errorMessage(err))
				continue
			}
			if !h.limiter.Allow(code, team.ID) {
				reply(errorMessage(errRateLimited))
				continue
			}
			var payload answerPayload
			if err := decodeRaw(inbound.Payload, &payload); err != nil {
				reply(errorMessage(err))
				continue
			}
			entry, err := h.service.SubmitAnswer(r.Context(), code, team.ID, payload.Value)
			if err != nil {
				reply(errorMessage(err))
				continue
			}
			reply(outboundMessage[any]{Type: "answer-accepted", Payload: entry})
		case "ready":
			var payload readyPayload
			if err := decodeRaw(inbound.Payload, &payload); err != nil {
				reply(errorMessage(err))
				continue
			}
			if _, err := h.service.SetReady(r.Context(), code, team.ID, payload.Ready); err != nil {
				reply(errorMessage(err))
			}
		default:
			reply(errorMessage(fmt.Errorf("%w: unsupported message type %q", domain.ErrInvalidInput, inbound.Type)))
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}

func decodeRaw(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing payload", domain.ErrInvalidInput)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func errorMessage(err error) outboundMessage[any] {
	_, code := statusFor(err)
	msg := err.Error()
	if code == "internal" {
		msg = "internal error"
	}
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg, Code: code}}
}
