package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"quiz-runner/internal/app"
	"quiz-runner/internal/domain"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
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
	Text string `json:"text"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type sessionPayload struct {
	SessionID string `json:"sessionId"`
}

// ServeWS upgrades HTTP requests to websockets and gives each connection its own quiz session.
// Inbound:  {"type":"answer","payload":{"text":"2"}}, {"type":"replay"}
// Outbound: session, questionShown, timeUpdated, answerFeedback, sessionFinished, error
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	bankID := r.URL.Query().Get("bankId")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 64)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})

	push := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		case <-closeSignals:
		}
	}
	sink := app.EventSinkFunc(func(ev domain.Event) {
		push(outboundMessage[any]{Type: ev.EventType(), Payload: ev})
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine, err := h.service.Open(ctx, bankID, sink)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Close(engine.ID())

	// Only this goroutine writes to conn.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "session", Payload: sessionPayload{SessionID: engine.ID()}}

	engineDone := make(chan error, 1)
	go func() { engineDone <- engine.Run(ctx) }()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.service.Touch(ctx, engine.ID())
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}})
				continue
			}
			err = engine.Submit(ctx, payload.Text)
		case "replay":
			err = engine.Replay(ctx)
		default:
			push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
			continue
		}
		if err != nil {
			push(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		}
	}

	cancel()
	close(closeSignals)
	if err := <-engineDone; err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("session %s: %v", engine.ID(), err)
	}
	close(send)
	<-writerDone
}
