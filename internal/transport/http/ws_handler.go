package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"wiki-quiz-engine/internal/app"
	"wiki-quiz-engine/internal/domain"
)

var (
	errInvalidPayload = errors.New("invalid payload")
	errUnsupported    = errors.New("unsupported message type")
)

type WSHandler struct {
	service  *app.ShellService
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.ShellService, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		log:     log.Named("ws"),
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

type generatePayload struct {
	URL string `json:"url"`
}

type selectPayload struct {
	QuestionIndex *int   `json:"questionIndex"`
	Option        string `json:"option"`
}

type openDetailPayload struct {
	ID domain.QuizID `json:"id"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type sessionPayload struct {
	ID string `json:"id"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs one independent shell session for the
// lifetime of the connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	session := h.service.Start(ctx)
	defer h.service.End(context.Background(), session.ID)
	log := h.log.With(zap.String("session", session.ID))

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	var forwarders, workers sync.WaitGroup

	go func() {
		defer close(writerDone)
		failed := false
		for msg := range send {
			if failed {
				continue
			}
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("ws write error", zap.Error(err))
				failed = true
				cancel()
			}
		}
	}()

	send <- outboundMessage[any]{Type: "session", Payload: sessionPayload{ID: session.ID}}

	quizUpdates, stopQuiz := session.Quiz.Subscribe()
	defer stopQuiz()
	generationUpdates, stopGeneration := session.Generator.Subscribe()
	defer stopGeneration()
	historyUpdates, stopHistory := session.History.Subscribe()
	defer stopHistory()
	overlayUpdates, stopOverlay := session.Overlay.Subscribe()
	defer stopOverlay()

	forward(&forwarders, "quiz", quizUpdates, send, closeSignals)
	forward(&forwarders, "generation", generationUpdates, send, closeSignals)
	forward(&forwarders, "history", historyUpdates, send, closeSignals)
	forward(&forwarders, "overlay", overlayUpdates, send, closeSignals)

	reply := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-ctx.Done():
		}
	}
	fail := func(err error) {
		reply(outboundMessage[any]{Type: "error", Payload: errorPayload{Message: domain.UserMessage(err)}})
	}
	// Remote-backed commands run off the read loop so that close and reopen
	// requests are handled while a fetch is pending. Their outcome reaches the
	// client through the component feeds.
	async := func(op string, fn func(context.Context) error) {
		workers.Add(1)
		go func() {
			defer workers.Done()
			if err := fn(ctx); err != nil && !app.IsStale(err) {
				log.Debug("command failed", zap.String("op", op), zap.Error(err))
			}
		}()
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.service.Touch(ctx, session.ID)

		switch inbound.Type {
		case "generate":
			var payload generatePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				fail(errInvalidPayload)
				continue
			}
			async("generate", func(ctx context.Context) error {
				return session.Generator.Generate(ctx, payload.URL)
			})
		case "toggleMode":
			if err := session.Quiz.ToggleMode(); err != nil {
				fail(err)
			}
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.QuestionIndex == nil {
				fail(errInvalidPayload)
				continue
			}
			if err := session.Quiz.Select(*payload.QuestionIndex, payload.Option); err != nil {
				fail(err)
			}
		case "submit":
			if _, err := session.Quiz.Submit(); err != nil {
				fail(err)
			}
		case "render":
			snap, err := session.Quiz.Render()
			if err != nil {
				fail(err)
				continue
			}
			reply(outboundMessage[any]{Type: "quiz", Payload: snap})
		case "loadHistory":
			async("loadHistory", session.ActivateHistory)
		case "openDetail":
			var payload openDetailPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.ID == "" {
				fail(errInvalidPayload)
				continue
			}
			async("openDetail", func(ctx context.Context) error {
				return session.OpenDetail(ctx, payload.ID)
			})
		case "closeDetail":
			session.Overlay.Close()
		default:
			fail(errUnsupported)
		}
	}

	cancel()
	workers.Wait()
	close(closeSignals)
	forwarders.Wait()
	close(send)
	<-writerDone
}

func forward[T any](wg *sync.WaitGroup, typ string, updates <-chan T, send chan<- outboundMessage[any], closeSignals <-chan struct{}) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: typ, Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()
}
