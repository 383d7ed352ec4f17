package speech

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"homevoice/internal/domain"
	"homevoice/internal/ports"
)

// Config controls the STT gateway connection.
type Config struct {
	GatewayURL string
	APIKey     string
	Language   string
}

// Engine implements ports.RecognitionEngine over a websocket STT gateway.
// The gateway speaks a Web-Speech-style contract: a started frame, result
// frames carrying the full concatenated hypothesis, then an end or error
// frame.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.Language == "" {
		cfg.Language = "zh-CN"
	}
	return &Engine{cfg: cfg}
}

// Available reports whether a gateway is configured. Absence is a non-fatal
// capability gap; typed input still works.
func (e *Engine) Available() bool {
	return strings.TrimSpace(e.cfg.GatewayURL) != ""
}

func (e *Engine) Start(ctx context.Context, cfg ports.RecognitionConfig) (ports.RecognitionSession, error) {
	if !e.Available() {
		return nil, ports.ErrCapabilityUnavailable
	}

	headers := http.Header{}
	if e.cfg.APIKey != "" {
		headers.Set("Authorization", "Token "+e.cfg.APIKey)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, e.cfg.GatewayURL, headers)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrCapabilityUnavailable, err)
	}

	language := cfg.Language
	if language == "" {
		language = e.cfg.Language
	}
	start := gatewayFrame{
		Type:           "start",
		Language:       language,
		InterimResults: cfg.InterimResults,
	}
	if err := conn.WriteJSON(start); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open recognition session: %w", err)
	}

	session := &recognitionSession{
		conn:   conn,
		events: make(chan domain.RecognitionEvent, 64),
		done:   make(chan struct{}),
	}

	go session.readLoop()
	go func() {
		<-ctx.Done()
		_ = session.Close()
	}()

	return session, nil
}

type recognitionSession struct {
	conn *websocket.Conn

	events chan domain.RecognitionEvent
	done   chan struct{}

	writeMu   sync.Mutex
	stopOnce  sync.Once
	closeOnce sync.Once
}

func (s *recognitionSession) Events() <-chan domain.RecognitionEvent {
	return s.events
}

// Stop asks the gateway to finish the session; the end notification arrives
// on the event channel afterwards.
func (s *recognitionSession) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		err = s.conn.WriteJSON(gatewayFrame{Type: "stop"})
	})
	return err
}

func (s *recognitionSession) Close() error {
	s.closeOnce.Do(func() {
		_ = s.Stop()
		_ = s.conn.Close()
	})
	return nil
}

func (s *recognitionSession) readLoop() {
	defer func() {
		close(s.done)
		close(s.events)
		_ = s.conn.Close()
	}()

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if !isExpectedClose(err) {
				s.emit(domain.RecognitionEvent{
					Kind: domain.RecognitionError,
					Code: fmt.Sprintf("gateway: %v", err),
				})
			}
			s.emit(domain.RecognitionEvent{Kind: domain.RecognitionEnded})
			return
		}

		var frame gatewayFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			continue
		}

		switch strings.ToLower(frame.Type) {
		case "started":
			s.emit(domain.RecognitionEvent{Kind: domain.RecognitionStarted})
		case "result":
			s.emit(domain.RecognitionEvent{Kind: domain.RecognitionResult, Text: frame.Transcript})
		case "error":
			code := frame.Code
			if code == "" {
				code = strings.TrimSpace(frame.Message)
			}
			s.emit(domain.RecognitionEvent{Kind: domain.RecognitionError, Code: code})
		case "end":
			s.emit(domain.RecognitionEvent{Kind: domain.RecognitionEnded})
			return
		}
	}
}

func (s *recognitionSession) emit(event domain.RecognitionEvent) {
	select {
	case s.events <- event:
	default:
	}
}

func isExpectedClose(err error) bool {
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	) {
		return true
	}
	return errors.Is(err, websocket.ErrCloseSent)
}

// gatewayFrame is the wire format in both directions.
type gatewayFrame struct {
	Type           string `json:"type"`
	Language       string `json:"language,omitempty"`
	InterimResults bool   `json:"interim_results,omitempty"`
	Transcript     string `json:"transcript,omitempty"`
	Code           string `json:"code,omitempty"`
	Message        string `json:"message,omitempty"`
}
