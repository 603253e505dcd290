package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"termcalc/internal/observability"
	"termcalc/internal/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 16
)

// Stream handles GET /sessions/{id}/ws. The first frame is the current view;
// every text frame received is a KeysRequest answered with a KeysResponse,
// or an ErrorFrame when it cannot be applied. A quit key closes the socket
// and the session; a session deleted or expired elsewhere gets one last
// ErrorFrame and then a close frame.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx).With(zap.String("session_id", sess.ID))

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the client.
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()
	logger.Info("websocket connected")

	send := make(chan any, sendBuffer)
	done := make(chan struct{})
	go writePump(conn, send, done, logger)

	send <- KeysResponse{View: sess.View()}
	h.readPump(ctx, conn, sess, send, logger)

	close(send)
	<-done
	logger.Info("websocket disconnected")
}

func (h *Handler) readPump(ctx context.Context, conn *websocket.Conn, sess *session.Session, send chan<- any, logger *zap.Logger) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}

		var req KeysRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			countFrameError(ctx, "bad_frame")
			send <- ErrorFrame{Error: "invalid frame"}
			continue
		}

		resp, err := h.apply(ctx, sess, req)
		if errors.Is(err, session.ErrClosed) {
			countFrameError(ctx, "unknown_session")
			logger.Info("websocket session gone")
			send <- ErrorFrame{Error: "session not found"}
			return
		}
		if err != nil {
			countFrameError(ctx, "bad_request")
			send <- ErrorFrame{Error: err.Error()}
			continue
		}
		send <- resp
		if resp.Closed {
			return
		}
	}
}

func countFrameError(ctx context.Context, kind string) {
	requestErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// writePump is the connection's only writer. It drains send until it is
// closed, then sends a close frame. After a write failure it keeps draining
// so the reader never blocks.
func writePump(conn *websocket.Conn, send <-chan any, done chan<- struct{}, logger *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(done)
	}()

	for {
		select {
		case msg, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				logger.Warn("websocket write failed", zap.Error(err))
				conn.Close()
				for range send {
				}
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				for range send {
				}
				return
			}
		}
	}
}
