// Package remote serves calculator sessions over HTTP and websockets. Each
// session is driven by the same key mapping as the terminal frontend.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"termcalc/internal/calculator"
	"termcalc/internal/handlers"
	"termcalc/internal/keys"
	"termcalc/internal/observability"
	"termcalc/internal/session"
)

var tracer = otel.Tracer("calculator")

var errEmptyBatch = errors.New("no keys provided")

// errSessionGone wraps session.ErrClosed so callers answer as for an unknown
// session.
var errSessionGone = fmt.Errorf("session not found: %w", session.ErrClosed)

type Handler struct {
	store    *session.Store
	upgrader websocket.Upgrader
}

func NewHandler(store *session.Store) *Handler {
	return &Handler{
		store: store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// fail is the common rejection path for every endpoint.
func fail(w http.ResponseWriter, r *http.Request, status int, kind, msg string, err error) {
	ctx := r.Context()
	span := trace.SpanFromContext(ctx)
	observability.RecordError(ctx, span, observability.LoggerWithTrace(ctx), requestErrors, kind, msg, err, status, w)
}

// lookup resolves the {id} URL parameter, answering 404 itself on a miss.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := h.store.Get(id)
	if !ok {
		fail(w, r, http.StatusNotFound, "unknown_session", "session not found", fmt.Errorf("no session %q", id))
		return nil, false
	}
	return sess, true
}

// Create handles POST /sessions
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Create()
	if errors.Is(err, session.ErrCapacity) {
		fail(w, r, http.StatusServiceUnavailable, "capacity", "too many sessions", err)
		return
	}
	if err != nil {
		fail(w, r, http.StatusInternalServerError, "internal", "could not create session", err)
		return
	}

	observability.LoggerWithTrace(r.Context()).Info("session created",
		zap.String("session_id", sess.ID),
		zap.String("request_id", observability.RequestIDFromContext(r.Context())),
	)
	handlers.WriteJSON(w, http.StatusCreated, SessionResponse{ID: sess.ID, View: sess.View()})
}

// Get handles GET /sessions/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}
	handlers.WriteJSON(w, http.StatusOK, sess.View())
}

// Delete handles DELETE /sessions/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.store.Delete(id) {
		fail(w, r, http.StatusNotFound, "unknown_session", "session not found", fmt.Errorf("no session %q", id))
		return
	}
	observability.LoggerWithTrace(r.Context()).Info("session deleted", zap.String("session_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// Press handles POST /sessions/{id}/keys
func (h *Handler) Press(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req KeysRequest
	body := http.MaxBytesReader(w, r.Body, maxMessageSize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(w, r, http.StatusRequestEntityTooLarge, "too_large", "request body too large", err)
			return
		}
		fail(w, r, http.StatusBadRequest, "bad_request", "invalid request body", err)
		return
	}

	resp, err := h.apply(r.Context(), sess, req)
	if errors.Is(err, session.ErrClosed) {
		fail(w, r, http.StatusNotFound, "unknown_session", "session not found", err)
		return
	}
	if err != nil {
		fail(w, r, http.StatusBadRequest, "bad_request", err.Error(), err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// decodeKeys flattens a request into keys: named keys first, then the
// characters of the compact input.
func decodeKeys(req KeysRequest) ([]keys.Key, error) {
	ks, err := keys.ParseAll(req.Keys)
	if err != nil {
		return nil, err
	}
	ks = append(ks, keys.Split(req.Input)...)
	if len(ks) == 0 {
		return nil, errEmptyBatch
	}
	return ks, nil
}

// apply runs one batch of keys against sess inside a calculator.keys span,
// recording metrics for every outcome. A quit key deletes the session. It
// returns an error wrapping session.ErrClosed once the session is gone.
func (h *Handler) apply(ctx context.Context, sess *session.Session, req KeysRequest) (KeysResponse, error) {
	logger := observability.LoggerWithTrace(ctx)

	ks, err := decodeKeys(req)
	if err != nil {
		return KeysResponse{}, err
	}

	ctx, span := tracer.Start(ctx, "calculator.keys",
		trace.WithAttributes(
			attribute.String("session.id", sess.ID),
			attribute.Int("keys.count", len(ks)),
			attribute.String("request.id", observability.RequestIDFromContext(ctx)),
		),
	)
	defer span.End()

	start := time.Now()
	res, err := sess.Press(ks)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "session closed")
		return KeysResponse{}, errSessionGone
	}

	for _, out := range res.Outcomes {
		keysCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("action", out.Action.String())))

		if out.Err != nil {
			kind := calculator.KindOf(out.Err).String()
			engineErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
			span.AddEvent("calculator.error", trace.WithAttributes(
				attribute.String("kind", kind),
				attribute.String("message", out.Err.Error()),
			))
			logger.Info("calculator error",
				zap.String("session_id", sess.ID),
				zap.String("kind", kind),
				zap.Error(out.Err),
			)
		}
		if out.Evaluated {
			evalCounter.Add(ctx, 1)
		}
	}

	if len(res.Outcomes) > 0 && res.Outcomes[len(res.Outcomes)-1].Evaluated {
		if v, err := strconv.ParseFloat(res.View.Display, 64); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
			lastResultGauge.Record(ctx, v)
			span.AddEvent("evaluation.complete", trace.WithAttributes(attribute.Float64("result", v)))
		}
	}
	batchHistogram.Record(ctx, elapsed)

	if res.Quit {
		h.store.Delete(sess.ID)
	}

	span.SetAttributes(
		attribute.String("calculator.display", res.View.Display),
		attribute.Bool("calculator.error", res.View.Error),
		attribute.Bool("session.closed", res.Quit),
	)
	span.SetStatus(codes.Ok, "")

	logger.Info("keys applied",
		zap.String("session_id", sess.ID),
		zap.Int("keys", len(res.Outcomes)),
		zap.String("display", res.View.Display),
		zap.Bool("closed", res.Quit),
		zap.Float64("duration_ms", elapsed),
	)

	return KeysResponse{View: res.View, Applied: len(res.Outcomes), Closed: res.Quit}, nil
}
