package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// Handler serves the calculator HTTP API backed by a session store.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// ---------------------------------------------------------------------------
// Handlers — stateless
// ---------------------------------------------------------------------------

// Layout handles GET /calculator/layout
func (h *Handler) Layout(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, LayoutResponse{Rows: LayoutRows()})
}

// Evaluate handles POST /calculator/evaluate — runs a key sequence on a fresh
// calculator, creating a child span for every key.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	keys, ok := decodeKeys(w, r, span, "evaluate")
	if !ok {
		return
	}

	span.SetAttributes(attribute.Int("calculator.keys_count", len(keys)))

	start := time.Now()
	calc := New(logger)
	calc.Observe(keyObserver(ctx, "evaluate"))
	final, ignored := calc.Run(keys...)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	dispatchHistogram.Record(ctx, elapsed, metric.WithAttributes(attribute.String("operation", "evaluate")))

	span.AddEvent("evaluate.complete", trace.WithAttributes(
		attribute.String("display", final.Display()),
		attribute.Int("ignored", len(ignored)),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("key sequence evaluated",
		zap.Int("keys", len(keys)),
		zap.Int("ignored", len(ignored)),
		zap.String("display", final.Display()),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, newStateResponse("", final, ignored))
}

// ---------------------------------------------------------------------------
// Handlers — sessions
// ---------------------------------------------------------------------------

// CreateSession handles POST /calculator/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	id, state := h.store.Create()

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("calculator.session_id", id))
	logger.Info("calculator session created",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusCreated, newStateResponse(id, state, nil))
}

// GetSession handles GET /calculator/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	state, err := h.store.Get(id)
	if err != nil {
		h.sessionError(w, r, "get", err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, newStateResponse(id, state, nil))
}

// DeleteSession handles DELETE /calculator/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Delete(id); err != nil {
		h.sessionError(w, r, "delete", err)
		return
	}

	observability.LoggerWithTrace(r.Context()).Info("calculator session deleted",
		zap.String("session_id", id),
		zap.String("request_id", observability.RequestIDFromContext(r.Context())),
	)
	w.WriteHeader(http.StatusNoContent)
}

// ClearSession handles POST /calculator/sessions/{id}/clear
func (h *Handler) ClearSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	state, err := h.store.Reset(id)
	if err != nil {
		h.sessionError(w, r, "clear", err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, newStateResponse(id, state, nil))
}

// PressKeys handles POST /calculator/sessions/{id}/keys
func (h *Handler) PressKeys(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)
	id := chi.URLParam(r, "id")

	ctx, span := tracer.Start(ctx, "calculator.keys",
		trace.WithAttributes(
			attribute.String("calculator.session_id", id),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	keys, ok := decodeKeys(w, r, span, "keys")
	if !ok {
		return
	}

	start := time.Now()
	state, ignored, err := h.store.DispatchObserved(id, keyObserver(ctx, "keys"), keys...)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	if err != nil {
		status, msg := http.StatusInternalServerError, "dispatch failed"
		if errors.Is(err, ErrSessionNotFound) {
			status, msg = http.StatusNotFound, "session not found"
		}
		observability.RecordError(ctx, span, logger, errorCounter, "keys", msg, err, status, w)
		return
	}

	dispatchHistogram.Record(ctx, elapsed, metric.WithAttributes(attribute.String("operation", "keys")))

	span.SetAttributes(
		attribute.Int("calculator.keys_count", len(keys)),
		attribute.String("calculator.display", state.Display()),
	)
	span.SetStatus(codes.Ok, "")

	logger.Info("keys dispatched",
		zap.String("session_id", id),
		zap.Int("keys", len(keys)),
		zap.Int("ignored", len(ignored)),
		zap.String("display", state.Display()),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, newStateResponse(id, state, ignored))
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// keyObserver returns an Observer that records a child span and metrics for
// every applied key.
func keyObserver(ctx context.Context, opName string) Observer {
	step := 0
	return func(prev, next State, in Input) {
		_, keySpan := tracer.Start(ctx, fmt.Sprintf("calculator.%s.key.%d", opName, step),
			trace.WithAttributes(
				attribute.Int("calculator.key.index", step),
				attribute.String("calculator.key.label", in.Label()),
				attribute.String("calculator.key.kind", in.Kind.String()),
				attribute.String("calculator.key.input", prev.CurrentOperand),
			),
		)
		step++

		keysCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", in.Kind.String())))

		evaluated := prev.HasPending() && (in.Kind == KindEquals || in.Kind == KindBinaryOp)
		if evaluated {
			result := next.CurrentOperand
			if in.Kind == KindBinaryOp {
				result = next.FirstOperand
			}

			opAttrs := metric.WithAttributes(attribute.String("operation", string(prev.PendingOperator)))
			evaluationCounter.Add(ctx, 1, opAttrs)

			if result == ErrorText {
				errorCounter.Add(ctx, 1, opAttrs)
				keySpan.AddEvent("evaluation.error", trace.WithAttributes(
					attribute.String("first_operand", prev.FirstOperand),
					attribute.String("second_operand", prev.CurrentOperand),
				))
			} else if v, err := strconv.ParseFloat(result, 64); err == nil {
				resultGauge.Record(ctx, v, opAttrs)
			}

			keySpan.SetAttributes(attribute.String("calculator.key.result", result))
		}

		keySpan.SetAttributes(attribute.String("calculator.key.output", next.CurrentOperand))
		keySpan.SetStatus(codes.Ok, "")
		keySpan.End()
	}
}

func decodeKeys(w http.ResponseWriter, r *http.Request, span trace.Span, opName string) ([]string, bool) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)

	var req KeysRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return nil, false
	}

	if len(req.Keys) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "no keys provided", fmt.Errorf("keys array is empty"), http.StatusBadRequest, w)
		return nil, false
	}

	return req.Keys, true
}

func (h *Handler) sessionError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	logger := observability.LoggerWithTrace(r.Context())

	if errors.Is(err, ErrSessionNotFound) {
		logger.Warn("calculator session not found",
			zap.String("operation", opName),
			zap.Error(err),
			zap.String("request_id", observability.RequestIDFromContext(r.Context())),
		)
		handlers.WriteError(w, http.StatusNotFound, "session not found")
		return
	}

	logger.Error("calculator session failed",
		zap.String("operation", opName),
		zap.Error(err),
	)
	handlers.WriteError(w, http.StatusInternalServerError, "internal error")
}
