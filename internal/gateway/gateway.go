package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/moa-plans/agriplan/internal/api"
)

// Candidate describes one endpoint variant for a logical operation. The
// executor tries candidates in order until one accepts the request.
//
// Terminal marks a candidate whose NotFound response means the target
// record itself is gone, not that the route guess was wrong; such a
// NotFound is surfaced instead of falling through to the next candidate.
type Candidate struct {
	Method   string
	Path     string
	Query    url.Values
	Terminal bool
}

// Event is a gateway-level occurrence worth surfacing in diagnostics.
type Event struct {
	Type      EventType
	Operation string
	Detail    string
}

type EventType string

const (
	// EventFallbackExhausted fires when every candidate of an operation
	// failed and an aggregated error was synthesized.
	EventFallbackExhausted EventType = "fallback_exhausted"

	// EventDegradedProbe fires when a dedicated usage endpoint was absent
	// and dependent counts were derived by cross-querying collections.
	EventDegradedProbe EventType = "degraded_probe"

	// EventRemediationPass fires when cascade endpoints were exhausted
	// and the best-effort client-side remediation walk started.
	EventRemediationPass EventType = "remediation_pass"
)

// Observer receives gateway events for logging.
type Observer interface {
	OnGatewayEvent(event Event)
}

// LogObserver writes gateway events to an io.Writer.
type LogObserver struct {
	w io.Writer
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{w: w}
}

func (o *LogObserver) OnGatewayEvent(event Event) {
	ts := time.Now().UTC().Format(time.RFC3339)
	fmt.Fprintf(o.w, "[%s] gateway type=%s op=%q detail=%s\n", ts, event.Type, event.Operation, event.Detail)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnGatewayEvent(Event) {}

// Gateway wraps write operations whose exact backend route is uncertain,
// and owns the dependency-aware deletion protocol for units and
// indicators. It signals success or a classified failure; cached query
// state is the caller's to invalidate.
type Gateway struct {
	client   *api.Client
	observer Observer
}

// New creates a Gateway over the shared transport.
func New(client *api.Client, observer Observer) *Gateway {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Gateway{client: client, observer: observer}
}

// Execute tries each candidate in order, strictly sequentially, and
// returns the first success. Authorization failures abort the sequence
// immediately: they reflect permission, not routing, and retrying them
// against other endpoints would be noise at best. Every other failure is
// recorded and the next candidate is tried. When all candidates are
// exhausted an *api.AggregateError is returned listing each attempt.
//
// One fallback pass shares a single client-generated request ID so the
// server can correlate (and deduplicate) the probing writes.
func (g *Gateway) Execute(ctx context.Context, operation string, candidates []Candidate, body, out any) error {
	requestID := uuid.New().String()
	header := http.Header{"X-Request-Id": []string{requestID}}

	var attempts []api.Attempt
	for _, cand := range candidates {
		err := g.client.Do(ctx, api.Request{
			Method: cand.Method,
			Path:   cand.Path,
			Query:  cand.Query,
			Body:   body,
			Header: header,
		}, out)
		if err == nil {
			return nil
		}

		apiErr := asAPIError(cand.Method, cand.Path, err)
		if api.IsAuthFailure(apiErr) {
			return apiErr
		}
		if cand.Terminal && apiErr.Kind == api.KindNotFound {
			return apiErr
		}
		attempts = append(attempts, api.Attempt{Method: cand.Method, Path: cand.Path, Err: apiErr})
	}

	agg := &api.AggregateError{Operation: operation, Attempts: attempts}
	g.observer.OnGatewayEvent(Event{
		Type:      EventFallbackExhausted,
		Operation: operation,
		Detail:    fmt.Sprintf("%d candidates failed", len(attempts)),
	})
	return agg
}

// asAPIError normalizes any transport error into *api.Error so attempt
// lists stay uniformly classified.
func asAPIError(method, path string, err error) *api.Error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &api.Error{
		Kind:    api.KindUnavailable,
		Method:  method,
		Path:    path,
		Message: err.Error(),
	}
}
