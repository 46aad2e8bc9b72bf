package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies a failed API call into the closed taxonomy the rest of
// the client works with. Raw transport and response details never escape
// this package unclassified.
type Kind string

const (
	// KindUnavailable indicates the backend could not be reached at all.
	KindUnavailable Kind = "UNAVAILABLE"

	// KindUnauthenticated indicates a missing or rejected token.
	KindUnauthenticated Kind = "UNAUTHENTICATED"

	// KindForbidden indicates the caller is authenticated but lacks the
	// role or ownership the operation requires.
	KindForbidden Kind = "FORBIDDEN"

	// KindNotFound indicates the target resource or route is absent.
	KindNotFound Kind = "NOT_FOUND"

	// KindValidation indicates a structured rejection of the request
	// payload, possibly with per-field messages.
	KindValidation Kind = "VALIDATION"

	// KindServerFault indicates a 5xx, or an HTML error page where JSON
	// was expected, which usually means the backend crashed rather than
	// returned a handled error.
	KindServerFault Kind = "SERVER_FAULT"

	// KindAggregated is synthesized when every candidate endpoint of a
	// fallback sequence failed.
	KindAggregated Kind = "AGGREGATED"
)

// Error is a classified API failure.
type Error struct {
	Kind       Kind
	StatusCode int // zero for transport-level failures
	Method     string
	Path       string
	Message    string
	Fields     map[string][]string // per-field validation messages, if any
	HTMLBody   bool                // body was HTML where JSON was expected
	cause      error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s", e.Method, e.Path, e.Kind)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (%d)", e.StatusCode)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	if len(e.Fields) > 0 {
		b.WriteString(": ")
		b.WriteString(e.FieldSummary())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.cause }

// FieldSummary flattens per-field validation messages into one line,
// fields sorted for stable output.
func (e *Error) FieldSummary() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(e.Fields[name], "; ")))
	}
	return strings.Join(parts, ", ")
}

// UserMessage returns the short human-readable message for the error's
// kind. ServerFault messages are verbose by design: they describe an
// integration problem the user cannot fix by editing their input.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindUnavailable:
		return "The planning service could not be reached. Check your connection and the API address."
	case KindUnauthenticated:
		return "Your session has expired or is invalid. Please sign in again."
	case KindForbidden:
		return "You do not have permission to perform this action."
	case KindNotFound:
		return "The requested record was not found."
	case KindValidation:
		if len(e.Fields) > 0 {
			return "The server rejected the submitted values: " + e.FieldSummary()
		}
		if e.Message != "" {
			return e.Message
		}
		return "The server rejected the request."
	case KindServerFault:
		if e.HTMLBody {
			return fmt.Sprintf("The server crashed while handling %s %s and returned an error page instead of data. "+
				"This often means a dependent record blocks the operation; a force delete may be required.", e.Method, e.Path)
		}
		return fmt.Sprintf("The server failed internally on %s %s (status %d). "+
			"This may indicate a dependency conflict or a backend fault; retry or try a force delete.", e.Method, e.Path, e.StatusCode)
	default:
		if e.Message != "" {
			return e.Message
		}
		return "The request failed."
	}
}

// KindOf extracts the classification from any error chain. Unclassified
// errors report KindUnavailable, the most conservative reading.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	var agg *AggregateError
	if errors.As(err, &agg) {
		return KindAggregated
	}
	return KindUnavailable
}

// IsAuthFailure reports whether the error reflects permission rather than
// routing. Fallback sequences abort on these instead of trying further
// candidates.
func IsAuthFailure(err error) bool {
	k := KindOf(err)
	return k == KindUnauthenticated || k == KindForbidden
}

// Attempt records one failed candidate inside an aggregated failure.
type Attempt struct {
	Method string
	Path   string
	Err    *Error
}

// AggregateError is returned when every candidate endpoint of a fallback
// sequence failed. It lists the attempts in the order they were made so
// the operator can see exactly which routes were probed.
type AggregateError struct {
	Operation string
	Attempts  []Attempt
}

func (e *AggregateError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: no endpoint accepted the operation (%d attempted)", e.Operation, len(e.Attempts))
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "\n  %s %s -> %s", a.Method, a.Path, a.Err.Kind)
		if a.Err.StatusCode != 0 {
			fmt.Fprintf(&b, " (%d)", a.Err.StatusCode)
		}
	}
	return b.String()
}

// UserMessage describes the aggregated failure verbosely: it names every
// attempted endpoint because the condition indicates the server does not
// support the operation, not that the user did something wrong.
func (e *AggregateError) UserMessage() string {
	paths := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		paths = append(paths, a.Path)
	}
	return fmt.Sprintf("The server does not appear to support %q. Tried: %s.",
		e.Operation, strings.Join(paths, ", "))
}

// classify maps a non-2xx response into an *Error. The body is inspected
// for the backend's known error shapes: {"error": ...}, {"detail": ...},
// {"non_field_errors": [...]}, and field->messages maps.
func classify(method, path string, status int, body []byte) *Error {
	e := &Error{
		Method:     method,
		Path:       path,
		StatusCode: status,
	}

	if looksLikeHTML(body) {
		e.Kind = KindServerFault
		e.HTMLBody = true
		e.Message = "HTML error page where JSON was expected"
		return e
	}

	message, fields := parseErrorBody(body)
	e.Message = message
	e.Fields = fields

	switch {
	case status == 401:
		e.Kind = KindUnauthenticated
	case status == 403:
		e.Kind = KindForbidden
	case status == 404:
		e.Kind = KindNotFound
	case status >= 500:
		e.Kind = KindServerFault
	default:
		e.Kind = KindValidation
	}
	return e
}

// transportError wraps a network-level failure (connection refused, DNS,
// timeout) as KindUnavailable.
func transportError(method, path string, err error) *Error {
	return &Error{
		Kind:    KindUnavailable,
		Method:  method,
		Path:    path,
		Message: err.Error(),
		cause:   err,
	}
}

func looksLikeHTML(body []byte) bool {
	trimmed := strings.TrimSpace(string(body))
	return strings.HasPrefix(trimmed, "<!DOCTYPE") ||
		strings.HasPrefix(trimmed, "<!doctype") ||
		strings.HasPrefix(trimmed, "<html") ||
		strings.HasPrefix(trimmed, "<HTML")
}

// parseErrorBody extracts a top-level message and any per-field messages
// from a JSON error body. Unknown shapes degrade to the raw body text.
func parseErrorBody(body []byte) (string, map[string][]string) {
	if len(body) == 0 {
		return "", nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return strings.TrimSpace(string(body)), nil
	}

	var message string
	for _, key := range []string{"error", "detail"} {
		var s string
		if v, ok := raw[key]; ok && json.Unmarshal(v, &s) == nil {
			message = s
			delete(raw, key)
			break
		}
	}

	if v, ok := raw["non_field_errors"]; ok {
		var msgs []string
		if json.Unmarshal(v, &msgs) == nil && len(msgs) > 0 {
			if message == "" {
				message = strings.Join(msgs, "; ")
			}
			delete(raw, "non_field_errors")
		}
	}

	fields := make(map[string][]string)
	for key, v := range raw {
		var msgs []string
		if json.Unmarshal(v, &msgs) == nil {
			fields[key] = msgs
			continue
		}
		var s string
		if json.Unmarshal(v, &s) == nil {
			fields[key] = []string{s}
		}
	}
	if len(fields) == 0 {
		fields = nil
	}
	return message, fields
}
