package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Kind
	}{
		{"unauthenticated", 401, `{"detail": "Invalid token."}`, KindUnauthenticated},
		{"forbidden", 403, `{"detail": "You do not have permission."}`, KindForbidden},
		{"not found", 404, `{"detail": "Not found."}`, KindNotFound},
		{"bad request", 400, `{"error": "Year is required."}`, KindValidation},
		{"conflict", 409, `{"error": "Plan already exists for this year."}`, KindValidation},
		{"server fault", 500, `{"detail": "internal error"}`, KindServerFault},
		{"bad gateway", 502, ``, KindServerFault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("POST", "/units/", tt.status, []byte(tt.body))
			assert.Equal(t, tt.want, err.Kind)
		})
	}
}

func TestClassify_HTMLBodyIsServerFault(t *testing.T) {
	body := []byte("<!DOCTYPE html>\n<html><head><title>Server Error (500)</title></head></html>")

	err := classify("DELETE", "/units/7/", 500, body)

	assert.Equal(t, KindServerFault, err.Kind)
	assert.True(t, err.HTMLBody)
	assert.Contains(t, err.UserMessage(), "error page")
	assert.Contains(t, err.UserMessage(), "force delete")
}

func TestClassify_HTMLBodyOnClientStatusStillServerFault(t *testing.T) {
	// A Django debug page can arrive with a 404 when URL routing itself
	// blew up; the HTML symptom outranks the status code.
	err := classify("GET", "/annual-plans/", 404, []byte("<html><body>Page not found</body></html>"))

	assert.Equal(t, KindServerFault, err.Kind)
	assert.True(t, err.HTMLBody)
}

func TestClassify_FieldValidationMap(t *testing.T) {
	body := []byte(`{"year": ["This field is required."], "unit_id": ["Invalid pk \"99\"."], "non_field_errors": ["Duplicate plan."]}`)

	err := classify("POST", "/annual-plans/", 400, body)

	require.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, "Duplicate plan.", err.Message)
	require.Len(t, err.Fields, 2)
	assert.Equal(t, []string{"This field is required."}, err.Fields["year"])
	assert.Contains(t, err.FieldSummary(), "unit_id")
	assert.Contains(t, err.UserMessage(), "year")
}

func TestClassify_DetailAndErrorKeys(t *testing.T) {
	withError := classify("POST", "/auth/login/", 400, []byte(`{"error": "Invalid credentials"}`))
	assert.Equal(t, "Invalid credentials", withError.Message)

	withDetail := classify("GET", "/auth/me/", 401, []byte(`{"detail": "Authentication credentials were not provided."}`))
	assert.Equal(t, "Authentication credentials were not provided.", withDetail.Message)
}

func TestClassify_NonJSONBodyFallsBackToRawText(t *testing.T) {
	err := classify("GET", "/units/", 500, []byte("upstream timed out"))

	assert.Equal(t, KindServerFault, err.Kind)
	assert.Equal(t, "upstream timed out", err.Message)
}

func TestAggregateError_ListsAttemptsInOrder(t *testing.T) {
	agg := &AggregateError{
		Operation: "add target",
		Attempts: []Attempt{
			{Method: "POST", Path: "/annual-plans/3/add_target/", Err: &Error{Kind: KindNotFound, StatusCode: 404}},
			{Method: "POST", Path: "/annual-plan-targets/", Err: &Error{Kind: KindServerFault, StatusCode: 500}},
		},
	}

	msg := agg.Error()
	assert.Contains(t, msg, "2 attempted")
	assert.Less(t, strings.Index(msg, "add_target"), strings.Index(msg, "annual-plan-targets"))
	assert.Contains(t, agg.UserMessage(), "does not appear to support")

	assert.Equal(t, KindAggregated, KindOf(agg))
}

func TestIsAuthFailure(t *testing.T) {
	assert.True(t, IsAuthFailure(&Error{Kind: KindUnauthenticated}))
	assert.True(t, IsAuthFailure(&Error{Kind: KindForbidden}))
	assert.False(t, IsAuthFailure(&Error{Kind: KindNotFound}))
	assert.False(t, IsAuthFailure(&Error{Kind: KindServerFault}))
}
