package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, TokenFunc(func() string { return token }), NoopObserver{})
}

func TestClient_AttachesTokenHeader(t *testing.T) {
	var gotAuth string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true}`))
	}), "secret-token")

	var out map[string]bool
	require.NoError(t, client.Get(context.Background(), "/units/", nil, &out))

	assert.Equal(t, "Token secret-token", gotAuth)
	assert.True(t, out["ok"])
}

func TestClient_NoTokenSendsUnauthenticated(t *testing.T) {
	var gotAuth string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}), "")

	require.NoError(t, client.Get(context.Background(), "/units/", nil, nil))
	assert.Empty(t, gotAuth)
}

func TestClient_UnauthorizedHookFiresOn401(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Invalid token."}`))
	}), "stale")

	hookCalls := 0
	client.SetUnauthorizedHook(func() { hookCalls++ })

	err := client.Get(context.Background(), "/auth/me/", nil, nil)

	assert.Equal(t, KindUnauthenticated, KindOf(err))
	assert.Equal(t, 1, hookCalls)
}

func TestClient_UnreachableBackendIsUnavailable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 500*time.Millisecond,
		TokenFunc(func() string { return "" }), NoopObserver{})

	err := client.Get(context.Background(), "/units/", nil, nil)

	assert.Equal(t, KindUnavailable, KindOf(err))
}

func TestClient_HTMLSuccessBodyIsServerFault(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body>login page</body></html>"))
	}), "tok")

	var out map[string]any
	err := client.Get(context.Background(), "/dashboard/stats/", nil, &out)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindServerFault, apiErr.Kind)
	assert.True(t, apiErr.HTMLBody)
}

func TestClient_PostEncodesJSONBody(t *testing.T) {
	type payload struct {
		Year int `json:"year"`
	}
	var received payload
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 12, "year": 2026}`))
	}), "tok")

	var out struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, client.Post(context.Background(), "/annual-plans/", payload{Year: 2026}, &out))

	assert.Equal(t, 2026, received.Year)
	assert.Equal(t, int64(12), out.ID)
}

func TestClient_QueryParamsAppended(t *testing.T) {
	var gotQuery string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}), "tok")

	var out []any
	require.NoError(t, client.Get(context.Background(), "/annual-plans/", url.Values{"unit": {"7"}}, &out))

	assert.Equal(t, "unit=7", gotQuery)
}

func TestClient_Upload(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "annual_plan", r.FormValue("import_type"))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "targets.csv", header.Filename)
		w.Write([]byte(`{"created": 4}`))
	}), "tok")

	var out struct {
		Created int `json:"created"`
	}
	err := client.Upload(context.Background(), "/import-export/import_data/",
		map[string]string{"import_type": "annual_plan"},
		"file", "targets.csv", strings.NewReader("code,target\nAG-01,50\n"), &out)

	require.NoError(t, err)
	assert.Equal(t, 4, out.Created)
}

func TestClient_DownloadReturnsFilename(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="annual_plans_2026.csv"`)
		w.Write([]byte("code,target\n"))
	}), "tok")

	data, filename, err := client.Download(context.Background(), "/import-export/export_annual_plans/", nil)

	require.NoError(t, err)
	assert.Equal(t, "annual_plans_2026.csv", filename)
	assert.Equal(t, "code,target\n", string(data))
}

func TestClient_ObserverSeesFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail": "nope"}`))
	}))
	defer srv.Close()

	var events []CallEvent
	client := NewClient(srv.URL, 5*time.Second,
		TokenFunc(func() string { return "tok" }), observerFunc(func(e CallEvent) {
			events = append(events, e)
		}))

	_ = client.Get(context.Background(), "/units/", nil, nil)

	require.Len(t, events, 1)
	assert.Equal(t, KindForbidden, events[0].ErrorKind)
	assert.Equal(t, http.StatusForbidden, events[0].Status)
}

type observerFunc func(CallEvent)

func (f observerFunc) OnCallComplete(e CallEvent) { f(e) }
