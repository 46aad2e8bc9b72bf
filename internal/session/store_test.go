package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moa-plans/agriplan/internal/api"
	"github.com/moa-plans/agriplan/internal/domain"
	"github.com/moa-plans/agriplan/internal/session"
	"github.com/moa-plans/agriplan/internal/testutil"
)

const meBody = `{
	"user": {"id": 5, "username": "abebe", "email": "abebe@moa.gov.et", "first_name": "Abebe", "last_name": "Kebede"},
	"profile": {"id": 9, "role": "STATE_MINISTER", "unit": {"id": 3, "name": "Crop Development", "type": "STATE_MINISTER"}}
}`

const loginBody = `{
	"token": "tok-123",
	"user": {"id": 5, "username": "abebe", "email": "abebe@moa.gov.et", "first_name": "Abebe", "last_name": "Kebede"},
	"profile": {"id": 9, "role": "STATE_MINISTER", "unit": {"id": 3, "name": "Crop Development", "type": "STATE_MINISTER"}}
}`

// newSessionStore wires a session store against the given handler the same
// way main does: credentials first, then the transport bound to the store.
func newSessionStore(t *testing.T, handler http.Handler) *session.Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewStore(testutil.NewTestStore(t))
	client := api.NewClient(srv.URL, 5*time.Second, store, api.NoopObserver{})
	store.Bind(client)
	return store
}

func TestCurrent_NoTokenReturnsNil(t *testing.T) {
	store := newSessionStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected without a token")
	}))

	sess, err := store.Current(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.Equal(t, session.StateAnonymous, store.State())
}

func TestCurrent_ConcurrentCallersShareOneWhoAmI(t *testing.T) {
	var meCalls int64
	release := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/me/", r.URL.Path)
		atomic.AddInt64(&meCalls, 1)
		<-release
		w.Write([]byte(meBody))
	})

	creds := testutil.NewTestStore(t)
	require.NoError(t, creds.SetAuthToken(context.Background(), "persisted-token"))

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := session.NewStore(creds)
	client := api.NewClient(srv.URL, 5*time.Second, store, api.NoopObserver{})
	store.Bind(client)

	const callers = 8
	results := make([]*domain.Session, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, err := store.Current(context.Background())
			require.NoError(t, err)
			results[i] = sess
		}(i)
	}

	// Let every goroutine reach the store before the backend answers.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&meCalls))
	for _, sess := range results {
		require.NotNil(t, sess)
		assert.Equal(t, "abebe", sess.User.Username)
	}
}

func TestCurrent_WhoAmIFailureClearsToken(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Invalid token."}`))
	})

	creds := testutil.NewTestStore(t)
	require.NoError(t, creds.SetAuthToken(context.Background(), "stale-token"))

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := session.NewStore(creds)
	client := api.NewClient(srv.URL, 5*time.Second, store, api.NoopObserver{})
	store.Bind(client)

	sess, err := store.Current(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)

	token, err := creds.AuthToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token, "failed who-am-I must clear the persisted token")
}

func TestCurrent_RehydratesFromPersistedUserWithoutNetwork(t *testing.T) {
	creds := testutil.NewTestStore(t)
	ctx := context.Background()
	require.NoError(t, creds.SetAuthToken(ctx, "persisted"))
	require.NoError(t, creds.SetCachedUser(ctx, &domain.User{
		ID: 5, Username: "abebe", Role: domain.RoleStateMinister,
	}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("rehydration must not hit the network")
	}))
	t.Cleanup(srv.Close)
	store := session.NewStore(creds)
	client := api.NewClient(srv.URL, 5*time.Second, store, api.NoopObserver{})
	store.Bind(client)

	sess, err := store.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "abebe", sess.User.Username)
	assert.Equal(t, session.StateAuthenticated, store.State(),
		"a live session implies the authenticated state")
}

func TestSignIn_Success(t *testing.T) {
	var loginCalls int64
	store := newSessionStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login/":
			atomic.AddInt64(&loginCalls, 1)
			w.Write([]byte(loginBody))
		default:
			t.Fatalf("unexpected request to %s", r.URL.Path)
		}
	}))

	var events []session.Event
	store.Subscribe(func(event session.Event, sess *domain.Session) {
		events = append(events, event)
	})

	user, err := store.SignIn(context.Background(), "abebe", "secret")
	require.NoError(t, err)
	assert.Equal(t, "abebe", user.Username)
	assert.Equal(t, domain.RoleStateMinister, user.Role)
	require.NotNil(t, user.Unit)
	assert.Equal(t, "Crop Development", user.Unit.Name)

	assert.Equal(t, session.StateAuthenticated, store.State())
	assert.Equal(t, []session.Event{session.SignedIn}, events)
	assert.Equal(t, "tok-123", store.Token())

	// Scenario A: cached session, no extra round trip.
	sess, err := store.Current(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, int64(1), atomic.LoadInt64(&loginCalls))
}

func TestSignIn_FailureLeavesStateUntouched(t *testing.T) {
	store := newSessionStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "Invalid credentials"}`))
	}))

	notified := false
	store.Subscribe(func(session.Event, *domain.Session) { notified = true })

	user, err := store.SignIn(context.Background(), "abebe", "wrong")
	require.Error(t, err)
	assert.Nil(t, user)
	assert.Equal(t, api.KindValidation, api.KindOf(err))
	assert.Equal(t, session.StateAnonymous, store.State())
	assert.False(t, notified, "failed sign-in must not publish an event")
	assert.Empty(t, store.Token())
}

func TestSignOut_AlwaysClearsLocally(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server ok", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/auth/login/" {
				w.Write([]byte(loginBody))
				return
			}
			w.WriteHeader(http.StatusNoContent)
		}},
		{"server errors", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/auth/login/" {
				w.Write([]byte(loginBody))
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("<html>boom</html>"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newSessionStore(t, tt.handler)
			_, err := store.SignIn(context.Background(), "abebe", "secret")
			require.NoError(t, err)

			var events []session.Event
			store.Subscribe(func(event session.Event, _ *domain.Session) {
				events = append(events, event)
			})

			require.NoError(t, store.SignOut(context.Background()))

			assert.Equal(t, session.StateAnonymous, store.State())
			assert.Empty(t, store.Token())
			assert.Equal(t, []session.Event{session.SignedOut}, events)

			sess, err := store.Current(context.Background())
			require.NoError(t, err)
			assert.Nil(t, sess)
		})
	}
}

func TestUnauthorizedResponseAnywhereTearsDownSession(t *testing.T) {
	authed := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/auth/login/":
			w.Write([]byte(loginBody))
		case authed:
			w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail": "Invalid token."}`))
		}
	}))
	t.Cleanup(srv.Close)

	store := session.NewStore(testutil.NewTestStore(t))
	client := api.NewClient(srv.URL, 5*time.Second, store, api.NoopObserver{})
	store.Bind(client)

	_, err := store.SignIn(context.Background(), "abebe", "secret")
	require.NoError(t, err)

	var events []session.Event
	store.Subscribe(func(event session.Event, _ *domain.Session) {
		events = append(events, event)
	})

	// Token revoked server-side; the next arbitrary request sees a 401.
	authed = false
	var out []any
	err = client.Get(context.Background(), "/units/", nil, &out)
	assert.Equal(t, api.KindUnauthenticated, api.KindOf(err))

	assert.Equal(t, session.StateAnonymous, store.State())
	assert.Equal(t, []session.Event{session.SignedOut}, events)
	assert.Empty(t, store.Token())
}

func TestSubscribe_OrderAndUnsubscribe(t *testing.T) {
	store := newSessionStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(loginBody))
	}))

	var order []string
	unsubFirst := store.Subscribe(func(session.Event, *domain.Session) {
		order = append(order, "first")
	})
	store.Subscribe(func(session.Event, *domain.Session) {
		order = append(order, "second")
	})

	_, err := store.SignIn(context.Background(), "abebe", "secret")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)

	unsubFirst()
	order = nil
	require.NoError(t, store.SignOut(context.Background()))
	assert.Equal(t, []string{"second"}, order)
}
