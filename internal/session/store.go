package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/moa-plans/agriplan/internal/api"
	"github.com/moa-plans/agriplan/internal/domain"
)

// Event is a session transition observed by subscribers.
type Event string

const (
	SignedIn  Event = "SIGNED_IN"
	SignedOut Event = "SIGNED_OUT"
)

// State is the session lifecycle state.
type State string

const (
	StateAnonymous      State = "ANONYMOUS"
	StateAuthenticating State = "AUTHENTICATING"
	StateAuthenticated  State = "AUTHENTICATED"
)

// Credentials is the persistence boundary for the token and the cached
// session user. state.Store satisfies it.
type Credentials interface {
	AuthToken(ctx context.Context) (string, error)
	SetAuthToken(ctx context.Context, token string) error
	ClearAuthToken(ctx context.Context) error
	CachedUser(ctx context.Context) (*domain.User, error)
	SetCachedUser(ctx context.Context, u *domain.User) error
	ClearCachedUser(ctx context.Context) error
}

// Listener receives session transition events. The session passed with
// SignedOut is always nil.
type Listener func(event Event, sess *domain.Session)

// flight is one shared in-progress "who am I" round trip. Concurrent
// Current callers wait on done instead of issuing duplicate requests.
type flight struct {
	done chan struct{}
	sess *domain.Session
}

// Store is the single source of truth for "who is signed in". It owns the
// bearer token, the cached session, and the subscriber list. Construct one
// per process and inject it wherever session state is needed.
type Store struct {
	creds     Credentials
	transport *api.Client

	mu          sync.Mutex
	token       string
	tokenLoaded bool
	current     *domain.Session
	state       State
	inflight    *flight
	listeners   []registration
	nextID      int
}

type registration struct {
	id int
	fn Listener
}

// NewStore creates a session store over the given credential storage.
// Call Bind before use to attach the HTTP transport.
func NewStore(creds Credentials) *Store {
	return &Store{
		creds: creds,
		state: StateAnonymous,
	}
}

// Bind attaches the transport and registers the 401 invalidation hook.
// Split from NewStore because the transport itself needs the store as its
// token source.
func (s *Store) Bind(transport *api.Client) {
	s.transport = transport
	transport.SetUnauthorizedHook(s.invalidate)
}

// Token implements api.TokenSource. It returns the in-memory token,
// loading the persisted one on first use. An empty string means
// unauthenticated.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadTokenLocked(context.Background())
	return s.token
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener for session transitions. Listeners are
// called synchronously, in subscription order, on every transition. The
// returned function unsubscribes.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, registration{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, reg := range s.listeners {
			if reg.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Current returns the session for the signed-in user, or nil when nobody
// is signed in. When only a persisted token exists, exactly one "who am I"
// round trip is made; concurrent callers share it. Any failure of that
// round trip clears the persisted token and yields nil.
func (s *Store) Current(ctx context.Context) (*domain.Session, error) {
	s.mu.Lock()
	if s.current != nil {
		sess := s.current
		s.mu.Unlock()
		return sess, nil
	}

	if err := s.loadTokenLocked(ctx); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.token == "" {
		s.mu.Unlock()
		return nil, nil
	}

	// Rehydrate from the persisted copy when available. It is stale by
	// definition; the 401 hook corrects it lazily on the next request.
	if cached, err := s.creds.CachedUser(ctx); err == nil && cached != nil {
		s.current = &domain.Session{User: *cached}
		s.state = StateAuthenticated
		sess := s.current
		s.mu.Unlock()
		return sess, nil
	}

	if s.inflight != nil {
		f := s.inflight
		s.mu.Unlock()
		<-f.done
		return f.sess, nil
	}

	f := &flight{done: make(chan struct{})}
	s.inflight = f
	s.mu.Unlock()

	sess := s.fetchSession(ctx)

	s.mu.Lock()
	f.sess = sess
	s.inflight = nil
	s.mu.Unlock()
	close(f.done)

	return sess, nil
}

// SignIn exchanges credentials for a token and publishes SIGNED_IN. On
// failure the classified error is returned and no cached state changes.
// There is no automatic retry.
func (s *Store) SignIn(ctx context.Context, identity, secret string) (*domain.User, error) {
	s.mu.Lock()
	s.state = StateAuthenticating
	s.mu.Unlock()

	var resp loginResponse
	err := s.transport.Post(ctx, "/auth/login/", loginRequest{
		Username: identity,
		Password: secret,
	}, &resp)
	if err != nil {
		s.mu.Lock()
		s.state = StateAnonymous
		s.mu.Unlock()
		return nil, err
	}

	user := mapAuthUser(resp.User, resp.Profile)

	if err := s.creds.SetAuthToken(ctx, resp.Token); err != nil {
		return nil, fmt.Errorf("persisting token: %w", err)
	}
	if err := s.creds.SetCachedUser(ctx, user); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}

	s.mu.Lock()
	s.token = resp.Token
	s.tokenLoaded = true
	s.current = &domain.Session{User: *user}
	s.state = StateAuthenticated
	sess := s.current
	s.mu.Unlock()

	s.notify(SignedIn, sess)
	return user, nil
}

// SignOut revokes the token server-side on a best-effort basis, then
// unconditionally clears local state and publishes SIGNED_OUT. Sign-out
// always succeeds locally even when the backend is unreachable.
func (s *Store) SignOut(ctx context.Context) error {
	// Server errors are deliberately ignored here; a dead backend must
	// not trap the user in a session.
	_ = s.transport.Post(ctx, "/auth/logout/", nil, nil)

	clearErr := s.clearLocal(ctx)
	s.notify(SignedOut, nil)
	return clearErr
}

// fetchSession performs the "who am I" round trip. Any failure, including
// transient network errors, is treated as not-authenticated and tears down
// the persisted token.
func (s *Store) fetchSession(ctx context.Context) *domain.Session {
	var resp meResponse
	if err := s.transport.Get(ctx, "/auth/me/", nil, &resp); err != nil {
		_ = s.clearLocal(ctx)
		return nil
	}

	user := mapAuthUser(resp.User, resp.Profile)
	_ = s.creds.SetCachedUser(ctx, user)

	s.mu.Lock()
	s.current = &domain.Session{User: *user}
	s.state = StateAuthenticated
	sess := s.current
	s.mu.Unlock()
	return sess
}

// invalidate is the transport's 401 hook: the server rejected the token
// somewhere, so the local session is gone no matter what we cached.
// Publishes SIGNED_OUT only when a session was actually live.
func (s *Store) invalidate() {
	s.mu.Lock()
	wasLive := s.current != nil
	s.mu.Unlock()

	_ = s.clearLocal(context.Background())
	if wasLive {
		s.notify(SignedOut, nil)
	}
}

// clearLocal wipes the in-memory and persisted session state.
func (s *Store) clearLocal(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.tokenLoaded = true
	s.current = nil
	s.state = StateAnonymous
	s.mu.Unlock()

	if err := s.creds.ClearAuthToken(ctx); err != nil {
		return fmt.Errorf("clearing token: %w", err)
	}
	if err := s.creds.ClearCachedUser(ctx); err != nil {
		return fmt.Errorf("clearing cached session: %w", err)
	}
	return nil
}

// loadTokenLocked populates s.token from persistence once. Callers hold mu.
func (s *Store) loadTokenLocked(ctx context.Context) error {
	if s.tokenLoaded {
		return nil
	}
	token, err := s.creds.AuthToken(ctx)
	if err != nil {
		return fmt.Errorf("loading persisted token: %w", err)
	}
	s.token = token
	s.tokenLoaded = true
	return nil
}

// notify calls every subscriber synchronously in subscription order. The
// listener list is copied so a callback may unsubscribe itself.
func (s *Store) notify(event Event, sess *domain.Session) {
	s.mu.Lock()
	regs := make([]registration, len(s.listeners))
	copy(regs, s.listeners)
	s.mu.Unlock()

	for _, reg := range regs {
		reg.fn(event, sess)
	}
}
