package session

import (
	"context"
	"sync"

	"github.com/pittsix/cmsctl/internal/api"
	"github.com/pittsix/cmsctl/internal/errors"
	"github.com/pittsix/cmsctl/internal/log"
)

// Status is the session lifecycle state.
type Status int

const (
	// StatusUnauthenticated means no token is held.
	StatusUnauthenticated Status = iota
	// StatusAuthenticating means a token is held and the profile fetch
	// is in flight.
	StatusAuthenticating
	// StatusAuthenticated means the token was accepted and the profile
	// is loaded.
	StatusAuthenticated
	// StatusInvalid means the token was rejected. The store passes
	// through this state and settles Unauthenticated.
	StatusInvalid
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	case StatusInvalid:
		return "invalid"
	default:
		return "unauthenticated"
	}
}

// Session is the client's belief about whether a user is authenticated
// and who they are. User is non-nil only when Status is Authenticated;
// an empty Token implies Unauthenticated.
type Session struct {
	Token  string
	User   *Profile
	Status Status
}

// Store owns the token and the derived profile. It is the single
// process-wide session authority: the API client reads its token, the
// route gate reads its status.
type Store struct {
	client *api.Client
	creds  *CredentialStore
	logger *log.Logger

	mu       sync.Mutex
	session  Session
	gen      uint64
	watchers map[int]chan Session
	nextID   int
}

// NewStore creates a session store. If the credential store holds a
// persisted token the session starts Authenticating and the profile
// fetch is issued immediately.
func NewStore(client *api.Client, creds *CredentialStore, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	s := &Store{
		client:   client,
		creds:    creds,
		logger:   logger,
		watchers: make(map[int]chan Session),
	}

	persisted, err := creds.Load()
	if err != nil {
		logger.Warn("failed to read persisted credentials", "error", err.Error())
	}
	if persisted.Token != "" {
		s.mu.Lock()
		s.gen++
		gen := s.gen
		s.session = Session{Token: persisted.Token, Status: StatusAuthenticating}
		s.mu.Unlock()
		go s.fetchProfile(gen)
	}

	return s
}

// Token implements api.TokenSource. It always reflects the latest
// login/logout, never a value captured earlier.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Token
}

// Current returns a snapshot of the session.
func (s *Store) Current() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Login persists the token, enters Authenticating, and issues exactly
// one profile fetch. It returns immediately; completion is observed
// through Watch or Await.
func (s *Store) Login(token string) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.session = Session{Token: token, Status: StatusAuthenticating}
	if err := s.creds.Save(Credentials{Token: token}); err != nil {
		s.logger.Warn("failed to persist token", "error", err.Error())
	}
	s.notifyLocked()
	s.mu.Unlock()

	go s.fetchProfile(gen)
}

// Logout clears the persisted token and resets the session. Safe to
// call when already logged out. Any in-flight profile fetch from an
// earlier login is discarded when it completes.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if err := s.creds.Clear(); err != nil {
		s.logger.Warn("failed to clear persisted token", "error", err.Error())
	}
	s.session = Session{Status: StatusUnauthenticated}
	s.notifyLocked()
}

// Invalidate handles a token rejection observed on any API call. The
// session passes through Invalid, the persisted token is cleared, and
// the store settles Unauthenticated. Never fatal.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidateLocked()
}

func (s *Store) invalidateLocked() {
	if s.session.Status == StatusUnauthenticated {
		return
	}

	s.gen++
	s.logger.Warn("session token rejected, clearing session")

	s.session = Session{Token: s.session.Token, Status: StatusInvalid}
	s.notifyLocked()

	if err := s.creds.Clear(); err != nil {
		s.logger.Warn("failed to clear persisted token", "error", err.Error())
	}
	s.session = Session{Status: StatusUnauthenticated}
	s.notifyLocked()
}

// HandleAuthReject adapts Invalidate to the API client's reject hook.
func (s *Store) HandleAuthReject(status int) {
	s.logger.Debug("auth rejected by backend", "status", status)
	s.Invalidate()
}

// fetchProfile issues the profile fetch for one login generation. A
// result arriving after a logout or a newer login is discarded so a
// cleared session is never resurrected.
func (s *Store) fetchProfile(gen uint64) {
	var wire wireProfile
	err := s.client.Get(context.Background(), "/users/me", &wire)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		s.logger.Debug("discarding stale profile fetch result")
		return
	}

	if err != nil {
		s.logger.WithError(err).Warn("profile fetch failed")
		s.invalidateLocked()
		return
	}

	profile := wire.normalize()
	s.session = Session{Token: s.session.Token, User: profile, Status: StatusAuthenticated}
	s.logger.Info("session authenticated", "user", profile.DisplayName)
	s.notifyLocked()
}

// Watch returns a channel of session snapshots and a cancel function
// that releases it. Sends never block; a slow receiver misses
// intermediate states but always gets a later snapshot.
func (s *Store) Watch() (<-chan Session, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Session, 8)
	s.watchers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watchers, id)
	}
	return ch, cancel
}

func (s *Store) notifyLocked() {
	for _, ch := range s.watchers {
		select {
		case ch <- s.session:
		default:
		}
	}
}

// Await blocks until the session leaves Authenticating or the context
// ends, returning the settled session. CLI commands use it to turn the
// non-blocking Login into a synchronous result.
func (s *Store) Await(ctx context.Context) (Session, error) {
	ch, cancel := s.Watch()
	defer cancel()

	if cur := s.Current(); cur.Status != StatusAuthenticating {
		return cur, nil
	}

	for {
		select {
		case <-ctx.Done():
			return s.Current(), ctx.Err()
		case sess := <-ch:
			if sess.Status != StatusAuthenticating {
				return sess, nil
			}
		}
	}
}

// RefreshProfile refetches the profile for the current session and
// replaces it wholesale.
func (s *Store) RefreshProfile(ctx context.Context) error {
	s.mu.Lock()
	if s.session.Token == "" {
		s.mu.Unlock()
		return errors.NewNoSessionError()
	}
	gen := s.gen
	s.mu.Unlock()

	var wire wireProfile
	if err := s.client.Get(ctx, "/users/me", &wire); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return nil
	}
	s.session.User = wire.normalize()
	if s.session.Status == StatusAuthenticating {
		s.session.Status = StatusAuthenticated
	}
	s.notifyLocked()
	return nil
}

// UpdateProfile writes the user's own profile (PUT /profile) and then
// refetches it so the store never holds a locally-patched copy.
func (s *Store) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	if s.Current().Token == "" {
		return errors.NewNoSessionError()
	}

	if err := s.client.Put(ctx, "/profile", update, nil); err != nil {
		return err
	}
	return s.RefreshProfile(ctx)
}
