package session

import (
	"context"
	"sync"

	"github.com/cesi-vents/vents/client"
	"github.com/cesi-vents/vents/pkg/clierr"
	"github.com/rs/zerolog/log"
)

// Controller orchestrates login, logout, profile operations, and startup
// session restoration. It is the only component that mutates the Session;
// everything else observes snapshots through Current or Subscribe.
type Controller struct {
	api   API
	store TokenStore

	mu      sync.Mutex
	state   Session
	subs    map[int]func(Session)
	nextSub int
}

// NewController creates a Controller in the anonymous state.
func NewController(api API, store TokenStore) *Controller {
	return &Controller{
		api:   api,
		store: store,
		state: Session{Status: StatusAnonymous},
		subs:  make(map[int]func(Session)),
	}
}

// Current returns a snapshot of the session.
func (c *Controller) Current() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers an observer that is called with a snapshot after every
// state change. The returned function cancels the subscription; a cancelled
// observer is never called again, so a torn-down view cannot receive a stale
// update.
func (c *Controller) Subscribe(fn func(Session)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// set applies a mutation and notifies subscribers with the new snapshot.
func (c *Controller) set(mutate func(*Session)) {
	c.mu.Lock()
	mutate(&c.state)
	snapshot := c.state
	observers := make([]func(Session), 0, len(c.subs))
	for _, fn := range c.subs {
		observers = append(observers, fn)
	}
	c.mu.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}

// Login authenticates with email and password. On success the session becomes
// authenticated and the profile is fetched; on failure the session stays
// anonymous with the backend's message recorded.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	if err := c.api.Login(ctx, email, password); err != nil {
		c.set(func(s *Session) {
			s.Status = StatusAnonymous
			s.Profile = nil
			s.LastError = err.Error()
		})
		return err
	}
	c.set(func(s *Session) {
		s.Status = StatusAuthenticated
		s.LastError = ""
	})
	log.Info().Msg("Login successful")
	return c.FetchProfile(ctx)
}

// Register creates an account, following the same contract as Login.
func (c *Controller) Register(ctx context.Context, form client.RegisterForm) error {
	if err := c.api.Register(ctx, form); err != nil {
		c.set(func(s *Session) {
			s.Status = StatusAnonymous
			s.Profile = nil
			s.LastError = err.Error()
		})
		return err
	}
	c.set(func(s *Session) {
		s.Status = StatusAuthenticated
		s.LastError = ""
	})
	log.Info().Msg("Registration successful")
	return c.FetchProfile(ctx)
}

// FetchProfile replaces the profile with the server's record. An
// authentication failure (after the HTTP client has exhausted its own
// refresh-and-retry) demotes the session to anonymous and clears the stored
// credentials; any other failure only records LastError.
func (c *Controller) FetchProfile(ctx context.Context) error {
	profile, err := c.api.FetchProfile(ctx)
	if err != nil {
		c.fail(ctx, err)
		return err
	}
	c.set(func(s *Session) {
		s.Status = StatusAuthenticated
		s.Profile = profile
		s.LastError = ""
	})
	return nil
}

// UpdateProfile submits changed fields and replaces the profile with the
// server's canonical record. Never merges optimistically.
func (c *Controller) UpdateProfile(ctx context.Context, update client.ProfileUpdate) error {
	profile, err := c.api.UpdateProfile(ctx, update)
	if err != nil {
		c.fail(ctx, err)
		return err
	}
	c.set(func(s *Session) {
		s.Profile = profile
		s.LastError = ""
	})
	return nil
}

// UploadAvatar uploads a new avatar and replaces the profile with the
// server's canonical record.
func (c *Controller) UploadAvatar(ctx context.Context, filePath string) error {
	profile, err := c.api.UploadAvatar(ctx, filePath)
	if err != nil {
		c.fail(ctx, err)
		return err
	}
	c.set(func(s *Session) {
		s.Profile = profile
		s.LastError = ""
	})
	return nil
}

// Restore re-establishes the session at startup. With no persisted refresh
// token it settles to anonymous without any network call; otherwise it
// performs a silent refresh followed by a profile fetch.
func (c *Controller) Restore(ctx context.Context) error {
	refresh, err := c.store.RefreshToken(ctx)
	if err != nil {
		c.set(func(s *Session) {
			s.Status = StatusAnonymous
			s.LastError = err.Error()
		})
		return err
	}
	if refresh == "" {
		c.set(func(s *Session) {
			s.Status = StatusAnonymous
			s.Profile = nil
			s.LastError = ""
		})
		return nil
	}

	c.set(func(s *Session) { s.Status = StatusRestoring })
	log.Info().Msg("Restoring session from persisted refresh token")

	if err := c.api.RefreshSession(ctx); err != nil {
		c.fail(ctx, err)
		return err
	}
	// FetchProfile promotes the session to authenticated on success.
	return c.FetchProfile(ctx)
}

// Logout clears the stored credentials and resets the session. It is
// idempotent and succeeds without any network call, so it works offline.
func (c *Controller) Logout(ctx context.Context) error {
	err := c.store.ClearAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to clear stored credentials")
	}
	c.set(func(s *Session) {
		s.Status = StatusAnonymous
		s.Profile = nil
		s.LastError = ""
	})
	log.Info().Msg("Logged out")
	return err
}

// fail maps an operation failure onto the session per the error taxonomy:
// only authentication failures destroy the session; validation, forbidden,
// and network failures leave the current status standing — except during
// restoration, which has no valid state to stand on and settles to error.
func (c *Controller) fail(ctx context.Context, err error) {
	if clierr.IsAuth(err) {
		if clearErr := c.store.ClearAll(ctx); clearErr != nil {
			log.Error().Err(clearErr).Msg("Failed to clear stored credentials")
		}
		c.set(func(s *Session) {
			s.Status = StatusAnonymous
			s.Profile = nil
			s.LastError = err.Error()
		})
		return
	}
	c.set(func(s *Session) {
		if s.Status == StatusRestoring {
			s.Status = StatusError
		}
		s.LastError = err.Error()
	})
}
