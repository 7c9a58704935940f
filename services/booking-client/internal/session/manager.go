// Package session owns the signed-in identity and its bearer token, persisted through a
// store.Store so a restart resumes the session without signing in again.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/md-rashed-zaman/salonbook/libs/auth"
	"github.com/md-rashed-zaman/salonbook/libs/runtime"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/events"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/gateway"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/model"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/nav"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/store"
	"github.com/md-rashed-zaman/salonbook/services/booking-client/internal/validate"
)

// ErrNotRestored is the panic value for session accessors used before Restore.
var ErrNotRestored = errors.New("session: accessed before restore")

const (
	KeyToken = "token"
	KeyUser  = "user"
)

const (
	msgLoginFailed    = "Login failed"
	msgRegisterFailed = "Registration failed"
	msgProfileFailed  = "Failed to update profile"
	msgPasswordFailed = "Failed to change password"
	msgRefreshFailed  = "Failed to load profile"
	msgPersistFailed  = "Failed to save session"
	msgNotSignedIn    = "Not signed in"
	msgSessionChanged = "Session ended"
)

// API is the slice of the backend the session needs.
type API interface {
	Login(ctx context.Context, email, password string) (gateway.AuthResponse, error)
	Register(ctx context.Context, reg model.Registration) (gateway.AuthResponse, error)
	Profile(ctx context.Context) (model.Identity, error)
	UpdateProfile(ctx context.Context, patch model.ProfilePatch) (model.Identity, error)
	ChangePassword(ctx context.Context, current, next string) error
}

type Options struct {
	Navigator nav.Navigator
	Publisher events.Publisher
	Logger    *slog.Logger
	Now       func() time.Time
}

type Manager struct {
	api       API
	store     store.Store
	navigator nav.Navigator
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time

	// writeMu serializes storage writes with the in-memory update that follows them.
	writeMu sync.Mutex

	mu       sync.RWMutex
	restored bool
	token    string
	identity model.Identity

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int
}

func NewManager(api API, st store.Store, opts Options) *Manager {
	if opts.Navigator == nil {
		opts.Navigator = nav.Discard
	}
	if opts.Publisher == nil {
		opts.Publisher = events.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = runtime.DiscardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		api:       api,
		store:     st,
		navigator: opts.Navigator,
		publisher: opts.Publisher,
		logger:    opts.Logger,
		now:       opts.Now,
		subs:      map[int]func(Snapshot){},
	}
}

// Restore adopts the persisted pair when it is complete and well formed, and discards both
// entries otherwise. It always marks the session as restored.
func (m *Manager) Restore(ctx context.Context) {
	m.writeMu.Lock()
	token, identity, err := m.load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, errUnavailable):
		m.logger.Warn("session storage unavailable", "err", err)
	default:
		m.logger.Warn("discarding persisted session", "err", err)
		if derr := m.store.Delete(ctx, KeyToken, KeyUser); derr != nil {
			m.logger.Warn("clear persisted session failed", "err", derr)
		}
	}

	m.mu.Lock()
	m.restored = true
	m.token = token
	m.identity = identity
	m.mu.Unlock()
	m.writeMu.Unlock()

	m.notify()
}

var errUnavailable = errors.New("session storage unavailable")

func (m *Manager) load(ctx context.Context) (string, model.Identity, error) {
	token, tokenErr := m.store.Get(ctx, KeyToken)
	user, userErr := m.store.Get(ctx, KeyUser)
	for _, err := range []error{tokenErr, userErr} {
		if err != nil && !errors.Is(err, store.ErrNotFound) && !errors.Is(err, store.ErrCorrupt) {
			return "", model.Identity{}, fmt.Errorf("%w: %v", errUnavailable, err)
		}
	}
	if errors.Is(tokenErr, store.ErrCorrupt) || errors.Is(userErr, store.ErrCorrupt) {
		return "", model.Identity{}, store.ErrCorrupt
	}
	if tokenErr != nil && userErr != nil {
		return "", model.Identity{}, nil
	}
	if tokenErr != nil || userErr != nil {
		return "", model.Identity{}, errors.New("incomplete session pair")
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", model.Identity{}, errors.New("empty token")
	}
	var identity model.Identity
	if err := json.Unmarshal([]byte(user), &identity); err != nil {
		return "", model.Identity{}, fmt.Errorf("decode identity: %w", err)
	}
	if err := identity.Validate(); err != nil {
		return "", model.Identity{}, err
	}
	if auth.LooksLikeJWT(token) {
		claims, err := auth.ParseJWTNoVerify(token, m.now())
		if err != nil {
			return "", model.Identity{}, err
		}
		if exp := claims.Expiry(); !exp.IsZero() {
			m.logger.Debug("restored session", "user_id", identity.ID, "expires_at", exp)
		}
	}
	return token, identity, nil
}

func (m *Manager) requireRestored() {
	m.mu.RLock()
	restored := m.restored
	m.mu.RUnlock()
	if !restored {
		panic(ErrNotRestored)
	}
}

// Snapshot never panics; guards use Restored to decide whether to wait.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{Restored: m.restored, Token: m.token, Identity: m.identity}
}

func (m *Manager) Token() string {
	m.requireRestored()
	return m.Snapshot().Token
}

// Identity returns the signed-in identity and whether there is one.
func (m *Manager) Identity() (model.Identity, bool) {
	m.requireRestored()
	s := m.Snapshot()
	return s.Identity, s.IsAuthenticated()
}

func (m *Manager) IsAuthenticated() bool {
	m.requireRestored()
	return m.Snapshot().IsAuthenticated()
}

func (m *Manager) IsAdmin() bool {
	m.requireRestored()
	return m.Snapshot().IsAdmin()
}

// Subscribe registers fn to receive a snapshot after every change. The returned func
// removes it.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()
	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *Manager) notify() {
	snap := m.Snapshot()
	m.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

func (m *Manager) Login(ctx context.Context, email, password string) Result {
	m.requireRestored()
	if errs := validate.Login(email, password); !errs.OK() {
		return invalid(errs)
	}
	resp, err := m.api.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return failed(gateway.MessageOf(err, msgLoginFailed))
	}
	return m.establish(ctx, resp, msgLoginFailed)
}

func (m *Manager) Register(ctx context.Context, reg model.Registration) Result {
	m.requireRestored()
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	reg.Phone = strings.TrimSpace(reg.Phone)
	if errs := validate.Registration(reg); !errs.OK() {
		return invalid(errs)
	}
	resp, err := m.api.Register(ctx, reg)
	if err != nil {
		return failed(gateway.MessageOf(err, msgRegisterFailed))
	}
	return m.establish(ctx, resp, msgRegisterFailed)
}

// establish persists a freshly issued token and identity, then adopts them.
func (m *Manager) establish(ctx context.Context, resp gateway.AuthResponse, fallback string) Result {
	token := strings.TrimSpace(resp.AccessToken)
	if token == "" || resp.User.Validate() != nil {
		m.logger.Warn("auth response missing token or identity")
		return failed(fallback)
	}
	user, err := json.Marshal(resp.User)
	if err != nil {
		return failed(fallback)
	}

	m.writeMu.Lock()
	if err := m.store.Set(ctx, map[string]string{KeyToken: token, KeyUser: string(user)}); err != nil {
		m.writeMu.Unlock()
		m.logger.Error("persist session failed", "err", err)
		return failed(msgPersistFailed)
	}
	m.mu.Lock()
	m.token = token
	m.identity = resp.User
	m.mu.Unlock()
	m.writeMu.Unlock()

	m.logger.Info("signed in", "user_id", resp.User.ID, "role", resp.User.Role)
	m.notify()
	events.Emit(ctx, m.publisher, m.logger, events.TypeLogin, resp.User.ID, map[string]string{
		"user_id": resp.User.ID,
		"role":    string(resp.User.Role),
	})
	return ok()
}

// Logout clears memory and storage. It is safe to call repeatedly; a storage failure is
// returned after memory has been cleared.
func (m *Manager) Logout(ctx context.Context) error {
	_, err := m.clear(ctx, events.TypeLogout, "")
	return err
}

// Expire ends the session after the backend rejected token and sends the user to the
// login view. A rejection of a token the session no longer holds is ignored, and
// concurrent rejections redirect once.
func (m *Manager) Expire(ctx context.Context, token string) {
	if token == "" {
		return
	}
	cleared, err := m.clear(ctx, events.TypeSessionExpired, token)
	if err != nil {
		m.logger.Warn("clear expired session failed", "err", err)
	}
	if cleared {
		m.navigator.Navigate(nav.Login)
	}
}

// clear drops the session. A non-empty only restricts it to a session still holding
// that token.
func (m *Manager) clear(ctx context.Context, eventType, only string) (bool, error) {
	m.writeMu.Lock()
	if only != "" && m.Snapshot().Token != only {
		m.writeMu.Unlock()
		return false, nil
	}
	err := m.store.Delete(ctx, KeyToken, KeyUser)
	m.mu.Lock()
	prev := m.identity
	cleared := m.token != ""
	m.token = ""
	m.identity = model.Identity{}
	m.mu.Unlock()
	m.writeMu.Unlock()

	if !cleared {
		return false, err
	}
	m.logger.Info("signed out", "user_id", prev.ID, "reason", eventType)
	m.notify()
	events.Emit(ctx, m.publisher, m.logger, eventType, prev.ID, map[string]string{"user_id": prev.ID})
	return true, err
}

func (m *Manager) UpdateProfile(ctx context.Context, patch model.ProfilePatch) Result {
	m.requireRestored()
	if errs := validate.Profile(patch); !errs.OK() {
		return invalid(errs)
	}
	token := m.Snapshot().Token
	if token == "" {
		return failed(msgNotSignedIn)
	}
	identity, err := m.api.UpdateProfile(ctx, patch)
	if err != nil {
		return failed(gateway.MessageOf(err, msgProfileFailed))
	}
	return m.replaceIdentity(ctx, token, identity, msgProfileFailed)
}

// Refresh re-reads the identity from the backend, e.g. after an admin changed the role.
func (m *Manager) Refresh(ctx context.Context) Result {
	m.requireRestored()
	token := m.Snapshot().Token
	if token == "" {
		return failed(msgNotSignedIn)
	}
	identity, err := m.api.Profile(ctx)
	if err != nil {
		return failed(gateway.MessageOf(err, msgRefreshFailed))
	}
	return m.replaceIdentity(ctx, token, identity, msgRefreshFailed)
}

// replaceIdentity swaps the identity while keeping the token, provided the session that
// issued the request is still the current one.
func (m *Manager) replaceIdentity(ctx context.Context, token string, identity model.Identity, fallback string) Result {
	if identity.Validate() != nil {
		return failed(fallback)
	}
	user, err := json.Marshal(identity)
	if err != nil {
		return failed(fallback)
	}

	m.writeMu.Lock()
	if m.Snapshot().Token != token {
		m.writeMu.Unlock()
		return failed(msgSessionChanged)
	}
	if err := m.store.Set(ctx, map[string]string{KeyUser: string(user)}); err != nil {
		m.writeMu.Unlock()
		m.logger.Error("persist identity failed", "err", err)
		return failed(msgPersistFailed)
	}
	m.mu.Lock()
	m.identity = identity
	m.mu.Unlock()
	m.writeMu.Unlock()

	m.notify()
	return ok()
}

func (m *Manager) ChangePassword(ctx context.Context, current, next string) Result {
	m.requireRestored()
	if errs := validate.PasswordChange(current, next); !errs.OK() {
		return invalid(errs)
	}
	if m.Snapshot().Token == "" {
		return failed(msgNotSignedIn)
	}
	if err := m.api.ChangePassword(ctx, current, next); err != nil {
		return failed(gateway.MessageOf(err, msgPasswordFailed))
	}
	return ok()
}
