package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lcorp/storefront/pkg/backend"
	"github.com/lcorp/storefront/pkg/enums"
	pkgerrors "github.com/lcorp/storefront/pkg/errors"
	"github.com/lcorp/storefront/pkg/kvstore"
	"github.com/lcorp/storefront/pkg/logger"
	"github.com/lcorp/storefront/pkg/models"
)

type authBackend interface {
	Login(ctx context.Context, in models.LoginRequest) (*models.LoginResponse, error)
	RegisterCustomer(ctx context.Context, in models.CustomerRegister) (*models.CustomerRegisterResponse, error)
	CurrentUser(ctx context.Context) (*models.CurrentUser, error)
}

// LoginInput is a login attempt. Portal, when set, restricts which role may
// sign in through the entry point (the admin portal only admits admins).
type LoginInput struct {
	Username string     `json:"username" validate:"required"`
	Password string     `json:"password" validate:"required"`
	Portal   enums.Role `json:"portal,omitempty" validate:"omitempty,oneof=admin customer"`
}

// Info is the client-facing view of a session.
type Info struct {
	SessionID     string     `json:"session_id"`
	Authenticated bool       `json:"authenticated"`
	Role          enums.Role `json:"role,omitempty"`
	Username      string     `json:"username,omitempty"`
	UserID        *int       `json:"user_id,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Redirect      string     `json:"redirect,omitempty"`
}

// Manager reads and writes the auth fields of browser sessions.
type Manager struct {
	store   kvstore.Store
	backend authBackend
	locks   *Locks
	now     func() time.Time
	logg    *logger.Logger
}

func NewManager(store kvstore.Store, auth authBackend, locks *Locks, logg *logger.Logger) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if auth == nil {
		return nil, fmt.Errorf("auth backend required")
	}
	if locks == nil {
		locks = NewLocks()
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Manager{store: store, backend: auth, locks: locks, now: time.Now, logg: logg}, nil
}

// NewID issues a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether raw looks like an id issued by NewID.
func ValidID(raw string) bool {
	_, err := uuid.Parse(raw)
	return err == nil && len(raw) == 36
}

// Load reads the auth fields of sessionID.
func (m *Manager) Load(ctx context.Context, sessionID string) (Session, error) {
	var s Session
	fields := []struct {
		key string
		set func(string)
	}{
		{kvstore.KeyToken, func(v string) { s.Token = v }},
		{kvstore.KeyRole, func(v string) { s.Role = enums.Role(v) }},
		{kvstore.KeyUsername, func(v string) { s.Username = v }},
		{kvstore.KeyUserID, func(v string) {
			if id, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				s.UserID = &id
			}
		}},
	}
	for _, f := range fields {
		value, ok, err := m.store.GetItem(ctx, sessionID, f.key)
		if err != nil {
			return Session{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session storage unavailable")
		}
		if ok {
			f.set(value)
		}
	}
	return s, nil
}

// Authorize loads the session and checks it against role. Failures carry the
// role's login path as the redirect detail.
func (m *Manager) Authorize(ctx context.Context, sessionID string, role enums.Role) (Session, error) {
	s, err := m.Load(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	if !IsAuthorized(s, role, m.now()) {
		msg := "login required"
		if s.Authenticated() && s.Role == role {
			msg = "session expired"
		}
		return Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, msg).
			WithDetail("redirect", role.LoginPath())
	}
	return s, nil
}

// Login authenticates against the backend and persists the returned fields.
func (m *Manager) Login(ctx context.Context, sessionID string, in LoginInput) (*Info, error) {
	resp, err := m.backend.Login(ctx, models.LoginRequest{Username: in.Username, Password: in.Password})
	if err != nil {
		return nil, err
	}
	role, err := enums.ParseRole(string(resp.Role))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "login response carried an unknown role")
	}
	if in.Portal == enums.RoleAdmin && role != enums.RoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Access denied. Admin privileges required.")
	}
	if resp.AccessToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "login response carried no token")
	}
	userID := resp.UserID
	if userID == nil {
		// The token endpoint omits the account id; /api/auth/me has it.
		me, err := m.backend.CurrentUser(backend.WithBearer(ctx, resp.AccessToken))
		if err != nil {
			return nil, err
		}
		userID = &me.ID
	}

	unlock := m.locks.Lock(sessionID)
	defer unlock()

	items := map[string]string{
		kvstore.KeyToken:    resp.AccessToken,
		kvstore.KeyRole:     string(role),
		kvstore.KeyUsername: resp.Username,
		kvstore.KeyUserID:   strconv.Itoa(*userID),
	}
	for key, value := range items {
		if err := m.store.SetItem(ctx, sessionID, key, value); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session storage unavailable")
		}
	}

	s := Session{Token: resp.AccessToken, Role: role, Username: resp.Username, UserID: userID}
	m.logg.Info(m.logg.WithFields(ctx, map[string]any{"user_id": s.UserIDString(), "actor_role": string(s.Role)}), "session login")
	info := m.info(sessionID, s)
	info.Redirect = s.Role.HomePath()
	return info, nil
}

// Register creates a customer account. It does not log the session in.
func (m *Manager) Register(ctx context.Context, in models.CustomerRegister) (*models.CustomerRegisterResponse, error) {
	return m.backend.RegisterCustomer(ctx, in)
}

// Logout clears the auth fields. Cart and checkout keys are left alone.
func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	unlock := m.locks.Lock(sessionID)
	defer unlock()
	for _, key := range []string{kvstore.KeyToken, kvstore.KeyRole, kvstore.KeyUsername, kvstore.KeyUserID} {
		if err := m.store.RemoveItem(ctx, sessionID, key); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session storage unavailable")
		}
	}
	return nil
}

// SetUsername records a username change made through settings.
func (m *Manager) SetUsername(ctx context.Context, sessionID, username string) error {
	if err := m.store.SetItem(ctx, sessionID, kvstore.KeyUsername, username); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session storage unavailable")
	}
	return nil
}

// Describe reports the session state. Expired logins read as unauthenticated.
func (m *Manager) Describe(ctx context.Context, sessionID string) (*Info, error) {
	s, err := m.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !s.Authenticated() || TokenExpired(s.Token, m.now()) {
		return &Info{SessionID: sessionID}, nil
	}
	return m.info(sessionID, s), nil
}

func (m *Manager) info(sessionID string, s Session) *Info {
	info := &Info{
		SessionID:     sessionID,
		Authenticated: true,
		Role:          s.Role,
		Username:      s.Username,
		UserID:        s.UserID,
	}
	if exp, ok := TokenExpiry(s.Token); ok {
		info.ExpiresAt = &exp
	}
	return info
}
