package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vidmira/backend/internal/identity"
	"github.com/vidmira/backend/internal/kv"
	"github.com/vidmira/backend/internal/logging"
	"github.com/vidmira/backend/internal/models"
)

// Namespace documents owned by the session store. A session is resident only
// while both are present.
const (
	userKey  = "user"
	tokenKey = "token"
)

var (
	// ErrValidation indicates a profile update targeting an identity other
	// than the resident one, or a malformed update.
	ErrValidation = errors.New("invalid profile update")
	// ErrNoSession indicates no identity is resident.
	ErrNoSession = errors.New("no resident session")
)

// Store holds at most one logged-in identity and its token.
type Store struct {
	kv        kv.Store
	providers *identity.Registry
	minter    identity.TokenMinter
	nowFunc   func() time.Time

	mu        sync.Mutex
	listeners []func()
}

// NewStore constructs a session store over the provided namespace.
func NewStore(store kv.Store, providers *identity.Registry, minter identity.TokenMinter) *Store {
	if store == nil {
		panic("session: kv store must not be nil")
	}
	if providers == nil {
		panic("session: provider registry must not be nil")
	}
	if minter == nil {
		minter = identity.DemoTokenMinter{}
	}
	return &Store{kv: store, providers: providers, minter: minter, nowFunc: time.Now}
}

// WithNowFunc overrides the time source. Useful for tests.
func (s *Store) WithNowFunc(now func() time.Time) *Store {
	s.nowFunc = now
	return s
}

// OnChange registers a callback invoked after every login and logout, so the
// presentation layer can react to session changes without polling.
func (s *Store) OnChange(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Current returns the resident identity. The boolean reports presence: an
// identity counts as resident only when both the identity document and a
// non-empty token exist.
func (s *Store) Current(ctx context.Context) (models.Identity, bool, error) {
	resident, ok, err := s.readIdentity(ctx)
	if err != nil || !ok {
		return models.Identity{}, false, err
	}

	token, err := s.readToken(ctx)
	if err != nil {
		return models.Identity{}, false, err
	}
	if token == "" {
		return models.Identity{}, false, nil
	}

	return resident, true, nil
}

// Login installs the named provider's identity with a freshly minted token
// and signals the change. Logging in over an existing session replaces it.
func (s *Store) Login(ctx context.Context, providerName string) (models.Identity, error) {
	provider, err := s.providers.Lookup(providerName)
	if err != nil {
		return models.Identity{}, err
	}

	resident := provider.Identity()
	token, err := s.minter.Mint(resident, s.nowFunc().UTC())
	if err != nil {
		return models.Identity{}, err
	}

	if err := s.writeIdentity(ctx, resident); err != nil {
		return models.Identity{}, err
	}
	tokenDoc, err := json.Marshal(token)
	if err != nil {
		return models.Identity{}, fmt.Errorf("encode token: %w", err)
	}
	if err := s.kv.Set(ctx, tokenKey, tokenDoc); err != nil {
		return models.Identity{}, fmt.Errorf("persist token: %w", err)
	}

	logging.FromContext(ctx).Info("session started", "provider", providerName, "userId", resident.ID)
	s.notify()

	return resident, nil
}

// Logout clears the identity and token unconditionally and signals the change.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.kv.Delete(ctx, userKey); err != nil {
		return fmt.Errorf("clear identity: %w", err)
	}
	if err := s.kv.Delete(ctx, tokenKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}

	logging.FromContext(ctx).Info("session ended")
	s.notify()

	return nil
}

// UpdateProfile merges the provided fields into the resident identity. The
// passed id must match the resident identity's id; a mismatch is a
// validation failure, never an overwrite.
func (s *Store) UpdateProfile(ctx context.Context, identityID int64, update models.ProfileUpdate) (models.Identity, error) {
	resident, ok, err := s.readIdentity(ctx)
	if err != nil {
		return models.Identity{}, err
	}
	if !ok {
		return models.Identity{}, ErrNoSession
	}
	if resident.ID != identityID {
		return models.Identity{}, fmt.Errorf("%w: identity %d is not resident", ErrValidation, identityID)
	}

	if update.ChannelName != nil && *update.ChannelName != "" {
		resident.ChannelName = *update.ChannelName
	}
	if update.AvatarURL != nil && *update.AvatarURL != "" {
		resident.AvatarURL = *update.AvatarURL
	}

	if err := s.writeIdentity(ctx, resident); err != nil {
		return models.Identity{}, err
	}

	logging.FromContext(ctx).Info("profile updated", "userId", resident.ID)

	return resident, nil
}

func (s *Store) notify() {
	s.mu.Lock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

func (s *Store) readIdentity(ctx context.Context) (models.Identity, bool, error) {
	data, err := s.kv.Get(ctx, userKey)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return models.Identity{}, false, nil
		}
		return models.Identity{}, false, fmt.Errorf("load identity: %w", err)
	}

	var resident models.Identity
	if err := json.Unmarshal(data, &resident); err != nil {
		// A corrupt identity document reads as logged out instead of failing.
		logging.FromContext(ctx).Warn("identity document corrupt, treating as logged out", "error", err)
		return models.Identity{}, false, nil
	}

	return resident, true, nil
}

func (s *Store) readToken(ctx context.Context) (string, error) {
	data, err := s.kv.Get(ctx, tokenKey)
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("load token: %w", err)
	}

	var token string
	if err := json.Unmarshal(data, &token); err != nil {
		return "", nil
	}
	return token, nil
}

func (s *Store) writeIdentity(ctx context.Context, resident models.Identity) error {
	data, err := json.Marshal(resident)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := s.kv.Set(ctx, userKey, data); err != nil {
		return fmt.Errorf("persist identity: %w", err)
	}
	return nil
}
