// Package session is the single source of truth for who is logged in. The
// in-memory state and the vault move together: token and profile are set and
// cleared as a pair, never one without the other.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"annfsu/app/internal/api"
	"annfsu/app/internal/avatar"
	"annfsu/app/internal/models"
	"annfsu/app/internal/vault"
)

var (
	// ErrNoSession means the operation needs an authenticated session.
	ErrNoSession = errors.New("session: not authenticated")
	// ErrAuthentication wraps a backend credential rejection; its message is
	// the backend's own detail when one was sent.
	ErrAuthentication = errors.New("authentication failed")
)

// Backend is the slice of the API client the store drives.
type Backend interface {
	Login(ctx context.Context, identifier, password string) (api.AuthResult, error)
	Signup(ctx context.Context, input api.SignupInput) (api.AuthResult, error)
	RequestOTP(ctx context.Context, phone string) (api.OTPInfo, error)
	VerifyOTP(ctx context.Context, phone, otp string) (api.AuthResult, error)
	Me(ctx context.Context) (models.UserProfile, error)
	Apply(ctx context.Context) (models.UserProfile, error)
	SetToken(token string)
}

// PhotoPipeline is implemented by *avatar.Pipeline.
type PhotoPipeline interface {
	Update(ctx context.Context, user models.UserProfile, src avatar.Source) (models.UserProfile, error)
	Remove(ctx context.Context, user models.UserProfile) (models.UserProfile, error)
}

type Store struct {
	backend Backend
	vault   vault.Vault
	photos  PhotoPipeline
	log     zerolog.Logger

	mu    sync.RWMutex
	user  *models.UserProfile
	token string
}

func NewStore(backend Backend, v vault.Vault, photos PhotoPipeline, logger zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		vault:   v,
		photos:  photos,
		log:     logger,
	}
}

// Load populates the session from the vault at startup. Missing or corrupt
// entries degrade silently to logged-out; no error reaches the caller.
func (s *Store) Load() {
	token, err := s.vault.Get(vault.KeyAuthToken)
	if err != nil {
		return
	}
	raw, err := s.vault.Get(vault.KeyUserData)
	if err != nil {
		return
	}

	var user models.UserProfile
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.log.Debug().Err(err).Msg("stored profile unreadable, starting logged out")
		return
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()
	s.backend.SetToken(token)
}

// Login authenticates with identifier (email, username or phone) and
// password. On failure the prior session, if any, is left untouched.
func (s *Store) Login(ctx context.Context, identifier, password string) error {
	result, err := s.backend.Login(ctx, identifier, password)
	if err != nil {
		return asAuthError(err)
	}
	return s.establish(result)
}

// Signup registers a new account; a successful signup is also a login.
func (s *Store) Signup(ctx context.Context, input api.SignupInput) error {
	result, err := s.backend.Signup(ctx, input)
	if err != nil {
		return asAuthError(err)
	}
	return s.establish(result)
}

// RequestOTP has no session side effect and may be called repeatedly.
func (s *Store) RequestOTP(ctx context.Context, phone string) (api.OTPInfo, error) {
	return s.backend.RequestOTP(ctx, phone)
}

func (s *Store) VerifyOTP(ctx context.Context, phone, otp string) error {
	result, err := s.backend.VerifyOTP(ctx, phone, otp)
	if err != nil {
		return asAuthError(err)
	}
	return s.establish(result)
}

// establish writes the new session to the vault first, then memory. A vault
// failure aborts the login so memory and storage never diverge on entry.
func (s *Store) establish(result api.AuthResult) error {
	raw, err := json.Marshal(result.User)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}

	prevToken, prevErr := s.vault.Get(vault.KeyAuthToken)

	if err := s.vault.Set(vault.KeyAuthToken, result.AccessToken); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	if err := s.vault.Set(vault.KeyUserData, string(raw)); err != nil {
		// The profile entry still holds the prior session's snapshot, so
		// putting the prior token back keeps the vault pair consistent.
		if prevErr == nil {
			if restoreErr := s.vault.Set(vault.KeyAuthToken, prevToken); restoreErr != nil {
				s.log.Warn().Err(restoreErr).Msg("token restore failed")
			}
		} else {
			_ = s.vault.Delete(vault.KeyAuthToken)
		}
		return fmt.Errorf("persist profile: %w", err)
	}

	user := result.User
	s.mu.Lock()
	s.token = result.AccessToken
	s.user = &user
	s.mu.Unlock()
	s.backend.SetToken(result.AccessToken)
	return nil
}

// Logout clears durable storage first, then memory. The durable clear is
// best-effort: whatever happens, the in-memory session ends up empty.
func (s *Store) Logout() {
	if err := s.vault.Delete(vault.KeyAuthToken); err != nil {
		s.log.Warn().Err(err).Msg("token clear failed")
	}
	if err := s.vault.Delete(vault.KeyUserData); err != nil {
		s.log.Warn().Err(err).Msg("profile clear failed")
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
	s.backend.SetToken("")
}

// RefreshProfile refetches the profile with the stored token and overwrites
// both copies. A no-op when logged out.
func (s *Store) RefreshProfile(ctx context.Context) error {
	if !s.Authenticated() {
		return nil
	}
	user, err := s.backend.Me(ctx)
	if err != nil {
		return err
	}
	s.replaceUser(user)
	return nil
}

// Apply files a membership application for the logged-in user.
func (s *Store) Apply(ctx context.Context) (models.UserProfile, error) {
	if !s.Authenticated() {
		return models.UserProfile{}, ErrNoSession
	}
	user, err := s.backend.Apply(ctx)
	if err != nil {
		return models.UserProfile{}, err
	}
	s.replaceUser(user)
	return user, nil
}

// UpdatePhoto runs the photo pipeline for the current user and, once both
// object storage and the backend have accepted the new URL, replaces the
// profile. Two overlapping calls resolve last-write-wins; each write under
// the lock is a whole profile, so a mixed state cannot be observed.
func (s *Store) UpdatePhoto(ctx context.Context, src avatar.Source) (models.UserProfile, error) {
	current, ok := s.Current()
	if !ok {
		return models.UserProfile{}, ErrNoSession
	}
	updated, err := s.photos.Update(ctx, current, src)
	if err != nil {
		return models.UserProfile{}, err
	}
	s.replaceUser(updated)
	return updated, nil
}

// RemovePhoto deletes the avatar object and clears the photo field.
func (s *Store) RemovePhoto(ctx context.Context) (models.UserProfile, error) {
	current, ok := s.Current()
	if !ok {
		return models.UserProfile{}, ErrNoSession
	}
	updated, err := s.photos.Remove(ctx, current)
	if err != nil {
		return models.UserProfile{}, err
	}
	s.replaceUser(updated)
	return updated, nil
}

// replaceUser swaps the in-memory profile and mirrors it to the vault. The
// backend already holds this state, so a failed mirror is logged and the
// in-memory update proceeds; the vault copy is only a startup snapshot.
func (s *Store) replaceUser(user models.UserProfile) {
	raw, err := json.Marshal(user)
	if err == nil {
		if setErr := s.vault.Set(vault.KeyUserData, string(raw)); setErr != nil {
			s.log.Warn().Err(setErr).Msg("profile snapshot write failed")
		}
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
}

func (s *Store) Current() (models.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.UserProfile{}, false
	}
	return *s.user, true
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

func (s *Store) IsAdmin() bool {
	user, ok := s.Current()
	return ok && user.IsAdmin()
}

func (s *Store) IsApproved() bool {
	user, ok := s.Current()
	return ok && user.IsApproved()
}

func asAuthError(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Detail
		if msg == "" {
			msg = "invalid credentials"
		}
		return fmt.Errorf("%w: %s", ErrAuthentication, msg)
	}
	return err
}
