/*
Package identity contains the user directory and session logic.

This file defines the Service struct, which owns the registered-user directory and the
single active-session pointer. Every mutation is persisted to the record store
synchronously with the in-memory update. The directory is reloaded whenever another
context reports a change to the directory record; the active session is only ever
updated by explicit login/register/logout calls in this context.
*/
package identity

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"friendhub/internal/app/store"
	"friendhub/internal/pkg/errs"
	"friendhub/internal/pkg/logx"
	"friendhub/internal/pkg/randx"
)

// Service owns the user directory and the active session for this context.
type Service struct {
	store *store.Store

	// mu protects users and current.
	mu      sync.RWMutex
	users   []User
	current *User

	// writing counts in-flight record writes by this Service, so the change
	// notification triggered by its own Put can be skipped (the writer's memory
	// is already up to date, matching the browser storage-event semantics).
	writing int32

	unsubscribe func()
	logger      zerolog.Logger
}

// NewService loads the directory and session records and subscribes to directory changes.
// Legacy records missing a color get one assigned and persisted; a session user missing
// an avatar falls back to the first avatar of the fixed set.
func NewService(st *store.Store) *Service {
	serviceLogger := logx.Logger().With().Str("component", "Identity").Logger()

	s := &Service{
		store:  st,
		logger: serviceLogger,
	}

	s.loadDirectory()
	s.loadSession()

	s.unsubscribe = st.Subscribe(s.onRecordChanged)

	return s
}

// Close cancels the store subscription.
func (s *Service) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Register creates a new user with the given username and avatar, appends it to the
// directory, persists, and establishes it as the active session. It fails without any
// mutation when the username is empty, the avatar is not part of the fixed set, or a
// user with the same username (case-sensitive exact match) already exists.
func (s *Service) Register(username, avatar string) (User, *errs.CustomError) {
	username = strings.TrimSpace(username)
	if username == "" {
		return User{}, errs.NewError(errs.ErrInvalidUsername)
	}

	if !randx.IsValidAvatar(avatar) {
		return User{}, errs.NewError(errs.ErrInvalidAvatar)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			s.logger.Warn().Str("username", username).Msg("Registration conflict: username already exists.")
			return User{}, errs.NewError(errs.ErrUsernameTaken)
		}
	}

	newUser := User{
		ID:       randx.UserID(),
		Username: username,
		Avatar:   avatar,
		Status:   "online",
		Color:    randx.Color(),
	}

	s.users = append(s.users, newUser)
	s.persistDirectoryLocked()

	s.current = &newUser
	s.persistSessionLocked()

	s.logger.Info().
		Str("user_id", newUser.ID).
		Str("username", newUser.Username).
		Int("directory_size", len(s.users)).
		Msg("User registered and session established.")

	return newUser, nil
}

// Login establishes the session for the user matching the given username.
// A matched legacy record missing a color gets one assigned and the correction is
// persisted before the session is established.
func (s *Service) Login(username string) (User, *errs.CustomError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].Username != username {
			continue
		}

		if s.users[i].Color == "" {
			s.users[i].Color = randx.Color()
			s.persistDirectoryLocked()

			s.logger.Info().
				Str("user_id", s.users[i].ID).
				Msg("Assigned color to legacy user record.")
		}

		matched := s.users[i]
		s.current = &matched
		s.persistSessionLocked()

		s.logger.Info().
			Str("user_id", matched.ID).
			Str("username", matched.Username).
			Msg("User logged in.")

		return matched, nil
	}

	return User{}, errs.NewError(errs.ErrUserNotFound)
}

// Logout clears the active session. The directory is not altered.
func (s *Service) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil

	atomic.AddInt32(&s.writing, 1)
	defer atomic.AddInt32(&s.writing, -1)

	if err := s.store.Delete(store.RecordSession); err != nil {
		s.logger.Error().Err(err).Msg("Failed to remove persisted session.")
	}

	s.logger.Info().Msg("Session cleared.")
}

// Current returns a copy of the active session user, if any.
func (s *Service) Current() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return User{}, false
	}

	return *s.current, true
}

// Users returns a copy of the directory in registration order.
func (s *Service) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]User, len(s.users))
	copy(out, s.users)

	return out
}

// onRecordChanged reloads the in-memory directory when another context changed the
// directory record. The session record is deliberately not auto-reloaded.
func (s *Service) onRecordChanged(rec store.Record) {
	if rec != store.RecordDirectory {
		return
	}

	if atomic.LoadInt32(&s.writing) > 0 {
		return
	}

	s.mu.Lock()
	s.loadDirectoryLocked()
	s.mu.Unlock()

	s.logger.Debug().Msg("Directory reloaded after external change.")
}

// loadDirectory reads the persisted directory into memory.
func (s *Service) loadDirectory() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadDirectoryLocked()
}

func (s *Service) loadDirectoryLocked() {
	var users []User

	ok, err := s.store.Get(store.RecordDirectory, &users)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load user directory.")
		return
	}

	if !ok {
		s.users = nil
		return
	}

	s.users = users
}

// loadSession reads the persisted session user into memory, applying the legacy fixers.
func (s *Service) loadSession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var u User

	ok, err := s.store.Get(store.RecordSession, &u)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load session record.")
		return
	}

	if !ok {
		return
	}

	fixed := false

	if u.Color == "" {
		u.Color = randx.Color()
		fixed = true
	}

	if u.Avatar == "" {
		u.Avatar = randx.Avatars[0]
		fixed = true
	}

	s.current = &u

	if fixed {
		s.persistSessionLocked()
		s.logger.Info().Str("user_id", u.ID).Msg("Repaired legacy session record on load.")
	}
}

// persistDirectoryLocked writes the directory record. Caller must hold mu.
func (s *Service) persistDirectoryLocked() {
	atomic.AddInt32(&s.writing, 1)
	defer atomic.AddInt32(&s.writing, -1)

	if err := s.store.Put(store.RecordDirectory, s.users); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist user directory.")
	}
}

// persistSessionLocked writes (or removes) the session record. Caller must hold mu.
func (s *Service) persistSessionLocked() {
	atomic.AddInt32(&s.writing, 1)
	defer atomic.AddInt32(&s.writing, -1)

	if s.current == nil {
		if err := s.store.Delete(store.RecordSession); err != nil {
			s.logger.Error().Err(err).Msg("Failed to remove persisted session.")
		}
		return
	}

	if err := s.store.Put(store.RecordSession, s.current); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist session.")
	}
}
