package main

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	errBadCredentials = errors.New("unknown username or wrong password")
	errNoSession      = errors.New("no active session")
)

// User is the stored account record. PasswordHash is serialized here on
// purpose: the /users and /me endpoints declare a Profile output shape,
// and the framework strips everything the shape does not declare.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the public output shape for a user.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// userStore is an in-memory account store seeded at startup.
type userStore struct {
	mu         sync.RWMutex
	byID       map[string]*User
	byUsername map[string]*User
}

func newUserStore(seeds []seedUser) (*userStore, error) {
	s := &userStore{
		byID:       make(map[string]*User),
		byUsername: make(map[string]*User),
	}
	for _, seed := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u := &User{
			ID:           uuid.NewString(),
			Username:     seed.Username,
			Name:         seed.Name,
			Email:        seed.Email,
			PasswordHash: string(hash),
			CreatedAt:    time.Now(),
		}
		s.byID[u.ID] = u
		s.byUsername[u.Username] = u
	}
	return s, nil
}

// authenticate checks a username/password pair against the stored hash.
func (s *userStore) authenticate(username, password string) (*User, error) {
	s.mu.RLock()
	u, ok := s.byUsername[username]
	s.mu.RUnlock()
	if !ok {
		return nil, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, errBadCredentials
	}
	cp := *u
	return &cp, nil
}

func (s *userStore) get(id string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	cp := *u
	return &cp, true
}

// search returns users whose username or name contains the query string.
func (s *userStore) search(q string, limit int) []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, 0, limit)
	for _, u := range s.byID {
		if !matches(u, q) {
			continue
		}
		out = append(out, *u)
		if len(out) == limit {
			break
		}
	}
	return out
}

func matches(u *User, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(u.Username), q) ||
		strings.Contains(strings.ToLower(u.Name), q)
}

// sessionStore maps opaque tokens to user IDs with an expiry.
type sessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]session
}

type session struct {
	userID    string
	expiresAt time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		ttl:      ttl,
		sessions: make(map[string]session),
	}
}

// create opens a session for the user and returns its token.
func (s *sessionStore) create(userID string) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = session{userID: userID, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return token
}

// lookup resolves a token to a user ID, expiring stale sessions on the way.
func (s *sessionStore) lookup(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return "", errNoSession
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return "", errNoSession
	}
	return sess.userID, nil
}

func (s *sessionStore) destroy(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
