package session

import (
	"context"
	"sync"
	"time"

	"github.com/hzqula/portal-gateway/internal/pkg/request"

	"go.uber.org/zap"
)

type User struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Name           string `json:"name,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// Session: user identity plus bearer token. Token boleh kosong (registrasi
// sukses tanpa login), user boleh nil (token selamat reload tapi profil tidak
// direkonstruksi dari storage).
type Session struct {
	User  *User  `json:"user"`
	Token string `json:"token,omitempty"`
}

type Store struct {
	mu       sync.RWMutex
	sessions map[string]Session
	tokens   TokenStorage
	ttl      time.Duration
	logger   *zap.Logger
}

func NewStore(tokens TokenStorage, ttl time.Duration, logger ...*zap.Logger) *Store {
	l := zap.L().Named("session.store")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("session.store")
	}
	return &Store{
		sessions: make(map[string]Session),
		tokens:   tokens,
		ttl:      ttl,
		logger:   l,
	}
}

// Set mengganti session in-memory dan, kalau ada token, menulisnya ke
// durable storage supaya selamat dari reload.
func (s *Store) Set(ctx context.Context, sid string, sess Session) error {
	s.mu.Lock()
	s.sessions[sid] = sess
	s.mu.Unlock()

	if sess.Token == "" {
		return nil
	}
	if err := s.tokens.Save(ctx, sid, sess.Token, s.ttl); err != nil {
		s.logger.Error("failed to persist token", zap.Error(err))
		return err
	}
	return nil
}

// Get mengembalikan session in-memory kalau ada; kalau tidak, hydrate token
// dari durable storage. Hanya token yang selamat; user tetap nil sampai ada
// fetch terautentikasi berikutnya.
func (s *Store) Get(ctx context.Context, sid string) (Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[sid]
	s.mu.RUnlock()
	if ok {
		return sess, true
	}

	token, err := s.tokens.Load(ctx, sid)
	if err != nil {
		s.logger.Error("failed to hydrate token", zap.Error(err))
		return Session{}, false
	}
	if token == "" {
		return Session{}, false
	}
	return Session{Token: token}, true
}

// Logout membersihkan session in-memory dan token di durable storage.
func (s *Store) Logout(ctx context.Context, sid string) error {
	s.mu.Lock()
	delete(s.sessions, sid)
	s.mu.Unlock()

	return s.tokens.Delete(ctx, sid)
}

// Token mengimplementasikan backend.CredentialSource: bearer token milik
// request yang sedang berjalan, dibaca lewat SID di context.
func (s *Store) Token(ctx context.Context) (string, bool) {
	sid, ok := request.SessionID(ctx)
	if !ok {
		return "", false
	}
	sess, ok := s.Get(ctx, sid)
	if !ok || sess.Token == "" {
		return "", false
	}
	return sess.Token, true
}
