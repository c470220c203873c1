package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"photoshare-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionCookie is the name of the session cookie.
const SessionCookie = "photoshare_session"

// SessionStore keeps sessions in Redis under a TTL equal to the
// configured inactivity window. Every read renews the TTL, so the window
// is rolling. The cookie value is an HS256 token wrapping the session id,
// so a tampered cookie fails before Redis is consulted.
type SessionStore struct {
	rdb    *redis.Client
	secret []byte
	ttl    time.Duration
}

// NewSessionStore creates a session store
func NewSessionStore(rdb *redis.Client, secret string, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, secret: []byte(secret), ttl: ttl}
}

// TTL returns the session inactivity window.
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

func sessionKey(id string) string {
	return "session:" + id
}

// Create opens a session for the user and returns the signed cookie value
func (s *SessionStore) Create(ctx context.Context, user *models.User) (string, error) {
	sess := &models.Session{
		ID:       uuid.New().String(),
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, sessionKey(sess.ID), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	return s.signCookie(sess.ID)
}

// Get resolves a cookie value to a live session and renews its TTL.
// Returns ErrUnauthorized for tampered cookies and expired or missing
// sessions.
func (s *SessionStore) Get(ctx context.Context, cookieValue string) (*models.Session, error) {
	sid, err := s.parseCookie(cookieValue)
	if err != nil {
		return nil, ErrUnauthorized
	}

	data, err := s.rdb.GetEx(ctx, sessionKey(sid), s.ttl).Bytes()
	if err == redis.Nil {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	sess.ID = sid
	return &sess, nil
}

// Save persists session changes (the unlocked-album set) without
// touching the TTL.
func (s *SessionStore) Save(ctx context.Context, sess *models.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, sessionKey(sess.ID), data, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete ends a session
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) signCookie(sid string) (string, error) {
	claims := jwt.MapClaims{
		"sid": sid,
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session cookie: %w", err)
	}
	return signed, nil
}

func (s *SessionStore) parseCookie(cookieValue string) (string, error) {
	token, err := jwt.Parse(cookieValue, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse session cookie: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid session cookie")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid session cookie claims")
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", fmt.Errorf("session id not found in cookie")
	}
	return sid, nil
}
