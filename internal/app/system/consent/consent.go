// Package consent persists the visitor's cookie-notice acceptance.
//
// The record is kept under a fixed key as a signed cookie holding
//
//	{"accepted": true, "timestamp": "2025-01-01T00:00:00Z"}
//
// and its presence suppresses the banner on later visits.
package consent

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

const (
	// Key is the fixed storage key for the consent record.
	Key = "cookie-consent"
	// MaxAge is how long an acceptance is remembered.
	MaxAge = 365 * 24 * time.Hour
)

// Record is the persisted acceptance.
type Record struct {
	Accepted  bool      `json:"accepted"`
	Timestamp time.Time `json:"timestamp"`
}

// Manager reads and writes the consent cookie.
type Manager struct {
	codec  *securecookie.SecureCookie
	secure bool
	log    *zap.Logger
}

// NewManager signs consent cookies with hashKey.
func NewManager(hashKey string, secure bool, logger *zap.Logger) (*Manager, error) {
	if len(hashKey) < 32 {
		return nil, errors.New("consent key must be at least 32 characters")
	}
	codec := securecookie.New([]byte(hashKey), nil)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(int(MaxAge.Seconds()))
	return &Manager{codec: codec, secure: secure, log: logger}, nil
}

// Get returns the stored record, if any.
func (m *Manager) Get(r *http.Request) (Record, bool) {
	c, err := r.Cookie(Key)
	if err != nil {
		return Record{}, false
	}
	var rec Record
	if err := m.codec.Decode(Key, c.Value, &rec); err != nil {
		m.log.Debug("consent cookie rejected", zap.Error(err))
		return Record{}, false
	}
	return rec, true
}

// ShowBanner reports whether the cookie notice should be displayed.
func (m *Manager) ShowBanner(r *http.Request) bool {
	if m == nil {
		return false
	}
	_, ok := m.Get(r)
	return !ok
}

// Accept stores an acceptance stamped with now.
func (m *Manager) Accept(w http.ResponseWriter, now time.Time) (Record, error) {
	rec := Record{Accepted: true, Timestamp: now.UTC()}
	v, err := m.codec.Encode(Key, rec)
	if err != nil {
		return Record{}, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Key,
		Value:    v,
		Path:     "/",
		MaxAge:   int(MaxAge.Seconds()),
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return rec, nil
}
