// Package flash carries one-shot user messages across a redirect using a
// signed cookie session.
package flash

import (
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// Message levels.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

const messagesKey = "flash_messages"

// Message is a single flash message.
type Message struct {
	Level string
	Text  string
}

// Store reads and writes flash messages.
type Store struct {
	store  *sessions.CookieStore
	name   string
	logger *zap.Logger
}

// New creates a flash Store. An empty key generates a random one, which is
// fine for a single instance but invalidates pending messages on restart.
func New(key, name string, secure bool, logger *zap.Logger) *Store {
	k := []byte(key)
	if len(k) == 0 {
		k = securecookie.GenerateRandomKey(32)
		logger.Warn("flash: no session key configured, using a random key")
	}

	cs := sessions.NewCookieStore(k)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int((5 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	if name == "" {
		name = "clinicoutcomes-flash"
	}
	return &Store{store: cs, name: name, logger: logger}
}

// Add queues a message for the next request.
func (s *Store) Add(w http.ResponseWriter, r *http.Request, level, text string) {
	sess, err := s.store.Get(r, s.name)
	if err != nil {
		// A stale or tampered cookie yields a fresh session; keep going.
		s.logger.Debug("flash: session decode failed", zap.Error(err))
	}
	sess.AddFlash(level+"|"+text, messagesKey)
	if err := sess.Save(r, w); err != nil {
		s.logger.Warn("flash: session save failed", zap.Error(err))
	}
}

// Pop returns and clears the queued messages.
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) []Message {
	sess, err := s.store.Get(r, s.name)
	if err != nil {
		return nil
	}
	raw := sess.Flashes(messagesKey)
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		s.logger.Warn("flash: session save failed", zap.Error(err))
	}

	out := make([]Message, 0, len(raw))
	for _, v := range raw {
		str, ok := v.(string)
		if !ok {
			continue
		}
		out = append(out, parse(str))
	}
	return out
}

func parse(s string) Message {
	for i := 0; i < len(s); i++ {
		if s[i] == '|' {
			return Message{Level: s[:i], Text: s[i+1:]}
		}
	}
	return Message{Level: LevelInfo, Text: s}
}
