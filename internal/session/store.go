package session

import (
	"context"
	"net/http"

	"github.com/futig/rag-assistant/internal/config"
	"github.com/futig/rag-assistant/internal/entity"
	"github.com/futig/rag-assistant/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const CookieName = "rag_session"

type ctxKey struct{}

// Store keeps sessions in memory only. A session that is not touched for
// the configured TTL is evicted together with its pending documents.
type Store struct {
	cache    *cache.Cache
	cfg      config.SessionConfig
	defaults entity.Settings
	log      *zap.Logger
}

func NewStore(cfg config.SessionConfig, defaults entity.Settings, log *zap.Logger) *Store {
	c := cache.New(cfg.TTL, cfg.CleanupInterval)
	c.OnEvicted(func(id string, v any) {
		if sess, ok := v.(*Session); ok {
			sess.discard()
			log.Debug("session evicted", zap.String("session_id", id))
		}
	})

	return &Store{
		cache:    c,
		cfg:      cfg,
		defaults: defaults,
		log:      log,
	}
}

// Get returns the live session for id, refreshing its TTL.
func (s *Store) Get(id string) (*Session, bool) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	sess := v.(*Session)
	s.cache.SetDefault(id, sess)
	return sess, true
}

func (s *Store) Create() *Session {
	sess := newSession(uuid.NewString(), s.defaults)
	s.cache.SetDefault(sess.ID, sess)
	return sess
}

// Delete drops the session and discards its pending documents.
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

func (s *Store) Count() int {
	return s.cache.ItemCount()
}

// Close evicts every session.
func (s *Store) Close() {
	for id := range s.cache.Items() {
		s.cache.Delete(id)
	}
}

// Middleware attaches the browser's session to the request context,
// creating one and setting the cookie when needed.
func (s *Store) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *Session
		if c, err := r.Cookie(CookieName); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				sess, _ = s.Get(c.Value)
			}
		}

		if sess == nil {
			sess = s.Create()
			ctxzap.Debug(r.Context(), "session created")
		}

		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    sess.ID,
			Path:     "/",
			MaxAge:   int(s.cfg.TTL.Seconds()),
			HttpOnly: true,
			Secure:   s.cfg.SecureCookie,
			SameSite: http.SameSiteLaxMode,
		})

		ctx := logger.AddFields(r.Context(), zap.String("session_id", sess.ID))
		next.ServeHTTP(w, r.WithContext(WithSession(ctx, sess)))
	})
}

func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromContext returns the request's session, or nil outside the middleware.
func FromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(ctxKey{}).(*Session)
	return sess
}
