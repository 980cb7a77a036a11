package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/joonhok/docuguide/backend/internal/model/document"
)

// Registry tracks live sessions by ID. Sessions are memory-only and expire
// after TTL of inactivity; eviction closes the session so late gateway
// resolutions are dropped instead of mutating dead state.
type Registry struct {
	cache           *gocache.Cache
	gw              Gateway
	suggestionLimit int
	log             *zap.Logger
}

// NewRegistry builds a registry whose sessions expire ttl after their last
// use.
func NewRegistry(gw Gateway, ttl time.Duration, suggestionLimit int, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	cleanup := ttl / 2
	if cleanup <= 0 {
		cleanup = time.Minute
	}
	cache := gocache.New(ttl, cleanup)
	cache.OnEvicted(func(id string, v interface{}) {
		if sess, ok := v.(*Session); ok {
			sess.Close()
			log.Info("session evicted", zap.String("session", id))
		}
	})
	return &Registry{
		cache:           cache,
		gw:              gw,
		suggestionLimit: suggestionLimit,
		log:             log,
	}
}

// Create provisions a session for an analyzed document.
func (r *Registry) Create(ctx context.Context, doc *document.AnalysisResult) *Session {
	sess := New(ctx, uuid.NewString(), doc, r.gw, r.suggestionLimit, r.log)
	r.cache.SetDefault(sess.ID, sess)
	r.log.Info("session created",
		zap.String("session", sess.ID),
		zap.String("doc", doc.ID),
		zap.String("docType", doc.Extracted.DocType))
	return sess
}

// Get returns the live session and slides its expiry forward.
func (r *Registry) Get(id string) (*Session, bool) {
	v, ok := r.cache.Get(id)
	if !ok {
		return nil, false
	}
	sess := v.(*Session)
	r.cache.SetDefault(id, sess)
	return sess, true
}

// Delete tears a session down immediately.
func (r *Registry) Delete(id string) {
	if v, ok := r.cache.Get(id); ok {
		if sess, ok := v.(*Session); ok {
			sess.Close()
		}
	}
	r.cache.Delete(id)
}
