package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"activityboard/internal/board"
	"activityboard/internal/infrastructure/metrics"
	"activityboard/internal/infrastructure/view"
)

// Session is one browser's board and the page it renders into.
type Session struct {
	ID    string
	Board *board.Board
	Page  *view.Page

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// BoardFactory builds the board for a new session rendering into page.
type BoardFactory func(id string, page *view.Page) *board.Board

// Registry holds sessions in memory and expires idle ones.
type Registry struct {
	factory BoardFactory
	ttl     time.Duration
	log     *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(factory BoardFactory, ttl time.Duration, log *zap.Logger) *Registry {
	return &Registry{
		factory:  factory,
		ttl:      ttl,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the live session with id and marks it as seen.
func (r *Registry) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}
	s.touch(r.now())
	return s, true
}

func (r *Registry) Create() *Session {
	id := uuid.NewString()
	page := view.NewPage(r.log.With(zap.String("session", id)))
	s := &Session{
		ID:       id,
		Page:     page,
		Board:    r.factory(id, page),
		lastSeen: r.now(),
	}

	r.mu.Lock()
	r.sessions[id] = s
	n := len(r.sessions)
	r.mu.Unlock()

	metrics.SetActiveSessions(n)
	r.log.Debug("session created", zap.String("session", id))
	return s
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the TTL. Sessions with an open
// event stream are kept.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	var expired []*Session
	r.mu.Lock()
	for id, s := range r.sessions {
		if s.Page.Subscribers() > 0 || s.idleSince().After(cutoff) {
			continue
		}
		delete(r.sessions, id)
		expired = append(expired, s)
	}
	n := len(r.sessions)
	r.mu.Unlock()

	for _, s := range expired {
		s.Board.Close()
	}
	if len(expired) > 0 {
		metrics.SetActiveSessions(n)
		r.log.Info("sessions expired", zap.Int("count", len(expired)), zap.Int("active", n))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
