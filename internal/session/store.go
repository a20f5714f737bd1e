package session

import (
	"slices"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/semaphore"

	"blueprint-studio/internal/brief"
	"blueprint-studio/internal/product"
)

// Session is a snapshot of one user's form state and last batch.
type Session struct {
	ID        string
	Config    product.Configuration
	Variants  []brief.Variant
	UpdatedAt time.Time
}

func (s Session) clone() Session {
	out := s
	out.Config = s.Config.Clone()
	out.Variants = slices.Clone(s.Variants)
	return out
}

type entry struct {
	session  Session
	inflight *semaphore.Weighted
	// resets counts Reset calls so a run can tell its snapshot went stale.
	resets uint64
}

type Options struct {
	TTL time.Duration
}

// Store keeps sessions in memory and drops them after TTL of inactivity.
type Store struct {
	mu    sync.Mutex
	items *cache.Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewStore(opts Options) *Store {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Store{
		items: cache.New(ttl, ttl/2),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Create starts a fresh session under id, replacing any existing one.
func (s *Store) Create(id string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.newEntryLocked(id)
	return e.session.clone()
}

func (s *Store) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookupLocked(id)
	if !ok {
		return Session{}, false
	}
	s.touchLocked(e)
	return e.session.clone(), true
}

// GetOrCreate returns the session under id, creating it when missing or
// expired.
func (s *Store) GetOrCreate(id string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookupLocked(id)
	if !ok {
		e = s.newEntryLocked(id)
	}
	s.touchLocked(e)
	return e.session.clone()
}

// Update replaces the configuration with fn's result. Results from an
// earlier batch are kept.
func (s *Store) Update(id string, fn func(product.Configuration) product.Configuration) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookupLocked(id)
	if !ok {
		return Session{}, false
	}
	e.session.Config = fn(e.session.Config.Clone())
	s.touchLocked(e)
	return e.session.clone(), true
}

// Reset restores the initial configuration and clears results.
func (s *Store) Reset(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookupLocked(id)
	if !ok {
		return Session{}, false
	}
	e.session.Config = product.New()
	e.session.Variants = nil
	e.resets++
	s.touchLocked(e)
	return e.session.clone(), true
}

// SetResults replaces the stored batch.
func (s *Store) SetResults(id string, variants []brief.Variant) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookupLocked(id)
	if !ok {
		return false
	}
	e.session.Variants = slices.Clone(variants)
	s.touchLocked(e)
	return true
}

// Run is one in-flight generation. Session is the snapshot taken by Begin;
// the generation must use it rather than re-reading the store.
type Run struct {
	Session Session

	store  *Store
	entry  *entry
	resets uint64
	once   sync.Once
}

// Begin marks a generation as in flight for id. It returns ok=false when
// one is already running or the session does not exist. Release must be
// called once the run is over.
func (s *Store) Begin(id string) (*Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.lookupLocked(id)
	if !found || !e.inflight.TryAcquire(1) {
		return nil, false
	}
	s.touchLocked(e)
	return &Run{
		Session: e.session.clone(),
		store:   s,
		entry:   e,
		resets:  e.resets,
	}, true
}

// Finish stores variants as the session's batch. It drops them and returns
// false when the session was reset, replaced or expired since Begin.
func (r *Run) Finish(variants []brief.Variant) bool {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.lookupLocked(r.Session.ID)
	if !ok || e != r.entry || e.resets != r.resets {
		return false
	}
	e.session.Variants = slices.Clone(variants)
	s.touchLocked(e)
	return true
}

// Release ends the run. Further calls are no-ops.
func (r *Run) Release() {
	r.once.Do(func() { r.entry.inflight.Release(1) })
}

func (s *Store) Delete(id string) {
	s.items.Delete(id)
}

func (s *Store) Len() int {
	return s.items.ItemCount()
}

func (s *Store) lookupLocked(id string) (*entry, bool) {
	v, ok := s.items.Get(id)
	if !ok {
		return nil, false
	}
	e, ok := v.(*entry)
	return e, ok
}

func (s *Store) newEntryLocked(id string) *entry {
	e := &entry{
		session: Session{
			ID:     id,
			Config: product.New(),
		},
		inflight: semaphore.NewWeighted(1),
	}
	s.touchLocked(e)
	return e
}

func (s *Store) touchLocked(e *entry) {
	e.session.UpdatedAt = s.now()
	s.items.Set(e.session.ID, e, s.ttl)
}
