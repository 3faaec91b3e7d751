package view

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"docmaps/internal/engine"
)

// Session is one activated page view: the set of live map instances
// bootstrapped from the page's fragments. Each instance slot matches a
// fragment's position on the page; a slot stays nil until its image
// probe succeeds, or forever if it fails.
type Session struct {
	ID   string
	Slug string
	Bus  *Bus

	mu    sync.Mutex
	maps  []*engine.Instance
	ended bool
}

// SetInstance installs a bootstrapped instance. A late bootstrap
// finishing after End is discarded, not an error: the instance is torn
// down immediately so no listeners survive the view.
func (s *Session) SetInstance(ordinal int, inst *engine.Instance) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended || ordinal < 0 || ordinal >= len(s.maps) {
		inst.Teardown()
		return false
	}
	s.maps[ordinal] = inst
	return true
}

// Instance returns the live instance at ordinal, if it exists.
func (s *Session) Instance(ordinal int) (*engine.Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended || ordinal < 0 || ordinal >= len(s.maps) || s.maps[ordinal] == nil {
		return nil, false
	}
	return s.maps[ordinal], true
}

// End tears down every instance. Idempotent.
func (s *Session) End() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	maps := s.maps
	s.mu.Unlock()

	for _, inst := range maps {
		if inst != nil {
			inst.Teardown()
		}
	}
}

var sessionSeq atomic.Uint64

// Sessions is the live session store.
type Sessions struct {
	mu sync.RWMutex
	m  map[string]*Session
}

// NewSessions creates an empty session store.
func NewSessions() *Sessions {
	return &Sessions{m: make(map[string]*Session)}
}

// Create registers a new session for a page with the given number of
// map fragments.
func (st *Sessions) Create(slug string, mapCount int) *Session {
	s := &Session{
		ID:   fmt.Sprintf("%x-%d", time.Now().UnixMilli(), sessionSeq.Add(1)),
		Slug: slug,
		Bus:  NewBus(),
	}
	s.maps = make([]*engine.Instance, mapCount)

	st.mu.Lock()
	st.m[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get looks a session up by ID.
func (st *Sessions) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.m[id]
	return s, ok
}

// Drop ends a session and removes it from the store.
func (st *Sessions) Drop(id string) {
	st.mu.Lock()
	s := st.m[id]
	delete(st.m, id)
	st.mu.Unlock()
	if s != nil {
		s.End()
	}
}
