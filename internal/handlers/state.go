package handlers

import (
	"sync"
	"time"
)

// Pending text inputs.
const (
	inputNone        = ""
	inputName        = "name"
	inputPackSize    = "pack"
	inputPersona     = "persona"
	inputAccessories = "props"
)

// uiState is the Telegram-only part of a wizard: which menu is open, which
// message carries the keyboard, and what free text we are waiting for.
type uiState struct {
	Menu      string
	MessageID int
	Awaiting  string
	UpdatedAt time.Time
}

type stateKey struct {
	chatID int64
	userID int64
}

type uiStore struct {
	mu sync.Mutex
	m  map[stateKey]*uiState
}

func newUIStore() *uiStore {
	return &uiStore{m: make(map[stateKey]*uiState)}
}

func (s *uiStore) Get(chatID, userID int64) uiState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return *s.getOrCreateLocked(chatID, userID)
}

func (s *uiStore) Update(chatID, userID int64, fn func(*uiState)) uiState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.getOrCreateLocked(chatID, userID)
	fn(st)
	st.UpdatedAt = time.Now()
	return *st
}

// Sweep drops states idle for longer than ttl.
func (s *uiStore) Sweep(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-ttl)
	n := 0
	for k, st := range s.m {
		if st.UpdatedAt.Before(cutoff) {
			delete(s.m, k)
			n++
		}
	}
	return n
}

func (s *uiStore) getOrCreateLocked(chatID, userID int64) *uiState {
	key := stateKey{chatID: chatID, userID: userID}
	if st, ok := s.m[key]; ok {
		return st
	}
	st := &uiState{Menu: menuMain, UpdatedAt: time.Now()}
	s.m[key] = st
	return st
}
