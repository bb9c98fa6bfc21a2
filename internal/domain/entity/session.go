package entity

import (
	"time"

	"github.com/google/uuid"
)

// MaxSessionEntries caps the history length; the oldest entries are
// dropped first.
const MaxSessionEntries = 100

// Session is the address history of one browsing session. Entries hold
// canonical query strings; Cursor points at the address currently shown.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Entries   []string  `json:"entries"`
	Cursor    int       `json:"cursor"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession starts a history whose only entry is address.
func NewSession(address string, now time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		Entries:   []string{address},
		Cursor:    0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Current returns the address under the cursor.
func (s *Session) Current() string {
	if s.Cursor < 0 || s.Cursor >= len(s.Entries) {
		return ""
	}
	return s.Entries[s.Cursor]
}

// Push records address as a new entry after the cursor, discarding any
// forward entries. It returns false when address equals the current entry.
func (s *Session) Push(address string, now time.Time) bool {
	s.clampCursor()
	if address == s.Current() {
		return false
	}
	s.Entries = append(s.Entries[:s.Cursor+1], address)
	if over := len(s.Entries) - MaxSessionEntries; over > 0 {
		s.Entries = append(s.Entries[:0], s.Entries[over:]...)
	}
	s.Cursor = len(s.Entries) - 1
	s.UpdatedAt = now
	return true
}

// clampCursor pulls a cursor that was stored out of range back onto the
// nearest entry.
func (s *Session) clampCursor() {
	switch {
	case len(s.Entries) == 0:
		s.Cursor = -1
	case s.Cursor < 0:
		s.Cursor = 0
	case s.Cursor >= len(s.Entries):
		s.Cursor = len(s.Entries) - 1
	}
}

func (s *Session) CanGoBack() bool {
	return s.Cursor > 0 && len(s.Entries) > 1
}

func (s *Session) CanGoForward() bool {
	return s.Cursor < len(s.Entries)-1
}

// Back moves the cursor one entry back if possible.
func (s *Session) Back(now time.Time) bool {
	s.clampCursor()
	if !s.CanGoBack() {
		return false
	}
	s.Cursor--
	s.UpdatedAt = now
	return true
}

// Forward moves the cursor one entry forward if possible.
func (s *Session) Forward(now time.Time) bool {
	s.clampCursor()
	if !s.CanGoForward() {
		return false
	}
	s.Cursor++
	s.UpdatedAt = now
	return true
}
