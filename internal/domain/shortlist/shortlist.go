package shortlist

import (
	"fmt"
	"maps"
	"slices"
	"time"
	"unicode/utf8"
)

// MaxNoteLength caps a single note in characters.
const MaxNoteLength = 2000

// Shortlist is the per-session selection state: starred laptops, notes and the
// comparison set (immutable value object; every change returns a new value).
type Shortlist struct {
	sessionID  string
	starred    []string
	notes      map[string]string
	comparison []string
	updatedAt  int64
}

// New creates an empty shortlist for a session.
func New(sessionID string) Shortlist {
	return Shortlist{sessionID: sessionID, notes: map[string]string{}}
}

// Reconstruct creates a Shortlist without validation (storage hydration).
func Reconstruct(
	sessionID string, starred []string, notes map[string]string,
	comparison []string, updatedAt int64,
) Shortlist {
	if notes == nil {
		notes = map[string]string{}
	}
	return Shortlist{
		sessionID:  sessionID,
		starred:    slices.Clone(starred),
		notes:      maps.Clone(notes),
		comparison: slices.Clone(comparison),
		updatedAt:  updatedAt,
	}
}

// SessionID returns the owning session.
func (s Shortlist) SessionID() string { return s.sessionID }

// Starred returns starred laptop ids in the order they were added.
func (s Shortlist) Starred() []string { return slices.Clone(s.starred) }

// Notes returns a copy of the notes keyed by laptop id.
func (s Shortlist) Notes() map[string]string { return maps.Clone(s.notes) }

// Comparison returns laptop ids selected for comparison.
func (s Shortlist) Comparison() []string { return slices.Clone(s.comparison) }

// UpdatedAt returns the last modification time (unix millis).
func (s Shortlist) UpdatedAt() int64 { return s.updatedAt }

// IsStarred reports whether the laptop is starred.
func (s Shortlist) IsStarred(id string) bool { return slices.Contains(s.starred, id) }

// Star adds the laptop to the starred list. Starring twice is a no-op.
func (s Shortlist) Star(id string) Shortlist {
	if s.IsStarred(id) {
		return s
	}
	out := s.clone()
	out.starred = append(out.starred, id)
	return out.touch()
}

// Unstar removes the laptop from the starred list.
func (s Shortlist) Unstar(id string) Shortlist {
	if !s.IsStarred(id) {
		return s
	}
	out := s.clone()
	out.starred = slices.DeleteFunc(out.starred, func(v string) bool { return v == id })
	return out.touch()
}

// WithNote sets the note for a laptop. An empty note removes it.
func (s Shortlist) WithNote(id, note string) (Shortlist, error) {
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return Shortlist{}, fmt.Errorf("note too long (max %d characters)", MaxNoteLength)
	}
	out := s.clone()
	if note == "" {
		delete(out.notes, id)
	} else {
		out.notes[id] = note
	}
	return out.touch(), nil
}

// AddToComparison selects the laptop for comparison. Adding twice is a no-op.
func (s Shortlist) AddToComparison(id string) Shortlist {
	if slices.Contains(s.comparison, id) {
		return s
	}
	out := s.clone()
	out.comparison = append(out.comparison, id)
	return out.touch()
}

// RemoveFromComparison deselects the laptop.
func (s Shortlist) RemoveFromComparison(id string) Shortlist {
	if !slices.Contains(s.comparison, id) {
		return s
	}
	out := s.clone()
	out.comparison = slices.DeleteFunc(out.comparison, func(v string) bool { return v == id })
	return out.touch()
}

func (s Shortlist) clone() Shortlist {
	return Reconstruct(s.sessionID, s.starred, s.notes, s.comparison, s.updatedAt)
}

func (s Shortlist) touch() Shortlist {
	s.updatedAt = time.Now().UnixMilli()
	return s
}
