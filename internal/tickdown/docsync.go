package tickdown

import (
	"sync"
	"time"

	"github.com/hay-kot/tickdown/internal/core/markdown"
	"github.com/hay-kot/tickdown/internal/core/task"
)

// Syncer reflects store-side checks back into markdown text. It only ever
// turns "[ ]" into "[x]", and only once the document has been left alone
// for the quiet period, so it never races the user's own typing.
type Syncer struct {
	quiet      time.Duration
	newMatcher MatcherFunc

	mu       sync.Mutex
	lastEdit time.Time
}

// NewSyncer creates a Syncer with the given quiet period.
func NewSyncer(quiet time.Duration) *Syncer {
	return &Syncer{quiet: quiet, newMatcher: NewTextIndex}
}

// RecordEdit notes a user-driven change to the document at t. Earlier
// timestamps than the one already recorded are ignored.
func (s *Syncer) RecordEdit(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.After(s.lastEdit) {
		s.lastEdit = t
	}
}

// LastEdit returns the most recent recorded user edit.
func (s *Syncer) LastEdit() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastEdit
}

// Quiet reports whether the quiet period has elapsed since the last edit.
func (s *Syncer) Quiet(now time.Time) bool {
	return now.Sub(s.LastEdit()) >= s.quiet
}

// Apply returns text with every unchecked line whose task is Timered or
// Completed flipped to checked. changed is false when nothing was flipped
// or the quiet period has not elapsed. Indentation, spacing, and line
// order are preserved exactly.
func (s *Syncer) Apply(text string, tasks []task.Task, now time.Time) (string, bool) {
	if !s.Quiet(now) {
		return text, false
	}

	index := s.newMatcher(tasks)
	out, n := markdown.CheckLines(text, func(line string) bool {
		t, ok := index.Lookup(line)
		return ok && t.IsChecked()
	})
	return out, n > 0
}
