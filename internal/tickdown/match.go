package tickdown

import "github.com/hay-kot/tickdown/internal/core/task"

// Matcher maps checkbox-line text to the stored task that represents it.
// Reconciliation and document sync both go through a Matcher so the
// natural-key policy lives in one place.
type Matcher interface {
	// Lookup returns the task that text refers to.
	Lookup(text string) (task.Task, bool)
	// Put records t as the task for its text, replacing any previous entry.
	Put(t task.Task)
}

// MatcherFunc builds a Matcher over an owner's current tasks.
type MatcherFunc func(tasks []task.Task) Matcher

// TextIndex matches by exact text equality. When several stored tasks share
// the same text, the preferred one wins (see Prefer).
type TextIndex struct {
	byText map[string]task.Task
}

// NewTextIndex indexes tasks by text.
func NewTextIndex(tasks []task.Task) Matcher {
	ix := &TextIndex{byText: make(map[string]task.Task, len(tasks))}
	for _, t := range tasks {
		cur, ok := ix.byText[t.Text]
		if !ok || Prefer(t, cur) {
			ix.byText[t.Text] = t
		}
	}
	return ix
}

func (ix *TextIndex) Lookup(text string) (task.Task, bool) {
	t, ok := ix.byText[text]
	return t, ok
}

func (ix *TextIndex) Put(t task.Task) {
	ix.byText[t.Text] = t
}

// Prefer reports whether a should represent a line over b when both carry
// the same text. Unfinished tasks beat finalized ones; within the same
// group the most recently created wins, with the larger id breaking ties.
func Prefer(a, b task.Task) bool {
	aDone := a.State() == task.StateCompleted
	bDone := b.State() == task.StateCompleted
	if aDone != bDone {
		return !aDone
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
