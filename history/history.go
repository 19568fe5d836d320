// Package history records whole-state snapshots of a map document for
// undo and redo. Undo applies a snapshot wholesale instead of reversing
// individual operations, which removes an entire class of inverse-edit
// bugs. One snapshot is pushed per committed gesture, never per
// pointer-move, so the stack stays small and each undo step means
// something to the user.
package history

import "github.com/mapslate/mapslate/document"

// Stack is a linear snapshot list with a cursor. entries[cursor] is the
// state the document currently shows.
type Stack struct {
	entries []document.Snapshot
	cursor  int
	limit   int
}

// New creates a stack seeded with the document's initial state. limit
// bounds how many entries are kept; 0 or less falls back to 100, the
// depth the editor has always shipped with.
func New(limit int, initial document.Snapshot) *Stack {
	if limit <= 0 {
		limit = 100
	}
	return &Stack{entries: []document.Snapshot{initial}, limit: limit}
}

// Push records the state after a committed gesture. Anything past the
// cursor (the redo tail) is discarded first; once over the limit the
// oldest entry is dropped.
func (s *Stack) Push(snap document.Snapshot) {
	s.entries = append(s.entries[:s.cursor+1], snap)
	s.cursor++
	if len(s.entries) > s.limit {
		s.entries = s.entries[1:]
		s.cursor--
	}
}

// ReplaceTop swaps the current entry in place. Used to coalesce a burst
// of key-repeat nudges into one undo step.
func (s *Stack) ReplaceTop(snap document.Snapshot) {
	s.entries[s.cursor] = snap
}

// Undo steps the cursor back and returns the snapshot to apply.
func (s *Stack) Undo() (document.Snapshot, bool) {
	if s.cursor == 0 {
		return document.Snapshot{}, false
	}
	s.cursor--
	return s.entries[s.cursor], true
}

// Redo steps the cursor forward and returns the snapshot to apply.
func (s *Stack) Redo() (document.Snapshot, bool) {
	if s.cursor >= len(s.entries)-1 {
		return document.Snapshot{}, false
	}
	s.cursor++
	return s.entries[s.cursor], true
}

func (s *Stack) CanUndo() bool { return s.cursor > 0 }
func (s *Stack) CanRedo() bool { return s.cursor < len(s.entries)-1 }

// Len returns the number of recorded entries, the initial state included.
func (s *Stack) Len() int { return len(s.entries) }
