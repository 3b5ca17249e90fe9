package textedit

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/undostack/internal/history"
)

// InsertAction inserts text at a fixed offset.
type InsertAction struct {
	doc    *Document
	Offset int
	Text   string
}

// NewInsert creates an insert action for doc.
func NewInsert(doc *Document, offset int, text string) *InsertAction {
	return &InsertAction{doc: doc, Offset: offset, Text: text}
}

// Perform inserts the text.
func (a *InsertAction) Perform() error {
	if err := a.doc.Insert(a.Offset, a.Text); err != nil {
		return fmt.Errorf("insert at offset %d: %w", a.Offset, err)
	}
	return nil
}

// Undo removes the inserted text, refusing if the document no longer
// holds it at the expected offset.
func (a *InsertAction) Undo() error {
	end := a.Offset + len(a.Text)
	current, err := a.doc.TextRange(a.Offset, end)
	if err != nil {
		return fmt.Errorf("undo insert: %w", err)
	}
	if current != a.Text {
		return fmt.Errorf("undo insert at offset %d: %w", a.Offset, ErrContentMismatch)
	}
	_, err = a.doc.Delete(a.Offset, end)
	return err
}

// SizeInUnits returns the number of bytes inserted.
func (a *InsertAction) SizeInUnits() int {
	return len(a.Text)
}

// CoalesceWith merges an insert that continues right where this one
// ended. Inserts are never merged across a newline, so each line typed
// is its own undo step.
func (a *InsertAction) CoalesceWith(next history.Action) (history.Action, bool) {
	n, ok := next.(*InsertAction)
	if !ok || n.doc != a.doc {
		return nil, false
	}
	if n.Offset != a.Offset+len(a.Text) {
		return nil, false
	}
	if strings.Contains(a.Text, "\n") || strings.Contains(n.Text, "\n") {
		return nil, false
	}
	return &InsertAction{doc: a.doc, Offset: a.Offset, Text: a.Text + n.Text}, true
}

// Description returns a human-readable description.
func (a *InsertAction) Description() string {
	if len(a.Text) == 1 {
		if a.Text == "\n" {
			return "Insert newline"
		}
		if a.Text == "\t" {
			return "Insert tab"
		}
		return fmt.Sprintf("Type '%s'", a.Text)
	}
	if utf8.RuneCountInString(a.Text) <= 20 {
		return fmt.Sprintf("Insert \"%s\"", a.Text)
	}
	return fmt.Sprintf("Insert %d characters", utf8.RuneCountInString(a.Text))
}

// DeleteAction removes the text in [Start, End).
type DeleteAction struct {
	doc   *Document
	Start int
	End   int

	// deleted is captured on every Perform.
	deleted string
}

// NewDelete creates a delete action for doc.
func NewDelete(doc *Document, start, end int) *DeleteAction {
	return &DeleteAction{doc: doc, Start: start, End: end}
}

// NewBackspace deletes count bytes before offset, clamped at the start
// of the document.
func NewBackspace(doc *Document, offset, count int) *DeleteAction {
	return &DeleteAction{doc: doc, Start: max(0, offset-count), End: offset}
}

// Perform deletes the range, remembering the removed text.
func (a *DeleteAction) Perform() error {
	deleted, err := a.doc.Delete(a.Start, a.End)
	if err != nil {
		return fmt.Errorf("delete at range [%d,%d): %w", a.Start, a.End, err)
	}
	a.deleted = deleted
	return nil
}

// Undo restores the deleted text.
func (a *DeleteAction) Undo() error {
	if err := a.doc.Insert(a.Start, a.deleted); err != nil {
		return fmt.Errorf("undo delete: %w", err)
	}
	return nil
}

// SizeInUnits returns the number of bytes deleted.
func (a *DeleteAction) SizeInUnits() int {
	return len(a.deleted)
}

// Deleted returns the text removed by the last Perform.
func (a *DeleteAction) Deleted() string {
	return a.deleted
}

// CoalesceWith merges repeated backspaces (next ends where this one
// starts) and repeated forward deletes (next starts at the same offset).
func (a *DeleteAction) CoalesceWith(next history.Action) (history.Action, bool) {
	n, ok := next.(*DeleteAction)
	if !ok || n.doc != a.doc {
		return nil, false
	}

	switch {
	case n.End == a.Start:
		return &DeleteAction{
			doc:     a.doc,
			Start:   n.Start,
			End:     a.End,
			deleted: n.deleted + a.deleted,
		}, true
	case n.Start == a.Start:
		return &DeleteAction{
			doc:     a.doc,
			Start:   a.Start,
			End:     a.End + (n.End - n.Start),
			deleted: a.deleted + n.deleted,
		}, true
	default:
		return nil, false
	}
}

// Description returns a human-readable description.
func (a *DeleteAction) Description() string {
	count := utf8.RuneCountInString(a.deleted)
	if count == 1 {
		return "Delete"
	}
	return fmt.Sprintf("Delete %d characters", count)
}
