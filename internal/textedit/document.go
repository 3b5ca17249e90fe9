// Package textedit provides a plain text document and reversible edit
// actions for it.
//
// InsertAction and DeleteAction implement history.Action and
// history.Coalescer, so a run of keystrokes or backspaces is stored as a
// single undo step:
//
//	doc := textedit.NewDocument("")
//	h := history.New()
//	h.Perform(textedit.NewInsert(doc, 0, "h"))
//	h.Perform(textedit.NewInsert(doc, 1, "i")) // coalesced into "hi"
package textedit

import (
	"errors"
	"fmt"
)

// Errors returned by document edits.
var (
	ErrOutOfRange      = errors.New("offset out of range")
	ErrContentMismatch = errors.New("document content does not match edit")
)

// Document is an in-memory text buffer addressed by byte offset.
type Document struct {
	text string
}

// NewDocument creates a document with the given content.
func NewDocument(text string) *Document {
	return &Document{text: text}
}

// Text returns the full content.
func (d *Document) Text() string {
	return d.text
}

// Len returns the content length in bytes.
func (d *Document) Len() int {
	return len(d.text)
}

// TextRange returns the content in [start, end).
func (d *Document) TextRange(start, end int) (string, error) {
	if err := d.checkRange(start, end); err != nil {
		return "", err
	}
	return d.text[start:end], nil
}

// Insert inserts text at offset.
func (d *Document) Insert(offset int, text string) error {
	if err := d.checkRange(offset, offset); err != nil {
		return err
	}
	d.text = d.text[:offset] + text + d.text[offset:]
	return nil
}

// Delete removes the content in [start, end) and returns it.
func (d *Document) Delete(start, end int) (string, error) {
	if err := d.checkRange(start, end); err != nil {
		return "", err
	}
	deleted := d.text[start:end]
	d.text = d.text[:start] + d.text[end:]
	return deleted, nil
}

func (d *Document) checkRange(start, end int) error {
	if start < 0 || end < start || end > len(d.text) {
		return fmt.Errorf("range [%d,%d) in document of length %d: %w", start, end, len(d.text), ErrOutOfRange)
	}
	return nil
}
