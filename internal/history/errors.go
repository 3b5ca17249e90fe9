package history

import (
	"errors"
	"fmt"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrNilAction is returned when Perform is given a nil action.
	ErrNilAction = errors.New("action is nil")

	// ErrReentrantPerform is returned when Perform is called from inside
	// an action's Perform or Undo. The nested action is discarded.
	ErrReentrantPerform = errors.New("perform called from inside an action callback")

	// ErrNoOpenTransaction is returned by UndoCurrentTransactionOnly when
	// nothing has been added since the last transaction boundary.
	ErrNoOpenTransaction = errors.New("no open transaction")

	// ErrHistoryReset matches a *ResetError via errors.Is.
	ErrHistoryReset = errors.New("history reset after failed reversal")

	// ErrCheckpointNotFound is returned when a checkpoint's transaction
	// has been evicted or discarded.
	ErrCheckpointNotFound = errors.New("checkpoint not found in history")
)

// ActionError reports which step of a transaction failed.
type ActionError struct {
	// Op is "undo" or "perform".
	Op string

	// Transaction is the name of the transaction being replayed.
	Transaction string

	// Step is the index of the failing action within the transaction.
	Step int

	Err error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s transaction %q step %d: %v", e.Op, e.Transaction, e.Step, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// ResetError is returned by Undo and Redo when a transaction could not
// be fully replayed. The history has been cleared by the time it is
// returned.
type ResetError struct {
	Err error
}

func (e *ResetError) Error() string {
	return "history cleared: " + e.Err.Error()
}

func (e *ResetError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is to match ResetError with ErrHistoryReset.
func (e *ResetError) Is(target error) bool {
	return target == ErrHistoryReset
}
