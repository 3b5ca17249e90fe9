package history

import (
	"time"

	"github.com/google/uuid"
)

// transaction is a named, timestamped group of actions that undo and
// redo as one unit.
type transaction struct {
	id        uuid.UUID
	name      string
	createdAt time.Time
	actions   []Action
}

func newTransaction(name string, createdAt time.Time) *transaction {
	return &transaction{
		id:        uuid.New(),
		name:      name,
		createdAt: createdAt,
	}
}

// totalSize returns the sum of the actions' sizes.
func (t *transaction) totalSize() int {
	total := 0
	for _, a := range t.actions {
		total += a.SizeInUnits()
	}
	return total
}

// last returns the most recently added action, or nil.
func (t *transaction) last() Action {
	if len(t.actions) == 0 {
		return nil
	}
	return t.actions[len(t.actions)-1]
}

// undoAll reverses actions newest first, stopping at the first failure.
func (t *transaction) undoAll() error {
	for i := len(t.actions) - 1; i >= 0; i-- {
		if err := t.actions[i].Undo(); err != nil {
			return &ActionError{Op: "undo", Transaction: t.name, Step: i, Err: err}
		}
	}
	return nil
}

// performAll replays actions oldest first, stopping at the first failure.
func (t *transaction) performAll() error {
	for i, a := range t.actions {
		if err := a.Perform(); err != nil {
			return &ActionError{Op: "perform", Transaction: t.name, Step: i, Err: err}
		}
	}
	return nil
}

func (t *transaction) info() TransactionInfo {
	return TransactionInfo{
		ID:        t.id,
		Name:      t.name,
		CreatedAt: t.createdAt,
		Actions:   len(t.actions),
		Units:     t.totalSize(),
	}
}

// TransactionInfo provides read-only info about a stored transaction.
// Used for displaying undo/redo history to users.
type TransactionInfo struct {
	ID        uuid.UUID // Stable identity, survives eviction of older entries
	Name      string    // Human-readable description
	CreatedAt time.Time // When the first action was performed
	Actions   int       // Number of stored actions after coalescing
	Units     int       // Sum of the actions' sizes
}

// sizeOf sums the sizes of a run of transactions.
func sizeOf(ts []*transaction) int {
	total := 0
	for _, t := range ts {
		total += t.totalSize()
	}
	return total
}
