package history

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// TransactionScope groups the actions performed between Scope and End
// into one transaction. Usage:
//
//	func dragShape(h *history.Manager) error {
//	    scope := h.Scope("Move shape")
//	    defer scope.End()
//	    // ... h.Perform(...) per mouse event ...
//	}
type TransactionScope struct {
	history *Manager
	active  bool
}

// Scope begins a new named transaction and returns a handle that
// closes it.
func (m *Manager) Scope(name string) *TransactionScope {
	m.BeginNewTransaction(name)
	return &TransactionScope{
		history: m,
		active:  true,
	}
}

// End closes the scope's transaction so later actions start a new one.
// Safe to call multiple times; only the first call has effect.
func (s *TransactionScope) End() {
	if s.active {
		s.history.BeginNewTransaction("")
		s.active = false
	}
}

// Cancel undoes the scope's transaction and discards it. Nothing is
// undone if the scope performed no actions. Only the first call to End
// or Cancel has effect.
func (s *TransactionScope) Cancel() error {
	if !s.active {
		return nil
	}
	s.active = false

	err := s.history.UndoCurrentTransactionOnly()
	if errors.Is(err, ErrNoOpenTransaction) {
		return nil
	}
	return err
}

// Transact runs fn inside a scope. If fn returns an error, every
// transaction performed since Transact was called is undone, including
// any fn started itself with BeginNewTransaction, and fn's error is
// returned.
func (m *Manager) Transact(name string, fn func() error) error {
	start := m.Checkpoint()
	scope := m.Scope(name)

	if err := fn(); err != nil {
		if cerr := scope.Cancel(); cerr != nil {
			return errors.Join(err, cerr)
		}
		if uerr := m.UndoTo(start); uerr != nil {
			return errors.Join(err, uerr)
		}
		return err
	}

	scope.End()
	return nil
}

// PerformAll performs the actions as a single new transaction.
// It stops at the first failing action; those already performed stay in
// the transaction so they can still be undone.
func (m *Manager) PerformAll(name string, actions ...Action) error {
	if len(actions) == 0 {
		return nil
	}

	m.BeginNewTransaction(name)
	defer m.BeginNewTransaction("")

	for i, a := range actions {
		if err := m.Perform(a); err != nil {
			return fmt.Errorf("transaction %q step %d: %w", name, i, err)
		}
	}
	return nil
}

// Checkpoint marks a point in history that can be returned to.
// The zero Checkpoint is the start of history.
type Checkpoint struct {
	id uuid.UUID
}

// Checkpoint returns a checkpoint at the current cursor position.
func (m *Manager) Checkpoint() Checkpoint {
	if set := m.currentSet(); set != nil {
		return Checkpoint{id: set.id}
	}
	return Checkpoint{}
}

// UndoTo undoes transactions until the checkpoint is current again.
// It does nothing if the checkpoint lies on the redo side.
func (m *Manager) UndoTo(cp Checkpoint) error {
	target, err := m.checkpointIndex(cp)
	if err != nil {
		return err
	}
	for m.next > target {
		if err := m.Undo(); err != nil {
			return err
		}
	}
	return nil
}

// RedoTo redoes transactions until the checkpoint is current again.
func (m *Manager) RedoTo(cp Checkpoint) error {
	target, err := m.checkpointIndex(cp)
	if err != nil {
		return err
	}
	for m.next < target {
		if err := m.Redo(); err != nil {
			return err
		}
	}
	return nil
}

// checkpointIndex returns the cursor value at which cp is current.
func (m *Manager) checkpointIndex(cp Checkpoint) (int, error) {
	if cp.id == uuid.Nil {
		return 0, nil
	}
	for i, t := range m.transactions {
		if t.id == cp.id {
			return i + 1, nil
		}
	}
	return 0, ErrCheckpointNotFound
}
