package history

import (
	"slices"
	"time"
)

// CanUndo returns true if undo is available.
func (m *Manager) CanUndo() bool {
	return m.currentSet() != nil
}

// CanRedo returns true if redo is available.
func (m *Manager) CanRedo() bool {
	return m.nextSet() != nil
}

// UndoCount returns the number of transactions that can be undone.
func (m *Manager) UndoCount() int {
	return m.next
}

// RedoCount returns the number of transactions that can be redone.
func (m *Manager) RedoCount() int {
	return len(m.transactions) - m.next
}

// StashLen returns the number of transactions held aside by the last
// branch cut.
func (m *Manager) StashLen() int {
	return len(m.stash)
}

// UnitsStored returns the summed size of every transaction in history.
// Stashed transactions are not counted.
func (m *Manager) UnitsStored() int {
	return m.unitsStored
}

// UndoDescription returns the name of the transaction Undo would
// reverse, or "" if there is none.
func (m *Manager) UndoDescription() string {
	if set := m.currentSet(); set != nil {
		return set.name
	}
	return ""
}

// RedoDescription returns the name of the transaction Redo would
// replay, or "" if there is none.
func (m *Manager) RedoDescription() string {
	if set := m.nextSet(); set != nil {
		return set.name
	}
	return ""
}

// UndoDescriptions returns the names of all undoable transactions,
// most recent first.
func (m *Manager) UndoDescriptions() []string {
	names := make([]string, 0, m.next)
	for i := m.next - 1; i >= 0; i-- {
		names = append(names, m.transactions[i].name)
	}
	return names
}

// RedoDescriptions returns the names of all redoable transactions,
// next to be redone first.
func (m *Manager) RedoDescriptions() []string {
	names := make([]string, 0, m.RedoCount())
	for _, t := range m.transactions[m.next:] {
		names = append(names, t.name)
	}
	return names
}

// TimeOfUndoTransaction returns when the transaction Undo would reverse
// was created, or the zero time if there is none.
func (m *Manager) TimeOfUndoTransaction() time.Time {
	if set := m.currentSet(); set != nil {
		return set.createdAt
	}
	return time.Time{}
}

// TimeOfRedoTransaction returns when the transaction Redo would replay
// was created. With nothing to redo it returns the current time.
func (m *Manager) TimeOfRedoTransaction() time.Time {
	if set := m.nextSet(); set != nil {
		return set.createdAt
	}
	return m.clock.Now()
}

// ActionsInCurrentTransaction returns the actions of the transaction
// still accepting new actions. It is empty once a new transaction has
// been begun.
func (m *Manager) ActionsInCurrentTransaction() []Action {
	if m.newTransaction {
		return nil
	}
	if set := m.currentSet(); set != nil {
		return slices.Clone(set.actions)
	}
	return nil
}

// NumActionsInCurrentTransaction returns len(ActionsInCurrentTransaction()).
func (m *Manager) NumActionsInCurrentTransaction() int {
	if m.newTransaction {
		return 0
	}
	if set := m.currentSet(); set != nil {
		return len(set.actions)
	}
	return 0
}

// Transactions returns a snapshot of every stored transaction, oldest
// first.
func (m *Manager) Transactions() []TransactionInfo {
	result := make([]TransactionInfo, len(m.transactions))
	for i, t := range m.transactions {
		result[i] = t.info()
	}
	return result
}

// PeekUndo returns info about the transaction Undo would reverse.
func (m *Manager) PeekUndo() (TransactionInfo, bool) {
	if set := m.currentSet(); set != nil {
		return set.info(), true
	}
	return TransactionInfo{}, false
}

// PeekRedo returns info about the transaction Redo would replay.
func (m *Manager) PeekRedo() (TransactionInfo, bool) {
	if set := m.nextSet(); set != nil {
		return set.info(), true
	}
	return TransactionInfo{}, false
}
