// Package history provides transactional undo/redo.
//
// Callers hand reversible Actions to a Manager, which groups them into
// named, timestamped transactions and moves a cursor backward (Undo)
// and forward (Redo) through them. Key concepts:
//
// # Actions
//
// An Action knows how to Perform and Undo itself and reports a size in
// caller-defined units. Actions that also implement Coalescer can merge
// with the action performed right after them, so a run of keystrokes
// becomes a single stored action.
//
// # Transactions
//
//	h := history.New(history.WithRetention(30000, 30))
//
//	h.BeginNewTransaction("Paste")
//	h.Perform(insert)   // starts "Paste"
//	h.Perform(reformat) // joins "Paste"
//
//	h.Undo() // reverses reformat, then insert
//	h.Redo()
//
// Actions join the current transaction until BeginNewTransaction is
// called. Undo and Redo always close the current transaction.
//
// # Branches
//
// Performing an action after an undo discards the redoable future. The
// discarded transactions are kept in a one-deep stash so that
// UndoCurrentTransactionOnly can abandon the new branch and bring them
// back.
//
// # Retention
//
// After every Perform the oldest transactions are dropped while the
// summed size exceeds the unit budget and more than the minimum number
// of transactions remain. Transactions at or after the cursor are never
// dropped.
//
// # Failures
//
// A failing Perform leaves the history untouched. A failing Undo or Redo
// leaves the caller's state partially replayed, so the whole history is
// cleared and a *ResetError returned.
package history
