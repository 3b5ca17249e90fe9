package history

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dshills/undostack/internal/clock"
	"github.com/dshills/undostack/internal/notify"
)

// Manager keeps an ordered list of transactions and a cursor into it.
// Transactions before the cursor have been performed and can be undone;
// transactions at or after it have been undone and can be redone.
//
// A Manager is not safe for concurrent use. Callers sharing one between
// goroutines must serialize access.
type Manager struct {
	transactions []*transaction
	next         int // cursor: index of the first redoable transaction

	// Transactions displaced by the most recent branch cut.
	stash []*transaction

	unitsStored int

	// newTransaction marks that the next Perform starts a new
	// transaction instead of extending the current one.
	newTransaction     bool
	newTransactionName string

	// inCallback is set while an action's Perform or Undo is running.
	inCallback bool

	maxUnits        int
	minTransactions int

	clock  clock.Clock
	logger *slog.Logger
	sink   Sink
	source string
}

// New creates a history manager with the default retention policy.
func New(opts ...Option) *Manager {
	m := &Manager{
		newTransaction:  true,
		maxUnits:        DefaultMaxUnits,
		minTransactions: DefaultMinTransactions,
		clock:           clock.Real(),
		logger:          slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.source != "" {
		m.logger = m.logger.With("history", m.source)
	}
	return m
}

// SetRetentionPolicy sets how much history is kept. After each Perform
// the oldest transactions are dropped while more than maxUnits are
// stored and more than minTransactions remain. Values below 1 are
// raised to 1. The policy is applied on the next Perform.
func (m *Manager) SetRetentionPolicy(maxUnits, minTransactions int) {
	m.maxUnits = max(1, maxUnits)
	m.minTransactions = max(1, minTransactions)
}

// RetentionPolicy returns the current maxUnits and minTransactions.
func (m *Manager) RetentionPolicy() (maxUnits, minTransactions int) {
	return m.maxUnits, m.minTransactions
}

// Perform runs the action and, if it succeeds, stores it in history.
//
// The action joins the current transaction unless BeginNewTransaction
// was called (or an undo/redo happened) since the last Perform, in which
// case a new transaction is started. If the current transaction's last
// action is a Coalescer that accepts the new action, the merged result
// replaces it.
//
// On error the action is discarded and the history is unchanged.
func (m *Manager) Perform(action Action) error {
	if action == nil {
		return ErrNilAction
	}
	if m.inCallback {
		m.logger.Error("perform called from inside an action callback, action discarded")
		return ErrReentrantPerform
	}

	if err := m.runCallback(action.Perform); err != nil {
		return fmt.Errorf("perform: %w", err)
	}

	set := m.currentSet()
	if set != nil && !m.newTransaction {
		if last, ok := set.last().(Coalescer); ok {
			if merged, ok := last.CoalesceWith(action); ok && merged != nil {
				action = merged
				m.subtractUnits(set.last().SizeInUnits())
				set.actions = set.actions[:len(set.actions)-1]
			}
		}
	} else {
		set = newTransaction(m.newTransactionName, m.clock.Now())
		m.transactions = slices.Insert(m.transactions, m.next, set)
		m.next++
	}

	m.unitsStored += action.SizeInUnits()
	set.actions = append(set.actions, action)
	m.newTransaction = false

	m.moveFutureTransactionsToStash()
	m.dropOldTransactionsIfTooLarge()
	m.notify(notify.KindPerform, set.name)
	return nil
}

// PerformNamed performs the action and, on success, names the current
// transaction. An empty name leaves the name unchanged.
func (m *Manager) PerformNamed(action Action, name string) error {
	if err := m.Perform(action); err != nil {
		return err
	}
	if name != "" {
		m.SetCurrentTransactionName(name)
	}
	return nil
}

// BeginNewTransaction closes the current transaction. The next
// successful Perform starts a new one with the given name.
func (m *Manager) BeginNewTransaction(name string) {
	m.newTransaction = true
	m.newTransactionName = name
}

// SetCurrentTransactionName names the pending transaction if one has
// been begun but not yet started, otherwise renames the current one.
func (m *Manager) SetCurrentTransactionName(name string) {
	if m.newTransaction {
		m.newTransactionName = name
	} else if set := m.currentSet(); set != nil {
		set.name = name
	}
	m.notify(notify.KindRename, name)
}

// CurrentTransactionName returns the name the next Perform will use if a
// new transaction is pending, otherwise the current transaction's name.
// The pending name wins even when a current transaction exists, so the
// result always matches what SetCurrentTransactionName would change.
func (m *Manager) CurrentTransactionName() string {
	if m.newTransaction {
		return m.newTransactionName
	}
	if set := m.currentSet(); set != nil {
		return set.name
	}
	return ""
}

// Undo reverses the transaction before the cursor.
//
// If any of its actions fails to undo, the history can no longer be
// trusted and is cleared; the returned error is then a *ResetError.
// ErrNothingToUndo is the only error that means no attempt was made.
func (m *Manager) Undo() error {
	set := m.currentSet()
	if set == nil {
		return ErrNothingToUndo
	}

	kind := notify.KindUndo
	err := m.runCallback(set.undoAll)
	if err == nil {
		m.next--
	} else {
		m.reset(err)
		kind = notify.KindReset
		err = &ResetError{Err: err}
	}

	m.BeginNewTransaction("")
	m.notify(kind, set.name)
	return err
}

// Redo replays the transaction at the cursor. Failure handling matches
// Undo.
func (m *Manager) Redo() error {
	set := m.nextSet()
	if set == nil {
		return ErrNothingToRedo
	}

	kind := notify.KindRedo
	err := m.runCallback(set.performAll)
	if err == nil {
		m.next++
	} else {
		m.reset(err)
		kind = notify.KindReset
		err = &ResetError{Err: err}
	}

	m.BeginNewTransaction("")
	m.notify(kind, set.name)
	return err
}

// UndoCurrentTransactionOnly undoes the current transaction and then
// throws it away, restoring whatever the last branch cut displaced as
// the redoable future. It suits continuous gestures such as drags,
// where an in-progress transaction is abandoned and rebuilt.
//
// It fails with ErrNoOpenTransaction if nothing has been performed
// since the last transaction boundary.
func (m *Manager) UndoCurrentTransactionOnly() error {
	if m.newTransaction {
		return ErrNoOpenTransaction
	}
	err := m.Undo()
	if errors.Is(err, ErrNothingToUndo) {
		return err
	}
	m.restoreStashedFutureTransactions()
	return err
}

// ClearHistory removes all transactions, including stashed ones.
func (m *Manager) ClearHistory() {
	m.clear()
	m.notify(notify.KindClear, "")
}

// IsPerformingUndoRedo reports whether an action callback is running.
func (m *Manager) IsPerformingUndoRedo() bool {
	return m.inCallback
}

// runCallback runs fn with the reentrancy guard held.
func (m *Manager) runCallback(fn func() error) error {
	prev := m.inCallback
	m.inCallback = true
	defer func() { m.inCallback = prev }()
	return fn()
}

func (m *Manager) currentSet() *transaction {
	if m.next > 0 && m.next <= len(m.transactions) {
		return m.transactions[m.next-1]
	}
	return nil
}

func (m *Manager) nextSet() *transaction {
	if m.next >= 0 && m.next < len(m.transactions) {
		return m.transactions[m.next]
	}
	return nil
}

// moveFutureTransactionsToStash cuts the branch ahead of the cursor.
func (m *Manager) moveFutureTransactionsToStash() {
	if m.next >= len(m.transactions) {
		return
	}

	m.stash = slices.Clone(m.transactions[m.next:])
	clear(m.transactions[m.next:])
	m.transactions = m.transactions[:m.next]
	m.subtractUnits(sizeOf(m.stash))

	m.logger.Debug("moved redo branch to stash", "transactions", len(m.stash))
}

// restoreStashedFutureTransactions replaces everything ahead of the
// cursor with the stash.
func (m *Manager) restoreStashedFutureTransactions() {
	if m.next < len(m.transactions) {
		m.subtractUnits(sizeOf(m.transactions[m.next:]))
		clear(m.transactions[m.next:])
		m.transactions = m.transactions[:m.next]
	}

	m.transactions = append(m.transactions, m.stash...)
	m.unitsStored += sizeOf(m.stash)
	m.stash = nil
}

func (m *Manager) dropOldTransactionsIfTooLarge() {
	dropped := 0
	for m.next > 0 &&
		m.unitsStored > m.maxUnits &&
		len(m.transactions) > m.minTransactions {
		m.subtractUnits(m.transactions[0].totalSize())
		m.transactions[0] = nil
		m.transactions = m.transactions[1:]
		m.next--
		dropped++
	}

	if dropped > 0 {
		m.logger.Debug("dropped old transactions",
			"count", dropped,
			"units", m.unitsStored,
			"max_units", m.maxUnits)
	}
}

// subtractUnits lowers the running total, keeping it non-negative.
func (m *Manager) subtractUnits(n int) {
	m.unitsStored -= n
	if m.unitsStored < 0 {
		// Some action is not reporting a stable SizeInUnits.
		m.logger.Error("stored unit count went negative", "units", m.unitsStored)
		m.unitsStored = 0
	}
}

// reset discards everything after a failed undo or redo.
func (m *Manager) reset(cause error) {
	m.logger.Warn("clearing history after failed replay", "error", cause)
	m.clear()
}

func (m *Manager) clear() {
	m.transactions = nil
	m.stash = nil
	m.unitsStored = 0
	m.next = 0
}

func (m *Manager) notify(kind notify.Kind, name string) {
	if m.sink == nil {
		return
	}
	m.sink.Notify(notify.Change{Kind: kind, Name: name, Source: m.source})
}
