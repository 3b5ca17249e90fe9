package history

// Action represents a reversible unit of work.
//
// Once performed through a Manager an Action is owned by exactly one
// transaction; callers must not perform it again themselves.
type Action interface {
	// Perform executes the action. It is called once when the action
	// is first stored and again for every redo.
	Perform() error

	// Undo reverses the action.
	Undo() error

	// SizeInUnits returns the cost of keeping the action in history.
	// The unit is caller-defined (bytes, items). It must be >= 0 and
	// must not change while the action is stored.
	SizeInUnits() int
}

// Coalescer is implemented by actions that can absorb the action
// performed right after them.
//
// CoalesceWith returns a single action equivalent to the receiver
// followed by next, or false if the two cannot be merged. Both actions
// have already been performed; CoalesceWith must not change that state.
type Coalescer interface {
	CoalesceWith(next Action) (Action, bool)
}

// ActionFuncs adapts plain functions to the Action interface.
// Nil Do or Revert are treated as no-ops.
type ActionFuncs struct {
	Do     func() error
	Revert func() error
	Units  int
}

// Perform calls Do.
func (a ActionFuncs) Perform() error {
	if a.Do == nil {
		return nil
	}
	return a.Do()
}

// Undo calls Revert.
func (a ActionFuncs) Undo() error {
	if a.Revert == nil {
		return nil
	}
	return a.Revert()
}

// SizeInUnits returns Units.
func (a ActionFuncs) SizeInUnits() int {
	return a.Units
}
