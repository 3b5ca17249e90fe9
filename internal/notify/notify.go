// Package notify delivers history change notifications to observers.
//
// A Notifier implements the observer pattern: components subscribe
// and receive a Change callback each time the undo history they watch
// is mutated. Delivery is synchronous by default; WithAsync moves it
// to a single background goroutine that preserves publish order.
package notify

import (
	"sync"
)

// Kind identifies the operation that changed the history.
type Kind int

const (
	// KindPerform indicates an action was performed and stored.
	KindPerform Kind = iota

	// KindUndo indicates the cursor moved back one transaction.
	KindUndo

	// KindRedo indicates the cursor moved forward one transaction.
	KindRedo

	// KindClear indicates the history was cleared by the caller.
	KindClear

	// KindRename indicates the current transaction was renamed.
	KindRename

	// KindReset indicates an undo or redo failed and the history was
	// discarded.
	KindReset
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPerform:
		return "perform"
	case KindUndo:
		return "undo"
	case KindRedo:
		return "redo"
	case KindClear:
		return "clear"
	case KindRename:
		return "rename"
	case KindReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Change describes a history mutation.
type Change struct {
	// Kind is the operation that caused the change.
	Kind Kind

	// Name is the name of the transaction involved, if any.
	Name string

	// Source identifies the history that changed.
	Source string
}

// Observer is called when a change is delivered.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier manages change subscriptions.
type Notifier struct {
	mu sync.RWMutex

	// Observers that receive every change
	globalObservers map[uint64]Observer

	// Observers filtered by kind
	kindObservers map[Kind]map[uint64]Observer

	nextID uint64

	async  bool
	buffer chan Change
	done   chan struct{}
	wg     sync.WaitGroup
	closed bool
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithAsync enables asynchronous delivery through a buffer of the
// given size. Non-positive sizes leave delivery synchronous.
func WithAsync(bufferSize int) Option {
	return func(n *Notifier) {
		if bufferSize > 0 {
			n.async = true
			n.buffer = make(chan Change, bufferSize)
		}
	}
}

// New creates a new Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		globalObservers: make(map[uint64]Observer),
		kindObservers:   make(map[Kind]map[uint64]Observer),
		done:            make(chan struct{}),
	}

	for _, opt := range opts {
		opt(n)
	}

	if n.async {
		n.wg.Add(1)
		go n.processAsync()
	}

	return n
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.globalObservers[id] = observer

	return &Subscription{id: id, notifier: n}
}

// SubscribeKind registers an observer for changes of one kind only.
func (n *Notifier) SubscribeKind(kind Kind, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++

	if n.kindObservers[kind] == nil {
		n.kindObservers[kind] = make(map[uint64]Observer)
	}
	n.kindObservers[kind][id] = observer

	return &Subscription{id: id, notifier: n}
}

// Notify sends a change to all matching observers. Changes sent after
// Close are dropped.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	n.mu.RUnlock()

	if n.async {
		select {
		case n.buffer <- change:
		case <-n.done:
		}
		return
	}

	n.deliverChange(change)
}

// Close shuts down the notifier, delivering any buffered changes
// first. Safe to call multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	n.mu.Unlock()

	close(n.done)
	n.wg.Wait()
}

// SubscriberCount returns the number of active subscriptions.
func (n *Notifier) SubscriberCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	count := len(n.globalObservers)
	for _, observers := range n.kindObservers {
		count += len(observers)
	}
	return count
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.globalObservers, id)

	for kind, observers := range n.kindObservers {
		delete(observers, id)
		if len(observers) == 0 {
			delete(n.kindObservers, kind)
		}
	}
}

// deliverChange sends a change to all matching observers.
func (n *Notifier) deliverChange(change Change) {
	n.mu.RLock()

	observers := make([]Observer, 0, len(n.globalObservers))
	for _, obs := range n.globalObservers {
		observers = append(observers, obs)
	}
	for _, obs := range n.kindObservers[change.Kind] {
		observers = append(observers, obs)
	}

	n.mu.RUnlock()

	// Call observers outside the lock so they may subscribe or unsubscribe.
	for _, obs := range observers {
		obs(change)
	}
}

func (n *Notifier) processAsync() {
	defer n.wg.Done()

	for {
		select {
		case change := <-n.buffer:
			n.deliverChange(change)
		case <-n.done:
			// Drain remaining buffered changes
			for {
				select {
				case change := <-n.buffer:
					n.deliverChange(change)
				default:
					return
				}
			}
		}
	}
}
