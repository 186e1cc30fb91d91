// Package modal models edit dialogs and multi-step wizards as explicit state
// machines.
package modal

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateSubmitting:
		return "submitting"
	default:
		return "closed"
	}
}

var (
	// ErrNotOpen is returned by operations that need an open modal.
	ErrNotOpen = errors.New("modal is not open")
	// ErrBusy is returned while a submit is in flight.
	ErrBusy = errors.New("modal is submitting")
	// ErrDisposed is returned by every operation after Dispose.
	ErrDisposed = fmt.Errorf("modal is disposed: %w", ErrNotOpen)
)

// Resource is held for as long as a modal is open, like a body scroll lock.
type Resource interface {
	Acquire()
	Release()
}

// Config wires a modal for entities of type E edited through a form F.
type Config[E, F any] struct {
	// Init builds the form from the entity being edited.
	Init func(entity E) F
	// Validate runs before Submit; a failure keeps the modal open and sends
	// nothing.
	Validate func(form F) error
	// OnUpdate performs the change. It is only called from Submit.
	OnUpdate func(ctx context.Context, form F) error
	// OnClose is called exactly once each time the modal closes.
	OnClose  func()
	Resource Resource
}

// Modal is closed → open → submitting → closed on success, or back to open
// with the entered data kept on error.
type Modal[E, F any] struct {
	cfg Config[E, F]

	mu       sync.Mutex
	state    State
	form     F
	err      error
	held     bool
	disposed bool
}

func New[E, F any](cfg Config[E, F]) *Modal[E, F] {
	return &Modal[E, F]{cfg: cfg}
}

func (m *Modal[E, F]) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Form returns a copy of the current form.
func (m *Modal[E, F]) Form() F {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form
}

// Err returns the last validation or submit error.
func (m *Modal[E, F]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Open initialises the form from entity and acquires the resource.
func (m *Modal[E, F]) Open(entity E) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed {
		return ErrDisposed
	}
	if m.state != StateClosed {
		return fmt.Errorf("open: modal is %s", m.state)
	}

	var form F
	if m.cfg.Init != nil {
		form = m.cfg.Init(entity)
	}
	m.form = form
	m.err = nil
	m.state = StateOpen
	m.acquireLocked()
	return nil
}

// Edit changes the form.
func (m *Modal[E, F]) Edit(fn func(form *F)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.disposed {
		return ErrDisposed
	}
	switch m.state {
	case StateOpen:
		fn(&m.form)
		return nil
	case StateSubmitting:
		return ErrBusy
	default:
		return ErrNotOpen
	}
}

// Submit validates the form and calls OnUpdate. On success the modal closes;
// on error it stays open with the form intact and the error recorded.
func (m *Modal[E, F]) Submit(ctx context.Context) error {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return ErrDisposed
	}
	switch m.state {
	case StateSubmitting:
		m.mu.Unlock()
		return ErrBusy
	case StateClosed:
		m.mu.Unlock()
		return ErrNotOpen
	}

	form := m.form
	if m.cfg.Validate != nil {
		if err := m.cfg.Validate(form); err != nil {
			m.err = err
			m.mu.Unlock()
			return err
		}
	}
	m.state = StateSubmitting
	m.err = nil
	m.mu.Unlock()

	var err error
	if m.cfg.OnUpdate != nil {
		err = m.cfg.OnUpdate(ctx, form)
	}

	m.mu.Lock()
	if m.disposed {
		// Torn down while the request was in flight.
		m.mu.Unlock()
		return err
	}
	if err != nil {
		m.state = StateOpen
		m.err = err
		m.mu.Unlock()
		return err
	}
	m.closeLocked()
	m.mu.Unlock()

	m.fireClose()
	return nil
}

// Escape closes the modal. It reports false, doing nothing, when the modal
// is already closed or a submit is in flight.
func (m *Modal[E, F]) Escape() bool { return m.Close() }

// Backdrop behaves exactly like Escape.
func (m *Modal[E, F]) Backdrop() bool { return m.Close() }

// Close discards the form and closes the modal unless a submit is in flight.
func (m *Modal[E, F]) Close() bool {
	m.mu.Lock()
	if m.state != StateOpen {
		m.mu.Unlock()
		return false
	}
	m.closeLocked()
	m.mu.Unlock()

	m.fireClose()
	return true
}

// Dispose releases the resource on teardown regardless of state. OnClose is
// not called, now or when an in-flight submit finishes, and the modal cannot
// be opened again.
func (m *Modal[E, F]) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero F
	m.form = zero
	m.state = StateClosed
	m.disposed = true
	m.releaseLocked()
}

func (m *Modal[E, F]) closeLocked() {
	var zero F
	m.form = zero
	m.err = nil
	m.state = StateClosed
	m.releaseLocked()
}

func (m *Modal[E, F]) fireClose() {
	if m.cfg.OnClose != nil {
		m.cfg.OnClose()
	}
}

func (m *Modal[E, F]) acquireLocked() {
	if m.cfg.Resource != nil && !m.held {
		m.cfg.Resource.Acquire()
		m.held = true
	}
}

func (m *Modal[E, F]) releaseLocked() {
	if m.cfg.Resource != nil && m.held {
		m.cfg.Resource.Release()
		m.held = false
	}
}

// Counter is a Resource that counts holders.
type Counter struct {
	mu sync.Mutex
	n  int
}

func (c *Counter) Acquire() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
}

func (c *Counter) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.n > 0 {
		c.n--
	}
}

// Held returns the number of current holders.
func (c *Counter) Held() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
