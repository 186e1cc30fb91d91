package modal

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrFirstStep = errors.New("already at the first step")
	ErrLastStep  = errors.New("already at the last step")
	ErrCompleted = errors.New("wizard already completed")
	ErrNotLast   = errors.New("wizard is not on its last step")
)

// Step is one page of a wizard. Validate checks the fields owned by the step.
type Step[T any] struct {
	Name     string
	Validate func(data T) error
}

// Wizard walks data of type T through ordered steps. Next only advances when
// the current step validates; Complete re-validates every step before
// submitting.
type Wizard[T any] struct {
	initial   T
	steps     []Step[T]
	current   int
	data      T
	completed bool
}

// NewWizard panics when steps is empty.
func NewWizard[T any](initial T, steps ...Step[T]) *Wizard[T] {
	if len(steps) == 0 {
		panic("modal: wizard needs at least one step")
	}
	return &Wizard[T]{initial: initial, steps: steps, data: initial}
}

// Data returns the data being edited. Callers update it in place.
func (w *Wizard[T]) Data() *T { return &w.data }

func (w *Wizard[T]) Current() Step[T] { return w.steps[w.current] }

// Position returns the 1-based step number and the step count.
func (w *Wizard[T]) Position() (int, int) { return w.current + 1, len(w.steps) }

func (w *Wizard[T]) IsLast() bool { return w.current == len(w.steps)-1 }

func (w *Wizard[T]) Completed() bool { return w.completed }

// Next validates the current step and moves forward.
func (w *Wizard[T]) Next() error {
	if w.completed {
		return ErrCompleted
	}
	if w.IsLast() {
		return ErrLastStep
	}
	if err := w.validate(w.current); err != nil {
		return err
	}
	w.current++
	return nil
}

// Back moves to the previous step without validating.
func (w *Wizard[T]) Back() error {
	if w.completed {
		return ErrCompleted
	}
	if w.current == 0 {
		return ErrFirstStep
	}
	w.current--
	return nil
}

// Reset returns to the first step with the initial data.
func (w *Wizard[T]) Reset() {
	w.current = 0
	w.data = w.initial
	w.completed = false
}

// Complete validates every step and submits the data. It is only allowed
// from the last step. A failed submit leaves the wizard on the last step
// with its data.
func (w *Wizard[T]) Complete(ctx context.Context, submit func(ctx context.Context, data T) error) error {
	if w.completed {
		return ErrCompleted
	}
	if !w.IsLast() {
		return fmt.Errorf("complete from step %q: %w", w.Current().Name, ErrNotLast)
	}
	for i := range w.steps {
		if err := w.validate(i); err != nil {
			return err
		}
	}
	if err := submit(ctx, w.data); err != nil {
		return err
	}
	w.completed = true
	return nil
}

func (w *Wizard[T]) validate(i int) error {
	step := w.steps[i]
	if step.Validate == nil {
		return nil
	}
	if err := step.Validate(w.data); err != nil {
		return fmt.Errorf("%s: %w", step.Name, err)
	}
	return nil
}
