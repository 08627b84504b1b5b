// Package fsm runs state machines whose program counter is a field
// name. Each state field of a fieldtape.Registry holds a uint16 behavior
// tag; the machine reads the tag at the current state field, dispatches
// through an explicit behavior table, and the behavior names the next
// state field. Behaviors may read and write the underlying registry
// between steps, so machine state and record state live in one tape.
package fsm

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/fieldtape"
)

// Halt is the next-state name that stops the machine. It is not a valid
// field name, so behaviors cannot collide with it by accident.
const Halt = ""

// DefaultMaxSteps bounds a run when no explicit budget is configured.
const DefaultMaxSteps = 1 << 20

// ErrStepBudget is returned by Run when the machine exceeds its step
// budget without reaching Halt.
var ErrStepBudget = errors.New("step budget exhausted")

// UnknownBehaviorError is returned by Run when a state field holds a tag
// with no registered behavior.
type UnknownBehaviorError struct {
	// State is the field name that held the tag.
	State string
	// Tag is the unregistered behavior tag.
	Tag uint16
}

// Error implements the error interface.
func (e *UnknownBehaviorError) Error() string {
	return fmt.Sprintf("fsm: state %q holds unregistered behavior tag %d", e.State, e.Tag)
}

// Behavior executes one step. It may mutate the machine's registry and
// returns the name of the next state field, or Halt to stop.
type Behavior func(ctx context.Context, m *Machine) (next string, err error)

// Machine drives a behavior-tag trampoline over a registry.
type Machine struct {
	reg       *fieldtape.Registry
	behaviors map[uint16]Behavior
	maxSteps  int
}

// Option configures a Machine.
type Option func(*Machine)

// WithMaxSteps overrides the step budget. n must be positive.
func WithMaxSteps(n int) Option {
	return func(m *Machine) {
		if n > 0 {
			m.maxSteps = n
		}
	}
}

// New creates a machine over reg. The registry is borrowed, not owned:
// closing it remains the caller's job.
func New(reg *fieldtape.Registry, optFns ...Option) *Machine {
	m := &Machine{
		reg:       reg,
		behaviors: make(map[uint16]Behavior),
		maxSteps:  DefaultMaxSteps,
	}

	for _, fn := range optFns {
		if fn != nil {
			fn(m)
		}
	}

	return m
}

// Registry returns the underlying registry for behaviors to read and
// write.
func (m *Machine) Registry() *fieldtape.Registry {
	return m.reg
}

// Register binds a behavior to a tag, replacing any previous binding.
func (m *Machine) Register(tag uint16, b Behavior) {
	m.behaviors[tag] = b
}

// Run executes the machine from the state field named start until a
// behavior returns Halt, the step budget is exhausted, the context is
// canceled, or a step fails. A missing state field surfaces as a
// wrapped fieldtape.ErrFieldNotFound.
func (m *Machine) Run(ctx context.Context, start string) error {
	state := start

	for step := 0; step < m.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		tag, err := m.reg.GetUint16(state)
		if err != nil {
			return fmt.Errorf("fsm: state %q: %w", state, err)
		}

		behavior, ok := m.behaviors[tag]
		if !ok {
			return &UnknownBehaviorError{State: state, Tag: tag}
		}

		next, err := behavior(ctx, m)
		if err != nil {
			return fmt.Errorf("fsm: state %q tag %d: %w", state, tag, err)
		}
		if next == Halt {
			return nil
		}

		state = next
	}

	return fmt.Errorf("%w after %d steps", ErrStepBudget, m.maxSteps)
}
