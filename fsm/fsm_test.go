package fsm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fieldtape"
)

const (
	tagCountdown uint16 = 1
	tagFinish    uint16 = 2
)

// newCountdown builds a two-state machine: "loop" decrements a counter
// field until it hits zero, then hands off to "done".
func newCountdown(t *testing.T, start int32, optFns ...Option) (*Machine, *fieldtape.Registry) {
	t.Helper()

	reg := fieldtape.New()
	require.NoError(t, reg.SetUint16("loop", tagCountdown))
	require.NoError(t, reg.SetUint16("done", tagFinish))
	require.NoError(t, reg.SetInt32("counter", start))

	m := New(reg, optFns...)
	m.Register(tagCountdown, func(ctx context.Context, m *Machine) (string, error) {
		n, err := m.Registry().GetInt32("counter")
		if err != nil {
			return Halt, err
		}
		if n <= 0 {
			return "done", nil
		}
		if err := m.Registry().SetInt32("counter", n-1); err != nil {
			return Halt, err
		}
		return "loop", nil
	})
	m.Register(tagFinish, func(ctx context.Context, m *Machine) (string, error) {
		if err := m.Registry().SetString("result", "finished"); err != nil {
			return Halt, err
		}
		return Halt, nil
	})

	return m, reg
}

func TestRunToHalt(t *testing.T) {
	m, reg := newCountdown(t, 5)
	defer reg.Close()

	require.NoError(t, m.Run(context.Background(), "loop"))

	counter, err := reg.GetInt32("counter")
	require.NoError(t, err)
	assert.Equal(t, int32(0), counter)

	result, err := reg.GetString("result")
	require.NoError(t, err)
	assert.Equal(t, "finished", result)
}

func TestRunMissingStateField(t *testing.T) {
	m, reg := newCountdown(t, 1)
	defer reg.Close()

	err := m.Run(context.Background(), "no-such-state")
	assert.ErrorIs(t, err, fieldtape.ErrFieldNotFound)
}

func TestRunUnregisteredTag(t *testing.T) {
	reg := fieldtape.New()
	defer reg.Close()
	require.NoError(t, reg.SetUint16("start", 99))

	m := New(reg)
	err := m.Run(context.Background(), "start")

	var ub *UnknownBehaviorError
	require.ErrorAs(t, err, &ub)
	assert.Equal(t, "start", ub.State)
	assert.Equal(t, uint16(99), ub.Tag)
}

func TestRunStepBudget(t *testing.T) {
	reg := fieldtape.New()
	defer reg.Close()
	require.NoError(t, reg.SetUint16("spin", 1))

	m := New(reg, WithMaxSteps(10))
	m.Register(1, func(ctx context.Context, m *Machine) (string, error) {
		return "spin", nil
	})

	err := m.Run(context.Background(), "spin")
	assert.ErrorIs(t, err, ErrStepBudget)
}

func TestRunContextCanceled(t *testing.T) {
	m, reg := newCountdown(t, 1<<30)
	defer reg.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Run(ctx, "loop")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunBehaviorError(t *testing.T) {
	reg := fieldtape.New()
	defer reg.Close()
	require.NoError(t, reg.SetUint16("boom", 1))

	sentinel := errors.New("behavior failed")
	m := New(reg)
	m.Register(1, func(ctx context.Context, m *Machine) (string, error) {
		return Halt, sentinel
	})

	err := m.Run(context.Background(), "boom")
	require.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), `state "boom"`)
}

func TestRunStateFieldWrongType(t *testing.T) {
	reg := fieldtape.New()
	defer reg.Close()
	require.NoError(t, reg.SetInt32("start", 1))

	m := New(reg)
	err := m.Run(context.Background(), "start")

	var tm *fieldtape.TypeMismatchError
	assert.ErrorAs(t, err, &tm)
}

// Behaviors may retag state fields mid-run; the trampoline must read the
// tag fresh on every step.
func TestRunRetagsState(t *testing.T) {
	reg := fieldtape.New()
	defer reg.Close()
	require.NoError(t, reg.SetUint16("state", 1))

	m := New(reg)
	m.Register(1, func(ctx context.Context, m *Machine) (string, error) {
		if err := m.Registry().SetUint16("state", 2); err != nil {
			return Halt, err
		}
		return "state", nil
	})
	var sawSecond bool
	m.Register(2, func(ctx context.Context, m *Machine) (string, error) {
		sawSecond = true
		return Halt, nil
	})

	require.NoError(t, m.Run(context.Background(), "state"))
	assert.True(t, sawSecond)
}
