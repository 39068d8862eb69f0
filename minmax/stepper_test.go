package minmax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorgonia/turnsearch/game/counting"
)

func TestStepper(t *testing.T) {
	e := counting.New(10, 3, counting.Zero, nil)
	s := NewStepper(e, countingTypes)

	assert.Equal(t, []int{1, 1}, s.Resolve(4))
	assert.Equal(t, []int{0, 2}, s.Resolve(2))
	assert.Panics(t, func() { s.Resolve(6) })
	assert.Panics(t, func() { s.Resolve(-1) })

	s.ForwardStep(4)
	assert.Equal(t, [2]int{0, 2}, s.Data().Counters)
	assert.Equal(t, counting.One, s.Player())
	assert.Equal(t, []int{4}, s.Path())

	s.ForwardStep(0)
	assert.Equal(t, [2]int{1, 2}, s.Data().Counters)
	assert.Equal(t, []int{4, 0}, s.Path())

	s.BackwardStep()
	s.BackwardStep()
	assert.Equal(t, [2]int{0, 0}, s.Data().Counters)
	assert.Empty(t, s.Path())
	assert.Equal(t, counting.Zero, s.Player())

	assert.Panics(t, s.BackwardStep, "stepping back past the root")
}

func TestStepperFinished(t *testing.T) {
	e := counting.New(1, 1, counting.Zero, nil)
	s := NewStepper(e, countingTypes)
	require.False(t, s.IsFinished())
	s.ForwardStep(1)
	assert.True(t, s.IsFinished())
	s.BackwardStep()
	assert.False(t, s.IsFinished())
}

func TestWithin(t *testing.T) {
	e := counting.New(10, 1, counting.Zero, nil)
	s := NewStepper(e, countingTypes)

	got := within(s, 0, func() int { return s.Data().Counters[0] })
	assert.Equal(t, 1, got)
	assert.Equal(t, 0, s.Data().Counters[0])

	assert.Panics(t, func() {
		within(s, 1, func() int { panic("fail") })
	})
	assert.Equal(t, [2]int{0, 0}, s.Data().Counters, "the move is taken back when fn panics")
	assert.Empty(t, s.Path())
}
