package game_test

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorgonia/turnsearch/game"
	"github.com/gorgonia/turnsearch/game/counting"
)

type recorder struct {
	logged, undone [][]int
}

func (r *recorder) Logged(path []int) { r.logged = append(r.logged, path) }
func (r *recorder) Undone(path []int) { r.undone = append(r.undone, path) }

func TestEngineSelectAndPull(t *testing.T) {
	rec := new(recorder)
	e := counting.New(4, 1, counting.Zero, rec)
	require.False(t, e.IsFinished())
	assert.Equal(t, counting.Zero, e.Player())

	require.NoError(t, e.SelectOption(0))
	assert.True(t, e.HasPendingEffects())
	assert.Equal(t, 0, e.Data().Counters[0], "effects must stay pending until pulled")
	assert.Equal(t, game.ErrPendingEffects, cause(e.SelectOption(1)))

	require.NoError(t, e.Pull())
	assert.False(t, e.HasPendingEffects())
	assert.Equal(t, 1, e.Data().Counters[0])
	assert.Equal(t, counting.One, e.Player())
	assert.Equal(t, [][]int{{0}}, rec.logged)

	require.NoError(t, e.Select(1))
	require.NoError(t, e.Select(1))
	require.NoError(t, e.Select(0))
	assert.True(t, e.IsFinished())
	assert.Equal(t, game.NoPlayer, e.Player())
	assert.Equal(t, [2]int{2, 2}, e.Data().Counters)
	assert.Equal(t, game.ErrFinished, cause(e.Select(0)))
}

func TestEngineInvalidOption(t *testing.T) {
	e := counting.New(4, 1, counting.Zero, nil)
	err := e.SelectOption(2)
	require.Error(t, err)
	assert.Equal(t, game.ErrInvalidOption, errors.Cause(err))

	err = e.Select()
	assert.Equal(t, game.ErrInvalidOption, errors.Cause(err))
	assert.Equal(t, game.ErrNothingPending, e.Pull())
}

func TestEngineFollowUp(t *testing.T) {
	e := counting.New(4, 3, counting.Zero, nil)
	require.NoError(t, e.SelectOption(1))
	require.True(t, e.InFollowUp())
	assert.Equal(t, counting.ChooseAmount, e.Decision().Context().Kind)
	assert.Equal(t, 3, e.Decision().OptionCount(e.Data()))
	assert.Equal(t, []int{1}, e.Path())

	assert.Equal(t, game.ErrInFollowUp, e.UndoLastDecision())

	require.NoError(t, e.RetractFollowUp())
	assert.False(t, e.InFollowUp())
	assert.Equal(t, counting.ChooseCounter, e.Decision().Context().Kind)
	assert.Empty(t, e.Path())
	assert.Equal(t, game.ErrNotInFollowUp, e.RetractFollowUp())

	require.NoError(t, e.Select(1, 2))
	assert.Equal(t, [2]int{0, 3}, e.Data().Counters)
	assert.Equal(t, 1, e.Data().Plies)
}

func TestEngineUndoRedo(t *testing.T) {
	rec := new(recorder)
	e := counting.New(6, 2, counting.One, rec)
	assert.Equal(t, game.ErrNothingToUndo, e.UndoLastDecision())
	assert.Equal(t, game.ErrNothingToRedo, e.RedoDecision())

	require.NoError(t, e.Select(0, 1))
	require.NoError(t, e.Select(1, 0))
	require.Equal(t, [2]int{2, 1}, e.Data().Counters)
	require.True(t, e.CanUndo())

	require.NoError(t, e.UndoLastDecision())
	assert.Equal(t, [2]int{2, 0}, e.Data().Counters)
	assert.Equal(t, counting.Zero, e.Player())
	assert.True(t, e.CanRedo())

	require.NoError(t, e.UndoLastDecision())
	assert.Equal(t, [2]int{0, 0}, e.Data().Counters)
	assert.Equal(t, counting.One, e.Player())
	assert.False(t, e.CanUndo())

	require.NoError(t, e.RedoDecision())
	assert.Equal(t, [2]int{2, 0}, e.Data().Counters)
	assert.Equal(t, counting.Zero, e.Player())

	// a fresh decision drops whatever could still be redone
	require.NoError(t, e.Select(0, 0))
	assert.False(t, e.CanRedo())
	assert.Equal(t, [][]int{{1, 0}, {0, 1}}, rec.undone)
	assert.Equal(t, [][]int{{0, 1}, {1, 0}, {0, 1}, {0, 0}}, rec.logged)
}

func TestEngineUndoFromFinished(t *testing.T) {
	e := counting.New(1, 1, counting.Zero, nil)
	require.NoError(t, e.Select(1))
	require.True(t, e.IsFinished())
	require.NoError(t, e.UndoLastDecision())
	assert.False(t, e.IsFinished())
	assert.Equal(t, counting.Zero, e.Player())
}

func TestEngineClone(t *testing.T) {
	e := counting.New(6, 2, counting.Zero, nil)
	require.NoError(t, e.Select(0, 1))
	require.NoError(t, e.SelectOption(1))

	rec := new(recorder)
	c := e.Clone(rec)
	assert.False(t, c.CanUndo(), "clones start with an empty event log")
	assert.True(t, c.InFollowUp())
	assert.Equal(t, e.Path(), c.Path())

	require.NoError(t, c.SelectOption(1))
	require.NoError(t, c.Pull())
	assert.Equal(t, [2]int{2, 2}, c.Data().Counters)
	assert.Equal(t, [2]int{2, 0}, e.Data().Counters)
	assert.Equal(t, [][]int{{1, 1}}, rec.logged)

	require.NoError(t, e.RetractFollowUp())
	assert.Equal(t, [2]int{2, 2}, c.Data().Counters)
}

func TestPlayerFormat(t *testing.T) {
	assert.Equal(t, "P1", fmt.Sprintf("%v", game.Player(1)))
	assert.Equal(t, "None", fmt.Sprintf("%v", game.NoPlayer))
	assert.Equal(t, "X", fmt.Sprintf("%s", game.Player(0)))
	assert.Equal(t, "·", fmt.Sprintf("%s", game.NoPlayer))
}

// cause strips the context added to an engine error.
func cause(err error) error { return errors.Cause(err) }
