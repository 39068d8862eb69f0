package minmax

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorgonia/turnsearch/game"
	"github.com/gorgonia/turnsearch/game/counting"
)

func TestRunCounting(t *testing.T) {
	tests := []struct {
		name         string
		limit, steps int
		first        game.Player
		depth        int
		rating       Rating
		path         []int
	}{
		{"neutral first move", 2, 1, counting.Zero, 1, 0, []int{0}},
		{"neutral first move, other player", 2, 1, counting.One, 1, 0, []int{1}},
		{"single step", 10, 1, counting.Zero, 1, 1, []int{0}},
		{"two steps", 10, 2, counting.Zero, 1, 4, []int{0, 1}},
		{"two steps, other player", 10, 2, counting.One, 1, 4, []int{1, 1}},
		{"two steps, deeper", 10, 2, counting.Zero, 2, 4, []int{0, 1}},
		{"short game", 4, 2, counting.Zero, 3, 0, []int{0, 1}},
	}
	for _, tc := range tests {
		for _, params := range []struct {
			name string
			p    Params
		}{
			{"unlimited", Unlimited(tc.depth, 1)},
			{"default", DefaultParams(tc.depth)},
		} {
			t.Run(tc.name+"/"+params.name, func(t *testing.T) {
				e := counting.New(tc.limit, tc.steps, tc.first, nil)
				m := New[counting.State, counting.Context](params.p, countingRM{})
				rating, path, err := m.Run(e)
				require.NoError(t, err)
				assert.Equal(t, tc.rating, rating)
				assert.Equal(t, tc.path, path)

				assert.Equal(t, [2]int{0, 0}, e.Data().Counters, "the engine is not touched")
				assert.False(t, e.CanUndo())
			})
		}
	}
}

func TestMinMaxRating(t *testing.T) {
	const limit = 5
	for steps := 1; steps <= 2; steps++ {
		for plies := 0; plies <= 7; plies++ {
			e := counting.New(limit, steps, counting.Zero, nil)
			m := New[counting.State, counting.Context](Unlimited(4, 4), countingRM{})
			m.begin(e)

			r := plies
			if r > limit {
				r = limit
			}
			want := Rating(steps * steps * (r % 2))
			got := m.minMaxRating(m.params.window(plies, 1))
			assert.Equal(t, want, got, "%d steps, %d plies", steps, plies)
			assert.Empty(t, m.stepper.Path())
		}
	}
}

func TestRunMatchesMinMaxRating(t *testing.T) {
	setups := []struct {
		name  string
		moves [][]int
	}{
		{"start", nil},
		{"mid game", [][]int{{1, 2}, {1, 0}}},
		{"behind", [][]int{{1, 2}, {1, 2}, {1, 1}}},
	}
	for _, s := range setups {
		for depth := 1; depth <= 2; depth++ {
			for fcd := 1; fcd <= depth; fcd++ {
				e := counting.New(9, 3, counting.One, nil)
				for _, mv := range s.moves {
					require.NoError(t, e.Select(mv...))
				}

				m := New[counting.State, counting.Context](Unlimited(depth, fcd), countingRM{})
				rating, _, err := m.Run(e)
				require.NoError(t, err)

				ref := New[counting.State, counting.Context](Unlimited(depth+1, depth+1), countingRM{})
				ref.begin(e.Clone(nil))
				want := ref.minMaxRating(ref.params.window(2*depth+1, 1))
				assert.Equal(t, want, rating, "%s, depth %d, first cut delay %d", s.name, depth, fcd)
			}
		}
	}
}

func TestRunInvalidEngineState(t *testing.T) {
	m := New[counting.State, counting.Context](Unlimited(1, 1), countingRM{})

	finished := counting.New(1, 1, counting.Zero, nil)
	require.NoError(t, finished.Select(0))

	pending := counting.New(4, 1, counting.Zero, nil)
	require.NoError(t, pending.SelectOption(0))

	followUp := counting.New(4, 2, counting.Zero, nil)
	require.NoError(t, followUp.SelectOption(0))

	for _, e := range []*game.Engine[counting.State, counting.Context]{finished, pending, followUp} {
		_, _, err := m.Run(e)
		var invalid *InvalidEngineState
		require.True(t, errors.As(err, &invalid), "%v", err)
		assert.NotEmpty(t, invalid.Reason)

		_, err = m.Apply(e)
		assert.Error(t, err)
	}
}

func TestRunPanicsOnInvalidParams(t *testing.T) {
	p := Unlimited(2, 1)
	p.Sliding.MoveDiff = p.Sliding.MoveDiff[:1]
	m := New[counting.State, counting.Context](p, countingRM{})
	assert.Panics(t, func() { m.Run(counting.New(4, 1, counting.Zero, nil)) })
}

func TestApply(t *testing.T) {
	e := counting.New(10, 2, counting.Zero, nil)
	m := New[counting.State, counting.Context](DefaultParams(1), countingRM{})
	rating, err := m.Apply(e)
	require.NoError(t, err)
	assert.Equal(t, Rating(4), rating)
	assert.Equal(t, [2]int{2, 0}, e.Data().Counters)
	assert.Equal(t, counting.One, e.Player())

	rating, err = m.Apply(e)
	require.NoError(t, err)
	assert.Equal(t, Rating(0), rating)
	assert.Equal(t, [2]int{2, 2}, e.Data().Counters)
}

func TestEquivalencySavesACall(t *testing.T) {
	collect := func(rm countingRM) (int64, Rating, []TreeEntry) {
		e := counting.New(10, 1, counting.Zero, nil)
		m := New[counting.State, counting.Context](Unlimited(1, 1), rm, WithMetrics())
		m.metrics.Start()
		m.begin(e)
		best, replies := m.collectAndCut(m.params.window(1, 1), 1)
		return m.metrics.Complete().MinMaxCalls, best, replies
	}

	plain, best, replies := collect(countingRM{})
	assert.Equal(t, int64(2), plain)
	assert.Equal(t, Rating(1), best)
	assert.Equal(t, []TreeEntry{{Rating: -1, Index: 1}, {Rating: 1, Index: 0}}, replies)

	// advancing the opponent's counter (-1) is declared equivalent to advancing the own one (+1)
	equivalent, best, replies := collect(countingRM{equivalents: func(r *Rater[counting.Context]) {
		r.SetEquivalentTo(0, 1, 0, 0)
	}})
	assert.Equal(t, plain-1, equivalent)
	assert.Equal(t, Rating(-1), best, "a class is rated by its lowest member")
	assert.Equal(t, []TreeEntry{{Rating: -1, Index: 0}}, replies)
}

func TestEquivalencyClassLimit(t *testing.T) {
	p := Unlimited(1, 1)
	for i := range p.Sliding.EquivalencyClassLimit {
		p.Sliding.EquivalencyClassLimit[i] = 1
	}
	m := New[counting.State, counting.Context](p, countingRM{equivalents: func(r *Rater[counting.Context]) {
		r.SetEquivalentTo(0, 1, 0, 0)
	}})
	m.begin(counting.New(10, 1, counting.Zero, nil))
	best, replies := m.collectAndCut(m.params.window(1, 1), 1)
	assert.Equal(t, Rating(1), best, "members beyond the class limit are not rated")
	assert.Equal(t, []TreeEntry{{Rating: 1, Index: 0}}, replies)
}

func TestMetricsAndTreeHook(t *testing.T) {
	var tree *SearchTree
	m := New[counting.State, counting.Context](Unlimited(3, 1), countingRM{},
		WithMetrics(),
		WithTreeHook(func(t *SearchTree) { tree = t }),
	)
	_, _, err := m.Run(counting.New(20, 1, counting.Zero, nil))
	require.NoError(t, err)

	metrics := m.LastMetrics()
	assert.Equal(t, 3, metrics.Passes)
	assert.Positive(t, metrics.RecursiveCalls)
	assert.Positive(t, metrics.CollectCalls)
	assert.Positive(t, metrics.MinMaxCalls)
	assert.False(t, metrics.StartTime.IsZero())

	require.NotNil(t, tree)
	assert.Equal(t, 7, tree.Depth())
	assert.Equal(t, tree.Len(), metrics.TreeNodes)
	// two moves per ply, nothing is cut
	assert.Equal(t, 2+4+8+16+32+64+128, tree.Len())
}

func TestCheckTurn(t *testing.T) {
	e := counting.New(10, 1, counting.Zero, nil)
	m := New[counting.State, counting.Context](Unlimited(1, 1), countingRM{})
	m.begin(e)
	m.own = counting.One
	tree := m.rootTree()
	assert.Panics(t, func() { m.extendSearchTree(tree, 1, 1) })
}

func TestCutChildren(t *testing.T) {
	l := []child{{rating: 1, index: 0}, {rating: 5, index: 1}, {rating: 6, index: 2}, {rating: 9, index: 3}}
	assert.Len(t, cutChildren(l, true, 10, 4), 3)
	assert.Len(t, cutChildren(l, true, 2, MaxRating), 2)
	assert.Equal(t, 3, cutChildren(l, true, 1, 0)[0].index)

	// for the opponent the lowest rating is best and sorts last
	o := []child{{rating: 9, index: 3}, {rating: 6, index: 2}, {rating: 5, index: 1}, {rating: 1, index: 0}}
	got := cutChildren(o, false, 10, 3)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].index)
}

func TestKeepBranches(t *testing.T) {
	p := NewParams(1, 1, 0, Knobs{BranchLimit: 2, BranchDiff: 3, MoveLimit: 1, MoveDiff: 1, EquivalencyClassLimit: 1, Growth: 1, LimitMultiplierFirstMove: 2})
	m := New[counting.State, counting.Context](p, countingRM{})
	children := []TreeEntry{{Rating: 4}, {Rating: 9}, {Rating: 1}, {Rating: 7}, {Rating: 8}}

	assert.Equal(t, []int{1, 4}, m.keepBranches(1, 1, children), "own moves keep the highest")
	assert.Equal(t, []int{0, 2}, m.keepBranches(2, 1, children), "opponent moves keep the lowest")

	// the multiplier widens the cut of the root moves only
	assert.Equal(t, []int{1, 3, 4}, m.keepBranches(1, 2, children))
	assert.Equal(t, []int{0, 2}, m.keepBranches(2, 2, children))
}
