package minmax

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// ErrInvalidParams is the cause of every error reported by IntegrityCheck.
var ErrInvalidParams = errors.New("invalid search parameters")

// Params configures a search.
type Params struct {
	// Depth is the search depth in rounds. A round is one move of each player.
	Depth int `yaml:"depth"`
	// FirstCutDelayDepth is the number of rounds each pass explores below the leaves of the
	// search tree before the tree is cut.
	FirstCutDelayDepth int `yaml:"first_cut_delay_depth"`
	// FirstMoveAddedDelayDepth is added to FirstCutDelayDepth for the first pass.
	FirstMoveAddedDelayDepth int `yaml:"first_move_added_delay_depth"`

	Sliding SlidingParams `yaml:"sliding"`
}

// SlidingParams holds the cut parameters by level. Index 0 is the most restrictive one.
//
// Branch parameters cut the search tree and are indexed by round, index 0 being the round
// farthest from the root. Move parameters cut the moves explored within a pass and are
// indexed by the plies left to the horizon of the pass, index 0 being the last ply.
type SlidingParams struct {
	BranchLimit []int    `yaml:"branch_limit"` // len Depth
	BranchDiff  []Rating `yaml:"branch_diff"`  // len Depth

	MoveLimit             []int    `yaml:"move_limit"`              // len 2*(FirstCutDelayDepth+FirstMoveAddedDelayDepth)
	MoveDiff              []Rating `yaml:"move_diff"`               // len 2*(FirstCutDelayDepth+FirstMoveAddedDelayDepth)
	EquivalencyClassLimit []int    `yaml:"equivalency_class_limit"` // len 2*(FirstCutDelayDepth+FirstMoveAddedDelayDepth)

	// LimitMultiplierFirstMove widens every limit used by the first pass.
	LimitMultiplierFirstMove int `yaml:"limit_multiplier_first_move"`
}

// Knobs are the scalar settings NewParams derives the sliding parameters from.
type Knobs struct {
	BranchLimit           int     `yaml:"branch_limit"`
	BranchDiff            Rating  `yaml:"branch_diff"`
	MoveLimit             int     `yaml:"move_limit"`
	MoveDiff              Rating  `yaml:"move_diff"`
	EquivalencyClassLimit int     `yaml:"equivalency_class_limit"`
	Growth                float32 `yaml:"growth"` // factor applied per index, at least 1

	LimitMultiplierFirstMove int `yaml:"limit_multiplier_first_move"`
}

// DefaultKnobs returns knobs that work reasonably for small board games.
func DefaultKnobs() Knobs {
	return Knobs{
		BranchLimit:              2,
		BranchDiff:               50,
		MoveLimit:                3,
		MoveDiff:                 100,
		EquivalencyClassLimit:    8,
		Growth:                   1.5,
		LimitMultiplierFirstMove: 2,
	}
}

// NewParams derives the sliding parameters from scalar knobs. Each parameter starts at the knob's
// value at index 0 and grows geometrically by k.Growth per index.
func NewParams(depth, firstCutDelayDepth, firstMoveAddedDelayDepth int, k Knobs) Params {
	moves := 2 * (firstCutDelayDepth + firstMoveAddedDelayDepth)
	if depth < 0 || moves < 0 {
		panic("negative depth")
	}
	s := SlidingParams{
		BranchLimit:              make([]int, depth),
		BranchDiff:               make([]Rating, depth),
		MoveLimit:                make([]int, moves),
		MoveDiff:                 make([]Rating, moves),
		EquivalencyClassLimit:    make([]int, moves),
		LimitMultiplierFirstMove: k.LimitMultiplierFirstMove,
	}
	for i := 0; i < depth; i++ {
		s.BranchLimit[i] = grow(k.BranchLimit, k.Growth, i)
		s.BranchDiff[i] = Rating(grow(int(k.BranchDiff), k.Growth, i))
	}
	for i := 0; i < moves; i++ {
		s.MoveLimit[i] = grow(k.MoveLimit, k.Growth, i)
		s.MoveDiff[i] = Rating(grow(int(k.MoveDiff), k.Growth, i))
		s.EquivalencyClassLimit[i] = grow(k.EquivalencyClassLimit, k.Growth, i)
	}
	return Params{
		Depth:                    depth,
		FirstCutDelayDepth:       firstCutDelayDepth,
		FirstMoveAddedDelayDepth: firstMoveAddedDelayDepth,
		Sliding:                  s,
	}
}

// DefaultParams returns the parameters derived from DefaultKnobs for the given depth.
func DefaultParams(depth int) Params {
	fcd := 1
	if depth < fcd {
		fcd = depth
	}
	return NewParams(depth, fcd, 1, DefaultKnobs())
}

// Unlimited returns parameters that never cut anything. A search with them is a plain min-max
// search to the full depth.
func Unlimited(depth, firstCutDelayDepth int) Params {
	moves := 2 * firstCutDelayDepth
	s := SlidingParams{
		BranchLimit:              fillInts(depth, math.MaxInt32),
		BranchDiff:               fillRatings(depth, MaxRating),
		MoveLimit:                fillInts(moves, math.MaxInt32),
		MoveDiff:                 fillRatings(moves, MaxRating),
		EquivalencyClassLimit:    fillInts(moves, math.MaxInt32),
		LimitMultiplierFirstMove: 1,
	}
	return Params{
		Depth:              depth,
		FirstCutDelayDepth: firstCutDelayDepth,
		Sliding:            s,
	}
}

// IntegrityCheck checks that the parameters are consistent.
func (p *Params) IntegrityCheck() error {
	switch {
	case p.Depth < 1:
		return errors.Wrapf(ErrInvalidParams, "depth %d must be positive", p.Depth)
	case p.FirstCutDelayDepth < 1 || p.FirstCutDelayDepth > p.Depth:
		return errors.Wrapf(ErrInvalidParams, "first cut delay depth %d must be within [1, %d]", p.FirstCutDelayDepth, p.Depth)
	case p.FirstMoveAddedDelayDepth < 0:
		return errors.Wrapf(ErrInvalidParams, "first move added delay depth %d must not be negative", p.FirstMoveAddedDelayDepth)
	}

	s := &p.Sliding
	moves := p.moves()
	lengths := []struct {
		name      string
		have, exp int
	}{
		{"branch limit", len(s.BranchLimit), p.Depth},
		{"branch diff", len(s.BranchDiff), p.Depth},
		{"move limit", len(s.MoveLimit), moves},
		{"move diff", len(s.MoveDiff), moves},
		{"equivalency class limit", len(s.EquivalencyClassLimit), moves},
	}
	for _, l := range lengths {
		if l.have != l.exp {
			return errors.Wrapf(ErrInvalidParams, "%s has %d levels, expected %d", l.name, l.have, l.exp)
		}
	}

	for _, l := range [][]int{s.BranchLimit, s.MoveLimit, s.EquivalencyClassLimit} {
		for i, v := range l {
			if v < 1 {
				return errors.Wrapf(ErrInvalidParams, "limit %d at level %d must be positive", v, i)
			}
		}
	}
	for _, l := range [][]Rating{s.BranchDiff, s.MoveDiff} {
		for i, v := range l {
			if v < 0 {
				return errors.Wrapf(ErrInvalidParams, "difference %d at level %d must not be negative", v, i)
			}
		}
	}
	if s.LimitMultiplierFirstMove < 1 {
		return errors.Wrapf(ErrInvalidParams, "first move limit multiplier %d must be positive", s.LimitMultiplierFirstMove)
	}
	return nil
}

// Passes returns the number of passes a search runs.
func (p *Params) Passes() int { return p.Depth - p.FirstCutDelayDepth + 1 }

// moves is the number of move levels.
func (p *Params) moves() int { return 2 * (p.FirstCutDelayDepth + p.FirstMoveAddedDelayDepth) }

// branch returns the branch limit and difference used to cut the children of tree level level-1.
func (p *Params) branch(level, multiplier int) (limit int, diff Rating) {
	i := len(p.Sliding.BranchLimit) - 1 - (level-1)/2
	if i < 0 {
		i = 0
	}
	return mulLimit(p.Sliding.BranchLimit[i], multiplier), p.Sliding.BranchDiff[i]
}

// window returns the move parameters for a recursion exploring the given number of plies.
func (p *Params) window(plies, multiplier int) window {
	if plies > p.moves() {
		panic("search window exceeds the move levels")
	}
	return window{
		moveLimit:  p.Sliding.MoveLimit[:plies],
		moveDiff:   p.Sliding.MoveDiff[:plies],
		classLimit: p.Sliding.EquivalencyClassLimit[:plies],
		multiplier: multiplier,
	}
}

// window is a view of the move parameters. The parameters of the current ply are the last ones.
type window struct {
	moveLimit  []int
	moveDiff   []Rating
	classLimit []int
	multiplier int
}

func (w window) limit() int   { return mulLimit(w.moveLimit[len(w.moveLimit)-1], w.multiplier) }
func (w window) diff() Rating { return w.moveDiff[len(w.moveDiff)-1] }
func (w window) classes() int { return mulLimit(w.classLimit[len(w.classLimit)-1], w.multiplier) }
func (w window) plies() int   { return len(w.moveLimit) }
func (w window) next() window {
	n := len(w.moveLimit) - 1
	return window{
		moveLimit:  w.moveLimit[:n],
		moveDiff:   w.moveDiff[:n],
		classLimit: w.classLimit[:n],
		multiplier: 1,
	}
}

func mulLimit(limit, multiplier int) int {
	if multiplier > 1 && limit > math.MaxInt32/multiplier {
		return math.MaxInt32
	}
	return limit * multiplier
}

func grow(base int, growth float32, i int) int {
	if growth < 1 {
		growth = 1
	}
	v := math32.Floor(float32(base)*math32.Pow(growth, float32(i)) + 0.5)
	if v >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

func fillInts(n, v int) []int {
	retVal := make([]int, n)
	for i := range retVal {
		retVal[i] = v
	}
	return retVal
}

func fillRatings(n int, v Rating) []Rating {
	retVal := make([]Rating, n)
	for i := range retVal {
		retVal[i] = v
	}
	return retVal
}
