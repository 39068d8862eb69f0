package minmax

import (
	"github.com/gorgonia/turnsearch/game"
	"github.com/gorgonia/turnsearch/game/counting"
)

// countingRM plays the counting game: every move is rated by how much it advances the mover's own
// counter, and positions by the signed square of the counter difference.
type countingRM struct {
	// equivalents, when set, declares equivalent moves before the remaining moves are rated.
	equivalents func(r *Rater[counting.Context])
}

func (countingRM) ApplyTypeMapping(c counting.Context) DecisionType {
	if c.Kind == counting.ChooseCounter && c.Steps > 1 {
		return HigherLevel
	}
	return BottomLevel
}

func (rm countingRM) RateMoves(r *Rater[counting.Context], s *counting.State, path []int, player game.Player) {
	if rm.equivalents != nil {
		rm.equivalents(r)
	}
	for dec := 0; dec < r.NumDecisions(); dec++ {
		ctx := r.Context(dec)
		for opt := 0; opt < r.NumOptions(dec); opt++ {
			counter, amount := ctx.Counter, opt+1
			if ctx.Kind == counting.ChooseCounter {
				counter, amount = opt, 1
			}
			v := Rating(amount)
			if counter != int(player) {
				v = -v
			}
			if r.slots[r.Index(dec, opt)].kind != unrated {
				continue
			}
			r.Rate(dec, opt, v)
		}
	}
}

func (countingRM) RateGameState(s *counting.State, path []int, player game.Player) Rating {
	return Rating(s.Score(player))
}

var countingTypes = countingRM{}.ApplyTypeMapping

// traceCursor records the steps it is driven through.
type traceCursor struct {
	path   []int
	leaves [][]int
	steps  int
}

func (c *traceCursor) ForwardStep(index int) {
	c.path = append(c.path, index)
	c.steps++
}

func (c *traceCursor) BackwardStep() {
	if len(c.path) == 0 {
		panic("stepped back too far")
	}
	c.path = c.path[:len(c.path)-1]
}

func (c *traceCursor) leaf() { c.leaves = append(c.leaves, append([]int(nil), c.path...)) }
