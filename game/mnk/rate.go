package mnk

import (
	"github.com/gorgonia/turnsearch/game"
	"github.com/gorgonia/turnsearch/minmax"
)

const (
	winRating   minmax.Rating = 1 << 20
	winBonus    minmax.Rating = 1 << 16
	blockBonus  minmax.Rating = 1 << 14
	lineBonus   minmax.Rating = 1 << 3
	threatBonus minmax.Rating = 1 << 2
)

var _ minmax.RateAndMap[State, Context] = Evaluator{}

// Evaluator drives a min-max search of an m,n,k-game. Moves are rated by the lines they extend
// or block, positions by the lines each player can still complete.
type Evaluator struct {
	// Symmetry marks moves that are equivalent under a symmetry of the board, so that only one
	// move of each class is searched.
	Symmetry bool
}

func (Evaluator) ApplyTypeMapping(c Context) minmax.DecisionType {
	if c.Kind == ChooseRow {
		return minmax.HigherLevel
	}
	return minmax.BottomLevel
}

func (ev Evaluator) RateMoves(r *minmax.Rater[Context], s *State, path []int, player game.Player) {
	type slot struct{ dec, opt int }
	slots := make(map[int]slot, len(s.Board))
	for dec := 0; dec < r.NumDecisions(); dec++ {
		for opt := 0; opt < r.NumOptions(dec); opt++ {
			slots[s.Cell(r.Context(dec), opt)] = slot{dec, opt}
		}
	}

	skip := make(map[int]bool)
	if ev.Symmetry {
		canonical := s.Canonical()
		for cell, sl := range slots {
			if to := canonical[cell]; to != cell {
				rep := slots[to]
				r.SetEquivalentTo(sl.dec, sl.opt, rep.dec, rep.opt)
				skip[cell] = true
			}
		}
	}

	for cell, sl := range slots {
		if skip[cell] {
			continue
		}
		r.Rate(sl.dec, sl.opt, moveRating(s, cell, player))
	}
}

func (Evaluator) RateGameState(s *State, path []int, player game.Player) minmax.Rating {
	switch s.Winner {
	case player:
		return winRating - minmax.Rating(s.Moves)
	case Opponent(player):
		return -winRating + minmax.Rating(s.Moves)
	}
	var retVal minmax.Rating
	s.forEachWindow(func(cells []int) {
		own, opp := s.count(cells, player)
		switch {
		case opp == 0:
			retVal += minmax.Rating(own * own)
		case own == 0:
			retVal -= minmax.Rating(opp * opp)
		}
	})
	return retVal
}

// moveRating rates placing a stone of p on an empty cell.
func moveRating(s *State, cell int, p game.Player) minmax.Rating {
	var retVal minmax.Rating
	s.windowsThrough(cell, func(cells []int) {
		own, opp := s.count(cells, p)
		switch {
		case opp == 0 && own == s.K-1:
			retVal += winBonus
		case own == 0 && opp == s.K-1:
			retVal += blockBonus
		case opp == 0:
			retVal += lineBonus * minmax.Rating(own+1)
		case own == 0:
			retVal += threatBonus * minmax.Rating(opp)
		}
	})
	return retVal
}
