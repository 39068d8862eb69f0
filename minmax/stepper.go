package minmax

import (
	"github.com/pkg/errors"

	"github.com/gorgonia/turnsearch/game"
)

// Stepper moves a single engine forwards and backwards through the search.
//
// Moves are addressed by their global option index, as numbered by a Rater at the same decision point.
type Stepper[T, C any] struct {
	engine *game.Engine[T, C]
	typeOf func(C) DecisionType
	path   []int
}

// NewStepper creates a Stepper whose search root is the pending decision of e.
func NewStepper[T, C any](e *game.Engine[T, C], typeOf func(C) DecisionType) *Stepper[T, C] {
	return &Stepper[T, C]{engine: e, typeOf: typeOf}
}

// ForwardStep makes a move.
func (s *Stepper[T, C]) ForwardStep(index int) {
	options := s.Resolve(index)
	if err := s.engine.Select(options...); err != nil {
		panic(errors.Wrapf(err, "stepping into move %d after %v", index, s.path))
	}
	s.path = append(s.path, index)
}

// BackwardStep takes back the last move made with ForwardStep.
func (s *Stepper[T, C]) BackwardStep() {
	if len(s.path) == 0 {
		panic("cannot step back past the search root")
	}
	if err := s.engine.UndoLastDecision(); err != nil {
		panic(errors.Wrapf(err, "stepping back from %v", s.path))
	}
	s.path = s.path[:len(s.path)-1]
}

// Resolve translates a global option index into the engine options to select.
func (s *Stepper[T, C]) Resolve(index int) []int {
	var retVal []int
	var start int
	flatten(s.engine, s.typeOf, func(path []int, d game.Decision[T, C]) bool {
		n := d.OptionCount(s.engine.Data())
		if index >= start && index < start+n {
			retVal = append(append(retVal, path...), index-start)
			return false
		}
		start += n
		return true
	})
	if retVal == nil {
		panic(errors.Errorf("move %d out of range [0, %d)", index, start))
	}
	return retVal
}

// Player returns the player to move.
func (s *Stepper[T, C]) Player() game.Player { return s.engine.Player() }

// IsFinished reports whether the game has ended.
func (s *Stepper[T, C]) IsFinished() bool { return s.engine.IsFinished() }

// Path returns the moves made since the search root. It must not be modified.
func (s *Stepper[T, C]) Path() []int { return s.path }

// Data returns the game data of the current position.
func (s *Stepper[T, C]) Data() *T { return s.engine.Data() }

// within makes a move, calls fn and takes the move back, even if fn panics.
func within[T, C, R any](s *Stepper[T, C], index int, fn func() R) R {
	s.ForwardStep(index)
	defer s.BackwardStep()
	return fn()
}
