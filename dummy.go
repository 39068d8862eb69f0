package turnsearch

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/gorgonia/turnsearch/game"
)

// RandomStrategy picks every option uniformly at random. It is the baseline opponent.
type RandomStrategy[T, C any] struct {
	r *rand.Rand
}

// NewRandomStrategy creates a RandomStrategy with a fixed seed.
func NewRandomStrategy[T, C any](seed uint64) *RandomStrategy[T, C] {
	return &RandomStrategy[T, C]{r: rand.New(rand.NewSource(seed))}
}

func (s *RandomStrategy[T, C]) Move(e *game.Engine[T, C]) ([]int, error) {
	if e.IsFinished() {
		return nil, game.ErrFinished
	}
	scratch := e.Clone(nil)
	var retVal []int
	for !scratch.HasPendingEffects() {
		n := scratch.Decision().OptionCount(scratch.Data())
		if n == 0 {
			return nil, errors.Errorf("no options after %v", retVal)
		}
		opt := s.r.Intn(n)
		if err := scratch.SelectOption(opt); err != nil {
			return nil, errors.Wrapf(err, "selecting %d after %v", opt, retVal)
		}
		retVal = append(retVal, opt)
	}
	return retVal, nil
}
