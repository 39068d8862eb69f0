// Package turnsearch plays games between agents that search with minmax or move at random,
// and keeps statistics of the results.
package turnsearch

import (
	"sync"

	"github.com/gorgonia/turnsearch/game"
	"github.com/gorgonia/turnsearch/minmax"
)

// Strategy picks the move of the player to move. A move is the list of options that answer the
// pending decision and its follow ups. Strategies are not safe for concurrent use.
type Strategy[T, C any] interface {
	Move(e *game.Engine[T, C]) ([]int, error)
}

// StrategyFactory creates the strategy an agent uses for one game.
type StrategyFactory[T, C any] func(gameNumber int) Strategy[T, C]

// An Agent is a player of arena games. It keeps track of its results.
type Agent[T, C any] struct {
	Name     string
	Strategy StrategyFactory[T, C]

	// Statistics
	Wins float32
	Loss float32
	Draw float32
	sync.Mutex
}

// NewAgent creates an agent.
func NewAgent[T, C any](name string, strategy StrategyFactory[T, C]) *Agent[T, C] {
	return &Agent[T, C]{Name: name, Strategy: strategy}
}

// Results returns the number of games won, lost and drawn.
func (a *Agent[T, C]) Results() (wins, loss, draw float32) {
	a.Lock()
	defer a.Unlock()
	return a.Wins, a.Loss, a.Draw
}

func (a *Agent[T, C]) record(r Outcome) {
	a.Lock()
	switch r {
	case Win:
		a.Wins++
	case Loss:
		a.Loss++
	default:
		a.Draw++
	}
	a.Unlock()
}

func (a *Agent[T, C]) resetStats() {
	a.Lock()
	a.Wins = 0
	a.Loss = 0
	a.Draw = 0
	a.Unlock()
}

// Searcher is a Strategy that plays the best move found by a min-max search.
type Searcher[T, C any] struct {
	*minmax.MinMax[T, C]

	last minmax.Rating
}

// NewSearcher creates a Searcher.
func NewSearcher[T, C any](m *minmax.MinMax[T, C]) *Searcher[T, C] {
	return &Searcher[T, C]{MinMax: m}
}

func (s *Searcher[T, C]) Move(e *game.Engine[T, C]) ([]int, error) {
	rating, path, err := s.Run(e)
	if err != nil {
		return nil, err
	}
	s.last = rating
	return path, nil
}

// LastRating returns the rating of the last move, from the point of view of the player that made it.
func (s *Searcher[T, C]) LastRating() minmax.Rating { return s.last }
