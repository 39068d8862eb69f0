package turnsearch

import (
	"github.com/rs/zerolog"

	"github.com/gorgonia/turnsearch/game"
	"github.com/gorgonia/turnsearch/game/mnk"
	"github.com/gorgonia/turnsearch/minmax"
)

// NewMNKArena creates the arena described by a config.
func NewMNKArena(c Config, logger zerolog.Logger, opts ...ArenaOption) (*Arena[mnk.State, mnk.Context], error) {
	if err := c.IsValid(); err != nil {
		return nil, err
	}
	gc := mnk.Config{M: c.Game.M, N: c.Game.N, K: c.Game.K, First: mnk.Cross, RowFirst: c.Game.RowFirst}
	newGame := func(listener game.Listener) *game.Engine[mnk.State, mnk.Context] {
		return mnk.New(gc, listener)
	}
	winner := func(s *mnk.State) game.Player {
		_, w := s.Ended()
		return w
	}

	a := NewAgent(c.A.Name, MNKStrategy(c.A, logger))
	b := NewAgent(c.B.Name, MNKStrategy(c.B, logger))
	opts = append([]ArenaOption{WithSeed(c.Seed), WithArenaLogger(logger)}, opts...)
	return NewArena(newGame, winner, a, b, opts...), nil
}

// MNKStrategy creates the strategies of an agent playing m,n,k-games.
func MNKStrategy(c AgentConfig, logger zerolog.Logger, opts ...minmax.Option) StrategyFactory[mnk.State, mnk.Context] {
	if c.Strategy == StrategyRandom {
		return func(gameNumber int) Strategy[mnk.State, mnk.Context] {
			return NewRandomStrategy[mnk.State, mnk.Context](c.Seed + uint64(gameNumber))
		}
	}
	params := c.Params()
	ev := mnk.Evaluator{Symmetry: c.Symmetry}
	opts = append([]minmax.Option{minmax.WithLogger(logger.With().Str("agent", c.Name).Logger())}, opts...)
	return func(int) Strategy[mnk.State, mnk.Context] {
		return NewSearcher(minmax.New[mnk.State, mnk.Context](params, ev, opts...))
	}
}
