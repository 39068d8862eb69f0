package turnsearch

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/gorgonia/turnsearch/game"
)

// MaxMoves is the default limit of moves in an arena game.
const MaxMoves = 10000

// ErrTooLong is returned when a game does not end within the move limit of the arena.
var ErrTooLong = errors.New("game did not end")

// Outcome is the outcome of a game for one agent.
type Outcome byte

const (
	Draw Outcome = iota
	Win
	Loss
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Loss:
		return "loss"
	}
	return "draw"
}

// Result describes a finished arena game.
type Result struct {
	Game     int
	A        game.Player // the player agent A played
	Outcome  Outcome     // from the point of view of agent A
	Moves    int
	Duration time.Duration
}

// Arena plays games between two agents. Each game is played on a fresh engine, and every agent
// uses a fresh strategy per game, so that games can be played concurrently.
type Arena[T, C any] struct {
	newGame func(listener game.Listener) *game.Engine[T, C]
	winner  func(data *T) game.Player
	A, B    *Agent[T, C]

	r        *rand.Rand
	logger   zerolog.Logger
	maxMoves int
	listener func(gameNumber int) game.Listener

	sync.Mutex
	Statistics
}

// ArenaOption configures an Arena.
type ArenaOption func(*arenaOptions)

type arenaOptions struct {
	seed     uint64
	logger   *zerolog.Logger
	maxMoves int
	listener func(int) game.Listener
}

// WithSeed seeds the random assignment of players to agents.
func WithSeed(seed uint64) ArenaOption {
	return func(o *arenaOptions) { o.seed = seed }
}

// WithArenaLogger replaces the global logger.
func WithArenaLogger(logger zerolog.Logger) ArenaOption {
	return func(o *arenaOptions) { o.logger = &logger }
}

// WithMaxMoves limits the number of moves of a game.
func WithMaxMoves(n int) ArenaOption {
	return func(o *arenaOptions) { o.maxMoves = n }
}

// WithListener attaches a listener to the engine of every game.
func WithListener(listener func(gameNumber int) game.Listener) ArenaOption {
	return func(o *arenaOptions) { o.listener = listener }
}

// NewArena creates an arena. newGame creates the engine of a game, and winner returns the winner
// of a finished game or game.NoPlayer for a draw.
func NewArena[T, C any](newGame func(listener game.Listener) *game.Engine[T, C], winner func(data *T) game.Player, a, b *Agent[T, C], opts ...ArenaOption) *Arena[T, C] {
	o := arenaOptions{seed: uint64(time.Now().UnixNano()), maxMoves: MaxMoves}
	for _, opt := range opts {
		opt(&o)
	}
	retVal := &Arena[T, C]{
		newGame:    newGame,
		winner:     winner,
		A:          a,
		B:          b,
		r:          rand.New(rand.NewSource(o.seed)),
		logger:     log.Logger,
		maxMoves:   o.maxMoves,
		listener:   o.listener,
		Statistics: makeStatistics(),
	}
	if o.logger != nil {
		retVal.logger = *o.logger
	}
	return retVal
}

// Play plays one game. aPlayer is the player agent A plays, agent B plays the other one.
func (a *Arena[T, C]) Play(ctx context.Context, gameNumber int, aPlayer game.Player) (Result, error) {
	var listener game.Listener
	if a.listener != nil {
		listener = a.listener(gameNumber)
	}
	e := a.newGame(listener)
	stratA, stratB := a.A.Strategy(gameNumber), a.B.Strategy(gameNumber)

	logger := a.logger.With().Int("game", gameNumber).Logger()
	logger.Info().Str("A", a.A.Name).Str("B", a.B.Name).Int32("player", int32(aPlayer)).Msg("playing")

	start := time.Now()
	var moves int
	for ; !e.IsFinished(); moves++ {
		if err := ctx.Err(); err != nil {
			return Result{}, errors.Wrapf(err, "game %d", gameNumber)
		}
		if moves >= a.maxMoves {
			return Result{}, errors.Wrapf(ErrTooLong, "game %d after %d moves", gameNumber, moves)
		}

		agent, strategy := a.A, stratA
		if e.Player() != aPlayer {
			agent, strategy = a.B, stratB
		}
		player := e.Player()
		path, err := strategy.Move(e)
		if err != nil {
			return Result{}, errors.Wrapf(err, "game %d, move %d of %s", gameNumber, moves, agent.Name)
		}
		if err = e.Select(path...); err != nil {
			return Result{}, errors.Wrapf(err, "game %d, move %d of %s", gameNumber, moves, agent.Name)
		}
		logger.Debug().Str("agent", agent.Name).Int32("player", int32(player)).Ints("move", path).Msg("move")
	}

	retVal := Result{
		Game:     gameNumber,
		A:        aPlayer,
		Moves:    moves,
		Duration: time.Since(start),
	}
	switch a.winner(e.Data()) {
	case game.NoPlayer:
		retVal.Outcome = Draw
		a.A.record(Draw)
		a.B.record(Draw)
	case aPlayer:
		retVal.Outcome = Win
		a.A.record(Win)
		a.B.record(Loss)
	default:
		retVal.Outcome = Loss
		a.A.record(Loss)
		a.B.record(Win)
	}
	logger.Info().Stringer("outcome", retVal.Outcome).Int("moves", moves).Dur("duration", retVal.Duration).Msg("game over")

	a.Lock()
	a.update(retVal)
	a.Unlock()
	return retVal, nil
}

// PlayMany plays games on up to workers goroutines. Agent A plays player 0 or 1 at random.
// The results are ordered by game number.
func (a *Arena[T, C]) PlayMany(ctx context.Context, games, workers int) ([]Result, error) {
	if workers < 1 {
		workers = 1
	}
	players := make([]game.Player, games)
	for i := range players {
		players[i] = game.Player(a.r.Intn(2))
	}

	retVal := make([]Result, games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < games; i++ {
		i := i
		g.Go(func() error {
			r, err := a.Play(ctx, i, players[i])
			retVal[i] = r
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	wins, loss, draw := a.A.Results()
	a.logger.Info().
		Str("A", a.A.Name).
		Float32("wins", wins).
		Float32("loss", loss).
		Float32("draw", draw).
		Msg("arena done")
	return retVal, nil
}

// Reset clears the results of both agents and the statistics.
func (a *Arena[T, C]) Reset() {
	a.A.resetStats()
	a.B.resetStats()
	a.Lock()
	a.Statistics = makeStatistics()
	a.Unlock()
}
