// Package minmax implements a min-max search over the reversible game engine.
//
// The search grows an explicit tree of rated moves by two plies per pass. Each pass explores
// every leaf of the tree a few plies deep by stepping a single engine clone forward and
// backward, cutting moves that are far behind the best known move. Cuts are stricter near the
// horizon and looser near the root ("sliding" parameters), and wider for the first move.
package minmax

import (
	"fmt"
	"math"

	"github.com/gorgonia/turnsearch/game"
)

// Rating is the value of a move or a game state. Higher is better.
type Rating int32

const (
	MaxRating Rating = math.MaxInt32
	MinRating Rating = -math.MaxInt32
)

func clamp(v int64) Rating {
	switch {
	case v > int64(MaxRating):
		return MaxRating
	case v < int64(MinRating):
		return MinRating
	}
	return Rating(v)
}

// sub is a saturating subtraction.
func (r Rating) sub(d Rating) Rating { return clamp(int64(r) - int64(d)) }

// DecisionType classifies a decision by its context.
type DecisionType byte

const (
	// BottomLevel decisions are actual moves. Each of their options is rated.
	BottomLevel DecisionType = iota
	// HigherLevel decisions only choose a follow up decision. They are flattened into
	// the bottom level decisions they lead to.
	HigherLevel
	// Mixed decisions are not supported.
	Mixed
)

func (t DecisionType) String() string {
	switch t {
	case BottomLevel:
		return "BottomLevel"
	case HigherLevel:
		return "HigherLevel"
	case Mixed:
		return "Mixed"
	}
	return fmt.Sprintf("DecisionType(%d)", byte(t))
}

// RateAndMap is implemented by the game to drive the search.
//
// path is the list of moves (global option indices) made since the search root. It must not be
// retained.
type RateAndMap[T, C any] interface {
	// ApplyTypeMapping classifies a decision context.
	ApplyTypeMapping(context C) DecisionType

	// RateMoves rates every option collected by the rater from the point of view of player,
	// the player to move. Higher ratings are searched first and survive cuts.
	RateMoves(r *Rater[C], data *T, path []int, player game.Player)

	// RateGameState statically evaluates the game from the point of view of player, the
	// player running the search.
	RateGameState(data *T, path []int, player game.Player) Rating
}

// RatedMove is a move that survived a cut.
type RatedMove struct {
	Index  int // global option index
	Rating Rating

	// Equivalents lists the moves that are known to have the same value as Index, starting
	// with Index itself. It is only filled by CutAndSortWithEquivalency.
	Equivalents []int
}

// InvalidEngineState is returned when a search is started on an engine that cannot be searched.
type InvalidEngineState struct {
	Reason string
}

func (e *InvalidEngineState) Error() string { return "invalid engine state: " + e.Reason }
