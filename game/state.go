package game

import (
	"fmt"
)

// Player represents a player. Players are numbered from 0 by the game.
type Player int32

// NoPlayer is returned when nobody is to move (i.e. the game has ended) and used for draws.
const NoPlayer Player = -1

func (p Player) Format(s fmt.State, c rune) {
	switch c {
	case 'v': // used in debug
		if p == NoPlayer {
			fmt.Fprint(s, "None")
			return
		}
		fmt.Fprintf(s, "P%d", int32(p))
	case 's': // used in board games
		switch p {
		case NoPlayer:
			fmt.Fprint(s, "·")
		case 0:
			fmt.Fprint(s, "X")
		case 1:
			fmt.Fprint(s, "O")
		default:
			fmt.Fprintf(s, "%d", int32(p))
		}
	}
}

// Effect is a reversible change to the game data.
type Effect[T any] interface {
	Apply(data *T)
	Undo(data *T)
}

// Outcome is what selecting an option of a Decision leads to.
//
// When FollowUp is not nil, the Effects are applied immediately and the follow up decision
// has to be answered before the whole decision is complete.
type Outcome[T, C any] struct {
	Effects  []Effect[T]
	FollowUp Decision[T, C]
}

// Decision is a choice pending for a player. Decisions are descriptors: they must not hold
// state that changes while the game is played, as they are shared between engine clones.
type Decision[T, C any] interface {
	Player() Player                                 // the player that has to decide
	Context() C                                     // describes the decision to the game implementer
	OptionCount(data *T) int                        // number of options available
	SelectOption(data *T, option int) Outcome[T, C] // resolves an option. Must not modify data.
}

// Rules drive a game. They hand out the next decision once all effects of the previous one are applied.
type Rules[T, C any] interface {
	NextDecision(data *T) Decision[T, C] // returns nil when the game has ended
	CloneData(data *T) *T
}

// Listener is notified of every decision that enters or leaves the event log.
type Listener interface {
	Logged(path []int)
	Undone(path []int)
}
