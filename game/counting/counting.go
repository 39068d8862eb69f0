// Package counting implements a two player counting game.
//
// Each player owns a counter. On every turn the player to move picks a counter and advances it,
// either by one or, when the game allows larger steps, by an amount chosen in a follow up
// decision. The game ends after a fixed number of turns.
package counting

import (
	"fmt"

	"github.com/gorgonia/turnsearch/game"
)

const (
	Zero game.Player = 0
	One  game.Player = 1
)

// Kind is the kind of a decision in the counting game.
type Kind int

const (
	ChooseCounter Kind = iota
	ChooseAmount
)

// Context describes a decision of the counting game.
type Context struct {
	Kind    Kind
	Counter int // the chosen counter. Only valid for ChooseAmount
	Steps   int // number of distinct amounts a counter may be advanced by
}

// State is the data of the counting game.
type State struct {
	Counters [2]int
	Plies    int

	Limit int         // the game ends after this many turns
	Steps int         // a counter may be advanced by 1..Steps
	First game.Player // the player that moves first
}

var _ game.Rules[State, Context] = Rules{}

// Rules are the rules of the counting game.
type Rules struct{}

// New creates a new engine for a counting game.
func New(limit, steps int, first game.Player, listener game.Listener) *game.Engine[State, Context] {
	if steps < 1 {
		panic("steps must be at least 1")
	}
	s := &State{
		Limit: limit,
		Steps: steps,
		First: first,
	}
	return game.New[State, Context](Rules{}, s, listener)
}

func (Rules) NextDecision(s *State) game.Decision[State, Context] {
	if s.Plies >= s.Limit {
		return nil
	}
	return chooseCounter{player: s.ToMove(), steps: s.Steps}
}

func (Rules) CloneData(s *State) *State {
	retVal := *s
	return &retVal
}

// ToMove returns the player to move.
func (s *State) ToMove() game.Player {
	if s.Plies%2 == 0 {
		return s.First
	}
	return Opponent(s.First)
}

// Score is the signed square of the counter difference, from the point of view of p.
func (s *State) Score(p game.Player) int {
	d := s.Counters[p] - s.Counters[Opponent(p)]
	if d < 0 {
		return -d * d
	}
	return d * d
}

func (s *State) Format(f fmt.State, c rune) {
	fmt.Fprintf(f, "[%d %d] ply %d/%d", s.Counters[0], s.Counters[1], s.Plies, s.Limit)
}

// Opponent returns the other player.
func Opponent(p game.Player) game.Player {
	switch p {
	case Zero:
		return One
	case One:
		return Zero
	}
	panic("Unreachable")
}

type chooseCounter struct {
	player game.Player
	steps  int
}

func (d chooseCounter) Player() game.Player { return d.player }
func (d chooseCounter) Context() Context {
	return Context{Kind: ChooseCounter, Counter: -1, Steps: d.steps}
}
func (d chooseCounter) OptionCount(s *State) int { return 2 }

func (d chooseCounter) SelectOption(s *State, option int) game.Outcome[State, Context] {
	if d.steps == 1 {
		return game.Outcome[State, Context]{
			Effects: []game.Effect[State]{advance{counter: option, amount: 1}},
		}
	}
	return game.Outcome[State, Context]{
		FollowUp: chooseAmount{player: d.player, counter: option, steps: d.steps},
	}
}

type chooseAmount struct {
	player  game.Player
	counter int
	steps   int
}

func (d chooseAmount) Player() game.Player { return d.player }
func (d chooseAmount) Context() Context {
	return Context{Kind: ChooseAmount, Counter: d.counter, Steps: d.steps}
}
func (d chooseAmount) OptionCount(s *State) int { return d.steps }

func (d chooseAmount) SelectOption(s *State, option int) game.Outcome[State, Context] {
	return game.Outcome[State, Context]{
		Effects: []game.Effect[State]{advance{counter: d.counter, amount: option + 1}},
	}
}

// advance advances a counter and ends the turn.
type advance struct {
	counter, amount int
}

func (a advance) Apply(s *State) {
	s.Counters[a.counter] += a.amount
	s.Plies++
}

func (a advance) Undo(s *State) {
	s.Counters[a.counter] -= a.amount
	s.Plies--
}
