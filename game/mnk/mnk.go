// Package mnk implements m,n,k-games on the game engine: two players take turns placing a stone
// on an empty cell of an MxN board, and the first one with K stones in a row wins.
package mnk

import (
	"fmt"

	"github.com/gorgonia/turnsearch/game"
)

const (
	Cross  game.Player = 0
	Nought game.Player = 1
)

// Kind is the kind of a decision in an m,n,k-game.
type Kind byte

const (
	PlaceStone   Kind = iota // choose an empty cell of the board
	ChooseRow                // choose a row that still has empty cells
	ChooseColumn             // choose an empty cell of the row chosen before
)

// Context describes a decision.
type Context struct {
	Kind Kind
	Row  int // only valid for ChooseColumn
}

// Config configures a game.
type Config struct {
	M, N, K int
	First   game.Player

	// RowFirst splits every move into choosing a row and then a cell of that row.
	RowFirst bool
}

// State is the data of an m,n,k-game. Cells are indexed row by row.
type State struct {
	Board   []game.Player // NoPlayer marks an empty cell
	M, N, K int

	First    game.Player
	Moves    int
	Winner   game.Player
	RowFirst bool
}

var _ game.Rules[State, Context] = Rules{}

// Rules are the rules of m,n,k-games.
type Rules struct{}

// New creates a new game.
func New(c Config, listener game.Listener) *game.Engine[State, Context] {
	if c.M < 1 || c.N < 1 || c.K < 1 || (c.K > c.M && c.K > c.N) {
		panic(fmt.Sprintf("invalid board %dx%d with %d in a row", c.M, c.N, c.K))
	}
	s := &State{
		Board:    make([]game.Player, c.M*c.N),
		M:        c.M,
		N:        c.N,
		K:        c.K,
		First:    c.First,
		Winner:   game.NoPlayer,
		RowFirst: c.RowFirst,
	}
	for i := range s.Board {
		s.Board[i] = game.NoPlayer
	}
	return game.New[State, Context](Rules{}, s, listener)
}

// TicTacToe creates a new game of Tic Tac Toe
func TicTacToe(listener game.Listener) *game.Engine[State, Context] {
	return New(Config{M: 3, N: 3, K: 3, First: Cross}, listener)
}

func (Rules) NextDecision(s *State) game.Decision[State, Context] {
	if ended, _ := s.Ended(); ended {
		return nil
	}
	if s.RowFirst {
		return chooseRow{player: s.ToMove()}
	}
	return placeStone{player: s.ToMove()}
}

func (Rules) CloneData(s *State) *State {
	retVal := *s
	retVal.Board = make([]game.Player, len(s.Board))
	copy(retVal.Board, s.Board)
	return &retVal
}

func (s *State) Format(f fmt.State, c rune) {
	for i, p := range s.Board {
		if i%s.N == 0 {
			fmt.Fprint(f, "⎢ ")
		}
		fmt.Fprintf(f, "%s ", p)
		if (i+1)%s.N == 0 {
			fmt.Fprint(f, "⎥\n")
		}
	}
}

func (s *State) BoardSize() (int, int) { return s.M, s.N }
func (s *State) ActionSpace() int       { return s.M * s.N }

// ToMove returns the player to move.
func (s *State) ToMove() game.Player {
	if s.Moves%2 == 0 {
		return s.First
	}
	return Opponent(s.First)
}

// Ended checks if the game has ended. If it has, who is the winner?
func (s *State) Ended() (ended bool, winner game.Player) {
	if s.Winner != game.NoPlayer {
		return true, s.Winner
	}
	return s.Moves == len(s.Board), game.NoPlayer
}

// Score is 1 for a win of p, -1 for a loss and 0 otherwise.
func (s *State) Score(p game.Player) int {
	switch s.Winner {
	case game.NoPlayer:
		return 0
	case p:
		return 1
	}
	return -1
}

// Cell returns the board cell an option of a decision places a stone on. Decisions enumerate
// empty cells in ascending order.
func (s *State) Cell(c Context, option int) int {
	switch c.Kind {
	case PlaceStone:
		return s.nthEmpty(0, len(s.Board), option)
	case ChooseColumn:
		return s.nthEmpty(c.Row*s.N, c.Row*s.N+s.N, option)
	}
	panic(fmt.Sprintf("decision kind %d does not place a stone", c.Kind))
}

// Row returns the row an option of a ChooseRow decision selects.
func (s *State) Row(option int) int {
	n := option
	for row := 0; row < s.M; row++ {
		if s.emptyIn(row*s.N, row*s.N+s.N) == 0 {
			continue
		}
		if n == 0 {
			return row
		}
		n--
	}
	panic(fmt.Sprintf("row option %d out of range", option))
}

func (s *State) emptyIn(from, to int) int {
	var retVal int
	for i := from; i < to; i++ {
		if s.Board[i] == game.NoPlayer {
			retVal++
		}
	}
	return retVal
}

func (s *State) nthEmpty(from, to, option int) int {
	n := option
	for i := from; i < to; i++ {
		if s.Board[i] != game.NoPlayer {
			continue
		}
		if n == 0 {
			return i
		}
		n--
	}
	panic(fmt.Sprintf("option %d out of range", option))
}

// Opponent returns the other player.
func Opponent(p game.Player) game.Player {
	switch p {
	case Cross:
		return Nought
	case Nought:
		return Cross
	}
	panic("Unreachable")
}

type placeStone struct {
	player game.Player
}

func (d placeStone) Player() game.Player { return d.player }
func (d placeStone) Context() Context    { return Context{Kind: PlaceStone, Row: -1} }
func (d placeStone) OptionCount(s *State) int {
	return s.emptyIn(0, len(s.Board))
}

func (d placeStone) SelectOption(s *State, option int) game.Outcome[State, Context] {
	return game.Outcome[State, Context]{
		Effects: []game.Effect[State]{place{cell: s.Cell(d.Context(), option), player: d.player}},
	}
}

type chooseRow struct {
	player game.Player
}

func (d chooseRow) Player() game.Player { return d.player }
func (d chooseRow) Context() Context    { return Context{Kind: ChooseRow, Row: -1} }
func (d chooseRow) OptionCount(s *State) int {
	var retVal int
	for row := 0; row < s.M; row++ {
		if s.emptyIn(row*s.N, row*s.N+s.N) > 0 {
			retVal++
		}
	}
	return retVal
}

func (d chooseRow) SelectOption(s *State, option int) game.Outcome[State, Context] {
	return game.Outcome[State, Context]{
		FollowUp: chooseColumn{player: d.player, row: s.Row(option)},
	}
}

type chooseColumn struct {
	player game.Player
	row    int
}

func (d chooseColumn) Player() game.Player { return d.player }
func (d chooseColumn) Context() Context    { return Context{Kind: ChooseColumn, Row: d.row} }
func (d chooseColumn) OptionCount(s *State) int {
	return s.emptyIn(d.row*s.N, d.row*s.N+s.N)
}

func (d chooseColumn) SelectOption(s *State, option int) game.Outcome[State, Context] {
	return game.Outcome[State, Context]{
		Effects: []game.Effect[State]{place{cell: s.Cell(d.Context(), option), player: d.player}},
	}
}

// place puts a stone on an empty cell and ends the turn.
type place struct {
	cell   int
	player game.Player
}

func (p place) Apply(s *State) {
	if s.Board[p.cell] != game.NoPlayer {
		panic(fmt.Sprintf("cell %d is taken", p.cell))
	}
	s.Board[p.cell] = p.player
	s.Moves++
	if s.completes(p.cell) {
		s.Winner = p.player
	}
}

func (p place) Undo(s *State) {
	s.Board[p.cell] = game.NoPlayer
	s.Moves--
	s.Winner = game.NoPlayer
}
