package mnk

import "github.com/gorgonia/turnsearch/game"

// directions of the lines on the board: row, column, diagonal, anti-diagonal
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

func (s *State) inside(i, j int) bool { return i >= 0 && i < s.M && j >= 0 && j < s.N }

// completes reports whether the stone on cell is part of K in a row.
func (s *State) completes(cell int) bool {
	p := s.Board[cell]
	if p == game.NoPlayer {
		return false
	}
	i0, j0 := cell/s.N, cell%s.N
	for _, d := range directions {
		count := 1
		for _, sign := range [2]int{1, -1} {
			i, j := i0+sign*d[0], j0+sign*d[1]
			for s.inside(i, j) && s.Board[i*s.N+j] == p {
				count++
				i, j = i+sign*d[0], j+sign*d[1]
			}
		}
		if count >= s.K {
			return true
		}
	}
	return false
}

// isWinner scans the whole board for K stones of p in a row.
func (s *State) isWinner(p game.Player) bool {
	var won bool
	s.forEachWindow(func(cells []int) {
		if won {
			return
		}
		own, _ := s.count(cells, p)
		won = own == s.K
	})
	return won
}

// forEachWindow calls fn with every K cells long line segment of the board. cells is reused
// between calls.
func (s *State) forEachWindow(fn func(cells []int)) {
	cells := make([]int, s.K)
	for i := 0; i < s.M; i++ {
		for j := 0; j < s.N; j++ {
			for _, d := range directions {
				if !s.inside(i+(s.K-1)*d[0], j+(s.K-1)*d[1]) {
					continue
				}
				for t := range cells {
					cells[t] = (i+t*d[0])*s.N + j + t*d[1]
				}
				fn(cells)
			}
		}
	}
}

// windowsThrough calls fn with every K cells long line segment that contains cell.
func (s *State) windowsThrough(cell int, fn func(cells []int)) {
	cells := make([]int, s.K)
	i0, j0 := cell/s.N, cell%s.N
	for _, d := range directions {
		for offset := s.K - 1; offset >= 0; offset-- {
			i, j := i0-offset*d[0], j0-offset*d[1]
			if !s.inside(i, j) || !s.inside(i+(s.K-1)*d[0], j+(s.K-1)*d[1]) {
				continue
			}
			for t := range cells {
				cells[t] = (i+t*d[0])*s.N + j + t*d[1]
			}
			fn(cells)
		}
	}
}

// count counts the stones of p and of the opponent of p on cells.
func (s *State) count(cells []int, p game.Player) (own, opp int) {
	for _, c := range cells {
		switch s.Board[c] {
		case game.NoPlayer:
		case p:
			own++
		default:
			opp++
		}
	}
	return
}

// symmetry maps a cell to its image under a symmetry of the board.
type symmetry func(s *State, i, j int) (int, int)

var (
	rectSymmetries = []symmetry{
		func(s *State, i, j int) (int, int) { return i, s.N - 1 - j },
		func(s *State, i, j int) (int, int) { return s.M - 1 - i, j },
		func(s *State, i, j int) (int, int) { return s.M - 1 - i, s.N - 1 - j },
	}
	squareSymmetries = append(rectSymmetries[:len(rectSymmetries):len(rectSymmetries)],
		func(s *State, i, j int) (int, int) { return j, i },
		func(s *State, i, j int) (int, int) { return s.N - 1 - j, s.M - 1 - i },
		func(s *State, i, j int) (int, int) { return j, s.N - 1 - i },
		func(s *State, i, j int) (int, int) { return s.M - 1 - j, i },
	)
)

// Canonical maps every cell to the smallest cell it can be mapped to by a symmetry that leaves
// the current board unchanged. Cells of the same orbit are equivalent moves.
func (s *State) Canonical() []int {
	syms := rectSymmetries
	if s.M == s.N {
		syms = squareSymmetries
	}
	retVal := make([]int, len(s.Board))
	for i := range retVal {
		retVal[i] = i
	}
	for _, sym := range syms {
		if !s.invariant(sym) {
			continue
		}
		for cell := range s.Board {
			i, j := sym(s, cell/s.N, cell%s.N)
			if img := i*s.N + j; img < retVal[cell] {
				retVal[cell] = img
			}
		}
	}
	return retVal
}

func (s *State) invariant(sym symmetry) bool {
	for cell, p := range s.Board {
		i, j := sym(s, cell/s.N, cell%s.N)
		if s.Board[i*s.N+j] != p {
			return false
		}
	}
	return true
}
