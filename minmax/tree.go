package minmax

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// TreeEntry is a node of the search tree: a move and its rating from the point of view of the
// searching player.
type TreeEntry struct {
	Rating      Rating
	Index       int // global option index of the move at its decision point
	NumChildren int
}

// Cursor follows the search tree through the game.
type Cursor interface {
	ForwardStep(index int)
	BackwardStep()
}

// SearchTree is a tree of moves stored level by level. Level 0 holds a single sentinel whose
// children are the moves at the search root. The children of a node are contiguous in the next
// level, in the order of their parents.
//
// Moves at odd levels are made by the searching player, moves at even levels by the opponent.
type SearchTree struct {
	levels [][]TreeEntry

	// construction buffer for the children and grandchildren of the current leaves
	next   [2][]TreeEntry
	open   bool
	parent int
}

// NewSearchTree creates a tree holding the moves at the search root.
func NewSearchTree(roots []TreeEntry) *SearchTree {
	for _, r := range roots {
		if r.NumChildren != 0 {
			panic("root moves cannot have children")
		}
	}
	return &SearchTree{
		levels: [][]TreeEntry{
			{{Index: -1, NumChildren: len(roots)}},
			append([]TreeEntry(nil), roots...),
		},
	}
}

// Depth returns the number of levels below the sentinel.
func (t *SearchTree) Depth() int { return len(t.levels) - 1 }

// Level returns a level of the tree. It must not be modified.
func (t *SearchTree) Level(i int) []TreeEntry { return t.levels[i] }

// Len returns the number of moves in the tree.
func (t *SearchTree) Len() (retVal int) {
	for _, l := range t.levels[1:] {
		retVal += len(l)
	}
	return
}

// Children returns the children of the i-th entry of a level. They must not be modified.
func (t *SearchTree) Children(level, i int) []TreeEntry {
	if level+1 >= len(t.levels) {
		return nil
	}
	var start int
	for _, e := range t.levels[level][:i] {
		start += e.NumChildren
	}
	return t.levels[level+1][start : start+t.levels[level][i].NumChildren]
}

// NewLevels opens two new levels below the current leaves.
func (t *SearchTree) NewLevels() {
	if t.open {
		panic("new levels are already open")
	}
	t.open = true
	t.parent = 0
	t.next = [2][]TreeEntry{}
}

// PushChild adds a child with its own children to the leaf at index parent of the deepest level.
// Children have to be pushed in the order of their parents.
func (t *SearchTree) PushChild(parent int, rating Rating, index int, grandchildren []TreeEntry) {
	if !t.open {
		panic("no new levels are open")
	}
	leaves := t.levels[len(t.levels)-1]
	switch {
	case parent < 0 || parent >= len(leaves):
		panic(errors.Errorf("parent %d is not a leaf of the %d leaves", parent, len(leaves)))
	case parent < t.parent:
		panic(errors.Errorf("child of %d pushed after a child of %d", parent, t.parent))
	}
	t.parent = parent
	leaves[parent].NumChildren++
	t.next[0] = append(t.next[0], TreeEntry{Rating: rating, Index: index, NumChildren: len(grandchildren)})
	for _, g := range grandchildren {
		g.NumChildren = 0
		t.next[1] = append(t.next[1], g)
	}
}

// Extend adds the open levels to the tree.
func (t *SearchTree) Extend() {
	if !t.open {
		panic("no new levels are open")
	}
	t.levels = append(t.levels, t.next[0], t.next[1])
	t.next = [2][]TreeEntry{}
	t.open = false
}

// UpdateRatings rates every inner node with the best rating of its children for the player
// making the children's moves: the maximum at odd levels, the minimum at even levels. Nodes
// without children keep their rating.
func (t *SearchTree) UpdateRatings() {
	if t.open {
		panic("cannot update ratings while new levels are open")
	}
	for i := len(t.levels) - 2; i >= 1; i-- {
		maximize := (i+1)%2 == 1
		kids := t.levels[i+1]
		var start int
		for j := range t.levels[i] {
			e := &t.levels[i][j]
			if e.NumChildren == 0 {
				continue
			}
			cs := kids[start : start+e.NumChildren]
			start += e.NumChildren
			best := cs[0].Rating
			for _, c := range cs[1:] {
				if better(c.Rating, best, maximize) {
					best = c.Rating
				}
			}
			e.Rating = best
		}
	}
}

// Prune removes nodes from the tree. keep is called once for every node still in the tree that has
// children, top down, with the level of the children. It returns the ascending offsets of the
// children to keep. Removing a node removes its whole subtree.
func (t *SearchTree) Prune(keep func(level int, parent TreeEntry, children []TreeEntry) []int) {
	if t.open {
		panic("cannot prune while new levels are open")
	}
	retained := []bool{true}
	for i := 0; i < len(t.levels); i++ {
		var next []bool
		if i+1 < len(t.levels) {
			kids := t.levels[i+1]
			next = make([]bool, len(kids))
			var start int
			for j := range t.levels[i] {
				e := &t.levels[i][j]
				cs := kids[start : start+e.NumChildren]
				if retained[j] && len(cs) > 0 {
					offsets := keep(i+1, *e, cs)
					checkOffsets(offsets, len(cs))
					for _, o := range offsets {
						next[start+o] = true
					}
					e.NumChildren = len(offsets)
				}
				start += len(cs)
			}
		}

		l := t.levels[i][:0]
		for j, e := range t.levels[i] {
			if retained[j] {
				l = append(l, e)
			}
		}
		t.levels[i] = l
		retained = next
	}
}

func checkOffsets(offsets []int, n int) {
	if !slices.IsSorted(offsets) {
		panic(errors.Errorf("offsets %v are not sorted", offsets))
	}
	for k, o := range offsets {
		if o < 0 || o >= n || (k > 0 && offsets[k-1] == o) {
			panic(errors.Errorf("invalid offsets %v for %d children", offsets, n))
		}
	}
}

// ForEachLeaf walks the tree depth first and calls fn for every node at the deepest level, with
// the cursor moved along the path to the node. The cursor is moved back before ForEachLeaf returns.
// fn receives the position of the leaf in the deepest level and must leave the cursor as it
// found it.
func (t *SearchTree) ForEachLeaf(c Cursor, fn func(leaf int, e TreeEntry)) {
	deepest := len(t.levels) - 1
	starts := make([][]int, deepest)
	for i := range starts {
		starts[i] = make([]int, len(t.levels[i]))
		var start int
		for j, e := range t.levels[i] {
			starts[i][j] = start
			start += e.NumChildren
		}
	}

	var visit func(level, start, n int)
	visit = func(level, start, n int) {
		for j := start; j < start+n; j++ {
			e := t.levels[level][j]
			switch {
			case level == deepest:
				step(c, e.Index, func() { fn(j, e) })
			case e.NumChildren > 0:
				step(c, e.Index, func() { visit(level+1, starts[level][j], e.NumChildren) })
			}
		}
	}
	visit(1, 0, len(t.levels[1]))
}

func step(c Cursor, index int, fn func()) {
	c.ForwardStep(index)
	defer c.BackwardStep()
	fn()
}

// Best returns the first root move with the best rating.
func (t *SearchTree) Best() (retVal TreeEntry, ok bool) {
	for i, e := range t.levels[1] {
		if i == 0 || e.Rating > retVal.Rating {
			retVal = e
			ok = true
		}
	}
	return
}
