package minmax

// byRating sorts slot indices ascending by the rating of their slots.
type byRating struct {
	l     []int
	slots []slot
}

func (l byRating) Len() int           { return len(l.l) }
func (l byRating) Less(i, j int) bool { return l.slots[l.l[i]].value < l.slots[l.l[j]].value }
func (l byRating) Swap(i, j int)      { l.l[i], l.l[j] = l.l[j], l.l[i] }

// child is a move explored below a leaf of the search tree, with the already rated replies to it.
type child struct {
	rating        Rating
	index         int
	grandchildren []TreeEntry
}

// byMover sorts children so that the best one for the player to move comes last.
type byMover struct {
	l   []child
	own bool
}

func (l byMover) Len() int { return len(l.l) }
func (l byMover) Less(i, j int) bool {
	if l.own {
		return l.l[i].rating < l.l[j].rating
	}
	return l.l[i].rating > l.l[j].rating
}
func (l byMover) Swap(i, j int) { l.l[i], l.l[j] = l.l[j], l.l[i] }

// relative turns a rating from the point of view of the searching player into one from the
// point of view of the player to move.
func relative(r Rating, own bool) Rating {
	if own {
		return r
	}
	return -r
}

// better reports whether a is better than b for the player to move.
func better(a, b Rating, own bool) bool {
	if own {
		return a > b
	}
	return a < b
}

// worst returns the worst possible rating for the player to move.
func worst(own bool) Rating {
	if own {
		return MinRating
	}
	return MaxRating
}
