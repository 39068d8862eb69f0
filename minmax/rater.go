package minmax

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/gorgonia/turnsearch/game"
)

type slotKind byte

const (
	unrated slotKind = iota
	valued
	equivalent // target is the slot it shares its rating with
	moved      // target is the position in the cut, or -1 if the move was dropped
)

type slot struct {
	kind   slotKind
	value  Rating
	target int
}

// flatDecision is a bottom level decision reachable from the decision point.
type flatDecision[C any] struct {
	context C
	path    []int // options of the higher level decisions leading to it
	end     int   // global index one past its last option
}

// Rater collects the ratings of all moves available at a decision point.
//
// Higher level decisions are flattened: every bottom level decision reachable through them is
// listed, and their options are numbered consecutively by a global option index.
type Rater[C any] struct {
	decisions []flatDecision[C]
	slots     []slot
	max       Rating
	cut       bool
}

// NewRater flattens the pending decision of e. e is left as it was found.
func NewRater[T, C any](e *game.Engine[T, C], typeOf func(C) DecisionType) *Rater[C] {
	retVal := &Rater[C]{max: MinRating}
	flatten(e, typeOf, func(path []int, d game.Decision[T, C]) bool {
		n := d.OptionCount(e.Data())
		retVal.slots = append(retVal.slots, make([]slot, n)...)
		retVal.decisions = append(retVal.decisions, flatDecision[C]{
			context: d.Context(),
			path:    append([]int(nil), path...),
			end:     len(retVal.slots),
		})
		return true
	})
	return retVal
}

// flatten walks the bottom level decisions reachable from the pending decision of e, depth first.
// Higher level options are selected on the way down and retracted on the way up. visit returns
// false to stop the walk.
func flatten[T, C any](e *game.Engine[T, C], typeOf func(C) DecisionType, visit func(path []int, d game.Decision[T, C]) bool) {
	var path []int
	var walk func() bool
	walk = func() bool {
		d := e.Decision()
		switch t := typeOf(d.Context()); t {
		case BottomLevel:
			return visit(path, d)
		case HigherLevel:
			n := d.OptionCount(e.Data())
			for i := 0; i < n; i++ {
				if err := e.SelectOption(i); err != nil {
					panic(errors.Wrapf(err, "flattening option %d after %v", i, path))
				}
				if !e.InFollowUp() || e.HasPendingEffects() {
					panic(errors.Errorf("higher level option %d after %v did not lead to a follow up decision", i, path))
				}
				path = append(path, i)
				cont := walk()
				path = path[:len(path)-1]
				if err := e.RetractFollowUp(); err != nil {
					panic(errors.Wrapf(err, "retracting option %d after %v", i, path))
				}
				if !cont {
					return false
				}
			}
			return true
		default:
			panic(errors.Errorf("unsupported decision type %v", t))
		}
	}
	if e.Decision() != nil {
		walk()
	}
}

// NumDecisions returns the number of bottom level decisions.
func (r *Rater[C]) NumDecisions() int { return len(r.decisions) }

// Context returns the context of a bottom level decision.
func (r *Rater[C]) Context(dec int) C { return r.decisions[dec].context }

// NumOptions returns the number of options of a bottom level decision.
func (r *Rater[C]) NumOptions(dec int) int { return r.decisions[dec].end - r.start(dec) }

// Path returns the higher level options leading to a bottom level decision. It must not be modified.
func (r *Rater[C]) Path(dec int) []int { return r.decisions[dec].path }

// Len returns the total number of options.
func (r *Rater[C]) Len() int { return len(r.slots) }

// Max returns the best rating so far, or MinRating if nothing has been rated.
func (r *Rater[C]) Max() Rating { return r.max }

// Threshold returns the lowest rating within diff of the best rating so far.
func (r *Rater[C]) Threshold(diff Rating) Rating { return r.max.sub(diff) }

// Index returns the global index of an option.
func (r *Rater[C]) Index(dec, opt int) int {
	if opt < 0 || opt >= r.NumOptions(dec) {
		panic(errors.Errorf("option %d out of range for decision %d with %d options", opt, dec, r.NumOptions(dec)))
	}
	return r.start(dec) + opt
}

// Locate is the inverse of Index.
func (r *Rater[C]) Locate(index int) (dec, opt int) {
	if index < 0 || index >= len(r.slots) {
		panic(errors.Errorf("global index %d out of range [0, %d)", index, len(r.slots)))
	}
	dec = sort.Search(len(r.decisions), func(i int) bool { return r.decisions[i].end > index })
	return dec, index - r.start(dec)
}

// Rate rates an option. Every option is rated once.
func (r *Rater[C]) Rate(dec, opt int, value Rating) {
	i := r.Index(dec, opt)
	if r.slots[i].kind != unrated {
		panic(errors.Errorf("move %d of decision %d rated twice", opt, dec))
	}
	value = clamp(int64(value))
	r.slots[i] = slot{kind: valued, value: value}
	if value > r.max {
		r.max = value
	}
}

// SetEquivalentTo declares that an option leads to the same game value as the target option.
// The option takes the target's rating and is never searched on its own.
func (r *Rater[C]) SetEquivalentTo(dec, opt, targetDec, targetOpt int) {
	i := r.Index(dec, opt)
	t := r.Index(targetDec, targetOpt)
	if r.slots[i].kind != unrated {
		panic(errors.Errorf("move %d of decision %d rated twice", opt, dec))
	}
	if r.chainContains(t, i) {
		panic(errors.Errorf("equivalency cycle through move %d of decision %d", opt, dec))
	}
	r.slots[i] = slot{kind: equivalent, target: t}
}

// SetEquivalentAsRepresentative declares that an option leads to the same game value as other,
// and makes the option the one that is searched. It takes the rating of the representative it
// replaces.
func (r *Rater[C]) SetEquivalentAsRepresentative(dec, opt, otherDec, otherOpt int) {
	i := r.Index(dec, opt)
	o := r.Index(otherDec, otherOpt)
	if r.slots[i].kind != unrated {
		panic(errors.Errorf("move %d of decision %d rated twice", opt, dec))
	}
	if r.chainContains(o, i) {
		panic(errors.Errorf("equivalency cycle through move %d of decision %d", opt, dec))
	}
	root := r.resolve(o)
	if r.slots[root].kind != valued {
		panic(errors.Errorf("representative of move %d of decision %d is not rated", otherOpt, otherDec))
	}
	r.slots[i] = slot{kind: valued, value: r.slots[root].value}
	r.slots[root] = slot{kind: equivalent, target: i}
}

// Mapped returns the position of an option in the cut, if it survived the cut.
func (r *Rater[C]) Mapped(dec, opt int) (int, bool) {
	s := r.slots[r.Index(dec, opt)]
	if s.kind != moved {
		panic("moves have not been cut")
	}
	return s.target, s.target >= 0
}

// CutAndSort returns the options rated at least min, sorted ascending by rating, keeping the
// best limit of them. Options equivalent to another one are dropped.
func (r *Rater[C]) CutAndSort(min Rating, limit int) []RatedMove {
	return r.cutAndSort(min, limit, 0, false)
}

// CutAndSortWithEquivalency is like CutAndSort, but attaches to every surviving option up to
// classLimit members of its equivalency class, the option itself first.
func (r *Rater[C]) CutAndSortWithEquivalency(min Rating, limit, classLimit int) []RatedMove {
	return r.cutAndSort(min, limit, classLimit, true)
}

func (r *Rater[C]) cutAndSort(min Rating, limit, classLimit int, track bool) []RatedMove {
	if r.cut {
		panic("moves have already been cut")
	}
	r.cut = true

	var reps []int
	var members [][]int
	if track {
		members = make([][]int, len(r.slots))
	}
	roots := make([]int, len(r.slots))
	for i, s := range r.slots {
		switch s.kind {
		case unrated:
			dec, opt := r.Locate(i)
			panic(errors.Errorf("move %d of decision %d is not rated", opt, dec))
		case valued:
			roots[i] = i
			if s.value >= min {
				reps = append(reps, i)
			}
		case equivalent:
			root := r.resolve(i)
			if r.slots[root].kind != valued {
				dec, opt := r.Locate(root)
				panic(errors.Errorf("move %d of decision %d is not rated", opt, dec))
			}
			roots[i] = root
			if track {
				members[root] = append(members[root], i)
			}
		default:
			panic("Unreachable")
		}
	}

	sort.Stable(byRating{l: reps, slots: r.slots})
	if limit < len(reps) {
		reps = reps[len(reps)-limit:]
	}

	for i := range r.slots {
		r.slots[i] = slot{kind: moved, value: r.slots[roots[i]].value, target: -1}
	}
	retVal := make([]RatedMove, len(reps))
	for k, i := range reps {
		r.slots[i].target = k
		retVal[k] = RatedMove{Index: i, Rating: r.slots[i].value}
		if !track {
			continue
		}
		class := append(make([]int, 0, 1+len(members[i])), i)
		for _, m := range members[i] {
			if len(class) >= classLimit {
				break
			}
			class = append(class, m)
			r.slots[m].target = k
		}
		retVal[k].Equivalents = class
	}
	return retVal
}

func (r *Rater[C]) start(dec int) int {
	if dec == 0 {
		return 0
	}
	return r.decisions[dec-1].end
}

// resolve follows an equivalency chain to its representative.
func (r *Rater[C]) resolve(i int) int {
	for steps := 0; r.slots[i].kind == equivalent; steps++ {
		if steps > len(r.slots) {
			dec, opt := r.Locate(i)
			panic(errors.Errorf("equivalency cycle through move %d of decision %d", opt, dec))
		}
		i = r.slots[i].target
	}
	return i
}

// chainContains reports whether the equivalency chain starting at i passes through j.
func (r *Rater[C]) chainContains(i, j int) bool {
	for steps := 0; ; steps++ {
		if i == j {
			return true
		}
		if r.slots[i].kind != equivalent || steps > len(r.slots) {
			return false
		}
		i = r.slots[i].target
	}
}
