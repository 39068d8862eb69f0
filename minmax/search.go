package minmax

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gorgonia/turnsearch/game"
)

type options struct {
	metrics  bool
	logger   *zerolog.Logger
	treeHook func(*SearchTree)
}

// Option configures a MinMax.
type Option func(*options)

// WithMetrics collects SearchMetrics for every search. See LastMetrics.
func WithMetrics() Option {
	return func(o *options) {
		o.metrics = true
	}
}

// WithLogger replaces the global logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithTreeHook calls hook with the final search tree of every search.
func WithTreeHook(hook func(*SearchTree)) Option {
	return func(o *options) {
		if hook != nil {
			o.treeHook = hook
		}
	}
}

// MinMax searches the best move at the pending decision of an engine. A MinMax runs one search
// at a time.
type MinMax[T, C any] struct {
	params  Params
	rm      RateAndMap[T, C]
	logger  zerolog.Logger
	metrics MetricsCollector
	hook    func(*SearchTree)
	last    SearchMetrics

	// state of the running search
	stepper *Stepper[T, C]
	own     game.Player
}

// New creates a MinMax. The parameters are checked when a search starts.
func New[T, C any](params Params, rm RateAndMap[T, C], opts ...Option) *MinMax[T, C] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	retVal := &MinMax[T, C]{
		params:  params,
		rm:      rm,
		logger:  log.Logger,
		metrics: NewNoMetricsCollector(),
		hook:    o.treeHook,
	}
	if o.logger != nil {
		retVal.logger = *o.logger
	}
	if o.metrics {
		retVal.metrics = NewMetricsCollector()
	}
	return retVal
}

// Params returns the search parameters.
func (m *MinMax[T, C]) Params() Params { return m.params }

// LastMetrics returns the metrics of the last search. They are empty unless WithMetrics was given.
func (m *MinMax[T, C]) LastMetrics() SearchMetrics { return m.last }

// Run searches the best move for the player to move. It returns the rating of the move from the
// point of view of that player and the engine options that make the move.
//
// The engine is cloned and left untouched. Run panics if the parameters are inconsistent.
func (m *MinMax[T, C]) Run(e *game.Engine[T, C]) (Rating, []int, error) {
	if err := m.params.IntegrityCheck(); err != nil {
		panic(err)
	}
	switch {
	case e.IsFinished():
		return 0, nil, &InvalidEngineState{Reason: "the game has ended"}
	case e.HasPendingEffects():
		return 0, nil, &InvalidEngineState{Reason: "effects of a selected option are pending"}
	case e.InFollowUp():
		return 0, nil, &InvalidEngineState{Reason: "a follow up decision is pending"}
	}

	m.metrics.Start()
	m.begin(e.Clone(nil))
	defer m.end()

	tree := m.rootTree()
	for pass := 0; pass < m.params.Passes(); pass++ {
		delay, multiplier := m.params.FirstCutDelayDepth, 1
		if pass == 0 {
			delay += m.params.FirstMoveAddedDelayDepth
			multiplier = m.params.Sliding.LimitMultiplierFirstMove
		}
		m.extendSearchTree(tree, delay, multiplier)
		m.metrics.AddPass()
		m.logger.Debug().
			Int("pass", pass).
			Int("delay", delay).
			Int("depth", tree.Depth()).
			Int("nodes", tree.Len()).
			Msg("search pass")
	}

	m.metrics.SetTreeNodes(tree.Len())
	m.last = m.metrics.Complete()
	if m.hook != nil {
		m.hook(tree)
	}

	best, ok := tree.Best()
	if !ok {
		panic("Unreachable")
	}
	path := m.stepper.Resolve(best.Index)
	m.logger.Debug().
		Int32("player", int32(m.own)).
		Int("move", best.Index).
		Ints("options", path).
		Int32("rating", int32(best.Rating)).
		Msg("best move")
	return best.Rating, path, nil
}

// Apply runs a search and makes the best move on e.
func (m *MinMax[T, C]) Apply(e *game.Engine[T, C]) (Rating, error) {
	rating, path, err := m.Run(e)
	if err != nil {
		return rating, err
	}
	if err := e.Select(path...); err != nil {
		return rating, errors.Wrapf(err, "applying move %v", path)
	}
	return rating, nil
}

func (m *MinMax[T, C]) begin(e *game.Engine[T, C]) {
	m.stepper = NewStepper(e, m.rm.ApplyTypeMapping)
	m.own = e.Player()
}

func (m *MinMax[T, C]) end() { m.stepper = nil }

// rootTree creates the search tree with the moves at the search root, the most promising first.
func (m *MinMax[T, C]) rootTree() *SearchTree {
	w := m.params.window(m.params.moves(), m.params.Sliding.LimitMultiplierFirstMove)
	r := m.rate()
	moves := r.CutAndSortWithEquivalency(r.Threshold(w.diff()), w.limit(), w.classes())
	roots := make([]TreeEntry, 0, len(moves))
	for i := len(moves) - 1; i >= 0; i-- {
		idx := moves[i].Index
		rating := within(m.stepper, idx, m.static)
		roots = append(roots, TreeEntry{Rating: rating, Index: idx})
	}
	return NewSearchTree(roots)
}

// extendSearchTree grows the tree by two levels, exploring 2*delay plies below every leaf.
func (m *MinMax[T, C]) extendSearchTree(tree *SearchTree, delay, multiplier int) {
	level := tree.Depth()
	tree.NewLevels()
	tree.ForEachLeaf(m.stepper, func(leaf int, _ TreeEntry) {
		if m.stepper.IsFinished() {
			return
		}
		m.checkTurn(level + 1)
		for _, c := range m.collectRecursive(level, m.params.window(2*delay, multiplier)) {
			tree.PushChild(leaf, c.rating, c.index, c.grandchildren)
		}
	})
	tree.Extend()
	tree.UpdateRatings()
	tree.Prune(func(level int, _ TreeEntry, children []TreeEntry) []int {
		return m.keepBranches(level, multiplier, children)
	})
}

// checkTurn panics if the player to move does not make the moves of the given tree level.
func (m *MinMax[T, C]) checkTurn(level int) {
	own := m.stepper.Player() == m.own
	if own != (level%2 == 1) {
		panic(errors.Errorf("player %v to move at tree level %d after %v, searching for %v", m.stepper.Player(), level, m.stepper.Path(), m.own))
	}
}

// collectRecursive explores the moves after a leaf at the given tree level. It returns the moves
// with their ratings and the rated replies to them.
func (m *MinMax[T, C]) collectRecursive(level int, w window) []child {
	m.metrics.AddRecursiveCall()
	own := m.stepper.Player() == m.own
	r := m.rate()
	moves := r.CutAndSortWithEquivalency(r.Threshold(w.diff()), w.limit(), w.classes())
	retVal := make([]child, 0, len(moves))
	for _, mv := range moves {
		c := within(m.stepper, mv.Index, func() child {
			if m.stepper.IsFinished() {
				return child{rating: m.static(), index: mv.Index}
			}
			m.checkTurn(level + 2)
			best, replies := m.collectAndCut(w.next(), level+2)
			return child{rating: best, index: mv.Index, grandchildren: replies}
		})
		c.rating = m.classRating(mv, c.rating)
		retVal = append(retVal, c)
	}
	sort.Stable(byMover{l: retVal, own: own})
	limit, diff := m.params.branch(level+1, w.multiplier)
	return cutChildren(retVal, own, limit, diff)
}

// collectAndCut rates the moves at the current position. It returns the best rating for the
// player to move and the moves that survive the branch cut, the best one last. Only the
// representative of an equivalency class is searched.
func (m *MinMax[T, C]) collectAndCut(w window, level int) (Rating, []TreeEntry) {
	m.metrics.AddCollectCall()
	own := m.stepper.Player() == m.own
	r := m.rate()
	moves := r.CutAndSortWithEquivalency(r.Threshold(w.diff()), w.limit(), w.classes())
	replies := make([]child, 0, len(moves))
	for _, mv := range moves {
		rating := within(m.stepper, mv.Index, func() Rating { return m.minMaxRating(w.next()) })
		replies = append(replies, child{rating: m.classRating(mv, rating), index: mv.Index})
	}
	if len(replies) == 0 {
		return worst(own), nil
	}
	sort.Stable(byMover{l: replies, own: own})
	best := replies[len(replies)-1].rating
	if w.plies() >= 2*m.params.FirstCutDelayDepth-1 {
		limit, diff := m.params.branch(level, 1)
		replies = cutChildren(replies, own, limit, diff)
	}

	retVal := make([]TreeEntry, len(replies))
	for i, c := range replies {
		retVal[i] = TreeEntry{Rating: c.rating, Index: c.index}
	}
	return best, retVal
}

// classRating returns the lowest of the searched rating of a representative and the static
// ratings of the other members of its class.
func (m *MinMax[T, C]) classRating(mv RatedMove, rating Rating) Rating {
	for _, i := range mv.Equivalents {
		if i == mv.Index {
			continue
		}
		if r := within(m.stepper, i, m.static); r < rating {
			rating = r
		}
	}
	return rating
}

// minMaxRating returns the min-max rating of the current position, looking the plies of the
// window ahead.
func (m *MinMax[T, C]) minMaxRating(w window) Rating {
	m.metrics.AddMinMaxCall()
	if w.plies() == 0 || m.stepper.IsFinished() {
		return m.static()
	}
	own := m.stepper.Player() == m.own
	r := m.rate()
	best := worst(own)
	for _, mv := range r.CutAndSort(r.Threshold(w.diff()), w.limit()) {
		rating := within(m.stepper, mv.Index, func() Rating { return m.minMaxRating(w.next()) })
		if better(rating, best, own) {
			best = rating
		}
	}
	return best
}

// keepBranches keeps the children of a tree node that are close to the best one. The multiplier
// widens the cut of the root moves.
func (m *MinMax[T, C]) keepBranches(level, multiplier int, children []TreeEntry) []int {
	if level != 1 {
		multiplier = 1
	}
	limit, diff := m.params.branch(level, multiplier)
	own := level%2 == 1

	best := worst(own)
	for _, c := range children {
		if better(c.Rating, best, own) {
			best = c.Rating
		}
	}
	threshold := relative(best, own).sub(diff)
	var retVal []int
	for i, c := range children {
		if relative(c.Rating, own) >= threshold {
			retVal = append(retVal, i)
		}
	}
	if len(retVal) > limit {
		sort.SliceStable(retVal, func(i, j int) bool {
			return better(children[retVal[i]].Rating, children[retVal[j]].Rating, own)
		})
		retVal = retVal[:limit]
		sort.Ints(retVal)
	}
	return retVal
}

// cutChildren keeps the best limit children within diff of the best one. l is sorted with the
// best child for the player to move last.
func cutChildren(l []child, own bool, limit int, diff Rating) []child {
	if len(l) == 0 {
		return l
	}
	threshold := relative(l[len(l)-1].rating, own).sub(diff)
	start := len(l) - limit
	if start < 0 {
		start = 0
	}
	for start < len(l) && relative(l[start].rating, own) < threshold {
		start++
	}
	return l[start:]
}

func (m *MinMax[T, C]) rate() *Rater[C] {
	r := NewRater(m.stepper.engine, m.rm.ApplyTypeMapping)
	m.rm.RateMoves(r, m.stepper.Data(), m.stepper.Path(), m.stepper.Player())
	return r
}

func (m *MinMax[T, C]) static() Rating {
	return m.rm.RateGameState(m.stepper.Data(), m.stepper.Path(), m.own)
}
