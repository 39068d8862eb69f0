package game

import (
	"github.com/pkg/errors"
)

var (
	ErrFinished       = errors.New("game has ended")
	ErrPendingEffects = errors.New("effects of a selected option are pending")
	ErrInFollowUp     = errors.New("a follow up decision is pending")
	ErrNotInFollowUp  = errors.New("no follow up decision to retract")
	ErrNothingPending = errors.New("no option has been selected")
	ErrNothingToUndo  = errors.New("event log is empty")
	ErrNothingToRedo  = errors.New("nothing to redo")
	ErrInvalidOption  = errors.New("invalid option")
)

// frame is one decision on the decision stack. option is -1 until an option is selected.
type frame[T, C any] struct {
	decision Decision[T, C]
	option   int
	applied  []Effect[T] // effects applied when option was selected (follow ups only)
}

// event is one complete decision in the event log.
type event[T, C any] struct {
	root    Decision[T, C]
	path    []int
	effects []Effect[T] // in order of application
}

// Engine is a reversible state machine over the game data. Every complete decision is recorded
// in an event log so that it can be undone and redone.
type Engine[T, C any] struct {
	rules Rules[T, C]
	data  *T

	stack    []frame[T, C]
	pending  []Effect[T]
	selected bool

	log  []event[T, C]
	redo []event[T, C]

	listener Listener
}

// New creates a new engine. The listener may be nil.
func New[T, C any](rules Rules[T, C], data *T, listener Listener) *Engine[T, C] {
	e := &Engine[T, C]{
		rules:    rules,
		data:     data,
		listener: listener,
	}
	e.advance()
	return e
}

// Data returns the game data. It must only be modified through decisions.
func (e *Engine[T, C]) Data() *T { return e.data }

// Decision returns the innermost pending decision, or nil if the game has ended.
func (e *Engine[T, C]) Decision() Decision[T, C] {
	if len(e.stack) == 0 {
		return nil
	}
	return e.stack[len(e.stack)-1].decision
}

// Player returns the player that has to make the pending decision.
func (e *Engine[T, C]) Player() Player {
	d := e.Decision()
	if d == nil {
		return NoPlayer
	}
	return d.Player()
}

// IsFinished returns true when no further decisions are pending.
func (e *Engine[T, C]) IsFinished() bool { return len(e.stack) == 0 }

// HasPendingEffects returns true when an option has been selected but not yet pulled.
func (e *Engine[T, C]) HasPendingEffects() bool { return e.selected }

// InFollowUp returns true when a follow up decision is pending.
func (e *Engine[T, C]) InFollowUp() bool { return len(e.stack) > 1 }

func (e *Engine[T, C]) CanUndo() bool { return len(e.log) > 0 }

func (e *Engine[T, C]) CanRedo() bool { return len(e.redo) > 0 }

// Path returns the options selected so far for the decision in progress.
func (e *Engine[T, C]) Path() []int {
	retVal := make([]int, 0, len(e.stack))
	for _, f := range e.stack {
		if f.option >= 0 {
			retVal = append(retVal, f.option)
		}
	}
	return retVal
}

// SelectOption selects an option of the innermost pending decision.
//
// If the option opens a follow up decision, its effects are applied right away. Otherwise the
// effects are pending until Pull is called.
func (e *Engine[T, C]) SelectOption(option int) error {
	if e.IsFinished() {
		return ErrFinished
	}
	if e.selected {
		return ErrPendingEffects
	}
	top := &e.stack[len(e.stack)-1]
	if n := top.decision.OptionCount(e.data); option < 0 || option >= n {
		return errors.Wrapf(ErrInvalidOption, "option %d of %d", option, n)
	}

	out := top.decision.SelectOption(e.data, option)
	top.option = option
	if out.FollowUp == nil {
		e.pending = out.Effects
		e.selected = true
		return nil
	}
	for _, eff := range out.Effects {
		eff.Apply(e.data)
	}
	top.applied = out.Effects
	e.stack = append(e.stack, frame[T, C]{decision: out.FollowUp, option: -1})
	return nil
}

// Pull applies the pending effects and moves on to the next decision.
func (e *Engine[T, C]) Pull() error {
	if !e.selected {
		return ErrNothingPending
	}
	ev := event[T, C]{
		root: e.stack[0].decision,
		path: e.Path(),
	}
	for _, f := range e.stack {
		ev.effects = append(ev.effects, f.applied...)
	}
	for _, eff := range e.pending {
		eff.Apply(e.data)
	}
	ev.effects = append(ev.effects, e.pending...)

	e.log = append(e.log, ev)
	e.redo = e.redo[:0]
	e.stack = e.stack[:0]
	e.pending = nil
	e.selected = false
	if e.listener != nil {
		e.listener.Logged(ev.path)
	}
	e.advance()
	return nil
}

// Select selects the given options in order and pulls the result.
func (e *Engine[T, C]) Select(path ...int) error {
	if len(path) == 0 {
		return errors.Wrap(ErrInvalidOption, "empty path")
	}
	for i, option := range path {
		if err := e.SelectOption(option); err != nil {
			return errors.WithMessagef(err, "selecting step %d of %v", i, path)
		}
	}
	return e.Pull()
}

// RetractFollowUp drops the innermost follow up decision and returns to its parent, as if the
// parent's option was never selected.
func (e *Engine[T, C]) RetractFollowUp() error {
	if !e.InFollowUp() {
		return ErrNotInFollowUp
	}
	e.pending = nil
	e.selected = false
	e.stack = e.stack[:len(e.stack)-1]

	parent := &e.stack[len(e.stack)-1]
	for i := len(parent.applied) - 1; i >= 0; i-- {
		parent.applied[i].Undo(e.data)
	}
	parent.applied = nil
	parent.option = -1
	return nil
}

// UndoLastDecision reverts the last complete decision.
func (e *Engine[T, C]) UndoLastDecision() error {
	if err := e.checkClean(); err != nil {
		return err
	}
	if len(e.log) == 0 {
		return ErrNothingToUndo
	}
	ev := e.log[len(e.log)-1]
	e.log = e.log[:len(e.log)-1]
	for i := len(ev.effects) - 1; i >= 0; i-- {
		ev.effects[i].Undo(e.data)
	}
	e.stack = append(e.stack[:0], frame[T, C]{decision: ev.root, option: -1})
	e.redo = append(e.redo, ev)
	if e.listener != nil {
		e.listener.Undone(ev.path)
	}
	return nil
}

// RedoDecision replays the most recently undone decision.
func (e *Engine[T, C]) RedoDecision() error {
	if err := e.checkClean(); err != nil {
		return err
	}
	if len(e.redo) == 0 {
		return ErrNothingToRedo
	}
	ev := e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	for _, eff := range ev.effects {
		eff.Apply(e.data)
	}
	e.log = append(e.log, ev)
	e.stack = e.stack[:0]
	if e.listener != nil {
		e.listener.Logged(ev.path)
	}
	e.advance()
	return nil
}

// Clone clones the engine. The clone has an empty event log and reports to the given listener.
func (e *Engine[T, C]) Clone(listener Listener) *Engine[T, C] {
	retVal := &Engine[T, C]{
		rules:    e.rules,
		data:     e.rules.CloneData(e.data),
		stack:    make([]frame[T, C], len(e.stack)),
		selected: e.selected,
		listener: listener,
	}
	for i, f := range e.stack {
		retVal.stack[i] = frame[T, C]{
			decision: f.decision,
			option:   f.option,
			applied:  append([]Effect[T](nil), f.applied...),
		}
	}
	retVal.pending = append([]Effect[T](nil), e.pending...)
	return retVal
}

func (e *Engine[T, C]) checkClean() error {
	switch {
	case e.selected:
		return ErrPendingEffects
	case e.InFollowUp():
		return ErrInFollowUp
	}
	return nil
}

func (e *Engine[T, C]) advance() {
	if d := e.rules.NextDecision(e.data); d != nil {
		e.stack = append(e.stack, frame[T, C]{decision: d, option: -1})
	}
}
