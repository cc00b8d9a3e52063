package action

import (
	"strconv"

	"go-midiauto/config"
	"go-midiauto/debug"
)

// Value is the optional number substituted into a command
type Value struct {
	n   int
	set bool
}

// Verbatim leaves the command untouched
var Verbatim = Value{}

// Scaled carries a controller value already scaled to 0-100
func Scaled(n int) Value {
	return Value{n: n, set: true}
}

// Int returns the number and whether there is one
func (v Value) Int() (int, bool) {
	return v.n, v.set
}

func (v Value) String() string {
	if !v.set {
		return "verbatim"
	}
	return strconv.Itoa(v.n)
}

// Strategy performs one type of action
type Strategy interface {
	Run(act config.Action, v Value) error
}

// StrategyFunc adapts a function to Strategy
type StrategyFunc func(act config.Action, v Value) error

func (f StrategyFunc) Run(act config.Action, v Value) error {
	return f(act, v)
}

// Executor picks the strategy for an action's type and runs it.
// Errors never reach the caller; they go to the debug log and the
// optional error handler.
type Executor struct {
	strategies map[string]Strategy
	onError    func(act config.Action, err error)
}

// Option configures an Executor.
type Option func(*Executor)

// WithErrorHandler sets a callback for actions that failed to start.
func WithErrorHandler(fn func(act config.Action, err error)) Option {
	return func(e *Executor) {
		e.onError = fn
	}
}

// WithStrategy registers s for actions of type typ, replacing any
// strategy already registered for it.
func WithStrategy(typ string, s Strategy) Option {
	return func(e *Executor) {
		e.strategies[typ] = s
	}
}

// NewExecutor creates an executor with the shell strategy bound to l
func NewExecutor(l Launcher, opts ...Option) *Executor {
	e := &Executor{
		strategies: map[string]Strategy{
			config.ActionShell: &Shell{Launcher: l},
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs act. Unknown action types do nothing.
func (e *Executor) Execute(act config.Action, v Value) {
	s, ok := e.strategies[act.Type]
	if !ok {
		debug.Log("exec", "no strategy for action type %q", act.Type)
		return
	}
	if err := s.Run(act, v); err != nil {
		debug.Log("exec", "%q: %v", act.Cmd, err)
		if e.onError != nil {
			e.onError(act, err)
		}
	}
}
