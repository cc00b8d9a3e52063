// Package dispatch maps classified MIDI events to configured actions.
//
// The engine keeps no state between events: every decision depends on the
// current event and the profile and action table it was built with, both
// of which are read-only.
package dispatch

import (
	"context"
	"math"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-midiauto/action"
	"go-midiauto/config"
	"go-midiauto/debug"
	"go-midiauto/midi"
)

// Source delivers raw messages one at a time
type Source interface {
	Receive(ctx context.Context) (gomidi.Message, error)
}

// Executor performs an action. It must not block on the action's
// completion.
type Executor interface {
	Execute(act config.Action, v action.Value)
}

// Engine dispatches events for a single profile
type Engine struct {
	profile  config.Profile
	actions  map[string]config.Action
	executor Executor
}

// New creates an engine. profile and actions are not copied and must not
// be modified afterwards.
func New(profile config.Profile, actions map[string]config.Action, executor Executor) *Engine {
	return &Engine{
		profile:  profile,
		actions:  actions,
		executor: executor,
	}
}

// ScaleValue maps a 0-127 controller value to 0-100, rounding half away
// from zero.
func ScaleValue(v uint8) int {
	return int(math.Round(float64(v) * 100 / 127))
}

// Dispatch handles one event and reports whether an action was executed.
// Anything that does not resolve is a no-op.
func (e *Engine) Dispatch(ev midi.Event) bool {
	switch ev.Kind {
	case midi.ContinuousChange:
		a, ok := e.profile.Encoders[ev.ID]
		if !ok {
			return false
		}
		return e.run(a.Action, action.Scaled(ScaleValue(ev.Value)))

	case midi.DiscreteEvent:
		a, ok := e.profile.Buttons[ev.ID]
		if !ok {
			return false
		}
		name := a.UpAction
		if ev.Down() {
			name = a.DownAction
		}
		return e.run(name, action.Verbatim)
	}
	return false
}

func (e *Engine) run(name string, v action.Value) bool {
	if name == "" {
		return false
	}
	act, ok := e.actions[name]
	if !ok {
		debug.Log("dispatch", "unknown action %q", name)
		return false
	}
	debug.Log("dispatch", "%s (%s)", name, v)
	e.executor.Execute(act, v)
	return true
}

// Run receives, classifies and dispatches until src fails or ctx is
// done. Events are handled one at a time, in delivery order.
func (e *Engine) Run(ctx context.Context, src Source) error {
	for {
		msg, err := src.Receive(ctx)
		if err != nil {
			return err
		}
		ev := midi.Classify(msg)
		if ev.Kind == midi.Unsupported {
			continue
		}
		e.Dispatch(ev)
	}
}
