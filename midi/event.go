package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Kind tells the dispatcher which sub-mapping an event belongs to
type Kind int

const (
	Unsupported      Kind = iota // anything that is neither CC nor note
	ContinuousChange             // control change: knob, fader, encoder
	DiscreteEvent                // note on/off: button, pad, key
)

func (k Kind) String() string {
	switch k {
	case ContinuousChange:
		return "continuous"
	case DiscreteEvent:
		return "discrete"
	default:
		return "unsupported"
	}
}

// Event is one normalized device message.
// For DiscreteEvent a Value of 0 is a release, anything else a press.
type Event struct {
	Kind    Kind
	Channel uint8
	ID      uint8 // controller or note number
	Value   uint8 // controller value or velocity, 0-127
	Raw     gomidi.Message
}

// Down reports whether a discrete event is a press
func (e Event) Down() bool {
	return e.Value != 0
}

// Classify turns a raw message into an Event. Note-off and note-on with
// velocity 0 both come out as a discrete event with Value 0.
func Classify(msg gomidi.Message) Event {
	var channel, id, value uint8

	switch {
	case msg.GetControlChange(&channel, &id, &value):
		return Event{Kind: ContinuousChange, Channel: channel, ID: id, Value: value, Raw: msg}
	case msg.GetNoteStart(&channel, &id, &value):
		return Event{Kind: DiscreteEvent, Channel: channel, ID: id, Value: value, Raw: msg}
	case msg.GetNoteEnd(&channel, &id):
		return Event{Kind: DiscreteEvent, Channel: channel, ID: id, Value: 0, Raw: msg}
	}
	return Event{Kind: Unsupported, Raw: msg}
}

// Describe renders an event for the debug monitor
func Describe(e Event) string {
	switch e.Kind {
	case ContinuousChange:
		return fmt.Sprintf("Controller %d: value: %d", e.ID, e.Value)
	case DiscreteEvent:
		return fmt.Sprintf("Note %d: value: %d", e.ID, e.Value)
	default:
		return fmt.Sprintf("Other: %s", e.Raw.String())
	}
}
