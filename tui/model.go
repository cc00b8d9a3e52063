package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-midiauto/midi"
	"go-midiauto/theme"
)

const gaugeWidth = 32

// Source is the device the monitor reads from
type Source interface {
	Receive(ctx context.Context) (gomidi.Message, error)
}

// Monitor shows the most recent event from a device on a single line.
// It never dispatches anything.
type Monitor struct {
	ctx      context.Context
	src      Source
	device   string
	Theme    *theme.Theme
	last     midi.Event
	count    int
	err      error
	quitting bool
}

// EventMsg carries one classified message from the device
type EventMsg midi.Event

// ErrMsg ends the monitor. A cancelled context is a normal exit.
type ErrMsg struct{ Err error }

// NewMonitor returns a monitor that reads src until ctx is done
func NewMonitor(ctx context.Context, src Source, device string, th *theme.Theme) Monitor {
	return Monitor{
		ctx:    ctx,
		src:    src,
		device: device,
		Theme:  th,
	}
}

// ListenForEvents blocks on the next message and hands it to Update
func ListenForEvents(ctx context.Context, src Source) tea.Cmd {
	return func() tea.Msg {
		msg, err := src.Receive(ctx)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return EventMsg(midi.Classify(msg))
	}
}

// Err returns the device error that ended the monitor, if any
func (m Monitor) Err() error {
	return m.err
}

// Init starts listening for the first event
func (m Monitor) Init() tea.Cmd {
	return ListenForEvents(m.ctx, m.src)
}

func (m Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case EventMsg:
		m.last = midi.Event(msg)
		m.count++
		return m, ListenForEvents(m.ctx, m.src)

	case ErrMsg:
		if !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
		}
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Monitor) View() string {
	if m.quitting {
		return ""
	}

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	fgStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())

	var out strings.Builder
	out.WriteString(headerStyle.Render(fmt.Sprintf("midiauto  %s  events:%d", m.device, m.count)))
	out.WriteString("\n")

	if m.count == 0 {
		out.WriteString(dimStyle.Render("Waiting for MIDI events..."))
	} else {
		out.WriteString(fgStyle.Render(fmt.Sprintf("%-28s", midi.Describe(m.last))))
		out.WriteString(" ")
		out.WriteString(m.indicator())
	}

	out.WriteString("\n")
	out.WriteString(dimStyle.Render("q:quit"))
	return out.String()
}

// indicator is a gauge for controllers and a press/release mark for notes
func (m Monitor) indicator() string {
	norm := float64(m.last.Value) / 127
	style := lipgloss.NewStyle().Foreground(m.Theme.Color(norm))

	switch m.last.Kind {
	case midi.ContinuousChange:
		filled := int(m.last.Value) * gaugeWidth / 127
		bar := strings.Repeat(string(m.Theme.Symbols.GaugeFull), filled) +
			strings.Repeat(string(m.Theme.Symbols.GaugeEmpty), gaugeWidth-filled)
		return style.Render(bar)
	case midi.DiscreteEvent:
		if m.last.Down() {
			return style.Render(string(m.Theme.Symbols.Press))
		}
		return style.Render(string(m.Theme.Symbols.Release))
	}
	return ""
}
