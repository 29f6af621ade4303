package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/scene"
)

// View styles
var (
	viewHeaderStyle = lipgloss.NewStyle().Foreground(colorGray)
	viewHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	viewCanvasStyle = lipgloss.NewStyle().Foreground(colorWhite)
	viewFocusStyle  = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
)

// panStep is how far one arrow key moves the view, in screen pixels.
const panStep = 40

// =============================================================================
// Messages
// =============================================================================

// frameMsg carries a frame published by the scene loop.
type frameMsg render.Frame

// reloadMsg reports that the graph file was re-read.
type reloadMsg struct{ nodes, links int }

// errMsg reports a reload or watcher failure.
type errMsg struct{ err error }

// =============================================================================
// ViewModel - Live ASCII graph view
// =============================================================================

// ViewModel is the bubbletea model behind `forcegraph watch`. Key presses
// become scene events; frames arrive as messages.
type ViewModel struct {
	Path   string
	Frame  render.Frame
	Frames int
	Cols   int
	Rows   int
	Err    error

	reloads int
	events  chan<- scene.Event
}

// NewViewModel creates a view that sends interactions to events.
func NewViewModel(path string, events chan<- scene.Event) ViewModel {
	return ViewModel{Path: path, Cols: 80, Rows: 24, events: events}
}

func (m ViewModel) Init() tea.Cmd {
	return nil
}

func (m ViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "+", "=":
			m.send(scene.ZoomEvent(1.25))
		case "-", "_":
			m.send(scene.ZoomEvent(0.8))
		case "0":
			m.send(scene.ResetZoomEvent())
		case "left", "h":
			m.send(panEvent(panStep, 0))
		case "right", "l":
			m.send(panEvent(-panStep, 0))
		case "up", "k":
			m.send(panEvent(0, panStep))
		case "down", "j":
			m.send(panEvent(0, -panStep))
		case "tab":
			m.send(scene.FocusEvent(m.nextFocus()))
		case "backspace":
			m.send(scene.FocusEvent(""))
		}
	case tea.WindowSizeMsg:
		m.Cols = max(msg.Width, 10)
		m.Rows = max(msg.Height-3, 5)
	case frameMsg:
		m.Frame = render.Frame(msg)
		m.Frames++
	case reloadMsg:
		m.reloads++
		m.Err = nil
	case errMsg:
		m.Err = msg.err
	}
	return m, nil
}

func (m ViewModel) View() string {
	var b strings.Builder

	header := fmt.Sprintf("%s %s  %d nodes · %d links · zoom %.2f · reloads %d",
		StyleTitle.Render(appName), StyleValue.Render(m.Path),
		len(m.Frame.Nodes()), len(m.Frame.Links()), m.Frame.Scale, m.reloads)
	if m.Frame.Focused != "" {
		header += " · focus " + viewFocusStyle.Render(m.Frame.Focused)
	}
	b.WriteString(viewHeaderStyle.Render(header))
	b.WriteString("\n")

	b.WriteString(viewCanvasStyle.Render(render.RenderASCII(m.Frame, m.Cols, m.Rows)))
	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString(StyleError.Render(iconError + " " + m.Err.Error()))
	} else {
		b.WriteString(viewHelpStyle.Render("+/- zoom  arrows pan  0 reset  tab focus  q quit"))
	}
	return b.String()
}

// send hands ev to the scene loop, dropping it if the loop is busy.
func (m ViewModel) send(ev scene.Event) {
	if m.events == nil {
		return
	}
	select {
	case m.events <- ev:
	default:
	}
}

// nextFocus cycles through the nodes of the current frame.
func (m ViewModel) nextFocus() string {
	nodes := m.Frame.Nodes()
	if len(nodes) == 0 {
		return ""
	}
	for i, n := range nodes {
		if n.ID == m.Frame.Focused {
			return nodes[(i+1)%len(nodes)].ID
		}
	}
	return nodes[0].ID
}

// panEvent shifts the view by a screen-space offset.
func panEvent(dx, dy float64) scene.Event {
	return func(_ context.Context, s *scene.Scene) error {
		t := s.Transform()
		t.X += dx
		t.Y += dy
		s.SetTransform(t)
		return nil
	}
}

// reloadEvent updates the scene and reports the new size to the view.
func reloadEvent(g graph.Graph, notify func(tea.Msg)) scene.Event {
	return func(ctx context.Context, s *scene.Scene) error {
		if _, err := s.Update(ctx, g); err != nil {
			notify(errMsg{err})
			return err
		}
		notify(reloadMsg{nodes: s.Nodes().Len(), links: s.Links().Len()})
		return nil
	}
}
