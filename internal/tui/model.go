package tui

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/numfront/internal/api"
	apperrors "github.com/agbru/numfront/internal/errors"
	"github.com/agbru/numfront/internal/logging"
	"github.com/agbru/numfront/internal/widget"
)

// Panel describes one widget slot on the dashboard.
type Panel struct {
	Service api.Service
	Spec    widget.Spec
}

// DefaultPanels returns the reverser and summation panels bound to client.
func DefaultPanels(client *api.Client) []Panel {
	return []Panel{
		{
			Service: client.Reverser(),
			Spec: widget.Spec{
				Title:       "Reverse Number",
				Subtitle:    "digits read right to left",
				Label:       "Number",
				Placeholder: "1234",
			},
		},
		{
			Service: client.Summation(),
			Spec: widget.Spec{
				Title:       "Sum of Digits",
				Subtitle:    "each digit is one addend",
				Label:       "Number",
				Placeholder: "1234",
			},
		},
	}
}

// slot holds a panel and its current mount. generation increments on every
// mount so responses issued under an earlier mount can be recognized.
type slot struct {
	panel      Panel
	widget     widget.Model
	mounted    bool
	generation uint64
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// widgetWidth returns the width of one widget column.
func (l LayoutManager) widgetWidth(n int) int {
	if n == 0 {
		return l.width
	}
	return l.width / n
}

// Model is the root bubbletea model: widgets side by side, no shared state.
type Model struct {
	header HeaderModel
	footer FooterModel
	slots  []slot
	focus  int
	keymap KeyMap

	LayoutManager

	ctx    context.Context
	cancel context.CancelFunc
	logger logging.Logger
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger for the dashboard and its widgets.
func WithLogger(l logging.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// NewModel mounts every panel and focuses the first one.
func NewModel(parentCtx context.Context, panels []Panel, origin, version string, opts ...Option) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	keymap := DefaultKeyMap()
	m := Model{
		header: NewHeaderModel(version, origin),
		footer: NewFooterModel(keymap),
		keymap: keymap,
		ctx:    ctx,
		cancel: cancel,
		logger: logging.NewLogger(io.Discard, "tui"),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.slots = make([]slot, len(panels))
	for i, p := range panels {
		m.slots[i] = slot{panel: p}
		m.mount(i)
	}
	m.setFocus(0)
	return m
}

// mount creates a fresh widget in slot i with empty input and result.
func (m *Model) mount(i int) {
	s := &m.slots[i]
	s.generation++
	s.widget = widget.New(m.ctx, s.panel.Service, s.panel.Spec, s.generation,
		widget.WithLogger(m.logger)).
		SetWidth(m.widgetWidth(len(m.slots)))
	s.mounted = true
	if i == m.focus {
		s.widget = s.widget.Focus()
	}
	m.logger.Debug("widget mounted",
		logging.String("widget", s.widget.Name()),
		logging.Uint64("mount", s.generation))
}

// unmount cancels slot i's widget; its late responses become no-ops.
func (m *Model) unmount(i int) {
	s := &m.slots[i]
	s.widget = s.widget.Unmount()
	s.mounted = false
}

func (m *Model) setFocus(i int) {
	if len(m.slots) == 0 {
		return
	}
	for j := range m.slots {
		if m.slots[j].mounted {
			m.slots[j].widget = m.slots[j].widget.Blur()
		}
	}
	m.focus = (i%len(m.slots) + len(m.slots)) % len(m.slots)
	if s := &m.slots[m.focus]; s.mounted {
		s.widget = s.widget.Focus()
	}
}

// Widget returns the widget in slot i and whether it is mounted.
func (m Model) Widget(i int) (widget.Model, bool) {
	return m.slots[i].widget, m.slots[i].mounted
}

// Focus returns the index of the focused slot.
func (m Model) Focus() int { return m.focus }

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("numfront")
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case widget.ResponseMsg:
		return m.routeResponse(msg), nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		for i := range m.slots {
			if !m.slots[i].mounted {
				continue
			}
			var cmd tea.Cmd
			m.slots[i].widget, cmd = m.slots[i].widget.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// routeResponse delivers msg to the widget that issued it, if that mount is
// still alive.
func (m Model) routeResponse(msg widget.ResponseMsg) Model {
	for i := range m.slots {
		s := &m.slots[i]
		if s.panel.Service.Endpoint().Name != msg.Widget {
			continue
		}
		if !s.mounted || s.generation != msg.Mount {
			m.logger.Debug("dropped response for closed widget",
				logging.String("widget", msg.Widget),
				logging.Uint64("mount", msg.Mount),
				logging.Uint64("seq", msg.Seq))
			return m
		}
		s.widget = s.widget.Apply(msg)
		return m
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Next):
		m.setFocus(m.focus + 1)
		return m, nil

	case key.Matches(msg, m.keymap.Prev):
		m.setFocus(m.focus - 1)
		return m, nil

	case key.Matches(msg, m.keymap.Mount):
		if m.slots[m.focus].mounted {
			m.unmount(m.focus)
		} else {
			m.mount(m.focus)
		}
		return m, nil
	}

	s := &m.slots[m.focus]
	if !s.mounted {
		return m, nil
	}
	var cmd tea.Cmd
	s.widget, cmd = s.widget.Update(msg)
	return m, cmd
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	cols := make([]string, len(m.slots))
	w := m.widgetWidth(len(m.slots))
	for i, s := range m.slots {
		if s.mounted {
			cols[i] = s.widget.View()
			continue
		}
		cols[i] = closedStyle.Width(w - 2).Render(
			s.panel.Spec.Title + "\n\n" + closedHint.Render("closed, press ctrl+w to open"))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	w := m.widgetWidth(len(m.slots))
	for i := range m.slots {
		m.slots[i].widget = m.slots[i].widget.SetWidth(w)
	}
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, client *api.Client, version string, logger logging.Logger) int {
	initTUIStyles()

	model := NewModel(ctx, DefaultPanels(client), client.Origin(), version, WithLogger(logger))
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if apperrors.IsContextError(err) {
			return apperrors.ExitErrorCanceled
		}
		logger.Error("tui exited", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
