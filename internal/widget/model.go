package widget

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/numfront/internal/api"
	"github.com/agbru/numfront/internal/format"
	"github.com/agbru/numfront/internal/logging"
)

// Spec is the static text of a widget.
type Spec struct {
	Title       string
	Subtitle    string
	Label       string
	Placeholder string
}

// ResponseMsg delivers the outcome of one submission back to its widget.
type ResponseMsg struct {
	// Widget is the endpoint name of the submitting widget.
	Widget string
	// Mount is the mount generation the request was issued under.
	Mount uint64
	// Seq numbers submissions within one mount, starting at 1.
	Seq uint64
	// Reply is the successful answer; zero when Err is set.
	Reply api.Reply
	// Err is the request failure, if any.
	Err error
}

// MinWidth is the narrowest panel a widget renders.
const MinWidth = 28

// Model is one number form bound to an endpoint.
type Model struct {
	name    string
	spec    Spec
	service api.Service
	logger  logging.Logger
	keys    KeyMap
	styles  Styles
	spinner spinner.Model

	state   State
	input   textinput.Model
	focused bool
	width   int

	mount  uint64
	ctx    context.Context
	cancel context.CancelFunc
	seq    uint64
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger submissions and responses are traced to.
func WithLogger(l logging.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithStyles overrides the theme-derived styles.
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

// New mounts a widget for svc. Its requests are bound to a context derived
// from parent that is cancelled by Unmount.
func New(parent context.Context, svc api.Service, spec Spec, mount uint64, opts ...Option) Model {
	ctx, cancel := context.WithCancel(parent)
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = spec.Placeholder
	// Clipboard reads bypass the key filter; terminal paste still arrives as runes.
	ti.KeyMap.Paste.SetEnabled(false)
	ti.Cursor.SetMode(cursor.CursorStatic)
	m := Model{
		name:    svc.Endpoint().Name,
		spec:    spec,
		service: svc,
		logger:  logging.NewLogger(io.Discard, "widget"),
		keys:    DefaultKeyMap(),
		styles:  NewStyles(),
		spinner: sp,
		input:   ti,
		width:   MinWidth,
		mount:   mount,
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.spinner.Style = m.styles.Pending
	m.input.PlaceholderStyle = m.styles.Subtitle
	return m
}

// Name returns the endpoint name the widget submits to.
func (m Model) Name() string { return m.name }

// Mount returns the mount generation.
func (m Model) Mount() uint64 { return m.mount }

// State returns a copy of the view state.
func (m Model) State() State { return m.state }

// Live reports whether the widget is still mounted.
func (m Model) Live() bool { return m.ctx.Err() == nil }

// Focused reports whether key input goes to this widget.
func (m Model) Focused() bool { return m.focused }

// Focus directs key input to the widget.
func (m Model) Focus() Model {
	m.focused = true
	m.input.Focus()
	return m
}

// Blur stops directing key input to the widget.
func (m Model) Blur() Model {
	m.focused = false
	m.input.Blur()
	return m
}

// SetWidth sets the rendered panel width.
func (m Model) SetWidth(w int) Model {
	m.width = max(w, MinWidth)
	return m
}

// Unmount cancels outstanding requests. Responses that still arrive are
// ignored by Apply.
func (m Model) Unmount() Model {
	m.cancel()
	m.focused = false
	m.input.Blur()
	m.logger.Debug("widget unmounted",
		logging.String("widget", m.name),
		logging.Uint64("mount", m.mount),
		logging.Int("pending", m.state.Pending))
	return m
}

// Update handles key edits when focused, response messages and spinner ticks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ResponseMsg:
		return m.Apply(msg), nil

	case spinner.TickMsg:
		if m.state.Pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if !m.focused || !m.Live() {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.Submit()
	case key.Matches(msg, m.keys.Clear):
		m.input.SetValue("")
		return m.sync(), nil
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		runes := admitted(msg.Runes)
		if len(runes) == 0 {
			return m, nil
		}
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: runes, Paste: msg.Paste}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m.sync(), cmd
}

// sync mirrors the field text into Input.
func (m Model) sync() Model {
	m.state.Input = m.input.Value()
	return m
}

func admitted(runes []rune) []rune {
	kept := make([]rune, 0, len(runes))
	for _, r := range runes {
		if IsNumericRune(r) {
			kept = append(kept, r)
		}
	}
	return kept
}

// SetInput replaces the field text, as a paste over the whole field would.
// Characters the numeric field does not admit are dropped.
func (m Model) SetInput(text string) Model {
	m.input.SetValue(string(admitted([]rune(text))))
	m.input.CursorEnd()
	return m.sync()
}

// Submit issues a request carrying the current Input. Nothing blocks a second
// submission while one is outstanding.
func (m Model) Submit() (Model, tea.Cmd) {
	if !m.Live() {
		return m, nil
	}
	m.seq++
	m.state.Pending++
	m.logger.Debug("submit",
		logging.String("widget", m.name),
		logging.Uint64("seq", m.seq),
		logging.String("input", m.state.Input))

	cmd := submitCmd(m.ctx, m.service, m.name, m.mount, m.seq, m.state.Input)
	if m.state.Pending == 1 {
		return m, tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

func submitCmd(ctx context.Context, svc api.Service, name string, mount, seq uint64, input string) tea.Cmd {
	return func() tea.Msg {
		reply, err := svc.Submit(ctx, input)
		return ResponseMsg{Widget: name, Mount: mount, Seq: seq, Reply: reply, Err: err}
	}
}

// Apply folds a response into the state. Responses for another widget, an
// earlier mount, or an unmounted widget leave the model unchanged.
func (m Model) Apply(msg ResponseMsg) Model {
	if msg.Widget != m.name || msg.Mount != m.mount || !m.Live() {
		return m
	}
	if m.state.Pending > 0 {
		m.state.Pending--
	}
	m.state.Latency = msg.Reply.Latency
	if msg.Err != nil {
		m.state.Err = msg.Err
		m.logger.Error("response failed", msg.Err,
			logging.String("widget", m.name),
			logging.Uint64("seq", msg.Seq))
		return m
	}
	m.state.Result = msg.Reply.Value
	m.state.Err = nil
	m.logger.Debug("response applied",
		logging.String("widget", m.name),
		logging.Uint64("seq", msg.Seq),
		logging.String("result", msg.Reply.Value))
	return m
}

// View renders the form and result panel.
func (m Model) View() string {
	s := m.styles
	inner := m.width - 6 // panel border and padding
	var b strings.Builder

	b.WriteString(s.Title.Render(m.spec.Title))
	b.WriteString("\n")
	b.WriteString(s.Subtitle.Render(m.spec.Subtitle))
	b.WriteString("\n\n")

	b.WriteString(s.Label.Render(m.spec.Label))
	b.WriteString("\n")
	inputStyle := s.Input
	if m.focused {
		inputStyle = s.InputFocused
	}
	b.WriteString(inputStyle.Width(inner - 2).Render(m.input.View()))
	b.WriteString("\n")

	status := ""
	if m.state.Pending > 0 {
		status = " " + m.spinner.View() + s.Pending.Render(fmt.Sprintf(" sending (%d)", m.state.Pending))
	}
	b.WriteString(s.Button.Render("submit") + status)
	b.WriteString("\n\n")

	if m.state.Result != "" {
		line := s.Result.Render(m.state.Result)
		if m.state.Latency > 0 && m.state.Err == nil {
			line += s.Subtitle.Render("  " + format.FormatExecutionDuration(m.state.Latency))
		}
		b.WriteString(line)
	}
	if m.state.Err != nil {
		b.WriteString("\n")
		b.WriteString(s.Error.Width(inner).Render("✗ " + m.state.Err.Error()))
	}

	panel := s.Panel
	if m.focused {
		panel = s.PanelFocused
	}
	return panel.Width(m.width - 2).Render(b.String())
}

// Height returns the rendered height, for layout.
func (m Model) Height() int { return lipgloss.Height(m.View()) }
