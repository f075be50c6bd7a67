package tui

import (
	"context"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/numfront/internal/api"
	"github.com/agbru/numfront/internal/widget"
)

type stubService struct {
	ep    api.Endpoint
	value string

	mu     sync.Mutex
	inputs []string
}

func (s *stubService) Endpoint() api.Endpoint { return s.ep }

func (s *stubService) Submit(_ context.Context, input string) (api.Reply, error) {
	s.mu.Lock()
	s.inputs = append(s.inputs, input)
	s.mu.Unlock()
	return api.Reply{Value: s.value}, nil
}

func newTestModel(t *testing.T) (Model, *stubService, *stubService) {
	t.Helper()
	rev := &stubService{ep: api.Reverser, value: "4321"}
	sum := &stubService{ep: api.Summation, value: "10"}
	panels := []Panel{
		{Service: rev, Spec: widget.Spec{Title: "Reverse Number", Placeholder: "1234"}},
		{Service: sum, Spec: widget.Spec{Title: "Sum of Digits", Placeholder: "1234"}},
	}
	m := NewModel(context.Background(), panels, "http://localhost:3000", "test")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 160, Height: 40})
	return updated.(Model), rev, sum
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func typeKeys(m Model, text string) Model {
	for _, r := range text {
		m, _ = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// responses executes cmd, flattening batches, and keeps the ResponseMsgs.
func responses(cmd tea.Cmd) []widget.ResponseMsg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []widget.ResponseMsg
		for _, c := range msg {
			out = append(out, responses(c)...)
		}
		return out
	case widget.ResponseMsg:
		return []widget.ResponseMsg{msg}
	}
	return nil
}

func TestModel_FocusStartsOnFirstWidget(t *testing.T) {
	m, _, _ := newTestModel(t)

	if m.Focus() != 0 {
		t.Fatalf("Focus() = %d, want 0", m.Focus())
	}
	first, _ := m.Widget(0)
	second, _ := m.Widget(1)
	if !first.Focused() || second.Focused() {
		t.Error("expected only the first widget to be focused")
	}
}

func TestModel_TabCyclesFocus(t *testing.T) {
	m, _, _ := newTestModel(t)

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Focus() != 1 {
		t.Fatalf("after tab Focus() = %d, want 1", m.Focus())
	}
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Focus() != 0 {
		t.Fatalf("tab should wrap, Focus() = %d", m.Focus())
	}
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.Focus() != 1 {
		t.Fatalf("shift+tab should wrap backwards, Focus() = %d", m.Focus())
	}
}

func TestModel_WidgetsAreIsolated(t *testing.T) {
	m, rev, sum := newTestModel(t)

	m = typeKeys(m, "1234")
	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	for _, resp := range responses(cmd) {
		m, _ = send(m, resp)
	}

	first, _ := m.Widget(0)
	second, _ := m.Widget(1)
	if got := first.State(); got.Input != "1234" || got.Result != "4321" {
		t.Errorf("reverser state = %+v", got)
	}
	if got := second.State(); got.Input != "" || got.Result != "" {
		t.Errorf("summation state changed: %+v", got)
	}
	if len(sum.inputs) != 0 {
		t.Errorf("summation received %v", sum.inputs)
	}
	if len(rev.inputs) != 1 || rev.inputs[0] != "1234" {
		t.Errorf("reverser received %v", rev.inputs)
	}
}

func TestModel_ResponsesRouteByWidget(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = typeKeys(m, "12")
	m, revCmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})
	m = typeKeys(m, "55")
	m, sumCmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})

	// Deliver in the opposite order of submission.
	for _, resp := range responses(sumCmd) {
		m, _ = send(m, resp)
	}
	for _, resp := range responses(revCmd) {
		m, _ = send(m, resp)
	}

	first, _ := m.Widget(0)
	second, _ := m.Widget(1)
	if first.State().Result != "4321" {
		t.Errorf("reverser result = %q", first.State().Result)
	}
	if second.State().Result != "10" {
		t.Errorf("summation result = %q", second.State().Result)
	}
}

func TestModel_UnmountDropsLateResponse(t *testing.T) {
	m, _, _ := newTestModel(t)

	m = typeKeys(m, "99")
	m, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	late := responses(cmd)

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlW})
	if _, mounted := m.Widget(0); mounted {
		t.Fatal("expected widget to be unmounted")
	}
	for _, resp := range late {
		m, _ = send(m, resp)
	}
	if !strings.Contains(m.View(), "closed") {
		t.Error("expected closed placeholder in view")
	}

	// Remount: fresh state, and the response from the first mount is stale.
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlW})
	w, mounted := m.Widget(0)
	if !mounted {
		t.Fatal("expected widget to be mounted again")
	}
	for _, resp := range late {
		m, _ = send(m, resp)
	}
	w, _ = m.Widget(0)
	if got := w.State(); got.Input != "" || got.Result != "" || got.Pending != 0 {
		t.Errorf("remounted state = %+v, want empty", got)
	}
	if w.Mount() != 2 {
		t.Errorf("Mount() = %d, want 2", w.Mount())
	}
	if !w.Focused() {
		t.Error("remounted widget should take focus")
	}
}

func TestModel_KeysIgnoredWhileClosed(t *testing.T) {
	m, rev, _ := newTestModel(t)

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlW})
	m = typeKeys(m, "12")
	_, cmd := send(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("closed widget should not issue commands")
	}
	if len(rev.inputs) != 0 {
		t.Errorf("closed widget submitted %v", rev.inputs)
	}
}

func TestModel_Quit(t *testing.T) {
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		t.Run(k.String(), func(t *testing.T) {
			m, _, _ := newTestModel(t)
			_, cmd := send(m, k)
			if cmd == nil {
				t.Fatal("expected a quit command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Error("expected tea.QuitMsg")
			}
			if m.ctx.Err() == nil {
				t.Error("quit should cancel the dashboard context")
			}
		})
	}
}

func TestModel_View(t *testing.T) {
	m, _, _ := newTestModel(t)
	view := m.View()

	for _, want := range []string{"numfront", "http://localhost:3000", "Reverse Number", "Sum of Digits", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_ViewBeforeSize(t *testing.T) {
	m := NewModel(context.Background(), nil, "http://localhost:3000", "dev")
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q", got)
	}
}
