package widget

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/numfront/internal/api"
)

// fakeService answers submissions through a replaceable function and records
// every input it was given.
type fakeService struct {
	ep api.Endpoint

	mu     sync.Mutex
	inputs []string
	answer func(ctx context.Context, input string) (api.Reply, error)
}

func newFakeService(ep api.Endpoint, answer func(ctx context.Context, input string) (api.Reply, error)) *fakeService {
	return &fakeService{ep: ep, answer: answer}
}

func (f *fakeService) Endpoint() api.Endpoint { return f.ep }

func (f *fakeService) Submit(ctx context.Context, input string) (api.Reply, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, input)
	answer := f.answer
	f.mu.Unlock()
	return answer(ctx, input)
}

func (f *fakeService) Inputs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.inputs...)
}

// echo replies with fixed text.
func echo(value string) func(context.Context, string) (api.Reply, error) {
	return func(context.Context, string) (api.Reply, error) {
		return api.Reply{Value: value}, nil
	}
}

// reverseDigits replies with the input reversed, like the reference backend.
func reverseDigits(_ context.Context, input string) (api.Reply, error) {
	r := []rune(input)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return api.Reply{Value: string(r)}, nil
}

// runCmd executes cmd, flattening batches, and returns the produced messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// responseOf runs cmd and returns the ResponseMsg it produced.
func responseOf(t *testing.T, cmd tea.Cmd) ResponseMsg {
	t.Helper()
	for _, msg := range runCmd(cmd) {
		if resp, ok := msg.(ResponseMsg); ok {
			return resp
		}
	}
	t.Fatal("command produced no ResponseMsg")
	return ResponseMsg{}
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func newReverser(svc api.Service) Model {
	return New(context.Background(), svc, Spec{Title: "Reverse Number", Label: "Number", Placeholder: "1234"}, 1).SetWidth(120).Focus()
}
