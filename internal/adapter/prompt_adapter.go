package adapter

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Prompter asks the operator a yes/no question.
type Prompter interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// TeaPrompter renders a single-key confirmation with Bubble Tea.
type TeaPrompter struct {
	in  io.Reader
	out io.Writer
}

// NewTeaPrompter creates a prompter reading keys from in and drawing to out.
func NewTeaPrompter(in io.Reader, out io.Writer) *TeaPrompter {
	return &TeaPrompter{in: in, out: out}
}

// Confirm blocks until the operator answers. Anything but "y" is a no.
func (p *TeaPrompter) Confirm(ctx context.Context, question string) (bool, error) {
	program := tea.NewProgram(
		newConfirmModel(question),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
		tea.WithContext(ctx),
	)

	final, err := program.Run()
	if err != nil {
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}

	model, ok := final.(confirmModel)
	if !ok {
		return false, nil
	}

	return model.answer, nil
}

type confirmKeyMap struct {
	Yes key.Binding
	No  key.Binding
}

var confirmKeys = confirmKeyMap{
	Yes: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "continue")),
	No:  key.NewBinding(key.WithKeys("n", "N", "q", "enter", "esc", "ctrl+c"), key.WithHelp("n", "abort")),
}

// confirmModel is the Bubble Tea model behind Confirm.
type confirmModel struct {
	question string
	answer   bool
	done     bool
}

func newConfirmModel(question string) confirmModel {
	return confirmModel{question: question}
}

func (cm confirmModel) Init() tea.Cmd {
	return nil
}

func (cm confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return cm, nil
	}

	switch {
	case key.Matches(keyMsg, confirmKeys.Yes):
		cm.answer = true
		cm.done = true

		return cm, tea.Quit
	case key.Matches(keyMsg, confirmKeys.No):
		cm.answer = false
		cm.done = true

		return cm, tea.Quit
	}

	return cm, nil
}

func (cm confirmModel) View() string {
	if cm.done {
		answer := "no"
		if cm.answer {
			answer = "yes"
		}

		return fmt.Sprintf("%s %s\n", cm.question, answer)
	}

	return fmt.Sprintf("%s [%s/%s] ", cm.question, confirmKeys.Yes.Help().Key, "N")
}
