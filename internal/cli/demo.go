package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mvilhena/depsense/pkg/complete"
	"github.com/mvilhena/depsense/pkg/editor"
	"github.com/mvilhena/depsense/pkg/engine"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// demoCommand creates the "demo" command: an interactive playground that
// recomputes the suggestion list on every keystroke, the way an editor
// host drives the engine.
func (c *CLI) demoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Interactive completion playground",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, cleanup, err := c.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			eng.Start(cmd.Context())
			defer eng.Stop()

			model := newDemoModel(cmd.Context(), eng)
			_, err = tea.NewProgram(model).Run()
			return err
		},
	}
}

// maxVisible caps the rendered suggestion list.
const maxVisible = 8

// demoModel is the bubbletea model for the completion playground: a small
// buffer of committed lines plus the line being typed.
type demoModel struct {
	ctx    context.Context
	engine *engine.Engine

	lines       []string
	input       string
	suggestions []complete.Suggestion
	cursor      int
}

func newDemoModel(ctx context.Context, eng *engine.Engine) demoModel {
	return demoModel{ctx: ctx, engine: eng}
}

func (m demoModel) Init() tea.Cmd {
	return nil
}

func (m demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down":
		if m.cursor < len(m.suggestions)-1 {
			m.cursor++
		}
		return m, nil
	case "tab":
		if m.cursor < len(m.suggestions) {
			m.input = acceptSuggestion(m.input, m.suggestions[m.cursor].InsertText)
			m = m.refresh()
		}
		return m, nil
	case "enter":
		m.lines = append(m.lines, m.input)
		m.input = ""
		m.suggestions = nil
		m.cursor = 0
		return m, nil
	case "backspace":
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
		return m.refresh(), nil
	}

	if key.Type == tea.KeyRunes {
		m.input += string(key.Runes)
		return m.refresh(), nil
	}
	if key.Type == tea.KeySpace {
		m.input += " "
		return m.refresh(), nil
	}
	return m, nil
}

// refresh recomputes the suggestion list for the current cursor position.
func (m demoModel) refresh() demoModel {
	buffer := append(append([]string{}, m.lines...), m.input)
	buf := editor.NewMemBuffer(buffer...)
	pos := editor.Position{Row: len(buffer) - 1, Column: len([]rune(m.input))}
	m.suggestions = m.engine.Complete(m.ctx, buf, pos)
	if m.cursor >= len(m.suggestions) {
		m.cursor = 0
	}
	return m
}

func (m demoModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Depsense Playground"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("type to complete  ↑/↓ select  ⇥ accept  ⏎ new line  esc quit"))
	b.WriteString("\n\n")

	for _, line := range m.lines {
		b.WriteString(StyleDim.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(StyleValue.Render(m.input))
	b.WriteString(StyleHighlight.Render("▌"))
	b.WriteString("\n\n")

	if len(m.suggestions) == 0 {
		b.WriteString(listDimStyle.Render("no suggestions"))
		b.WriteString("\n")
		return b.String()
	}

	visible := m.suggestions
	if len(visible) > maxVisible {
		visible = visible[:maxVisible]
	}
	for i, s := range visible {
		label := fmt.Sprintf("%-20s %s", s.DisplayText, listDimStyle.Render(s.CategoryLabel))
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + label))
		} else {
			b.WriteString(listNormalStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}
	if len(m.suggestions) > maxVisible {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  … %d more", len(m.suggestions)-maxVisible)))
		b.WriteString("\n")
	}
	return b.String()
}

// acceptSuggestion replaces the identifier fragment being typed with the
// accepted insert text.
func acceptSuggestion(input, insert string) string {
	runes := []rune(input)
	i := len(runes)
	for i > 0 {
		r := runes[i-1]
		if r == '_' || r == '$' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			i--
			continue
		}
		break
	}
	return string(runes[:i]) + insert
}
