// Package wizard collects an interactive-answer map from a terminal
// session. It writes nothing itself: the answers feed the same loader and
// validation path as a configuration document, so both entry points share
// one error surface.
package wizard

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atelier-dev/atelier/internal/catalog"
	"github.com/atelier-dev/atelier/internal/config"
)

// Question is one prompt in the fixed sequence.
type Question struct {
	Key     string
	Prompt  string
	Choices []string // shown as a hint; empty for free-form input
	Default string
}

// Questions returns the prompt sequence in presentation order. Feature
// flags are not prompted for: they default to "auto" and can be pinned in
// a configuration document.
func Questions() []Question {
	return []Question{
		{Key: config.AnswerName, Prompt: "Project name"},
		{Key: config.AnswerLanguage, Prompt: "Language", Choices: catalog.Languages()},
		{Key: config.AnswerFramework, Prompt: "Framework", Choices: catalog.Frameworks(), Default: "none"},
		{Key: config.AnswerDatabase, Prompt: "Database", Choices: catalog.Databases(), Default: "none"},
		{Key: config.AnswerMigration, Prompt: "Migration tool", Choices: catalog.Migrations(), Default: "none"},
		{Key: config.AnswerProtocols, Prompt: "Protocols (comma-separated)", Choices: catalog.Protocols()},
		{Key: config.AnswerContainer, Prompt: "Container runtime", Choices: catalog.Containers(), Default: "none"},
		{Key: config.AnswerOrchestrator, Prompt: "Orchestrator", Choices: catalog.Orchestrators(), Default: "none"},
	}
}

var (
	promptStyle = lipgloss.NewStyle().Bold(true)
	hintStyle   = lipgloss.NewStyle().Faint(true)
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// ErrAborted is returned when the user cancels the session.
var ErrAborted = fmt.Errorf("interactive session aborted")

type model struct {
	questions []Question
	index     int
	input     textinput.Model
	answers   map[string]string
	aborted   bool
}

func newModel() model {
	ti := textinput.New()
	ti.Focus()

	qs := Questions()
	ti.Placeholder = qs[0].Default

	return model{
		questions: qs,
		input:     ti,
		answers:   make(map[string]string, len(qs)),
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			q := m.questions[m.index]
			value := strings.TrimSpace(m.input.Value())
			if value == "" {
				value = q.Default
			}
			m.answers[q.Key] = value

			m.index++
			if m.index >= len(m.questions) {
				return m, tea.Quit
			}
			m.input.SetValue("")
			m.input.Placeholder = m.questions[m.index].Default
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.index >= len(m.questions) {
		return doneStyle.Render("configuration collected") + "\n"
	}

	q := m.questions[m.index]
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d/%d\n", promptStyle.Render(q.Prompt), m.index+1, len(m.questions))
	if len(q.Choices) > 0 {
		b.WriteString(hintStyle.Render("one of: "+strings.Join(q.Choices, ", ")) + "\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	return b.String()
}

// Run drives the prompt sequence over the given terminal streams and
// returns the collected answers.
func Run(in io.Reader, out io.Writer) (map[string]string, error) {
	program := tea.NewProgram(newModel(), tea.WithInput(in), tea.WithOutput(out))
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("interactive session failed: %w", err)
	}

	m, ok := final.(model)
	if !ok || m.aborted {
		return nil, ErrAborted
	}
	return m.answers, nil
}
