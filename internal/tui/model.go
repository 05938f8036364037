package tui

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"interviewbot/internal/domain"
)

// Resolver is the TUI-facing subset of the engine.
type Resolver interface {
	Resolve(raw string) (*domain.QueryResult, error)
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	resolver  Resolver
	input     textinput.Model
	viewport  viewport.Model
	result    *domain.QueryResult
	summary   string
	status    string
	cursor    int
	ready     bool
	lastQuery string
}

// New creates a new TUI model instance.
func New(resolver Resolver, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type an interview question or topic and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{resolver: resolver, input: ti, viewport: vp, summary: summary, status: "Please enter your question or topic to start."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + summary
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			m = m.submit(m.input.Value())
			return m, nil
		case "down":
			if m.result != nil && len(m.result.Similar) > 0 {
				m.cursor = (m.cursor + 1) % len(m.result.Similar)
				m.refresh()
				return m, nil
			}
		case "up":
			if m.result != nil && len(m.result.Similar) > 0 {
				m.cursor = (m.cursor - 1 + len(m.result.Similar)) % len(m.result.Similar)
				m.refresh()
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit(raw string) Model {
	res, err := m.resolver.Resolve(raw)
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		m.status = "Please enter your question or topic to start."
	case err != nil:
		m.status = "Error: " + err.Error()
		m.result = nil
	case !res.Confident:
		m.status = "No exact question found in the database."
		m.result = res
		m.cursor = 0
		m.lastQuery = res.Query
	default:
		m.status = fmt.Sprintf("Results for %q", res.Query)
		m.result = res
		m.cursor = 0
		m.lastQuery = res.Query
	}
	m.viewport.GotoTop()
	m.refresh()
	return m
}

// refresh re-renders the result and scrolls the viewport so the selected
// similar question stays visible.
func (m *Model) refresh() {
	content, line := m.render()
	m.viewport.SetContent(content)
	if line < 0 || m.viewport.Height <= 0 {
		return
	}
	switch {
	case line < m.viewport.YOffset:
		m.viewport.SetYOffset(line)
	case line >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(line - m.viewport.Height + 1)
	}
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Smart Interview & OA Bot")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderResult() string {
	content, _ := m.render()
	return content
}

// render returns the result panel and the line of the selected similar
// question, or -1 when there is none.
func (m Model) render() (string, int) {
	r := m.result
	if r == nil {
		return "No results yet.", -1
	}
	var b strings.Builder
	if !r.Confident {
		b.WriteString(warnStyle.Render("No exact question found in the database."))
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "Closest question found (similarity %.2f):\n%s\n\n", r.BestMatch.Score, r.BestMatch.Question.Text)
		fmt.Fprintf(&b, "Topic: %s\nDifficulty: %s\nCompany: %s\n", r.Topic, r.Difficulty, r.Company)
		b.WriteString(dimStyle.Render("This question has some similarity with the one shown above."))
		return b.String(), -1
	}
	fmt.Fprintf(&b, "Topic: %s\n", labelStyle.Render(r.Topic))
	fmt.Fprintf(&b, "Difficulty: %s\n", labelStyle.Render(r.Difficulty))
	if company, ok := r.Company.Label(); ok {
		fmt.Fprintf(&b, "Company: %s\n", labelStyle.Render(company))
	} else {
		b.WriteString("Company prediction unavailable.\n")
	}
	fmt.Fprintf(&b, "\nBest match (score=%.3f):\n%s\n", r.BestMatch.Score, highlightTerms(r.BestMatch.Question.Text, m.lastQuery))
	b.WriteString("\nSimilar questions:\n")
	cursorLine := -1
	for i, s := range r.Similar {
		line := fmt.Sprintf("%d. %s  (%.2f)", i+1, s.Question.Text, s.Score)
		if i == m.cursor {
			cursorLine = strings.Count(b.String(), "\n")
			line = cursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	if len(r.Similar) > 0 {
		sel := r.Similar[m.cursor].Question
		fmt.Fprintf(&b, "\n%s\n", dimStyle.Render(fmt.Sprintf("topic=%s difficulty=%s company=%s", sel.Topic, sel.Difficulty, sel.Company)))
	}
	return b.String(), cursorLine
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	wordRe         = regexp.MustCompile(`[\p{L}\p{N}_]+`)
)

// highlightTerms emphasizes the words of text that also occur in query.
func highlightTerms(text, query string) string {
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return text
	}
	return wordRe.ReplaceAllStringFunc(text, func(w string) string {
		if _, ok := qTokens[strings.ToLower(w)]; ok {
			return highlightStyle.Render(w)
		}
		return w
	})
}

func toTokenSet(s string) map[string]struct{} {
	tokens := wordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if len(t) < 2 {
			continue
		}
		m[t] = struct{}{}
	}
	return m
}
