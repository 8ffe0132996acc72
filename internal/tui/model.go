package tui

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"provsum/internal/domain"
	"provsum/internal/provenance"
)

// SummaryPort is the TUI-facing subset of the summary service.
type SummaryPort interface {
	SummarizeText(ctx context.Context, docID, text string, mode domain.Mode) (*domain.Summary, error)
}

// Model is the Bubble Tea model browsing the provenance of one summary.
type Model struct {
	service  SummaryPort
	docID    string
	text     string
	result   *domain.Summary
	input    textinput.Model
	viewport viewport.Model
	status   string
	cursor   int
	ready    bool
}

// New creates a new TUI model for an existing result. text is the document
// the result was computed from, used when the mode is switched.
func New(service SummaryPort, docID, text string, result *domain.Summary) Model {
	ti := textinput.New()
	ti.Prompt = "mode> "
	ti.Placeholder = "tldr | short | extended, Enter to re-run"
	ti.Focus()
	ti.CharLimit = 16
	vp := viewport.New(0, 0)
	return Model{
		service:  service,
		docID:    docID,
		text:     text,
		result:   result,
		input:    ti,
		viewport: vp,
		status:   fmt.Sprintf("%d sources. Up/Down to browse.", len(result.Sources)),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, bh := sourceBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + lipgloss.Height(m.renderSummary()) + 1 + ih + 1 // header, summary, status, input, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-bh)
		m.viewport.SetContent(m.renderCurrentSource())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		n := len(m.result.Sources)
		switch msg.String() {
		case "enter":
			m.rerun(strings.TrimSpace(m.input.Value()))
			m.input.SetValue("")
			m.viewport.SetContent(m.renderCurrentSource())
			return m, nil
		case "down":
			if n > 0 {
				m.cursor = (m.cursor + 1) % n
				m.viewport.SetContent(m.renderCurrentSource())
			}
			return m, nil
		case "up":
			if n > 0 {
				m.cursor = (m.cursor - 1 + n) % n
				m.viewport.SetContent(m.renderCurrentSource())
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) rerun(value string) {
	mode, err := domain.ParseMode(value)
	if err != nil {
		m.status = "Error: " + err.Error()
		return
	}
	res, err := m.service.SummarizeText(context.Background(), m.docID, m.text, mode)
	if err != nil {
		m.status = "Error: " + err.Error()
		return
	}
	m.result = res
	m.cursor = 0
	m.status = fmt.Sprintf("Re-ran in %s mode: %d sources.", res.Mode, len(res.Sources))
}

// View renders the TUI layout and current provenance record.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("%s  [%s, %s, order=%s]", m.docID, m.result.Mode, m.result.Generator, m.result.Order))
	source := sourceBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + m.renderSummary() + "\n" + source + "\n" + input + "\n" + status
}

func (m Model) renderSummary() string {
	if m.result.Summary == "" {
		return summaryStyle.Render("(empty summary)")
	}
	return summaryStyle.Render(m.result.Summary)
}

func (m Model) renderCurrentSource() string {
	if len(m.result.Sources) == 0 {
		return "No provenance records."
	}
	r := m.result.Sources[m.cursor]
	title := fmt.Sprintf("Sentence %d/%d  source=%s  overlap=%d", m.cursor+1, len(m.result.Sources), r.SourceID, r.Overlap)
	if line, ok := r.Meta["line"]; ok {
		title += fmt.Sprintf("  line=%v", line)
	}
	if r.Overlap == 0 {
		title += "  (low confidence)"
	}
	body := r.SummarySentence + "\n\n" + highlightOverlap(r.SourceText, r.SummarySentence, func(s string) string { return highlightStyle.Render(s) })
	return title + "\n\n" + body
}

var (
	sourceBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	summaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// highlightOverlap marks the words of source that also occur in summary,
// using the same word rules as the provenance mapper.
func highlightOverlap(source, summary string, mark func(string) string) string {
	words := provenance.Words(summary)
	fields := strings.Fields(source)
	for i, f := range fields {
		w := strings.ToLower(strings.TrimFunc(f, unicode.IsPunct))
		if w != "" && words.Contains(w) {
			fields[i] = mark(f)
		}
	}
	return strings.Join(fields, " ")
}
