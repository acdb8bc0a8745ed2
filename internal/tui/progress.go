package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	stepStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// ProgressMsg reports one step of a long-running operation.
type ProgressMsg struct {
	Fraction float64
	Message  string
}

// DoneMsg ends the progress view. Err is nil on success.
type DoneMsg struct {
	Err error
}

// ProgressModel renders a progress bar for apply and backup runs. It is fed
// ProgressMsg values from the worker goroutine and quits on DoneMsg.
type ProgressModel struct {
	title   string
	bar     progress.Model
	message string
	err     error
	done    bool
	width   int
}

// NewProgress creates a progress view with the given title line.
func NewProgress(title string) ProgressModel {
	return ProgressModel{
		title: title,
		bar:   progress.New(progress.WithDefaultGradient()),
		width: 80,
	}
}

// Err returns the error carried by the final DoneMsg, if any.
func (m ProgressModel) Err() error {
	return m.err
}

// Init implements tea.Model
func (m ProgressModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = fmt.Errorf("interrupted")
			return m, tea.Quit
		}
		return m, nil

	case ProgressMsg:
		m.message = msg.Message
		return m, m.bar.SetPercent(msg.Fraction)

	case DoneMsg:
		m.err = msg.Err
		m.done = true
		return m, tea.Sequence(m.bar.SetPercent(1), tea.Quit)

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model
func (m ProgressModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n  ")
	b.WriteString(m.bar.View())
	b.WriteString("\n\n  ")
	switch {
	case m.err != nil:
		b.WriteString(errStyle.Render("Error: " + m.err.Error()))
	case m.done:
		b.WriteString(doneStyle.Render("Done"))
	default:
		b.WriteString(stepStyle.Render(m.message))
	}
	b.WriteString("\n")
	return b.String()
}

// RunProgress shows a progress view while work runs in the background. The
// returned report function is safe to call from the worker goroutine; the
// view quits when work returns. RunProgress returns the worker's error.
func RunProgress(title string, work func(report func(fraction float64, message string)) error) error {
	p := tea.NewProgram(NewProgress(title))

	errc := make(chan error, 1)
	go func() {
		err := work(func(fraction float64, message string) {
			p.Send(ProgressMsg{Fraction: fraction, Message: message})
		})
		p.Send(DoneMsg{Err: err})
		errc <- err
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running progress view: %w", err)
	}
	return <-errc
}
