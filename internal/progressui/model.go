// Package progressui provides the Bubble Tea progress view shown while a sweep runs.
package progressui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	barPadding  = 2
	maxBarWidth = 60
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// ProgressMsg reports completed sessions out of the total.
type ProgressMsg struct {
	Done  int
	Total int
}

// DoneMsg signals that the work finished, successfully or not.
type DoneMsg struct {
	Err error
}

// Model implements the Bubble Tea progress view.
type Model struct {
	title     string
	bar       progress.Model
	done      int
	total     int
	startedAt time.Time
	finished  bool
	canceled  bool
	err       error
}

// NewModel constructs a progress model for total sessions.
func NewModel(title string, total int) Model {
	return Model{
		title:     title,
		bar:       progress.New(progress.WithDefaultGradient()),
		total:     total,
		startedAt: time.Now(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.canceled = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-barPadding*2, 10), maxBarWidth)
	case ProgressMsg:
		if msg.Done > m.done {
			m.done = msg.Done
		}
		if msg.Total > 0 {
			m.total = msg.Total
		}
	case DoneMsg:
		m.finished = true
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	pad := strings.Repeat(" ", barPadding)
	var b strings.Builder
	b.WriteString(pad + titleStyle.Render(m.title) + "\n")
	b.WriteString(pad + m.bar.ViewAs(m.Percent()) + "\n")
	info := fmt.Sprintf("%d/%d sessions  %s elapsed", m.done, m.total, time.Since(m.startedAt).Round(time.Second))
	b.WriteString(pad + infoStyle.Render(info) + "\n")
	if m.err != nil {
		b.WriteString(pad + errorStyle.Render(m.err.Error()) + "\n")
	}
	return b.String()
}

// Percent returns the completed share in [0, 1].
func (m Model) Percent() float64 {
	if m.total <= 0 {
		return 0
	}
	return min(float64(m.done)/float64(m.total), 1)
}

// Canceled reports whether the user interrupted the view.
func (m Model) Canceled() bool {
	return m.canceled
}

// Run executes work while rendering progress to out. Interrupting the view cancels the
// context handed to work; Run returns the error work returned.
func Run(ctx context.Context, title string, total int, in io.Reader, out io.Writer, work func(ctx context.Context, report func(done, total int)) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(NewModel(title, total), tea.WithInput(in), tea.WithOutput(out))
	errCh := make(chan error, 1)
	go func() {
		err := work(ctx, func(done, total int) {
			program.Send(ProgressMsg{Done: done, Total: total})
		})
		program.Send(DoneMsg{Err: err})
		errCh <- err
	}()

	final, err := program.Run()
	if err != nil {
		cancel()
		<-errCh
		return fmt.Errorf("failed to run progress UI: %w", err)
	}
	if m, ok := final.(Model); ok && m.Canceled() {
		cancel()
	}
	return <-errCh
}
