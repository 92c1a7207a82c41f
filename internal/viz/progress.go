package viz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"github.com/RaLLy08/orbital-motion/internal/optim"
	tea "github.com/charmbracelet/bubbletea"
)

// ProgressMsg carries one generation report into the program.
type ProgressMsg optim.Progress

// DoneMsg ends a search view.
type DoneMsg struct {
	Result optim.Result
	Err    error
}

type spinMsg struct{}

func spin() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg { return spinMsg{} })
}

// ProgressModel follows a running trajectory search. Quitting cancels it.
type ProgressModel struct {
	title   string
	cancel  func()
	latest  optim.Progress
	history []float64
	frame   int
	started bool
	done    bool
	result  optim.Result
	err     error
}

func NewProgressModel(title string, cancel func()) ProgressModel {
	if cancel == nil {
		cancel = func() {}
	}
	return ProgressModel{title: title, cancel: cancel}
}

func (m ProgressModel) Init() tea.Cmd { return spin() }

// Done reports whether a DoneMsg has been received.
func (m ProgressModel) Done() bool { return m.done }

// Result is the outcome carried by the DoneMsg.
func (m ProgressModel) Result() (optim.Result, error) {
	return m.result, m.err
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		}
	case ProgressMsg:
		m.latest = optim.Progress(msg)
		m.started = true
		m.history = append(m.history, m.latest.Best.Fitness)
	case DoneMsg:
		m.done = true
		m.result, m.err = msg.Result, msg.Err
		return m, tea.Quit
	case spinMsg:
		m.frame++
		if m.done {
			return m, nil
		}
		return m, spin()
	}
	return m, nil
}

func (m ProgressModel) View() string {
	var s strings.Builder
	s.WriteString(headerStyle().Render(m.title) + "\n")

	p := m.latest
	switch {
	case m.done && m.err != nil && errors.Is(m.err, dynamo.ErrCanceled):
		s.WriteString(StatusPaused.Render("CANCELED") + "\n")
	case m.done && m.err != nil:
		s.WriteString(StatusFailed.Render("FAILED: "+m.err.Error()) + "\n")
	case m.done:
		s.WriteString(StatusRunning.Render("DONE") + "\n")
	default:
		s.WriteString(AnimatedSpinner(m.frame) + " searching\n")
	}
	s.WriteString("\n")

	if m.started {
		s.WriteString(ProgressBar(p.Percent/100, 40) + fmt.Sprintf(" %5.1f%%\n\n", p.Percent))
		s.WriteString(row("Generation", fmt.Sprintf("%d / %d", p.Generation+1, p.Generations)))
		s.WriteString(row("Best", fmt.Sprintf("%.3f km", p.Best.Fitness)))
		s.WriteString(row("Mean", fmt.Sprintf("%.1f km ± %.1f", p.MeanFitness, p.StdFitness)))
		s.WriteString(row("Evaluations", fmt.Sprintf("%d", p.Evaluations)))
		s.WriteString(row("Elapsed", p.Elapsed.Round(time.Millisecond).String()))
		s.WriteString(row("Best fitness", SparklineChart(m.history, 40)))
	}
	if m.done && m.err == nil {
		s.WriteString("\n" + row("Converged", fmt.Sprintf("%v", m.result.Converged)))
		s.WriteString(row("Parameters", m.result.Best.Params.String()))
	}
	s.WriteString(helpStyle.Render("Q:Cancel"))
	return s.String()
}

// Sender is the subset of *tea.Program used to feed a ProgressModel.
type Sender interface {
	Send(msg tea.Msg)
}

// Forward returns a progress callback that posts to p.
func Forward(p Sender) func(optim.Progress) {
	return func(pr optim.Progress) { p.Send(ProgressMsg(pr)) }
}

// Watch posts a DoneMsg to p once task has finished.
func Watch(p Sender, task *optim.Task) {
	go func() {
		res, err := task.Wait(context.Background())
		p.Send(DoneMsg{Result: res, Err: err})
	}()
}
