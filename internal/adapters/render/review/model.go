// Package review is the interactive channel-review TUI. It drives the
// application.ReviewService from keyboard input: digits score the head
// channel, "s" skips it, "r" refreshes the feed, "q" quits.
package review

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/rank-admin-cli/internal/application"
	"github.com/bnema/rank-admin-cli/internal/domain"
)

type seededMsg struct {
	err error
}

type scoredMsg struct {
	channel domain.Channel
	score   int
	err     error
}

type refreshedMsg struct {
	err error
}

type refilledMsg struct {
	err error
}

type model struct {
	ctx     context.Context
	svc     *application.ReviewService
	spinner spinner.Model
	styles  styles

	busy       bool
	busyLabel  string
	lastAction string
	err        error
	reviewed   int
}

func newModel(ctx context.Context, svc *application.ReviewService) model {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return model{
		ctx:       ctx,
		svc:       svc,
		spinner:   s,
		styles:    newStyles(),
		busy:      true,
		busyLabel: "Loading review queue...",
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.seedCmd())
}

func (m model) seedCmd() tea.Cmd {
	return func() tea.Msg {
		return seededMsg{err: m.svc.Seed(m.ctx)}
	}
}

func (m model) scoreCmd(score int) tea.Cmd {
	return func() tea.Msg {
		channel, err := m.svc.Score(m.ctx, score)
		return scoredMsg{channel: channel, score: score, err: err}
	}
}

func (m model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{err: m.svc.Refresh(m.ctx)}
	}
}

func (m model) refillCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := m.svc.RefillIfNeeded(m.ctx)
		return refilledMsg{err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case seededMsg:
		m.busy = false
		m.err = msg.err
		return m, nil

	case scoredMsg:
		m.busy = false
		m.err = msg.err
		if msg.err == nil {
			m.reviewed++
			m.lastAction = fmt.Sprintf("scored %s: %d", msg.channel.ChannelTitle, msg.score)
		}
		return m, m.refillCmd()

	case refreshedMsg:
		m.busy = false
		m.err = msg.err
		if msg.err == nil {
			m.lastAction = "feed refreshed"
		}
		return m, nil

	case refilledMsg:
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	default:
		return m, nil
	}
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "q" || key == "ctrl+c" {
		return m, tea.Quit
	}

	// One action at a time; keystrokes during a pending mutation are
	// dropped rather than queued.
	if m.busy {
		return m, nil
	}

	switch key {
	case "0", "1", "2", "3", "4", "5":
		score := int(key[0] - '0')
		m.busy = true
		m.busyLabel = "Submitting score..."
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.scoreCmd(score))

	case "s":
		channel, ok := m.svc.Skip()
		if !ok {
			m.err = application.ErrQueueEmpty
			return m, nil
		}
		m.err = nil
		m.lastAction = "skipped " + channel.ChannelTitle
		return m, m.refillCmd()

	case "r":
		m.busy = true
		m.busyLabel = "Refreshing feed..."
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, m.refreshCmd())

	default:
		return m, nil
	}
}

func (m model) View() string {
	return renderView(viewState{
		busy:       m.busy,
		busyLabel:  m.busyLabel,
		spinner:    m.spinner.View(),
		current:    currentOf(m.svc),
		queueLen:   m.svc.QueueLen(),
		exhausted:  m.svc.Exhausted(),
		reviewed:   m.reviewed,
		lastAction: m.lastAction,
		err:        m.err,
	}, m.styles)
}

func currentOf(svc *application.ReviewService) *domain.Channel {
	channel, ok := svc.Current()
	if !ok {
		return nil
	}
	return &channel
}

// Run starts the interactive review session and blocks until the operator
// quits or the feed errors terminally.
func Run(ctx context.Context, svc *application.ReviewService, output io.Writer) error {
	p := tea.NewProgram(
		newModel(ctx, svc),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
