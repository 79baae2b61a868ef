// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typerank/internal/history"
	"github.com/verte-zerg/typerank/internal/model"
	"github.com/verte-zerg/typerank/internal/session"
)

const tickInterval = 100 * time.Millisecond

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = pendingStyle.Copy().Underline(true)
	overflowStyle    = incorrectStyle.Copy().Underline(true)
	missingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A")).Strikethrough(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	rankStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	betterStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

type tickMsg time.Time

// Options configures the typing UI.
type Options struct {
	// Repo receives finished sessions. Nil disables saving.
	Repo *history.Repository
	// InputMethod forces the recorded input method. Empty or all means detect.
	InputMethod model.InputMethod
	Logger      *slog.Logger
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	sess *session.Session
	cfg  model.SessionConfig
	opts Options

	input textinput.Model

	width  int
	height int

	outcome *outcome
	last    *model.HistoryRecord
	errMsg  string
}

// NewModel constructs a typing TUI model around a Ready session.
func NewModel(sess *session.Session, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "type here, enter to submit"
	input.CharLimit = 0
	m := &Model{
		sess:  sess,
		cfg:   sess.Config(),
		opts:  opts,
		input: input,
	}
	m.loadLast()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, m.contentWidth()-lipgloss.Width(m.input.Prompt)-1)
		return m, nil
	case tickMsg:
		if m.sess.Lifecycle() != session.Playing {
			return m, nil
		}
		if m.sess.Expire() {
			m.finish()
			return m, nil
		}
		return m, tick()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.sess.Lifecycle() {
		case session.Ready:
			return m.updateReady(msg)
		case session.Playing:
			return m.updatePlaying(msg)
		default:
			return m.updateFinished(msg)
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) updateReady(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		return m, m.start()
	case tea.KeyRunes, tea.KeySpace:
		cmd := m.start()
		_, inputCmd := m.updatePlaying(msg)
		return m, tea.Batch(cmd, inputCmd)
	}
	return m, nil
}

func (m *Model) start() tea.Cmd {
	m.errMsg = ""
	m.sess.Start()
	m.input.Reset()
	return tea.Batch(m.input.Focus(), tick())
}

func (m *Model) updatePlaying(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		before := m.sess.Snapshot().Index
		m.sess.SubmitAnswer()
		if m.sess.Lifecycle() == session.Finished {
			m.finish()
			return m, nil
		}
		if m.sess.Snapshot().Index != before {
			m.input.Reset()
		}
		return m, nil
	case tea.KeyEsc:
		m.sess.FinishGame()
		m.finish()
		return m, nil
	}
	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != prev {
		m.sess.UpdateInput(v)
	}
	return m, cmd
}

func (m *Model) updateFinished(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc, msg.String() == "q":
		return m, tea.Quit
	case msg.String() == "r", msg.Type == tea.KeyEnter:
		if err := m.sess.Reset(m.cfg); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.outcome = nil
		m.input.Reset()
		m.input.Blur()
	}
	return m, nil
}

func (m *Model) finish() {
	if m.outcome != nil {
		return
	}
	agg, ok := m.sess.Aggregate()
	if !ok {
		return
	}
	m.input.Blur()
	m.outcome = evaluate(agg, m.cfg, m.opts)
	if m.outcome.saved != nil {
		m.last = m.outcome.saved
	}
}

func (m *Model) loadLast() {
	if m.opts.Repo == nil {
		return
	}
	records := m.opts.Repo.All(context.Background())
	if len(records) > 0 {
		m.last = &records[0]
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.sess.Lifecycle() {
	case session.Ready:
		content = m.renderReady()
	case session.Playing:
		content = m.renderPlaying()
	default:
		content = m.renderOutcome()
	}
	if m.errMsg != "" {
		content += "\n\n" + errorStyle.Render(m.errMsg)
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	content = lipgloss.NewStyle().Width(m.contentWidth()).Render(content)
	footer := renderFooter(m.sess.Snapshot(), m.last)
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	return max(1, int(float64(m.width)*0.70))
}

func (m *Model) renderReady() string {
	lines := []string{
		titleStyle.Render("typerank"),
		"",
		describeConfig(m.cfg),
		"",
		pendingStyle.Render("Press enter or start typing. Esc quits."),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderPlaying() string {
	snap := m.sess.Snapshot()
	if snap.CurrentQuestion == nil {
		return ""
	}
	target := []rune(snap.CurrentQuestion.Text)
	typed := []rune(snap.Input)
	cursorIndex := -1
	if len(typed) < len(target) {
		cursorIndex = len(typed)
	}
	styled := buildStyledRunes(target, typed, cursorIndex)
	text := renderStyledRunes(styled)
	if m.width > 0 {
		text = wrapStyledRunes(styled, m.contentWidth())
	}
	header := pendingStyle.Render(fmt.Sprintf("%s · %s", snap.CurrentQuestion.Difficulty, progressLabel(snap)))
	return header + "\n\n" + text + "\n\n" + m.input.View()
}

func describeConfig(cfg model.SessionConfig) string {
	switch cfg.Mode {
	case model.ModeTime:
		return fmt.Sprintf("Time attack: %ds, difficulty %s", cfg.ModeValue, cfg.Difficulty)
	default:
		return fmt.Sprintf("%d questions, difficulty %s", cfg.ModeValue, cfg.Difficulty)
	}
}

func progressLabel(snap session.Snapshot) string {
	if snap.TotalQuestions > 0 {
		return fmt.Sprintf("Question %d/%d", min(snap.Index+1, snap.TotalQuestions), snap.TotalQuestions)
	}
	return fmt.Sprintf("Question %d", snap.Index+1)
}

func renderFooter(snap session.Snapshot, last *model.HistoryRecord) string {
	var segments []string
	if snap.Lifecycle == session.Playing {
		segments = append(segments, progressLabel(snap))
		if snap.HasRemaining {
			segments = append(segments, fmt.Sprintf("Time left %ds", int(snap.Remaining.Round(time.Second).Seconds())))
		} else {
			segments = append(segments, fmt.Sprintf("Elapsed %.1fs", snap.Elapsed.Seconds()))
		}
		segments = append(segments, fmt.Sprintf("Done %d", len(snap.Results)))
	}
	if last != nil {
		segments = append(segments, fmt.Sprintf("Last %s · %d pts · %.1f%%", last.RankEvaluation.Rank, last.Result.TotalScore, last.Result.AverageAccuracy))
	}
	if len(segments) == 0 {
		return ""
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
