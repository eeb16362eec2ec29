package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/josephgoksu/seiton/internal/logger"
	"github.com/josephgoksu/seiton/internal/ranking"
	"github.com/josephgoksu/seiton/models"
)

// Engine is the part of *ranking.Engine the comparison screen drives.
type Engine interface {
	Mode() models.Context
	Subscribe(o ranking.Observer)
	Start(ctx context.Context) error
	ApplyOutcome(ctx context.Context, winner ranking.Winner) error
	Cancel(ctx context.Context, taskID string) error
	Undo(ctx context.Context) error
	Reset(ctx context.Context) error
	View() ranking.View
}

// EngineFactory opens the engine for a mode once the user has picked one.
type EngineFactory func(ctx context.Context, mode models.Context) (Engine, error)

// Layout limits for the comparison cards.
const (
	minCardWidth = 28
	maxCardWidth = 48
)

type engineOpenedMsg struct {
	engine Engine
	err    error
}

type actionDoneMsg struct {
	action   string
	err      error
	warnings []string
}

// warningSink collects engine warnings between the start and the end of an
// action. Engine actions are serialized so one sink is enough.
type warningSink struct {
	mu      sync.Mutex
	pending []string
}

func (s *warningSink) observe(ev ranking.Event) {
	if len(ev.Warnings) == 0 {
		return
	}
	s.mu.Lock()
	s.pending = append(s.pending, ev.Warnings...)
	s.mu.Unlock()
}

func (s *warningSink) drain() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}

// RankModel is the bubbletea model for a ranking session: mode selection,
// loading, the comparison loop and the final result.
type RankModel struct {
	ctx          context.Context
	open         EngineFactory
	engine       Engine
	sink         *warningSink
	descriptions map[models.Context]string
	now          func() time.Time

	state  ranking.State
	view   ranking.View
	cursor int

	busy         bool
	busyLabel    string
	confirmReset bool
	ticking      bool
	warnings     []string
	flash        string
	err          error

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	width   int
}

// NewRankModel builds the model. With an empty mode the user picks one first.
func NewRankModel(ctx context.Context, open EngineFactory, mode models.Context, descriptions map[models.Context]string) RankModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = StylePrimary

	m := RankModel{
		ctx:          ctx,
		open:         open,
		sink:         &warningSink{},
		descriptions: descriptions,
		now:          time.Now,
		state:        ranking.StateModeSelect,
		keys:         newKeyMap(),
		help:         help.New(),
		spinner:      s,
		width:        80,
	}
	if mode != "" {
		m.state = ranking.StateLoading
		m.view.Mode = mode
	}
	return m
}

// Err returns the error that ended the session, if any.
func (m RankModel) Err() error { return m.err }

func (m RankModel) Init() tea.Cmd {
	if m.state == ranking.StateLoading {
		return tea.Batch(m.spinner.Tick, m.openEngine(m.view.Mode))
	}
	return nil
}

func (m RankModel) openEngine(mode models.Context) tea.Cmd {
	logger.SetMode(string(mode))
	return func() tea.Msg {
		e, err := m.open(m.ctx, mode)
		return engineOpenedMsg{engine: e, err: err}
	}
}

// run executes one engine action off the UI goroutine.
func (m RankModel) run(action string, fn func(ctx context.Context) error) tea.Cmd {
	logger.SetLastAction(action)
	ctx, sink := m.ctx, m.sink
	return func() tea.Msg {
		err := fn(ctx)
		return actionDoneMsg{action: action, err: err, warnings: sink.drain()}
	}
}

func (m RankModel) startBusy(label string, cmd tea.Cmd) (RankModel, tea.Cmd) {
	m.busy = true
	m.busyLabel = label
	m.warnings = nil
	if !m.ticking {
		m.ticking = true
		return m, tea.Batch(m.spinner.Tick, cmd)
	}
	return m, cmd
}

func (m RankModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case engineOpenedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.engine = msg.engine
		m.engine.Subscribe(m.sink.observe)
		m.ticking = true
		return m.startBusy("Loading tasks...", m.run("start", m.engine.Start))

	case actionDoneMsg:
		return m.finish(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m RankModel) finish(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.busyLabel = ""
	m.view = m.engine.View()
	m.state = m.view.State
	m.warnings = append(m.warnings, msg.warnings...)

	if msg.err != nil {
		if msg.action == "start" || msg.action == "reset" {
			m.err = msg.err
			return m, tea.Quit
		}
		m.flash = describeError(msg.err)
	}
	return m, nil
}

func describeError(err error) string {
	switch {
	case errors.Is(err, ranking.ErrBusy):
		return "Still working on the previous action."
	case errors.Is(err, ranking.ErrNoUndo):
		return "Nothing to undo."
	default:
		return err.Error()
	}
}

func (m RankModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	m.flash = ""

	if m.state == ranking.StateModeSelect {
		return m.handleModeKey(msg)
	}

	if m.confirmReset {
		switch msg.String() {
		case "y", "Y":
			m.confirmReset = false
			m.state = ranking.StateLoading
			return m.startBusy("Starting over...", m.run("reset", m.engine.Reset))
		case "n", "N", "esc":
			m.confirmReset = false
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	if m.busy || m.engine == nil {
		m.flash = "Still working on the previous action."
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Undo):
		if !m.view.CanUndo {
			m.flash = describeError(ranking.ErrNoUndo)
			return m, nil
		}
		return m.startBusy("Undoing...", m.run("undo", m.engine.Undo))
	case key.Matches(msg, m.keys.Reset):
		m.confirmReset = true
		return m, nil
	}

	if m.state != ranking.StateComparing || m.view.Challenger == nil || m.view.Opponent == nil {
		return m, nil
	}

	challenger, opponent := m.view.Challenger.ID, m.view.Opponent.ID
	switch {
	case key.Matches(msg, m.keys.Challenger):
		return m.startBusy("Saving...", m.run("challenger "+challenger+" beats "+opponent, func(ctx context.Context) error {
			return m.engine.ApplyOutcome(ctx, ranking.WinnerChallenger)
		}))
	case key.Matches(msg, m.keys.Opponent):
		return m.startBusy("Saving...", m.run("opponent "+opponent+" beats "+challenger, func(ctx context.Context) error {
			return m.engine.ApplyOutcome(ctx, ranking.WinnerOpponent)
		}))
	case key.Matches(msg, m.keys.CancelChallenger):
		return m.startBusy("Completing task...", m.run("complete "+challenger, func(ctx context.Context) error {
			return m.engine.Cancel(ctx, challenger)
		}))
	case key.Matches(msg, m.keys.CancelOpponent):
		return m.startBusy("Completing task...", m.run("complete "+opponent, func(ctx context.Context) error {
			return m.engine.Cancel(ctx, opponent)
		}))
	}
	return m, nil
}

func (m RankModel) handleModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(models.Modes)-1 {
			m.cursor++
		}
	case "1", "2":
		m.cursor = int(msg.Runes[0] - '1')
		return m.selectMode()
	case "enter":
		return m.selectMode()
	}
	return m, nil
}

func (m RankModel) selectMode() (tea.Model, tea.Cmd) {
	mode := models.Modes[m.cursor]
	m.state = ranking.StateLoading
	m.view.Mode = mode
	return m.startBusy("Opening "+ContextTitle(mode)+"...", m.openEngine(mode))
}

func (m RankModel) View() string {
	var s strings.Builder

	if m.state == ranking.StateModeSelect {
		s.WriteString("\n" + StyleSelectTitle.Render("◆ What are you ranking?") + "\n\n")
		for i, mode := range models.Modes {
			cursor, style := "  ", StyleSelectNormal
			if i == m.cursor {
				cursor, style = "▶ ", StyleSelectActive
			}
			line := fmt.Sprintf("%s%s", cursor, style.Render(fmt.Sprintf("%d. %-10s", i+1, ContextTitle(mode))))
			if d := m.descriptions[mode]; d != "" {
				line += StyleSelectDim.Render(" " + Truncate(d, 60))
			}
			s.WriteString(line + "\n")
		}
		s.WriteString("\n" + StyleSelectDim.Render("↑/↓ navigate • enter select • q quit") + "\n")
		return s.String()
	}

	s.WriteString(StyleHeader.Render("◆ SEITON") + " " + StyleSubtle.Render(ContextTitle(m.view.Mode)))
	if m.state == ranking.StateComparing {
		s.WriteString("  " + StyleSubtle.Render(ProgressLine(len(m.view.Ranked), m.view.Capacity, len(m.view.Queue), len(m.view.Overflow))))
	}
	s.WriteString("\n\n")

	switch m.state {
	case ranking.StateLoading:
		s.WriteString(m.spinner.View() + " " + m.busyLabel + "\n")
	case ranking.StateComparing:
		s.WriteString(m.comparisonView())
	case ranking.StateResult:
		s.WriteString(RenderResult(m.view.Mode, m.view.Ranked, m.view.Overflow, time.Time{}))
	}

	if len(m.warnings) > 0 {
		s.WriteString("\n" + RenderWarningPanel("Heads up", strings.Join(m.warnings, "\n")) + "\n")
	}
	if m.flash != "" {
		s.WriteString("\n" + StyleError.Render("✗ "+m.flash) + "\n")
	}
	if m.busy && m.state != ranking.StateLoading {
		s.WriteString("\n" + m.spinner.View() + " " + StyleSubtle.Render(m.busyLabel) + "\n")
	}

	s.WriteString("\n")
	switch {
	case m.confirmReset:
		s.WriteString(StyleWarning.Render("⚠ Discard this ranking and start over? [y/n]") + "\n")
	case m.state == ranking.StateResult:
		s.WriteString(StyleSubtle.Render("u undo last choice • R start over • q quit") + "\n")
	default:
		s.WriteString(m.help.View(m.keys) + "\n")
	}
	return s.String()
}

func (m RankModel) comparisonView() string {
	v := m.view
	if v.Challenger == nil || v.Opponent == nil {
		return StyleSubtle.Render("Waiting for the next comparison...") + "\n"
	}

	width := min(max((m.width-6)/2, minCardWidth), maxCardWidth)
	left := StyleChallengerCard.Width(width).Render(card("Challenger [1]", *v.Challenger, width-2))
	right := StyleOpponentCard.Width(width).Render(card(fmt.Sprintf("#%d [2]", v.OpponentIndex+1), *v.Opponent, width-2))

	var s strings.Builder
	s.WriteString(StyleTitle.Render("Which matters more right now?") + "\n\n")
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right) + "\n")
	if v.Hint != nil {
		s.WriteString("\n" + StyleHint.Render(hintText(*v.Hint, m.now())) + "\n")
	}
	return s.String()
}

func card(title string, t models.Task, width int) string {
	var s strings.Builder
	s.WriteString(StyleSubtle.Render(title) + "  " + TierStyle(t.Priority).Render(t.Priority.Label()) + "\n")
	s.WriteString(StyleTitle.Render(Truncate(t.Content, width*2)) + "\n")
	if d := FirstLine(t.Description); d != "" {
		s.WriteString(StyleSubtle.Render(Truncate(d, width)) + "\n")
	}
	if due := FormatDue(t); due != "" {
		s.WriteString(StyleWarning.Render("⏱ "+Truncate(due, width-2)) + "\n")
	}
	if len(t.Labels) > 0 {
		s.WriteString(StyleSubtle.Render(Truncate("@"+strings.Join(t.Labels, " @"), width)))
	}
	return strings.TrimRight(s.String(), "\n")
}

func hintText(h ranking.Hint, now time.Time) string {
	who := "the challenger"
	if h.Winner == ranking.WinnerOpponent {
		who = "the opponent"
	}
	return fmt.Sprintf("↺ Last time these two met (%s) you picked %s.", FormatAgo(h.At, now), who)
}

// RunRank runs the interactive ranking session until the user quits.
func RunRank(ctx context.Context, open EngineFactory, mode models.Context, descriptions map[models.Context]string) error {
	p := tea.NewProgram(NewRankModel(ctx, open, mode, descriptions), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run ranking screen: %w", err)
	}
	if rm, ok := final.(RankModel); ok {
		return rm.Err()
	}
	return nil
}
