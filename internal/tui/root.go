package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/orgwatch/orgwatch/internal/clock"
	"github.com/orgwatch/orgwatch/internal/config"
	"github.com/orgwatch/orgwatch/internal/orglog"
	"github.com/orgwatch/orgwatch/internal/session"
	"github.com/orgwatch/orgwatch/internal/timefmt"
)

// promptKind says what the text input is currently collecting.
type promptKind int

const (
	promptNone promptKind = iota
	promptGoal
	promptSplit
	promptNestedSplit
)

// tickMsg drives the elapsed-time readout while the timer runs.
type tickMsg time.Time

// Model is the root Bubble Tea model
type Model struct {
	// Terminal dimensions
	width  int
	height int
	ready  bool

	cfg    *config.Config
	logger *zap.Logger

	// Timer core
	clk      clock.Clock
	sess     *session.Session
	exporter *orglog.Exporter

	// Name prompt
	input  textinput.Model
	prompt promptKind

	// Split list
	viewport viewport.Model

	// Overlays
	showHelp  bool
	debug     DebugPanel
	showDebug bool

	// Transient outcome of the last command
	notice    string
	noticeErr bool

	// Key bindings
	keys KeyMap

	refresh time.Duration
}

// NewRootModel creates the root model off the real clock.
func NewRootModel(cfg *config.Config, logger *zap.Logger) Model {
	return newModel(cfg, logger, clock.System{})
}

func newModel(cfg *config.Config, logger *zap.Logger, clk clock.Clock) Model {
	ti := textinput.New()
	ti.Prompt = "❯ "
	ti.PromptStyle = InputPromptStyle
	ti.CharLimit = session.MaxNameBytes
	ti.Width = 60 // Updated on WindowSizeMsg

	return Model{
		cfg:      cfg,
		logger:   logger,
		clk:      clk,
		sess:     session.New(clk, cfg.MaxSplits),
		exporter: orglog.New(cfg.LogFile),
		input:    ti,
		debug:    NewDebugPanel(cfg.Debug),
		keys:     DefaultKeyMap(),
		refresh:  time.Duration(cfg.RefreshMS) * time.Millisecond,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// tickCmd schedules the next display refresh. It is armed only while
// the timer is Running; idle and paused states redraw on input alone.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		listHeight := m.height - 10 // header, goal/time, input, status bar
		if listHeight < 1 {
			listHeight = 1
		}
		m.viewport.Width = m.width - 6
		m.viewport.Height = listHeight

		inputWidth := m.width - 8
		if inputWidth < 10 {
			inputWidth = 10
		}
		m.input.Width = inputWidth
		m.refreshSplitList()
		return m, nil

	case tickMsg:
		if m.sess.State() != session.Running {
			return m, nil
		}
		m.refreshSplitList()
		return m, m.tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// ctrl+c always quits, prompt or not.
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.StartStop):
		if m.sess.State() == session.Idle {
			return m.openPrompt(promptGoal, "Enter main goal"), nil
		}
		state := m.sess.Start("")
		m.commandDone("start/stop", nil)
		if state == session.Running {
			return m, m.tickCmd()
		}
		return m, nil

	case key.Matches(msg, m.keys.Reset):
		m.sess.Reset()
		m.commandDone("reset", nil)
		return m, nil

	case key.Matches(msg, m.keys.Split):
		if m.sess.State() != session.Running {
			m.commandDone("subgoal", session.ErrInvalidState)
			return m, nil
		}
		return m.openPrompt(promptSplit, "Enter subgoal name"), nil

	case key.Matches(msg, m.keys.NestedSplit):
		if m.sess.State() != session.Running {
			m.commandDone("nested subgoal", session.ErrInvalidState)
			return m, nil
		}
		if m.sess.Active() == session.None {
			m.commandDone("nested subgoal", session.ErrNoActiveSplit)
			return m, nil
		}
		return m.openPrompt(promptNestedSplit, "Enter nested subgoal name"), nil

	case key.Matches(msg, m.keys.CloseSplit):
		m.commandDone("close subgoal", m.sess.CloseActiveSplit())
		return m, nil

	case key.Matches(msg, m.keys.MoveUp):
		m.commandDone("move up", m.sess.MoveUp())
		return m, nil

	case key.Matches(msg, m.keys.Save):
		return m.save()

	case key.Matches(msg, m.keys.Debug):
		if m.debug.IsEnabled() {
			m.showDebug = !m.showDebug
		}
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}

	// Remaining keys scroll the split list.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closePrompt()
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		name := strings.TrimSpace(m.input.Value())
		kind := m.prompt
		m.closePrompt()
		return m.submitPrompt(kind, name)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submitPrompt(kind promptKind, name string) (tea.Model, tea.Cmd) {
	switch kind {
	case promptGoal:
		m.sess.Start(name)
		m.commandDone("start", nil)
		return m, m.tickCmd()

	case promptSplit:
		_, err := m.sess.OpenSplit(name, false)
		m.commandDone("subgoal", err)

	case promptNestedSplit:
		_, err := m.sess.OpenSplit(name, true)
		m.commandDone("nested subgoal", err)
	}
	return m, nil
}

// save appends the session to the org log. Mirrors the original tool:
// refused while the timer runs, silent no-op before any goal exists.
func (m Model) save() (tea.Model, tea.Cmd) {
	if m.sess.State() == session.Running {
		m.notice = "stop the timer before saving"
		m.noticeErr = true
		m.debug.AddEvent("save", m.notice)
		return m, nil
	}
	if m.sess.Goal() == "" {
		m.notice = "nothing to save yet"
		m.noticeErr = true
		m.debug.AddEvent("save", m.notice)
		return m, nil
	}
	if err := m.exporter.Export(m.sess, m.clk.WallNow()); err != nil {
		m.commandDone("save", err)
		return m, nil
	}
	m.commandDone("save", nil)
	m.notice = "saved to " + m.exporter.Path()
	return m, nil
}

// openPrompt focuses the text input for a name.
func (m Model) openPrompt(kind promptKind, placeholder string) Model {
	m.prompt = kind
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.input.Focus()
	return m
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
	m.input.SetValue("")
}

// commandDone records the outcome of a dispatched command: clears or
// sets the status notice, logs it, and refreshes the split list.
func (m *Model) commandDone(command string, err error) {
	if err != nil {
		m.notice = err.Error()
		m.noticeErr = true
		m.logger.Warn("command rejected",
			zap.String("command", command),
			zap.Error(err))
		m.debug.AddEvent(command, err.Error())
	} else {
		m.notice = ""
		m.noticeErr = false
		m.logger.Debug("command applied",
			zap.String("command", command),
			zap.String("state", m.sess.State().String()),
			zap.Int("splits", m.sess.SplitCount()))
		m.debug.AddEvent(command, "")
	}
	m.refreshSplitList()
}

func (m *Model) refreshSplitList() {
	m.viewport.SetContent(m.renderSplitLines())
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.helpView()
	}
	return m.mainView()
}

func (m Model) mainView() string {
	header := m.renderHeader()
	timer := m.renderTimer()
	splits := m.renderSplitList()
	input := m.renderInput()
	statusBar := m.renderStatusBar()

	sections := []string{header, timer, splits}
	if m.showDebug {
		sections = append(sections, m.debug.Render(m.width-2, 8))
	}
	sections = append(sections, input, statusBar)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := HeaderStyle.Render("ORGWATCH")
	subtitle := DimStyle.Render("terminal split timer")
	return lipgloss.NewStyle().
		Width(m.width).
		Render(title+"  "+subtitle) + "\n"
}

func (m Model) renderTimer() string {
	goal := m.sess.Goal()
	if goal == "" {
		goal = DimStyle.Render("(none)")
	} else {
		goal = GoalStyle.Render(goal)
	}

	timeLine := TimeStyle.Render(timefmt.Format(m.sess.Elapsed()))

	return lipgloss.NewStyle().PaddingLeft(1).Render(
		"Goal  : " + goal + "\n" +
			"Time  : " + timeLine)
}

func (m Model) renderSplitList() string {
	title := SplitListTitleStyle.Render(fmt.Sprintf("SUBGOALS (%d)", m.sess.SplitCount()))
	return SplitListStyle.
		Width(m.width - 4).
		Render(title + "\n" + m.viewport.View())
}

// renderSplitLines formats one line per split in insertion order:
// closed ones show start -> end = duration, the active one a live
// duration, other open ones placeholders.
func (m Model) renderSplitLines() string {
	splits := m.sess.Splits()
	if len(splits) == 0 {
		return DimStyle.Render("no subgoals yet — press g to open one")
	}

	active := m.sess.Active()
	elapsed := m.sess.Elapsed()

	var b strings.Builder
	for i, sp := range splits {
		indent := strings.Repeat("  ", sp.Depth)
		var line string
		var style lipgloss.Style
		switch {
		case sp.Closed:
			line = fmt.Sprintf("%2d) %s%s -> %s = %s  %s",
				i+1, indent,
				timefmt.Format(sp.Start),
				timefmt.Format(sp.End),
				timefmt.Format(sp.Duration()),
				sp.Name)
			style = SplitClosedStyle
		case sp.Ref == active:
			line = fmt.Sprintf("%2d) %s%s -> %s = %s  %s",
				i+1, indent,
				timefmt.Format(sp.Start),
				timefmt.Blank,
				timefmt.Format(elapsed-sp.Start),
				sp.Name)
			style = SplitActiveStyle
		default:
			line = fmt.Sprintf("%2d) %s%s -> %s = %s  %s",
				i+1, indent,
				timefmt.Format(sp.Start),
				timefmt.Blank,
				timefmt.Blank,
				sp.Name)
			style = SplitOpenStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) renderInput() string {
	if m.prompt == promptNone {
		return DimStyle.PaddingLeft(1).Render(
			"s start/stop · g subgoal · n nested · h close · u up · t save · ? help")
	}
	return InputStyle.
		Width(m.width - 4).
		Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	var status string
	switch m.sess.State() {
	case session.Running:
		status = StatusRunningStyle.Render("● Running")
	case session.Paused:
		status = StatusPausedStyle.Render("❚❚ Paused")
	default:
		status = StatusIdleStyle.Render("○ Idle")
	}

	logInfo := DimStyle.Render(" │ log: " + m.exporter.Path())

	var notice string
	if m.notice != "" {
		if m.noticeErr {
			notice = ErrorStyle.Render(" │ " + m.notice)
		} else {
			notice = SuccessStyle.Render(" │ " + m.notice)
		}
	}

	return StatusBarStyle.Render(status + logInfo + notice)
}

// helpView renders the help overlay
func (m Model) helpView() string {
	title := HelpTitleStyle.Render("Keyboard Shortcuts")

	help := `
` + HelpKeyStyle.Render("s") + HelpDescStyle.Render("       Start / stop the timer") + `
` + HelpKeyStyle.Render("r") + HelpDescStyle.Render("       Reset the session") + `
` + HelpKeyStyle.Render("g") + HelpDescStyle.Render("       Open a subgoal under the active one") + `
` + HelpKeyStyle.Render("n") + HelpDescStyle.Render("       Open a nested subgoal (needs an active one)") + `
` + HelpKeyStyle.Render("h") + HelpDescStyle.Render("       Close the active subgoal") + `
` + HelpKeyStyle.Render("u") + HelpDescStyle.Render("       Move up without closing") + `
` + HelpKeyStyle.Render("t") + HelpDescStyle.Render("       Append the session to the org log") + `
` + HelpKeyStyle.Render("↑/↓") + HelpDescStyle.Render("     Scroll the subgoal list") + `
` + HelpKeyStyle.Render("d") + HelpDescStyle.Render("       Toggle the debug panel") + `
` + HelpKeyStyle.Render("q") + HelpDescStyle.Render("       Quit") + `
`

	content := title + "\n" + help + "\n" + HelpDescStyle.Render("Press ? or Esc to close")

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		HelpStyle.Render(content),
	)
}
