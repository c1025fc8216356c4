// Package repl provides an interactive template preview console. Typed
// templates are rendered live against the document snapshot as you type, and
// stored texts can be browsed without leaving the console.
package repl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/axleworks/partext/log"
	"github.com/axleworks/partext/snapshot"
	"github.com/axleworks/partext/store"
	"github.com/axleworks/partext/tmpl"
)

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help      Print this cruft
  params    List snapshot parameters
  texts     List stored texts
  sketch    Show or select the active sketch
  clear     Clear screen
  quit      Exit REPL

Usage:
  Type template text to render it ({param}, {_.component}, ...)
  The rendered result previews live below the input line
  Completions appear automatically inside { } tokens
  Press Tab / Shift-Tab to cycle through candidates
  Press Esc to toggle between eval and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// formatCommand formats the eval echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(evalPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and
// input styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	snap         *snapshot.Snapshot
	st           *store.Store
	gen          *tmpl.Generator
	entity       tmpl.Entity
	sketch       string
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches // current fuzzy match results
	candidates   []string      // backing candidate list
	wordStart    int           // byte offset of current word start
	wordEnd      int           // byte offset of current word end
	suggIdx      int           // selected candidate index
	tabActive    bool          // whether user is tab-cycling
	preTabText   string        // input text before tab-cycling began
	preTabCursor int           // cursor position before tab-cycling began
	width        int           // terminal width for ellipsization
	quitting     bool
	mode         inputMode
	evalText     string
	evalCursor   int
	ctrlText     string
	ctrlCursor   int
}

// Run starts the REPL against the given snapshot and text store.
func Run(
	ctx context.Context,
	snap *snapshot.Snapshot,
	st *store.Store,
	cacheDir string,
	sketch string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", cacheDir),
		slog.String("sketch", sketch),
	)

	if snap == nil {
		return ErrNoSnapshot
	}

	history := NewHistory(filepath.Join(cacheDir, baseHistory))
	if err := history.Load(); err != nil {
		fmt.Printf("Warning: could not load history: %v\n", err)
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, snap, st, history, logger)
	if sketch != "" {
		m, _ = m.selectSketch(sketch)
	}

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	snap *snapshot.Snapshot,
	st *store.Store,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		snap:       snap,
		st:         st,
		gen:        tmpl.New(snap),
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeEval,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Input line.
	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	// Check if we're viewing history
	viewingHistory := m.historyIdx < m.history.Len()

	switch {
	case viewingHistory:
		// Show history position indicator
		pos := m.historyIdx + 1 // 1-based for display
		total := m.history.Len()
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(pos)),
			total)
		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case strings.TrimSpace(input) == "":
		// Empty or whitespace-only input: show hint.
		var hint string
		if m.mode == modeEval {
			hint = "Type template text or press Esc for commands"
		} else {
			hint = "Type: help, params, texts, sketch, clear, quit (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case len(m.matches) > 0:
		// Render horizontal candidate bar.
		bar := renderCandidateBar(
			m.matches, m.suggIdx, m.tabActive, m.width,
		)
		b.WriteString(bar)
		b.WriteString("\n")

	case m.mode == modeEval:
		// Live preview of the rendered template.
		b.WriteString(resultStyle.Render(m.render(input)))
		b.WriteString("\n")

	default:
		// Non-empty input but no matches: blank line.
		b.WriteString("\n")
	}

	return b.String()
}

// render expands template text against the snapshot and active sketch.
func (m model) render(template string) string {
	return m.gen.Generate(template, m.entity)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl keypress",
		slog.String("key", msg.String()),
		slog.Int("type", int(msg.Type)),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if !m.tabActive || len(m.matches) == 0 {
			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.handleTab()

	case tea.KeyShiftTab:
		return m.handleShiftTab()

	case tea.KeyUp:
		return m.historyPrev()

	case tea.KeyDown:
		return m.historyNext()

	case tea.KeyShiftUp:
		return m.historyPrevInMode()

	case tea.KeyShiftDown:
		return m.historyNextInMode()

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		return m.toggleMode()

	case tea.KeyRunes:
		// Check for space as "breaking" key while tab-cycling.
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		// Reset history index when typing
		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	// For any other key (backspace, delete, arrows, etc.),
	// update input and recompute matches without auto-confirm.
	var cmd tea.Cmd

	m.tabActive = false
	// Reset history index when typing
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

func (m model) handleTab() (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		// Cycle forward through candidates.
		m.suggIdx++
		if m.suggIdx >= len(m.matches) {
			m.suggIdx = 0
		}
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = 0
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

func (m model) handleShiftTab() (model, tea.Cmd) {
	if len(m.matches) == 0 {
		return m, nil
	}

	// Single candidate: complete and confirm immediately.
	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m, nil
	}

	if m.tabActive {
		// Cycle backward through candidates.
		m.suggIdx--
		if m.suggIdx < 0 {
			m.suggIdx = len(m.matches) - 1
		}
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = len(m.matches) - 1
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m, nil
}

// replaceCurrentWord replaces the current word boundaries in the input with
// the given replacement text and repositions the cursor.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	newInput := input[:m.wordStart] + replacement + input[m.wordEnd:]
	newCursor := m.wordStart + len(replacement)

	m.input.SetValue(newInput)
	m.input.SetCursor(newCursor)

	// Update word boundaries for the replaced text.
	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also auto-confirms the completion when exactly
// one candidate remains and the typed word already equals that candidate.
// autoConfirm should be false for deletions and cursor navigation so that
// the user can freely edit without unexpected completions.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	// Auto-confirm when the typed word already equals the sole candidate.
	candidate := m.matches[0].Str
	word := m.input.Value()[m.wordStart:m.wordEnd]

	if word == candidate {
		replaceCurrentWord(m, candidate)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	// Reset both mode inputs after submission
	m.evalText = ""
	m.evalCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")

	if m.mode == modeCtrl {
		// Control mode - add to history and execute command
		_, _ = m.history.WriteWithMode(input, modeCtrl)
		m.historyIdx = m.history.Len()
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl command",
			slog.String("input", input),
		)

		return m.executeCommand(input)
	}

	// Eval mode - add to history and render
	_, _ = m.history.WriteWithMode(input, modeEval)
	m.historyIdx = m.history.Len()
	m.logger.TraceContext(
		m.ctxFunc(),
		"repl render",
		slog.String("input", input),
	)

	return m, tea.Sequence(
		tea.Println(formatCommand(input)),
		tea.Println(resultStyle.Render(m.render(input))),
	)
}

func (m model) executeCommand(
	input string,
) (model, tea.Cmd) {
	// Parse command and arguments
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	echoCmd := tea.Println(formatCtrlCommand(input))

	cmd := parts[0]
	args := parts[1:]

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl exec command",
		slog.String("command", cmd),
		slog.Any("args", args),
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echoCmd, tea.Println(m.helpView()))

	case "p", "params":
		return m, tea.Sequence(echoCmd, tea.Println(m.listParameters()))

	case "t", "texts":
		return m, tea.Sequence(echoCmd, tea.Println(m.listTexts()))

	case "s", "sketch":
		if len(args) == 0 {
			return m, tea.Sequence(echoCmd, tea.Println(m.listSketches()))
		}

		var selectCmd tea.Cmd

		m, selectCmd = m.selectSketch(args[0])

		return m, tea.Sequence(echoCmd, selectCmd)

	case "c", "clear":
		return m, tea.ClearScreen

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}
}

func (m model) helpView() string { return helpMessage() }

// listParameters formats every snapshot parameter with its expression and
// comment as a preview.
func (m model) listParameters() string {
	var b strings.Builder

	for _, name := range m.snap.ParameterNames() {
		p, _ := m.snap.Parameter(name)

		preview := p.Expression
		if p.Comment != "" {
			preview += "  // " + p.Comment
		}

		b.WriteString(fmt.Sprintf("  %s %s\n", name, hintStyle.Render(preview)))
	}

	return b.String()
}

// listTexts formats every stored text with its rendered preview.
func (m model) listTexts() string {
	texts, err := m.st.All(m.ctxFunc())
	if err != nil {
		return errorStyle.Render("error: " + err.Error())
	}

	var b strings.Builder

	for _, t := range texts {
		b.WriteString(fmt.Sprintf("  %d %s %s\n",
			t.ID,
			inputStyle.Render(t.Template),
			hintStyle.Render(m.render(t.Template)),
		))
	}

	return b.String()
}

// listSketches formats the snapshot's sketches, marking the active one.
func (m model) listSketches() string {
	var b strings.Builder

	for _, name := range m.snap.SketchNames() {
		marker := " "
		if name == m.sketch {
			marker = "*"
		}

		b.WriteString(fmt.Sprintf("  %s %s\n", marker, name))
	}

	return b.String()
}

// selectSketch makes the named sketch the active render context.
func (m model) selectSketch(name string) (model, tea.Cmd) {
	entity, ok := m.snap.Entity(name)
	if !ok {
		return m, tea.Println(
			errorStyle.Render("Unknown sketch: " + name + " (try 'sketch')"),
		)
	}

	m.entity = entity
	m.sketch = name

	return m, tea.Println(resultStyle.Render("sketch: " + name))
}

func (m model) historyPrev() (model, tea.Cmd) {
	if m.historyIdx > 0 {
		m.historyIdx--

		if entry, err := m.history.GetEntry(m.historyIdx); err == nil {
			// Switch mode if needed
			if m.mode != entry.Mode {
				m, _ = m.switchToMode(entry.Mode)
			}

			m.input.SetValue(entry.Line)
			m.input.SetCursor(len(entry.Line))
			refreshMatches(&m, false)
		}
	}

	return m, nil
}

func (m model) historyNext() (model, tea.Cmd) {
	if m.historyIdx < m.history.Len()-1 {
		m.historyIdx++

		if entry, err := m.history.GetEntry(m.historyIdx); err == nil {
			// Switch mode if needed
			if m.mode != entry.Mode {
				m, _ = m.switchToMode(entry.Mode)
			}

			m.input.SetValue(entry.Line)
			m.input.SetCursor(len(entry.Line))
			refreshMatches(&m, false)
		}
	} else {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

func (m model) historyPrevInMode() (model, tea.Cmd) {
	currentMode := m.mode

	for i := m.historyIdx - 1; i >= 0; i-- {
		if entry, err := m.history.GetEntry(i); err == nil {
			if entry.Mode == currentMode {
				m.historyIdx = i
				m.input.SetValue(entry.Line)
				m.input.SetCursor(len(entry.Line))
				refreshMatches(&m, false)

				return m, nil
			}
		}
	}

	return m, nil
}

func (m model) historyNextInMode() (model, tea.Cmd) {
	currentMode := m.mode

	for i := m.historyIdx + 1; i < m.history.Len(); i++ {
		if entry, err := m.history.GetEntry(i); err == nil {
			if entry.Mode == currentMode {
				m.historyIdx = i
				m.input.SetValue(entry.Line)
				m.input.SetCursor(len(entry.Line))
				refreshMatches(&m, false)

				return m, nil
			}
		}
	}

	// Reached end of mode-specific history, clear input
	if m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

// toggleMode switches between eval and control modes, preserving input state.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeEval {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeEval)
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	// Save current mode's input
	if m.mode == modeEval {
		m.evalText = m.input.Value()
		m.evalCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	// Switch to target mode
	m.mode = mode
	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue(m.evalText)
		m.input.SetCursor(m.evalCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
