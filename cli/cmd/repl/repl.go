package repl

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/vxs/groups"
	"github.com/ardnew/vxs/lang"
	"github.com/ardnew/vxs/log"
)

// editTemplateMsg is sent when template editing completes successfully.
type editTemplateMsg struct{ template string }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editErrorMsg is sent when the edit process encounters an error.
type editErrorMsg struct{ err error }

const (
	renderPrompt = "➜ "
	ctrlPrompt   = " :"
)

func helpMessage() string {
	return `
: Commands (press Esc to toggle mode):

  help                    Print this cruft
  groups                  List registered groups
  modifiers [type]        List modifiers (function, control or method)
  use <kind> <id>         Select the post, user, order, term or status (0 clears)
  set <key>=<value>       Set a query variable (empty value removes it)
  loop <tag> <template>   Render template once per item of an object list
  edit                    Edit the last template in external $EDITOR
  clear                   Clear screen
  quit                    Exit REPL

Usage:
  Type a template to render it, e.g. Hello @user(display_name)!
  Completions appear automatically after '@', '(' and '.'
  Press Tab / Shift-Tab to cycle through candidates
  Press Space to accept the current candidate
  Press Esc to toggle between render and command modes
  Use Up/Down arrows for history navigation (mode switches automatically)
  Use Shift+Up/Shift+Down for history navigation within current mode only
  Use Alt+Up/Alt+Down to switch to command mode and navigate command history
    (restores original mode when reaching end of history)
  Press Ctrl+C on empty line or Ctrl+D to exit
`
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeRender inputMode = iota
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
	matchStyle      = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4")).
			Bold(true).
			Underline(true)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.
				Bold(true).
				Underline(true)
)

// formatCommand formats the template echo line with prompt and input styled.
func formatCommand(input string) string {
	return promptStyle.Render(renderPrompt) + inputStyle.Render(input)
}

// formatCtrlCommand formats the control command echo line with prompt and input
// styled.
func formatCtrlCommand(input string) string {
	return ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(input)
}

// ScopeFunc builds the scope templates are rendered in for the given entity
// selection and query variables.
type ScopeFunc func(sel groups.Selection, vars map[string]string) (*lang.Scope, error)

// Session is the initial state of a REPL session.
type Session struct {
	NewScope  ScopeFunc
	Selection groups.Selection
	Vars      map[string]string
	CacheDir  string
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc          func() context.Context
	input            textinput.Model
	scope            *lang.Scope
	newScope         ScopeFunc
	sel              groups.Selection
	vars             map[string]string
	logger           log.Logger
	history          *History
	historyIdx       int
	lastTemplate     string        // most recently rendered template
	matches          fuzzy.Matches // current fuzzy match results
	candidates       []string      // backing candidate list
	wordStart        int           // byte offset of current word start
	wordEnd          int           // byte offset of current word end
	suggIdx          int           // selected candidate index
	tabActive        bool          // whether user is tab-cycling
	preTabText       string        // input text before tab-cycling began
	preTabCursor     int           // cursor position before tab-cycling began
	altNavActive     bool          // whether user is in Alt+Up/Down navigation
	altNavOrigMode   inputMode     // original mode before Alt navigation
	altNavOrigText   string        // original text before Alt navigation
	altNavOrigCursor int           // original cursor position before Alt navigation
	width            int           // terminal width for ellipsization
	quitting         bool
	mode             inputMode
	renderText       string
	renderCursor     int
	ctrlText         string
	ctrlCursor       int
}

// Run starts the REPL for the given session.
func Run(ctx context.Context, sess Session, logger log.Logger) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(
		ctx,
		"repl start",
		slog.String("cache_dir", sess.CacheDir),
		slog.Any("vars", sess.Vars),
	)

	if sess.NewScope == nil {
		return ErrNoScope
	}

	vars := maps.Clone(sess.Vars)
	if vars == nil {
		vars = make(map[string]string)
	}

	scope, err := sess.NewScope(sess.Selection, vars)
	if err != nil {
		return err
	}

	logger.TraceContext(
		ctx,
		"repl scope ready",
		slog.Any("groups", scope.GroupKeys()),
	)

	history := NewHistory(filepath.Join(sess.CacheDir, baseHistory))
	if err := history.Load(); err != nil {
		fmt.Printf("Warning: could not load history: %v\n", err)
	}

	logger.TraceContext(
		ctx,
		"repl history loaded",
		slog.Int("entry_count", history.Len()),
	)

	m := newModel(ctx, scope, history, logger)
	m.newScope = sess.NewScope
	m.sel = sess.Selection
	m.vars = vars

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(
	ctx context.Context,
	scope *lang.Scope,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(renderPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		scope:      scope,
		vars:       make(map[string]string),
		logger:     logger,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		mode:       modeRender,
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
		m.input.Width = msg.Width - len(renderPrompt) - 2

		return m, nil

	case editTemplateMsg:
		m.lastTemplate = msg.template
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl edit complete",
			slog.Int("template_bytes", len(msg.template)),
		)

		return m, tea.Println(resultStyle.Render(m.scope.Render(msg.template)))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("🗴 — edit cancelled."))

	case editErrorMsg:
		return m, tea.Println(
			errorStyle.Render("🗴 — error: " + msg.err.Error()),
		)
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

	// Completion / hint line.
	input := m.input.Value()
	cursor := min(m.input.Position(), len(input))

	// Check if we're viewing history
	viewingHistory := m.historyIdx < m.history.Len()

	var at cursorContext
	if m.mode == modeRender {
		at = scan(input[:cursor])
	}

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
		if m.mode == modeRender {
			hint = "Type a template or press Esc for commands"
		} else {
			hint = "Type: " + strings.Join(ctrlCommands, ", ") + " (press Esc to return)"
		}

		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")

	case at.kind == cursorArgument && len(m.matches) == 0:
		// Show modifier signature with the current argument highlighted.
		signature, params := getSignature(m.scope.Registry(), at.modifier)

		var label string
		if mod, ok := m.scope.Registry().Lookup(at.modifier); ok {
			label = mod.Label()
		}

		b.WriteString(renderSignatureHint(signature, params, at.argIndex, label))
		b.WriteString("\n")

	case len(m.matches) > 0:
		// Render horizontal candidate bar.
		bar := renderCandidateBar(
			m.matches, m.suggIdx, m.tabActive, m.width,
		)
		b.WriteString(bar)
		b.WriteString("\n")

	default:
		// Non-empty input but no matches: blank line.
		b.WriteString("\n")
	}

	return b.String()
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
		m.altNavActive = false
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
			m.altNavActive = false

			return m.executeInput()
		}
		// Lock in the current tab candidate without executing.
		m.tabActive = false
		m.altNavActive = false
		refreshMatches(&m, true)

		return m, nil

	case tea.KeyTab:
		return m.handleTab()

	case tea.KeyShiftTab:
		return m.handleShiftTab()

	case tea.KeyUp:
		if msg.Alt {
			return m.historyStepCtrl(-1)
		}

		return m.historyPrev()

	case tea.KeyDown:
		if msg.Alt {
			return m.historyStepCtrl(1)
		}

		return m.historyNext()

	case tea.KeyShiftUp:
		return m.historyStepInMode(-1)

	case tea.KeyShiftDown:
		return m.historyStepInMode(1)

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		m.altNavActive = false

		return m.toggleMode()

	case tea.KeyRunes, tea.KeySpace:
		// Space is a "breaking" key while tab-cycling.
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
	m.altNavActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

func (m model) handleTab() (model, tea.Cmd) {
	return m.cycle(1)
}

func (m model) handleShiftTab() (model, tea.Cmd) {
	return m.cycle(-1)
}

// cycle moves the selected candidate by step, wrapping around.
func (m model) cycle(step int) (model, tea.Cmd) {
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

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	default:
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = len(m.matches) - 1
		}
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

	m.wordEnd = newCursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
// When autoConfirm is true it also auto-confirms the completion when exactly
// one candidate remains and the typed word already equals that candidate.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	candidate := m.matches[0].Str
	word := m.input.Value()[m.wordStart:m.wordEnd]

	if word == candidate {
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
	m.renderText = ""
	m.renderCursor = 0
	m.ctrlText = ""
	m.ctrlCursor = 0
	m.input.SetValue("")
	m.matches = nil

	_, _ = m.history.Write(input, m.mode)
	m.historyIdx = m.history.Len()

	if m.mode == modeCtrl {
		m.logger.TraceContext(
			m.ctxFunc(),
			"repl command",
			slog.String("input", input),
		)

		return m.executeCommand(input)
	}

	m.logger.TraceContext(
		m.ctxFunc(),
		"repl render",
		slog.String("input", input),
	)

	m.lastTemplate = input

	return m, tea.Sequence(
		tea.Println(formatCommand(input)),
		tea.Println(resultStyle.Render(m.scope.Render(input))),
	)
}

func (m model) executeCommand(input string) (model, tea.Cmd) {
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

	var (
		out string
		err error
	)

	switch cmd {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echoCmd, tea.Quit)

	case "h", "help":
		out = helpMessage()

	case "g", "groups":
		out = m.listGroups()

	case "m", "modifiers":
		out = m.listModifiers(args...)

	case "u", "use":
		m, err = m.use(args)
		if err == nil {
			out = m.listGroups()
		}

	case "s", "set":
		m, err = m.set(args)
		if err == nil {
			out = m.listVars()
		}

	case "l", "loop":
		out, err = m.loop(strings.TrimSpace(strings.TrimPrefix(input, cmd)))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echoCmd, m.handleEdit())

	default:
		return m, tea.Println(
			errorStyle.Render("Unknown command: " + cmd + " (try 'help')"),
		)
	}

	if err != nil {
		return m, tea.Sequence(
			echoCmd,
			tea.Println(errorStyle.Render("error: "+err.Error())),
		)
	}

	return m, tea.Sequence(echoCmd, tea.Println(out))
}

// use selects the entity of a kind and rebuilds the scope.
func (m model) use(args []string) (model, error) {
	if len(args) != 2 {
		return m, fmt.Errorf("%w: use <kind> <id>", ErrUsage)
	}

	id, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return m, fmt.Errorf("%w %q: %w", ErrInvalidID, args[1], err)
	}

	sel := m.sel

	switch args[0] {
	case "post":
		sel.Post = id
	case "user":
		sel.User = id
	case "order":
		sel.Order = id
	case "term":
		sel.Term = id
	case "status":
		sel.Status = id
	default:
		return m, fmt.Errorf("%w %q", ErrUnknownKind, args[0])
	}

	return m.rebuild(sel, m.vars)
}

// set assigns or removes a query variable and rebuilds the scope.
func (m model) set(args []string) (model, error) {
	if len(args) != 1 {
		return m, fmt.Errorf("%w: set <key>=<value>", ErrUsage)
	}

	key, value, ok := strings.Cut(args[0], "=")
	if !ok || key == "" {
		return m, fmt.Errorf("%w: set <key>=<value>", ErrUsage)
	}

	vars := maps.Clone(m.vars)
	if value == "" {
		delete(vars, key)
	} else {
		vars[key] = value
	}

	return m.rebuild(m.sel, vars)
}

func (m model) rebuild(sel groups.Selection, vars map[string]string) (model, error) {
	if m.newScope == nil {
		return m, ErrNoScope
	}

	s, err := m.newScope(sel, vars)
	if err != nil {
		return m, err
	}

	m.scope, m.sel, m.vars = s, sel, vars

	return m, nil
}

// loop renders "<tag> <template>" once per item of the tag's object list.
func (m model) loop(args string) (string, error) {
	source, template, ok := strings.Cut(args, " ")
	if !ok {
		return "", fmt.Errorf("%w: loop <tag> <template>", ErrUsage)
	}

	out, err := lang.RenderLoop(m.scope, source, strings.TrimSpace(template))
	if err != nil {
		return "", err
	}

	return resultStyle.Render(out), nil
}

func (m model) handleEdit() tea.Cmd {
	cmd := &editTemplateCommand{
		template: m.lastTemplate,
		ctxFunc:  m.ctxFunc,
		logger:   m.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.edited == "" {
			return editCancelledMsg{}
		}

		return editTemplateMsg{template: cmd.edited}
	})
}

func (m model) listGroups() string {
	var b strings.Builder

	for _, g := range m.scope.Groups() {
		b.WriteString(fmt.Sprintf("  %-8s %s", g.Key(), hintStyle.Render(g.Label())))

		if methods := g.Methods(); len(methods) > 0 {
			b.WriteString(hintStyle.Render(" ." + strings.Join(methods, "() .") + "()"))
		}

		b.WriteString("\n")
	}

	return b.String()
}

// listModifiers lists the registered modifiers, optionally only those of the
// named types.
func (m model) listModifiers(types ...string) string {
	var b strings.Builder

	for _, mod := range m.scope.Registry().Modifiers() {
		if len(types) > 0 && !slices.Contains(types, mod.Type().String()) {
			continue
		}

		signature, _ := getSignature(m.scope.Registry(), mod.Key())
		b.WriteString(fmt.Sprintf("  %-36s %s\n",
			signature, hintStyle.Render(mod.Type().String()+": "+mod.Label())))
	}

	return b.String()
}

func (m model) listVars() string {
	var b strings.Builder

	for _, key := range slices.Sorted(maps.Keys(m.vars)) {
		b.WriteString(fmt.Sprintf("  %s=%s\n", key, m.vars[key]))
	}

	return b.String()
}

func (m model) historyPrev() (model, tea.Cmd) {
	if m.historyIdx > 0 {
		m.historyIdx--
		m = m.showEntry(m.historyIdx, true)
	}

	return m, nil
}

func (m model) historyNext() (model, tea.Cmd) {
	if m.historyIdx < m.history.Len()-1 {
		m.historyIdx++
		m = m.showEntry(m.historyIdx, true)
	} else {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

// showEntry loads history entry i into the input, switching to its mode when
// follow is set.
func (m model) showEntry(i int, follow bool) model {
	entry, err := m.history.Entry(i)
	if err != nil {
		return m
	}

	if follow && m.mode != entry.Mode {
		m, _ = m.switchToMode(entry.Mode)
	}

	m.historyIdx = i
	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	refreshMatches(&m, false)

	return m
}

// findEntry returns the index of the nearest entry of mode in direction step
// from the current history index, or -1.
func (m model) findEntry(mode inputMode, step int) int {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		if entry, err := m.history.Entry(i); err == nil && entry.Mode == mode {
			return i
		}
	}

	return -1
}

func (m model) historyStepInMode(step int) (model, tea.Cmd) {
	if i := m.findEntry(m.mode, step); i >= 0 {
		return m.showEntry(i, false), nil
	}

	// Reached end of mode-specific history, clear input
	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.input.SetValue("")
		refreshMatches(&m, false)
	}

	return m, nil
}

func (m model) historyStepCtrl(step int) (model, tea.Cmd) {
	// Save original state on first Alt navigation
	if !m.altNavActive {
		m.altNavActive = true
		m.altNavOrigMode = m.mode
		m.altNavOrigText = m.input.Value()
		m.altNavOrigCursor = m.input.Position()

		if m.mode != modeCtrl {
			m, _ = m.switchToMode(modeCtrl)
		}
	}

	if i := m.findEntry(modeCtrl, step); i >= 0 {
		return m.showEntry(i, false), nil
	}

	// Reached the end of ctrl history - restore original state
	m.altNavActive = false
	if m.altNavOrigMode != m.mode {
		m, _ = m.switchToMode(m.altNavOrigMode)
	}

	m.input.SetValue(m.altNavOrigText)
	m.input.SetCursor(m.altNavOrigCursor)
	m.historyIdx = m.history.Len()
	refreshMatches(&m, false)

	return m, nil
}

// toggleMode switches between render and control modes, preserving input
// state.
func (m model) toggleMode() (model, tea.Cmd) {
	if m.mode == modeRender {
		return m.switchToMode(modeCtrl)
	}

	return m.switchToMode(modeRender)
}

// switchToMode switches to the specified mode, preserving input state.
func (m model) switchToMode(mode inputMode) (model, tea.Cmd) {
	if m.mode == modeRender {
		m.renderText = m.input.Value()
		m.renderCursor = m.input.Position()
	} else {
		m.ctrlText = m.input.Value()
		m.ctrlCursor = m.input.Position()
	}

	m.mode = mode
	if mode == modeRender {
		m.input.Prompt = promptStyle.Render(renderPrompt)
		m.input.SetValue(m.renderText)
		m.input.SetCursor(m.renderCursor)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
		m.input.SetValue(m.ctrlText)
		m.input.SetCursor(m.ctrlCursor)
	}

	refreshMatches(&m, false)

	return m, nil
}
