// Package tui is the interactive terminal front end: a profile form, the
// generated plan and a chat about destinations.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"yatra/internal/domain"
)

// SessionPort is the TUI-facing subset of a planning session.
type SessionPort interface {
	SetProfile(p domain.UserProfile)
	Plan(ctx context.Context) domain.PlanResult
	Ask(ctx context.Context, message string) (reply string, done bool)
	History() []domain.Turn
	Speak(ctx context.Context, text string)
}

type state int

const (
	stateForm state = iota
	statePlanning
	stateChat
	stateDone
)

// form field positions; the style selector sits between duration and city.
const (
	fieldBudget = iota
	fieldInterests
	fieldDuration
	fieldStyle
	fieldCity
	fieldCount
)

type planMsg struct{ result domain.PlanResult }

type answerMsg struct {
	reply string
	done  bool
}

// Options controls optional behaviour.
type Options struct {
	// Speak reads the plan aloud once it is ready.
	Speak bool
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	ctx     context.Context
	session SessionPort
	opts    Options

	state    state
	inputs   [fieldCount]textinput.Model
	styleIdx int
	focus    int

	chat     textinput.Model
	spinner  spinner.Model
	viewport viewport.Model
	plan     domain.PlanResult
	waiting  bool
	status   string
	ready    bool
}

// New creates a new TUI model instance.
func New(ctx context.Context, session SessionPort, opts Options) Model {
	m := Model{ctx: ctx, session: session, opts: opts, status: "Fill in your travel profile. Tab moves, ←/→ picks a style, Enter submits."}
	placeholders := [fieldCount]string{
		fieldBudget:    "e.g. ₹50,000",
		fieldInterests: "comma separated, e.g. beaches, trekking",
		fieldDuration:  "e.g. 7 days",
		fieldCity:      "e.g. Mumbai",
	}
	for i := range m.inputs {
		if i == fieldStyle {
			continue
		}
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Prompt = ""
		ti.CharLimit = 200
		m.inputs[i] = ti
	}
	m.inputs[fieldBudget].Focus()

	m.chat = textinput.New()
	m.chat.Prompt = "> "
	m.chat.Placeholder = "Ask about destinations (exit, quit or bye to leave)"

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.viewport = viewport.New(80, 20)
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and pipeline events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, fh := boxStyle.GetFrameSize()
		vh := msg.Height - 6 - fh
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, vh)
		m.refresh()
		return m, nil
	case spinner.TickMsg:
		if m.state != statePlanning && !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case planMsg:
		m.plan = msg.result
		m.state = stateChat
		m.chat.Focus()
		if msg.result.Report != nil {
			m.status = "Plan saved to " + msg.result.Report.Path
		} else {
			m.status = "Planning failed. You can still ask questions."
		}
		m.refresh()
		if m.opts.Speak && msg.result.OK() {
			return m, m.speakCmd(msg.result.FinalText)
		}
		return m, nil
	case answerMsg:
		m.waiting = false
		if msg.done {
			m.state = stateDone
			m.status = msg.reply
			return m, tea.Quit
		}
		m.status = ""
		m.refresh()
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch m.state {
		case stateForm:
			return m.updateForm(msg)
		case stateChat:
			return m.updateChat(msg)
		}
		return m, nil
	}
	return m.forward(msg)
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus - 1 + fieldCount) % fieldCount)
		return m, nil
	case "left", "right":
		if m.focus == fieldStyle {
			step := 1
			if msg.String() == "left" {
				step = len(domain.Styles) - 1
			}
			m.styleIdx = (m.styleIdx + step) % len(domain.Styles)
			return m, nil
		}
	case "enter":
		if m.focus != fieldCity {
			m.setFocus(m.focus + 1)
			return m, nil
		}
		return m.submit()
	case "ctrl+s":
		return m.submit()
	}
	return m.forward(msg)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	p, err := domain.ParseProfile(m.profileInput())
	if err != nil {
		m.status = "Error: " + err.Error()
		return m, nil
	}
	m.session.SetProfile(p)
	m.state = statePlanning
	m.status = "Planning your trip from " + p.City + "..."
	return m, tea.Batch(m.spinner.Tick, m.planCmd())
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.waiting {
			return m, nil
		}
		q := strings.TrimSpace(m.chat.Value())
		if q == "" {
			return m, nil
		}
		m.chat.Reset()
		m.waiting = true
		m.status = "Thinking..."
		return m, tea.Batch(m.spinner.Tick, m.askCmd(q))
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m.forward(msg)
}

func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case stateForm:
		if m.focus != fieldStyle {
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		}
	case stateChat:
		m.chat, cmd = m.chat.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(i int) {
	if m.focus != fieldStyle {
		m.inputs[m.focus].Blur()
	}
	m.focus = i
	if i != fieldStyle {
		m.inputs[i].Focus()
	}
}

func (m Model) profileInput() domain.ProfileInput {
	return domain.ProfileInput{
		Budget:    m.inputs[fieldBudget].Value(),
		Interests: m.inputs[fieldInterests].Value(),
		Duration:  m.inputs[fieldDuration].Value(),
		Style:     string(domain.Styles[m.styleIdx]),
		City:      m.inputs[fieldCity].Value(),
	}
}

func (m Model) planCmd() tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg { return planMsg{result: session.Plan(ctx)} }
}

func (m Model) askCmd(q string) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		reply, done := session.Ask(ctx, q)
		return answerMsg{reply: reply, done: done}
	}
}

func (m Model) speakCmd(text string) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		session.Speak(ctx, text)
		return nil
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderTranscript())
}
