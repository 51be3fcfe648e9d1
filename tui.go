package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"snipe/action"
	"snipe/dispatch"
	"snipe/keymap"
	"snipe/keys"
)

// TUI message types
type comboMsg dispatch.Match
type outcomeMsg action.Outcome
type keymapMsg struct{}
type tickMsg time.Time

const maxHistory = 5

type tuiModel struct {
	held  func() []keys.Key
	table *keymap.Table

	width, height int
	heldNow       []keys.Key
	entries       []string
	fired         int
	lastCombo     *dispatch.Match
	history       []action.Outcome // newest first
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	liveStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	heldStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	comboStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	resultStyles = map[string]lipgloss.Style{
		"saved":     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"copied":    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"cancelled": lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		"failed":    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

func newTUIModel(held func() []keys.Key, table *keymap.Table) tuiModel {
	m := tuiModel{held: held, table: table}
	m.entries = keymapEntries(table)
	return m
}

func keymapEntries(t *keymap.Table) []string {
	combos := t.Combos()
	out := make([]string, 0, len(combos))
	for _, c := range combos {
		if a, ok := t.Lookup(c); ok {
			out = append(out, fmt.Sprintf("%-22s %s", c, a))
		}
	}
	return out
}

func tuiTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}

	case tickMsg:
		if m.held != nil {
			m.heldNow = m.held()
		}
		return m, tuiTick()

	case comboMsg:
		match := dispatch.Match(msg)
		m.lastCombo = &match
		m.fired++

	case outcomeMsg:
		m.history = append([]action.Outcome{action.Outcome(msg)}, m.history...)
		if len(m.history) > maxHistory {
			m.history = m.history[:maxHistory]
		}

	case keymapMsg:
		m.entries = keymapEntries(m.table)
	}
	return m, nil
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	wrapWidth := max(m.width-4, 10)

	var b strings.Builder
	b.WriteString(titleStyle.Render("snipe") + " " + dimStyle.Render(version) + "\n\n")
	b.WriteString(liveStyle.Render(fmt.Sprintf("● listening, %d combos", len(m.entries))) + "\n")

	held := "-"
	if len(m.heldNow) > 0 {
		held = keys.Format(keys.NewSet(m.heldNow...))
	}
	b.WriteString(dimStyle.Render("held:  ") + heldStyle.Render(held) + "\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("fired: %d", m.fired)) + "\n\n")

	if m.lastCombo != nil {
		line := comboStyle.Render(m.lastCombo.Combo) + dimStyle.Render(" → "+m.lastCombo.Action.String())
		if m.lastCombo.Err != nil {
			line += " " + resultStyles["failed"].Render(m.lastCombo.Err.Error())
		}
		b.WriteString(titleStyle.Render("Last combo") + "\n" + line + "\n\n")
	}

	if len(m.history) > 0 {
		b.WriteString(titleStyle.Render("Results") + "\n")
		for _, o := range m.history {
			b.WriteString(renderOutcome(o, wrapWidth))
		}
		b.WriteString("\n")
	}

	b.WriteString(titleStyle.Render("Keymap") + "\n")
	for _, e := range m.entries {
		b.WriteString(dimStyle.Render("  "+e) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("q or ctrl+c to quit"))

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		PaddingLeft(1).
		Render(b.String())
}

func renderOutcome(o action.Outcome, width int) string {
	style, ok := resultStyles[o.Result]
	if !ok {
		style = dimStyle
	}
	head := fmt.Sprintf("  %-18s %s", o.Action, style.Render(o.Result))
	switch {
	case o.Err != nil:
		head += " " + dimStyle.Render(o.Err.Error())
	case o.Path != "":
		head += " " + dimStyle.Render(o.Path)
	}
	head += dimStyle.Render(fmt.Sprintf(" (%s)", o.Took.Round(time.Millisecond)))
	head += "\n"

	if o.Text == "" {
		return head
	}
	var b strings.Builder
	b.WriteString(head)
	for _, line := range wrapText(strings.ReplaceAll(o.Text, "\n", " "), width-4) {
		b.WriteString("    " + textStyle.Render(line) + "\n")
	}
	return b.String()
}

func wrapText(text string, width int) []string {
	if len(text) == 0 {
		return []string{""}
	}
	if width <= 0 {
		width = 1
	}

	var lines []string
	for len(text) > width {
		// Find last space within width
		splitAt := width
		for i := width; i > 0; i-- {
			if text[i] == ' ' {
				splitAt = i
				break
			}
		}
		lines = append(lines, text[:splitAt])
		text = strings.TrimLeft(text[splitAt:], " ")
	}
	if len(text) > 0 {
		lines = append(lines, text)
	}
	return lines
}

// tuiSink forwards daemon events to the Bubble Tea program. Program.Send
// blocks until the event loop reads, so events go through a buffer and
// are dropped rather than stall the input goroutine.
type tuiSink struct {
	ch chan tea.Msg
}

func newTUISink() *tuiSink {
	return &tuiSink{ch: make(chan tea.Msg, 64)}
}

func (s *tuiSink) start(d *dispatch.Dispatcher, table *keymap.Table) *tea.Program {
	p := tea.NewProgram(newTUIModel(d.Held, table), tea.WithAltScreen())
	go func() {
		for msg := range s.ch {
			p.Send(msg)
		}
	}()
	return p
}

func (s *tuiSink) send(msg tea.Msg) {
	select {
	case s.ch <- msg:
	default:
	}
}

func (s *tuiSink) ComboFired(m dispatch.Match) { s.send(comboMsg(m)) }
func (s *tuiSink) ActionDone(o action.Outcome) { s.send(outcomeMsg(o)) }
func (s *tuiSink) KeymapChanged()              { s.send(keymapMsg{}) }
