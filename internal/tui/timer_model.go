package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/vibetrack/internal/models"
	"github.com/balkashynov/vibetrack/internal/parser"
)

// ElapsedSource is polled once per tick for the live elapsed time
type ElapsedSource interface {
	ElapsedSeconds() int
	Active() *models.Session
}

// Totals are the finalized totals shown beside the clock; the live
// session's elapsed time is added at render time
type Totals struct {
	TodaySeconds int
	WeekSeconds  int
}

// TimerModel represents the TUI model for the live timer
type TimerModel struct {
	width  int
	height int

	source  ElapsedSource
	session *models.Session // nil when nothing is running
	totals  Totals

	elapsed int

	// Animation state
	timerAnimation int

	help help.Model

	// UI state
	stopping bool // user pressed S
	exiting  bool // user left without stopping
}

// timerTickMsg is sent every second to refresh the elapsed time
type timerTickMsg struct{}

// animationTickMsg is sent for faster animations
type animationTickMsg struct{}

// NewTimerModel creates a timer model reading from source
func NewTimerModel(source ElapsedSource, totals Totals) TimerModel {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorHelpText))
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))

	return TimerModel{
		source:  source,
		session: source.Active(),
		totals:  totals,
		elapsed: source.ElapsedSeconds(),
		help:    h,
	}
}

func tickTimer() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return timerTickMsg{}
	})
}

func tickAnimation() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

// Init starts the tickers; an idle timer gets none
func (m TimerModel) Init() tea.Cmd {
	if m.session == nil {
		return nil
	}
	return tea.Batch(tickTimer(), tickAnimation())
}

func (m TimerModel) done() bool {
	return m.stopping || m.exiting || m.session == nil
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		// Display refresh only; the session is not touched
		m.elapsed = m.source.ElapsedSeconds()
		if m.done() {
			return m, nil
		}
		return m, tickTimer()

	case animationTickMsg:
		m.timerAnimation = (m.timerAnimation + 1) % 4
		if m.done() {
			return m, nil
		}
		return m, tickAnimation()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, timerKeys.Stop):
			if m.session != nil {
				m.stopping = true
			}
			return m, tea.Quit
		case key.Matches(msg, timerKeys.Leave), key.Matches(msg, timerKeys.Quit):
			m.exiting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the timer TUI
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - 2

	if m.session == nil {
		idle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Width(m.width).
			Height(contentHeight).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No session running.\nStart one with 'vibetrack start <discipline>'.")
		return lipgloss.JoinVertical(lipgloss.Left, idle, helpBar)
	}

	// Narrow view: just the clock
	if m.width < 90 {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			m.renderTimerPanel(m.width, contentHeight),
			helpBar,
		)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTimerPanel(leftWidth, contentHeight),
		"  ",
		m.renderTotalsPanel(rightWidth, contentHeight),
	)

	return lipgloss.JoinVertical(lipgloss.Left, content, helpBar)
}

// renderTimerPanel renders the clock with the discipline above it
func (m TimerModel) renderTimerPanel(width, height int) string {
	var components []string

	animChars := []string{"⏱", "⏲", "⏱", "⏲"}
	animChar := animChars[m.timerAnimation]
	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)
	components = append(components, headerStyle.Render(fmt.Sprintf("%s  TRACKING TIME  %s", animChar, animChar)))

	discipline := m.session.Discipline
	nameStyle := lipgloss.NewStyle().
		Foreground(DisciplineColor(discipline.ColorTag)).
		Bold(true).
		Align(lipgloss.Center).
		Width(width)
	name := discipline.Name
	if width > 7 && len(name) > width-4 {
		name = name[:width-7] + "..."
	}
	components = append(components, nameStyle.Render(name))

	clockLines := strings.Split(renderBigClock(m.elapsed), "\n")
	centered := make([]string, len(clockLines))
	for i, line := range clockLines {
		centered[i] = lipgloss.NewStyle().Align(lipgloss.Center).Width(width).Render(line)
	}
	components = append(components, strings.Join(centered, "\n"))

	sessionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(width)
	started := m.session.StartedAt.Local().Format("15:04:05")
	components = append(components, sessionStyle.Render("Started at "+started))

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))
}

// renderTotalsPanel renders today's and this week's totals including the live session
func (m TimerModel) renderTotalsPanel(width, height int) string {
	discipline := m.session.Discipline

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(DisciplineColor(discipline.ColorTag)).
		Width(max(width-12, 10)).
		Padding(0, 1)

	lineStyle := lipgloss.NewStyle().Align(lipgloss.Center).Width(max(width-8, 10))
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	value := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Bold(true)

	rows := []string{
		titleStyle.Render(Swatch(discipline.ColorTag) + " " + discipline.Name),
		"",
		lineStyle.Render(label.Render("Session  ") + value.Render(parser.FormatHMS(m.elapsed))),
		lineStyle.Render(label.Render("Today    ") + value.Render(parser.FormatHM(m.totals.TodaySeconds+m.elapsed))),
		lineStyle.Render(label.Render("Week     ") + value.Render(parser.FormatHM(m.totals.WeekSeconds+m.elapsed))),
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(rows, "\n"))
}

// renderHelpBar renders the key help at the bottom
func (m TimerModel) renderHelpBar() string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(m.width).
		Render(m.help.View(timerKeys))
}

// bigDigits are 5x5 glyphs for the clock
var bigDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// renderBigClock renders elapsed seconds as MM:SS, or HH:MM:SS past an hour
func renderBigClock(seconds int) string {
	timeStr := parser.FormatHMS(seconds)
	if seconds < 3600 {
		timeStr = timeStr[3:]
	}

	var lines [5]strings.Builder
	for _, char := range timeStr {
		glyph, ok := bigDigits[char]
		if !ok {
			continue
		}
		for i := range lines {
			lines[i].WriteString(glyph[i])
			lines[i].WriteString(" ")
		}
	}

	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true)

	rendered := make([]string, len(lines))
	for i := range lines {
		rendered[i] = clockStyle.Render(lines[i].String())
	}
	return strings.Join(rendered, "\n")
}
