package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/jwebster45206/aftermath/pkg/engine"
	"github.com/jwebster45206/aftermath/pkg/state"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const AppName = "AFTERMATH"

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config           *ConsoleConfig
	client           *http.Client
	playerID         uuid.UUID
	view             *engine.DailyView
	lastOutcome      *engine.Outcome
	selected         int
	timelineViewport viewport.Model
	ready            bool
	width            int
	height           int
	err              error
	status           string
	loading          bool
	now              func() time.Time
}

type todayMsg struct {
	view *engine.DailyView
	err  error
}

type choiceMsg struct {
	outcome *engine.Outcome
	err     error
}

type clipboardMsg struct {
	err error
}

type tickMsg time.Time

var upper = cases.Upper(language.Und)

var (
	cardPanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(3).
			PaddingRight(2)

	timelinePanelStyle = lipgloss.NewStyle().
				PaddingTop(1).
				PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	kickerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")). // green
			Italic(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	endingStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Foreground(lipgloss.Color("255")).
			Bold(true).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, playerID uuid.UUID) ConsoleUI {
	vp := viewport.New(30, 20)
	vp.MouseWheelEnabled = true

	return ConsoleUI{
		config:           cfg,
		client:           client,
		playerID:         playerID,
		timelineViewport: vp,
		loading:          true,
		now:              time.Now,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.loadToday(), tick())
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var vpCmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		_, timelineWidth := m.panelWidths()
		m.timelineViewport.Width = timelineWidth - 2
		m.timelineViewport.Height = m.height - 4
		m.ready = true
		m.writeTimeline()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.view != nil && m.view.Decision != nil && m.selected < len(m.view.Decision.Choices)-1 {
				m.selected++
			}
			return m, nil
		case "enter":
			if m.loading || m.view == nil || m.view.Locked || m.view.Decision == nil {
				return m, nil
			}
			m.loading = true
			m.err = nil
			return m, m.sendChoice(m.view.Decision.ID, m.selected)
		case "r":
			m.loading = true
			return m, m.loadToday()
		case "y":
			if m.view == nil {
				return m, nil
			}
			return m, copyTimeline(m.view.Timeline)
		}

	case todayMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if m.view == nil || m.view.Day != msg.view.Day {
			m.selected = 0
		}
		if msg.view.Day != m.dayOfLastOutcome() {
			m.lastOutcome = nil
		}
		m.view = msg.view
		m.err = nil
		m.writeTimeline()

	case choiceMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			if errors.Is(msg.err, errAlreadyChosen) {
				return m, m.loadToday()
			}
			return m, nil
		}
		m.lastOutcome = msg.outcome
		m.status = ""
		return m, m.loadToday()

	case clipboardMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("Copy failed: " + msg.err.Error())
		} else {
			m.status = promptStyle.Render("Timeline copied to clipboard.")
		}

	case tickMsg:
		// A new day unlocks the next decision without user input.
		if m.view != nil && !m.loading && !time.Time(msg).Before(m.view.NextDay) {
			m.loading = true
			return m, tea.Batch(m.loadToday(), tick())
		}
		return m, tick()
	}

	m.timelineViewport, vpCmd = m.timelineViewport.Update(msg)
	return m, vpCmd
}

func (m ConsoleUI) dayOfLastOutcome() state.DateKey {
	if m.lastOutcome == nil {
		return ""
	}
	return m.lastOutcome.Entry.Day
}

func (m ConsoleUI) panelWidths() (card, timeline int) {
	card = int(float64(m.width)*0.6) - 2
	timeline = m.width - card - 4
	return card, timeline
}

func (m *ConsoleUI) writeTimeline() {
	if m.view == nil {
		m.timelineViewport.SetContent(loadingStyle.Render("Loading..."))
		return
	}
	m.timelineViewport.SetContent(renderTimeline(m.view.Timeline, m.timelineViewport.Width))
	m.timelineViewport.GotoTop()
}

func (m ConsoleUI) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	cardWidth, timelineWidth := m.panelWidths()
	cardPanel := cardPanelStyle.Width(cardWidth).Height(m.height - 2).Render(m.renderCard(cardWidth - 5))
	timelinePanel := timelinePanelStyle.Width(timelineWidth).Height(m.height - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("TIMELINE"),
			"",
			m.timelineViewport.View(),
		),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, cardPanel, timelinePanel)
}

func (m ConsoleUI) renderCard(width int) string {
	if width < 10 {
		width = 10
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render(AppName) + "\n\n")

	if m.view == nil {
		if m.err != nil {
			content.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
			content.WriteString(promptStyle.Render("r: retry  q: quit"))
		} else {
			content.WriteString(loadingStyle.Render("Loading today..."))
		}
		return content.String()
	}

	v := m.view
	content.WriteString(fmt.Sprintf("%s  %s\n", v.Day, promptStyle.Render("next day in "+formatCountdown(v.NextDay.Sub(m.now())))))
	content.WriteString(hintStyle.Render(wordwrap.String(v.MemoryHint, width)) + "\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	if v.Ending != nil {
		content.WriteString(endingStyle.Render(wordwrap.String(v.Ending.Text, width-4)) + "\n\n")
	}

	switch {
	case v.Decision != nil:
		d := v.Decision
		content.WriteString(kickerStyle.Render(upper.String(d.Kicker)) + "\n")
		content.WriteString(titleStyle.Render(wordwrap.String(d.Title, width)) + "\n\n")
		if d.Body != "" {
			content.WriteString(wordwrap.String(d.Body, width) + "\n\n")
		}
		for i, choice := range d.Choices {
			if i == m.selected {
				content.WriteString(selectedItemStyle.Render(wordwrap.String("▶ "+choice, width)))
			} else {
				content.WriteString(itemStyle.Render(wordwrap.String("  "+choice, width)))
			}
			content.WriteString("\n")
		}
	case m.lastOutcome != nil:
		content.WriteString(wordwrap.String("You chose: "+m.lastOutcome.Entry.Choice, width) + "\n\n")
		content.WriteString(resultStyle.Render(wordwrap.String(m.lastOutcome.Entry.Result, width)) + "\n\n")
		content.WriteString(promptStyle.Render("Come back tomorrow."))
	default:
		content.WriteString(promptStyle.Render("Today's choice is made. Come back tomorrow."))
	}
	content.WriteString("\n\n")

	if m.loading {
		content.WriteString(loadingStyle.Render("...") + "\n")
	}
	if m.err != nil {
		content.WriteString(errorStyle.Render(wordwrap.String("Error: "+m.err.Error(), width)) + "\n")
	}
	if m.status != "" {
		content.WriteString(m.status + "\n")
	}

	content.WriteString("\n" + promptStyle.Render("↑/↓ select  Enter choose  y copy timeline  q quit"))
	return content.String()
}

func renderTimeline(entries []state.TimelineEntry, width int) string {
	if len(entries) == 0 {
		return promptStyle.Render("Nothing has happened yet.")
	}
	if width < 10 {
		width = 10
	}

	var content strings.Builder
	for _, e := range entries {
		content.WriteString(kickerStyle.Render(e.Day.String()) + "\n")
		content.WriteString(wordwrap.String(e.Title, width) + "\n")
		content.WriteString(promptStyle.Render(wordwrap.String("› "+e.Choice, width)) + "\n")
		content.WriteString(resultStyle.Render(wordwrap.String(e.Result, width)) + "\n\n")
	}
	return content.String()
}

// timelineText is the plain-text form of the timeline used for sharing.
func timelineText(entries []state.TimelineEntry) string {
	var b strings.Builder
	b.WriteString(AppName + "\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %s\n", e.Day, e.Title)
		fmt.Fprintf(&b, "  > %s\n", e.Choice)
		fmt.Fprintf(&b, "  %s\n\n", e.Result)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// formatCountdown renders a remaining duration as HH:MM:SS, never negative.
func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

func (m ConsoleUI) loadToday() tea.Cmd {
	return func() tea.Msg {
		view, err := getToday(m.client, m.config.APIBaseURL, m.playerID)
		return todayMsg{view, err}
	}
}

func (m ConsoleUI) sendChoice(decisionID string, choiceIndex int) tea.Cmd {
	return func() tea.Msg {
		outcome, err := postChoice(m.client, m.config.APIBaseURL, m.playerID, decisionID, choiceIndex)
		return choiceMsg{outcome, err}
	}
}

func copyTimeline(entries []state.TimelineEntry) tea.Cmd {
	text := timelineText(entries)
	return func() tea.Msg {
		return clipboardMsg{clipboard.WriteAll(text)}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
