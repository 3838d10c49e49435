package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"milestone/internal/app"
	"milestone/internal/config"
	"milestone/internal/grid"
)

type mode int

const (
	modeGrid mode = iota
	modeAdd
)

const rowLabelWidth = 4

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04471c"))
	blankStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5c5c5c"))
	lockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f07167"))
	unlockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#25a244"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
)

type Model struct {
	ctrl       *app.Controller
	cfg        config.Config
	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	saveOnExit bool
	styles     [grid.Stages]lipgloss.Style
}

func NewModel(ctrl *app.Controller, cfg config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "Task for today"
	ti.CharLimit = 0
	ti.Width = 40

	var styles [grid.Stages]lipgloss.Style
	for i, c := range ctrl.Ramp() {
		styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}

	cursor := 0
	if today, ok := ctrl.TodayCell(); ok {
		cursor = today
	}

	status := fmt.Sprintf("Day %d. Press '%s' for edit mode, '%s' to save and exit.",
		ctrl.Today(), keyLabel(cfg.Keys.EditMode), keyLabel(cfg.Keys.SaveExit))
	if n := ctrl.Rolled(); n > 0 {
		status = fmt.Sprintf("Moved unfinished tasks from %d earlier day(s) to today. %s", n, status)
	}

	return Model{
		ctrl:   ctrl,
		cfg:    cfg,
		cursor: cursor,
		mode:   modeGrid,
		input:  ti,
		status: status,
		styles: styles,
	}
}

// Run blocks until the user quits. It reports whether the user asked to
// save on the way out.
func Run(ctrl *app.Controller, cfg config.Config) (bool, error) {
	program := tea.NewProgram(NewModel(ctrl, cfg))
	final, err := program.Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(Model)
	return ok && m.saveOnExit, nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.mode == modeAdd {
			return m.updateAddMode(msg.String(), msg)
		}
		return m.updateGridMode(msg.String())
	case tea.WindowSizeMsg:
		if w := msg.Width - 10; w > 10 {
			m.input.Width = w
		}
	}
	return m, nil
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.mode = modeGrid
		m.input.SetValue("")
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		if !m.ctrl.AddTask(m.input.Value()) {
			return m, nil
		}
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeGrid
		m.status = "Added task"
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateGridMode(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.SaveExit:
		m.saveOnExit = true
		return m, tea.Quit
	case m.cfg.Keys.Up, "up":
		m.cursor = m.moveCursor(0, -1)
	case m.cfg.Keys.Down, "down":
		m.cursor = m.moveCursor(0, 1)
	case m.cfg.Keys.Left, "left":
		m.cursor = m.moveCursor(-1, 0)
	case m.cfg.Keys.Right, "right":
		m.cursor = m.moveCursor(1, 0)
	case m.cfg.Keys.Today:
		if today, ok := m.ctrl.TodayCell(); ok {
			m.cursor = today
		} else {
			m.status = "Today has no cell on the calendar"
		}
	case m.cfg.Keys.Click:
		if m.ctrl.ClickCell(m.cursor) {
			m.status = fmt.Sprintf("%s is now at stage %d of %d", cellName(m.cursor), m.ctrl.Stage(m.cursor)+1, grid.Stages)
		}
	case m.cfg.Keys.EditMode:
		m.ctrl.ToggleEditMode()
		if m.ctrl.EditMode() {
			m.status = fmt.Sprintf("Edit mode on: press '%s' to add a task", keyLabel(m.cfg.Keys.Add))
		} else {
			m.status = "Edit mode off"
		}
	case m.cfg.Keys.Add:
		if !m.ctrl.TaskEntryEnabled() {
			m.status = fmt.Sprintf("Press '%s' for edit mode before adding tasks", keyLabel(m.cfg.Keys.EditMode))
			return m, nil
		}
		m.mode = modeAdd
		m.input.Focus()
		m.status = "Type a task and press Enter"
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) moveCursor(dWeek, dDay int) int {
	week, weekday := grid.Position(m.cursor)
	week = clamp(week+dWeek, 1, grid.Weeks)
	weekday = clamp(weekday+dDay, 1, grid.Weekdays)
	return grid.IndexAt(week, weekday)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Milestone Monitor"))
	b.WriteString("  ")
	if m.ctrl.EditMode() {
		b.WriteString(unlockedStyle.Render("[edit mode]"))
	} else {
		b.WriteString(lockedStyle.Render("[locked]"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderGrid())
	b.WriteString("\n")
	b.WriteString(m.renderTasks())
	b.WriteString("\n")

	if m.mode == modeAdd {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	} else if !m.ctrl.TaskEntryEnabled() {
		b.WriteString(dimStyle.Render("Task entry is locked"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(renderHelp(m.cfg.Keys))

	return b.String()
}

func (m Model) renderGrid() string {
	var b strings.Builder
	b.WriteString(monthHeader())
	b.WriteString("\n")

	for weekday := 1; weekday <= grid.Weekdays; weekday++ {
		b.WriteString(fmt.Sprintf("%-*d", rowLabelWidth, weekday))
		for week := 1; week <= grid.Weeks; week++ {
			b.WriteString(m.renderCell(grid.IndexAt(week, weekday)))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderCell(index int) string {
	stage := m.ctrl.Stage(index)
	glyph := "■"
	style := blankStyle
	if stage.Valid() {
		style = m.styles[stage]
	} else {
		glyph = "□"
	}
	if today, ok := m.ctrl.TodayCell(); ok && index == today {
		glyph = "●"
		if !stage.Valid() {
			glyph = "○"
		}
	}
	if m.ctrl.CellAccess(index) == app.Disabled {
		style = style.Faint(true)
	}
	if index == m.cursor && m.mode == modeGrid {
		style = style.Reverse(true)
	}
	return style.Render(glyph)
}

func monthHeader() string {
	line := []rune(strings.Repeat(" ", rowLabelWidth+grid.Weeks*2))
	for _, l := range grid.MonthLabels() {
		col := rowLabelWidth + (l.Week-1)*2
		copy(line[col:], []rune(l.Name))
	}
	return strings.TrimRight(string(line), " ")
}

func (m Model) renderTasks() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Tasks for day %d\n", m.ctrl.Today()))
	display := m.ctrl.TaskDisplay()
	if display == "" {
		b.WriteString(dimStyle.Render("No tasks yet."))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(display)
	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s/%s/%s move • %s today • %s click • %s edit mode • %s add task • %s save & exit • %s quit",
		keyLabel(k.Left), keyLabel(k.Down), keyLabel(k.Up), keyLabel(k.Right), keyLabel(k.Today),
		keyLabel(k.Click), keyLabel(k.EditMode), keyLabel(k.Add), keyLabel(k.SaveExit), keyLabel(k.Quit))
}

func cellName(index int) string {
	week, weekday := grid.Position(index)
	return fmt.Sprintf("Week %d day %d", week, weekday)
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
