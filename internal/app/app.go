// Package app owns the running state: the calendar grid, the task lists,
// the captured day of year and the edit-mode lock.
package app

import (
	"strings"
	"time"

	"milestone/internal/grid"
	"milestone/internal/storage"
	"milestone/internal/tasks"
)

// Access is how a calendar cell responds to the user.
type Access int

const (
	// Disabled cells are greyed out and ignore clicks.
	Disabled Access = iota
	// Inert cells look enabled but have no click binding.
	Inert
	Clickable
)

func (a Access) String() string {
	switch a {
	case Disabled:
		return "disabled"
	case Inert:
		return "inert"
	case Clickable:
		return "clickable"
	default:
		return "unknown"
	}
}

type Controller struct {
	grid     *grid.Grid
	tasks    *tasks.Store
	ramp     grid.Ramp
	today    int
	editMode bool
	display  string
	rolled   int
}

// DayOfYear is the 1-based ordinal of t within its year.
func DayOfYear(t time.Time) int {
	return t.YearDay()
}

// Restore rebuilds the state from a saved document, rolls unfinished past
// tasks onto today and leaves the controller locked.
func Restore(doc storage.Document, ramp grid.Ramp, today int) *Controller {
	c := &Controller{
		grid:  grid.FromColors(ramp, doc.Colors),
		tasks: tasks.FromMap(doc.Tasks),
		ramp:  ramp,
		today: today,
	}
	c.rolled = c.tasks.RollOverdue(today, c.dayFinished)

	c.editMode = true
	c.ToggleEditMode()
	return c
}

// dayFinished reports whether a past day keeps its tasks. Days without a
// cell are never rolled.
func (c *Controller) dayFinished(day int) bool {
	index, ok := grid.CellForDay(day)
	if !ok {
		return true
	}
	return c.grid.IsComplete(index)
}

func (c *Controller) Today() int {
	return c.today
}

// TodayCell is the grid index for today; false on days 365 and 366.
func (c *Controller) TodayCell() (int, bool) {
	return grid.CellForDay(c.today)
}

// Rolled is how many past days had their tasks moved onto today.
func (c *Controller) Rolled() int {
	return c.rolled
}

func (c *Controller) EditMode() bool {
	return c.editMode
}

// ToggleEditMode flips between locked and unlocked. Unlocked enables task
// entry and disables every cell but today's; locked leaves the other cells
// enabled but without a click binding.
func (c *Controller) ToggleEditMode() {
	c.editMode = !c.editMode
	c.refreshTaskDisplay()
}

func (c *Controller) CellAccess(index int) Access {
	if !grid.InRange(index) {
		return Disabled
	}
	if today, ok := c.TodayCell(); ok && index == today {
		return Clickable
	}
	if c.editMode {
		return Disabled
	}
	return Inert
}

func (c *Controller) TaskEntryEnabled() bool {
	return c.editMode
}

// ClickCell advances the cell if it is bound to a click handler.
func (c *Controller) ClickCell(index int) bool {
	if c.CellAccess(index) != Clickable {
		return false
	}
	c.grid.Advance(index)
	return true
}

// AddTask adds text to today's list. It is rejected while locked and when
// the text is blank.
func (c *Controller) AddTask(text string) bool {
	if !c.TaskEntryEnabled() {
		return false
	}
	if !c.tasks.Add(c.today, text) {
		return false
	}
	c.refreshTaskDisplay()
	return true
}

func (c *Controller) TodayTasks() []string {
	return c.tasks.Tasks(c.today)
}

// TaskDisplay is today's list as rendered at the last refresh.
func (c *Controller) TaskDisplay() string {
	return c.display
}

func (c *Controller) refreshTaskDisplay() {
	var b strings.Builder
	for _, t := range c.tasks.Tasks(c.today) {
		b.WriteString("• ")
		b.WriteString(t)
		b.WriteString("\n")
	}
	c.display = b.String()
}

func (c *Controller) Stage(index int) grid.Stage {
	return c.grid.Stage(index)
}

func (c *Controller) Ramp() grid.Ramp {
	return c.ramp
}

// Document snapshots the state for saving.
func (c *Controller) Document() storage.Document {
	return storage.Document{
		Colors: c.grid.Colors(c.ramp),
		Tasks:  c.tasks.Map(),
	}
}
