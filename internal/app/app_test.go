package app

import (
	"reflect"
	"testing"
	"time"

	"milestone/internal/grid"
	"milestone/internal/storage"
)

func colorsWith(ramp grid.Ramp, stages map[int]grid.Stage) []string {
	g := grid.New()
	for i, s := range stages {
		g.Set(i, s)
	}
	return g.Colors(ramp)
}

func TestDayOfYear(t *testing.T) {
	tests := []struct {
		date time.Time
		want int
	}{
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2026, 10, 16, 23, 59, 0, 0, time.UTC), 289},
		{time.Date(2024, 12, 31, 12, 0, 0, 0, time.UTC), 366},
	}
	for _, tt := range tests {
		if got := DayOfYear(tt.date); got != tt.want {
			t.Errorf("DayOfYear(%s) = %d, want %d", tt.date.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestRestoreRollsOverdue(t *testing.T) {
	ramp := grid.DefaultRamp()

	t.Run("incomplete day rolls", func(t *testing.T) {
		doc := storage.Document{
			Colors: colorsWith(ramp, map[int]grid.Stage{4: 2}),
			Tasks:  map[string][]string{"5": {"a"}, "10": {"b"}},
		}
		c := Restore(doc, ramp, 10)
		want := map[string][]string{"10": {"b", "a"}}
		if got := c.Document().Tasks; !reflect.DeepEqual(got, want) {
			t.Errorf("tasks = %v, want %v", got, want)
		}
		if c.Rolled() != 1 {
			t.Errorf("Rolled() = %d", c.Rolled())
		}
	})

	t.Run("complete day stays", func(t *testing.T) {
		doc := storage.Document{
			Colors: colorsWith(ramp, map[int]grid.Stage{4: grid.Final}),
			Tasks:  map[string][]string{"5": {"a"}, "10": {"b"}},
		}
		c := Restore(doc, ramp, 10)
		want := map[string][]string{"5": {"a"}, "10": {"b"}}
		if got := c.Document().Tasks; !reflect.DeepEqual(got, want) {
			t.Errorf("tasks = %v, want %v", got, want)
		}
	})

	t.Run("day past the grid stays", func(t *testing.T) {
		doc := storage.Document{Tasks: map[string][]string{"365": {"eve"}}}
		c := Restore(doc, ramp, 366)
		if got := c.Document().Tasks; !reflect.DeepEqual(got, map[string][]string{"365": {"eve"}}) {
			t.Errorf("tasks = %v", got)
		}
	})
}

func TestRestoreStartsLocked(t *testing.T) {
	c := Restore(storage.EmptyDocument(), grid.DefaultRamp(), 10)
	if c.EditMode() {
		t.Fatalf("controller should start locked")
	}
	if c.TaskEntryEnabled() {
		t.Errorf("task entry enabled while locked")
	}
	if got := c.CellAccess(9); got != Clickable {
		t.Errorf("today's cell = %v, want clickable", got)
	}
	if got := c.CellAccess(0); got != Inert {
		t.Errorf("other cell = %v, want inert", got)
	}
}

func TestToggleEditModeIsAPair(t *testing.T) {
	c := Restore(storage.EmptyDocument(), grid.DefaultRamp(), 10)
	snapshot := func() []Access {
		out := make([]Access, grid.Cells)
		for i := range out {
			out[i] = c.CellAccess(i)
		}
		return out
	}
	locked := snapshot()

	c.ToggleEditMode()
	if !c.TaskEntryEnabled() {
		t.Errorf("task entry should be enabled after unlocking")
	}
	unlocked := snapshot()
	for i, a := range unlocked {
		want := Disabled
		if i == 9 {
			want = Clickable
		}
		if a != want {
			t.Fatalf("unlocked cell %d = %v, want %v", i, a, want)
		}
	}

	c.ToggleEditMode()
	if c.TaskEntryEnabled() {
		t.Errorf("task entry should be disabled after locking again")
	}
	if !reflect.DeepEqual(snapshot(), locked) {
		t.Errorf("second toggle did not restore the locked configuration")
	}
}

func TestClickCell(t *testing.T) {
	c := Restore(storage.EmptyDocument(), grid.DefaultRamp(), 10)

	for i := 0; i < 6; i++ {
		if !c.ClickCell(9) {
			t.Fatalf("click %d on today's cell rejected", i+1)
		}
	}
	if c.Stage(9) != grid.Final {
		t.Errorf("today's stage = %d, want final", c.Stage(9))
	}

	if c.ClickCell(3) {
		t.Errorf("inert cell accepted a click")
	}
	c.ToggleEditMode()
	if c.ClickCell(3) {
		t.Errorf("disabled cell accepted a click")
	}
	if c.Stage(3) != grid.Unstarted {
		t.Errorf("non-today cell changed: %d", c.Stage(3))
	}
}

func TestNoTodayCellLateInYear(t *testing.T) {
	c := Restore(storage.EmptyDocument(), grid.DefaultRamp(), 365)
	if _, ok := c.TodayCell(); ok {
		t.Errorf("day 365 should have no cell")
	}
	if c.CellAccess(363) != Inert {
		t.Errorf("last cell = %v, want inert", c.CellAccess(363))
	}
	c.ToggleEditMode()
	if !c.AddTask("wrap up the year") {
		t.Errorf("tasks should still work on day 365")
	}
}

func TestAddTask(t *testing.T) {
	c := Restore(storage.EmptyDocument(), grid.DefaultRamp(), 10)

	if c.AddTask("locked out") {
		t.Errorf("task added while locked")
	}
	c.ToggleEditMode()
	if c.AddTask("") || c.AddTask("   ") {
		t.Errorf("blank task accepted")
	}
	if len(c.Document().Tasks) != 0 {
		t.Fatalf("blank tasks changed the store: %v", c.Document().Tasks)
	}
	if !c.AddTask(" buy milk ") {
		t.Fatalf("AddTask rejected real text")
	}
	c.AddTask("stretch")

	if got, want := c.TodayTasks(), []string{"buy milk", "stretch"}; !reflect.DeepEqual(got, want) {
		t.Errorf("TodayTasks() = %q, want %q", got, want)
	}
	if got, want := c.TaskDisplay(), "• buy milk\n• stretch\n"; got != want {
		t.Errorf("TaskDisplay() = %q, want %q", got, want)
	}
}

func TestDisplayShowsRolledTasksAtStart(t *testing.T) {
	doc := storage.Document{Tasks: map[string][]string{"2": {"old"}, "10": {"new"}}}
	c := Restore(doc, grid.DefaultRamp(), 10)
	if got, want := c.TaskDisplay(), "• new\n• old\n"; got != want {
		t.Errorf("TaskDisplay() = %q, want %q", got, want)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	ramp := grid.DefaultRamp()
	doc := storage.Document{
		Colors: colorsWith(ramp, map[int]grid.Stage{0: 1, 9: 3, 100: grid.Final}),
		Tasks:  map[string][]string{"10": {"x"}, "200": {"future"}},
	}
	c := Restore(doc, ramp, 10)
	if got := c.Document(); !reflect.DeepEqual(got, doc) {
		t.Errorf("Document() differs from restored input")
	}
}
