// Package grid models the yearly progress calendar: 52 weeks of 7 days,
// each cell holding a completion stage.
package grid

const (
	Weeks    = 52
	Weekdays = 7
	Cells    = Weeks * Weekdays
)

// Stage is a cell's completion level. Stages index into a Ramp.
type Stage int

// Unstarted marks a cell that has never been clicked.
const Unstarted Stage = -1

// Stages is the number of completion stages; the last one is final.
const Stages = 5

// Final is the highest completion stage.
const Final Stage = Stages - 1

func (s Stage) Valid() bool {
	return s >= 0 && s < Stages
}

// Grid holds the stage of every calendar cell in grid order.
type Grid struct {
	cells [Cells]Stage
}

// New returns a grid with every cell unstarted.
func New() *Grid {
	g := &Grid{}
	for i := range g.cells {
		g.cells[i] = Unstarted
	}
	return g
}

// Advance moves a cell one stage along the ramp. Unstarted cells go to the
// first stage and the final stage is a ceiling.
func (g *Grid) Advance(index int) {
	if !InRange(index) {
		return
	}
	cur := g.cells[index]
	switch {
	case cur == Final:
	case !cur.Valid():
		g.cells[index] = 0
	default:
		g.cells[index] = cur + 1
	}
}

// Stage returns the cell's stage, or Unstarted for an index off the grid.
func (g *Grid) Stage(index int) Stage {
	if !InRange(index) {
		return Unstarted
	}
	return g.cells[index]
}

// Set stores a stage directly. Invalid stages are stored as Unstarted.
func (g *Grid) Set(index int, s Stage) {
	if !InRange(index) {
		return
	}
	if !s.Valid() {
		s = Unstarted
	}
	g.cells[index] = s
}

func (g *Grid) IsComplete(index int) bool {
	return g.Stage(index) == Final
}

// Colors renders every cell through the ramp, in grid order.
func (g *Grid) Colors(r Ramp) []string {
	out := make([]string, Cells)
	for i, s := range g.cells {
		out[i] = r.Color(s)
	}
	return out
}

// FromColors rebuilds a grid from a persisted colour sequence. Missing
// trailing entries stay unstarted and extra entries are ignored.
func FromColors(r Ramp, colors []string) *Grid {
	g := New()
	for i, c := range colors {
		if i >= Cells {
			break
		}
		g.cells[i] = r.StageOf(c)
	}
	return g
}

func InRange(index int) bool {
	return index >= 0 && index < Cells
}

// Position maps a cell index to its 1-based week column and weekday row.
func Position(index int) (week, weekday int) {
	return index/Weekdays + 1, index%Weekdays + 1
}

// IndexAt is the inverse of Position. It returns -1 off the grid.
func IndexAt(week, weekday int) int {
	if week < 1 || week > Weeks || weekday < 1 || weekday > Weekdays {
		return -1
	}
	return (week-1)*Weekdays + weekday - 1
}

// CellForDay returns the cell for a 1-based day of the year. Days 365 and
// 366 fall past the grid.
func CellForDay(day int) (int, bool) {
	index := day - 1
	if !InRange(index) {
		return -1, false
	}
	return index, true
}

type MonthLabel struct {
	Name string
	Week int
}

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthLabels places a label over every fourth week. The spacing is
// approximate, not calendar accurate.
func MonthLabels() []MonthLabel {
	labels := make([]MonthLabel, len(monthNames))
	for i, name := range monthNames {
		labels[i] = MonthLabel{Name: name, Week: i*4 + 1}
	}
	return labels
}
