// Package tasks keeps the per-day task lists and moves unfinished work from
// past days onto today.
package tasks

import (
	"sort"
	"strconv"
	"strings"
)

// Store maps a day-of-year key ("1".."366") to that day's tasks in the
// order they were added.
type Store struct {
	days map[string][]string
}

func New() *Store {
	return &Store{days: map[string][]string{}}
}

// FromMap wraps persisted task lists. Keys are kept as-is, even malformed
// ones, so a save writes them back untouched.
func FromMap(m map[string][]string) *Store {
	s := New()
	for k, v := range m {
		s.days[k] = append([]string(nil), v...)
	}
	return s
}

func Key(day int) string {
	return strconv.Itoa(day)
}

// Add appends a task to the day. Blank text is ignored.
func (s *Store) Add(day int, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	k := Key(day)
	s.days[k] = append(s.days[k], text)
	return true
}

// Tasks returns a copy of the day's list.
func (s *Store) Tasks(day int) []string {
	list, ok := s.days[Key(day)]
	if !ok {
		return nil
	}
	return append([]string(nil), list...)
}

func (s *Store) Len() int {
	return len(s.days)
}

// Map returns a deep copy suitable for persisting.
func (s *Store) Map() map[string][]string {
	out := make(map[string][]string, len(s.days))
	for k, v := range s.days {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// RollOverdue moves the tasks of every earlier day whose cell is not
// complete onto today, appending after today's own tasks, and drops the old
// key. keep reports whether a day stays where it is: days whose cell is
// complete, or that have no cell at all. Keys that are not day numbers are
// skipped. It returns how many days were rolled.
func (s *Store) RollOverdue(today int, keep func(day int) bool) int {
	type entry struct {
		day int
		key string
	}
	var overdue []entry
	for k := range s.days {
		day, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || day < 1 || day >= today {
			continue
		}
		if keep(day) {
			continue
		}
		overdue = append(overdue, entry{day: day, key: k})
	}
	sort.Slice(overdue, func(i, j int) bool {
		if overdue[i].day != overdue[j].day {
			return overdue[i].day < overdue[j].day
		}
		return overdue[i].key < overdue[j].key
	})

	todayKey := Key(today)
	for _, e := range overdue {
		s.days[todayKey] = append(s.days[todayKey], s.days[e.key]...)
		delete(s.days, e.key)
	}
	return len(overdue)
}
