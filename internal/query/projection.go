// Package query derives the read-only views the dashboard renders: the
// filtered and sorted task list, the hourly time-block schedule, and the
// month calendar buckets. Everything here is pure; callers pass in a task
// snapshot and get a new slice back.
package query

import (
	"sort"
	"time"

	"dayflow/internal/model"
)

// SortKey selects the ordering applied to the task list.
type SortKey string

const (
	SortByPriority SortKey = "priority"
	SortByDueDate  SortKey = "dueDate"
	SortByCreated  SortKey = "created"
)

// Time-block slots cover the working day, 8 AM through 7 PM.
const (
	FirstWorkingHour = 8
	LastWorkingHour  = 19
)

// FilterByCategories keeps tasks whose category is in selected. An empty
// selection matches everything.
func FilterByCategories(tasks []model.Task, selected []string) []model.Task {
	if len(selected) == 0 {
		return append([]model.Task(nil), tasks...)
	}
	set := make(map[string]struct{}, len(selected))
	for _, name := range selected {
		set[name] = struct{}{}
	}
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if _, ok := set[t.Category]; ok {
			out = append(out, t)
		}
	}
	return out
}

// SortTasks orders tasks for the list view. Completed tasks always sink to
// the bottom regardless of the key; ties keep their incoming order.
func SortTasks(tasks []model.Task, key SortKey) []model.Task {
	out := append([]model.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		switch key {
		case SortByPriority:
			return a.Priority.Weight() > b.Priority.Weight()
		case SortByDueDate:
			switch {
			case a.DueDate == nil:
				return false
			case b.DueDate == nil:
				return true
			default:
				return a.DueDate.Before(*b.DueDate)
			}
		case SortByCreated:
			return a.CreatedAt.After(b.CreatedAt)
		default:
			return false
		}
	})
	return out
}

// WorkingHours lists the hour slots of the time-block view.
func WorkingHours() []int {
	hours := make([]int, 0, LastWorkingHour-FirstWorkingHour+1)
	for h := FirstWorkingHour; h <= LastWorkingHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

// TasksForHour returns tasks due on the given day whose due time falls in
// the given hour slot.
func TasksForHour(tasks []model.Task, day time.Time, hour int) []model.Task {
	out := make([]model.Task, 0)
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		if SameDay(*t.DueDate, day) && t.DueDate.Hour() == hour {
			out = append(out, t)
		}
	}
	return out
}

// TasksForDate returns tasks due on the given calendar day, at any time.
func TasksForDate(tasks []model.Task, day time.Time) []model.Task {
	out := make([]model.Task, 0)
	for _, t := range tasks {
		if t.DueDate != nil && SameDay(*t.DueDate, day) {
			out = append(out, t)
		}
	}
	return out
}

// SameDay reports whether two instants fall on the same calendar day,
// ignoring time of day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
