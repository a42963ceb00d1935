package model

import (
	"strings"
	"time"
)

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority normalizes a raw string into a Priority.
func ParsePriority(s string) (Priority, bool) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityHigh:
		return PriorityHigh, true
	default:
		return "", false
	}
}

// Weight returns the numeric rank used when sorting by priority.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Task represents a single unit of work in the planner.
//
// CompletedAt is non-nil exactly when Completed is true; the task service
// derives it and storage backends never touch it.
type Task struct {
	ID            int        `gorm:"primaryKey" json:"Id"`
	Title         string     `json:"title"`
	Priority      Priority   `json:"priority"`
	Category      string     `gorm:"index" json:"category"`
	DueDate       *time.Time `json:"dueDate"`
	Completed     bool       `gorm:"default:false" json:"completed"`
	CreatedAt     time.Time  `json:"createdAt"`
	CompletedAt   *time.Time `json:"completedAt"`
	AssignedUsers []string   `gorm:"serializer:json" json:"assignedUsers"`
}

// Clone returns a copy the caller may mutate freely.
func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.CompletedAt != nil {
		d := *t.CompletedAt
		c.CompletedAt = &d
	}
	c.AssignedUsers = append([]string(nil), t.AssignedUsers...)
	return c
}
