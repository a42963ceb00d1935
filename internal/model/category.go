package model

// Category groups tasks by area (work, personal, health, etc.).
//
// TaskCount is a derived display value. It is not kept in sync with task
// mutations; callers recompute it from a task snapshot when they need it.
type Category struct {
	ID        int    `gorm:"primaryKey" json:"Id"`
	Name      string `gorm:"index" json:"name"`
	Color     string `json:"color"`
	TaskCount int    `json:"taskCount"`
}
