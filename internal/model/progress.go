package model

import "math"

// DateLayout is the natural key format for DayProgress records.
const DateLayout = "2006-01-02"

// DayProgress aggregates one calendar day of task activity.
type DayProgress struct {
	ID                int    `gorm:"primaryKey" json:"Id"`
	Date              string `gorm:"uniqueIndex" json:"date"`
	TotalTasks        int    `json:"totalTasks"`
	CompletedTasks    int    `json:"completedTasks"`
	ProductivityScore int    `json:"productivityScore"`
}

// Score returns completed/total as a rounded percentage, 0 for an empty day.
func Score(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
