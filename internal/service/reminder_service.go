package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"dayflow/internal/notify"
)

// BulkNotifier delivers a batch of reminder groups.
type BulkNotifier interface {
	SendBulkReminders(ctx context.Context, groups []notify.ReminderGroup) (notify.DispatchResult, error)
}

// ReminderRunResult summarizes one reminder sweep.
type ReminderRunResult struct {
	RemindersSent   int `json:"remindersSent"`
	RemindersFailed int `json:"remindersFailed"`
	TasksProcessed  int `json:"tasksProcessed"`
}

// UpcomingReminder previews one task's pending reminder.
type UpcomingReminder struct {
	TaskID        int        `json:"taskId"`
	TaskTitle     string     `json:"taskTitle"`
	DueDate       *time.Time `json:"dueDate"`
	AssignedUsers []string   `json:"assignedUsers"`
	ReminderCount int        `json:"reminderCount"`
}

// ReminderService runs the daily sweep: find incomplete tasks due tomorrow,
// group the ones with assignees, and dispatch reminders in bulk.
type ReminderService struct {
	tasks    *TaskService
	notifier BulkNotifier
	logger   *log.Logger
}

func NewReminderService(tasks *TaskService, notifier BulkNotifier) *ReminderService {
	return &ReminderService{tasks: tasks, notifier: notifier, logger: log.Default()}
}

// CheckAndSendReminders performs one sweep. No tasks due tomorrow, or none
// with assignees, is a zero-count success, not an error.
func (s *ReminderService) CheckAndSendReminders(ctx context.Context) (ReminderRunResult, error) {
	due, err := s.tasks.GetTasksDueTomorrow(ctx)
	if err != nil {
		return ReminderRunResult{}, fmt.Errorf("tasks due tomorrow: %w", err)
	}
	if len(due) == 0 {
		s.logger.Println("reminders: no tasks due tomorrow")
		return ReminderRunResult{}, nil
	}

	groups := make([]notify.ReminderGroup, 0, len(due))
	for _, task := range due {
		if len(task.AssignedUsers) > 0 {
			groups = append(groups, notify.ReminderGroup{Task: task, Emails: task.AssignedUsers})
		}
	}
	if len(groups) == 0 {
		s.logger.Println("reminders: no assigned users for tomorrow's tasks")
		return ReminderRunResult{}, nil
	}

	res, err := s.notifier.SendBulkReminders(ctx, groups)
	if err != nil {
		return ReminderRunResult{}, fmt.Errorf("send reminders: %w", err)
	}

	s.logger.Printf("reminders: sent %d emails for %d tasks (%d failed)",
		res.SentCount, len(due), res.FailedCount)
	return ReminderRunResult{
		RemindersSent:   res.SentCount,
		RemindersFailed: res.FailedCount,
		TasksProcessed:  len(due),
	}, nil
}

// UpcomingReminders previews what the next sweep would send.
func (s *ReminderService) UpcomingReminders(ctx context.Context) ([]UpcomingReminder, error) {
	due, err := s.tasks.GetTasksDueTomorrow(ctx)
	if err != nil {
		return nil, fmt.Errorf("tasks due tomorrow: %w", err)
	}

	out := make([]UpcomingReminder, 0, len(due))
	for _, task := range due {
		if len(task.AssignedUsers) == 0 {
			continue
		}
		out = append(out, UpcomingReminder{
			TaskID:        task.ID,
			TaskTitle:     task.Title,
			DueDate:       task.DueDate,
			AssignedUsers: task.AssignedUsers,
			ReminderCount: len(task.AssignedUsers),
		})
	}
	return out, nil
}

// Ensure the concrete dispatcher satisfies both notifier roles.
var (
	_ AssignmentNotifier = (*notify.Dispatcher)(nil)
	_ BulkNotifier       = (*notify.Dispatcher)(nil)
)
