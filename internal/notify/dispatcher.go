package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"dayflow/internal/model"
)

// Dispatcher formats assignment and reminder notices and hands them to a
// Transport. Message IDs are generated per recipient for log correlation.
type Dispatcher struct {
	transport Transport
	logger    *log.Logger
}

func NewDispatcher(transport Transport) *Dispatcher {
	return &Dispatcher{transport: transport, logger: log.Default()}
}

// DispatchResult reports the outcome of one dispatch call.
type DispatchResult struct {
	SentCount   int
	FailedCount int
}

// ReminderGroup pairs a task with the recipients of its reminder.
type ReminderGroup struct {
	Task   model.Task
	Emails []string
}

// SendTaskAssignment notifies every email that the task was assigned to
// them. The call is all-or-nothing: the first delivery failure aborts it.
func (d *Dispatcher) SendTaskAssignment(ctx context.Context, task model.Task, emails []string) (DispatchResult, error) {
	subject, body := assignmentNotice(task)
	for _, email := range emails {
		msg := Message{ID: uuid.NewString(), To: email, Subject: subject, Body: body}
		if err := d.transport.Send(ctx, msg); err != nil {
			return DispatchResult{}, fmt.Errorf("send assignment to %s: %w", email, err)
		}
	}
	return DispatchResult{SentCount: len(emails)}, nil
}

// SendBulkReminders delivers a reminder to every recipient of every group.
// One recipient failing never aborts the batch; failures are logged and
// counted in the result.
func (d *Dispatcher) SendBulkReminders(ctx context.Context, groups []ReminderGroup) (DispatchResult, error) {
	var res DispatchResult
	for _, group := range groups {
		subject, body := reminderNotice(group.Task)
		for _, email := range group.Emails {
			msg := Message{ID: uuid.NewString(), To: email, Subject: subject, Body: body}
			if err := d.transport.Send(ctx, msg); err != nil {
				res.FailedCount++
				d.logger.Printf("notify: reminder to %s failed (message %s): %v", email, msg.ID, err)
				continue
			}
			res.SentCount++
		}
	}
	return res, nil
}

func assignmentNotice(task model.Task) (subject, body string) {
	subject = fmt.Sprintf("Task Assigned: %s", task.Title)

	var sb strings.Builder
	sb.WriteString("You've been assigned a new task.\n\n")
	sb.WriteString(fmt.Sprintf("Task: %s\n", task.Title))
	sb.WriteString(fmt.Sprintf("Priority: %s\n", task.Priority))
	sb.WriteString(fmt.Sprintf("Category: %s\n", task.Category))
	if task.DueDate != nil {
		sb.WriteString(fmt.Sprintf("Due Date: %s\n", task.DueDate.Format("2006-01-02")))
	}
	sb.WriteString("\nYou can manage this task in your DayFlow dashboard.\n")
	sb.WriteString("This is an automated message from DayFlow.")
	return subject, sb.String()
}

func reminderNotice(task model.Task) (subject, body string) {
	subject = fmt.Sprintf("Reminder: %s is due tomorrow", task.Title)

	var sb strings.Builder
	sb.WriteString("Task Reminder\n\n")
	sb.WriteString(fmt.Sprintf("Task: %s\n", task.Title))
	if task.DueDate != nil {
		sb.WriteString(fmt.Sprintf("Due: %s\n", task.DueDate.Format("2006-01-02")))
	}
	sb.WriteString(fmt.Sprintf("Priority: %s\n", task.Priority))
	sb.WriteString("\nDon't forget to complete this task! You can mark it as done in your DayFlow dashboard.\n")
	sb.WriteString("This is an automated reminder from DayFlow.")
	return subject, sb.String()
}

// ValidateEmail reports whether s looks like an address: non-empty local
// part and domain around a single @, no whitespace, and an interior dot in
// the domain.
func ValidateEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	at := strings.Index(s, "@")
	if at <= 0 || at != strings.LastIndex(s, "@") {
		return false
	}
	domain := s[at+1:]
	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

// ValidateEmails reports whether every element of emails validates.
func ValidateEmails(emails []string) bool {
	for _, email := range emails {
		if !ValidateEmail(email) {
			return false
		}
	}
	return true
}
