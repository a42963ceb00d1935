package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"

	"dayflow/internal/model"
)

// fakeTransport records every message and fails delivery to listed
// recipients.
type fakeTransport struct {
	sent    []Message
	failFor map[string]bool
}

func (t *fakeTransport) Send(_ context.Context, msg Message) error {
	if t.failFor[msg.To] {
		return errors.New("transport down")
	}
	t.sent = append(t.sent, msg)
	return nil
}

func TestValidateEmail(t *testing.T) {
	is := is.New(t)

	is.True(ValidateEmail("a@b.co"))
	is.True(ValidateEmail("sarah.chen@example.com"))

	is.True(!ValidateEmail("not-an-email"))
	is.True(!ValidateEmail(""))
	is.True(!ValidateEmail("@b.co"))
	is.True(!ValidateEmail("a@b"))
	is.True(!ValidateEmail("a@b."))
	is.True(!ValidateEmail("a@.co"))
	is.True(!ValidateEmail("a b@c.de"))
	is.True(!ValidateEmail("a@b@c.de"))
}

func TestValidateEmails(t *testing.T) {
	is := is.New(t)
	is.True(ValidateEmails(nil))
	is.True(ValidateEmails([]string{"a@x.com", "b@x.com"}))
	is.True(!ValidateEmails([]string{"a@x.com", "nope"}))
}

func TestSendTaskAssignment(t *testing.T) {
	due := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	task := model.Task{
		ID:       1,
		Title:    "Review quarterly report",
		Priority: model.PriorityHigh,
		Category: "Work",
		DueDate:  &due,
	}

	t.Run("sends one message per recipient", func(t *testing.T) {
		is := is.New(t)
		transport := &fakeTransport{}
		d := NewDispatcher(transport)

		res, err := d.SendTaskAssignment(context.Background(), task, []string{"a@x.com", "b@x.com"})
		is.NoErr(err)
		is.Equal(res.SentCount, 2)
		is.Equal(len(transport.sent), 2)
		is.Equal(transport.sent[0].To, "a@x.com")
		is.Equal(transport.sent[1].To, "b@x.com")
		is.Equal(transport.sent[0].Subject, "Task Assigned: Review quarterly report")
		is.True(strings.Contains(transport.sent[0].Body, "Priority: high"))
		is.True(strings.Contains(transport.sent[0].Body, "Category: Work"))
		is.True(strings.Contains(transport.sent[0].Body, "Due Date: 2024-03-05"))
		is.True(transport.sent[0].ID != transport.sent[1].ID)
	})

	t.Run("omits due date line when unset", func(t *testing.T) {
		is := is.New(t)
		transport := &fakeTransport{}
		d := NewDispatcher(transport)

		undated := task
		undated.DueDate = nil
		_, err := d.SendTaskAssignment(context.Background(), undated, []string{"a@x.com"})
		is.NoErr(err)
		is.True(!strings.Contains(transport.sent[0].Body, "Due Date"))
	})

	t.Run("fails the call on a delivery error", func(t *testing.T) {
		is := is.New(t)
		transport := &fakeTransport{failFor: map[string]bool{"b@x.com": true}}
		d := NewDispatcher(transport)

		_, err := d.SendTaskAssignment(context.Background(), task, []string{"a@x.com", "b@x.com"})
		is.True(err != nil)
	})
}

func TestSendBulkReminders(t *testing.T) {
	due := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	taskA := model.Task{ID: 1, Title: "Standup notes", Priority: model.PriorityMedium, DueDate: &due}
	taskB := model.Task{ID: 2, Title: "Dentist", Priority: model.PriorityHigh, DueDate: &due}

	t.Run("accumulates across groups", func(t *testing.T) {
		is := is.New(t)
		transport := &fakeTransport{}
		d := NewDispatcher(transport)

		res, err := d.SendBulkReminders(context.Background(), []ReminderGroup{
			{Task: taskA, Emails: []string{"a@x.com", "b@x.com"}},
			{Task: taskB, Emails: []string{"c@x.com"}},
		})
		is.NoErr(err)
		is.Equal(res.SentCount, 3)
		is.Equal(res.FailedCount, 0)
		is.Equal(transport.sent[2].Subject, "Reminder: Dentist is due tomorrow")
		is.True(strings.Contains(transport.sent[0].Body, "Due: 2024-03-05"))
	})

	t.Run("skips failing recipients and continues", func(t *testing.T) {
		is := is.New(t)
		transport := &fakeTransport{failFor: map[string]bool{"a@x.com": true}}
		d := NewDispatcher(transport)

		res, err := d.SendBulkReminders(context.Background(), []ReminderGroup{
			{Task: taskA, Emails: []string{"a@x.com", "b@x.com"}},
			{Task: taskB, Emails: []string{"c@x.com"}},
		})
		is.NoErr(err)
		is.Equal(res.SentCount, 2)
		is.Equal(res.FailedCount, 1)
	})
}
