package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"

	"dayflow/internal/model"
	"dayflow/internal/notify"
	"dayflow/internal/repository"
)

type dispatchCall struct {
	task   model.Task
	emails []string
}

// fakeNotifier captures assignment dispatches on a channel so tests can
// await the fire-and-forget goroutine.
type fakeNotifier struct {
	calls chan dispatchCall
	err   error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{calls: make(chan dispatchCall, 16)}
}

func (f *fakeNotifier) SendTaskAssignment(_ context.Context, task model.Task, emails []string) (notify.DispatchResult, error) {
	f.calls <- dispatchCall{task: task, emails: emails}
	if f.err != nil {
		return notify.DispatchResult{}, f.err
	}
	return notify.DispatchResult{SentCount: len(emails)}, nil
}

func (f *fakeNotifier) await(t *testing.T) dispatchCall {
	t.Helper()
	select {
	case call := <-f.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("no dispatch observed")
		return dispatchCall{}
	}
}

func (f *fakeNotifier) expectNone(t *testing.T) {
	t.Helper()
	select {
	case call := <-f.calls:
		t.Fatalf("unexpected dispatch to %v", call.emails)
	case <-time.After(50 * time.Millisecond):
	}
}

func newTestTaskService(t *testing.T) (*TaskService, *fakeNotifier) {
	t.Helper()
	notifier := newFakeNotifier()
	svc, err := NewTaskService(context.Background(), repository.NewMemoryTaskRepository(), notifier, NoLatency)
	if err != nil {
		t.Fatal(err)
	}
	return svc, notifier
}

func TestTaskService_IDsNeverReused(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	svc, _ := newTestTaskService(t)

	t1, err := svc.Create(ctx, TaskInput{Title: "one"})
	is.NoErr(err)
	t2, err := svc.Create(ctx, TaskInput{Title: "two"})
	is.NoErr(err)
	t3, err := svc.Create(ctx, TaskInput{Title: "three"})
	is.NoErr(err)
	is.Equal(t1.ID, 1)
	is.Equal(t2.ID, 2)
	is.Equal(t3.ID, 3)

	// deleting the highest id must not free it up
	is.NoErr(svc.Delete(ctx, t3.ID))
	t4, err := svc.Create(ctx, TaskInput{Title: "four"})
	is.NoErr(err)
	is.Equal(t4.ID, 4)
}

func TestTaskService_CreateDefaults(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	svc, _ := newTestTaskService(t)

	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.Local)
	svc.now = func() time.Time { return now }

	task, err := svc.Create(ctx, TaskInput{Title: "  trimmed  ", Category: "Work"})
	is.NoErr(err)
	is.Equal(task.Title, "trimmed")
	is.Equal(task.Priority, model.PriorityMedium)
	is.Equal(task.Completed, false)
	is.Equal(task.CompletedAt, nil)
	is.Equal(task.CreatedAt, now)
}

func TestTaskService_Validation(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	svc, notifier := newTestTaskService(t)

	_, err := svc.Create(ctx, TaskInput{Title: "   "})
	is.True(errors.Is(err, ErrEmptyTitle))

	_, err = svc.Create(ctx, TaskInput{Title: "ok", AssignedUsers: []string{"not-an-email"}})
	is.True(errors.Is(err, ErrInvalidEmail))
	notifier.expectNone(t)

	// nothing was stored
	all, err := svc.GetAll(ctx)
	is.NoErr(err)
	is.Equal(len(all), 0)
}

func TestTaskService_CompletedDrivesCompletedAt(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	svc, _ := newTestTaskService(t)

	task, err := svc.Create(ctx, TaskInput{Title: "finish me"})
	is.NoErr(err)

	done := true
	updated, err := svc.Update(ctx, task.ID, TaskUpdate{Completed: &done})
	is.NoErr(err)
	is.True(updated.CompletedAt != nil)

	// a payload-supplied completedAt never wins over the derivation
	undone := false
	bogus := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	updated, err = svc.Update(ctx, task.ID, TaskUpdate{Completed: &undone, CompletedAt: &bogus})
	is.NoErr(err)
	is.Equal(updated.Completed, false)
	is.Equal(updated.CompletedAt, nil)
}

func TestTaskService_UpdateNeverChangesID(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	svc, _ := newTestTaskService(t)

	task, err := svc.Create(ctx, TaskInput{Title: "stable", Category: "Work"})
	is.NoErr(err)

	title := "renamed"
	updated, err := svc.Update(ctx, task.ID, TaskUpdate{Title: &title})
	is.NoErr(err)
	is.Equal(updated.ID, task.ID)
	is.Equal(updated.Category, "Work") // untouched fields survive the merge
	is.Equal(updated.Title, "renamed")
}

func TestTaskService_DeleteThenGet(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	svc, _ := newTestTaskService(t)

	task, err := svc.Create(ctx, TaskInput{Title: "short-lived"})
	is.NoErr(err)
	is.NoErr(svc.Delete(ctx, task.ID))

	_, err = svc.GetByID(ctx, task.ID)
	is.True(errors.Is(err, repository.ErrNotFound))

	is.True(errors.Is(svc.Delete(ctx, task.ID), repository.ErrNotFound))
}

func TestTaskService_AssignmentDispatch(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	svc, notifier := newTestTaskService(t)

	task, err := svc.Create(ctx, TaskInput{
		Title:         "shared",
		AssignedUsers: []string{"a@x.com", "b@x.com"},
	})
	is.NoErr(err)

	call := notifier.await(t)
	is.Equal(call.task.ID, task.ID)
	is.Equal(call.emails, []string{"a@x.com", "b@x.com"})

	// adding one assignee notifies only the newcomer
	users := []string{"a@x.com", "b@x.com", "c@x.com"}
	_, err = svc.Update(ctx, task.ID, TaskUpdate{AssignedUsers: &users})
	is.NoErr(err)

	call = notifier.await(t)
	is.Equal(call.emails, []string{"c@x.com"})

	// re-sending the same set notifies nobody
	same := []string{"a@x.com", "b@x.com", "c@x.com"}
	_, err = svc.Update(ctx, task.ID, TaskUpdate{AssignedUsers: &same})
	is.NoErr(err)
	notifier.expectNone(t)
}

func TestTaskService_DispatchFailureDoesNotRollBack(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	svc, notifier := newTestTaskService(t)
	notifier.err = errors.New("smtp down")

	task, err := svc.Create(ctx, TaskInput{Title: "kept", AssignedUsers: []string{"a@x.com"}})
	is.NoErr(err)
	notifier.await(t)

	got, err := svc.GetByID(ctx, task.ID)
	is.NoErr(err)
	is.Equal(got.Title, "kept")
}

func TestTaskService_NoAssigneesNoDispatch(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	svc, notifier := newTestTaskService(t)

	_, err := svc.Create(ctx, TaskInput{Title: "solo"})
	is.NoErr(err)
	notifier.expectNone(t)
}

func TestTaskService_DayQueries(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	svc, _ := newTestTaskService(t)

	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.Local)
	svc.now = func() time.Time { return now }

	today := time.Date(2024, 3, 4, 15, 0, 0, 0, time.Local)
	tomorrowAM := time.Date(2024, 3, 5, 8, 0, 0, 0, time.Local)
	tomorrowPM := time.Date(2024, 3, 5, 22, 0, 0, 0, time.Local)
	nextWeek := time.Date(2024, 3, 11, 9, 0, 0, 0, time.Local)

	mk := func(title string, due *time.Time) model.Task {
		task, err := svc.Create(ctx, TaskInput{Title: title, DueDate: due})
		is.NoErr(err)
		return task
	}

	mk("today", &today)
	t2 := mk("tomorrow morning", &tomorrowAM)
	done := mk("tomorrow evening", &tomorrowPM)
	mk("next week", &nextWeek)
	mk("undated", nil)

	completed := true
	_, err := svc.Update(ctx, done.ID, TaskUpdate{Completed: &completed})
	is.NoErr(err)

	todays, err := svc.GetTodaysTasks(ctx)
	is.NoErr(err)
	is.Equal(len(todays), 1)
	is.Equal(todays[0].Title, "today")

	// completed tasks drop out of tomorrow's reminders
	due, err := svc.GetTasksDueTomorrow(ctx)
	is.NoErr(err)
	is.Equal(len(due), 1)
	is.Equal(due[0].ID, t2.ID)
}

func TestTaskService_FilterQueries(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	svc, _ := newTestTaskService(t)

	_, err := svc.Create(ctx, TaskInput{Title: "a", Priority: model.PriorityHigh, Category: "Work"})
	is.NoErr(err)
	_, err = svc.Create(ctx, TaskInput{Title: "b", Priority: model.PriorityLow, Category: "Work"})
	is.NoErr(err)
	_, err = svc.Create(ctx, TaskInput{Title: "c", Priority: model.PriorityHigh, Category: "Health"})
	is.NoErr(err)

	high, err := svc.GetTasksByPriority(ctx, model.PriorityHigh)
	is.NoErr(err)
	is.Equal(len(high), 2)

	work, err := svc.GetTasksByCategory(ctx, "Work")
	is.NoErr(err)
	is.Equal(len(work), 2)
}

func TestTaskService_DateRangeInclusive(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	svc, _ := newTestTaskService(t)

	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, 3, 6, 0, 0, 0, 0, time.Local)
	inside := start.Add(24 * time.Hour)
	after := end.Add(time.Minute)

	for _, due := range []*time.Time{&start, &inside, &end, &after, nil} {
		_, err := svc.Create(ctx, TaskInput{Title: "x", DueDate: due})
		is.NoErr(err)
	}

	got, err := svc.GetTasksForDateRange(ctx, start, end)
	is.NoErr(err)
	is.Equal(len(got), 3) // both boundaries included, nil excluded
}

func TestTaskService_MutationHook(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	svc, _ := newTestTaskService(t)

	var fired int
	svc.OnMutate(func() { fired++ })

	task, err := svc.Create(ctx, TaskInput{Title: "watched"})
	is.NoErr(err)
	title := "renamed"
	_, err = svc.Update(ctx, task.ID, TaskUpdate{Title: &title})
	is.NoErr(err)
	is.NoErr(svc.Delete(ctx, task.ID))

	is.Equal(fired, 3)
}

func TestTaskService_ReturnsCopies(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	svc, notifier := newTestTaskService(t)

	task, err := svc.Create(ctx, TaskInput{Title: "guarded", AssignedUsers: []string{"a@x.com"}})
	is.NoErr(err)
	notifier.await(t)

	task.Title = "mutated"
	task.AssignedUsers[0] = "evil@x.com"

	fresh, err := svc.GetByID(ctx, task.ID)
	is.NoErr(err)
	is.Equal(fresh.Title, "guarded")
	is.Equal(fresh.AssignedUsers[0], "a@x.com")
}
