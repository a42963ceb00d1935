package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"dayflow/internal/model"
	"dayflow/internal/notify"
	"dayflow/internal/query"
	"dayflow/internal/repository"
)

// How long a fire-and-forget assignment dispatch may run before it is cut
// off. The triggering mutation has long since returned by then.
const dispatchTimeout = 30 * time.Second

// AssignmentNotifier delivers assignment notices for newly assigned users.
type AssignmentNotifier interface {
	SendTaskAssignment(ctx context.Context, task model.Task, emails []string) (notify.DispatchResult, error)
}

// TaskInput carries the caller-supplied fields for a new task.
type TaskInput struct {
	Title         string
	Priority      model.Priority
	Category      string
	DueDate       *time.Time
	AssignedUsers []string
}

// TaskUpdate is a partial update. Nil fields are left untouched; the merge
// order matches the original service: plain fields first, then Completed,
// which rederives CompletedAt no matter what the payload carried.
type TaskUpdate struct {
	Title         *string
	Priority      *model.Priority
	Category      *string
	DueDate       *time.Time
	ClearDueDate  bool
	Completed     *bool
	CompletedAt   *time.Time
	AssignedUsers *[]string
}

// TaskService owns the authoritative task collection. Mutations are
// serialized under one mutex so ID assignment and the completedAt invariant
// hold under concurrent requests; reads go straight to the repository,
// which returns copies.
type TaskService struct {
	mu       sync.Mutex
	repo     repository.TaskRepository
	notifier AssignmentNotifier
	latency  Latency
	logger   *log.Logger
	now      func() time.Time
	lastID   int

	hookMu sync.Mutex
	hooks  []func()
}

// NewTaskService seeds the ID high-water mark from storage so IDs stay
// strictly increasing and are never reused, even across restarts of a
// durable backend.
func NewTaskService(ctx context.Context, repo repository.TaskRepository, notifier AssignmentNotifier, latency Latency) (*TaskService, error) {
	maxID, err := repo.MaxID(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed task ids: %w", err)
	}
	return &TaskService{
		repo:     repo,
		notifier: notifier,
		latency:  latency,
		logger:   log.Default(),
		now:      time.Now,
		lastID:   maxID,
	}, nil
}

// OnMutate registers a callback invoked after every successful create,
// update, or delete. Hosts use it to refresh derived views.
func (s *TaskService) OnMutate(fn func()) {
	s.hookMu.Lock()
	defer s.hookMu.Unlock()
	s.hooks = append(s.hooks, fn)
}

func (s *TaskService) notifyMutation() {
	s.hookMu.Lock()
	hooks := append([]func(){}, s.hooks...)
	s.hookMu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// GetAll returns a copy of every task, unfiltered.
func (s *TaskService) GetAll(ctx context.Context) ([]model.Task, error) {
	s.latency.sleep(ctx, delayList)
	return s.repo.List(ctx)
}

// GetByID returns the task or repository.ErrNotFound.
func (s *TaskService) GetByID(ctx context.Context, id int) (model.Task, error) {
	s.latency.sleep(ctx, delayGet)
	return s.repo.Get(ctx, id)
}

// Create validates the input, assigns the next ID, and stores the task.
// When assignees are present their notification is dispatched in the
// background; a dispatch failure never rolls the creation back.
func (s *TaskService) Create(ctx context.Context, input TaskInput) (model.Task, error) {
	s.latency.sleep(ctx, delayCreate)

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return model.Task{}, ErrEmptyTitle
	}
	if err := validateAssignees(input.AssignedUsers); err != nil {
		return model.Task{}, err
	}

	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	s.mu.Lock()
	s.lastID++
	task := model.Task{
		ID:            s.lastID,
		Title:         title,
		Priority:      priority,
		Category:      input.Category,
		Completed:     false,
		CreatedAt:     s.now(),
		AssignedUsers: append([]string(nil), input.AssignedUsers...),
	}
	if input.DueDate != nil {
		d := *input.DueDate
		task.DueDate = &d
	}
	if err := s.repo.Put(ctx, task); err != nil {
		s.lastID--
		s.mu.Unlock()
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}
	s.mu.Unlock()

	if len(task.AssignedUsers) > 0 {
		s.dispatchAssignment(task.Clone(), task.AssignedUsers)
	}
	s.notifyMutation()
	return task.Clone(), nil
}

// Update merges the partial payload over the stored record. Identity is
// never writable; Completed drives CompletedAt regardless of what the
// payload carried; assignees added by the payload (and only those) get an
// assignment notice.
func (s *TaskService) Update(ctx context.Context, id int, upd TaskUpdate) (model.Task, error) {
	s.latency.sleep(ctx, delayUpdate)

	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return model.Task{}, ErrEmptyTitle
	}
	if upd.AssignedUsers != nil {
		if err := validateAssignees(*upd.AssignedUsers); err != nil {
			return model.Task{}, err
		}
	}

	s.mu.Lock()
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		s.mu.Unlock()
		return model.Task{}, err
	}

	updated := existing.Clone()
	if upd.Title != nil {
		updated.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Priority != nil {
		updated.Priority = *upd.Priority
	}
	if upd.Category != nil {
		updated.Category = *upd.Category
	}
	if upd.DueDate != nil {
		d := *upd.DueDate
		updated.DueDate = &d
	}
	if upd.ClearDueDate {
		updated.DueDate = nil
	}
	if upd.CompletedAt != nil {
		t := *upd.CompletedAt
		updated.CompletedAt = &t
	}

	var added []string
	if upd.AssignedUsers != nil {
		added = newAssignees(existing.AssignedUsers, *upd.AssignedUsers)
		updated.AssignedUsers = append([]string(nil), (*upd.AssignedUsers)...)
	}

	if upd.Completed != nil {
		updated.Completed = *upd.Completed
		if *upd.Completed {
			now := s.now()
			updated.CompletedAt = &now
		} else {
			updated.CompletedAt = nil
		}
	}

	updated.ID = existing.ID

	if err := s.repo.Put(ctx, updated); err != nil {
		s.mu.Unlock()
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	s.mu.Unlock()

	if len(added) > 0 {
		s.dispatchAssignment(updated.Clone(), added)
	}
	s.notifyMutation()
	return updated.Clone(), nil
}

// Delete removes the task permanently.
func (s *TaskService) Delete(ctx context.Context, id int) error {
	s.latency.sleep(ctx, delayDelete)

	s.mu.Lock()
	err := s.repo.Delete(ctx, id)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notifyMutation()
	return nil
}

// GetTodaysTasks returns tasks whose due date falls on today's calendar
// day, whatever the time of day.
func (s *TaskService) GetTodaysTasks(ctx context.Context) ([]model.Task, error) {
	s.latency.sleep(ctx, delayList)
	return s.tasksDueOn(ctx, s.now(), false)
}

// GetTasksDueTomorrow returns incomplete tasks due on tomorrow's calendar
// day. Completed tasks need no reminder.
func (s *TaskService) GetTasksDueTomorrow(ctx context.Context) ([]model.Task, error) {
	s.latency.sleep(ctx, delayList)
	return s.tasksDueOn(ctx, s.now().AddDate(0, 0, 1), true)
}

func (s *TaskService) tasksDueOn(ctx context.Context, day time.Time, skipCompleted bool) ([]model.Task, error) {
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Task, 0)
	for _, t := range tasks {
		if t.DueDate == nil || !query.SameDay(*t.DueDate, day) {
			continue
		}
		if skipCompleted && t.Completed {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// GetTasksByPriority returns tasks with exactly the given priority.
func (s *TaskService) GetTasksByPriority(ctx context.Context, priority model.Priority) ([]model.Task, error) {
	s.latency.sleep(ctx, delayQuery)
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Task, 0)
	for _, t := range tasks {
		if t.Priority == priority {
			out = append(out, t)
		}
	}
	return out, nil
}

// GetTasksByCategory returns tasks with exactly the given category name.
func (s *TaskService) GetTasksByCategory(ctx context.Context, category string) ([]model.Task, error) {
	s.latency.sleep(ctx, delayQuery)
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Task, 0)
	for _, t := range tasks {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out, nil
}

// GetTasksForDateRange returns tasks due between start and end inclusive.
// Tasks without a due date are excluded.
func (s *TaskService) GetTasksForDateRange(ctx context.Context, start, end time.Time) ([]model.Task, error) {
	s.latency.sleep(ctx, delayQuery)
	tasks, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Task, 0)
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		if t.DueDate.Before(start) || t.DueDate.After(end) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// dispatchAssignment hands the notice to the notifier without awaiting it.
// The mutation that triggered it already succeeded; a send failure is
// logged and swallowed.
func (s *TaskService) dispatchAssignment(task model.Task, emails []string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if _, err := s.notifier.SendTaskAssignment(ctx, task, emails); err != nil {
			s.logger.Printf("task %d: assignment notification failed: %v", task.ID, err)
		}
	}()
}

func validateAssignees(emails []string) error {
	for _, email := range emails {
		if !notify.ValidateEmail(email) {
			return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
		}
	}
	return nil
}

// newAssignees returns entries of updated that are not in current,
// preserving order. Existing assignees are never re-notified.
func newAssignees(current, updated []string) []string {
	seen := make(map[string]struct{}, len(current))
	for _, email := range current {
		seen[email] = struct{}{}
	}
	var added []string
	for _, email := range updated {
		if _, ok := seen[email]; !ok {
			added = append(added, email)
			seen[email] = struct{}{}
		}
	}
	return added
}
