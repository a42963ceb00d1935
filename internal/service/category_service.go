package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"dayflow/internal/model"
	"dayflow/internal/repository"
)

// CategoryInput carries the caller-supplied fields for a new category.
type CategoryInput struct {
	Name  string
	Color string
}

// CategoryUpdate is a partial update; nil fields are left untouched.
type CategoryUpdate struct {
	Name      *string
	Color     *string
	TaskCount *int
}

// CategoryService owns category metadata. Task counts are a derived view:
// nothing here watches task mutations, callers recompute with
// WithTaskCounts when they have a task snapshot at hand.
type CategoryService struct {
	mu      sync.Mutex
	repo    repository.CategoryRepository
	latency Latency
	lastID  int
}

func NewCategoryService(ctx context.Context, repo repository.CategoryRepository, latency Latency) (*CategoryService, error) {
	maxID, err := repo.MaxID(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed category ids: %w", err)
	}
	return &CategoryService{repo: repo, latency: latency, lastID: maxID}, nil
}

func (s *CategoryService) GetAll(ctx context.Context) ([]model.Category, error) {
	s.latency.sleep(ctx, delayList)
	return s.repo.List(ctx)
}

func (s *CategoryService) GetByID(ctx context.Context, id int) (model.Category, error) {
	s.latency.sleep(ctx, delayGet)
	return s.repo.Get(ctx, id)
}

// Create assigns the next ID; new categories start with zero tasks.
func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (model.Category, error) {
	s.latency.sleep(ctx, delayCreate)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return model.Category{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	category := model.Category{
		ID:        s.lastID,
		Name:      name,
		Color:     input.Color,
		TaskCount: 0,
	}
	if err := s.repo.Put(ctx, category); err != nil {
		s.lastID--
		return model.Category{}, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

// Update merges the partial payload; the ID always stays the original.
func (s *CategoryService) Update(ctx context.Context, id int, upd CategoryUpdate) (model.Category, error) {
	s.latency.sleep(ctx, delayUpdate)

	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return model.Category{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Category{}, err
	}

	updated := existing
	if upd.Name != nil {
		updated.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Color != nil {
		updated.Color = *upd.Color
	}
	if upd.TaskCount != nil {
		updated.TaskCount = *upd.TaskCount
	}
	updated.ID = existing.ID

	if err := s.repo.Put(ctx, updated); err != nil {
		return model.Category{}, fmt.Errorf("update category: %w", err)
	}
	return updated, nil
}

// Delete removes the category. Tasks referencing its name keep it; there is
// no cascade and no referential check.
func (s *CategoryService) Delete(ctx context.Context, id int) error {
	s.latency.sleep(ctx, delayDelete)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Delete(ctx, id)
}

// WithTaskCounts fills each category's TaskCount from the task snapshot.
func WithTaskCounts(categories []model.Category, tasks []model.Task) []model.Category {
	counts := make(map[string]int, len(categories))
	for _, t := range tasks {
		counts[t.Category]++
	}
	out := append([]model.Category(nil), categories...)
	for i := range out {
		out[i].TaskCount = counts[out[i].Name]
	}
	return out
}
