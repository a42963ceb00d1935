package repository

import (
	"context"
	"sort"
	"sync"

	"dayflow/internal/model"
)

// MemoryTaskRepository keeps tasks in a process-local map keyed by ID.
// Reads return copies, so callers can never reach into store state.
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[int]model.Task
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{tasks: make(map[int]model.Task)}
}

func (r *MemoryTaskRepository) List(_ context.Context) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryTaskRepository) Get(_ context.Context, id int) (model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return model.Task{}, ErrNotFound
	}
	return t.Clone(), nil
}

func (r *MemoryTaskRepository) Put(_ context.Context, task model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[task.ID] = task.Clone()
	return nil
}

func (r *MemoryTaskRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *MemoryTaskRepository) MaxID(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	max := 0
	for id := range r.tasks {
		if id > max {
			max = id
		}
	}
	return max, nil
}

// MemoryCategoryRepository keeps categories in a process-local map.
type MemoryCategoryRepository struct {
	mu         sync.RWMutex
	categories map[int]model.Category
}

func NewMemoryCategoryRepository() *MemoryCategoryRepository {
	return &MemoryCategoryRepository{categories: make(map[int]model.Category)}
}

func (r *MemoryCategoryRepository) List(_ context.Context) ([]model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryCategoryRepository) Get(_ context.Context, id int) (model.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return model.Category{}, ErrNotFound
	}
	return c, nil
}

func (r *MemoryCategoryRepository) Put(_ context.Context, category model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.categories[category.ID] = category
	return nil
}

func (r *MemoryCategoryRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *MemoryCategoryRepository) MaxID(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	max := 0
	for id := range r.categories {
		if id > max {
			max = id
		}
	}
	return max, nil
}

// MemoryProgressRepository keeps day-progress records in a process-local map.
type MemoryProgressRepository struct {
	mu      sync.RWMutex
	records map[int]model.DayProgress
}

func NewMemoryProgressRepository() *MemoryProgressRepository {
	return &MemoryProgressRepository{records: make(map[int]model.DayProgress)}
}

func (r *MemoryProgressRepository) List(_ context.Context) ([]model.DayProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.DayProgress, 0, len(r.records))
	for _, p := range r.records {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryProgressRepository) Get(_ context.Context, id int) (model.DayProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.records[id]
	if !ok {
		return model.DayProgress{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryProgressRepository) GetByDate(_ context.Context, date string) (model.DayProgress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.records {
		if p.Date == date {
			return p, nil
		}
	}
	return model.DayProgress{}, ErrNotFound
}

func (r *MemoryProgressRepository) Put(_ context.Context, progress model.DayProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[progress.ID] = progress
	return nil
}

func (r *MemoryProgressRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *MemoryProgressRepository) MaxID(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	max := 0
	for id := range r.records {
		if id > max {
			max = id
		}
	}
	return max, nil
}
