package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dayflow/internal/model"
	"dayflow/internal/query"
	"dayflow/internal/repository"
)

// ProgressUpdate is a partial update; nil fields are left untouched.
type ProgressUpdate struct {
	TotalTasks        *int
	CompletedTasks    *int
	ProductivityScore *int
}

// ProgressService owns the one-record-per-day progress collection. Records
// are keyed by their ISO date and upserted through UpdateByDate.
type ProgressService struct {
	mu      sync.Mutex
	repo    repository.ProgressRepository
	latency Latency
	lastID  int
}

func NewProgressService(ctx context.Context, repo repository.ProgressRepository, latency Latency) (*ProgressService, error) {
	maxID, err := repo.MaxID(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed progress ids: %w", err)
	}
	return &ProgressService{repo: repo, latency: latency, lastID: maxID}, nil
}

func (s *ProgressService) GetAll(ctx context.Context) ([]model.DayProgress, error) {
	s.latency.sleep(ctx, delayList)
	return s.repo.List(ctx)
}

func (s *ProgressService) GetByID(ctx context.Context, id int) (model.DayProgress, error) {
	s.latency.sleep(ctx, delayGet)
	return s.repo.Get(ctx, id)
}

// GetByDate returns the record for the date, or nil when none exists yet.
func (s *ProgressService) GetByDate(ctx context.Context, date string) (*model.DayProgress, error) {
	s.latency.sleep(ctx, delayGet)
	progress, err := s.repo.GetByDate(ctx, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &progress, nil
}

// UpdateByDate upserts by the date natural key: absent dates get a fresh
// record seeded from the partial, existing ones merge it, keeping ID and
// date.
func (s *ProgressService) UpdateByDate(ctx context.Context, date string, upd ProgressUpdate) (model.DayProgress, error) {
	s.latency.sleep(ctx, delayUpdate)

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.GetByDate(ctx, date)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return model.DayProgress{}, err
		}
		s.lastID++
		created := model.DayProgress{ID: s.lastID, Date: date}
		applyProgressUpdate(&created, upd)
		if err := s.repo.Put(ctx, created); err != nil {
			s.lastID--
			return model.DayProgress{}, fmt.Errorf("create progress: %w", err)
		}
		return created, nil
	}

	updated := existing
	applyProgressUpdate(&updated, upd)
	updated.ID = existing.ID
	updated.Date = existing.Date
	if err := s.repo.Put(ctx, updated); err != nil {
		return model.DayProgress{}, fmt.Errorf("update progress: %w", err)
	}
	return updated, nil
}

// Update merges the partial payload over the record with that ID.
func (s *ProgressService) Update(ctx context.Context, id int, upd ProgressUpdate) (model.DayProgress, error) {
	s.latency.sleep(ctx, delayUpdate)

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.DayProgress{}, err
	}
	updated := existing
	applyProgressUpdate(&updated, upd)
	updated.ID = existing.ID
	if err := s.repo.Put(ctx, updated); err != nil {
		return model.DayProgress{}, fmt.Errorf("update progress: %w", err)
	}
	return updated, nil
}

// Delete exists for completeness; the reminder and progress flows never
// remove day records.
func (s *ProgressService) Delete(ctx context.Context, id int) error {
	s.latency.sleep(ctx, delayDelete)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Delete(ctx, id)
}

// RecomputeForDate derives the day's aggregates from a task snapshot and
// upserts them: tasks due that day, how many are done, and the rounded
// completion percentage.
func (s *ProgressService) RecomputeForDate(ctx context.Context, date string, tasks []model.Task) (model.DayProgress, error) {
	day, err := time.ParseInLocation(model.DateLayout, date, time.Local)
	if err != nil {
		return model.DayProgress{}, fmt.Errorf("parse date %q: %w", date, err)
	}

	total, completed := 0, 0
	for _, t := range tasks {
		if t.DueDate == nil || !query.SameDay(*t.DueDate, day) {
			continue
		}
		total++
		if t.Completed {
			completed++
		}
	}
	score := model.Score(completed, total)
	return s.UpdateByDate(ctx, date, ProgressUpdate{
		TotalTasks:        &total,
		CompletedTasks:    &completed,
		ProductivityScore: &score,
	})
}

func applyProgressUpdate(p *model.DayProgress, upd ProgressUpdate) {
	if upd.TotalTasks != nil {
		p.TotalTasks = *upd.TotalTasks
	}
	if upd.CompletedTasks != nil {
		p.CompletedTasks = *upd.CompletedTasks
	}
	if upd.ProductivityScore != nil {
		p.ProductivityScore = *upd.ProductivityScore
	}
}
