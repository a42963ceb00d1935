package repository

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"dayflow/internal/model"
)

//go:embed fixtures/*.json
var fixtureFS embed.FS

// SeedFixtures loads the bundled sample dataset into the given repositories.
// Meant for the in-memory backend at process start.
func SeedFixtures(ctx context.Context, tasks TaskRepository, categories CategoryRepository, progress ProgressRepository) error {
	var ts []model.Task
	if err := loadFixture("fixtures/tasks.json", &ts); err != nil {
		return err
	}
	for _, t := range ts {
		if err := tasks.Put(ctx, t); err != nil {
			return fmt.Errorf("seed task %d: %w", t.ID, err)
		}
	}

	var cs []model.Category
	if err := loadFixture("fixtures/categories.json", &cs); err != nil {
		return err
	}
	for _, c := range cs {
		if err := categories.Put(ctx, c); err != nil {
			return fmt.Errorf("seed category %d: %w", c.ID, err)
		}
	}

	var ps []model.DayProgress
	if err := loadFixture("fixtures/day_progress.json", &ps); err != nil {
		return err
	}
	for _, p := range ps {
		if err := progress.Put(ctx, p); err != nil {
			return fmt.Errorf("seed progress %d: %w", p.ID, err)
		}
	}

	return nil
}

func loadFixture(name string, out any) error {
	data, err := fixtureFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read fixture %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse fixture %s: %w", name, err)
	}
	return nil
}
