package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"dayflow/internal/model"
)

// GormTaskRepository is the durable task backend.
type GormTaskRepository struct {
	db *gorm.DB
}

func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

func (r *GormTaskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *GormTaskRepository) Get(ctx context.Context, id int) (model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Task{}, ErrNotFound
		}
		return model.Task{}, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}

func (r *GormTaskRepository) Put(ctx context.Context, task model.Task) error {
	if err := r.db.WithContext(ctx).Save(&task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

func (r *GormTaskRepository) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, id)
	if err := result.Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormTaskRepository) MaxID(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Select("COALESCE(MAX(id), 0)").Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("max task id: %w", err)
	}
	return max, nil
}

// GormCategoryRepository is the durable category backend.
type GormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *GormCategoryRepository) Get(ctx context.Context, id int) (model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Category{}, ErrNotFound
		}
		return model.Category{}, fmt.Errorf("find category: %w", err)
	}
	return category, nil
}

func (r *GormCategoryRepository) Put(ctx context.Context, category model.Category) error {
	if err := r.db.WithContext(ctx).Save(&category).Error; err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	return nil
}

func (r *GormCategoryRepository) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Delete(&model.Category{}, id)
	if err := result.Error; err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormCategoryRepository) MaxID(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Select("COALESCE(MAX(id), 0)").Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("max category id: %w", err)
	}
	return max, nil
}

// GormProgressRepository is the durable day-progress backend.
type GormProgressRepository struct {
	db *gorm.DB
}

func NewGormProgressRepository(db *gorm.DB) *GormProgressRepository {
	return &GormProgressRepository{db: db}
}

func (r *GormProgressRepository) List(ctx context.Context) ([]model.DayProgress, error) {
	var records []model.DayProgress
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return records, nil
}

func (r *GormProgressRepository) Get(ctx context.Context, id int) (model.DayProgress, error) {
	var progress model.DayProgress
	if err := r.db.WithContext(ctx).First(&progress, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.DayProgress{}, ErrNotFound
		}
		return model.DayProgress{}, fmt.Errorf("find progress: %w", err)
	}
	return progress, nil
}

func (r *GormProgressRepository) GetByDate(ctx context.Context, date string) (model.DayProgress, error) {
	var progress model.DayProgress
	if err := r.db.WithContext(ctx).Where("date = ?", date).First(&progress).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.DayProgress{}, ErrNotFound
		}
		return model.DayProgress{}, fmt.Errorf("find progress by date: %w", err)
	}
	return progress, nil
}

func (r *GormProgressRepository) Put(ctx context.Context, progress model.DayProgress) error {
	if err := r.db.WithContext(ctx).Save(&progress).Error; err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

func (r *GormProgressRepository) Delete(ctx context.Context, id int) error {
	result := r.db.WithContext(ctx).Delete(&model.DayProgress{}, id)
	if err := result.Error; err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormProgressRepository) MaxID(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).Model(&model.DayProgress{}).
		Select("COALESCE(MAX(id), 0)").Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("max progress id: %w", err)
	}
	return max, nil
}
