package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"opsdesk/internal/model"
)

// TaskRepository handles checklist task rows. Tasks are created once and
// never updated or deleted here; recurrence history depends on them staying
// put.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns tasks newest first, optionally filtered by doer and/or
// reference number. Empty filters match everything.
func (r *TaskRepository) List(ctx context.Context, doerID, referenceNo string) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Model(&model.Task{})
	if doerID != "" {
		q = q.Where("doer_id = ?", doerID)
	}
	if referenceNo != "" {
		q = q.Where("reference_no = ?", referenceNo)
	}
	var tasks []model.Task
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	return r.List(ctx, "", "")
}

// ReferenceNos returns existing reference numbers with the given prefix,
// used to pick the next sequence number for a doer.
func (r *TaskRepository) ReferenceNos(ctx context.Context, prefix string) ([]string, error) {
	var refs []string
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("reference_no LIKE ?", prefix+"%").
		Pluck("reference_no", &refs).Error; err != nil {
		return nil, fmt.Errorf("list reference nos: %w", err)
	}
	return refs, nil
}
