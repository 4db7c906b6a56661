package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"opsdesk/internal/model"
)

// DepartmentRepository manages the department list tasks are tagged with.
type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// Seed inserts the given department names if they are not present yet.
func (r *DepartmentRepository) Seed(ctx context.Context, names []string) error {
	db := r.db.WithContext(ctx)
	for _, name := range names {
		if name == "" {
			continue
		}
		var dept model.Department
		err := db.Where("name = ?", name).First(&dept).Error
		switch {
		case err == nil:
			continue
		case err == gorm.ErrRecordNotFound:
			if err := db.Create(&model.Department{Name: name}).Error; err != nil {
				return fmt.Errorf("seed department %q: %w", name, err)
			}
		default:
			return fmt.Errorf("find department %q: %w", name, err)
		}
	}
	return nil
}

func (r *DepartmentRepository) ListNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := r.db.WithContext(ctx).Model(&model.Department{}).
		Order("name ASC").Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}
