package repositories

import (
	"context"

	"github.com/brightpath-edu/tutor-portal/internal/models"
)

// CourseRepository interface for course reference data
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)

	Exists(ctx context.Context, id uint) (bool, error)
	ExistsByCode(ctx context.Context, code string, excludeID *uint) (bool, error)
}
