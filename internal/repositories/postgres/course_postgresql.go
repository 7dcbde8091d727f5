package postgres

import (
	"context"

	"github.com/brightpath-edu/tutor-portal/internal/models"
	"github.com/brightpath-edu/tutor-portal/internal/repositories"
	"gorm.io/gorm"
)

type CoursePostgreSQL struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db}
}

func (c *CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	return c.db.WithContext(ctx).Create(course).Error
}

func (c *CoursePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := c.db.WithContext(ctx).
		Preload("Tutor").
		First(&course, id).Error

	if err != nil {
		return nil, err
	}

	return &course, nil
}

func (c *CoursePostgreSQL) Update(ctx context.Context, course *models.Course) error {
	return c.db.WithContext(ctx).Save(course).Error
}

func (c *CoursePostgreSQL) Delete(ctx context.Context, id uint) error {
	return c.db.WithContext(ctx).Delete(&models.Course{}, id).Error
}

func (c *CoursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	query := c.db.WithContext(ctx).Model(&models.Course{})

	if filters.TutorID != nil {
		query = query.Where("tutor_id = ?", *filters.TutorID)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("name ASC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var courses []*models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (c *CoursePostgreSQL) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", id).
		Count(&count).Error

	return count > 0, err
}

func (c *CoursePostgreSQL) ExistsByCode(ctx context.Context, code string, excludeID *uint) (bool, error) {
	query := c.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("code = ?", code)

	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}
