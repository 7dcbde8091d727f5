package postgres

import (
	"context"

	"github.com/brightpath-edu/tutor-portal/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB

	quiz     repositories.QuizRepository
	question repositories.QuestionRepository
	course   repositories.CourseRepository
	attempt  repositories.AttemptRepository
	user     repositories.UserRepository
}

// NewRepository wires all PostgreSQL repositories around one gorm handle.
// The quiz repository leans on the attempt repository for attempt counts.
func NewRepository(db *gorm.DB) repositories.Repository {
	attempt := NewAttemptPostgreSQL(db)

	return &repository{
		db:       db,
		quiz:     NewQuizPostgreSQL(db, attempt),
		question: NewQuestionPostgreSQL(db),
		course:   NewCoursePostgreSQL(db),
		attempt:  attempt,
		user:     NewUserPostgreSQL(db),
	}
}

func (r *repository) Quiz() repositories.QuizRepository         { return r.quiz }
func (r *repository) Question() repositories.QuestionRepository { return r.question }
func (r *repository) Course() repositories.CourseRepository     { return r.course }
func (r *repository) Attempt() repositories.AttemptRepository   { return r.attempt }
func (r *repository) User() repositories.UserRepository         { return r.user }

func (r *repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
