package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Code        string  `json:"code" gorm:"uniqueIndex;not null;size:20" validate:"required,min=2,max=20"`
	Description *string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`

	TutorID  uint `json:"tutor_id" gorm:"not null;index"`
	IsActive bool `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Tutor User `json:"tutor" gorm:"foreignKey:TutorID"`
}

func (Course) TableName() string {
	return "courses"
}
