package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of quiz lifecycle events
type EventType string

const (
	// Quiz lifecycle events
	EventQuizPublished EventType = "quiz.published"
	EventQuizArchived  EventType = "quiz.archived"
	EventQuizDeleted   EventType = "quiz.deleted"

	// Schedule events
	EventQuizScheduleChanged EventType = "quiz.schedule_changed"
)

// QuizEvent is the base event structure for all quiz lifecycle events
type QuizEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// GenerateEventID returns a unique event identifier
func GenerateEventID() string {
	return uuid.NewString()
}

// Quiz lifecycle event payloads

type QuizPublishedEvent struct {
	QuizID     uint       `json:"quiz_id"`
	QuizTitle  string     `json:"quiz_title"`
	CourseID   uint       `json:"course_id"`
	CourseName string     `json:"course_name"`
	StartAt    *time.Time `json:"start_at,omitempty"`
	EndAt      *time.Time `json:"end_at,omitempty"`
	Duration   *int       `json:"duration,omitempty"` // minutes
	TutorID    uint       `json:"tutor_id"`
}

type QuizArchivedEvent struct {
	QuizID     uint      `json:"quiz_id"`
	QuizTitle  string    `json:"quiz_title"`
	CourseID   uint      `json:"course_id"`
	ArchivedAt time.Time `json:"archived_at"`
	TutorID    uint      `json:"tutor_id"`
}

type QuizDeletedEvent struct {
	QuizID    uint      `json:"quiz_id"`
	QuizTitle string    `json:"quiz_title"`
	CourseID  uint      `json:"course_id"`
	DeletedAt time.Time `json:"deleted_at"`
	TutorID   uint      `json:"tutor_id"`
}

type QuizScheduleChangedEvent struct {
	QuizID    uint       `json:"quiz_id"`
	QuizTitle string     `json:"quiz_title"`
	CourseID  uint       `json:"course_id"`
	StartAt   *time.Time `json:"start_at,omitempty"`
	EndAt     *time.Time `json:"end_at,omitempty"`
	TutorID   uint       `json:"tutor_id"`
}

// Event constructors

func newQuizEvent(eventType EventType, data interface{}) *QuizEvent {
	return &QuizEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "tutor-portal",
		Version:   "1.0",
		Data:      data,
	}
}

func NewQuizPublishedEvent(data QuizPublishedEvent) *QuizEvent {
	return newQuizEvent(EventQuizPublished, data)
}

func NewQuizArchivedEvent(data QuizArchivedEvent) *QuizEvent {
	return newQuizEvent(EventQuizArchived, data)
}

func NewQuizDeletedEvent(data QuizDeletedEvent) *QuizEvent {
	return newQuizEvent(EventQuizDeleted, data)
}

func NewQuizScheduleChangedEvent(data QuizScheduleChangedEvent) *QuizEvent {
	return newQuizEvent(EventQuizScheduleChanged, data)
}
