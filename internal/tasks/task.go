package tasks

import (
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeProcessSource TaskType = "process_source"
)

type Task struct {
	ID         string
	Type       TaskType
	URL        string
	StartedAt  *time.Time
	FinishedAt *time.Time
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) Finish() {
	now := time.Now()
	t.FinishedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	if t.FinishedAt != nil {
		return t.FinishedAt.Sub(*t.StartedAt)
	}
	return time.Since(*t.StartedAt)
}

func NewTask(taskType TaskType, url string) Task {
	return Task{
		ID:   uuid.NewString(),
		Type: taskType,
		URL:  url,
	}
}
