package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStatus is stored numerically but rendered as its name in JSON.
type TaskStatus int

const (
	StatusTodo TaskStatus = iota
	StatusInProgress
	StatusDone
)

func (s TaskStatus) String() string {
	switch s {
	case StatusTodo:
		return "Todo"
	case StatusInProgress:
		return "InProgress"
	case StatusDone:
		return "Done"
	}
	return fmt.Sprintf("TaskStatus(%d)", int(s))
}

// ParseTaskStatus matches a status name case-insensitively.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "todo":
		return StatusTodo, nil
	case "inprogress":
		return StatusInProgress, nil
	case "done":
		return StatusDone, nil
	}
	return StatusTodo, fmt.Errorf("unknown task status: %q", s)
}

func (s TaskStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseTaskStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type TaskItem struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID      primitive.ObjectID `bson:"projectId" json:"projectId"`
	Title          string             `bson:"title" json:"title"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`
	Status         TaskStatus         `bson:"status" json:"status"`
	AssignedUserID string             `bson:"assignedUserId,omitempty" json:"assignedUserId,omitempty"`
	DueDate        *time.Time         `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
