package tasks

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusBlocked    TaskStatus = "blocked"
	StatusDone       TaskStatus = "done"
)

// MaxInProgress limits the number of tasks an owner can work on at once.
const MaxInProgress = 2

type Task struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID string             `bson:"ownerID" json:"ownerID"`

	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description" json:"description"`
	Status      TaskStatus `bson:"status" json:"status"`
	BlockReason string     `bson:"blockReason,omitempty" json:"blockReason,omitempty"`

	DueDate     int64 `bson:"dueDate,omitempty" json:"dueDate,omitempty"` // epoch ms, 0 = none
	CompletedAt int64 `bson:"completedAt,omitempty" json:"completedAt,omitempty"`

	CreatedAt int64 `bson:"createdAt" json:"createdAt"`
	UpdatedAt int64 `bson:"updatedAt" json:"updatedAt"`
}
