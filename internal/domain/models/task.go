// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStatus enumerates the task lifecycle states.
//
// Transitions are permissive: any status may be set from any other. The
// engine layers two derived effects on top — finalizing TimePassedMS when a
// task leaves in_progress for a completion state, and forcing expired when
// the due date is in the past.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskOnHold     TaskStatus = "on_hold"
	TaskCompleted  TaskStatus = "completed"
	TaskDone       TaskStatus = "done"
	TaskExpired    TaskStatus = "expired"
)

// TaskStatuses is the canonical list of statuses, in lifecycle order.
// Schema validators and UIs build their enums from this.
var TaskStatuses = []TaskStatus{
	TaskPending, TaskInProgress, TaskOnHold, TaskCompleted, TaskDone, TaskExpired,
}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskOnHold, TaskCompleted, TaskDone, TaskExpired:
		return true
	}
	return false
}

// Terminal reports whether s is a completion-like state. completed and done
// are kept as distinct values because callers use both; they behave
// identically here.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskDone
}

// Task is a unit of work assigned to a member. GroupID is derived from the
// assignee's group at creation and re-derived on reassignment.
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	DueDate     time.Time          `bson:"due_date" json:"due_date"`
	Status      TaskStatus         `bson:"status" json:"status"`

	// MemberID is nil only transiently, mid-reassignment.
	MemberID *primitive.ObjectID `bson:"member_id,omitempty" json:"member_id,omitempty"`
	GroupID  primitive.ObjectID  `bson:"group_id" json:"group_id"`

	// TimePassedMS is the elapsed wall-clock time, finalized when the task
	// moves from in_progress to a completion state. Measured from the
	// task's creation.
	TimePassedMS int64 `bson:"time_passed_ms" json:"time_passed_ms"`

	// TimesRearranged counts reschedules: assignee or due-date changes
	// after the task was created.
	TimesRearranged int `bson:"times_rearranged" json:"times_rearranged"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
