// internal/domain/models/member.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Member belongs to at most one Group (nil GroupID means unassigned) and
// owns zero or more tasks.
//
// GroupID and the owning group's member list are a pair: whenever one
// changes the other must change with it, in the same transaction. The
// membership engine is the only writer of either side.
type Member struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName string             `bson:"full_name" json:"full_name"`
	LoginID  string             `bson:"login_id" json:"login_id"`

	GroupID *primitive.ObjectID `bson:"group_id,omitempty" json:"group_id,omitempty"`

	// TaskIDs in creation order; maintained by the task engine alongside
	// the task documents themselves.
	TaskIDs []primitive.ObjectID `bson:"task_ids" json:"task_ids"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasTask reports whether taskID appears in the member's task list.
func (m Member) HasTask(taskID primitive.ObjectID) bool {
	for _, id := range m.TaskIDs {
		if id == taskID {
			return true
		}
	}
	return false
}
