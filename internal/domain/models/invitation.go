// internal/domain/models/invitation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invitation is a member's pending request to join a group. A member holds
// at most one outstanding invitation at a time (unique index on member_id).
//
// Invitations have no status field: acceptance, rejection, and cancellation
// all delete the document.
type Invitation struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MemberID primitive.ObjectID `bson:"member_id" json:"member_id"`
	GroupID  primitive.ObjectID `bson:"group_id" json:"group_id"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
