// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a team of members under exactly one leader, joinable via a
// unique share code.
//
// NOTE:
//   - MemberIDs is the authoritative membership list; insertion order is
//     preserved and meaningful for iteration.
//   - MemberCount is a cached copy of len(MemberIDs). It is only ever
//     written by the membership engine, which recomputes it on every
//     membership change.
type Group struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Description string             `bson:"description" json:"description"`
	ImageURL    string             `bson:"image_url" json:"image_url"`

	// Code is the human-shareable join code, unique across all groups.
	Code string `bson:"code" json:"code"`

	LeaderID    primitive.ObjectID   `bson:"leader_id" json:"leader_id"`
	MemberIDs   []primitive.ObjectID `bson:"member_ids" json:"member_ids"`
	MemberCount int                  `bson:"member_count" json:"member_count"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasMember reports whether memberID appears in the group's member list.
func (g Group) HasMember(memberID primitive.ObjectID) bool {
	for _, id := range g.MemberIDs {
		if id == memberID {
			return true
		}
	}
	return false
}
