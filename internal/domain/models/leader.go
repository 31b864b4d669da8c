// internal/domain/models/leader.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Leader owns at most one Group at a time. It exists independently of
// whether it currently owns one.
//
// LoginID is an opaque reference to the authentication principal; user
// identity and credentials live outside this service.
type Leader struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName string             `bson:"full_name" json:"full_name"`
	LoginID  string             `bson:"login_id" json:"login_id"`

	// Decision metrics over join requests the leader has resolved.
	// AverageSolutionMS is the running mean time (in milliseconds) from an
	// invitation's creation to the leader's accept/reject decision.
	AverageSolutionMS float64 `bson:"average_solution_ms" json:"average_solution_ms"`
	SolvedRequests    int64   `bson:"solved_requests" json:"solved_requests"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
