// internal/app/store/leaders/leaderstore.go
package leaderstore

import (
	"context"
	"time"

	"github.com/dalemusser/crewhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("leaders")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Leader, error) {
	var l models.Leader
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		return models.Leader{}, err
	}
	return l, nil
}

func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Create(ctx context.Context, l models.Leader) (models.Leader, error) {
	now := time.Now().UTC()
	l.ID = primitive.NewObjectID()
	l.CreatedAt = now
	l.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, l); err != nil {
		return models.Leader{}, err
	}
	return l, nil
}

// RecordDecision folds one resolved join request into the leader's running
// decision metrics: solved_requests increments and average_solution_ms
// absorbs took as a running mean.
func (s *Store) RecordDecision(ctx context.Context, id primitive.ObjectID, took time.Duration) error {
	l, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	tookMS := float64(took.Milliseconds())
	solved := l.SolvedRequests
	avg := (l.AverageSolutionMS*float64(solved) + tookMS) / float64(solved+1)

	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"average_solution_ms": avg,
		"solved_requests":     solved + 1,
		"updated_at":          time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
