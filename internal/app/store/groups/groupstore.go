// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/crewhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var (
	// ErrDuplicateCode means the generated share code lost the race with a
	// concurrent group creation. Callers regenerate and retry.
	ErrDuplicateCode = errors.New("a group with this code already exists")

	// ErrDuplicateLeader means the leader already owns a group.
	ErrDuplicateLeader = errors.New("leader already owns a group")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// GetByLeader resolves the group owned by leaderID. Returns
// mongo.ErrNoDocuments when the leader owns none.
func (s *Store) GetByLeader(ctx context.Context, leaderID primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"leader_id": leaderID}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// GetByCode resolves a group by its share code. Codes are unique by index,
// but a rare generation race can slip a duplicate past the pre-insert
// check; FindOne returns the first match so lookups stay tolerant.
func (s *Store) GetByCode(ctx context.Context, code string) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"code": code}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// CodeExists reports whether any group currently holds the code.
func (s *Store) CodeExists(ctx context.Context, code string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"code": code})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	if g.MemberIDs == nil {
		g.MemberIDs = []primitive.ObjectID{}
	}
	g.MemberCount = len(g.MemberIDs)
	g.CreatedAt = now
	g.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, g)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Group{}, dupError(err)
		}
		return models.Group{}, err
	}
	return g, nil
}

// UpdateInfo applies a partial edit of name/description/image URL. A blank
// input means "leave unchanged" — this is a deliberate partial-update
// semantic, not an omission.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, desc, imgURL string) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if strings.TrimSpace(name) != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if strings.TrimSpace(desc) != "" {
		set["description"] = desc
	}
	if strings.TrimSpace(imgURL) != "" {
		set["image_url"] = imgURL
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// SetMembers overwrites the group's member list and recomputes the cached
// member count from it in the same write. Only the membership engine calls
// this.
func (s *Store) SetMembers(ctx context.Context, id primitive.ObjectID, memberIDs []primitive.ObjectID) error {
	if memberIDs == nil {
		memberIDs = []primitive.ObjectID{}
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"member_ids":   memberIDs,
		"member_count": len(memberIDs),
		"updated_at":   time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a group by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// dupError maps a duplicate-key error to the violated unique index.
func dupError(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "uniq_groups_leader") || strings.Contains(msg, "leader_id") {
		return ErrDuplicateLeader
	}
	return ErrDuplicateCode
}
