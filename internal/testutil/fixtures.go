package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/crewhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateLeader creates a test leader.
func (f *Fixtures) CreateLeader(ctx context.Context, fullName string) models.Leader {
	f.t.Helper()

	now := time.Now().UTC()
	l := models.Leader{
		ID:        primitive.NewObjectID(),
		FullName:  fullName,
		LoginID:   fullName + "@test.local",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("leaders").InsertOne(ctx, l); err != nil {
		f.t.Fatalf("failed to create test leader: %v", err)
	}
	return l
}

// CreateMember creates a test member, optionally already assigned to a
// group. Pass nil for an unassigned member. The group's member list is NOT
// updated; use CreateGroupWithMembers or the membership engine when both
// sides must agree.
func (f *Fixtures) CreateMember(ctx context.Context, fullName string, groupID *primitive.ObjectID) models.Member {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Member{
		ID:        primitive.NewObjectID(),
		FullName:  fullName,
		LoginID:   fullName + "@test.local",
		GroupID:   groupID,
		TaskIDs:   []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}
	return m
}

// CreateGroup creates a test group owned by leaderID with an empty member
// list and a fixed-format code derived from the name.
func (f *Fixtures) CreateGroup(ctx context.Context, name, code string, leaderID primitive.ObjectID) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Group{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: "Test group description",
		Code:        code,
		LeaderID:    leaderID,
		MemberIDs:   []primitive.ObjectID{},
		MemberCount: 0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}

// AddMemberToGroup wires both sides of the membership edge directly:
// appends the member to the group's list (recomputing the count) and points
// the member at the group. Use this to arrange state; go through the
// membership engine when the mutation itself is under test.
func (f *Fixtures) AddMemberToGroup(ctx context.Context, group models.Group, member models.Member) models.Group {
	f.t.Helper()

	group.MemberIDs = append(group.MemberIDs, member.ID)
	group.MemberCount = len(group.MemberIDs)

	if _, err := f.db.Collection("groups").UpdateByID(ctx, group.ID, map[string]interface{}{
		"$set": map[string]interface{}{
			"member_ids":   group.MemberIDs,
			"member_count": group.MemberCount,
		},
	}); err != nil {
		f.t.Fatalf("failed to add member to test group: %v", err)
	}
	if _, err := f.db.Collection("members").UpdateByID(ctx, member.ID, map[string]interface{}{
		"$set": map[string]interface{}{"group_id": group.ID},
	}); err != nil {
		f.t.Fatalf("failed to point member at test group: %v", err)
	}
	return group
}

// CreateInvitation creates a pending invitation for (member, group).
func (f *Fixtures) CreateInvitation(ctx context.Context, memberID, groupID primitive.ObjectID) models.Invitation {
	f.t.Helper()

	inv := models.Invitation{
		ID:        primitive.NewObjectID(),
		MemberID:  memberID,
		GroupID:   groupID,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("invitations").InsertOne(ctx, inv); err != nil {
		f.t.Fatalf("failed to create test invitation: %v", err)
	}
	return inv
}

// CreateTask creates a task assigned to member inside group and appends it
// to the member's task list.
func (f *Fixtures) CreateTask(ctx context.Context, title string, member models.Member, groupID primitive.ObjectID, due time.Time) models.Task {
	f.t.Helper()

	now := time.Now().UTC()
	task := models.Task{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: "Test task description",
		DueDate:     due,
		Status:      models.TaskPending,
		MemberID:    &member.ID,
		GroupID:     groupID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("tasks").InsertOne(ctx, task); err != nil {
		f.t.Fatalf("failed to create test task: %v", err)
	}
	if _, err := f.db.Collection("members").UpdateByID(ctx, member.ID, map[string]interface{}{
		"$push": map[string]interface{}{"task_ids": task.ID},
	}); err != nil {
		f.t.Fatalf("failed to append task to test member: %v", err)
	}
	return task
}
