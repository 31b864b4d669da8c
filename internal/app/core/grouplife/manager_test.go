package grouplife_test

import (
	"errors"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/crewhub/internal/app/core/grouplife"
	"github.com/dalemusser/crewhub/internal/app/system/faults"
	"github.com/dalemusser/crewhub/internal/testutil"
)

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func TestManager_CreateGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	manager := grouplife.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateLeader(ctx, "Founding Leader")

	group, err := manager.CreateGroup(ctx, leader.ID, "Study Crew", "We meet on Tuesdays", "")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	if group.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if group.LeaderID != leader.ID {
		t.Errorf("LeaderID: got %v, want %v", group.LeaderID, leader.ID)
	}
	if len(group.MemberIDs) != 0 || group.MemberCount != 0 {
		t.Errorf("expected empty membership, got %d/%d", len(group.MemberIDs), group.MemberCount)
	}

	if len(group.Code) != 9 {
		t.Errorf("code length: got %d, want 9", len(group.Code))
	}
	for _, c := range group.Code {
		if !strings.ContainsRune(codeCharset, c) {
			t.Errorf("code %q contains %q outside the charset", group.Code, c)
		}
	}
}

func TestManager_CreateGroup_UnknownLeader(t *testing.T) {
	db := testutil.SetupTestDB(t)
	manager := grouplife.New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := manager.CreateGroup(ctx, primitive.NewObjectID(), "Orphan Group", "", "")
	if !errors.Is(err, faults.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestManager_CreateGroup_OnePerLeader(t *testing.T) {
	db := testutil.SetupTestDB(t)
	manager := grouplife.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateLeader(ctx, "Greedy Leader")

	if _, err := manager.CreateGroup(ctx, leader.ID, "First Group", "", ""); err != nil {
		t.Fatalf("first CreateGroup failed: %v", err)
	}

	_, err := manager.CreateGroup(ctx, leader.ID, "Second Group", "", "")
	if !errors.Is(err, faults.ErrConflict) {
		t.Errorf("second CreateGroup: got %v, want ErrConflict", err)
	}
}

func TestManager_CreateGroup_UniqueCodes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	manager := grouplife.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		leader := fixtures.CreateLeader(ctx, "Code Leader")
		group, err := manager.CreateGroup(ctx, leader.ID, "Code Group", "", "")
		if err != nil {
			t.Fatalf("CreateGroup %d failed: %v", i, err)
		}
		if seen[group.Code] {
			t.Fatalf("code %q issued twice", group.Code)
		}
		seen[group.Code] = true
	}
}

func TestManager_UpdateGroup_BlankFieldsUnchanged(t *testing.T) {
	db := testutil.SetupTestDB(t)
	manager := grouplife.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateLeader(ctx, "Editing Leader")
	created, err := manager.CreateGroup(ctx, leader.ID, "Keep This Name", "Keep this description", "")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	updated, err := manager.UpdateGroup(ctx, leader.ID, "", "", "https://img.test/new.png")
	if err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}

	if updated.Name != created.Name {
		t.Errorf("Name changed: got %q, want %q", updated.Name, created.Name)
	}
	if updated.Description != created.Description {
		t.Errorf("Description changed: got %q, want %q", updated.Description, created.Description)
	}
	if updated.ImageURL != "https://img.test/new.png" {
		t.Errorf("ImageURL: got %q", updated.ImageURL)
	}
}

func TestManager_UpdateGroup_SanitizesDescription(t *testing.T) {
	db := testutil.SetupTestDB(t)
	manager := grouplife.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateLeader(ctx, "Careful Leader")
	if _, err := manager.CreateGroup(ctx, leader.ID, "Safe Group", "plain", ""); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	updated, err := manager.UpdateGroup(ctx, leader.ID, "", `hello <script>alert("x")</script>world`, "")
	if err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}
	if strings.Contains(updated.Description, "<script>") {
		t.Errorf("description kept script tag: %q", updated.Description)
	}
	if !strings.Contains(updated.Description, "hello") {
		t.Errorf("description lost its text: %q", updated.Description)
	}
}

func TestManager_UpdateGroup_NoGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	manager := grouplife.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateLeader(ctx, "Groupless Leader")

	_, err := manager.UpdateGroup(ctx, leader.ID, "New Name", "", "")
	if !errors.Is(err, faults.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestManager_DeleteGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	manager := grouplife.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateLeader(ctx, "Closing Leader")
	created, err := manager.CreateGroup(ctx, leader.ID, "Closing Group", "", "")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	if err := manager.DeleteGroup(ctx, leader.ID); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	_, err = manager.GetGroupByCode(ctx, created.Code)
	if !errors.Is(err, faults.ErrNotFound) {
		t.Errorf("group still resolvable after delete: %v", err)
	}

	// Deleting again finds no group for the leader.
	err = manager.DeleteGroup(ctx, leader.ID)
	if !errors.Is(err, faults.ErrNotFound) {
		t.Errorf("second DeleteGroup: got %v, want ErrNotFound", err)
	}
}

func TestManager_GetGroupByCode_Normalizes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	manager := grouplife.New(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateLeader(ctx, "Sharing Leader")
	created, err := manager.CreateGroup(ctx, leader.ID, "Shared Group", "", "")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	// Codes are stored uppercase; lookups fold case and trim whitespace.
	got, err := manager.GetGroupByCode(ctx, "  "+strings.ToLower(created.Code)+"  ")
	if err != nil {
		t.Fatalf("GetGroupByCode failed: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("ID: got %v, want %v", got.ID, created.ID)
	}
}
