package invitationstore_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	invitationstore "github.com/dalemusser/crewhub/internal/app/store/invitations"
	"github.com/dalemusser/crewhub/internal/domain/models"
	"github.com/dalemusser/crewhub/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := fixtures.CreateMember(ctx, "Invited Member", nil)
	leader := fixtures.CreateLeader(ctx, "Invite Leader")
	group := fixtures.CreateGroup(ctx, "Invite Group", "INVITE001", leader.ID)

	created, err := store.Create(ctx, models.Invitation{
		MemberID: member.ID,
		GroupID:  group.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestStore_Create_OnePerMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := fixtures.CreateMember(ctx, "Eager Member", nil)
	leader1 := fixtures.CreateLeader(ctx, "Leader One")
	leader2 := fixtures.CreateLeader(ctx, "Leader Two")
	group1 := fixtures.CreateGroup(ctx, "Group One", "GROUPONE1", leader1.ID)
	group2 := fixtures.CreateGroup(ctx, "Group Two", "GROUPTWO2", leader2.ID)

	_, err := store.Create(ctx, models.Invitation{MemberID: member.ID, GroupID: group1.ID})
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	// A second invitation for the same member, even to a different group,
	// violates the one-outstanding-invitation rule.
	_, err = store.Create(ctx, models.Invitation{MemberID: member.ID, GroupID: group2.ID})
	if err != invitationstore.ErrDuplicateInvitation {
		t.Errorf("expected ErrDuplicateInvitation, got %v", err)
	}
}

func TestStore_ExistsForMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := fixtures.CreateMember(ctx, "Checked Member", nil)
	leader := fixtures.CreateLeader(ctx, "Check Leader")
	group := fixtures.CreateGroup(ctx, "Check Group", "CHECKME01", leader.ID)

	ok, err := store.ExistsForMember(ctx, member.ID)
	if err != nil {
		t.Fatalf("ExistsForMember failed: %v", err)
	}
	if ok {
		t.Error("expected no invitation yet")
	}

	fixtures.CreateInvitation(ctx, member.ID, group.ID)

	ok, err = store.ExistsForMember(ctx, member.ID)
	if err != nil {
		t.Fatalf("ExistsForMember failed: %v", err)
	}
	if !ok {
		t.Error("expected invitation to be found")
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	member := fixtures.CreateMember(ctx, "Deleted Member", nil)
	leader := fixtures.CreateLeader(ctx, "Delete Leader")
	group := fixtures.CreateGroup(ctx, "Delete Group", "DELINV001", leader.ID)
	inv := fixtures.CreateInvitation(ctx, member.ID, group.ID)

	n, err := store.Delete(ctx, inv.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted count: got %d, want 1", n)
	}

	n, err = store.Delete(ctx, inv.ID)
	if err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if n != 0 {
		t.Errorf("deleted count: got %d, want 0", n)
	}
}

func TestStore_DeleteByGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := invitationstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader1 := fixtures.CreateLeader(ctx, "Bulk Leader")
	leader2 := fixtures.CreateLeader(ctx, "Other Leader")
	group := fixtures.CreateGroup(ctx, "Bulk Group", "BULKDEL01", leader1.ID)
	other := fixtures.CreateGroup(ctx, "Other Group", "OTHERGRP1", leader2.ID)

	m1 := fixtures.CreateMember(ctx, "Bulk One", nil)
	m2 := fixtures.CreateMember(ctx, "Bulk Two", nil)
	m3 := fixtures.CreateMember(ctx, "Bulk Three", nil)
	fixtures.CreateInvitation(ctx, m1.ID, group.ID)
	fixtures.CreateInvitation(ctx, m2.ID, group.ID)
	fixtures.CreateInvitation(ctx, m3.ID, other.ID)

	n, err := store.DeleteByGroup(ctx, group.ID)
	if err != nil {
		t.Fatalf("DeleteByGroup failed: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted count: got %d, want 2", n)
	}

	// The other group's invitation survives.
	left, err := store.ListByGroup(ctx, other.ID)
	if err != nil {
		t.Fatalf("ListByGroup failed: %v", err)
	}
	if len(left) != 1 {
		t.Errorf("other group invitations: got %d, want 1", len(left))
	}
}
