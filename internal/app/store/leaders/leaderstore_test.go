package leaderstore_test

import (
	"math"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	leaderstore "github.com/dalemusser/crewhub/internal/app/store/leaders"
	"github.com/dalemusser/crewhub/internal/domain/models"
	"github.com/dalemusser/crewhub/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := leaderstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Leader{
		FullName: "Ada Leader",
		LoginID:  "ada@test.local",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
	if created.SolvedRequests != 0 {
		t.Errorf("SolvedRequests: got %d, want 0", created.SolvedRequests)
	}
	if created.AverageSolutionMS != 0 {
		t.Errorf("AverageSolutionMS: got %v, want 0", created.AverageSolutionMS)
	}
}

func TestStore_Exists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := leaderstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateLeader(ctx, "Real Leader")

	ok, err := store.Exists(ctx, leader.ID)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !ok {
		t.Error("expected leader to exist")
	}

	ok, err = store.Exists(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if ok {
		t.Error("expected unknown ID to not exist")
	}
}

func TestStore_RecordDecision_RunningMean(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := leaderstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	leader := fixtures.CreateLeader(ctx, "Deciding Leader")

	// First decision: average equals the single sample.
	if err := store.RecordDecision(ctx, leader.ID, 100*time.Millisecond); err != nil {
		t.Fatalf("first RecordDecision failed: %v", err)
	}
	got, err := store.GetByID(ctx, leader.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.SolvedRequests != 1 {
		t.Errorf("SolvedRequests: got %d, want 1", got.SolvedRequests)
	}
	if math.Abs(got.AverageSolutionMS-100) > 0.001 {
		t.Errorf("AverageSolutionMS: got %v, want 100", got.AverageSolutionMS)
	}

	// Second decision of 300ms: mean of 100 and 300 is 200.
	if err := store.RecordDecision(ctx, leader.ID, 300*time.Millisecond); err != nil {
		t.Fatalf("second RecordDecision failed: %v", err)
	}
	got, err = store.GetByID(ctx, leader.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.SolvedRequests != 2 {
		t.Errorf("SolvedRequests: got %d, want 2", got.SolvedRequests)
	}
	if math.Abs(got.AverageSolutionMS-200) > 0.001 {
		t.Errorf("AverageSolutionMS: got %v, want 200", got.AverageSolutionMS)
	}
}

func TestStore_RecordDecision_UnknownLeader(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := leaderstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := store.RecordDecision(ctx, primitive.NewObjectID(), time.Second)
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}
