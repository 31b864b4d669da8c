// Package membership is the single writer of the Group↔Member edge.
//
// The edge is stored twice: in the group's member list (with its cached
// member count) and in the member's group reference. Keeping the two sides
// in agreement is this package's whole job — every mutation performs the
// full {update list, update back-reference, recompute count, persist both}
// sequence inside one transaction, so no caller can apply half of it.
package membership

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	groupstore "github.com/dalemusser/crewhub/internal/app/store/groups"
	memberstore "github.com/dalemusser/crewhub/internal/app/store/members"
	"github.com/dalemusser/crewhub/internal/app/system/faults"
	"github.com/dalemusser/crewhub/internal/app/system/txn"
)

// Engine applies membership changes. Construct with New; the zero value is
// not usable.
type Engine struct {
	db  *mongo.Database
	log *zap.Logger

	groups  *groupstore.Store
	members *memberstore.Store
}

func New(db *mongo.Database, log *zap.Logger) *Engine {
	return &Engine{
		db:      db,
		log:     log,
		groups:  groupstore.New(db),
		members: memberstore.New(db),
	}
}

// AddMember appends the member to the group and points the member back at
// it, in one transaction. Fails NotFound when either side is missing,
// Conflict when the member already belongs to a group.
func (e *Engine) AddMember(ctx context.Context, groupID, memberID primitive.ObjectID) error {
	ids, err := e.prepareAdd(ctx, groupID, memberID)
	if err != nil {
		return err
	}

	err = txn.Run(ctx, e.db, e.log, func(ctx context.Context) error {
		return e.applyEdge(ctx, groupID, memberID, ids, &groupID)
	})
	if err != nil {
		return faults.Persistence("add member", err)
	}

	e.logEdge("member joined group", groupID, memberID, len(ids))
	return nil
}

// AddMemberInTxn is AddMember for callers already inside a txn.Run block:
// same checks and writes, but it joins the caller's transaction instead of
// opening its own. ctx must be the session context the caller's
// transaction function received.
func (e *Engine) AddMemberInTxn(ctx context.Context, groupID, memberID primitive.ObjectID) error {
	ids, err := e.prepareAdd(ctx, groupID, memberID)
	if err != nil {
		return err
	}
	if err := e.applyEdge(ctx, groupID, memberID, ids, &groupID); err != nil {
		return faults.Persistence("add member", err)
	}
	e.logEdge("member joined group", groupID, memberID, len(ids))
	return nil
}

// RemoveMember is the leader-side removal of a member from a group: both
// sides of the edge are cleared together. Fails NotFound when group or
// member is missing and InvariantViolation when the member is not in the
// group's list — including on a second removal of the same pair, which
// must not silently succeed.
func (e *Engine) RemoveMember(ctx context.Context, groupID, memberID primitive.ObjectID) error {
	return e.remove(ctx, groupID, memberID)
}

// LeaveGroup is the member-initiated variant of RemoveMember: identical
// checks, identical atomic pair update.
func (e *Engine) LeaveGroup(ctx context.Context, memberID, groupID primitive.ObjectID) error {
	return e.remove(ctx, groupID, memberID)
}

// prepareAdd validates an add and returns the group's member list with the
// new member appended.
func (e *Engine) prepareAdd(ctx context.Context, groupID, memberID primitive.ObjectID) ([]primitive.ObjectID, error) {
	g, err := e.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, e.lookupErr("group", err)
	}
	m, err := e.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, e.lookupErr("member", err)
	}

	if m.GroupID != nil {
		return nil, faults.Conflict("member already belongs to a group")
	}
	if g.HasMember(memberID) {
		// Group lists the member but the member does not point back: the
		// defect class this engine exists to prevent. Refuse to widen it.
		return nil, faults.Invariant("group already lists member without back-reference")
	}

	return append(g.MemberIDs, memberID), nil
}

func (e *Engine) remove(ctx context.Context, groupID, memberID primitive.ObjectID) error {
	g, err := e.groups.GetByID(ctx, groupID)
	if err != nil {
		return e.lookupErr("group", err)
	}
	if _, err := e.members.GetByID(ctx, memberID); err != nil {
		return e.lookupErr("member", err)
	}

	if !g.HasMember(memberID) {
		return faults.Invariant("member not in group")
	}

	ids := make([]primitive.ObjectID, 0, len(g.MemberIDs)-1)
	for _, id := range g.MemberIDs {
		if id != memberID {
			ids = append(ids, id)
		}
	}

	err = txn.Run(ctx, e.db, e.log, func(ctx context.Context) error {
		return e.applyEdge(ctx, groupID, memberID, ids, nil)
	})
	if err != nil {
		return faults.Persistence("remove member", err)
	}

	e.logEdge("member left group", groupID, memberID, len(ids))
	return nil
}

// applyEdge writes both sides of the edge: the group's member list (count
// recomputed in the same write) and the member's group reference (nil
// clears it).
func (e *Engine) applyEdge(ctx context.Context, groupID, memberID primitive.ObjectID, ids []primitive.ObjectID, memberGroup *primitive.ObjectID) error {
	if err := e.groups.SetMembers(ctx, groupID, ids); err != nil {
		return err
	}
	return e.members.SetGroup(ctx, memberID, memberGroup)
}

// DetachAllMembers clears the group reference on every member of a group
// that no longer exists. Group deletion does not cascade on its own; the
// caller runs this afterwards. Returns the number of members detached.
func (e *Engine) DetachAllMembers(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	n, err := e.members.ClearGroupForAll(ctx, groupID)
	if err != nil {
		return 0, faults.Persistence("detach members", err)
	}
	if n > 0 {
		e.log.Info("detached members of deleted group",
			zap.String("group_id", groupID.Hex()),
			zap.Int64("count", n))
	}
	return n, nil
}

// VerifyCounts recomputes a group's member count from its list and checks
// both directions of the edge. It returns ErrInvariant describing the first
// mismatch found, or nil when the graph is consistent. Used by tests and
// diagnostics; it never repairs.
func (e *Engine) VerifyCounts(ctx context.Context, groupID primitive.ObjectID) error {
	g, err := e.groups.GetByID(ctx, groupID)
	if err != nil {
		return e.lookupErr("group", err)
	}

	if g.MemberCount != len(g.MemberIDs) {
		return faults.Invariant(fmt.Sprintf(
			"member_count %d != len(member_ids) %d", g.MemberCount, len(g.MemberIDs)))
	}

	seen := make(map[primitive.ObjectID]bool, len(g.MemberIDs))
	for _, id := range g.MemberIDs {
		if seen[id] {
			return faults.Invariant("member listed twice in group")
		}
		seen[id] = true

		m, err := e.members.GetByID(ctx, id)
		if err != nil {
			return e.lookupErr("listed member", err)
		}
		if m.GroupID == nil || *m.GroupID != groupID {
			return faults.Invariant("listed member does not point back at group")
		}
	}
	return nil
}

func (e *Engine) logEdge(msg string, groupID, memberID primitive.ObjectID, count int) {
	e.log.Info(msg,
		zap.String("group_id", groupID.Hex()),
		zap.String("member_id", memberID.Hex()),
		zap.Int("member_count", count))
}

func (e *Engine) lookupErr(what string, err error) error {
	if err == mongo.ErrNoDocuments {
		return faults.NotFound(what)
	}
	return faults.Persistence("load "+what, err)
}
