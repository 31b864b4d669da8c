// Package invites mediates member-initiated join requests and the
// leader-side decisions on them.
//
// An invitation is pending state only: acceptance, rejection, and
// cancellation all end with the document deleted. A member holds at most
// one outstanding invitation, checked before creation and backstopped by a
// unique index.
package invites

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/crewhub/internal/app/core/membership"
	groupstore "github.com/dalemusser/crewhub/internal/app/store/groups"
	invitationstore "github.com/dalemusser/crewhub/internal/app/store/invitations"
	leaderstore "github.com/dalemusser/crewhub/internal/app/store/leaders"
	memberstore "github.com/dalemusser/crewhub/internal/app/store/members"
	"github.com/dalemusser/crewhub/internal/app/system/faults"
	"github.com/dalemusser/crewhub/internal/app/system/txn"
	"github.com/dalemusser/crewhub/internal/domain/models"
)

type Workflow struct {
	db  *mongo.Database
	log *zap.Logger

	invitations *invitationstore.Store
	groups      *groupstore.Store
	members     *memberstore.Store
	leaders     *leaderstore.Store
	membership  *membership.Engine
}

func New(db *mongo.Database, log *zap.Logger) *Workflow {
	return &Workflow{
		db:          db,
		log:         log,
		invitations: invitationstore.New(db),
		groups:      groupstore.New(db),
		members:     memberstore.New(db),
		leaders:     leaderstore.New(db),
		membership:  membership.New(db, log),
	}
}

// CreateInvitation opens a join request from memberID to groupID. Fails
// NotFound when either is missing, Conflict when the member already has an
// outstanding invitation.
func (w *Workflow) CreateInvitation(ctx context.Context, memberID, groupID primitive.ObjectID) (models.Invitation, error) {
	if _, err := w.members.GetByID(ctx, memberID); err != nil {
		return models.Invitation{}, w.lookupErr("member", err)
	}
	if _, err := w.groups.GetByID(ctx, groupID); err != nil {
		return models.Invitation{}, w.lookupErr("group", err)
	}

	exists, err := w.invitations.ExistsForMember(ctx, memberID)
	if err != nil {
		return models.Invitation{}, faults.Persistence("check invitation", err)
	}
	if exists {
		return models.Invitation{}, faults.Conflict("member already has an outstanding invitation")
	}

	inv, err := w.invitations.Create(ctx, models.Invitation{
		MemberID: memberID,
		GroupID:  groupID,
	})
	if err != nil {
		// The unique index closes the window between the check above and
		// the insert.
		if errors.Is(err, invitationstore.ErrDuplicateInvitation) {
			return models.Invitation{}, faults.Conflict("member already has an outstanding invitation")
		}
		return models.Invitation{}, faults.Persistence("create invitation", err)
	}

	w.log.Info("invitation created",
		zap.String("invitation_id", inv.ID.Hex()),
		zap.String("member_id", memberID.Hex()),
		zap.String("group_id", groupID.Hex()))
	return inv, nil
}

// Cancel withdraws the member's own invitation. Fails NotFound when the
// invitation or member is missing, Forbidden when the invitation belongs
// to a different member.
func (w *Workflow) Cancel(ctx context.Context, memberID, invitationID primitive.ObjectID) error {
	inv, err := w.invitations.GetByID(ctx, invitationID)
	if err != nil {
		return w.lookupErr("invitation", err)
	}
	if _, err := w.members.GetByID(ctx, memberID); err != nil {
		return w.lookupErr("member", err)
	}
	if inv.MemberID != memberID {
		return faults.Forbidden("invitation belongs to another member")
	}

	if _, err := w.invitations.Delete(ctx, invitationID); err != nil {
		return faults.Persistence("delete invitation", err)
	}

	w.log.Info("invitation cancelled",
		zap.String("invitation_id", invitationID.Hex()),
		zap.String("member_id", memberID.Hex()))
	return nil
}

// Reject declines a join request as the target group's leader and deletes
// the invitation. Fails NotFound when the invitation or leader is missing,
// Forbidden when leaderID does not lead the invitation's group.
func (w *Workflow) Reject(ctx context.Context, leaderID, invitationID primitive.ObjectID) error {
	inv, err := w.resolveForLeader(ctx, leaderID, invitationID)
	if err != nil {
		return err
	}

	if _, err := w.invitations.Delete(ctx, invitationID); err != nil {
		return faults.Persistence("delete invitation", err)
	}

	w.recordDecision(ctx, leaderID, inv)

	w.log.Info("invitation rejected",
		zap.String("invitation_id", invitationID.Hex()),
		zap.String("leader_id", leaderID.Hex()))
	return nil
}

// Accept approves a join request: the invitation's member joins the
// invitation's group through the membership engine, then the invitation is
// deleted. Both happen in one transaction; if that degrades (no
// transaction support), the join is applied before the delete so a crash
// between the two leaves a correctly joined member with a lingering
// invitation — the safer inconsistency.
func (w *Workflow) Accept(ctx context.Context, leaderID, invitationID primitive.ObjectID) error {
	inv, err := w.resolveForLeader(ctx, leaderID, invitationID)
	if err != nil {
		return err
	}

	err = txn.Run(ctx, w.db, w.log, func(ctx context.Context) error {
		if err := w.membership.AddMemberInTxn(ctx, inv.GroupID, inv.MemberID); err != nil {
			return err
		}
		_, err := w.invitations.Delete(ctx, invitationID)
		return err
	})
	if err != nil {
		// The membership engine's own failures carry their kind already;
		// don't wrap them into a persistence error.
		if errors.Is(err, faults.ErrNotFound) ||
			errors.Is(err, faults.ErrConflict) ||
			errors.Is(err, faults.ErrInvariant) ||
			errors.Is(err, faults.ErrPersistence) {
			return err
		}
		return faults.Persistence("accept invitation", err)
	}

	w.recordDecision(ctx, leaderID, inv)

	w.log.Info("invitation accepted",
		zap.String("invitation_id", invitationID.Hex()),
		zap.String("leader_id", leaderID.Hex()),
		zap.String("member_id", inv.MemberID.Hex()),
		zap.String("group_id", inv.GroupID.Hex()))
	return nil
}

// resolveForLeader loads the invitation and verifies leaderID leads its
// target group. Shared by Reject and Accept.
func (w *Workflow) resolveForLeader(ctx context.Context, leaderID, invitationID primitive.ObjectID) (models.Invitation, error) {
	inv, err := w.invitations.GetByID(ctx, invitationID)
	if err != nil {
		return models.Invitation{}, w.lookupErr("invitation", err)
	}
	if _, err := w.leaders.GetByID(ctx, leaderID); err != nil {
		return models.Invitation{}, w.lookupErr("leader", err)
	}
	g, err := w.groups.GetByID(ctx, inv.GroupID)
	if err != nil {
		return models.Invitation{}, w.lookupErr("group", err)
	}
	if g.LeaderID != leaderID {
		return models.Invitation{}, faults.Forbidden("not the group's leader")
	}
	return inv, nil
}

// recordDecision folds the decision latency into the leader's metrics.
// Metrics are best-effort: a failure here is logged, never surfaced, and
// never rolls back the decision itself.
func (w *Workflow) recordDecision(ctx context.Context, leaderID primitive.ObjectID, inv models.Invitation) {
	took := time.Since(inv.CreatedAt)
	if took < 0 {
		took = 0
	}
	if err := w.leaders.RecordDecision(ctx, leaderID, took); err != nil {
		w.log.Warn("record leader decision failed",
			zap.String("leader_id", leaderID.Hex()),
			zap.Error(err))
	}
}

func (w *Workflow) lookupErr(what string, err error) error {
	if err == mongo.ErrNoDocuments {
		return faults.NotFound(what)
	}
	return faults.Persistence("load "+what, err)
}
