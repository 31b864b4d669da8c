// Package taskflow governs the task lifecycle: creation against a grouped
// member, reassignment between members, status transitions with derived
// timing metrics, and deletion that keeps the owning member's task list in
// step with the task documents.
//
// Status transitions are permissive — any status may be set from any
// other. Two derived effects are layered on top:
//
//   - leaving in_progress for completed/done finalizes time_passed_ms as
//     the wall-clock time since the task's creation;
//   - a due date in the past forces the status to expired, whatever was
//     requested.
package taskflow

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	memberstore "github.com/dalemusser/crewhub/internal/app/store/members"
	taskstore "github.com/dalemusser/crewhub/internal/app/store/tasks"
	"github.com/dalemusser/crewhub/internal/app/system/faults"
	"github.com/dalemusser/crewhub/internal/app/system/txn"
	"github.com/dalemusser/crewhub/internal/domain/models"
)

type Engine struct {
	db  *mongo.Database
	log *zap.Logger

	tasks   *taskstore.Store
	members *memberstore.Store

	// now is swappable in tests.
	now func() time.Time
}

func New(db *mongo.Database, log *zap.Logger) *Engine {
	return &Engine{
		db:      db,
		log:     log,
		tasks:   taskstore.New(db),
		members: memberstore.New(db),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateTask creates a task assigned to memberID. The task's group is
// derived from the member's group; a member without a group cannot hold
// tasks, so that case is NotFound. Created with status pending, or expired
// when the due date is already in the past.
func (e *Engine) CreateTask(ctx context.Context, title, description string, dueDate time.Time, memberID primitive.ObjectID) (models.Task, error) {
	m, err := e.members.GetByID(ctx, memberID)
	if err != nil {
		return models.Task{}, e.lookupErr("member", err)
	}
	if m.GroupID == nil {
		return models.Task{}, faults.NotFound("member's group")
	}

	t := models.Task{
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Status:      models.TaskPending,
		MemberID:    &memberID,
		GroupID:     *m.GroupID,
	}
	if dueDate.Before(e.now()) {
		t.Status = models.TaskExpired
	}

	var created models.Task
	err = txn.Run(ctx, e.db, e.log, func(ctx context.Context) error {
		created, err = e.tasks.Create(ctx, t)
		if err != nil {
			return err
		}
		return e.members.PushTask(ctx, memberID, created.ID)
	})
	if err != nil {
		return models.Task{}, faults.Persistence("create task", err)
	}

	e.log.Info("task created",
		zap.String("task_id", created.ID.Hex()),
		zap.String("member_id", memberID.Hex()),
		zap.String("group_id", created.GroupID.Hex()),
		zap.String("status", string(created.Status)))
	return created, nil
}

// UpdateTask edits a task's title, description, due date, and assignee.
// Blank title/description mean "leave unchanged". The group is re-derived
// from the new member; an assignee or due-date change counts as a
// reschedule and increments times_rearranged. When the assignee changes
// the task moves between both members' task lists in the same transaction.
func (e *Engine) UpdateTask(ctx context.Context, taskID primitive.ObjectID, title, description string, dueDate time.Time, memberID primitive.ObjectID) (models.Task, error) {
	t, err := e.tasks.GetByID(ctx, taskID)
	if err != nil {
		return models.Task{}, e.lookupErr("task", err)
	}
	m, err := e.members.GetByID(ctx, memberID)
	if err != nil {
		return models.Task{}, e.lookupErr("member", err)
	}
	if m.GroupID == nil {
		return models.Task{}, faults.NotFound("member's group")
	}

	rearranged := false

	if title != "" {
		t.Title = title
	}
	if description != "" {
		t.Description = description
	}
	if !dueDate.IsZero() && !dueDate.Equal(t.DueDate) {
		t.DueDate = dueDate
		rearranged = true
	}

	var oldMember *primitive.ObjectID
	if t.MemberID == nil || *t.MemberID != memberID {
		oldMember = t.MemberID
		t.MemberID = &memberID
		rearranged = true
	}
	t.GroupID = *m.GroupID

	if rearranged {
		t.TimesRearranged++
	}
	if t.DueDate.Before(e.now()) && !t.Status.Terminal() {
		t.Status = models.TaskExpired
	}

	var saved models.Task
	err = txn.Run(ctx, e.db, e.log, func(ctx context.Context) error {
		if oldMember != nil {
			if err := e.members.PullTask(ctx, *oldMember, taskID); err != nil && err != mongo.ErrNoDocuments {
				// A vanished previous assignee has nothing to detach from.
				return err
			}
			if err := e.members.PushTask(ctx, memberID, taskID); err != nil {
				return err
			}
		}
		saved, err = e.tasks.Save(ctx, t)
		return err
	})
	if err != nil {
		return models.Task{}, faults.Persistence("update task", err)
	}

	e.log.Info("task updated",
		zap.String("task_id", taskID.Hex()),
		zap.String("member_id", memberID.Hex()),
		zap.Bool("rearranged", rearranged))
	return saved, nil
}

// UpdateStatus sets the task's status. Transitions are permissive; moving
// from in_progress to completed/done finalizes time_passed_ms as the
// elapsed time since the task's creation.
func (e *Engine) UpdateStatus(ctx context.Context, taskID primitive.ObjectID, status models.TaskStatus) (models.Task, error) {
	if !status.Valid() {
		return models.Task{}, faults.Invariant("unknown task status " + string(status))
	}

	t, err := e.tasks.GetByID(ctx, taskID)
	if err != nil {
		return models.Task{}, e.lookupErr("task", err)
	}

	if t.Status == models.TaskInProgress && status.Terminal() {
		t.TimePassedMS = e.now().Sub(t.CreatedAt).Milliseconds()
	}
	t.Status = status

	saved, err := e.tasks.Save(ctx, t)
	if err != nil {
		return models.Task{}, faults.Persistence("update task status", err)
	}

	e.log.Info("task status changed",
		zap.String("task_id", taskID.Hex()),
		zap.String("status", string(status)))
	return saved, nil
}

// DeleteTask removes a task, detaching it from its member's task list
// first. A task without a member (mid-reassignment) just gets deleted.
func (e *Engine) DeleteTask(ctx context.Context, taskID primitive.ObjectID) error {
	t, err := e.tasks.GetByID(ctx, taskID)
	if err != nil {
		return e.lookupErr("task", err)
	}

	err = txn.Run(ctx, e.db, e.log, func(ctx context.Context) error {
		if t.MemberID != nil {
			if err := e.members.PullTask(ctx, *t.MemberID, taskID); err != nil && err != mongo.ErrNoDocuments {
				return err
			}
		}
		_, err := e.tasks.Delete(ctx, taskID)
		return err
	})
	if err != nil {
		return faults.Persistence("delete task", err)
	}

	e.log.Info("task deleted", zap.String("task_id", taskID.Hex()))
	return nil
}

// DeleteAllForMember deletes every task assigned to the member, one
// detach-then-delete transaction per task so an interruption mid-batch
// never leaves a dangling task reference. A member with zero tasks is a
// successful no-op.
func (e *Engine) DeleteAllForMember(ctx context.Context, memberID primitive.ObjectID) error {
	if _, err := e.members.GetByID(ctx, memberID); err != nil {
		return e.lookupErr("member", err)
	}

	tasks, err := e.tasks.ListByMember(ctx, memberID)
	if err != nil {
		return faults.Persistence("list tasks", err)
	}

	for _, t := range tasks {
		taskID := t.ID
		err := txn.Run(ctx, e.db, e.log, func(ctx context.Context) error {
			if err := e.members.PullTask(ctx, memberID, taskID); err != nil && err != mongo.ErrNoDocuments {
				return err
			}
			_, err := e.tasks.Delete(ctx, taskID)
			return err
		})
		if err != nil {
			return faults.Persistence("delete member task", err)
		}
	}

	if len(tasks) > 0 {
		e.log.Info("deleted all tasks for member",
			zap.String("member_id", memberID.Hex()),
			zap.Int("count", len(tasks)))
	}
	return nil
}

// ExpireOverdue flips overdue unfinished tasks to expired. Called by the
// background sweep; safe to run at any frequency.
func (e *Engine) ExpireOverdue(ctx context.Context) (int64, error) {
	n, err := e.tasks.ExpireOverdue(ctx, e.now())
	if err != nil {
		return 0, faults.Persistence("expire overdue tasks", err)
	}
	return n, nil
}

func (e *Engine) lookupErr(what string, err error) error {
	if err == mongo.ErrNoDocuments {
		return faults.NotFound(what)
	}
	return faults.Persistence("load "+what, err)
}
