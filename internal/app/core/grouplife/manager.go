// Package grouplife creates, edits, and deletes groups on behalf of their
// leaders. A leader owns at most one group; every operation here is keyed
// by the leader, not the group.
package grouplife

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/crewhub/internal/app/core/groupcode"
	groupstore "github.com/dalemusser/crewhub/internal/app/store/groups"
	leaderstore "github.com/dalemusser/crewhub/internal/app/store/leaders"
	"github.com/dalemusser/crewhub/internal/app/system/faults"
	"github.com/dalemusser/crewhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/crewhub/internal/app/system/normalize"
	"github.com/dalemusser/crewhub/internal/domain/models"
)

// createAttempts bounds the insert retry when a generated code loses the
// race with a concurrent creation. Distinct from the generator's own
// collision-retry bound.
const createAttempts = 3

type Manager struct {
	db  *mongo.Database
	log *zap.Logger

	groups  *groupstore.Store
	leaders *leaderstore.Store
	codes   *groupcode.Generator
}

func New(db *mongo.Database, log *zap.Logger) *Manager {
	groups := groupstore.New(db)
	return &Manager{
		db:      db,
		log:     log,
		groups:  groups,
		leaders: leaderstore.New(db),
		codes:   groupcode.New(groups, log),
	}
}

// WithGenerator swaps the code generator, for configured lengths or bounds.
func (m *Manager) WithGenerator(g *groupcode.Generator) *Manager {
	m.codes = g
	return m
}

// CreateGroup creates a group owned by leaderID with a freshly generated
// unique code, an empty member list, and a zero member count. Fails
// NotFound when the leader does not exist and Conflict when the leader
// already owns a group.
func (m *Manager) CreateGroup(ctx context.Context, leaderID primitive.ObjectID, name, description, imgURL string) (models.Group, error) {
	ok, err := m.leaders.Exists(ctx, leaderID)
	if err != nil {
		return models.Group{}, faults.Persistence("load leader", err)
	}
	if !ok {
		return models.Group{}, faults.NotFound("leader")
	}

	g := models.Group{
		Name:        normalize.Name(name),
		Description: htmlsanitize.Sanitize(normalize.Param(description)),
		ImageURL:    normalize.Param(imgURL),
		LeaderID:    leaderID,
	}

	// A generated code can lose the insert race; regenerate and retry a
	// bounded number of times before giving up.
	for attempt := 1; attempt <= createAttempts; attempt++ {
		code, err := m.codes.Generate(ctx)
		if err != nil {
			return models.Group{}, faults.Persistence("generate code", err)
		}
		g.Code = code

		created, err := m.groups.Create(ctx, g)
		if err == nil {
			m.log.Info("group created",
				zap.String("group_id", created.ID.Hex()),
				zap.String("leader_id", leaderID.Hex()),
				zap.String("code", created.Code))
			return created, nil
		}
		if errors.Is(err, groupstore.ErrDuplicateLeader) {
			return models.Group{}, faults.Conflict("leader already owns a group")
		}
		if errors.Is(err, groupstore.ErrDuplicateCode) {
			m.log.Warn("group code insert race lost; regenerating",
				zap.String("code", code),
				zap.Int("attempt", attempt))
			continue
		}
		return models.Group{}, faults.Persistence("create group", err)
	}
	return models.Group{}, faults.Conflict("could not assign a unique group code")
}

// UpdateGroup edits the group owned by leaderID. Blank name, description,
// or image URL mean "leave unchanged". Returns the updated group.
func (m *Manager) UpdateGroup(ctx context.Context, leaderID primitive.ObjectID, name, description, imgURL string) (models.Group, error) {
	g, err := m.groups.GetByLeader(ctx, leaderID)
	if err != nil {
		return models.Group{}, m.lookupErr("group", err)
	}

	name = normalize.Name(name)
	description = htmlsanitize.Sanitize(normalize.Param(description))
	imgURL = normalize.Param(imgURL)

	if err := m.groups.UpdateInfo(ctx, g.ID, name, description, imgURL); err != nil {
		return models.Group{}, faults.Persistence("update group", err)
	}

	updated, err := m.groups.GetByID(ctx, g.ID)
	if err != nil {
		return models.Group{}, m.lookupErr("group", err)
	}
	return updated, nil
}

// DeleteGroup deletes the group owned by leaderID. It does not detach the
// group's members or touch their tasks — callers perform that cleanup via
// the membership engine and the task engine.
func (m *Manager) DeleteGroup(ctx context.Context, leaderID primitive.ObjectID) error {
	g, err := m.groups.GetByLeader(ctx, leaderID)
	if err != nil {
		return m.lookupErr("group", err)
	}

	n, err := m.groups.Delete(ctx, g.ID)
	if err != nil {
		return faults.Persistence("delete group", err)
	}
	if n == 0 {
		return faults.NotFound("group")
	}

	m.log.Info("group deleted",
		zap.String("group_id", g.ID.Hex()),
		zap.String("leader_id", leaderID.Hex()))
	return nil
}

// GetGroupByCode resolves a group from a share code (the join path's first
// step). Returns the first match; duplicate codes are a tolerated rarity.
func (m *Manager) GetGroupByCode(ctx context.Context, code string) (models.Group, error) {
	g, err := m.groups.GetByCode(ctx, normalize.Code(code))
	if err != nil {
		return models.Group{}, m.lookupErr("group", err)
	}
	return g, nil
}

func (m *Manager) lookupErr(what string, err error) error {
	if err == mongo.ErrNoDocuments {
		return faults.NotFound(what)
	}
	return faults.Persistence("load "+what, err)
}
