// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/dalemusser/crewhub/internal/app/core/groupcode"
	"github.com/dalemusser/crewhub/internal/app/core/grouplife"
	"github.com/dalemusser/crewhub/internal/app/core/invites"
	"github.com/dalemusser/crewhub/internal/app/core/membership"
	"github.com/dalemusser/crewhub/internal/app/core/taskflow"
	groupstore "github.com/dalemusser/crewhub/internal/app/store/groups"
	"github.com/dalemusser/crewhub/internal/app/system/workers"
)

// expiryWorker is started here and stopped in Shutdown.
var expiryWorker *workers.TaskExpiry

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. CrewHub
// assembles the domain engines and starts the background sweep that moves
// overdue tasks to expired.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.CrewHubMongoDatabase

	gen := groupcode.NewWithConfig(groupstore.New(db), logger,
		appCfg.GroupCodeLength, appCfg.GroupCodeMaxAttempts)

	engines = Engines{
		Groups:     grouplife.New(db, logger).WithGenerator(gen),
		Membership: membership.New(db, logger),
		Invites:    invites.New(db, logger),
		Tasks:      taskflow.New(db, logger),
	}

	expiryWorker = workers.NewTaskExpiry(engines.Tasks, logger, appCfg.TaskExpiryInterval)
	expiryWorker.Start()
	return nil
}
