// internal/app/bootstrap/engines.go
package bootstrap

import (
	"github.com/dalemusser/crewhub/internal/app/core/grouplife"
	"github.com/dalemusser/crewhub/internal/app/core/invites"
	"github.com/dalemusser/crewhub/internal/app/core/membership"
	"github.com/dalemusser/crewhub/internal/app/core/taskflow"
)

// Engines bundles the domain engines assembled at startup. Embedding
// applications reach the engine layer through this bundle instead of
// constructing their own.
type Engines struct {
	Groups     *grouplife.Manager
	Membership *membership.Engine
	Invites    *invites.Workflow
	Tasks      *taskflow.Engine
}

var engines Engines

// AppEngines returns the engine bundle assembled during Startup.
func AppEngines() Engines {
	return engines
}
