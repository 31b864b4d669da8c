// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"

	"github.com/dalemusser/crewhub/internal/app/core/groupcode"
)

// appConfigKeys defines the configuration keys for CrewHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, group_code_length, etc.
//   - Environment variables: CREWHUB_MONGO_URI, CREWHUB_GROUP_CODE_LENGTH, etc.
//   - Command-line flags: --mongo_uri, --group_code_length, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "crewhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "group_code_length", Default: groupcode.DefaultLength, Desc: "Characters per group share code"},
	{Name: "group_code_max_attempts", Default: groupcode.DefaultMaxAttempts, Desc: "Code-generation collision retries before failing"},

	{Name: "task_expiry_interval", Default: "1m", Desc: "Interval between overdue-task expiry sweeps (e.g. 1m, 30s)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config
// yaml/json/toml files, environment variables (WAFFLE_* for core,
// CREWHUB_* for app), and command-line flags, merged with precedence:
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CREWHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		GroupCodeLength:      appValues.Int("group_code_length"),
		GroupCodeMaxAttempts: appValues.Int("group_code_max_attempts"),

		TaskExpiryInterval: appValues.Duration("task_expiry_interval", time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation. Return nil to
// accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.GroupCodeLength < 4 {
		return fmt.Errorf("group_code_length must be at least 4 (got %d)", appCfg.GroupCodeLength)
	}
	if appCfg.GroupCodeMaxAttempts < 1 {
		return fmt.Errorf("group_code_max_attempts must be positive (got %d)", appCfg.GroupCodeMaxAttempts)
	}
	if appCfg.TaskExpiryInterval <= 0 {
		return fmt.Errorf("task_expiry_interval must be positive (got %s)", appCfg.TaskExpiryInterval)
	}

	return nil
}
