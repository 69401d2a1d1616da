package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/stepwise/internal/config"
	"github.com/aretw0/stepwise/pkg/adapters/file"
	"github.com/aretw0/stepwise/pkg/adapters/groq"
	"github.com/aretw0/stepwise/pkg/adapters/memory"
	"github.com/aretw0/stepwise/pkg/adapters/redis"
	"github.com/aretw0/stepwise/pkg/adapters/relayclient"
	"github.com/aretw0/stepwise/pkg/adapters/sqlite"
	"github.com/aretw0/stepwise/pkg/persistence/middleware"
	"github.com/aretw0/stepwise/pkg/ports"
	"github.com/aretw0/stepwise/pkg/relay"
)

// OpenStore builds the snapshot store selected by cfg, wrapped with
// encryption when a key is configured. The returned func releases it.
func OpenStore(cfg config.StoreConfig) (ports.SnapshotStore, func() error, error) {
	var store ports.SnapshotStore
	closer := func() error { return nil }

	switch cfg.Driver {
	case config.DriverMemory:
		store = memory.NewStore()
	case config.DriverFile:
		store = file.New(cfg.Path)
	case config.DriverSQLite:
		path := sqlitePath(cfg.Path)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create sqlite directory: %w", err)
		}
		s, err := sqlite.New(path)
		if err != nil {
			return nil, nil, err
		}
		store, closer = s, s.Close
	case config.DriverRedis:
		var opts []redis.Option
		if cfg.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.TTL))
		}
		s := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
		store, closer = s, s.Close
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	active, fallback, err := cfg.Keys()
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	if active != nil {
		store = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		})(store)
	}

	return store, closer, nil
}

// sqlitePath treats a path without a database extension as a directory.
func sqlitePath(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".db", ".sqlite", ".sqlite3":
		return p
	}
	return filepath.Join(p, "stepwise.db")
}

// NewOracle builds the Groq client from cfg.
func NewOracle(cfg config.OracleConfig, logger *slog.Logger) *groq.Client {
	return groq.New(cfg.APIKey,
		groq.WithBaseURL(cfg.URL),
		groq.WithModel(cfg.Model),
		groq.WithTimeout(cfg.Timeout),
		groq.WithLogger(logger),
	)
}

// NewRelay builds the relay service. A nil metrics disables instrumentation.
func NewRelay(cfg config.OracleConfig, logger *slog.Logger, metrics *relay.Metrics) *relay.Service {
	opts := []relay.Option{relay.WithLogger(logger)}
	if metrics != nil {
		opts = append(opts, relay.WithMetrics(metrics))
	}
	if cfg.MaxPromptSize > 0 {
		opts = append(opts, relay.WithMaxPromptSize(cfg.MaxPromptSize))
	}
	return relay.New(NewOracle(cfg, logger), opts...)
}

// NewAssistant picks the remote relay when RelayURL is set, the in-process one otherwise.
func NewAssistant(cfg config.Config, logger *slog.Logger) ports.Assistant {
	if cfg.RelayURL != "" {
		logger.Debug("Using remote relay", "url", cfg.RelayURL)
		return relayclient.New(cfg.RelayURL)
	}
	return relay.NewLocalAssistant(NewRelay(cfg.Oracle, logger, nil))
}
