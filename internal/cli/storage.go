package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"thai-reading-adventure/internal/app"
	"thai-reading-adventure/internal/config"
	"thai-reading-adventure/internal/infra/memory"
	"thai-reading-adventure/internal/infra/postgres"
	pgmigrations "thai-reading-adventure/internal/infra/postgres/migrations"
	"thai-reading-adventure/internal/infra/redis"
	"thai-reading-adventure/internal/infra/sqlite"
)

var errPostgresURL = errors.New("postgres url not configured")

// session bundles the loaded config, the opened storage and the game built on it.
type session struct {
	cfg     config.Config
	game    *app.Game
	closers []func()
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if driver != "" {
		cfg.Storage.Driver = driver
	}
	return cfg, nil
}

// openSession loads config, opens the configured storage and loads the game from it.
func openSession(ctx context.Context, path string) (*session, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg}
	storage, err := s.openStorage(ctx)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.game = app.NewGame(ctx, storage, app.WithPlayerName(cfg.Player.Name))
	return s, nil
}

func (s *session) openStorage(ctx context.Context) (app.Storage, error) {
	cfg := s.cfg
	cacheTTL := config.TTLDuration(cfg.Storage.Cache.TTL, 0)

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return memory.NewStorage(), nil
	case config.DriverSQLite, "":
		store, err := sqlite.Open(ctx, cfg.Storage.SQLite.Path)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { store.Close() })
		return store, nil
	case config.DriverRedis:
		if cfg.Storage.Redis.Addr == "" {
			return nil, fmt.Errorf("redis addr not configured")
		}
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		s.closers = append(s.closers, func() { client.Close() })
		return withCache(redis.NewStorage(client, cfg.Storage.Redis.Prefix), cacheTTL), nil
	case config.DriverPostgres:
		pool, err := openPostgres(ctx, cfg.Storage.Postgres.URL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)
		return withCache(postgres.NewStorage(pool), cacheTTL), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

func withCache(backend memory.Backend, ttl time.Duration) app.Storage {
	if ttl <= 0 {
		return backend
	}
	return memory.NewCachedStorage(backend, ttl)
}

// openPostgres brings the kv_entries schema up to date and connects a pool.
func openPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	if err := migratePostgres(ctx, url); err != nil {
		return nil, err
	}
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return pool, nil
}

// migratePostgres applies pending bun migrations and reports the applied group.
func migratePostgres(ctx context.Context, url string) error {
	if url == "" {
		return errPostgresURL
	}
	db := bun.NewDB(sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(url))), pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if group.IsZero() {
		log.Printf("storage schema up to date")
		return nil
	}
	log.Printf("storage schema migrated to %s", group)
	return nil
}

// NewMigrateCmd applies pending Postgres storage migrations without starting the game.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply Postgres storage migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return migratePostgres(cmd.Context(), cfg.Storage.Postgres.URL)
		},
	}
}
