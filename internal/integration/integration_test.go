package integration

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"thai-reading-adventure/internal/app"
	"thai-reading-adventure/internal/domain"
	"thai-reading-adventure/internal/infra/memory"
	"thai-reading-adventure/internal/infra/postgres"
	infraredis "thai-reading-adventure/internal/infra/redis"
	pgmigrations "thai-reading-adventure/internal/infra/postgres/migrations"
)

func TestGameOverPostgres(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	migrateDB(t, ctx, pgURL)

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	storage := memory.NewCachedStorage(postgres.NewStorage(pool), time.Minute)
	playAndReload(t, ctx, storage, func() app.Storage {
		return postgres.NewStorage(pool)
	})
}

func TestGameOverRedis(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	client, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer client.Close()

	storage := infraredis.NewStorage(client, infraredis.DefaultPrefix)
	playAndReload(t, ctx, storage, func() app.Storage {
		return infraredis.NewStorage(client, infraredis.DefaultPrefix)
	})
}

// playAndReload earns stars, adds a level and checks a second game over fresh storage sees
// the same state.
func playAndReload(t *testing.T, ctx context.Context, storage app.Storage, reopen func() app.Storage) {
	t.Helper()
	game := app.NewGame(ctx, storage, app.WithRand(rand.New(rand.NewSource(1))))

	if _, err := game.SubmitAnswer("beach", 0, false); err != nil {
		t.Fatalf("submit: %v", err)
	}
	result, err := game.SubmitAnswer("beach", 0, true)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.NetStarGain != 2 || result.RecordedStars != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if _, err := game.AddLevel(domain.LevelDraft{
		WorldID:       "cave",
		Question:      "มะลิมีอะไร?",
		CorrectAnswer: "สุนัข",
		Distractors:   []string{"แมว", "ปลา"},
	}); err != nil {
		t.Fatalf("add level: %v", err)
	}

	reloaded := app.NewGame(ctx, reopen())
	p := reloaded.Player()
	if p.Stars != 3 || p.Coins != 40 {
		t.Fatalf("expected 3 stars / 40 coins after reload, got %+v", p)
	}
	if got := p.Progress["cave"]; len(got) != 2 {
		t.Fatalf("expected cave progress sized to 2, got %v", got)
	}
	cave, err := reloaded.World("cave")
	if err != nil || len(cave.Levels) != 2 {
		t.Fatalf("expected added cave level after reload, got %+v err=%v", cave, err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "reading", "POSTGRES_PASSWORD": "readingpass", "POSTGRES_DB": "readingdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://reading:readingpass@%s:%s/readingdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func migrateDB(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
