package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"thai-reading-adventure/internal/domain"
)

// Persisted storage keys.
const (
	PlayerKey = "readingGamePlayerAanAan"
	WorldsKey = "readingGameWorldsAanAan"
)

// Storage abstracts the device-local key-value store (SQLite, Redis, Postgres, memory).
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Option customizes a Game.
type Option func(*Game)

// WithRand injects the randomness used for every shuffle.
func WithRand(rnd *rand.Rand) Option {
	return func(g *Game) { g.rnd = rnd }
}

// WithPlayerName sets the name given to a freshly created player.
func WithPlayerName(name string) Option {
	return func(g *Game) {
		if strings.TrimSpace(name) != "" {
			g.playerName = strings.TrimSpace(name)
		}
	}
}

// WithWriteTimeout bounds each persistence write.
func WithWriteTimeout(d time.Duration) Option {
	return func(g *Game) { g.writeTimeout = d }
}

// Game owns the content and player stores and is the only place either changes.
// Every content change is reconciled into the player, and both stores are written back
// to storage after each change.
type Game struct {
	storage      Storage
	playerName   string
	writeTimeout time.Duration

	mu      sync.Mutex
	rnd     *rand.Rand
	content *Store[[]domain.World]
	player  *Store[domain.Player]
}

// NewGame loads both stores from storage, falling back to the bundled catalog and a
// fresh player when data is missing or unreadable.
func NewGame(ctx context.Context, storage Storage, opts ...Option) *Game {
	g := &Game{
		storage:      storage,
		playerName:   domain.DefaultPlayerName,
		writeTimeout: 5 * time.Second,
		rnd:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(g)
	}

	worlds := loadWorlds(ctx, storage)
	player := loadPlayer(ctx, storage, worlds, g.playerName)

	g.content = NewStore(worlds, domain.CloneWorlds)
	g.player = NewStore(player, domain.Player.Clone)

	g.content.OnChange(func(worlds []domain.World) {
		g.persist(WorldsKey, worlds)
		p := g.player.Snapshot()
		p.Progress = Reconcile(p.Progress, worlds)
		g.player.Replace(p)
	})
	g.player.OnChange(func(p domain.Player) {
		g.persist(PlayerKey, p)
	})

	g.persist(WorldsKey, worlds)
	g.persist(PlayerKey, player)
	return g
}

// Worlds returns the current catalog.
func (g *Game) Worlds() []domain.World {
	return g.content.Snapshot()
}

// World returns a single world by id.
func (g *Game) World(id string) (domain.World, error) {
	world, ok := domain.FindWorld(g.content.Snapshot(), id)
	if !ok {
		return domain.World{}, fmt.Errorf("%w: %s", domain.ErrWorldNotFound, id)
	}
	return world, nil
}

// Level returns one level of a world.
func (g *Game) Level(worldID string, index int) (domain.Level, error) {
	world, err := g.World(worldID)
	if err != nil {
		return domain.Level{}, err
	}
	if index < 0 || index >= len(world.Levels) {
		return domain.Level{}, fmt.Errorf("%w: %s/%d", domain.ErrLevelNotFound, worldID, index)
	}
	return world.Levels[index], nil
}

// Player returns the current player.
func (g *Game) Player() domain.Player {
	return g.player.Snapshot()
}

// SubmitAnswer scores an answer to an unlocked level and records it.
func (g *Game) SubmitAnswer(worldID string, levelIndex int, isCorrect bool) (domain.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.Level(worldID, levelIndex); err != nil {
		return domain.Result{}, err
	}
	player := g.player.Snapshot()
	if !IsLevelUnlocked(player.Progress[worldID], levelIndex) {
		return domain.Result{}, fmt.Errorf("%w: %s/%d", domain.ErrLevelLocked, worldID, levelIndex)
	}

	next, result := ApplyResult(player, worldID, levelIndex, Score(isCorrect))
	result.IsWin = isCorrect
	g.player.Replace(next)
	return result, nil
}

// RenamePlayer changes the display name.
func (g *Game) RenamePlayer(name string) (domain.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Player{}, domain.ErrInvalidName
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.player.Snapshot()
	if p.Name == name {
		return p, nil
	}
	p.Name = name
	g.player.Replace(p)
	return p, nil
}

// AddLevel validates a draft and appends the new level to its world.
func (g *Game) AddLevel(draft domain.LevelDraft) (domain.Level, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	worlds := g.content.Snapshot()
	if len(worlds) == 0 {
		return domain.Level{}, domain.ErrNoWorlds
	}
	level, err := NewLevel(draft, g.rnd)
	if err != nil {
		return domain.Level{}, err
	}

	found := false
	for i := range worlds {
		if worlds[i].ID == draft.WorldID {
			worlds[i].Levels = append(worlds[i].Levels, level)
			found = true
			break
		}
	}
	if !found {
		return domain.Level{}, fmt.Errorf("%w: %s", domain.ErrWorldNotFound, draft.WorldID)
	}
	g.content.Replace(worlds)
	return level, nil
}

// ReplaceWorlds swaps in a whole new catalog.
func (g *Game) ReplaceWorlds(worlds []domain.World) error {
	if err := ValidateWorlds(worlds); err != nil {
		return err
	}
	if worlds == nil {
		worlds = []domain.World{}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.content.Replace(worlds)
	return nil
}

// SuggestDistractors samples wrong answers for a new level from the current catalog.
func (g *Game) SuggestDistractors(correct string) []string {
	worlds := g.content.Snapshot()

	g.mu.Lock()
	defer g.mu.Unlock()
	return SampleDistractors(correct, worlds, g.rnd)
}

// Shuffle returns options in random order.
func (g *Game) Shuffle(options []string) []string {
	out := append([]string(nil), options...)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.rnd.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// SubscribePlayer streams player snapshots; call cancel when done.
func (g *Game) SubscribePlayer() (<-chan domain.Player, func()) {
	return g.player.Subscribe()
}

// SubscribeWorlds streams catalog snapshots; call cancel when done.
func (g *Game) SubscribeWorlds() (<-chan []domain.World, func()) {
	return g.content.Subscribe()
}

// persist writes a snapshot. Failures are logged and otherwise ignored.
func (g *Game) persist(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("encode %s: %v", key, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), g.writeTimeout)
	defer cancel()
	if err := g.storage.Set(ctx, key, string(data)); err != nil {
		log.Printf("save %s: %v", key, err)
	}
}

func loadWorlds(ctx context.Context, storage Storage) []domain.World {
	raw, found, err := storage.Get(ctx, WorldsKey)
	if err != nil {
		log.Printf("load worlds: %v; using default catalog", err)
		return domain.DefaultWorlds()
	}
	if !found {
		return domain.DefaultWorlds()
	}

	var worlds []domain.World
	if err := json.Unmarshal([]byte(raw), &worlds); err != nil {
		log.Printf("parse worlds: %v; using default catalog", err)
		return domain.DefaultWorlds()
	}
	if worlds == nil {
		log.Printf("parse worlds: not a list; using default catalog")
		return domain.DefaultWorlds()
	}
	if err := ValidateWorlds(worlds); err != nil {
		log.Printf("load worlds: %v; using default catalog", err)
		return domain.DefaultWorlds()
	}
	return worlds
}

func loadPlayer(ctx context.Context, storage Storage, worlds []domain.World, defaultName string) domain.Player {
	fresh := domain.Player{Name: defaultName, Progress: InitialProgress(worlds)}

	raw, found, err := storage.Get(ctx, PlayerKey)
	if err != nil {
		log.Printf("load player: %v; starting a new player", err)
		return fresh
	}
	if !found {
		return fresh
	}

	var saved *domain.Player
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		log.Printf("parse player: %v; starting a new player", err)
		return fresh
	}
	if saved == nil {
		log.Printf("parse player: empty record; starting a new player")
		return fresh
	}
	player := *saved
	if strings.TrimSpace(player.Name) == "" {
		player.Name = defaultName
	}
	if !progressMatches(player.Progress, worlds) {
		log.Printf("player progress out of date with catalog; reconciling")
	}
	player.Progress = Reconcile(player.Progress, worlds)
	return player
}
