package app

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"thai-reading-adventure/internal/domain"
)

// Screen identifies the active screen.
type Screen string

const (
	ScreenWorldSelection Screen = "world-selection"
	ScreenLevelSelection Screen = "level-selection"
	ScreenGame           Screen = "game-screen"
	ScreenResult         Screen = "result-screen"
	ScreenLevelCreation  Screen = "level-creation"
)

// Round is one attempt at a level. It accepts exactly one answer.
type Round struct {
	ID         string
	WorldID    string
	LevelIndex int
	Level      domain.Level
	Options    []string
	answered   bool
}

// WorldCard summarizes a world on the world selection screen.
type WorldCard struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	Locked    bool   `json:"locked"`
	Levels    int    `json:"levels"`
	Completed int    `json:"completed"`
}

// LevelCard is one tile on the level selection screen.
type LevelCard struct {
	Index  int  `json:"index"`
	Stars  int  `json:"stars"`
	Locked bool `json:"locked"`
}

// RoundView is what the game screen renders.
type RoundView struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Question string   `json:"question"`
	Image    string   `json:"image,omitempty"`
	Passage  string   `json:"passage,omitempty"`
	Options  []string `json:"options"`
}

// View is a render-ready snapshot of the navigator.
type View struct {
	Screen       Screen         `json:"screen"`
	Player       domain.Player  `json:"player"`
	Worlds       []WorldCard    `json:"worlds,omitempty"`
	World        *WorldCard     `json:"world,omitempty"`
	Levels       []LevelCard    `json:"levels,omitempty"`
	LevelIndex   *int           `json:"levelIndex,omitempty"`
	Round        *RoundView     `json:"round,omitempty"`
	Result       *domain.Result `json:"result,omitempty"`
	HasNextLevel bool           `json:"hasNextLevel,omitempty"`
	// CreationWorldID is set when level creation was opened from a world's level list.
	CreationWorldID string `json:"creationWorldId,omitempty"`
}

type creationEntry int

const (
	entryNone creationEntry = iota
	entryWorldSelection
	entryLevelSelection
)

// Navigator is the screen state machine for one UI. Several navigators may share a Game.
type Navigator struct {
	game *Game

	mu            sync.Mutex
	screen        Screen
	worldID       string
	levelIndex    int
	hasLevel      bool
	round         *Round
	lastResult    *domain.Result
	creationEntry creationEntry
}

// NewNavigator starts on the world selection screen.
func NewNavigator(game *Game) *Navigator {
	return &Navigator{game: game, screen: ScreenWorldSelection}
}

// Screen returns the active screen.
func (n *Navigator) Screen() Screen {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.screen
}

// SelectWorld opens a world's level list.
func (n *Navigator) SelectWorld(worldID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.screen != ScreenWorldSelection {
		return n.transitionError("select world")
	}
	world, err := n.game.World(worldID)
	if err != nil {
		return err
	}
	if world.Locked {
		return fmt.Errorf("%w: %s", domain.ErrWorldLocked, worldID)
	}
	n.worldID = world.ID
	n.hasLevel = false
	n.screen = ScreenLevelSelection
	return nil
}

// SelectLevel starts a round on an unlocked level of the selected world.
func (n *Navigator) SelectLevel(index int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.screen != ScreenLevelSelection {
		return n.transitionError("select level")
	}
	return n.startRoundLocked(index)
}

// Answer submits the chosen option for the active round and shows the result.
func (n *Navigator) Answer(roundID, option string) (domain.Result, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.screen != ScreenGame || n.round == nil || n.round.answered || n.round.ID != roundID {
		return domain.Result{}, domain.ErrRoundNotActive
	}
	known := false
	for _, opt := range n.round.Options {
		if opt == option {
			known = true
			break
		}
	}
	if !known {
		return domain.Result{}, fmt.Errorf("%w: %q", domain.ErrOptionNotFound, option)
	}

	result, err := n.game.SubmitAnswer(n.round.WorldID, n.round.LevelIndex, option == n.round.Level.Answer)
	if err != nil {
		return domain.Result{}, err
	}
	n.round.answered = true
	n.lastResult = &result
	n.screen = ScreenResult
	return result, nil
}

// NextLevel plays the following level, or returns to the level list after the last one.
func (n *Navigator) NextLevel() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.screen != ScreenResult || !n.hasLevel {
		return n.transitionError("next level")
	}
	world, err := n.game.World(n.worldID)
	if err != nil {
		n.resetLocked()
		return err
	}
	next := n.levelIndex + 1
	if next >= len(world.Levels) {
		n.screen = ScreenLevelSelection
		return nil
	}
	return n.startRoundLocked(next)
}

// BackToLevels leaves the game or result screen for the selected world's level list.
func (n *Navigator) BackToLevels() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.round = nil
	if n.worldID == "" {
		n.resetLocked()
		return
	}
	n.screen = ScreenLevelSelection
}

// BackToWorlds clears the world and level context.
func (n *Navigator) BackToWorlds() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resetLocked()
}

// OpenLevelCreation shows the authoring form. With a worldID the form is tied to that
// world and closing it returns to its level list.
func (n *Navigator) OpenLevelCreation(worldID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if worldID == "" {
		n.worldID = ""
		n.creationEntry = entryWorldSelection
	} else {
		if _, err := n.game.World(worldID); err != nil {
			return err
		}
		n.worldID = worldID
		n.creationEntry = entryLevelSelection
	}
	n.round = nil
	n.hasLevel = false
	n.screen = ScreenLevelCreation
	return nil
}

// BackFromLevelCreation closes the authoring form without saving.
func (n *Navigator) BackFromLevelCreation() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.leaveCreationLocked()
}

// SaveLevel adds the drafted level and shows the level list of the world it was added to.
func (n *Navigator) SaveLevel(draft domain.LevelDraft) (domain.Level, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.screen != ScreenLevelCreation {
		return domain.Level{}, n.transitionError("save level")
	}
	if n.creationEntry == entryLevelSelection {
		draft.WorldID = n.worldID
	}
	level, err := n.game.AddLevel(draft)
	if err != nil {
		return domain.Level{}, err
	}
	n.worldID = draft.WorldID
	n.creationEntry = entryNone
	n.screen = ScreenLevelSelection
	return level, nil
}

// View renders the current state.
func (n *Navigator) View() View {
	n.mu.Lock()
	defer n.mu.Unlock()

	player := n.game.Player()
	worlds := n.game.Worlds()
	view := View{Screen: n.screen, Player: player}

	for _, w := range worlds {
		view.Worlds = append(view.Worlds, worldCard(w, player.Progress[w.ID]))
	}

	if world, ok := domain.FindWorld(worlds, n.worldID); ok {
		card := worldCard(world, player.Progress[world.ID])
		view.World = &card
		progress := player.Progress[world.ID]
		for i := range world.Levels {
			stars := 0
			if i < len(progress) {
				stars = progress[i]
			}
			view.Levels = append(view.Levels, LevelCard{Index: i, Stars: stars, Locked: !IsLevelUnlocked(progress, i)})
		}
		if n.hasLevel {
			idx := n.levelIndex
			view.LevelIndex = &idx
			view.HasNextLevel = n.screen == ScreenResult && idx < len(world.Levels)-1
		}
	}

	switch n.screen {
	case ScreenGame:
		if n.round != nil {
			view.Round = &RoundView{
				ID:       n.round.ID,
				Type:     n.round.Level.Type,
				Question: n.round.Level.Question,
				Image:    n.round.Level.Image,
				Passage:  n.round.Level.Passage,
				Options:  append([]string(nil), n.round.Options...),
			}
		}
	case ScreenResult:
		if n.lastResult != nil {
			result := *n.lastResult
			view.Result = &result
		}
	case ScreenLevelCreation:
		if n.creationEntry == entryLevelSelection {
			view.CreationWorldID = n.worldID
		}
	}
	return view
}

func (n *Navigator) startRoundLocked(index int) error {
	level, err := n.game.Level(n.worldID, index)
	if err != nil {
		return err
	}
	if !IsLevelUnlocked(n.game.Player().Progress[n.worldID], index) {
		return fmt.Errorf("%w: %s/%d", domain.ErrLevelLocked, n.worldID, index)
	}
	n.round = &Round{
		ID:         uuid.NewString(),
		WorldID:    n.worldID,
		LevelIndex: index,
		Level:      level,
		Options:    n.game.Shuffle(level.Options),
	}
	n.levelIndex = index
	n.hasLevel = true
	n.lastResult = nil
	n.screen = ScreenGame
	return nil
}

func (n *Navigator) leaveCreationLocked() {
	entry := n.creationEntry
	n.creationEntry = entryNone
	if entry == entryLevelSelection && n.worldID != "" {
		n.screen = ScreenLevelSelection
		return
	}
	n.resetLocked()
}

func (n *Navigator) resetLocked() {
	n.screen = ScreenWorldSelection
	n.worldID = ""
	n.hasLevel = false
	n.round = nil
	n.lastResult = nil
	n.creationEntry = entryNone
}

func (n *Navigator) transitionError(action string) error {
	return fmt.Errorf("%w: %s on %s", domain.ErrInvalidTransition, action, n.screen)
}

func worldCard(w domain.World, progress []int) WorldCard {
	return WorldCard{
		ID:        w.ID,
		Name:      w.Name,
		Icon:      w.Icon,
		Color:     w.Color,
		Locked:    w.Locked,
		Levels:    len(w.Levels),
		Completed: CompletedLevels(progress),
	}
}
