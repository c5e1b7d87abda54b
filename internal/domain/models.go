package domain

// Level types used by the built-in catalog and the level authoring flow.
const (
	LevelTypeMatchImageWord       = "match_image_word"
	LevelTypeSentenceFromImage    = "sentence_from_image"
	LevelTypeSymbolMeaning        = "symbol_meaning"
	LevelTypeSentenceCompletion   = "sentence_completion"
	LevelTypePassageComprehension = "passage_comprehension"
)

// MaxLevelStars is the best rating a level can record.
const MaxLevelStars = 3

// Level is one question with its selectable options.
type Level struct {
	Type     string   `json:"type" yaml:"type"`
	Question string   `json:"question" yaml:"question"`
	Image    string   `json:"image,omitempty" yaml:"image,omitempty"`
	Passage  string   `json:"passage,omitempty" yaml:"passage,omitempty"`
	Options  []string `json:"options" yaml:"options"`
	Answer   string   `json:"answer" yaml:"answer"`
}

// World is a themed, ordered collection of levels.
type World struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`
	Icon   string  `json:"icon" yaml:"icon"`
	Color  string  `json:"color" yaml:"color"`
	Levels []Level `json:"levels" yaml:"levels"`
	Locked bool    `json:"locked,omitempty" yaml:"locked,omitempty"`
}

// PlayerProgress maps a world ID to the best star rating per level index.
type PlayerProgress map[string][]int

// Player is the single local player.
type Player struct {
	Name     string         `json:"name"`
	Stars    int            `json:"stars"`
	Coins    int            `json:"coins"`
	Progress PlayerProgress `json:"progress"`
}

// Reward is what a single answer earns before it is folded into the player.
type Reward struct {
	Stars int `json:"starsEarned"`
	Coins int `json:"coinsEarned"`
}

// Result summarizes an answered level for the result screen.
type Result struct {
	WorldID       string `json:"worldId"`
	LevelIndex    int    `json:"levelIndex"`
	IsWin         bool   `json:"isWin"`
	StarsEarned   int    `json:"starsEarned"`
	CoinsEarned   int    `json:"coinsEarned"`
	NetStarGain   int    `json:"netStarGain"`
	CoinsCredited int    `json:"coinsCredited"`
	RecordedStars int    `json:"recordedStars"`
}

// LevelDraft is the raw input of the level authoring form.
type LevelDraft struct {
	WorldID       string   `json:"worldId"`
	Question      string   `json:"question"`
	ImageURL      string   `json:"imageUrl"`
	Passage       string   `json:"passage"`
	CorrectAnswer string   `json:"correctAnswer"`
	Distractors   []string `json:"distractors"`
}

// Clone returns a deep copy of the level.
func (l Level) Clone() Level {
	l.Options = append([]string(nil), l.Options...)
	return l
}

// Clone returns a deep copy of the world.
func (w World) Clone() World {
	levels := make([]Level, len(w.Levels))
	for i, level := range w.Levels {
		levels[i] = level.Clone()
	}
	w.Levels = levels
	return w
}

// CloneWorlds deep-copies a catalog. A nil catalog stays nil.
func CloneWorlds(worlds []World) []World {
	if worlds == nil {
		return nil
	}
	out := make([]World, len(worlds))
	for i, w := range worlds {
		out[i] = w.Clone()
	}
	return out
}

// FindWorld returns the world with the given id.
func FindWorld(worlds []World, id string) (World, bool) {
	for _, w := range worlds {
		if w.ID == id {
			return w, true
		}
	}
	return World{}, false
}

// Clone returns a deep copy of the progress map.
func (p PlayerProgress) Clone() PlayerProgress {
	if p == nil {
		return nil
	}
	out := make(PlayerProgress, len(p))
	for id, stars := range p {
		out[id] = append([]int{}, stars...)
	}
	return out
}

// TotalStars sums the recorded stars over every world and level.
func (p PlayerProgress) TotalStars() int {
	total := 0
	for _, stars := range p {
		for _, s := range stars {
			total += s
		}
	}
	return total
}

// Clone returns a deep copy of the player.
func (p Player) Clone() Player {
	p.Progress = p.Progress.Clone()
	return p
}
