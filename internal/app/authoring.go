package app

import (
	"fmt"
	"math/rand"
	"strings"

	"thai-reading-adventure/internal/domain"
)

// MaxDistractors is how many wrong answers the authoring form suggests.
const MaxDistractors = 2

// SampleDistractors picks up to MaxDistractors answers from other levels that differ
// from correct. Comparison and de-duplication ignore case and surrounding spaces.
func SampleDistractors(correct string, worlds []domain.World, rnd *rand.Rand) []string {
	target := foldAnswer(correct)
	seen := make(map[string]struct{})
	var pool []string
	for _, world := range worlds {
		for _, level := range world.Levels {
			answer := strings.TrimSpace(level.Answer)
			key := foldAnswer(answer)
			if answer == "" || key == target {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			pool = append(pool, answer)
		}
	}

	rnd.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > MaxDistractors {
		pool = pool[:MaxDistractors]
	}
	return pool
}

// BuildOptions returns the distinct, non-blank union of correct and distractors in
// random order.
func BuildOptions(correct string, distractors []string, rnd *rand.Rand) []string {
	seen := make(map[string]struct{})
	var options []string
	for _, opt := range append([]string{correct}, distractors...) {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		if _, ok := seen[opt]; ok {
			continue
		}
		seen[opt] = struct{}{}
		options = append(options, opt)
	}
	rnd.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	return options
}

// NewLevel validates an authoring draft and builds the level it describes.
func NewLevel(draft domain.LevelDraft, rnd *rand.Rand) (domain.Level, error) {
	question := strings.TrimSpace(draft.Question)
	answer := strings.TrimSpace(draft.CorrectAnswer)
	switch {
	case strings.TrimSpace(draft.WorldID) == "":
		return domain.Level{}, fmt.Errorf("%w: world is required", domain.ErrInvalidLevel)
	case question == "":
		return domain.Level{}, fmt.Errorf("%w: question is required", domain.ErrInvalidLevel)
	case answer == "":
		return domain.Level{}, fmt.Errorf("%w: correct answer is required", domain.ErrInvalidLevel)
	}

	options := BuildOptions(answer, draft.Distractors, rnd)
	if len(options) < 2 {
		return domain.Level{}, fmt.Errorf("%w: need at least 2 distinct options, got %d", domain.ErrInvalidLevel, len(options))
	}

	image := strings.TrimSpace(draft.ImageURL)
	levelType := domain.LevelTypeSentenceCompletion
	if image != "" {
		levelType = domain.LevelTypeMatchImageWord
	}
	return domain.Level{
		Type:     levelType,
		Question: question,
		Image:    image,
		Passage:  strings.TrimSpace(draft.Passage),
		Options:  options,
		Answer:   answer,
	}, nil
}

// ValidateWorlds checks a whole catalog before it replaces the current one.
func ValidateWorlds(worlds []domain.World) error {
	ids := make(map[string]struct{}, len(worlds))
	for _, world := range worlds {
		if strings.TrimSpace(world.ID) == "" {
			return fmt.Errorf("%w: world %q has no id", domain.ErrInvalidLevel, world.Name)
		}
		if _, dup := ids[world.ID]; dup {
			return fmt.Errorf("%w: duplicate world id %q", domain.ErrInvalidLevel, world.ID)
		}
		ids[world.ID] = struct{}{}
		for i, level := range world.Levels {
			if err := validateLevel(level); err != nil {
				return fmt.Errorf("world %s level %d: %w", world.ID, i, err)
			}
		}
	}
	return nil
}

func validateLevel(level domain.Level) error {
	if strings.TrimSpace(level.Question) == "" {
		return fmt.Errorf("%w: question is required", domain.ErrInvalidLevel)
	}
	if len(level.Options) < 2 {
		return fmt.Errorf("%w: need at least 2 options", domain.ErrInvalidLevel)
	}
	for _, opt := range level.Options {
		if opt == level.Answer {
			return nil
		}
	}
	return fmt.Errorf("%w: answer %q is not one of the options", domain.ErrInvalidLevel, level.Answer)
}

func foldAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
