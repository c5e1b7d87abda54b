package app

import "thai-reading-adventure/internal/domain"

// InitialProgress returns zeroed progress sized to the catalog.
func InitialProgress(worlds []domain.World) domain.PlayerProgress {
	return Reconcile(nil, worlds)
}

// Reconcile aligns progress with the current catalog. Stars are kept for level indexes
// that still exist, new levels start at zero and worlds no longer in the catalog are
// dropped. The input map is never modified.
func Reconcile(progress domain.PlayerProgress, worlds []domain.World) domain.PlayerProgress {
	out := make(domain.PlayerProgress, len(worlds))
	for _, world := range worlds {
		existing := progress[world.ID]
		stars := make([]int, len(world.Levels))
		copy(stars, existing)
		out[world.ID] = stars
	}
	return out
}

// progressMatches reports whether Reconcile would leave progress unchanged.
func progressMatches(progress domain.PlayerProgress, worlds []domain.World) bool {
	if len(progress) != len(worlds) {
		return false
	}
	for _, world := range worlds {
		stars, ok := progress[world.ID]
		if !ok || len(stars) != len(world.Levels) {
			return false
		}
	}
	return true
}

// IsLevelUnlocked reports whether the level at index can be played. The first level is
// always open; every other level opens once its predecessor has at least one star.
func IsLevelUnlocked(progress []int, index int) bool {
	if index <= 0 {
		return true
	}
	prev := index - 1
	return prev < len(progress) && progress[prev] > 0
}

// CompletedLevels counts levels with at least one star.
func CompletedLevels(progress []int) int {
	n := 0
	for _, s := range progress {
		if s > 0 {
			n++
		}
	}
	return n
}
