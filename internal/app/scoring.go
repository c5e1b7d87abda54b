package app

import "thai-reading-adventure/internal/domain"

const (
	// StarsForCorrect is awarded for a correct answer.
	StarsForCorrect = domain.MaxLevelStars
	// StarsForAttempt is the consolation award for a wrong answer.
	StarsForAttempt = 1
	// CoinsPerStar converts earned stars into coins.
	CoinsPerStar = 10
)

// Score computes the reward for a single answer.
func Score(isCorrect bool) domain.Reward {
	stars := StarsForAttempt
	if isCorrect {
		stars = StarsForCorrect
	}
	return domain.Reward{Stars: stars, Coins: stars * CoinsPerStar}
}

// ApplyResult folds a reward into the player and returns the updated copy. A level's
// recorded stars never decrease; the star total grows only by the net gain over the
// previous best, and coins are paid only on a net gain or a first completion.
func ApplyResult(player domain.Player, worldID string, levelIndex int, reward domain.Reward) (domain.Player, domain.Result) {
	next := player.Clone()
	if next.Progress == nil {
		next.Progress = make(domain.PlayerProgress)
	}

	stars := next.Progress[worldID]
	if levelIndex >= len(stars) {
		grown := make([]int, levelIndex+1)
		copy(grown, stars)
		stars = grown
	}

	oldStars := stars[levelIndex]
	netStarGain := 0
	if reward.Stars > oldStars {
		netStarGain = reward.Stars - oldStars
	}
	stars[levelIndex] = max(oldStars, reward.Stars)
	next.Progress[worldID] = stars

	coins := 0
	if netStarGain > 0 || (reward.Stars > 0 && oldStars == 0) {
		coins = reward.Coins
	}
	next.Stars += netStarGain
	next.Coins += coins

	return next, domain.Result{
		WorldID:       worldID,
		LevelIndex:    levelIndex,
		IsWin:         reward.Stars == StarsForCorrect,
		StarsEarned:   reward.Stars,
		CoinsEarned:   reward.Coins,
		NetStarGain:   netStarGain,
		CoinsCredited: coins,
		RecordedStars: stars[levelIndex],
	}
}
