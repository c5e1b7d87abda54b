package domain

import "errors"

var (
	// ErrWorldNotFound is returned when a world ID is not in the catalog.
	ErrWorldNotFound = errors.New("world not found")
	// ErrWorldLocked is returned when a locked world is entered.
	ErrWorldLocked = errors.New("world is locked")
	// ErrLevelNotFound indicates a level index outside the world's levels.
	ErrLevelNotFound = errors.New("level not found")
	// ErrLevelLocked is returned when a level is played before its predecessor is completed.
	ErrLevelLocked = errors.New("level is locked")
	// ErrNoWorlds indicates there is no world to add a level to.
	ErrNoWorlds = errors.New("no worlds available")
	// ErrInvalidLevel wraps every authoring validation failure.
	ErrInvalidLevel = errors.New("invalid level")
	// ErrInvalidName is returned for a blank player name.
	ErrInvalidName = errors.New("player name must not be blank")
	// ErrRoundNotActive indicates an answer for a round that is over or never started.
	ErrRoundNotActive = errors.New("round not active")
	// ErrOptionNotFound indicates a submitted option is not one of the round's options.
	ErrOptionNotFound = errors.New("option not found")
	// ErrInvalidTransition is returned for a navigation action the current screen does not offer.
	ErrInvalidTransition = errors.New("invalid screen transition")
)
