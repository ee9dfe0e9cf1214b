package redis

import "fmt"

// Key prefix for all game-related data
const keyPrefix = "gemtrader"

// savedGameKey returns the Redis key for the single save slot
func savedGameKey() string {
	return fmt.Sprintf("%s:save", keyPrefix)
}

// cardDefinitionsKey returns the Redis key for the ordered card definition list
func cardDefinitionsKey() string {
	return fmt.Sprintf("%s:cards", keyPrefix)
}
