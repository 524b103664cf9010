package components

// Tags and groups the gameplay systems look for.
const (
	TagPlayer = "player"

	GroupEnemies     = "enemies"
	GroupObstacles   = "obstacles"
	GroupProjectiles = "projectiles"
	GroupTiles       = "tiles"
)
