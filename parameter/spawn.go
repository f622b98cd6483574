package parameter

// Obstacle placement
const (
	// ObstaclePoolSize is the number of instances pre-built per obstacle prototype
	ObstaclePoolSize = 10

	// MinObstacleSpacing is the minimum world distance between two items on one platform
	MinObstacleSpacing = 3.0

	// ObstacleHeight is the local Y offset of a placed obstacle
	ObstacleHeight = 0.0

	// PlacementAttempts bounds candidate sampling per placement
	PlacementAttempts = 10

	// CurvedLaneOffset is the lateral lane offset on curved platforms
	CurvedLaneOffset = 1.0

	// StraightLaneOffset is the lateral lane offset on straight platforms
	StraightLaneOffset = 2.0

	// CurvedBandStart and CurvedBandEnd bound obstacle Z on curved platforms as fractions of length
	CurvedBandStart = 0.3
	CurvedBandEnd   = 0.7

	// StraightEdgeMargin keeps obstacles away from both ends of a straight platform
	StraightEdgeMargin = 1.0
)

// Coin placement
const (
	CoinPoolSize = 50

	CoinSpawnChance = 0.4
	CoinLineChance  = 0.2

	// MaxCoinsPerPlatform bounds scattered coins per platform
	MaxCoinsPerPlatform = 3

	MinCoinSpacing  = 2.0
	CoinHeight      = 1.0
	CoinsPerLine    = 5
	CoinLineSpacing = 1.5

	// CoinLineStartMargin is the minimum Z of a coin line's first coin
	CoinLineStartMargin = 2.0

	// CoinLineEndMargin is kept clear between the last coin of a line and the platform end
	CoinLineEndMargin = 1.0

	CoinValue = 5

	// CoinPickupRadius is the trigger radius of a coin
	CoinPickupRadius = 0.6
)

// Item motions in degrees per second
const (
	CoinSpinSpeed     = 90.0
	ObstacleSpinSpeed = 45.0

	// ObstacleSwingAmplitude and ObstacleSwingRate drive the pendulum roll
	ObstacleSwingAmplitude = 45.0
	ObstacleSwingRate      = 2.0
)
