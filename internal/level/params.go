package level

import (
	"fmt"
	"math/rand"
	"time"
)

// Params controls level generation. The zero value is not usable; start from
// DefaultParams.
type Params struct {
	Size             int     `yaml:"size" json:"size"`
	TileSize         int     `yaml:"tile_size" json:"tile_size"`
	FloorProbability float64 `yaml:"floor_probability" json:"floor_probability"`
	SpikeProbability float64 `yaml:"spike_probability" json:"spike_probability"`
	EnemyMin         int     `yaml:"enemy_min" json:"enemy_min"`
	EnemyMax         int     `yaml:"enemy_max" json:"enemy_max"`

	// Bounds on rejection sampling. Placement attempts are per spawn point;
	// level attempts count whole-grid regenerations after the solver rejects.
	MaxPlacementAttempts int `yaml:"max_placement_attempts" json:"max_placement_attempts"`
	MaxLevelAttempts     int `yaml:"max_level_attempts" json:"max_level_attempts"`

	// RequireReachable rejects levels where the door cannot be reached from the
	// player spawn under the jump model. DistinctSpawns rejects Player == Door.
	RequireReachable bool `yaml:"require_reachable" json:"require_reachable"`
	DistinctSpawns   bool `yaml:"distinct_spawns" json:"distinct_spawns"`

	Reach Reach `yaml:"reach" json:"reach"`
}

// DefaultParams returns the tuning used for normal play: a 15×15 grid of
// 48-unit tiles, 30% floor, 20% spikes and 3–6 enemies.
func DefaultParams() Params {
	return Params{
		Size:                 15,
		TileSize:             48,
		FloorProbability:     0.3,
		SpikeProbability:     0.2,
		EnemyMin:             3,
		EnemyMax:             6,
		MaxPlacementAttempts: 10000,
		MaxLevelAttempts:     256,
		RequireReachable:     true,
		DistinctSpawns:       true,
		Reach:                DefaultReach(),
	}
}

// WorldSize returns the playfield edge length in world units.
func (p Params) WorldSize() int {
	return p.Size * p.TileSize
}

// Validate rejects parameter combinations that make a valid door or player
// cell impossible or statistically rare enough to stall generation.
func (p Params) Validate() error {
	switch {
	case p.Size < 3:
		return fmt.Errorf("level: size %d too small (min 3)", p.Size)
	case p.TileSize <= 0:
		return fmt.Errorf("level: tile size must be positive, got %d", p.TileSize)
	case p.FloorProbability <= 0 || p.FloorProbability > 1:
		return fmt.Errorf("level: floor probability %.3f outside (0,1]", p.FloorProbability)
	case p.SpikeProbability < 0 || p.SpikeProbability > 1:
		return fmt.Errorf("level: spike probability %.3f outside [0,1]", p.SpikeProbability)
	case p.EnemyMin < 0 || p.EnemyMax < p.EnemyMin:
		return fmt.Errorf("level: enemy range [%d,%d] invalid", p.EnemyMin, p.EnemyMax)
	case p.EnemyMax > p.Size*p.Size/2:
		return fmt.Errorf("level: %d enemies cannot fit a %dx%d grid", p.EnemyMax, p.Size, p.Size)
	case p.MaxPlacementAttempts <= 0 || p.MaxLevelAttempts <= 0:
		return fmt.Errorf("level: attempt caps must be positive (placement=%d level=%d)",
			p.MaxPlacementAttempts, p.MaxLevelAttempts)
	case p.Reach.Rise < 0 || p.Reach.Gap < 0:
		return fmt.Errorf("level: jump reach must be non-negative (rise=%d gap=%d)", p.Reach.Rise, p.Reach.Gap)
	}
	return nil
}

// NewRand returns a random source for generation. Seed 0 means time-seeded,
// which is what production play uses; tests pass a fixed seed.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)) // #nosec G404 -- gameplay only
}
