package game

import "time"

// Physics holds the movement model shared by the world, the jump resolver and
// the patrol controller. Units are world units (pixels) and seconds.
type Physics struct {
	Gravity      float64       `yaml:"gravity" json:"gravity"`
	MaxFallSpeed float64       `yaml:"max_fall_speed" json:"max_fall_speed"`
	RunSpeed     float64       `yaml:"run_speed" json:"run_speed"`
	JumpVelocity float64       `yaml:"jump_velocity" json:"jump_velocity"`
	EnemySpeed   float64       `yaml:"enemy_speed" json:"enemy_speed"`
	EnemyKick    float64       `yaml:"enemy_kick" json:"enemy_kick"`
	StallTimeout time.Duration `yaml:"stall_timeout" json:"stall_timeout"`

	ActorSize  float64 `yaml:"actor_size" json:"actor_size"`   // player and enemy box edge
	HazardSize float64 `yaml:"hazard_size" json:"hazard_size"` // spike and door hitbox edge
	FallMargin float64 `yaml:"fall_margin" json:"fall_margin"` // death line distance above the world bottom
}

// DefaultPhysics is the tuning of the desktop game.
func DefaultPhysics() Physics {
	return Physics{
		Gravity:      800,
		MaxFallSpeed: 1000,
		RunSpeed:     160,
		JumpVelocity: 400,
		EnemySpeed:   100,
		EnemyKick:    50,
		StallTimeout: time.Second,
		ActorSize:    32,
		HazardSize:   12,
		FallMargin:   10,
	}
}
