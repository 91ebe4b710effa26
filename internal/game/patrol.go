package game

import "time"

// PatrolState is the per-enemy memory of the patrol controller.
type PatrolState struct {
	LastX     float64
	LastMove  time.Duration
	Direction int // -1 or +1; 0 until the first update
}

// PatrolController keeps enemies walking at a fixed speed and turns them
// around when they have not moved horizontally for longer than StallTimeout.
// There are no wall sensors; a stall is the only reversal trigger.
type PatrolController struct {
	Speed        float64
	StallTimeout time.Duration
}

// NewPatrolController returns a controller with the given speed and timeout.
func NewPatrolController(speed float64, stall time.Duration) PatrolController {
	return PatrolController{Speed: speed, StallTimeout: stall}
}

// Update returns the horizontal velocity the enemy should have this tick,
// given its current position x and velocity vx at time now. reversed is true
// on the tick a stall flips the direction.
func (pc PatrolController) Update(st *PatrolState, x, vx float64, now time.Duration) (desired float64, reversed bool) {
	if vx == 0 {
		if st.Direction == 0 {
			st.Direction = 1
		}
		st.LastX, st.LastMove = x, now
		return float64(st.Direction) * pc.Speed, false
	}

	dir := 1
	if vx < 0 {
		dir = -1
	}
	if x == st.LastX {
		if now-st.LastMove > pc.StallTimeout {
			dir = -dir
			st.LastMove = now
			reversed = true
		}
	} else {
		st.LastX = x
		st.LastMove = now
	}
	st.Direction = dir
	return float64(dir) * pc.Speed, reversed
}
