package level

import "fmt"

// Generation stages reported by GenerationFailed.
const (
	StageDoor         = "door"
	StagePlayer       = "player"
	StageEnemy        = "enemy"
	StageReachability = "reachability"
)

// GenerationFailed is returned when a bounded rejection-sampling loop runs out
// of attempts. Callers pick fallback parameters and retry.
type GenerationFailed struct {
	Stage    string
	Attempts int
	Params   Params
}

func (e *GenerationFailed) Error() string {
	return fmt.Sprintf("level: generation failed at %s after %d attempts (size=%d floor=%.2f spike=%.2f)",
		e.Stage, e.Attempts, e.Params.Size, e.Params.FloorProbability, e.Params.SpikeProbability)
}
