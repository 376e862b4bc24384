package stats

// Stage bounds
const (
	MinStage = -6
	MaxStage = 6
)

// Multiplier converts a stage into its multiplicative factor:
// max(2, 2+stage) / max(2, 2-stage)
func Multiplier(stage int) float64 {
	stage = clamp(stage)
	num := 2 + stage
	if num < 2 {
		num = 2
	}
	den := 2 - stage
	if den < 2 {
		den = 2
	}
	return float64(num) / float64(den)
}

// Stages tracks the seven independent stat stages of an entity
type Stages struct {
	values map[Kind]int
}

// NewStages creates a zeroed stage block
func NewStages() *Stages {
	return &Stages{values: make(map[Kind]int, len(Kinds))}
}

// Get returns the current stage for kind
func (s *Stages) Get(kind Kind) int {
	return s.values[kind]
}

// Change applies delta, saturating silently at the bounds.
// Returns the delta that was actually applied.
func (s *Stages) Change(kind Kind, delta int) int {
	before := s.values[kind]
	after := clamp(before + delta)
	s.values[kind] = after
	return after - before
}

// Multiplier returns the multiplier for the current stage of kind
func (s *Stages) Multiplier(kind Kind) float64 {
	return Multiplier(s.values[kind])
}

// Reset returns every stage to zero
func (s *Stages) Reset() {
	for k := range s.values {
		delete(s.values, k)
	}
}

// Snapshot returns the non-zero stages
func (s *Stages) Snapshot() map[Kind]int {
	out := make(map[Kind]int, len(s.values))
	for k, v := range s.values {
		if v != 0 {
			out[k] = v
		}
	}
	return out
}

func clamp(stage int) int {
	if stage < MinStage {
		return MinStage
	}
	if stage > MaxStage {
		return MaxStage
	}
	return stage
}
