// Package battles persists battle snapshots taken at the end of each turn.
package battles

//go:generate mockgen -destination=mock/mock_repository.go -package=mockbattles -source=repository.go

import (
	"context"
	"time"
)

// EntitySnapshot is the persisted state of one combatant
type EntitySnapshot struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Side    string         `json:"side"`
	HP      int            `json:"hp"`
	MaxHP   int            `json:"max_hp"`
	MP      int            `json:"mp"`
	MaxMP   int            `json:"max_mp"`
	Alive   bool           `json:"alive"`
	Stages  map[string]int `json:"stages,omitempty"`
	Effects []string       `json:"effects,omitempty"`
}

// Snapshot is the persisted state of a battle
type Snapshot struct {
	ID        string           `json:"id"`
	Turn      int              `json:"turn"`
	Phase     string           `json:"phase"`
	Entities  []EntitySnapshot `json:"entities"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Repository defines the interface for battle snapshot storage
type Repository interface {
	// Save stores snap, stamping UpdatedAt
	Save(ctx context.Context, snap *Snapshot) error
	Get(ctx context.Context, id string) (*Snapshot, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Snapshot, error)
}

// TimeProvider stamps snapshots
type TimeProvider interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemTimeProvider returns a TimeProvider backed by the wall clock
func SystemTimeProvider() TimeProvider {
	return systemClock{}
}

func clone(snap *Snapshot) *Snapshot {
	out := *snap
	out.Entities = make([]EntitySnapshot, len(snap.Entities))
	for i, e := range snap.Entities {
		out.Entities[i] = e
		if e.Stages != nil {
			out.Entities[i].Stages = make(map[string]int, len(e.Stages))
			for k, v := range e.Stages {
				out.Entities[i].Stages[k] = v
			}
		}
		out.Entities[i].Effects = append([]string(nil), e.Effects...)
	}
	return &out
}
