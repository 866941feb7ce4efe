package updater

import (
	"github.com/google/uuid"

	"github.com/matzehuels/pamladder/pkg/ladder"
	"github.com/matzehuels/pamladder/pkg/pam"
)

// Chunk is the unit a consumer sees for one rail of a valid ladder.
type Chunk struct {
	ID     uuid.UUID // fresh for every materialization; see [Updater.Chunk]
	Ladder ladder.Handle
	Slot   ladder.Slot
	Role   pam.Role
	Atoms  []pam.AtomID
	// Linkers lists the linker atoms between consecutive strand atoms,
	// including the closing link of a ring.
	Linkers []pam.AtomID
	Ring    bool
}

// Len returns the number of rail atoms in the chunk.
func (c *Chunk) Len() int { return len(c.Atoms) }

// ChunkMaterializer is the default [ladder.Materializer] for chunks.
type ChunkMaterializer struct {
	model *pam.Model
}

// NewChunkMaterializer creates a materializer reading linkers from m.
func NewChunkMaterializer(m *pam.Model) *ChunkMaterializer {
	return &ChunkMaterializer{model: m}
}

// Materialize implements [ladder.Materializer].
func (cm *ChunkMaterializer) Materialize(l *ladder.Ladder, rail ladder.RailView) (*Chunk, error) {
	c := &Chunk{
		ID:     uuid.New(),
		Ladder: l.Handle(),
		Slot:   rail.Slot,
		Role:   rail.Role,
		Atoms:  rail.Atoms,
		Ring:   rail.Ring,
	}
	if rail.Role != pam.RoleStrand {
		return c, nil
	}
	n := len(rail.Atoms)
	for i := 0; i+1 < n; i++ {
		if lk, ok := cm.model.LinkerBetween(rail.Atoms[i], rail.Atoms[i+1]); ok {
			c.Linkers = append(c.Linkers, lk)
		}
	}
	if rail.Ring && n > 2 {
		if lk, ok := cm.model.LinkerBetween(rail.Atoms[n-1], rail.Atoms[0]); ok {
			c.Linkers = append(c.Linkers, lk)
		}
	}
	return c, nil
}
