package updater

import (
	"context"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	perrors "github.com/matzehuels/pamladder/pkg/errors"
	"github.com/matzehuels/pamladder/pkg/ladder"
	"github.com/matzehuels/pamladder/pkg/observability"
	"github.com/matzehuels/pamladder/pkg/pam"
)

// Options configures an [Updater].
type Options struct {
	// MaxLadderLength caps the base length of built and merged ladders.
	// Zero means ladder.DefaultMaxLadderLength.
	MaxLadderLength int
	// Logger receives pass summaries at Debug and ladder errors at Warn.
	// Nil discards.
	Logger *log.Logger
	// Materializer turns rails of new ladders into chunks. Nil means a
	// [ChunkMaterializer] over the updater's model.
	Materializer ladder.Materializer[*Chunk]
}

// Result describes one pass of [Updater.Run].
type Result struct {
	// Ladders is every valid ladder after the pass, sorted by handle.
	Ladders []*ladder.Ladder
	// New is the ladders that became valid during the pass.
	New []*ladder.Ladder

	Changed     int // atoms reported changed by the model
	Rescanned   int // base atoms rebuilt into rails
	Built       int // ladders built before merging
	Merges      int // merges performed
	Invalidated int // ladders drained from the registry
	Errors      int // new ladders flagged with an error
	Chunks      int // chunks materialized
	Duration    time.Duration
}

func (r *Result) stats() observability.PassStats {
	return observability.PassStats{
		Changed:     r.Changed,
		Rescanned:   r.Rescanned,
		Built:       r.Built,
		Merges:      r.Merges,
		Invalidated: r.Invalidated,
		Errors:      r.Errors,
		Chunks:      r.Chunks,
		Ladders:     len(r.Ladders),
	}
}

// Updater maintains the ladder partition of a model across edits.
//
// An Updater is not safe for concurrent use, and the model must not be
// edited while a pass runs.
type Updater struct {
	model  *pam.Model
	reg    *ladder.Registry
	logger *log.Logger
	mat    ladder.Materializer[*Chunk]

	chunks    map[ladder.Handle][]*Chunk
	atomChunk map[pam.AtomID]*Chunk // rail and linker atoms
	byID      map[uuid.UUID]*Chunk
}

// New creates an updater for m. Atoms already in m are reported changed by
// the model, so the first pass builds ladders for all of them.
func New(m *pam.Model, opts Options) *Updater {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Materializer == nil {
		opts.Materializer = NewChunkMaterializer(m)
	}
	return &Updater{
		model:  m,
		reg:    ladder.NewRegistry(m, ladder.Options{MaxLadderLength: opts.MaxLadderLength, Logger: opts.Logger}),
		logger: opts.Logger,
		mat:    opts.Materializer,

		chunks:    make(map[ladder.Handle][]*Chunk),
		atomChunk: make(map[pam.AtomID]*Chunk),
		byID:      make(map[uuid.UUID]*Chunk),
	}
}

// Model returns the model the updater maintains.
func (u *Updater) Model() *pam.Model { return u.model }

// Registry returns the ladder registry.
func (u *Updater) Registry() *ladder.Registry { return u.reg }

// Chunks returns every chunk, ordered by ladder handle and then slot.
func (u *Updater) Chunks() []*Chunk {
	var out []*Chunk
	for _, h := range slices.Sorted(maps.Keys(u.chunks)) {
		out = append(out, u.chunks[h]...)
	}
	return out
}

// ChunkOf returns the chunk holding a rail or linker atom.
func (u *Updater) ChunkOf(atom pam.AtomID) (*Chunk, bool) {
	c, ok := u.atomChunk[atom]
	return c, ok
}

// Chunk returns the live chunk with the given ID. Chunks of rebuilt ladders
// are replaced by new ones with fresh IDs, so a stale ID is not found.
func (u *Updater) Chunk(id uuid.UUID) (*Chunk, bool) {
	c, ok := u.byID[id]
	return c, ok
}

// LadderOf returns the valid ladder holding an atom anywhere in its rails,
// unlike [ladder.Registry.OwnerOf], which only knows rail-end atoms.
func (u *Updater) LadderOf(atom pam.AtomID) (*ladder.Ladder, bool) {
	c, ok := u.atomChunk[atom]
	if !ok {
		return nil, false
	}
	l, ok := u.reg.Ladder(c.Ladder)
	if !ok || !l.Valid() {
		return nil, false
	}
	return l, true
}

// Run performs one pass over the atoms changed since the previous pass.
// A contract violation inside the pass is returned as an error with code
// CONTRACT_VIOLATION; the updater should not be used after such an error.
func (u *Updater) Run(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	changed := u.model.Changed()
	hooks := observability.Updater()
	hooks.OnPassStart(ctx, len(changed))

	res := &Result{Changed: len(changed)}
	err := u.safePass(ctx, changed, res)
	res.Duration = time.Since(start)
	hooks.OnPassComplete(ctx, res.stats(), res.Duration, err)
	if err != nil {
		u.logger.Error("updater pass failed", "error", err)
		return nil, err
	}

	u.logger.Debug("updater pass complete",
		"changed", res.Changed,
		"rescanned", res.Rescanned,
		"built", res.Built,
		"merges", res.Merges,
		"ladders", len(res.Ladders),
		"duration", res.Duration)
	return res, nil
}

func (u *Updater) safePass(ctx context.Context, changed []pam.AtomID, res *Result) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if !perrors.IsViolation(r) {
				panic(r)
			}
			err = r.(error)
		}
	}()
	return u.pass(ctx, changed, res)
}

func (u *Updater) pass(ctx context.Context, changed []pam.AtomID, res *Result) error {
	scan := u.invalidate(changed, res)
	res.Rescanned = len(scan)

	built, err := u.build(scan)
	if err != nil {
		return err
	}
	res.Built = len(built)

	fresh, merges := ladder.MergeAll(built)
	res.Merges = merges

	for _, l := range u.reg.Drain() {
		u.dropChunks(l)
		res.Invalidated++
	}

	hooks := observability.Updater()
	for _, l := range fresh {
		if l.Error() {
			res.Errors++
			hooks.OnLadderError(ctx, l.String(), l.ErrorReasons())
		}
		chunks, err := ladder.Materialize[*Chunk](l, u.mat)
		if err != nil {
			return perrors.Wrap(perrors.ErrCodeInternal, err, "materialize %s", l)
		}
		u.addChunks(l, chunks)
		res.Chunks += len(chunks)
	}
	res.New = fresh
	res.Ladders = u.reg.Valid()
	return nil
}

// invalidate invalidates every ladder holding a changed atom and every
// ladder sharing a rung with an atom of an invalidated ladder. It drains
// the registry, which also picks up ladders invalidated by callers since
// the last pass, and returns the base atoms left without a ladder, sorted.
func (u *Updater) invalidate(changed []pam.AtomID, res *Result) []pam.AtomID {
	seen := make(map[pam.AtomID]bool)
	work := slices.Clone(changed)
	for {
		for len(work) > 0 {
			a := work[len(work)-1]
			work = work[:len(work)-1]
			if seen[a] {
				continue
			}
			seen[a] = true
			if l, ok := u.LadderOf(a); ok {
				l.Invalidate()
			}
			work = append(work, u.rungPartners(a)...)
		}

		stale := u.reg.Drain()
		if len(stale) == 0 {
			break
		}
		for _, l := range stale {
			u.dropChunks(l)
			res.Invalidated++
			work = append(work, l.Atoms()...)
		}
	}

	var scan []pam.AtomID
	for a := range seen {
		if u.model.IsRole(a, pam.RoleAxis) || u.model.IsRole(a, pam.RoleStrand) {
			scan = append(scan, a)
		}
	}
	slices.Sort(scan)
	return scan
}

// rungPartners returns the atoms whose ladder must be rebuilt along with a.
func (u *Updater) rungPartners(a pam.AtomID) []pam.AtomID {
	role, ok := u.model.Role(a)
	if !ok {
		return nil
	}
	switch role {
	case pam.RoleAxis, pam.RoleLinker:
		return u.model.NeighborsWithRole(a, pam.RoleStrand)
	default:
		return u.model.NeighborsWithRole(a, pam.RoleAxis)
	}
}

// build turns rescanned base atoms into finished ladders and single-strand
// domains.
func (u *Updater) build(scan []pam.AtomID) ([]*ladder.Ladder, error) {
	var axisIDs, strandIDs []pam.AtomID
	axisSet := make(map[pam.AtomID]bool)
	strandSet := make(map[pam.AtomID]bool)
	for _, a := range scan {
		if u.model.IsRole(a, pam.RoleAxis) {
			axisIDs = append(axisIDs, a)
			axisSet[a] = true
		} else {
			strandIDs = append(strandIDs, a)
			strandSet[a] = true
		}
	}
	limit := u.reg.MaxLadderLength()

	var built []*ladder.Ladder
	placed := make(map[pam.AtomID]bool)
	axisNbrs := linearNeighbors(axisSet, func(id pam.AtomID) []pam.AtomID {
		return u.model.NeighborsWithRole(id, pam.RoleAxis)
	})
	for _, c := range walkChains(axisIDs, axisNbrs) {
		rungs := make([][]pam.AtomID, len(c.atoms))
		for i, a := range c.atoms {
			for _, s := range u.model.RungStrands(a) {
				if strandSet[s] {
					rungs[i] = append(rungs[i], s)
				}
			}
		}
		var segs []segment
		if c.ring {
			segs = splitRing(u.model, c.atoms, rungs, limit)
		} else {
			segs = splitLinear(u.model, c.atoms, rungs, limit)
		}
		for _, s := range segs {
			l, err := u.newLadder(s)
			if err != nil {
				return nil, err
			}
			built = append(built, l)
			for _, t := range s.tracks {
				for _, a := range t {
					placed[a] = true
				}
			}
		}
	}

	free := make(map[pam.AtomID]bool)
	var freeIDs []pam.AtomID
	for _, s := range strandIDs {
		if !placed[s] {
			free[s] = true
			freeIDs = append(freeIDs, s)
		}
	}
	strandNbrs := linearNeighbors(free, func(id pam.AtomID) []pam.AtomID {
		var out []pam.AtomID
		for _, l := range u.model.StrandLinks(id) {
			out = append(out, l.To)
		}
		return out
	})
	for _, c := range walkChains(freeIDs, strandNbrs) {
		if c.ring && len(c.atoms) <= limit {
			r, err := ladder.NewRingRail(u.model, pam.RoleStrand, c.atoms)
			if err != nil {
				return nil, perrors.Wrap(perrors.ErrCodeInternal, err, "single-strand ring")
			}
			built = append(built, u.reg.NewSingleStrandDomain(r))
			continue
		}
		for _, run := range cut(c.atoms, limit) {
			r, err := ladder.NewRail(u.model, pam.RoleStrand, run)
			if err != nil {
				return nil, perrors.Wrap(perrors.ErrCodeInternal, err, "single-strand rail")
			}
			built = append(built, u.reg.NewSingleStrandDomain(r))
		}
	}
	return built, nil
}

func (u *Updater) newLadder(s segment) (*ladder.Ladder, error) {
	newRail := ladder.NewRail
	if s.ring {
		newRail = ladder.NewRingRail
	}
	axis, err := newRail(u.model, pam.RoleAxis, s.axis)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInternal, err, "axis rail")
	}
	l := u.reg.NewLadder(axis)
	for _, t := range s.tracks {
		r, err := newRail(u.model, pam.RoleStrand, t)
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInternal, err, "strand rail")
		}
		l.AddStrandRail(r)
	}
	l.Finish()
	return l, nil
}

func (u *Updater) addChunks(l *ladder.Ladder, chunks []*Chunk) {
	u.chunks[l.Handle()] = chunks
	for _, c := range chunks {
		if c == nil {
			continue
		}
		if c.ID != uuid.Nil {
			u.byID[c.ID] = c
		}
		for _, a := range c.Atoms {
			u.atomChunk[a] = c
		}
		for _, a := range c.Linkers {
			u.atomChunk[a] = c
		}
	}
}

func (u *Updater) dropChunks(l *ladder.Ladder) {
	for _, c := range u.chunks[l.Handle()] {
		if c == nil {
			continue
		}
		delete(u.byID, c.ID)
		for _, a := range slices.Concat(c.Atoms, c.Linkers) {
			if u.atomChunk[a] == c {
				delete(u.atomChunk, a)
			}
		}
	}
	delete(u.chunks, l.Handle())
}
