package lib2x3

import (
	"github.com/2x3systems/planar2x3/go2x3"
	"github.com/pkg/errors"
)

// Rand is the source of uniform draws used to pick the edge to split.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// GrowStep describes one face split.
//
// Edge U-V and edge V-NextU (consecutive around the face walked from U to V) are each
// subdivided, by NewA and NewB respectively, and NewA-NewB is joined by a new edge.
type GrowStep struct {
	U     go2x3.VtxID
	Col   int // slot of V in U's rotation
	V     go2x3.VtxID
	NextU go2x3.VtxID
	NewA  go2x3.VtxID
	NewB  go2x3.VtxID
}

// Grow draws a directed edge uniformly (vertex, then rotation slot) and splits it via GrowAt.
func (X *Embedding) Grow(rng Rand) GrowStep {
	u := go2x3.VtxID(rng.Intn(len(X.rot)))
	col := rng.Intn(go2x3.EdgesPerVertex)
	return X.GrowAt(u, col)
}

// GrowAt grows X by two vertices by splitting the face that follows the directed edge (u, rot[u][col]).
//
// Only the rotations of u, v and next_u change (one relabelled entry each at u and next_u,
// two at v), so 3-regularity and the planar rotation order are preserved.
//
// GrowAt panics if X is corrupt (no back-edge, repeated entries) or the edge is degenerate:
// these are data-integrity defects, not runtime conditions.
func (X *Embedding) GrowAt(u go2x3.VtxID, col int) GrowStep {
	Nv := go2x3.VtxID(len(X.rot))
	if u < 0 || u >= Nv || col < 0 || col >= go2x3.EdgesPerVertex {
		panic(errors.Wrapf(go2x3.ErrBadVtxID, "grow at (%d, %d) with %d vertices", u, col, Nv))
	}

	v := X.rot[u][col]
	if v < 0 || v >= Nv {
		panic(errors.Wrapf(go2x3.ErrBadVtxID, "vertex %d lists %d", u, v))
	}
	if v == u {
		panic(errors.Wrapf(go2x3.ErrDegenerateEdge, "self loop at %d", u))
	}

	// Walk one step along the face: next_u follows u in v's rotation
	i := X.rot[v].IndexOf(u)
	if i < 0 {
		panic(errors.Wrapf(go2x3.ErrBrokenSymmetry, "%d lists %d but not vice versa", u, v))
	}
	if X.rot[v].Count(u) > 1 {
		panic(errors.Wrapf(go2x3.ErrDegenerateEdge, "%d appears more than once around %d", u, v))
	}
	nextU := X.rot[v].Successor(i)
	if nextU == u || nextU == v {
		panic(errors.Wrapf(go2x3.ErrDegenerateEdge, "face walk %d -> %d -> %d", u, v, nextU))
	}

	step := GrowStep{
		U:     u,
		Col:   col,
		V:     v,
		NextU: nextU,
		NewA:  Nv,
		NewB:  Nv + 1,
	}

	X.replace(u, v, step.NewA)
	X.replace(nextU, v, step.NewB)
	for j, vj := range X.rot[v] {
		switch vj {
		case u:
			X.rot[v][j] = step.NewA
		case nextU:
			X.rot[v][j] = step.NewB
		}
	}

	X.rot = append(X.rot,
		go2x3.Rotation{u, step.NewB, v},
		go2x3.Rotation{v, step.NewA, nextU},
	)
	X.traces = X.traces[:0]
	return step
}

// replace relabels neighbor old with new in vi's rotation.
func (X *Embedding) replace(vi, old, new go2x3.VtxID) {
	j := X.rot[vi].IndexOf(old)
	if j < 0 {
		panic(errors.Wrapf(go2x3.ErrBrokenSymmetry, "%d lists %d but not vice versa", old, vi))
	}
	X.rot[vi][j] = new
}
