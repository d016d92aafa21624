package lib2x3_test

import (
	"math/rand"
	"testing"

	"github.com/2x3systems/planar2x3/go2x3"
	"github.com/2x3systems/planar2x3/lib2x3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestBaseGraph(t *testing.T) {
	X := lib2x3.NewBaseGraph()
	defer X.Reclaim()

	require.Equal(t, 4, X.VertexCount())
	require.Equal(t, 6, X.EdgeCount())
	require.Equal(t, []go2x3.Rotation{
		{2, 1, 3},
		{0, 2, 3},
		{3, 1, 0},
		{0, 1, 2},
	}, X.Rotations())
	require.NoError(t, X.Validate())

	// Walking any dart of K4 closes its face after 3 steps
	for u := go2x3.VtxID(0); u < 4; u++ {
		for _, v := range X.Rotation(u) {
			a, b := u, v
			for i := 0; i < 3; i++ {
				a, b = X.NextDart(a, b)
			}
			require.Equal(t, u, a)
			require.Equal(t, v, b)
		}
	}
	require.Equal(t, 2, X.EulerCharacteristic())
}

func TestGrowAt(t *testing.T) {
	X := lib2x3.NewBaseGraph()
	defer X.Reclaim()

	step := X.GrowAt(0, 0)
	require.Equal(t, lib2x3.GrowStep{U: 0, Col: 0, V: 2, NextU: 3, NewA: 4, NewB: 5}, step)
	require.Equal(t, []go2x3.Rotation{
		{4, 1, 3},
		{0, 2, 3},
		{5, 1, 4},
		{0, 1, 5},
		{0, 5, 2},
		{2, 4, 3},
	}, X.Rotations())
	require.NoError(t, X.Validate())
	require.True(t, X.HasEdge(4, 5))
	require.False(t, X.HasEdge(0, 2))
	require.False(t, X.HasEdge(2, 3))

	spectrum := X.FaceSpectrum()
	require.Equal(t, []interface{}{3, 4}, spectrum.Keys())
	require.Equal(t, []interface{}{2, 3}, spectrum.Values())
	require.Equal(t, 2, X.EulerCharacteristic())
}

func TestRandomGrowth(t *testing.T) {
	X := lib2x3.NewEmbedding(nil)
	defer X.Reclaim()

	for seed := int64(1); seed <= 25; seed++ {
		rng := rand.New(rand.NewSource(seed))
		X.InitBaseGraph()

		for X.VertexCount() < 120 {
			before := append([]go2x3.Rotation{}, X.Rotations()...)
			step := X.Grow(rng)

			after := X.Rotations()
			require.Len(t, after, len(before)+2)

			changed := 0
			for vi, r := range before {
				for j := range r {
					if after[vi][j] != r[j] {
						changed++
						vtx := go2x3.VtxID(vi)
						require.True(t, vtx == step.U || vtx == step.V || vtx == step.NextU)
					}
				}
			}
			require.Equal(t, 4, changed, "seed %d", seed)
		}

		require.NoError(t, X.Validate(), "seed %d", seed)
		require.Equal(t, 2, X.EulerCharacteristic(), "seed %d", seed)
		require.Equal(t, 3*X.VertexCount()/2, X.EdgeCount())
	}
}

func growPanic(X *lib2x3.Embedding, u go2x3.VtxID, col int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	X.GrowAt(u, col)
	return nil
}

func TestGrowAtCorrupt(t *testing.T) {
	X := lib2x3.NewBaseGraph()
	defer X.Reclaim()

	err := growPanic(X, 7, 0)
	require.Equal(t, go2x3.ErrBadVtxID, errors.Cause(err))
	err = growPanic(X, 0, 3)
	require.Equal(t, go2x3.ErrBadVtxID, errors.Cause(err))

	// 0 lists 2 but 2 does not list 0
	err = X.InitFromRotations([]go2x3.Rotation{{2, 1, 3}, {0, 2, 3}, {3, 1, 1}, {0, 1, 2}})
	require.Error(t, err)
	err = growPanic(X, 0, 0)
	require.Equal(t, go2x3.ErrBrokenSymmetry, errors.Cause(err))

	// 0 appears twice around 2
	X.InitFromRotations([]go2x3.Rotation{{2, 1, 3}, {0, 2, 3}, {0, 1, 0}, {0, 1, 2}})
	err = growPanic(X, 0, 0)
	require.Equal(t, go2x3.ErrDegenerateEdge, errors.Cause(err))

	// self loop
	X.InitFromRotations([]go2x3.Rotation{{0, 1, 3}, {0, 2, 3}, {3, 1, 0}, {0, 1, 2}})
	err = growPanic(X, 0, 0)
	require.Equal(t, go2x3.ErrDegenerateEdge, errors.Cause(err))
}

func TestValidate(t *testing.T) {
	X := lib2x3.NewEmbedding(nil)
	defer X.Reclaim()

	require.Equal(t, go2x3.ErrNilGraph, X.Validate())

	err := X.InitFromRotations([]go2x3.Rotation{{2, 1, 3}, {0, 2, 3}, {3, 1, 0}, {0, 1, 4}})
	require.Equal(t, go2x3.ErrBadVtxID, errors.Cause(err))

	err = X.InitFromRotations([]go2x3.Rotation{{2, 1, 1}, {0, 2, 3}, {3, 1, 0}, {0, 1, 2}})
	require.Equal(t, go2x3.ErrViolates3Regular, errors.Cause(err))

	err = X.InitFromRotations([]go2x3.Rotation{{2, 1, 3}, {0, 2, 3}, {3, 1, 1}, {0, 1, 2}})
	require.Equal(t, go2x3.ErrViolates3Regular, errors.Cause(err))

	err = X.InitFromRotations([]go2x3.Rotation{{2, 1, 3}, {0, 2, 3}, {3, 1, 0}, {0, 1, 2}})
	require.NoError(t, err)
}
