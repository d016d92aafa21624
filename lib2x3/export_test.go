package lib2x3_test

import (
	"strings"
	"testing"

	"github.com/2x3systems/planar2x3/go2x3"
	"github.com/2x3systems/planar2x3/lib2x3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const k4AdjMatrix = "0,1,1,1\n1,0,1,1\n1,1,0,1\n1,1,1,0\n\n"

func TestExport(t *testing.T) {
	X := lib2x3.NewBaseGraph()
	defer X.Reclaim()

	b := strings.Builder{}
	require.NoError(t, X.WriteAdjMatrix(&b))
	require.Equal(t, k4AdjMatrix, b.String())

	b.Reset()
	require.NoError(t, X.WriteEdgeList(&b))
	require.Equal(t, "4\n3 2 1 3 \n3 0 2 3 \n3 3 1 0 \n3 0 1 2 \n\n", b.String())

	b.Reset()
	require.NoError(t, X.WriteAsString(&b, go2x3.PrintOpts{Format: go2x3.FormatRotation}))
	require.Equal(t, "0: 2 1 3\n1: 0 2 3\n2: 3 1 0\n3: 0 1 2\n", b.String())

	err := X.WriteAsString(&b, go2x3.PrintOpts{Format: 9})
	require.Equal(t, go2x3.ErrBadFormat, errors.Cause(err))

	Y := lib2x3.NewEmbedding(nil)
	require.Equal(t, go2x3.ErrNilGraph, Y.WriteAdjMatrix(&b))
	Y.Reclaim()
}

func TestAdjMatrix(t *testing.T) {
	X := lib2x3.NewBaseGraph()
	defer X.Reclaim()

	for X.VertexCount() < 30 {
		X.GrowAt(go2x3.VtxID(X.VertexCount()-1), X.VertexCount()%3)
	}

	A := X.AdjMatrix()
	require.Len(t, A, 30)
	for i, row := range A {
		sum := 0
		for j, Aij := range row {
			require.Equal(t, Aij, A[j][i])
			sum += int(Aij)
		}
		require.Equal(t, 3, sum, "row %d", i)
		require.Equal(t, uint8(0), row[i])
	}
}

func TestTraces(t *testing.T) {
	X := lib2x3.NewBaseGraph()
	defer X.Reclaim()

	require.Equal(t, go2x3.Traces{0, 12, 24, 84}, X.Traces(0))
	require.Equal(t, go2x3.Traces{0, 12}, X.Traces(2))

	// Triangular prism: two triangles
	X.GrowAt(0, 0)
	TX := X.Traces(3)
	require.Equal(t, go2x3.Traces{0, 18, 12}, TX)

	// Traces are independent of labelling
	Y := lib2x3.NewBaseGraph()
	defer Y.Reclaim()
	Y.GrowAt(3, 1)
	require.Equal(t, X.Traces(6), Y.Traces(6))

	for X.VertexCount() < 40 {
		X.GrowAt(1, 2)
		TX = X.Traces(2)
		require.Equal(t, int64(0), TX[0])
		require.Equal(t, int64(3*X.VertexCount()), TX[1])
	}
}

func TestTraceLimit(t *testing.T) {
	require.Equal(t, lib2x3.MaxTraces, lib2x3.TraceLimit(4))
	require.Equal(t, lib2x3.MaxTraces, lib2x3.TraceLimit(go2x3.HardCapacity))
	require.Equal(t, 14, lib2x3.TraceLimit(1<<40))

	// K4 has eigenvalues 3, -1, -1, -1, so tr(A^k) = 3^k + 3(-1)^k
	X := lib2x3.NewBaseGraph()
	defer X.Reclaim()
	TX := X.Traces(100)
	require.Len(t, TX, lib2x3.MaxTraces)
	pow, sign := int64(1), int64(1)
	for k, tr := range TX {
		pow *= 3
		sign = -sign
		require.Equal(t, pow+3*sign, tr, "k=%d", k+1)
	}

	// Even traces count closed walks, so they stay positive and bounded by Nv*3^k
	for X.VertexCount() < 200 {
		X.GrowAt(go2x3.VtxID(X.VertexCount()/2), X.VertexCount()%3)
	}
	TX = X.Traces(0)
	require.Len(t, TX, lib2x3.MaxTraces)
	pow = 1
	for k, tr := range TX {
		pow *= 3
		require.LessOrEqual(t, tr, int64(200)*pow, "k=%d", k+1)
		if k%2 == 1 {
			require.Greater(t, tr, int64(0), "k=%d", k+1)
		}
	}
}

func TestFacesHeader(t *testing.T) {
	X := lib2x3.NewBaseGraph()
	X.GrowAt(0, 0)
	defer X.Reclaim()

	printed := strings.Builder{}
	count := go2x3.StreamGraph(X).
		Print(nopWriteCloser{&printed}, go2x3.PrintOpts{Label: "F", Header: true, NumTraces: 3, Faces: true, Format: go2x3.FormatRotation}).
		PullAll()
	require.Equal(t, 1, count)
	require.True(t, strings.HasPrefix(printed.String(), "F,000001,6,0,18,12,3:2;4:3\n0: 4 1 3\n"), printed.String())
}

func TestRotationGrammar(t *testing.T) {
	X, err := lib2x3.NewEmbeddingFromString("0: 2 1 3, 1: 0 2 3, 2: 3 1 0, 3: 0 1 2")
	require.NoError(t, err)
	K4 := lib2x3.NewBaseGraph()
	require.Equal(t, K4.Rotations(), X.Rotations())

	// Bracketed, out of order
	err = X.InitFromString("3: [0,1,2]\n2: [3,1,0]\n1: [0,2,3]\n0: [2,1,3]\n")
	require.NoError(t, err)
	require.Equal(t, K4.Rotations(), X.Rotations())

	// Round trip through WriteRotations
	K4.GrowAt(2, 1)
	b := strings.Builder{}
	require.NoError(t, K4.WriteRotations(&b))
	require.NoError(t, X.InitFromString(b.String()))
	require.Equal(t, K4.Rotations(), X.Rotations())

	K4.Reclaim()
	X.Reclaim()

	_, err = lib2x3.NewEmbeddingFromString("0: 1 2 3")
	require.Equal(t, go2x3.ErrBadVtxID, errors.Cause(err))

	_, err = lib2x3.NewEmbeddingFromString("0: 2 1 3, 0: 0 2 3, 2: 3 1 0, 3: 0 1 2")
	require.Equal(t, go2x3.ErrBadVtxID, errors.Cause(err))

	_, err = lib2x3.NewEmbeddingFromString("0: 2 1")
	require.Error(t, err)

	_, err = lib2x3.NewEmbeddingFromString("")
	require.Equal(t, go2x3.ErrNilGraph, err)
}

func TestStateEncoding(t *testing.T) {
	X := lib2x3.NewBaseGraph()
	for X.VertexCount() < 200 {
		X.GrowAt(go2x3.VtxID(X.VertexCount()/2), 1)
	}

	enc := X.ExportStateEncoding(nil)
	Y, err := lib2x3.NewEmbeddingFromStateEncoding(enc)
	require.NoError(t, err)
	require.Equal(t, X.Rotations(), Y.Rotations())

	_, err = lib2x3.NewEmbeddingFromStateEncoding(enc[:len(enc)-1])
	require.Equal(t, go2x3.ErrBadEncoding, errors.Cause(err))

	_, err = lib2x3.NewEmbeddingFromStateEncoding(append(enc, 0))
	require.Equal(t, go2x3.ErrBadEncoding, errors.Cause(err))

	Z := Y.MakeCopy()
	require.Equal(t, enc, Z.ExportStateEncoding(nil))

	X.Reclaim()
	Y.Reclaim()
	Z.Reclaim()
}

func TestDropDupes(t *testing.T) {
	dupes := lib2x3.NewDropDupes(lib2x3.DropDupeOpts{PoolSz: 16})

	X := lib2x3.NewBaseGraph()
	require.True(t, dupes.TryAddGraph(X))
	require.False(t, dupes.TryAddGraph(X.MakeCopy()))

	seen := []go2x3.GraphState{X.MakeCopy()}
	for i := 0; i < 10; i++ {
		X.GrowAt(0, i%3)
		require.True(t, dupes.TryAddGraph(X))
		seen = append(seen, X.MakeCopy())
	}
	for _, Xi := range seen {
		require.False(t, dupes.TryAddGraph(Xi))
		Xi.Reclaim()
	}
	X.Reclaim()
}
