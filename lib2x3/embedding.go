package lib2x3

import (
	"encoding/binary"
	"sync"

	"github.com/2x3systems/planar2x3/go2x3"
	"github.com/pkg/errors"
)

// Embedding is a cubic planar rotation system: vertex v's neighbors, in rotation order, are rot[v].
//
// Vertices are indices into rot, which grows by two entries per growth step.
type Embedding struct {
	rot    []go2x3.Rotation
	traces go2x3.Traces // cached; reset on any mutation
}

var graphPool = sync.Pool{
	New: func() interface{} {
		return &Embedding{}
	},
}

// NewEmbedding returns a pooled Embedding assigned from Xsrc (or empty if Xsrc is nil).
func NewEmbedding(Xsrc *Embedding) *Embedding {
	X := graphPool.Get().(*Embedding)
	X.Init(Xsrc)
	return X
}

// NewBaseGraph returns a new Embedding holding the K4 seed graph.
func NewBaseGraph() *Embedding {
	X := NewEmbedding(nil)
	X.InitBaseGraph()
	return X
}

// k4 is a planar rotation system for the tetrahedron: every face closes after 3 steps.
var k4 = [go2x3.BaseVertexCount]go2x3.Rotation{
	{2, 1, 3},
	{0, 2, 3},
	{3, 1, 0},
	{0, 1, 2},
}

// InitBaseGraph resets X to K4.
func (X *Embedding) InitBaseGraph() {
	X.rot = append(X.rot[:0], k4[:]...)
	X.traces = X.traces[:0]
}

// Init assigns X from Xsrc, reusing X's allocations.
func (X *Embedding) Init(Xsrc *Embedding) {
	X.traces = X.traces[:0]
	if Xsrc == nil {
		X.rot = X.rot[:0]
		return
	}
	X.rot = append(X.rot[:0], Xsrc.rot...)
	X.traces = append(X.traces, Xsrc.traces...)
}

// InitFromRotations assigns X from the given rotation lists and validates the result.
func (X *Embedding) InitFromRotations(rots []go2x3.Rotation) error {
	X.rot = append(X.rot[:0], rots...)
	X.traces = X.traces[:0]
	return X.Validate()
}

func (X *Embedding) VertexCount() int {
	return len(X.rot)
}

// EdgeCount returns the number of undirected edges (3n/2).
func (X *Embedding) EdgeCount() int {
	return go2x3.EdgesPerVertex * len(X.rot) / 2
}

func (X *Embedding) Rotation(v go2x3.VtxID) go2x3.Rotation {
	return X.rot[v]
}

// Rotations returns the underlying rotation lists; callers must not modify them.
func (X *Embedding) Rotations() []go2x3.Rotation {
	return X.rot
}

// HasEdge returns true if v appears in u's rotation.
func (X *Embedding) HasEdge(u, v go2x3.VtxID) bool {
	return X.rot[u].IndexOf(v) >= 0
}

func (X *Embedding) MakeCopy() go2x3.GraphState {
	return NewEmbedding(X)
}

func (X *Embedding) Reclaim() {
	if X != nil {
		X.rot = X.rot[:0]
		X.traces = X.traces[:0]
		graphPool.Put(X)
	}
}

// ExportStateEncoding appends Nv (uvarint) followed by every rotation entry (uvarint) to out.
func (X *Embedding) ExportStateEncoding(out []byte) []byte {
	var scrap [binary.MaxVarintLen64]byte

	n := binary.PutUvarint(scrap[:], uint64(len(X.rot)))
	out = append(out, scrap[:n]...)
	for _, r := range X.rot {
		for _, vi := range r {
			n = binary.PutUvarint(scrap[:], uint64(vi))
			out = append(out, scrap[:n]...)
		}
	}
	return out
}

// InitFromStateEncoding assigns X from an encoding made by ExportStateEncoding.
func (X *Embedding) InitFromStateEncoding(enc []byte) error {
	Nv, n := binary.Uvarint(enc)
	if n <= 0 || Nv > go2x3.HardCapacity {
		return go2x3.ErrBadEncoding
	}
	enc = enc[n:]

	rots := make([]go2x3.Rotation, Nv)
	for vi := range rots {
		for j := 0; j < go2x3.EdgesPerVertex; j++ {
			vj, n := binary.Uvarint(enc)
			if n <= 0 {
				return errors.Wrapf(go2x3.ErrBadEncoding, "truncated at vertex %d", vi)
			}
			rots[vi][j] = go2x3.VtxID(vj)
			enc = enc[n:]
		}
	}
	if len(enc) != 0 {
		return errors.Wrap(go2x3.ErrBadEncoding, "trailing bytes")
	}
	return X.InitFromRotations(rots)
}

// NewEmbeddingFromStateEncoding returns a pooled Embedding decoded from enc.
func NewEmbeddingFromStateEncoding(enc []byte) (*Embedding, error) {
	X := NewEmbedding(nil)
	if err := X.InitFromStateEncoding(enc); err != nil {
		X.Reclaim()
		return nil, err
	}
	return X, nil
}

// Validate checks that X is a simple 3-regular graph with a symmetric rotation system.
func (X *Embedding) Validate() error {
	Nv := len(X.rot)
	if Nv == 0 {
		return go2x3.ErrNilGraph
	}
	for ui, r := range X.rot {
		u := go2x3.VtxID(ui)
		for j, v := range r {
			if v < 0 || int(v) >= Nv {
				return errors.Wrapf(go2x3.ErrBadVtxID, "vertex %d lists %d", u, v)
			}
			if v == u {
				return errors.Wrapf(go2x3.ErrViolates3Regular, "vertex %d has a self loop", u)
			}
			for k := 0; k < j; k++ {
				if r[k] == v {
					return errors.Wrapf(go2x3.ErrViolates3Regular, "vertex %d lists %d twice", u, v)
				}
			}
		}
	}
	for ui, r := range X.rot {
		for _, v := range r {
			if X.rot[v].IndexOf(go2x3.VtxID(ui)) < 0 {
				return errors.Wrapf(go2x3.ErrBrokenSymmetry, "%d lists %d but not vice versa", ui, v)
			}
		}
	}
	return nil
}
