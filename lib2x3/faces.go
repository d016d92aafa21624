package lib2x3

import (
	"github.com/2x3systems/planar2x3/go2x3"
	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
)

// Face is the cyclic sequence of vertices met walking a face boundary.
type Face []go2x3.VtxID

// NextDart follows the directed edge (u, v) one step around its face: the returned dart is (v, w)
// where w follows u in v's rotation.
func (X *Embedding) NextDart(u, v go2x3.VtxID) (go2x3.VtxID, go2x3.VtxID) {
	i := X.rot[v].IndexOf(u)
	if i < 0 {
		return v, -1
	}
	return v, X.rot[v].Successor(i)
}

// Faces walks every face of the embedding, visiting each directed edge exactly once.
func (X *Embedding) Faces() []Face {
	Nv := len(X.rot)
	seen := make([]bool, Nv*go2x3.EdgesPerVertex)
	dart := func(u, v go2x3.VtxID) int {
		return int(u)*go2x3.EdgesPerVertex + X.rot[u].IndexOf(v)
	}

	var faces []Face
	for ui := 0; ui < Nv; ui++ {
		for col := 0; col < go2x3.EdgesPerVertex; col++ {
			if seen[ui*go2x3.EdgesPerVertex+col] {
				continue
			}
			var face Face
			u, v := go2x3.VtxID(ui), X.rot[ui][col]
			for !seen[dart(u, v)] {
				seen[dart(u, v)] = true
				face = append(face, u)
				u, v = X.NextDart(u, v)
				if v < 0 {
					break
				}
			}
			faces = append(faces, face)
		}
	}
	return faces
}

// FaceSpectrum returns the number of faces of each length, ordered by length.
func (X *Embedding) FaceSpectrum() *redblacktree.Tree {
	spectrum := redblacktree.NewWith(utils.IntComparator)
	for _, face := range X.Faces() {
		count := 0
		if prev, found := spectrum.Get(len(face)); found {
			count = prev.(int)
		}
		spectrum.Put(len(face), count+1)
	}
	return spectrum
}

// EulerCharacteristic returns V - E + F, which is 2 for a connected planar embedding.
func (X *Embedding) EulerCharacteristic() int {
	return X.VertexCount() - X.EdgeCount() + len(X.Faces())
}
