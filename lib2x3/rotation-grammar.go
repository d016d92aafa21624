package lib2x3

import (
	"github.com/2x3systems/planar2x3/go2x3"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// RotationExpr is a rotation system written as "0: 2 1 3, 1: 0 2 3, ..." or "0: [2,1,3]" lines.
type RotationExpr struct {
	Entries []*RotationEntry `parser:"@@*"`
}

type RotationEntry struct {
	Vtx  int64   `parser:"@Int \":\""`
	Nbrs []int64 `parser:"( \"[\" @Int @Int @Int \"]\" | @Int @Int @Int )"`
}

var sRotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `\d+`},
	{Name: "Punct", Pattern: `[:\[\]]`},
	{Name: "separator", Pattern: `[,;\s]+`},
})

var parseRotationExpr = participle.MustBuild[RotationExpr](
	participle.Lexer(sRotationLexer),
)

// InitFromString assigns X from a rotation expression; vertices may be listed in any order but must be
// exactly 0..n-1, and the result must be a valid 3-regular symmetric rotation system.
func (X *Embedding) InitFromString(rotationExpr string) error {
	expr, err := parseRotationExpr.ParseString("", rotationExpr)
	if err != nil {
		return err
	}

	Nv := len(expr.Entries)
	if Nv == 0 {
		return go2x3.ErrNilGraph
	}
	if Nv > go2x3.HardCapacity {
		return errors.Wrapf(go2x3.ErrBadRange, "%d vertices", Nv)
	}

	rots := make([]go2x3.Rotation, Nv)
	listed := make([]bool, Nv)
	for _, entry := range expr.Entries {
		if entry.Vtx >= int64(Nv) {
			return errors.Wrapf(go2x3.ErrBadVtxID, "vertex %d of %d", entry.Vtx, Nv)
		}
		if listed[entry.Vtx] {
			return errors.Wrapf(go2x3.ErrBadVtxID, "vertex %d listed twice", entry.Vtx)
		}
		listed[entry.Vtx] = true
		for j, vj := range entry.Nbrs {
			if vj >= int64(Nv) {
				return errors.Wrapf(go2x3.ErrBadVtxID, "vertex %d lists %d", entry.Vtx, vj)
			}
			rots[entry.Vtx][j] = go2x3.VtxID(vj)
		}
	}

	return X.InitFromRotations(rots)
}

// NewEmbeddingFromString returns a pooled Embedding parsed by InitFromString.
func NewEmbeddingFromString(rotationExpr string) (*Embedding, error) {
	X := NewEmbedding(nil)
	if err := X.InitFromString(rotationExpr); err != nil {
		X.Reclaim()
		return nil, err
	}
	return X, nil
}
