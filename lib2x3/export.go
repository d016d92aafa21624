package lib2x3

import (
	"bufio"
	"io"
	"strconv"

	"github.com/2x3systems/planar2x3/go2x3"
	"github.com/pkg/errors"
)

// AdjMatrix returns the n x n 0/1 adjacency matrix: row i, column j is 1 iff j appears in rot[i].
func (X *Embedding) AdjMatrix() [][]uint8 {
	Nv := len(X.rot)
	cells := make([]uint8, Nv*Nv)
	rows := make([][]uint8, Nv)
	for i, r := range X.rot {
		rows[i] = cells[i*Nv : (i+1)*Nv]
		for _, j := range r {
			rows[i][j] = 1
		}
	}
	return rows
}

// WriteAsString writes X in the layout selected by opts.Format.
func (X *Embedding) WriteAsString(out io.Writer, opts go2x3.PrintOpts) error {
	switch opts.Format {
	case go2x3.FormatAdjMatrix:
		return X.WriteAdjMatrix(out)
	case go2x3.FormatEdgeList:
		return X.WriteEdgeList(out)
	case go2x3.FormatRotation:
		return X.WriteRotations(out)
	}
	return errors.Wrapf(go2x3.ErrBadFormat, "%v", opts.Format)
}

// WriteAdjMatrix writes one comma separated row per vertex, then a blank line.
func (X *Embedding) WriteAdjMatrix(out io.Writer) error {
	Nv := len(X.rot)
	if Nv == 0 {
		return go2x3.ErrNilGraph
	}
	w := bufio.NewWriter(out)
	row := make([]byte, 2*Nv)
	for _, r := range X.rot {
		for j := 0; j < Nv; j++ {
			row[2*j] = '0'
			row[2*j+1] = ','
		}
		for _, j := range r {
			row[2*j] = '1'
		}
		row[2*Nv-1] = '\n'
		w.Write(row)
	}
	w.WriteByte('\n')
	return w.Flush()
}

// WriteEdgeList writes Nv on the first line, then "3 a b c " per vertex, then a blank line.
func (X *Embedding) WriteEdgeList(out io.Writer) error {
	w := bufio.NewWriter(out)
	var scrap [16]byte
	w.Write(strconv.AppendInt(scrap[:0], int64(len(X.rot)), 10))
	w.WriteByte('\n')
	for _, r := range X.rot {
		w.Write(strconv.AppendInt(scrap[:0], go2x3.EdgesPerVertex, 10))
		w.WriteByte(' ')
		for _, vi := range r {
			w.Write(strconv.AppendInt(scrap[:0], int64(vi), 10))
			w.WriteByte(' ')
		}
		w.WriteByte('\n')
	}
	w.WriteByte('\n')
	return w.Flush()
}

// WriteRotations writes "v: a b c" per vertex, the form read by InitFromString.
func (X *Embedding) WriteRotations(out io.Writer) error {
	w := bufio.NewWriter(out)
	var scrap [16]byte
	for vi, r := range X.rot {
		w.Write(strconv.AppendInt(scrap[:0], int64(vi), 10))
		w.WriteByte(':')
		for _, vj := range r {
			w.WriteByte(' ')
			w.Write(strconv.AppendInt(scrap[:0], int64(vj), 10))
		}
		w.WriteByte('\n')
	}
	return w.Flush()
}
