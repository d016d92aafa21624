package lib2x3

import (
	"math"

	"github.com/2x3systems/planar2x3/go2x3"
)

// MaxTraces bounds numTraces so that tr(A^k), a sum of at most Nv*3^k closed walks, fits in an int64
// for any Nv <= go2x3.HardCapacity.
const MaxTraces = 29

// TraceLimit returns the largest k <= MaxTraces where Nv*3^k fits in an int64.
func TraceLimit(Nv int) int {
	if Nv <= 1 {
		return MaxTraces
	}
	bound := int64(math.MaxInt64) / int64(Nv)
	k, pow := 0, int64(1)
	for k < MaxTraces && pow <= bound/3 {
		pow *= 3
		k++
	}
	return k
}

// Traces returns tr(A^k) for k = 1..numTraces, where A is the adjacency matrix of X.
// tr(A^k) counts the closed walks of length k, so it is independent of vertex labelling.
//
// numTraces <= 0 denotes Nv traces.
func (X *Embedding) Traces(numTraces int) go2x3.Traces {
	Nv := len(X.rot)
	if numTraces <= 0 {
		numTraces = Nv
	}
	if limit := TraceLimit(Nv); numTraces > limit {
		numTraces = limit
	}
	if len(X.traces) >= numTraces {
		return X.traces[:numTraces]
	}

	X.traces.SetLen(numTraces)
	for k := range X.traces {
		X.traces[k] = 0
	}

	// For each start vertex, walk[x] is the number of walks from the start ending at x.
	walk := make([]int64, Nv)
	next := make([]int64, Nv)
	for start := 0; start < Nv; start++ {
		for x := range walk {
			walk[x] = 0
		}
		walk[start] = 1
		for k := 0; k < numTraces; k++ {
			for x, r := range X.rot {
				next[x] = walk[r[0]] + walk[r[1]] + walk[r[2]]
			}
			walk, next = next, walk
			X.traces[k] += walk[start]
		}
	}

	return X.traces
}
