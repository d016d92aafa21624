package go2x3

import (
	"io"

	"github.com/emirpasic/gods/trees/redblacktree"
)

const (

	// EdgesPerVertex is the degree of every vertex in a 2x3 (cubic) graph.
	EdgesPerVertex = 3

	// BaseVertexCount is the vertex count of the seed graph (K4).
	BaseVertexCount = 4

	// DefaultCapacity is the default upper bound on the vertex count a run may reach.
	DefaultCapacity = 512

	// HardCapacity is the largest capacity that can be configured.
	// Catalog keys store the vertex count in 16 bits.
	HardCapacity = 0xFFFE
)

// VtxID is a zero-based index that identifies a vertex in an embedding (0..VertexCount-1).
// IDs are never reused: growth always issues the next two unused IDs.
type VtxID int32

// Rotation is the ordered neighbor list of a vertex.
//
// The order is the planar rotation: consecutive entries are consecutive edges (cyclically) around the vertex.
type Rotation [EdgesPerVertex]VtxID

// Embedding is read-only access to a cubic planar rotation system.
type Embedding interface {

	// VertexCount returns the number of vertices; always even for generated graphs.
	VertexCount() int

	// Rotation returns the neighbors of v in rotation order.
	Rotation(v VtxID) Rotation
}

// GraphState is an Embedding snapshot that travels through a GraphStream.
type GraphState interface {
	Embedding
	TracesProvider

	// WriteAsString writes this graph to out in the format given by opts.
	WriteAsString(out io.Writer, opts PrintOpts) error

	// FaceSpectrum maps each face length (int) to the number of faces of that length (int).
	FaceSpectrum() *redblacktree.Tree

	// ExportStateEncoding appends a compact binary encoding of the rotation system to out.
	ExportStateEncoding(out []byte) []byte

	// Returns a new copy of this instance.
	MakeCopy() GraphState

	// Recycles this GraphState instance into a pool for reuse.
	// Caller asserts that no more references to this instance will persist.
	Reclaim()
}

type TracesProvider interface {
	VertexCount() int
	Traces(numTraces int) Traces
}

// Traces is a sequence of graph "traces" values: Traces[k-1] = tr(A^k) for adjacency matrix A.
type Traces []int64

// TracesLSM is a LSM binary encoding / symbol of a Traces.
type TracesLSM []byte

// ExportFormat selects how a graph is written out.
type ExportFormat int32

const (
	// FormatAdjMatrix writes an n x n comma separated 0/1 matrix followed by a blank line.
	FormatAdjMatrix ExportFormat = iota

	// FormatEdgeList writes n, then one "3 a b c " line per vertex, then a blank line.
	FormatEdgeList

	// FormatRotation writes one "v: a b c" line per vertex (readable by InitFromString).
	FormatRotation
)

var formatNames = map[ExportFormat]string{
	FormatAdjMatrix: "adj",
	FormatEdgeList:  "edges",
	FormatRotation:  "rotation",
}

// PrintOpts specifies what is printed when printing a graph
type PrintOpts struct {
	Label     string       // Prefix label
	Format    ExportFormat // Output layout
	NumTraces int          // Num of Traces to print after the header line (0 denotes no traces)
	Header    bool         // If set, a "label,count,Nv" header line precedes the graph body
	Faces     bool         // If set, the header ends with the face spectrum (see FormatFaceSpectrum)
}

// DefaultPrintOpts{}
var DefaultPrintOpts = PrintOpts{
	Format: FormatAdjMatrix,
	Header: true,
}

// GenOpts specifies a generation run.
type GenOpts struct {
	MinVertices int   // inclusive lower bound of emitted vertex counts
	MaxVertices int   // inclusive upper bound of emitted vertex counts
	Capacity    int   // upper bound MaxVertices may not exceed (0 denotes DefaultCapacity)
	Seed        int64 // PRNG seed, applied once per run (0 denotes a clock-derived seed)
	Instances   int   // number of independent growths from K4, each emitting the full range (0 denotes 1)
}

// OnGraphHit is a callback proc used to return Graph's meeting a set of selection criteria.
// Ownership of a Graph also travels through the channel.
type OnGraphHit chan<- GraphState

// CatalogContext is a container for open / active Catalog instances.
type CatalogContext interface {

	// Attaches the given Catalog to this context.
	AttachCatalog(cat Catalog)

	// Detaches the given Catalog from this context.
	DetachCatalog(cat Catalog)

	// Closes all open catalogs to be closed then closes.
	Close()

	// Signals when Close() completed and all open Catalogs have been closed
	Done() <-chan struct{}
}

// CatalogOpts specifies params for opening a Catalog
type CatalogOpts struct {
	DbPathName string // omit for in-memory db
	ReadOnly   bool   // open in read-only mode
	TraceCount int32  // number of traces used to key each graph (0 denotes DefaultTraceCount)
}

// DefaultTraceCount is the number of traces used to key catalog entries.
const DefaultTraceCount = 8

type GraphAdder interface {

	// Tries to add the given graph to this catalog.
	// If true is returned, X did not exist and was added.
	TryAddGraph(X GraphState) bool
}

// Catalog wraps a database of generated cubic planar embeddings.
type Catalog interface {
	GraphAdder

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	// NumGraphs returns the number of stored embeddings for a given vertex count.
	NumGraphs(forVtxCount int) int64

	// NumTraces returns the number of distinct Traces stored for a given vertex count.
	NumTraces(forVtxCount int) int64

	// Select fires the given callback with each stored graph that meets the selection criteria.
	Select(sel GraphSelector, onHit OnGraphHit)

	Close() error
}

// GraphSelector is an operator that either selects a given Graph or not.
type GraphSelector struct {
	MinVertices  int  // lower select bound (inclusive)
	MaxVertices  int  // upper select bound (inclusive)
	UniqueTraces bool // Only select the first Graph for each unique traces
}
