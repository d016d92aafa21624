package go2x3

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/pkg/errors"
)

// Validate checks opts before any generation work begins, filling in defaults.
//
// A capacity violation is reported as ErrCapacityExceeded; any other bad bound as ErrBadRange.
func (opts *GenOpts) Validate() error {
	if opts.Capacity == 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.Instances == 0 {
		opts.Instances = 1
	}
	if opts.Instances < 0 {
		return errors.Wrapf(ErrBadRange, "instance count must be positive, got %d", opts.Instances)
	}
	if opts.Capacity < BaseVertexCount || opts.Capacity > HardCapacity {
		return errors.Wrapf(ErrBadRange, "capacity must be in [%d, %d], got %d", BaseVertexCount, HardCapacity, opts.Capacity)
	}
	if opts.MinVertices < 0 || opts.MaxVertices < 0 {
		return errors.Wrapf(ErrBadRange, "negative bound (min %d, max %d)", opts.MinVertices, opts.MaxVertices)
	}
	if opts.MaxVertices > opts.Capacity {
		return errors.Wrapf(ErrCapacityExceeded, "max %d > capacity %d", opts.MaxVertices, opts.Capacity)
	}
	if opts.MaxVertices < BaseVertexCount {
		return errors.Wrapf(ErrBadRange, "max %d is below the base graph size %d", opts.MaxVertices, BaseVertexCount)
	}
	if opts.MinVertices > opts.MaxVertices {
		return errors.Wrapf(ErrBadRange, "min %d > max %d", opts.MinVertices, opts.MaxVertices)
	}
	return nil
}

// FirstEmitted returns the smallest vertex count a run with these opts emits.
func (opts *GenOpts) FirstEmitted() int {
	Nv := BaseVertexCount
	for Nv < opts.MinVertices {
		Nv += 2
	}
	return Nv
}

// NumPerInstance returns how many graphs one growth from K4 emits.
func (opts *GenOpts) NumPerInstance() int {
	first := opts.FirstEmitted()
	if first > opts.MaxVertices {
		return 0
	}
	return (opts.MaxVertices-first)/2 + 1
}

// NumEmitted returns how many graphs a run with these opts emits.
func (opts *GenOpts) NumEmitted() int {
	n := opts.NumPerInstance()
	if opts.Instances > 1 {
		n *= opts.Instances
	}
	return n
}

// InstanceFilename returns the reference file name for a graph of Nv vertices.
func InstanceFilename(Nv int) string {
	return "size" + strconv.Itoa(Nv) + "_instance.csv"
}

// IndexedInstanceFilename returns the file name of the i-th graph of Nv vertices written by one stream.
// Index 0 maps to InstanceFilename(Nv).
func IndexedInstanceFilename(Nv, i int) string {
	if i == 0 {
		return InstanceFilename(Nv)
	}
	return "size" + strconv.Itoa(Nv) + "_instance_" + strconv.Itoa(i) + ".csv"
}

// FormatFaceSpectrum renders a face spectrum as "len:count" pairs in ascending length, separated by ';'.
func FormatFaceSpectrum(spectrum *redblacktree.Tree) string {
	var b strings.Builder
	it := spectrum.Iterator()
	for it.Next() {
		if b.Len() > 0 {
			b.WriteByte(';')
		}
		fmt.Fprintf(&b, "%d:%d", it.Key(), it.Value())
	}
	return b.String()
}

func (f ExportFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "ExportFormat(" + strconv.Itoa(int(f)) + ")"
}

// ParseExportFormat maps "adj", "edges" or "rotation" to an ExportFormat.
func ParseExportFormat(name string) (ExportFormat, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, fname := range formatNames {
		if fname == name {
			return f, nil
		}
	}
	return FormatAdjMatrix, errors.Wrapf(ErrBadFormat, "%q", name)
}

// IsEqual returns if two traces have the same prefix.
// The number of elements compared is the trace with the shorter length, so a Traces of length 0 will be equal to all other Traces.
func (TX Traces) IsEqual(target Traces) bool {
	N := len(TX)
	if len(target) < N {
		N = len(target)
	}
	for i := 0; i < N; i++ {
		if TX[i] != target[i] {
			return false
		}
	}
	return true
}

func (TX Traces) String() string {
	var b strings.Builder
	for i, Ti := range TX {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%d", Ti)
	}
	return b.String()
}

// DefaultGraphSelector selects all graphs up to HardCapacity.
var DefaultGraphSelector = GraphSelector{
	MinVertices: BaseVertexCount,
	MaxVertices: HardCapacity,
}

// SelectsGraph is a convenience function used to see if a Graph is selected according to a GraphSelector.
func (sel *GraphSelector) SelectsGraph(X Embedding) bool {
	Nv := X.VertexCount()
	return Nv >= sel.MinVertices && Nv <= sel.MaxVertices
}

func NewCatalogContext() CatalogContext {
	ctx := &catalogContext{
		openCatalogs: make(map[Catalog]struct{}),
		closing:      make(chan struct{}),
		closed:       make(chan struct{}),
	}
	ctx.openCount.Add(1)
	go func() {
		<-ctx.closing
		ctx.openCount.Done()
		ctx.openCount.Wait()
		close(ctx.closed)
	}()
	return ctx
}

type catalogContext struct {
	mu           sync.Mutex
	openCount    sync.WaitGroup
	openCatalogs map[Catalog]struct{}
	closing      chan struct{}
	closed       chan struct{}
	closeOnce    sync.Once
}

func (ctx *catalogContext) AttachCatalog(cat Catalog) {
	ctx.mu.Lock()
	if _, exists := ctx.openCatalogs[cat]; !exists {
		ctx.openCatalogs[cat] = struct{}{}
		ctx.openCount.Add(1)
	}
	ctx.mu.Unlock()
}

func (ctx *catalogContext) DetachCatalog(cat Catalog) {
	ctx.mu.Lock()
	if _, exists := ctx.openCatalogs[cat]; exists {
		delete(ctx.openCatalogs, cat)
		ctx.openCount.Done()
	}
	ctx.mu.Unlock()
}

func (ctx *catalogContext) Done() <-chan struct{} {
	return ctx.closed
}

func (ctx *catalogContext) Close() {
	ctx.closeOnce.Do(func() {
		close(ctx.closing)
		ctx.mu.Lock()
		open := make([]Catalog, 0, len(ctx.openCatalogs))
		for cat := range ctx.openCatalogs {
			open = append(open, cat)
		}
		ctx.mu.Unlock()

		// Catalog.Close() detaches itself, which needs ctx.mu
		for _, cat := range open {
			go cat.Close()
		}
	})
}

// IndexOf returns the slot holding v, or -1 if v is not a neighbor.
func (r Rotation) IndexOf(v VtxID) int {
	for i, ri := range r {
		if ri == v {
			return i
		}
	}
	return -1
}

// Count returns the number of slots holding v.
func (r Rotation) Count(v VtxID) int {
	count := 0
	for _, ri := range r {
		if ri == v {
			count++
		}
	}
	return count
}

// Successor returns the neighbor following slot i in rotation order.
func (r Rotation) Successor(i int) VtxID {
	return r[(i+1)%EdgesPerVertex]
}
