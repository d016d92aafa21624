package go2x3

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// GraphStream is a stage in a pipeline of graphs.
// Each stage owns a goroutine that closes its Outlet once its inlet is drained.
type GraphStream struct {
	Outlet chan GraphState
	fault  *streamFault
}

// streamFault holds the first error raised by any stage of a pipeline.
type streamFault struct {
	mu  sync.Mutex
	err error
}

func (f *streamFault) set(err error) {
	f.mu.Lock()
	if f.err == nil {
		f.err = err
	}
	f.mu.Unlock()
}

func (f *streamFault) get() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func NewGraphStream() *GraphStream {
	stream := &GraphStream{
		Outlet: make(chan GraphState),
		fault:  &streamFault{},
	}
	return stream
}

// next returns a new downstream stage sharing this stream's fault.
func (stream *GraphStream) next() *GraphStream {
	return &GraphStream{
		Outlet: make(chan GraphState, 1),
		fault:  stream.fault,
	}
}

// StreamGraph returns a stream that emits a copy of X and then closes.
func StreamGraph(X GraphState) *GraphStream {
	next := NewGraphStream()

	go func() {
		next.Outlet <- X.MakeCopy()
		next.Close()
	}()

	return next
}

func (stream *GraphStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

// Fail records err as this pipeline's error (only the first error is kept).
func (stream *GraphStream) Fail(err error) {
	klog.Error(err)
	stream.fault.set(err)
}

// Err returns the first error raised by any stage of this pipeline.
// It is only meaningful once the Outlet has been drained.
func (stream *GraphStream) Err() error {
	return stream.fault.get()
}

func (stream *GraphStream) PushGraph(X GraphState) {
	stream.Outlet <- X.MakeCopy()
}

func (stream *GraphStream) PullGraph() GraphState {
	X := <-stream.Outlet
	return X
}

// PullAll drains this stream, reclaiming each graph, and returns the count drained.
func (stream *GraphStream) PullAll() int {
	count := int(0)
	for X := range stream.Outlet {
		count++
		X.Reclaim()
	}
	return count
}

func (stream *GraphStream) Print(
	out io.WriteCloser,
	opts PrintOpts) *GraphStream {

	next := stream.next()

	go func() {
		buf := strings.Builder{}
		buf.Grow(256)

		count := 0
		for X := range stream.Outlet {
			count++
			if opts.Header {
				buf.WriteString(opts.Label)
				fmt.Fprintf(&buf, ",%06d,%d", count, X.VertexCount())
				if opts.NumTraces > 0 {
					buf.WriteByte(',')
					buf.WriteString(X.Traces(opts.NumTraces).String())
				}
				if opts.Faces {
					buf.WriteByte(',')
					buf.WriteString(FormatFaceSpectrum(X.FaceSpectrum()))
				}
				buf.WriteByte('\n')
			}
			if err := X.WriteAsString(&buf, opts); err != nil {
				stream.Fail(err)
			}
			if _, err := io.WriteString(out, buf.String()); err != nil {
				stream.Fail(errors.Wrap(err, "print"))
			}
			buf.Reset()
			next.Outlet <- X
		}
		out.Close()
		next.Close()
	}()

	return next
}

// WriteInstances writes each graph to its own file in outDir, named by IndexedInstanceFilename.
// The first graph of each vertex count gets the plain InstanceFilename.
func (stream *GraphStream) WriteInstances(outDir string, opts PrintOpts) *GraphStream {
	next := stream.next()

	go func() {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			stream.Fail(errors.Wrapf(err, "creating %q", outDir))
		}

		total := uint64(0)
		perSize := make(map[int]int)
		for X := range stream.Outlet {
			Nv := X.VertexCount()
			pathname := filepath.Join(outDir, IndexedInstanceFilename(Nv, perSize[Nv]))
			perSize[Nv]++
			n, err := writeInstance(pathname, X, opts)
			if err != nil {
				stream.Fail(err)
			} else {
				total += uint64(n)
				klog.V(2).Infof("wrote %s (%s)", pathname, humanize.Bytes(uint64(n)))
			}
			next.Outlet <- X
		}
		klog.V(1).Infof("instances written to %s: %s total", outDir, humanize.Bytes(total))
		next.Close()
	}()

	return next
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

func writeInstance(pathname string, X GraphState, opts PrintOpts) (int64, error) {
	file, err := os.OpenFile(pathname, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, errors.Wrapf(err, "creating %q", pathname)
	}
	cw := &countingWriter{w: file}
	bw := bufio.NewWriter(cw)
	err = X.WriteAsString(bw, opts)
	if err == nil {
		err = bw.Flush()
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return cw.n, errors.Wrapf(err, "writing %q", pathname)
	}
	return cw.n, nil
}

func (stream *GraphStream) AddTo(target GraphAdder) *GraphStream {
	next := stream.next()

	go func() {
		for X := range stream.Outlet {
			wasAdded := target.TryAddGraph(X)
			if wasAdded {
				next.Outlet <- X
			} else {
				X.Reclaim()
			}
		}
		next.Close()
	}()

	return next
}

func (stream *GraphStream) SelectFromStream(sel GraphSelector) *GraphStream {
	next := stream.next()

	go func() {
		for X := range stream.Outlet {
			if sel.SelectsGraph(X) {
				next.Outlet <- X
			} else {
				X.Reclaim()
			}
		}
		next.Close()
	}()

	return next
}

// SelectFromCatalog streams the graphs in cat that meet sel.
func SelectFromCatalog(cat Catalog, sel GraphSelector) *GraphStream {
	next := NewGraphStream()
	next.Outlet = make(chan GraphState, 1)

	onHit := make(chan GraphState, 4)

	go func() {
		cat.Select(sel, onHit)
		close(onHit)
	}()

	go func() {
		for X := range onHit {
			if sel.SelectsGraph(X) {
				next.Outlet <- X
			} else {
				X.Reclaim()
			}
		}
		next.Close()
	}()

	return next
}
