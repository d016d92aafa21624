package main

import (
	"io"
	"time"

	"github.com/2x3systems/planar2x3/go2x3"
	"github.com/2x3systems/planar2x3/lib2x3"
	"github.com/2x3systems/planar2x3/lib2x3/catalog"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// generate runs one generation pass and returns the number of graphs written.
//
// stdout receives the printed graphs when cfg.Output.Print is set; it is never closed.
func generate(cfg runConfig, stdout io.Writer) (int, error) {
	printOpts, err := cfg.printOpts()
	if err != nil {
		return 0, err
	}

	gen, err := lib2x3.NewGenerator(cfg.genOpts())
	if err != nil {
		return 0, err
	}
	opts := gen.Opts()
	klog.Infof("generating %d graphs (%d..%d vertices x%d, seed %d)", opts.NumEmitted(), opts.FirstEmitted(), opts.MaxVertices, opts.Instances, gen.Seed())

	startTime := time.Now()
	stream := gen.Stream()
	head := stream

	if cfg.Catalog.DropDupes {
		head = head.AddTo(lib2x3.NewDropDupes(lib2x3.DropDupeOpts{}))
	}

	var cat go2x3.Catalog
	if cfg.Catalog.Path != "" {
		ctx := go2x3.NewCatalogContext()
		defer func() {
			ctx.Close()
			<-ctx.Done()
		}()

		cat, err = catalog.OpenCatalog(ctx, go2x3.CatalogOpts{
			DbPathName: cfg.Catalog.Path,
			TraceCount: cfg.Catalog.TraceCount,
		})
		if err != nil {
			head.PullAll()
			return 0, err
		}
		defer cat.Close()

		// A graph already in the catalog still gets written; the catalog only records.
		head = head.AddTo(recordTo{cat})
	}

	head = head.WriteInstances(cfg.Output.Dir, printOpts)

	if cfg.Output.Print {
		head = head.Print(nopCloser{stdout}, printOpts)
	}

	count := head.PullAll()
	if err = stream.Err(); err != nil {
		return count, errors.Wrap(err, "generation failed")
	}

	klog.Infof("wrote %s instances to %s in %v", humanize.Comma(int64(count)), cfg.Output.Dir, time.Since(startTime).Round(time.Millisecond))
	if cat != nil {
		for Nv := opts.FirstEmitted(); Nv <= opts.MaxVertices; Nv += 2 {
			klog.V(2).Infof("catalog %s: %d graphs, %d traces at %d vertices", cfg.Catalog.Path, cat.NumGraphs(Nv), cat.NumTraces(Nv), Nv)
		}
	}
	return count, nil
}

// nopCloser keeps the Print stage from closing the process's stdout.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// recordTo adds each graph to a catalog but always passes it downstream.
type recordTo struct {
	cat go2x3.Catalog
}

func (r recordTo) TryAddGraph(X go2x3.GraphState) bool {
	r.cat.TryAddGraph(X)
	return true
}
