package lib2x3

import (
	"math/rand"
	"time"

	"github.com/2x3systems/planar2x3/go2x3"
	"github.com/dustin/go-humanize"
	"github.com/plan-systems/klog"
)

// Generator grows one cubic planar embedding from K4 through a range of vertex counts.
//
// A Generator owns its Embedding and PRNG and is not safe for concurrent use.
type Generator struct {
	opts  go2x3.GenOpts
	seed  int64
	rng   *rand.Rand
	X     *Embedding
	steps int
}

// NewGenerator validates opts and returns a Generator holding K4.
// Bad bounds are reported here, before any growth happens.
func NewGenerator(opts go2x3.GenOpts) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gen := &Generator{
		opts: opts,
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
		X:    NewBaseGraph(),
	}
	return gen, nil
}

// Seed returns the seed the PRNG was initialized with.
func (gen *Generator) Seed() int64 {
	return gen.seed
}

// Opts returns the validated options of this run.
func (gen *Generator) Opts() go2x3.GenOpts {
	return gen.opts
}

// Embedding returns the embedding being grown.
func (gen *Generator) Embedding() *Embedding {
	return gen.X
}

// Step applies one growth step.
func (gen *Generator) Step() GrowStep {
	step := gen.X.Grow(gen.rng)
	gen.steps++
	klog.V(3).Infof("step %d: split %d-%d-%d with %d, %d", gen.steps, step.U, step.V, step.NextU, step.NewA, step.NewB)
	return step
}

// Run grows the embedding up through opts.MaxVertices, calling onSnapshot once for each
// vertex count in range, before the next growth step mutates the embedding.
// With opts.Instances > 1, the embedding is reset to K4 after each pass and grown again with fresh draws.
//
// onSnapshot must copy X (MakeCopy) if it retains it. A non-nil error from onSnapshot stops the run.
func (gen *Generator) Run(onSnapshot func(X *Embedding) error) error {
	klog.V(1).Infof("generating %d..%d vertices x%d (seed %d)", gen.opts.MinVertices, gen.opts.MaxVertices, gen.opts.Instances, gen.seed)

	// An empty range emits nothing and must not grow past MaxVertices.
	if gen.opts.NumPerInstance() == 0 {
		klog.V(1).Infof("no even vertex count in %d..%d", gen.opts.MinVertices, gen.opts.MaxVertices)
		return nil
	}

	emitted := 0
	for inst := 0; inst < gen.opts.Instances; inst++ {
		if inst > 0 {
			gen.X.InitBaseGraph()
		}

		for gen.X.VertexCount() < gen.opts.MinVertices {
			gen.Step()
		}

		for gen.X.VertexCount() <= gen.opts.MaxVertices {
			if err := onSnapshot(gen.X); err != nil {
				return err
			}
			emitted++
			if gen.X.VertexCount()+2 > gen.opts.MaxVertices {
				break
			}
			gen.Step()
		}
	}

	klog.V(1).Infof("emitted %d graphs, %s edges at %d vertices",
		emitted, humanize.Comma(int64(gen.X.EdgeCount())), gen.X.VertexCount())
	return nil
}

// Stream runs the generator on its own goroutine, pushing a copy of each snapshot into the returned stream.
func (gen *Generator) Stream() *go2x3.GraphStream {
	stream := go2x3.NewGraphStream()

	go func() {
		err := gen.Run(func(X *Embedding) error {
			stream.PushGraph(X)
			return nil
		})
		if err != nil {
			stream.Fail(err)
		}
		stream.Close()
	}()

	return stream
}

// Primary entry point for cubic planar graph generation.
func EnumCubicPlanar(opts go2x3.GenOpts) (*go2x3.GraphStream, error) {
	gen, err := NewGenerator(opts)
	if err != nil {
		return nil, err
	}
	return gen.Stream(), nil
}
