package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

const usage = `usage: planar2x3 [flags] [min_nodes max_nodes]

Grows a random cubic planar graph from K4 and writes one size<N>_instance.csv
per even vertex count N in [min_nodes, max_nodes] (default 0 10).
With -instances K, K graphs are grown per run and repeats of a size are
written to size<N>_instance_<i>.csv.

flags:
`

func main() {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "1")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	err := runMain(fset, os.Args[1:], os.Stdout)
	if err == flag.ErrHelp {
		err = nil
	}
	if err != nil {
		klog.Error(err)
	}
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}

type cmdFlags struct {
	config    string
	script    string
	seed      int64
	capacity  int
	out       string
	format    string
	catalog   string
	traces    int
	faces     bool
	print     bool
	dedupe    bool
	instances int
}

func (f *cmdFlags) register(fset *flag.FlagSet) {
	fset.StringVar(&f.config, "config", "", "TOML run file; flags given on the command line override it")
	fset.StringVar(&f.script, "script", "", "gpython script to run instead of generating (\"-\" for a REPL)")
	fset.Int64Var(&f.seed, "seed", 0, "PRNG seed (0 seeds from the clock)")
	fset.IntVar(&f.capacity, "capacity", 0, "max vertex capacity")
	fset.StringVar(&f.out, "out", "", "directory receiving size<N>_instance.csv files")
	fset.StringVar(&f.format, "format", "", "instance layout: adj, edges or rotation")
	fset.StringVar(&f.catalog, "catalog", "", "badger catalog directory to record graphs in")
	fset.IntVar(&f.traces, "traces", 0, "number of traces printed in each -print header")
	fset.BoolVar(&f.faces, "faces", false, "end each -print header with the face spectrum (len:count;...)")
	fset.BoolVar(&f.print, "print", false, "also print each graph to stdout")
	fset.BoolVar(&f.dedupe, "dedupe", false, "drop graphs whose rotation system was already seen")
	fset.IntVar(&f.instances, "instances", 1, "number of independent growths from K4")
}

// apply overrides cfg with each flag that was given on the command line.
func (f *cmdFlags) apply(fset *flag.FlagSet, cfg *runConfig) {
	fset.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "seed":
			cfg.Generate.Seed = f.seed
		case "capacity":
			cfg.Generate.Capacity = f.capacity
		case "out":
			cfg.Output.Dir = f.out
		case "format":
			cfg.Output.Format = f.format
		case "catalog":
			cfg.Catalog.Path = f.catalog
		case "traces":
			cfg.Output.Traces = f.traces
		case "faces":
			cfg.Output.Faces = f.faces
		case "instances":
			cfg.Generate.Instances = f.instances
		case "print":
			cfg.Output.Print = f.print
		case "dedupe":
			cfg.Catalog.DropDupes = f.dedupe
		}
	})
}

func runMain(fset *flag.FlagSet, args []string, stdout io.Writer) error {
	var f cmdFlags
	f.register(fset)
	fset.Usage = func() {
		fmt.Fprint(fset.Output(), usage)
		fset.PrintDefaults()
	}
	if err := fset.Parse(args); err != nil {
		return err
	}

	if f.script != "" {
		return runScript(f.script)
	}

	cfg := defaultRunConfig()
	if f.config != "" {
		if err := loadConfig(f.config, &cfg); err != nil {
			return err
		}
	}
	f.apply(fset, &cfg)

	switch fset.NArg() {
	case 0:
	case 2:
		var err error
		if cfg.Generate.Min, err = strconv.Atoi(fset.Arg(0)); err != nil {
			return errors.Wrapf(err, "bad min_nodes %q", fset.Arg(0))
		}
		if cfg.Generate.Max, err = strconv.Atoi(fset.Arg(1)); err != nil {
			return errors.Wrapf(err, "bad max_nodes %q", fset.Arg(1))
		}
	default:
		fset.Usage()
		return errors.New("expected exactly two positional arguments: min_nodes max_nodes")
	}

	_, err := generate(cfg, stdout)
	return err
}
