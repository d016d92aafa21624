package main

import (
	"path/filepath"

	"github.com/2x3systems/planar2x3/go2x3"
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// runConfig is everything one invocation needs, merged from defaults, the TOML file and flags.
type runConfig struct {
	Generate generateConfig
	Output   outputConfig
	Catalog  catalogConfig
}

type generateConfig struct {
	Min       int
	Max       int
	Capacity  int
	Seed      int64
	Instances int
}

type outputConfig struct {
	Label  string
	Dir    string
	Format string
	Print  bool
	Traces int
	Faces  bool
}

type catalogConfig struct {
	Path       string
	TraceCount int32
	DropDupes  bool
}

func defaultRunConfig() runConfig {
	return runConfig{
		Generate: generateConfig{
			Min:      0,
			Max:      10,
			Capacity: go2x3.DefaultCapacity,
		},
		Output: outputConfig{
			Label:  "out",
			Dir:    ".",
			Format: "adj",
		},
	}
}

// loadConfig decodes a TOML run file over cfg.
//
// Relative paths in the file are taken relative to the file's own directory.
func loadConfig(filename string, cfg *runConfig) error {
	md, err := toml.DecodeFile(filename, cfg)
	if err != nil {
		return errors.Wrapf(err, "could not decode TOML config %q", filename)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.Errorf("unknown key %q in %q", undecoded[0].String(), filename)
	}

	configDir := filepath.Dir(filename)
	if cfg.Output.Dir != "" && !filepath.IsAbs(cfg.Output.Dir) {
		cfg.Output.Dir = filepath.Join(configDir, cfg.Output.Dir)
	}
	if cfg.Catalog.Path != "" && !filepath.IsAbs(cfg.Catalog.Path) {
		cfg.Catalog.Path = filepath.Join(configDir, cfg.Catalog.Path)
	}
	return nil
}

func (cfg *runConfig) genOpts() go2x3.GenOpts {
	return go2x3.GenOpts{
		MinVertices: cfg.Generate.Min,
		MaxVertices: cfg.Generate.Max,
		Capacity:    cfg.Generate.Capacity,
		Seed:        cfg.Generate.Seed,
		Instances:   cfg.Generate.Instances,
	}
}

func (cfg *runConfig) printOpts() (go2x3.PrintOpts, error) {
	format, err := go2x3.ParseExportFormat(cfg.Output.Format)
	if err != nil {
		return go2x3.PrintOpts{}, err
	}
	opts := go2x3.DefaultPrintOpts
	opts.Label = cfg.Output.Label
	opts.Format = format
	opts.NumTraces = cfg.Output.Traces
	opts.Faces = cfg.Output.Faces
	return opts, nil
}
