package main

import (
	"time"

	"github.com/go-python/gpython/py"
	"github.com/go-python/gpython/repl"
	"github.com/go-python/gpython/repl/cli"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	_ "github.com/2x3systems/planar2x3/py2x3"
	_ "github.com/go-python/gpython/stdlib"
)

// runScript executes a gpython script with the _py2x3 module available, or starts a REPL if pathname is "-".
func runScript(pathname string) error {
	ctx := py.NewContext(py.DefaultContextOpts())

	var err error
	if pathname == "-" {
		replCtx := repl.New(ctx)
		cli.RunREPL(replCtx)
	} else {
		startTime := time.Now()
		klog.Infof("executing %q", pathname)

		_, err = py.RunFile(ctx, pathname, py.CompileOpts{}, nil)
		if err == nil {
			klog.Infof("execution complete: %v", time.Since(startTime))
		}
	}

	ctx.Close()
	<-ctx.Done()

	if err != nil {
		py.TracebackDump(err)
		return errors.Wrapf(err, "running %q", pathname)
	}
	return nil
}
