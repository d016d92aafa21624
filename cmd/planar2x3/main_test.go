package main

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2x3systems/planar2x3/go2x3"
	"github.com/stretchr/testify/require"
)

type bufCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufCloser) Close() error {
	b.closed = true
	return nil
}

func run(t *testing.T, args ...string) (*bufCloser, error) {
	fset := flag.NewFlagSet("test", flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	out := &bufCloser{}
	err := runMain(fset, args, out)
	return out, err
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "-out", dir, "-seed", "5", "-print", "4", "10")
	require.NoError(t, err)
	require.False(t, out.closed)

	for Nv := 4; Nv <= 10; Nv += 2 {
		buf, err := os.ReadFile(filepath.Join(dir, go2x3.InstanceFilename(Nv)))
		require.NoError(t, err)
		require.Equal(t, Nv+1, strings.Count(string(buf), "\n"))
	}
	_, err = os.Stat(filepath.Join(dir, go2x3.InstanceFilename(12)))
	require.True(t, os.IsNotExist(err))

	require.True(t, strings.HasPrefix(out.String(), "out,000001,4\n0,1,1,1\n"))
	require.Equal(t, 4, strings.Count(out.String(), "out,0000"))

	// Same seed, same files
	dir2 := t.TempDir()
	_, err = run(t, "-out", dir2, "-seed", "5", "4", "10")
	require.NoError(t, err)
	a, _ := os.ReadFile(filepath.Join(dir, go2x3.InstanceFilename(10)))
	b, _ := os.ReadFile(filepath.Join(dir2, go2x3.InstanceFilename(10)))
	require.Equal(t, a, b)

	// stdout stays open when nothing is printed too
	out, err = run(t, "-out", dir2, "-seed", "5", "4", "6")
	require.NoError(t, err)
	require.False(t, out.closed)
	require.Zero(t, out.Len())
}

func TestInstancesAndDedupe(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "-out", dir, "-seed", "2", "-instances", "3", "-print", "-faces", "4", "6")
	require.NoError(t, err)
	require.Equal(t, 6, strings.Count(out.String(), "out,0000"))
	require.True(t, strings.HasPrefix(out.String(), "out,000001,4,3:4\n"))
	for i := 0; i < 3; i++ {
		_, err = os.Stat(filepath.Join(dir, go2x3.IndexedInstanceFilename(4, i)))
		require.NoError(t, err)
	}

	// Every instance starts from K4, so -dedupe keeps only the first one
	dir = t.TempDir()
	out, err = run(t, "-out", dir, "-seed", "2", "-instances", "3", "-dedupe", "-print", "4", "4")
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(out.String(), "out,0000"))
	_, err = os.Stat(filepath.Join(dir, go2x3.InstanceFilename(4)))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, go2x3.IndexedInstanceFilename(4, 1)))
	require.True(t, os.IsNotExist(err))

	_, err = run(t, "-out", dir, "-instances", "-1", "4", "4")
	require.ErrorIs(t, err, go2x3.ErrBadRange)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "run.toml")
	err := os.WriteFile(config, []byte(`
[generate]
min = 6
max = 12
seed = 9
instances = 2

[output]
dir = "instances"
format = "edges"
faces = true

[catalog]
path = "catalog"
dropdupes = true
`), 0644)
	require.NoError(t, err)

	_, err = run(t, "-config", config)
	require.NoError(t, err)

	buf, err := os.ReadFile(filepath.Join(dir, "instances", go2x3.InstanceFilename(6)))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(buf), "6\n3 "))
	_, err = os.Stat(filepath.Join(dir, "instances", go2x3.InstanceFilename(4)))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "instances", go2x3.IndexedInstanceFilename(12, 1)))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "catalog"))
	require.NoError(t, err)

	// Flags override the file
	_, err = run(t, "-config", config, "-format", "rotation", "-catalog", "", "-instances", "1", "4", "6")
	require.NoError(t, err)
	buf, err = os.ReadFile(filepath.Join(dir, "instances", go2x3.InstanceFilename(4)))
	require.NoError(t, err)
	require.Equal(t, "0: 2 1 3\n1: 0 2 3\n2: 3 1 0\n3: 0 1 2\n", string(buf))
}

func TestBadArgs(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "-out", dir, "4")
	require.Error(t, err)

	_, err = run(t, "-out", dir, "four", "10")
	require.Error(t, err)

	_, err = run(t, "-out", dir, "4", "600")
	require.ErrorIs(t, err, go2x3.ErrCapacityExceeded)

	_, err = run(t, "-out", dir, "-capacity", "30", "4", "40")
	require.ErrorIs(t, err, go2x3.ErrCapacityExceeded)

	_, err = run(t, "-out", dir, "-capacity", "40", "4", "40")
	require.NoError(t, err)

	_, err = run(t, "-out", dir, "10", "4")
	require.ErrorIs(t, err, go2x3.ErrBadRange)

	_, err = run(t, "-out", dir, "-format", "dot", "4", "6")
	require.ErrorIs(t, err, go2x3.ErrBadFormat)

	config := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(config, []byte("[generate]\nmins = 4\n"), 0644))
	_, err = run(t, "-config", config)
	require.Error(t, err)
}
