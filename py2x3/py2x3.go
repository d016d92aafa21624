package py2x3

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/2x3systems/planar2x3/go2x3"
	"github.com/2x3systems/planar2x3/lib2x3"
	"github.com/2x3systems/planar2x3/lib2x3/catalog"
	"github.com/go-python/gpython/py"
	"github.com/pkg/errors"
)

var (
	LIB_VERSION = "v1.2024.2"
)

var (
	pyGraphType       = py.NewType("Graph", "a cubic planar embedding held as a rotation system")
	pyGraphStreamType = py.NewType("GraphStream", "go2x3.GraphStream")
	pyCatalogType     = py.NewType("Catalog", "go2x3.Catalog")
	pyWorkspaceType   = py.NewType("Workspace", "collects active session resources and catalogs")
)

// Arg 1 (int): min vertex count
// Arg 2 (int): max vertex count
// Arg 3 (int, optional): seed (0 denotes clock-derived)
// Arg 4 (int, optional): instances, the number of independent growths from K4 (default 1)
func py_Generate(module py.Object, args py.Tuple) (py.Object, error) {
	var vMin, vMax, seed, instances int
	err := py.LoadTuple(args, []interface{}{&vMin, &vMax, &seed, &instances})
	if err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, py.ExceptionNewf(py.TypeError, "Generate() expects min and max vertex counts")
	}

	stream, err := lib2x3.EnumCubicPlanar(go2x3.GenOpts{
		MinVertices: vMin,
		MaxVertices: vMax,
		Seed:        int64(seed),
		Instances:   instances,
	})
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return wrapGraphStream(stream), nil
}

type pyGraph struct {
	*lib2x3.Embedding
}

func (X pyGraph) Type() *py.Type {
	return pyGraphType
}

func (X pyGraph) M__str__() (py.Object, error) {
	writer := strings.Builder{}
	X.WriteRotations(&writer)
	return py.String(writer.String()), nil
}

func (X pyGraph) M__repr__() (py.Object, error) {
	return X.M__str__()
}

// Arg 1 (str, optional): rotation expression, e.g. "0: 2 1 3, 1: 0 2 3, ..."; K4 if omitted
func py_NewBaseGraph(module py.Object, args py.Tuple) (py.Object, error) {
	var expr string
	if err := py.LoadTuple(args, []interface{}{&expr}); err != nil {
		return nil, err
	}
	if expr == "" {
		return py.Object(pyGraph{lib2x3.NewBaseGraph()}), nil
	}
	X, err := lib2x3.NewEmbeddingFromString(expr)
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return py.Object(pyGraph{X}), nil
}

func py_Graph_NumVerts(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	return py.Object(py.Int(X.VertexCount())), nil
}

// Grow splits the face following the directed edge (u, rotation(u)[col]), returning (v, next_u).
func py_Graph_Grow(self py.Object, args py.Tuple) (obj py.Object, err error) {
	X := self.(pyGraph)
	var u, col int
	if err = py.LoadTuple(args, []interface{}{&u, &col}); err != nil {
		return nil, err
	}

	// A corrupt or degenerate embedding panics; surface it to the script instead
	defer func() {
		if r := recover(); r != nil {
			obj, err = nil, py.ExceptionNewf(py.ValueError, "%v", r)
		}
	}()

	step := X.GrowAt(go2x3.VtxID(u), col)
	return py.Tuple{py.Int(step.V), py.Int(step.NextU)}, nil
}

func py_Graph_Rotation(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "Rotation() expects a vertex")
	}
	v, err := py.GetInt(args[0])
	if err != nil {
		return nil, err
	}
	if v < 0 || int(v) >= X.VertexCount() {
		return nil, py.ExceptionNewf(py.IndexError, "%v", errors.Wrapf(go2x3.ErrBadVtxID, "vertex %d", v))
	}
	r := X.Rotation(go2x3.VtxID(v))
	return py.Tuple{py.Int(r[0]), py.Int(r[1]), py.Int(r[2])}, nil
}

// Faces returns each face as a tuple of the vertices met walking its boundary.
func py_Graph_Faces(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	faces := X.Faces()
	tuple := make(py.Tuple, len(faces))
	for i, face := range faces {
		verts := make(py.Tuple, len(face))
		for j, v := range face {
			verts[j] = py.Int(v)
		}
		tuple[i] = verts
	}
	return tuple, nil
}

// FaceSpectrum returns ((len, count), ...) in ascending face length.
func py_Graph_FaceSpectrum(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	spectrum := X.Embedding.FaceSpectrum()
	tuple := make(py.Tuple, 0, spectrum.Size())
	it := spectrum.Iterator()
	for it.Next() {
		tuple = append(tuple, py.Tuple{py.Int(it.Key().(int)), py.Int(it.Value().(int))})
	}
	return tuple, nil
}

func py_Graph_EulerCharacteristic(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	return py.Int(X.EulerCharacteristic()), nil
}

func py_Graph_Traces(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	numTraces := 0
	if len(args) > 0 {
		n, err := py.GetInt(args[0])
		if err != nil {
			return nil, err
		}
		numTraces = int(n)
	}

	TX := X.Traces(numTraces)
	traces := make(py.Tuple, len(TX))
	for i, tr := range TX {
		traces[i] = py.Int(tr)
	}
	return py.Object(traces), nil
}

func py_Graph_Stream(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyGraph)
	next := go2x3.StreamGraph(X)
	return wrapGraphStream(next), nil
}

const (
	READ_ONLY = 0x01

	kWorkspaceAttr = "_Workspace"
)

type Workspace struct {
	CatalogCtx go2x3.CatalogContext
}

func (ws *Workspace) Close() {
	ws.CatalogCtx.Close()
	<-ws.CatalogCtx.Done()
}

func (ws *Workspace) Type() *py.Type {
	return pyWorkspaceType
}

func getWorkspace(module py.Object) *Workspace {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		wsObj = &Workspace{
			CatalogCtx: go2x3.NewCatalogContext(),
		}
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj.(*Workspace)
}

func py_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	return getWorkspace(module), nil
}

func py_Workspace_CatalogExists(self py.Object, args py.Tuple) (py.Object, error) {
	_ = self.(*Workspace)

	var pathname string
	err := py.LoadTuple(args, []interface{}{&pathname})
	if err != nil {
		return nil, err
	}
	_, err = os.Stat(pathname)
	if os.IsNotExist(err) {
		return py.False, nil
	}
	return py.True, nil
}

// Arg 1 (str): catalog pathname
// Arg 2 (int, optional): flags (READ_ONLY)
// Arg 3 (int, optional): traces per key
func py_Workspace_OpenCatalog(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var pathname string
	var flags, traceCount int32
	err := py.LoadTuple(args, []interface{}{&pathname, &flags, &traceCount})
	if err != nil {
		return nil, err
	}

	opts := go2x3.CatalogOpts{
		ReadOnly:   (flags & READ_ONLY) != 0,
		DbPathName: pathname,
		TraceCount: traceCount,
	}

	cat, err := catalog.OpenCatalog(ws.CatalogCtx, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.Object(pyCatalog{cat}), nil
}

type pyCatalog struct {
	go2x3.Catalog
}

func (cat pyCatalog) Type() *py.Type {
	return pyCatalogType
}

func getCatalogFromObj(obj py.Object) (pyCatalog, error) {
	if cat, ok := obj.(pyCatalog); ok {
		return cat, nil
	}
	attr, err := py.GetAttrString(obj, "_cat")
	if err != nil {
		return pyCatalog{}, err
	}
	cat, ok := attr.(pyCatalog)
	if !ok {
		return pyCatalog{}, py.ExceptionNewf(py.TypeError, "expected Catalog object (got %v)", attr.Type().Name)
	}
	return cat, nil
}

func py_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if cat.Catalog != nil {
		if err := cat.Close(); err != nil {
			return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
		}
	}
	return py.None, nil
}

func py_Catalog_Select(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	sel, err := getGraphSelector(args)
	if err != nil {
		return nil, err
	}
	next := go2x3.SelectFromCatalog(cat, sel)
	return wrapGraphStream(next), nil
}

func py_Catalog_NumGraphs(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	Nv, err := py.GetInt(args[0])
	if err != nil {
		return nil, err
	}
	return py.Int(cat.NumGraphs(int(Nv))), nil
}

func py_Catalog_NumTraces(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	Nv, err := py.GetInt(args[0])
	if err != nil {
		return nil, err
	}
	return py.Int(cat.NumTraces(int(Nv))), nil
}

type graphStream struct {
	*go2x3.GraphStream
}

func (stream graphStream) Type() *py.Type {
	return pyGraphStreamType
}

func wrapGraphStream(stream *go2x3.GraphStream) py.Object {
	return py.Object(graphStream{stream})
}

// Go drains the stream and returns the number of graphs that came out of it.
func py_GraphStream_Go(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(graphStream)
	count := stream.PullAll()
	if err := stream.Err(); err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.Int(count), nil
}

type echoToWriter struct {
	stdout *os.File
	to     io.WriteCloser
}

func (echo *echoToWriter) Write(buf []byte) (int, error) {
	if echo.to == nil {
		return echo.stdout.Write(buf)
	}
	return echo.to.Write(buf)
}

func (echo *echoToWriter) Close() error {
	if echo.to != nil {
		return echo.to.Close()
	}
	return nil
}

func loadPrintOpts(kwargs py.StringDict, opts *go2x3.PrintOpts) error {
	var format string
	py.LoadAttr(kwargs, "format", &format)
	if format != "" {
		f, err := go2x3.ParseExportFormat(format)
		if err != nil {
			return py.ExceptionNewf(py.ValueError, "%v", err)
		}
		opts.Format = f
	}
	py.LoadAttr(kwargs, "traces", &opts.NumTraces)
	py.LoadAttr(kwargs, "header", &opts.Header)
	py.LoadAttr(kwargs, "faces", &opts.Faces)
	return nil
}

// Print(label, traces=0, format="adj", header=True, faces=False, file="")
func py_GraphStream_Print(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	stream := self.(graphStream)
	var pathname string

	opts := go2x3.DefaultPrintOpts

	py.LoadTuple(args, []interface{}{&opts.Label})
	if opts.Label == "" {
		py.LoadAttr(kwargs, "label", &opts.Label)
	}
	if opts.Label == "" {
		opts.Label = fmt.Sprintf("out[%d]", atomic.AddInt32(&gOutCount, 1))
	}
	if err := loadPrintOpts(kwargs, &opts); err != nil {
		return nil, err
	}
	py.LoadAttr(kwargs, "file", &pathname)

	writer := &echoToWriter{
		stdout: os.Stdout,
	}
	if len(pathname) > 0 {
		os.MkdirAll(filepath.Dir(pathname), 0700)

		file, err := os.OpenFile(pathname, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0600)
		if err != nil {
			return nil, py.ExceptionNewf(py.FileNotFoundError, "%v", err)
		}
		writer.to = file
	}

	next := stream.Print(writer, opts)
	return wrapGraphStream(next), nil
}

var gOutCount = int32(0)

// WriteInstances(out_dir, format="adj")
func py_GraphStream_WriteInstances(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	stream := self.(graphStream)

	var outDir string
	if err := py.LoadTuple(args, []interface{}{&outDir}); err != nil {
		return nil, err
	}
	if outDir == "" {
		py.LoadAttr(kwargs, "out_dir", &outDir)
	}
	if outDir == "" {
		outDir = "."
	}

	opts := go2x3.DefaultPrintOpts
	if err := loadPrintOpts(kwargs, &opts); err != nil {
		return nil, err
	}

	next := stream.WriteInstances(outDir, opts)
	return wrapGraphStream(next), nil
}

func py_GraphStream_AddTo(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(graphStream)
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "AddTo() expects a Catalog")
	}
	cat, err := getCatalogFromObj(args[0])
	if err != nil {
		return nil, err
	}
	if cat.IsReadOnly() {
		return nil, py.ExceptionNewf(py.PermissionError, "%v", errors.New("catalog is in read-only mode"))
	}

	next := stream.AddTo(cat)
	return wrapGraphStream(next), nil
}

func py_GraphStream_DropDupes(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(graphStream)

	// Memory resident; released along with the stream
	cat := lib2x3.NewDropDupes(lib2x3.DropDupeOpts{})
	next := stream.AddTo(cat)
	return wrapGraphStream(next), nil
}

func py_GraphStream_Select(self py.Object, args py.Tuple) (py.Object, error) {
	sel, err := getGraphSelector(args)
	if err != nil {
		return nil, err
	}
	stream := self.(graphStream)
	next := stream.SelectFromStream(sel)
	return wrapGraphStream(next), nil
}

// getGraphSelector reads (min_verts, max_verts, unique_traces), each optional.
func getGraphSelector(args py.Tuple) (go2x3.GraphSelector, error) {
	sel := go2x3.DefaultGraphSelector
	var vMin, vMax int
	err := py.LoadTuple(args, []interface{}{&vMin, &vMax, &sel.UniqueTraces})
	if err != nil {
		return sel, err
	}
	if len(args) > 0 {
		sel.MinVertices = vMin
	}
	if len(args) > 1 {
		sel.MaxVertices = vMax
	}
	if sel.MinVertices > sel.MaxVertices {
		return sel, py.ExceptionNewf(py.ValueError, "%v", errors.Wrapf(go2x3.ErrBadRange, "min %d > max %d", sel.MinVertices, sel.MaxVertices))
	}
	return sel, nil
}

func init() {

	/////////////////////////////////
	// Graph
	{
		pyGraphType.Dict["NumVerts"] = py.MustNewMethod("NumVerts", py_Graph_NumVerts, 0, "")
		pyGraphType.Dict["Grow"] = py.MustNewMethod("Grow", py_Graph_Grow, 0, "splits the face following edge (u, col), returning (v, next_u)")
		pyGraphType.Dict["Rotation"] = py.MustNewMethod("Rotation", py_Graph_Rotation, 0, "returns a vertex's neighbors in rotation order")
		pyGraphType.Dict["Traces"] = py.MustNewMethod("Traces", py_Graph_Traces, 0, "returns tr(A^k) for k = 1..n")
		pyGraphType.Dict["Faces"] = py.MustNewMethod("Faces", py_Graph_Faces, 0, "returns the boundary walk of each face")
		pyGraphType.Dict["FaceSpectrum"] = py.MustNewMethod("FaceSpectrum", py_Graph_FaceSpectrum, 0, "returns ((len, count), ...) ordered by face length")
		pyGraphType.Dict["EulerCharacteristic"] = py.MustNewMethod("EulerCharacteristic", py_Graph_EulerCharacteristic, 0, "returns V - E + F")
		pyGraphType.Dict["Stream"] = py.MustNewMethod("Stream", py_Graph_Stream, 0, "")
	}

	/////////////////////////////////
	// Catalog
	{
		pyCatalogType.Dict["Select"] = py.MustNewMethod("Select", py_Catalog_Select, 0, "")
		pyCatalogType.Dict["NumGraphs"] = py.MustNewMethod("NumGraphs", py_Catalog_NumGraphs, 0, "")
		pyCatalogType.Dict["NumTraces"] = py.MustNewMethod("NumTraces", py_Catalog_NumTraces, 0, "")
		pyCatalogType.Dict["Close"] = py.MustNewMethod("Close", py_Catalog_Close, 0, "")
	}

	/////////////////////////////////
	// Workspace
	{
		pyWorkspaceType.Dict["OpenCatalog"] = py.MustNewMethod("OpenCatalog", py_Workspace_OpenCatalog, 0, "")
		pyWorkspaceType.Dict["CatalogExists"] = py.MustNewMethod("CatalogExists", py_Workspace_CatalogExists, 0, "")
	}

	/////////////////////////////////
	// GraphStream
	{
		pyGraphStreamType.Dict["Go"] = py.MustNewMethod("Go", py_GraphStream_Go, 0, "counts the number of graphs output from the GraphStream")
		pyGraphStreamType.Dict["Print"] = py.MustNewMethod("Print", py_GraphStream_Print, 0, "prints each graph from the GraphStream")
		pyGraphStreamType.Dict["WriteInstances"] = py.MustNewMethod("WriteInstances", py_GraphStream_WriteInstances, 0, "writes each graph to size<N>_instance.csv")
		pyGraphStreamType.Dict["AddTo"] = py.MustNewMethod("AddTo", py_GraphStream_AddTo, 0, "")
		pyGraphStreamType.Dict["DropDupes"] = py.MustNewMethod("DropDupes", py_GraphStream_DropDupes, 0, "")
		pyGraphStreamType.Dict["Select"] = py.MustNewMethod("Select", py_GraphStream_Select, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("Generate", py_Generate, 0, "streams one cubic planar graph per even vertex count in [min, max], per instance"),
			py.MustNewMethod("NewBaseGraph", py_NewBaseGraph, 0, ""),
			py.MustNewMethod("GetWorkspace", py_GetWorkspace, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION": py.String(LIB_VERSION),
			"MAX_VTX":     py.Int(go2x3.HardCapacity),
			"READ_ONLY":   py.Int(READ_ONLY),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_py2x3",
				Doc:  "cubic planar graph generator gpython module",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				wsObj, _ := py.GetAttrString(m, kWorkspaceAttr)
				if wsObj != nil {
					wsObj.(*Workspace).Close()
				}
			},
		})
	}
}
