package catalog

import (
	"bytes"
	"encoding/binary"
	"runtime"
	"sync"

	"github.com/2x3systems/planar2x3/go2x3"
	"github.com/2x3systems/planar2x3/lib2x3"
	"github.com/dgraph-io/badger/v3"
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

/***

Catalog database format:

	gCatalogStateKey => CatalogState

	Nv (uint16 BE), TracesLSM, NUL, NUL, StateEncoding   => StateEncoding
	...

	gTracesPrefix, Nv (uint16 BE), TracesLSM              => (empty)
	...

Graph entries sort by vertex count, then by Traces, so all graphs sharing a Traces are adjacent.
A TracesLSM always holds exactly state.TraceCount varints, which makes the NUL NUL separator unambiguous.

***/

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
	gTracesPrefix    = []byte{0xFF, 0xFF}
)

// catalog is a db wrapper for a catalog of generated cubic planar embeddings
type catalog struct {
	mu         sync.Mutex
	ctx        go2x3.CatalogContext
	readOnly   bool
	stateDirty bool
	state      CatalogState
	db         *badger.DB
	keyBuf     []byte
}

func OpenCatalog(ctx go2x3.CatalogContext, opts go2x3.CatalogOpts) (go2x3.Catalog, error) {
	if opts.TraceCount <= 0 {
		opts.TraceCount = go2x3.DefaultTraceCount
	}
	if opts.TraceCount > lib2x3.MaxTraces {
		return nil, errors.Wrapf(go2x3.ErrBadCatalogParam, "TraceCount must be <= %d", lib2x3.MaxTraces)
	}

	cat := &catalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // not needed so disable for performance
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(go2x3.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening catalog %q", opts.DbPathName)
	}

	// Once the db is open, we consider the catalog ctx blocked until the catalog closes
	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = !cat.readOnly
		cat.state.init(opts.TraceCount)
	}

	if err == nil {
		if cat.state.MajorVers != kMajorVers || cat.state.MinorVers != kMinorVers {
			err = errors.New("catalog version is incompatible")
		} else if opts.TraceCount != cat.state.TraceCount {
			err = errors.Errorf("catalog TraceCount is %d, requested %d", cat.state.TraceCount, opts.TraceCount)
		}
	}

	if err != nil {
		cat.Close()
		return nil, err
	}

	klog.V(1).Infof("opened catalog %q (%d traces per key)", opts.DbPathName, cat.state.TraceCount)
	return cat, nil
}

func (cat *catalog) loadState() error {
	return cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := proto.Unmarshal(val, &cat.state); err != nil {
				return errors.Wrap(go2x3.ErrUnmarshal, err.Error())
			}
			if cat.state.NumGraphs == nil {
				cat.state.NumGraphs = make(map[uint32]uint64)
			}
			if cat.state.NumTraces == nil {
				cat.state.NumTraces = make(map[uint32]uint64)
			}
			return nil
		})
	})
}

func (cat *catalog) flushState() error {
	if !cat.stateDirty || cat.db == nil {
		return nil
	}
	err := cat.db.Update(func(txn *badger.Txn) error {
		stateBuf, err := proto.Marshal(&cat.state)
		if err != nil {
			return err
		}
		return txn.Set(gCatalogStateKey, stateBuf)
	})
	if err == nil {
		cat.stateDirty = false
	}
	return err
}

func (cat *catalog) Close() error {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	err := cat.flushState()
	if cat.db != nil {
		if closeErr := cat.db.Close(); err == nil {
			err = closeErr
		}
		cat.db = nil
		cat.ctx.DetachCatalog(cat)
	}
	return err
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

func (cat *catalog) NumGraphs(forVtxCount int) int64 {
	cat.mu.Lock()
	defer cat.mu.Unlock()
	return int64(cat.state.NumGraphs[uint32(forVtxCount)])
}

func (cat *catalog) NumTraces(forVtxCount int) int64 {
	cat.mu.Lock()
	defer cat.mu.Unlock()
	return int64(cat.state.NumTraces[uint32(forVtxCount)])
}

func appendVtxCount(key []byte, Nv int) []byte {
	return append(key, byte(Nv>>8), byte(Nv))
}

// formTracesKey appends Nv and X's TracesLSM to key.
func (cat *catalog) formTracesKey(key []byte, X go2x3.TracesProvider) []byte {
	key = appendVtxCount(key, X.VertexCount())
	return X.Traces(int(cat.state.TraceCount)).AppendTracesLSM(key)
}

// tracesPartLen returns the length of the "Nv, TracesLSM" prefix of a graph key.
func (cat *catalog) tracesPartLen(key []byte) int {
	pos := 2
	for i := int32(0); i < cat.state.TraceCount; i++ {
		_, n := binary.Varint(key[pos:])
		if n <= 0 {
			return -1
		}
		pos += n
	}
	return pos
}

func (cat *catalog) TryAddGraph(X go2x3.GraphState) bool {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if cat.readOnly || cat.db == nil {
		return false
	}

	graphKey := cat.formTracesKey(cat.keyBuf[:0], X)
	tracesLen := len(graphKey)
	graphKey = append(graphKey, 0, 0)
	encPos := len(graphKey)
	graphKey = X.ExportStateEncoding(graphKey)
	cat.keyBuf = graphKey

	tracesKey := append(append([]byte{}, gTracesPrefix...), graphKey[:tracesLen]...)

	added := false
	newTraces := false
	err := cat.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(graphKey)
		if err == nil {
			return nil
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		if err = txn.Set(graphKey, graphKey[encPos:]); err != nil {
			return err
		}
		added = true

		_, err = txn.Get(tracesKey)
		if err == badger.ErrKeyNotFound {
			newTraces = true
			return txn.Set(tracesKey, nil)
		}
		return err
	})
	if err != nil {
		klog.Errorf("catalog add failed: %v", err)
		return false
	}

	if added {
		Nv := uint32(X.VertexCount())
		cat.state.NumGraphs[Nv]++
		if newTraces {
			cat.state.NumTraces[Nv]++
		}
		cat.stateDirty = true
	}
	return added
}

// Select pushes onHit each stored graph with a vertex count in sel's range, in key order.
//
// Ownership of each pushed graph passes to the receiver.
func (cat *catalog) Select(sel go2x3.GraphSelector, onHit go2x3.OnGraphHit) {
	if sel.MinVertices < go2x3.BaseVertexCount {
		sel.MinVertices = go2x3.BaseVertexCount
	}
	if sel.MaxVertices > go2x3.HardCapacity {
		sel.MaxVertices = go2x3.HardCapacity
	}
	if sel.MinVertices > sel.MaxVertices || cat.db == nil {
		return
	}

	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   100,
	})
	defer it.Close()

	minKey := appendVtxCount(nil, sel.MinVertices)
	var prevTraces []byte

	for it.Seek(minKey); it.Valid(); it.Next() {
		item := it.Item()
		key := item.Key()
		if len(key) < 2 {
			continue
		}
		Nv := int(key[0])<<8 | int(key[1])
		if Nv > sel.MaxVertices {
			break
		}

		if sel.UniqueTraces {
			n := cat.tracesPartLen(key)
			if n < 0 {
				klog.Warningf("skipping malformed catalog key %x", key)
				continue
			}
			if prevTraces != nil && bytes.Equal(prevTraces, key[:n]) {
				continue
			}
			prevTraces = append(prevTraces[:0], key[:n]...)
		}

		err := item.Value(func(val []byte) error {
			X, err := lib2x3.NewEmbeddingFromStateEncoding(val)
			if err != nil {
				return err
			}
			onHit <- X
			return nil
		})
		if err != nil {
			klog.Errorf("catalog select: %v", err)
		}
	}
}
