package lib2x3

import (
	"bytes"
	"hash/maphash"
	"sync"

	"github.com/2x3systems/planar2x3/go2x3"
)

type dropDupes struct {
	mu        sync.Mutex
	hashMap   map[uint64][]byte
	hasher    maphash.Hash
	keyBuf    []byte
	bufPool   []byte
	bufPoolSz int
	opts      DropDupeOpts
}

const DefaultPoolSz = 32 * 1024

type DropDupeOpts struct {
	PoolSz int // 0 denotes DefaultPoolSz (32k)
}

// NewDropDupes returns a memory resident GraphAdder that rejects any graph whose rotation system
// was already added.
func NewDropDupes(opts DropDupeOpts) go2x3.GraphAdder {
	if opts.PoolSz <= 0 {
		opts.PoolSz = DefaultPoolSz
	}
	return &dropDupes{
		hashMap: make(map[uint64][]byte),
		opts:    opts,
	}
}

func (cat *dropDupes) Reset() {
	cat.mu.Lock()
	cat.bufPoolSz = 0
	for k := range cat.hashMap {
		delete(cat.hashMap, k)
	}
	cat.mu.Unlock()
}

func (cat *dropDupes) TryAddGraph(X go2x3.GraphState) bool {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	Xkey := X.ExportStateEncoding(cat.keyBuf[:0])
	cat.keyBuf = Xkey

	cat.hasher.Reset()
	cat.hasher.Write(Xkey)
	hash := cat.hasher.Sum64()

	existing, found := cat.hashMap[hash]
	for found {
		if bytes.Equal(existing, Xkey) {
			return false
		}
		hash++
		existing, found = cat.hashMap[hash]
	}

	// Place a copy of the key in our backing pool, starting a new pool when out of space
	pos := cat.bufPoolSz
	itemLen := len(Xkey)
	if pos+itemLen > cap(cat.bufPool) {
		allocSz := cat.opts.PoolSz
		if allocSz < itemLen {
			allocSz = itemLen
		}
		cat.bufPool = make([]byte, allocSz)
		cat.bufPoolSz = 0
		pos = 0
	}

	cat.hashMap[hash] = append(cat.bufPool[pos:pos], Xkey...)
	cat.bufPoolSz += itemLen
	return true
}
