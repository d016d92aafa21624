package catalog

import (
	"github.com/gogo/protobuf/proto"
)

const (
	kMajorVers = 2024
	kMinorVers = 1
)

// CatalogState is the persisted header of a catalog.
type CatalogState struct {
	MajorVers  int32             `protobuf:"varint,1,opt,name=MajorVers,proto3" json:"MajorVers,omitempty"`
	MinorVers  int32             `protobuf:"varint,2,opt,name=MinorVers,proto3" json:"MinorVers,omitempty"`
	TraceCount int32             `protobuf:"varint,3,opt,name=TraceCount,proto3" json:"TraceCount,omitempty"`
	NumGraphs  map[uint32]uint64 `protobuf:"bytes,4,rep,name=NumGraphs,proto3" json:"NumGraphs,omitempty" protobuf_key:"varint,1,opt,name=key,proto3" protobuf_val:"varint,2,opt,name=value,proto3"`
	NumTraces  map[uint32]uint64 `protobuf:"bytes,5,rep,name=NumTraces,proto3" json:"NumTraces,omitempty" protobuf_key:"varint,1,opt,name=key,proto3" protobuf_val:"varint,2,opt,name=value,proto3"`
}

func (m *CatalogState) Reset()         { *m = CatalogState{} }
func (m *CatalogState) String() string { return proto.CompactTextString(m) }
func (*CatalogState) ProtoMessage()    {}

func (m *CatalogState) init(traceCount int32) {
	m.MajorVers = kMajorVers
	m.MinorVers = kMinorVers
	m.TraceCount = traceCount
	m.NumGraphs = make(map[uint32]uint64)
	m.NumTraces = make(map[uint32]uint64)
}
