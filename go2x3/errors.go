package go2x3

import "errors"

// Errors
var (
	ErrCapacityExceeded = errors.New("max vertex count exceeds capacity")
	ErrBadRange         = errors.New("bad vertex count range")
	ErrBadVtxID         = errors.New("bad graph vertex ID")
	ErrBrokenSymmetry   = errors.New("rotation system is not symmetric")
	ErrDegenerateEdge   = errors.New("degenerate edge")
	ErrViolates3Regular = errors.New("graph is not 3-regular")
	ErrNilGraph         = errors.New("nil graph")
	ErrBadEncoding      = errors.New("bad graph encoding")
	ErrUnmarshal        = errors.New("unmarshal failed")
	ErrBadCatalogParam  = errors.New("bad catalog param")
	ErrBadFormat        = errors.New("unknown export format")
)
