package go2x3

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// SetLen resizes TX to tracesLen, reallocating only when capacity is short.
func (TX *Traces) SetLen(tracesLen int) {
	if cap(*TX) < tracesLen {
		dimLen := tracesLen
		if dimLen < 16 {
			dimLen = 16 // prevent rapid resizing
		}
		*TX = make([]int64, tracesLen, dimLen)
	} else {
		*TX = (*TX)[:tracesLen]
	}
}

// AppendTracesLSM appends a canonical binary encoding of TX to []out, returning it as TracesLSM.
//
// Odd traces are written first, then even traces, each as a varint.
// For cubic graphs tr(A) is always 0 and tr(A^2) is always 3*Nv, so the leading
// bytes group graphs by their odd (cycle parity) structure.
func (TX Traces) AppendTracesLSM(out []byte) TracesLSM {
	numTraces := len(TX)
	var scrap [binary.MaxVarintLen64]byte

	key := out
	for i := 0; i < numTraces; i += 2 {
		n := binary.PutVarint(scrap[:], TX[i])
		key = append(key, scrap[:n]...)
	}
	for i := 1; i < numTraces; i += 2 {
		n := binary.PutVarint(scrap[:], TX[i])
		key = append(key, scrap[:n]...)
	}

	return key
}

// InitFromTracesLSM assigns this Traces from a binary encoding made from AppendTracesLSM().
func (TX *Traces) InitFromTracesLSM(Xkey TracesLSM) error {
	var vals []int64
	rdr := bytes.NewReader(Xkey)
	for {
		val, err := binary.ReadVarint(rdr)
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(ErrUnmarshal, err.Error())
		}
		vals = append(vals, val)
	}

	N := len(vals)
	numOdd := (N + 1) / 2
	TX.SetLen(N)
	for i := 0; i < numOdd; i++ {
		(*TX)[2*i] = vals[i]
	}
	for i := numOdd; i < N; i++ {
		(*TX)[2*(i-numOdd)+1] = vals[i]
	}
	return nil
}
