package go2x3

import (
	"testing"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/stretchr/testify/require"
)

func TestGenOpts(t *testing.T) {
	opts := GenOpts{MinVertices: 4, MaxVertices: 40}
	require.NoError(t, opts.Validate())
	require.Equal(t, DefaultCapacity, opts.Capacity)
	require.Equal(t, 1, opts.Instances)

	// An odd capacity is accepted; the largest count it can emit is capacity-1
	opts = GenOpts{MinVertices: 13, MaxVertices: 13, Capacity: 13}
	require.NoError(t, opts.Validate())
	require.Equal(t, 0, opts.NumEmitted())

	bad := []struct {
		opts GenOpts
		err  error
	}{
		{GenOpts{MinVertices: 4, MaxVertices: 600}, ErrCapacityExceeded},
		{GenOpts{MinVertices: 4, MaxVertices: 20, Capacity: 10}, ErrCapacityExceeded},
		{GenOpts{MinVertices: 10, MaxVertices: 8}, ErrBadRange},
		{GenOpts{MinVertices: -1, MaxVertices: 8}, ErrBadRange},
		{GenOpts{MinVertices: 0, MaxVertices: 3}, ErrBadRange},
		{GenOpts{MinVertices: 4, MaxVertices: 8, Capacity: HardCapacity + 1}, ErrBadRange},
		{GenOpts{MinVertices: 4, MaxVertices: 8, Instances: -2}, ErrBadRange},
	}
	for _, tc := range bad {
		opts := tc.opts
		require.ErrorIs(t, opts.Validate(), tc.err, "%+v", tc.opts)
	}
}

func TestNumEmitted(t *testing.T) {
	cases := []struct {
		min, max, first, count int
	}{
		{4, 4, 4, 1},
		{4, 5, 4, 1},
		{0, 10, 4, 4},
		{5, 12, 6, 4},
		{6, 12, 6, 4},
		{13, 13, 14, 0},
	}
	for _, tc := range cases {
		opts := GenOpts{MinVertices: tc.min, MaxVertices: tc.max}
		require.Equal(t, tc.first, opts.FirstEmitted(), "%+v", tc)
		require.Equal(t, tc.count, opts.NumEmitted(), "%+v", tc)

		opts.Instances = 3
		require.Equal(t, tc.count, opts.NumPerInstance(), "%+v", tc)
		require.Equal(t, 3*tc.count, opts.NumEmitted(), "%+v", tc)
	}
}

func TestExportFormat(t *testing.T) {
	for _, f := range []ExportFormat{FormatAdjMatrix, FormatEdgeList, FormatRotation} {
		parsed, err := ParseExportFormat(f.String())
		require.NoError(t, err)
		require.Equal(t, f, parsed)
	}
	f, err := ParseExportFormat(" EDGES ")
	require.NoError(t, err)
	require.Equal(t, FormatEdgeList, f)

	_, err = ParseExportFormat("dot")
	require.ErrorIs(t, err, ErrBadFormat)

	require.Equal(t, "size8_instance.csv", InstanceFilename(8))
	require.Equal(t, "size8_instance.csv", IndexedInstanceFilename(8, 0))
	require.Equal(t, "size8_instance_2.csv", IndexedInstanceFilename(8, 2))
}

func TestFormatFaceSpectrum(t *testing.T) {
	spectrum := redblacktree.NewWithIntComparator()
	require.Equal(t, "", FormatFaceSpectrum(spectrum))

	spectrum.Put(4, 3)
	spectrum.Put(3, 2)
	require.Equal(t, "3:2;4:3", FormatFaceSpectrum(spectrum))
}

func TestTracesLSM(t *testing.T) {
	TX := Traces{0, 18, 12, 114, 180, 978, 2100}
	lsm := TX.AppendTracesLSM(nil)

	var TY Traces
	require.NoError(t, TY.InitFromTracesLSM(lsm))
	require.Equal(t, TX, TY)
	require.True(t, TX.IsEqual(TY[:3]))
	require.False(t, TX.IsEqual(Traces{0, 18, 13}))
	require.Equal(t, "0,18,12,114,180,978,2100", TX.String())

	// Odd traces lead the encoding
	require.Equal(t, byte(0), lsm[0])

	require.ErrorIs(t, TY.InitFromTracesLSM(TracesLSM{0x80}), ErrUnmarshal)
}

func TestRotation(t *testing.T) {
	r := Rotation{5, 1, 4}
	require.Equal(t, 2, r.IndexOf(4))
	require.Equal(t, -1, r.IndexOf(0))
	require.Equal(t, 1, r.Count(1))
	require.Equal(t, VtxID(5), r.Successor(2))
	require.Equal(t, VtxID(4), r.Successor(1))
}

func TestCatalogContext(t *testing.T) {
	ctx := NewCatalogContext()
	ctx.Close()
	ctx.Close()
	<-ctx.Done()
}
