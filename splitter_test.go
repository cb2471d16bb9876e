package circsim_test

import (
	"testing"

	cs "github.com/circsim/circsim"
	"github.com/stretchr/testify/require"
)

func TestSplitterWideToNarrow(t *testing.T) {
	c := cs.NewCircuit("split")
	wide := c.NewBus(8)
	hi, lo := c.NewBus(4), c.NewBus(4)
	s, err := cs.NewSplitter("s", wide, []*cs.Bus{hi, lo}, []int{4, 4}, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddElement(s))

	v := cs.MustMake(0xA5, 8)
	wide.SetValue(&v)
	require.NoError(t, c.Settle())
	// narrow ports are indexed in reverse of natural order (§4.6): the
	// first (lowest-index) port gets wide's least-significant slice.
	require.Equal(t, "0101", hi.Value().ToString(2))
	require.Equal(t, "1010", lo.Value().ToString(2))
}

func TestSplitterNarrowToWide(t *testing.T) {
	c := cs.NewCircuit("merge")
	wide := c.NewBus(8)
	hi, lo := c.NewBus(4), c.NewBus(4)
	s, err := cs.NewSplitter("s", wide, []*cs.Bus{hi, lo}, []int{4, 4}, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddElement(s))

	hiV, loV := cs.MustMake(0x5, 4), cs.MustMake(0xA, 4)
	hi.SetValue(&hiV)
	lo.SetValue(&loV)
	require.NoError(t, c.Settle())
	// lo (the last, highest-index port) supplies the most significant slice.
	require.Equal(t, "10100101", wide.Value().ToString(2))
}

func TestSplitterWidthValidation(t *testing.T) {
	c := cs.NewCircuit("bad-split")
	wide := c.NewBus(8)
	hi, lo := c.NewBus(4), c.NewBus(3)
	_, err := cs.NewSplitter("s", wide, []*cs.Bus{hi, lo}, []int{4, 3}, 0)
	require.Error(t, err)

	_, err = cs.NewSplitter("s", wide, []*cs.Bus{hi, lo}, []int{4, 4}, 0)
	require.Error(t, err)
}

func TestSplitterMappedBitGather(t *testing.T) {
	c := cs.NewCircuit("mapped")
	wide := c.NewBus(4)
	p0, p1 := c.NewBus(2), c.NewBus(2)
	// p0 gathers wide's LSB-indexed bits {0,1}, p1 gathers {2,3}
	s, err := cs.NewMappedSplitter("m", wide, []*cs.Bus{p0, p1}, [][]int{{1, 0}, {3, 2}}, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddElement(s))

	v := cs.MustMake(0b1010, 4)
	wide.SetValue(&v)
	require.NoError(t, c.Settle())
	require.Equal(t, "10", p0.Value().ToString(2))
	require.Equal(t, "10", p1.Value().ToString(2))
}

func TestSplitterContentionDetected(t *testing.T) {
	c := cs.NewCircuit("contend")
	wide := c.NewBus(2)
	hi, lo := c.NewBus(1), c.NewBus(1)
	s, err := cs.NewSplitter("s", wide, []*cs.Bus{hi, lo}, []int{1, 1}, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddElement(s))

	wv := cs.MustMake(0b10, 2)
	hv := cs.MustMake(1, 1)
	lv := cs.MustMake(1, 1)
	// all three set at the exact same timestamp, disagreeing: forces the
	// equal-timestamp contention path rather than a clean direction pick.
	ts := int64(1)
	wide.SetValue(&wv, ts)
	hi.SetValue(&hv, ts)
	lo.SetValue(&lv, ts)

	err = c.Settle()
	require.Error(t, err)
	var contention *cs.SplitterContention
	require.ErrorAs(t, err, &contention)
}
