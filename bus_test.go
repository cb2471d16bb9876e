package circsim_test

import (
	"testing"

	cs "github.com/circsim/circsim"
	"github.com/circsim/circsim/celib"
	"github.com/stretchr/testify/require"
)

func TestBusSetValueSchedulesAttached(t *testing.T) {
	c := cs.NewCircuit("bus-attach")
	a, out := c.NewBus(1), c.NewBus(1)
	g, err := celib.NewNot("not", a, out, 1)
	require.NoError(t, err)
	require.NoError(t, c.AddElement(g))

	one := cs.MustMake(1, 1)
	a.SetValue(&one)
	require.NoError(t, c.Settle())
	require.NotNil(t, out.Value())
	require.Equal(t, "0", out.Value().ToString(2))
}

func TestBusSetValueSameValueIsNoOp(t *testing.T) {
	c := cs.NewCircuit("bus-noop")
	a := c.NewBus(4)
	v := cs.MustMake(5, 4)
	a.SetValue(&v)
	before := a.LastUpdate()
	a.SetValue(&v)
	require.Equal(t, before, a.LastUpdate())
}

func TestBusConnectSharesValue(t *testing.T) {
	c := cs.NewCircuit("bus-connect")
	a, b := c.NewBus(4), c.NewBus(4)
	a.Connect(b)
	v := cs.MustMake(9, 4)
	a.SetValue(&v)
	require.NotNil(t, b.Value())
	require.True(t, b.Value().Equals(v))

	// connecting to self and re-connecting is a no-op, not a duplicate link
	a.Connect(a)
	a.Connect(b)
}

func TestBusSetWidthNarrowingRejected(t *testing.T) {
	c := cs.NewCircuit("bus-width")
	b := c.NewBus(4)
	require.NoError(t, b.SetWidth(8))
	require.Equal(t, 8, b.Width())
	require.Error(t, b.SetWidth(2))
}

func TestBusResetClearsValueAndTimestamp(t *testing.T) {
	c := cs.NewCircuit("bus-reset")
	b := c.NewBus(1)
	v := cs.MustMake(1, 1)
	b.SetValue(&v)
	require.NotNil(t, b.Value())
	b.Reset()
	require.Nil(t, b.Value())
	require.Equal(t, int64(-1), b.LastUpdate())
}
