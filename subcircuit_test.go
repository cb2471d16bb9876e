package circsim_test

import (
	"testing"

	cs "github.com/circsim/circsim"
	"github.com/circsim/circsim/celib"
	"github.com/stretchr/testify/require"
)

// buildInnerHalfAdder builds a standalone half-adder circuit with two
// labeled inputs and two labeled outputs, suitable for wrapping with
// NewSubcircuit.
func buildInnerHalfAdder(t *testing.T) *cs.Circuit {
	t.Helper()
	inner := cs.NewCircuit("")
	a, b := inner.NewBus(1), inner.NewBus(1)
	sum, carry := inner.NewBus(1), inner.NewBus(1)
	require.NoError(t, inner.AddInput("a", celib.NewInputPort("a", a)))
	require.NoError(t, inner.AddInput("b", celib.NewInputPort("b", b)))
	xor, err := celib.NewXor("xor", []*cs.Bus{a, b}, sum, 0)
	require.NoError(t, err)
	and, err := celib.NewAnd("and", []*cs.Bus{a, b}, carry, 0)
	require.NoError(t, err)
	require.NoError(t, inner.AddElement(xor))
	require.NoError(t, inner.AddElement(and))
	require.NoError(t, inner.AddOutput("sum", celib.NewOutputPort("sum", sum)))
	require.NoError(t, inner.AddOutput("carry", celib.NewOutputPort("carry", carry)))
	return inner
}

func TestSubcircuitWrapsInnerCircuit(t *testing.T) {
	outer := cs.NewCircuit("outer")
	a, b := outer.NewBus(1), outer.NewBus(1)
	sum, carry := outer.NewBus(1), outer.NewBus(1)

	inner := buildInnerHalfAdder(t)
	sub, err := cs.NewSubcircuit("half-adder", inner, []*cs.Bus{a, b}, []*cs.Bus{sum, carry}, 0)
	require.NoError(t, err)
	require.NoError(t, outer.AddElement(sub))

	av, bv := cs.MustMake(1, 1), cs.MustMake(1, 1)
	a.SetValue(&av)
	b.SetValue(&bv)
	require.NoError(t, outer.Settle())
	require.Equal(t, "0", sum.Value().ToString(2))
	require.Equal(t, "1", carry.Value().ToString(2))
}

func TestSubcircuitPinCountMismatchRejected(t *testing.T) {
	outer := cs.NewCircuit("outer")
	a := outer.NewBus(1)
	sum, carry := outer.NewBus(1), outer.NewBus(1)

	inner := buildInnerHalfAdder(t)
	_, err := cs.NewSubcircuit("half-adder", inner, []*cs.Bus{a}, []*cs.Bus{sum, carry}, 0)
	require.Error(t, err)
}

func TestSubcircuitResetReinitializes(t *testing.T) {
	outer := cs.NewCircuit("outer")
	a, b := outer.NewBus(1), outer.NewBus(1)
	sum, carry := outer.NewBus(1), outer.NewBus(1)

	inner := buildInnerHalfAdder(t)
	sub, err := cs.NewSubcircuit("half-adder", inner, []*cs.Bus{a, b}, []*cs.Bus{sum, carry}, 0)
	require.NoError(t, err)
	require.NoError(t, outer.AddElement(sub))

	av, bv := cs.MustMake(1, 1), cs.MustMake(0, 1)
	a.SetValue(&av)
	b.SetValue(&bv)
	require.NoError(t, outer.Settle())
	require.Equal(t, "1", sum.Value().ToString(2))

	outer.Reset()
	require.Nil(t, sum.Value())

	av2 := cs.MustMake(0, 1)
	a.SetValue(&av2)
	b.SetValue(&bv)
	require.NoError(t, outer.Settle())
	require.Equal(t, "0", sum.Value().ToString(2))
}
