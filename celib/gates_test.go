package celib_test

import (
	"testing"

	cs "github.com/circsim/circsim"
	"github.com/circsim/circsim/celib"
	"github.com/stretchr/testify/require"
)

func settle(t *testing.T, c *cs.Circuit) {
	t.Helper()
	require.NoError(t, c.Settle())
}

func TestGateTruthTables(t *testing.T) {
	cases := []struct {
		name   string
		build  func(label string, ins []*cs.Bus, out *cs.Bus, delay int) (*celib.Gate, error)
		a, b   int64
		result string
	}{
		{"and-00", celib.NewAnd, 0, 0, "0"},
		{"and-11", celib.NewAnd, 1, 1, "1"},
		{"or-00", celib.NewOr, 0, 0, "0"},
		{"or-10", celib.NewOr, 1, 0, "1"},
		{"xor-11", celib.NewXor, 1, 1, "0"},
		{"xor-10", celib.NewXor, 1, 0, "1"},
		{"nand-11", celib.NewNand, 1, 1, "0"},
		{"nor-00", celib.NewNor, 0, 0, "1"},
		{"xnor-10", celib.NewXnor, 1, 0, "0"},
		{"xnor-11", celib.NewXnor, 1, 1, "1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := cs.NewCircuit(tc.name)
			a, b, out := c.NewBus(1), c.NewBus(1), c.NewBus(1)
			g, err := tc.build(tc.name, []*cs.Bus{a, b}, out, 0)
			require.NoError(t, err)
			require.NoError(t, c.AddElement(g))
			av, bv := cs.MustMake(tc.a, 1), cs.MustMake(tc.b, 1)
			a.SetValue(&av)
			b.SetValue(&bv)
			settle(t, c)
			require.Equal(t, tc.result, out.Value().ToString(2))
		})
	}
}

func TestNotAndBuffer(t *testing.T) {
	c := cs.NewCircuit("not-buf")
	in, notOut, bufOut := c.NewBus(1), c.NewBus(1), c.NewBus(1)
	notGate, err := celib.NewNot("not", in, notOut, 0)
	require.NoError(t, err)
	bufGate, err := celib.NewBuffer("buf", in, bufOut, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddElement(notGate))
	require.NoError(t, c.AddElement(bufGate))

	v := cs.MustMake(1, 1)
	in.SetValue(&v)
	settle(t, c)
	require.Equal(t, "0", notOut.Value().ToString(2))
	require.Equal(t, "1", bufOut.Value().ToString(2))
}

func TestGateNullPropagation(t *testing.T) {
	c := cs.NewCircuit("null-prop")
	a, b, out := c.NewBus(1), c.NewBus(1), c.NewBus(1)
	g, err := celib.NewAnd("and", []*cs.Bus{a, b}, out, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddElement(g))

	av := cs.MustMake(1, 1)
	a.SetValue(&av)
	settle(t, c)
	require.Nil(t, out.Value())
}

func TestGateWidthMismatchRejected(t *testing.T) {
	c := cs.NewCircuit("width-mismatch")
	a, b, out := c.NewBus(2), c.NewBus(1), c.NewBus(2)
	_, err := celib.NewAnd("and", []*cs.Bus{a, b}, out, 0)
	require.Error(t, err)
}

func TestGateRequiresMinInputs(t *testing.T) {
	c := cs.NewCircuit("min-inputs")
	a, out := c.NewBus(1), c.NewBus(1)
	_, err := celib.NewAnd("and", []*cs.Bus{a}, out, 0)
	require.Error(t, err)
}
