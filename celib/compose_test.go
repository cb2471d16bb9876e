package celib_test

import (
	"testing"

	cs "github.com/circsim/circsim"
	"github.com/circsim/circsim/celib"
	"github.com/circsim/circsim/cstest"
	"github.com/stretchr/testify/require"
)

// newAdderDirect wraps celib.NewAdder itself in a NewPartFn, giving
// cstest.ComparePartFns a primitive-based counterpart to check
// celib.NewAdderN's composed ripple-carry chain against.
func newAdderDirect(width int) cs.NewPartFn {
	ins := []cs.PinSpec{{Name: "a", Width: width}, {Name: "b", Width: width}, {Name: "cin", Width: 1}}
	outs := []cs.PinSpec{{Name: "sum", Width: width}, {Name: "cout", Width: 1}}
	return cs.Compose("AdderDirect", ins, outs, func(s *cs.Socket) error {
		a, err := s.Bus("a", width)
		if err != nil {
			return err
		}
		b, err := s.Bus("b", width)
		if err != nil {
			return err
		}
		cin, err := s.Bus("cin", 1)
		if err != nil {
			return err
		}
		sum, err := s.Bus("sum", width)
		if err != nil {
			return err
		}
		cout, err := s.Bus("cout", 1)
		if err != nil {
			return err
		}
		adder, err := celib.NewAdder("adder", a, b, cin, sum, cout, 0)
		if err != nil {
			return err
		}
		return s.AddElement(adder)
	})
}

func TestAdderNMatchesDirectAdderDifferentially(t *testing.T) {
	width := 4
	ins := []cs.PinSpec{{Name: "a", Width: width}, {Name: "b", Width: width}, {Name: "cin", Width: 1}}
	outs := []cs.PinSpec{{Name: "sum", Width: width}, {Name: "cout", Width: 1}}
	cstest.ComparePartFns(t, ins, outs, celib.NewAdderN(width), newAdderDirect(width), 20, 1)
}

func TestRegisterNCapturesOnRisingEdge(t *testing.T) {
	newReg4 := celib.NewRegisterN(4, false)

	c := cs.NewCircuit("register4")
	d, clk, q := c.NewBus(4), c.NewBus(1), c.NewBus(4)
	inst, err := newReg4("reg4", map[string]*cs.Bus{"d": d, "clk": clk}, map[string]*cs.Bus{"q": q}, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddElement(inst))

	dv := cs.MustMake(0b1011, 4)
	d.SetValue(&dv)
	low := cs.Low(1)
	clk.SetValue(&low)
	require.NoError(t, c.Settle())
	require.Equal(t, "0000", q.Value().ToString(2))

	high := cs.High(1)
	clk.SetValue(&high)
	require.NoError(t, c.Settle())
	require.Equal(t, "1011", q.Value().ToString(2))
}

func TestRegisterNNegEdge(t *testing.T) {
	newReg4 := celib.NewRegisterN(4, true)

	c := cs.NewCircuit("register4-neg")
	d, clk, q := c.NewBus(4), c.NewBus(1), c.NewBus(4)
	inst, err := newReg4("reg4", map[string]*cs.Bus{"d": d, "clk": clk}, map[string]*cs.Bus{"q": q}, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddElement(inst))

	dv := cs.MustMake(0b0110, 4)
	d.SetValue(&dv)
	low := cs.Low(1)
	clk.SetValue(&low)
	require.NoError(t, c.Settle())

	high := cs.High(1)
	clk.SetValue(&high)
	require.NoError(t, c.Settle())
	require.Equal(t, "0000", q.Value().ToString(2)) // rising edge, negEdge ignores it

	clk.SetValue(&low)
	require.NoError(t, c.Settle())
	require.Equal(t, "0110", q.Value().ToString(2))
}
