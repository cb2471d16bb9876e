package celib_test

import (
	"testing"

	cs "github.com/circsim/circsim"
	"github.com/circsim/circsim/celib"
	"github.com/stretchr/testify/require"
)

func pulse(t *testing.T, c *cs.Circuit, clk *cs.Bus) {
	t.Helper()
	low, high := cs.Low(1), cs.High(1)
	clk.SetValue(&high)
	require.NoError(t, c.Settle())
	clk.SetValue(&low)
	require.NoError(t, c.Settle())
}

func TestDFFCapturesOnRisingEdge(t *testing.T) {
	c := cs.NewCircuit("dff")
	d, clk, q, qn := c.NewBus(1), c.NewBus(1), c.NewBus(1), c.NewBus(1)
	f, err := celib.NewDFF("dff", d, clk, nil, nil, q, qn, cs.Low(1), 0)
	require.NoError(t, err)
	require.NoError(t, c.AddElement(f))

	dv := cs.MustMake(1, 1)
	d.SetValue(&dv)
	low := cs.Low(1)
	clk.SetValue(&low)
	require.NoError(t, c.Settle())
	require.Equal(t, "0", q.Value().ToString(2)) // no rising edge yet

	pulse(t, c, clk)
	require.Equal(t, "1", q.Value().ToString(2))
	require.Equal(t, "0", qn.Value().ToString(2))
}

func TestDFFEnableGatesCapture(t *testing.T) {
	c := cs.NewCircuit("dff-en")
	d, clk, en, q, qn := c.NewBus(1), c.NewBus(1), c.NewBus(1), c.NewBus(1), c.NewBus(1)
	f, err := celib.NewDFF("dff", d, clk, en, nil, q, qn, cs.Low(1), 0)
	require.NoError(t, err)
	require.NoError(t, c.AddElement(f))

	dv, enOff := cs.MustMake(1, 1), cs.Low(1)
	d.SetValue(&dv)
	en.SetValue(&enOff)
	low := cs.Low(1)
	clk.SetValue(&low)
	require.NoError(t, c.Settle())
	pulse(t, c, clk)
	require.Equal(t, "0", q.Value().ToString(2))

	enOn := cs.High(1)
	en.SetValue(&enOn)
	pulse(t, c, clk)
	require.Equal(t, "1", q.Value().ToString(2))
}

func TestDFFSyncReset(t *testing.T) {
	c := cs.NewCircuit("dff-reset")
	d, clk, reset, q, qn := c.NewBus(1), c.NewBus(1), c.NewBus(1), c.NewBus(1), c.NewBus(1)
	f, err := celib.NewDFF("dff", d, clk, nil, reset, q, qn, cs.Low(1), 0)
	require.NoError(t, err)
	require.NoError(t, c.AddElement(f))

	dv := cs.MustMake(1, 1)
	d.SetValue(&dv)
	low := cs.Low(1)
	clk.SetValue(&low)
	require.NoError(t, c.Settle())
	pulse(t, c, clk)
	require.Equal(t, "1", q.Value().ToString(2))

	rv := cs.High(1)
	reset.SetValue(&rv)
	require.NoError(t, c.Settle())
	require.Equal(t, "0", q.Value().ToString(2)) // forced to preset, overriding captured 1
}

func TestDFFInitialize(t *testing.T) {
	c := cs.NewCircuit("dff-init")
	d, clk, q, qn := c.NewBus(1), c.NewBus(1), c.NewBus(1), c.NewBus(1)
	f, err := celib.NewDFF("dff", d, clk, nil, nil, q, qn, cs.Low(1), 0)
	require.NoError(t, err)
	f.Initialize(cs.High(1))
	require.Equal(t, "1", q.Value().ToString(2))
	require.Equal(t, "0", qn.Value().ToString(2))
}

func TestTFFSetsQToNotTOnRisingEdge(t *testing.T) {
	c := cs.NewCircuit("tff")
	tIn, clk, q := c.NewBus(1), c.NewBus(1), c.NewBus(1)
	f, err := celib.NewTFF("tff", tIn, clk, nil, q, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddElement(f))

	low, high := cs.Low(1), cs.High(1)
	tIn.SetValue(&low)
	clk.SetValue(&low)
	require.NoError(t, c.Settle())

	pulse(t, c, clk) // T=0 -> Q := 1
	require.Equal(t, "1", q.Value().ToString(2))

	tIn.SetValue(&high)
	pulse(t, c, clk) // T=1 -> Q := 0
	require.Equal(t, "0", q.Value().ToString(2))

	tIn.SetValue(&low)
	pulse(t, c, clk) // T=0 -> Q := 1
	require.Equal(t, "1", q.Value().ToString(2))
}

func TestTFFEnableGatesCapture(t *testing.T) {
	c := cs.NewCircuit("tff-en")
	tIn, clk, en, q := c.NewBus(1), c.NewBus(1), c.NewBus(1), c.NewBus(1)
	f, err := celib.NewTFF("tff", tIn, clk, en, q, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddElement(f))

	low, high := cs.Low(1), cs.High(1)
	tIn.SetValue(&low)
	en.SetValue(&low)
	clk.SetValue(&low)
	require.NoError(t, c.Settle())

	pulse(t, c, clk) // disabled: no change
	require.Equal(t, "0", q.Value().ToString(2))

	en.SetValue(&high)
	pulse(t, c, clk) // enabled, T=0 -> Q := 1
	require.Equal(t, "1", q.Value().ToString(2))
}

func TestJKFFSetResetToggleHold(t *testing.T) {
	c := cs.NewCircuit("jkff")
	j, k, clk, q, qn := c.NewBus(1), c.NewBus(1), c.NewBus(1), c.NewBus(1), c.NewBus(1)
	f, err := celib.NewJKFF("jkff", j, k, clk, q, qn, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddElement(f))

	low, high := cs.Low(1), cs.High(1)
	clk.SetValue(&low)
	require.NoError(t, c.Settle())

	j.SetValue(&high)
	k.SetValue(&low)
	pulse(t, c, clk) // set
	require.Equal(t, "1", q.Value().ToString(2))

	j.SetValue(&low)
	k.SetValue(&high)
	pulse(t, c, clk) // reset
	require.Equal(t, "0", q.Value().ToString(2))

	j.SetValue(&high)
	k.SetValue(&high)
	pulse(t, c, clk) // toggle
	require.Equal(t, "1", q.Value().ToString(2))

	j.SetValue(&low)
	k.SetValue(&low)
	pulse(t, c, clk) // hold
	require.Equal(t, "1", q.Value().ToString(2))
}

func TestSRLatchSetReset(t *testing.T) {
	c := cs.NewCircuit("srlatch")
	s, r, q, qn := c.NewBus(1), c.NewBus(1), c.NewBus(1), c.NewBus(1)
	l, err := celib.NewSRLatch("sr", s, r, q, qn, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddElement(l))

	high, low := cs.High(1), cs.Low(1)
	s.SetValue(&high)
	r.SetValue(&low)
	require.NoError(t, c.Settle())
	require.Equal(t, "1", q.Value().ToString(2))

	s.SetValue(&low)
	r.SetValue(&high)
	require.NoError(t, c.Settle())
	require.Equal(t, "0", q.Value().ToString(2))
}

func TestDLatchTransparentWhileEnabled(t *testing.T) {
	c := cs.NewCircuit("dlatch")
	d, en, q := c.NewBus(1), c.NewBus(1), c.NewBus(1)
	l, err := celib.NewDLatch("dlatch", d, en, q, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddElement(l))

	dv, high, low := cs.High(1), cs.High(1), cs.Low(1)
	d.SetValue(&dv)
	en.SetValue(&low)
	require.NoError(t, c.Settle())
	require.Equal(t, "0", q.Value().ToString(2))

	en.SetValue(&high)
	require.NoError(t, c.Settle())
	require.Equal(t, "1", q.Value().ToString(2))
}

func TestRegisterNegEdge(t *testing.T) {
	c := cs.NewCircuit("register-neg")
	d, clk, q := c.NewBus(4), c.NewBus(1), c.NewBus(4)
	reg, err := celib.NewRegister("reg", d, clk, q, true, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddElement(reg))

	dv := cs.MustMake(5, 4)
	d.SetValue(&dv)
	high := cs.High(1)
	clk.SetValue(&high)
	require.NoError(t, c.Settle())
	require.Equal(t, "0000", q.Value().ToString(2)) // rising edge, not captured

	low := cs.Low(1)
	clk.SetValue(&low)
	require.NoError(t, c.Settle())
	require.Equal(t, "0101", q.Value().ToString(2)) // falling edge captured
}

func TestClockToggle(t *testing.T) {
	c := cs.NewCircuit("clock")
	out := c.NewBus(1)
	clk, err := celib.NewClock("clk", out, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddElement(clk))

	clk.Toggle()
	require.NoError(t, c.Settle())
	require.Equal(t, "1", out.Value().ToString(2))
	clk.Toggle()
	require.NoError(t, c.Settle())
	require.Equal(t, "0", out.Value().ToString(2))
}

func TestCounterWrapsAndResets(t *testing.T) {
	c := cs.NewCircuit("counter")
	clk, reset, out, zero := c.NewBus(1), c.NewBus(1), c.NewBus(4), c.NewBus(1)
	ctr, err := celib.NewCounter("counter", clk, reset, out, zero, 3, 0)
	require.NoError(t, err)
	require.NoError(t, c.AddElement(ctr))

	low := cs.Low(1)
	clk.SetValue(&low)
	require.NoError(t, c.Settle())
	require.Equal(t, "1", zero.Value().ToString(2))

	pulse(t, c, clk)
	require.Equal(t, "0001", out.Value().ToString(2))
	pulse(t, c, clk)
	require.Equal(t, "0010", out.Value().ToString(2))
	pulse(t, c, clk) // wraps modulo 3
	require.Equal(t, "0000", out.Value().ToString(2))
	require.Equal(t, "1", zero.Value().ToString(2))

	rv := cs.High(1)
	reset.SetValue(&rv)
	require.NoError(t, c.Settle())
	require.Equal(t, "0000", out.Value().ToString(2))
}

func TestRandomWithinBounds(t *testing.T) {
	c := cs.NewCircuit("random")
	clk, out := c.NewBus(1), c.NewBus(4)
	r := celib.NewRandom("random", clk, out, 10, 42, 0)
	require.NoError(t, c.AddElement(r))

	low := cs.Low(1)
	clk.SetValue(&low)
	require.NoError(t, c.Settle())

	for i := 0; i < 20; i++ {
		pulse(t, c, clk)
		require.LessOrEqual(t, out.Value().Uint64(), uint64(10))
	}
}
