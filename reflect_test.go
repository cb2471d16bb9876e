package circsim_test

import (
	"testing"

	cs "github.com/circsim/circsim"
	"github.com/stretchr/testify/require"
)

// reflectedNot is a user-defined element built via MakeElement instead
// of embedding cs.Base directly — the escape hatch for one-off
// components that don't warrant their own hand-written accessors.
type reflectedNot struct {
	In  *cs.Bus `ce:"in"`
	Out *cs.Bus `ce:"out"`
}

func (n *reflectedNot) Resolve() int {
	v := n.In.Value()
	if v == nil {
		n.Out.SetValue(nil)
		return 0
	}
	out := v.Not()
	n.Out.SetValue(&out)
	return 0
}

func (n *reflectedNot) Reset() { n.Out.Reset() }

func TestMakeElementDerivesPinsFromTags(t *testing.T) {
	c := cs.NewCircuit("reflected")
	in, out := c.NewBus(1), c.NewBus(1)
	r := &reflectedNot{In: in, Out: out}
	e, err := cs.MakeElement("not", 1, r)
	require.NoError(t, err)
	require.Equal(t, "not", e.Label())
	require.Equal(t, []*cs.Bus{in}, e.Inputs())
	require.Equal(t, []*cs.Bus{out}, e.Outputs())
	require.NoError(t, c.AddElement(e))

	v := cs.MustMake(1, 1)
	in.SetValue(&v)
	require.NoError(t, c.Settle())
	require.Equal(t, "0", out.Value().ToString(2))
}

func TestMakeElementRejectsNonStruct(t *testing.T) {
	_, err := cs.MakeElement("bad", 0, (*reflectedNot)(nil))
	require.Error(t, err)
}

type badTaggedField struct {
	In int `ce:"in"`
}

func (badTaggedField) Resolve() int { return 0 }
func (badTaggedField) Reset()       {}

func TestMakeElementRejectsNonBusField(t *testing.T) {
	_, err := cs.MakeElement("bad", 0, badTaggedField{})
	require.Error(t, err)
}

func TestMakeElementInitializeRequiresSupport(t *testing.T) {
	c := cs.NewCircuit("reflected-init")
	in, out := c.NewBus(1), c.NewBus(1)
	e, err := cs.MakeElement("not", 0, &reflectedNot{In: in, Out: out})
	require.NoError(t, err)
	init, ok := e.(cs.Initializer)
	require.True(t, ok)
	require.Panics(t, func() { init.Initialize(cs.Low(1)) })
}
