// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package circsim

// A Subcircuit is an Element that wraps another Circuit, letting loaders
// build hierarchical designs: the outer input buses map positionally to
// the inner circuit's labeled inputs (in registration order), and the
// outer output buses map positionally to the inner circuit's labeled
// outputs, the same way.
//
// The inner circuit is reset once, on the Subcircuit's first Resolve, so
// that any Constant/Power-style elements inside it settle to their
// initial state; after that, each outer Resolve only reseeds the inner
// circuit's inputs and lets its own event queue run to stability — the
// inner circuit's sequential state (registers, counters) persists across
// calls exactly as it would at the top level.
type Subcircuit struct {
	Base

	inner       *Circuit
	initialized bool
}

// NewSubcircuit wraps inner as an Element with the given outer-facing
// input and output buses. len(ins) must equal the number of labeled
// inputs inner has, and likewise for len(outs) and labeled outputs.
func NewSubcircuit(label string, inner *Circuit, ins, outs []*Bus, delay int) (*Subcircuit, error) {
	if len(ins) != len(inner.inputOrder()) {
		return nil, NewBadInput("NewSubcircuit: %d outer inputs but inner circuit has %d labeled inputs", len(ins), len(inner.inputOrder()))
	}
	if len(outs) != len(inner.outputOrder()) {
		return nil, NewBadInput("NewSubcircuit: %d outer outputs but inner circuit has %d labeled outputs", len(outs), len(inner.outputOrder()))
	}
	return &Subcircuit{
		Base:  NewBase(label, delay, ins, outs),
		inner: inner,
	}, nil
}

// Resolve seeds the inner circuit from the outer input buses, settles
// it, and copies its labeled outputs back onto the outer output buses.
// If any outer input is still unset, resolution is skipped entirely and
// outputs are left unchanged (they are not driven to null).
func (s *Subcircuit) Resolve() int {
	if !s.initialized {
		s.inner.Reset()
		s.inner.enqueueAll()
		if err := s.inner.Settle(); err != nil {
			panic(err)
		}
		s.initialized = true
	}

	values := make([]BitValue, len(s.ins))
	for i, b := range s.ins {
		v := b.Value()
		if v == nil {
			return s.delay
		}
		values[i] = *v
	}

	if err := s.inner.seedPositional(values); err != nil {
		panic(err)
	}
	if err := s.inner.Settle(); err != nil {
		panic(err)
	}

	res := s.inner.collectResult()
	for i, label := range s.inner.outputOrder() {
		if v := res.Outputs[label]; v != nil {
			s.outs[i].SetValue(v)
		}
	}
	s.delay = int(res.PropagationDelay)
	return s.delay
}

// Reset resets the inner circuit (clearing its sequential state too)
// and this element's own output buses, and forces the next Resolve to
// re-run the inner circuit's initial settle.
func (s *Subcircuit) Reset() {
	s.inner.Reset()
	s.ResetOutputs()
	s.initialized = false
}
