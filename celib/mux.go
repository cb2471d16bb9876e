// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package celib

import cs "github.com/circsim/circsim"

func ceilLog2(n int) int {
	b := 0
	for (1 << b) < n {
		b++
	}
	return b
}

// Mux selects one of N equal-width data inputs by an unsigned select
// value (§4.3 Mux). An out-of-range select (N not a power of 2) yields
// null.
type Mux struct {
	cs.Base
	data []*cs.Bus
	sel  *cs.Bus
}

// NewMux builds an N-input multiplexer. sel must be wide enough to
// index every data input (⌈log₂N⌉ bits).
func NewMux(label string, data []*cs.Bus, sel *cs.Bus, out *cs.Bus, delay int) (*Mux, error) {
	if len(data) < 2 {
		return nil, cs.NewBadInput("Mux %q requires at least 2 data inputs", label)
	}
	w := out.Width()
	for _, d := range data {
		if d.Width() != w {
			return nil, cs.NewWidthMismatch("Mux (data width)", w, d.Width())
		}
	}
	if need := ceilLog2(len(data)); sel.Width() < need {
		return nil, cs.NewWidthMismatch("Mux (select width)", need, sel.Width())
	}
	ins := append(append([]*cs.Bus(nil), data...), sel)
	return &Mux{Base: cs.NewBase(label, delay, ins, []*cs.Bus{out}), data: data, sel: sel}, nil
}

func (m *Mux) Resolve() int {
	sv := m.sel.Value()
	if sv == nil {
		m.Outputs()[0].SetValue(nil)
		return m.Delay()
	}
	idx := int(sv.Uint64())
	if idx < 0 || idx >= len(m.data) {
		m.Outputs()[0].SetValue(nil)
		return m.Delay()
	}
	m.Outputs()[0].SetValue(m.data[idx].Value())
	return m.Delay()
}

func (m *Mux) Reset() { m.ResetOutputs() }

// Demux routes one data input to one of N equal-width outputs chosen by
// an unsigned select value; every other output is driven to zero
// (§4.3 Demux).
type Demux struct {
	cs.Base
	data *cs.Bus
	sel  *cs.Bus
	outs []*cs.Bus
}

// NewDemux builds an N-output demultiplexer.
func NewDemux(label string, data, sel *cs.Bus, outs []*cs.Bus, delay int) (*Demux, error) {
	if len(outs) < 2 {
		return nil, cs.NewBadInput("Demux %q requires at least 2 outputs", label)
	}
	for _, o := range outs {
		if o.Width() != data.Width() {
			return nil, cs.NewWidthMismatch("Demux (output width)", data.Width(), o.Width())
		}
	}
	if need := ceilLog2(len(outs)); sel.Width() < need {
		return nil, cs.NewWidthMismatch("Demux (select width)", need, sel.Width())
	}
	return &Demux{Base: cs.NewBase(label, delay, []*cs.Bus{data, sel}, outs), data: data, sel: sel, outs: outs}, nil
}

func (d *Demux) Resolve() int {
	data, sel := d.data.Value(), d.sel.Value()
	if data == nil || sel == nil {
		for _, o := range d.outs {
			o.SetValue(nil)
		}
		return d.Delay()
	}
	idx := int(sel.Uint64())
	zero := cs.Low(d.data.Width())
	for i, o := range d.outs {
		if i == idx {
			o.SetValue(data)
		} else {
			o.SetValue(&zero)
		}
	}
	return d.Delay()
}

func (d *Demux) Reset() { d.ResetOutputs() }

// Decoder turns a k-bit input into 2^k one-bit outputs, with exactly the
// output matching the input's unsigned value driven high (§4.3 Decoder).
type Decoder struct {
	cs.Base
	in   *cs.Bus
	outs []*cs.Bus
}

// NewDecoder builds a decoder for a k-bit input, producing 2^k outputs.
func NewDecoder(label string, in *cs.Bus, outs []*cs.Bus, delay int) (*Decoder, error) {
	want := 1 << uint(in.Width())
	if len(outs) != want {
		return nil, cs.NewBadInput("Decoder %q: %d-bit input needs %d outputs, got %d", label, in.Width(), want, len(outs))
	}
	for _, o := range outs {
		if o.Width() != 1 {
			return nil, cs.NewWidthMismatch("Decoder (output width)", 1, o.Width())
		}
	}
	return &Decoder{Base: cs.NewBase(label, delay, []*cs.Bus{in}, outs), in: in, outs: outs}, nil
}

func (d *Decoder) Resolve() int {
	v := d.in.Value()
	if v == nil {
		for _, o := range d.outs {
			o.SetValue(nil)
		}
		return d.Delay()
	}
	idx := int(v.Uint64())
	low, high := cs.Low(1), cs.High(1)
	for i, o := range d.outs {
		if i == idx {
			o.SetValue(&high)
		} else {
			o.SetValue(&low)
		}
	}
	return d.Delay()
}

func (d *Decoder) Reset() { d.ResetOutputs() }

// PriorityEncoder drives a k-bit output encoding the highest-index set
// bit among N one-bit inputs, while enable is high; otherwise the output
// is null (§4.3 PriorityEncoder).
type PriorityEncoder struct {
	cs.Base
	data   []*cs.Bus
	enable *cs.Bus
}

// NewPriorityEncoder builds an N-input priority encoder.
func NewPriorityEncoder(label string, data []*cs.Bus, enable, out *cs.Bus, delay int) (*PriorityEncoder, error) {
	for _, d := range data {
		if d.Width() != 1 {
			return nil, cs.NewWidthMismatch("PriorityEncoder (data width)", 1, d.Width())
		}
	}
	if need := ceilLog2(len(data)); out.Width() < need {
		return nil, cs.NewWidthMismatch("PriorityEncoder (output width)", need, out.Width())
	}
	ins := append(append([]*cs.Bus(nil), data...), enable)
	return &PriorityEncoder{Base: cs.NewBase(label, delay, ins, []*cs.Bus{out}), data: data, enable: enable}, nil
}

func (p *PriorityEncoder) Resolve() int {
	ev := p.enable.Value()
	if ev == nil || ev.IsZero() {
		p.Outputs()[0].SetValue(nil)
		return p.Delay()
	}
	best := -1
	for i, d := range p.data {
		v := d.Value()
		if v != nil && !v.IsZero() {
			best = i
		}
	}
	var result cs.BitValue
	if best < 0 {
		result = cs.Low(p.Outputs()[0].Width())
	} else {
		result = cs.MustMake(int64(best), p.Outputs()[0].Width())
	}
	p.Outputs()[0].SetValue(&result)
	return p.Delay()
}

func (p *PriorityEncoder) Reset() { p.ResetOutputs() }

// BitSelector extracts one bit of a W-bit input, chosen by an
// MSB-first selector index — the same convention BitValue uses
// throughout (§4.3 BitSelector, §4.1's MSB-first commitment).
type BitSelector struct {
	cs.Base
	in  *cs.Bus
	sel *cs.Bus
}

// NewBitSelector builds a bit selector over a W-bit input.
func NewBitSelector(label string, in, sel, out *cs.Bus, delay int) (*BitSelector, error) {
	if out.Width() != 1 {
		return nil, cs.NewWidthMismatch("BitSelector (output width)", 1, out.Width())
	}
	if need := ceilLog2(in.Width()); sel.Width() < need {
		return nil, cs.NewWidthMismatch("BitSelector (selector width)", need, sel.Width())
	}
	return &BitSelector{Base: cs.NewBase(label, delay, []*cs.Bus{in, sel}, []*cs.Bus{out}), in: in, sel: sel}, nil
}

func (b *BitSelector) Resolve() int {
	iv, sv := b.in.Value(), b.sel.Value()
	if iv == nil || sv == nil {
		b.Outputs()[0].SetValue(nil)
		return b.Delay()
	}
	idx := int(sv.Uint64())
	if idx < 0 || idx >= b.in.Width() {
		b.Outputs()[0].SetValue(nil)
		return b.Delay()
	}
	bit, err := iv.BitSlice(idx, idx+1)
	if err != nil {
		panic(err)
	}
	b.Outputs()[0].SetValue(&bit)
	return b.Delay()
}

func (b *BitSelector) Reset() { b.ResetOutputs() }
