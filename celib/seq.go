// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package celib

import (
	"math/rand"

	cs "github.com/circsim/circsim"
)

// edgeDetector tracks a clock bus's previous level across resolves so a
// sequential element can tell a rising or falling transition from a
// level that merely got re-resolved without changing (§4.4: "record the
// previous clock value on each resolve()").
type edgeDetector struct {
	prev bool
	seen bool
}

func (e *edgeDetector) transition(clk *cs.Bus) (high, rose, fell bool) {
	v := clk.Value()
	high = v != nil && !v.IsZero()
	if e.seen {
		rose = high && !e.prev
		fell = !high && e.prev
	}
	e.prev = high
	e.seen = true
	return
}

func (e *edgeDetector) reset() { e.prev, e.seen = false, false }

func boolBit(b bool) cs.BitValue {
	if b {
		return cs.High(1)
	}
	return cs.Low(1)
}

func highBus(b *cs.Bus) bool {
	v := b.Value()
	return v != nil && !v.IsZero()
}

// DFF is a positive-edge D flip-flop with enable and synchronous
// reset/preset (§4.4 D flip-flop). reset and en may be nil, meaning
// "never resets"/"always enabled".
type DFF struct {
	cs.Base
	d, clk, en, reset *cs.Bus
	q, qn             *cs.Bus
	preset            cs.BitValue
	ed                edgeDetector
	state             cs.BitValue
}

// NewDFF builds a D flip-flop. preset is the value Q is forced to while
// reset is asserted.
func NewDFF(label string, d, clk, en, reset, q, qn *cs.Bus, preset cs.BitValue, delay int) (*DFF, error) {
	if d.Width() != q.Width() || q.Width() != qn.Width() {
		return nil, cs.NewWidthMismatch("DFF", d.Width(), q.Width())
	}
	ins := []*cs.Bus{d, clk}
	if en != nil {
		ins = append(ins, en)
	}
	if reset != nil {
		ins = append(ins, reset)
	}
	return &DFF{
		Base: cs.NewBase(label, delay, ins, []*cs.Bus{q, qn}),
		d:    d, clk: clk, en: en, reset: reset, q: q, qn: qn,
		preset: preset, state: cs.Low(d.Width()),
	}, nil
}

func (f *DFF) Resolve() int {
	if f.reset != nil && highBus(f.reset) {
		f.state = f.preset
	} else {
		_, rose, _ := f.ed.transition(f.clk)
		if rose && (f.en == nil || highBus(f.en)) {
			if v := f.d.Value(); v != nil {
				f.state = *v
			}
		}
	}
	qn := f.state.Not()
	f.q.SetValue(&f.state)
	f.qn.SetValue(&qn)
	return f.Delay()
}

// Initialize sets Q directly, bypassing the clock (§4.4).
func (f *DFF) Initialize(v cs.BitValue) {
	f.state = v
	qn := v.Not()
	f.q.SetValue(&f.state)
	f.qn.SetValue(&qn)
}

func (f *DFF) Reset() {
	f.state = cs.Low(f.d.Width())
	f.ed.reset()
	f.ResetOutputs()
}

// TFF is a positive-edge T flip-flop: Q := ¬T on each enabled rising
// edge (§4.4 T flip-flop).
type TFF struct {
	cs.Base
	t, clk, en *cs.Bus
	q          *cs.Bus
	ed         edgeDetector
	state      bool
}

// NewTFF builds a 1-bit T flip-flop.
func NewTFF(label string, t, clk, en, q *cs.Bus, delay int) (*TFF, error) {
	if t.Width() != 1 || q.Width() != 1 {
		return nil, cs.NewWidthMismatch("TFF", 1, t.Width())
	}
	ins := []*cs.Bus{t, clk}
	if en != nil {
		ins = append(ins, en)
	}
	return &TFF{Base: cs.NewBase(label, delay, ins, []*cs.Bus{q}), t: t, clk: clk, en: en, q: q}, nil
}

func (f *TFF) Resolve() int {
	_, rose, _ := f.ed.transition(f.clk)
	if rose && (f.en == nil || highBus(f.en)) {
		f.state = !highBus(f.t)
	}
	v := boolBit(f.state)
	f.q.SetValue(&v)
	return f.Delay()
}

// Initialize sets Q directly, bypassing the clock.
func (f *TFF) Initialize(v cs.BitValue) {
	f.state = !v.IsZero()
	f.q.SetValue(&v)
}

func (f *TFF) Reset() {
	f.state = false
	f.ed.reset()
	f.ResetOutputs()
}

// JKFF is a positive-edge JK flip-flop (§4.4 JK flip-flop): J=K=0 holds,
// J=1 sets, K=1 resets, J=K=1 toggles.
type JKFF struct {
	cs.Base
	j, k, clk *cs.Bus
	q, qn     *cs.Bus
	ed        edgeDetector
	state     bool
}

// NewJKFF builds a 1-bit JK flip-flop.
func NewJKFF(label string, j, k, clk, q, qn *cs.Bus, delay int) (*JKFF, error) {
	if j.Width() != 1 || k.Width() != 1 || q.Width() != 1 {
		return nil, cs.NewWidthMismatch("JKFF", 1, j.Width())
	}
	return &JKFF{Base: cs.NewBase(label, delay, []*cs.Bus{j, k, clk}, []*cs.Bus{q, qn}), j: j, k: k, clk: clk, q: q, qn: qn}, nil
}

func (f *JKFF) Resolve() int {
	_, rose, _ := f.ed.transition(f.clk)
	if rose {
		jv, kv := highBus(f.j), highBus(f.k)
		switch {
		case jv && kv:
			f.state = !f.state
		case jv:
			f.state = true
		case kv:
			f.state = false
		}
	}
	q := boolBit(f.state)
	qn := boolBit(!f.state)
	f.q.SetValue(&q)
	f.qn.SetValue(&qn)
	return f.Delay()
}

// Initialize sets Q directly, bypassing the clock.
func (f *JKFF) Initialize(v cs.BitValue) {
	f.state = !v.IsZero()
	q := boolBit(f.state)
	qn := boolBit(!f.state)
	f.q.SetValue(&q)
	f.qn.SetValue(&qn)
}

func (f *JKFF) Reset() {
	f.state = false
	f.ed.reset()
	f.ResetOutputs()
}

// SRLatch is a level-sensitive SR latch. S=1,R=0 sets; S=0,R=1 resets;
// S=0,R=0 holds. S=1,R=1 is documented here as "hold" — the spec leaves
// this case to the implementer's explicit choice (§4.4, §9).
type SRLatch struct {
	cs.Base
	s, r  *cs.Bus
	q, qn *cs.Bus
	state bool
}

// NewSRLatch builds a 1-bit SR latch.
func NewSRLatch(label string, s, r, q, qn *cs.Bus, delay int) (*SRLatch, error) {
	if s.Width() != 1 || r.Width() != 1 {
		return nil, cs.NewWidthMismatch("SRLatch", 1, s.Width())
	}
	return &SRLatch{Base: cs.NewBase(label, delay, []*cs.Bus{s, r}, []*cs.Bus{q, qn}), s: s, r: r, q: q, qn: qn}, nil
}

func (l *SRLatch) Resolve() int {
	sv, rv := highBus(l.s), highBus(l.r)
	switch {
	case sv && !rv:
		l.state = true
	case rv && !sv:
		l.state = false
	}
	q := boolBit(l.state)
	qn := boolBit(!l.state)
	l.q.SetValue(&q)
	l.qn.SetValue(&qn)
	return l.Delay()
}

func (l *SRLatch) Initialize(v cs.BitValue) {
	l.state = !v.IsZero()
	q := boolBit(l.state)
	qn := boolBit(!l.state)
	l.q.SetValue(&q)
	l.qn.SetValue(&qn)
}

func (l *SRLatch) Reset() {
	l.state = false
	l.ResetOutputs()
}

// DLatch is the textbook level-sensitive D latch: transparent while
// clock (enable) is high, holding its last value while low. This is the
// default constructor; NewDLatchEdgeTriggered exposes the source's
// divergent as-shipped behavior instead (§4.4, §9 open question — kept,
// not discarded, so existing fixtures relying on either reading remain
// expressible).
type DLatch struct {
	cs.Base
	d, en *cs.Bus
	q     *cs.Bus
	state cs.BitValue
}

// NewDLatch builds a transparent-while-high D latch.
func NewDLatch(label string, d, en, q *cs.Bus, delay int) (*DLatch, error) {
	if d.Width() != q.Width() {
		return nil, cs.NewWidthMismatch("DLatch", d.Width(), q.Width())
	}
	return &DLatch{Base: cs.NewBase(label, delay, []*cs.Bus{d, en}, []*cs.Bus{q}), d: d, en: en, q: q, state: cs.Low(d.Width())}, nil
}

func (l *DLatch) Resolve() int {
	if highBus(l.en) {
		if v := l.d.Value(); v != nil {
			l.state = *v
		}
	}
	l.q.SetValue(&l.state)
	return l.Delay()
}

func (l *DLatch) Initialize(v cs.BitValue) {
	l.state = v
	l.q.SetValue(&l.state)
}

func (l *DLatch) Reset() {
	l.state = cs.Low(l.d.Width())
	l.ResetOutputs()
}

// DLatchEdgeTriggered reproduces the source's as-shipped D-latch
// behavior: Q := ¬D on the enable signal's rising edge, rather than the
// textbook transparent-while-high semantics (§9 open question).
type DLatchEdgeTriggered struct {
	cs.Base
	d, en *cs.Bus
	q     *cs.Bus
	ed    edgeDetector
	state cs.BitValue
}

// NewDLatchEdgeTriggered builds the source-faithful variant.
func NewDLatchEdgeTriggered(label string, d, en, q *cs.Bus, delay int) (*DLatchEdgeTriggered, error) {
	if d.Width() != q.Width() {
		return nil, cs.NewWidthMismatch("DLatchEdgeTriggered", d.Width(), q.Width())
	}
	return &DLatchEdgeTriggered{Base: cs.NewBase(label, delay, []*cs.Bus{d, en}, []*cs.Bus{q}), d: d, en: en, q: q, state: cs.Low(d.Width())}, nil
}

func (l *DLatchEdgeTriggered) Resolve() int {
	_, rose, _ := l.ed.transition(l.en)
	if rose {
		if v := l.d.Value(); v != nil {
			l.state = v.Not()
		}
	}
	l.q.SetValue(&l.state)
	return l.Delay()
}

func (l *DLatchEdgeTriggered) Initialize(v cs.BitValue) {
	l.state = v
	l.q.SetValue(&l.state)
}

func (l *DLatchEdgeTriggered) Reset() {
	l.state = cs.Low(l.d.Width())
	l.ed.reset()
	l.ResetOutputs()
}

// Register is JLS-style configurable-edge D storage of width W (§4.4
// Register): positive-edge by default, negative-edge when negEdge is
// true.
type Register struct {
	cs.Base
	d, clk  *cs.Bus
	q       *cs.Bus
	negEdge bool
	ed      edgeDetector
	state   cs.BitValue
}

// NewRegister builds a width-W register, triggered on the rising edge
// unless negEdge is true.
func NewRegister(label string, d, clk, q *cs.Bus, negEdge bool, delay int) (*Register, error) {
	if d.Width() != q.Width() {
		return nil, cs.NewWidthMismatch("Register", d.Width(), q.Width())
	}
	return &Register{Base: cs.NewBase(label, delay, []*cs.Bus{d, clk}, []*cs.Bus{q}), d: d, clk: clk, q: q, negEdge: negEdge, state: cs.Low(d.Width())}, nil
}

func (r *Register) Resolve() int {
	_, rose, fell := r.ed.transition(r.clk)
	triggered := rose
	if r.negEdge {
		triggered = fell
	}
	if triggered {
		if v := r.d.Value(); v != nil {
			r.state = *v
		}
	}
	r.q.SetValue(&r.state)
	return r.Delay()
}

func (r *Register) Initialize(v cs.BitValue) {
	r.state = v
	r.q.SetValue(&r.state)
}

func (r *Register) Reset() {
	r.state = cs.Low(r.d.Width())
	r.ed.reset()
	r.ResetOutputs()
}

// Clock is a free-running clock source driven externally by Toggle
// (Circuit's clocked-run loop calls it once per half-cycle). It never
// changes state on its own.
type Clock struct {
	cs.Base
	out  *cs.Bus
	high bool
}

// NewClock builds a clock element driving a single 1-bit output.
func NewClock(label string, out *cs.Bus, delay int) (*Clock, error) {
	if out.Width() != 1 {
		return nil, cs.NewWidthMismatch("Clock", 1, out.Width())
	}
	return &Clock{Base: cs.NewBase(label, delay, nil, []*cs.Bus{out}), out: out}, nil
}

// Toggle flips the clock's level and drives it onto the output bus.
func (c *Clock) Toggle() {
	c.high = !c.high
	v := boolBit(c.high)
	c.out.SetValue(&v)
}

func (c *Clock) Resolve() int { return c.Delay() }

func (c *Clock) Reset() {
	c.high = false
	c.ResetOutputs()
}

// Counter increments modulo maxValue on each clock rise, with a
// synchronous reset to 0 and a separate one-bit "zero" indicator
// (§4.3 Counter).
type Counter struct {
	cs.Base
	clk, reset *cs.Bus
	out, zero  *cs.Bus
	maxValue   int64
	value      int64
	ed         edgeDetector
}

// NewCounter builds a counter that wraps at maxValue (exclusive).
func NewCounter(label string, clk, reset, out, zero *cs.Bus, maxValue int64, delay int) (*Counter, error) {
	if zero.Width() != 1 {
		return nil, cs.NewWidthMismatch("Counter (zero width)", 1, zero.Width())
	}
	ins := []*cs.Bus{clk}
	if reset != nil {
		ins = append(ins, reset)
	}
	return &Counter{Base: cs.NewBase(label, delay, ins, []*cs.Bus{out, zero}), clk: clk, reset: reset, out: out, zero: zero, maxValue: maxValue}, nil
}

func (c *Counter) Resolve() int {
	if c.reset != nil && highBus(c.reset) {
		c.value = 0
	} else {
		_, rose, _ := c.ed.transition(c.clk)
		if rose {
			c.value = (c.value + 1) % c.maxValue
		}
	}
	outVal := cs.MustMake(c.value, c.out.Width())
	zeroVal := boolBit(c.value == 0)
	c.out.SetValue(&outVal)
	c.zero.SetValue(&zeroVal)
	return c.Delay()
}

func (c *Counter) Reset() {
	c.value = 0
	c.ed.reset()
	c.ResetOutputs()
}

// Random drives a uniformly distributed value in [0, maxValue] on each
// clock rise (§4.3 Random). Seeded explicitly by the caller rather than
// from wall-clock time, so a loaded circuit's behavior stays
// reproducible across runs.
type Random struct {
	cs.Base
	clk      *cs.Bus
	out      *cs.Bus
	maxValue int64
	rng      *rand.Rand
	ed       edgeDetector
}

// NewRandom builds a clock-driven random source, seeded by seed.
func NewRandom(label string, clk, out *cs.Bus, maxValue, seed int64, delay int) *Random {
	return &Random{
		Base: cs.NewBase(label, delay, []*cs.Bus{clk}, []*cs.Bus{out}),
		clk:  clk, out: out, maxValue: maxValue, rng: rand.New(rand.NewSource(seed)),
	}
}

func (r *Random) Resolve() int {
	_, rose, _ := r.ed.transition(r.clk)
	if rose {
		n := r.rng.Int63n(r.maxValue + 1)
		v := cs.MustMake(n, r.out.Width())
		r.out.SetValue(&v)
	}
	return r.Delay()
}

func (r *Random) Reset() {
	r.ed.reset()
	r.ResetOutputs()
}
