// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package circsim

// A Bus (also called a Wire) carries either no value or a BitValue of a
// fixed width. Buses that share a logical net are linked via Connect;
// setting a value on one observably sets the same value on every bus in
// that transitively-connected group.
type Bus struct {
	id       int
	width    int
	value    *BitValue
	lastUpd  int64
	siblings []*Bus
	attached []attachment
	circuit  *Circuit
}

type attachment struct {
	elem  Element
	delay int
}

func newBus(c *Circuit, id, width int) *Bus {
	return &Bus{id: id, width: width, lastUpd: -1, circuit: c}
}

// ID returns the bus's circuit-unique id.
func (b *Bus) ID() int { return b.id }

// Width returns the bus's current width.
func (b *Bus) Width() int { return b.width }

// Value returns the bus's current value, or nil if unset.
func (b *Bus) Value() *BitValue { return b.value }

// LastUpdate returns the timestamp of the bus's most recent value change,
// or -1 if the bus was never set.
func (b *Bus) LastUpdate() int64 { return b.lastUpd }

// SetWidth widens a bus before simulation begins. Narrowing is not
// permitted and returns an error.
func (b *Bus) SetWidth(w int) error {
	if w < b.width {
		return NewWidthMismatch("Bus.SetWidth (narrowing not permitted)", b.width, w)
	}
	b.width = w
	return nil
}

// Connect links b and other so that they share the same logical net. It is
// idempotent and a no-op when called on a bus with itself.
func (b *Bus) Connect(other *Bus) {
	if b == other {
		return
	}
	for _, s := range b.siblings {
		if s == other {
			return
		}
	}
	b.siblings = append(b.siblings, other)
	other.siblings = append(other.siblings, b)
}

// connectedGroup returns every bus transitively reachable from b
// (including b itself) via Connect links, using an iterative worklist to
// avoid recursion blowup on long bus chains.
func (b *Bus) connectedGroup() []*Bus {
	visited := map[*Bus]bool{b: true}
	group := []*Bus{b}
	work := []*Bus{b}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		for _, s := range cur.siblings {
			if !visited[s] {
				visited[s] = true
				group = append(group, s)
				work = append(work, s)
			}
		}
	}
	return group
}

// attach registers e to be resolved, with the given propagation delay,
// whenever b's value changes.
func (b *Bus) attach(e Element, delay int) {
	b.attached = append(b.attached, attachment{elem: e, delay: delay})
}

// SetValue writes value to b, and to every bus transitively connected to
// it, timestamping the change and enqueueing every attached element for
// re-resolution. If value already equals b's current value the call is a
// no-op: same-value writes never advance last_update or enqueue anything.
// ts defaults to the owning circuit's monotonic event counter.
func (b *Bus) SetValue(value *BitValue, ts ...int64) {
	if equalBitValuePtr(b.value, value) {
		return
	}
	t := int64(-1)
	if len(ts) == 1 {
		t = ts[0]
	} else if b.circuit != nil {
		t = b.circuit.nextTimestamp()
	}
	for _, sib := range b.connectedGroup() {
		sib.value = value
		sib.lastUpd = t
		for _, a := range sib.attached {
			if b.circuit != nil {
				b.circuit.schedule(a.elem, a.delay)
			}
		}
	}
}

// Reset clears b's value and last-update timestamp.
func (b *Bus) Reset() {
	b.value = nil
	b.lastUpd = -1
}

func equalBitValuePtr(a, b *BitValue) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equals(*b)
}
