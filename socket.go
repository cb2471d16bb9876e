// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package circsim

// A Socket is a named-bus registry scoped to one Circuit being built by
// Compose: it resolves a sub-part's pin names to concrete buses,
// allocating a new internal bus on first reference and reusing it on
// every later reference to the same name, the way the teacher's own
// Socket.PinOrNew allocates pin numbers lazily while mounting a chip's
// parts.
type Socket struct {
	c     *Circuit
	buses map[string]*Bus
}

func newSocket(c *Circuit) *Socket {
	return &Socket{c: c, buses: make(map[string]*Bus)}
}

// Bus returns the bus registered under name, allocating a fresh
// width-bit bus on c if name hasn't been referenced yet. A name already
// bound to a bus of a different width is an error — two sub-parts
// disagreeing about a shared wire's width is always a wiring mistake.
func (s *Socket) Bus(name string, width int) (*Bus, error) {
	if b, ok := s.buses[name]; ok {
		if b.Width() != width {
			return nil, NewWidthMismatch("wire "+name, b.Width(), width)
		}
		return b, nil
	}
	b := s.c.NewBus(width)
	s.buses[name] = b
	return b, nil
}

// set binds name directly to an existing bus, used by Compose to seed
// the socket with the buses backing a composed element's own declared
// pins before any PartBuilder runs.
func (s *Socket) set(name string, b *Bus) { s.buses[name] = b }

// AddElement registers e with the circuit being built, attaching it to
// its incident buses.
func (s *Socket) AddElement(e Element) error { return s.c.AddElement(e) }
