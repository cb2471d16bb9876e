// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package circsim

// splitDir records which side of a Splitter last drove the other, so
// Outputs() can report the correct data-flow direction (§4.6,
// get_outputs()) and so contention can be detected deterministically.
type splitDir int

const (
	dirNone splitDir = iota
	dirOut           // wide drove narrow
	dirIn            // narrow drove wide
)

// A Splitter is a bidirectional element that splits one wide bus into N
// narrower ones, or merges them back, depending on which side changed
// most recently. It is simultaneously an input and an output of every
// bus it touches, and attaches itself as a listener to all of them
// (incidentBuses), not only to a fixed input set.
//
// Narrow ports are stored in the reverse of their natural left-to-right
// slice order: the first (most-significant) slice of the wide bus maps
// to the highest-indexed narrow port. This convention is preserved
// exactly as documented in §4.6 for compatibility with loaded circuits,
// even though it reads backwards at first glance.
type Splitter struct {
	Base

	wide    *Bus
	narrow  []*Bus
	split   []int
	mapping [][]int // nil in contiguous mode; mapping[i] holds wide LSB indices for port i

	prevWide   *BitValue
	prevNarrow []*BitValue
	lastOp     splitDir
}

// NewSplitter builds a contiguous-slice Splitter: split[i] is the width
// of narrow port i, and sum(split) must equal wide.Width().
func NewSplitter(label string, wide *Bus, narrow []*Bus, split []int, delay int) (*Splitter, error) {
	if len(narrow) != len(split) {
		return nil, NewBadInput("NewSplitter: %d narrow ports but %d split widths", len(narrow), len(split))
	}
	sum := 0
	for i, w := range split {
		if narrow[i].Width() != w {
			return nil, NewWidthMismatch("NewSplitter (port "+labelOrIndex(label, i)+")", w, narrow[i].Width())
		}
		sum += w
	}
	if sum != wide.Width() {
		return nil, NewWidthMismatch("NewSplitter (wide bus)", sum, wide.Width())
	}
	s := &Splitter{
		Base:       NewBase(label, delay, nil, nil),
		wide:       wide,
		narrow:     append([]*Bus(nil), narrow...),
		split:      append([]int(nil), split...),
		prevNarrow: make([]*BitValue, len(narrow)),
	}
	return s, nil
}

// NewMappedSplitter builds a bit-mapping Splitter: mapping[i] lists the
// wide bus's LSB-indexed bit positions carried by narrow port i, in the
// order they appear (MSB-first) in that port's own value. The same wide
// bit may appear in more than one port's mapping; width mismatches
// between a port and len(mapping[i]) are rejected up front.
func NewMappedSplitter(label string, wide *Bus, narrow []*Bus, mapping [][]int, delay int) (*Splitter, error) {
	if len(narrow) != len(mapping) {
		return nil, NewBadInput("NewMappedSplitter: %d narrow ports but %d bit mappings", len(narrow), len(mapping))
	}
	split := make([]int, len(mapping))
	for i, m := range mapping {
		split[i] = len(m)
		if narrow[i].Width() != len(m) {
			return nil, NewWidthMismatch("NewMappedSplitter (port "+labelOrIndex(label, i)+")", len(m), narrow[i].Width())
		}
		for _, idx := range m {
			if idx < 0 || idx >= wide.Width() {
				return nil, NewBadInput("NewMappedSplitter: bit index %d out of range for wide bus of width %d", idx, wide.Width())
			}
		}
	}
	mCopy := make([][]int, len(mapping))
	for i, m := range mapping {
		mCopy[i] = append([]int(nil), m...)
	}
	s := &Splitter{
		Base:       NewBase(label, delay, nil, nil),
		wide:       wide,
		narrow:     append([]*Bus(nil), narrow...),
		split:      split,
		mapping:    mCopy,
		prevNarrow: make([]*BitValue, len(narrow)),
	}
	return s, nil
}

func labelOrIndex(label string, i int) string {
	if label != "" {
		return label
	}
	return "?"
}

// incidentBuses satisfies incidentElement: the splitter listens on the
// wide bus and every narrow port.
func (s *Splitter) incidentBuses() []*Bus {
	out := make([]*Bus, 0, len(s.narrow)+1)
	out = append(out, s.wide)
	out = append(out, s.narrow...)
	return out
}

// Inputs returns every incident bus — both sides are simultaneously
// inputs and outputs of a Splitter, so there is no fixed input set.
func (s *Splitter) Inputs() []*Bus { return s.incidentBuses() }

// Outputs returns the wide bus alone when the narrow side most recently
// drove the wide side, and the narrow ports otherwise — matching §4.6
// and §9's requirement that get_outputs() reflect current data-flow
// direction.
func (s *Splitter) Outputs() []*Bus {
	if s.lastOp == dirIn {
		return []*Bus{s.wide}
	}
	return s.narrow
}

// Resolve implements the §4.6 algorithm: decide direction from which
// side is fully known, or — if both are known — from whichever side's
// last_update is more recent; fault on equal timestamps with disagreeing
// values.
func (s *Splitter) Resolve() int {
	wide := s.wide.Value()
	narrow := make([]*BitValue, len(s.narrow))
	allNarrow := true
	for i, b := range s.narrow {
		narrow[i] = b.Value()
		if narrow[i] == nil {
			allNarrow = false
		}
	}

	switch {
	case wide == nil && allNarrow:
		s.propIn(narrow)
	case wide != nil && !allNarrow:
		s.propOut(*wide)
	case wide != nil && allNarrow:
		assembled, err := s.assemble(narrow)
		if err == nil && assembled.Equals(*wide) {
			// consistent: nothing to propagate
		} else {
			tWide := s.wide.LastUpdate()
			tNarrow := s.minNarrowUpdate()
			switch {
			case tWide > tNarrow:
				s.propOut(*wide)
			case tNarrow > tWide:
				s.propIn(narrow)
			default:
				panic(NewSplitterContention(s.label))
			}
		}
	}

	s.prevWide = s.wide.Value()
	for i, b := range s.narrow {
		s.prevNarrow[i] = b.Value()
	}
	return s.delay
}

func (s *Splitter) minNarrowUpdate() int64 {
	min := int64(-1)
	for _, b := range s.narrow {
		t := b.LastUpdate()
		if min == -1 || (t != -1 && t < min) {
			min = t
		}
	}
	return min
}

// propOut splits wide into the narrow ports: in contiguous mode, the
// most-significant split[N-1]-wide slice goes to narrow[N-1], down to
// the least-significant split[0]-wide slice going to narrow[0]; in
// bit-mapping mode each port gathers its mapped wide bits directly.
func (s *Splitter) propOut(wide BitValue) {
	s.lastOp = dirOut
	if s.mapping == nil {
		offset := 0
		for i := len(s.split) - 1; i >= 0; i-- {
			w := s.split[i]
			slice, err := wide.BitSlice(offset, offset+w)
			if err != nil {
				panic(err)
			}
			s.narrow[i].SetValue(&slice)
			offset += w
		}
		return
	}
	for i, m := range s.mapping {
		v := bitsFromWideLSB(wide, m)
		s.narrow[i].SetValue(&v)
	}
}

// propIn merges the narrow ports into wide.
func (s *Splitter) propIn(narrow []*BitValue) {
	s.lastOp = dirIn
	v, err := s.assemble(narrow)
	if err != nil {
		panic(err)
	}
	s.wide.SetValue(&v)
}

// assemble computes what the wide value should be given the current
// narrow values, without writing anything — used both for the §4.6
// step-4a consistency check and to actually drive propIn.
func (s *Splitter) assemble(narrow []*BitValue) (BitValue, error) {
	for i, nv := range narrow {
		if nv == nil {
			return BitValue{}, NewBadInput("Splitter.assemble: narrow port %d is unset", i)
		}
		if nv.Width() != s.split[i] {
			return BitValue{}, NewWidthMismatch("Splitter.assemble (narrow port)", s.split[i], nv.Width())
		}
	}
	if s.mapping == nil {
		result := *narrow[len(narrow)-1]
		for i := len(narrow) - 2; i >= 0; i-- {
			result = result.Concat(*narrow[i])
		}
		return result, nil
	}
	assigned := make(map[int]int)
	width := s.wide.Width()
	result := Low(width)
	for i, m := range s.mapping {
		for j, wideIdx := range m {
			bit := int(narrow[i].mag.Bit(s.split[i] - 1 - j))
			if prior, ok := assigned[wideIdx]; ok && prior != bit {
				return BitValue{}, NewSplitterContention(s.label)
			}
			assigned[wideIdx] = bit
			if bit != 0 {
				result.mag.SetBit(result.mag, wideIdx, 1)
			}
		}
	}
	return result, nil
}

// bitsFromWideLSB gathers wide's LSB-indexed bits named by idx, in
// order, into a new value MSB-first (idx[0] becomes the result's most
// significant bit) — the propOut half of the bit-mapping mode.
func bitsFromWideLSB(wide BitValue, idx []int) BitValue {
	v := Low(len(idx))
	for j, wideIdx := range idx {
		if wide.mag.Bit(wideIdx) != 0 {
			v.mag.SetBit(v.mag, len(idx)-1-j, 1)
		}
	}
	return v
}

// Reset clears both sides, all cached state, and the direction flag.
func (s *Splitter) Reset() {
	s.wide.Reset()
	for _, b := range s.narrow {
		b.Reset()
	}
	s.prevWide = nil
	for i := range s.prevNarrow {
		s.prevNarrow[i] = nil
	}
	s.lastOp = dirNone
}
