// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package celib

import (
	cs "github.com/circsim/circsim"
	"github.com/circsim/circsim/cslog"
)

// Memory is the shared ROM/RAM implementation (§4.5): an addressable
// array of W-bit words with chip-select, output-enable, and (for RAM)
// write-enable signals. ROM is a Memory with no data-in bus and writeEn
// left nil — it still honors cs/oe.
type Memory struct {
	cs.Base
	addr, cs_, oe, we, reset *cs.Bus
	dataIn                   *cs.Bus
	dataOut                  *cs.Bus
	words                    []cs.BitValue
	wordWidth                int
	logger                   *cslog.Logger
}

// SetLogger implements cslog.Loggable. An out-of-range access driven
// through the bus protocol (as opposed to the explicit ReadWords/
// WriteWords API, which returns MemoryOutOfRange directly) is logged
// through l instead of being raised as a fault, per §4.5.
func (m *Memory) SetLogger(l *cslog.Logger) { m.logger = l }

// Logger implements cslog.Loggable.
func (m *Memory) Logger() *cslog.Logger { return m.logger }

func newMemory(label string, addr, csel, oe, we, reset, dataIn, dataOut *cs.Bus, capacity, delay int) (*Memory, error) {
	need := ceilLog2(capacity)
	if addr.Width() < need {
		return nil, cs.NewWidthMismatch("Memory (address width)", need, addr.Width())
	}
	m := &Memory{
		addr: addr, cs_: csel, oe: oe, we: we, reset: reset,
		dataIn: dataIn, dataOut: dataOut,
		words:     make([]cs.BitValue, capacity),
		wordWidth: dataOut.Width(),
	}
	for i := range m.words {
		m.words[i] = cs.Low(m.wordWidth)
	}
	ins := []*cs.Bus{addr, csel, oe}
	if we != nil {
		ins = append(ins, we)
	}
	if dataIn != nil {
		ins = append(ins, dataIn)
	}
	if reset != nil {
		ins = append(ins, reset)
	}
	m.Base = cs.NewBase(label, delay, ins, []*cs.Bus{dataOut})
	return m, nil
}

// NewROM builds a read-only memory of capacity W-bit words.
func NewROM(label string, addr, chipSelect, outputEnable, dataOut *cs.Bus, capacity, delay int) (*Memory, error) {
	return newMemory(label, addr, chipSelect, outputEnable, nil, nil, nil, dataOut, capacity, delay)
}

// NewRAM builds a read/write memory of capacity W-bit words, with an
// optional synchronous reset-to-zero input.
func NewRAM(label string, addr, chipSelect, outputEnable, writeEnable, reset, dataIn, dataOut *cs.Bus, capacity, delay int) (*Memory, error) {
	if dataIn.Width() != dataOut.Width() {
		return nil, cs.NewWidthMismatch("NewRAM", dataOut.Width(), dataIn.Width())
	}
	return newMemory(label, addr, chipSelect, outputEnable, writeEnable, reset, dataIn, dataOut, capacity, delay)
}

func (m *Memory) addressIndex() (int, bool) {
	v := m.addr.Value()
	if v == nil {
		return 0, false
	}
	idx := int(v.Uint64())
	return idx, idx >= 0 && idx < len(m.words)
}

// Resolve implements §4.5's RAM/ROM protocol: output is null unless
// chip-select and output-enable are both low and the address is in
// range; writes happen when chip-select and write-enable are both low
// and the address is in range. An out-of-range address here is a
// warning, not a fault (§4.5): Resolve treats it as "nothing to read or
// write" and, if a logger is attached, logs it, rather than raising
// MemoryOutOfRange — that error is reserved for the explicit
// ReadWords/WriteWords API (Circuit.ReadMemory/WriteMemory), which
// callers can choose to fail on.
func (m *Memory) Resolve() int {
	if m.reset != nil && highBus(m.reset) {
		for i := range m.words {
			m.words[i] = cs.Low(m.wordWidth)
		}
		zero := cs.Low(m.wordWidth)
		m.dataOut.SetValue(&zero)
		return m.Delay()
	}

	selected := !highBus(m.cs_)
	idx, inRange := m.addressIndex()
	if selected && !inRange && m.logger != nil {
		m.logger.Warningf("%s: address out of range, ignoring access", m.Label())
	}

	if m.we != nil && selected && !highBus(m.we) && m.dataIn != nil {
		if v := m.dataIn.Value(); v != nil && inRange {
			word, err := v.Truncate(m.wordWidth)
			if err != nil {
				word = v.Pad(m.wordWidth - v.Width())
			}
			m.words[idx] = word
		}
	}

	if selected && !highBus(m.oe) && inRange {
		word := m.words[idx]
		m.dataOut.SetValue(&word)
	} else {
		m.dataOut.SetValue(nil)
	}
	return m.Delay()
}

// ReadWords reads length words starting at address (§4.5 read),
// returning MemoryOutOfRange without mutating anything if the range
// doesn't fit.
func (m *Memory) ReadWords(address cs.BitValue, length int) ([]cs.BitValue, error) {
	start := int(address.Uint64())
	if start < 0 || start+length > len(m.words) {
		return nil, cs.NewMemoryOutOfRange(m.Label(), address)
	}
	out := make([]cs.BitValue, length)
	copy(out, m.words[start:start+length])
	return out, nil
}

// WriteWords writes words starting at address, truncating or
// zero-padding each to the memory's word width (§4.5 write).
func (m *Memory) WriteWords(address cs.BitValue, words []cs.BitValue) error {
	start := int(address.Uint64())
	if start < 0 || start+len(words) > len(m.words) {
		return cs.NewMemoryOutOfRange(m.Label(), address)
	}
	for i, w := range words {
		word, err := w.Truncate(m.wordWidth)
		if err != nil {
			word = w.Pad(m.wordWidth - w.Width())
		}
		m.words[start+i] = word
	}
	return nil
}

// Initialize loads the memory's entire contents from a single BitValue
// whose width must be a multiple of the word width; words are extracted
// from the MSB end (§4.5 initialize).
func (m *Memory) Initialize(v cs.BitValue) {
	if m.wordWidth == 0 || v.Width()%m.wordWidth != 0 {
		return
	}
	n := v.Width() / m.wordWidth
	if n > len(m.words) {
		n = len(m.words)
	}
	for i := 0; i < n; i++ {
		word, err := v.BitSlice(i*m.wordWidth, (i+1)*m.wordWidth)
		if err == nil {
			m.words[i] = word
		}
	}
}

func (m *Memory) Reset() {
	for i := range m.words {
		m.words[i] = cs.Low(m.wordWidth)
	}
	m.ResetOutputs()
}
