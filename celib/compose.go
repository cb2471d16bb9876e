// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package celib

import (
	"fmt"
	"strconv"

	cs "github.com/circsim/circsim"
)

// mustParsePins declares a composed element's pins through the wiring
// mini-language instead of building []cs.PinSpec by hand; it panics on a
// malformed spec, which would only ever happen from a typo in one of
// the literal specs below.
func mustParsePins(spec string) []cs.PinSpec {
	pins, err := cs.ParsePinSpec(spec)
	if err != nil {
		panic(err)
	}
	return pins
}

// NewAdderN returns a NewPartFn building a ripple-carry adder of the
// given width out of width single-bit Adders chained carry-to-carry —
// a second, independently checkable implementation of the direct,
// big.Int-based Adder in arith.go for the same operation, the kind
// of cross-check the teacher's hwtest package exists for.
func NewAdderN(width int) cs.NewPartFn {
	ins := mustParsePins(fmt.Sprintf("a[%d] b[%d] cin", width, width))
	outs := mustParsePins("sum[" + strconv.Itoa(width) + "] cout")
	return cs.Compose("AdderN", ins, outs,
		splitWide("a", width),
		splitWide("b", width),
		rippleAdd(width),
		mergeWide("sum", width),
	)
}

// NewRegisterN returns a NewPartFn building a width-bit register out of
// width single-bit Registers sharing one clock — the composed
// counterpart to seq.go's direct, BitValue-wide Register.
func NewRegisterN(width int, negEdge bool) cs.NewPartFn {
	ins := mustParsePins(fmt.Sprintf("d[%d] clk", width))
	outs := mustParsePins("q[" + strconv.Itoa(width) + "]")
	return cs.Compose("RegisterN", ins, outs,
		splitWide("d", width),
		chainRegisters(width, negEdge),
		mergeWide("q", width),
	)
}

// splitWide breaks a declared width-bit pin into width single-bit wires
// named by cs.BusPinName, via a Splitter in wide-to-narrow mode.
func splitWide(name string, width int) cs.PartBuilder {
	return func(s *cs.Socket) error {
		wide, err := s.Bus(name, width)
		if err != nil {
			return err
		}
		split := make([]int, width)
		narrow := make([]*cs.Bus, width)
		for i := range split {
			split[i] = 1
			b, err := s.Bus(cs.BusPinName(name, i), 1)
			if err != nil {
				return err
			}
			narrow[i] = b
		}
		sp, err := cs.NewSplitter(name+"$split", wide, narrow, split, 0)
		if err != nil {
			return err
		}
		return s.AddElement(sp)
	}
}

// mergeWide is splitWide's mirror image: it assembles width single-bit
// wires back into one declared width-bit pin via the same Splitter,
// driven narrow-to-wide this time.
func mergeWide(name string, width int) cs.PartBuilder {
	return func(s *cs.Socket) error {
		wide, err := s.Bus(name, width)
		if err != nil {
			return err
		}
		split := make([]int, width)
		narrow := make([]*cs.Bus, width)
		for i := range split {
			split[i] = 1
			b, err := s.Bus(cs.BusPinName(name, i), 1)
			if err != nil {
				return err
			}
			narrow[i] = b
		}
		sp, err := cs.NewSplitter(name+"$merge", wide, narrow, split, 0)
		if err != nil {
			return err
		}
		return s.AddElement(sp)
	}
}

// rippleAdd chains width single-bit Adders from the LSB to the MSB,
// feeding each stage's carry-out into the next stage's carry-in. Per
// the Splitter's wide-to-narrow convention (§4.6), BusPinName index 0
// is the least-significant bit of a split wide bus and index width-1
// is the most significant, so the chain runs bit 0 first (taking the
// composed element's own "cin") through bit width-1 last (whose
// carry-out becomes the composed element's own "cout").
func rippleAdd(width int) cs.PartBuilder {
	return func(s *cs.Socket) error {
		cin, err := s.Bus("cin", 1)
		if err != nil {
			return err
		}
		for i := 0; i < width; i++ {
			bit := i
			a, err := s.Bus(cs.BusPinName("a", bit), 1)
			if err != nil {
				return err
			}
			b, err := s.Bus(cs.BusPinName("b", bit), 1)
			if err != nil {
				return err
			}
			sum, err := s.Bus(cs.BusPinName("sum", bit), 1)
			if err != nil {
				return err
			}
			var cout *cs.Bus
			if i == width-1 {
				cout, err = s.Bus("cout", 1)
			} else {
				cout, err = s.Bus("carry$"+strconv.Itoa(i), 1)
			}
			if err != nil {
				return err
			}
			adder, err := NewAdder("adder$"+strconv.Itoa(bit), a, b, cin, sum, cout, 0)
			if err != nil {
				return err
			}
			if err := s.AddElement(adder); err != nil {
				return err
			}
			cin = cout
		}
		return nil
	}
}

// chainRegisters wires width single-bit Registers, all sharing the
// composed element's "clk" pin, between the per-bit "d[i]" and "q[i]"
// wires splitWide/mergeWide expose.
func chainRegisters(width int, negEdge bool) cs.PartBuilder {
	return func(s *cs.Socket) error {
		clk, err := s.Bus("clk", 1)
		if err != nil {
			return err
		}
		for i := 0; i < width; i++ {
			d, err := s.Bus(cs.BusPinName("d", i), 1)
			if err != nil {
				return err
			}
			q, err := s.Bus(cs.BusPinName("q", i), 1)
			if err != nil {
				return err
			}
			reg, err := NewRegister("reg$"+strconv.Itoa(i), d, clk, q, negEdge, 0)
			if err != nil {
				return err
			}
			if err := s.AddElement(reg); err != nil {
				return err
			}
		}
		return nil
	}
}
