// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package cstest is the package-level analogue of the teacher's hwtest:
// it differentially tests two elements sharing the same pin interface by
// feeding both identical inputs and comparing their outputs, the way
// hwtest.ComparePart drives two hwsim Parts side by side.
package cstest

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	cs "github.com/circsim/circsim"
)

// ComparePartFns builds both part1 and part2 into a shared harness
// circuit and checks that they produce identical outputs across the
// all-zero input, the all-one input, and trials random inputs — useful
// for checking a composed element (celib.NewAdderN) against its direct,
// primitive-based counterpart (celib.NewAdder) for the same operation.
func ComparePartFns(t *testing.T, ins, outs []cs.PinSpec, part1, part2 cs.NewPartFn, trials int, seed int64) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))

	harness := cs.NewCircuit("cstest-harness")

	inBuses := make(map[string]*cs.Bus, len(ins))
	for _, p := range ins {
		inBuses[p.Name] = harness.NewBus(p.Width)
	}
	outs1 := make(map[string]*cs.Bus, len(outs))
	outs2 := make(map[string]*cs.Bus, len(outs))
	for _, p := range outs {
		outs1[p.Name] = harness.NewBus(p.Width)
		outs2[p.Name] = harness.NewBus(p.Width)
	}

	e1, err := part1("part1", inBuses, outs1, 0)
	require.NoError(t, err)
	e2, err := part2("part2", inBuses, outs2, 0)
	require.NoError(t, err)
	require.NoError(t, harness.AddElement(e1))
	require.NoError(t, harness.AddElement(e2))

	check := func(label string, values map[string]cs.BitValue) {
		harness.Reset()
		for name, v := range values {
			v := v
			inBuses[name].SetValue(&v)
		}
		require.NoError(t, harness.Settle())
		for _, p := range outs {
			v1, v2 := outs1[p.Name].Value(), outs2[p.Name].Value()
			require.NotNil(t, v1, "%s: part1 output %q is unset", label, p.Name)
			require.NotNil(t, v2, "%s: part2 output %q is unset", label, p.Name)
			require.True(t, v1.Equals(*v2), "%s: output %q diverged: part1=%s part2=%s", label, p.Name, v1.ToString(2), v2.ToString(2))
		}
	}

	check("all-zero", boundaryInputs(ins, false))
	check("all-one", boundaryInputs(ins, true))
	for i := 0; i < trials; i++ {
		check("random", randomInputs(rng, ins))
	}
}

func boundaryInputs(ins []cs.PinSpec, high bool) map[string]cs.BitValue {
	values := make(map[string]cs.BitValue, len(ins))
	for _, p := range ins {
		if high {
			values[p.Name] = cs.High(p.Width)
		} else {
			values[p.Name] = cs.Low(p.Width)
		}
	}
	return values
}

func randomInputs(rng *rand.Rand, ins []cs.PinSpec) map[string]cs.BitValue {
	values := make(map[string]cs.BitValue, len(ins))
	for _, p := range ins {
		values[p.Name] = randomValue(rng, p.Width)
	}
	return values
}

func randomValue(rng *rand.Rand, width int) cs.BitValue {
	mag := new(big.Int)
	for i := 0; i < width; i++ {
		if rng.Intn(2) == 1 {
			mag.SetBit(mag, i, 1)
		}
	}
	return cs.FromBig(mag, width)
}
