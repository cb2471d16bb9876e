// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command circsim is a small demo CLI exercising the engine end to end:
// each subcommand builds one of the fixed circuits and prints its
// settled outputs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cs "github.com/circsim/circsim"
	"github.com/circsim/circsim/celib"
	"github.com/circsim/circsim/cslog"
)

func main() {
	root := &cobra.Command{
		Use:   "circsim",
		Short: "Run one of the engine's fixed demo circuits",
	}
	root.AddCommand(
		halfAdderCmd(),
		muxCmd(),
		splitterCmd(),
		dffCmd(),
		ramCmd(),
		adderNCmd(),
	)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *cslog.Logger { return cslog.New("cmd/circsim", cslog.Info) }

func halfAdderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "half-adder",
		Short: "a XOR b, a AND b",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			c := cs.NewCircuit("half-adder")
			c.SetLogger(log)

			a, b := c.NewBus(1), c.NewBus(1)
			sum, carry := c.NewBus(1), c.NewBus(1)

			ai, bi := celib.NewInputPort("a", a), celib.NewInputPort("b", b)
			if err := c.AddInput("a", ai); err != nil {
				return err
			}
			if err := c.AddInput("b", bi); err != nil {
				return err
			}
			xor, err := celib.NewXor("xor", []*cs.Bus{a, b}, sum, 1)
			if err != nil {
				return err
			}
			and, err := celib.NewAnd("and", []*cs.Bus{a, b}, carry, 1)
			if err != nil {
				return err
			}
			for _, e := range []cs.Element{xor, and} {
				if err := c.AddElement(e); err != nil {
					return err
				}
			}
			sumOut, carryOut := celib.NewOutputPort("sum", sum), celib.NewOutputPort("carry", carry)
			if err := c.AddOutput("sum", sumOut); err != nil {
				return err
			}
			if err := c.AddOutput("carry", carryOut); err != nil {
				return err
			}

			for av := int64(0); av < 2; av++ {
				for bv := int64(0); bv < 2; bv++ {
					res, err := c.Run(map[string]cs.BitValue{
						"a": cs.MustMake(av, 1),
						"b": cs.MustMake(bv, 1),
					})
					if err != nil {
						return err
					}
					fmt.Printf("a=%d b=%d sum=%s carry=%s\n", av, bv,
						res.Outputs["sum"].ToString(2), res.Outputs["carry"].ToString(2))
				}
			}
			return nil
		},
	}
}

func muxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mux",
		Short: "2-way 4-bit multiplexer",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cs.NewCircuit("mux")
			c.SetLogger(newLogger())

			d0, d1, sel := c.NewBus(4), c.NewBus(4), c.NewBus(1)
			out := c.NewBus(4)

			d0in, d1in, selin := celib.NewInputPort("d0", d0), celib.NewInputPort("d1", d1), celib.NewInputPort("sel", sel)
			for label, p := range map[string]*celib.InputPort{"d0": d0in, "d1": d1in, "sel": selin} {
				if err := c.AddInput(label, p); err != nil {
					return err
				}
			}
			mux, err := celib.NewMux("mux", []*cs.Bus{d0, d1}, sel, out, 1)
			if err != nil {
				return err
			}
			if err := c.AddElement(mux); err != nil {
				return err
			}
			if err := c.AddOutput("out", celib.NewOutputPort("out", out)); err != nil {
				return err
			}

			for _, selv := range []int64{0, 1} {
				res, err := c.Run(map[string]cs.BitValue{
					"d0":  cs.MustMake(0b0101, 4),
					"d1":  cs.MustMake(0b1010, 4),
					"sel": cs.MustMake(selv, 1),
				})
				if err != nil {
					return err
				}
				fmt.Printf("sel=%d out=%s\n", selv, res.Outputs["out"].ToString(2))
			}
			return nil
		},
	}
}

func splitterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "splitter",
		Short: "split an 8-bit bus into two 4-bit halves",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cs.NewCircuit("splitter-roundtrip")
			c.SetLogger(newLogger())

			wide := c.NewBus(8)
			hi, lo := c.NewBus(4), c.NewBus(4)

			split, err := cs.NewSplitter("split", wide, []*cs.Bus{lo, hi}, []int{4, 4}, 0)
			if err != nil {
				return err
			}
			if err := c.AddElement(split); err != nil {
				return err
			}
			if err := c.AddInput("wide", celib.NewInputPort("wide", wide)); err != nil {
				return err
			}
			if err := c.AddOutput("hi", celib.NewOutputPort("hi", hi)); err != nil {
				return err
			}
			if err := c.AddOutput("lo", celib.NewOutputPort("lo", lo)); err != nil {
				return err
			}

			res, err := c.Run(map[string]cs.BitValue{"wide": cs.MustMake(0xA5, 8)})
			if err != nil {
				return err
			}
			fmt.Printf("wide=%s hi=%s lo=%s\n", cs.MustMake(0xA5, 8).ToString(16),
				res.Outputs["hi"].ToString(2), res.Outputs["lo"].ToString(2))
			return nil
		},
	}
}

func dffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dff",
		Short: "D flip-flop driven through a short clocked sequence",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cs.NewCircuit("dff-sequence")
			c.SetLogger(newLogger())

			d := c.NewBus(1)
			clkOut := c.NewBus(1)
			q, qn := c.NewBus(1), c.NewBus(1)

			clk, err := celib.NewClock("clk", clkOut, 1)
			if err != nil {
				return err
			}
			dff, err := celib.NewDFF("dff", d, clkOut, nil, nil, q, qn, cs.Low(1), 1)
			if err != nil {
				return err
			}
			if err := c.AddElement(clk); err != nil {
				return err
			}
			if err := c.AddElement(dff); err != nil {
				return err
			}
			if err := c.AddInput("d", celib.NewInputPort("d", d)); err != nil {
				return err
			}
			if err := c.AddOutput("q", celib.NewOutputPort("q", q)); err != nil {
				return err
			}

			cycles := 0
			halt := func(clockHigh bool, n int) bool {
				cycles = n
				return n >= 4
			}
			res, err := c.Run(map[string]cs.BitValue{"d": cs.MustMake(1, 1)}, halt)
			if err != nil {
				return err
			}
			fmt.Printf("after %d rising edges: q=%s\n", cycles, res.Outputs["q"].ToString(2))
			return nil
		},
	}
}

func ramCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ram",
		Short: "write then read a word through a small RAM",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cs.NewCircuit("ram-demo")
			c.SetLogger(newLogger())

			addr := c.NewBus(4)
			csel, oe, we := c.NewBus(1), c.NewBus(1), c.NewBus(1)
			dataIn, dataOut := c.NewBus(8), c.NewBus(8)

			ram, err := celib.NewRAM("ram", addr, csel, oe, we, nil, dataIn, dataOut, 16, 1)
			if err != nil {
				return err
			}
			if err := c.AddMemory("ram", ram); err != nil {
				return err
			}

			if err := c.WriteMemory("ram", cs.MustMake(3, 4), []cs.BitValue{cs.MustMake(0x42, 8)}); err != nil {
				return err
			}
			words, err := c.ReadMemory("ram", cs.MustMake(3, 4), 1)
			if err != nil {
				return err
			}
			fmt.Printf("ram[3]=%s\n", words[0].ToString(16))
			return nil
		},
	}
}

func adderNCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adder8",
		Short: "8-bit ripple adder composed from single-bit adders",
		RunE: func(cmd *cobra.Command, args []string) error {
			newAdder8 := celib.NewAdderN(8)

			c := cs.NewCircuit("adder8-demo")
			c.SetLogger(newLogger())

			a, b, cin := c.NewBus(8), c.NewBus(8), c.NewBus(1)
			sum, cout := c.NewBus(8), c.NewBus(1)

			inst, err := newAdder8("adder8",
				map[string]*cs.Bus{"a": a, "b": b, "cin": cin},
				map[string]*cs.Bus{"sum": sum, "cout": cout}, 0)
			if err != nil {
				return err
			}
			if err := c.AddElement(inst); err != nil {
				return err
			}
			if err := c.AddInput("a", celib.NewInputPort("a", a)); err != nil {
				return err
			}
			if err := c.AddInput("b", celib.NewInputPort("b", b)); err != nil {
				return err
			}
			if err := c.AddInput("cin", celib.NewInputPort("cin", cin)); err != nil {
				return err
			}
			if err := c.AddOutput("sum", celib.NewOutputPort("sum", sum)); err != nil {
				return err
			}
			if err := c.AddOutput("cout", celib.NewOutputPort("cout", cout)); err != nil {
				return err
			}

			res, err := c.Run(map[string]cs.BitValue{
				"a":   cs.MustMake(200, 8),
				"b":   cs.MustMake(100, 8),
				"cin": cs.Low(1),
			})
			if err != nil {
				return err
			}
			fmt.Printf("200+100: sum=%s cout=%s\n", res.Outputs["sum"].ToUnsigned().String(), res.Outputs["cout"].ToString(2))
			return nil
		},
	}
}
