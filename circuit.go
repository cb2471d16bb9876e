// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package circsim

import (
	"github.com/google/uuid"

	"github.com/circsim/circsim/cslog"
)

// A clockSource is a labeled element that can be toggled by Circuit's
// clocked-run loop. celib.Clock implements it.
type clockSource interface {
	Element
	Toggle()
}

// HaltFunc decides whether a clocked Run should stop, given the clock
// level just reached and the number of completed rising edges so far.
// Required whenever a circuit contains a clock — otherwise the clocked
// loop has no termination condition.
type HaltFunc func(clockHigh bool, cycles int) bool

// RunResult is what Circuit.Run returns: the labeled outputs (nil for
// any output still unset), the total simulated propagation delay
// incurred reaching stability, and the number of scheduler steps spent
// getting there.
type RunResult struct {
	Outputs          map[string]*BitValue
	PropagationDelay int64
	Steps            uint64
}

// Circuit is a fully wired, ready-to-run network of elements and buses.
// Circuits are built by a loader (from celib elements, or via Compose),
// not assembled by hand field-by-field.
type Circuit struct {
	ID   string
	Name string

	buses    []*Bus
	elements []Element
	byLabel  map[string]Element

	inputs  map[string]Element
	outputs map[string]Element
	memory  map[string]MemoryElement
	clocks  []clockSource

	pureOutput map[Element]bool

	sched  *scheduler
	logger *cslog.Logger
}

// SetLogger implements cslog.Loggable.
func (c *Circuit) SetLogger(l *cslog.Logger) { c.logger = l }

// Logger implements cslog.Loggable, returning nil if none was attached.
func (c *Circuit) Logger() *cslog.Logger { return c.logger }

// NewCircuit creates an empty circuit. If name is empty, ID is assigned
// a random UUID; otherwise ID echoes name, giving callers that already
// have a stable naming scheme a predictable identifier while everyone
// else gets one for free.
func NewCircuit(name string) *Circuit {
	id := name
	if id == "" {
		id = uuid.NewString()
	}
	return &Circuit{
		ID:         id,
		Name:       name,
		byLabel:    make(map[string]Element),
		inputs:     make(map[string]Element),
		outputs:    make(map[string]Element),
		memory:     make(map[string]MemoryElement),
		pureOutput: make(map[Element]bool),
		sched:      newScheduler(defaultStepLimit),
	}
}

// defaultStepLimit bounds the resolve loop so a combinational loop (a
// ring oscillator, a mis-wired feedback path) fails with
// StepLimitExceeded instead of hanging forever. Loaders may override it
// with SetStepLimit.
const defaultStepLimit = 1_000_000

// SetStepLimit overrides the scheduler's step budget. A limit of 0 means
// unbounded.
func (c *Circuit) SetStepLimit(n uint64) { c.sched.stepLimit = n }

// NewBus allocates and registers a width-bit bus owned by c.
func (c *Circuit) NewBus(width int) *Bus {
	b := newBus(c, len(c.buses), width)
	c.buses = append(c.buses, b)
	return b
}

// Buses returns every bus registered with c, in allocation order.
func (c *Circuit) Buses() []*Bus { return c.buses }

// Elements returns every element registered with c, in registration
// order.
func (c *Circuit) Elements() []Element { return c.elements }

// Element looks up a registered element by label, regardless of role.
func (c *Circuit) Element(label string) (Element, bool) {
	e, ok := c.byLabel[label]
	return e, ok
}

// GetInputs returns the circuit's labeled input elements, keyed by
// label.
func (c *Circuit) GetInputs() map[string]Element { return c.inputs }

// GetOutputs returns the circuit's labeled output elements, keyed by
// label.
func (c *Circuit) GetOutputs() map[string]Element { return c.outputs }

// GetMemory returns the circuit's labeled memory elements, keyed by
// label.
func (c *Circuit) GetMemory() map[string]MemoryElement { return c.memory }

// GetClocks returns the circuit's registered clock sources.
func (c *Circuit) GetClocks() []Element {
	out := make([]Element, len(c.clocks))
	for i, cl := range c.clocks {
		out[i] = cl
	}
	return out
}

func (c *Circuit) registerCommon(e Element) error {
	if lbl := e.Label(); lbl != "" {
		if _, dup := c.byLabel[lbl]; dup {
			return NewDuplicateLabel(lbl)
		}
		c.byLabel[lbl] = e
	}
	if cs, ok := e.(clockSource); ok {
		c.clocks = append(c.clocks, cs)
	}
	c.elements = append(c.elements, e)
	attach(e)
	return nil
}

// AddElement registers an internal (unlabeled, or labeled but not a
// circuit-level input/output/memory port) element: a gate, a splitter, a
// subcircuit. It attaches e to its incident buses so bus value changes
// schedule it for re-resolution.
func (c *Circuit) AddElement(e Element) error {
	return c.registerCommon(e)
}

// AddInput registers e as a labeled input: Run/RunPositional seed it via
// Initialize. e must implement Initializer.
func (c *Circuit) AddInput(label string, e Initializer) error {
	if label == "" {
		return NewBadInput("AddInput: label is required")
	}
	if err := c.registerCommon(e); err != nil {
		return err
	}
	c.inputs[label] = e
	return nil
}

// AddOutput registers e as a labeled output, read back by Run once the
// circuit stabilizes. Pure output ports are excluded from the resolve
// loop's forced initial enqueue (§4.8 step 3) since their value is read
// directly off their input bus rather than computed.
func (c *Circuit) AddOutput(label string, e Element) error {
	if label == "" {
		return NewBadInput("AddOutput: label is required")
	}
	if err := c.registerCommon(e); err != nil {
		return err
	}
	c.outputs[label] = e
	c.pureOutput[e] = true
	return nil
}

// AddMemory registers e as a labeled memory element, reachable via
// ReadMemory/WriteMemory.
func (c *Circuit) AddMemory(label string, e MemoryElement) error {
	if label == "" {
		return NewBadInput("AddMemory: label is required")
	}
	if err := c.registerCommon(e); err != nil {
		return err
	}
	c.memory[label] = e
	return nil
}

// ReadMemory reads length words starting at address from the named
// memory element.
func (c *Circuit) ReadMemory(name string, address BitValue, length int) ([]BitValue, error) {
	m, ok := c.memory[name]
	if !ok {
		return nil, NewBadInput("ReadMemory: no memory element labeled %q", name)
	}
	return m.ReadWords(address, length)
}

// WriteMemory writes words starting at address into the named memory
// element.
func (c *Circuit) WriteMemory(name string, address BitValue, words []BitValue) error {
	m, ok := c.memory[name]
	if !ok {
		return NewBadInput("WriteMemory: no memory element labeled %q", name)
	}
	return m.WriteWords(address, words)
}

// nextTimestamp returns the circuit's monotonically increasing event
// counter, used to timestamp bus value changes so the Splitter can
// detect same-instant contention between its wide and narrow sides.
func (c *Circuit) nextTimestamp() int64 {
	c.sched.seq++
	return c.sched.seq
}

// schedule enqueues e for re-resolution delay steps from now. Called by
// Bus.SetValue whenever a bus's value changes.
func (c *Circuit) schedule(e Element, delay int) {
	c.sched.enqueue(e, delay)
}

// Settle drains the event queue until the circuit stabilizes (no
// element has a pending re-resolution) or the step limit is exceeded.
func (c *Circuit) Settle() error {
	err := c.sched.settle()
	if err != nil && c.logger != nil {
		c.logger.Warningf("circuit %s: %v", c.ID, err)
	}
	return err
}

func (c *Circuit) seedInputs(inputs map[string]BitValue) error {
	for label, v := range inputs {
		e, ok := c.inputs[label]
		if !ok {
			return NewBadInput("Run: no input labeled %q", label)
		}
		init, ok := e.(Initializer)
		if !ok {
			return NewBadInput("Run: input %q does not accept direct initialization", label)
		}
		v := v
		init.Initialize(v)
	}
	return nil
}

// seedPositional assigns inputs to labeled input elements in the order
// returned by Elements() restricted to those registered via AddInput —
// the positional counterpart to seedInputs's label-keyed map.
func (c *Circuit) seedPositional(inputs []BitValue) error {
	order := c.inputOrder()
	if len(inputs) != len(order) {
		return NewBadInput("RunPositional: got %d inputs, circuit has %d labeled inputs", len(inputs), len(order))
	}
	for i, label := range order {
		init := c.inputs[label].(Initializer)
		v := inputs[i]
		init.Initialize(v)
	}
	return nil
}

// inputOrder returns labeled input names in the order their elements
// were registered, giving RunPositional a stable, loader-independent
// mapping from position to label.
func (c *Circuit) inputOrder() []string {
	labels := make(map[Element]string, len(c.inputs))
	for lbl, e := range c.inputs {
		labels[e] = lbl
	}
	var order []string
	for _, e := range c.elements {
		if lbl, ok := labels[e]; ok {
			order = append(order, lbl)
		}
	}
	return order
}

// outputOrder returns labeled output names in registration order, the
// positional counterpart Subcircuit uses to map its own output buses
// onto this circuit's labeled outputs.
func (c *Circuit) outputOrder() []string {
	labels := make(map[Element]string, len(c.outputs))
	for lbl, e := range c.outputs {
		labels[e] = lbl
	}
	var order []string
	for _, e := range c.elements {
		if lbl, ok := labels[e]; ok {
			order = append(order, lbl)
		}
	}
	return order
}

func (c *Circuit) enqueueAll() {
	for _, e := range c.elements {
		if c.pureOutput[e] {
			continue
		}
		c.schedule(e, e.Delay())
	}
}

func (c *Circuit) collectResult() RunResult {
	outs := make(map[string]*BitValue, len(c.outputs))
	for label, e := range c.outputs {
		ins := e.Inputs()
		if len(ins) == 0 {
			outs[label] = nil
			continue
		}
		outs[label] = ins[0].Value()
	}
	return RunResult{Outputs: outs, PropagationDelay: c.sched.now, Steps: c.sched.steps}
}

func (c *Circuit) resolveOnce() (RunResult, error) {
	c.enqueueAll()
	if err := c.Settle(); err != nil {
		return RunResult{}, err
	}
	return c.collectResult(), nil
}

// Run seeds the labeled input elements from inputs and settles the
// resulting wave. If the circuit contains any clock, a single HaltFunc
// must be supplied (Run fails otherwise, since an unbounded clocked
// circuit would never terminate); Run then repeatedly toggles every
// registered clock, settles after each edge, and stops when halt
// reports true.
func (c *Circuit) Run(inputs map[string]BitValue, haltPredicate ...HaltFunc) (RunResult, error) {
	halt, err := parseHaltArg(haltPredicate)
	if err != nil {
		return RunResult{}, err
	}
	c.Reset()
	if err := c.seedInputs(inputs); err != nil {
		return RunResult{}, err
	}
	return c.runBody(halt)
}

// RunPositional is Run's positional-input counterpart: inputs are
// assigned to labeled input elements in registration order rather than
// by label.
func (c *Circuit) RunPositional(inputs []BitValue, haltPredicate ...HaltFunc) (RunResult, error) {
	halt, err := parseHaltArg(haltPredicate)
	if err != nil {
		return RunResult{}, err
	}
	c.Reset()
	if err := c.seedPositional(inputs); err != nil {
		return RunResult{}, err
	}
	return c.runBody(halt)
}

func parseHaltArg(haltPredicate []HaltFunc) (HaltFunc, error) {
	if len(haltPredicate) > 1 {
		return nil, NewBadInput("Run: at most one halt predicate may be given")
	}
	if len(haltPredicate) == 1 {
		return haltPredicate[0], nil
	}
	return nil, nil
}

func (c *Circuit) runBody(halt HaltFunc) (RunResult, error) {
	if len(c.clocks) == 0 {
		return c.resolveOnce()
	}
	if halt == nil {
		return RunResult{}, NewBadInput("Run: circuit has clocks; a halt predicate is required")
	}
	c.enqueueAll()
	if err := c.Settle(); err != nil {
		return RunResult{}, err
	}
	clockHigh := false
	cycles := 0
	for {
		for _, cl := range c.clocks {
			cl.Toggle()
		}
		clockHigh = !clockHigh
		if clockHigh {
			cycles++
		}
		if err := c.Settle(); err != nil {
			return RunResult{}, err
		}
		if halt(clockHigh, cycles) {
			break
		}
	}
	return c.collectResult(), nil
}

// Reset clears every bus and calls Reset on every element, then drops
// any pending scheduled events. Labels and wiring are untouched, so the
// circuit can be run again from a clean slate.
func (c *Circuit) Reset() {
	for _, b := range c.buses {
		b.Reset()
	}
	for _, e := range c.elements {
		e.Reset()
	}
	c.sched.reset()
}
