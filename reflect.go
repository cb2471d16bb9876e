// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package circsim

import (
	"reflect"

	"github.com/pkg/errors"
)

// A Resolver is the part of Element a caller still has to write by hand
// when using MakeElement: everything else (Label/Inputs/Outputs/Delay)
// is derived by reflection from the struct's tagged fields.
type Resolver interface {
	Resolve() int
	Reset()
}

var busPtrType = reflect.TypeOf((*Bus)(nil))

// reflectedElement is the Element MakeElement hands back: it forwards
// Resolve/Reset to the wrapped Resolver and answers
// Label/Inputs/Outputs/Delay from what MakeElement found by reflection.
type reflectedElement struct {
	label     string
	ins, outs []*Bus
	delay     int
	r         Resolver
}

func (e *reflectedElement) Label() string   { return e.label }
func (e *reflectedElement) Inputs() []*Bus  { return e.ins }
func (e *reflectedElement) Outputs() []*Bus { return e.outs }
func (e *reflectedElement) Delay() int      { return e.delay }
func (e *reflectedElement) Resolve() int    { return e.r.Resolve() }
func (e *reflectedElement) Reset()          { e.r.Reset() }

// Initialize forwards to the wrapped Resolver if it implements
// Initialize(BitValue) itself; this lets MakeElement's result always
// satisfy Initializer, so it can be registered via AddInput, while
// still failing loudly for a Resolver that was never meant to be one.
func (e *reflectedElement) Initialize(v BitValue) {
	init, ok := e.r.(interface{ Initialize(BitValue) })
	if !ok {
		panic("circsim: MakeElement: " + e.label + " has no Initialize method")
	}
	init.Initialize(v)
}

// MakeElement wraps r — a struct (or pointer to one) whose *Bus fields
// are tagged `ce:"in"` or `ce:"out"` — into an Element, deriving its
// Inputs/Outputs from those tags instead of requiring r to embed Base
// and write its own accessors. This is the reflection-based escape
// hatch for one-off or generated components, adapted from the teacher's
// struct-tag-driven MakePart; where MakePart scanned for int/[N]int
// fields against its own boolean-wire pin numbering, MakeElement scans
// for *Bus fields directly, since this package's buses already carry
// their own width.
func MakeElement(label string, delay int, r Resolver) (Element, error) {
	v := reflect.ValueOf(r)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, errors.New("MakeElement: r is a nil pointer")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, errors.Errorf("MakeElement: %T is not a struct", r)
	}

	t := v.Type()
	e := &reflectedElement{label: label, delay: delay, r: r}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, ok := f.Tag.Lookup("ce")
		if !ok {
			continue
		}
		if f.Type != busPtrType {
			return nil, errors.Errorf("MakeElement: field %q tagged %q must be *Bus, got %s", f.Name, tag, f.Type)
		}
		b, _ := v.Field(i).Interface().(*Bus)
		if b == nil {
			return nil, errors.Errorf("MakeElement: field %q is nil", f.Name)
		}
		switch tag {
		case "in":
			e.ins = append(e.ins, b)
		case "out":
			e.outs = append(e.outs, b)
		default:
			return nil, errors.Errorf("MakeElement: unsupported tag %q on field %q", tag, f.Name)
		}
	}
	return e, nil
}
