// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package circsim

import (
	"github.com/google/uuid"

	"github.com/circsim/circsim/cslog"
)

// A Project is the unit a loader produces: a collection of Circuits,
// looked up by stable id or by name. Nothing about simulation lives
// here — Project is a directory, not a participant in resolve().
type Project struct {
	byID   map[string]*Circuit
	byName map[string]*Circuit
	order  []*Circuit

	logger *cslog.Logger
}

// SetLogger implements cslog.Loggable. Every circuit already in the
// project that doesn't have its own logger attached inherits l; circuits
// added afterwards inherit it too, in AddCircuit.
func (p *Project) SetLogger(l *cslog.Logger) {
	p.logger = l
	for _, c := range p.order {
		if c.Logger() == nil {
			c.SetLogger(l)
		}
	}
}

// Logger implements cslog.Loggable, returning nil if none was attached.
func (p *Project) Logger() *cslog.Logger { return p.logger }

// NewProject creates an empty Project.
func NewProject() *Project {
	return &Project{
		byID:   make(map[string]*Circuit),
		byName: make(map[string]*Circuit),
	}
}

// AddCircuit adds c to the project. If c.ID is empty, a random UUID is
// assigned so every circuit in a project is addressable by id even when
// a loader never named one explicitly.
func (p *Project) AddCircuit(c *Circuit) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, dup := p.byID[c.ID]; dup {
		return NewDuplicateLabel(c.ID)
	}
	p.byID[c.ID] = c
	if c.Name != "" {
		p.byName[c.Name] = c
	}
	if p.logger != nil && c.Logger() == nil {
		c.SetLogger(p.logger)
	}
	p.order = append(p.order, c)
	return nil
}

// GetCircuitByID returns the circuit with the given id, if any.
func (p *Project) GetCircuitByID(id string) (*Circuit, bool) {
	c, ok := p.byID[id]
	return c, ok
}

// GetCircuitByName returns the circuit with the given name, if any.
// Names need not be unique across loaders in general, but AddCircuit
// keeps only the most recently added circuit under a given name in
// byName — GetCircuitByID remains the unambiguous lookup.
func (p *Project) GetCircuitByName(name string) (*Circuit, bool) {
	c, ok := p.byName[name]
	return c, ok
}

// GetCircuits returns every circuit in the project, in the order they
// were added.
func (p *Project) GetCircuits() []*Circuit {
	return p.order
}
