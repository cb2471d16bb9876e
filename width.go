// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package circsim

import "github.com/pkg/errors"

// widthPropagationGroups returns the connected components of buses, one
// slice per component, for use by PropagateWidths. It reuses
// the same iterative worklist traversal as Bus.connectedGroup so a long
// chain of connected buses never recurses.
func widthPropagationGroups(buses []*Bus) [][]*Bus {
	visited := map[*Bus]bool{}
	var groups [][]*Bus
	for _, b := range buses {
		if visited[b] {
			continue
		}
		group := b.connectedGroup()
		for _, g := range group {
			visited[g] = true
		}
		groups = append(groups, group)
	}
	return groups
}

// PropagateWidths is the width-propagation helper loaders call once after
// assembling a circuit's buses and Connect links, before the first
// Resolve: for every connected component, every member bus is widened to
// the maximum width observed in that component. It never narrows a bus,
// and returns an error only if SetWidth itself refuses (which, since
// every target here is a group maximum, cannot happen in practice).
func PropagateWidths(buses []*Bus) error {
	for _, group := range widthPropagationGroups(buses) {
		max := 0
		for _, b := range group {
			if b.width > max {
				max = b.width
			}
		}
		for _, b := range group {
			if b.width < max {
				if err := b.SetWidth(max); err != nil {
					return errors.Wrapf(err, "bus %d", b.id)
				}
			}
		}
	}
	return nil
}
