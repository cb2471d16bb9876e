// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package circsim

import "strconv"

// BusPinName returns the per-bit wire name for bit i of a named bus, the
// naming convention Compose uses when it has to break a wide pin into
// single-bit wires (or reassemble one), e.g. for composing a width-N
// element out of N single-bit parts.
func BusPinName(bus string, i int) string {
	return bus + "[" + strconv.Itoa(i) + "]"
}
