// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package wire

import "github.com/pkg/errors"

// Pin is one parsed pin declaration: its name and bit width (1 if no
// bus size was given).
type Pin struct {
	Name  string
	Width int
}

// ParsePins parses a space/comma-separated pin specification such as
// "a[4] b sel, cin" into a slice of Pin, the way the teacher's own
// parseIOspec turns "in[2] sel" into expanded pin names — except here a
// bus size describes one multi-bit Pin rather than expanding to several
// single-bit ones, matching this package's wide-bus Bus model.
func ParsePins(spec string) ([]Pin, error) {
	var out []Pin
	l := NewLexer(spec)

	i := l.Lex()
	if i.Type == EOF {
		return nil, nil
	}
	for {
		if i.Type != Ident {
			return nil, parseError(spec, i.Pos, "expected pin name")
		}
		name := i.Value.(string)
		width := 1

		i = l.Lex()
		if i.Type == BracketOpen {
			i = l.Lex()
			if i.Type != Int {
				return nil, parseError(spec, i.Pos, "missing bus width")
			}
			width = i.Value.(int)
			if width < 1 {
				return nil, parseError(spec, i.Pos, "bus width must be at least 1")
			}
			i = l.Lex()
			if i.Type != BracketClose {
				return nil, parseError(spec, i.Pos, "missing closing ]")
			}
			i = l.Lex()
		}

		out = append(out, Pin{Name: name, Width: width})

		switch i.Type {
		case EOF:
			return out, nil
		case Comma:
			i = l.Lex()
			continue
		case Ident:
			// No comma: the lexer swallows the whitespace between pins
			// silently, so the next pin's name is already in i.
			continue
		default:
			return nil, parseError(spec, i.Pos, "expected comma or end of input")
		}
	}
}

func parseError(in string, pos Pos, msg string) error {
	return errors.Errorf("in %q at pos %d: %s", in, pos+1, msg)
}
