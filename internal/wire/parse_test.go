package wire_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/circsim/circsim/internal/wire"
)

func TestParsePinsBasic(t *testing.T) {
	pins, err := wire.ParsePins("a[4] b sel, cin")
	require.NoError(t, err)
	require.Equal(t, []wire.Pin{
		{Name: "a", Width: 4},
		{Name: "b", Width: 1},
		{Name: "sel", Width: 1},
		{Name: "cin", Width: 1},
	}, pins)
}

func TestParsePinsEmpty(t *testing.T) {
	pins, err := wire.ParsePins("")
	require.NoError(t, err)
	require.Nil(t, pins)
}

func TestParsePinsErrors(t *testing.T) {
	cases := []string{
		"4",     // doesn't start with an identifier
		"a[",    // missing width and closing bracket
		"a[0]",  // width must be at least 1
		"a[4",   // missing closing bracket
		"a b,",  // trailing comma with nothing after it
		"a, ,b", // empty pin name after comma
	}
	for _, spec := range cases {
		_, err := wire.ParsePins(spec)
		require.Errorf(t, err, "expected error for spec %q", spec)
	}
}

func TestLexerTokenizesBracketsAndInts(t *testing.T) {
	l := wire.NewLexer("a[12]")
	require.Equal(t, wire.Ident, l.Lex().Type)
	require.Equal(t, wire.BracketOpen, l.Lex().Type)
	item := l.Lex()
	require.Equal(t, wire.Int, item.Type)
	require.Equal(t, 12, item.Value)
	require.Equal(t, wire.BracketClose, l.Lex().Type)
	require.Equal(t, wire.EOF, l.Lex().Type)
}
