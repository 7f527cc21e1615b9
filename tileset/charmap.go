package tileset

import "golang.org/x/text/encoding/charmap"

// CharmapCP437 maps tilesheet position i (row-major) to the codepoint that
// Code Page 437 assigns to byte i. Positions 0x01-0x1F and 0x7F use the
// graphical glyphs drawn by classic PC fonts instead of control codes.
var CharmapCP437 = buildCP437()

// cp437Graphics are the glyphs PC fonts draw in the control-code slots.
var cp437Graphics = map[byte]rune{
	0x01: '☺', 0x02: '☻', 0x03: '♥', 0x04: '♦', 0x05: '♣', 0x06: '♠', 0x07: '•',
	0x08: '◘', 0x09: '○', 0x0A: '◙', 0x0B: '♂', 0x0C: '♀', 0x0D: '♪', 0x0E: '♫',
	0x0F: '☼', 0x10: '►', 0x11: '◄', 0x12: '↕', 0x13: '‼', 0x14: '¶', 0x15: '§',
	0x16: '▬', 0x17: '↨', 0x18: '↑', 0x19: '↓', 0x1A: '→', 0x1B: '←', 0x1C: '∟',
	0x1D: '↔', 0x1E: '▲', 0x1F: '▼', 0x7F: '⌂',
}

func buildCP437() []rune {
	m := make([]rune, 256)
	for i := range m {
		b := byte(i)
		if r, ok := cp437Graphics[b]; ok {
			m[i] = r
			continue
		}
		m[i] = charmap.CodePage437.DecodeByte(b)
	}
	return m
}

// CharmapASCII maps position i to rune i for the printable ASCII range and
// the control codes below it, for tilesheets laid out in plain byte order.
var CharmapASCII = func() []rune {
	m := make([]rune, 128)
	for i := range m {
		m[i] = rune(i)
	}
	return m
}()
