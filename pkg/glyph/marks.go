// Package glyph holds the symbols the timeline prints in front of things.
package glyph

type Glyph struct {
	// Plain is printed when color is off or the terminal is dumb.
	Plain   string
	Symbol  string
	Meaning string
}

type Mark int

const (
	Active Mark = iota
	Inactive
	Image
	Streak
)

func DefaultGlyphs() []Glyph {
	g := make([]Glyph, 0, 4)

	g = append(g, Glyph{
		Plain:   "#",
		Symbol:  "■",
		Meaning: "a day with entries",
	}, Glyph{
		Plain:   ".",
		Symbol:  "·",
		Meaning: "a day without entries",
	}, Glyph{
		Plain:   "[image]",
		Symbol:  "▣",
		Meaning: "attached image",
	}, Glyph{
		Plain:   "*",
		Symbol:  "✷",
		Meaning: "streak",
	})

	return g
}

func (g Glyph) String() string {
	return g.Symbol
}

func (m Mark) Glyph() Glyph {
	return DefaultGlyphs()[m]
}

// Render picks the plain form when plain is set.
func (m Mark) Render(plain bool) string {
	if plain {
		return m.Glyph().Plain
	}
	return m.Glyph().Symbol
}

func (m Mark) String() string {
	return m.Glyph().String()
}
