package world

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var (
	// ErrDuplicateColour is returned when two entities of one category share a colour.
	ErrDuplicateColour = errors.New("colour already registered")
	// ErrUnregisteredColour is returned when a raster pixel has no palette entry.
	ErrUnregisteredColour = errors.New("unregistered colour")
	// ErrDimensionMismatch is returned when rasters disagree on size.
	ErrDimensionMismatch = errors.New("raster dimension mismatch")
)

// Colour is a packed 0xAARRGGBB value.
type Colour uint32

// RGB builds an opaque colour.
func RGB(r, g, b uint8) Colour {
	return Colour(0xFF)<<24 | Colour(r)<<16 | Colour(g)<<8 | Colour(b)
}

// FromColor converts any image colour to a packed, non-premultiplied value.
func FromColor(c color.Color) Colour {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Colour(n.A)<<24 | Colour(n.R)<<16 | Colour(n.G)<<8 | Colour(n.B)
}

// NRGBA returns the colour as an image colour.
func (c Colour) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(c >> 16),
		G: uint8(c >> 8),
		B: uint8(c),
		A: uint8(c >> 24),
	}
}

// String formats the colour as #RRGGBB, or #RRGGBBAA when not opaque.
func (c Colour) String() string {
	if c>>24 == 0xFF {
		return fmt.Sprintf("#%06X", uint32(c)&0xFFFFFF)
	}
	return fmt.Sprintf("#%06X%02X", uint32(c)&0xFFFFFF, uint32(c)>>24)
}

// ParseColour parses #RRGGBB or #RRGGBBAA.
func ParseColour(s string) (Colour, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return 0, fmt.Errorf("colour %q: want #RRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("colour %q: %w", s, err)
	}
	if len(hex) == 6 {
		return Colour(0xFF000000 | uint32(v)), nil
	}
	rgb := uint32(v) >> 8
	alpha := uint32(v) & 0xFF
	return Colour(alpha<<24 | rgb), nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Colour) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Colour) UnmarshalText(b []byte) error {
	v, err := ParseColour(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Palette maps colours to entity ids for one category.
type Palette struct {
	category string
	ids      map[Colour]string
}

// NewPalette creates an empty palette; category names it in errors.
func NewPalette(category string) *Palette {
	return &Palette{category: category, ids: make(map[Colour]string)}
}

// Register binds a colour to an id. A colour may be registered once.
func (p *Palette) Register(c Colour, id string) error {
	if prev, ok := p.ids[c]; ok {
		return fmt.Errorf("%s %q: colour %s held by %q: %w", p.category, id, c, prev, ErrDuplicateColour)
	}
	p.ids[c] = id
	return nil
}

// Lookup returns the id registered for a colour.
func (p *Palette) Lookup(c Colour) (string, bool) {
	id, ok := p.ids[c]
	return id, ok
}

// Len returns the number of registered colours.
func (p *Palette) Len() int {
	return len(p.ids)
}

// Category returns the palette's category name.
func (p *Palette) Category() string {
	return p.category
}
