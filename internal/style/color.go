package style

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor parses "#RGB", "#RRGGBB", "#RRGGBBAA" (hash optional) or the
// keyword "transparent" into a premultiplied-free RGBA value.
func ParseHexColor(s string) (color.RGBA, error) {
	raw := strings.TrimSpace(s)
	if strings.EqualFold(raw, "transparent") {
		return color.RGBA{}, nil
	}
	raw = strings.TrimPrefix(raw, "#")
	switch len(raw) {
	case 3:
		var b strings.Builder
		for _, r := range raw {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		raw = b.String()
	case 6, 8:
	default:
		return color.RGBA{}, fmt.Errorf("color %q: want 3, 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(raw, 16, 64)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	if len(raw) == 8 {
		return color.RGBA{
			R: uint8(v >> 24),
			G: uint8(v >> 16),
			B: uint8(v >> 8),
			A: uint8(v),
		}, nil
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 0xFF,
	}, nil
}

// HexColor formats c as "#RRGGBB" or "#RRGGBBAA" when the alpha channel is
// not fully opaque.
func HexColor(c color.RGBA) string {
	if c.A != 0xFF {
		return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
