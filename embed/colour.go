package embed

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Colour is a 24-bit RGB colour.
type Colour uint32

func (c Colour) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

var (
	hexRe = regexp.MustCompile(`^[0-9a-fA-F]{1,6}$`)
	rgbRe = regexp.MustCompile(`^(?i)rgb\(\s*(\d{1,3}(?:\.\d+)?%?)\s*,\s*(\d{1,3}(?:\.\d+)?%?)\s*,\s*(\d{1,3}(?:\.\d+)?%?)\s*\)$`)
)

// ParseColour parses "#rrggbb", "0xrrggbb", "0x#rrggbb" and "rgb(r, g, b)".
// Hex values may be shorter: "#rgb" is expanded to "#rrggbb", other lengths are read as a number.
// rgb components are either 0-255 or a percentage.
func ParseColour(s string) (Colour, bool) {
	s = strings.TrimSpace(s)

	if m := rgbRe.FindStringSubmatch(s); m != nil {
		var rgb [3]float64
		for i, part := range m[1:] {
			v, ok := rgbComponent(part)
			if !ok {
				return 0, false
			}
			rgb[i] = v
		}
		return fromColorful(colorful.Color{R: rgb[0], G: rgb[1], B: rgb[2]}), true
	}

	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "0x#"):
		s = s[3:]
	case strings.HasPrefix(lower, "0x"):
		s = s[2:]
	case strings.HasPrefix(s, "#"):
		s = s[1:]
	default:
		return 0, false
	}

	if !hexRe.MatchString(s) {
		return 0, false
	}
	s = expandHex(s)
	c, err := colorful.Hex("#" + s)
	if err != nil {
		return 0, false
	}
	return fromColorful(c), true
}

// expandHex turns a hex number of up to six digits into six digits.
func expandHex(s string) string {
	if len(s) == 3 {
		return string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	return strings.Repeat("0", 6-len(s)) + s
}

// rgbComponent returns a component scaled to 0..1.
func rgbComponent(s string) (float64, bool) {
	if pct, ok := strings.CutSuffix(s, "%"); ok {
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil || v > 100 {
			return 0, false
		}
		return v / 100, true
	}

	v, err := strconv.Atoi(s)
	if err != nil || v > 255 {
		return 0, false
	}
	return float64(v) / 255, true
}

func fromColorful(c colorful.Color) Colour {
	r, g, b := c.RGB255()
	return Colour(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}
