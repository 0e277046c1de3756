// Package colorhash derives a stable display color from a string identity.
// The same identity always maps to the same color, with no registry or
// coordination between callers. Hue is spread across the full wheel while
// saturation is fixed and lightness is drawn from a small palette so the
// result stays legible on both light and dark backgrounds.
package colorhash

import (
	"fmt"
	"math"
)

const (
	seed    = 131
	seed2   = 137
	maxSafe = 9007199254740991 // 2^53 - 1
)

const saturation = 0.40

var lightness = [3]float64{0.40, 0.50, 0.60}

// Hex returns the #rrggbb color for the given identity.
func Hex(identity string) string {
	h, s, l := HSL(identity)
	r, g, b := hslToRGB(h, s, l)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// HSL returns the hue (0-358), saturation and lightness for the identity.
func HSL(identity string) (float64, float64, float64) {
	hash := bkdr(identity)

	hue := float64(hash % 359)
	hash /= 360
	l := lightness[hash%uint64(len(lightness))]

	return hue, saturation, l
}

// bkdr is a BKDR-style string hash. A sentinel character is appended so
// that identities differing only by a trailing empty segment do not
// collide, and the accumulator is periodically shrunk to keep it inside
// the 2^53 range the original algorithm was calibrated for.
func bkdr(s string) uint64 {
	var hash uint64
	for _, r := range s + "x" {
		if hash > maxSafe/seed2 {
			hash /= seed2
		}
		hash = hash*seed + uint64(r)
	}
	return hash
}

func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return uint8(math.Round((r + m) * 255)), uint8(math.Round((g + m) * 255)), uint8(math.Round((b + m) * 255))
}
