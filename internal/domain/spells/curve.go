package spells

import (
	"math"

	apperr "github.com/KirkDiggler/battle-engine/internal/errors"
)

// Curve maps a uniform draw in [0, 1) onto [0, 1)
type Curve string

const (
	Linear  Curve = "linear"
	EaseIn  Curve = "ease_in"
	EaseOut Curve = "ease_out"
	Smooth  Curve = "smooth"
)

// Validate accepts the known curves and the empty value, which is linear
func (c Curve) Validate() error {
	switch c {
	case "", Linear, EaseIn, EaseOut, Smooth:
		return nil
	}
	return apperr.Validationf("unknown hit curve %q", string(c))
}

// Sample evaluates the curve at u
func (c Curve) Sample(u float64) float64 {
	switch c {
	case EaseIn:
		return u * u
	case EaseOut:
		return 1 - (1-u)*(1-u)
	case Smooth:
		return u * u * (3 - 2*u)
	default:
		return u
	}
}

// HitCount picks a hit count in [min, max] from the uniform draw u
func HitCount(minHits, maxHits int, c Curve, u float64) int {
	if maxHits <= minHits {
		return minHits
	}
	n := minHits + int(math.Floor(c.Sample(u)*float64(maxHits-minHits+1)))
	if n > maxHits {
		return maxHits
	}
	return n
}
