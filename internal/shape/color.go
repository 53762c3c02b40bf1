package shape

import "math"

// RGBA8 converts the HSL components (each in [0,1]) to 8-bit RGBA.
func (c Color) RGBA8() (r, g, b, a uint8) {
	a = uint8(math.Round(clamp01(float64(c.A)) * 255))

	h := float64(c.H)
	s := clamp01(float64(c.S))
	l := clamp01(float64(c.L))

	if s == 0 {
		v := uint8(math.Round(l * 255))
		return v, v, v, a
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	r = uint8(math.Round(hueChannel(p, q, h+1.0/3.0) * 255))
	g = uint8(math.Round(hueChannel(p, q, h) * 255))
	b = uint8(math.Round(hueChannel(p, q, h-1.0/3.0) * 255))
	return r, g, b, a
}

func hueChannel(p, q, t float64) float64 {
	t = t - math.Floor(t)
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
