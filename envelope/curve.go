package envelope

import "fmt"

// Curve shapes the normalised time of a segment before interpolation. Every
// curve maps 0 to 0 and 1 to 1.
type Curve int

const (
	Linear Curve = iota
	Smooth       // 3t^2 - 2t^3
	Smoother     // 6t^5 - 15t^4 + 10t^3
	Exponential  // t^2, slow start
	Logarithmic  // 1 - (1-t)^2, fast start
)

var curveNames = []string{"linear", "smooth", "smoother", "exp", "log"}

func (c Curve) String() string {
	if c < 0 || int(c) >= len(curveNames) {
		return fmt.Sprintf("curve(%d)", int(c))
	}
	return curveNames[c]
}

// ParseCurve returns the curve named s. The empty string is Linear.
func ParseCurve(s string) (Curve, error) {
	if s == "" {
		return Linear, nil
	}
	for n, name := range curveNames {
		if name == s {
			return Curve(n), nil
		}
	}
	return Linear, fmt.Errorf("unknown curve: %q", s)
}

// Apply maps t in [0,1] through the curve.
func (c Curve) Apply(t float64) float64 {
	switch c {
	case Smooth:
		return t * t * (3 - 2*t)
	case Smoother:
		return t * t * t * (t*(t*6-15) + 10)
	case Exponential:
		return t * t
	case Logarithmic:
		u := 1 - t
		return 1 - u*u
	default:
		return t
	}
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return (1-t)*a + t*b
}
