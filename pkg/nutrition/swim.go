package nutrition

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

type vo2Curve struct {
	secs []float64 // 100m time
	vo2  []float64 // L O2/min
}

var swimVO2 = []float64{6.3, 5.7, 5.1, 4.4, 3.8, 3.2, 2.5}

var swimCurves = map[SwimLevel]vo2Curve{
	SwimSkilled:    {secs: []float64{51, 55, 61, 64, 70, 78, 87}, vo2: swimVO2},
	SwimTriathlete: {secs: []float64{66, 69, 75, 82, 90, 100, 109}, vo2: swimVO2},
	SwimUnskilled:  {secs: []float64{87, 92, 96, 103, 110, 118, 127}, vo2: swimVO2},
}

// swimSpline is a not-a-knot cubic spline through a VO2 curve. Outside the
// curve it continues the end segment's cubic instead of clamping.
type swimSpline struct {
	curve  vo2Curve
	spline interp.NotAKnotCubic
}

func newSwimSpline(level SwimLevel) (*swimSpline, error) {
	curve, ok := swimCurves[level]
	if !ok {
		return nil, fmt.Errorf("unknown swim level %q", level)
	}
	s := &swimSpline{curve: curve}
	if err := s.spline.Fit(curve.secs, curve.vo2); err != nil {
		return nil, fmt.Errorf("fit swim curve: %w", err)
	}
	return s, nil
}

func (s *swimSpline) inRange(x float64) bool {
	xs := s.curve.secs
	return x >= xs[0] && x <= xs[len(xs)-1]
}

// At returns the predicted oxygen cost in L/min for a 100m time of x seconds.
func (s *swimSpline) At(x float64) float64 {
	xs := s.curve.secs
	switch {
	case x < xs[0]:
		return s.hermite(xs[0], xs[1], x)
	case x > xs[len(xs)-1]:
		return s.hermite(xs[len(xs)-2], xs[len(xs)-1], x)
	}
	return s.spline.Predict(x)
}

// hermite evaluates the cubic of segment [x0, x1] at x, which may lie outside
// the segment. Value and slope at both ends determine the cubic exactly.
func (s *swimSpline) hermite(x0, x1, x float64) float64 {
	h := x1 - x0
	p0, p1 := s.spline.Predict(x0), s.spline.Predict(x1)
	m0, m1 := s.spline.PredictDerivative(x0)*h, s.spline.PredictDerivative(x1)*h
	t := (x - x0) / h
	t2, t3 := t*t, t*t*t
	return (2*t3-3*t2+1)*p0 + (t3-2*t2+t)*m0 + (-2*t3+3*t2)*p1 + (t3-t2)*m1
}
