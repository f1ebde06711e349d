package element

import (
	"fmt"
	"math"
)

type gaussRule struct {
	points  [][]float64
	weights []float64
}

var (
	g1 = 1 / math.Sqrt(3)

	lineGauss = map[int]gaussRule{
		1: {points: [][]float64{{0}}, weights: []float64{2}},
		2: {points: [][]float64{{-g1}, {g1}}, weights: []float64{1, 1}},
	}
	triGauss = map[int]gaussRule{
		1: {points: [][]float64{{1. / 3, 1. / 3}}, weights: []float64{0.5}},
		3: {
			points:  [][]float64{{1. / 6, 1. / 6}, {2. / 3, 1. / 6}, {1. / 6, 2. / 3}},
			weights: []float64{1. / 6, 1. / 6, 1. / 6},
		},
	}
	quadGauss = map[int]gaussRule{
		1: {points: [][]float64{{0, 0}}, weights: []float64{4}},
		4: {
			points:  [][]float64{{-g1, -g1}, {g1, -g1}, {g1, g1}, {-g1, g1}},
			weights: []float64{1, 1, 1, 1},
		},
	}
	tetGauss = func() map[int]gaussRule {
		a, b := 0.5854101966249685, 0.1381966011250105
		return map[int]gaussRule{
			1: {points: [][]float64{{0.25, 0.25, 0.25}}, weights: []float64{1. / 6}},
			4: {
				points:  [][]float64{{b, b, b}, {a, b, b}, {b, a, b}, {b, b, a}},
				weights: []float64{1. / 24, 1. / 24, 1. / 24, 1. / 24},
			},
		}
	}()
	hexGauss = func() map[int]gaussRule {
		var pts [][]float64
		for _, z := range []float64{-g1, g1} {
			for _, y := range []float64{-g1, g1} {
				for _, x := range []float64{-g1, g1} {
					pts = append(pts, []float64{x, y, z})
				}
			}
		}
		return map[int]gaussRule{
			8: {points: pts, weights: []float64{1, 1, 1, 1, 1, 1, 1, 1}},
		}
	}()
)

// GaussPoints returns the integration points and weights for num points.
func (s Shape) GaussPoints(num int) (points [][]float64, weights []float64, err error) {
	si := s.info()
	if si == nil || si.gauss == nil {
		return nil, nil, fmt.Errorf("%w: integration over %s", ErrNotImplemented, s)
	}
	rule, ok := si.gauss[num]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %d gauss points for %s", ErrNotImplemented, num, s)
	}
	return rule.points, rule.weights, nil
}
