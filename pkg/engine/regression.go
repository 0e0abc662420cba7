package engine

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// costModel is one of the scheduler's two observation streams: x is the edge
// count proxy of a run, y its wall-clock seconds.
type costModel struct {
	totals   []float64
	runtimes []float64
}

// observe appends one (x, y) observation.
func (m *costModel) observe(total, runtime float64) {
	m.totals = append(m.totals, total)
	m.runtimes = append(m.runtimes, runtime)
}

// prediction carries both estimates plus the window actually used, for the
// scheduler's decision log.
type prediction struct {
	value      float64
	lr         float64
	average    float64
	startIndex int
	endIndex   int
}

// predict estimates the runtime at newTotal from the trailing limit
// observations (all when limit is 0). The least-squares line is preferred;
// when it is non-finite, or useLR is off, the average-rate estimate
// (Σy/Σx)·x is used instead.
func (m *costModel) predict(newTotal float64, limit int, useLR bool) prediction {
	endIndex := len(m.totals)
	startIndex := 0
	if limit > 0 && limit < endIndex {
		startIndex = endIndex - limit
	}
	totals := m.totals[startIndex:endIndex]
	runtimes := m.runtimes[startIndex:endIndex]

	intercept, slope := stat.LinearRegression(totals, runtimes, nil, false)
	lr := intercept + slope*newTotal

	var sumX, sumY float64
	for i := range totals {
		sumX += totals[i]
		sumY += runtimes[i]
	}
	average := (sumY / sumX) * newTotal

	value := lr
	if !isFinite(lr) || !useLR {
		value = average
	}
	return prediction{value: value, lr: lr, average: average, startIndex: startIndex, endIndex: endIndex}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
