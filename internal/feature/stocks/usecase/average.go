package usecase

import "stock_watchlist/internal/feature/stocks/domain/entity"

// MovingAverage returns the arithmetic mean price of the given samples.
// It is a pure function: it averages exactly what it is passed, and the
// caller is responsible for limiting the input to the retained window.
// An empty input yields 0 so callers never divide by zero.
func MovingAverage(samples []entity.PriceSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s.Price
	}
	return sum / float64(len(samples))
}
