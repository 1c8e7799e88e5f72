// Package probability turns player features into shrunk Poisson estimates
// of hitting a prop threshold.
package probability

import "math"

// AtLeastOne is P(X >= 1) for X ~ Poisson(lambda).
func AtLeastOne(lambda float64) float64 {
	lambda = sanitizeRate(lambda)
	return -math.Expm1(-lambda)
}

// AtLeastTwo is P(X >= 2) for X ~ Poisson(lambda).
func AtLeastTwo(lambda float64) float64 {
	lambda = sanitizeRate(lambda)
	p := 1 - math.Exp(-lambda)*(1+lambda)
	if p < 0 {
		return 0
	}
	return p
}

func sanitizeRate(lambda float64) float64 {
	if math.IsNaN(lambda) || lambda < 0 {
		return 0
	}
	return lambda
}

// Shrink blends an observed estimate with a prior using weight w in [0,1].
func Shrink(observed, prior, w float64) float64 {
	return w*observed + (1-w)*prior
}

// Weight is n/(n+k), the empirical-Bayes credibility of a sample of size n
// against k pseudo-observations.
func Weight(n, k float64) float64 {
	if n <= 0 {
		return 0
	}
	if k <= 0 {
		return 1
	}
	return n / (n + k)
}

// Clip bounds p to [0, cap].
func Clip(p, cap float64) float64 {
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > cap {
		return cap
	}
	return p
}
