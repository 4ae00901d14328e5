// Package recipe holds the pure deduction arithmetic shared by sales
// processing, menu costing, and the stock projection reports.
package recipe

import (
	"fmt"
	"math"
)

// ActualDeduction converts a recipe line's per-serving requirement into the
// stock amount actually drawn. A yield factor above 1.0 models batch prep
// efficiency: one prepped batch stretches across more servings, so the
// per-serving draw shrinks to quantityRequired / yieldFactor.
func ActualDeduction(quantityRequired, yieldFactor float64) (float64, error) {
	if yieldFactor <= 0 {
		return 0, fmt.Errorf("yield factor must be positive, got %v", yieldFactor)
	}
	return quantityRequired / yieldFactor, nil
}

// Round2 rounds to 2 decimal places for currency style figures.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round4 rounds to 4 decimal places for stock quantities.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
