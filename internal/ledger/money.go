package ledger

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	// SettleTolerance is the balance below which a participant is treated
	// as settled, and the smallest transfer the planner emits.
	SettleTolerance = 0.01

	// ExactSplitTolerance is how far custom splits may drift from the
	// expense amount before a draft is rejected.
	ExactSplitTolerance = 0.05

	// MaxAmount bounds a single expense or custom split so that session
	// totals stay finite.
	MaxAmount = 1_000_000_000_000
)

// RoundCents rounds x to two decimal places, half away from zero.
// The float is converted through its shortest decimal representation, so
// 1.005 rounds to 1.01 rather than to the binary neighbour below it.
func RoundCents(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	f, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return f
}

// NearlyEqual reports whether a and b differ by at most tol.
func NearlyEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
