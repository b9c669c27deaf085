package trade

import "github.com/shopspring/decimal"

// ReviewThresholdPercent is the policy threshold above which a trade is
// flagged for admin review. Offers within ±30% of the requested value pass
// review-free.
const ReviewThresholdPercent = 30

var (
	hundred         = decimal.NewFromInt(100)
	reviewThreshold = decimal.NewFromInt(ReviewThresholdPercent)
)

// Fairness quantifies how close an offer is to the requested value.
type Fairness struct {
	ValueDifference decimal.Decimal
	DiffPercentage  decimal.Decimal
	Score           decimal.Decimal
	NeedsReview     bool
}

// AssessFairness scores an offer against the requested value. Deviation is
// absolute: over- and under-offering are equally unfair to one party. A
// zero-priced requested item counts as 0% deviation regardless of the
// offer. The score is 100 minus the deviation percentage, floored at 0.
// Pure and deterministic; recomputing from the same inputs always yields
// the same result.
func AssessFairness(offeringValue, requestingValue decimal.Decimal) Fairness {
	difference := offeringValue.Sub(requestingValue)

	diffPercentage := decimal.Zero
	if requestingValue.IsPositive() {
		diffPercentage = difference.Abs().Div(requestingValue).Mul(hundred)
	}

	score := hundred.Sub(diffPercentage)
	if score.IsNegative() {
		score = decimal.Zero
	}

	return Fairness{
		ValueDifference: difference,
		DiffPercentage:  diffPercentage,
		Score:           score,
		NeedsReview:     diffPercentage.GreaterThan(reviewThreshold),
	}
}
