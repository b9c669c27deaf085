package trade

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestAssessFairness(t *testing.T) {
	tests := []struct {
		name            string
		offering        string
		requesting      string
		wantDifference  string
		wantScore       float64
		wantNeedsReview bool
	}{
		{
			name:            "exact match scores 100",
			offering:        "100000",
			requesting:      "100000",
			wantDifference:  "0",
			wantScore:       100,
			wantNeedsReview: false,
		},
		{
			name:            "large under-offer is flagged",
			offering:        "15000",
			requesting:      "180000",
			wantDifference:  "-165000",
			wantScore:       8.33,
			wantNeedsReview: true,
		},
		{
			name:            "over-offering is penalized symmetrically",
			offering:        "150000",
			requesting:      "100000",
			wantDifference:  "50000",
			wantScore:       50,
			wantNeedsReview: true,
		},
		{
			name:            "deviation beyond 100 percent clamps score at 0",
			offering:        "500000",
			requesting:      "100000",
			wantDifference:  "400000",
			wantScore:       0,
			wantNeedsReview: true,
		},
		{
			name:            "zero-priced requested item counts as no deviation",
			offering:        "99999",
			requesting:      "0",
			wantDifference:  "99999",
			wantScore:       100,
			wantNeedsReview: false,
		},
		{
			name:            "exactly 30 percent deviation passes review-free",
			offering:        "70000",
			requesting:      "100000",
			wantDifference:  "-30000",
			wantScore:       70,
			wantNeedsReview: false,
		},
		{
			name:            "just over 30 percent deviation is flagged",
			offering:        "69999",
			requesting:      "100000",
			wantDifference:  "-30001",
			wantScore:       69.999,
			wantNeedsReview: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessFairness(d(tt.offering), d(tt.requesting))

			assert.True(t, got.ValueDifference.Equal(d(tt.wantDifference)),
				"value difference = %s, want %s", got.ValueDifference, tt.wantDifference)
			assert.InDelta(t, tt.wantScore, got.Score.InexactFloat64(), 0.01)
			assert.Equal(t, tt.wantNeedsReview, got.NeedsReview)
		})
	}
}

func TestAssessFairness_Idempotent(t *testing.T) {
	offering := d("42500.50")
	requesting := d("61000")

	first := AssessFairness(offering, requesting)
	second := AssessFairness(offering, requesting)

	require.True(t, first.ValueDifference.Equal(second.ValueDifference))
	require.True(t, first.DiffPercentage.Equal(second.DiffPercentage))
	require.True(t, first.Score.Equal(second.Score))
	require.Equal(t, first.NeedsReview, second.NeedsReview)
}

func TestAssessFairness_ScoreBounds(t *testing.T) {
	cases := [][2]string{
		{"0", "100"},
		{"100", "100"},
		{"1000000", "1"},
		{"1", "1000000"},
		{"0", "0"},
	}

	for _, c := range cases {
		got := AssessFairness(d(c[0]), d(c[1]))
		assert.False(t, got.Score.IsNegative(), "score %s below 0 for %v", got.Score, c)
		assert.True(t, got.Score.LessThanOrEqual(decimal.NewFromInt(100)),
			"score %s above 100 for %v", got.Score, c)
	}
}
