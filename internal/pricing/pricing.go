// Package pricing turns campaign prices and reported views into earnings.
//
// Prices are amounts per 1000 views. Earnings are exact decimals: nothing is
// rounded to a currency unit.
package pricing

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type Policy string

const (
	// PolicyAdvisory persists the raw earning; the max CPM only shapes estimates.
	PolicyAdvisory Policy = "advisory"
	// PolicyEnforce caps persisted earnings at the campaign max CPM.
	PolicyEnforce Policy = "enforce"
)

var ErrUnknownPolicy = errors.New("unknown earning cap policy")

func ParsePolicy(raw string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PolicyAdvisory:
		return PolicyAdvisory, nil
	case PolicyEnforce:
		return PolicyEnforce, nil
	}
	return "", ErrUnknownPolicy
}

// Earning returns views * pricePer1000 / 1000. Absent views earn nothing and
// negative inputs are treated as zero.
func Earning(views *int64, pricePer1000 decimal.Decimal) decimal.Decimal {
	if views == nil || *views <= 0 || !pricePer1000.IsPositive() {
		return decimal.Zero
	}
	return decimal.NewFromInt(*views).Mul(pricePer1000).Shift(-3)
}

// EngagementRate is (likes+comments+shares)/views as a percentage with two
// decimals. ok is false when there are no views to divide by.
func EngagementRate(likes, comments, shares, views *int64) (rate decimal.Decimal, ok bool) {
	if views == nil || *views <= 0 {
		return decimal.Zero, false
	}
	interactions := valueOrZero(likes) + valueOrZero(comments) + valueOrZero(shares)
	return decimal.NewFromInt(interactions).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(*views)).
		RoundBank(2), true
}

type Calculator struct {
	policy Policy
}

func NewCalculator(policy Policy) Calculator {
	if policy != PolicyEnforce {
		policy = PolicyAdvisory
	}
	return Calculator{policy: policy}
}

func (c Calculator) Policy() Policy {
	return c.policy
}

// Payout is the earning stored on a content submission.
func (c Calculator) Payout(views *int64, pricePer1000, maxCpm decimal.Decimal) decimal.Decimal {
	raw := Earning(views, pricePer1000)
	if c.policy == PolicyEnforce {
		return capAt(raw, maxCpm)
	}
	return raw
}

// Estimate is the figure shown to influencers before review. It is always
// capped regardless of policy.
func (c Calculator) Estimate(views *int64, pricePer1000, maxCpm decimal.Decimal) decimal.Decimal {
	return capAt(Earning(views, pricePer1000), maxCpm)
}

// capAt applies a max CPM; zero means no cap.
func capAt(amount, maxCpm decimal.Decimal) decimal.Decimal {
	if maxCpm.IsPositive() && amount.GreaterThan(maxCpm) {
		return maxCpm
	}
	return amount
}

func valueOrZero(v *int64) int64 {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}
