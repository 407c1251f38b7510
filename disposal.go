package cgt

import (
	"fmt"

	"github.com/etnz/cgt/date"
)

// MatchingRule names the statutory rule a disposal was matched under.
type MatchingRule string

const (
	SameDay         MatchingRule = "same-day"
	BedAndBreakfast MatchingRule = "30-day"
	Section104      MatchingRule = "section-104"
)

// RuleFor returns the rule matching a sell on sell with an acquisition on buy.
func RuleFor(sell, buy date.Date) MatchingRule {
	switch {
	case buy == sell:
		return SameDay
	case buy.After(sell) && !buy.After(sell.Add(BedAndBreakfastDays)):
		return BedAndBreakfast
	default:
		return Section104
	}
}

// Disposal is a priced sell, all amounts in the base currency.
type Disposal struct {
	Security  Security
	Date      date.Date
	Quantity  Quantity // units disposed of, positive
	Proceeds  Money    // net of the sell commission and taxes
	CostBasis Money
	Expenses  Money // acquisition commission and taxes
	Rule      MatchingRule
	// Unmatched is the part of the sell left out of this disposal.
	Unmatched Quantity
	Fragments []Fragment
}

// GainOrLoss is proceeds minus cost basis and expenses, negative for a loss.
func (d Disposal) GainOrLoss() Money { return d.Proceeds.Sub(d.CostBasis).Sub(d.Expenses) }

// AllowableCosts is the cost basis plus expenses.
func (d Disposal) AllowableCosts() Money { return d.CostBasis.Add(d.Expenses) }

// Partial reports whether part of the sell could not be matched.
func (d Disposal) Partial() bool { return d.Unmatched.IsPositive() }

// NewDisposal prices a matched sell. It has no side effects.
//
// Proceeds are the sell amount net of its fees, cost basis and expenses are
// summed over the fragments, each converted at its own rate. The rule is the
// one of the first fragment. For a partial match the proceeds are limited to
// the matched share of the sell.
func NewDisposal(m Match) (Disposal, error) {
	sell := m.Sell
	if sell.Command != CmdSell {
		return Disposal{}, validationErrorf("cannot price a %s as a disposal", sell.Command)
	}
	if len(m.Fragments) == 0 {
		return Disposal{}, validationErrorf("disposal of %s on %s: no matched acquisition", sell.Security, sell.Day())
	}

	d := Disposal{
		Security:  sell.Security,
		Date:      sell.Day(),
		Quantity:  m.Matched(),
		Proceeds:  sell.NetAmountBase(),
		CostBasis: GBP(0),
		Expenses:  GBP(0),
		Rule:      RuleFor(sell.Day(), m.Fragments[0].Buy.Day()),
		Unmatched: m.Unmatched,
		Fragments: m.Fragments,
	}
	if m.Partial() {
		d.Proceeds = d.Proceeds.Mul(d.Quantity).Div(sell.Units())
	}
	for _, f := range m.Fragments {
		if !f.Buy.Security.Same(sell.Security) {
			return Disposal{}, validationErrorf("disposal of %s matched against %s", sell.Security, f.Buy.Security)
		}
		d.CostBasis = d.CostBasis.Add(f.Cost())
		d.Expenses = d.Expenses.Add(f.Expenses())
	}
	return d, nil
}

func (d Disposal) MarshalJSON() ([]byte, error) {
	var o jsonObject
	o.field("date", d.Date).field("security", d.Security).field("quantity", d.Quantity)
	if d.Partial() {
		o.field("unmatched", d.Unmatched)
	}
	o.field("rule", d.Rule).field("proceeds", d.Proceeds).field("cost_basis", d.CostBasis)
	o.field("expenses", d.Expenses).field("gain", d.GainOrLoss())
	return o.field("fragments", d.Fragments).MarshalJSON()
}

// NewDisposals prices every match.
func NewDisposals(matches []Match) ([]Disposal, error) {
	res := make([]Disposal, 0, len(matches))
	for _, m := range matches {
		d, err := NewDisposal(m)
		if err != nil {
			return nil, fmt.Errorf("pricing disposals: %w", err)
		}
		res = append(res, d)
	}
	return res, nil
}
