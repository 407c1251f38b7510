package cgt

import (
	"cmp"
	"log/slog"
	"runtime"
	"slices"

	"github.com/etnz/cgt/date"
	"golang.org/x/sync/errgroup"
)

// BedAndBreakfastDays is the number of days after a disposal during which a
// reacquisition is matched against it.
const BedAndBreakfastDays = 30

// Fragment is the part of a buy matched against a sell.
type Fragment struct {
	Buy        Transaction
	Quantity   Quantity // units matched, positive
	Commission Money    // share of the buy commission
	Taxes      Money    // share of the buy taxes
	Rule       MatchingRule
	buyRank    int // chronological rank of Buy
}

// Cost is the acquisition cost of the fragment in the base currency.
func (f Fragment) Cost() Money { return f.Buy.ToBase(f.Buy.Price.Mul(f.Quantity)) }

// Expenses is the share of the acquisition fees in the base currency.
func (f Fragment) Expenses() Money { return f.Buy.ToBase(f.Commission.Add(f.Taxes)) }

func (f Fragment) MarshalJSON() ([]byte, error) {
	var o jsonObject
	o.omitEmpty("buy", f.Buy.ID).field("acquired", f.Buy.Day()).field("quantity", f.Quantity)
	return o.field("rule", f.Rule).field("cost", f.Cost()).field("expenses", f.Expenses()).MarshalJSON()
}

// Match is a sell and the buy fragments it was matched against, in matching
// order.
type Match struct {
	Sell      Transaction
	Fragments []Fragment
	// Unmatched is the part of the sell no acquisition could cover. It is
	// only ever non zero when partial matches are allowed.
	Unmatched Quantity
	rank      int // of the sell, in chronological order
}

// Matched is the total quantity of the fragments.
func (m Match) Matched() Quantity {
	var q Quantity
	for _, f := range m.Fragments {
		q = q.Add(f.Quantity)
	}
	return q
}

// Partial reports whether part of the sell was left unmatched.
func (m Match) Partial() bool { return m.Unmatched.IsPositive() }

type matchOptions struct {
	partial bool
}

// MatchOption configures Match.
type MatchOption func(*matchOptions)

// WithPartialMatches keeps sells that exceed the available acquisitions,
// recording the shortfall in Match.Unmatched instead of failing.
func WithPartialMatches() MatchOption {
	return func(o *matchOptions) { o.partial = true }
}

// MatchTransactions pairs every sell of txs with the buys it disposes of,
// following the statutory order: same day, then the following 30 days, then
// earlier acquisitions. Within a rule buys are consumed first in first out
// and each buy is used at most up to its quantity across all sells.
//
// txs need not be sorted. Securities are matched independently. The result
// is in chronological order of the sells. Sells of zero units and sells that
// matched nothing are left out.
//
// By default a sell that cannot be fully matched fails with an
// *UnmatchedDisposalError.
func MatchTransactions(txs []Transaction, opts ...MatchOption) ([]Match, error) {
	var o matchOptions
	for _, opt := range opts {
		opt(&o)
	}

	// group buys and sells by security, remembering the chronological rank
	groups := make(map[string][]ranked)
	var keys []string
	for i, tx := range SortTransactions(txs) {
		if tx.Command != CmdBuy && tx.Command != CmdSell {
			continue
		}
		k := tx.Security.Key()
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], ranked{tx: tx, rank: i})
	}

	results := make([][]ranked, len(keys))
	errs := make([]error, len(keys))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, k := range keys {
		g.Go(func() error {
			results[i], errs[i] = matchSecurity(groups[k], o)
			return errs[i]
		})
	}
	if err := g.Wait(); err != nil {
		// report the first security in chronological order, not the first to fail
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}

	var all []ranked
	for _, r := range results {
		all = append(all, r...)
	}
	slices.SortFunc(all, func(a, b ranked) int { return cmp.Compare(a.rank, b.rank) })
	matches := make([]Match, 0, len(all))
	for _, r := range all {
		matches = append(matches, r.match)
	}
	return matches, nil
}

// ranked is a transaction, or the Match of a sell, with its chronological rank.
type ranked struct {
	tx    Transaction
	match Match
	rank  int
}

// openBuy is a buy with the quantity and fees not matched yet.
type openBuy struct {
	Transaction
	rank       int
	remaining  Quantity
	commission Money
	taxes      Money
}

// matchSecurity matches the chronological transactions of a single security.
func matchSecurity(txs []ranked, o matchOptions) ([]ranked, error) {
	var buys []*openBuy
	for _, r := range txs {
		if r.tx.Command == CmdBuy {
			buys = append(buys, &openBuy{Transaction: r.tx, rank: r.rank, remaining: r.tx.Units(), commission: r.tx.Commission, taxes: r.tx.Taxes})
		}
	}

	var res []ranked
	for _, r := range txs {
		sell := r.tx
		if sell.Command != CmdSell || sell.Quantity.IsZero() {
			continue
		}
		day := sell.Day()
		m := Match{Sell: sell, rank: r.rank}
		remaining := sell.Units()

		tiers := []struct {
			rule MatchingRule
			in   func(date.Date) bool
		}{
			{SameDay, func(d date.Date) bool { return d == day }},
			{BedAndBreakfast, func(d date.Date) bool { return d.After(day) && !d.After(day.Add(BedAndBreakfastDays)) }},
			{Section104, func(d date.Date) bool { return d.Before(day) }},
		}
		for _, tier := range tiers {
			for _, b := range buys {
				if remaining.IsZero() {
					break
				}
				if b.remaining.IsZero() || !tier.in(b.Day()) {
					continue
				}
				f := newFragment(b, MinQ(remaining, b.remaining), tier.rule)
				b.remaining = b.remaining.Sub(f.Quantity)
				remaining = remaining.Sub(f.Quantity)
				m.Fragments = append(m.Fragments, f)
				slog.Debug("matched", "security", sell.Security.Key(), "sell", day, "buy", b.Day(), "quantity", f.Quantity, "rule", f.Rule)
			}
		}

		if remaining.IsPositive() {
			if !o.partial {
				return nil, &UnmatchedDisposalError{Security: sell.Security.Key(), On: day, Requested: sell.Units(), Matched: sell.Units().Sub(remaining)}
			}
			m.Unmatched = remaining
			slog.Warn("partial disposal", "security", sell.Security.Key(), "on", day, "unmatched", remaining)
		}
		if len(m.Fragments) == 0 {
			continue
		}
		res = append(res, ranked{tx: sell, match: m, rank: r.rank})
	}
	return res, nil
}

// newFragment takes quantity units from b, with their share of the buy fees.
// The last fragment of a buy takes what is left of the fees, so the shares
// always add up to the buy fees.
func newFragment(b *openBuy, quantity Quantity, rule MatchingRule) Fragment {
	f := Fragment{Buy: b.Transaction, Quantity: quantity, Rule: rule, buyRank: b.rank, Commission: b.commission, Taxes: b.taxes}
	if !quantity.Equal(b.remaining) {
		f.Commission = b.Commission.Mul(quantity).Div(b.Units())
		f.Taxes = b.Taxes.Mul(quantity).Div(b.Units())
	}
	b.commission = b.commission.Sub(f.Commission)
	b.taxes = b.taxes.Sub(f.Taxes)
	return f
}
