package cgt

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/etnz/cgt/date"
	"github.com/shopspring/decimal"
)

// lot represents a single acquisition of a foreign currency.
type lot struct {
	Date   date.Date
	Amount Quantity
	Rate   decimal.Decimal // to the base currency, at acquisition
	Cost   Money           // Amount * Rate, in the base currency
}

// LotFragment is the part of a lot consumed by a disposal.
type LotFragment struct {
	Date   date.Date
	Amount Quantity
	Rate   decimal.Decimal
	Cost   Money
}

// CurrencyLotPool tracks the acquisitions of one foreign currency, consumed
// first in first out.
type CurrencyLotPool struct {
	Currency string
	lots     []lot
}

// NewCurrencyLotPool returns an empty pool for the currency code.
func NewCurrencyLotPool(code string) *CurrencyLotPool {
	return &CurrencyLotPool{Currency: code}
}

// AddPurchase records amount units bought at rate on day. Lots stay sorted by
// date, a lot acquired on the same day as existing ones goes after them.
func (p *CurrencyLotPool) AddPurchase(amount Quantity, rate decimal.Decimal, day date.Date) error {
	if !amount.IsPositive() {
		return validationErrorf("currency pool %s: purchased amount must be positive, got %s", p.Currency, amount)
	}
	if !rate.IsPositive() {
		return validationErrorf("currency pool %s: rate must be positive, got %s", p.Currency, rate)
	}
	l := lot{Date: day, Amount: amount, Rate: rate, Cost: GBP(amount.value.Mul(rate))}
	i, _ := slices.BinarySearchFunc(p.lots, day, func(l lot, d date.Date) int {
		if l.Date.After(d) {
			return 1
		}
		return -1
	})
	p.lots = slices.Insert(p.lots, i, l)
	return nil
}

// Balance is the total amount held across lots.
func (p *CurrencyLotPool) Balance() Quantity {
	var b Quantity
	for _, l := range p.lots {
		b = b.Add(l.Amount)
	}
	return b
}

// Lots returns a copy of the remaining lots, oldest first.
func (p *CurrencyLotPool) Lots() []LotFragment {
	res := make([]LotFragment, 0, len(p.lots))
	for _, l := range p.lots {
		res = append(res, LotFragment(l))
	}
	return res
}

// RemoveDisposal consumes amount units oldest lot first. The last lot touched
// is split when only part of it is needed. When the balance is too small
// nothing is consumed.
func (p *CurrencyLotPool) RemoveDisposal(amount Quantity) ([]LotFragment, error) {
	if !amount.IsPositive() {
		return nil, validationErrorf("currency pool %s: disposed amount must be positive, got %s", p.Currency, amount)
	}
	if balance := p.Balance(); amount.GreaterThan(balance) {
		return nil, &InsufficientPoolError{Pool: p.Currency, Requested: amount, Available: balance}
	}

	var fragments []LotFragment
	remaining := amount
	consumed := 0
	for i := range p.lots {
		if remaining.IsZero() {
			break
		}
		current := &p.lots[i]
		if current.Amount.GreaterThan(remaining) {
			// Partial disposal of this lot
			cost := current.Cost.Mul(remaining).Div(current.Amount)
			fragments = append(fragments, LotFragment{Date: current.Date, Amount: remaining, Rate: current.Rate, Cost: cost})
			current.Amount = current.Amount.Sub(remaining)
			current.Cost = current.Cost.Sub(cost)
			remaining = Q(0)
			break
		}
		// Full disposal of this lot
		fragments = append(fragments, LotFragment(*current))
		remaining = remaining.Sub(current.Amount)
		consumed++
	}
	p.lots = slices.Delete(p.lots, 0, consumed)
	return fragments, nil
}

// CurrencyPools holds the currency pools of a calculation run, by currency
// code. It belongs to the caller, a fresh one is needed for every run.
type CurrencyPools map[string]*CurrencyLotPool

// Pool returns the pool for code, creating it on first use.
func (c CurrencyPools) Pool(code string) *CurrencyLotPool {
	p, ok := c[code]
	if !ok {
		p = NewCurrencyLotPool(code)
		c[code] = p
	}
	return p
}

// CurrencyGain is the gain or loss realised by disposing of a foreign currency.
type CurrencyGain struct {
	Currency string
	Date     date.Date
	Amount   Quantity // disposed, positive
	Proceeds Money    // in the base currency, at the disposal rate
	Cost     Money    // in the base currency, at the acquisition rates
	// Unmatched is the part of the disposal the pool could not cover, it is
	// only ever set with WithPartialMatches and is left out of the gain.
	Unmatched Quantity
}

// Gain is proceeds minus cost, negative for a loss.
func (g CurrencyGain) Gain() Money { return g.Proceeds.Sub(g.Cost) }

// Partial reports whether part of the disposal was left unmatched.
func (g CurrencyGain) Partial() bool { return g.Unmatched.IsPositive() }

// ProcessCurrencyExchanges replays the exchange transactions of txs, in
// chronological order, into pools. Acquisitions add a lot, disposals consume
// lots and produce a CurrencyGain. Other transactions are ignored.
//
// A disposal larger than the pool balance fails with an InsufficientPoolError
// unless WithPartialMatches is given, in which case only the balance is
// disposed of and the rest is recorded in CurrencyGain.Unmatched.
func ProcessCurrencyExchanges(txs []Transaction, pools CurrencyPools, opts ...MatchOption) ([]CurrencyGain, error) {
	var o matchOptions
	for _, opt := range opts {
		opt(&o)
	}
	var gains []CurrencyGain
	for _, tx := range SortTransactions(txs) {
		if tx.Command != CmdExchange {
			continue
		}
		code := tx.Currency.Code()
		pool := pools.Pool(code)
		if tx.Quantity.IsPositive() {
			if err := pool.AddPurchase(tx.Quantity, tx.Currency.Rate(), tx.Day()); err != nil {
				return gains, err
			}
			continue
		}

		amount, unmatched := tx.Units(), Q(0)
		if o.partial {
			amount = MinQ(amount, pool.Balance())
			unmatched = tx.Units().Sub(amount)
			if unmatched.IsPositive() {
				slog.Warn("partial currency disposal", "currency", code, "on", tx.Day(), "unmatched", unmatched)
			}
			if amount.IsZero() {
				continue
			}
		}
		fragments, err := pool.RemoveDisposal(amount)
		if err != nil {
			var e *InsufficientPoolError
			if errors.As(err, &e) {
				e.On = tx.Day()
			}
			return gains, fmt.Errorf("disposing of %s %s: %w", tx.Units(), code, err)
		}
		g := CurrencyGain{
			Currency:  code,
			Date:      tx.Day(),
			Amount:    amount,
			Proceeds:  tx.Currency.ToBase(M(amount.value, code)),
			Cost:      GBP(0),
			Unmatched: unmatched,
		}
		for _, f := range fragments {
			g.Cost = g.Cost.Add(f.Cost)
		}
		slog.Debug("currency disposal", "currency", code, "on", g.Date, "amount", g.Amount, "gain", g.Gain().Decimal())
		gains = append(gains, g)
	}
	return gains, nil
}
