package cgt

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/etnz/cgt/date"
	"github.com/shopspring/decimal"
)

// SharePool is the Section 104 holding of one security: every unit still held
// and its total cost in the base currency. The average cost is always derived
// from the two, it is never stored.
type SharePool struct {
	Security string
	quantity Quantity
	cost     Money
}

// NewSharePool returns an empty pool for the security key.
func NewSharePool(security string) *SharePool {
	return &SharePool{Security: security, cost: GBP(0)}
}

func (p *SharePool) Quantity() Quantity { return p.quantity }
func (p *SharePool) CostBasis() Money   { return p.cost }
func (p *SharePool) IsEmpty() bool      { return p.quantity.IsZero() }

// AverageCost is the cost basis per unit, or zero for an empty pool.
func (p *SharePool) AverageCost() Money {
	if p.quantity.IsZero() {
		return GBP(0)
	}
	return p.cost.Div(p.quantity)
}

// Add pools quantity units acquired for cost, in the base currency.
func (p *SharePool) Add(quantity Quantity, cost Money) error {
	if !quantity.IsPositive() {
		return validationErrorf("pool %s: added quantity must be positive, got %s", p.Security, quantity)
	}
	if cost.IsNegative() {
		return validationErrorf("pool %s: added cost must not be negative, got %s", p.Security, cost.Decimal())
	}
	if c := cost.Currency(); c != "" && c != BaseCurrency {
		return validationErrorf("pool %s: cost must be in %s, got %s", p.Security, BaseCurrency, c)
	}
	p.quantity = p.quantity.Add(quantity)
	p.cost = p.cost.Add(cost)
	return nil
}

// Remove takes quantity units out of the pool together with their share of
// the cost basis. The pool is left unchanged when it holds fewer units.
func (p *SharePool) Remove(quantity Quantity) (Quantity, Money, error) {
	if !quantity.IsPositive() {
		return Quantity{}, Money{}, validationErrorf("pool %s: removed quantity must be positive, got %s", p.Security, quantity)
	}
	if quantity.GreaterThan(p.quantity) {
		return Quantity{}, Money{}, &InsufficientPoolError{Pool: p.Security, Requested: quantity, Available: p.quantity}
	}
	var removed Money
	if quantity.Equal(p.quantity) {
		removed = p.cost
	} else {
		removed = p.cost.Mul(quantity).Div(p.quantity)
	}
	p.quantity = p.quantity.Sub(quantity)
	p.cost = p.cost.Sub(removed)
	return quantity, removed, nil
}

// SharePools holds the Section 104 pools of a calculation run, by security key.
// It belongs to the caller, a fresh one is needed for every run.
type SharePools map[string]*SharePool

// Pool returns the pool for security, creating it on first use.
func (s SharePools) Pool(security string) *SharePool {
	p, ok := s[security]
	if !ok {
		p = NewSharePool(security)
		s[security] = p
	}
	return p
}

// apply updates the pools with a buy or a sell, other transactions are
// ignored. Only the part of a buy left to the pool, direct, and the part of a
// sell matched against the pool, pooled, are applied. Emptied pools are
// removed.
func (s SharePools) apply(tx Transaction, direct, pooled Quantity) error {
	switch tx.Command {
	case CmdBuy:
		q := tx.Units().Sub(direct)
		if !q.IsPositive() {
			return nil
		}
		cost := tx.TotalCostBase()
		if !direct.IsZero() {
			cost = cost.Mul(q).Div(tx.Units())
		}
		return s.Pool(tx.Security.Key()).Add(q, cost)
	case CmdSell:
		if !pooled.IsPositive() {
			return nil
		}
		p, ok := s[tx.Security.Key()]
		if !ok {
			return &InsufficientPoolError{Pool: tx.Security.Key(), On: tx.Day(), Requested: pooled, Available: Q(0)}
		}
		if _, _, err := p.Remove(pooled); err != nil {
			var e *InsufficientPoolError
			if errors.As(err, &e) {
				e.On = tx.Day()
			}
			return err
		}
		if p.IsEmpty() {
			delete(s, tx.Security.Key())
		}
	}
	return nil
}

// Keys returns the security keys of the pools, sorted.
func (s SharePools) Keys() []string { return slices.Sorted(maps.Keys(s)) }

// NewHoldings returns the Section 104 pools still holding units on the day on
// (inclusive), a zero date meaning after every transaction.
//
// The transactions up to on are matched first, so that units bought back
// within 30 days of a sell, or on the same day, never enter the pool and the
// sell only takes out of the pool what it was matched against there. opts are
// passed to MatchTransactions.
func NewHoldings(txs []Transaction, on date.Date, opts ...MatchOption) (SharePools, error) {
	sorted := SortTransactions(txs)
	if !on.IsZero() {
		n, _ := slices.BinarySearchFunc(sorted, on, func(tx Transaction, d date.Date) int {
			if tx.Day().After(d) {
				return 1
			}
			return -1
		})
		sorted = sorted[:n]
	}
	matches, err := MatchTransactions(sorted, opts...)
	if err != nil {
		return nil, fmt.Errorf("matching holdings: %w", err)
	}
	// quantities by chronological rank
	direct := make(map[int]Quantity)
	pooled := make(map[int]Quantity)
	for _, m := range matches {
		for _, f := range m.Fragments {
			if f.Rule == Section104 {
				pooled[m.rank] = pooled[m.rank].Add(f.Quantity)
			} else {
				direct[f.buyRank] = direct[f.buyRank].Add(f.Quantity)
			}
		}
	}

	pools := make(SharePools)
	for i, tx := range sorted {
		if err := pools.apply(tx, direct[i], pooled[i]); err != nil {
			return nil, fmt.Errorf("replaying %s of %s: %w", tx.Command, tx.Security, err)
		}
	}
	slog.Debug("holdings replayed", "pools", len(pools), "on", on)
	return pools, nil
}

// Holding is a read only view of a Section 104 pool.
type Holding struct {
	Security    string          `json:"security"`
	Quantity    decimal.Decimal `json:"quantity"`
	CostBasis   decimal.Decimal `json:"cost_basis"`
	AverageCost decimal.Decimal `json:"average_cost"`
}

// Holdings lists the pools as sorted, rounded Holding values.
func (s SharePools) Holdings() []Holding {
	res := make([]Holding, 0, len(s))
	for _, k := range s.Keys() {
		p := s[k]
		res = append(res, Holding{
			Security:    k,
			Quantity:    p.quantity.Decimal(),
			CostBasis:   p.cost.Round().Decimal(),
			AverageCost: p.AverageCost().Decimal().Round(4),
		})
	}
	return res
}
