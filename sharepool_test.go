package cgt

import (
	"errors"
	"slices"
	"testing"

	"github.com/etnz/cgt/date"
)

func TestSharePool_AddRemove(t *testing.T) {
	p := NewSharePool("VOD")
	if err := p.Add(Q(100), GBP(510)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := p.Add(Q(50), GBP(390)); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	assertMoney(t, "AverageCost()", p.AverageCost(), 6)

	q, cost, err := p.Remove(Q(30))
	if err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if !q.Equal(Q(30)) {
		t.Errorf("Remove() quantity = %s, want 30", q)
	}
	assertMoney(t, "Remove() cost", cost, 180)
	assertMoney(t, "CostBasis()", p.CostBasis(), 720)
	if !p.Quantity().Equal(Q(120)) {
		t.Errorf("Quantity() = %s, want 120", p.Quantity())
	}
	// the invariant cost == quantity * average holds after a removal
	assertMoney(t, "AverageCost()", p.AverageCost(), 6)

	if _, cost, err = p.Remove(Q(120)); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	assertMoney(t, "Remove() cost", cost, 720)
	if !p.IsEmpty() {
		t.Errorf("pool should be empty, got %s", p.Quantity())
	}
	assertMoney(t, "AverageCost() of empty pool", p.AverageCost(), 0)
}

func TestSharePool_InsufficientPool(t *testing.T) {
	p := NewSharePool("VOD")
	if err := p.Add(Q(100), GBP(500)); err != nil {
		t.Fatal(err)
	}
	_, _, err := p.Remove(Q(150))
	if !errors.Is(err, ErrInsufficientPool) {
		t.Fatalf("Remove(150) error = %v, want %v", err, ErrInsufficientPool)
	}
	var e *InsufficientPoolError
	if !errors.As(err, &e) {
		t.Fatalf("Remove(150) error = %T, want *InsufficientPoolError", err)
	}
	if !e.Requested.Equal(Q(150)) || !e.Available.Equal(Q(100)) || !e.Shortfall().Equal(Q(50)) {
		t.Errorf("error = %+v, want requested 150, available 100, shortfall 50", e)
	}
	// the pool is left untouched
	if !p.Quantity().Equal(Q(100)) {
		t.Errorf("Quantity() = %s after a failed Remove, want 100", p.Quantity())
	}
	assertMoney(t, "CostBasis()", p.CostBasis(), 500)
}

func TestSharePool_Validation(t *testing.T) {
	p := NewSharePool("VOD")
	if err := p.Add(Q(0), GBP(1)); !errors.Is(err, ErrValidation) {
		t.Errorf("Add(0) error = %v, want a validation error", err)
	}
	if err := p.Add(Q(1), GBP(-1)); !errors.Is(err, ErrValidation) {
		t.Errorf("Add(cost -1) error = %v, want a validation error", err)
	}
	if err := p.Add(Q(1), M(1, "USD")); !errors.Is(err, ErrValidation) {
		t.Errorf("Add(cost in USD) error = %v, want a validation error", err)
	}
	if _, _, err := p.Remove(Q(-1)); !errors.Is(err, ErrValidation) {
		t.Errorf("Remove(-1) error = %v, want a validation error", err)
	}
}

func TestNewHoldings(t *testing.T) {
	txs := []Transaction{
		sell(t, VOD, "2024-03-01", 50, 0.8, 5),
		buy(t, VOD, "2024-01-10", 100, 0.7, 10),
		buy(t, LLOY, "2024-02-01", 1000, 0.5, 10),
		sell(t, LLOY, "2024-05-01", 1000, 0.6, 10),
	}

	pools, err := NewHoldings(txs, date.Date{})
	if err != nil {
		t.Fatalf("NewHoldings() error = %v", err)
	}
	if got := pools.Keys(); len(got) != 1 || got[0] != VOD.Key() {
		t.Fatalf("Keys() = %v, want only %s (emptied pools are removed)", got, VOD.Key())
	}
	vod := pools[VOD.Key()]
	if !vod.Quantity().Equal(Q(50)) {
		t.Errorf("VOD quantity = %s, want 50", vod.Quantity())
	}
	// (100 * 0.7 + 10) / 2
	assertMoney(t, "VOD cost basis", vod.CostBasis(), 40)

	// before the sell of LLOY, both pools are open
	pools, err = NewHoldings(txs, date.MustParse("2024-04-05"))
	if err != nil {
		t.Fatalf("NewHoldings() error = %v", err)
	}
	if len(pools) != 2 {
		t.Errorf("NewHoldings(2024-04-05) = %d pools, want 2", len(pools))
	}
}

func TestNewHoldings_Insufficient(t *testing.T) {
	txs := []Transaction{
		buy(t, VOD, "2024-01-10", 100, 1, 0),
		sell(t, VOD, "2024-03-01", 150, 1, 0),
	}
	_, err := NewHoldings(txs, date.Date{})
	var e *UnmatchedDisposalError
	if !errors.As(err, &e) {
		t.Fatalf("NewHoldings() error = %v, want *UnmatchedDisposalError", err)
	}
	if got := e.On.String(); got != "2024-03-01" {
		t.Errorf("error date = %s, want 2024-03-01", got)
	}

	// with partial matches the shortfall is left out and the pool emptied
	pools, err := NewHoldings(txs, date.Date{}, WithPartialMatches())
	if err != nil {
		t.Fatalf("NewHoldings() with partial matches error = %v", err)
	}
	if len(pools) != 0 {
		t.Errorf("NewHoldings() = %v, want no pools", pools.Keys())
	}
}

func TestNewHoldings_Reacquisition(t *testing.T) {
	txs := []Transaction{
		buy(t, VOD, "2024-01-10", 100, 1, 10),
		sell(t, VOD, "2024-03-01", 60, 1.2, 0),
		buy(t, VOD, "2024-03-15", 60, 1.1, 0), // matched with the sell of 2024-03-01
		sell(t, LLOY, "2024-02-01", 1000, 0.5, 0),
		buy(t, LLOY, "2024-02-20", 1000, 0.4, 0), // matched with the sell of 2024-02-01
	}
	tests := []struct {
		on       string
		keys     []string
		quantity float64
		cost     float64
	}{
		{"", []string{VOD.Key()}, 100, 110},
		// before the buy back the sell is drawn from the pool
		{"2024-03-05", []string{VOD.Key()}, 40, 44},
		{"2024-02-10", []string{VOD.Key()}, 100, 110},
	}
	for _, tt := range tests {
		t.Run(tt.on, func(t *testing.T) {
			var on date.Date
			if tt.on != "" {
				on = date.MustParse(tt.on)
			}
			pools, err := NewHoldings(txs, on, WithPartialMatches())
			if err != nil {
				t.Fatalf("NewHoldings() error = %v", err)
			}
			if got := pools.Keys(); !slices.Equal(got, tt.keys) {
				t.Fatalf("Keys() = %v, want %v", got, tt.keys)
			}
			vod := pools[VOD.Key()]
			if !vod.Quantity().Equal(Q(tt.quantity)) {
				t.Errorf("VOD quantity = %s, want %v", vod.Quantity(), tt.quantity)
			}
			assertMoney(t, "VOD cost basis", vod.CostBasis(), tt.cost)
		})
	}

	// the full ledger matches without a shortfall
	if _, err := NewHoldings(txs, date.Date{}); err != nil {
		t.Errorf("NewHoldings() error = %v", err)
	}
}
