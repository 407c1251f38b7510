package cgt

import (
	"errors"
	"testing"
)

func TestTransaction_Validate(t *testing.T) {
	on := at("2024-06-01")
	tests := []struct {
		name    string
		tx      func() (Transaction, error)
		wantErr bool
	}{
		{"buy", func() (Transaction, error) {
			return NewBuy(on, VOD, Q(100), GBP(5), GBP(10), GBP(2.5), gbp)
		}, false},
		{"buy of zero units", func() (Transaction, error) {
			return NewBuy(on, VOD, Q(0), GBP(5), GBP(10), GBP(0), gbp)
		}, true},
		{"negative commission", func() (Transaction, error) {
			return NewBuy(on, VOD, Q(100), GBP(5), GBP(-10), GBP(0), gbp)
		}, true},
		{"negative taxes", func() (Transaction, error) {
			return NewSell(on, VOD, Q(100), GBP(5), GBP(0), GBP(-1), gbp)
		}, true},
		{"negative price", func() (Transaction, error) {
			return NewSell(on, VOD, Q(100), GBP(-5), GBP(0), GBP(0), gbp)
		}, true},
		{"price in another currency", func() (Transaction, error) {
			return NewBuy(on, AAPL, Q(1), M(150, "EUR"), M(1, "USD"), M(0, "USD"), usd)
		}, true},
		{"sell of negative units", func() (Transaction, error) {
			return NewSell(on, VOD, Q(-100), GBP(5), GBP(0), GBP(0), gbp)
		}, true},
		{"missing security", func() (Transaction, error) {
			return NewBuy(on, Security{}, Q(1), GBP(5), GBP(0), GBP(0), gbp)
		}, true},
		{"missing currency", func() (Transaction, error) {
			return NewBuy(on, VOD, Q(1), GBP(5), GBP(0), GBP(0), Currency{})
		}, true},
		{"exchange of base currency", func() (Transaction, error) {
			return NewExchange(on, Q(100), gbp)
		}, true},
		{"exchange", func() (Transaction, error) {
			return NewExchange(on, Q(-100), usd)
		}, false},
		{"dividend", func() (Transaction, error) {
			return NewDividend(on, AAPL, Q(10), M(0.25, "USD"), M(0.38, "USD"), usd)
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.tx()
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("error = %v, want a validation error", err)
			}
		})
	}
}

func TestTransaction_Amounts(t *testing.T) {
	b, err := NewBuy(at("2024-06-01"), AAPL, Q(10), M(150, "USD"), M(5, "USD"), M(1, "USD"), usd)
	if err != nil {
		t.Fatal(err)
	}
	assertMoney(t, "Gross()", b.Gross(), 1500)
	assertMoney(t, "TotalCost()", b.TotalCost(), 1506)
	assertMoney(t, "NetAmount()", b.NetAmount(), 1506)
	assertMoney(t, "TotalCostBase()", b.TotalCostBase(), 1204.8)

	s, err := NewSell(at("2024-07-01"), AAPL, Q(10), M(160, "USD"), M(5, "USD"), M(0, "USD"), usd)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Quantity.Equal(Q(-10)) {
		t.Errorf("sell Quantity = %s, want -10", s.Quantity)
	}
	assertMoney(t, "NetAmount()", s.NetAmount(), 1595)
	assertMoney(t, "NetAmountBase()", s.NetAmountBase(), 1276)
}

func TestSortTransactions(t *testing.T) {
	a := buy(t, VOD, "2024-06-02", 1, 1, 0)
	b := buy(t, VOD, "2024-06-01 15:00:00", 1, 1, 0)
	c := buy(t, LLOY, "2024-06-01 15:00:00", 1, 1, 0)
	in := []Transaction{a, b, c}
	got := SortTransactions(in)
	want := []Transaction{b, c, a}
	for i := range want {
		if got[i].Security != want[i].Security || !got[i].Time.Equal(want[i].Time) {
			t.Errorf("SortTransactions()[%d] = %s %v, want %s %v", i, got[i].Security, got[i].Time, want[i].Security, want[i].Time)
		}
	}
	if in[0].Time != a.Time {
		t.Errorf("SortTransactions() modified its input")
	}
}
