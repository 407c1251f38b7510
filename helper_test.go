package cgt

import (
	"testing"
	"time"
)

var (
	VOD  = MustSecurity(ISIN, "GB00BH4HKS39", "VOD", "Vodafone Group")
	LLOY = MustSecurity(ISIN, "GB0008706128", "LLOY", "Lloyds Banking Group")
	AAPL = MustSecurity(TICKER, "AAPL", "", "Apple Inc.")

	gbp = Base()
	usd = MustCurrency("USD", 0.8)
)

// at parses a "2006-01-02" or "2006-01-02 15:04:05" UTC instant.
func at(s string) time.Time {
	layout := time.DateOnly
	if len(s) > len(time.DateOnly) {
		layout = time.DateTime
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// buy is a helper for tests to create a GBP buy with a commission.
func buy(t *testing.T, sec Security, on string, units, price, commission float64) Transaction {
	t.Helper()
	tx, err := NewBuy(at(on), sec, Q(units), GBP(price), GBP(commission), GBP(0), gbp)
	if err != nil {
		t.Fatalf("NewBuy() error = %v", err)
	}
	tx.ID = "buy " + on
	return tx
}

// sell is a helper for tests to create a GBP sell with a commission.
func sell(t *testing.T, sec Security, on string, units, price, commission float64) Transaction {
	t.Helper()
	tx, err := NewSell(at(on), sec, Q(units), GBP(price), GBP(commission), GBP(0), gbp)
	if err != nil {
		t.Fatalf("NewSell() error = %v", err)
	}
	tx.ID = "sell " + on
	return tx
}

// assertMoney fails when got is not numerically equal to want.
func assertMoney(t *testing.T, name string, got Money, want float64) {
	t.Helper()
	if !got.Decimal().Equal(newDecimal(want)) {
		t.Errorf("%s = %s, want %v", name, got.Decimal(), want)
	}
}
