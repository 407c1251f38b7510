package cgt

import (
	"errors"
	"testing"
)

func TestCalculate(t *testing.T) {
	txs := []Transaction{
		buy(t, VOD, "2024-05-01", 100, 5, 10),
		sell(t, VOD, "2024-09-01", 100, 7, 10),
		buy(t, LLOY, "2023-05-01", 1000, 0.5, 0),
		sell(t, LLOY, "2023-10-01", 400, 0.6, 0), // previous tax year
	}
	year := MustParseTaxYear("2024-2025")

	c, err := Calculate(txs, year, DefaultAllowances())
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if len(c.Disposals) != 2 {
		t.Errorf("Disposals = %d, want 2", len(c.Disposals))
	}
	yd := c.YearDisposals()
	if len(yd) != 1 {
		t.Fatalf("YearDisposals() = %d, want 1", len(yd))
	}
	assertMoney(t, "proceeds", yd[0].Proceeds, 690)
	assertMoney(t, "cost basis", yd[0].CostBasis, 500)
	assertMoney(t, "expenses", yd[0].Expenses, 10)

	cg := c.Summary.CapitalGains
	assertMoney(t, "NetGain", cg.NetGain, 180)
	assertMoney(t, "ExemptionUsed", cg.ExemptionUsed, 180)
	assertMoney(t, "TaxableGain", cg.TaxableGain, 0)
	if c.Summary.RequiresReturn() {
		t.Error("RequiresReturn() = true, want false")
	}
	if got := c.Report().Summary.EstimatedTaxLiability.TotalEstimatedTax; !got.IsZero() {
		t.Errorf("TotalEstimatedTax = %s, want 0", got)
	}

	// repeated runs start from fresh pools
	again, err := Calculate(txs, year, DefaultAllowances())
	if err != nil {
		t.Fatal(err)
	}
	if !again.Summary.TotalTaxableIncome.Equal(c.Summary.TotalTaxableIncome) ||
		!again.Summary.CapitalGains.NetGain.Equal(cg.NetGain) {
		t.Errorf("second run summary = %+v, want %+v", again.Summary, c.Summary)
	}
}

func TestCalculate_CurrencyGains(t *testing.T) {
	in, err := NewExchange(at("2024-05-01"), Q(10000), MustCurrency("USD", 0.8))
	if err != nil {
		t.Fatal(err)
	}
	out, err := NewExchange(at("2024-11-01"), Q(-10000), MustCurrency("USD", 0.95))
	if err != nil {
		t.Fatal(err)
	}
	c, err := Calculate([]Transaction{out, in}, MustParseTaxYear("2024-2025"), DefaultAllowances())
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if n := len(c.YearCurrencyGains()); n != 1 {
		t.Fatalf("YearCurrencyGains() = %d, want 1", n)
	}
	cur := c.Summary.CurrencyGains
	assertMoney(t, "NetGainLoss", cur.NetGainLoss, 1500)
	if !c.Summary.RequiresReturn() {
		t.Error("RequiresReturn() = false for currency gains above the de minimis")
	}
}

func TestCalculate_Errors(t *testing.T) {
	short := []Transaction{
		buy(t, VOD, "2024-05-01", 10, 5, 0),
		sell(t, VOD, "2024-09-01", 25, 7, 0),
	}
	tests := []struct {
		name string
		txs  []Transaction
		year string
		want error
	}{
		{"unsupported year", short[:1], "2030-2031", ErrInvalidTaxYear},
		{"shortfall", short, "2024-2025", ErrUnmatchedDisposal},
		{"invalid transaction", []Transaction{{Command: CmdBuy, Time: at("2024-05-01"), Currency: gbp}}, "2024-2025", ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.txs, MustParseTaxYear(tt.year), DefaultAllowances())
			if !errors.Is(err, tt.want) {
				t.Errorf("Calculate() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCalculate_PartialMatches(t *testing.T) {
	txs := []Transaction{
		buy(t, VOD, "2024-05-01", 10, 5, 0),
		sell(t, VOD, "2024-09-01", 20, 7, 0),
	}
	c, err := Calculate(txs, MustParseTaxYear("2024-2025"), DefaultAllowances(), WithPartialMatches())
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	cg := c.Summary.CapitalGains
	if cg.PartialCount != 1 {
		t.Errorf("PartialCount = %d, want 1", cg.PartialCount)
	}
	// 10 of the 20 units sold: 70 proceeds for 50 cost
	assertMoney(t, "NetGain", cg.NetGain, 20)
}

func TestCalculate_CurrencyShortfall(t *testing.T) {
	out, err := NewExchange(at("2019-05-01"), Q(-100), MustCurrency("USD", 0.8))
	if err != nil {
		t.Fatal(err)
	}
	txs := []Transaction{
		buy(t, VOD, "2024-05-01", 10, 5, 0),
		sell(t, VOD, "2024-09-01", 10, 7, 0),
		out,
	}
	year := MustParseTaxYear("2024-2025")

	if _, err := Calculate(txs, year, DefaultAllowances()); !errors.Is(err, ErrInsufficientPool) {
		t.Errorf("Calculate() error = %v, want %v", err, ErrInsufficientPool)
	}

	c, err := Calculate(txs, year, DefaultAllowances(), WithPartialMatches())
	if err != nil {
		t.Fatalf("Calculate() with partial matches error = %v", err)
	}
	if len(c.CurrencyGains) != 0 {
		t.Errorf("CurrencyGains = %v, want none", c.CurrencyGains)
	}
	assertMoney(t, "NetGain", c.Summary.CapitalGains.NetGain, 20)
}
