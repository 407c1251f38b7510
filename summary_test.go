package cgt

import (
	"errors"
	"testing"

	"github.com/etnz/cgt/date"
)

// disposal is a helper to create a priced disposal of one VOD unit.
func disposal(on string, proceeds, cost, expenses float64) Disposal {
	return Disposal{
		Security:  VOD,
		Date:      date.MustParse(on),
		Quantity:  Q(1),
		Proceeds:  GBP(proceeds),
		CostBasis: GBP(cost),
		Expenses:  GBP(expenses),
		Rule:      Section104,
	}
}

func TestApplyAllowance(t *testing.T) {
	tests := []struct {
		net, allowance      float64
		wantUsed, wantTaxed float64
	}{
		{net: 5000, allowance: 3000, wantUsed: 3000, wantTaxed: 2000},
		{net: 3000, allowance: 3000, wantUsed: 3000, wantTaxed: 0},
		{net: 1000, allowance: 3000, wantUsed: 1000, wantTaxed: 0},
		{net: 0, allowance: 3000, wantUsed: 0, wantTaxed: 0},
		{net: -500, allowance: 3000, wantUsed: 0, wantTaxed: 0},
		{net: 200, allowance: 0, wantUsed: 0, wantTaxed: 200},
	}
	for _, tt := range tests {
		used, taxable := applyAllowance(GBP(tt.net), GBP(tt.allowance))
		if !used.Decimal().Equal(newDecimal(tt.wantUsed)) || !taxable.Decimal().Equal(newDecimal(tt.wantTaxed)) {
			t.Errorf("applyAllowance(%v, %v) = %s, %s; want %v, %v", tt.net, tt.allowance,
				used.Decimal(), taxable.Decimal(), tt.wantUsed, tt.wantTaxed)
		}
	}
}

func TestNewTaxYearSummary(t *testing.T) {
	year := MustParseTaxYear("2024-2025")
	partial := disposal("2025-02-01", 100, 100, 0)
	partial.Unmatched = Q(3)
	disposals := []Disposal{
		disposal("2024-04-05", 2000, 1001, 0), // previous tax year
		disposal("2024-06-01", 7000, 1990, 10),
		disposal("2024-12-01", 800, 1950, 50),
		partial,
		disposal("2025-04-06", 9000, 0, 0), // next tax year
	}

	s := NewTaxYearSummary(year, disposals, GBP(3000))
	if s.Disposals != 3 {
		t.Errorf("Disposals = %d, want 3", s.Disposals)
	}
	if s.PartialCount != 1 {
		t.Errorf("PartialCount = %d, want 1", s.PartialCount)
	}
	assertMoney(t, "TotalProceeds", s.TotalProceeds, 7900)
	assertMoney(t, "TotalGains", s.TotalGains, 5000)
	assertMoney(t, "TotalLosses", s.TotalLosses, 1200)
	assertMoney(t, "NetGain", s.NetGain, 3800)
	assertMoney(t, "AllowableCosts", s.AllowableCosts, 4100)
	assertMoney(t, "ExemptionUsed", s.ExemptionUsed, 3000)
	assertMoney(t, "TaxableGain", s.TaxableGain, 800)

	// summaries hold no state between calls
	again := NewTaxYearSummary(year, disposals, GBP(3000))
	if !again.TaxableGain.Equal(s.TaxableGain) || again.Disposals != s.Disposals {
		t.Errorf("second summary = %+v, want %+v", again, s)
	}
}

func TestNewTaxYearSummary_Loss(t *testing.T) {
	s := NewTaxYearSummary(MustParseTaxYear("2023-2024"), []Disposal{disposal("2023-05-01", 500, 900, 0)}, GBP(6000))
	assertMoney(t, "NetGain", s.NetGain, -400)
	assertMoney(t, "ExemptionUsed", s.ExemptionUsed, 0)
	assertMoney(t, "TaxableGain", s.TaxableGain, 0)
}

func TestNewDividendSummary(t *testing.T) {
	usdDividend, err := NewDividend(at("2024-09-30"), AAPL, Q(100), M(0.5, "USD"), M(7.5, "USD"), usd)
	if err != nil {
		t.Fatal(err)
	}
	gbpDividend, err := NewDividend(at("2025-03-01"), VOD, Q(600), GBP(1), GBP(0), gbp)
	if err != nil {
		t.Fatal(err)
	}
	outOfYear, err := NewDividend(at("2025-05-01"), VOD, Q(600), GBP(1), GBP(0), gbp)
	if err != nil {
		t.Fatal(err)
	}
	txs := []Transaction{usdDividend, buy(t, VOD, "2024-10-01", 10, 1, 0), gbpDividend, outOfYear}

	s := NewDividendSummary(MustParseTaxYear("2024-2025"), txs, GBP(500))
	if s.Dividends != 2 {
		t.Errorf("Dividends = %d, want 2", s.Dividends)
	}
	assertMoney(t, "TotalGross", s.TotalGross, 640)
	assertMoney(t, "WithholdingTax", s.WithholdingTax, 6)
	assertMoney(t, "TotalNet", s.TotalNet, 634)
	assertMoney(t, "AllowanceUsed", s.AllowanceUsed, 500)
	assertMoney(t, "TaxableIncome", s.TaxableIncome, 134)
}

func currencyGain(on string, proceeds, cost float64) CurrencyGain {
	return CurrencyGain{Currency: "USD", Date: date.MustParse(on), Amount: Q(1), Proceeds: GBP(proceeds), Cost: GBP(cost)}
}

func TestNewCurrencyGainSummary(t *testing.T) {
	year := MustParseTaxYear("2024-2025")
	tests := []struct {
		name        string
		gains       []CurrencyGain
		wantNet     float64
		wantTaxable float64
		wantReturn  bool
	}{
		{
			name:        "above de minimis",
			gains:       []CurrencyGain{currencyGain("2024-05-01", 2200, 1000), currencyGain("2024-06-01", 800, 1000)},
			wantNet:     1000,
			wantTaxable: 1000,
			wantReturn:  true,
		},
		{
			name:        "at de minimis",
			gains:       []CurrencyGain{currencyGain("2024-05-01", 2000, 1000)},
			wantNet:     1000,
			wantTaxable: 1000,
			wantReturn:  false,
		},
		{
			name:        "net loss",
			gains:       []CurrencyGain{currencyGain("2024-05-01", 500, 1000), currencyGain("2023-05-01", 5000, 1000)},
			wantNet:     -500,
			wantTaxable: 0,
			wantReturn:  false,
		},
		{
			name:        "large net loss",
			gains:       []CurrencyGain{currencyGain("2024-05-01", 500, 2000), currencyGain("2024-08-01", 300, 100)},
			wantNet:     -1300,
			wantTaxable: 0,
			wantReturn:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewCurrencyGainSummary(year, tt.gains)
			assertMoney(t, "NetGainLoss", s.NetGainLoss, tt.wantNet)
			assertMoney(t, "TaxableAmount", s.TaxableAmount, tt.wantTaxable)
			if got := s.RequiresReturn(); got != tt.wantReturn {
				t.Errorf("RequiresReturn() = %v, want %v", got, tt.wantReturn)
			}
		})
	}
}

func TestNewComprehensiveTaxSummary(t *testing.T) {
	year := MustParseTaxYear("2024-2025")
	disposals := []Disposal{disposal("2024-06-01", 7000, 1990, 10), disposal("2024-12-01", 800, 1950, 50)}
	dividend, err := NewDividend(at("2025-03-01"), VOD, Q(634), GBP(1), GBP(0), gbp)
	if err != nil {
		t.Fatal(err)
	}
	gains := []CurrencyGain{currencyGain("2024-05-01", 2000, 1000)}

	s, err := NewComprehensiveTaxSummary(year, disposals, []Transaction{dividend}, gains, DefaultAllowances())
	if err != nil {
		t.Fatalf("NewComprehensiveTaxSummary() error = %v", err)
	}
	assertMoney(t, "TotalAllowableCosts", s.TotalAllowableCosts, 4000)
	assertMoney(t, "TotalTaxableIncome", s.TotalTaxableIncome, 800+134+1000)
	assertMoney(t, "TotalAllowanceUsed", s.TotalAllowanceUsed, 3500)
	if !s.RequiresReturn() {
		t.Error("RequiresReturn() = false, want true")
	}

	_, err = NewComprehensiveTaxSummary(MustParseTaxYear("2010-2011"), disposals, nil, gains, DefaultAllowances())
	if !errors.Is(err, ErrInvalidTaxYear) {
		t.Errorf("NewComprehensiveTaxSummary(2010-2011) error = %v, want %v", err, ErrInvalidTaxYear)
	}
}

func TestComprehensiveTaxSummary_NothingToDeclare(t *testing.T) {
	s, err := NewComprehensiveTaxSummary(MustParseTaxYear("2024-2025"),
		[]Disposal{disposal("2024-06-01", 2000, 1000, 0)}, nil, nil, DefaultAllowances())
	if err != nil {
		t.Fatal(err)
	}
	if s.RequiresReturn() {
		t.Errorf("RequiresReturn() = true for a gain within the exemption")
	}
}
