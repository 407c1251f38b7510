package cgt

import "github.com/shopspring/decimal"

// TaxCalculationReport is the flat form of a ComprehensiveTaxSummary handed to
// report generators. Every figure is in pounds, rounded to the penny.
type TaxCalculationReport struct {
	TaxYear        TaxYear             `json:"tax_year"`
	CapitalGains   CapitalGainsReport  `json:"capital_gains"`
	DividendIncome DividendReport      `json:"dividend_income"`
	CurrencyGains  CurrencyGainsReport `json:"currency_gains"`
	Summary        SummaryReport       `json:"summary"`
}

type CapitalGainsReport struct {
	TotalGain     decimal.Decimal `json:"total_gain"`
	AllowanceUsed decimal.Decimal `json:"allowance_used"`
	TaxableGain   decimal.Decimal `json:"taxable_gain"`
}

type DividendReport struct {
	TotalGross     decimal.Decimal `json:"total_gross"`
	TotalNet       decimal.Decimal `json:"total_net"`
	AllowanceUsed  decimal.Decimal `json:"allowance_used"`
	TaxableIncome  decimal.Decimal `json:"taxable_income"`
	WithholdingTax decimal.Decimal `json:"withholding_tax"`
}

type CurrencyGainsReport struct {
	TotalGains    decimal.Decimal `json:"total_gains"`
	TotalLosses   decimal.Decimal `json:"total_losses"`
	NetGainLoss   decimal.Decimal `json:"net_gain_loss"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
}

type SummaryReport struct {
	TotalAllowableCosts   decimal.Decimal       `json:"total_allowable_costs"`
	TotalTaxableIncome    decimal.Decimal       `json:"total_taxable_income"`
	EstimatedTaxLiability EstimatedTaxLiability `json:"estimated_tax_liability"`
}

// EstimatedTaxLiability applies the configured rates to the taxable amounts.
type EstimatedTaxLiability struct {
	CapitalGainsTax   decimal.Decimal `json:"capital_gains_tax"`
	DividendTax       decimal.Decimal `json:"dividend_tax"`
	CurrencyGainsTax  decimal.Decimal `json:"currency_gains_tax"`
	TotalEstimatedTax decimal.Decimal `json:"total_estimated_tax"`
}

// pennies rounds m half away from zero to 2 decimal places.
func pennies(m Money) decimal.Decimal { return m.Decimal().Round(2) }

// GenerateTaxCalculationReport flattens s. Currency gains are taxed at the
// capital gains rate.
func GenerateTaxCalculationReport(s ComprehensiveTaxSummary) TaxCalculationReport {
	cg, div, cur := s.CapitalGains, s.Dividends, s.CurrencyGains
	cgt := cg.TaxableGain.Mul(Q(s.Allowance.CapitalGainsRate))
	dt := div.TaxableIncome.Mul(Q(s.Allowance.DividendRate))
	ct := cur.TaxableAmount.Mul(Q(s.Allowance.CapitalGainsRate))

	return TaxCalculationReport{
		TaxYear: s.Year,
		CapitalGains: CapitalGainsReport{
			TotalGain:     pennies(cg.NetGain),
			AllowanceUsed: pennies(cg.ExemptionUsed),
			TaxableGain:   pennies(cg.TaxableGain),
		},
		DividendIncome: DividendReport{
			TotalGross:     pennies(div.TotalGross),
			TotalNet:       pennies(div.TotalNet),
			AllowanceUsed:  pennies(div.AllowanceUsed),
			TaxableIncome:  pennies(div.TaxableIncome),
			WithholdingTax: pennies(div.WithholdingTax),
		},
		CurrencyGains: CurrencyGainsReport{
			TotalGains:    pennies(cur.TotalGains),
			TotalLosses:   pennies(cur.TotalLosses),
			NetGainLoss:   pennies(cur.NetGainLoss),
			TaxableAmount: pennies(cur.TaxableAmount),
		},
		Summary: SummaryReport{
			TotalAllowableCosts: pennies(s.TotalAllowableCosts),
			TotalTaxableIncome:  pennies(s.TotalTaxableIncome),
			EstimatedTaxLiability: EstimatedTaxLiability{
				CapitalGainsTax:   pennies(cgt),
				DividendTax:       pennies(dt),
				CurrencyGainsTax:  pennies(ct),
				TotalEstimatedTax: pennies(cgt.Add(dt).Add(ct)),
			},
		},
	}
}
