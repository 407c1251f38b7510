package cgt

// CurrencyDeMinimis is the amount of currency gains above which a tax return
// is required.
var CurrencyDeMinimis = GBP(1000)

// applyAllowance returns the part of net covered by allowance and the taxable
// rest: used = min(allowance, max(0, net)), taxable = max(0, net - used).
func applyAllowance(net, allowance Money) (used, taxable Money) {
	used = MinM(allowance, MaxM(GBP(0), net))
	taxable = MaxM(GBP(0), net.Sub(used))
	return used, taxable
}

// TaxYearSummary accumulates the disposals of one tax year.
type TaxYearSummary struct {
	Year           TaxYear
	Disposals      int
	TotalProceeds  Money
	TotalGains     Money // sum of the gains
	TotalLosses    Money // sum of the losses, as a positive figure
	NetGain        Money // gains minus losses
	AllowableCosts Money // cost basis plus expenses
	PartialCount   int   // disposals with an unmatched part

	AnnualExemption Money
	ExemptionUsed   Money
	TaxableGain     Money
}

func newTaxYearSummary(year TaxYear) TaxYearSummary {
	return TaxYearSummary{
		Year:            year,
		TotalProceeds:   GBP(0),
		TotalGains:      GBP(0),
		TotalLosses:     GBP(0),
		NetGain:         GBP(0),
		AllowableCosts:  GBP(0),
		AnnualExemption: GBP(0),
		ExemptionUsed:   GBP(0),
		TaxableGain:     GBP(0),
	}
}

// Add accumulates d into the totals, the exemption must be applied again.
func (s *TaxYearSummary) Add(d Disposal) {
	gain := d.GainOrLoss()
	s.Disposals++
	s.TotalProceeds = s.TotalProceeds.Add(d.Proceeds)
	s.AllowableCosts = s.AllowableCosts.Add(d.AllowableCosts())
	if gain.IsNegative() {
		s.TotalLosses = s.TotalLosses.Add(gain.Neg())
	} else {
		s.TotalGains = s.TotalGains.Add(gain)
	}
	s.NetGain = s.NetGain.Add(gain)
	if d.Partial() {
		s.PartialCount++
	}
}

// ApplyExemption computes the exemption used and the taxable gain.
func (s *TaxYearSummary) ApplyExemption(exemption Money) {
	s.AnnualExemption = exemption
	s.ExemptionUsed, s.TaxableGain = applyAllowance(s.NetGain, exemption)
}

// NewTaxYearSummary sums the disposals made in year and applies the annual
// exemption.
func NewTaxYearSummary(year TaxYear, disposals []Disposal, exemption Money) TaxYearSummary {
	s := newTaxYearSummary(year)
	for _, d := range disposals {
		if year.Contains(d.Date) {
			s.Add(d)
		}
	}
	s.ApplyExemption(exemption)
	return s
}

// DividendSummary accumulates the dividends of one tax year.
type DividendSummary struct {
	Year           TaxYear
	Dividends      int
	TotalGross     Money
	WithholdingTax Money
	TotalNet       Money

	Allowance     Money
	AllowanceUsed Money
	TaxableIncome Money
}

// NewDividendSummary sums the dividend transactions paid in year and applies
// the dividend allowance to the net income.
func NewDividendSummary(year TaxYear, txs []Transaction, allowance Money) DividendSummary {
	s := DividendSummary{Year: year, TotalGross: GBP(0), WithholdingTax: GBP(0), TotalNet: GBP(0)}
	for _, tx := range txs {
		if tx.Command != CmdDividend || !year.Contains(tx.Day()) {
			continue
		}
		s.Dividends++
		s.TotalGross = s.TotalGross.Add(tx.GrossBase())
		s.WithholdingTax = s.WithholdingTax.Add(tx.ToBase(tx.Taxes))
		s.TotalNet = s.TotalNet.Add(tx.NetAmountBase())
	}
	s.Allowance = allowance
	s.AllowanceUsed, s.TaxableIncome = applyAllowance(s.TotalNet, allowance)
	return s
}

// CurrencyGainSummary accumulates the currency gains of one tax year. There is
// no allowance, the whole net gain is taxable.
type CurrencyGainSummary struct {
	Year          TaxYear
	Disposals     int
	TotalGains    Money
	TotalLosses   Money // as a positive figure
	NetGainLoss   Money
	TaxableAmount Money
}

// NewCurrencyGainSummary sums the currency gains realised in year.
func NewCurrencyGainSummary(year TaxYear, gains []CurrencyGain) CurrencyGainSummary {
	s := CurrencyGainSummary{Year: year, TotalGains: GBP(0), TotalLosses: GBP(0), NetGainLoss: GBP(0)}
	for _, g := range gains {
		if !year.Contains(g.Date) {
			continue
		}
		s.Disposals++
		gain := g.Gain()
		if gain.IsNegative() {
			s.TotalLosses = s.TotalLosses.Add(gain.Neg())
		} else {
			s.TotalGains = s.TotalGains.Add(gain)
		}
		s.NetGainLoss = s.NetGainLoss.Add(gain)
	}
	s.TaxableAmount = MaxM(GBP(0), s.NetGainLoss)
	return s
}

// RequiresReturn reports whether the gross gains or the net gain or loss
// exceed the de minimis.
func (s CurrencyGainSummary) RequiresReturn() bool {
	return s.TotalGains.GreaterThan(CurrencyDeMinimis) || s.NetGainLoss.Abs().GreaterThan(CurrencyDeMinimis)
}

// ComprehensiveTaxSummary is the complete picture of one tax year.
type ComprehensiveTaxSummary struct {
	Year          TaxYear
	Allowance     Allowance
	CapitalGains  TaxYearSummary
	Dividends     DividendSummary
	CurrencyGains CurrencyGainSummary

	TotalAllowableCosts Money
	TotalTaxableIncome  Money
	TotalAllowanceUsed  Money
}

// NewComprehensiveTaxSummary builds the summaries of every income type for
// year. It fails with ErrInvalidTaxYear when table does not cover year.
func NewComprehensiveTaxSummary(year TaxYear, disposals []Disposal, dividends []Transaction, gains []CurrencyGain, table AllowanceTable) (ComprehensiveTaxSummary, error) {
	a, err := table.Lookup(year)
	if err != nil {
		return ComprehensiveTaxSummary{}, err
	}
	s := ComprehensiveTaxSummary{
		Year:          year,
		Allowance:     a,
		CapitalGains:  NewTaxYearSummary(year, disposals, a.AnnualExemption),
		Dividends:     NewDividendSummary(year, dividends, a.DividendAllowance),
		CurrencyGains: NewCurrencyGainSummary(year, gains),
	}
	s.TotalAllowableCosts = s.CapitalGains.AllowableCosts
	s.TotalTaxableIncome = s.CapitalGains.TaxableGain.Add(s.Dividends.TaxableIncome).Add(s.CurrencyGains.TaxableAmount)
	s.TotalAllowanceUsed = s.CapitalGains.ExemptionUsed.Add(s.Dividends.AllowanceUsed)
	return s, nil
}

// RequiresReturn reports whether the year must be declared to HMRC, because
// of a taxable amount or of currency gains above the de minimis.
func (s ComprehensiveTaxSummary) RequiresReturn() bool {
	return s.TotalTaxableIncome.IsPositive() || s.CurrencyGains.RequiresReturn()
}
