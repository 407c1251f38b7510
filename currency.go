package cgt

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// currencyCodeRegex checks for the format: 3 uppercase letters.
var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency is a currency code together with its exchange rate to the base
// currency at the time of a transaction. It is immutable.
type Currency struct {
	code string
	rate decimal.Decimal
}

// NewCurrency returns a Currency, the rate converts one unit of code into GBP.
func NewCurrency[T number](code string, rateToBase T) (Currency, error) {
	if !currencyCodeRegex.MatchString(code) {
		return Currency{}, validationErrorf("invalid currency code %q: must be 3 uppercase letters", code)
	}
	rate := newDecimal(rateToBase)
	if !rate.IsPositive() {
		return Currency{}, validationErrorf("invalid rate for %s: must be positive, got %s", code, rate)
	}
	if code == BaseCurrency && !rate.Equal(decimal.NewFromInt(1)) {
		return Currency{}, validationErrorf("base currency %s must have a rate of 1, got %s", code, rate)
	}
	return Currency{code: code, rate: rate}, nil
}

// MustCurrency is like NewCurrency but panics on error.
func MustCurrency[T number](code string, rateToBase T) Currency {
	c, err := NewCurrency(code, rateToBase)
	if err != nil {
		panic(err)
	}
	return c
}

// Base returns the base currency.
func Base() Currency { return Currency{code: BaseCurrency, rate: decimal.NewFromInt(1)} }

func (c Currency) Code() string          { return c.code }
func (c Currency) Rate() decimal.Decimal { return c.rate }
func (c Currency) IsBase() bool          { return c.code == BaseCurrency }
func (c Currency) String() string        { return c.code }

// ToBase converts m, expressed in c, into the base currency.
func (c Currency) ToBase(m Money) Money {
	return Money{value: m.value.Mul(c.rate), cur: BaseCurrency}
}
