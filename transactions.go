package cgt

import (
	"fmt"
	"slices"
	"time"

	"github.com/etnz/cgt/date"
)

// CommandType is a typed string for identifying transaction kinds.
type CommandType string

// Command types used for identifying transactions.
const (
	CmdBuy      CommandType = "buy"
	CmdSell     CommandType = "sell"
	CmdDividend CommandType = "dividend"
	CmdExchange CommandType = "exchange"
)

// Transaction is an immutable brokerage record.
//
// Quantity is signed: positive for a Buy, negative for a Sell. For a Dividend
// it is the number of shares the dividend is paid on, and for an Exchange it
// is the amount of foreign currency acquired (positive) or disposed of
// (negative). Price, Commission and Taxes are expressed in Currency.
type Transaction struct {
	ID         string
	Command    CommandType
	Security   Security
	Time       time.Time
	Quantity   Quantity
	Price      Money // per unit
	Commission Money
	Taxes      Money // stamp duty, or withholding tax on a dividend
	Currency   Currency
	Memo       string
}

// NewBuy returns a validated purchase of units of sec.
func NewBuy(at time.Time, sec Security, units Quantity, price, commission, taxes Money, cur Currency) (Transaction, error) {
	tx := Transaction{Command: CmdBuy, Security: sec, Time: at, Quantity: units, Price: price, Commission: commission, Taxes: taxes, Currency: cur}
	return tx, tx.Validate()
}

// NewSell returns a validated disposal of units of sec. units is the positive
// number of units sold, the recorded Quantity is negative.
func NewSell(at time.Time, sec Security, units Quantity, price, commission, taxes Money, cur Currency) (Transaction, error) {
	tx := Transaction{Command: CmdSell, Security: sec, Time: at, Quantity: units.Abs().Neg(), Price: price, Commission: commission, Taxes: taxes, Currency: cur}
	if units.IsNegative() {
		return tx, validationErrorf("sell of %s on %s: units must be positive, got %s", sec, at.Format(time.DateOnly), units)
	}
	return tx, tx.Validate()
}

// NewDividend returns a validated dividend of perShare paid on shares units,
// withholding is the tax withheld at source.
func NewDividend(at time.Time, sec Security, shares Quantity, perShare, withholding Money, cur Currency) (Transaction, error) {
	tx := Transaction{Command: CmdDividend, Security: sec, Time: at, Quantity: shares, Price: perShare, Taxes: withholding, Currency: cur}
	return tx, tx.Validate()
}

// NewExchange returns a validated currency exchange of amount units of cur.
func NewExchange(at time.Time, amount Quantity, cur Currency) (Transaction, error) {
	tx := Transaction{Command: CmdExchange, Time: at, Quantity: amount, Price: M(1, cur.Code()), Currency: cur}
	return tx, tx.Validate()
}

// Validate checks sign and amount rules of the transaction.
func (t Transaction) Validate() error {
	where := func(format string, a ...any) error {
		return validationErrorf("%s on %s: %s", t.Command, t.Time.Format(time.DateOnly), fmt.Sprintf(format, a...))
	}
	if t.Time.IsZero() {
		return validationErrorf("%s: missing time", t.Command)
	}
	if t.Currency.Code() == "" {
		return where("missing currency")
	}
	amounts := []struct {
		name string
		m    Money
	}{{"price", t.Price}, {"commission", t.Commission}, {"taxes", t.Taxes}}
	for _, a := range amounts {
		name, m := a.name, a.m
		if m.Currency() != "" && m.Currency() != t.Currency.Code() {
			return where("%s is in %s, want %s", name, m.Currency(), t.Currency.Code())
		}
		if m.IsNegative() {
			return where("%s must not be negative, got %s", name, m.Decimal())
		}
	}

	switch t.Command {
	case CmdBuy, CmdSell, CmdDividend:
		if t.Security.IsZero() {
			return where("missing security")
		}
	case CmdExchange:
		if t.Quantity.IsZero() {
			return where("exchanged amount must not be zero")
		}
		if t.Currency.IsBase() {
			return where("cannot exchange the base currency %s", BaseCurrency)
		}
		return nil
	default:
		return validationErrorf("unknown transaction command %q", t.Command)
	}

	switch {
	case t.Command == CmdBuy && !t.Quantity.IsPositive():
		return where("%s: quantity must be positive, got %s", t.Security, t.Quantity)
	case t.Command == CmdSell && t.Quantity.IsPositive():
		return where("%s: quantity must be negative, got %s", t.Security, t.Quantity)
	case t.Command == CmdDividend && t.Quantity.IsNegative():
		return where("%s: shares must not be negative, got %s", t.Security, t.Quantity)
	}
	return nil
}

// Day is the calendar day of the transaction, used by day based rules.
func (t Transaction) Day() date.Date { return date.Of(t.Time) }

// Units is the unsigned quantity.
func (t Transaction) Units() Quantity { return t.Quantity.Abs() }

// Gross is the unit price times the units, before fees.
func (t Transaction) Gross() Money { return t.Price.Mul(t.Units()) }

// Fees is the sum of commission and taxes.
func (t Transaction) Fees() Money { return t.Commission.Add(t.Taxes) }

// TotalCost is the gross amount plus fees.
func (t Transaction) TotalCost() Money { return t.Gross().Add(t.Fees()) }

// NetAmount is the money that changed hands: the cost of a Buy, the proceeds
// of a Sell or the net income of a Dividend.
func (t Transaction) NetAmount() Money {
	switch t.Command {
	case CmdBuy:
		return t.TotalCost()
	case CmdSell, CmdDividend:
		return t.Gross().Sub(t.Fees())
	default:
		return t.Gross()
	}
}

// ToBase converts m, in the transaction currency, to the base currency.
func (t Transaction) ToBase(m Money) Money { return t.Currency.ToBase(m) }

func (t Transaction) GrossBase() Money     { return t.ToBase(t.Gross()) }
func (t Transaction) TotalCostBase() Money { return t.ToBase(t.TotalCost()) }
func (t Transaction) NetAmountBase() Money { return t.ToBase(t.NetAmount()) }

// SortTransactions returns a copy of txs in chronological order. Transactions
// at the same instant keep their input order.
func SortTransactions(txs []Transaction) []Transaction {
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b Transaction) int { return a.Time.Compare(b.Time) })
	return sorted
}
