package cgt

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/etnz/cgt/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// ParseError reports a malformed ledger row.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// FileParser turns a ledger file into transactions. Rows that cannot be
// parsed are reported as *ParseError values joined in the returned error,
// together with every transaction that could be parsed.
type FileParser interface {
	Parse(r io.Reader) ([]Transaction, error)
}

// ParserFor returns the parser of a ledger format: "jsonl" or "csv".
func ParserFor(format string) (FileParser, error) {
	switch format {
	case "jsonl", "json", "":
		return JSONLParser{}, nil
	case "csv":
		return CSVParser{}, nil
	default:
		return nil, fmt.Errorf("unknown ledger format %q, want jsonl or csv", format)
	}
}

// row is the flat, format independent form of a ledger row.
type row struct {
	Command    CommandType     `json:"command"`
	ID         string          `json:"id,omitempty"`
	Date       string          `json:"date,omitempty"`
	Time       *time.Time      `json:"time,omitempty"`
	Security   string          `json:"security,omitempty"`
	Kind       string          `json:"kind,omitempty"`
	Symbol     string          `json:"symbol,omitempty"`
	Name       string          `json:"name,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Commission decimal.Decimal `json:"commission"`
	Taxes      decimal.Decimal `json:"taxes"`
	Currency   string          `json:"currency,omitempty"`
	Rate       decimal.Decimal `json:"rate"`
	Memo       string          `json:"memo,omitempty"`
}

// transaction converts the row. Sell quantities are the positive number of
// units sold.
func (r row) transaction() (Transaction, error) {
	var at time.Time
	switch {
	case r.Time != nil:
		at = *r.Time
	case r.Date != "":
		d, err := date.Parse(r.Date)
		if err != nil {
			return Transaction{}, validationErrorf("%v", err)
		}
		at = d.Time()
	default:
		return Transaction{}, validationErrorf("missing date or time")
	}

	code := r.Currency
	if code == "" {
		code = BaseCurrency
	}
	rate := r.Rate
	if rate.IsZero() && code == BaseCurrency {
		rate = decimal.NewFromInt(1)
	}
	cur, err := NewCurrency(code, rate)
	if err != nil {
		return Transaction{}, err
	}

	var sec Security
	if r.Command != CmdExchange {
		kind := InferIdentifierKind(r.Security)
		if r.Kind != "" {
			if kind, err = ParseIdentifierKind(r.Kind); err != nil {
				return Transaction{}, err
			}
		}
		if sec, err = NewSecurity(kind, r.Security, r.Symbol, r.Name); err != nil {
			return Transaction{}, err
		}
	}

	qty := Q(r.Quantity)
	if r.Command == CmdSell {
		if qty.IsNegative() {
			return Transaction{}, validationErrorf("sell quantity is the number of units sold, got %s", qty)
		}
		qty = qty.Neg()
	}

	tx := Transaction{
		ID:         r.ID,
		Command:    r.Command,
		Security:   sec,
		Time:       at,
		Quantity:   qty,
		Price:      M(r.Price, code),
		Commission: M(r.Commission, code),
		Taxes:      M(r.Taxes, code),
		Currency:   cur,
		Memo:       r.Memo,
	}
	if r.Command == CmdExchange {
		tx.Price = M(1, code)
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	return tx, tx.Validate()
}

// newRow is the reverse of row.transaction.
func newRow(tx Transaction) row {
	r := row{
		Command:    tx.Command,
		ID:         tx.ID,
		Quantity:   tx.Quantity.Decimal(),
		Price:      tx.Price.Decimal(),
		Commission: tx.Commission.Decimal(),
		Taxes:      tx.Taxes.Decimal(),
		Currency:   tx.Currency.Code(),
		Rate:       tx.Currency.Rate(),
		Memo:       tx.Memo,
	}
	if tx.Command == CmdSell {
		r.Quantity = r.Quantity.Neg()
	}
	if tx.Command == CmdExchange {
		r.Price = decimal.Zero
	}
	if !tx.Security.IsZero() {
		r.Security = tx.Security.Identifier()
		r.Kind = string(tx.Security.Kind())
		if tx.Security.Symbol() != tx.Security.Identifier() {
			r.Symbol = tx.Security.Symbol()
		}
		r.Name = tx.Security.Name()
	}
	if d := tx.Day(); tx.Time.Equal(d.Time()) {
		r.Date = d.String()
	} else {
		t := tx.Time
		r.Time = &t
	}
	return r
}

// InferIdentifierKind returns ISIN for identifiers that look like one and
// TICKER otherwise.
func InferIdentifierKind(id string) IdentifierKind {
	if identifierRegex[ISIN].MatchString(id) {
		return ISIN
	}
	return TICKER
}

// JSONLParser reads one transaction per JSON line.
type JSONLParser struct{}

// Parse implements FileParser.
func (JSONLParser) Parse(r io.Reader) ([]Transaction, error) { return DecodeTransactions(r) }

// DecodeTransactions decodes transactions from a stream of JSONL data. Every
// malformed line is reported, the valid ones are returned in file order.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	var errs []error
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var rw row
		if err := json.Unmarshal(lineBytes, &rw); err != nil {
			errs = append(errs, &ParseError{Line: line, Err: err})
			continue
		}
		tx, err := rw.transaction()
		if err != nil {
			errs = append(errs, &ParseError{Line: line, Err: err})
			continue
		}
		txs = append(txs, tx)
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, fmt.Errorf("error reading from input: %w", err))
	}
	return txs, errors.Join(errs...)
}

// EncodeTransaction marshals a single transaction to JSON and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(newRow(tx))
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeTransactions writes txs in chronological order, one JSON line each.
func EncodeTransactions(w io.Writer, txs []Transaction) error {
	for _, tx := range SortTransactions(txs) {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}
