package cgt

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CSVParser reads transactions from a CSV file with a header row. Columns
// are named like the JSONL fields (command, date, time, security, kind,
// symbol, name, quantity, price, commission, taxes, currency, rate, memo, id),
// in any order; only command is mandatory.
type CSVParser struct{}

// Parse implements FileParser.
func (CSVParser) Parse(r io.Reader) ([]Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading csv header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := columns["command"]; !ok {
		return nil, fmt.Errorf("csv header %q has no command column", strings.Join(header, ","))
	}

	var txs []Transaction
	var errs []error
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			errs = append(errs, &ParseError{Line: line, Err: err})
			continue
		}
		rw, err := csvRow(columns, record)
		if err != nil {
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
	return txs, errors.Join(errs...)
}

// csvRow maps a record onto a row using the header columns.
func csvRow(columns map[string]int, record []string) (row, error) {
	get := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	num := func(name string) (decimal.Decimal, error) {
		s := get(name)
		if s == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("column %s: %w", name, err)
		}
		return d, nil
	}

	rw := row{
		Command:  CommandType(strings.ToLower(get("command"))),
		ID:       get("id"),
		Date:     get("date"),
		Security: get("security"),
		Kind:     get("kind"),
		Symbol:   get("symbol"),
		Name:     get("name"),
		Currency: strings.ToUpper(get("currency")),
		Memo:     get("memo"),
	}
	if s := get("time"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return row{}, fmt.Errorf("column time: %w", err)
		}
		rw.Time = &t
	}
	fields := []struct {
		name string
		dst  *decimal.Decimal
	}{
		{"quantity", &rw.Quantity},
		{"price", &rw.Price},
		{"commission", &rw.Commission},
		{"taxes", &rw.Taxes},
		{"rate", &rw.Rate},
	}
	for _, f := range fields {
		d, err := num(f.name)
		if err != nil {
			return row{}, err
		}
		*f.dst = d
	}
	return rw, nil
}
