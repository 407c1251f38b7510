package cgt

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// IdentifierKind names the scheme a security identifier follows.
type IdentifierKind string

const (
	ISIN   IdentifierKind = "ISIN"
	CUSIP  IdentifierKind = "CUSIP"
	SEDOL  IdentifierKind = "SEDOL"
	TICKER IdentifierKind = "TICKER"
)

// identifierRegex holds, per kind, the expected identifier format.
var identifierRegex = map[IdentifierKind]*regexp.Regexp{
	// 2 letters country prefix, then 10 alphanumeric.
	ISIN:   regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{10}$`),
	CUSIP:  regexp.MustCompile(`^[A-Z0-9]{9}$`),
	SEDOL:  regexp.MustCompile(`^[A-Z0-9]{7}$`),
	TICKER: regexp.MustCompile(`^[A-Za-z0-9.:\-]{1,20}$`),
}

// ParseIdentifierKind parses a kind, case insensitive.
func ParseIdentifierKind(s string) (IdentifierKind, error) {
	k := IdentifierKind(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := identifierRegex[k]; !ok {
		return "", validationErrorf("unknown identifier kind %q, want one of ISIN, CUSIP, SEDOL, TICKER", s)
	}
	return k, nil
}

// ValidateIdentifier checks that id is well formed for kind.
func ValidateIdentifier(kind IdentifierKind, id string) error {
	re, ok := identifierRegex[kind]
	if !ok {
		return validationErrorf("unknown identifier kind %q", kind)
	}
	if !re.MatchString(id) {
		return validationErrorf("invalid %s identifier %q", kind, id)
	}
	return nil
}

// Security identifies a traded instrument.
//
// Two securities are the same instrument if and only if their identifiers are
// equal, symbol and name are descriptive only.
type Security struct {
	identifier string
	kind       IdentifierKind
	symbol     string
	name       string
}

// NewSecurity validates the identifier against its kind and returns a Security.
// An empty symbol defaults to the identifier.
func NewSecurity(kind IdentifierKind, identifier, symbol, name string) (Security, error) {
	if err := ValidateIdentifier(kind, identifier); err != nil {
		return Security{}, err
	}
	if symbol == "" {
		symbol = identifier
	}
	return Security{identifier: identifier, kind: kind, symbol: symbol, name: name}, nil
}

// MustSecurity is like NewSecurity but panics on error.
func MustSecurity(kind IdentifierKind, identifier, symbol, name string) Security {
	s, err := NewSecurity(kind, identifier, symbol, name)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Security) Identifier() string   { return s.identifier }
func (s Security) Kind() IdentifierKind { return s.kind }
func (s Security) Symbol() string       { return s.symbol }
func (s Security) Name() string         { return s.name }
func (s Security) IsZero() bool         { return s.identifier == "" }

// Key is the value used to group transactions and pools of the same instrument.
func (s Security) Key() string { return s.identifier }

// Same reports whether s and o designate the same instrument.
func (s Security) Same(o Security) bool { return s.identifier == o.identifier }

func (s Security) String() string {
	if s.symbol != s.identifier {
		return fmt.Sprintf("%s (%s)", s.symbol, s.identifier)
	}
	return s.identifier
}

type securityJSON struct {
	ID     string         `json:"id"`
	Kind   IdentifierKind `json:"kind"`
	Symbol string         `json:"symbol,omitempty"`
	Name   string         `json:"name,omitempty"`
}

func (s Security) MarshalJSON() ([]byte, error) {
	j := securityJSON{ID: s.identifier, Kind: s.kind, Name: s.name}
	if s.symbol != s.identifier {
		j.Symbol = s.symbol
	}
	return json.Marshal(j)
}

func (s *Security) UnmarshalJSON(data []byte) error {
	var j securityJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	kind, err := ParseIdentifierKind(string(j.Kind))
	if err != nil {
		return err
	}
	sec, err := NewSecurity(kind, j.ID, j.Symbol, j.Name)
	if err != nil {
		return err
	}
	*s = sec
	return nil
}
