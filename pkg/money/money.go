// Package money formats raw amounts for people to read.
//
// The ledger works on plain float64 values; this package is only used at
// the edges (validation messages, CLI output).
package money

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is used when no currency is configured.
const DefaultCurrency = "THB"

// Formatter renders amounts in one currency.
type Formatter struct {
	unit    currency.Unit
	printer *message.Printer
}

// NewFormatter returns a Formatter for an ISO 4217 currency code.
func NewFormatter(code string) (*Formatter, error) {
	if code == "" {
		code = DefaultCurrency
	}
	unit, err := currency.ParseISO(strings.ToUpper(code))
	if err != nil {
		return nil, fmt.Errorf("unknown currency %q: %w", code, err)
	}
	return &Formatter{
		unit:    unit,
		printer: message.NewPrinter(language.English),
	}, nil
}

// MustFormatter is NewFormatter that panics on an unknown code.
func MustFormatter(code string) *Formatter {
	f, err := NewFormatter(code)
	if err != nil {
		panic(err)
	}
	return f
}

// Currency returns the ISO code.
func (f *Formatter) Currency() string {
	return f.unit.String()
}

// Format renders amount with grouping and two decimals, e.g. "THB 1,234.50".
func (f *Formatter) Format(amount float64) string {
	return f.unit.String() + " " + f.printer.Sprintf("%.2f", amount)
}

// Format renders amount in the given currency, falling back to the plain
// number when the code is unknown.
func Format(amount float64, code string) string {
	f, err := NewFormatter(code)
	if err != nil {
		return fmt.Sprintf("%.2f", amount)
	}
	return f.Format(amount)
}
