package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a unit price that is either a plain number (10.5) or a formatted
// BRL string ("R$ 1.234,56"). It marshals back in the representation it was
// given.
type Price struct {
	number json.Number
	text   string
	isText bool
}

// NumberPrice builds a numeric price.
func NumberPrice(v decimal.Decimal) Price {
	return Price{number: json.Number(v.String())}
}

// TextPrice builds a formatted string price.
func TextPrice(s string) Price {
	return Price{text: s, isText: true}
}

func (p Price) IsText() bool {
	return p.isText
}

func (p Price) IsZero() bool {
	return !p.isText && p.number == ""
}

// Amount parses the unit price. Unparseable prices count as zero.
func (p Price) Amount() decimal.Decimal {
	if p.isText {
		return ParseUnitPrice(p.text)
	}
	if p.number == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(p.number.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// String returns the raw representation.
func (p Price) String() string {
	if p.isText {
		return p.text
	}
	return p.number.String()
}

func (p Price) MarshalJSON() ([]byte, error) {
	if p.isText {
		return json.Marshal(p.text)
	}
	if p.number == "" {
		return []byte("null"), nil
	}
	return []byte(p.number), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*p = Price{}
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = TextPrice(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("price must be a number or string: %w", err)
	}
	*p = Price{number: n}
	return nil
}

var currencyStripper = strings.NewReplacer(
	"R$", "",
	"US$", "",
	"$", "",
	"\u00a0", "",
	" ", "",
	"\t", "",
)

// ParseUnitPrice reads a formatted price the way the cart totals it.
// Anything that does not parse yields zero.
func ParseUnitPrice(raw string) decimal.Decimal {
	d, err := ParsePrice(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParsePrice reads a formatted price. A decimal comma marks the BRL layout:
// dots are thousands separators and the comma becomes the decimal point.
// Without a comma, a single dot followed by exactly three digits is also a
// thousands separator; any other single dot is a decimal point.
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := currencyStripper.Replace(strings.TrimSpace(raw))
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty price")
	}

	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	case strings.Count(s, ".") == 1:
		if frac := s[strings.Index(s, ".")+1:]; len(frac) == 3 && isDigits(frac) {
			s = strings.Replace(s, ".", "", 1)
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q", raw)
	}
	return d, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
