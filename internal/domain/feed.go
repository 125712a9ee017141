package domain

import "fmt"

// Dialect identifies one of the supported supplier XML shapes
type Dialect int

const (
	DialectIOF Dialect = iota + 1
	DialectSoteshop
	DialectMaxima
)

// Dialect tags as used in feed configuration
const (
	DialectTagIOF      = "iof_format"
	DialectTagSoteshop = "soteshop_format"
	DialectTagMaxima   = "maxima_format"
)

// ParseDialect maps a configuration tag to a Dialect
func ParseDialect(tag string) (Dialect, error) {
	switch tag {
	case DialectTagIOF:
		return DialectIOF, nil
	case DialectTagSoteshop:
		return DialectSoteshop, nil
	case DialectTagMaxima:
		return DialectMaxima, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDialect, tag)
}

// String returns the configuration tag of the dialect
func (d Dialect) String() string {
	switch d {
	case DialectIOF:
		return DialectTagIOF
	case DialectSoteshop:
		return DialectTagSoteshop
	case DialectMaxima:
		return DialectTagMaxima
	}
	return fmt.Sprintf("dialect(%d)", int(d))
}

// Label returns a human-readable dialect name
func (d Dialect) Label() string {
	switch d {
	case DialectIOF:
		return "IOF 3.0"
	case DialectSoteshop:
		return "Soteshop"
	case DialectMaxima:
		return "Maxima"
	}
	return "unknown"
}

// MarshalText encodes the dialect as its configuration tag
func (d Dialect) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// FeedSource describes one configured supplier feed
type FeedSource struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	Dialect     Dialect `json:"dialect"`
	Description string  `json:"description"`
}

// FeedConversion is the result of parsing one feed document
type FeedConversion struct {
	Source   string              `json:"source"`
	Dialect  Dialect             `json:"dialect"`
	Products []NormalizedProduct `json:"products"`
}
