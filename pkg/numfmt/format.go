// Package numfmt renders integers as strings grouped according to locale
// conventions, e.g. "1,000,000" for English, "10,00,000" for Indian English
// and "1 000 000" for French.
package numfmt

import "fmt"

// Grouping governs where separators are placed between digits.
type Grouping int

const (
	// Standard separates every three digits: 1,000,000.
	Standard Grouping = iota
	// Indian separates the last three digits, then every two: 10,00,000.
	Indian
	// Posix never separates digits: 1000000.
	Posix
)

func (g Grouping) String() string {
	switch g {
	case Standard:
		return "standard"
	case Indian:
		return "indian"
	case Posix:
		return "posix"
	default:
		return fmt.Sprintf("grouping(%d)", int(g))
	}
}

// Format describes how a number is written out.
type Format interface {
	Decimal() string
	Grouping() Grouping
	MinusSign() string
	Separator() string
}

const (
	MaxDecimalLen   = 8
	MaxSeparatorLen = 8
	MaxMinusLen     = 7
)

// CustomFormat is a user-defined Format. Build one with NewBuilder.
type CustomFormat struct {
	dec string
	grp Grouping
	min string
	sep string
}

func (f CustomFormat) Decimal() string    { return f.dec }
func (f CustomFormat) Grouping() Grouping { return f.grp }
func (f CustomFormat) MinusSign() string  { return f.min }
func (f CustomFormat) Separator() string  { return f.sep }

// CustomFormatBuilder accumulates settings for a CustomFormat. The first
// invalid setting is remembered and reported by Build.
type CustomFormatBuilder struct {
	f   CustomFormat
	err error
}

// NewBuilder returns a builder initialised with English conventions.
func NewBuilder() *CustomFormatBuilder {
	return &CustomFormatBuilder{f: English.CustomFormat}
}

// From copies every setting of an existing format into the builder.
func (b *CustomFormatBuilder) From(f Format) *CustomFormatBuilder {
	return b.Decimal(f.Decimal()).
		Grouping(f.Grouping()).
		MinusSign(f.MinusSign()).
		Separator(f.Separator())
}

func (b *CustomFormatBuilder) Decimal(s string) *CustomFormatBuilder {
	if b.check("decimal", s, MaxDecimalLen) {
		b.f.dec = s
	}
	return b
}

func (b *CustomFormatBuilder) Grouping(g Grouping) *CustomFormatBuilder {
	if b.err == nil && (g < Standard || g > Posix) {
		b.err = &Error{Kind: KindInvalid, Field: "grouping", Msg: g.String()}
	}
	b.f.grp = g
	return b
}

func (b *CustomFormatBuilder) MinusSign(s string) *CustomFormatBuilder {
	if b.check("minus sign", s, MaxMinusLen) {
		b.f.min = s
	}
	return b
}

// Separator sets the digit separator. An empty separator disables grouping.
func (b *CustomFormatBuilder) Separator(s string) *CustomFormatBuilder {
	if b.check("separator", s, MaxSeparatorLen) {
		b.f.sep = s
	}
	return b
}

// Build returns the configured format, or the first error met while
// configuring it.
func (b *CustomFormatBuilder) Build() (CustomFormat, error) {
	if b.err != nil {
		return CustomFormat{}, b.err
	}
	return b.f, nil
}

func (b *CustomFormatBuilder) check(field, s string, limit int) bool {
	if len(s) <= limit {
		return true
	}
	if b.err == nil {
		b.err = capacityError(field, len(s), limit)
	}
	return false
}
