package numfmt

import (
	"bytes"
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatInt(t *testing.T) {
	tests := []struct {
		name   string
		n      int64
		format Format
		want   string
	}{
		{"zero", 0, English, "0"},
		{"below thousand", 999, English, "999"},
		{"thousand", 1000, English, "1,000"},
		{"one million", 1_000_000, English, "1,000,000"},
		{"negative", -1_234_567, English, "-1,234,567"},
		{"min int64", math.MinInt64, English, "-9,223,372,036,854,775,808"},
		{"max int64", math.MaxInt64, English, "9,223,372,036,854,775,807"},
		{"indian", 1_000_000, IndianEnglish, "10,00,000"},
		{"indian small", 12_345, IndianEnglish, "12,345"},
		{"indian negative", -123_456_789, IndianEnglish, "-12,34,56,789"},
		{"german", 1_000_000, German, "1.000.000"},
		{"french", 1_000_000, French, "1\u202f000\u202f000"},
		{"swiss", 1_000_000, SwissGerman, "1\u2019000\u2019000"},
		{"swedish negative", -1000, Swedish, "\u22121\u00a0000"},
		{"posix", 1_000_000, PosixLocale, "1000000"},
		{"posix negative", -42, PosixLocale, "-42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatInt(tt.n, tt.format))
			assert.Equal(t, tt.want, string(AppendInt(nil, tt.n, tt.format)))
		})
	}
}

func TestFormatUint(t *testing.T) {
	assert.Equal(t, "18,446,744,073,709,551,615", FormatUint(math.MaxUint64, English))
	assert.Equal(t, "1,84,46,74,40,73,70,95,51,615", FormatUint(math.MaxUint64, IndianEnglish))
	assert.Equal(t, "7", FormatUint(7, IndianEnglish))
}

func TestFormatIntRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 12, 123, 1234, -12345, 123456, 1234567, 98765432109, math.MinInt64, math.MaxInt64}
	for _, loc := range []Locale{English, IndianEnglish, French, SwissGerman, Swedish, PosixLocale} {
		for _, n := range values {
			got := FormatInt(n, loc)
			if loc.Separator() != "" {
				got = strings.ReplaceAll(got, loc.Separator(), "")
			}
			got = strings.Replace(got, loc.MinusSign(), "-", 1)
			assert.Equal(t, strconv.FormatInt(n, 10), got, "locale %s value %d", loc.Name(), n)
		}
	}
}

func TestBuffer(t *testing.T) {
	var buf Buffer

	n, err := buf.WriteInt64(1_000_000, English)
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, 9, buf.Len())
	assert.Equal(t, "1,000,000", buf.String())
	assert.Equal(t, []byte("1,000,000"), buf.Bytes())

	// A second write replaces the first.
	_, err = buf.WriteInt64(-5, English)
	require.NoError(t, err)
	assert.Equal(t, "-5", buf.String())
}

type wideFormat struct{ CustomFormat }

func (wideFormat) Separator() string { return "<--sep-->" }
func (wideFormat) MinusSign() string { return "minus!!!" }

func TestBufferCapacity(t *testing.T) {
	var buf Buffer
	_, err := buf.WriteInt64(1000, wideFormat{English.CustomFormat})

	var nerr *Error
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, KindCapacity, nerr.Kind)
	assert.Equal(t, "separator", nerr.Field)
	assert.Equal(t, 0, buf.Len())

	// The allocating paths do not have the limit.
	assert.Equal(t, "minus!!!1<--sep-->000", FormatInt(-1000, wideFormat{English.CustomFormat}))
}

func TestWriteFormatted(t *testing.T) {
	var w bytes.Buffer
	n, err := WriteFormatted(&w, 1_000_000, IndianEnglish)
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, "10,00,000", w.String())
}

func TestBuilder(t *testing.T) {
	t.Run("defaults to english", func(t *testing.T) {
		f, err := NewBuilder().Build()
		require.NoError(t, err)
		assert.Equal(t, English.CustomFormat, f)
	})

	t.Run("custom", func(t *testing.T) {
		f, err := NewBuilder().
			Grouping(Indian).
			MinusSign("--").
			Separator(".").
			Build()
		require.NoError(t, err)
		assert.Equal(t, "--10.00.000", FormatInt(-1_000_000, f))
	})

	t.Run("from locale", func(t *testing.T) {
		f, err := NewBuilder().From(German).Build()
		require.NoError(t, err)
		assert.Equal(t, ",", f.Decimal())
		assert.Equal(t, "1.000", FormatInt(1000, f))
	})

	t.Run("empty separator disables grouping", func(t *testing.T) {
		f, err := NewBuilder().Separator("").Build()
		require.NoError(t, err)
		assert.Equal(t, "1000000", FormatInt(1_000_000, f))
	})

	t.Run("capacity", func(t *testing.T) {
		_, err := NewBuilder().MinusSign("12345678").Separator("123456789").Build()

		var nerr *Error
		require.True(t, errors.As(err, &nerr))
		assert.Equal(t, KindCapacity, nerr.Kind)
		assert.Equal(t, "minus sign", nerr.Field)
		assert.Equal(t, 8, nerr.Len)
		assert.Equal(t, MaxMinusLen, nerr.Cap)
		assert.Contains(t, err.Error(), "exceeds capacity")
	})

	t.Run("invalid grouping", func(t *testing.T) {
		_, err := NewBuilder().Grouping(Grouping(9)).Build()

		var nerr *Error
		require.True(t, errors.As(err, &nerr))
		assert.Equal(t, KindInvalid, nerr.Kind)
	})
}

func TestGroupingString(t *testing.T) {
	assert.Equal(t, "standard", Standard.String())
	assert.Equal(t, "indian", Indian.String())
	assert.Equal(t, "posix", Posix.String())
	assert.Equal(t, "grouping(7)", Grouping(7).String())
}

func BenchmarkFormatInt(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = FormatInt(1_000_000, English)
	}
}

func BenchmarkBuffer(b *testing.B) {
	var buf Buffer
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = buf.WriteInt64(1_000_000, English)
	}
}

func BenchmarkStrconv(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = strconv.FormatInt(1_000_000, 10)
	}
}
