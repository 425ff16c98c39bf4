package numfmt

import (
	"io"
	"strconv"
)

// MaxBufLen fits the longest value a Buffer can hold: the 20 digits of
// math.MaxUint64 grouped the Indian way (9 separators) plus a minus sign.
const MaxBufLen = 20 + 9*MaxSeparatorLen + MaxMinusLen

// Buffer holds one formatted number without allocating. Digits are written
// from the end of the backing array towards its start.
type Buffer struct {
	inner [MaxBufLen]byte
	pos   int
	end   int
}

// Bytes returns a view of the formatted number. It is only valid until the
// next write.
func (b *Buffer) Bytes() []byte { return b.inner[b.pos:b.end] }

func (b *Buffer) String() string { return string(b.inner[b.pos:b.end]) }

func (b *Buffer) Len() int { return b.end - b.pos }

// WriteInt64 formats n into the buffer, replacing its previous contents, and
// returns the number of bytes written.
func (b *Buffer) WriteInt64(n int64, f Format) (int, error) {
	if n < 0 {
		return b.write(uint64(^n)+1, true, f)
	}
	return b.write(uint64(n), false, f)
}

// WriteUint64 formats n into the buffer, replacing its previous contents.
func (b *Buffer) WriteUint64(n uint64, f Format) (int, error) {
	return b.write(n, false, f)
}

func (b *Buffer) write(n uint64, negative bool, f Format) (int, error) {
	b.pos, b.end = 0, 0

	sep := f.Separator()
	grp := f.Grouping()
	if len(sep) > MaxSeparatorLen {
		return 0, capacityError("separator", len(sep), MaxSeparatorLen)
	}
	var minus string
	if negative {
		minus = f.MinusSign()
		if len(minus) > MaxMinusLen {
			return 0, capacityError("minus sign", len(minus), MaxMinusLen)
		}
	}
	if sep == "" {
		grp = Posix
	}

	b.pos, b.end = len(b.inner), len(b.inner)
	size, count := 3, 0
	for {
		if grp != Posix && count == size {
			b.pos -= len(sep)
			copy(b.inner[b.pos:], sep)
			count = 0
			if grp == Indian {
				size = 2
			}
		}
		b.pos--
		b.inner[b.pos] = byte('0' + n%10)
		n /= 10
		count++
		if n == 0 {
			break
		}
	}
	if negative {
		b.pos -= len(minus)
		copy(b.inner[b.pos:], minus)
	}
	return b.end - b.pos, nil
}

// FormatInt returns n formatted according to f.
func FormatInt(n int64, f Format) string {
	var buf Buffer
	if _, err := buf.WriteInt64(n, f); err == nil {
		return buf.String()
	}
	return string(AppendInt(nil, n, f))
}

// FormatUint returns n formatted according to f.
func FormatUint(n uint64, f Format) string {
	var buf Buffer
	if _, err := buf.WriteUint64(n, f); err == nil {
		return buf.String()
	}
	return string(AppendUint(nil, n, f))
}

// AppendInt appends n formatted according to f to dst. Unlike Buffer it
// accepts separators and minus signs of any length.
func AppendInt(dst []byte, n int64, f Format) []byte {
	if n < 0 {
		dst = append(dst, f.MinusSign()...)
		return appendGrouped(dst, strconv.FormatUint(uint64(^n)+1, 10), f)
	}
	return appendGrouped(dst, strconv.FormatInt(n, 10), f)
}

// AppendUint appends n formatted according to f to dst.
func AppendUint(dst []byte, n uint64, f Format) []byte {
	return appendGrouped(dst, strconv.FormatUint(n, 10), f)
}

// WriteFormatted writes n formatted according to f to w.
func WriteFormatted(w io.Writer, n int64, f Format) (int, error) {
	var buf Buffer
	if _, err := buf.WriteInt64(n, f); err == nil {
		return w.Write(buf.Bytes())
	}
	return w.Write(AppendInt(nil, n, f))
}

func appendGrouped(dst []byte, digits string, f Format) []byte {
	sep := f.Separator()
	grp := f.Grouping()
	if sep == "" || grp == Posix || len(digits) <= 3 {
		return append(dst, digits...)
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	step := 3
	if grp == Indian {
		step = 2
	}
	first := len(head) % step
	if first == 0 {
		first = step
	}
	dst = append(dst, head[:first]...)
	for i := first; i < len(head); i += step {
		dst = append(dst, sep...)
		dst = append(dst, head[i:i+step]...)
	}
	dst = append(dst, sep...)
	return append(dst, tail...)
}
