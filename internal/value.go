package internal

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/variadico/lctime"
)

// Value is a typed payload. The zero Value is Empty.
type Value struct {
	typ DataType
	i   int64
	u   uint64
	f   float64
	s   string
	dec decimal.Decimal
	obj *Object
	// alias marks an object reference that does not own a reference count.
	alias bool
}

// Type returns the value's data type.
func (x Value) Type() DataType {
	return x.typ
}

// IsEmpty reports whether the value is Empty.
func (x Value) IsEmpty() bool {
	return x.typ == Empty
}

// Zero returns the zero value of type t. The zero Variant is Empty.
func Zero(t DataType) Value {
	if t == Variant {
		return Value{}
	}
	return Value{typ: t}
}

// NullValue returns a Null value.
func NullValue() Value { return Value{typ: Null} }

// IntValue returns an Integer value.
func IntValue(n int16) Value { return Value{typ: Integer, i: int64(n)} }

// LongValue returns a Long value.
func LongValue(n int32) Value { return Value{typ: Long, i: int64(n)} }

// Int64Value returns an Int64 value.
func Int64Value(n int64) Value { return Value{typ: Int64, i: n} }

// UInt64Value returns a UInt64 value.
func UInt64Value(n uint64) Value { return Value{typ: UInt64, u: n} }

// ByteValue returns a Byte value.
func ByteValue(n uint8) Value { return Value{typ: Byte, i: int64(n)} }

// SingleValue returns a Single value.
func SingleValue(f float32) Value { return Value{typ: Single, f: float64(f)} }

// DoubleValue returns a Double value.
func DoubleValue(f float64) Value { return Value{typ: Double, f: f} }

// CurrencyValue returns a Currency value from its scaled representation,
// i.e. units of 1/10000.
func CurrencyValue(scaled int64) Value { return Value{typ: Currency, i: scaled} }

// StringValue returns a String value.
func StringValue(s string) Value { return Value{typ: String, s: s} }

// BoolValue returns a Boolean value.
func BoolValue(b bool) Value {
	if b {
		return Value{typ: Bool, i: -1}
	}
	return Value{typ: Bool}
}

// DecimalValue returns a Decimal value.
func DecimalValue(d decimal.Decimal) Value { return Value{typ: Decimal, dec: d} }

// DateValue returns a Date value.
func DateValue(t time.Time) Value { return Value{typ: Date, f: timeToDate(t)} }

// ErrorValue returns an Error value holding a code.
func ErrorValue(code ErrCode) Value { return Value{typ: ErrorT, i: int64(code)} }

// ObjectValue returns an Object value referring to o.
func ObjectValue(o *Object) Value { return Value{typ: ObjectT, obj: o} }

// dateEpoch is day zero of Date values.
var dateEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

func timeToDate(t time.Time) float64 {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	days := math.Round(day.Sub(dateEpoch).Hours() / 24)
	frac := t.Sub(day).Seconds() / 86400
	return days + frac
}

func dateToTime(f float64) time.Time {
	days := math.Floor(f)
	frac := f - days
	t := dateEpoch.AddDate(0, 0, int(days))
	return t.Add(time.Duration(math.Round(frac * 86400 * float64(time.Second))))
}

// Float64 converts the value to a float64.
func (x Value) Float64() (float64, error) {
	switch x.typ {
	case Empty:
		return 0, nil
	case Integer, Long, Int64, Bool, Char, Byte, UShort, ULong, ErrorT:
		return float64(x.i), nil
	case UInt64:
		return float64(x.u), nil
	case Single, Double, Date:
		return x.f, nil
	case Currency:
		return float64(x.i) / 10000, nil
	case Decimal:
		f, _ := x.dec.Float64()
		return f, nil
	case String:
		s := strings.TrimSpace(x.s)
		if s == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			if b, ok := parseBool(s); ok {
				if b {
					return -1, nil
				}
				return 0, nil
			}
			return 0, ErrConversion
		}
		return f, nil
	}
	return 0, ErrConversion
}

// Int64 converts the value to an int64, rounding floating values.
func (x Value) Int64() (int64, error) {
	switch x.typ {
	case Empty:
		return 0, nil
	case Integer, Long, Int64, Bool, Char, Byte, UShort, ULong, ErrorT:
		return x.i, nil
	case UInt64:
		if x.u > math.MaxInt64 {
			return 0, ErrOverflow
		}
		return int64(x.u), nil
	case Currency:
		return roundInt(float64(x.i) / 10000)
	case Decimal:
		return x.dec.Round(0).IntPart(), nil
	}
	f, err := x.Float64()
	if err != nil {
		return 0, err
	}
	return roundInt(f)
}

func roundInt(f float64) (int64, error) {
	f = math.Round(f)
	if f >= math.MaxInt64 || f < math.MinInt64 || math.IsNaN(f) {
		return 0, ErrOverflow
	}
	return int64(f), nil
}

// Bool converts the value to a boolean. Numbers are true when nonzero.
func (x Value) Bool() (bool, error) {
	switch x.typ {
	case Empty:
		return false, nil
	case String:
		if b, ok := parseBool(strings.TrimSpace(x.s)); ok {
			return b, nil
		}
	case Decimal:
		return !x.dec.IsZero(), nil
	case UInt64:
		return x.u != 0, nil
	}
	f, err := x.Float64()
	if err != nil {
		return false, err
	}
	return f != 0, nil
}

func parseBool(s string) (bool, bool) {
	switch {
	case strings.EqualFold(s, "true"):
		return true, true
	case strings.EqualFold(s, "false"):
		return false, true
	}
	return false, false
}

// Decimal converts the value to a decimal.
func (x Value) Decimal() (decimal.Decimal, error) {
	switch x.typ {
	case Decimal:
		return x.dec, nil
	case Integer, Long, Int64, Bool, Char, Byte, UShort, ULong:
		return decimal.NewFromInt(x.i), nil
	case Currency:
		return decimal.New(x.i, -4), nil
	case String:
		d, err := decimal.NewFromString(strings.TrimSpace(x.s))
		if err != nil {
			return decimal.Zero, ErrConversion
		}
		return d, nil
	}
	f, err := x.Float64()
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(f), nil
}

// Time converts the value to a time.
func (x Value) Time() (time.Time, error) {
	if x.typ == String {
		for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02", time.RFC3339} {
			if t, err := time.Parse(layout, strings.TrimSpace(x.s)); err == nil {
				return t, nil
			}
		}
	}
	f, err := x.Float64()
	if err != nil {
		return time.Time{}, err
	}
	return dateToTime(f), nil
}

// Object returns the referenced object of an Object value. Empty converts to
// nil.
func (x Value) Object() (*Object, error) {
	switch x.typ {
	case ObjectT:
		return x.obj, nil
	case Empty:
		return nil, nil
	}
	return nil, ErrConversion
}

// Text converts the value to a string.
func (x Value) Text() (string, error) {
	switch x.typ {
	case Empty:
		return "", nil
	case String:
		return x.s, nil
	case Bool:
		if x.i != 0 {
			return "True", nil
		}
		return "False", nil
	case Integer, Long, Int64, Char, Byte, UShort, ULong, ErrorT:
		return strconv.FormatInt(x.i, 10), nil
	case UInt64:
		return strconv.FormatUint(x.u, 10), nil
	case Single:
		return strconv.FormatFloat(x.f, 'g', -1, 32), nil
	case Double:
		return strconv.FormatFloat(x.f, 'g', -1, 64), nil
	case Currency:
		return decimal.New(x.i, -4).String(), nil
	case Decimal:
		return x.dec.String(), nil
	case Date:
		return lctime.Strftime(dateFormat(), dateToTime(x.f)), nil
	}
	return "", ErrConversion
}

// Convert returns the value converted to type t. Converting to Variant
// returns the value unchanged.
func (x Value) Convert(t DataType) (Value, error) {
	if t == x.typ || t == Variant {
		return x, nil
	}
	if x.typ == Null {
		return x, ErrConversion
	}
	switch t {
	case Empty:
		return Value{}, nil
	case Null:
		return NullValue(), nil
	case String:
		s, err := x.Text()
		return StringValue(s), err
	case Bool:
		b, err := x.Bool()
		return BoolValue(b), err
	case Single:
		f, err := x.Float64()
		if err == nil && !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
			err = ErrOverflow
		}
		return Value{typ: Single, f: float64(float32(f))}, err
	case Double, Date:
		if t == Date && x.typ == String {
			tm, err := x.Time()
			return DateValue(tm), err
		}
		f, err := x.Float64()
		return Value{typ: t, f: f}, err
	case Currency:
		f, err := x.Float64()
		if err != nil {
			return x, err
		}
		n, err := roundInt(f * 10000)
		return CurrencyValue(n), err
	case Decimal:
		d, err := x.Decimal()
		return DecimalValue(d), err
	case UInt64:
		if x.typ == UInt64 {
			return x, nil
		}
		n, err := x.Int64()
		if err == nil && n < 0 {
			err = ErrOverflow
		}
		return UInt64Value(uint64(n)), err
	case ObjectT:
		o, err := x.Object()
		return ObjectValue(o), err
	case Integer, Long, Int64, Char, Byte, UShort, ULong, ErrorT:
		n, err := x.Int64()
		if err != nil {
			return x, err
		}
		lo, hi := intRange(t)
		if n < lo || n > hi {
			return x, ErrOverflow
		}
		return Value{typ: t, i: n}, nil
	}
	return x, ErrConversion
}

func intRange(t DataType) (lo, hi int64) {
	switch t {
	case Integer:
		return math.MinInt16, math.MaxInt16
	case Long, ErrorT:
		return math.MinInt32, math.MaxInt32
	case Char, UShort:
		return 0, math.MaxUint16
	case Byte:
		return 0, math.MaxUint8
	case ULong:
		return 0, math.MaxUint32
	}
	return math.MinInt64, math.MaxInt64
}

// String formats the value for diagnostics.
func (x Value) String() string {
	switch x.typ {
	case ObjectT:
		if x.obj == nil {
			return "Nothing"
		}
		return "<" + x.obj.ClassName() + " " + x.obj.Name() + ">"
	case Null:
		return "Null"
	case Empty:
		return "Empty"
	}
	s, err := x.Text()
	if err != nil {
		return "<" + x.typ.String() + ">"
	}
	return s
}
