package internal_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zephyrtronium/sbx"
	"github.com/zephyrtronium/sbx/internal"
)

func TestConvert(t *testing.T) {
	cases := map[string]struct {
		x    sbx.Value
		t    sbx.DataType
		want string
		err  error
	}{
		"IntToLong":        {sbx.IntValue(-5), sbx.Long, "-5", nil},
		"LongToInt":        {sbx.LongValue(40000), sbx.Integer, "", sbx.ErrOverflow},
		"DoubleRounds":     {sbx.DoubleValue(2.5), sbx.Long, "3", nil},
		"NegativeToByte":   {sbx.IntValue(-1), sbx.Byte, "", sbx.ErrOverflow},
		"TextToDouble":     {sbx.StringValue(" 1.25 "), sbx.Double, "1.25", nil},
		"BlankToLong":      {sbx.StringValue(""), sbx.Long, "0", nil},
		"JunkToLong":       {sbx.StringValue("1x"), sbx.Long, "", sbx.ErrConversion},
		"BoolToInt":        {sbx.BoolValue(true), sbx.Integer, "-1", nil},
		"IntToBool":        {sbx.IntValue(2), sbx.Bool, "True", nil},
		"EmptyToString":    {sbx.Zero(sbx.Empty), sbx.String, "", nil},
		"ToVariant":        {sbx.DoubleValue(1), sbx.Variant, "1", nil},
		"CurrencyToText":   {internal.CurrencyValue(12345), sbx.String, "1.2345", nil},
		"DoubleToCurrency": {sbx.DoubleValue(1.5), sbx.Currency, "1.5", nil},
		"DecimalToLong":    {internal.DecimalValue(decimal.RequireFromString("7.6")), sbx.Long, "8", nil},
		"SingleOverflow":   {sbx.DoubleValue(math.MaxFloat64), sbx.Single, "", sbx.ErrOverflow},
		"NullToLong":       {internal.NullValue(), sbx.Long, "", sbx.ErrConversion},
		"ObjectToLong":     {sbx.ObjectValue(nil), sbx.Long, "", sbx.ErrConversion},
		"UInt64Negative":   {sbx.LongValue(-3), sbx.UInt64, "", sbx.ErrOverflow},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			r, err := c.x.Convert(c.t)
			if !errors.Is(err, c.err) {
				t.Fatalf("wrong error: wanted %v, got %v", c.err, err)
			}
			if err != nil {
				return
			}
			if got := r.String(); got != c.want {
				t.Errorf("wrong result: wanted %q, got %q", c.want, got)
			}
			if c.t != sbx.Variant && r.Type() != c.t {
				t.Errorf("wrong type: wanted %v, got %v", c.t, r.Type())
			}
		})
	}
}

func TestDate(t *testing.T) {
	d := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	x := internal.DateValue(d)
	f, err := x.Float64()
	if err != nil {
		t.Fatal(err)
	}
	if f != 36526 {
		t.Errorf("2000-01-01 is day %v, want 36526", f)
	}
	tm, err := x.Time()
	if err != nil || !tm.Equal(d) {
		t.Errorf("date converted back to %v, %v", tm, err)
	}
	if got := x.String(); got != "2000-01-01 00:00:00" {
		t.Errorf("date formatted as %q", got)
	}
	y, err := sbx.StringValue("2000-01-02").Convert(sbx.Date)
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := y.Float64(); f != 36527 {
		t.Errorf("parsed date is day %v, want 36527", f)
	}
}
