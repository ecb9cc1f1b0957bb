package quantized

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFromString(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		in, mantissa string
	}{
		{"0", "0"},
		{"1", "65536"},
		{"-1", "-65536"},
		{"+2.5", "163840"},
		{"12.5", "819200"},
		{"-12.5", "-819200"},
		{".5", "32768"},
		{"3.", "196608"},
		{"0.0000152587890625", "1"},
		{"  7 ", "458752"},
		{"0.1", "6553"},
		{"-0.1", "-6553"},
		{"1.9999999999", "131071"},
		// exponent forms take the float path
		{"1e5", "6553600000"},
		{"1e+06", "65536000000"},
		{"1.5e2", "9830400"},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			v, err := FromString(test.in)
			a.NoError(err)
			a.Equal(test.mantissa, v.Mantissa().String())
		})
	}
}

func TestFromStringErrors(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		in, err string
	}{
		{"", "parsing failed: empty input"},
		{"   ", "parsing failed: empty input"},
		{"-", "parsing failed: empty input"},
		{".", "parsing failed: empty input"},
		{"1.2.3", "parsing failed: unexpected delimiter at pos 4"},
		{"12a", "parsing failed: unexpected symbol 'a' at pos 3"},
		// positions are 1-based in the original input, prefixes included
		{"--5", "parsing failed: unexpected symbol '-' at pos 2"},
		{"  1x", "parsing failed: unexpected symbol 'x' at pos 4"},
		{"+1.2.3", "parsing failed: unexpected delimiter at pos 5"},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			_, err := FromString(test.in)
			a.EqualError(err, test.err)
		})
	}
}

func TestFromStringOverflow(t *testing.T) {
	a := assert.New(t)
	_, err := FromString(strings.Repeat("9", 40))
	var oe *OverflowError
	a.ErrorAs(err, &oe)
	a.EqualValues(MaxMagnitudeBits, oe.Bits)
}

func TestMustFromString(t *testing.T) {
	a := assert.New(t)
	a.Equal(FromInt64(5), MustFromString("5"))
	a.Panics(func() {
		MustFromString("abc")
	})
}

func TestFromInt64(t *testing.T) {
	a := assert.New(t)
	for i, n := range []int64{0, 1, -1, 42, -99999, math.MaxInt64, math.MinInt64} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			want := new(big.Int).Lsh(big.NewInt(n), ScaleBits)
			a.Equal(want.String(), FromInt64(n).Mantissa().String())
		})
	}
}

func TestFromBigInt(t *testing.T) {
	a := assert.New(t)
	n := pow2(100)
	v, err := FromBigInt(n)
	a.NoError(err)
	a.Equal(pow2(116).String(), v.Mantissa().String())

	v, err = FromBigInt(new(big.Int).Neg(n))
	a.NoError(err)
	a.Equal("-"+pow2(116).String(), v.Mantissa().String())

	// The integer range tops out just below 2^110: scaling adds 16 bits.
	_, err = FromBigInt(new(big.Int).Sub(pow2(110), big.NewInt(1)))
	a.NoError(err)
	_, err = FromBigInt(pow2(110))
	var oe *OverflowError
	a.ErrorAs(err, &oe)
	a.EqualValues(MaxMagnitudeBits, oe.Bits)
}

func TestFromFloat64(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		f        float64
		mantissa string
	}{
		{0, "0"},
		{0.5, "32768"},
		{1.5, "98304"},
		{-1.5, "-98304"},
		{0.25, "16384"},
		{-3.75, "-245760"},
		{1024, "67108864"},
		{-0.00001, "0"}, // truncation toward zero
		{math.Pi, "205887"},
		{1e18, "65536000000000000000000"},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			v, err := FromFloat64(test.f)
			a.NoError(err)
			a.Equal(test.mantissa, v.Mantissa().String())
		})
	}
}

func TestFromFloat64Errors(t *testing.T) {
	a := assert.New(t)
	for i, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			_, err := FromFloat64(f)
			a.EqualError(err, "bad float number")
		})
	}

	_, err := FromFloat64(math.MaxFloat64)
	var oe *OverflowError
	a.ErrorAs(err, &oe)
	a.EqualValues(MaxMagnitudeBits, oe.Bits)
}

func TestFloat64(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		v Value
		f float64
	}{
		{Zero(), 0},
		{MustFromString("1.5"), 1.5},
		{MustFromString("-0.5"), -0.5},
		{FromInt64(123456789), 1.23456789e8},
		{MustFromString("0.1"), 6553.0 / 65536.0},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			a.Equal(test.f, test.v.Float64())
		})
	}
}

func TestDecimal(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		v   Value
		dec string
	}{
		{Zero(), "0"},
		{MustFromString("1.5"), "1.5"},
		{MustFromString("-0.5"), "-0.5"},
		{MustFromString("0.1"), "0.0999908447265625"},
		{FromInt64(42), "42"},
		{mustMant(1), "0.0000152587890625"},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			d := test.v.Decimal()
			a.True(decimal.RequireFromString(test.dec).Equal(d), "got %s", d)
		})
	}
}

func TestFromDecimal(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		dec, mantissa string
	}{
		{"1.5", "98304"},
		{"-12.5", "-819200"},
		{"0.1", "6553"},
		{"-0.1", "-6553"},
		{"1e2", "6553600"},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			v, err := FromDecimal(decimal.RequireFromString(test.dec))
			a.NoError(err)
			a.Equal(test.mantissa, v.Mantissa().String())
		})
	}

	_, err := FromDecimal(decimal.New(1, 34))
	var oe *OverflowError
	a.ErrorAs(err, &oe)
	a.EqualValues(MaxMagnitudeBits, oe.Bits)
}

func TestString(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		v      Value
		result string
	}{
		{Zero(), "0"},
		{FromInt64(3), "3"},
		{FromInt64(-7), "-7"},
		{MustFromString("1.75"), "1.75"},
		{MustFromString("-0.5"), "-0.5"},
		{MustFromString("-12.25"), "-12.25"},
		{mustMant(1), "0.0000152587890625"},
		{mustMant(-1), "-0.0000152587890625"},
	}
	for i, test := range tests {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			a.Equal(test.result, test.v.String())
			a.Equal(test.v, MustFromString(test.result))
		})
	}
}

func TestGoString(t *testing.T) {
	a := assert.New(t)
	a.Equal("1.5 {98304}", MustFromString("1.5").GoString())
	a.Equal("-0.5 {-32768}", MustFromString("-0.5").GoString())
	a.Equal("0 {0}", Zero().GoString())
}

func TestJSON(t *testing.T) {
	a := assert.New(t)
	type wrapper struct {
		N Value `json:"n"`
	}

	data, err := json.Marshal(wrapper{N: MustFromString("-12.5")})
	a.NoError(err)
	a.Equal(`{"n":"-12.5"}`, string(data))

	var w wrapper
	a.NoError(json.Unmarshal([]byte(`{"n":"3.25"}`), &w))
	a.Equal(MustFromString("3.25"), w.N)

	a.NoError(json.Unmarshal([]byte(`{"n":7.5}`), &w))
	a.Equal(MustFromString("7.5"), w.N)

	a.NoError(json.Unmarshal([]byte(`{"n":1e3}`), &w))
	a.Equal(FromInt64(1000), w.N)

	a.Error(json.Unmarshal([]byte(`{"n":"xyz"}`), &w))

	var v Value
	a.EqualError(v.UnmarshalJSON(nil), "empty json")
}
