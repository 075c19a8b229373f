package reports

import (
	"reflect"
	"testing"
)

func TestCountOperands_HandlesEveryStoredShape(t *testing.T) {
	cases := []struct {
		name     string
		raw      []byte
		expected int
	}{
		{"nil", nil, 0},
		{"empty bytes", []byte(""), 0},
		{"whitespace", []byte("   "), 0},
		{"json null", []byte("null"), 0},
		{"empty array", []byte("[]"), 0},
		{"array of three", []byte("[1, 2, 3]"), 3},
		{"array of one", []byte("[42]"), 1},
		{"nested values still count as elements", []byte(`[1, [2, 3], "x"]`), 3},
		{"json string with commas", []byte(`"1, 2, 3"`), 3},
		{"json string single value", []byte(`"10"`), 1},
		{"json empty string", []byte(`""`), 0},
		{"json string only commas", []byte(`" , , "`), 0},
		{"bare number", []byte("7"), 0},
		{"bare bool", []byte("true"), 0},
		{"json object", []byte(`{"a": 1}`), 0},
		{"legacy plain text", []byte("10, 2"), 2},
		{"legacy plain text trailing comma", []byte("10, 2,"), 2},
	}
	for _, tc := range cases {
		if got := CountOperands(tc.raw); got != tc.expected {
			t.Errorf("%s: CountOperands(%q) = %d, expected %d", tc.name, tc.raw, got, tc.expected)
		}
	}
}

func TestDecodeOperands(t *testing.T) {
	cases := []struct {
		name     string
		raw      []byte
		expected []float64
	}{
		{"nil", nil, []float64{}},
		{"json null", []byte("null"), []float64{}},
		{"json array", []byte("[1.5, 2, -3]"), []float64{1.5, 2, -3}},
		{"json string", []byte(`"10, 2"`), []float64{10, 2}},
		{"legacy plain text", []byte("10, 2"), []float64{10, 2}},
		{"unparseable pieces skipped", []byte("10, x, 2"), []float64{10, 2}},
		{"bare number", []byte("7"), []float64{}},
	}
	for _, tc := range cases {
		got := decodeOperands(tc.raw)
		if !reflect.DeepEqual(got, tc.expected) {
			t.Errorf("%s: decodeOperands(%q) = %v, expected %v", tc.name, tc.raw, got, tc.expected)
		}
	}
}

func TestRoundToTwoDecimals(t *testing.T) {
	cases := []struct {
		in       float64
		expected float64
	}{
		{0, 0},
		{2.5, 2.5},
		{7.0 / 3.0, 2.33},
		{2.0 / 3.0, 0.67},
		{5.0 / 2.0, 2.5},
		{-7.0 / 3.0, -2.33},
	}
	for _, tc := range cases {
		if got := roundToTwoDecimals(tc.in); got != tc.expected {
			t.Errorf("roundToTwoDecimals(%v) = %v, expected %v", tc.in, got, tc.expected)
		}
	}
}
