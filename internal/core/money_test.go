package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{".50", 50, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestFormatKronor(t *testing.T) {
	cases := []struct {
		cents int64
		out   string
	}{
		{0, "0,00 kr"},
		{1, "0,01 kr"},
		{500000, "5000,00 kr"},
		{123456, "1234,56 kr"},
		{-250, "-2,50 kr"},
	}
	for _, tc := range cases {
		if got := FormatKronor(tc.cents); got != tc.out {
			t.Fatalf("%d expected %q, got %q", tc.cents, tc.out, got)
		}
	}
}
