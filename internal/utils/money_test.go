package utils

import "testing"

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{1000, "10.00"},
		{12550, "125.50"},
		{-250, "-2.50"},
	}
	for _, tc := range cases {
		if got := FormatMoney(tc.cents); got != tc.want {
			t.Errorf("FormatMoney(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"10.00", 1000},
		{"0.05", 5},
		{"125.5", 12550},
		{"7", 700},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if err != nil {
			t.Errorf("ParseMoney(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseMoney(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "abc", "10.123", "1,000.00"} {
		if _, err := ParseMoney(bad); err == nil {
			t.Errorf("ParseMoney(%q) accepted invalid input", bad)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-09-10")
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	if d.Year() != 2026 || d.Month() != 9 || d.Day() != 10 {
		t.Fatalf("unexpected date: %v", d)
	}
	if _, err := ParseDate("10/09/2026"); err == nil {
		t.Fatalf("accepted wrong layout")
	}
}
