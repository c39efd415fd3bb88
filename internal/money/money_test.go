package money

import "testing"

func TestFormat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{5, "$5.00"},
		{72000, "$72,000.00"},
		{1234567.891, "$1,234,567.89"},
		{-2500.5, "-$2,500.50"},
		{999.999, "$1,000.00"},
	}
	for _, c := range cases {
		if got := Format(c.in); got != c.want {
			t.Errorf("Format(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatWhole(t *testing.T) {
	if got := FormatWhole(1234.5); got != "$1,235" {
		t.Errorf("FormatWhole(1234.5) = %q, want $1,235", got)
	}
	if got := FormatWhole(-12000); got != "-$12,000" {
		t.Errorf("FormatWhole(-12000) = %q, want -$12,000", got)
	}
}

func TestEncodeDecodeExact(t *testing.T) {
	for _, v := range []float64{0, 0.1, 1000.0 / 3, 87.65432109876, 1e9 + 0.01} {
		got, err := Decode(Encode(v))
		if err != nil {
			t.Fatalf("Decode(Encode(%v)): %v", v, err)
		}
		if got != v {
			t.Errorf("Decode(Encode(%v)) = %v, want exact", v, got)
		}
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"12000", 12000},
		{"$12,000.50", 12000.5},
		{" 1_500 ", 1500},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("Parse(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	if _, err := Parse("twelve"); err == nil {
		t.Error("Parse(\"twelve\") succeeded, want error")
	}
}

func TestRound(t *testing.T) {
	if got := Round(10.005); got != 10.01 {
		t.Errorf("Round(10.005) = %v, want 10.01", got)
	}
	if got := Round(166.666666); got != 166.67 {
		t.Errorf("Round(166.666666) = %v, want 166.67", got)
	}
}
