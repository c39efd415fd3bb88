package theme

import "testing"

func TestByName_FallsBackToDefault(t *testing.T) {
	if got := ByName("nope").Name; got != "flexoki-dark" {
		t.Fatalf("ByName(unknown) = %q, want flexoki-dark", got)
	}
	if got := ByName("tokyo-night").Name; got != "tokyo-night" {
		t.Fatalf("ByName(tokyo-night) = %q", got)
	}
}

func TestNamesAndKnown(t *testing.T) {
	names := Names()
	if len(names) != len(All) {
		t.Fatalf("len(Names()) = %d, want %d", len(names), len(All))
	}
	for _, n := range names {
		if !Known(n) {
			t.Errorf("Known(%q) = false", n)
		}
	}
	if Known("solarized") {
		t.Error("Known(solarized) = true")
	}
}

func TestAmountColor(t *testing.T) {
	th := FlexokiDark
	if th.Amount(10) != th.Green || th.Amount(0) != th.Green {
		t.Error("non-negative amount not green")
	}
	if th.Amount(-1) != th.Red {
		t.Error("negative amount not red")
	}
}
