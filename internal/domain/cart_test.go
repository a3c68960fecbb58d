package domain

import "testing"

func TestCartTotalsScenario(t *testing.T) {
	lines := []CartLine{
		{Product: Product{ID: "1", PriceMinor: 4500}, Quantity: 1},
		{Product: Product{ID: "2", PriceMinor: 8999}, Quantity: 2},
	}

	if got := CartCount(lines); got != 3 {
		t.Fatalf("expected count 3, got %d", got)
	}
	if got := CartTotal(lines); got != 22498 {
		t.Fatalf("expected total 22498, got %d", got)
	}
}

func TestCartTotalsEmpty(t *testing.T) {
	if got := CartTotal(nil); got != 0 {
		t.Fatalf("expected total 0, got %d", got)
	}
	if got := CartCount(nil); got != 0 {
		t.Fatalf("expected count 0, got %d", got)
	}
}

func TestCloneLinesIsIndependent(t *testing.T) {
	lines := []CartLine{{Product: Product{ID: "1", PriceMinor: 100}, Quantity: 1}}

	clone := CloneLines(lines)
	clone[0].Quantity = 9

	if lines[0].Quantity != 1 {
		t.Fatalf("clone mutated the source: %+v", lines[0])
	}
	if CloneLines(nil) != nil {
		t.Fatal("clone of nil should stay nil")
	}
}
