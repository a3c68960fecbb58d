package domain

// CartLine is one cart position: a product snapshot plus a quantity.
// The cart holds at most one line per product ID and every retained line
// has Quantity >= 1; a line driven to zero or below is removed, never kept.
type CartLine struct {
	Product  Product
	Quantity int
}

// LineTotal returns price times quantity for this line.
func (l CartLine) LineTotal() int64 {
	return l.Product.PriceMinor * int64(l.Quantity)
}

// CartTotal sums price times quantity over the given lines. Derived values are
// always recomputed from the lines, never cached.
func CartTotal(lines []CartLine) int64 {
	var total int64
	for _, line := range lines {
		total += line.LineTotal()
	}
	return total
}

// CartCount sums the quantities over the given lines.
func CartCount(lines []CartLine) int {
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count
}

// CloneLines returns a deep-enough copy of the lines so callers cannot
// mutate the cart through a returned slice.
func CloneLines(lines []CartLine) []CartLine {
	if lines == nil {
		return nil
	}
	out := make([]CartLine, len(lines))
	copy(out, lines)
	return out
}
