// Package cart implements the shared cart operations. Lines live in the
// session; these functions never mutate their input.
package cart

import (
	"storefront/internal/domain"
)

// Add merges a snapshot into the lines. Re-adding a product accumulates its
// quantity; a product appears at most once.
func Add(lines []domain.CartLine, line domain.CartLine) []domain.CartLine {
	if line.Quantity < 0 {
		line.Quantity = 0
	}

	out := make([]domain.CartLine, len(lines))
	copy(out, lines)

	for i := range out {
		if out[i].Code == line.Code {
			out[i].Quantity += line.Quantity
			return out
		}
	}
	return append(out, line)
}

func Remove(lines []domain.CartLine, code int64) []domain.CartLine {
	out := make([]domain.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.Code != code {
			out = append(out, l)
		}
	}
	return out
}

// SetQuantity overwrites a line's quantity, clamped at zero. Unknown codes
// are a no-op.
func SetQuantity(lines []domain.CartLine, code int64, qty int) []domain.CartLine {
	if qty < 0 {
		qty = 0
	}

	out := make([]domain.CartLine, len(lines))
	copy(out, lines)

	for i := range out {
		if out[i].Code == code {
			out[i].Quantity = qty
			break
		}
	}
	return out
}

func Clear() []domain.CartLine {
	return nil
}

func Total(lines []domain.CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// Snapshots returns the transaction payload for the current lines.
func Snapshots(lines []domain.CartLine) []domain.ProductSnapshot {
	out := make([]domain.ProductSnapshot, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Snapshot())
	}
	return out
}
