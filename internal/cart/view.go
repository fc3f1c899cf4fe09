package cart

import "storefront/internal/domain"

// View is the cart as rendered to the client.
type View struct {
	Items []domain.CartLine `json:"items"`
	Total int64             `json:"total"`
}

func ViewOf(lines []domain.CartLine) View {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return View{Items: lines, Total: Total(lines)}
}
