package domain

// ProductType categorizes products many-to-one. The backend rejects deleting
// a type that is still referenced by a product.
type ProductType struct {
	ID   int64  `json:"id"`
	Name string `json:"nameType"`
}

type Product struct {
	Code        int64       `json:"code"`
	Name        string      `json:"name"`
	Photo       string      `json:"photo"`
	Description string      `json:"description"`
	Quantity    int         `json:"quantity"`
	Price       int64       `json:"price"`
	ProductType ProductType `json:"productType"`
}

// ProductSnapshot is the subset of product fields captured at add-to-cart
// time and sent with a transaction. Display always uses the snapshot, never
// a live product, since the product may change or be deleted before payment.
type ProductSnapshot struct {
	Code     int64  `json:"code"`
	Photo    string `json:"photo"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}
