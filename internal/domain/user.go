package domain

type User struct {
	ID          int64  `json:"id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

type ShippingAddress struct {
	ID           int64  `json:"id"`
	IDClient     int64  `json:"idClient"`
	FullName     string `json:"fullName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	Region       string `json:"region"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
}
