package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Order is a completed checkout. Total is the authoritative charged amount:
// it may be lower than the sum of item subtotals when a payment-method
// discount was applied at checkout.
type Order struct {
	ID        string      `json:"id"`
	UserName  string      `json:"userName,omitempty"`
	UserEmail string      `json:"userEmail,omitempty"`
	Total     int         `json:"total"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	Items     []OrderItem `json:"orderItems"`
}

// OrderItem is one line of an order. Price is the unit price captured at
// purchase time and never changes, even if the product is later repriced.
type OrderItem struct {
	ID        string   `json:"id"`
	OrderID   string   `json:"orderId"`
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	Price     int      `json:"price"`
	Product   *Product `json:"product,omitempty"`
}

func (i OrderItem) Subtotal() int {
	return i.Quantity * i.Price
}

// OrderFilter narrows an order listing.
type OrderFilter struct {
	Status OrderStatus
	Page   int
	Limit  int
}
